package hackernews

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/firebase/genkit/go/genkit"
	"github.com/va6996/ainews/config"
	"github.com/va6996/ainews/core"
	"github.com/va6996/ainews/log"
	"github.com/va6996/ainews/plugins/upstream"
	"github.com/va6996/ainews/tools"
	"golang.org/x/sync/errgroup"
)

const (
	defaultBaseURL    = "https://hacker-news.firebaseio.com/v0"
	discussionURL     = "https://news.ycombinator.com/item?id="
	defaultMaxChecked = 200
	defaultWorkers    = 8
)

// Client handles Hacker News Firebase API requests
type Client struct {
	BaseURL    string
	MaxChecked int
	Workers    int
	Keywords   []string
	http       *upstream.Client
}

// StoriesParams selects which top stories to keep
type StoriesParams struct {
	Limit    int
	Keywords []string // overrides the client keywords when non-empty
}

// StoriesResult carries the matching stories and how many ids were inspected
type StoriesResult struct {
	Stories []core.Item
	Checked int
}

type item struct {
	ID          int    `json:"id"`
	Type        string `json:"type"`
	By          string `json:"by"`
	Time        int64  `json:"time"`
	Title       string `json:"title"`
	URL         string `json:"url"`
	Text        string `json:"text"`
	Score       int    `json:"score"`
	Descendants int    `json:"descendants"`
	Dead        bool   `json:"dead"`
	Deleted     bool   `json:"deleted"`
}

// NewClient creates a Hacker News client and registers its tool when gk and
// registry are non-nil.
func NewClient(cfg config.HackerNewsConfig, timeout time.Duration, userAgent string, gk *genkit.Genkit, registry *tools.Registry) (*Client, error) {
	httpClient, err := upstream.NewClient(core.SourceStory, timeout, cfg.Proxy, userAgent)
	if err != nil {
		return nil, err
	}

	c := &Client{
		BaseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		MaxChecked: cfg.MaxChecked,
		Workers:    cfg.Workers,
		Keywords:   cfg.Keywords,
		http:       httpClient,
	}
	if c.BaseURL == "" {
		c.BaseURL = defaultBaseURL
	}
	if c.MaxChecked <= 0 {
		c.MaxChecked = defaultMaxChecked
	}
	if c.Workers <= 0 {
		c.Workers = defaultWorkers
	}
	if len(c.Keywords) == 0 {
		c.Keywords = core.DefaultAIKeywords
	}

	c.initTools(gk, registry)
	return c, nil
}

func (c *Client) initTools(gk *genkit.Genkit, registry *tools.Registry) {
	if gk == nil || registry == nil {
		return
	}
	NewStoriesTool(c, gk, registry)
}

// FetchStories walks the top stories in rank order, keeping those that
// match the keywords until Limit are found or MaxChecked ids were inspected.
// The kept stories are returned highest score first.
func (c *Client) FetchStories(ctx context.Context, params StoriesParams) (*StoriesResult, error) {
	limit, err := core.CheckLimit(params.Limit)
	if err != nil {
		return nil, err
	}
	keywords := params.Keywords
	if len(keywords) == 0 {
		keywords = c.Keywords
	}
	matcher := core.NewKeywordMatcher(keywords)

	var ids []int
	if err := c.http.GetJSON(ctx, c.BaseURL+"/topstories.json", &ids); err != nil {
		return nil, err
	}
	if len(ids) > c.MaxChecked {
		ids = ids[:c.MaxChecked]
	}

	result := &StoriesResult{Stories: make([]core.Item, 0, limit)}
	for start := 0; start < len(ids) && len(result.Stories) < limit; start += c.Workers {
		end := min(start+c.Workers, len(ids))
		batch, err := c.fetchItems(ctx, ids[start:end])
		if err != nil {
			return nil, err
		}

		// Consume in rank order so the checked count matches a sequential walk.
		for _, it := range batch {
			result.Checked++
			if story, ok := toStory(it); ok && matcher.MatchItem(story) {
				result.Stories = append(result.Stories, story)
				if len(result.Stories) == limit {
					break
				}
			}
		}
	}

	result.Stories = core.SortByScore(result.Stories, true)
	log.Debugf(ctx, "kept %d of %d checked stories", len(result.Stories), result.Checked)
	return result, nil
}

// fetchItems loads item details concurrently. Each result lands in the slot
// of its id; an item that fails to load leaves a nil slot.
func (c *Client) fetchItems(ctx context.Context, ids []int) ([]*item, error) {
	out := make([]*item, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.Workers)

	for i, id := range ids {
		g.Go(func() error {
			var it item
			endpoint := fmt.Sprintf("%s/item/%d.json", c.BaseURL, id)
			if err := c.http.GetJSON(gctx, endpoint, &it); err != nil {
				log.Debugf(gctx, "skipping item %d: %v", id, err)
				return nil
			}
			out[i] = &it
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func toStory(it *item) (core.Item, bool) {
	if it == nil || it.Type != "story" || it.Dead || it.Deleted || it.Title == "" {
		return core.Item{}, false
	}

	id := strconv.Itoa(it.ID)
	story := core.Item{
		Source:   core.SourceStory,
		ID:       id,
		Title:    it.Title,
		URL:      it.URL,
		Summary:  plainText(it.Text),
		Score:    float64(it.Score),
		Comments: it.Descendants,
		Links:    map[string]string{"discussion": discussionURL + id},
	}
	if story.URL == "" {
		story.URL = discussionURL + id
	}
	if it.By != "" {
		story.Authors = []string{it.By}
	}
	if it.Time > 0 {
		story.PublishedAt = core.Timestamp(time.Unix(it.Time, 0))
	}
	return story, true
}

// plainText strips the HTML markup HN uses in self-post text
func plainText(fragment string) string {
	if fragment == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return fragment
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}
