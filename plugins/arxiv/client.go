package arxiv

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/firebase/genkit/go/genkit"
	"github.com/mmcdole/gofeed/atom"
	"github.com/va6996/ainews/config"
	"github.com/va6996/ainews/core"
	"github.com/va6996/ainews/log"
	"github.com/va6996/ainews/plugins/upstream"
	"github.com/va6996/ainews/tools"
)

const (
	defaultBaseURL  = "https://export.arxiv.org"
	defaultCategory = "cs.AI"
	atomAccept      = "application/atom+xml"
)

// Client handles arXiv export API requests
type Client struct {
	BaseURL  string
	Category string
	http     *upstream.Client
}

// Params selects the preprints to fetch
type Params struct {
	Limit int
	Query string // free-text arXiv search, combined with the category
}

// NewClient creates an arXiv client and registers its tool when gk and
// registry are non-nil.
func NewClient(cfg config.ArxivConfig, timeout time.Duration, userAgent string, gk *genkit.Genkit, registry *tools.Registry) (*Client, error) {
	httpClient, err := upstream.NewClient(core.SourceArxivPaper, timeout, cfg.Proxy, userAgent)
	if err != nil {
		return nil, err
	}

	c := &Client{
		BaseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		Category: cfg.Category,
		http:     httpClient,
	}
	if c.BaseURL == "" {
		c.BaseURL = defaultBaseURL
	}
	if c.Category == "" {
		c.Category = defaultCategory
	}

	c.initTools(gk, registry)
	return c, nil
}

func (c *Client) initTools(gk *genkit.Genkit, registry *tools.Registry) {
	if gk == nil || registry == nil {
		return
	}
	NewPapersTool(c, gk, registry)
}

// SearchQuery builds the search_query value for an optional free-text query
func (c *Client) SearchQuery(query string) string {
	query = strings.TrimSpace(query)
	if query == "" {
		return "cat:" + c.Category
	}
	return fmt.Sprintf("cat:%s AND (%s)", c.Category, query)
}

// FetchPapers returns the most recently submitted preprints in the category
func (c *Client) FetchPapers(ctx context.Context, params Params) ([]core.Item, error) {
	limit, err := core.CheckLimit(params.Limit)
	if err != nil {
		return nil, err
	}

	values := url.Values{
		"search_query": {c.SearchQuery(params.Query)},
		"start":        {"0"},
		"max_results":  {strconv.Itoa(limit)},
		"sortBy":       {"submittedDate"},
		"sortOrder":    {"descending"},
	}
	endpoint := c.BaseURL + "/api/query?" + values.Encode()

	body, err := c.http.Get(ctx, endpoint, atomAccept)
	if err != nil {
		return nil, err
	}

	feed, err := (&atom.Parser{}).Parse(bytes.NewReader(body))
	if err != nil {
		log.Errorf(ctx, "decoding arXiv feed failed: %v", err)
		return nil, &core.ParseError{Source: core.SourceArxivPaper, Err: err}
	}

	items := make([]core.Item, 0, len(feed.Entries))
	for _, entry := range feed.Entries {
		// A rejected query comes back as a single entry under the errors namespace.
		if strings.Contains(entry.ID, "/api/errors") {
			return nil, &core.UpstreamError{
				Source: core.SourceArxivPaper,
				URL:    endpoint,
				Err:    errors.New(collapse(entry.Summary)),
			}
		}

		item := toItem(entry)
		if err := item.Validate(); err != nil {
			log.Debugf(ctx, "skipping arXiv entry: %v", err)
			continue
		}
		items = append(items, item)
		if len(items) == limit {
			break
		}
	}

	log.Debugf(ctx, "fetched %d arXiv papers for %q", len(items), values.Get("search_query"))
	return items, nil
}

func toItem(entry *atom.Entry) core.Item {
	item := core.Item{
		Source:  core.SourceArxivPaper,
		ID:      shortID(entry.ID),
		Title:   collapse(entry.Title),
		Summary: collapse(entry.Summary),
	}

	for _, a := range entry.Authors {
		if name := strings.TrimSpace(a.Name); name != "" {
			item.Authors = append(item.Authors, name)
		}
	}

	for _, link := range entry.Links {
		switch {
		case link.Title == "pdf":
			if item.Links == nil {
				item.Links = map[string]string{}
			}
			item.Links["pdf"] = link.Href
		case link.Rel == "alternate" && item.URL == "":
			item.URL = link.Href
		}
	}
	if item.URL == "" && strings.HasPrefix(entry.ID, "http") {
		item.URL = strings.TrimSpace(entry.ID)
	}

	if entry.PublishedParsed != nil {
		item.PublishedAt = core.Timestamp(*entry.PublishedParsed)
	}

	item.Tags = categories(entry)
	return item
}

// categories lists the primary category first, then the remaining ones
// without duplicates
func categories(entry *atom.Entry) []string {
	var out []string
	seen := map[string]bool{}
	add := func(term string) {
		if term == "" || seen[term] {
			return
		}
		seen[term] = true
		out = append(out, term)
	}

	if ext, ok := entry.Extensions["arxiv"]; ok {
		for _, primary := range ext["primary_category"] {
			add(primary.Attrs["term"])
		}
	}
	for _, cat := range entry.Categories {
		add(cat.Term)
	}
	return out
}

func shortID(id string) string {
	id = strings.TrimSpace(id)
	if i := strings.Index(id, "/abs/"); i >= 0 {
		return id[i+len("/abs/"):]
	}
	return id
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
