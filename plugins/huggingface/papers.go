package huggingface

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/va6996/ainews/core"
	"github.com/va6996/ainews/log"
)

// PapersParams selects the daily papers to fetch
type PapersParams struct {
	Limit int
	Date  string // YYYY-MM-DD, empty for the latest day
}

type dailyPaper struct {
	Paper       paper  `json:"paper"`
	PublishedAt string `json:"publishedAt"`
	NumComments int    `json:"numComments"`
	Title       string `json:"title"`
	Summary     string `json:"summary"`
}

type paper struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Summary     string   `json:"summary"`
	AISummary   string   `json:"ai_summary"`
	AIKeywords  []string `json:"ai_keywords"`
	Authors     []author `json:"authors"`
	Upvotes     int      `json:"upvotes"`
	GithubRepo  string   `json:"githubRepo"`
	GithubStars *int     `json:"githubStars"`
	PublishedAt string   `json:"publishedAt"`
}

type author struct {
	Name   string `json:"name"`
	Hidden bool   `json:"hidden"`
}

// FetchPapers returns the first Limit entries of the daily papers feed
func (c *Client) FetchPapers(ctx context.Context, params PapersParams) ([]core.Item, error) {
	limit, err := core.CheckLimit(params.Limit)
	if err != nil {
		return nil, err
	}

	endpoint := c.BaseURL + "/api/daily_papers"
	if params.Date != "" {
		if _, err := time.Parse(time.DateOnly, params.Date); err != nil {
			return nil, fmt.Errorf("%w: date must be YYYY-MM-DD, got %q", core.ErrInvalidArgument, params.Date)
		}
		endpoint += "?" + url.Values{"date": {params.Date}}.Encode()
	}

	var feed []dailyPaper
	if err := c.papers.GetJSON(ctx, endpoint, &feed); err != nil {
		return nil, err
	}

	if len(feed) > limit {
		feed = feed[:limit]
	}

	items := make([]core.Item, 0, len(feed))
	for _, entry := range feed {
		item := entry.toItem()
		if err := item.Validate(); err != nil {
			log.Debugf(ctx, "skipping daily paper: %v", err)
			continue
		}
		items = append(items, item)
	}

	log.Debugf(ctx, "fetched %d daily papers", len(items))
	return items, nil
}

func (e dailyPaper) toItem() core.Item {
	p := e.Paper
	item := core.Item{
		Source:   core.SourcePaper,
		ID:       p.ID,
		Title:    p.Title,
		Summary:  p.AISummary,
		Score:    float64(p.Upvotes),
		Comments: e.NumComments,
		Tags:     p.AIKeywords,
	}
	if item.Title == "" {
		item.Title = e.Title
	}
	if item.Summary == "" {
		item.Summary = p.Summary
	}
	if item.Summary == "" {
		item.Summary = e.Summary
	}
	if p.ID != "" {
		item.URL = siteURL + "/papers/" + p.ID
	}

	for _, a := range p.Authors {
		if a.Hidden || a.Name == "" {
			continue
		}
		item.Authors = append(item.Authors, a.Name)
	}

	published := e.PublishedAt
	if published == "" {
		published = p.PublishedAt
	}
	if ts, err := time.Parse(time.RFC3339, published); err == nil {
		item.PublishedAt = core.Timestamp(ts)
	}

	if p.GithubRepo != "" {
		item.Links = map[string]string{"github": p.GithubRepo}
	}
	if p.GithubStars != nil {
		item.Stars = *p.GithubStars
	}
	return item
}
