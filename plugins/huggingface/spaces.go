package huggingface

import (
	"cmp"
	"context"
	"net/url"
	"slices"
	"strconv"
	"time"

	"github.com/va6996/ainews/core"
	"github.com/va6996/ainews/log"
)

// SpacesParams selects the trending Spaces to fetch
type SpacesParams struct {
	Limit int
}

type space struct {
	ID            string   `json:"id"`
	SDK           string   `json:"sdk"`
	TrendingScore float64  `json:"trendingScore"`
	Likes         int      `json:"likes"`
	Tags          []string `json:"tags"`
	Private       bool     `json:"private"`
	CreatedAt     string   `json:"createdAt"`
}

// FetchSpaces returns public Spaces ordered by trending score, highest first
func (c *Client) FetchSpaces(ctx context.Context, params SpacesParams) ([]core.Item, error) {
	limit, err := core.CheckLimit(params.Limit)
	if err != nil {
		return nil, err
	}

	query := url.Values{
		"sort":      {"trendingScore"},
		"direction": {"-1"},
		"limit":     {strconv.Itoa(limit)},
	}
	endpoint := c.BaseURL + "/api/spaces?" + query.Encode()

	var spaces []space
	if err := c.spaces.GetJSON(ctx, endpoint, &spaces); err != nil {
		return nil, err
	}

	// The API honors the sort, but the order is re-established locally so a
	// mirror or proxy returning a different order still yields trending first.
	slices.SortStableFunc(spaces, func(a, b space) int {
		return cmp.Compare(b.TrendingScore, a.TrendingScore)
	})

	items := make([]core.Item, 0, min(len(spaces), limit))
	for _, s := range spaces {
		if len(items) == limit {
			break
		}
		if s.Private {
			continue
		}
		item := s.toItem()
		if err := item.Validate(); err != nil {
			log.Debugf(ctx, "skipping space: %v", err)
			continue
		}
		items = append(items, item)
	}

	log.Debugf(ctx, "fetched %d trending spaces", len(items))
	return items, nil
}

func (s space) toItem() core.Item {
	item := core.Item{
		Source: core.SourceSpace,
		ID:     s.ID,
		Title:  s.ID,
		Score:  s.TrendingScore,
		Likes:  s.Likes,
	}
	if s.ID != "" {
		item.URL = siteURL + "/spaces/" + s.ID
	}
	if s.SDK != "" {
		item.Tags = append(item.Tags, "sdk:"+s.SDK)
	}
	item.Tags = append(item.Tags, s.Tags...)
	if ts, err := time.Parse(time.RFC3339, s.CreatedAt); err == nil {
		item.PublishedAt = core.Timestamp(ts)
	}
	return item
}
