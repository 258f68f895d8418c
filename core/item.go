// Package core holds the normalized content model shared by every source
// client, plus the pure filter and sort helpers applied to it.
package core

import (
	"fmt"
	"time"
)

// Source identifies which provider an Item came from
type Source string

const (
	SourcePaper      Source = "paper"       // Hugging Face daily paper
	SourceSpace      Source = "space"       // Hugging Face Space
	SourceStory      Source = "story"       // Hacker News story
	SourceArxivPaper Source = "arxiv_paper" // arXiv preprint
)

// Valid reports whether s is one of the known sources
func (s Source) Valid() bool {
	switch s {
	case SourcePaper, SourceSpace, SourceStory, SourceArxivPaper:
		return true
	}
	return false
}

// Item is a paper, demo, story or preprint normalized from a provider response.
// Items live for a single request and are never mutated after construction;
// the URL is their identity.
type Item struct {
	Source      Source            `json:"source"`
	ID          string            `json:"id,omitempty"`
	Title       string            `json:"title"`
	URL         string            `json:"url"`
	Summary     string            `json:"summary,omitempty"`
	Score       float64           `json:"score,omitempty"`
	Comments    int               `json:"comments,omitempty"`
	Likes       int               `json:"likes,omitempty"`
	Stars       int               `json:"stars,omitempty"`
	Authors     []string          `json:"authors,omitempty"`
	PublishedAt *time.Time        `json:"published_at,omitempty"`
	Tags        []string          `json:"tags,omitempty"`
	Links       map[string]string `json:"links,omitempty"`
}

// Validate checks the fields every Item must carry
func (i Item) Validate() error {
	if !i.Source.Valid() {
		return fmt.Errorf("unknown source %q", i.Source)
	}
	if i.Title == "" {
		return fmt.Errorf("%s item %q has no title", i.Source, i.ID)
	}
	if i.URL == "" {
		return fmt.Errorf("%s item %q has no url", i.Source, i.ID)
	}
	return nil
}

// Timestamp returns a pointer to a UTC copy of t, or nil for the zero time
func Timestamp(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	utc := t.UTC()
	return &utc
}
