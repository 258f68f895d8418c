package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func story(title string, score float64) Item {
	return Item{Source: SourceStory, Title: title, URL: "https://example.com/" + title, Score: score}
}

func TestFilterByKeywords_EmptyKeywordsReturnsInput(t *testing.T) {
	items := []Item{story("Rust 2.0 released", 10), story("A new diffusion model", 5)}

	assert.Equal(t, items, FilterByKeywords(items, nil))
	assert.Equal(t, items, FilterByKeywords(items, []string{}))
	assert.Equal(t, items, FilterByKeywords(items, []string{"  ", ""}))
}

func TestFilterByKeywords_HackerNewsMix(t *testing.T) {
	items := []Item{
		story("OpenAI ships a new reasoning model", 300),
		story("Show HN: My homemade sourdough starter", 120),
		story("Fine-tuning LLMs on a single GPU", 80),
		story("The history of the QWERTY keyboard", 95),
		story("PyTorch 3.0 released", 40),
	}

	got := FilterByKeywords(items, DefaultAIKeywords)

	assert.Len(t, got, 3)
	assert.Equal(t, "OpenAI ships a new reasoning model", got[0].Title)
	assert.Equal(t, "Fine-tuning LLMs on a single GPU", got[1].Title)
	assert.Equal(t, "PyTorch 3.0 released", got[2].Title)
}

func TestKeywordMatcher_WordBoundaries(t *testing.T) {
	m := NewKeywordMatcher([]string{"AI", "rag", "machine learning"})

	tests := []struct {
		text string
		want bool
	}{
		{"AI-powered search", true},
		{"Why ai matters", true},
		{"He said it was fine", false},
		{"Cloud storage pricing", false},
		{"RAG pipelines in production", true},
		{"Intro to Machine Learning", true},
		{"Building AIs for games", true},
		{"MAIN street", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, m.Match(tt.text))
		})
	}
}

func TestKeywordMatcher_VersionSuffix(t *testing.T) {
	m := NewKeywordMatcher([]string{"gpt", "llama"})

	tests := []struct {
		text string
		want bool
	}{
		{"GPT4 benchmarks", true},
		{"Trying GPT4o today", true},
		{"GPT-4 system card", true},
		{"llama3 fine-tunes", true},
		{"Llama2b release", true},
		{"gpt4turbo", false},
		{"gptx", false},
		{"chatgpt4", false},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, m.Match(tt.text))
		})
	}

	ai := NewKeywordMatcher([]string{"ai"})
	assert.False(t, ai.Match("He said it was fine"))
	assert.True(t, ai.Match("AI2 released a model"))
}

func TestFilterByKeywords_MatchesSummaryAndTags(t *testing.T) {
	items := []Item{
		{Source: SourceStory, Title: "Untitled", URL: "u1", Summary: "a post about transformers"},
		{Source: SourceSpace, Title: "user/demo", URL: "u2", Tags: []string{"nlp"}},
		{Source: SourceSpace, Title: "user/other", URL: "u3", Tags: []string{"games"}},
	}

	got := FilterByKeywords(items, []string{"transformer", "nlp"})
	assert.Len(t, got, 2)
	assert.Equal(t, "u1", got[0].URL)
	assert.Equal(t, "u2", got[1].URL)
}

func TestSortByScore_DescendingStable(t *testing.T) {
	items := []Item{story("a", 5), story("b", 10), story("c", 5), story("d", 1), story("e", 10)}

	got := SortByScore(items, true)

	titles := make([]string, len(got))
	for i, it := range got {
		titles[i] = it.Title
	}
	assert.Equal(t, []string{"b", "e", "a", "c", "d"}, titles)
	assert.Equal(t, "a", items[0].Title, "input must not be reordered")
}

func TestSortByScore_Ascending(t *testing.T) {
	got := SortByScore([]Item{story("a", 3), story("b", 1), story("c", 2)}, false)
	assert.Equal(t, []float64{1, 2, 3}, []float64{got[0].Score, got[1].Score, got[2].Score})
}

func TestSortByScore_Idempotent(t *testing.T) {
	items := []Item{story("x", 2), story("y", 7), story("z", 2), story("w", 7)}

	once := SortByScore(items, true)
	twice := SortByScore(once, true)
	assert.Equal(t, once, twice)
}

func TestLimit(t *testing.T) {
	items := []Item{story("a", 1), story("b", 2), story("c", 3)}

	assert.Len(t, Limit(items, 2), 2)
	assert.Len(t, Limit(items, 10), 3)
	assert.Empty(t, Limit(items, 0))
}
