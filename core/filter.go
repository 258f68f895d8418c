package core

import (
	"cmp"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
)

// DefaultAIKeywords decides whether a story is about AI/ML
var DefaultAIKeywords = []string{
	"ai",
	"artificial intelligence",
	"ml",
	"machine learning",
	"deep learning",
	"neural network",
	"llm",
	"gpt",
	"transformer",
	"generative",
	"diffusion",
	"pytorch",
	"tensorflow",
	"hugging face",
	"openai",
	"anthropic",
	"claude",
	"chatgpt",
	"stable diffusion",
	"midjourney",
	"langchain",
	"embedding",
	"fine-tuning",
	"reinforcement learning",
	"computer vision",
	"nlp",
	"natural language",
	"rag",
	"retrieval augmented",
}

// FilterByKeywords returns the items whose title, summary or tags mention
// any keyword, in their original order. An empty keyword set returns items
// unchanged.
func FilterByKeywords(items []Item, keywords []string) []Item {
	matcher := NewKeywordMatcher(keywords)
	if matcher.Empty() {
		return items
	}

	out := make([]Item, 0, len(items))
	for _, item := range items {
		if matcher.MatchItem(item) {
			out = append(out, item)
		}
	}
	return out
}

// SortByScore returns a copy of items ordered by Score. Ties keep their
// original relative order, so sorting twice yields the same sequence.
func SortByScore(items []Item, descending bool) []Item {
	out := slices.Clone(items)
	slices.SortStableFunc(out, func(a, b Item) int {
		if descending {
			return cmp.Compare(b.Score, a.Score)
		}
		return cmp.Compare(a.Score, b.Score)
	})
	return out
}

// Limit returns at most n leading items
func Limit(items []Item, n int) []Item {
	if n < 0 || len(items) <= n {
		return items
	}
	return items[:n]
}

// KeywordMatcher matches case-folded keywords on word boundaries, so "ai"
// matches "AI-powered" but not "said". A trailing plural "s" is accepted, and
// a keyword ending in a letter also accepts a version suffix such as "gpt4o".
type KeywordMatcher struct {
	keywords []string
}

// NewKeywordMatcher folds and de-duplicates keywords, dropping blanks
func NewKeywordMatcher(keywords []string) *KeywordMatcher {
	fold := cases.Fold()
	seen := make(map[string]bool, len(keywords))
	m := &KeywordMatcher{}
	for _, kw := range keywords {
		kw = strings.TrimSpace(fold.String(kw))
		if kw == "" || seen[kw] {
			continue
		}
		seen[kw] = true
		m.keywords = append(m.keywords, kw)
	}
	return m
}

// Empty reports whether the matcher has no keywords
func (m *KeywordMatcher) Empty() bool {
	return len(m.keywords) == 0
}

// MatchItem checks the item's title, summary and tags
func (m *KeywordMatcher) MatchItem(item Item) bool {
	text := item.Title + " " + item.Summary + " " + strings.Join(item.Tags, " ")
	return m.Match(text)
}

// Match reports whether text contains any keyword
func (m *KeywordMatcher) Match(text string) bool {
	folded := cases.Fold().String(text)
	for _, kw := range m.keywords {
		if containsWord(folded, kw) {
			return true
		}
	}
	return false
}

func containsWord(text, word string) bool {
	for offset := 0; offset < len(text); {
		idx := strings.Index(text[offset:], word)
		if idx < 0 {
			return false
		}
		start := offset + idx
		end := start + len(word)

		if boundaryBefore(text, start) {
			if boundaryAt(text, end) {
				return true
			}
			if end < len(text) && text[end] == 's' && boundaryAt(text, end+1) {
				return true
			}
			if endsInLetter(word) {
				if next := versionSuffixEnd(text, end); next > end && boundaryAt(text, next) {
					return true
				}
			}
		}
		_, size := utf8.DecodeRuneInString(text[start:])
		offset = start + size
	}
	return false
}

func endsInLetter(word string) bool {
	r, _ := utf8.DecodeLastRuneInString(word)
	return unicode.IsLetter(r)
}

// versionSuffixEnd returns the index after a run of ASCII digits starting at i
// followed by at most two letters, or i when no digit follows.
func versionSuffixEnd(text string, i int) int {
	j := i
	for j < len(text) && text[j] >= '0' && text[j] <= '9' {
		j++
	}
	if j == i {
		return i
	}
	for k := 0; k < 2 && j < len(text) && text[j] >= 'a' && text[j] <= 'z'; k++ {
		j++
	}
	return j
}

func boundaryBefore(text string, i int) bool {
	if i == 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(text[:i])
	return !isWordRune(r)
}

func boundaryAt(text string, i int) bool {
	if i >= len(text) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(text[i:])
	return !isWordRune(r)
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
