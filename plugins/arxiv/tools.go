package arxiv

import (
	"context"
	"fmt"
	"strings"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"
	"github.com/va6996/ainews/core"
	"github.com/va6996/ainews/log"
	toolspkg "github.com/va6996/ainews/tools"
)

type PapersInput struct {
	Limit int    `json:"limit,omitempty" jsonschema_description:"Maximum number of papers to return (1-100, default 10)"`
	Query string `json:"query,omitempty" jsonschema_description:"Optional arXiv search query such as 'all:agents'; omit for the most recent papers"`
}

type PapersOutput struct {
	Papers       []core.Item `json:"papers"`
	TotalFetched int         `json:"total_fetched"`
	Query        string      `json:"query"`
	Error        string      `json:"error,omitempty"`
}

type PapersTool struct {
	client *Client
}

func NewPapersTool(client *Client, gk *genkit.Genkit, registry *toolspkg.Registry) *PapersTool {
	t := &PapersTool{client: client}
	if gk == nil || registry == nil {
		return t
	}

	registry.Register(genkit.DefineTool(
		gk,
		"arxiv",
		"Fetch AI research papers from arXiv. Searches by keywords or lists the most recent submissions in the Artificial Intelligence category, with title, authors, abstract, publication date and PDF link.",
		func(ctx *ai.ToolContext, input *PapersInput) (*PapersOutput, error) {
			out, err := t.Execute(ctx, input)
			if msg, ok := toolspkg.FailureMessage(ctx, err); ok {
				return &PapersOutput{Papers: []core.Item{}, Error: msg}, nil
			}
			return out, err
		},
	), func(ctx context.Context, args map[string]interface{}) (interface{}, error) {
		var input PapersInput
		if err := toolspkg.DecodeArgs(args, &input); err != nil {
			return nil, err
		}
		return t.Execute(ctx, &input)
	})
	return t
}

func (t *PapersTool) Execute(ctx context.Context, input *PapersInput) (*PapersOutput, error) {
	if input == nil {
		input = &PapersInput{}
	}
	log.Debugf(ctx, "ArxivTool executing: limit=%d query=%q", input.Limit, input.Query)

	if t.client == nil {
		return nil, fmt.Errorf("arxiv client not initialized")
	}

	papers, err := t.client.FetchPapers(ctx, Params{Limit: input.Limit, Query: input.Query})
	if err != nil {
		log.Errorf(ctx, "ArxivTool failed: %v", err)
		return nil, err
	}

	query := strings.TrimSpace(input.Query)
	if query == "" {
		query = fmt.Sprintf("recent %s papers", t.client.Category)
	}

	log.Debugf(ctx, "ArxivTool completed successfully. Found %d papers.", len(papers))
	return &PapersOutput{Papers: papers, TotalFetched: len(papers), Query: query}, nil
}
