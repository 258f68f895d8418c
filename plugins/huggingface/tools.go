package huggingface

import (
	"context"
	"fmt"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"
	"github.com/va6996/ainews/core"
	"github.com/va6996/ainews/log"
	toolspkg "github.com/va6996/ainews/tools"
)

// --- Daily Papers Tool ---

type PapersInput struct {
	Limit int    `json:"limit,omitempty" jsonschema_description:"Maximum number of papers to return (1-100, default 10)"`
	Date  string `json:"date,omitempty" jsonschema_description:"Day to fetch in YYYY-MM-DD format; omit for the latest papers"`
}

type PapersOutput struct {
	Papers       []core.Item `json:"papers"`
	TotalFetched int         `json:"total_fetched"`
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
		"huggingface_papers",
		"Fetch daily trending papers from Hugging Face Hub. Returns recent AI/ML research papers with titles, summaries, authors, GitHub links and community upvotes.",
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
	log.Debugf(ctx, "PapersTool executing: limit=%d date=%q", input.Limit, input.Date)

	if t.client == nil {
		return nil, fmt.Errorf("huggingface client not initialized")
	}

	papers, err := t.client.FetchPapers(ctx, PapersParams{Limit: input.Limit, Date: input.Date})
	if err != nil {
		log.Errorf(ctx, "PapersTool failed: %v", err)
		return nil, err
	}

	log.Debugf(ctx, "PapersTool completed successfully. Found %d papers.", len(papers))
	return &PapersOutput{Papers: papers, TotalFetched: len(papers)}, nil
}

// --- Trending Spaces Tool ---

type SpacesInput struct {
	Limit int `json:"limit,omitempty" jsonschema_description:"Maximum number of trending spaces to return (1-100, default 10)"`
}

type SpacesOutput struct {
	Spaces       []core.Item `json:"spaces"`
	TotalFetched int         `json:"total_fetched"`
	Error        string      `json:"error,omitempty"`
}

type SpacesTool struct {
	client *Client
}

func NewSpacesTool(client *Client, gk *genkit.Genkit, registry *toolspkg.Registry) *SpacesTool {
	t := &SpacesTool{client: client}
	if gk == nil || registry == nil {
		return t
	}

	registry.Register(genkit.DefineTool(
		gk,
		"huggingface_spaces",
		"Fetch trending Spaces from Hugging Face Hub. Returns popular AI/ML demo applications sorted by trending score, with their SDK and tags.",
		func(ctx *ai.ToolContext, input *SpacesInput) (*SpacesOutput, error) {
			out, err := t.Execute(ctx, input)
			if msg, ok := toolspkg.FailureMessage(ctx, err); ok {
				return &SpacesOutput{Spaces: []core.Item{}, Error: msg}, nil
			}
			return out, err
		},
	), func(ctx context.Context, args map[string]interface{}) (interface{}, error) {
		var input SpacesInput
		if err := toolspkg.DecodeArgs(args, &input); err != nil {
			return nil, err
		}
		return t.Execute(ctx, &input)
	})
	return t
}

func (t *SpacesTool) Execute(ctx context.Context, input *SpacesInput) (*SpacesOutput, error) {
	if input == nil {
		input = &SpacesInput{}
	}
	log.Debugf(ctx, "SpacesTool executing: limit=%d", input.Limit)

	if t.client == nil {
		return nil, fmt.Errorf("huggingface client not initialized")
	}

	spaces, err := t.client.FetchSpaces(ctx, SpacesParams{Limit: input.Limit})
	if err != nil {
		log.Errorf(ctx, "SpacesTool failed: %v", err)
		return nil, err
	}

	log.Debugf(ctx, "SpacesTool completed successfully. Found %d spaces.", len(spaces))
	return &SpacesOutput{Spaces: spaces, TotalFetched: len(spaces)}, nil
}
