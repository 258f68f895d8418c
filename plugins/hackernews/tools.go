package hackernews

import (
	"context"
	"fmt"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"
	"github.com/va6996/ainews/core"
	"github.com/va6996/ainews/log"
	toolspkg "github.com/va6996/ainews/tools"
)

type StoriesInput struct {
	Limit    int      `json:"limit,omitempty" jsonschema_description:"Maximum number of stories to return (1-100, default 10)"`
	Keywords []string `json:"keywords,omitempty" jsonschema_description:"Topic keywords to match; omit to use the built-in AI/ML list"`
}

type StoriesOutput struct {
	Stories      []core.Item `json:"stories"`
	TotalFetched int         `json:"total_fetched"`
	TotalChecked int         `json:"total_checked"`
	Error        string      `json:"error,omitempty"`
}

type StoriesTool struct {
	client *Client
}

func NewStoriesTool(client *Client, gk *genkit.Genkit, registry *toolspkg.Registry) *StoriesTool {
	t := &StoriesTool{client: client}
	if gk == nil || registry == nil {
		return t
	}

	registry.Register(genkit.DefineTool(
		gk,
		"hacker_news",
		"Fetch the latest AI and machine learning stories from the Hacker News front page. Returns stories with title, URL, score, author and comment count, highest score first.",
		func(ctx *ai.ToolContext, input *StoriesInput) (*StoriesOutput, error) {
			out, err := t.Execute(ctx, input)
			if msg, ok := toolspkg.FailureMessage(ctx, err); ok {
				return &StoriesOutput{Stories: []core.Item{}, Error: msg}, nil
			}
			return out, err
		},
	), func(ctx context.Context, args map[string]interface{}) (interface{}, error) {
		var input StoriesInput
		if err := toolspkg.DecodeArgs(args, &input); err != nil {
			return nil, err
		}
		return t.Execute(ctx, &input)
	})
	return t
}

func (t *StoriesTool) Execute(ctx context.Context, input *StoriesInput) (*StoriesOutput, error) {
	if input == nil {
		input = &StoriesInput{}
	}
	log.Debugf(ctx, "StoriesTool executing: limit=%d keywords=%v", input.Limit, input.Keywords)

	if t.client == nil {
		return nil, fmt.Errorf("hacker news client not initialized")
	}

	res, err := t.client.FetchStories(ctx, StoriesParams{Limit: input.Limit, Keywords: input.Keywords})
	if err != nil {
		log.Errorf(ctx, "StoriesTool failed: %v", err)
		return nil, err
	}

	log.Debugf(ctx, "StoriesTool completed successfully. Found %d stories in %d checked.", len(res.Stories), res.Checked)
	return &StoriesOutput{
		Stories:      res.Stories,
		TotalFetched: len(res.Stories),
		TotalChecked: res.Checked,
	}, nil
}
