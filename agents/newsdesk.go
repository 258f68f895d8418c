package agents

import (
	"context"
	"fmt"
	"time"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"
	"github.com/va6996/ainews/core"
	"github.com/va6996/ainews/log"
	"github.com/va6996/ainews/tools"
)

const clarifyToolName = "askUser"

const newsDeskPrompt = `Today is %s.
You are an AI/ML news assistant. You help people keep up with new research papers, demos and community discussions.

Sources (call the matching tool, never invent items):
- huggingface_papers: daily trending papers on Hugging Face, with upvotes and GitHub links. Use the date argument for a specific day; use dateTool to turn words like "yesterday" into YYYY-MM-DD.
- huggingface_spaces: trending Spaces, i.e. runnable demos.
- hacker_news: AI stories currently on the Hacker News front page.
- arxiv: recent arXiv preprints; pass a query to search a topic.

Guidelines:
- Prefer one tool call per source; combine sources for digests.
- If a tool fails, say that source is unavailable and continue with the others.
- Use askUser only when the request cannot be answered without more information.
- Answer in concise markdown. Cite each item with its title and link.`

// ClarifyInput is the input for the askUser tool
type ClarifyInput struct {
	Question string `json:"question" jsonschema_description:"The clarifying question to ask the user"`
}

// NewsDesk answers chat messages with Genkit's native tool calling over
// every registered source tool
type NewsDesk struct {
	genkit   *genkit.Genkit
	registry *tools.Registry
	model    ai.Model
	maxTurns int
	askUser  ai.Tool
	now      func() time.Time
}

var _ Answerer = (*NewsDesk)(nil)

// NewNewsDesk creates a NewsDesk and defines its askUser tool on gk
func NewNewsDesk(gk *genkit.Genkit, registry *tools.Registry, model ai.Model, maxTurns int) *NewsDesk {
	askUser := genkit.DefineTool(gk, clarifyToolName, "Ask the user a clarifying question when the request is too ambiguous to pick a source or topic.",
		func(ctx *ai.ToolContext, req *ClarifyInput) (string, error) {
			return "", ctx.Interrupt(&ai.InterruptOptions{
				Metadata: map[string]any{
					"question": req.Question,
				},
			})
		},
	)

	if maxTurns <= 0 {
		maxTurns = 10
	}
	return &NewsDesk{
		genkit:   gk,
		registry: registry,
		model:    model,
		maxTurns: maxTurns,
		askUser:  askUser,
		now:      time.Now,
	}
}

// Answer runs one chat turn. Text chunks are passed to onChunk as the model
// streams them.
func (d *NewsDesk) Answer(ctx context.Context, req Request, onChunk ChunkFunc) (*Reply, error) {
	log.Infof(ctx, "NewsDesk: answering %q with %d prior turns", req.Message, len(req.History))

	var toolRefs []ai.ToolRef
	if d.registry != nil {
		toolRefs = append(toolRefs, d.registry.ToolRefs()...)
	}
	toolRefs = append(toolRefs, d.askUser)

	opts := []ai.GenerateOption{
		ai.WithModel(d.model),
		ai.WithSystem(fmt.Sprintf(newsDeskPrompt, d.now().Format(time.DateOnly))),
		ai.WithMessages(toMessages(req.History, req.Message)...),
		ai.WithTools(toolRefs...),
		ai.WithMaxTurns(d.maxTurns),
	}
	if onChunk != nil {
		opts = append(opts, ai.WithStreaming(func(ctx context.Context, chunk *ai.ModelResponseChunk) error {
			if text := chunk.Text(); text != "" {
				onChunk(text)
			}
			return nil
		}))
	}

	response, err := genkit.Generate(ctx, d.genkit, opts...)
	if err != nil {
		log.Errorf(ctx, "NewsDesk: Generate error: %v", err)
		return nil, fmt.Errorf("answer failed: %w", err)
	}
	log.Debugf(ctx, "NewsDesk: finish reason %v", response.FinishReason)

	reply := &Reply{ToolsUsed: toolsUsed(response.History())}

	if response.FinishReason == ai.FinishReasonInterrupted {
		for _, part := range response.Interrupts() {
			if part.ToolRequest != nil && part.ToolRequest.Name == clarifyToolName {
				reply.Text = questionFrom(part.ToolRequest.Input)
				reply.NeedsClarification = true
				log.Infof(ctx, "NewsDesk: asking user %q", reply.Text)
				if onChunk != nil {
					onChunk(reply.Text)
				}
				return reply, nil
			}
		}
	}

	reply.Text = response.Text()
	return reply, nil
}

func toMessages(history []core.Turn, message string) []*ai.Message {
	msgs := make([]*ai.Message, 0, len(history)+1)
	for _, turn := range history {
		switch turn.Role {
		case core.RoleUser:
			msgs = append(msgs, ai.NewUserTextMessage(turn.Text))
		case core.RoleAssistant:
			msgs = append(msgs, ai.NewModelTextMessage(turn.Text))
		}
	}
	return append(msgs, ai.NewUserTextMessage(message))
}

// toolsUsed lists the distinct tools the model requested, in call order
func toolsUsed(history []*ai.Message) []string {
	var names []string
	seen := map[string]bool{}
	for _, msg := range history {
		if msg == nil {
			continue
		}
		for _, part := range msg.Content {
			if !part.IsToolRequest() || part.ToolRequest == nil {
				continue
			}
			name := part.ToolRequest.Name
			if name == clarifyToolName || seen[name] {
				continue
			}
			seen[name] = true
			names = append(names, name)
		}
	}
	return names
}

// questionFrom reads the askUser question from a tool request input, which
// arrives either decoded into a map or as the typed input
func questionFrom(input any) string {
	switch v := input.(type) {
	case map[string]any:
		if q, ok := v["question"].(string); ok {
			return q
		}
	case *ClarifyInput:
		if v != nil {
			return v.Question
		}
	case ClarifyInput:
		return v.Question
	}
	return fmt.Sprintf("%v", input)
}
