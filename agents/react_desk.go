package agents

import (
	"context"
	"errors"
	"fmt"

	"github.com/va6996/ainews/log"
	"github.com/va6996/ainews/tools"
)

// ReActDesk answers chat messages through the text-only ReAct loop, for
// models without native tool calling
type ReActDesk struct {
	agent *tools.ReActAgent
}

var _ Answerer = (*ReActDesk)(nil)

// NewReActDesk wraps agent as an Answerer
func NewReActDesk(agent *tools.ReActAgent) *ReActDesk {
	return &ReActDesk{agent: agent}
}

// Answer runs the loop to completion; onChunk receives the whole answer once
func (d *ReActDesk) Answer(ctx context.Context, req Request, onChunk ChunkFunc) (*Reply, error) {
	res, err := d.agent.Run(ctx, req.Message, req.History)
	if err != nil {
		if errors.Is(err, tools.ErrMaxSteps) {
			log.Warnf(ctx, "ReActDesk: gave up after the step limit")
		}
		return nil, fmt.Errorf("answer failed: %w", err)
	}

	reply := &Reply{Text: res.Answer}
	seen := map[string]bool{}
	for _, call := range res.Calls {
		if !seen[call.ToolName] {
			seen[call.ToolName] = true
			reply.ToolsUsed = append(reply.ToolsUsed, call.ToolName)
		}
	}

	if onChunk != nil && reply.Text != "" {
		onChunk(reply.Text)
	}
	return reply, nil
}
