package agents

import (
	"context"

	"github.com/va6996/ainews/core"
)

// ChunkFunc receives streamed answer text as it is produced
type ChunkFunc func(text string)

// Request is one user message plus the prior turns of its session
type Request struct {
	SessionID string
	Message   string
	History   []core.Turn
}

// Reply is the runtime's answer to a Request
type Reply struct {
	Text               string   `json:"text"`
	ToolsUsed          []string `json:"tools_used,omitempty"`
	NeedsClarification bool     `json:"needs_clarification,omitempty"`
}

// Answerer turns a chat message into a reply, calling tools as needed
type Answerer interface {
	Answer(ctx context.Context, req Request, onChunk ChunkFunc) (*Reply, error)
}
