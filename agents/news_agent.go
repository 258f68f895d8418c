package agents

import (
	"context"
	"errors"
	"strings"

	reqctx "github.com/va6996/ainews/context"
	"github.com/va6996/ainews/core"
	"github.com/va6996/ainews/log"
)

// FallbackReply is sent when the runtime fails to produce an answer
const FallbackReply = "Sorry, I could not put together an answer just now. One of the news sources or the language model may be unavailable; please try again in a moment."

// ErrEmptyMessage is returned for a blank chat message
var ErrEmptyMessage = errors.New("message is empty")

// NewsAgent is the main orchestrator: it loads the session history, asks
// the Answerer and records the exchange
type NewsAgent struct {
	answerer Answerer
	sessions *SessionStore
}

// NewNewsAgent creates a new NewsAgent
func NewNewsAgent(answerer Answerer, sessions *SessionStore) *NewsAgent {
	if sessions == nil {
		sessions = NewSessionStore(0, 0, 0)
	}
	return &NewsAgent{
		answerer: answerer,
		sessions: sessions,
	}
}

// Sessions exposes the history store
func (a *NewsAgent) Sessions() *SessionStore {
	return a.sessions
}

// Chat handles one message of a session, creating the session when
// sessionID is empty. A runtime failure yields FallbackReply with a nil
// error; only a blank message is rejected.
func (a *NewsAgent) Chat(ctx context.Context, sessionID, message string, onChunk ChunkFunc) (string, *Reply, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return sessionID, nil, ErrEmptyMessage
	}
	if sessionID == "" {
		sessionID = reqctx.NewSessionID()
	}
	ctx = reqctx.WithSessionID(ctx, sessionID)

	req := Request{
		SessionID: sessionID,
		Message:   message,
		History:   a.sessions.History(sessionID),
	}

	reply, err := a.answerer.Answer(ctx, req, onChunk)
	if err != nil {
		log.Errorf(ctx, "NewsAgent: runtime failed: %v", err)
		reply = &Reply{Text: FallbackReply}
		if onChunk != nil {
			onChunk(reply.Text)
		}
		return sessionID, reply, nil
	}
	if strings.TrimSpace(reply.Text) == "" {
		log.Warnf(ctx, "NewsAgent: runtime returned an empty answer")
		reply.Text = FallbackReply
	}

	a.sessions.Append(sessionID,
		core.Turn{Role: core.RoleUser, Text: message},
		core.Turn{Role: core.RoleAssistant, Text: reply.Text},
	)
	log.Infof(ctx, "NewsAgent: answered with %d chars using tools %v", len(reply.Text), reply.ToolsUsed)
	return sessionID, reply, nil
}
