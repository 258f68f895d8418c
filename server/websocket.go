package server

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/va6996/ainews/agents"
	reqctx "github.com/va6996/ainews/context"
	"github.com/va6996/ainews/log"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // decoupled UIs connect from other origins
	},
}

// Frame is one server-to-client WebSocket message
type Frame struct {
	Type      string   `json:"type"` // session, chunk, done or error
	Text      string   `json:"text,omitempty"`
	SessionID string   `json:"session_id,omitempty"`
	ToolsUsed []string `json:"tools_used,omitempty"`
}

// IncomingMessage is one client-to-server WebSocket message
type IncomingMessage struct {
	Text string `json:"text"`
}

// safeConn serializes writes; gorilla connections allow one writer at a time
type safeConn struct {
	*websocket.Conn
	mu sync.Mutex
}

func (c *safeConn) writeFrame(f Frame) error {
	data, err := json.Marshal(f)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.Conn.WriteMessage(websocket.TextMessage, data)
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	rawConn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Errorf(ctx, "WS upgrade failed: %v", err)
		return
	}
	conn := &safeConn{Conn: rawConn}
	defer conn.Close()

	sessionID := r.URL.Query().Get("session_id")
	if sessionID == "" {
		sessionID = reqctx.NewSessionID()
	}
	ctx = reqctx.WithSessionID(ctx, sessionID)
	log.Infof(ctx, "WS client connected from %s", r.RemoteAddr)

	if err := conn.writeFrame(Frame{Type: "session", SessionID: sessionID}); err != nil {
		return
	}

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Warnf(ctx, "WS read failed: %v", err)
			}
			log.Infof(ctx, "WS client disconnected")
			return
		}

		var msg IncomingMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			conn.writeFrame(Frame{Type: "error", Text: "messages must be JSON with a text field"})
			continue
		}

		if err := s.streamTurn(ctx, conn, sessionID, msg.Text); err != nil {
			log.Warnf(ctx, "WS write failed: %v", err)
			return
		}
	}
}

// streamTurn runs one chat turn, forwarding chunks as they arrive
func (s *Server) streamTurn(ctx context.Context, conn *safeConn, sessionID, text string) error {
	turnCtx := reqctx.WithRequestID(ctx, reqctx.NewRequestID())

	var writeErr error
	onChunk := func(chunk string) {
		if writeErr == nil {
			writeErr = conn.writeFrame(Frame{Type: "chunk", Text: chunk})
		}
	}

	_, reply, err := s.chat.Chat(turnCtx, sessionID, text, onChunk)
	if writeErr != nil {
		return writeErr
	}
	if err != nil {
		msg := agents.FallbackReply
		if errors.Is(err, agents.ErrEmptyMessage) {
			msg = "message is required"
		}
		return conn.writeFrame(Frame{Type: "error", Text: msg})
	}

	return conn.writeFrame(Frame{Type: "done", SessionID: sessionID, ToolsUsed: reply.ToolsUsed})
}
