// Package server exposes the news agent over HTTP: a JSON chat endpoint, a
// streaming WebSocket endpoint and a few read-only discovery routes.
package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/va6996/ainews/agents"
	reqctx "github.com/va6996/ainews/context"
	"github.com/va6996/ainews/log"
	"github.com/va6996/ainews/tools"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// maxRequestBytes caps a chat request body
const maxRequestBytes = 64 << 10

// Chatter runs one chat turn for a session
type Chatter interface {
	Chat(ctx context.Context, sessionID, message string, onChunk agents.ChunkFunc) (string, *agents.Reply, error)
}

// ToolLister describes the registered tools
type ToolLister interface {
	Descriptors() []tools.Descriptor
}

// Server routes chat traffic to the agent
type Server struct {
	chat     Chatter
	tools    ToolLister
	starters []agents.Starter
}

// ChatRequest is the body of POST /api/chat
type ChatRequest struct {
	SessionID string `json:"session_id,omitempty"`
	Message   string `json:"message"`
}

// ChatResponse is the reply to POST /api/chat
type ChatResponse struct {
	SessionID          string   `json:"session_id"`
	Reply              string   `json:"reply"`
	ToolsUsed          []string `json:"tools_used,omitempty"`
	NeedsClarification bool     `json:"needs_clarification,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// New creates a Server
func New(chat Chatter, toolList ToolLister, starters []agents.Starter) *Server {
	if starters == nil {
		starters = agents.DefaultStarters
	}
	return &Server{
		chat:     chat,
		tools:    toolList,
		starters: starters,
	}
}

// Handler returns the full HTTP handler: routes, request ids, CORS and h2c
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/chat", s.handleChat)
	mux.HandleFunc("GET /api/starters", s.handleStarters)
	mux.HandleFunc("GET /api/tools", s.handleTools)
	mux.HandleFunc("GET /ws", s.handleWebSocket)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// h2c serves HTTP/2 without TLS for local and internal clients
	return h2c.NewHandler(withCORS(withRequestID(mux)), &http2.Server{})
}

// ListenAndServe serves on addr until ctx is cancelled
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		log.Info(context.Background(), "Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	log.Infof(ctx, "Starting server on %s", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBytes))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "could not read request body"})
		return
	}
	var req ChatRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "request body must be JSON with a message field"})
		return
	}

	log.Infof(ctx, "Received chat message for session %q", req.SessionID)
	sessionID, reply, err := s.chat.Chat(ctx, req.SessionID, req.Message, nil)
	if err != nil {
		if errors.Is(err, agents.ErrEmptyMessage) {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "message is required"})
			return
		}
		log.Errorf(ctx, "Error processing chat: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: agents.FallbackReply})
		return
	}

	writeJSON(w, http.StatusOK, ChatResponse{
		SessionID:          sessionID,
		Reply:              reply.Text,
		ToolsUsed:          reply.ToolsUsed,
		NeedsClarification: reply.NeedsClarification,
	})
}

func (s *Server) handleStarters(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"starters": s.starters})
}

func (s *Server) handleTools(w http.ResponseWriter, r *http.Request) {
	descriptors := []tools.Descriptor{}
	if s.tools != nil {
		descriptors = s.tools.Descriptors()
	}
	writeJSON(w, http.StatusOK, map[string]any{"tools": descriptors})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Errorf(context.Background(), "failed to write response: %v", err)
	}
}

func withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = reqctx.NewRequestID()
		}
		w.Header().Set("X-Request-ID", requestID)
		next.ServeHTTP(w, r.WithContext(reqctx.WithRequestID(r.Context(), requestID)))
	})
}

func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Allow all origins for now (dev mode)
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Request-ID")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
