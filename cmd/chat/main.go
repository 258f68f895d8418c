// Command chat is a terminal client for the news agent. It wires the same
// components as the server and streams answers to stdout.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/va6996/ainews/agents"
	"github.com/va6996/ainews/bootstrap"
	"github.com/va6996/ainews/config"
	reqctx "github.com/va6996/ainews/context"
	"github.com/va6996/ainews/log"
)

type chatter interface {
	Chat(ctx context.Context, sessionID, message string, onChunk agents.ChunkFunc) (string, *agents.Reply, error)
}

func main() {
	log.Init()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf(context.Background(), "Failed to load config: %v", err)
	}
	// Keep the terminal readable unless debugging was asked for
	level := cfg.Log.Level
	if level == "info" {
		level = "warn"
	}
	if err := log.SetLevelName(level); err != nil {
		log.Warnf(context.Background(), "Ignoring log level %q: %v", level, err)
	}

	app, err := bootstrap.Setup(ctx, cfg)
	if err != nil {
		log.Fatalf(context.Background(), "Setup failed: %v", err)
	}
	defer app.Close()

	if err := runREPL(ctx, os.Stdin, os.Stdout, app.Agent, app.Agent.Sessions()); err != nil {
		log.Fatalf(context.Background(), "Chat failed: %v", err)
	}
}

// runREPL reads one message per line until EOF, /exit or cancellation.
// /new starts a fresh session and /starters lists suggested prompts.
func runREPL(ctx context.Context, in io.Reader, out io.Writer, chat chatter, sessions *agents.SessionStore) error {
	fmt.Fprintln(out, "AI news assistant. Type /starters for ideas, /new for a fresh session, /exit to quit.")

	sessionID := reqctx.NewSessionID()
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		if ctx.Err() != nil {
			return nil
		}

		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
			continue
		case "/exit", "/quit":
			return nil
		case "/new":
			if sessions != nil {
				sessions.Reset(sessionID)
			}
			sessionID = reqctx.NewSessionID()
			fmt.Fprintln(out, "Started a new session.")
			continue
		case "/starters":
			for i, s := range agents.DefaultStarters {
				fmt.Fprintf(out, "%d. %s: %s\n", i+1, s.Label, s.Message)
			}
			continue
		}

		var streamed bool
		onChunk := func(chunk string) {
			streamed = true
			fmt.Fprint(out, chunk)
		}

		var reply *agents.Reply
		var err error
		sessionID, reply, err = chat.Chat(ctx, sessionID, line, onChunk)
		if err != nil {
			if errors.Is(err, agents.ErrEmptyMessage) {
				continue
			}
			return err
		}
		if !streamed {
			fmt.Fprint(out, reply.Text)
		}
		fmt.Fprintln(out)
		if len(reply.ToolsUsed) > 0 {
			fmt.Fprintf(out, "(sources: %s)\n", strings.Join(reply.ToolsUsed, ", "))
		}
	}
}
