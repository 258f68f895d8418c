package main

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/va6996/ainews/agents"
	"github.com/va6996/ainews/core"
)

type MockChatter struct {
	mock.Mock
}

func (m *MockChatter) Chat(ctx context.Context, sessionID, message string, onChunk agents.ChunkFunc) (string, *agents.Reply, error) {
	args := m.Called(ctx, sessionID, message, onChunk)
	var reply *agents.Reply
	if r := args.Get(1); r != nil {
		reply = r.(*agents.Reply)
	}
	return args.String(0), reply, args.Error(2)
}

func TestRunREPL_StreamsAndKeepsSession(t *testing.T) {
	chat := new(MockChatter)
	var firstSession string
	chat.On("Chat", mock.Anything, mock.Anything, "latest papers", mock.Anything).
		Run(func(args mock.Arguments) {
			firstSession = args.String(1)
			args.Get(3).(agents.ChunkFunc)("Two papers today.")
		}).
		Return("chat-1", &agents.Reply{Text: "Two papers today.", ToolsUsed: []string{"huggingface_papers"}}, nil).Once()
	chat.On("Chat", mock.Anything, "chat-1", "and HN?", mock.Anything).
		Return("chat-1", &agents.Reply{Text: "One story."}, nil).Once()

	var out bytes.Buffer
	err := runREPL(context.Background(), strings.NewReader("latest papers\n\nand HN?\n/exit\n"), &out, chat, nil)
	require.NoError(t, err)

	assert.NotEmpty(t, firstSession)
	assert.Contains(t, out.String(), "Two papers today.\n(sources: huggingface_papers)")
	assert.Contains(t, out.String(), "One story.\n")
	chat.AssertExpectations(t)
}

func TestRunREPL_NewResetsSession(t *testing.T) {
	sessions := agents.NewSessionStore(0, 0, 0)
	chat := new(MockChatter)
	chat.On("Chat", mock.Anything, mock.Anything, "hi", mock.Anything).
		Run(func(args mock.Arguments) {
			sessions.Append("chat-1", core.Turn{Role: core.RoleUser, Text: "hi"})
		}).
		Return("chat-1", &agents.Reply{Text: "hello"}, nil).Once()

	var out bytes.Buffer
	err := runREPL(context.Background(), strings.NewReader("hi\n/new\n"), &out, chat, sessions)
	require.NoError(t, err)

	assert.Equal(t, 0, sessions.Len())
	assert.Contains(t, out.String(), "Started a new session.")
}

func TestRunREPL_Starters(t *testing.T) {
	var out bytes.Buffer
	err := runREPL(context.Background(), strings.NewReader("/starters\n"), &out, new(MockChatter), nil)
	require.NoError(t, err)

	for _, s := range agents.DefaultStarters {
		assert.Contains(t, out.String(), s.Message)
	}
}

func TestRunREPL_Error(t *testing.T) {
	chat := new(MockChatter)
	chat.On("Chat", mock.Anything, mock.Anything, "hi", mock.Anything).Return("", nil, errors.New("boom"))

	var out bytes.Buffer
	err := runREPL(context.Background(), strings.NewReader("hi\n"), &out, chat, nil)
	assert.EqualError(t, err, "boom")
}
