package tools_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/firebase/genkit/go/genkit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/va6996/ainews/core"
	"github.com/va6996/ainews/plugins"
	"github.com/va6996/ainews/tools"
)

type MockLLM struct {
	mock.Mock
}

func (m *MockLLM) GenerateContent(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

func newAgent(t *testing.T, llm plugins.LLMClient, maxSteps int) *tools.ReActAgent {
	t.Helper()
	gk := genkit.Init(context.Background())
	reg := tools.NewRegistry()
	registerEcho(gk, reg, "echo")
	return tools.NewReActAgent(gk, reg, llm, maxSteps)
}

func TestReActAgent_DirectAnswer(t *testing.T) {
	llm := new(MockLLM)
	llm.On("GenerateContent", mock.Anything, mock.MatchedBy(func(p string) bool {
		return strings.Contains(p, "Tool: echo") && strings.Contains(p, "User Query: hello")
	})).Return("  Hi there.  ", nil).Once()

	agent := newAgent(t, llm, 3)
	res, err := agent.Run(context.Background(), "hello", nil)
	require.NoError(t, err)

	assert.Equal(t, "Hi there.", res.Answer)
	assert.Empty(t, res.Calls)
	assert.Equal(t, 1, res.Steps)
	llm.AssertExpectations(t)
}

func TestReActAgent_ToolThenAnswer(t *testing.T) {
	llm := new(MockLLM)
	llm.On("GenerateContent", mock.Anything, mock.MatchedBy(func(p string) bool {
		return !strings.Contains(p, "Tool 'echo' Output")
	})).Return("```json\n{\"tool\": \"echo\", \"input\": {\"text\": \"diffusion\"}}\n```", nil).Once()
	llm.On("GenerateContent", mock.Anything, mock.MatchedBy(func(p string) bool {
		return strings.Contains(p, `Tool 'echo' Output: {"echo":"diffusion"}`)
	})).Return("Diffusion is trending.", nil).Once()

	agent := newAgent(t, llm, 5)
	res, err := agent.Run(context.Background(), "what is trending?", nil)
	require.NoError(t, err)

	assert.Equal(t, "Diffusion is trending.", res.Answer)
	require.Len(t, res.Calls, 1)
	assert.Equal(t, "echo", res.Calls[0].ToolName)
	assert.Equal(t, "diffusion", res.Calls[0].Input["text"])
	assert.Empty(t, res.Calls[0].Error)
	assert.Equal(t, 2, res.Steps)
	llm.AssertExpectations(t)
}

func TestReActAgent_ToolErrorFedBack(t *testing.T) {
	llm := new(MockLLM)
	llm.On("GenerateContent", mock.Anything, mock.MatchedBy(func(p string) bool {
		return !strings.Contains(p, "Error:")
	})).Return(`{"tool": "echo", "input": {"text": "boom"}}`, nil).Once()
	llm.On("GenerateContent", mock.Anything, mock.MatchedBy(func(p string) bool {
		return strings.Contains(p, "Tool 'echo' Error: upstream exploded")
	})).Return("The source is unavailable right now.", nil).Once()

	agent := newAgent(t, llm, 5)
	res, err := agent.Run(context.Background(), "news?", nil)
	require.NoError(t, err)

	assert.Equal(t, "The source is unavailable right now.", res.Answer)
	require.Len(t, res.Calls, 1)
	assert.Equal(t, "upstream exploded", res.Calls[0].Error)
	llm.AssertExpectations(t)
}

func TestReActAgent_UnknownToolFedBack(t *testing.T) {
	llm := new(MockLLM)
	llm.On("GenerateContent", mock.Anything, mock.MatchedBy(func(p string) bool {
		return !strings.Contains(p, "Error:")
	})).Return(`{"tool": "weather", "input": {}}`, nil).Once()
	llm.On("GenerateContent", mock.Anything, mock.MatchedBy(func(p string) bool {
		return strings.Contains(p, "tool not found: weather")
	})).Return("I cannot check the weather.", nil).Once()

	agent := newAgent(t, llm, 5)
	res, err := agent.Run(context.Background(), "weather?", nil)
	require.NoError(t, err)
	assert.Equal(t, "I cannot check the weather.", res.Answer)
	llm.AssertExpectations(t)
}

func TestReActAgent_MaxSteps(t *testing.T) {
	llm := new(MockLLM)
	llm.On("GenerateContent", mock.Anything, mock.Anything).
		Return(`{"tool": "echo", "input": {"text": "again"}}`, nil)

	agent := newAgent(t, llm, 2)
	_, err := agent.Run(context.Background(), "loop", nil)
	assert.ErrorIs(t, err, tools.ErrMaxSteps)
	llm.AssertNumberOfCalls(t, "GenerateContent", 2)
}

func TestReActAgent_History(t *testing.T) {
	llm := new(MockLLM)
	llm.On("GenerateContent", mock.Anything, mock.MatchedBy(func(p string) bool {
		return strings.Contains(p, "Conversation so far:\nuser: show arxiv\nassistant: here are 3 papers\n")
	})).Return("The second one.", nil).Once()

	agent := newAgent(t, llm, 3)
	history := []core.Turn{
		{Role: core.RoleUser, Text: "show arxiv"},
		{Role: core.RoleAssistant, Text: "here are 3 papers"},
	}
	res, err := agent.Run(context.Background(), "which is best?", history)
	require.NoError(t, err)
	assert.Equal(t, "The second one.", res.Answer)
	llm.AssertExpectations(t)
}

func TestReActAgent_LLMError(t *testing.T) {
	llm := new(MockLLM)
	llm.On("GenerateContent", mock.Anything, mock.Anything).Return("", errors.New("quota")).Once()

	agent := newAgent(t, llm, 3)
	_, err := agent.Run(context.Background(), "hi", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota")
}

func TestReActAgent_ContextCancellation(t *testing.T) {
	llm := new(MockLLM)
	agent := newAgent(t, llm, 3)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := agent.Run(ctx, "test query", nil)
	assert.ErrorIs(t, err, context.Canceled)
	llm.AssertNotCalled(t, "GenerateContent", mock.Anything, mock.Anything)
}
