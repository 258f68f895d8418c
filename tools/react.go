package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/firebase/genkit/go/genkit"
	"github.com/va6996/ainews/core"
	"github.com/va6996/ainews/log"
	"github.com/va6996/ainews/plugins"
)

// ErrMaxSteps is returned when the model keeps calling tools past the step budget
var ErrMaxSteps = errors.New("max steps exceeded")

const SystemPromptTemplate = `You are an AI/ML news assistant. You answer questions about recent AI research papers, demos and discussions using the tools below.

Tools:
%s
Protocol:
1. To call a tool, output ONLY a JSON object in this format: {"tool": "toolName", "input": {...}}
2. Do not add any text before or after the JSON when calling a tool.
3. When you receive a Tool Output, use it to proceed. If a tool reports an error, try another tool or explain that the source is unavailable.
4. When you have the final answer, output the text directly (no JSON). Cite titles and links from tool outputs.

Current Date: %s
%s
User Query: %s`

// ToolCallResult stores the result of a tool call
type ToolCallResult struct {
	ToolName  string                 `json:"tool_name"`
	Input     map[string]interface{} `json:"input"`
	Output    interface{}            `json:"output,omitempty"`
	Error     string                 `json:"error,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

// ReActInput is one question plus the conversation that preceded it
type ReActInput struct {
	Query   string      `json:"query"`
	History []core.Turn `json:"history,omitempty"`
}

// ReActResult is the final answer and the tool calls made to reach it
type ReActResult struct {
	Answer string           `json:"answer"`
	Calls  []ToolCallResult `json:"calls,omitempty"`
	Steps  int              `json:"steps"`
}

// FlowRunner defines the interface for running a flow
type FlowRunner interface {
	Run(ctx context.Context, input *ReActInput) (*ReActResult, error)
}

// ReActAgent drives a text-only model through the JSON tool-call protocol
type ReActAgent struct {
	flow     FlowRunner
	registry *Registry
	llm      plugins.LLMClient
	maxSteps int
	now      func() time.Time
}

type toolCall struct {
	Tool  string                 `json:"tool"`
	Input map[string]interface{} `json:"input"`
}

// NewReActAgent defines the reasoning flow on gk over the registry's tools
func NewReActAgent(gk *genkit.Genkit, registry *Registry, llm plugins.LLMClient, maxSteps int) *ReActAgent {
	if maxSteps <= 0 {
		maxSteps = 10
	}
	agent := &ReActAgent{
		registry: registry,
		llm:      llm,
		maxSteps: maxSteps,
		now:      time.Now,
	}
	agent.flow = genkit.DefineFlow(gk, "newsReActFlow", agent.run)
	return agent
}

// Run answers query, calling tools as the model requests them
func (a *ReActAgent) Run(ctx context.Context, query string, history []core.Turn) (*ReActResult, error) {
	return a.flow.Run(ctx, &ReActInput{Query: query, History: history})
}

func (a *ReActAgent) run(ctx context.Context, input *ReActInput) (*ReActResult, error) {
	if a.llm == nil {
		return nil, fmt.Errorf("llm client not initialized")
	}
	log.Debugf(ctx, "Starting ReAct loop for query: %q", input.Query)

	transcript := fmt.Sprintf(
		SystemPromptTemplate,
		a.describeTools(),
		a.now().Format(time.RFC3339),
		formatHistory(input.History),
		input.Query,
	)
	result := &ReActResult{}

	for step := 0; step < a.maxSteps; step++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		result.Steps = step + 1
		log.Debugf(ctx, "Step %d/%d: prompting LLM", step+1, a.maxSteps)

		resp, err := a.llm.GenerateContent(ctx, transcript)
		if err != nil {
			log.Errorf(ctx, "LLM generation failed: %v", err)
			return nil, fmt.Errorf("llm generation failed: %w", err)
		}

		call, ok := parseToolCall(resp)
		if !ok {
			log.Debugf(ctx, "Returning final answer after %d steps", step+1)
			result.Answer = strings.TrimSpace(resp)
			return result, nil
		}

		// The model must see its own request to keep the exchange coherent.
		transcript += fmt.Sprintf("\nModel Response: %s\n", strings.TrimSpace(resp))

		record := ToolCallResult{ToolName: call.Tool, Input: call.Input, Timestamp: a.now()}
		output, toolErr := a.registry.ExecuteTool(ctx, call.Tool, call.Input)
		if toolErr != nil {
			log.Warnf(ctx, "Tool %s failed: %v", call.Tool, toolErr)
			record.Error = toolErr.Error()
			transcript += fmt.Sprintf("\nTool '%s' Error: %v\n", call.Tool, toolErr)
		} else {
			record.Output = output
			transcript += fmt.Sprintf("\nTool '%s' Output: %s\n", call.Tool, renderOutput(output))
		}
		result.Calls = append(result.Calls, record)
	}

	log.Warnf(ctx, "Max steps (%d) exceeded in ReAct loop", a.maxSteps)
	return result, ErrMaxSteps
}

func (a *ReActAgent) describeTools() string {
	var sb strings.Builder
	for _, d := range a.registry.Descriptors() {
		schema, _ := json.Marshal(d.InputSchema)
		fmt.Fprintf(&sb, "Tool: %s\nDescription: %s\nInput Schema: %s\n\n", d.Name, d.Description, schema)
	}
	return sb.String()
}

// parseToolCall looks for a JSON object between the first '{' and the last
// '}' so tool calls wrapped in markdown fences are still recognized.
func parseToolCall(resp string) (toolCall, bool) {
	var call toolCall
	start := strings.Index(resp, "{")
	end := strings.LastIndex(resp, "}")
	if start == -1 || end <= start {
		return call, false
	}
	if err := json.Unmarshal([]byte(resp[start:end+1]), &call); err != nil {
		return call, false
	}
	return call, call.Tool != ""
}

func renderOutput(output interface{}) string {
	b, err := json.Marshal(output)
	if err != nil {
		return fmt.Sprintf("%v", output)
	}
	return string(b)
}

func formatHistory(history []core.Turn) string {
	if len(history) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteString("Conversation so far:\n")
	for _, turn := range history {
		fmt.Fprintf(&sb, "%s: %s\n", turn.Role, turn.Text)
	}
	return sb.String()
}
