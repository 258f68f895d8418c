package tools

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/firebase/genkit/go/ai"
	"github.com/va6996/ainews/log"
)

// ErrToolNotFound is returned when a tool name has no registered executor
var ErrToolNotFound = errors.New("tool not found")

// ToolExecutor runs a tool from loosely typed arguments, as produced by a
// model emitting JSON
type ToolExecutor func(ctx context.Context, args map[string]interface{}) (interface{}, error)

// Descriptor is the name, description and parameter schema a reasoning loop
// sees for one tool
type Descriptor struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"input_schema,omitempty"`
}

// Registry maps tool names to their Genkit definition and executor
type Registry struct {
	tools     []ai.Tool
	executors map[string]ToolExecutor
}

// NewRegistry creates a new tool registry
func NewRegistry() *Registry {
	return &Registry{
		tools:     make([]ai.Tool, 0),
		executors: make(map[string]ToolExecutor),
	}
}

// Register adds a tool with its executor. A second registration under the
// same name is ignored.
func (r *Registry) Register(tool ai.Tool, executor ToolExecutor) {
	name := tool.Definition().Name
	if _, exists := r.executors[name]; exists {
		log.Warnf(context.Background(), "tool %q already registered, ignoring duplicate", name)
		return
	}
	r.tools = append(r.tools, tool)
	r.executors[name] = executor
	log.Debugf(context.Background(), "Registered tool: %s", name)
}

// GetTools returns all registered tools in registration order
func (r *Registry) GetTools() []ai.Tool {
	return r.tools
}

// ToolRefs returns the registered tools as Generate options expect them
func (r *Registry) ToolRefs() []ai.ToolRef {
	refs := make([]ai.ToolRef, 0, len(r.tools))
	for _, t := range r.tools {
		refs = append(refs, t)
	}
	return refs
}

// Names returns the registered tool names, sorted
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.executors))
	for name := range r.executors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Descriptors describes every registered tool in registration order
func (r *Registry) Descriptors() []Descriptor {
	out := make([]Descriptor, 0, len(r.tools))
	for _, t := range r.tools {
		def := t.Definition()
		out = append(out, Descriptor{
			Name:        def.Name,
			Description: def.Description,
			InputSchema: def.InputSchema,
		})
	}
	return out
}

// ExecuteTool runs a registered tool by name. Failures of the underlying
// source client are returned unchanged.
func (r *Registry) ExecuteTool(ctx context.Context, name string, args map[string]interface{}) (interface{}, error) {
	executor, ok := r.executors[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrToolNotFound, name)
	}
	if args == nil {
		args = map[string]interface{}{}
	}
	return executor(ctx, args)
}
