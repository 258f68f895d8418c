// Package datetime gives the model a small JavaScript sandbox for date
// arithmetic, so phrases like "yesterday" or "last Monday" can be turned
// into the YYYY-MM-DD dates the source tools expect.
package datetime

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dop251/goja"
	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"
	"github.com/va6996/ainews/log"
	"github.com/va6996/ainews/tools"
)

const evalBudget = time.Second

// DateInput defines the input for the date tool
type DateInput struct {
	Expression string `json:"expression" jsonschema_description:"JavaScript expression that evaluates to a Date or ISO string. Variable 'now' holds the current timestamp in milliseconds."`
}

// DateOutput is the resolved date in UTC
type DateOutput struct {
	Timestamp string `json:"timestamp"`
	Date      string `json:"date"`
	Weekday   string `json:"weekday"`
	Error     string `json:"error,omitempty"`
}

// DateTool provides current date functionality
type DateTool struct {
	Now func() time.Time
}

// NewDateTool creates a new DateTool and registers it
func NewDateTool(gk *genkit.Genkit, registry *tools.Registry) *DateTool {
	t := &DateTool{
		Now: time.Now,
	}

	if gk == nil || registry == nil {
		return t
	}

	registry.Register(genkit.DefineTool(
		gk,
		t.Name(),
		t.Description(),
		func(ctx *ai.ToolContext, input *DateInput) (*DateOutput, error) {
			out, err := t.Execute(ctx, input)
			if msg, ok := tools.FailureMessage(ctx, err); ok {
				return &DateOutput{Error: msg}, nil
			}
			return out, err
		},
	), func(ctx context.Context, args map[string]interface{}) (interface{}, error) {
		var input DateInput
		if err := tools.DecodeArgs(args, &input); err != nil {
			return nil, err
		}
		return t.Execute(ctx, &input)
	})

	return t
}

func (t *DateTool) Name() string {
	return "dateTool"
}

func (t *DateTool) Description() string {
	return `Executes a JavaScript expression to calculate dates. Variable 'now' holds the current timestamp (milliseconds).
Return a Date object or ISO string; the last expression is the result. The answer includes the date as YYYY-MM-DD.
Examples:
- Today: "new Date(now)"
- Yesterday: "new Date(now - 86400000)"
- Last Monday: "var d = new Date(now); d.setUTCDate(d.getUTCDate() - ((d.getUTCDay() + 6) % 7 || 7)); d"`
}

func (t *DateTool) Execute(ctx context.Context, input *DateInput) (*DateOutput, error) {
	if input == nil || input.Expression == "" {
		return nil, fmt.Errorf("expression is required")
	}
	log.Debugf(ctx, "DateTool executing expression: %s", input.Expression)

	vm := goja.New()
	if err := vm.Set("now", t.Now().UnixMilli()); err != nil {
		return nil, fmt.Errorf("failed to set 'now': %w", err)
	}

	evalCtx, cancel := context.WithTimeout(ctx, evalBudget)
	defer cancel()
	stop := context.AfterFunc(evalCtx, func() {
		vm.Interrupt("timeout")
	})
	defer stop()

	val, err := vm.RunString(input.Expression)
	if err != nil {
		var interrupted *goja.InterruptedError
		if errors.As(err, &interrupted) {
			return nil, fmt.Errorf("js execution interrupted: %w", evalCtx.Err())
		}
		return nil, fmt.Errorf("js execution failed: %w", err)
	}

	exported := val.Export()
	if exported == nil {
		return nil, fmt.Errorf("result is null or undefined")
	}

	ts, err := toTime(exported)
	if err != nil {
		return nil, err
	}
	ts = ts.UTC()
	log.Debugf(ctx, "DateTool resolved %s", ts.Format(time.RFC3339))

	return &DateOutput{
		Timestamp: ts.Format(time.RFC3339),
		Date:      ts.Format(time.DateOnly),
		Weekday:   ts.Weekday().String(),
	}, nil
}

// toTime accepts a JS Date (exported as time.Time) or an RFC 3339 /
// YYYY-MM-DD string
func toTime(v interface{}) (time.Time, error) {
	switch val := v.(type) {
	case time.Time:
		return val, nil
	case string:
		if ts, err := time.Parse(time.RFC3339, val); err == nil {
			return ts, nil
		}
		if ts, err := time.Parse(time.DateOnly, val); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("result is not a valid Date object or ISO string")
}
