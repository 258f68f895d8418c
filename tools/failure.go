package tools

import (
	"context"
	"errors"
	"fmt"

	"github.com/va6996/ainews/core"
)

// FailureMessage renders a tool failure as text for the model, so it can
// try another source or say which one is unavailable. ok is false for a nil
// error and once ctx is done, since a cancelled turn must still abort.
func FailureMessage(ctx context.Context, err error) (msg string, ok bool) {
	if err == nil || ctx.Err() != nil {
		return "", false
	}
	switch {
	case errors.Is(err, core.ErrInvalidArgument):
		return fmt.Sprintf("invalid arguments, fix them and call again: %v", err), true
	case core.IsUpstream(err):
		return fmt.Sprintf("source unavailable: %v", err), true
	case core.IsParse(err):
		return fmt.Sprintf("source returned an unexpected response: %v", err), true
	default:
		return err.Error(), true
	}
}
