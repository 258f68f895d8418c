package tools

import (
	"encoding/json"
	"fmt"

	"github.com/va6996/ainews/core"
)

// DecodeArgs converts model-supplied arguments into a typed tool input
func DecodeArgs(args map[string]interface{}, out interface{}) error {
	b, err := json.Marshal(args)
	if err != nil {
		return fmt.Errorf("%w: failed to encode arguments: %v", core.ErrInvalidArgument, err)
	}
	if err := json.Unmarshal(b, out); err != nil {
		return fmt.Errorf("%w: failed to parse arguments: %v", core.ErrInvalidArgument, err)
	}
	return nil
}
