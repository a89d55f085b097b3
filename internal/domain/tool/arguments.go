package tool

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/janhq/jan-agent-gateway/internal/domain/llm"
)

// ErrInvalidArguments marks argument payloads that are not a JSON object.
var ErrInvalidArguments = errors.New("invalid tool arguments")

// NormalizeArguments turns a raw argument payload into its canonical form.
// Accepted inputs are a JSON object, a JSON string whose content is a JSON
// object, or an empty/null payload (no arguments).
func NormalizeArguments(raw json.RawMessage) (map[string]any, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return map[string]any{}, nil
	}

	if trimmed[0] == '"' {
		var encoded string
		if err := json.Unmarshal(trimmed, &encoded); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidArguments, err)
		}
		encoded = strings.TrimSpace(encoded)
		if encoded == "" {
			return map[string]any{}, nil
		}
		trimmed = []byte(encoded)
	}

	var args map[string]any
	if err := json.Unmarshal(trimmed, &args); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArguments, err)
	}
	if args == nil {
		args = map[string]any{}
	}
	return args, nil
}

// ParseToolCall normalizes a runtime tool call. It never fails: a bad payload
// is recorded on the call and reported when the call is dispatched.
func ParseToolCall(call llm.ToolCall) Call {
	args, err := NormalizeArguments(call.Function.Arguments)
	return Call{
		ID:            call.ID,
		Name:          strings.TrimSpace(call.Function.Name),
		Arguments:     args,
		ArgumentError: err,
	}
}
