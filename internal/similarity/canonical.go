package similarity

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrEmptyPayload indicates a submission carried no data to canonicalize.
var ErrEmptyPayload = errors.New("empty payload")

// Canonicalize produces the stable canonical string form of an arbitrary JSON
// payload. Decoding and re-encoding normalizes whitespace and orders object
// keys, so structurally identical payloads always canonicalize identically.
func Canonicalize(raw json.RawMessage) (string, error) {
	if len(raw) == 0 {
		return "", ErrEmptyPayload
	}
	var value any
	if err := json.Unmarshal(raw, &value); err != nil {
		return "", fmt.Errorf("decode payload: %w", err)
	}
	canonical, err := json.Marshal(value)
	if err != nil {
		return "", fmt.Errorf("encode canonical form: %w", err)
	}
	return string(canonical), nil
}
