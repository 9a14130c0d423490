package similarity

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Confidence scores how similar two canonical payloads are, from 0 (nothing in
// common) to 100 (feature-identical). The first argument is the stored record,
// the second the incoming payload; symmetry is not assumed by callers.
// Returns an error when either payload cannot be parsed — the caller decides
// how to degrade.
func Confidence(stored, incoming string) (float64, error) {
	storedVec, err := Features(stored)
	if err != nil {
		return 0, fmt.Errorf("stored record: %w", err)
	}
	incomingVec, err := Features(incoming)
	if err != nil {
		return 0, fmt.Errorf("incoming payload: %w", err)
	}

	score := Cosine(storedVec, incomingVec) * 100
	if score < 0 {
		return 0, nil
	}
	if score > 100 {
		return 100, nil
	}
	return score, nil
}

// Features extracts the term-frequency vector for a canonical payload. Object
// keys, scalar leaves, and path-qualified key/value pairs all contribute terms
// so both structure and content affect the score.
func Features(canonical string) (*Vector, error) {
	var value any
	if err := json.Unmarshal([]byte(canonical), &value); err != nil {
		return nil, fmt.Errorf("parse payload features: %w", err)
	}
	return NewVector(collectTokens(nil, "", value)), nil
}

func collectTokens(tokens []string, path string, value any) []string {
	switch v := value.(type) {
	case map[string]any:
		for key, child := range v {
			childPath := key
			if path != "" {
				childPath = path + "." + key
			}
			tokens = append(tokens, key)
			tokens = collectTokens(tokens, childPath, child)
		}
	case []any:
		for _, child := range v {
			tokens = collectTokens(tokens, path, child)
		}
	case string:
		tokens = append(tokens, leafToken(path, v))
		for _, word := range strings.Fields(v) {
			tokens = append(tokens, word)
		}
	case float64:
		tokens = append(tokens, leafToken(path, strconv.FormatFloat(v, 'g', -1, 64)))
	case bool:
		tokens = append(tokens, leafToken(path, strconv.FormatBool(v)))
	case nil:
		tokens = append(tokens, leafToken(path, "null"))
	}
	return tokens
}

func leafToken(path, text string) string {
	if path == "" {
		return text
	}
	return path + "=" + text
}
