package similarity

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
)

// Digest derives the fixed-form identifying digest for a canonical payload
// string. Identical canonical input always yields an identical digest; the
// exact-match path relies on nothing beyond string equality of the result.
func Digest(canonical string) (string, error) {
	if strings.TrimSpace(canonical) == "" {
		return "", errors.New("digest requires a canonical payload")
	}
	sum := sha256.Sum256([]byte(canonical))
	return hex.EncodeToString(sum[:]), nil
}
