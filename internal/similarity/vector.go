package similarity

import (
	"math"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Vector represents a term-frequency vector over payload feature tokens.
type Vector struct {
	terms map[string]float64
	norm  float64
}

// NewVector creates a vector from the provided tokens.
// Returns nil if no tokens are supplied.
func NewVector(tokens []string) *Vector {
	if len(tokens) == 0 {
		return nil
	}
	counts := make(map[string]float64, len(tokens))
	for _, token := range tokens {
		counts[normalizeToken(token)]++
	}
	var sum float64
	for _, count := range counts {
		sum += count * count
	}
	return &Vector{terms: counts, norm: math.Sqrt(sum)}
}

// TermCount returns the number of unique terms in the vector.
func (v *Vector) TermCount() int {
	if v == nil {
		return 0
	}
	return len(v.terms)
}

// Cosine computes the cosine similarity between two vectors.
// Returns 0 if either vector is nil or has zero norm.
func Cosine(a, b *Vector) float64 {
	if a == nil || b == nil || a.norm == 0 || b.norm == 0 {
		return 0
	}
	var dot float64
	for term, count := range a.terms {
		if other, ok := b.terms[term]; ok {
			dot += count * other
		}
	}
	if dot == 0 {
		return 0
	}
	return dot / (a.norm * b.norm)
}

// normalizeToken lowercases and NFKC-normalizes a token so visually identical
// unicode forms compare equal.
func normalizeToken(token string) string {
	return strings.ToLower(norm.NFKC.String(token))
}
