package api

import "encoding/json"

// Envelope types exchanged over a duplex session. Inbound messages carrying
// any type other than TypeData are ignored without a response.
const (
	TypeData        = "data"
	TypeFingerprint = "fingerprint"
	TypeError       = "error"
)

// Envelope is the framing for every message on a duplex session. Data is left
// raw so the payload shape stays opaque to the transport.
type Envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// MatchResult reports the outcome of one data submission.
type MatchResult struct {
	Hash            string  `json:"hash"`
	ExactMatchFound bool    `json:"exactMatchFound"`
	ClosestMatch    float64 `json:"closestMatch"`
}

// FingerprintEnvelope wraps a match result for transmission.
func FingerprintEnvelope(result MatchResult) (Envelope, error) {
	data, err := json.Marshal(result)
	if err != nil {
		return Envelope{}, err
	}
	return Envelope{Type: TypeFingerprint, Data: data}, nil
}

// ErrorEnvelope wraps an error message for transmission. Marshaling a plain
// string cannot fail, so the envelope is returned directly.
func ErrorEnvelope(message string) Envelope {
	data, _ := json.Marshal(message)
	return Envelope{Type: TypeError, Data: data}
}
