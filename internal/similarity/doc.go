// Package similarity supplies the pure functions the matching engine treats as
// external collaborators: canonical payload serialization, digest computation,
// and pairwise confidence scoring.
//
// Digest identifies identical payloads by string equality only; Confidence
// compares two canonical payloads through term-frequency feature vectors and
// returns a score in [0,100]. Both are deterministic and hold no state, so the
// engine can call them from inside its critical section without suspension.
package similarity
