package match

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"imprint/internal/fingerprint"
	"imprint/internal/logging"
	"imprint/internal/similarity"
)

// exactMatchConfidence is the score reported when a digest already exists.
const exactMatchConfidence = 100

// Store is the persistence surface the engine composes over. Each method is
// individually atomic; the engine provides the cross-call serialization.
type Store interface {
	GetByHash(ctx context.Context, hash string) (*fingerprint.Fingerprint, error)
	List(ctx context.Context) ([]fingerprint.Fingerprint, error)
	Upsert(ctx context.Context, hash, data string) error
}

// Result reports the outcome of one submission. It is never persisted.
type Result struct {
	Hash            string
	ExactMatchFound bool
	ClosestMatch    float64
}

// Engine orchestrates digesting, exact lookup, the nearest-neighbor scan, and
// persistence for submitted payloads.
type Engine struct {
	store  Store
	logger *slog.Logger

	// mu guards the lookup-scan-insert sequence. Submissions serialize here:
	// two novel payloads scanning before either inserts would each miss the
	// other as a candidate neighbor.
	mu sync.Mutex
}

// NewEngine constructs an engine over the provided store.
func NewEngine(store Store, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Engine{
		store:  store,
		logger: logger.With(logging.String(logging.FieldComponent, "match")),
	}
}

// Submit runs the full matching workflow for a raw payload. On an exact digest
// hit the existing row is left untouched and full confidence is reported.
// Otherwise the closest stored fingerprint is scored and the new fingerprint
// persisted. Digest and store failures abort with no mutation; per-record
// similarity failures degrade to a score of 0 and the scan continues.
func (e *Engine) Submit(ctx context.Context, payload json.RawMessage) (Result, error) {
	canonical, err := similarity.Canonicalize(payload)
	if err != nil {
		return Result{}, wrap(ErrPayload, "canonicalize payload", err)
	}
	digest, err := similarity.Digest(canonical)
	if err != nil {
		return Result{}, wrap(ErrDigest, "compute digest", err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	exact, err := e.store.GetByHash(ctx, digest)
	if err != nil {
		return Result{}, wrap(ErrStore, "exact lookup", err)
	}
	if exact != nil {
		e.logger.Debug("exact match found", logging.String(logging.FieldHash, digest))
		return Result{Hash: digest, ExactMatchFound: true, ClosestMatch: exactMatchConfidence}, nil
	}

	all, err := e.store.List(ctx)
	if err != nil {
		return Result{}, wrap(ErrStore, "enumerate fingerprints", err)
	}
	closest := e.closestMatch(all, canonical)

	if err := e.store.Upsert(ctx, digest, canonical); err != nil {
		return Result{}, wrap(ErrStore, "persist fingerprint", err)
	}

	e.logger.Debug("fingerprint stored",
		logging.String(logging.FieldHash, digest),
		logging.Int("candidates", len(all)),
		logging.Float64("closest_match", closest))
	return Result{Hash: digest, ExactMatchFound: false, ClosestMatch: closest}, nil
}

// closestMatch returns the best confidence over all stored records, 0 for an
// empty store. A record that cannot be compared contributes 0 instead of
// aborting the scan.
func (e *Engine) closestMatch(records []fingerprint.Fingerprint, canonical string) float64 {
	var closest float64
	for _, record := range records {
		score, err := similarity.Confidence(record.Data, canonical)
		if err != nil {
			e.logger.Warn("similarity comparison failed",
				logging.String(logging.FieldHash, record.Hash),
				logging.Error(err),
				logging.String(logging.FieldEventType, "similarity_failure"))
			score = 0
		}
		if score > closest {
			closest = score
		}
	}
	return closest
}
