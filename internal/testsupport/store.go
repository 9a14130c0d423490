package testsupport

import (
	"context"
	"testing"

	"imprint/internal/config"
	"imprint/internal/fingerprint"
)

// MustOpenStore opens a fingerprint.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *fingerprint.Store {
	t.Helper()

	store, err := fingerprint.Open(cfg)
	if err != nil {
		t.Fatalf("fingerprint.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// SeedFingerprint inserts a fingerprint row for tests using the provided store.
func SeedFingerprint(t testing.TB, store *fingerprint.Store, hash, data string) {
	t.Helper()

	if err := store.Upsert(context.Background(), hash, data); err != nil {
		t.Fatalf("store.Upsert: %v", err)
	}
}
