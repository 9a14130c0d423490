package fingerprint_test

import (
	"context"
	"fmt"
	"testing"

	"imprint/internal/testsupport"
)

func TestOpenCreatesSchema(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	count, err := store.Count(ctx)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected empty store, got %d rows", count)
	}
}

func TestUpsertAndGetByHash(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	if err := store.Upsert(ctx, "h1", `{"a":1}`); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	fp, err := store.GetByHash(ctx, "h1")
	if err != nil {
		t.Fatalf("GetByHash: %v", err)
	}
	if fp == nil || fp.Data != `{"a":1}` {
		t.Fatalf("unexpected fingerprint: %#v", fp)
	}
	if fp.CreatedAt.IsZero() || fp.UpdatedAt.IsZero() {
		t.Fatalf("expected timestamps, got %#v", fp)
	}

	missing, err := store.GetByHash(ctx, "absent")
	if err != nil {
		t.Fatalf("GetByHash absent: %v", err)
	}
	if missing != nil {
		t.Fatalf("expected nil for absent hash, got %#v", missing)
	}
}

func TestUpsertReplacesExistingRow(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	testsupport.SeedFingerprint(t, store, "h1", "original")
	testsupport.SeedFingerprint(t, store, "h1", "replacement")

	fp, err := store.GetByHash(ctx, "h1")
	if err != nil {
		t.Fatalf("GetByHash: %v", err)
	}
	if fp == nil || fp.Data != "replacement" {
		t.Fatalf("expected replacement data, got %#v", fp)
	}

	count, err := store.Count(ctx)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected single row after upsert, got %d", count)
	}
}

func TestUpsertRequiresHash(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	if err := store.Upsert(context.Background(), "  ", "data"); err == nil {
		t.Fatal("expected error for blank hash")
	}
}

func TestListReturnsInsertionOrder(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		testsupport.SeedFingerprint(t, store, fmt.Sprintf("h%d", i), fmt.Sprintf("d%d", i))
	}

	all, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 5 {
		t.Fatalf("expected 5 rows, got %d", len(all))
	}
	for i, fp := range all {
		if fp.Hash != fmt.Sprintf("h%d", i) {
			t.Fatalf("unexpected order at %d: %#v", i, fp)
		}
	}
}

func TestDelete(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	testsupport.SeedFingerprint(t, store, "h1", "d1")

	removed, err := store.Delete(ctx, "h1")
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if !removed {
		t.Fatal("expected row to be removed")
	}

	removed, err = store.Delete(ctx, "h1")
	if err != nil {
		t.Fatalf("Delete second call: %v", err)
	}
	if removed {
		t.Fatal("expected no-op delete for missing hash")
	}
}

func TestClear(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	testsupport.SeedFingerprint(t, store, "h1", "d1")
	testsupport.SeedFingerprint(t, store, "h2", "d2")

	removed, err := store.Clear(ctx)
	if err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if removed != 2 {
		t.Fatalf("expected 2 removed, got %d", removed)
	}

	count, err := store.Count(ctx)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected empty store, got %d", count)
	}
}

func TestPersistenceAcrossReopen(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	testsupport.SeedFingerprint(t, store, "h1", "d1")
	if err := store.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened := testsupport.MustOpenStore(t, cfg)
	fp, err := reopened.GetByHash(context.Background(), "h1")
	if err != nil {
		t.Fatalf("GetByHash after reopen: %v", err)
	}
	if fp == nil || fp.Data != "d1" {
		t.Fatalf("expected row to survive reopen, got %#v", fp)
	}
}

func TestHealth(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	testsupport.SeedFingerprint(t, store, "h1", "d1")

	health := store.Health(context.Background())
	if !health.DatabaseExists || !health.DatabaseReadable || !health.TableExists {
		t.Fatalf("unexpected health: %#v", health)
	}
	if !health.IntegrityCheck {
		t.Fatalf("expected integrity check to pass: %#v", health)
	}
	if health.TotalFingerprints != 1 {
		t.Fatalf("expected 1 fingerprint, got %d", health.TotalFingerprints)
	}
}
