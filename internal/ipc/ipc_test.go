package ipc_test

import (
	"context"
	"testing"

	"imprint/internal/daemon"
	"imprint/internal/ipc"
	"imprint/internal/logging"
	"imprint/internal/match"
	"imprint/internal/testsupport"
)

func startIPC(t *testing.T) *ipc.Client {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	engine := match.NewEngine(store, logging.NewNop())

	d, err := daemon.New(cfg, store, engine, logging.NewNop())
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	server, err := ipc.NewServer(ctx, cfg.SocketPath(), d, logging.NewNop())
	if err != nil {
		t.Fatalf("ipc.NewServer: %v", err)
	}
	server.Serve()
	t.Cleanup(server.Close)

	client, err := ipc.Dial(cfg.SocketPath())
	if err != nil {
		t.Fatalf("ipc.Dial: %v", err)
	}
	t.Cleanup(func() { client.Close() })

	testsupport.SeedFingerprint(t, store, "h1", `{"a":1}`)
	testsupport.SeedFingerprint(t, store, "h2", `{"b":2}`)
	return client
}

func TestStatusRoundTrip(t *testing.T) {
	client := startIPC(t)

	status, err := client.Status()
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if status.Running {
		t.Fatal("daemon was never started; expected running=false")
	}
	if status.Fingerprints != 2 {
		t.Fatalf("expected 2 fingerprints, got %d", status.Fingerprints)
	}
	if status.PID == 0 || status.DBPath == "" {
		t.Fatalf("incomplete status: %#v", status)
	}
}

func TestFingerprintAdministration(t *testing.T) {
	client := startIPC(t)

	list, err := client.FingerprintList()
	if err != nil {
		t.Fatalf("FingerprintList: %v", err)
	}
	if len(list.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(list.Items))
	}
	if list.Items[0].Hash != "h1" || list.Items[0].DataSize != len(`{"a":1}`) {
		t.Fatalf("unexpected first item: %#v", list.Items[0])
	}

	described, err := client.FingerprintDescribe("h1")
	if err != nil {
		t.Fatalf("FingerprintDescribe: %v", err)
	}
	if !described.Found || described.Data != `{"a":1}` {
		t.Fatalf("unexpected describe result: %#v", described)
	}

	absent, err := client.FingerprintDescribe("nope")
	if err != nil {
		t.Fatalf("FingerprintDescribe absent: %v", err)
	}
	if absent.Found {
		t.Fatal("expected found=false for unknown hash")
	}

	if _, err := client.FingerprintDescribe(""); err == nil {
		t.Fatal("expected error for blank hash")
	}

	deleted, err := client.FingerprintDelete("h1")
	if err != nil || !deleted.Removed {
		t.Fatalf("FingerprintDelete: %#v %v", deleted, err)
	}

	cleared, err := client.FingerprintClear()
	if err != nil {
		t.Fatalf("FingerprintClear: %v", err)
	}
	if cleared.Removed != 1 {
		t.Fatalf("expected 1 cleared, got %d", cleared.Removed)
	}
}

func TestDatabaseHealthRoundTrip(t *testing.T) {
	client := startIPC(t)

	health, err := client.DatabaseHealth()
	if err != nil {
		t.Fatalf("DatabaseHealth: %v", err)
	}
	if !health.DatabaseReadable || !health.TableExists {
		t.Fatalf("unexpected health: %#v", health)
	}
	if health.TotalFingerprints != 2 {
		t.Fatalf("expected 2 fingerprints, got %d", health.TotalFingerprints)
	}
}
