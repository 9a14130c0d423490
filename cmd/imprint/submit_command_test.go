package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestSubmitPayloadFile(t *testing.T) {
	env := setupCLITestEnv(t)
	if err := env.daemon.Start(context.Background()); err != nil {
		t.Fatalf("daemon.Start: %v", err)
	}
	server := "ws://" + env.daemon.ListenAddr() + "/ws"

	payload := filepath.Join(t.TempDir(), "payload.json")
	if err := os.WriteFile(payload, []byte(`{"title":"gamma","tags":["g","h"]}`), 0o644); err != nil {
		t.Fatalf("write payload: %v", err)
	}

	out, _, err := runCLI(t, []string{"submit", "--server", server, payload}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	requireContains(t, out, "Hash:")
	requireContains(t, out, "no exact match")
	requireContains(t, out, "0.00")

	// resubmitting the identical payload is an exact match at full confidence
	out, _, err = runCLI(t, []string{"submit", "--server", server, payload}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("submit repeat: %v", err)
	}
	requireContains(t, out, "exact match")
	requireContains(t, out, "100.00")
}

func TestSubmitRejectsInvalidJSON(t *testing.T) {
	env := setupCLITestEnv(t)

	payload := filepath.Join(t.TempDir(), "broken.json")
	if err := os.WriteFile(payload, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write payload: %v", err)
	}

	_, _, err := runCLI(t, []string{"submit", payload}, env.socketPath, env.configPath)
	if err == nil {
		t.Fatal("expected invalid JSON to be rejected before dialing")
	}
	requireContains(t, err.Error(), "not valid JSON")
}

func TestSubmitMissingFile(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, []string{"submit", filepath.Join(t.TempDir(), "absent.json")}, env.socketPath, env.configPath)
	if err == nil {
		t.Fatal("expected missing payload file to fail")
	}
	requireContains(t, err.Error(), "read payload file")
}
