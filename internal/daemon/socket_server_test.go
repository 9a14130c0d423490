package daemon_test

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"imprint/internal/api"
	"imprint/internal/daemon"
	"imprint/internal/logging"
	"imprint/internal/match"
	"imprint/internal/testsupport"
)

func startDaemon(t *testing.T) (*daemon.Daemon, string) {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	engine := match.NewEngine(store, logging.NewNop())

	d, err := daemon.New(cfg, store, engine, logging.NewNop())
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}
	if err := d.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	t.Cleanup(d.Stop)

	if err := os.WriteFile(filepath.Join(cfg.Paths.StaticDir, "index.html"), []byte("<html>imprint</html>"), 0o644); err != nil {
		t.Fatalf("write index.html: %v", err)
	}
	return d, d.ListenAddr()
}

func dialSession(t *testing.T, addr string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial("ws://"+addr+"/ws", nil)
	if err != nil {
		t.Fatalf("dial websocket: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readEnvelope(t *testing.T, conn *websocket.Conn) api.Envelope {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var envelope api.Envelope
	if err := conn.ReadJSON(&envelope); err != nil {
		t.Fatalf("read envelope: %v", err)
	}
	return envelope
}

func decodeResult(t *testing.T, envelope api.Envelope) api.MatchResult {
	t.Helper()
	if envelope.Type != api.TypeFingerprint {
		t.Fatalf("expected fingerprint envelope, got %#v", envelope)
	}
	var result api.MatchResult
	if err := json.Unmarshal(envelope.Data, &result); err != nil {
		t.Fatalf("decode match result: %v", err)
	}
	return result
}

func TestNonUpgradeRequestGets426(t *testing.T) {
	_, addr := startDaemon(t)

	resp, err := http.Get("http://" + addr + "/ws")
	if err != nil {
		t.Fatalf("GET /ws: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUpgradeRequired {
		t.Fatalf("expected 426, got %d", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	if string(body) != "Upgrade Required" {
		t.Fatalf("unexpected body: %q", body)
	}
}

func TestSessionMatchWorkflow(t *testing.T) {
	_, addr := startDaemon(t)
	conn := dialSession(t, addr)

	send := func(payload string) {
		t.Helper()
		if err := conn.WriteMessage(websocket.TextMessage, []byte(payload)); err != nil {
			t.Fatalf("write message: %v", err)
		}
	}

	send(`{"type":"data","data":{"a":1}}`)
	first := decodeResult(t, readEnvelope(t, conn))
	if first.ExactMatchFound || first.ClosestMatch != 0 || first.Hash == "" {
		t.Fatalf("unexpected first result: %#v", first)
	}

	send(`{"type":"data","data":{"a":1}}`)
	second := decodeResult(t, readEnvelope(t, conn))
	if !second.ExactMatchFound || second.ClosestMatch != 100 || second.Hash != first.Hash {
		t.Fatalf("unexpected second result: %#v", second)
	}

	send(`{"type":"data","data":{"a":2}}`)
	third := decodeResult(t, readEnvelope(t, conn))
	if third.ExactMatchFound || third.Hash == first.Hash {
		t.Fatalf("unexpected third result: %#v", third)
	}
}

func TestSessionSurvivesFailures(t *testing.T) {
	_, addr := startDaemon(t)
	conn := dialSession(t, addr)

	// Malformed envelope: error response, connection stays open.
	if err := conn.WriteMessage(websocket.TextMessage, []byte(`{"type":`)); err != nil {
		t.Fatalf("write malformed: %v", err)
	}
	envelope := readEnvelope(t, conn)
	if envelope.Type != api.TypeError {
		t.Fatalf("expected error envelope, got %#v", envelope)
	}

	// Data envelope with an unparsable payload: error response, still open.
	if err := conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"data"}`)); err != nil {
		t.Fatalf("write empty data: %v", err)
	}
	envelope = readEnvelope(t, conn)
	if envelope.Type != api.TypeError {
		t.Fatalf("expected error envelope, got %#v", envelope)
	}

	// The same session still processes a valid submission afterwards.
	if err := conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"data","data":{"ok":true}}`)); err != nil {
		t.Fatalf("write valid: %v", err)
	}
	result := decodeResult(t, readEnvelope(t, conn))
	if result.Hash == "" {
		t.Fatalf("expected a result after recovered errors: %#v", result)
	}
}

func TestNonDataEnvelopesAreIgnored(t *testing.T) {
	_, addr := startDaemon(t)
	conn := dialSession(t, addr)

	if err := conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"ping","data":{}}`)); err != nil {
		t.Fatalf("write ping: %v", err)
	}

	_ = conn.SetReadDeadline(time.Now().Add(300 * time.Millisecond))
	var envelope api.Envelope
	err := conn.ReadJSON(&envelope)
	if err == nil {
		t.Fatalf("expected no response for non-data envelope, got %#v", envelope)
	}
	if netErr, ok := err.(net.Error); !ok || !netErr.Timeout() {
		t.Fatalf("expected read timeout, got %v", err)
	}
}

func TestStaticServing(t *testing.T) {
	_, addr := startDaemon(t)

	resp, err := http.Get("http://" + addr + "/")
	if err != nil {
		t.Fatalf("GET /: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK || string(body) != "<html>imprint</html>" {
		t.Fatalf("unexpected index response: %d %q", resp.StatusCode, body)
	}

	resp, err = http.Get("http://" + addr + "/missing.css")
	if err != nil {
		t.Fatalf("GET missing: %v", err)
	}
	body, _ = io.ReadAll(resp.Body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 for missing file, got %d %q", resp.StatusCode, body)
	}
}
