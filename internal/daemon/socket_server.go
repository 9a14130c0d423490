package daemon

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"mime"
	"net"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"log/slog"

	"github.com/gorilla/websocket"

	"imprint/internal/config"
	"imprint/internal/logging"
	"imprint/internal/match"
)

// socketServer hosts the duplex websocket endpoint and the static asset
// responder on a single HTTP listener.
type socketServer struct {
	bind      string
	staticDir string
	logger    *slog.Logger
	engine    *match.Engine

	upgrader websocket.Upgrader
	listener net.Listener
	server   *http.Server

	ctx context.Context
}

func newSocketServer(cfg *config.Config, engine *match.Engine, logger *slog.Logger) *socketServer {
	if logger == nil {
		logger = logging.NewNop()
	}
	srv := &socketServer{
		bind:      cfg.Server.Bind,
		staticDir: cfg.Paths.StaticDir,
		logger:    logger.With(logging.String(logging.FieldComponent, "server")),
		engine:    engine,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", srv.handleSocket)
	mux.HandleFunc("/", srv.handleStatic)

	// Only the header read is bounded: sessions are long-lived, so request
	// and write deadlines would sever healthy connections.
	srv.server = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return srv
}

func (s *socketServer) start(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.bind)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.bind, err)
	}
	s.listener = listener
	s.ctx = ctx

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("socket server error", logging.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}()

	s.logger.Info("socket server listening", logging.String("address", listener.Addr().String()))
	return nil
}

func (s *socketServer) stop() {
	if s.server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}
	if s.listener != nil {
		_ = s.listener.Close()
		s.listener = nil
	}
}

func (s *socketServer) addr() string {
	if s.listener == nil {
		return s.bind
	}
	return s.listener.Addr().String()
}

// handleSocket upgrades the connection and hands it to a session. A request
// without upgrade headers gets 426, matching the documented contract for
// plain HTTP clients hitting the websocket endpoint.
func (s *socketServer) handleSocket(w http.ResponseWriter, r *http.Request) {
	if !websocket.IsWebSocketUpgrade(r) {
		w.WriteHeader(http.StatusUpgradeRequired)
		_, _ = w.Write([]byte("Upgrade Required"))
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written its own error response.
		s.logger.Warn("websocket upgrade failed", logging.Error(err))
		return
	}

	session := newSession(conn, s.engine, s.logger)
	session.run(s.sessionContext())
}

func (s *socketServer) sessionContext() context.Context {
	if s.ctx != nil {
		return s.ctx
	}
	return context.Background()
}

// handleStatic serves files from the configured static directory. Missing
// resources get 404, any other read failure 500.
func (s *socketServer) handleStatic(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if strings.TrimSpace(s.staticDir) == "" {
		http.Error(w, "File not found", http.StatusNotFound)
		return
	}

	name := path.Clean(r.URL.Path)
	if name == "/" || name == "." {
		name = "/index.html"
	}
	if strings.Contains(name, "..") {
		http.Error(w, "File not found", http.StatusNotFound)
		return
	}

	target := filepath.Join(s.staticDir, filepath.FromSlash(strings.TrimPrefix(name, "/")))
	data, err := os.ReadFile(target)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			http.Error(w, "File not found", http.StatusNotFound)
			return
		}
		s.logger.Error("static read failed",
			logging.String("path", target),
			logging.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	if contentType := mime.TypeByExtension(filepath.Ext(target)); contentType != "" {
		w.Header().Set("Content-Type", contentType)
	}
	_, _ = w.Write(data)
}
