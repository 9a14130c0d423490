package ipc

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"
	"os"
	"strings"
	"sync"
	"time"

	"log/slog"

	"imprint/internal/api"
	"imprint/internal/daemon"
	"imprint/internal/fingerprint"
	"imprint/internal/logging"
)

// previewLength bounds the payload excerpt carried by list responses.
const previewLength = 64

// Server exposes daemon control via JSON-RPC over a Unix domain socket.
type Server struct {
	path      string
	daemon    *daemon.Daemon
	logger    *slog.Logger
	listener  net.Listener
	rpcServer *rpc.Server

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewServer configures the IPC server at the given socket path.
func NewServer(ctx context.Context, path string, d *daemon.Daemon, logger *slog.Logger) (*Server, error) {
	if d == nil {
		return nil, errors.New("ipc server requires daemon")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	if err := os.RemoveAll(path); err != nil {
		return nil, fmt.Errorf("remove existing socket: %w", err)
	}

	listener, err := net.Listen("unix", path)
	if err != nil {
		return nil, fmt.Errorf("listen on socket: %w", err)
	}

	rpcServer := rpc.NewServer()
	srv := &service{daemon: d, logger: logger, ctx: ctx}
	if err := rpcServer.RegisterName("Imprint", srv); err != nil {
		listener.Close()
		return nil, fmt.Errorf("register rpc service: %w", err)
	}

	serverCtx, cancel := context.WithCancel(ctx)
	return &Server{
		path:      path,
		daemon:    d,
		logger:    logger,
		listener:  listener,
		rpcServer: rpcServer,
		ctx:       serverCtx,
		cancel:    cancel,
	}, nil
}

// Serve starts accepting RPC connections until the context is canceled.
func (s *Server) Serve() {
	s.logger.Debug("IPC server listening", logging.String("socket", s.path))
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for {
			conn, err := s.listener.Accept()
			if err != nil {
				select {
				case <-s.ctx.Done():
					return
				default:
				}
				s.logger.Warn("accept failed",
					logging.Error(err),
					logging.String(logging.FieldEventType, "ipc_accept_failed"))
				continue
			}
			s.wg.Add(1)
			go func(c net.Conn) {
				defer s.wg.Done()
				s.rpcServer.ServeCodec(jsonrpc.NewServerCodec(c))
			}(conn)
		}
	}()
}

// Close stops the server and removes the socket file.
func (s *Server) Close() {
	s.cancel()
	if s.listener != nil {
		_ = s.listener.Close()
	}
	s.wg.Wait()
	if err := os.RemoveAll(s.path); err != nil {
		s.logger.Warn("failed to remove socket",
			logging.String("socket", s.path),
			logging.Error(err))
	}
}

type service struct {
	daemon *daemon.Daemon
	logger *slog.Logger
	ctx    context.Context
}

func (s *service) log() *slog.Logger {
	if s.logger == nil {
		return logging.NewNop()
	}
	return s.logger.With(logging.String(logging.FieldComponent, "ipc"))
}

func viewOf(fp fingerprint.Fingerprint) api.FingerprintView {
	preview := fp.Data
	if len(preview) > previewLength {
		preview = preview[:previewLength] + "…"
	}
	view := api.FingerprintView{
		Hash:     fp.Hash,
		DataSize: len(fp.Data),
		Preview:  preview,
	}
	if !fp.CreatedAt.IsZero() {
		view.CreatedAt = fp.CreatedAt.Format(time.RFC3339)
	}
	if !fp.UpdatedAt.IsZero() {
		view.UpdatedAt = fp.UpdatedAt.Format(time.RFC3339)
	}
	return view
}

func (s *service) Status(_ StatusRequest, resp *StatusResponse) error {
	status := s.daemon.Status(s.ctx)
	resp.Running = status.Running
	resp.ListenAddr = status.ListenAddr
	resp.DBPath = status.DBPath
	resp.LockPath = status.LockFilePath
	resp.Fingerprints = status.Fingerprints
	resp.PID = os.Getpid()
	return nil
}

func (s *service) FingerprintList(_ FingerprintListRequest, resp *FingerprintListResponse) error {
	all, err := s.daemon.ListFingerprints(s.ctx)
	if err != nil {
		return err
	}
	resp.Items = make([]FingerprintView, 0, len(all))
	for _, fp := range all {
		resp.Items = append(resp.Items, viewOf(fp))
	}
	return nil
}

func (s *service) FingerprintDescribe(req FingerprintDescribeRequest, resp *FingerprintDescribeResponse) error {
	hash := strings.TrimSpace(req.Hash)
	if hash == "" {
		return errors.New("fingerprint describe requires a hash")
	}
	fp, err := s.daemon.GetFingerprint(s.ctx, hash)
	if err != nil {
		return err
	}
	if fp == nil {
		resp.Found = false
		return nil
	}
	resp.Found = true
	resp.Item = viewOf(*fp)
	resp.Data = fp.Data
	return nil
}

func (s *service) FingerprintDelete(req FingerprintDeleteRequest, resp *FingerprintDeleteResponse) error {
	hash := strings.TrimSpace(req.Hash)
	if hash == "" {
		return errors.New("fingerprint delete requires a hash")
	}
	s.log().Debug("fingerprint delete requested", logging.String(logging.FieldHash, hash))
	removed, err := s.daemon.DeleteFingerprint(s.ctx, hash)
	if err != nil {
		return err
	}
	resp.Removed = removed
	if removed {
		s.log().Info("fingerprint deleted via IPC",
			logging.String(logging.FieldHash, hash),
			logging.String(logging.FieldEventType, "fingerprint_delete"))
	}
	return nil
}

func (s *service) FingerprintClear(_ FingerprintClearRequest, resp *FingerprintClearResponse) error {
	s.log().Debug("fingerprint clear requested")
	removed, err := s.daemon.ClearFingerprints(s.ctx)
	if err != nil {
		return err
	}
	resp.Removed = removed
	s.log().Info("fingerprints cleared",
		logging.String(logging.FieldEventType, "fingerprint_clear"),
		logging.Int64("removed_count", removed))
	return nil
}

func (s *service) DatabaseHealth(_ DatabaseHealthRequest, resp *DatabaseHealthResponse) error {
	health := s.daemon.DatabaseHealth(s.ctx)
	resp.DBPath = health.DBPath
	resp.DatabaseExists = health.DatabaseExists
	resp.DatabaseReadable = health.DatabaseReadable
	resp.SchemaVersion = health.SchemaVersion
	resp.TableExists = health.TableExists
	resp.IntegrityCheck = health.IntegrityCheck
	resp.TotalFingerprints = health.TotalFingerprints
	resp.Error = health.Error
	return nil
}
