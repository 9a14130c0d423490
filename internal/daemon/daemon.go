package daemon

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync/atomic"

	"log/slog"

	"github.com/gofrs/flock"
	"golang.org/x/sys/unix"

	"imprint/internal/config"
	"imprint/internal/fingerprint"
	"imprint/internal/logging"
	"imprint/internal/match"
)

// Daemon coordinates the matching service and enforces single-instance execution.
type Daemon struct {
	cfg    *config.Config
	logger *slog.Logger
	store  *fingerprint.Store
	engine *match.Engine

	lockPath string
	lock     *flock.Flock

	server *socketServer

	running atomic.Bool
	ctx     context.Context
	cancel  context.CancelFunc
}

// Status represents daemon runtime information.
type Status struct {
	Running      bool
	ListenAddr   string
	DBPath       string
	LockFilePath string
	Fingerprints int
}

// New constructs a daemon with initialized dependencies.
func New(cfg *config.Config, store *fingerprint.Store, engine *match.Engine, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil || store == nil || engine == nil {
		return nil, errors.New("daemon requires config, store, and engine")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	if err := checkDataDirAccess(cfg.Paths.DataDir); err != nil {
		return nil, err
	}

	lockPath := filepath.Join(cfg.Paths.LogDir, "imprintd.lock")
	return &Daemon{
		cfg:      cfg,
		logger:   logger,
		store:    store,
		engine:   engine,
		lockPath: lockPath,
		lock:     flock.New(lockPath),
	}, nil
}

// checkDataDirAccess verifies the data directory is usable before the daemon
// commits to the lock. A read-only mount would otherwise surface as opaque
// store errors mid-session.
func checkDataDirAccess(path string) error {
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return fmt.Errorf("data directory %q not accessible: %w", path, err)
	}
	return nil
}

// Start acquires the daemon lock and begins serving duplex sessions.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another imprint daemon instance is already running")
	}

	d.ctx, d.cancel = context.WithCancel(ctx)
	server := newSocketServer(d.cfg, d.engine, d.logger)
	if err := server.start(d.ctx); err != nil {
		_ = d.lock.Unlock()
		d.cancel()
		d.ctx = nil
		d.cancel = nil
		return fmt.Errorf("start socket server: %w", err)
	}
	d.server = server

	d.running.Store(true)
	d.logger.Info("imprint daemon started",
		logging.String("lock", d.lockPath),
		logging.String("address", server.addr()))
	return nil
}

// Stop stops serving sessions and releases the daemon lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}

	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	if d.server != nil {
		d.server.stop()
		d.server = nil
	}
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", logging.Error(err))
	}
	d.ctx = nil
	d.running.Store(false)
	d.logger.Info("imprint daemon stopped")
}

// Close releases resources held by the daemon.
func (d *Daemon) Close() error {
	d.Stop()
	if d.store != nil {
		return d.store.Close()
	}
	return nil
}

// ListenAddr reports the bound address once the daemon is running.
func (d *Daemon) ListenAddr() string {
	if d.server == nil {
		return ""
	}
	return d.server.addr()
}

// Status reports daemon runtime information.
func (d *Daemon) Status(ctx context.Context) Status {
	status := Status{
		Running:      d.running.Load(),
		ListenAddr:   d.ListenAddr(),
		DBPath:       d.store.Path(),
		LockFilePath: d.lockPath,
	}
	if count, err := d.store.Count(ctx); err == nil {
		status.Fingerprints = count
	}
	return status
}

// ListFingerprints returns every stored fingerprint.
func (d *Daemon) ListFingerprints(ctx context.Context) ([]fingerprint.Fingerprint, error) {
	return d.store.List(ctx)
}

// GetFingerprint returns a single fingerprint by hash, nil when absent.
func (d *Daemon) GetFingerprint(ctx context.Context, hash string) (*fingerprint.Fingerprint, error) {
	return d.store.GetByHash(ctx, hash)
}

// DeleteFingerprint removes a fingerprint by hash. Administrative operation;
// the matching workflow itself never deletes.
func (d *Daemon) DeleteFingerprint(ctx context.Context, hash string) (bool, error) {
	return d.store.Delete(ctx, hash)
}

// ClearFingerprints removes every stored fingerprint.
func (d *Daemon) ClearFingerprints(ctx context.Context) (int64, error) {
	return d.store.Clear(ctx)
}

// DatabaseHealth reports fingerprint database diagnostics.
func (d *Daemon) DatabaseHealth(ctx context.Context) fingerprint.DatabaseHealth {
	return d.store.Health(ctx)
}
