// Package testsupport provides shared fixtures for package tests: temp-dir
// configs and pre-opened fingerprint stores with automatic cleanup.
package testsupport

import (
	"path/filepath"
	"testing"

	"imprint/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.StaticDir = filepath.Join(base, "static")
	cfg.Server.Bind = "127.0.0.1:0"

	for _, opt := range opts {
		opt(&cfg)
	}

	return &cfg
}

// WithStaticDir overrides the static asset directory on the test config.
func WithStaticDir(dir string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Paths.StaticDir = dir
	}
}
