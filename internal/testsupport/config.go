package testsupport

import (
	"path/filepath"
	"testing"

	"driveindex/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Drive.RootFolderID = "root-folder"
	cfg.Drive.APIKey = "test"
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.PatchFile = filepath.Join(base, "patches.json")

	for _, opt := range opts {
		opt(&cfg)
	}

	return &cfg
}

// WithRootFolder overrides the drive root folder id on the test config.
func WithRootFolder(id string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Drive.RootFolderID = id
	}
}

// WithBatchSize overrides the upsert batch size on the test config.
func WithBatchSize(size int) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Indexing.BatchSize = size
	}
}
