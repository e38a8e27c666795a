package config

import (
	"os"
	"path/filepath"
)

const (
	defaultBaseURL        = "https://www.googleapis.com/drive/v3"
	defaultRequestTimeout = 30
	defaultPageSize       = 1000
	defaultBatchSize      = 500
	defaultReviewListCap  = 50
)

// Default returns a configuration populated with default values.
func Default() Config {
	return Config{
		Drive: Drive{
			BaseURL:        defaultBaseURL,
			RequestTimeout: defaultRequestTimeout,
			PageSize:       defaultPageSize,
		},
		Paths: Paths{
			DataDir:   defaultDataDir(),
			LogDir:    defaultLogDir(),
			PatchFile: "~/.config/driveindex/patches.json",
		},
		Indexing: Indexing{
			BatchSize:     defaultBatchSize,
			ReviewListCap: defaultReviewListCap,
		},
		Logging: Logging{
			Format: "console",
			Level:  "info",
		},
	}
}

func defaultDataDir() string {
	if base, ok := os.LookupEnv("XDG_DATA_HOME"); ok && base != "" {
		return filepath.Join(base, "driveindex")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "~/.local/share/driveindex"
	}
	return filepath.Join(home, ".local", "share", "driveindex")
}

func defaultLogDir() string {
	if base, ok := os.LookupEnv("XDG_STATE_HOME"); ok && base != "" {
		return filepath.Join(base, "driveindex", "logs")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "~/.local/state/driveindex/logs"
	}
	return filepath.Join(home, ".local", "state", "driveindex", "logs")
}
