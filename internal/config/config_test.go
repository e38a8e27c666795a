package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"driveindex/internal/config"
)

func TestLoadDefaultsAndExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("XDG_DATA_HOME", "")
	t.Setenv("XDG_STATE_HOME", "")

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantData := filepath.Join(tempHome, ".local", "share", "driveindex")
	if cfg.Paths.DataDir != wantData {
		t.Fatalf("unexpected data dir: got %q want %q", cfg.Paths.DataDir, wantData)
	}
	if !filepath.IsAbs(cfg.Paths.PatchFile) {
		t.Fatalf("expected patch file path expanded, got %q", cfg.Paths.PatchFile)
	}
	if cfg.Drive.BaseURL != "https://www.googleapis.com/drive/v3" {
		t.Fatalf("unexpected drive base url: %q", cfg.Drive.BaseURL)
	}
	if cfg.Indexing.BatchSize != 500 {
		t.Fatalf("unexpected batch size: %d", cfg.Indexing.BatchSize)
	}
	if cfg.Indexing.ReviewListCap != 50 {
		t.Fatalf("unexpected review list cap: %d", cfg.Indexing.ReviewListCap)
	}
	if cfg.Logging.Format != "console" || cfg.Logging.Level != "info" {
		t.Fatalf("unexpected logging defaults: %+v", cfg.Logging)
	}
}

func TestLoadExplicitFileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "driveindex.toml")
	content := strings.Join([]string{
		"[drive]",
		`root_folder_id = "root-123"`,
		`api_key = " key "`,
		`base_url = "https://example.test/drive/"`,
		"",
		"[indexing]",
		"batch_size = 100",
	}, "\n")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved == "" {
		t.Fatalf("expected existing config at %q", path)
	}
	if cfg.Drive.RootFolderID != "root-123" {
		t.Fatalf("unexpected root folder id: %q", cfg.Drive.RootFolderID)
	}
	if cfg.Drive.APIKey != "key" {
		t.Fatalf("expected trimmed api key, got %q", cfg.Drive.APIKey)
	}
	if cfg.Drive.BaseURL != "https://example.test/drive" {
		t.Fatalf("expected trimmed base url, got %q", cfg.Drive.BaseURL)
	}
	if cfg.Indexing.BatchSize != 100 {
		t.Fatalf("unexpected batch size: %d", cfg.Indexing.BatchSize)
	}
}

func TestValidateRejectsBadLogFormat(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "driveindex.toml")
	if err := os.WriteFile(path, []byte("[logging]\nformat = \"xml\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, _, _, err := config.Load(path); err == nil {
		t.Fatal("expected error for unsupported log format")
	}
}

func TestEnsureDirectories(t *testing.T) {
	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.LogDir = filepath.Join(base, "logs")

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	for _, dir := range []string{cfg.Paths.DataDir, cfg.Paths.LogDir} {
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			t.Fatalf("expected directory %q, err=%v", dir, err)
		}
	}
}
