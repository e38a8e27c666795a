package config

import (
	"fmt"
	"strings"
)

// normalize expands and cleans path-valued fields and fills zero values with
// defaults so downstream code never sees an empty tuning knob.
func (c *Config) normalize() error {
	var err error
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return err
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return err
	}
	if c.Paths.PatchFile, err = expandPath(c.Paths.PatchFile); err != nil {
		return err
	}

	c.Drive.RootFolderID = strings.TrimSpace(c.Drive.RootFolderID)
	c.Drive.APIKey = strings.TrimSpace(c.Drive.APIKey)
	c.Drive.AccessToken = strings.TrimSpace(c.Drive.AccessToken)
	c.Drive.BaseURL = strings.TrimRight(strings.TrimSpace(c.Drive.BaseURL), "/")

	if c.Drive.BaseURL == "" {
		c.Drive.BaseURL = defaultBaseURL
	}
	if c.Drive.RequestTimeout <= 0 {
		c.Drive.RequestTimeout = defaultRequestTimeout
	}
	if c.Drive.PageSize <= 0 {
		c.Drive.PageSize = defaultPageSize
	}
	if c.Indexing.BatchSize <= 0 {
		c.Indexing.BatchSize = defaultBatchSize
	}
	if c.Indexing.ReviewListCap <= 0 {
		c.Indexing.ReviewListCap = defaultReviewListCap
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "console"
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	return nil
}

// Validate checks configuration invariants that do not depend on the command
// being run. The drive root folder id is checked at pipeline start instead so
// offline commands (test, patch, config) work without one.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Logging.Format) {
	case "console", "json":
	default:
		return fmt.Errorf("logging format: unsupported value %q", c.Logging.Format)
	}
	if c.Paths.DataDir == "" {
		return fmt.Errorf("paths data_dir must not be empty")
	}
	if c.Indexing.BatchSize > 5000 {
		return fmt.Errorf("indexing batch_size %d exceeds limit 5000", c.Indexing.BatchSize)
	}
	return nil
}
