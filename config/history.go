package config

import (
	"fmt"
)

// HistoryConfig defines settings for run history storage and rotation.
type HistoryConfig struct {
	// Backend selects the history store type: "jsonl" or "sqlite".
	Backend string `json:"backend"`
	// Path is the file location of the history store.
	Path string `json:"path"`
	// MaxSizeMB triggers rotation when the file exceeds this size in megabytes.
	// Only used by the jsonl backend.
	MaxSizeMB int `json:"max_size_mb"`
	// MaxBackups limits the number of rotated files to keep.
	MaxBackups int `json:"max_backups"`
	// MaxAgeDays removes rotated files older than this number of days.
	MaxAgeDays int `json:"max_age_days"`
}

// SetDefaults applies sane defaults.
func (c *HistoryConfig) SetDefaults() {
	if c.Backend == "" {
		c.Backend = "jsonl"
	}
	if c.Path == "" {
		if c.Backend == "sqlite" {
			c.Path = "romy_history.db"
		} else {
			c.Path = "romy_history.jsonl"
		}
	}
}

// Validate checks mandatory fields.
func (c HistoryConfig) Validate() error {
	if c.Backend != "jsonl" && c.Backend != "sqlite" {
		return fmt.Errorf("unknown history backend %s", c.Backend)
	}
	if c.Path == "" {
		return fmt.Errorf("history path is required")
	}
	return nil
}
