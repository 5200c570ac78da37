// Package history provides persistent backends for the score history.
package history

import (
	"fmt"

	"github.com/kilianp07/ecocommute/core/factory"
	core "github.com/kilianp07/ecocommute/core/history"
)

// FileConfig configures the file based backends.
type FileConfig struct {
	Path       string `json:"path"`
	MaxSizeMB  int    `json:"max_size_mb"`
	MaxBackups int    `json:"max_backups"`
	MaxAgeDays int    `json:"max_age_days"`
}

func init() {
	_ = core.RegisterStore("sqlite", func(conf map[string]any) (core.Store, error) {
		var c FileConfig
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		if c.Path == "" {
			c.Path = "history.db"
		}
		return NewSQLiteStore(c.Path)
	})
	_ = core.RegisterStore("jsonl", func(conf map[string]any) (core.Store, error) {
		var c FileConfig
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		if c.Path == "" {
			return nil, fmt.Errorf("jsonl history: path is required")
		}
		return NewJSONLStore(c.Path, c.MaxSizeMB, c.MaxBackups, c.MaxAgeDays)
	})
}
