package config

import (
	"fmt"

	"github.com/kilianp07/ecocommute/core/factory"
)

// HistoryConfig selects the score history backend.
type HistoryConfig struct {
	// Type is one of "memory", "sqlite" or "jsonl".
	Type string `json:"type"`
	// Conf carries backend settings such as path and rotation.
	Conf map[string]any `json:"conf"`
	// Disabled skips the snapshot taken when a session ends.
	Disabled bool `json:"disabled"`
}

func (c *HistoryConfig) SetDefaults() {
	if c.Type == "" {
		c.Type = "memory"
	}
}

func (c HistoryConfig) Validate() error {
	switch c.Type {
	case "memory", "sqlite", "jsonl":
	default:
		return fmt.Errorf("unknown backend %s", c.Type)
	}
	if c.Type == "jsonl" {
		if p, _ := c.Conf["path"].(string); p == "" {
			return fmt.Errorf("path is required")
		}
	}
	return nil
}

// Module returns the factory description of the backend.
func (c HistoryConfig) Module() factory.ModuleConfig {
	return factory.ModuleConfig{Type: c.Type, Conf: c.Conf}
}
