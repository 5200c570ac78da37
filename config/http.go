package config

import (
	"fmt"
	"time"
)

// HTTPConfig configures the JSON API server.
type HTTPConfig struct {
	Addr string `json:"addr"`
	// Token enables bearer authentication on /api when non-empty.
	Token string `json:"token"`
	// ReadTimeoutSeconds bounds reading a request. Defaults to 10.
	ReadTimeoutSeconds int `json:"read_timeout_seconds"`
}

func (c *HTTPConfig) SetDefaults() {
	if c.Addr == "" {
		c.Addr = ":8080"
	}
	if c.ReadTimeoutSeconds == 0 {
		c.ReadTimeoutSeconds = 10
	}
}

func (c HTTPConfig) Validate() error {
	if c.ReadTimeoutSeconds < 0 {
		return fmt.Errorf("read_timeout_seconds must be positive")
	}
	return nil
}

// ReadTimeout returns the configured read timeout.
func (c HTTPConfig) ReadTimeout() time.Duration {
	return time.Duration(c.ReadTimeoutSeconds) * time.Second
}

// SessionConfig controls idle session expiry.
type SessionConfig struct {
	// TTLMinutes ends sessions idle for longer than this. Zero keeps
	// sessions until they are deleted.
	TTLMinutes int `json:"ttl_minutes"`
	// SweepSeconds is the expiry check period. Defaults to 60.
	SweepSeconds int `json:"sweep_seconds"`
}

func (c *SessionConfig) SetDefaults() {
	if c.SweepSeconds == 0 {
		c.SweepSeconds = 60
	}
}

func (c SessionConfig) Validate() error {
	if c.TTLMinutes < 0 {
		return fmt.Errorf("ttl_minutes must be positive")
	}
	if c.SweepSeconds < 0 {
		return fmt.Errorf("sweep_seconds must be positive")
	}
	return nil
}

func (c SessionConfig) TTL() time.Duration { return time.Duration(c.TTLMinutes) * time.Minute }

func (c SessionConfig) SweepInterval() time.Duration {
	return time.Duration(c.SweepSeconds) * time.Second
}
