package config

import (
	"testing"
	"time"
)

func TestLoadRateLimitConfigDefaults(t *testing.T) {
	cfg := LoadRateLimitConfig()
	if !cfg.Enabled || cfg.Limit != 120 || cfg.Window != time.Minute || cfg.Prefix != "rb:rl" {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
}

func TestLoadRateLimitConfigClamps(t *testing.T) {
	t.Setenv("RATE_LIMIT_REQUESTS", "0")
	t.Setenv("RATE_LIMIT_WINDOW", "500ms")
	cfg := LoadRateLimitConfig()
	if cfg.Limit != 1 {
		t.Errorf("Limit = %d, want clamp to 1", cfg.Limit)
	}
	if cfg.Window < time.Second {
		t.Errorf("Window = %v, must be at least one second", cfg.Window)
	}

	t.Setenv("RATE_LIMIT_WINDOW", "-1m")
	if cfg := LoadRateLimitConfig(); cfg.Window < time.Second {
		t.Errorf("negative window: Window = %v, must be at least one second", cfg.Window)
	}
}
