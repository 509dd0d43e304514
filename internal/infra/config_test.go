package infra

import (
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://example")
	t.Setenv("PORT", "")
	t.Setenv("WORKER_BASE_URL", "")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.Port != "8080" {
		t.Fatalf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.WorkerBaseURL != "http://localhost:9090" {
		t.Fatalf("WorkerBaseURL = %q", cfg.WorkerBaseURL)
	}
	if cfg.JobPollInterval != 2*time.Second {
		t.Fatalf("JobPollInterval = %v, want 2s", cfg.JobPollInterval)
	}
}

func TestLoadConfigRequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	if _, err := LoadConfig(); err == nil {
		t.Fatalf("expected error when DATABASE_URL is missing")
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://example")
	t.Setenv("SUBMIT_TIMEOUT_SECONDS", "120")
	t.Setenv("RATE_LIMIT_PER_MINUTE", "5")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.SubmitTimeout != 120*time.Second {
		t.Fatalf("SubmitTimeout = %v, want 120s", cfg.SubmitTimeout)
	}
	if cfg.RateLimitPerMin != 5 {
		t.Fatalf("RateLimitPerMin = %d, want 5", cfg.RateLimitPerMin)
	}
}
