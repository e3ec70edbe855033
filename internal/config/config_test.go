package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"PORT", "ENVIRONMENT", "DATABASE_URL", "TICKERS_FILE", "API_URL", "REFRESH_CRON", "STREAM_MIN_INTERVAL_SECONDS", "DASHBOARD_LOG_FILE", "RATE_LIMIT_RPS", "RATE_LIMIT_BURST"} {
		t.Setenv(k, "")
	}
	cfg := Load()
	if cfg.Port != "5000" {
		t.Errorf("expected port 5000, got %s", cfg.Port)
	}
	if cfg.IsProduction() {
		t.Error("default environment should not be production")
	}
	if cfg.DatabaseURL != "" {
		t.Errorf("expected empty database url, got %q", cfg.DatabaseURL)
	}
	if cfg.APIURL != "http://localhost:5000/api" {
		t.Errorf("unexpected api url %s", cfg.APIURL)
	}
	if cfg.StreamMinInterval != time.Second {
		t.Errorf("expected 1s stream interval, got %s", cfg.StreamMinInterval)
	}
	if cfg.RateLimitRPS != 10 || cfg.RateLimitBurst != 20 {
		t.Errorf("unexpected rate limit %v/%d", cfg.RateLimitRPS, cfg.RateLimitBurst)
	}
	if cfg.LogFile != "dashboard.log" {
		t.Errorf("unexpected log file %s", cfg.LogFile)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "8081")
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("STREAM_MIN_INTERVAL_SECONDS", "5")
	t.Setenv("REFRESH_CRON", "@every 1m")
	cfg := Load()
	if cfg.Port != "8081" || !cfg.IsProduction() {
		t.Errorf("unexpected config %+v", cfg)
	}
	if cfg.StreamMinInterval != 5*time.Second {
		t.Errorf("expected 5s, got %s", cfg.StreamMinInterval)
	}
	if cfg.RefreshCron != "@every 1m" {
		t.Errorf("unexpected cron %s", cfg.RefreshCron)
	}

	t.Setenv("RATE_LIMIT_RPS", "0")
	if got := Load().RateLimitRPS; got != 0 {
		t.Errorf("RATE_LIMIT_RPS=0 should disable limiting, got %v", got)
	}

	t.Setenv("STREAM_MIN_INTERVAL_SECONDS", "nope")
	if got := Load().StreamMinInterval; got != time.Second {
		t.Errorf("invalid value should fall back to default, got %s", got)
	}
}
