package config

import (
	"testing"
	"time"
)

func setRequired(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "token")
	for _, key := range []string{
		"CWA_API_KEY", "TIDE_API_KEY", "CWA_BASE_URL", "PRESENCE_NOTIFY_ENABLED", "NOTIFY_CHANNEL_NAME",
		"SELECTION_IDLE_TIMEOUT", "FETCH_CONCURRENCY", "LEDGER_DRIVER", "DATABASE_URL",
		"DAILY_REPORT_CRON", "DAILY_REPORT_COUNTY", "DAILY_REPORT_CHANNEL_ID", "LOG_LEVEL", "ENVIRONMENT",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.SelectionIdleTimeout != 60*time.Second {
		t.Errorf("SelectionIdleTimeout = %v, want 60s", cfg.SelectionIdleTimeout)
	}
	if cfg.FetchConcurrency != 1 {
		t.Errorf("FetchConcurrency = %d, want 1", cfg.FetchConcurrency)
	}
	if cfg.LedgerDriver != LedgerDriverMemory {
		t.Errorf("LedgerDriver = %s, want memory", cfg.LedgerDriver)
	}
	if cfg.PresenceNotifyEnabled {
		t.Error("PresenceNotifyEnabled should default to false")
	}
	if cfg.CWABaseURL != defaultCWABaseURL {
		t.Errorf("CWABaseURL = %s", cfg.CWABaseURL)
	}
	if cfg.LogLevel != "info" || cfg.Environment != "development" {
		t.Errorf("LogLevel/Environment = %s/%s", cfg.LogLevel, cfg.Environment)
	}
	if cfg.DailyReportEnabled() {
		t.Error("DailyReportEnabled() = true without DAILY_REPORT_CRON")
	}
}

func TestLoad_MissingToken(t *testing.T) {
	setRequired(t)
	t.Setenv("DISCORD_TOKEN", "")

	if _, err := Load(); err == nil {
		t.Error("Load() should fail without DISCORD_TOKEN")
	}
}

func TestLoad_APIKeyAlias(t *testing.T) {
	setRequired(t)
	t.Setenv("TIDE_API_KEY", "legacy-key")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.CWAAPIKey != "legacy-key" {
		t.Errorf("CWAAPIKey = %q, want legacy-key", cfg.CWAAPIKey)
	}
}

func TestLoad_Overrides(t *testing.T) {
	setRequired(t)
	t.Setenv("PRESENCE_NOTIFY_ENABLED", "true")
	t.Setenv("NOTIFY_CHANNEL_NAME", "#tides")
	t.Setenv("SELECTION_IDLE_TIMEOUT", "90s")
	t.Setenv("FETCH_CONCURRENCY", "4")
	t.Setenv("LEDGER_DRIVER", "SQLite")
	t.Setenv("DATABASE_URL", "file:ledger.db")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !cfg.PresenceNotifyEnabled || cfg.NotifyChannelName != "tides" {
		t.Errorf("notify settings = %v/%q", cfg.PresenceNotifyEnabled, cfg.NotifyChannelName)
	}
	if cfg.SelectionIdleTimeout != 90*time.Second || cfg.FetchConcurrency != 4 {
		t.Errorf("timeout/concurrency = %v/%d", cfg.SelectionIdleTimeout, cfg.FetchConcurrency)
	}
	if cfg.LedgerDriver != LedgerDriverSQLite {
		t.Errorf("LedgerDriver = %s", cfg.LedgerDriver)
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	cases := map[string]string{
		"PRESENCE_NOTIFY_ENABLED": "maybe",
		"SELECTION_IDLE_TIMEOUT":  "soon",
		"FETCH_CONCURRENCY":       "0",
		"LEDGER_DRIVER":           "redis",
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			setRequired(t)
			t.Setenv(key, value)
			if _, err := Load(); err == nil {
				t.Errorf("Load() accepted %s=%s", key, value)
			}
		})
	}
}

func TestLoad_DatabaseDriverNeedsURL(t *testing.T) {
	setRequired(t)
	t.Setenv("LEDGER_DRIVER", "postgres")

	if _, err := Load(); err == nil {
		t.Error("Load() should require DATABASE_URL for postgres")
	}
}

func TestLoad_DailyReportNeedsTarget(t *testing.T) {
	setRequired(t)
	t.Setenv("DAILY_REPORT_CRON", "0 6 * * *")

	if _, err := Load(); err == nil {
		t.Error("Load() should require DAILY_REPORT_COUNTY and DAILY_REPORT_CHANNEL_ID")
	}
}
