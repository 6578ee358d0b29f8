package config

import (
	"fmt"
	"os"
	"strconv"
	"strings" // For LogLevel normalization
	"time"

	"github.com/joho/godotenv"
)

// Ledger storage drivers accepted in LEDGER_DRIVER.
const (
	LedgerDriverMemory   = "memory"
	LedgerDriverPostgres = "postgres"
	LedgerDriverSQLite   = "sqlite"
)

const defaultCWABaseURL = "https://opendata.cwa.gov.tw/api/v1/rest/datastore/F-A0021-001"

// AppConfig holds all configuration for the application
type AppConfig struct {
	DiscordToken          string
	DiscordGuildID        string // Empty registers commands globally
	CWAAPIKey             string
	CWABaseURL            string
	PresenceNotifyEnabled bool
	NotifyChannelName     string // Empty means direct messages only
	SelectionIdleTimeout  time.Duration
	FetchConcurrency      int
	LedgerDriver          string
	DatabaseURL           string
	HTTPAddr              string // Empty disables the HTTP API
	CORSAllowedOrigins    []string
	LogLevel              string
	Environment           string
	CronSpecSessionSweep  string
	CronSpecLedgerPrune   string // Evaluated in Taiwan time
	DailyReportCron       string // Optional scheduled broadcast
	DailyReportCounty     string
	DailyReportChannelID  string
}

// Load reads configuration from environment variables and .env file (if present).
func Load() (*AppConfig, error) {
	// godotenv.Load will not override existing env variables.
	_ = godotenv.Load()

	cfg := &AppConfig{}
	var err error

	cfg.DiscordToken = os.Getenv("DISCORD_TOKEN")
	if cfg.DiscordToken == "" {
		return nil, fmt.Errorf("DISCORD_TOKEN is not set")
	}
	cfg.DiscordGuildID = os.Getenv("DISCORD_GUILD_ID")

	// A missing API key is not fatal: lookups report it to the user instead.
	cfg.CWAAPIKey = os.Getenv("CWA_API_KEY")
	if cfg.CWAAPIKey == "" {
		cfg.CWAAPIKey = os.Getenv("TIDE_API_KEY")
	}
	cfg.CWABaseURL = os.Getenv("CWA_BASE_URL")
	if cfg.CWABaseURL == "" {
		cfg.CWABaseURL = defaultCWABaseURL
	}

	cfg.PresenceNotifyEnabled, err = parseBool("PRESENCE_NOTIFY_ENABLED", false)
	if err != nil {
		return nil, err
	}
	cfg.NotifyChannelName = strings.TrimPrefix(strings.TrimSpace(os.Getenv("NOTIFY_CHANNEL_NAME")), "#")

	cfg.SelectionIdleTimeout = 60 * time.Second
	if v := os.Getenv("SELECTION_IDLE_TIMEOUT"); v != "" {
		cfg.SelectionIdleTimeout, err = time.ParseDuration(v)
		if err != nil || cfg.SelectionIdleTimeout <= 0 {
			return nil, fmt.Errorf("invalid SELECTION_IDLE_TIMEOUT %q", v)
		}
	}

	cfg.FetchConcurrency = 1 // Sequential, one round-trip at a time
	if v := os.Getenv("FETCH_CONCURRENCY"); v != "" {
		cfg.FetchConcurrency, err = strconv.Atoi(v)
		if err != nil || cfg.FetchConcurrency < 1 {
			return nil, fmt.Errorf("invalid FETCH_CONCURRENCY %q", v)
		}
	}

	cfg.LedgerDriver = strings.ToLower(os.Getenv("LEDGER_DRIVER"))
	if cfg.LedgerDriver == "" {
		cfg.LedgerDriver = LedgerDriverMemory
	}
	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	switch cfg.LedgerDriver {
	case LedgerDriverMemory:
	case LedgerDriverPostgres, LedgerDriverSQLite:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is not set (required by LEDGER_DRIVER=%s)", cfg.LedgerDriver)
		}
	default:
		return nil, fmt.Errorf("unsupported LEDGER_DRIVER %q", cfg.LedgerDriver)
	}

	cfg.HTTPAddr = os.Getenv("HTTP_ADDR")
	if origins := os.Getenv("CORS_ALLOWED_ORIGINS"); origins != "" {
		cfg.CORSAllowedOrigins = strings.Split(origins, ",")
	}

	cfg.LogLevel = strings.ToLower(os.Getenv("LOG_LEVEL"))
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info" // Default log level
	}

	cfg.Environment = strings.ToLower(os.Getenv("ENVIRONMENT"))
	if cfg.Environment == "" {
		cfg.Environment = "development" // Default environment
	}

	cfg.CronSpecSessionSweep = os.Getenv("CRON_SPEC_SESSION_SWEEP")
	if cfg.CronSpecSessionSweep == "" {
		cfg.CronSpecSessionSweep = "* * * * *" // Default: every minute
	}
	cfg.CronSpecLedgerPrune = os.Getenv("CRON_SPEC_LEDGER_PRUNE")
	if cfg.CronSpecLedgerPrune == "" {
		cfg.CronSpecLedgerPrune = "5 0 * * *" // Default: 00:05 Taiwan time
	}

	cfg.DailyReportCron = os.Getenv("DAILY_REPORT_CRON")
	cfg.DailyReportCounty = os.Getenv("DAILY_REPORT_COUNTY")
	cfg.DailyReportChannelID = os.Getenv("DAILY_REPORT_CHANNEL_ID")
	if cfg.DailyReportCron != "" && (cfg.DailyReportCounty == "" || cfg.DailyReportChannelID == "") {
		return nil, fmt.Errorf("DAILY_REPORT_CRON requires DAILY_REPORT_COUNTY and DAILY_REPORT_CHANNEL_ID")
	}

	return cfg, nil
}

// DailyReportEnabled reports whether the scheduled county broadcast is configured.
func (c *AppConfig) DailyReportEnabled() bool {
	return c.DailyReportCron != ""
}

func parseBool(key string, def bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}
