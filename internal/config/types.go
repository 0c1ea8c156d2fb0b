// Package config defines all configuration structures and default values
// for the allocation board.
//
// Configuration Philosophy:
// - Sensible defaults allow minimal setup
// - Credentials can come from the environment (or a .env file) instead of JSON
// - Clear separation between general and format settings
// - Built-in validation prevents misconfigurations
package config

import "time"

// Config represents the complete application configuration
type Config struct {
	// General configuration
	LogLevel    string      `json:"log_level"`
	LogRotation LogRotation `json:"log_rotation"`
	LogFile     string      `json:"log_file"`
	ListenAddr  string      `json:"listen_addr"`

	DataSource DataSource   `json:"data_source"`
	Board      BoardConfig  `json:"board"`
	Digest     DigestConfig `json:"digest"`

	// Format configuration
	Format FormatConfig `json:"format"`
}

// LogRotation defines log rotation settings
type LogRotation struct {
	MaxSizeMB  int  `json:"max_size_mb"`  // Maximum size in MB before rotation
	MaxBackups int  `json:"max_backups"`  // Maximum number of old log files to keep
	MaxAgeDays int  `json:"max_age_days"` // Maximum number of days to retain log files
	Compress   bool `json:"compress"`     // Whether to compress old log files
}

// DataSource points at the read-only allocation view.
// URL and AnonKey are required for the board to load data; their absence is
// reported by the board itself rather than failing startup.
type DataSource struct {
	URL     string        `json:"url"`      // Project base URL, e.g. https://xyz.supabase.co
	AnonKey string        `json:"anon_key"` // Read-only anonymous key
	View    string        `json:"view"`     // Allocation view name
	Timeout time.Duration `json:"timeout"`
}

// BoardConfig controls what the board page shows around the rows
type BoardConfig struct {
	Title          string   `json:"title"`
	GoalAmount     int64    `json:"goal_amount"`
	GoalCurrency   string   `json:"goal_currency"`
	FlagBaseURL    string   `json:"flag_base_url"`
	AllowedOrigins []string `json:"allowed_origins"` // CORS origins for the JSON endpoint
}

// DigestConfig controls scheduled allocation digests posted to chat webhooks
type DigestConfig struct {
	Enabled    bool          `json:"enabled"`
	Schedule   string        `json:"schedule"`     // Standard 5-field cron expression
	Timezone   string        `json:"timezone"`     // IANA timezone the schedule runs in
	RunOnStart bool          `json:"run_on_start"` // Post one digest right after startup
	TopN       int           `json:"top_n"`        // Rows included per digest
	Timeout    time.Duration `json:"timeout"`      // Upper bound for a single digest run
	Discord    WebhookConfig `json:"discord"`
	Slack      WebhookConfig `json:"slack"`
}

// WebhookConfig represents a single webhook configuration
type WebhookConfig struct {
	Enabled    bool            `json:"enabled"`
	URL        string          `json:"url"`
	Filters    *WebhookFilters `json:"filters,omitempty"`
	QuietHours *QuietHours     `json:"quiet_hours,omitempty"`
}

// QuietHours defines a time window during which digests are not posted.
// nil or enabled=false means no quiet hours (always deliver). A digest that
// falls inside the window is skipped; the next scheduled run posts again.
type QuietHours struct {
	Enabled  bool   `json:"enabled"`            // Must be true for quiet hours to take effect
	Start    string `json:"start"`              // 24h "HH:MM" (e.g. "22:00") or 12h (e.g. "10pm", "10:00 PM")
	End      string `json:"end"`                // 24h "HH:MM" (e.g. "07:00") or 12h (e.g. "7am", "7:00 AM")
	Timezone string `json:"timezone,omitempty"` // IANA timezone, e.g. "Europe/London" (default: "UTC")
}

// WebhookFilters defines per-webhook include/exclude rules over allocation rows.
// Field groups are AND-combined; values within a group are OR-combined.
// nil (no filters block) means accept everything.
type WebhookFilters struct {
	// Include (whitelist): if set, row MUST match at least one value
	IncludeCountries []string `json:"include_countries,omitempty"`
	IncludeStatuses  []string `json:"include_statuses,omitempty"` // "qualified" or "pending"

	// Exclude (blacklist): if matched, row is dropped
	ExcludeCountries []string `json:"exclude_countries,omitempty"`
	ExcludeStatuses  []string `json:"exclude_statuses,omitempty"`

	// MinPercent drops rows below this percentage of goal (0 = disabled)
	MinPercent float64 `json:"min_percent,omitempty"`
}

// FormatConfig defines how digests should be formatted
type FormatConfig struct {
	ShowUnicodeFlags   bool              `json:"show_unicode_flags"`
	ShowNewlyQualified bool              `json:"show_newly_qualified"`
	DigestTitle        string            `json:"digest_title"`
	Slack              SlackFormatConfig `json:"slack,omitempty"` // Slack-specific formatting
}

// SlackFormatConfig defines Slack-specific formatting options
type SlackFormatConfig struct {
	TitleText string `json:"title_text"`
}

// GeneralLogRotation uses pointer fields for JSON parsing so that
// zero-values (0, false) can be distinguished from missing fields (nil).
type GeneralLogRotation struct {
	MaxSizeMB  *int  `json:"max_size_mb"`
	MaxBackups *int  `json:"max_backups"`
	MaxAgeDays *int  `json:"max_age_days"`
	Compress   *bool `json:"compress"`
}

// GeneralDataSource mirrors DataSource with a string timeout.
type GeneralDataSource struct {
	URL     string `json:"url"`
	AnonKey string `json:"anon_key"`
	View    string `json:"view"`
	Timeout string `json:"timeout"` // Will be parsed to time.Duration
}

// GeneralBoard mirrors BoardConfig with pointer fields for optional values.
type GeneralBoard struct {
	Title          string   `json:"title"`
	GoalAmount     *int64   `json:"goal_amount"`
	GoalCurrency   string   `json:"goal_currency"`
	FlagBaseURL    string   `json:"flag_base_url"`
	AllowedOrigins []string `json:"allowed_origins"`
}

// GeneralDigest mirrors DigestConfig with string durations.
type GeneralDigest struct {
	Enabled    bool          `json:"enabled"`
	Schedule   string        `json:"schedule"`
	Timezone   string        `json:"timezone"`
	RunOnStart bool          `json:"run_on_start"`
	TopN       *int          `json:"top_n"`
	Timeout    string        `json:"timeout"` // Will be parsed to time.Duration
	Discord    WebhookConfig `json:"discord"`
	Slack      WebhookConfig `json:"slack"`
}

// GeneralConfig represents the main configuration file structure.
type GeneralConfig struct {
	LogLevel    string             `json:"log_level"`
	LogRotation GeneralLogRotation `json:"log_rotation"`
	LogFile     string             `json:"log_file"`
	ListenAddr  string             `json:"listen_addr"`
	DataSource  GeneralDataSource  `json:"data_source"`
	Board       GeneralBoard       `json:"board"`
	Digest      GeneralDigest      `json:"digest"`
}

// EnvOverrides lists settings that environment variables (or a .env file)
// may override. Empty values leave the JSON/default value in place.
type EnvOverrides struct {
	SupabaseURL       string `env:"SUPABASE_URL"`
	SupabaseAnonKey   string `env:"SUPABASE_ANON_KEY"`
	LegacySupabaseURL string `env:"REACT_APP_SUPABASE_URL"`
	LegacyAnonKey     string `env:"REACT_APP_SUPABASE_ANON_KEY"`
	AllocationView    string `env:"ALLOCATION_VIEW"`
	ListenAddr        string `env:"LISTEN_ADDR"`
	LogLevel          string `env:"LOG_LEVEL"`
	DiscordWebhookURL string `env:"DISCORD_WEBHOOK_URL"`
	SlackWebhookURL   string `env:"SLACK_WEBHOOK_URL"`
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		LogLevel: "INFO",
		LogRotation: LogRotation{
			MaxSizeMB:  10,   // 10 MB per file
			MaxBackups: 5,    // Keep 5 old files
			MaxAgeDays: 7,    // Delete files older than 7 days
			Compress:   true, // Compress old files
		},
		LogFile:    "./logs/board.log",
		ListenAddr: ":8080",
		DataSource: DataSource{
			View:    "v_e2t_country_allocation",
			Timeout: 30 * time.Second,
		},
		Board: BoardConfig{
			Title:          "Country Allocation Progress",
			GoalAmount:     1_000_000,
			GoalCurrency:   "US$",
			FlagBaseURL:    "https://flagcdn.com/w40",
			AllowedOrigins: []string{"*"},
		},
		Digest: DigestConfig{
			Enabled:  false,
			Schedule: "0 0 * * *", // Midnight
			Timezone: "Europe/London",
			TopN:     10,
			Timeout:  2 * time.Minute,
			Discord:  WebhookConfig{Enabled: false, URL: ""},
			Slack:    WebhookConfig{Enabled: false, URL: ""},
		},
		Format: FormatConfig{
			ShowUnicodeFlags:   true,
			ShowNewlyQualified: true,
			DigestTitle:        "Country Allocation Progress",
		},
	}
}
