// Package config provides configuration management for the allocation board
// with validation, defaults, and multi-file JSON configuration support.
//
// Configuration Structure:
// - config_general.json: Core settings, data source, board, digest, logging
// - config_format.json: Digest formatting options
// - .env / environment: credentials and deployment overrides
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
)

// LoadConfig loads and validates all configuration from the specified directory
//
// Loading strategy:
// 1. Start with sensible defaults from DefaultConfig()
// 2. Override with values from config_general.json (required)
// 3. Merge optional config_format.json
// 4. Apply environment overrides (after loading .env files)
// 5. Validate all settings
func LoadConfig(configDir string) (*Config, error) {
	cfg := DefaultConfig()

	if err := loadGeneralConfig(cfg, configDir); err != nil {
		return nil, fmt.Errorf("failed to load general config: %w", err)
	}

	if err := loadFormatConfig(cfg, configDir); err != nil {
		return nil, fmt.Errorf("failed to load format config: %w", err)
	}

	if err := applyEnvOverrides(cfg, configDir); err != nil {
		return nil, fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	log.Info("Configuration loaded successfully")
	return cfg, nil
}

// loadGeneralConfig loads the main configuration file
func loadGeneralConfig(cfg *Config, configDir string) error {
	configPath := filepath.Join(configDir, "config_general.json")

	data, err := os.ReadFile(configPath)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}

	var generalCfg GeneralConfig
	if err := json.Unmarshal(data, &generalCfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", configPath, err)
	}

	if generalCfg.LogLevel != "" {
		cfg.LogLevel = generalCfg.LogLevel
	}
	if generalCfg.LogFile != "" {
		cfg.LogFile = generalCfg.LogFile
	}
	if generalCfg.ListenAddr != "" {
		cfg.ListenAddr = generalCfg.ListenAddr
	}

	// Explicit zeros are kept so validation can reject them
	if v := generalCfg.LogRotation.MaxSizeMB; v != nil {
		cfg.LogRotation.MaxSizeMB = *v
	}
	if v := generalCfg.LogRotation.MaxBackups; v != nil {
		cfg.LogRotation.MaxBackups = *v
	}
	if v := generalCfg.LogRotation.MaxAgeDays; v != nil {
		cfg.LogRotation.MaxAgeDays = *v
	}
	if v := generalCfg.LogRotation.Compress; v != nil {
		cfg.LogRotation.Compress = *v
	}

	// Data source
	cfg.DataSource.URL = strings.TrimSpace(generalCfg.DataSource.URL)
	cfg.DataSource.AnonKey = strings.TrimSpace(generalCfg.DataSource.AnonKey)
	if generalCfg.DataSource.View != "" {
		cfg.DataSource.View = generalCfg.DataSource.View
	}
	if generalCfg.DataSource.Timeout != "" {
		duration, err := time.ParseDuration(generalCfg.DataSource.Timeout)
		if err != nil {
			return fmt.Errorf("invalid data_source.timeout format: %w", err)
		}
		cfg.DataSource.Timeout = duration
	}

	// Board
	if generalCfg.Board.Title != "" {
		cfg.Board.Title = generalCfg.Board.Title
	}
	if generalCfg.Board.GoalAmount != nil {
		cfg.Board.GoalAmount = *generalCfg.Board.GoalAmount
	}
	if generalCfg.Board.GoalCurrency != "" {
		cfg.Board.GoalCurrency = generalCfg.Board.GoalCurrency
	}
	if generalCfg.Board.FlagBaseURL != "" {
		cfg.Board.FlagBaseURL = generalCfg.Board.FlagBaseURL
	}
	if generalCfg.Board.AllowedOrigins != nil {
		cfg.Board.AllowedOrigins = generalCfg.Board.AllowedOrigins
	}

	// Digest
	cfg.Digest.Enabled = generalCfg.Digest.Enabled
	cfg.Digest.RunOnStart = generalCfg.Digest.RunOnStart
	cfg.Digest.Discord = generalCfg.Digest.Discord
	cfg.Digest.Slack = generalCfg.Digest.Slack
	if generalCfg.Digest.Schedule != "" {
		cfg.Digest.Schedule = generalCfg.Digest.Schedule
	}
	if generalCfg.Digest.Timezone != "" {
		cfg.Digest.Timezone = generalCfg.Digest.Timezone
	}
	if generalCfg.Digest.TopN != nil {
		cfg.Digest.TopN = *generalCfg.Digest.TopN
	}
	if generalCfg.Digest.Timeout != "" {
		duration, err := time.ParseDuration(generalCfg.Digest.Timeout)
		if err != nil {
			return fmt.Errorf("invalid digest.timeout format: %w", err)
		}
		cfg.Digest.Timeout = duration
	}

	return nil
}

// loadFormatConfig loads the digest formatting configuration
func loadFormatConfig(cfg *Config, configDir string) error {
	configPath := filepath.Join(configDir, "config_format.json")

	data, err := os.ReadFile(configPath)
	if err != nil {
		// Format config is optional, log and continue
		log.WithField("path", configPath).Debug("Format config file not found, using defaults")
		return nil
	}

	if err := json.Unmarshal(data, &cfg.Format); err != nil {
		return fmt.Errorf("failed to parse format config file %s: %w", configPath, err)
	}

	return nil
}

// applyEnvOverrides loads .env files (config dir first, then working
// directory) and applies non-empty environment values on top of cfg.
// Variables already present in the process environment win over .env files.
func applyEnvOverrides(cfg *Config, configDir string) error {
	for _, path := range []string{filepath.Join(configDir, ".env"), ".env"} {
		if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load %s: %w", path, err)
		}
	}

	var overrides EnvOverrides
	if err := env.Parse(&overrides); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}

	setIfNotEmpty(&cfg.DataSource.URL, overrides.LegacySupabaseURL)
	setIfNotEmpty(&cfg.DataSource.AnonKey, overrides.LegacyAnonKey)
	setIfNotEmpty(&cfg.DataSource.URL, overrides.SupabaseURL)
	setIfNotEmpty(&cfg.DataSource.AnonKey, overrides.SupabaseAnonKey)
	setIfNotEmpty(&cfg.DataSource.View, overrides.AllocationView)
	setIfNotEmpty(&cfg.ListenAddr, overrides.ListenAddr)
	setIfNotEmpty(&cfg.LogLevel, overrides.LogLevel)
	setIfNotEmpty(&cfg.Digest.Discord.URL, overrides.DiscordWebhookURL)
	setIfNotEmpty(&cfg.Digest.Slack.URL, overrides.SlackWebhookURL)

	return nil
}

func setIfNotEmpty(dst *string, value string) {
	if v := strings.TrimSpace(value); v != "" {
		*dst = v
	}
}

// validateConfig validates the loaded configuration
//
// Missing data source credentials only produce a warning: the board reports
// them to the viewer as a load failure instead of refusing to start.
func validateConfig(cfg *Config) error {
	// Validate log level
	switch strings.ToUpper(cfg.LogLevel) {
	case "DEBUG", "INFO", "WARNING", "WARN", "ERROR":
	default:
		return fmt.Errorf("invalid log level: %s (must be DEBUG, INFO, WARNING, or ERROR)", cfg.LogLevel)
	}

	// Validate log rotation settings
	if cfg.LogRotation.MaxSizeMB < 1 || cfg.LogRotation.MaxSizeMB > 1000 {
		return fmt.Errorf("invalid log rotation max_size_mb: %d (must be 1-1000)", cfg.LogRotation.MaxSizeMB)
	}
	if cfg.LogRotation.MaxBackups < 0 || cfg.LogRotation.MaxBackups > 50 {
		return fmt.Errorf("invalid log rotation max_backups: %d (must be 0-50)", cfg.LogRotation.MaxBackups)
	}
	if cfg.LogRotation.MaxAgeDays < 0 || cfg.LogRotation.MaxAgeDays > 365 {
		return fmt.Errorf("invalid log rotation max_age_days: %d (must be 0-365)", cfg.LogRotation.MaxAgeDays)
	}

	if cfg.ListenAddr == "" {
		return fmt.Errorf("listen_addr cannot be empty")
	}

	if err := validateDataSource(cfg.DataSource); err != nil {
		return err
	}

	if cfg.Board.GoalAmount <= 0 {
		return fmt.Errorf("board goal_amount must be positive: %d", cfg.Board.GoalAmount)
	}
	if err := validateHTTPURL("board flag_base_url", cfg.Board.FlagBaseURL); err != nil {
		return err
	}

	return validateDigest(cfg.Digest)
}

// validateDataSource checks the allocation view settings
func validateDataSource(ds DataSource) error {
	if ds.URL == "" || ds.AnonKey == "" {
		log.Warn("Data source URL or anon key is empty; the board will report a load failure")
	}
	if ds.URL != "" {
		if err := validateHTTPURL("data_source url", ds.URL); err != nil {
			return err
		}
	}
	if ds.View == "" || strings.ContainsAny(ds.View, "/?#") {
		return fmt.Errorf("invalid data_source view name: %q", ds.View)
	}
	if ds.Timeout < time.Second || ds.Timeout > 2*time.Minute {
		return fmt.Errorf("data_source timeout out of range: %v (must be 1s-2m)", ds.Timeout)
	}
	return nil
}

// validateDigest checks schedule, timezone and webhook settings. Nothing is
// checked while the digest is disabled.
func validateDigest(d DigestConfig) error {
	if !d.Enabled {
		return nil
	}

	if _, err := time.LoadLocation(d.Timezone); err != nil {
		return fmt.Errorf("invalid digest timezone %q: %w", d.Timezone, err)
	}
	if _, err := cron.ParseStandard(d.Schedule); err != nil {
		return fmt.Errorf("invalid digest schedule %q: %w", d.Schedule, err)
	}
	// Discord embeds carry at most 25 fields
	if d.TopN < 1 || d.TopN > 25 {
		return fmt.Errorf("digest top_n out of range: %d (must be 1-25)", d.TopN)
	}
	if d.Timeout < 5*time.Second || d.Timeout > 10*time.Minute {
		return fmt.Errorf("digest timeout out of range: %v (must be 5s-10m)", d.Timeout)
	}

	if !d.Discord.Enabled && !d.Slack.Enabled {
		log.Warn("Digest is enabled but no webhook is enabled")
	}

	if err := validateDiscordWebhook(d.Discord); err != nil {
		return err
	}
	if err := validateSlackWebhook(d.Slack); err != nil {
		return err
	}
	if err := validateQuietHours("discord", d.Discord.QuietHours); err != nil {
		return err
	}
	return validateQuietHours("slack", d.Slack.QuietHours)
}

// validateDiscordWebhook ensures the webhook URL is from Discord's official domain
func validateDiscordWebhook(webhook WebhookConfig) error {
	if webhook.Enabled {
		if webhook.URL == "" {
			return fmt.Errorf("discord webhook is enabled but URL is empty")
		}
		if !strings.HasPrefix(webhook.URL, "https://discord.com/api/webhooks/") {
			return fmt.Errorf("discord webhook URL is not a valid Discord webhook URL")
		}
	}
	return nil
}

// validateSlackWebhook ensures the webhook URL is from Slack's official domain
func validateSlackWebhook(webhook WebhookConfig) error {
	if webhook.Enabled {
		if webhook.URL == "" {
			return fmt.Errorf("slack webhook is enabled but URL is empty")
		}
		if !strings.HasPrefix(webhook.URL, "https://hooks.slack.com/services/") {
			return fmt.Errorf("slack webhook URL is not a valid Slack webhook URL (must start with https://hooks.slack.com/services/)")
		}
	}
	return nil
}

// validateQuietHours checks the window bounds and timezone of an enabled window
func validateQuietHours(name string, q *QuietHours) error {
	if q == nil || !q.Enabled {
		return nil
	}
	if parseTimeString(q.Start) < 0 {
		return fmt.Errorf("%s quiet_hours start is invalid: %q", name, q.Start)
	}
	if parseTimeString(q.End) < 0 {
		return fmt.Errorf("%s quiet_hours end is invalid: %q", name, q.End)
	}
	if q.Timezone != "" {
		if _, err := time.LoadLocation(q.Timezone); err != nil {
			return fmt.Errorf("%s quiet_hours timezone %q is invalid: %w", name, q.Timezone, err)
		}
	}
	return nil
}

// validateHTTPURL only allows absolute http:// and https:// URLs
func validateHTTPURL(name, raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%s is not a valid URL: %w", name, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%s must be an absolute http or https URL: %s", name, raw)
	}
	return nil
}
