// Package config loads bot configuration from a YAML file with environment
// variable overrides.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// TelegramConfig holds Telegram bot related settings.
type TelegramConfig struct {
	Token   string `yaml:"token" envconfig:"BOT_TOKEN"`
	AdminID int64  `yaml:"admin_id" envconfig:"TELEGRAM_ADMIN_ID"`
	RunMode string `yaml:"run_mode" envconfig:"TELEGRAM_RUN_MODE"`
	// LongPollTimeoutSeconds defines the long polling timeout; 0 -> default
	LongPollTimeoutSeconds int `yaml:"longpoll_timeout_seconds" envconfig:"TELEGRAM_LONGPOLL_TIMEOUT_SECONDS"`
}

// WebhookConfig specifies webhook settings.
type WebhookConfig struct {
	URL    string `yaml:"url" envconfig:"WEBHOOK_URL"`
	Listen string `yaml:"listen" envconfig:"WEBHOOK_LISTEN"`
	Port   int    `yaml:"port" envconfig:"WEBHOOK_PORT"`
}

// LoggingConfig defines logging related configuration.
type LoggingConfig struct {
	Level       string `yaml:"level"`
	Format      string `yaml:"format"`
	DebugSample string `yaml:"debug_sample"`
	Dir         string `yaml:"dir"`
	BotFile     string `yaml:"bot_file"`
	// Profile indicates environment profile such as "debug" or "prod".
	Profile string `yaml:"profile"`
}

// ChannelConfig points at the destination broadcast channel.
type ChannelConfig struct {
	// Name is the channel username (with @) or a numeric chat id.
	Name string `yaml:"name" envconfig:"CHANNEL"`
	// JoinLink overrides the link shown to non-members; derived from Name when empty.
	JoinLink string `yaml:"join_link" envconfig:"CHANNEL_JOIN_LINK"`
}

// WizardConfig tunes the listing conversation.
type WizardConfig struct {
	// MaxPhotos caps the photo set; one below Telegram's 10-item media group
	// ceiling so the caption-bearing video fits alongside.
	MaxPhotos int `yaml:"max_photos" envconfig:"WIZARD_MAX_PHOTOS"`
	// MediaPolicy selects the minimum media required to finish collection:
	// "any" (photos, video, or neither) or "require_one".
	MediaPolicy string `yaml:"media_policy" envconfig:"WIZARD_MEDIA_POLICY"`
	// MaxConcurrent bounds how many user events are processed in parallel.
	MaxConcurrent int `yaml:"max_concurrent" envconfig:"WIZARD_MAX_CONCURRENT"`
}

// DatabaseConfig holds connection settings for the optional listing archive.
type DatabaseConfig struct {
	Enabled        bool   `yaml:"enabled" envconfig:"DB_ENABLED"`
	Host           string `yaml:"host" envconfig:"DB_HOST"`
	Port           string `yaml:"port" envconfig:"DB_PORT"`
	User           string `yaml:"user" envconfig:"DB_USER"`
	Password       string `yaml:"password" envconfig:"DB_PASSWORD"`
	Name           string `yaml:"name" envconfig:"DB_NAME"`
	SSLMode        string `yaml:"sslmode" envconfig:"DB_SSLMODE"`
	MaxConnections int    `yaml:"max_connections" envconfig:"DB_MAX_CONNECTIONS"`
}

const (
	// RunModeWebhook selects webhook mode for Telegram updates.
	RunModeWebhook = "webhook"
	// RunModeLongpoll selects long-polling mode for Telegram updates.
	RunModeLongpoll = "longpoll"
)

const (
	// MediaPolicyAny allows finishing with photos, a video, or neither.
	MediaPolicyAny = "any"
	// MediaPolicyRequireOne requires at least one photo or a video.
	MediaPolicyRequireOne = "require_one"
)

const (
	// UpdateCallback identifies callback updates for rate limit exclusions.
	UpdateCallback = "callback"
	// UpdateMessage identifies message updates for rate limit exclusions.
	UpdateMessage = "message"
)

// RateLimitConfig holds settings for rate limiting inbound updates.
type RateLimitConfig struct {
	IntervalMS     int      `yaml:"interval_ms" envconfig:"RATE_LIMIT_INTERVAL_MS"`
	ExcludeUpdates []string `yaml:"exclude_updates" envconfig:"RATE_LIMIT_EXCLUDE_UPDATES"`
}

// Config aggregates the whole bot configuration.
type Config struct {
	Telegram  TelegramConfig  `yaml:"telegram"`
	Webhook   WebhookConfig   `yaml:"webhook"`
	Logging   LoggingConfig   `yaml:"logging"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Channel   ChannelConfig   `yaml:"channel"`
	Wizard    WizardConfig    `yaml:"wizard"`
	Database  DatabaseConfig  `yaml:"database"`
}

// Load reads configuration from a YAML file and environment variables.
func Load(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process env: %w", err)
	}

	if err := Normalize(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Normalize validates required fields and fills defaults.
func Normalize(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("nil config")
	}

	if cfg.Telegram.Token == "" {
		return fmt.Errorf("telegram token is required")
	}
	if strings.TrimSpace(cfg.Channel.Name) == "" {
		return fmt.Errorf("channel.name is required")
	}

	rm := strings.ToLower(strings.TrimSpace(cfg.Telegram.RunMode))
	if rm == "" {
		rm = RunModeLongpoll
	}
	if rm == "polling" { // accept alias
		rm = RunModeLongpoll
	}
	switch rm {
	case RunModeWebhook:
		if strings.TrimSpace(cfg.Webhook.URL) == "" {
			return fmt.Errorf("webhook.url is required when telegram.run_mode is 'webhook'")
		}
		if strings.TrimSpace(cfg.Webhook.Listen) == "" {
			return fmt.Errorf("webhook.listen is required when telegram.run_mode is 'webhook'")
		}
		if cfg.Webhook.Port <= 0 {
			return fmt.Errorf("webhook.port must be > 0 when telegram.run_mode is 'webhook'")
		}
	case RunModeLongpoll:
		if cfg.Telegram.LongPollTimeoutSeconds < 0 {
			return fmt.Errorf("telegram.longpoll_timeout_seconds must be >= 0")
		}
	default:
		return fmt.Errorf("invalid telegram.run_mode %q; allowed: webhook, longpoll", cfg.Telegram.RunMode)
	}
	cfg.Telegram.RunMode = rm

	if cfg.Wizard.MaxPhotos < 0 {
		return fmt.Errorf("wizard.max_photos must be >= 0")
	}
	if cfg.Wizard.MaxPhotos == 0 {
		cfg.Wizard.MaxPhotos = 9
	}
	if cfg.Wizard.MaxPhotos > 9 {
		return fmt.Errorf("wizard.max_photos must be <= 9 (media group ceiling minus the caption video)")
	}
	policy := strings.ToLower(strings.TrimSpace(cfg.Wizard.MediaPolicy))
	if policy == "" {
		policy = MediaPolicyAny
	}
	switch policy {
	case MediaPolicyAny, MediaPolicyRequireOne:
	default:
		return fmt.Errorf("invalid wizard.media_policy %q; allowed: any, require_one", cfg.Wizard.MediaPolicy)
	}
	cfg.Wizard.MediaPolicy = policy
	if cfg.Wizard.MaxConcurrent <= 0 {
		cfg.Wizard.MaxConcurrent = 32
	}

	if cfg.Database.Enabled {
		if strings.TrimSpace(cfg.Database.Host) == "" || strings.TrimSpace(cfg.Database.Name) == "" {
			return fmt.Errorf("database.host and database.name are required when database.enabled")
		}
		if cfg.Database.SSLMode == "" {
			cfg.Database.SSLMode = "disable"
		}
		if cfg.Database.MaxConnections <= 0 {
			cfg.Database.MaxConnections = 4
		}
	}

	allowed := map[string]struct{}{
		UpdateCallback: {},
		UpdateMessage:  {},
	}
	for i, v := range cfg.RateLimit.ExcludeUpdates {
		key := strings.ToLower(strings.TrimSpace(v))
		if key == "" {
			continue
		}
		if _, ok := allowed[key]; !ok {
			return fmt.Errorf("invalid rate_limit.exclude_updates value %q; allowed: callback, message", v)
		}
		cfg.RateLimit.ExcludeUpdates[i] = key
	}
	return nil
}

// JoinLinkOrDefault returns the link shown to users who must join the channel.
func (c ChannelConfig) JoinLinkOrDefault() string {
	if strings.TrimSpace(c.JoinLink) != "" {
		return c.JoinLink
	}
	if strings.HasPrefix(c.Name, "@") {
		return "https://t.me/" + strings.TrimPrefix(c.Name, "@")
	}
	return c.Name
}
