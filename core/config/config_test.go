package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Telegram: TelegramConfig{Token: "123:abc"},
		Channel:  ChannelConfig{Name: "@testchannel"},
	}
}

func TestNormalizeDefaults(t *testing.T) {
	cfg := validConfig()
	require.NoError(t, Normalize(cfg))

	assert.Equal(t, RunModeLongpoll, cfg.Telegram.RunMode)
	assert.Equal(t, 9, cfg.Wizard.MaxPhotos)
	assert.Equal(t, MediaPolicyAny, cfg.Wizard.MediaPolicy)
	assert.Equal(t, 32, cfg.Wizard.MaxConcurrent)
}

func TestNormalizeRequiredFields(t *testing.T) {
	cfg := validConfig()
	cfg.Telegram.Token = ""
	assert.Error(t, Normalize(cfg))

	cfg = validConfig()
	cfg.Channel.Name = " "
	assert.Error(t, Normalize(cfg))
}

func TestNormalizeRunMode(t *testing.T) {
	cfg := validConfig()
	cfg.Telegram.RunMode = "polling"
	require.NoError(t, Normalize(cfg))
	assert.Equal(t, RunModeLongpoll, cfg.Telegram.RunMode)

	cfg = validConfig()
	cfg.Telegram.RunMode = "webhook"
	assert.Error(t, Normalize(cfg), "webhook mode needs url/listen/port")

	cfg = validConfig()
	cfg.Telegram.RunMode = "webhook"
	cfg.Webhook = WebhookConfig{URL: "https://example.org/hook", Listen: "0.0.0.0", Port: 8443}
	assert.NoError(t, Normalize(cfg))

	cfg = validConfig()
	cfg.Telegram.RunMode = "carrier-pigeon"
	assert.Error(t, Normalize(cfg))
}

func TestNormalizePhotoCap(t *testing.T) {
	cfg := validConfig()
	cfg.Wizard.MaxPhotos = 10
	assert.Error(t, Normalize(cfg), "cap must leave room for the caption video")

	cfg = validConfig()
	cfg.Wizard.MaxPhotos = 5
	require.NoError(t, Normalize(cfg))
	assert.Equal(t, 5, cfg.Wizard.MaxPhotos)
}

func TestNormalizeMediaPolicy(t *testing.T) {
	cfg := validConfig()
	cfg.Wizard.MediaPolicy = "REQUIRE_ONE"
	require.NoError(t, Normalize(cfg))
	assert.Equal(t, MediaPolicyRequireOne, cfg.Wizard.MediaPolicy)

	cfg = validConfig()
	cfg.Wizard.MediaPolicy = "all_of_them"
	assert.Error(t, Normalize(cfg))
}

func TestNormalizeDatabase(t *testing.T) {
	cfg := validConfig()
	cfg.Database.Enabled = true
	assert.Error(t, Normalize(cfg), "enabled archive needs host and name")

	cfg = validConfig()
	cfg.Database.Enabled = true
	cfg.Database.Host = "localhost"
	cfg.Database.Name = "listingbot"
	require.NoError(t, Normalize(cfg))
	assert.Equal(t, "disable", cfg.Database.SSLMode)
	assert.Equal(t, 4, cfg.Database.MaxConnections)
}

func TestJoinLinkOrDefault(t *testing.T) {
	assert.Equal(t, "https://t.me/testchannel",
		ChannelConfig{Name: "@testchannel"}.JoinLinkOrDefault())
	assert.Equal(t, "https://t.me/+invite",
		ChannelConfig{Name: "@testchannel", JoinLink: "https://t.me/+invite"}.JoinLinkOrDefault())
	assert.Equal(t, "-1001234",
		ChannelConfig{Name: "-1001234"}.JoinLinkOrDefault())
}
