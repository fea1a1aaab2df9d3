package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	for _, key := range []string{"APP_PORT", "DB_DRIVER", "REDIS_URL", "NATS_URL", "FEED_CACHE_WINDOW", "REMINDER_CRON", "APP_DEBUG"} {
		t.Setenv(key, "")
	}

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Empty(t, cfg.Redis.URL)
	assert.Empty(t, cfg.NATS.URL)
	assert.Equal(t, 30*time.Second, cfg.Feed.CacheWindow)
	assert.Equal(t, "* * * * *", cfg.Reminder.Cron)
	assert.False(t, cfg.App.Debug)
	assert.EqualValues(t, 20<<20, cfg.Storage.MaxUploadSize)
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("APP_DEBUG", "yes")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("FEED_CACHE_WINDOW", "1m")
	t.Setenv("JWT_TTL", "not-a-duration")
	t.Setenv("REMINDER_ENABLED", "0")
	t.Setenv("TELEGRAM_CHAT_ID", "-1001234")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())
	assert.False(t, cfg.IsDevelopment())
	assert.True(t, cfg.App.Debug)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, time.Minute, cfg.Feed.CacheWindow)
	assert.Equal(t, 24*time.Hour, cfg.JWT.TTL, "bad durations fall back to the default")
	assert.False(t, cfg.Reminder.Enabled)
	assert.EqualValues(t, -1001234, cfg.Reminder.TelegramChatID)
}
