package config

import (
	"bytes"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func TestFromEnvDefaults(t *testing.T) {
	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Equal(t, 15*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, "Won", cfg.WonStatus)
	assert.Equal(t, []string{"Visit", "Cart", "Checkout", "Purchased"}, cfg.Stages())
	assert.Equal(t, 10.0, cfg.ConversionPct)
	assert.Equal(t, 7.0, cfg.SlowDays)

	tag, err := cfg.Tag()
	require.NoError(t, err)
	assert.Equal(t, language.BrazilianPortuguese, tag)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("ADS_DATA_PATH", "https://example.com/ads.xlsx")
	t.Setenv("DISPLAY_LOCALE", "en-US")
	t.Setenv("FUNNEL_STAGES", "Lead, ,Won")
	t.Setenv("CONVERSION_ALERT_PCT", "12.5")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, "https://example.com/ads.xlsx", cfg.AdsPath)
	assert.Equal(t, []string{"Lead", "Won"}, cfg.Stages())
	assert.Equal(t, 12.5, cfg.ConversionPct)
}

func TestFromEnvValidatesValues(t *testing.T) {
	t.Run("locale", func(t *testing.T) {
		t.Setenv("DISPLAY_LOCALE", "not a locale!")
		_, err := FromEnv()
		assert.Error(t, err)
	})
	t.Run("arabic locale still round-trips", func(t *testing.T) {
		t.Setenv("DISPLAY_LOCALE", "ar")
		_, err := FromEnv()
		assert.NoError(t, err)
	})
	t.Run("rate limit", func(t *testing.T) {
		t.Setenv("RATE_LIMIT_RPS", "0")
		_, err := FromEnv()
		assert.Error(t, err)
	})
	t.Run("timeout", func(t *testing.T) {
		t.Setenv("HTTP_TIMEOUT", "soon")
		_, err := FromEnv()
		assert.Error(t, err)
	})
}

func TestLoggerFormat(t *testing.T) {
	var buf bytes.Buffer
	Config{LogFormat: "text"}.Logger(&buf).Info("hello", slog.String("k", "v"))
	assert.Contains(t, buf.String(), "k=v")

	buf.Reset()
	Config{LogFormat: "json", LogLevel: slog.LevelWarn}.Logger(&buf).Info("hidden")
	assert.Empty(t, buf.String())
}
