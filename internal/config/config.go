package config

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/rotisserie/eris"
	"golang.org/x/text/language"

	"github.com/AngelCh415/campaign-dashboard/internal/metrics"
)

type Config struct {
	Port           string        `envconfig:"PORT" default:"8080"`
	LogLevel       slog.Level    `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat      string        `envconfig:"LOG_FORMAT" default:"json"`
	HTTPTimeout    time.Duration `envconfig:"HTTP_TIMEOUT" default:"15s"`
	AdsPath        string        `envconfig:"ADS_DATA_PATH" default:"data/ads.csv"`
	CrmPath        string        `envconfig:"CRM_DATA_PATH" default:"data/crm.csv"`
	Locale         string        `envconfig:"DISPLAY_LOCALE" default:"pt-BR"`
	WonStatus      string        `envconfig:"WON_STATUS" default:"Won"`
	FunnelStages   []string      `envconfig:"FUNNEL_STAGES" default:"Visit,Cart,Checkout,Purchased"`
	AllowedOrigins []string      `envconfig:"ALLOWED_ORIGINS" default:"*"`
	RateLimitRPS   float64       `envconfig:"RATE_LIMIT_RPS" default:"50"`
	RateLimitBurst int           `envconfig:"RATE_LIMIT_BURST" default:"100"`
	ConversionPct  float64       `envconfig:"CONVERSION_ALERT_PCT" default:"10"`
	SlowDays       float64       `envconfig:"SLOW_PURCHASE_DAYS" default:"7"`
}

func FromEnv() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, eris.Wrap(err, "config: read environment")
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	tag, err := c.Tag()
	if err != nil {
		return err
	}
	if err := metrics.CheckLocale(tag); err != nil {
		return eris.Wrapf(err, "config: DISPLAY_LOCALE %q", c.Locale)
	}
	if len(c.Stages()) == 0 {
		return eris.New("config: FUNNEL_STAGES is empty")
	}
	if c.RateLimitRPS <= 0 || c.RateLimitBurst <= 0 {
		return eris.New("config: rate limit must be positive")
	}
	return nil
}

// Tag is the parsed display locale.
func (c Config) Tag() (language.Tag, error) {
	tag, err := language.Parse(c.Locale)
	if err != nil {
		return language.Und, eris.Wrapf(err, "config: DISPLAY_LOCALE %q", c.Locale)
	}
	return tag, nil
}

// Stages returns the canonical funnel order without blank entries.
func (c Config) Stages() []string {
	var out []string
	for _, s := range c.FunnelStages {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func (c Config) Logger(w io.Writer) *slog.Logger {
	if w == nil {
		w = os.Stdout
	}
	opts := &slog.HandlerOptions{Level: c.LogLevel}
	if c.LogFormat == "text" {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}
