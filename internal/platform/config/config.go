// Package config loads goalwatch configuration from the environment, with an
// optional .env file for local development.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv      string `env:"APP_ENV" envDefault:"local"`
	PostgresDSN string `env:"POSTGRES_DSN,required"`
	HealthPort  int    `env:"HEALTH_PORT" envDefault:"8080"`

	// Webhook delivery
	WebhookURL       string        `env:"WEBHOOK_URL,required"`
	WebhookUsername  string        `env:"WEBHOOK_USERNAME" envDefault:"goalwatch"`
	WebhookAvatarURL string        `env:"WEBHOOK_AVATAR_URL"`
	WebhookTimeout   time.Duration `env:"WEBHOOK_TIMEOUT" envDefault:"10s"`
	WebhookRPS       float64       `env:"WEBHOOK_RPS" envDefault:"1"`

	// Primary source: subreddit new-posts feed
	FeedURL       string        `env:"FEED_URL" envDefault:"https://www.reddit.com/r/soccer/new/.rss"`
	FeedUserAgent string        `env:"FEED_USER_AGENT" envDefault:"goalwatch/1.0"`
	FeedInterval  time.Duration `env:"FEED_INTERVAL" envDefault:"30s"`
	FeedTimeout   time.Duration `env:"FEED_TIMEOUT" envDefault:"15s"`
	PostMaxAge    time.Duration `env:"POST_MAX_AGE" envDefault:"15m"`
	ExcludedTerms []string      `env:"EXCLUDED_TERMS" envSeparator:"," envDefault:"test"`

	// Secondary source: scoreboard feed
	ScoreboardURL      string        `env:"SCOREBOARD_URL"`
	ScoreboardInterval time.Duration `env:"SCOREBOARD_INTERVAL" envDefault:"60s"`
	ScoreboardTimeout  time.Duration `env:"SCOREBOARD_TIMEOUT" envDefault:"15s"`

	// Arbitration
	DedupWindow       time.Duration `env:"DEDUP_WINDOW" envDefault:"30m"`
	FallbackGrace     time.Duration `env:"FALLBACK_GRACE" envDefault:"3m"`
	ReconcileInterval time.Duration `env:"RECONCILE_INTERVAL" envDefault:"30s"`

	// Video resolution
	VideoRetries    int           `env:"VIDEO_RETRIES" envDefault:"18"`
	VideoRetryDelay time.Duration `env:"VIDEO_RETRY_DELAY" envDefault:"10s"`
	VideoTimeout    time.Duration `env:"VIDEO_TIMEOUT" envDefault:"10s"`
	VideoRPS        float64       `env:"VIDEO_RPS" envDefault:"2"`

	// Retention
	Retention  time.Duration `env:"RETENTION" envDefault:"48h"`
	GCInterval time.Duration `env:"GC_INTERVAL" envDefault:"10m"`
}

// Load reads .env (when present) and then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return cfg, nil
}
