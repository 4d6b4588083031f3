package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Environment string `envconfig:"ENVIRONMENT" default:"local"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`

	RedisAddr     string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	RedisPassword string `envconfig:"REDIS_PASSWORD" default:""`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`

	// Optional Postgres run ledger; empty disables it.
	DatabaseURL string `envconfig:"DATABASE_URL" default:""`

	FeedTimeout time.Duration `envconfig:"FEED_TIMEOUT" default:"10s"`

	// Per-origin feed URLs. An empty URL means the origin is skipped, not an
	// error.
	FeedURLDelta    string `envconfig:"FEED_URL_DELTA" default:"https://news.google.com/rss/search?q=%22Delta+Air+Lines%22&hl=en-US&gl=US&ceid=US:en"`
	FeedURLRedCross string `envconfig:"FEED_URL_REDCROSS" default:"https://news.google.com/rss/search?q=%22American+Red+Cross%22&hl=en-US&gl=US&ceid=US:en"`
	FeedURLAmazon   string `envconfig:"FEED_URL_AMAZON" default:"https://news.google.com/rss/search?q=Amazon&hl=en-US&gl=US&ceid=US:en"`
	FeedURLStubHub  string `envconfig:"FEED_URL_STUBHUB" default:"https://news.google.com/rss/search?q=StubHub&hl=en-US&gl=US&ceid=US:en"`

	BlockedDomains string `envconfig:"BLOCKED_DOMAINS" default:""`

	TrackerAPIURL string `envconfig:"TRACKER_API_URL" default:""`
	TrackerAPIKey string `envconfig:"TRACKER_API_KEY" default:""`
	TrackerBillID string `envconfig:"TRACKER_BILL_ID" default:""`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.RedisAddr) == "" {
		return fmt.Errorf("REDIS_ADDR is required")
	}
	if c.RedisDB < 0 {
		return fmt.Errorf("REDIS_DB must be >= 0")
	}
	if c.FeedTimeout < time.Second {
		return fmt.Errorf("FEED_TIMEOUT must be >= 1s")
	}
	if strings.TrimSpace(c.TrackerAPIURL) != "" && strings.TrimSpace(c.TrackerBillID) == "" {
		return fmt.Errorf("TRACKER_BILL_ID is required when TRACKER_API_URL is set")
	}
	return nil
}

// FeedURLByOrigin maps origin tag to feed URL; origins with empty URLs are
// omitted.
func (c *Config) FeedURLByOrigin() map[string]string {
	if c == nil {
		return nil
	}

	all := map[string]string{
		"delta":    c.FeedURLDelta,
		"redcross": c.FeedURLRedCross,
		"amazon":   c.FeedURLAmazon,
		"stubhub":  c.FeedURLStubHub,
	}
	urls := make(map[string]string, len(all))
	for origin, rawURL := range all {
		trimmed := strings.TrimSpace(rawURL)
		if trimmed == "" {
			continue
		}
		urls[origin] = trimmed
	}
	return urls
}

func (c *Config) BlockedDomainList() []string {
	if c == nil {
		return nil
	}

	parts := strings.Split(c.BlockedDomains, ",")
	domains := make([]string, 0, len(parts))
	seen := make(map[string]struct{}, len(parts))
	for _, part := range parts {
		domain := strings.ToLower(strings.TrimSpace(part))
		if domain == "" {
			continue
		}
		if _, exists := seen[domain]; exists {
			continue
		}
		seen[domain] = struct{}{}
		domains = append(domains, domain)
	}
	return domains
}
