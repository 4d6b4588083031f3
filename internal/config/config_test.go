package config

import (
	"strings"
	"testing"
	"time"
)

func validConfig() *Config {
	return &Config{
		Environment: "local",
		LogLevel:    "info",
		RedisAddr:   "localhost:6379",
		FeedTimeout: 10 * time.Second,
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	if err := validConfig().Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	missingRedis := validConfig()
	missingRedis.RedisAddr = "  "
	if err := missingRedis.Validate(); err == nil || !strings.Contains(err.Error(), "REDIS_ADDR") {
		t.Fatalf("expected REDIS_ADDR error, got %v", err)
	}

	shortTimeout := validConfig()
	shortTimeout.FeedTimeout = 100 * time.Millisecond
	if err := shortTimeout.Validate(); err == nil || !strings.Contains(err.Error(), "FEED_TIMEOUT") {
		t.Fatalf("expected FEED_TIMEOUT error, got %v", err)
	}

	trackerNoBill := validConfig()
	trackerNoBill.TrackerAPIURL = "https://tracker.example/api"
	if err := trackerNoBill.Validate(); err == nil || !strings.Contains(err.Error(), "TRACKER_BILL_ID") {
		t.Fatalf("expected TRACKER_BILL_ID error, got %v", err)
	}
}

func TestFeedURLByOriginSkipsEmptyEntries(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.FeedURLDelta = "https://feed.example/delta"
	cfg.FeedURLRedCross = "  "
	cfg.FeedURLAmazon = ""
	cfg.FeedURLStubHub = "https://feed.example/stubhub"

	urls := cfg.FeedURLByOrigin()
	if len(urls) != 2 {
		t.Fatalf("got %d feed urls, want 2: %v", len(urls), urls)
	}
	if urls["delta"] != "https://feed.example/delta" {
		t.Fatalf("unexpected delta url %q", urls["delta"])
	}
	if _, ok := urls["redcross"]; ok {
		t.Fatalf("blank feed url must be skipped, not kept")
	}
}

func TestBlockedDomainList(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.BlockedDomains = "Tabloid.example, junk.example ,, tabloid.example"

	got := cfg.BlockedDomainList()
	want := []string{"tabloid.example", "junk.example"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}
