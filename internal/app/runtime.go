package app

import (
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/TMG-AI/liz-dashboard/internal/classify"
	"github.com/TMG-AI/liz-dashboard/internal/cli"
	"github.com/TMG-AI/liz-dashboard/internal/config"
	"github.com/TMG-AI/liz-dashboard/internal/dedup"
	"github.com/TMG-AI/liz-dashboard/internal/feeds"
	"github.com/TMG-AI/liz-dashboard/internal/filter"
	"github.com/TMG-AI/liz-dashboard/internal/ingest"
	"github.com/TMG-AI/liz-dashboard/internal/logging"
	"github.com/TMG-AI/liz-dashboard/internal/runlog"
	"github.com/TMG-AI/liz-dashboard/internal/store"
	"github.com/TMG-AI/liz-dashboard/internal/tracker"
)

// runtime holds everything a subcommand needs after bootstrap.
type runtime struct {
	cfg    *config.Config
	logger zerolog.Logger
	store  *store.Store
}

// newRuntime parses flags, loads the environment and configuration, and
// connects the store. A missing .env file is fine; the environment may be set
// by the process manager.
func newRuntime(name string, args []string, extra func(*flag.FlagSet)) (*runtime, error) {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	envLoader := cli.AddEnvFlag(fs, ".env", "")
	if extra != nil {
		extra(fs)
	}
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if _, err := envLoader.Load(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}

	logger, err := logging.New(cfg.Environment, cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	st := store.New(store.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}, logger)

	return &runtime{cfg: cfg, logger: logger, store: st}, nil
}

func (r *runtime) close() {
	if err := r.store.Close(); err != nil {
		r.logger.Warn().Err(err).Msg("Failed to close store")
	}
}

// buildIngest assembles the full pipeline. The run ledger is optional; a
// ledger open failure downgrades to a warning because the pipeline itself
// does not depend on it.
func (r *runtime) buildIngest() *ingest.Service {
	chain := filter.NewChain(
		filter.DefaultRules(),
		classify.NewDomainBlocklist(r.cfg.BlockedDomainList()),
		classify.NewLanguageInternational(),
	)
	detector := dedup.NewDetector(r.store)
	sources := feeds.SourcesFromConfig(r.cfg.FeedURLByOrigin())
	reader := feeds.NewReader(r.cfg.FeedTimeout)

	ledger, err := runlog.Open(r.cfg.DatabaseURL)
	if err != nil {
		r.logger.Warn().Err(err).Msg("Run ledger unavailable, continuing without it")
		ledger = nil
	}

	return ingest.NewService(reader, chain, detector, r.store, ledger, sources, r.logger)
}

func (r *runtime) buildTracker() *tracker.Poller {
	return tracker.NewPoller(tracker.Config{
		APIURL:  r.cfg.TrackerAPIURL,
		APIKey:  r.cfg.TrackerAPIKey,
		BillID:  r.cfg.TrackerBillID,
		Timeout: r.cfg.FeedTimeout,
	}, r.store, r.logger)
}
