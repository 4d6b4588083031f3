package app

import (
	"context"
	"time"

	"github.com/TMG-AI/liz-dashboard/internal/runlog"
)

func runHealth(args []string) int {
	rt, err := newRuntime("health", args, nil)
	if err != nil {
		printError(err)
		return 1
	}
	defer rt.close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rt.store.Ping(ctx); err != nil {
		rt.logger.Error().Err(err).Msg("Store health check failed")
		return 1
	}
	rt.logger.Info().Msg("Store reachable")

	if rt.cfg.DatabaseURL != "" {
		ledger, err := runlog.Open(rt.cfg.DatabaseURL)
		if err != nil {
			rt.logger.Error().Err(err).Msg("Run ledger health check failed")
			return 1
		}
		defer ledger.Close()
		rt.logger.Info().Msg("Run ledger reachable")
	}

	return 0
}
