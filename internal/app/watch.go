package app

import (
	"context"
	"flag"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"
)

func runWatch(args []string) int {
	var schedule string
	rt, err := newRuntime("watch", args, func(fs *flag.FlagSet) {
		fs.StringVar(&schedule, "schedule", "*/30 * * * *", "Cron schedule for ingestion runs")
	})
	if err != nil {
		printError(err)
		return 1
	}
	defer rt.close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	service := rt.buildIngest()
	poller := rt.buildTracker()

	cycle := func() {
		if _, err := service.Run(ctx); err != nil {
			rt.logger.Error().Err(err).Msg("Scheduled ingest run failed")
		}
		if poller.Enabled() {
			if err := poller.Poll(ctx); err != nil {
				rt.logger.Error().Err(err).Msg("Scheduled tracker poll failed")
			}
		}
	}

	scheduler := cron.New()
	if _, err := scheduler.AddFunc(schedule, cycle); err != nil {
		rt.logger.Error().Err(err).Str("schedule", schedule).Msg("Invalid cron schedule")
		return 1
	}

	rt.logger.Info().Str("schedule", schedule).Msg("Watch started")
	// One cycle up front so a fresh deployment does not wait for the first
	// cron tick.
	cycle()

	scheduler.Start()
	<-ctx.Done()

	stopCtx := scheduler.Stop()
	<-stopCtx.Done()
	rt.logger.Info().Msg("Watch stopped")
	return 0
}
