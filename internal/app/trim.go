package app

import (
	"context"

	"github.com/TMG-AI/liz-dashboard/internal/globaltime"
	"github.com/TMG-AI/liz-dashboard/internal/ingest"
)

func runTrim(args []string) int {
	rt, err := newRuntime("trim", args, nil)
	if err != nil {
		printError(err)
		return 1
	}
	defer rt.close()

	cutoff := globaltime.Now().Add(-ingest.RetentionWindow)
	removed, err := rt.store.TrimOlderThan(context.Background(), cutoff)
	if err != nil {
		rt.logger.Error().Err(err).Msg("Retention trim failed")
		return 1
	}
	rt.logger.Info().Int64("removed", removed).Time("cutoff", cutoff).Msg("Retention trim complete")
	return 0
}
