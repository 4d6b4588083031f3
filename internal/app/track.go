package app

import "context"

func runTrack(args []string) int {
	rt, err := newRuntime("track", args, nil)
	if err != nil {
		printError(err)
		return 1
	}
	defer rt.close()

	poller := rt.buildTracker()
	if !poller.Enabled() {
		rt.logger.Info().Msg("Tracker not configured, nothing to do")
		return 0
	}

	if err := poller.Poll(context.Background()); err != nil {
		rt.logger.Error().Err(err).Msg("Tracker poll failed")
		return 1
	}
	return 0
}
