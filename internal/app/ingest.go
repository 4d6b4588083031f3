package app

import (
	"context"
	"fmt"
	"os"
)

func printError(err error) {
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
}

func runIngest(args []string) int {
	rt, err := newRuntime("ingest", args, nil)
	if err != nil {
		printError(err)
		return 1
	}
	defer rt.close()

	report, err := rt.buildIngest().Run(context.Background())
	if err != nil {
		rt.logger.Error().Err(err).Msg("Ingest run failed")
		return 1
	}
	if len(report.SourceErrors) > 0 && report.Stored == 0 && report.Seen == 0 {
		// Every source failed and nothing moved; surface it in the exit code.
		return 1
	}
	return 0
}
