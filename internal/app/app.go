// Package app wires configuration, the store, and the pipeline together
// behind a small subcommand CLI.
package app

import (
	"fmt"
	"os"
)

const usage = `liz-dashboard - news mention ingestion pipeline

Usage:
  liz-dashboard <command> [flags]

Commands:
  health   Verify store connectivity
  ingest   Run one ingestion cycle over all configured feeds
  track    Poll the legislative tracker once
  trim     Run a manual retention pass
  serve    Start the HTTP API and webhook receivers
  watch    Run ingest and track on a cron schedule

Run 'liz-dashboard <command> -h' for command flags.
`

// Run dispatches to a subcommand and returns the process exit code.
func Run(args []string) int {
	if len(args) < 1 {
		fmt.Fprint(os.Stderr, usage)
		return 2
	}

	switch args[0] {
	case "health":
		return runHealth(args[1:])
	case "ingest":
		return runIngest(args[1:])
	case "track":
		return runTrack(args[1:])
	case "trim":
		return runTrim(args[1:])
	case "serve":
		return runServe(args[1:])
	case "watch":
		return runWatch(args[1:])
	case "-h", "--help", "help":
		fmt.Fprint(os.Stdout, usage)
		return 0
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n%s", args[0], usage)
		return 2
	}
}
