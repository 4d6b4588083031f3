package app

import (
	"context"
	"flag"
	"os/signal"
	"syscall"

	"github.com/TMG-AI/liz-dashboard/internal/httpapi"
	"github.com/TMG-AI/liz-dashboard/schema"
)

func runServe(args []string) int {
	var addr string
	rt, err := newRuntime("serve", args, func(fs *flag.FlagSet) {
		fs.StringVar(&addr, "addr", ":8080", "Listen address")
	})
	if err != nil {
		printError(err)
		return 1
	}
	defer rt.close()

	validator, err := schema.NewValidator()
	if err != nil {
		rt.logger.Error().Err(err).Msg("Failed to build payload validator")
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	server := httpapi.NewServer(rt.store, validator, rt.logger)
	rt.logger.Info().Str("addr", addr).Msg("Starting HTTP server")
	if err := server.Start(ctx, addr); err != nil {
		rt.logger.Error().Err(err).Msg("HTTP server failed")
		return 1
	}
	rt.logger.Info().Msg("HTTP server stopped")
	return 0
}
