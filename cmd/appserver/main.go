package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/hpowernl/wafcli/internal/appserver"
	"github.com/hpowernl/wafcli/internal/config"
	"github.com/hpowernl/wafcli/internal/logging"
)

func main() {
	settings, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(settings.LogLevel, false)

	port := settings.Server.Port
	if len(os.Args) > 1 {
		port, err = strconv.Atoi(os.Args[1])
		if err != nil || port < 1 || port > 65535 {
			logger.Fatal().Str("port", os.Args[1]).Msg("Invalid port")
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	metadata := appserver.NewMetadataClient(appserver.NewIMDSSource(), config.DefaultMetadataSettings, logger)
	server := appserver.New(appserver.Options{
		StaticDir: settings.Server.StaticDir,
		Metadata:  metadata,
		Probe:     appserver.NewHostProbe(),
		Logger:    logger,
	})

	logger.Info().Int("port", port).Msg("Three-Tier Application Server starting")
	logger.Info().Str("instance_id", metadata.Get(ctx, "instance-id")).Msg("Instance ID")

	if err := server.Run(ctx, fmt.Sprintf("0.0.0.0:%d", port)); err != nil {
		logger.Error().Err(err).Msg("Error starting server")
		os.Exit(1)
	}
}
