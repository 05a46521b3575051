package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/kaara/it100-websocket/pkg/config"
	"github.com/kaara/it100-websocket/pkg/controller"
	"github.com/kaara/it100-websocket/pkg/debug"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var configFile string

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	cmd := &cobra.Command{
		Use:          "it100-websocket",
		Short:        "Bridge an IT-100 alarm panel to WebSocket keypads",
		Args:         cobra.ExactArgs(0),
		SilenceUsage: true,
		RunE:         run,
	}
	cmd.Flags().StringVar(&configFile, "config", "", "Config file (default ./config.yaml)")
	cmd.Flags().String(config.FlagLogLevel, "INFO", "Log level: TRACE, DEBUG, INFO, WARN or ERROR")

	if err := cmd.Execute(); err != nil {
		log.Fatal().Err(err).Msg("Exiting.")
	}
}

func run(cmd *cobra.Command, _ []string) error {
	config, err := config.ReadConfig(configFile, cmd.Flags())
	if err != nil {
		log.Fatal().Err(err).Msg("Error found when reading the config.")
	}

	level, err := zerolog.ParseLevel(strings.ToLower(config.LogLevel))
	if err != nil {
		log.Warn().Str("level", config.LogLevel).Msg("Unknown log level, keeping INFO.")
	} else {
		zerolog.SetGlobalLevel(level)
	}

	log.Info().Str("config", config.String()).Msg("Starting IT-100 WebSocket bridge!")

	// Add profiling server for live profile of the program.
	debugServerExitDone := &sync.WaitGroup{}
	debugServerExitDone.Add(1)
	srv, isReady := debug.StartDebugServer(config.DebugListenAddress, debugServerExitDone)

	// Initialize controller responsible for all the bridge logic.
	controller, err := controller.NewController(config)
	if err != nil {
		log.Fatal().Err(err).Msg("Error on creating the controller")
	}
	if err := controller.Start(); err != nil {
		log.Fatal().Err(err).Msg("Error on starting the controller")
	}
	isReady.Store(true)

	// Subscribe for interruption happening during execution.
	exitSignal := make(chan os.Signal, 2)
	signal.Notify(exitSignal, os.Interrupt, syscall.SIGTERM)
	<-exitSignal
	isReady.Store(false)

	// Gracefully close every session and disconnect from the panel.
	log.Info().Msg("Shutting down controller...")
	if err := controller.Stop(); err != nil {
		log.Fatal().Err(err).Msg("Error when stopping the controller")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	log.Info().Msg("Shutting down debug server...")
	if err := srv.Shutdown(ctx); err != nil {
		return err
	}

	debugServerExitDone.Wait()
	log.Info().Msg("Done exiting.")
	return nil
}
