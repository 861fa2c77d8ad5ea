package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"codeberg.org/mutker/envsensed/internal/app"
	"codeberg.org/mutker/envsensed/internal/config"
	"codeberg.org/mutker/envsensed/internal/errors"
	"codeberg.org/mutker/envsensed/internal/logger"
	"codeberg.org/mutker/envsensed/internal/pid"
	"github.com/spf13/cobra"
)

var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "envsensed",
	Short: "Environmental sensing BLE peripheral",
	Long: `Samples temperature, humidity, barometric pressure and color, and serves
them as an Environmental Sensing service to one connected central. Values are
only transmitted when they change.`,
	Version:      version,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE:         runDaemon,
}

func init() {
	rootCmd.SilenceErrors = true
	config.RegisterFlags(rootCmd.Flags())
	rootCmd.AddCommand(receiveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(1)
	}
}

func runDaemon(cmd *cobra.Command, _ []string) error {
	errFactory := errors.New()

	cfg, err := config.Load(config.WithFlags(cmd.Flags()))
	if err != nil {
		return err
	}

	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	logger.Init(level, logger.IsService())
	logger.Debug().Msg("Config loaded")

	if err := pid.Write(); err != nil {
		return err
	}
	defer removePID()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go handleSignals(cancel)

	daemon, err := app.New(ctx, cfg)
	if err != nil {
		removePID()
		logger.FatalWithCode(errFactory.Wrap(errors.ErrInitApp, err)).Msg("Initialization failed")
	}

	if err := daemon.Run(ctx); err != nil {
		logger.Error().Err(err).Msg("Error in main loop")
	}

	cleanup(daemon)
	return nil
}

func handleSignals(cancel context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs
	logger.Info().Msg("Received termination signal.")
	cancel()
}

func cleanup(daemon *app.App) {
	if err := daemon.Close(); err != nil {
		logger.Error().Err(err).Msg("Failed to release resources")
	}
	logger.Info().Msg("Exiting...")
}

func removePID() {
	if err := pid.Remove(); err != nil {
		logger.Error().Err(err).Msg("Failed to remove PID file")
	}
}
