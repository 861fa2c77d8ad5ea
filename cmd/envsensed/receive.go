package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"codeberg.org/mutker/envsensed/internal/logger"
	"codeberg.org/mutker/envsensed/internal/receiver"
	"github.com/spf13/cobra"
)

var receiveCmd = &cobra.Command{
	Use:   "receive <address|name>",
	Short: "Print the values served by a running sensor",
	Long: `Scans for the peripheral by address or advertised local name, connects,
and prints every attribute of the Environmental Sensing service at a fixed
interval until interrupted.

Examples:
  envsensed receive envsensed
  envsensed receive 2C:CF:67:0A:11:3D --interval 5s`,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE:         runReceive,
}

var (
	receiveInterval    time.Duration
	receiveScanTimeout time.Duration
	receiveLogLevel    string
)

func init() {
	receiveCmd.Flags().DurationVar(&receiveInterval, "interval", receiver.DefaultInterval, "Delay between reads")
	receiveCmd.Flags().DurationVar(&receiveScanTimeout, "scan-timeout", 10*time.Second, "How long to scan for the peripheral")
	receiveCmd.Flags().StringVar(&receiveLogLevel, "log-level", "warning", "Log level (debug, info, warning, error)")
}

func runReceive(_ *cobra.Command, args []string) error {
	level, err := logger.ParseLevel(receiveLogLevel)
	if err != nil {
		return err
	}
	logger.Init(level, logger.IsService())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client, err := receiver.Connect(ctx, args[0], receiveScanTimeout)
	if err != nil {
		return err
	}
	defer func() {
		if err := client.Close(); err != nil {
			logger.Warn().Err(err).Msg("Failed to disconnect")
		}
	}()

	return receiver.Run(ctx, client, os.Stdout, receiveInterval)
}
