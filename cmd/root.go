// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/acwebremote/acremote/pkg/irlink"
)

var (
	cfgFile string

	// Loaded in PersistentPreRunE from flags, environment and config file
	cfg    = defaultConfig()
	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "acremote",
	Short: "Air conditioner IR remote",
	Long: `acremote - encode and transmit air conditioner IR commands.

Builds Tadiran remote frames, renders them as mark/space waveforms and sends
them through an IR bridge connected over serial or WebSocket.

Connection modes:
  Serial:    --port /dev/ttyUSB0 [--baud 115200]
  WebSocket: --url ws://host/path [--username user]

Every flag can also be set in the config file (default
$HOME/.config/acremote/config.yaml) or through ACREMOTE_* environment
variables, e.g. ACREMOTE_PORT=/dev/ttyUSB0.

For WebSocket authentication, the password is read from the ACREMOTE_PASSWORD
environment variable, or prompted interactively if not set. The --password
flag is intentionally not provided to avoid leaking credentials in shell history.`,
	Version:       "1.0.0",
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := loadConfig(cmd.Flags(), cfgFile)
		if err != nil {
			return err
		}
		cfg = loaded

		l, err := newLogger(cfg.Logging, true)
		if err != nil {
			return err
		}
		logger = l
		logger.Debug("configuration loaded",
			zap.String("file", cfg.source),
			zap.String("model", cfg.Model))
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default $HOME/.config/acremote/config.yaml)")
	registerPersistentFlags(rootCmd.PersistentFlags())
}

// registerPersistentFlags declares every flag that is also a config key
func registerPersistentFlags(flags *pflag.FlagSet) {
	// Serial connection flags
	flags.StringP("port", "p", "", "Serial port device")
	flags.IntP("baud", "b", defaultBaudRate, "Baud rate (serial only)")

	// WebSocket connection flags
	flags.StringP("url", "u", "", "WebSocket URL (ws:// or wss://)")
	flags.String("username", "", "Username for HTTP Basic auth")
	flags.Bool("no-ssl-verify", false, "Skip TLS certificate verification (wss:// only)")

	// Bridge link
	flags.String("model", defaultModel, "Air conditioner model name or ID (see 'acremote models')")
	flags.Float64("rate-limit", float64(irlink.DefaultRateLimit), "Maximum SEND_RAW packets per second")
	flags.Duration("ack-timeout", irlink.DefaultAckTimeout, "Time to wait for TRANSMIT_DONE beyond the waveform air time")

	// Logging
	flags.String("log-level", defaultLogLevel, "Log level (debug, info, warn, error)")
	flags.String("log-file", "", "Also write JSON logs to this file, rotated by size")
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}
