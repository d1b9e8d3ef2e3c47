// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/acwebremote/acremote/pkg/acmodel"
	"github.com/acwebremote/acremote/pkg/tadiran"
)

var (
	sendFlags  commandFlags
	sendDryRun bool
)

var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Send a command to the air conditioner",
	Long: `Encode a command for the configured model and transmit it through the IR bridge.

The command is validated before anything is sent: temperature 16-30 C, fan
level 1-4 and a known mode. Mode "off" (or 0, or --off) turns the unit off
and ignores every other setting.

With --dry-run the waveform is printed instead of transmitted and no bridge
connection is needed.`,
	Example: `  acremote send --port /dev/ttyUSB0 --mode cool --temp 24 --fan 2
  acremote send --url ws://bridge.local/ir --username admin --off
  acremote send --mode heat --temp 22 --swing --dry-run`,
	Args: cobra.NoArgs,
	RunE: runSend,
}

func init() {
	rootCmd.AddCommand(sendCmd)
	sendFlags.register(sendCmd)
	sendCmd.Flags().BoolVarP(&sendDryRun, "dry-run", "n", false, "Print the waveform instead of transmitting it")
}

func runSend(cmd *cobra.Command, args []string) error {
	command, err := sendFlags.command()
	if err != nil {
		return err
	}

	registry := acmodel.Default()
	model, err := registry.LookupName(cfg.Model)
	if err != nil {
		return err
	}

	signal, err := registry.Encode(model.ID, command)
	if err != nil {
		return err
	}

	fmt.Printf("Model:   %s\n", model.Name)
	fmt.Printf("Command: %s\n", command)
	printModelFrame(os.Stdout, model)
	fmt.Printf("Signal:  %d durations, %s on air, %d kHz carrier\n",
		len(signal.Durations), signalAirTime(signal), signal.CarrierKHz)

	if sendDryRun {
		fmt.Printf("\n%s\n", formatDurations(signal.Durations))
		return nil
	}

	conn, connInfo, err := OpenConnection(cfg)
	if err != nil {
		return err
	}
	defer conn.Close()

	fmt.Printf("Connection: %s\n", connInfo)

	tx := newTransmitter(conn, cfg)
	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.AckTimeout+signalAirTime(signal)+5*time.Second)
	defer cancel()

	start := time.Now()
	if err := tx.Transmit(ctx, signal.Durations, signal.CarrierKHz); err != nil {
		logger.Error("transmit failed", zap.String("command", command.String()), zap.Error(err))
		return fmt.Errorf("send %s: %w", command, err)
	}

	logger.Info("command sent",
		zap.String("model", model.Name),
		zap.String("command", command.String()),
		zap.Duration("elapsed", time.Since(start)))
	fmt.Printf("OK (%v)\n", time.Since(start).Round(time.Millisecond))
	return nil
}

// printModelFrame shows the frame behind a signal for models that expose one
func printModelFrame(w io.Writer, model acmodel.Model) {
	if enc, ok := model.Encoder.(*acmodel.TadiranEncoder); ok {
		f := enc.Frame()
		fmt.Fprintf(w, "Frame:   %s\n", tadiran.FormatFrame(f))
		fmt.Fprintf(w, "         %s\n", tadiran.DescribeFrame(f))
	}
}

func signalAirTime(s acmodel.Signal) time.Duration {
	var total time.Duration
	for _, d := range s.Durations {
		total += time.Duration(d) * time.Microsecond
	}
	return total
}

// formatDurations prints durations eight mark/space pairs per line
func formatDurations(durations []uint16) string {
	var out []byte
	for i, d := range durations {
		if i > 0 {
			if i%16 == 0 {
				out = append(out, '\n')
			} else {
				out = append(out, ' ')
			}
		}
		out = fmt.Appendf(out, "%d", d)
	}
	return string(out)
}
