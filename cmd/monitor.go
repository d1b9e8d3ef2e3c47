// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"errors"
	"fmt"
	"io"
	"log"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/acwebremote/acremote/pkg/irlink"
)

var (
	monitorStatsInterval time.Duration
	monitorErrorsOnly    bool
)

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Display bridge packets in human-readable format",
	Long: `Continuously decode and display irlink packets as they arrive from the bridge.

Each packet is shown with timestamp, message type and decoded payload.
Framing and CRC errors are reported inline, as are validation problems in
otherwise intact packets. With --errors-only, clean packets are counted but
not shown. With --stats a statistics summary is printed at the given interval.

Supports both serial and WebSocket connections.`,
	Args: cobra.NoArgs,
	RunE: runMonitor,
}

func init() {
	rootCmd.AddCommand(monitorCmd)
	monitorCmd.Flags().DurationVar(&monitorStatsInterval, "stats", 0, "Print statistics at this interval (0 disables)")
	monitorCmd.Flags().BoolVarP(&monitorErrorsOnly, "errors-only", "e", false, "Only show decode errors and invalid packets")
}

func runMonitor(cmd *cobra.Command, args []string) error {
	conn, connInfo, err := OpenConnection(cfg)
	if err != nil {
		return err
	}
	defer conn.Close()

	fmt.Printf("acremote - Bridge Monitor\n")
	fmt.Printf("Connection: %s\n", connInfo)
	fmt.Printf("Press Ctrl+C to exit\n\n")

	stats := irlink.NewStatistics()

	var mu sync.Mutex
	emit := func(s string) {
		mu.Lock()
		defer mu.Unlock()
		fmt.Print(s)
	}

	if monitorStatsInterval > 0 {
		done := make(chan struct{})
		defer close(done)
		go reportStatistics(stats, monitorStatsInterval, done, emit)
	}

	err = monitorStream(conn, stats, monitorErrorsOnly, emit)
	if err != nil {
		return err
	}
	fmt.Print(stats.String())
	return nil
}

// reportStatistics emits a statistics summary every interval until done is
// closed, whether or not the bridge is sending anything.
func reportStatistics(stats *irlink.Statistics, interval time.Duration, done <-chan struct{}, emit func(string)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			emit(stats.String())
		}
	}
}

// monitorStream decodes r until it is closed, emitting one formatted entry per
// packet or error.
func monitorStream(r io.Reader, stats *irlink.Statistics, errorsOnly bool, emit func(string)) error {
	decoder := irlink.NewDecoder()
	buf := make([]byte, 256)

	for {
		n, err := r.Read(buf)

		for i := 0; i < n; i++ {
			packet, decodeErr := decoder.DecodeByte(buf[i])
			if packet == nil && decodeErr == nil {
				continue
			}
			stats.Update(packet, decodeErr)
			if decodeErr != nil {
				emit(fmt.Sprintf("[ERROR] %v\n", decodeErr))
				continue
			}
			issues := irlink.ValidatePacket(packet)
			if errorsOnly && len(issues) == 0 {
				continue
			}
			emit(irlink.FormatPacket(packet))
			for _, v := range issues {
				emit(fmt.Sprintf("  [INVALID] %s\n", v.Message))
			}
		}

		if err != nil {
			// A WebSocket read error means the connection is permanently
			// closed; so does EOF on a pipe or file
			if errors.Is(err, ErrConnectionClosed) || errors.Is(err, io.EOF) {
				log.Printf("Connection closed")
				return nil
			}
			return fmt.Errorf("read error: %w", err)
		}
	}
}
