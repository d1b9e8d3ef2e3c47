// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	pingTimeout int
	pingCount   int
)

var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Test the IR bridge by sending PING_REQUEST",
	Long: `Send PING_REQUEST packets to the IR bridge and wait for PING_RESPONSE.

The bridge answers with its uptime. This is useful for verifying:
  - The serial port or WebSocket connection is established
  - HTTP Basic authentication works
  - The bridge firmware is processing packets

Exit codes:
  0 - All pings successful
  1 - One or more pings failed/timed out
  2 - Connection error`,
	Args: cobra.NoArgs,
	RunE: runPing,
}

func init() {
	rootCmd.AddCommand(pingCmd)
	pingCmd.Flags().IntVar(&pingTimeout, "timeout", 5, "Timeout in seconds for each ping")
	pingCmd.Flags().IntVar(&pingCount, "count", 3, "Number of pings to send")
}

func runPing(cmd *cobra.Command, args []string) error {
	conn, connInfo, err := OpenConnection(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Connection error: %v\n", err)
		os.Exit(2)
	}
	defer conn.Close()

	fmt.Printf("acremote - Bridge Ping Test\n")
	fmt.Printf("Connection: %s\n", connInfo)
	fmt.Printf("Timeout: %d seconds per ping\n", pingTimeout)
	fmt.Printf("Count: %d pings\n\n", pingCount)

	tx := newTransmitter(conn, cfg)
	successCount := 0
	failCount := 0

	for i := 1; i <= pingCount; i++ {
		fmt.Printf("Ping %d/%d: ", i, pingCount)

		uptime, rtt, err := tx.Ping(cmd.Context(), time.Duration(pingTimeout)*time.Second)
		if err != nil {
			fmt.Printf("FAILED: %v\n", err)
			logger.Debug("ping failed", zap.Int("seq", i), zap.Error(err))
			failCount++
		} else {
			fmt.Printf("PONG from bridge, uptime=%s, rtt=%v\n", formatUptime(uint64(uptime.Milliseconds())), rtt.Round(time.Millisecond))
			successCount++
		}

		closed := false
		select {
		case <-tx.Done():
			closed = true
		default:
		}
		if closed {
			fmt.Printf("\nConnection closed\n")
			failCount += pingCount - i
			break
		}

		// Small delay between pings
		if i < pingCount {
			time.Sleep(100 * time.Millisecond)
		}
	}

	fmt.Printf("\n--- Ping statistics ---\n")
	fmt.Printf("%d pings sent, %d responses received, %.0f%% packet loss\n",
		pingCount, successCount, float64(failCount)/float64(pingCount)*100)

	if failCount > 0 {
		os.Exit(1)
	}
	return nil
}
