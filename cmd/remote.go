// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"context"
	"fmt"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/acwebremote/acremote/pkg/acmodel"
	"github.com/acwebremote/acremote/pkg/irlink"
	"github.com/acwebremote/acremote/pkg/tadiran"
)

var remoteCmd = &cobra.Command{
	Use:   "remote",
	Short: "Interactive TUI remote for a Tadiran air conditioner",
	Long: `Control an air conditioner from an interactive terminal UI.

The remote keeps the frame state of one Tadiran unit, the same way a handheld
remote does, and sends every change through the IR bridge.

Keys:
  Tab        switch between mode list and temperature
  Up/Down    select mode
  + / -      temperature up/down
  f          cycle fan level
  s          toggle swing
  Enter      send power-on command
  o          send power-off command
  q          quit

The bridge is pinged periodically and the connection is re-established
automatically with exponential backoff when it drops.

Supports both serial and WebSocket connections.`,
	Args: cobra.NoArgs,
	RunE: runRemote,
}

func init() {
	rootCmd.AddCommand(remoteCmd)
}

// connectionManager owns the bridge connection and replaces it after a loss.
// It implements tadiran.Transmitter on top of whichever link is current.
type connectionManager struct {
	mu       sync.RWMutex
	conn     Connection
	connInfo string
	tx       *irlink.Transmitter
	stats    *irlink.Statistics
	p        *tea.Program
	done     chan struct{}

	dial       func() (Connection, string, error)
	minBackoff time.Duration
	maxBackoff time.Duration
}

func newConnectionManager(conn Connection, connInfo string) *connectionManager {
	cm := &connectionManager{
		stats:      irlink.NewStatistics(),
		done:       make(chan struct{}),
		dial:       func() (Connection, string, error) { return OpenConnection(cfg) },
		minBackoff: 1 * time.Second,
		maxBackoff: 30 * time.Second,
	}
	cm.setConn(conn, connInfo)
	return cm
}

func (cm *connectionManager) setConn(conn Connection, connInfo string) {
	tx := newTransmitter(conn, cfg, irlink.WithStatistics(cm.stats))

	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.conn = conn
	cm.connInfo = connInfo
	cm.tx = tx
}

// install swaps in a reconnected link. Once shutdown has started the link is
// closed instead and install returns false.
func (cm *connectionManager) install(conn Connection, connInfo string) bool {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	select {
	case <-cm.done:
		conn.Close()
		return false
	default:
	}

	cm.conn = conn
	cm.connInfo = connInfo
	cm.tx = newTransmitter(conn, cfg, irlink.WithStatistics(cm.stats))
	return true
}

func (cm *connectionManager) notify(msg tea.Msg) {
	if cm.p != nil {
		cm.p.Send(msg)
	}
}

// shutdown stops reconnecting and closes the current link
func (cm *connectionManager) shutdown() {
	close(cm.done)
	if conn := cm.getConn(); conn != nil {
		conn.Close()
	}
}

func (cm *connectionManager) transmitter() *irlink.Transmitter {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return cm.tx
}

func (cm *connectionManager) getConn() Connection {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return cm.conn
}

// Transmit sends a waveform over the current link
func (cm *connectionManager) Transmit(ctx context.Context, durations []uint16, carrierKHz uint8) error {
	return cm.transmitter().Transmit(ctx, durations, carrierKHz)
}

// Ping asks the bridge for its uptime over the current link
func (cm *connectionManager) Ping(ctx context.Context, timeout time.Duration) (uptime, rtt time.Duration, err error) {
	return cm.transmitter().Ping(ctx, timeout)
}

// Statistics returns counters accumulated across reconnects
func (cm *connectionManager) Statistics() irlink.Counters {
	return cm.stats.Snapshot()
}

func runRemote(cmd *cobra.Command, args []string) error {
	model, err := acmodel.Default().LookupName(cfg.Model)
	if err != nil {
		return err
	}
	if _, ok := model.Encoder.(*acmodel.TadiranEncoder); !ok {
		return fmt.Errorf("%w: the interactive remote drives Tadiran frames, got %s", acmodel.ErrUnsupportedModel, model.Name)
	}

	// The alt screen owns the terminal, keep diagnostics in the log file only
	tuiLogger, err := newLogger(cfg.Logging, false)
	if err != nil {
		return err
	}
	logger = tuiLogger

	conn, connInfo, err := OpenConnection(cfg)
	if err != nil {
		return err
	}

	cm := newConnectionManager(conn, connInfo)
	m := initialRemoteModel(tadiran.NewRemote(cm), cm, connInfo, model.Name)

	p := tea.NewProgram(m, tea.WithAltScreen())
	cm.p = p

	go cm.watch()

	_, err = p.Run()
	cm.shutdown()
	if err != nil {
		return fmt.Errorf("TUI error: %v", err)
	}
	return nil
}

// watch waits for the current link to drop and reconnects
func (cm *connectionManager) watch() {
	for {
		tx := cm.transmitter()
		select {
		case <-cm.done:
			return
		case <-tx.Done():
		}

		select {
		case <-cm.done:
			return
		default:
		}

		logger.Warn("bridge connection lost")
		cm.notify(connectionLostMsg{})

		if !cm.reconnect() {
			return
		}
	}
}

// reconnect attempts to reconnect with exponential backoff.
// Returns false if shutdown was requested during reconnection.
func (cm *connectionManager) reconnect() bool {
	if conn := cm.getConn(); conn != nil {
		conn.Close()
	}

	backoff := cm.minBackoff

	for {
		select {
		case <-cm.done:
			return false
		case <-time.After(backoff):
		}

		conn, connInfo, err := cm.dial()
		if err == nil {
			if !cm.install(conn, connInfo) {
				return false
			}
			logger.Info("bridge reconnected", zap.String("conn", connInfo))
			cm.notify(reconnectedMsg{connInfo: connInfo})
			return true
		}
		logger.Debug("reconnect failed", zap.Duration("backoff", backoff), zap.Error(err))

		backoff *= 2
		if backoff > cm.maxBackoff {
			backoff = cm.maxBackoff
		}
	}
}
