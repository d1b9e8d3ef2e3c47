// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package irlink

import (
	"context"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/acwebremote/acremote/pkg/tadiran"
)

// fakeBridge decodes host packets on one end of a pipe and answers them
type fakeBridge struct {
	conn     net.Conn
	received chan *Packet
}

// startBridge connects a Transmitter to a fake bridge. handle returns the
// replies for each received packet.
func startBridge(t *testing.T, handle func(p *Packet) []*Packet, opts ...Option) (*Transmitter, *fakeBridge, net.Conn) {
	t.Helper()

	host, dev := net.Pipe()
	bridge := &fakeBridge{conn: dev, received: make(chan *Packet, 32)}

	go func() {
		d := NewDecoder()
		buf := make([]byte, 512)
		for {
			n, err := dev.Read(buf)
			for i := 0; i < n; i++ {
				p, decodeErr := d.DecodeByte(buf[i])
				if decodeErr != nil || p == nil {
					continue
				}
				bridge.received <- p
				for _, reply := range handle(p) {
					if _, err := dev.Write(MustEncodePacket(reply)); err != nil {
						return
					}
				}
			}
			if err != nil {
				return
			}
		}
	}()

	t.Cleanup(func() {
		host.Close()
		dev.Close()
	})

	opts = append([]Option{WithRateLimit(rate.Inf, 1)}, opts...)
	return NewTransmitter(host, opts...), bridge, host
}

// ackAll acknowledges every SEND_RAW and answers pings
func ackAll(p *Packet) []*Packet {
	switch p.Type() {
	case MsgSendRaw:
		seq, _ := p.Sequence()
		return []*Packet{NewTransmitDone(seq, 1000)}
	case MsgPingRequest:
		return []*Packet{NewPingResponse(5000)}
	}
	return nil
}

func silent(*Packet) []*Packet { return nil }

func TestTransmitter_Ack(t *testing.T) {
	tx, bridge, _ := startBridge(t, ackAll)
	durations := []uint16{8000, 4000, 1618, 545, 1618, 1618}

	require.NoError(t, tx.Transmit(context.Background(), durations, 38))

	p := <-bridge.received
	seq, carrier, got, err := SendRawFields(p)
	require.NoError(t, err)
	assert.Equal(t, uint32(1), seq)
	assert.Equal(t, uint8(38), carrier)
	assert.Equal(t, durations, got)

	c := tx.Statistics().Snapshot()
	assert.Equal(t, uint64(1), c.Sent)
	assert.Equal(t, uint64(1), c.Acked)
	assert.Equal(t, uint64(1), c.ValidPackets)
}

func TestTransmitter_SequenceIncrements(t *testing.T) {
	tx, bridge, _ := startBridge(t, ackAll)
	ctx := context.Background()

	for want := uint32(1); want <= 3; want++ {
		require.NoError(t, tx.Transmit(ctx, []uint16{500, 500}, 38))
		seq, ok := (<-bridge.received).Sequence()
		require.True(t, ok)
		assert.Equal(t, want, seq)
	}
}

func TestTransmitter_IgnoresStaleAck(t *testing.T) {
	tx, _, _ := startBridge(t, func(p *Packet) []*Packet {
		seq, _ := p.Sequence()
		return []*Packet{
			NewTransmitDone(seq+100, 1000),
			NewPingResponse(1),
			NewTransmitDone(seq, 1000),
		}
	})

	require.NoError(t, tx.Transmit(context.Background(), []uint16{500, 500}, 38))
}

func TestTransmitter_Busy(t *testing.T) {
	tx, _, _ := startBridge(t, func(p *Packet) []*Packet {
		seq, _ := p.Sequence()
		return []*Packet{NewErrorBusy(seq)}
	})

	err := tx.Transmit(context.Background(), []uint16{500, 500}, 38)
	assert.ErrorIs(t, err, ErrBridgeBusy)
	assert.Equal(t, uint64(1), tx.Statistics().Snapshot().Rejected)
}

func TestTransmitter_Rejected(t *testing.T) {
	tx, _, _ := startBridge(t, func(p *Packet) []*Packet {
		return []*Packet{NewErrorInvalidCmd(p.Type())}
	})

	err := tx.Transmit(context.Background(), []uint16{500, 500}, 38)
	assert.ErrorIs(t, err, ErrRejected)
}

func TestTransmitter_AckTimeout(t *testing.T) {
	tx, _, _ := startBridge(t, silent, WithAckTimeout(50*time.Millisecond))

	start := time.Now()
	err := tx.Transmit(context.Background(), []uint16{500, 500}, 38)
	assert.ErrorIs(t, err, ErrAckTimeout)
	assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
	assert.Equal(t, uint64(1), tx.Statistics().Snapshot().Timeouts)
}

func TestTransmitter_ContextCancel(t *testing.T) {
	tx, _, _ := startBridge(t, silent, WithAckTimeout(time.Minute))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := tx.Transmit(ctx, []uint16{500, 500}, 38)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestTransmitter_WithoutAck(t *testing.T) {
	tx, bridge, _ := startBridge(t, silent, WithoutAck())

	require.NoError(t, tx.Transmit(context.Background(), []uint16{500, 500}, 38))
	p := <-bridge.received
	assert.Equal(t, uint8(MsgSendRaw), p.Type())
}

func TestTransmitter_Closed(t *testing.T) {
	tx, _, host := startBridge(t, ackAll)
	host.Close()

	select {
	case <-tx.Done():
	case <-time.After(time.Second):
		t.Fatal("read loop did not stop after close")
	}

	err := tx.Transmit(context.Background(), []uint16{500, 500}, 38)
	assert.ErrorIs(t, err, ErrClosed)
}

func TestTransmitter_RateLimit(t *testing.T) {
	tx, _, _ := startBridge(t, ackAll, WithRateLimit(rate.Every(100*time.Millisecond), 1))
	ctx := context.Background()

	start := time.Now()
	require.NoError(t, tx.Transmit(ctx, []uint16{500, 500}, 38))
	require.NoError(t, tx.Transmit(ctx, []uint16{500, 500}, 38))
	assert.GreaterOrEqual(t, time.Since(start), 90*time.Millisecond)
}

func TestTransmitter_RateLimitHonoursContext(t *testing.T) {
	tx, _, _ := startBridge(t, ackAll, WithRateLimit(rate.Every(time.Hour), 1))
	ctx := context.Background()

	require.NoError(t, tx.Transmit(ctx, []uint16{500, 500}, 38))

	short, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()
	assert.Error(t, tx.Transmit(short, []uint16{500, 500}, 38))
}

func TestTransmitter_Ping(t *testing.T) {
	tx, _, _ := startBridge(t, ackAll)

	uptime, rtt, err := tx.Ping(context.Background(), time.Second)
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, uptime)
	assert.Greater(t, rtt, time.Duration(0))
}

func TestTransmitter_PingTimeout(t *testing.T) {
	tx, _, _ := startBridge(t, silent)

	_, _, err := tx.Ping(context.Background(), 30*time.Millisecond)
	assert.Error(t, err)
}

func TestTransmitter_Concurrent(t *testing.T) {
	tx, _, _ := startBridge(t, ackAll)
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- tx.Transmit(ctx, []uint16{500, 500}, 38)
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}
	assert.Equal(t, uint64(8), tx.Statistics().Snapshot().Acked)
}

func TestTransmitter_DrivesTadiranRemote(t *testing.T) {
	tx, bridge, _ := startBridge(t, ackAll)
	remote := tadiran.NewRemote(tx)

	cmd := tadiran.Command{Power: true, Mode: tadiran.ModeCool, Fan: 2, Temperature: 24}
	require.NoError(t, remote.Send(context.Background(), cmd))

	_, carrier, durations, err := SendRawFields(<-bridge.received)
	require.NoError(t, err)
	assert.Equal(t, uint8(tadiran.CarrierKHz), carrier)
	require.Len(t, durations, tadiran.WaveformLength)

	frame, err := tadiran.DecodeDurations(durations, 0)
	require.NoError(t, err)
	assert.Equal(t, remote.Frame(), frame)
	assert.Empty(t, ValidatePacket(NewSendRaw(1, carrier, durations)))
}
