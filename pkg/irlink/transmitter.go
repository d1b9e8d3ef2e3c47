// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package irlink

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Defaults for NewTransmitter
const (
	DefaultAckTimeout = 2 * time.Second
	DefaultRateLimit  = rate.Limit(4) // SEND_RAW per second
	DefaultBurst      = 1
)

// Transmitter sends raw IR waveforms through a bridge connection and waits
// for the bridge to confirm each one. It satisfies tadiran.Transmitter.
//
// Transmit and Ping are serialised; a background goroutine decodes every
// byte the bridge sends.
type Transmitter struct {
	mu         sync.Mutex
	conn       io.ReadWriter
	limiter    *rate.Limiter
	logger     *zap.Logger
	stats      *Statistics
	ackTimeout time.Duration
	waitAck    bool
	seq        uint32

	incoming chan *Packet
	done     chan struct{}
	readErr  error
}

// Option configures a Transmitter
type Option func(*Transmitter)

// WithLogger sets the logger used for link events
func WithLogger(logger *zap.Logger) Option {
	return func(t *Transmitter) {
		if logger != nil {
			t.logger = logger
		}
	}
}

// WithRateLimit caps how often SEND_RAW packets are written
func WithRateLimit(limit rate.Limit, burst int) Option {
	return func(t *Transmitter) {
		t.limiter = rate.NewLimiter(limit, burst)
	}
}

// WithAckTimeout sets how long to wait for TRANSMIT_DONE beyond the waveform's air time
func WithAckTimeout(d time.Duration) Option {
	return func(t *Transmitter) {
		t.ackTimeout = d
	}
}

// WithoutAck makes Transmit return as soon as the packet is written
func WithoutAck() Option {
	return func(t *Transmitter) {
		t.waitAck = false
	}
}

// WithStatistics shares a statistics tracker with the caller
func WithStatistics(stats *Statistics) Option {
	return func(t *Transmitter) {
		if stats != nil {
			t.stats = stats
		}
	}
}

// NewTransmitter starts reading from conn and returns a ready Transmitter.
// The read loop ends when conn returns an error, usually because the caller closed it.
func NewTransmitter(conn io.ReadWriter, opts ...Option) *Transmitter {
	t := &Transmitter{
		conn:       conn,
		limiter:    rate.NewLimiter(DefaultRateLimit, DefaultBurst),
		logger:     zap.NewNop(),
		stats:      NewStatistics(),
		ackTimeout: DefaultAckTimeout,
		waitAck:    true,
		incoming:   make(chan *Packet, 16),
		done:       make(chan struct{}),
	}
	for _, opt := range opts {
		opt(t)
	}

	go t.readLoop()
	return t
}

// Statistics returns the link statistics
func (t *Transmitter) Statistics() *Statistics {
	return t.stats
}

// Done is closed when the read loop stops
func (t *Transmitter) Done() <-chan struct{} {
	return t.done
}

func (t *Transmitter) readLoop() {
	defer close(t.done)

	decoder := NewDecoder()
	buf := make([]byte, 256)
	for {
		n, err := t.conn.Read(buf)
		for i := 0; i < n; i++ {
			packet, decodeErr := decoder.DecodeByte(buf[i])
			if packet == nil && decodeErr == nil {
				continue
			}
			t.stats.Update(packet, decodeErr)
			if decodeErr != nil {
				t.logger.Debug("bridge decode error", zap.Error(decodeErr))
				continue
			}
			select {
			case t.incoming <- packet:
			default:
				t.logger.Warn("dropping bridge packet, nobody is waiting",
					zap.String("type", FormatMessageType(packet.Type())))
			}
		}
		if err != nil {
			t.readErr = err
			t.logger.Debug("bridge read loop stopped", zap.Error(err))
			return
		}
	}
}

func (t *Transmitter) closedErr() error {
	if t.readErr == nil || t.readErr == io.EOF {
		return ErrClosed
	}
	return fmt.Errorf("%w: %v", ErrClosed, t.readErr)
}

// Transmit sends durations as one SEND_RAW packet and waits for the matching
// TRANSMIT_DONE unless the Transmitter was built WithoutAck.
func (t *Transmitter) Transmit(ctx context.Context, durations []uint16, carrierKHz uint8) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	select {
	case <-t.done:
		return t.closedErr()
	default:
	}

	if err := t.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit: %w", err)
	}

	t.seq++
	seq := t.seq
	data, err := EncodePacket(NewSendRaw(seq, carrierKHz, durations))
	if err != nil {
		return err
	}

	t.drain()
	if _, err := t.conn.Write(data); err != nil {
		return fmt.Errorf("write SEND_RAW: %w", err)
	}
	t.stats.RecordSent()
	t.logger.Debug("sent SEND_RAW",
		zap.Uint32("seq", seq),
		zap.Uint8("carrier_khz", carrierKHz),
		zap.Int("durations", len(durations)),
		zap.Int("bytes", len(data)))

	if !t.waitAck {
		return nil
	}

	timer := time.NewTimer(t.ackTimeout + airTime(durations))
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
			t.stats.RecordTimeout()
			return fmt.Errorf("%w (seq %d)", ErrAckTimeout, seq)
		case <-t.done:
			return t.closedErr()
		case p := <-t.incoming:
			got, _ := p.Sequence()
			switch p.Type() {
			case MsgTransmitDone:
				if got != seq {
					t.logger.Debug("stale TRANSMIT_DONE", zap.Uint32("seq", got), zap.Uint32("want", seq))
					continue
				}
				t.stats.RecordAck()
				air, _ := GetMapUint(p.PayloadMap(), keyAirTime)
				t.logger.Debug("bridge transmitted", zap.Uint32("seq", seq), zap.Uint64("air_us", air))
				return nil
			case MsgErrorBusy:
				if got != seq {
					continue
				}
				t.stats.RecordRejected()
				return fmt.Errorf("%w (seq %d)", ErrBridgeBusy, seq)
			case MsgErrorInvalidCmd:
				t.stats.RecordRejected()
				return ErrRejected
			default:
				t.logger.Debug("ignoring bridge packet", zap.String("type", FormatMessageType(p.Type())))
			}
		}
	}
}

// Ping sends a PING_REQUEST and returns the bridge uptime and round trip time
func (t *Transmitter) Ping(ctx context.Context, timeout time.Duration) (uptime, rtt time.Duration, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.drain()
	start := time.Now()
	if _, err := t.conn.Write(MustEncodePacket(NewPingRequest())); err != nil {
		return 0, 0, fmt.Errorf("write PING_REQUEST: %w", err)
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return 0, 0, ctx.Err()
		case <-timer.C:
			return 0, 0, fmt.Errorf("timed out waiting for PING_RESPONSE")
		case <-t.done:
			return 0, 0, t.closedErr()
		case p := <-t.incoming:
			if p.Type() != MsgPingResponse {
				continue
			}
			ms, _ := GetMapUint(p.PayloadMap(), keyUptime)
			return time.Duration(ms) * time.Millisecond, time.Since(start), nil
		}
	}
}

// drain discards replies left over from earlier exchanges
func (t *Transmitter) drain() {
	for {
		select {
		case p := <-t.incoming:
			t.logger.Debug("discarding late bridge packet", zap.String("type", FormatMessageType(p.Type())))
		default:
			return
		}
	}
}

// airTime is the total length of the waveform on air
func airTime(durations []uint16) time.Duration {
	var total time.Duration
	for _, d := range durations {
		total += time.Duration(d) * time.Microsecond
	}
	return total
}
