package telemetry

import (
	"context"
	"math/rand"
	"time"

	"tempmonitor/internal/logger"
	"tempmonitor/internal/models"
)

// Config holds broker and reconnect settings.
type Config struct {
	DSN      string
	Exchange string
	Topic    string
	TLS      bool

	// Reconnect backoff. Zero values take the defaults below.
	ReconnectInitial    time.Duration
	ReconnectMax        time.Duration
	ReconnectMultiplier float64
	ReconnectJitter     float64 // fraction of the delay, e.g. 0.2
}

const (
	defaultReconnectInitial    = 1 * time.Second
	defaultReconnectMax        = 30 * time.Second
	defaultReconnectMultiplier = 2.0
	defaultReconnectJitter     = 0.2
)

func (c *Config) applyDefaults() {
	if c.ReconnectInitial <= 0 {
		c.ReconnectInitial = defaultReconnectInitial
	}
	if c.ReconnectMax <= 0 {
		c.ReconnectMax = defaultReconnectMax
	}
	if c.ReconnectMultiplier < 1 {
		c.ReconnectMultiplier = defaultReconnectMultiplier
	}
	if c.ReconnectJitter < 0 || c.ReconnectJitter > 1 {
		c.ReconnectJitter = defaultReconnectJitter
	}
}

// SampleHandler receives every parsed sample, synchronously on the
// receive loop. Handlers must return promptly.
type SampleHandler func(models.TemperatureSample)

// Subscriber owns the broker connection and publishes its latest state
// through a single-writer snapshot cell. The run loop is the only
// writer; HTTP handlers and the recorder read concurrently.
//
// States: DISCONNECTED → CONNECTING → CONNECTED, RECONNECTING between
// a transport failure and the next dial, DISCONNECTED again on
// shutdown. The last received sample survives reconnects so consumers
// can render a stale value instead of "no data".
type Subscriber struct {
	cfg     Config
	dial    DialFunc
	handler SampleHandler
	log     *logger.Logger

	cell snapshotCell
}

func NewSubscriber(cfg Config, handler SampleHandler, log *logger.Logger) *Subscriber {
	cfg.applyDefaults()
	s := &Subscriber{
		cfg:     cfg,
		dial:    AMQPDial(cfg),
		handler: handler,
		log:     log,
	}
	s.cell.setState(models.StateDisconnected)
	return s
}

// Snapshot returns a consistent view of the latest sample and
// connection state.
func (s *Subscriber) Snapshot() models.TelemetrySnapshot {
	return s.cell.snapshot()
}

// Run connects and consumes until ctx is canceled, reconnecting with
// bounded exponential backoff after transport failures.
func (s *Subscriber) Run(ctx context.Context) {
	defer s.cell.setState(models.StateDisconnected)

	delay := s.cfg.ReconnectInitial
	for {
		if ctx.Err() != nil {
			return
		}

		s.cell.setState(models.StateConnecting)
		conn, err := s.dial()
		if err != nil {
			s.cell.setError(err)
			s.cell.setState(models.StateReconnecting)
			if s.log != nil {
				s.log.Warnw("broker_connect_failed", "err", err, "retry_in", delay)
			}
			if !sleepCtx(ctx, withJitter(delay, s.cfg.ReconnectJitter)) {
				return
			}
			delay = nextDelay(delay, s.cfg)
			continue
		}

		delay = s.cfg.ReconnectInitial
		s.cell.setState(models.StateConnected)
		if s.log != nil {
			s.log.Infow("broker_connected", "exchange", s.cfg.Exchange, "topic", s.cfg.Topic)
		}

		if !s.consume(ctx, conn) {
			return
		}
		// Transport lost: fall through to reconnect.
		s.cell.setState(models.StateReconnecting)
		if !sleepCtx(ctx, withJitter(delay, s.cfg.ReconnectJitter)) {
			return
		}
		delay = nextDelay(delay, s.cfg)
	}
}

// consume drains one transport. Returns false when ctx was canceled
// (shutdown), true when the transport was lost and a reconnect is due.
func (s *Subscriber) consume(ctx context.Context, conn Transport) bool {
	defer func() { _ = conn.Close() }()

	for {
		select {
		case <-ctx.Done():
			return false
		case err := <-conn.Closed():
			s.cell.setError(err)
			if s.log != nil {
				s.log.Warnw("broker_connection_lost", "err", err)
			}
			return true
		case body, ok := <-conn.Messages():
			if !ok {
				return true
			}
			sample, err := parsePayload(body)
			if err != nil {
				// Malformed payloads are transient: drop, count, stay connected.
				s.cell.countDrop(err)
				if s.log != nil {
					s.log.Debugw("payload_dropped", "err", err)
				}
				continue
			}
			s.cell.setSample(sample)
			if s.handler != nil {
				s.handler(sample)
			}
		}
	}
}

// sleepCtx waits for d or until ctx is canceled. Returns false on cancel.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

func nextDelay(d time.Duration, cfg Config) time.Duration {
	next := time.Duration(float64(d) * cfg.ReconnectMultiplier)
	if next > cfg.ReconnectMax {
		next = cfg.ReconnectMax
	}
	return next
}

// withJitter spreads reconnect attempts by up to ±jitter of the delay.
func withJitter(d time.Duration, jitter float64) time.Duration {
	if jitter <= 0 {
		return d
	}
	offset := (rand.Float64()*2 - 1) * jitter * float64(d)
	return d + time.Duration(offset)
}
