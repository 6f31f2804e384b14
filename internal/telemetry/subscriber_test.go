package telemetry

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"tempmonitor/internal/models"
)

type fakeTransport struct {
	messages chan []byte
	closed   chan error
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{
		messages: make(chan []byte, 8),
		closed:   make(chan error, 1),
	}
}

func (f *fakeTransport) Messages() <-chan []byte { return f.messages }
func (f *fakeTransport) Closed() <-chan error    { return f.closed }
func (f *fakeTransport) Close() error            { return nil }

func (f *fakeTransport) deliver(body string) { f.messages <- []byte(body) }
func (f *fakeTransport) fail(err error)      { f.closed <- err }

func testConfig() Config {
	return Config{
		DSN:                 "amqp://test",
		Exchange:            "telemetry",
		Topic:               "sensors.temperature",
		ReconnectInitial:    time.Millisecond,
		ReconnectMax:        2 * time.Millisecond,
		ReconnectMultiplier: 2,
	}
}

// waitFor polls cond until it holds or the deadline passes.
func waitFor(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal(msg)
}

func TestSubscriber_ReconnectsAfterNDialFailures(t *testing.T) {
	t.Parallel()

	const failures = 3
	var dials int32
	transport := newFakeTransport()

	s := NewSubscriber(testConfig(), nil, nil)
	s.dial = func() (Transport, error) {
		if atomic.AddInt32(&dials, 1) <= failures {
			return nil, errors.New("broker unreachable")
		}
		return transport, nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	waitFor(t, func() bool {
		return s.Snapshot().ConnectionState == models.StateConnected
	}, "subscriber never reached CONNECTED")

	if got := atomic.LoadInt32(&dials); got != failures+1 {
		t.Fatalf("dialed %d times, want %d", got, failures+1)
	}
	if snap := s.Snapshot(); snap.LastError == "" {
		t.Fatal("failed dials must be reflected in last_error")
	}

	cancel()
	<-done
	if got := s.Snapshot().ConnectionState; got != models.StateDisconnected {
		t.Fatalf("state after shutdown = %q, want %q", got, models.StateDisconnected)
	}
}

func TestSubscriber_LatestSampleSurvivesReconnect(t *testing.T) {
	t.Parallel()

	first := newFakeTransport()
	second := newFakeTransport()
	var dials int32

	s := NewSubscriber(testConfig(), nil, nil)
	s.dial = func() (Transport, error) {
		if atomic.AddInt32(&dials, 1) == 1 {
			return first, nil
		}
		return second, nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.Run(ctx)

	waitFor(t, func() bool {
		return s.Snapshot().ConnectionState == models.StateConnected
	}, "never connected")

	first.deliver(`{"temperature": 26.5}`)
	waitFor(t, func() bool {
		snap := s.Snapshot()
		return snap.Sample != nil && snap.Sample.Value == 26.5
	}, "sample never observed")

	first.fail(errors.New("socket reset"))

	waitFor(t, func() bool {
		return atomic.LoadInt32(&dials) >= 2 && s.Snapshot().ConnectionState == models.StateConnected
	}, "never reconnected")

	// Stale-but-available: the old sample is still visible after the
	// transport bounce.
	snap := s.Snapshot()
	if snap.Sample == nil || snap.Sample.Value != 26.5 {
		t.Fatalf("latest sample lost across reconnect: %+v", snap.Sample)
	}
}

func TestSubscriber_MalformedPayloadsDroppedConnectionStaysOpen(t *testing.T) {
	t.Parallel()

	transport := newFakeTransport()
	var (
		mu      sync.Mutex
		handled []float64
	)

	s := NewSubscriber(testConfig(), func(sample models.TemperatureSample) {
		mu.Lock()
		handled = append(handled, sample.Value)
		mu.Unlock()
	}, nil)
	s.dial = func() (Transport, error) { return transport, nil }

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.Run(ctx)

	waitFor(t, func() bool {
		return s.Snapshot().ConnectionState == models.StateConnected
	}, "never connected")

	transport.deliver("not telemetry")
	transport.deliver(`{"temperature": 22.0}`)

	waitFor(t, func() bool {
		snap := s.Snapshot()
		return snap.DroppedPayloads == 1 && snap.Sample != nil
	}, "malformed payload not counted or good sample lost")

	snap := s.Snapshot()
	if snap.ConnectionState != models.StateConnected {
		t.Fatalf("malformed payload must not drop the connection, state = %q", snap.ConnectionState)
	}
	if snap.Sample.Value != 22.0 {
		t.Fatalf("latest sample = %v, want 22.0", snap.Sample.Value)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(handled) != 1 || handled[0] != 22.0 {
		t.Fatalf("handler saw %v, want only the valid sample", handled)
	}
}

func TestSubscriber_HandlerInvokedPerSample(t *testing.T) {
	t.Parallel()

	transport := newFakeTransport()
	var count int32

	s := NewSubscriber(testConfig(), func(models.TemperatureSample) {
		atomic.AddInt32(&count, 1)
	}, nil)
	s.dial = func() (Transport, error) { return transport, nil }

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.Run(ctx)

	waitFor(t, func() bool {
		return s.Snapshot().ConnectionState == models.StateConnected
	}, "never connected")

	for i := 0; i < 5; i++ {
		transport.deliver(`{"temperature": 30}`)
	}
	waitFor(t, func() bool {
		return atomic.LoadInt32(&count) == 5
	}, "handler not invoked once per sample")
}
