package telemetry

import (
	"sync"

	"tempmonitor/internal/models"
)

// snapshotCell is the single-writer/multi-reader cell holding the
// subscriber's observable state. Only the run loop writes; Snapshot
// copies under the read lock so readers never see a torn update.
type snapshotCell struct {
	mu      sync.RWMutex
	sample  *models.TemperatureSample
	state   string
	lastErr string
	dropped uint64
}

func (c *snapshotCell) setState(state string) {
	c.mu.Lock()
	c.state = state
	c.mu.Unlock()
}

func (c *snapshotCell) setSample(s models.TemperatureSample) {
	c.mu.Lock()
	c.sample = &s
	c.mu.Unlock()
}

func (c *snapshotCell) setError(err error) {
	c.mu.Lock()
	if err != nil {
		c.lastErr = err.Error()
	}
	c.mu.Unlock()
}

func (c *snapshotCell) countDrop(err error) {
	c.mu.Lock()
	c.dropped++
	if err != nil {
		c.lastErr = err.Error()
	}
	c.mu.Unlock()
}

func (c *snapshotCell) snapshot() models.TelemetrySnapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()

	snap := models.TelemetrySnapshot{
		ConnectionState: c.state,
		LastError:       c.lastErr,
		DroppedPayloads: c.dropped,
	}
	if c.sample != nil {
		s := *c.sample
		snap.Sample = &s
	}
	return snap
}
