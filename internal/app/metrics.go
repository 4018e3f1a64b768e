package app

import (
	"sync/atomic"
	"time"
)

// Metrics tracks loop health over a session: frame timing, redraw
// volume, and input counts. All methods are safe for concurrent use.
type Metrics struct {
	frameCount   atomic.Uint64
	frameTotalNs atomic.Int64
	frameMaxNs   atomic.Int64
	slowFrames   atomic.Uint64

	redrawBatches atomic.Uint64
	redrawEvents  atomic.Uint64

	inputCount atomic.Uint64

	start time.Time
}

// NewMetrics creates a Metrics with the clock started.
func NewMetrics() *Metrics {
	return &Metrics{start: time.Now()}
}

// RecordFrame notes one composed frame. Frames over budget count as
// slow.
func (m *Metrics) RecordFrame(d, budget time.Duration) {
	m.frameCount.Add(1)
	m.frameTotalNs.Add(int64(d))
	for {
		cur := m.frameMaxNs.Load()
		if int64(d) <= cur || m.frameMaxNs.CompareAndSwap(cur, int64(d)) {
			break
		}
	}
	if d > budget {
		m.slowFrames.Add(1)
	}
}

// RecordRedraw notes one redraw notification of n event batches.
func (m *Metrics) RecordRedraw(n int) {
	m.redrawBatches.Add(1)
	m.redrawEvents.Add(uint64(n))
}

// RecordInput notes one input event bound for the engine.
func (m *Metrics) RecordInput() {
	m.inputCount.Add(1)
}

// Stats is a point-in-time summary of the counters.
type Stats struct {
	Uptime        time.Duration
	Frames        uint64
	FrameAvg      time.Duration
	FrameMax      time.Duration
	SlowFrames    uint64
	RedrawBatches uint64
	RedrawEvents  uint64
	Inputs        uint64
}

// Snapshot returns the current counters.
func (m *Metrics) Snapshot() Stats {
	s := Stats{
		Uptime:        time.Since(m.start),
		Frames:        m.frameCount.Load(),
		FrameMax:      time.Duration(m.frameMaxNs.Load()),
		SlowFrames:    m.slowFrames.Load(),
		RedrawBatches: m.redrawBatches.Load(),
		RedrawEvents:  m.redrawEvents.Load(),
		Inputs:        m.inputCount.Load(),
	}
	if s.Frames > 0 {
		s.FrameAvg = time.Duration(m.frameTotalNs.Load() / int64(s.Frames))
	}
	return s
}
