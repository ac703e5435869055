package progress

import (
	"time"
)

// SpeedWindow is the span of the sliding sample window used for speed
// calculation. Samples older than this relative to the newest sample are
// dropped, so the reported speed reflects recent throughput rather than
// the whole transfer.
const SpeedWindow = 10 * time.Second

// sample is one progress observation: how many bytes had arrived by t.
type sample struct {
	t    time.Time
	done int64
}

// Observation is the derived progress state after a chunk arrived.
type Observation struct {
	Done         int64   // cumulative bytes received
	Total        int64   // expected total, -1 when unknown
	Percent      float64 // completion percentage, 0 when PercentKnown is false
	PercentKnown bool    // false when the source did not report a total
	SpeedMBps    float64 // windowed average speed in MB/s, never negative
	BarFraction  float64 // completed fraction clamped to [0, 1]
}

// Tracker derives progress observations from a stream of byte-count
// updates. It performs no I/O and never reads the clock: callers pass
// the current time to [Tracker.Observe], which keeps the math
// deterministic under test.
type Tracker struct {
	total  int64
	done   int64
	window []sample
}

// NewTracker returns a Tracker for a transfer of total bytes. Pass zero
// or a negative total when the size is unknown.
func NewTracker(total int64) *Tracker {
	if total <= 0 {
		total = -1
	}
	return &Tracker{total: total}
}

// Observe records that n more bytes arrived at time now and returns the
// resulting observation.
func (t *Tracker) Observe(now time.Time, n int) Observation {
	t.done += int64(n)
	t.window = append(t.window, sample{t: now, done: t.done})

	// Evict samples that fell out of the window.
	cutoff := now.Add(-SpeedWindow)
	for len(t.window) > 0 && t.window[0].t.Before(cutoff) {
		t.window = t.window[1:]
	}

	return t.observation(now)
}

func (t *Tracker) observation(now time.Time) Observation {
	obs := Observation{
		Done:  t.done,
		Total: t.total,
	}

	if len(t.window) > 0 {
		oldest := t.window[0]
		elapsed := now.Sub(oldest.t).Seconds()
		if elapsed > 0 {
			obs.SpeedMBps = float64(t.done-oldest.done) / elapsed / (1 << 20)
		}
	}

	if t.total > 0 {
		obs.PercentKnown = true
		obs.Percent = float64(t.done) / float64(t.total) * 100
		obs.BarFraction = float64(t.done) / float64(t.total)
		if obs.BarFraction > 1 {
			obs.BarFraction = 1
		}
	}

	return obs
}
