package fetch

import (
	"slices"
	"sync"
	"time"
)

type attemptSample struct {
	at        time.Time
	latencyMs int64
	ok        bool
}

// StatsSnapshot aggregates the upstream attempts seen within the window.
type StatsSnapshot struct {
	Attempts int     `json:"attempts"`
	Failures int     `json:"failures"`
	MinMs    int64   `json:"min_ms"`
	MaxMs    int64   `json:"max_ms"`
	AvgMs    float64 `json:"avg_ms"`
	P50Ms    float64 `json:"p50_ms"`
	P95Ms    float64 `json:"p95_ms"`
	P99Ms    float64 `json:"p99_ms"`
}

// LatencyStats keeps per-attempt upstream latencies for a rolling window.
type LatencyStats struct {
	mu      sync.Mutex
	samples []attemptSample
	window  time.Duration
}

func NewLatencyStats(window time.Duration) *LatencyStats {
	if window <= 0 {
		window = time.Hour
	}
	return &LatencyStats{
		samples: make([]attemptSample, 0, 128),
		window:  window,
	}
}

// Record adds one attempt. Negative latencies count as zero.
func (s *LatencyStats) Record(latencyMs int64, ok bool) {
	latencyMs = max(latencyMs, 0)
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.expireLocked(now)
	s.samples = append(s.samples, attemptSample{at: now, latencyMs: latencyMs, ok: ok})
}

func (s *LatencyStats) Snapshot() StatsSnapshot {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.expireLocked(now)
	if len(s.samples) == 0 {
		return StatsSnapshot{}
	}

	var (
		sum      int64
		failures int
	)
	latencies := make([]int64, len(s.samples))
	for i, sm := range s.samples {
		latencies[i] = sm.latencyMs
		sum += sm.latencyMs
		if !sm.ok {
			failures++
		}
	}
	slices.Sort(latencies)

	n := len(latencies)
	return StatsSnapshot{
		Attempts: n,
		Failures: failures,
		MinMs:    latencies[0],
		MaxMs:    latencies[n-1],
		AvgMs:    float64(sum) / float64(n),
		P50Ms:    interpolate(latencies, 50),
		P95Ms:    interpolate(latencies, 95),
		P99Ms:    interpolate(latencies, 99),
	}
}

func (s *LatencyStats) expireLocked(now time.Time) {
	cutoff := now.Add(-s.window)
	s.samples = slices.DeleteFunc(s.samples, func(sm attemptSample) bool {
		return sm.at.Before(cutoff)
	})
}

// interpolate returns the pct-th percentile of sorted using linear
// interpolation between closest ranks.
func interpolate(sorted []int64, pct float64) float64 {
	n := len(sorted)
	switch {
	case n == 0:
		return 0
	case pct <= 0:
		return float64(sorted[0])
	case pct >= 100:
		return float64(sorted[n-1])
	}

	rank := float64(n-1) * pct / 100
	lo := int(rank)
	if lo+1 >= n {
		return float64(sorted[lo])
	}
	frac := rank - float64(lo)
	return float64(sorted[lo]) + float64(sorted[lo+1]-sorted[lo])*frac
}
