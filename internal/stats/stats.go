// Package stats tracks conversion latencies per pipeline stage over a
// rolling window.
package stats

import (
	"sort"
	"sync"
	"time"
)

// Stage names recorded by the pipeline.
const (
	StageParse     = "parse"
	StageStructure = "structure"
	StageBuild     = "build"
	StageSerialize = "serialize"
	StagePublish   = "publish"
	StageTotal     = "total"
)

type sample struct {
	at time.Time
	ms int64
}

// Snapshot aggregates the samples of one stage.
type Snapshot struct {
	Count int     `json:"count"`
	MinMs int64   `json:"min_ms"`
	MaxMs int64   `json:"max_ms"`
	AvgMs float64 `json:"avg_ms"`
	P50Ms float64 `json:"p50_ms"`
	P95Ms float64 `json:"p95_ms"`
	P99Ms float64 `json:"p99_ms"`
}

// Latency keeps recent stage durations. The zero value is not usable; call
// New.
type Latency struct {
	mu     sync.Mutex
	stages map[string][]sample
	maxAge time.Duration
	now    func() time.Time
}

// New returns a tracker that forgets samples older than maxAge (an hour when
// maxAge is not positive).
func New(maxAge time.Duration) *Latency {
	if maxAge <= 0 {
		maxAge = time.Hour
	}
	return &Latency{
		stages: make(map[string][]sample),
		maxAge: maxAge,
		now:    time.Now,
	}
}

// Record adds one duration for stage. Negative durations count as zero.
func (l *Latency) Record(stage string, d time.Duration) {
	ms := d.Milliseconds()
	if ms < 0 {
		ms = 0
	}
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()
	l.stages[stage] = append(prune(l.stages[stage], now.Add(-l.maxAge)), sample{at: now, ms: ms})
}

// Time records the time elapsed since start.
func (l *Latency) Time(stage string, start time.Time) {
	l.Record(stage, l.now().Sub(start))
}

// Snapshot returns the aggregate of every stage that still has samples.
func (l *Latency) Snapshot() map[string]Snapshot {
	cutoff := l.now().Add(-l.maxAge)

	l.mu.Lock()
	defer l.mu.Unlock()

	out := make(map[string]Snapshot, len(l.stages))
	for stage, samples := range l.stages {
		samples = prune(samples, cutoff)
		l.stages[stage] = samples
		if len(samples) == 0 {
			continue
		}
		out[stage] = aggregate(samples)
	}
	return out
}

// Stage returns the aggregate for one stage.
func (l *Latency) Stage(stage string) Snapshot {
	return l.Snapshot()[stage]
}

func prune(samples []sample, cutoff time.Time) []sample {
	kept := samples[:0]
	for _, s := range samples {
		if !s.at.Before(cutoff) {
			kept = append(kept, s)
		}
	}
	return kept
}

func aggregate(samples []sample) Snapshot {
	values := make([]int64, len(samples))
	var sum int64
	for i, s := range samples {
		values[i] = s.ms
		sum += s.ms
	}
	sort.Slice(values, func(i, j int) bool { return values[i] < values[j] })
	return Snapshot{
		Count: len(values),
		MinMs: values[0],
		MaxMs: values[len(values)-1],
		AvgMs: float64(sum) / float64(len(values)),
		P50Ms: percentile(values, 50),
		P95Ms: percentile(values, 95),
		P99Ms: percentile(values, 99),
	}
}

// percentile interpolates linearly between the two nearest ranks.
func percentile(sorted []int64, pct float64) float64 {
	switch {
	case len(sorted) == 0:
		return 0
	case pct <= 0:
		return float64(sorted[0])
	case pct >= 100:
		return float64(sorted[len(sorted)-1])
	}
	index := float64(len(sorted)-1) * pct / 100
	lower := int(index)
	if lower+1 >= len(sorted) {
		return float64(sorted[lower])
	}
	lo, hi := float64(sorted[lower]), float64(sorted[lower+1])
	return lo + (hi-lo)*(index-float64(lower))
}
