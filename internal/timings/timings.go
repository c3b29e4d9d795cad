// pattern: Imperative Shell

// Package timings aggregates wall-clock durations per named operation.
package timings

import (
	"fmt"
	"io"
	"slices"
	"sync"
	"time"
)

// Recorder receives one duration sample for a named operation.
type Recorder interface {
	Record(op string, d time.Duration)
}

// Nop discards all samples.
type Nop struct{}

// Record implements Recorder.
func (Nop) Record(string, time.Duration) {}

type stat struct {
	count int
	total time.Duration
}

// Timings is a concurrency-safe Recorder that keeps a count and total per operation.
type Timings struct {
	mu    sync.Mutex
	stats map[string]*stat
	now   func() time.Time
}

// New creates an empty Timings.
func New() *Timings {
	return &Timings{
		stats: make(map[string]*stat),
		now:   time.Now,
	}
}

// Record adds one sample for op.
func (t *Timings) Record(op string, d time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()

	s, ok := t.stats[op]
	if !ok {
		s = &stat{}
		t.stats[op] = s
	}
	s.count++
	s.total += d
}

// Start begins timing op and returns the function that records the sample.
//
//	defer t.Start("dir_contents")()
func (t *Timings) Start(op string) func() {
	started := t.now()
	return func() {
		t.Record(op, t.now().Sub(started))
	}
}

// Count returns how many samples were recorded for op.
func (t *Timings) Count(op string) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	if s, ok := t.stats[op]; ok {
		return s.count
	}
	return 0
}

// Total returns the summed duration recorded for op.
func (t *Timings) Total(op string) time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	if s, ok := t.stats[op]; ok {
		return s.total
	}
	return 0
}

// Print writes one row per operation, sorted by name.
func (t *Timings) Print(w io.Writer) {
	t.mu.Lock()
	defer t.mu.Unlock()

	ops := make([]string, 0, len(t.stats))
	for op := range t.stats {
		ops = append(ops, op)
	}
	slices.Sort(ops)

	fmt.Fprintf(w, "%-24s %5s %12s %12s\n", "op", "count", "average", "total")
	for _, op := range ops {
		s := t.stats[op]
		avg := s.total / time.Duration(s.count)
		fmt.Fprintf(w, "%-24s %5d %12s %12s\n", op, s.count, avg, s.total)
	}
}
