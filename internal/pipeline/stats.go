package pipeline

import (
	"sync"
	"sync/atomic"
)

// Stats counts pipeline outcomes. Safe for concurrent use by workers
// and the ops endpoint.
type Stats struct {
	received atomic.Int64
	written  atomic.Int64
	degraded atomic.Int64

	mu       sync.Mutex
	failures map[Kind]int64
}

func NewStats() *Stats {
	return &Stats{failures: make(map[Kind]int64)}
}

func (s *Stats) markReceived() { s.received.Add(1) }
func (s *Stats) markWritten()  { s.written.Add(1) }
func (s *Stats) markDegraded() { s.degraded.Add(1) }

func (s *Stats) markFailure(kind Kind) {
	if kind == "" {
		kind = "unclassified"
	}
	s.mu.Lock()
	s.failures[kind]++
	s.mu.Unlock()
}

// Snapshot is a point-in-time copy of the counters.
type Snapshot struct {
	Received int64            `json:"received"`
	Written  int64            `json:"written"`
	Degraded int64            `json:"degraded"`
	Failures map[string]int64 `json:"failures"`
}

func (s *Stats) Snapshot() Snapshot {
	snap := Snapshot{
		Received: s.received.Load(),
		Written:  s.written.Load(),
		Degraded: s.degraded.Load(),
		Failures: make(map[string]int64),
	}
	s.mu.Lock()
	for kind, n := range s.failures {
		snap.Failures[string(kind)] = n
	}
	s.mu.Unlock()
	return snap
}
