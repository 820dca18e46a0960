package id

import (
	"sync"

	"studyhub/internal/platform/clock"
)

// Generator creates numeric identifiers.
type Generator interface {
	New() int64
}

// Timestamp hands out millisecond timestamps, bumped by one whenever two
// calls land on the same millisecond so ids stay unique within a process.
type Timestamp struct {
	clock clock.Clock

	mu   sync.Mutex
	last int64
}

func NewTimestamp(clk clock.Clock) *Timestamp {
	if clk == nil {
		clk = clock.SystemClock{}
	}
	return &Timestamp{clock: clk}
}

func (g *Timestamp) New() int64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	next := g.clock.Now().UnixMilli()
	if next <= g.last {
		next = g.last + 1
	}
	g.last = next
	return next
}

// Sequence counts up from one. Handy for deterministic tests.
type Sequence struct {
	mu   sync.Mutex
	next int64
}

func (s *Sequence) New() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	return s.next
}
