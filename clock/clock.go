// Package clock supplies the current instant to token issuance and
// validation. Production code uses System; tests freeze or script time
// with Fixed and Sequence.
package clock

import (
	"sync"
	"time"
)

// Clock returns the current instant.
type Clock interface {
	Now() time.Time
}

// Func adapts a function to Clock.
type Func func() time.Time

// Now calls f.
func (f Func) Now() time.Time { return f() }

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// System returns the wall clock.
func System() Clock { return systemClock{} }

// Fixed is a clock frozen at an instant until moved with Set or Advance.
type Fixed struct {
	mu  sync.Mutex
	now time.Time
}

// NewFixed returns a clock frozen at t.
func NewFixed(t time.Time) *Fixed {
	return &Fixed{now: t}
}

// Now returns the frozen instant.
func (f *Fixed) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

// Set moves the clock to t.
func (f *Fixed) Set(t time.Time) {
	f.mu.Lock()
	f.now = t
	f.mu.Unlock()
}

// Advance moves the clock forward by d and returns the new instant.
func (f *Fixed) Advance(d time.Duration) time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
	return f.now
}

// Sequence returns scripted instants in order. Once the script runs out
// the last instant is returned forever.
type Sequence struct {
	mu    sync.Mutex
	times []time.Time
	next  int
}

// NewSequence panics when given no instants.
func NewSequence(times ...time.Time) *Sequence {
	if len(times) == 0 {
		panic("clock: NewSequence needs at least one instant")
	}
	return &Sequence{times: append([]time.Time(nil), times...)}
}

// Now returns the next instant, repeating the last one once exhausted.
func (s *Sequence) Now() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := s.times[s.next]
	if s.next < len(s.times)-1 {
		s.next++
	}
	return t
}
