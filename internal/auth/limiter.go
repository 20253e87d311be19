package auth

import (
	"sync"
	"time"
)

// limiter blocks an identifier after max failed attempts within window.
type limiter struct {
	mu       sync.Mutex
	max      int
	window   time.Duration
	now      func() time.Time
	failures map[string][]time.Time
}

func newLimiter(max int, window time.Duration, now func() time.Time) *limiter {
	return &limiter{
		max:      max,
		window:   window,
		now:      now,
		failures: make(map[string][]time.Time),
	}
}

func (l *limiter) recent(id string) []time.Time {
	cutoff := l.now().Add(-l.window)
	kept := l.failures[id][:0]
	for _, t := range l.failures[id] {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	l.failures[id] = kept
	return kept
}

func (l *limiter) allow(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.recent(id)) < l.max
}

func (l *limiter) fail(id string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.failures[id] = append(l.recent(id), l.now())
}

func (l *limiter) reset(id string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.failures, id)
}
