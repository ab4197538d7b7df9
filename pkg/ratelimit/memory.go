package ratelimit

import (
	"context"
	"sync"
	"time"
)

// entry tracks the current window of a single key
type entry struct {
	windowStart time.Time
	count       int
}

// MemoryLimiter keeps counters in process memory. State is lost on restart
// and is not shared between instances.
type MemoryLimiter struct {
	mu      sync.Mutex
	entries map[string]*entry
	limit   int
	window  time.Duration
	now     Clock
}

// MemoryOption configures a MemoryLimiter
type MemoryOption func(*MemoryLimiter)

// WithClock overrides time.Now
func WithClock(now Clock) MemoryOption {
	return func(m *MemoryLimiter) {
		m.now = now
	}
}

// NewMemoryLimiter allows limit hits per key within each window.
func NewMemoryLimiter(limit int, window time.Duration, opts ...MemoryOption) *MemoryLimiter {
	m := &MemoryLimiter{
		entries: make(map[string]*entry),
		limit:   limit,
		window:  window,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *MemoryLimiter) Limit() int { return m.limit }

func (m *MemoryLimiter) Window() time.Duration { return m.window }

// Hit never fails; the error is part of the Limiter contract.
func (m *MemoryLimiter) Hit(_ context.Context, key string) (Decision, error) {
	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[key]
	if !ok || m.expired(e, now) {
		e = &entry{windowStart: now}
		m.entries[key] = e
	}
	e.count++

	return newDecision(e.count, m.limit, e.windowStart.Add(m.window)), nil
}

// Sweep drops entries whose window has lapsed and returns how many were removed.
func (m *MemoryLimiter) Sweep() int {
	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for key, e := range m.entries {
		if m.expired(e, now) {
			delete(m.entries, key)
			removed++
		}
	}
	return removed
}

// Run sweeps on every tick until ctx is cancelled.
func (m *MemoryLimiter) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Sweep()
		}
	}
}

// Len reports the number of tracked keys.
func (m *MemoryLimiter) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

func (m *MemoryLimiter) expired(e *entry, now time.Time) bool {
	return !now.Before(e.windowStart.Add(m.window))
}
