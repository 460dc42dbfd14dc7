// Package ratelimit guards the login endpoint with a fixed-window
// attempt counter keyed by client identity.
//
// The Limiter interface exists so the process-local map and a shared
// external store (redisstore) are interchangeable without touching
// endpoint logic. State is per-process unless the Redis store is used;
// under horizontal scaling or restarts the in-memory counts do not
// synchronize, an accepted limitation for a single shared admin
// login, not a bug.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

const (
	// Window is the fixed attempt window.
	Window = 15 * time.Minute
	// MaxAttempts is the number of attempts allowed per window; the
	// attempt that pushes the count past this is refused.
	MaxAttempts = 5
)

// Decision is the outcome of recording one login attempt.
type Decision struct {
	Blocked    bool
	RetryAfter time.Duration
}

// Limiter records a login attempt for clientID and reports whether it
// should be refused. Every attempt counts, successful or not, and a
// refused attempt does not extend the window.
type Limiter interface {
	Allow(ctx context.Context, clientID string) (Decision, error)
}

type windowEntry struct {
	count   int
	resetAt time.Time
}

// Memory is a process-local Limiter backed by a mutex-guarded map.
// Stale entries are discarded lazily on next access to the same key;
// growth is bounded by the set of distinct client ids seen.
type Memory struct {
	mu      sync.Mutex
	entries map[string]*windowEntry

	now func() time.Time
}

var _ Limiter = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{
		entries: make(map[string]*windowEntry),
		now:     time.Now,
	}
}

func (m *Memory) Allow(_ context.Context, clientID string) (Decision, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	e, ok := m.entries[clientID]
	if !ok || !now.Before(e.resetAt) {
		m.entries[clientID] = &windowEntry{count: 1, resetAt: now.Add(Window)}
		return Decision{}, nil
	}

	e.count++
	if e.count > MaxAttempts {
		return Decision{Blocked: true, RetryAfter: e.resetAt.Sub(now)}, nil
	}
	return Decision{}, nil
}
