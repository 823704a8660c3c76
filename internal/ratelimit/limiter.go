// Package ratelimit throttles login attempts per client key.
//
// Every attempt is reserved before the credentials are checked, so parallel
// requests cannot slip past the limit while a password is being verified. A
// key that exceeds the maximum inside the window is locked until the window
// expires. A successful login clears the key.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Limiter tracks login attempts for a key.
type Limiter interface {
	// Attempt reserves one attempt for key. A positive wait means the key is
	// locked and the attempt must be rejected.
	Attempt(ctx context.Context, key string) (time.Duration, error)
	// Reset clears the key after a successful attempt.
	Reset(ctx context.Context, key string) error
}

type attemptState struct {
	count        int
	firstAttempt time.Time
}

// MemoryLimiter keeps attempt counters in process memory.
type MemoryLimiter struct {
	max    int
	window time.Duration
	now    func() time.Time

	mu        sync.Mutex
	attempts  map[string]*attemptState
	lastSweep time.Time
}

// NewMemoryLimiter builds an in-process limiter.
func NewMemoryLimiter(max int, window time.Duration) *MemoryLimiter {
	return &MemoryLimiter{
		max:       max,
		window:    window,
		now:       time.Now,
		attempts:  make(map[string]*attemptState),
		lastSweep: time.Now(),
	}
}

func (l *MemoryLimiter) Attempt(_ context.Context, key string) (time.Duration, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.sweep(now)

	state, ok := l.attempts[key]
	if !ok || now.Sub(state.firstAttempt) >= l.window {
		state = &attemptState{firstAttempt: now}
		l.attempts[key] = state
	}
	if state.count <= l.max {
		state.count++
	}
	if state.count <= l.max {
		return 0, nil
	}
	return state.firstAttempt.Add(l.window).Sub(now), nil
}

func (l *MemoryLimiter) Reset(_ context.Context, key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.attempts, key)
	return nil
}

// Len returns the number of tracked keys.
func (l *MemoryLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.attempts)
}

// sweep drops expired keys at most once per window. Callers hold l.mu.
func (l *MemoryLimiter) sweep(now time.Time) {
	if now.Sub(l.lastSweep) < l.window {
		return
	}
	for key, state := range l.attempts {
		if now.Sub(state.firstAttempt) >= l.window {
			delete(l.attempts, key)
		}
	}
	l.lastSweep = now
}
