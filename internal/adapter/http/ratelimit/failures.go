// Package ratelimit throttles clients that keep presenting bad credentials.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

type record struct {
	failures     int
	lastFailure  time.Time
	blockedUntil time.Time
}

// FailureLimiter blocks a client for a while once it exceeds maxFailures
// failed attempts inside the window. Successful attempts cost nothing.
type FailureLimiter struct {
	mu          sync.Mutex
	clients     map[string]*record
	maxFailures int
	window      time.Duration
	block       time.Duration
	now         func() time.Time
}

func NewFailureLimiter(maxFailures int, window, block time.Duration) *FailureLimiter {
	return &FailureLimiter{
		clients:     make(map[string]*record),
		maxFailures: maxFailures,
		window:      window,
		block:       block,
		now:         time.Now,
	}
}

// Blocked reports whether the client is currently locked out and for how long.
func (l *FailureLimiter) Blocked(clientID string) (bool, time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	rec, ok := l.clients[clientID]
	if !ok {
		return false, 0
	}
	if now := l.now(); now.Before(rec.blockedUntil) {
		return true, rec.blockedUntil.Sub(now)
	}
	return false, 0
}

// RecordFailure counts a failed attempt and reports whether it tipped the
// client into a block.
func (l *FailureLimiter) RecordFailure(clientID string) (bool, time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	rec, ok := l.clients[clientID]
	if !ok {
		rec = &record{}
		l.clients[clientID] = rec
	}
	if now.Before(rec.blockedUntil) {
		return true, rec.blockedUntil.Sub(now)
	}
	if now.Sub(rec.lastFailure) > l.window {
		rec.failures = 0
	}
	rec.failures++
	rec.lastFailure = now

	if rec.failures > l.maxFailures {
		rec.blockedUntil = now.Add(l.block)
		rec.failures = 0
		return true, l.block
	}
	return false, 0
}

func (l *FailureLimiter) Reset(clientID string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.clients, clientID)
}

// Prune drops records that are neither blocked nor inside the window.
func (l *FailureLimiter) Prune() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	removed := 0
	for id, rec := range l.clients {
		if now.Sub(rec.lastFailure) > 2*l.window && !now.Before(rec.blockedUntil) {
			delete(l.clients, id)
			removed++
		}
	}
	return removed
}

// Run prunes once a minute until ctx is done.
func (l *FailureLimiter) Run(ctx context.Context) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.Prune()
		}
	}
}
