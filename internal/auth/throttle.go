// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

package auth

import (
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const throttleSweepSize = 10000

// LoginThrottle limits login attempts per email with a token bucket of
// size attempts that refills over window.
type LoginThrottle struct {
	mu       sync.Mutex
	limiters map[string]*throttleEntry
	rate     rate.Limit
	burst    int
	window   time.Duration
}

type throttleEntry struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

func NewLoginThrottle(attempts int, window time.Duration) *LoginThrottle {
	if attempts < 1 {
		attempts = 1
	}
	return &LoginThrottle{
		limiters: make(map[string]*throttleEntry),
		rate:     rate.Every(window / time.Duration(attempts)),
		burst:    attempts,
		window:   window,
	}
}

// Allow consumes one attempt for email and reports whether it is permitted.
func (t *LoginThrottle) Allow(email string) bool {
	key := strings.ToLower(strings.TrimSpace(email))
	now := time.Now()

	t.mu.Lock()
	if len(t.limiters) >= throttleSweepSize {
		t.sweep(now)
	}
	entry, ok := t.limiters[key]
	if !ok {
		entry = &throttleEntry{limiter: rate.NewLimiter(t.rate, t.burst)}
		t.limiters[key] = entry
	}
	entry.lastAccess = now
	limiter := entry.limiter
	t.mu.Unlock()

	return limiter.AllowN(now, 1)
}

// Reset forgets the attempts of email after a successful login.
func (t *LoginThrottle) Reset(email string) {
	t.mu.Lock()
	delete(t.limiters, strings.ToLower(strings.TrimSpace(email)))
	t.mu.Unlock()
}

// sweep drops entries idle for longer than a full window. Caller holds mu.
func (t *LoginThrottle) sweep(now time.Time) {
	threshold := now.Add(-t.window)
	for key, entry := range t.limiters {
		if entry.lastAccess.Before(threshold) {
			delete(t.limiters, key)
		}
	}
}
