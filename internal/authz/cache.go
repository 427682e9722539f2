// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

package authz

import (
	"sync"
	"time"

	"github.com/tomtom215/foodgram/internal/metrics"
)

const cacheName = "authz"

// enforcementCache caches decisions per (role, object, action).
type enforcementCache struct {
	ttl      time.Duration
	mu       sync.RWMutex
	items    map[string]cacheItem
	stopChan chan struct{}
	stopOnce sync.Once
}

type cacheItem struct {
	allowed   bool
	expiresAt time.Time
}

func newEnforcementCache(ttl time.Duration) *enforcementCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	c := &enforcementCache{
		ttl:      ttl,
		items:    make(map[string]cacheItem),
		stopChan: make(chan struct{}),
	}
	go c.cleanup()
	return c
}

func (c *enforcementCache) key(role, object, action string) string {
	return role + "|" + object + "|" + action
}

func (c *enforcementCache) get(role, object, action string) (bool, bool) {
	c.mu.RLock()
	item, ok := c.items[c.key(role, object, action)]
	c.mu.RUnlock()

	if !ok || time.Now().After(item.expiresAt) {
		metrics.CacheMisses.WithLabelValues(cacheName).Inc()
		return false, false
	}
	metrics.CacheHits.WithLabelValues(cacheName).Inc()
	return item.allowed, true
}

func (c *enforcementCache) set(role, object, action string, allowed bool) {
	c.mu.Lock()
	c.items[c.key(role, object, action)] = cacheItem{
		allowed:   allowed,
		expiresAt: time.Now().Add(c.ttl),
	}
	n := len(c.items)
	c.mu.Unlock()
	metrics.CacheSize.WithLabelValues(cacheName).Set(float64(n))
}

func (c *enforcementCache) clear() {
	c.mu.Lock()
	c.items = make(map[string]cacheItem)
	c.mu.Unlock()
	metrics.CacheSize.WithLabelValues(cacheName).Set(0)
}

func (c *enforcementCache) size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

func (c *enforcementCache) cleanup() {
	ticker := time.NewTicker(c.ttl)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopChan:
			return
		case <-ticker.C:
			c.evictExpired(time.Now())
		}
	}
}

func (c *enforcementCache) evictExpired(now time.Time) {
	c.mu.Lock()
	for key, item := range c.items {
		if now.After(item.expiresAt) {
			delete(c.items, key)
		}
	}
	n := len(c.items)
	c.mu.Unlock()
	metrics.CacheSize.WithLabelValues(cacheName).Set(float64(n))
}

// stop is idempotent.
func (c *enforcementCache) stop() {
	c.stopOnce.Do(func() {
		close(c.stopChan)
	})
}
