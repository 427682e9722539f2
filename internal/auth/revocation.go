// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

package auth

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/tomtom215/foodgram/internal/config"
	"github.com/tomtom215/foodgram/internal/logging"
	"github.com/tomtom215/foodgram/internal/metrics"
)

// RevocationStore remembers revoked token ids until the token would have
// expired anyway.
type RevocationStore interface {
	Revoke(ctx context.Context, jti string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
	Close() error
}

// NewRevocationStore builds the store selected by security.revocation_store.
func NewRevocationStore(cfg *config.SecurityConfig) (RevocationStore, error) {
	switch cfg.RevocationStore {
	case "", "memory":
		return NewMemoryRevocationStore(), nil
	case "badger":
		return OpenBadgerRevocationStore(cfg.RevocationPath)
	default:
		return nil, fmt.Errorf("unknown revocation store %q", cfg.RevocationStore)
	}
}

// MemoryRevocationStore keeps revocations in a map.
type MemoryRevocationStore struct {
	mu      sync.RWMutex
	revoked map[string]time.Time
}

func NewMemoryRevocationStore() *MemoryRevocationStore {
	return &MemoryRevocationStore{revoked: make(map[string]time.Time)}
}

func (s *MemoryRevocationStore) Revoke(_ context.Context, jti string, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for id, exp := range s.revoked {
		if now.After(exp) {
			delete(s.revoked, id)
		}
	}
	s.revoked[jti] = expiresAt
	metrics.AuthTokensRevoked.Inc()
	return nil
}

func (s *MemoryRevocationStore) IsRevoked(_ context.Context, jti string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	exp, ok := s.revoked[jti]
	return ok && time.Now().Before(exp), nil
}

func (s *MemoryRevocationStore) Close() error { return nil }

const revokedKeyPrefix = "revoked:"

// BadgerRevocationStore persists revocations with a TTL per key so badger
// garbage-collects them once the token has expired.
type BadgerRevocationStore struct {
	db *badger.DB
}

// OpenBadgerRevocationStore opens (or creates) a badger database at path.
func OpenBadgerRevocationStore(path string) (*BadgerRevocationStore, error) {
	if err := os.MkdirAll(path, 0o750); err != nil {
		return nil, fmt.Errorf("create revocation dir %s: %w", path, err)
	}
	opts := badger.DefaultOptions(path).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open revocation store: %w", err)
	}
	return NewBadgerRevocationStore(db), nil
}

// NewBadgerRevocationStore wraps an already opened badger database.
func NewBadgerRevocationStore(db *badger.DB) *BadgerRevocationStore {
	return &BadgerRevocationStore{db: db}
}

func (s *BadgerRevocationStore) Revoke(_ context.Context, jti string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	err := s.db.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry([]byte(revokedKeyPrefix+jti), []byte{1}).WithTTL(ttl)
		return txn.SetEntry(entry)
	})
	if err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	metrics.AuthTokensRevoked.Inc()
	return nil
}

func (s *BadgerRevocationStore) IsRevoked(_ context.Context, jti string) (bool, error) {
	err := s.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get([]byte(revokedKeyPrefix + jti))
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check revocation: %w", err)
	}
	return true, nil
}

// RunGC reclaims value log space until badger reports nothing to collect.
func (s *BadgerRevocationStore) RunGC() {
	for {
		if err := s.db.RunValueLogGC(0.5); err != nil {
			if !errors.Is(err, badger.ErrNoRewrite) {
				logging.Debug().Err(err).Msg("Revocation store GC finished")
			}
			return
		}
	}
}

func (s *BadgerRevocationStore) Close() error {
	return s.db.Close()
}
