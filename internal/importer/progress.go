// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

package importer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/tomtom215/foodgram/internal/config"
)

const progressKeyPrefix = "import:progress:"

// ProgressTracker remembers the last completed run per source.
type ProgressTracker interface {
	Save(ctx context.Context, key string, stats *Stats) error
	// Load returns nil, nil when the source has never been imported.
	Load(ctx context.Context, key string) (*Stats, error)
	Clear(ctx context.Context, key string) error
	Close() error
}

// NewProgressTracker selects the tracker named by import.progress_store.
func NewProgressTracker(cfg *config.ImportConfig) (ProgressTracker, error) {
	switch cfg.ProgressStore {
	case "", "memory":
		return NewInMemoryProgress(), nil
	case "badger":
		return OpenBadgerProgress(cfg.ProgressPath)
	default:
		return nil, fmt.Errorf("unknown import progress store %q", cfg.ProgressStore)
	}
}

// BadgerProgress stores progress as JSON values in BadgerDB.
type BadgerProgress struct {
	db    *badger.DB
	owned bool
}

// OpenBadgerProgress opens (and owns) a Badger database at path.
func OpenBadgerProgress(path string) (*BadgerProgress, error) {
	if err := os.MkdirAll(path, 0o750); err != nil {
		return nil, fmt.Errorf("create progress dir %s: %w", path, err)
	}
	db, err := badger.Open(badger.DefaultOptions(path).WithLogger(nil))
	if err != nil {
		return nil, fmt.Errorf("open progress store: %w", err)
	}
	return &BadgerProgress{db: db, owned: true}, nil
}

// NewBadgerProgress uses an existing database; Close leaves it open.
func NewBadgerProgress(db *badger.DB) *BadgerProgress {
	return &BadgerProgress{db: db}
}

func (p *BadgerProgress) Save(_ context.Context, key string, stats *Stats) error {
	data, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("marshal stats: %w", err)
	}
	return p.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(progressKeyPrefix+key), data)
	})
}

func (p *BadgerProgress) Load(_ context.Context, key string) (*Stats, error) {
	var stats *Stats
	err := p.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(progressKeyPrefix + key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			stats = &Stats{}
			return json.Unmarshal(val, stats)
		})
	})
	if err != nil {
		return nil, fmt.Errorf("load progress: %w", err)
	}
	return stats, nil
}

func (p *BadgerProgress) Clear(_ context.Context, key string) error {
	return p.db.Update(func(txn *badger.Txn) error {
		err := txn.Delete([]byte(progressKeyPrefix + key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		return err
	})
}

func (p *BadgerProgress) Close() error {
	if !p.owned {
		return nil
	}
	return p.db.Close()
}

// InMemoryProgress is a ProgressTracker for tests and one-shot CLI runs.
type InMemoryProgress struct {
	mu    sync.Mutex
	stats map[string]Stats
}

func NewInMemoryProgress() *InMemoryProgress {
	return &InMemoryProgress{stats: make(map[string]Stats)}
}

func (p *InMemoryProgress) Save(_ context.Context, key string, stats *Stats) error {
	p.mu.Lock()
	p.stats[key] = *stats
	p.mu.Unlock()
	return nil
}

func (p *InMemoryProgress) Load(_ context.Context, key string) (*Stats, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	s, ok := p.stats[key]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (p *InMemoryProgress) Clear(_ context.Context, key string) error {
	p.mu.Lock()
	delete(p.stats, key)
	p.mu.Unlock()
	return nil
}

func (p *InMemoryProgress) Close() error { return nil }
