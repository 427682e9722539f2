// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

package services

import (
	"context"
	"time"

	"github.com/tomtom215/foodgram/internal/logging"
)

// PeriodicService runs task every interval. Task errors are logged, not
// returned; maintenance failures should not restart the tree.
type PeriodicService struct {
	name     string
	interval time.Duration
	task     func(ctx context.Context) error
}

func NewPeriodicService(name string, interval time.Duration, task func(ctx context.Context) error) *PeriodicService {
	if interval <= 0 {
		interval = time.Minute
	}
	return &PeriodicService{name: name, interval: interval, task: task}
}

func (p *PeriodicService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			start := time.Now()
			if err := p.task(ctx); err != nil {
				logging.Warn().Err(err).Str("service", p.name).Msg("Periodic task failed")
				continue
			}
			logging.Debug().Str("service", p.name).Dur("duration", time.Since(start)).Msg("Periodic task completed")
		}
	}
}

func (p *PeriodicService) String() string {
	return p.name
}
