// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

package services

import (
	"context"
	"errors"
	"fmt"
)

// EventRouter is implemented by events.Router.
type EventRouter interface {
	Run(ctx context.Context) error
	Close() error
}

// RouterFactory builds a router with its handlers attached.
type RouterFactory func() (EventRouter, error)

// EventRouterService runs a new router on every (re)start.
type EventRouterService struct {
	factory RouterFactory
	name    string
}

func NewEventRouterService(factory RouterFactory) *EventRouterService {
	return &EventRouterService{
		factory: factory,
		name:    "event-router",
	}
}

func (s *EventRouterService) Serve(ctx context.Context) error {
	router, err := s.factory()
	if err != nil {
		return fmt.Errorf("event router setup failed: %w", err)
	}

	err = router.Run(ctx)
	_ = router.Close()

	if ctx.Err() != nil {
		return ctx.Err()
	}
	if err == nil {
		err = errors.New("event router stopped unexpectedly")
	}
	return fmt.Errorf("event router failed: %w", err)
}

func (s *EventRouterService) String() string {
	return s.name
}
