// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

package events

import (
	"context"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"

	"github.com/tomtom215/foodgram/internal/logging"
	"github.com/tomtom215/foodgram/internal/metrics"
)

const (
	defaultRetryInterval = 100 * time.Millisecond
	defaultCloseTimeout  = 10 * time.Second
)

// Handler consumes decoded events. Returning an error triggers the retry
// middleware; after the last retry the message is nacked.
type Handler interface {
	Name() string
	Handle(ctx context.Context, e *Event) error
}

// Router wires Handlers to the bus.
type Router struct {
	bus    *Bus
	router *message.Router
}

// NewRouter creates a router with recoverer and retry middleware using the
// bus retry settings.
func NewRouter(bus *Bus) (*Router, error) {
	closeTimeout := bus.cfg.CloseTimeout
	if closeTimeout <= 0 {
		closeTimeout = defaultCloseTimeout
	}
	interval := bus.cfg.RetryInterval
	if interval <= 0 {
		interval = defaultRetryInterval
	}

	r, err := message.NewRouter(message.RouterConfig{CloseTimeout: closeTimeout}, bus.logger)
	if err != nil {
		return nil, fmt.Errorf("create event router: %w", err)
	}

	r.AddMiddleware(
		middleware.Recoverer,
		middleware.Retry{
			MaxRetries:      bus.cfg.RetryCount,
			InitialInterval: interval,
			MaxInterval:     10 * interval,
			Multiplier:      2,
			Logger:          bus.logger,
		}.Middleware,
	)

	return &Router{bus: bus, router: r}, nil
}

// AddHandler subscribes h to Topic. Handlers must be added before Run.
func (r *Router) AddHandler(h Handler) error {
	sub, err := r.bus.Subscriber(h.Name())
	if err != nil {
		return fmt.Errorf("subscriber for %s: %w", h.Name(), err)
	}

	name := h.Name()
	r.router.AddConsumerHandler(name, Topic, sub, func(msg *message.Message) error {
		e, err := FromMessage(msg)
		if err != nil {
			// Undecodable payloads are acked; retrying cannot fix them.
			metrics.RecordEventConsumed(name, err)
			logging.Warn().Err(err).Str("handler", name).Str("message_id", msg.UUID).Msg("Dropping malformed event")
			return nil
		}

		ctx := msg.Context()
		if rid := msg.Metadata.Get("request_id"); rid != "" {
			ctx = logging.ContextWithRequestID(ctx, rid)
		}
		err = h.Handle(ctx, e)
		metrics.RecordEventConsumed(name, err)
		return err
	})
	return nil
}

// Run blocks until ctx is cancelled or the router fails.
func (r *Router) Run(ctx context.Context) error {
	return r.router.Run(ctx)
}

// Running is closed once every handler is subscribed.
func (r *Router) Running() chan struct{} {
	return r.router.Running()
}

// Close stops the router, waiting up to the close timeout for handlers.
func (r *Router) Close() error {
	return r.router.Close()
}
