// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

package events

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/foodgram/internal/config"
	"github.com/tomtom215/foodgram/internal/logging"
	"github.com/tomtom215/foodgram/internal/metrics"
)

// ErrBusClosed is returned by Publish after Close.
var ErrBusClosed = errors.New("event bus is closed")

// Transport names reported by Bus.Transport.
const (
	TransportGoChannel = "gochannel"
	TransportNATS      = "nats"
)

// Emitter is what request handlers depend on.
type Emitter interface {
	Emit(ctx context.Context, e *Event)
}

// Bus owns the publisher, the breaker in front of it and, for NATS, the
// subscribers handed out to the router and an optional embedded server.
type Bus struct {
	logger    watermill.LoggerAdapter
	cfg       config.NATSConfig
	url       string
	transport string

	publisher message.Publisher
	goChannel *gochannel.GoChannel
	embedded  *EmbeddedServer
	breaker   *gobreaker.CircuitBreaker[any]

	mu          sync.Mutex
	closed      bool
	subscribers []message.Subscriber
}

// NewBus builds the transport selected by cfg. A nil or disabled cfg gives
// the in-process gochannel bus.
func NewBus(ctx context.Context, cfg *config.NATSConfig) (*Bus, error) {
	if cfg == nil || !cfg.Enabled {
		return NewInMemoryBus(), nil
	}

	logger := logging.NewWatermillAdapter()
	b := &Bus{
		logger:    logger,
		cfg:       *cfg,
		url:       cfg.URL,
		transport: TransportNATS,
		breaker:   NewCircuitBreaker(DefaultBreakerConfig()),
	}

	if cfg.EmbeddedServer {
		srv, err := StartEmbeddedServer(cfg.StoreDir)
		if err != nil {
			return nil, err
		}
		b.embedded = srv
		b.url = srv.ClientURL()
		logging.Info().Str("url", b.url).Msg("Embedded NATS server started")
	}

	if err := EnsureStream(ctx, b.url, cfg.StreamName); err != nil {
		b.shutdownEmbedded()
		return nil, err
	}

	pub, err := newNATSPublisher(b.url, cfg, logger)
	if err != nil {
		b.shutdownEmbedded()
		return nil, err
	}
	b.publisher = pub

	logging.Info().
		Str("url", b.url).
		Str("stream", cfg.StreamName).
		Msg("Event bus connected to NATS JetStream")
	return b, nil
}

// NewInMemoryBus returns a gochannel bus. Events are delivered to every
// subscriber of Topic in this process and lost when nobody subscribes.
func NewInMemoryBus() *Bus {
	logger := logging.NewWatermillAdapter()
	gc := gochannel.NewGoChannel(gochannel.Config{
		OutputChannelBuffer: 256,
	}, logger)

	return &Bus{
		logger:    logger,
		transport: TransportGoChannel,
		publisher: gc,
		goChannel: gc,
		breaker:   NewCircuitBreaker(DefaultBreakerConfig()),
		cfg: config.NATSConfig{
			RetryCount:    3,
			RetryInterval: defaultRetryInterval,
			CloseTimeout:  defaultCloseTimeout,
		},
	}
}

// Transport is "gochannel" or "nats".
func (b *Bus) Transport() string {
	return b.transport
}

// Healthy is false while the publish breaker is open.
func (b *Bus) Healthy() bool {
	return b.breaker.State() != gobreaker.StateOpen
}

// Publish sends e on Topic through the circuit breaker.
func (b *Bus) Publish(ctx context.Context, e *Event) error {
	b.mu.Lock()
	closed := b.closed
	b.mu.Unlock()
	if closed {
		return ErrBusClosed
	}

	msg, err := e.ToMessage()
	if err != nil {
		return err
	}
	msg.SetContext(ctx)
	if rid := logging.RequestIDFromContext(ctx); rid != "" {
		msg.Metadata.Set("request_id", rid)
	}

	_, err = b.breaker.Execute(func() (any, error) {
		return nil, b.publisher.Publish(Topic, msg)
	})
	metrics.RecordEventPublished(string(e.Type), err)
	if err != nil {
		return fmt.Errorf("publish %s: %w", e.Type, err)
	}
	return nil
}

// Emit publishes e and logs a failure instead of returning it.
func (b *Bus) Emit(ctx context.Context, e *Event) {
	if err := b.Publish(ctx, e); err != nil {
		logging.Ctx(ctx).Warn().
			Err(err).
			Str("event_type", string(e.Type)).
			Str("event_id", e.ID).
			Msg("Failed to publish domain event")
	}
}

// Subscriber returns a subscriber for the named handler. The gochannel bus
// shares one pub/sub; NATS gets a dedicated durable consumer per handler.
func (b *Bus) Subscriber(handler string) (message.Subscriber, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil, ErrBusClosed
	}
	if b.goChannel != nil {
		return b.goChannel, nil
	}

	sub, err := newNATSSubscriber(b.url, handler, &b.cfg, b.logger)
	if err != nil {
		return nil, err
	}
	b.subscribers = append(b.subscribers, sub)
	return sub, nil
}

// Close releases subscribers, the publisher and the embedded server.
func (b *Bus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true

	var errs []error
	for _, sub := range b.subscribers {
		if err := sub.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if err := b.publisher.Close(); err != nil {
		errs = append(errs, err)
	}
	b.shutdownEmbedded()
	return errors.Join(errs...)
}

func (b *Bus) shutdownEmbedded() {
	if b.embedded != nil {
		b.embedded.Shutdown()
		b.embedded = nil
	}
}
