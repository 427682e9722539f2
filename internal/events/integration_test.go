// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

//go:build integration

package events

import (
	"context"
	"testing"
	"time"

	"github.com/tomtom215/foodgram/internal/config"
	"github.com/tomtom215/foodgram/internal/testinfra"
)

func natsTestConfig(url string) *config.NATSConfig {
	return &config.NATSConfig{
		Enabled:          true,
		URL:              url,
		StreamName:       "FOODGRAM_TEST",
		DurableName:      "foodgram_test",
		QueueGroup:       "foodgram_test",
		SubscribersCount: 1,
		MaxReconnects:    3,
		ReconnectWait:    100 * time.Millisecond,
		RetryCount:       2,
		RetryInterval:    50 * time.Millisecond,
		CloseTimeout:     5 * time.Second,
	}
}

func assertJetStreamRoundTrip(t *testing.T, b *Bus) {
	t.Helper()

	if b.Transport() != TransportNATS {
		t.Fatalf("Transport() = %q, want %q", b.Transport(), TransportNATS)
	}

	activity := newRecordingHandler("activity", 0)
	feed := newRecordingHandler("feed", 0)
	startRouter(t, b, activity, feed)

	sent := New(RecipeCreated, 1, 77).With("name", "Okroshka")
	if err := b.Publish(context.Background(), sent); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}

	// Distinct durables: each handler gets its own copy.
	for _, h := range []*recordingHandler{activity, feed} {
		got := waitEvent(t, h.got)
		if got.ID != sent.ID || got.Attributes["name"] != "Okroshka" {
			t.Errorf("%s received %+v", h.name, got)
		}
	}
}

func TestBusEmbeddedNATS(t *testing.T) {
	cfg := natsTestConfig("")
	cfg.EmbeddedServer = true
	cfg.StoreDir = t.TempDir()

	b, err := NewBus(context.Background(), cfg)
	if err != nil {
		t.Fatalf("NewBus() error = %v", err)
	}
	defer b.Close()

	assertJetStreamRoundTrip(t, b)
}

func TestBusNATSContainer(t *testing.T) {
	testinfra.SkipIfNoDocker(t)

	ctx := context.Background()
	nats, err := testinfra.NewNATSContainer(ctx)
	if err != nil {
		t.Fatalf("NewNATSContainer() error = %v", err)
	}
	defer testinfra.CleanupContainer(t, ctx, nats)

	b, err := NewBus(ctx, natsTestConfig(nats.URL))
	if err != nil {
		t.Fatalf("NewBus() error = %v", err)
	}
	defer b.Close()

	assertJetStreamRoundTrip(t, b)

	// EnsureStream is idempotent against an existing stream.
	if err := EnsureStream(ctx, nats.URL, "FOODGRAM_TEST"); err != nil {
		t.Errorf("EnsureStream() on existing stream error = %v", err)
	}
}
