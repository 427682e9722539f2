// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

// Package testinfra provides container-backed infrastructure for integration
// tests. Everything here is behind the "integration" build tag.
//
// # NATS Container
//
//	func TestJetStream(t *testing.T) {
//	    testinfra.SkipIfNoDocker(t)
//	    ctx := context.Background()
//	    nats, err := testinfra.NewNATSContainer(ctx)
//	    if err != nil {
//	        t.Fatal(err)
//	    }
//	    defer testinfra.CleanupContainer(t, ctx, nats)
//
//	    bus, err := events.NewBus(ctx, &config.NATSConfig{Enabled: true, URL: nats.URL})
//	    ...
//	}
//
// Run with:
//
//	go test -tags integration ./...
package testinfra
