// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

/*
Package events carries domain events from the API to background consumers.

Handlers publish an Event after a write commits. The Bus hides the transport:

  - in-process gochannel pub/sub (default, single instance)
  - NATS JetStream through watermill-nats, optionally backed by an embedded
    nats-server started in the same process

Publishing goes through a gobreaker circuit breaker so a broken broker turns
into fast, logged failures instead of stalled requests. Callers use Emit,
which never returns an error: the write already succeeded and the event is
best-effort.

The Router runs watermill handlers with recoverer and retry middleware:

  - ActivityRecorder appends every event to the activity table
  - FeedNotifier pushes "new_recipe" to connected subscribers of an author

All events travel on a single topic; the event type is carried in the
payload and in the "event_type" metadata key.
*/
package events
