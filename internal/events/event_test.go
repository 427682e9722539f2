// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

package events

import (
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/go-cmp/cmp"
)

func TestNewEvent(t *testing.T) {
	t.Parallel()

	before := time.Now().UTC()
	e := New(RecipeCreated, 7, 42).With("name", "Борщ")

	if e.ID == "" {
		t.Error("ID should be generated")
	}
	if e.OccurredAt.Before(before) {
		t.Errorf("OccurredAt = %v, want >= %v", e.OccurredAt, before)
	}
	if e.Attributes["name"] != "Борщ" {
		t.Errorf("name attribute = %q", e.Attributes["name"])
	}
	if err := e.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestEventValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*Event)
	}{
		{"missing id", func(e *Event) { e.ID = "" }},
		{"unknown type", func(e *Event) { e.Type = "recipe.cooked" }},
		{"zero time", func(e *Event) { e.OccurredAt = time.Time{} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			e := New(FavoriteAdded, 1, 2)
			tt.mutate(e)
			if err := e.Validate(); err == nil {
				t.Error("Validate() = nil, want error")
			}
		})
	}
}

func TestAllTypesValid(t *testing.T) {
	t.Parallel()

	if len(AllTypes) != 10 {
		t.Fatalf("len(AllTypes) = %d, want 10", len(AllTypes))
	}
	for _, typ := range AllTypes {
		if !typ.Valid() {
			t.Errorf("%s should be valid", typ)
		}
	}
}

func TestMessageRoundTrip(t *testing.T) {
	t.Parallel()

	in := New(SubscriptionCreated, 3, 9).With("author", "chef")
	msg, err := in.ToMessage()
	if err != nil {
		t.Fatalf("ToMessage() error = %v", err)
	}
	if msg.UUID != in.ID {
		t.Errorf("message UUID = %q, want event id %q", msg.UUID, in.ID)
	}
	if got := msg.Metadata.Get(metadataType); got != string(SubscriptionCreated) {
		t.Errorf("metadata event_type = %q", got)
	}

	out, err := FromMessage(msg)
	if err != nil {
		t.Fatalf("FromMessage() error = %v", err)
	}
	if diff := cmp.Diff(in, out); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestFromMessageRejectsGarbage(t *testing.T) {
	t.Parallel()

	if _, err := FromMessage(message.NewMessage("x", []byte("not json"))); err == nil {
		t.Error("expected error for non-JSON payload")
	}
	if _, err := FromMessage(message.NewMessage("y", []byte(`{"id":"y","type":"nope","occurred_at":"2026-01-01T00:00:00Z"}`))); err == nil {
		t.Error("expected error for unknown type")
	}
}

func TestToMessageRejectsInvalid(t *testing.T) {
	t.Parallel()

	e := New(CartAdded, 1, 1)
	e.Type = ""
	if _, err := e.ToMessage(); err == nil {
		t.Error("ToMessage() should validate")
	}
}
