// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

package events

import (
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

// Topic is the single subject every domain event is published on.
const Topic = "foodgram_events"

// Type names a domain event.
type Type string

const (
	UserRegistered      Type = "user.registered"
	RecipeCreated       Type = "recipe.created"
	RecipeUpdated       Type = "recipe.updated"
	RecipeDeleted       Type = "recipe.deleted"
	FavoriteAdded       Type = "favorite.added"
	FavoriteRemoved     Type = "favorite.removed"
	CartAdded           Type = "cart.added"
	CartRemoved         Type = "cart.removed"
	SubscriptionCreated Type = "subscription.created"
	SubscriptionRemoved Type = "subscription.removed"
)

// AllTypes lists every known event type.
var AllTypes = []Type{
	UserRegistered,
	RecipeCreated, RecipeUpdated, RecipeDeleted,
	FavoriteAdded, FavoriteRemoved,
	CartAdded, CartRemoved,
	SubscriptionCreated, SubscriptionRemoved,
}

// Valid reports whether t is one of AllTypes.
func (t Type) Valid() bool {
	for _, known := range AllTypes {
		if t == known {
			return true
		}
	}
	return false
}

const metadataType = "event_type"

// Event is the envelope published on Topic.
//
// ActorID is the user who caused the event. SubjectID is the object it is
// about: the recipe for recipe, favorite and cart events, the author for
// subscription events, the new user for user.registered.
type Event struct {
	ID         string            `json:"id"`
	Type       Type              `json:"type"`
	ActorID    int64             `json:"actor_id"`
	SubjectID  int64             `json:"subject_id"`
	Attributes map[string]string `json:"attributes,omitempty"`
	OccurredAt time.Time         `json:"occurred_at"`
}

// New builds an event with a fresh id and the current time.
func New(t Type, actorID, subjectID int64) *Event {
	return &Event{
		ID:         uuid.NewString(),
		Type:       t,
		ActorID:    actorID,
		SubjectID:  subjectID,
		OccurredAt: time.Now().UTC(),
	}
}

// With sets one attribute and returns the event for chaining.
func (e *Event) With(key, value string) *Event {
	if e.Attributes == nil {
		e.Attributes = make(map[string]string, 2)
	}
	e.Attributes[key] = value
	return e
}

// Validate rejects events that consumers could not interpret.
func (e *Event) Validate() error {
	if e.ID == "" {
		return fmt.Errorf("event id is required")
	}
	if !e.Type.Valid() {
		return fmt.Errorf("unknown event type %q", e.Type)
	}
	if e.OccurredAt.IsZero() {
		return fmt.Errorf("event %s has no timestamp", e.ID)
	}
	return nil
}

// ToMessage serializes the event into a watermill message.
func (e *Event) ToMessage() (*message.Message, error) {
	if err := e.Validate(); err != nil {
		return nil, err
	}
	data, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("marshal event: %w", err)
	}
	msg := message.NewMessage(e.ID, data)
	msg.Metadata.Set(metadataType, string(e.Type))
	return msg, nil
}

// FromMessage decodes a message produced by ToMessage.
func FromMessage(msg *message.Message) (*Event, error) {
	var e Event
	if err := json.Unmarshal(msg.Payload, &e); err != nil {
		return nil, fmt.Errorf("unmarshal event %s: %w", msg.UUID, err)
	}
	if err := e.Validate(); err != nil {
		return nil, err
	}
	return &e, nil
}
