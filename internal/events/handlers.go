// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

package events

import (
	"context"
	"fmt"

	"github.com/goccy/go-json"

	"github.com/tomtom215/foodgram/internal/logging"
	"github.com/tomtom215/foodgram/internal/models"
)

// ActivityStore persists activity rows.
type ActivityStore interface {
	RecordActivity(ctx context.Context, a *models.Activity) error
}

// ActivityRecorder appends every event to the activity log.
type ActivityRecorder struct {
	store ActivityStore
}

func NewActivityRecorder(store ActivityStore) *ActivityRecorder {
	return &ActivityRecorder{store: store}
}

func (a *ActivityRecorder) Name() string { return "activity_recorder" }

func (a *ActivityRecorder) Handle(ctx context.Context, e *Event) error {
	row := &models.Activity{
		EventType: string(e.Type),
		ActorID:   e.ActorID,
		SubjectID: e.SubjectID,
		CreatedAt: e.OccurredAt,
	}
	if len(e.Attributes) > 0 {
		payload, err := json.Marshal(e.Attributes)
		if err != nil {
			return fmt.Errorf("marshal attributes: %w", err)
		}
		row.Payload = string(payload)
	}
	return a.store.RecordActivity(ctx, row)
}

// SubscriberLister resolves who follows an author.
type SubscriberLister interface {
	ListSubscriberIDs(ctx context.Context, authorID int64) ([]int64, error)
}

// Notifier delivers a realtime message to every connection of one user and
// reports how many connections received it.
type Notifier interface {
	SendToUser(userID int64, messageType string, data any) int
}

// MessageNewRecipe is the websocket message type sent to followers.
const MessageNewRecipe = "new_recipe"

// NewRecipeNotice is the data of a new_recipe message.
type NewRecipeNotice struct {
	RecipeID       int64  `json:"recipe_id"`
	Name           string `json:"name,omitempty"`
	AuthorID       int64  `json:"author_id"`
	AuthorUsername string `json:"author_username,omitempty"`
}

// FeedNotifier tells online subscribers about an author's new recipe.
type FeedNotifier struct {
	subscribers SubscriberLister
	notifier    Notifier
}

func NewFeedNotifier(subscribers SubscriberLister, notifier Notifier) *FeedNotifier {
	return &FeedNotifier{subscribers: subscribers, notifier: notifier}
}

func (f *FeedNotifier) Name() string { return "feed_notifier" }

func (f *FeedNotifier) Handle(ctx context.Context, e *Event) error {
	if e.Type != RecipeCreated {
		return nil
	}

	ids, err := f.subscribers.ListSubscriberIDs(ctx, e.ActorID)
	if err != nil {
		return fmt.Errorf("list subscribers of %d: %w", e.ActorID, err)
	}
	if len(ids) == 0 {
		return nil
	}

	notice := NewRecipeNotice{
		RecipeID:       e.SubjectID,
		Name:           e.Attributes["name"],
		AuthorID:       e.ActorID,
		AuthorUsername: e.Attributes["author"],
	}
	delivered := 0
	for _, id := range ids {
		delivered += f.notifier.SendToUser(id, MessageNewRecipe, notice)
	}

	logging.Ctx(ctx).Debug().
		Int64("recipe_id", e.SubjectID).
		Int("subscribers", len(ids)).
		Int("connections", delivered).
		Msg("Notified subscribers of new recipe")
	return nil
}
