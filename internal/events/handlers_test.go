// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

package events

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/tomtom215/foodgram/internal/config"
	"github.com/tomtom215/foodgram/internal/database"
	"github.com/tomtom215/foodgram/internal/models"
)

type fakeActivityStore struct {
	mu   sync.Mutex
	rows []models.Activity
	err  error
}

func (s *fakeActivityStore) RecordActivity(_ context.Context, a *models.Activity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.rows = append(s.rows, *a)
	return nil
}

type fakeSubscribers map[int64][]int64

func (f fakeSubscribers) ListSubscriberIDs(_ context.Context, authorID int64) ([]int64, error) {
	if authorID < 0 {
		return nil, errors.New("lookup failed")
	}
	return f[authorID], nil
}

type sentMessage struct {
	UserID int64
	Type   string
	Data   any
}

type fakeNotifier struct {
	mu     sync.Mutex
	online map[int64]int
	sent   []sentMessage
}

func (n *fakeNotifier) SendToUser(userID int64, messageType string, data any) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, sentMessage{UserID: userID, Type: messageType, Data: data})
	return n.online[userID]
}

func TestActivityRecorder(t *testing.T) {
	t.Parallel()

	store := &fakeActivityStore{}
	rec := NewActivityRecorder(store)

	e := New(FavoriteAdded, 2, 30).With("recipe", "Щи")
	if err := rec.Handle(context.Background(), e); err != nil {
		t.Fatalf("Handle() error = %v", err)
	}

	want := []models.Activity{{
		EventType: "favorite.added",
		ActorID:   2,
		SubjectID: 30,
		Payload:   `{"recipe":"Щи"}`,
		CreatedAt: e.OccurredAt,
	}}
	if diff := cmp.Diff(want, store.rows); diff != "" {
		t.Errorf("recorded rows mismatch (-want +got):\n%s", diff)
	}
}

func TestActivityRecorderPropagatesStoreError(t *testing.T) {
	t.Parallel()

	rec := NewActivityRecorder(&fakeActivityStore{err: errors.New("disk full")})
	if err := rec.Handle(context.Background(), New(CartAdded, 1, 1)); err == nil {
		t.Error("Handle() should return the store error so the router retries")
	}
}

func TestActivityRecorderWithDuckDB(t *testing.T) {
	db, err := database.New(&config.DatabaseConfig{Path: ":memory:", MaxMemory: "512MB", Threads: 1})
	if err != nil {
		t.Fatalf("database.New() error = %v", err)
	}
	defer db.Close()

	rec := NewActivityRecorder(db)
	ctx := context.Background()
	if err := rec.Handle(ctx, New(RecipeCreated, 1, 10).With("name", "Plov")); err != nil {
		t.Fatalf("Handle(recipe.created) error = %v", err)
	}
	if err := rec.Handle(ctx, New(SubscriptionCreated, 1, 2)); err != nil {
		t.Fatalf("Handle(subscription.created) error = %v", err)
	}

	rows, err := db.ListActivity(ctx, 10, string(RecipeCreated))
	if err != nil {
		t.Fatalf("ListActivity() error = %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("len(rows) = %d, want 1", len(rows))
	}
	if rows[0].SubjectID != 10 || rows[0].Payload != `{"name":"Plov"}` {
		t.Errorf("row = %+v", rows[0])
	}
}

func TestFeedNotifier(t *testing.T) {
	t.Parallel()

	notifier := &fakeNotifier{online: map[int64]int{20: 2}}
	feed := NewFeedNotifier(fakeSubscribers{1: {20, 21}}, notifier)

	e := New(RecipeCreated, 1, 99).With("name", "Pelmeni").With("author", "chef")
	if err := feed.Handle(context.Background(), e); err != nil {
		t.Fatalf("Handle() error = %v", err)
	}

	notice := NewRecipeNotice{RecipeID: 99, Name: "Pelmeni", AuthorID: 1, AuthorUsername: "chef"}
	want := []sentMessage{
		{UserID: 20, Type: MessageNewRecipe, Data: notice},
		{UserID: 21, Type: MessageNewRecipe, Data: notice},
	}
	if diff := cmp.Diff(want, notifier.sent); diff != "" {
		t.Errorf("sent messages mismatch (-want +got):\n%s", diff)
	}
}

func TestFeedNotifierIgnoresOtherEvents(t *testing.T) {
	t.Parallel()

	notifier := &fakeNotifier{}
	feed := NewFeedNotifier(fakeSubscribers{1: {20}}, notifier)

	for _, typ := range []Type{RecipeUpdated, RecipeDeleted, FavoriteAdded, SubscriptionCreated} {
		if err := feed.Handle(context.Background(), New(typ, 1, 5)); err != nil {
			t.Errorf("Handle(%s) error = %v", typ, err)
		}
	}
	if len(notifier.sent) != 0 {
		t.Errorf("sent %d messages, want 0", len(notifier.sent))
	}
}

func TestFeedNotifierLookupError(t *testing.T) {
	t.Parallel()

	feed := NewFeedNotifier(fakeSubscribers{}, &fakeNotifier{})
	if err := feed.Handle(context.Background(), New(RecipeCreated, -1, 5)); err == nil {
		t.Error("Handle() should surface the lookup error")
	}
}

func TestFeedNotifierThroughRouter(t *testing.T) {
	b := NewInMemoryBus()
	defer b.Close()

	notifier := &fakeNotifier{online: map[int64]int{8: 1}}
	feed := NewFeedNotifier(fakeSubscribers{3: {8}}, notifier)
	done := newRecordingHandler("done", 0)
	startRouter(t, b, feed, done)

	b.Emit(context.Background(), New(RecipeCreated, 3, 12))
	waitEvent(t, done.got)

	// feed_notifier runs concurrently with the recording handler.
	eventually(t, func() bool {
		notifier.mu.Lock()
		defer notifier.mu.Unlock()
		return len(notifier.sent) > 0
	})

	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	if notifier.sent[0].UserID != 8 || notifier.sent[0].Type != MessageNewRecipe {
		t.Errorf("sent = %+v", notifier.sent[0])
	}
}

func eventually(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not met within 5s")
}
