// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

package websocket

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"go.uber.org/goleak"

	"github.com/tomtom215/foodgram/internal/logging"
)

//nolint:gochecknoinits // init ensures consistent logging for tests
func init() {
	logging.Init(logging.Config{
		Level:  "info",
		Format: "console",
		Output: io.Discard,
	})
}

// startHub runs a hub until the test ends.
func startHub(t *testing.T) *Hub {
	t.Helper()
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = hub.RunWithContext(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return hub
}

// createTestClient creates a client without a connection.
func createTestClient(hub *Hub, userID int64) *Client {
	return &Client{id: clientIDCounter.Add(1), userID: userID, hub: hub, send: make(chan Message, 4)}
}

func registerClient(hub *Hub, client *Client) {
	hub.Register <- client
	// Register is unbuffered; a second handoff guarantees the first was processed.
	hub.Register <- createTestClient(hub, -client.userID-1000)
}

func TestNewHub(t *testing.T) {
	hub := NewHub()

	checks := []struct {
		check  bool
		errMsg string
	}{
		{hub.clients != nil, "clients map not initialized"},
		{hub.byUser != nil, "byUser map not initialized"},
		{hub.broadcast != nil, "broadcast channel not initialized"},
		{hub.Register != nil, "Register channel not initialized"},
		{hub.Unregister != nil, "Unregister channel not initialized"},
		{hub.GetClientCount() == 0, "clients map should be empty"},
	}
	for _, c := range checks {
		if !c.check {
			t.Error(c.errMsg)
		}
	}
}

func TestHub_RegisterIndexesByUser(t *testing.T) {
	hub := startHub(t)

	a1 := createTestClient(hub, 1)
	a2 := createTestClient(hub, 1)
	b := createTestClient(hub, 2)
	registerClient(hub, a1)
	registerClient(hub, a2)
	registerClient(hub, b)

	if got := hub.UserConnectionCount(1); got != 2 {
		t.Errorf("UserConnectionCount(1) = %d, want 2", got)
	}
	if got := hub.UserConnectionCount(2); got != 1 {
		t.Errorf("UserConnectionCount(2) = %d, want 1", got)
	}

	hub.Unregister <- a1
	hub.Unregister <- a1 // unknown clients are ignored
	if got := hub.UserConnectionCount(1); got != 1 {
		t.Errorf("after unregister UserConnectionCount(1) = %d, want 1", got)
	}
	if _, ok := <-a1.send; ok {
		t.Error("unregistered client's send channel should be closed")
	}
}

func TestHub_SendToUser(t *testing.T) {
	hub := startHub(t)

	tab1 := createTestClient(hub, 7)
	tab2 := createTestClient(hub, 7)
	other := createTestClient(hub, 8)
	registerClient(hub, tab1)
	registerClient(hub, tab2)
	registerClient(hub, other)

	if n := hub.SendToUser(7, "new_recipe", map[string]int64{"recipe_id": 3}); n != 2 {
		t.Fatalf("SendToUser() = %d, want 2", n)
	}
	for _, c := range []*Client{tab1, tab2} {
		select {
		case msg := <-c.send:
			if msg.Type != "new_recipe" {
				t.Errorf("Type = %q, want new_recipe", msg.Type)
			}
		default:
			t.Errorf("client %d received nothing", c.id)
		}
	}
	select {
	case msg := <-other.send:
		t.Errorf("other user received %+v", msg)
	default:
	}

	if n := hub.SendToUser(99, "new_recipe", nil); n != 0 {
		t.Errorf("SendToUser(offline) = %d, want 0", n)
	}
}

func TestHub_SendToUserDropsSlowClient(t *testing.T) {
	hub := startHub(t)

	slow := createTestClient(hub, 5)
	registerClient(hub, slow)
	for i := 0; i < cap(slow.send); i++ {
		slow.send <- Message{Type: "filler"}
	}

	if n := hub.SendToUser(5, "new_recipe", nil); n != 0 {
		t.Errorf("SendToUser() = %d, want 0 for a full buffer", n)
	}
	if hub.UserConnectionCount(5) != 0 {
		t.Error("slow client should have been dropped")
	}
}

func TestHub_BroadcastJSON(t *testing.T) {
	hub := startHub(t)

	clients := []*Client{createTestClient(hub, 1), createTestClient(hub, 2)}
	for _, c := range clients {
		registerClient(hub, c)
	}

	hub.BroadcastJSON("announcement", "hello")

	for _, c := range clients {
		select {
		case msg := <-c.send:
			if msg.Type != "announcement" || msg.Data != "hello" {
				t.Errorf("got %+v", msg)
			}
		case <-time.After(time.Second):
			t.Errorf("client %d did not receive broadcast", c.id)
		}
	}
}

func TestHub_BroadcastChannelFull(t *testing.T) {
	hub := NewHub() // not running: nothing drains the broadcast channel
	for i := 0; i < cap(hub.broadcast); i++ {
		hub.BroadcastJSON("fill", i)
	}
	hub.BroadcastJSON("overflow", nil) // must not block
	if len(hub.broadcast) != cap(hub.broadcast) {
		t.Errorf("len(broadcast) = %d, want %d", len(hub.broadcast), cap(hub.broadcast))
	}
}

func TestHub_ConcurrentSend(t *testing.T) {
	hub := startHub(t)
	c := createTestClient(hub, 1)
	c.send = make(chan Message, 1000)
	registerClient(hub, c)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				hub.SendToUser(1, "n", j)
			}
		}()
	}
	wg.Wait()

	if len(c.send) != 100 {
		t.Errorf("queued %d messages, want 100", len(c.send))
	}
}

func TestHub_RunWithContext(t *testing.T) {
	defer goleak.VerifyNone(t)

	t.Run("returns context.Canceled and closes clients", func(t *testing.T) {
		hub := NewHub()
		ctx, cancel := context.WithCancel(context.Background())
		errCh := make(chan error, 1)
		go func() { errCh <- hub.RunWithContext(ctx) }()

		c := createTestClient(hub, 3)
		hub.Register <- c
		cancel()

		select {
		case err := <-errCh:
			if !errors.Is(err, context.Canceled) {
				t.Errorf("err = %v, want context.Canceled", err)
			}
		case <-time.After(time.Second):
			t.Fatal("RunWithContext did not return")
		}
		if _, ok := <-c.send; ok {
			t.Error("client send channel should be closed on shutdown")
		}
		if hub.GetClientCount() != 0 {
			t.Errorf("GetClientCount() = %d after shutdown", hub.GetClientCount())
		}
	})

	t.Run("returns DeadlineExceeded", func(t *testing.T) {
		hub := NewHub()
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()

		if err := hub.RunWithContext(ctx); !errors.Is(err, context.DeadlineExceeded) {
			t.Errorf("err = %v, want DeadlineExceeded", err)
		}
	})
}

func TestGetShutdownReason(t *testing.T) {
	canceled, cancel := context.WithCancel(context.Background())
	cancel()
	if got := getShutdownReason(canceled); got != ShutdownReasonContextCanceled {
		t.Errorf("canceled reason = %q", got)
	}

	expired, cancel2 := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancel2()
	if got := getShutdownReason(expired); got != ShutdownReasonContextDeadline {
		t.Errorf("deadline reason = %q", got)
	}
}

func TestMarshalMessage(t *testing.T) {
	data, err := MarshalMessage(Message{Type: "new_recipe", Data: map[string]int{"recipe_id": 1}})
	if err != nil {
		t.Fatalf("MarshalMessage() error = %v", err)
	}
	if string(data) != `{"type":"new_recipe","data":{"recipe_id":1}}` {
		t.Errorf("MarshalMessage() = %s", data)
	}
}
