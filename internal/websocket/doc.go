// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

/*
Package websocket pushes realtime notifications to logged-in users.

Key Components:

  - Hub: registry of live connections indexed by user id
  - Client: one connection with its read and write goroutines
  - Message: {"type": ..., "data": ...} envelope

Architecture:

	            ┌──────────┐
	events ───► │   Hub    │ ◄─── Register / Unregister
	            └────┬─────┘
	     SendToUser  │  Broadcast
	   ┌─────────────┼──────────────┐
	   │ user 7      │ user 7       │ user 12
	   │ Client 1    │ Client 2     │ Client 3

A user may hold several connections (tabs, devices); SendToUser reaches all
of them. Each client has two goroutines:

  - readPump: reads client frames, answers {"type":"ping"} with a pong and
    extends the read deadline on protocol pongs
  - writePump: drains the send buffer and emits protocol pings

Message Types:

  - new_recipe: an author the user follows published a recipe
  - ping / pong: application-level keepalive

A client whose send buffer is full is dropped rather than allowed to stall
delivery to everyone else.

Usage:

	hub := websocket.NewHub()
	go hub.RunWithContext(ctx)

	upgrader := websocket.NewUpgrader(allowedOrigins)
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
	    return
	}
	hub.Accept(conn, userID)
*/
package websocket
