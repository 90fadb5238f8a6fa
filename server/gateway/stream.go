/*
 * Copyright 2026 The Coedit Authors. All rights reserved.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/coedit-team/coedit/api/types/events"
	"github.com/coedit-team/coedit/internal/validation"
	"github.com/coedit-team/coedit/server/backend/pubsub"
	"github.com/coedit-team/coedit/server/logging"
)

const (
	// writeWait is the time allowed to write a message to a session.
	writeWait = 10 * time.Second

	// pongWait is the time allowed to read the next pong from a session.
	pongWait = 60 * time.Second

	// pingPeriod is the period of keepalive pings. It must be less than
	// pongWait.
	pingPeriod = (pongWait * 9) / 10

	// readLimitSlack is added to the document size bound to leave room
	// for the JSON envelope around the content.
	readLimitSlack = 4 * 1024
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// User ids are unauthenticated opaque labels; the gateway accepts
	// connections from any origin, as the original deployment did.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// handleStream upgrades the connection, registers the session and pumps
// messages in both directions until the client goes away.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warnf("upgrade: %v", err)
		return
	}

	// User ids are opaque labels, not identities; an unusable one falls
	// back to the anonymous label instead of rejecting the session.
	userID := r.URL.Query().Get("user_id")
	if err := validation.ValidateValue(userID, "max=255"); err != nil || userID == "" {
		userID = anonymousUserID
	}

	// The session outlives the HTTP request, so delivery must not be tied
	// to the request context.
	ctx := logging.With(context.Background(), s.logger)
	sub := s.backend.PubSub.Subscribe(ctx, userID)
	s.backend.Metrics.SetConnectedSessions(s.backend.PubSub.Len())
	s.logger.Infof("session %s connected, total %d", sub.ID(), s.backend.PubSub.Len())

	// Send the current state to the new session before any broadcast can
	// race it onto the wire; the write pump is not running yet.
	snapshot := s.backend.Document.Snapshot()
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteJSON(initialStateMessage{
		Type:        "initial_state",
		Content:     snapshot.Content,
		LastUpdated: snapshot.LastModified.Format(time.RFC3339Nano),
		UserCount:   s.backend.PubSub.Len(),
	}); err != nil {
		s.logger.Warnf("send initial state: %v", err)
		s.backend.PubSub.Unsubscribe(ctx, sub)
		_ = conn.Close()
		return
	}

	s.backend.Hub.Announce(ctx, events.DocEvent{
		Type:      events.PeerCountUpdated,
		PeerCount: s.backend.PubSub.Len(),
	})

	go s.writePump(conn, sub)
	s.readPump(ctx, conn, sub)
}

// readPump reads inbound frames from the session, rejects non-conforming
// payloads and forwards edits to the hub. It runs until the connection
// dies and owns the session's cleanup.
func (s *Server) readPump(ctx context.Context, conn *websocket.Conn, sub *pubsub.Subscription) {
	defer func() {
		s.backend.PubSub.Unsubscribe(ctx, sub)
		s.backend.Metrics.SetConnectedSessions(s.backend.PubSub.Len())
		_ = conn.Close()
		s.logger.Infof("session %s disconnected, total %d", sub.ID(), s.backend.PubSub.Len())

		s.backend.Hub.Announce(ctx, events.DocEvent{
			Type:      events.PeerCountUpdated,
			PeerCount: s.backend.PubSub.Len(),
		})
	}()

	if s.backend.Config.MaxDocumentBytes > 0 {
		conn.SetReadLimit(int64(s.backend.Config.MaxDocumentBytes) + readLimitSlack)
	}
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Warnf("session %s read: %v", sub.ID(), err)
			}
			return
		}

		// Malformed messages are dropped here: no state change, no
		// broadcast, and the session keeps being served.
		var msg updateMessage
		if err := json.Unmarshal(payload, &msg); err != nil {
			s.logger.Warnf("session %s sent unparseable payload: %v", sub.ID(), err)
			continue
		}

		edit, err := msg.toEdit(time.Now())
		if err != nil {
			s.logger.Warnf("session %s sent malformed message: %v", sub.ID(), err)
			continue
		}

		if _, err := s.backend.Hub.Commit(ctx, sub.ID(), edit); err != nil {
			s.logger.Warnf("session %s edit rejected: %v", sub.ID(), err)
		}
	}
}

// writePump drains the session's event channel onto the wire and keeps
// the connection alive with pings. A write failure ends the pump; the
// read side notices the dead connection and cleans up.
func (s *Server) writePump(conn *websocket.Conn, sub *pubsub.Subscription) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case event, ok := <-sub.Events():
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := conn.WriteJSON(toWire(event)); err != nil {
				s.logger.Warnf("session %s write: %v", sub.ID(), err)
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
