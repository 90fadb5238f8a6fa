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
	"time"

	"github.com/coedit-team/coedit/api/types/events"
	"github.com/coedit-team/coedit/internal/validation"
	"github.com/coedit-team/coedit/server/backend/document"
)

// anonymousUserID is substituted when a client does not supply a user
// identifier. User ids are opaque labels for echo suppression, never an
// identity primitive.
const anonymousUserID = "anonymous"

const messageTypeTextUpdate = "text_update"

// updateMessage is the wire shape of a text update, both inbound from a
// streaming session and outbound on every accepted edit. Content is a
// pointer so a missing field can be told apart from an empty document.
type updateMessage struct {
	Type      string  `json:"type" validate:"required,eq=text_update"`
	Content   *string `json:"content" validate:"required"`
	UserID    string  `json:"user_id"`
	Timestamp string  `json:"timestamp,omitempty"`
}

// updateRequest is the request/response surface variant of an update; it
// carries no type tag.
type updateRequest struct {
	Content   *string `json:"content" validate:"required"`
	UserID    string  `json:"user_id"`
	Timestamp string  `json:"timestamp,omitempty"`
}

// initialStateMessage is sent once to a newly connected session.
type initialStateMessage struct {
	Type        string `json:"type"`
	Content     string `json:"content"`
	LastUpdated string `json:"last_updated"`
	UserCount   int    `json:"user_count"`
}

// peerCountMessage notifies sessions of a changed session count.
type peerCountMessage struct {
	Type      string `json:"type"`
	UserCount int    `json:"user_count"`
}

// toEdit validates the inbound message and converts it into an edit.
// Garbage never reaches the hub: a missing type or content field is
// rejected here.
func (m *updateMessage) toEdit(receivedAt time.Time) (document.Edit, error) {
	if err := validation.ValidateStruct(m); err != nil {
		return document.Edit{}, err
	}

	userID := m.UserID
	if userID == "" {
		userID = anonymousUserID
	}

	return document.Edit{
		Content:   *m.Content,
		UserID:    userID,
		UpdatedAt: receivedAt,
	}, nil
}

// toEdit validates the request and converts it into an edit. The
// client-supplied timestamp is honored when it parses; otherwise the
// receive time is used.
func (r *updateRequest) toEdit(receivedAt time.Time) (document.Edit, error) {
	if err := validation.ValidateStruct(r); err != nil {
		return document.Edit{}, err
	}

	userID := r.UserID
	if userID == "" {
		userID = anonymousUserID
	}

	updatedAt := receivedAt
	if r.Timestamp != "" {
		if parsed, err := time.Parse(time.RFC3339, r.Timestamp); err == nil {
			updatedAt = parsed
		}
	}

	return document.Edit{
		Content:   *r.Content,
		UserID:    userID,
		UpdatedAt: updatedAt,
	}, nil
}

// toWire converts a broadcast event into its wire message.
func toWire(event events.DocEvent) interface{} {
	switch event.Type {
	case events.PeerCountUpdated:
		return peerCountMessage{
			Type:      string(events.PeerCountUpdated),
			UserCount: event.PeerCount,
		}
	default:
		content := event.Snapshot.Content
		return updateMessage{
			Type:      string(events.DocContentUpdated),
			Content:   &content,
			UserID:    event.Snapshot.LastEditor,
			Timestamp: event.Snapshot.LastModified.Format(time.RFC3339Nano),
		}
	}
}
