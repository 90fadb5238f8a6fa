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

// Package events defines the events fanned out to connected sessions.
package events

import (
	"github.com/coedit-team/coedit/server/backend/document"
)

// DocEventType represents the type of a document event.
type DocEventType string

const (
	// DocContentUpdated is an event for a document content change. It is
	// delivered to every session, including the originator, so clients can
	// confirm acceptance of their own edits.
	DocContentUpdated DocEventType = "text_update"

	// PeerCountUpdated is an event for a change of the number of connected
	// sessions.
	PeerCountUpdated DocEventType = "user_count_update"
)

// DocEvent is an event that occurs on the shared document.
type DocEvent struct {
	// Type is the type of the event.
	Type DocEventType

	// Publisher is the id of the session that triggered the event, or
	// empty if the event was triggered by the server itself.
	Publisher string

	// Snapshot is the document state resulting from the event. It is only
	// meaningful for DocContentUpdated.
	Snapshot document.Snapshot

	// PeerCount is the number of connected sessions. It is only meaningful
	// for PeerCountUpdated.
	PeerCount int
}
