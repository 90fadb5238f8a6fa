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

// Package document provides the in-memory state of the shared text buffer.
// Exactly one Document exists per process and all mutations are serialized
// through the hub.
package document

import (
	"sync"
	"time"
)

// Edit is a client-submitted request to replace the document's content.
// It is transient and not retained beyond a single apply-and-broadcast
// cycle; no history log is kept.
type Edit struct {
	// Content is the full replacement text.
	Content string

	// UserID is a client-supplied opaque label. It is not unique and not
	// authenticated; it is only used for echo suppression on clients.
	UserID string

	// UpdatedAt is the time the edit was received.
	UpdatedAt time.Time
}

// Snapshot is a value copy of the document state, safe for concurrent
// inspection by callers outside the hub's serialization boundary.
type Snapshot struct {
	Content      string
	LastModified time.Time
	LastEditor   string
}

// Document holds the current text content, the time of its last
// modification, and the identifier of its last writer.
type Document struct {
	mu sync.RWMutex

	content      string
	lastModified time.Time
	lastEditor   string
}

// New creates a Document with the given initial content.
func New(content string) *Document {
	return &Document{
		content:      content,
		lastModified: time.Now(),
	}
}

// Apply overwrites the document with the given edit and returns the
// resulting snapshot. This is a deliberate last-writer-wins policy:
// whichever edit reaches the hub last wins outright, with no merge and
// no comparison against timestamps.
func (d *Document) Apply(edit Edit) Snapshot {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.content = edit.Content
	d.lastModified = edit.UpdatedAt
	d.lastEditor = edit.UserID

	return Snapshot{
		Content:      d.content,
		LastModified: d.lastModified,
		LastEditor:   d.lastEditor,
	}
}

// Snapshot returns a value copy of the current state.
func (d *Document) Snapshot() Snapshot {
	d.mu.RLock()
	defer d.mu.RUnlock()

	return Snapshot{
		Content:      d.content,
		LastModified: d.lastModified,
		LastEditor:   d.lastEditor,
	}
}
