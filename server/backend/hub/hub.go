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

// Package hub provides the synchronization hub, the single entry point
// for all changes of the shared document.
package hub

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/coedit-team/coedit/api/types/events"
	"github.com/coedit-team/coedit/server/backend/document"
	"github.com/coedit-team/coedit/server/backend/pubsub"
	"github.com/coedit-team/coedit/server/backend/store"
	"github.com/coedit-team/coedit/server/logging"
	"github.com/coedit-team/coedit/server/profiling/prometheus"
)

// ErrOversizedContent occurs when an edit exceeds the accepted size
// bound. The edit is rejected with no state change and no broadcast.
var ErrOversizedContent = errors.New("content exceeds the accepted size bound")

const (
	// SourceAPI marks edits submitted through the request/response surface.
	SourceAPI = "api"

	// SourceStream marks edits submitted through a streaming session.
	SourceStream = "stream"
)

// Hub consumes edits from any session, applies the last-writer-wins
// rule to the document, persists the result and fans the accepted state
// out to every registered session.
type Hub struct {
	// commitMu makes apply, persist and broadcast one atomic unit so
	// edits form a strict total order across all sessions.
	commitMu sync.Mutex

	maxDocumentBytes int
	doc              *document.Document
	store            store.Store
	pubSub           *pubsub.PubSub
	metrics          *prometheus.Metrics
}

// New creates a new instance of Hub.
func New(
	maxDocumentBytes int,
	doc *document.Document,
	st store.Store,
	pubSub *pubsub.PubSub,
	metrics *prometheus.Metrics,
) *Hub {
	return &Hub{
		maxDocumentBytes: maxDocumentBytes,
		doc:              doc,
		store:            st,
		pubSub:           pubSub,
		metrics:          metrics,
	}
}

// Commit applies the given edit to the document, persists the result
// and broadcasts the accepted state to every registered session,
// including the originator. The publisher is the id of the originating
// session, or empty for edits submitted through the request/response
// surface.
//
// Persistence is best-effort: a failed save is logged and counted, and
// the broadcast proceeds from the already-updated in-memory state.
func (h *Hub) Commit(
	ctx context.Context,
	publisher string,
	edit document.Edit,
) (document.Snapshot, error) {
	if h.maxDocumentBytes > 0 && len(edit.Content) > h.maxDocumentBytes {
		h.metrics.AddRejectedEdit("oversized")
		return document.Snapshot{}, fmt.Errorf(
			"%d bytes, limit %d: %w", len(edit.Content), h.maxDocumentBytes, ErrOversizedContent,
		)
	}

	start := time.Now()

	h.commitMu.Lock()
	defer h.commitMu.Unlock()

	snapshot := h.doc.Apply(edit)

	if err := h.store.Save(snapshot.Content); err != nil {
		// The in-memory state has already changed; losing this write on a
		// crash is the accepted durability contract.
		logging.From(ctx).Warnf("save document: %v", err)
		h.metrics.AddStoreSaveFailure()
	}

	delivered, dropped := h.pubSub.Publish(ctx, events.DocEvent{
		Type:      events.DocContentUpdated,
		Publisher: publisher,
		Snapshot:  snapshot,
	})

	source := SourceStream
	if publisher == "" {
		source = SourceAPI
	}
	h.metrics.AddEdits(source, 1)
	h.metrics.AddBroadcastEvents(delivered)
	h.metrics.AddDroppedSessions(dropped)
	h.metrics.SetConnectedSessions(h.pubSub.Len())
	h.metrics.ObserveCommitSeconds(time.Since(start).Seconds())

	return snapshot, nil
}

// Announce broadcasts a non-edit event, such as a peer count change, to
// every registered session. It shares the commit mutex so announcements
// never interleave with an in-flight commit's broadcast.
func (h *Hub) Announce(ctx context.Context, event events.DocEvent) {
	h.commitMu.Lock()
	defer h.commitMu.Unlock()

	delivered, dropped := h.pubSub.Publish(ctx, event)
	h.metrics.AddBroadcastEvents(delivered)
	h.metrics.AddDroppedSessions(dropped)
	h.metrics.SetConnectedSessions(h.pubSub.Len())
}
