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

package pubsub

import (
	"sync"
	"time"

	"github.com/rs/xid"

	"github.com/coedit-team/coedit/api/types/events"
)

const (
	// publishTimeout is the longest a publish waits for a single
	// subscription. A session that cannot accept an event within this
	// bound must not stall delivery to others.
	publishTimeout = 100 * time.Millisecond

	// eventBufferSize is the size of the outbound event channel of each
	// subscription.
	eventBufferSize = 16
)

// Subscription is the outbound delivery channel of one live session.
type Subscription struct {
	id     string
	userID string

	mu     sync.Mutex
	closed bool
	events chan events.DocEvent
}

// NewSubscription creates a new instance of Subscription.
func NewSubscription(userID string) *Subscription {
	return &Subscription{
		id:     xid.New().String(),
		userID: userID,
		events: make(chan events.DocEvent, eventBufferSize),
	}
}

// ID returns the id of this subscription.
func (s *Subscription) ID() string {
	return s.id
}

// UserID returns the client-chosen user identifier of this subscription.
// It is an opaque, unauthenticated label.
func (s *Subscription) UserID() string {
	return s.userID
}

// Events returns the event channel of this subscription.
func (s *Subscription) Events() <-chan events.DocEvent {
	return s.events
}

// Close closes all resources of this Subscription.
func (s *Subscription) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.closed {
		s.closed = true
		close(s.events)
	}
}

// Publish publishes the given event to the subscriber. It returns false
// if the subscription is closed or cannot accept the event within
// publishTimeout.
func (s *Subscription) Publish(event events.DocEvent) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return false
	}

	select {
	case s.events <- event:
		return true
	case <-time.After(publishTimeout):
		return false
	}
}
