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

// Package pubsub provides the registry of live sessions and the fan-out
// of document events to them.
package pubsub

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/coedit-team/coedit/api/types/events"
	"github.com/coedit-team/coedit/server/logging"
)

// PubSub tracks the set of live sessions of the shared document. The
// registry mutex makes registration, unregistration and broadcast
// enumeration mutually exclusive with respect to the collection.
type PubSub struct {
	mu   sync.RWMutex
	subs map[string]*Subscription
}

// New creates an instance of PubSub.
func New() *PubSub {
	return &PubSub{
		subs: make(map[string]*Subscription),
	}
}

// Subscribe registers a new session with the given user identifier and
// returns its subscription.
func (m *PubSub) Subscribe(ctx context.Context, userID string) *Subscription {
	sub := NewSubscription(userID)

	m.mu.Lock()
	m.subs[sub.ID()] = sub
	m.mu.Unlock()

	if logging.Enabled(zap.DebugLevel) {
		logging.From(ctx).Debugf("Subscribe(%s,%s)", sub.ID(), userID)
	}

	return sub
}

// Unsubscribe removes the given subscription from the registry and
// closes it. It is safe to call for a subscription that has already been
// dropped.
func (m *PubSub) Unsubscribe(ctx context.Context, sub *Subscription) {
	m.mu.Lock()
	delete(m.subs, sub.ID())
	m.mu.Unlock()

	sub.Close()

	if logging.Enabled(zap.DebugLevel) {
		logging.From(ctx).Debugf("Unsubscribe(%s,%s)", sub.ID(), sub.UserID())
	}
}

// Publish delivers the given event to every session registered at the
// moment the broadcast starts. A session registered afterwards does not
// receive it. Sessions that cannot accept the event in bounded time are
// dropped from the registry; delivery to the others continues. It
// returns the number of sessions the event was delivered to and the
// number dropped.
func (m *PubSub) Publish(ctx context.Context, event events.DocEvent) (int, int) {
	m.mu.RLock()
	targets := make([]*Subscription, 0, len(m.subs))
	for _, sub := range m.subs {
		targets = append(targets, sub)
	}
	m.mu.RUnlock()

	delivered := 0
	var unreachable []*Subscription
	for _, sub := range targets {
		if sub.Publish(event) {
			delivered++
			continue
		}
		unreachable = append(unreachable, sub)
	}

	for _, sub := range unreachable {
		logging.From(ctx).Warnf(
			"session %s (user %q) unreachable, dropping", sub.ID(), sub.UserID(),
		)
		m.Unsubscribe(ctx, sub)
	}

	return delivered, len(unreachable)
}

// Len returns the number of registered sessions.
func (m *PubSub) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.subs)
}

// UserIDs returns the user identifiers of the registered sessions.
func (m *PubSub) UserIDs() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var ids []string
	for _, sub := range m.subs {
		ids = append(ids, sub.UserID())
	}
	return ids
}
