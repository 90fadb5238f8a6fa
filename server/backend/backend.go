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

// Package backend provides the backend implementation of Coedit. This
// package wires the document, its persistent store, the session
// registry and the synchronization hub together.
package backend

import (
	"errors"

	"github.com/coedit-team/coedit/server/backend/document"
	"github.com/coedit-team/coedit/server/backend/hub"
	"github.com/coedit-team/coedit/server/backend/pubsub"
	"github.com/coedit-team/coedit/server/backend/store"
	"github.com/coedit-team/coedit/server/backend/store/file"
	"github.com/coedit-team/coedit/server/logging"
	"github.com/coedit-team/coedit/server/profiling/prometheus"
)

// Backend manages the shared document and the resources around it.
type Backend struct {
	Config *Config

	// Document is the single in-memory source of truth of the text buffer.
	Document *document.Document
	// Store persists the document to a plain-text file.
	Store store.Store
	// PubSub tracks live sessions and fans events out to them.
	PubSub *pubsub.PubSub
	// Hub serializes all state changes of the document.
	Hub *hub.Hub
	// Metrics is used to expose metrics.
	Metrics *prometheus.Metrics
}

// New creates a new instance of Backend. The initial document content is
// loaded from the store; if the persisted file cannot be read, the
// server starts with an empty document and keeps serving.
func New(conf *Config, metrics *prometheus.Metrics) (*Backend, error) {
	st := file.New(conf.DocumentPath)

	content, err := st.Load()
	if err != nil {
		if !errors.Is(err, store.ErrStoreUnavailable) {
			return nil, err
		}
		logging.DefaultLogger().Warnf("load document, starting empty: %v", err)
		content = ""
	}

	doc := document.New(content)
	pubSub := pubsub.New()

	return &Backend{
		Config:   conf,
		Document: doc,
		Store:    st,
		PubSub:   pubSub,
		Hub:      hub.New(conf.MaxDocumentBytes, doc, st, pubSub, metrics),
		Metrics:  metrics,
	}, nil
}
