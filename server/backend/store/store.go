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

// Package store provides the persistence contract for the shared document.
package store

import "errors"

// ErrStoreUnavailable occurs when the persisted document cannot be read
// or written. Callers recover locally: a failed load is substituted with
// empty content and a failed save is logged while the in-memory state
// keeps serving.
var ErrStoreUnavailable = errors.New("document store unavailable")

// Store reads and writes the canonical document text to durable storage.
type Store interface {
	// Load returns the persisted document content.
	Load() (string, error)

	// Save replaces the persisted document content as a whole.
	Save(content string) error
}
