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

// Package file provides a Store backed by a single plain-text file. The
// file holds the document content verbatim with no framing or metadata.
package file

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/coedit-team/coedit/server/backend/store"
)

// Store persists the document to a single file with whole-file
// overwrites. Writes are not atomic; a crash mid-write may leave a
// partial file, which matches the availability-first durability
// contract of the server.
type Store struct {
	path string
}

// New creates a file-backed Store for the given path.
func New(path string) *Store {
	return &Store{path: filepath.Clean(path)}
}

// Path returns the path of the backing file.
func (s *Store) Path() string {
	return s.path
}

// Load reads the persisted document content.
func (s *Store) Load() (string, error) {
	bytes, err := os.ReadFile(s.path)
	if err != nil {
		return "", fmt.Errorf("read %s: %v: %w", s.path, err, store.ErrStoreUnavailable)
	}
	return string(bytes), nil
}

// Save overwrites the persisted document content.
func (s *Store) Save(content string) error {
	if err := os.WriteFile(s.path, []byte(content), 0600); err != nil {
		return fmt.Errorf("write %s: %v: %w", s.path, err, store.ErrStoreUnavailable)
	}
	return nil
}
