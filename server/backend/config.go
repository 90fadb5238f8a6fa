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

package backend

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyDocumentPath occurs when the document path is not configured.
	ErrEmptyDocumentPath = errors.New("document path must not be empty")

	// ErrInvalidMaxDocumentBytes occurs when the size bound is negative.
	ErrInvalidMaxDocumentBytes = errors.New("invalid max document bytes")
)

// Config is the configuration for creating a Backend instance.
type Config struct {
	// DocumentPath is the path of the plain-text file holding the
	// persisted document content.
	DocumentPath string `yaml:"DocumentPath"`

	// MaxDocumentBytes is the accepted size bound for a single edit.
	// Zero disables the bound.
	MaxDocumentBytes int `yaml:"MaxDocumentBytes"`
}

// Validate validates this config.
func (c *Config) Validate() error {
	if c.DocumentPath == "" {
		return ErrEmptyDocumentPath
	}

	if c.MaxDocumentBytes < 0 {
		return fmt.Errorf("given %d: %w", c.MaxDocumentBytes, ErrInvalidMaxDocumentBytes)
	}

	return nil
}
