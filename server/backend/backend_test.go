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

package backend_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coedit-team/coedit/server/backend"
	"github.com/coedit-team/coedit/server/profiling/prometheus"
)

func TestBackend(t *testing.T) {
	t.Run("start with missing document file test", func(t *testing.T) {
		metrics, err := prometheus.NewMetrics()
		require.NoError(t, err)

		be, err := backend.New(&backend.Config{
			DocumentPath: filepath.Join(t.TempDir(), "missing.txt"),
		}, metrics)
		assert.NoError(t, err)
		assert.Equal(t, "", be.Document.Snapshot().Content)
	})

	t.Run("start with existing document file test", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "shared_text.txt")
		require.NoError(t, os.WriteFile(path, []byte("persisted content"), 0600))

		metrics, err := prometheus.NewMetrics()
		require.NoError(t, err)

		be, err := backend.New(&backend.Config{DocumentPath: path}, metrics)
		assert.NoError(t, err)
		assert.Equal(t, "persisted content", be.Document.Snapshot().Content)
	})

	t.Run("config validate test", func(t *testing.T) {
		assert.ErrorIs(t, (&backend.Config{}).Validate(), backend.ErrEmptyDocumentPath)
		assert.ErrorIs(
			t,
			(&backend.Config{DocumentPath: "a.txt", MaxDocumentBytes: -1}).Validate(),
			backend.ErrInvalidMaxDocumentBytes,
		)
		assert.NoError(t, (&backend.Config{DocumentPath: "a.txt"}).Validate())
	})
}
