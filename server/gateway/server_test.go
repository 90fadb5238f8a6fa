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

package gateway_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coedit-team/coedit/server/backend"
	"github.com/coedit-team/coedit/server/gateway"
	"github.com/coedit-team/coedit/server/profiling/prometheus"
)

func newTestServer(t *testing.T, maxBytes int) (*httptest.Server, *backend.Backend, string) {
	t.Helper()

	docPath := filepath.Join(t.TempDir(), "shared_text.txt")
	metrics, err := prometheus.NewMetrics()
	require.NoError(t, err)

	be, err := backend.New(&backend.Config{
		DocumentPath:     docPath,
		MaxDocumentBytes: maxBytes,
	}, metrics)
	require.NoError(t, err)

	srv := gateway.NewServer(&gateway.Config{Host: "localhost", Port: 11101}, be)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	return ts, be, docPath
}

func postJSON(t *testing.T, url string, body interface{}) *http.Response {
	t.Helper()

	encoded, err := json.Marshal(body)
	require.NoError(t, err)

	res, err := http.Post(url, "application/json", bytes.NewReader(encoded))
	require.NoError(t, err)
	return res
}

func decodeJSON(t *testing.T, res *http.Response) map[string]interface{} {
	t.Helper()
	defer func() {
		assert.NoError(t, res.Body.Close())
	}()

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(res.Body).Decode(&body))
	return body
}

func TestRequestResponseSurface(t *testing.T) {
	t.Run("get text after update test", func(t *testing.T) {
		ts, _, docPath := newTestServer(t, 0)

		res := postJSON(t, ts.URL+"/text", map[string]interface{}{
			"content": "hello world",
			"user_id": "alice",
		})
		assert.Equal(t, http.StatusOK, res.StatusCode)
		assert.Equal(t, "Text updated successfully", decodeJSON(t, res)["message"])

		res, err := http.Get(ts.URL + "/text")
		require.NoError(t, err)
		body := decodeJSON(t, res)
		assert.Equal(t, "hello world", body["content"])
		assert.Equal(t, float64(0), body["user_count"])

		persisted, err := os.ReadFile(docPath)
		assert.NoError(t, err)
		assert.Equal(t, "hello world", string(persisted))
	})

	t.Run("missing content is rejected test", func(t *testing.T) {
		ts, be, _ := newTestServer(t, 0)

		res := postJSON(t, ts.URL+"/text", map[string]interface{}{
			"user_id": "alice",
		})
		assert.Equal(t, http.StatusBadRequest, res.StatusCode)
		assert.NoError(t, res.Body.Close())

		// No state change for the rejected request.
		assert.Equal(t, "", be.Document.Snapshot().Content)
	})

	t.Run("unparseable body is rejected test", func(t *testing.T) {
		ts, _, _ := newTestServer(t, 0)

		res, err := http.Post(ts.URL+"/text", "application/json", strings.NewReader("{not json"))
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, res.StatusCode)
		assert.NoError(t, res.Body.Close())
	})

	t.Run("oversized content is rejected test", func(t *testing.T) {
		ts, be, _ := newTestServer(t, 8)

		res := postJSON(t, ts.URL+"/text", map[string]interface{}{
			"content": "far beyond eight bytes",
		})
		assert.Equal(t, http.StatusRequestEntityTooLarge, res.StatusCode)
		assert.NoError(t, res.Body.Close())
		assert.Equal(t, "", be.Document.Snapshot().Content)
	})

	t.Run("status test", func(t *testing.T) {
		ts, _, docPath := newTestServer(t, 0)

		res := postJSON(t, ts.URL+"/text", map[string]interface{}{"content": "12345"})
		assert.NoError(t, res.Body.Close())

		res, err := http.Get(ts.URL + "/status")
		require.NoError(t, err)
		body := decodeJSON(t, res)
		assert.Equal(t, float64(0), body["connected_clients"])
		assert.Equal(t, float64(5), body["text_length"])
		assert.Equal(t, docPath, body["file_path"])
	})

	t.Run("existing document is served after start test", func(t *testing.T) {
		docPath := filepath.Join(t.TempDir(), "shared_text.txt")
		require.NoError(t, os.WriteFile(docPath, []byte("restored"), 0600))

		metrics, err := prometheus.NewMetrics()
		require.NoError(t, err)
		be, err := backend.New(&backend.Config{DocumentPath: docPath}, metrics)
		require.NoError(t, err)

		srv := gateway.NewServer(&gateway.Config{Host: "localhost", Port: 11101}, be)
		ts := httptest.NewServer(srv.Handler())
		defer ts.Close()

		res, err := http.Get(ts.URL + "/text")
		require.NoError(t, err)
		assert.Equal(t, "restored", decodeJSON(t, res)["content"])
	})
}

func dialStream(t *testing.T, ts *httptest.Server, userID string) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws?user_id=" + userID
	conn, res, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	assert.NoError(t, res.Body.Close())
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	t.Cleanup(func() {
		_ = conn.Close()
	})

	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) map[string]interface{} {
	t.Helper()

	var msg map[string]interface{}
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

func TestStreamingSurface(t *testing.T) {
	t.Run("initial state on connect test", func(t *testing.T) {
		ts, _, _ := newTestServer(t, 0)

		res := postJSON(t, ts.URL+"/text", map[string]interface{}{"content": "existing"})
		assert.NoError(t, res.Body.Close())

		conn := dialStream(t, ts, "alice")

		msg := readMessage(t, conn)
		assert.Equal(t, "initial_state", msg["type"])
		assert.Equal(t, "existing", msg["content"])
		assert.Equal(t, float64(1), msg["user_count"])

		msg = readMessage(t, conn)
		assert.Equal(t, "user_count_update", msg["type"])
		assert.Equal(t, float64(1), msg["user_count"])
	})

	t.Run("edit is echoed to the originator test", func(t *testing.T) {
		ts, _, _ := newTestServer(t, 0)

		conn := dialStream(t, ts, "alice")
		readMessage(t, conn) // initial_state
		readMessage(t, conn) // user_count_update

		require.NoError(t, conn.WriteJSON(map[string]interface{}{
			"type":    "text_update",
			"content": "hello",
			"user_id": "alice",
		}))

		msg := readMessage(t, conn)
		assert.Equal(t, "text_update", msg["type"])
		assert.Equal(t, "hello", msg["content"])
		assert.Equal(t, "alice", msg["user_id"])
	})

	t.Run("request surface edit reaches the stream test", func(t *testing.T) {
		ts, _, _ := newTestServer(t, 0)

		conn := dialStream(t, ts, "alice")
		readMessage(t, conn) // initial_state
		readMessage(t, conn) // user_count_update

		res := postJSON(t, ts.URL+"/text", map[string]interface{}{
			"content": "from the api",
			"user_id": "bob",
		})
		assert.NoError(t, res.Body.Close())

		msg := readMessage(t, conn)
		assert.Equal(t, "text_update", msg["type"])
		assert.Equal(t, "from the api", msg["content"])
		assert.Equal(t, "bob", msg["user_id"])
	})

	t.Run("malformed stream message produces no broadcast test", func(t *testing.T) {
		ts, be, _ := newTestServer(t, 0)

		conn := dialStream(t, ts, "alice")
		readMessage(t, conn) // initial_state
		readMessage(t, conn) // user_count_update

		// Missing content: dropped at the gateway.
		require.NoError(t, conn.WriteJSON(map[string]interface{}{
			"type":    "text_update",
			"user_id": "alice",
		}))
		// Unknown type: dropped at the gateway.
		require.NoError(t, conn.WriteJSON(map[string]interface{}{
			"type":    "mystery",
			"content": "ignored",
		}))
		require.NoError(t, conn.WriteJSON(map[string]interface{}{
			"type":    "text_update",
			"content": "valid",
		}))

		// The next broadcast is the valid edit; nothing was emitted for the
		// malformed ones.
		msg := readMessage(t, conn)
		assert.Equal(t, "text_update", msg["type"])
		assert.Equal(t, "valid", msg["content"])
		assert.Equal(t, "anonymous", msg["user_id"])
		assert.Equal(t, "valid", be.Document.Snapshot().Content)
	})

	t.Run("two sessions both receive the accepted state test", func(t *testing.T) {
		ts, _, _ := newTestServer(t, 0)

		connA := dialStream(t, ts, "a")
		readMessage(t, connA) // initial_state
		readMessage(t, connA) // user_count_update

		connB := dialStream(t, ts, "b")
		readMessage(t, connB) // initial_state
		readMessage(t, connA) // user_count_update for B joining
		readMessage(t, connB) // user_count_update

		require.NoError(t, connA.WriteJSON(map[string]interface{}{
			"type":    "text_update",
			"content": "hello",
			"user_id": "a",
		}))

		msgA := readMessage(t, connA)
		msgB := readMessage(t, connB)
		assert.Equal(t, "hello", msgA["content"])
		assert.Equal(t, "hello", msgB["content"])
		assert.Equal(t, "a", msgA["user_id"])
		assert.Equal(t, "a", msgB["user_id"])

		require.NoError(t, connB.WriteJSON(map[string]interface{}{
			"type":    "text_update",
			"content": "hello world",
			"user_id": "b",
		}))

		msgA = readMessage(t, connA)
		msgB = readMessage(t, connB)
		assert.Equal(t, "hello world", msgA["content"])
		assert.Equal(t, "hello world", msgB["content"])
	})
}
