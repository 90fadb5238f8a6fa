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

// Package gateway provides the external-facing surface of the server:
// the request/response endpoints and the streaming channel. It owns
// message framing and parsing and rejects non-conforming payloads
// before they reach the hub.
package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/felixge/httpsnoop"
	"github.com/gorilla/mux"

	"github.com/coedit-team/coedit/server/backend"
	"github.com/coedit-team/coedit/server/backend/hub"
	"github.com/coedit-team/coedit/server/logging"
)

// Server terminates client connections and translates wire messages
// into edits for the hub and hub broadcasts into wire messages.
type Server struct {
	conf       *Config
	backend    *backend.Backend
	httpServer *http.Server
	logger     logging.Logger
}

// NewServer creates an instance of Server.
func NewServer(conf *Config, be *backend.Backend) *Server {
	s := &Server{
		conf:    conf,
		backend: be,
		logger:  logging.New("gateway"),
	}

	router := mux.NewRouter()
	router.Use(s.logInterceptor)
	router.Methods(http.MethodGet).Path("/").HandlerFunc(s.handleRoot)
	router.Methods(http.MethodGet).Path("/text").HandlerFunc(s.handleGetText)
	router.Methods(http.MethodPost).Path("/text").HandlerFunc(s.handleUpdateText)
	router.Methods(http.MethodGet).Path("/status").HandlerFunc(s.handleStatus)
	router.Methods(http.MethodGet).Path("/ws").HandlerFunc(s.handleStream)

	s.httpServer = &http.Server{
		Addr:    conf.Addr(),
		Handler: router,
	}

	return s
}

// Handler returns the root handler of the gateway. It is used for testing.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start starts the gateway server.
func (s *Server) Start() error {
	go func() {
		s.logger.Infof("serving gateway on %s", s.conf.Addr())
		if err := s.httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			s.logger.Errorf("HTTP server ListenAndServe: %v", err)
		}
	}()
	return nil
}

// Shutdown shuts down the gateway server.
func (s *Server) Shutdown(graceful bool) {
	if graceful {
		if err := s.httpServer.Shutdown(context.Background()); err != nil {
			s.logger.Errorf("HTTP server Shutdown: %v", err)
		}
		return
	}

	if err := s.httpServer.Close(); err != nil {
		s.logger.Errorf("HTTP server close: %v", err)
	}
}

// logInterceptor logs every handled request with its status and duration.
func (s *Server) logInterceptor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m := httpsnoop.CaptureMetrics(next, w, r)
		s.logger.Infof(
			"handled %s %s status %d duration %s",
			r.Method, r.URL.Path, m.Code, m.Duration,
		)
	})
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Coedit collaborative text API",
		"endpoints": map[string]string{
			"GET /text":     "Get current text content",
			"POST /text":    "Update text content",
			"GET /status":   "Get server status",
			"WebSocket /ws": "Real-time updates",
		},
	})
}

func (s *Server) handleGetText(w http.ResponseWriter, r *http.Request) {
	snapshot := s.backend.Document.Snapshot()
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"content":      snapshot.Content,
		"last_updated": snapshot.LastModified.Format(time.RFC3339Nano),
		"user_count":   s.backend.PubSub.Len(),
	})
}

func (s *Server) handleUpdateText(w http.ResponseWriter, r *http.Request) {
	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "malformed request body", http.StatusBadRequest)
		return
	}

	edit, err := req.toEdit(time.Now())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ctx := logging.With(r.Context(), s.logger)
	snapshot, err := s.backend.Hub.Commit(ctx, "", edit)
	if err != nil {
		if errors.Is(err, hub.ErrOversizedContent) {
			http.Error(w, err.Error(), http.StatusRequestEntityTooLarge)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":   "Text updated successfully",
		"timestamp": snapshot.LastModified.Format(time.RFC3339Nano),
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	snapshot := s.backend.Document.Snapshot()
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"connected_clients": s.backend.PubSub.Len(),
		"text_length":       len(snapshot.Content),
		"last_updated":      snapshot.LastModified.Format(time.RFC3339Nano),
		"file_path":         s.backend.Config.DocumentPath,
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Errorf("write response: %v", err)
	}
}
