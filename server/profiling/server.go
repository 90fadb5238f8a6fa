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

package profiling

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/pprof"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/coedit-team/coedit/server/logging"
	"github.com/coedit-team/coedit/server/profiling/prometheus"
)

// Server exposes operational data of a running Coedit server: the
// metrics registry on /metrics and, when enabled, the runtime profiles
// on /debug/pprof. It listens on its own port so the data plane and the
// operational plane never share a listener.
type Server struct {
	conf       *Config
	httpServer *http.Server
	logger     logging.Logger
}

// NewServer creates an instance of Server.
func NewServer(conf *Config, metrics *prometheus.Metrics) *Server {
	serveMux := http.NewServeMux()
	serveMux.Handle("/metrics", promhttp.HandlerFor(metrics.Registry(), promhttp.HandlerOpts{}))

	if conf.EnablePprof {
		serveMux.HandleFunc("/debug/pprof/", pprof.Index)
		serveMux.HandleFunc("/debug/pprof/profile", pprof.Profile)
		serveMux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
		serveMux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
		serveMux.HandleFunc("/debug/pprof/trace", pprof.Trace)
		for _, profile := range []string{"heap", "goroutine", "threadcreate", "block", "mutex"} {
			serveMux.Handle("/debug/pprof/"+profile, pprof.Handler(profile))
		}
	}

	return &Server{
		conf: conf,
		httpServer: &http.Server{
			Addr:    fmt.Sprintf(":%d", conf.Port),
			Handler: serveMux,
		},
		logger: logging.New("profiling"),
	}
}

// Start starts the server.
func (s *Server) Start() error {
	go func() {
		s.logger.Infof("serving profiling on %d", s.conf.Port)
		if err := s.httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			s.logger.Errorf("HTTP server ListenAndServe: %v", err)
		}
	}()
	return nil
}

// Shutdown shuts down the server.
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
