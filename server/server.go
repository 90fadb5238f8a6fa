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

// Package server provides the Coedit server which is the main entry
// point of the system. The server receives edits from clients, applies
// them to the shared document with a last-writer-wins policy, persists
// the result and propagates the accepted state to every connected
// session.
package server

import (
	gosync "sync"

	"github.com/coedit-team/coedit/server/backend"
	"github.com/coedit-team/coedit/server/gateway"
	"github.com/coedit-team/coedit/server/profiling"
	"github.com/coedit-team/coedit/server/profiling/prometheus"
)

// Coedit is a server of Coedit.
type Coedit struct {
	lock gosync.Mutex

	conf            *Config
	backend         *backend.Backend
	gatewayServer   *gateway.Server
	profilingServer *profiling.Server

	shutdown   bool
	shutdownCh chan struct{}
}

// New creates a new instance of Coedit.
func New(conf *Config) (*Coedit, error) {
	if err := conf.Validate(); err != nil {
		return nil, err
	}

	metrics, err := prometheus.NewMetrics()
	if err != nil {
		return nil, err
	}

	be, err := backend.New(conf.Backend, metrics)
	if err != nil {
		return nil, err
	}

	gatewayServer := gateway.NewServer(conf.Gateway, be)

	var profilingServer *profiling.Server
	if conf.Profiling != nil {
		profilingServer = profiling.NewServer(conf.Profiling, metrics)
	}

	return &Coedit{
		conf:            conf,
		backend:         be,
		gatewayServer:   gatewayServer,
		profilingServer: profilingServer,
		shutdownCh:      make(chan struct{}),
	}, nil
}

// Start starts the server by opening the gateway port.
func (r *Coedit) Start() error {
	r.lock.Lock()
	defer r.lock.Unlock()

	if r.profilingServer != nil {
		if err := r.profilingServer.Start(); err != nil {
			return err
		}
	}

	return r.gatewayServer.Start()
}

// Shutdown shuts down this Coedit server.
func (r *Coedit) Shutdown(graceful bool) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	if r.shutdown {
		return nil
	}

	r.gatewayServer.Shutdown(graceful)
	if r.profilingServer != nil {
		r.profilingServer.Shutdown(graceful)
	}

	close(r.shutdownCh)
	r.shutdown = true
	return nil
}

// ShutdownCh returns the shutdown channel.
func (r *Coedit) ShutdownCh() <-chan struct{} {
	return r.shutdownCh
}

// GatewayAddr returns the address of the gateway.
func (r *Coedit) GatewayAddr() string {
	return r.conf.GatewayAddr()
}
