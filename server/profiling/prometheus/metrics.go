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

// Package prometheus provides a Prometheus metrics exporter.
package prometheus

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/coedit-team/coedit/internal/version"
)

const (
	namespace   = "coedit"
	sourceLabel = "source"
	reasonLabel = "reason"
)

// Metrics manages the metric information that Coedit is trying to measure.
type Metrics struct {
	registry *prometheus.Registry

	serverVersion *prometheus.GaugeVec

	connectedSessions    prometheus.Gauge
	editsTotal           *prometheus.CounterVec
	editsRejectedTotal   *prometheus.CounterVec
	broadcastEventsTotal prometheus.Counter
	droppedSessionsTotal prometheus.Counter
	storeSaveFailures    prometheus.Counter
	commitSeconds        prometheus.Histogram
}

// NewMetrics creates a new instance of Metrics.
func NewMetrics() (*Metrics, error) {
	reg := prometheus.NewRegistry()

	if err := reg.Register(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{})); err != nil {
		return nil, fmt.Errorf("register process collector: %w", err)
	}
	if err := reg.Register(collectors.NewGoCollector()); err != nil {
		return nil, fmt.Errorf("register go collector: %w", err)
	}

	metrics := &Metrics{
		registry: reg,
		serverVersion: promauto.With(reg).NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "server",
			Name:      "version",
			Help:      "Which version is running. 1 for 'server_version' label with current version.",
		}, []string{"server_version"}),
		connectedSessions: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "document",
			Name:      "connected_sessions",
			Help:      "The number of currently connected sessions.",
		}),
		editsTotal: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "document",
			Name:      "edits_total",
			Help:      "The total count of edits accepted by the hub.",
		}, []string{sourceLabel}),
		editsRejectedTotal: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "document",
			Name:      "edits_rejected_total",
			Help:      "The total count of edits rejected before reaching the document.",
		}, []string{reasonLabel}),
		broadcastEventsTotal: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "document",
			Name:      "broadcast_events_total",
			Help:      "The total count of events delivered to sessions.",
		}),
		droppedSessionsTotal: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "document",
			Name:      "dropped_sessions_total",
			Help:      "The total count of sessions dropped for being unreachable.",
		}),
		storeSaveFailures: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "save_failures_total",
			Help:      "The total count of failed writes of the document file.",
		}),
		commitSeconds: promauto.With(reg).NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "document",
			Name:      "commit_seconds",
			Help:      "The time taken to apply, persist and broadcast an edit.",
		}),
	}

	metrics.serverVersion.With(prometheus.Labels{
		"server_version": version.Version,
	}).Set(1)

	return metrics, nil
}

// ObserveCommitSeconds adds an observation of the commit duration.
func (m *Metrics) ObserveCommitSeconds(seconds float64) {
	m.commitSeconds.Observe(seconds)
}

// AddEdits adds the given count of accepted edits for the source.
func (m *Metrics) AddEdits(source string, count int) {
	m.editsTotal.With(prometheus.Labels{sourceLabel: source}).Add(float64(count))
}

// AddRejectedEdit increments the count of rejected edits for the reason.
func (m *Metrics) AddRejectedEdit(reason string) {
	m.editsRejectedTotal.With(prometheus.Labels{reasonLabel: reason}).Inc()
}

// AddBroadcastEvents adds the given count of delivered events.
func (m *Metrics) AddBroadcastEvents(count int) {
	m.broadcastEventsTotal.Add(float64(count))
}

// AddDroppedSessions adds the given count of dropped sessions.
func (m *Metrics) AddDroppedSessions(count int) {
	m.droppedSessionsTotal.Add(float64(count))
}

// AddStoreSaveFailure increments the count of failed document writes.
func (m *Metrics) AddStoreSaveFailure() {
	m.storeSaveFailures.Inc()
}

// SetConnectedSessions sets the number of connected sessions.
func (m *Metrics) SetConnectedSessions(count int) {
	m.connectedSessions.Set(float64(count))
}

// Registry returns the registry of this metrics.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
