// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package metrics exposes Prometheus collectors for the catalog cache and
// its sync engine.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Sync outcome label values.
const (
	OutcomeUpdated   = "updated"
	OutcomeUnchanged = "unchanged"
	OutcomeFailed    = "failed"
	OutcomeSkipped   = "skipped"
)

var (
	// SyncCycles counts sync engine operations by operation and outcome.
	SyncCycles = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skinshelf_sync_cycles_total",
			Help: "Total number of sync engine operations",
		},
		[]string{"operation", "outcome"}, // operation: "initialize", "download", "refresh"
	)

	SyncDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "skinshelf_sync_duration_seconds",
			Help:    "Duration of sync engine operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	// ProbeFailures counts freshness probes that failed and were treated as stale.
	ProbeFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "skinshelf_probe_failures_total",
			Help: "Total number of freshness probes that failed",
		},
	)

	CachedRecords = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "skinshelf_cached_records",
			Help: "Current number of records in the local catalog mirror",
		},
	)

	RecordsMerged = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "skinshelf_records_merged_total",
			Help: "Total number of records upserted into the local mirror",
		},
	)

	PersistFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "skinshelf_persist_failures_total",
			Help: "Total number of failed writes of the catalog blob",
		},
	)

	CorruptionRecoveries = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "skinshelf_corruption_recoveries_total",
			Help: "Total number of times a corrupt persisted cache was discarded",
		},
	)

	// RemoteBreakerState is 0 closed, 1 half-open, 2 open.
	RemoteBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "skinshelf_remote_breaker_state",
			Help: "Circuit breaker state of the remote catalog client",
		},
		[]string{"name"},
	)

	RemoteRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skinshelf_remote_requests_total",
			Help: "Total number of remote catalog requests by kind and result",
		},
		[]string{"kind", "result"}, // kind: "all", "where"; result: "success", "failure", "rejected"
	)
)
