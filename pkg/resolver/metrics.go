// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
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

package resolver

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	queryStatusMatch   = "match"
	queryStatusEmpty   = "empty"
	queryStatusMissing = "missing_attribute"
	queryStatusError   = "error"

	outcomeDiscovered = "discovered"
	outcomeUnresolved = "unresolved"
	outcomeOverride   = "override"
)

var (
	resolveDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "hostmap_resolve_duration_seconds",
			Help:    "Time taken by one discovery and persist cycle",
			Buckets: []float64{1, 5, 10, 30, 60, 120, 300, 600},
		},
	)

	resolveTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hostmap_resolve_total",
			Help: "Total number of resolve runs",
		},
		[]string{"status"}, // success or error
	)

	collectorQueryTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hostmap_collector_queries_total",
			Help: "Scheduler lookups against candidate collectors",
		},
		[]string{"collector", "status"}, // match, empty, missing_attribute, error
	)

	schedulerOutcomeTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hostmap_scheduler_outcomes_total",
			Help: "Live schedulers by resolution outcome",
		},
		[]string{"outcome"},
	)

	liveSchedulers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "hostmap_live_schedulers",
			Help: "Schedulers advertised by the primary collector in the last run",
		},
	)

	hostMapEntries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "hostmap_entries",
			Help: "Number of schedulers in the last persisted host map",
		},
	)
)
