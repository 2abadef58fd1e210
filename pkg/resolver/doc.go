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

// Package resolver builds and persists the scheduler to collector host map.
//
// A run layers three sources: the previous snapshot, the curated override
// table, and live queries against the collectors. Each scheduler advertised
// by the primary collector is looked up on the candidate collectors in order;
// the first candidate whose schedd ad carries a non-empty CollectorHost wins.
// Schedulers no candidate knows about stay in the map with an empty set.
//
// Usage:
//
//	r, err := resolver.New(resolver.Config{
//	    PrimaryCollector: "cm-1.ospool.osg-htc.org",
//	    Candidates:       []string{"cm-1.ospool.osg-htc.org", "cm-2.ospool.osg-htc.org"},
//	    Overrides:        cfg.OverrideMap(),
//	    Store:            s,
//	    Factory:          factory,
//	})
//	hm, err := r.Resolve(ctx)
//
// Query failures are logged and treated as "no match". Only a failure to
// save the snapshot is returned as an error, with code PERSIST_FAILED.
//
// # Metrics
//
// Runs are instrumented with Prometheus collectors registered on the default
// registry:
//   - hostmap_resolve_duration_seconds: run duration histogram
//   - hostmap_resolve_total{status}: runs by success or error
//   - hostmap_collector_queries_total{collector,status}: candidate lookups
//   - hostmap_scheduler_outcomes_total{outcome}: discovered, unresolved, override
//   - hostmap_live_schedulers, hostmap_entries: gauges for the last run
package resolver
