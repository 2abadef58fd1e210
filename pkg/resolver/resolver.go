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
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/NVIDIA/hostmap/pkg/condor"
	"github.com/NVIDIA/hostmap/pkg/defaults"
	cerrors "github.com/NVIDIA/hostmap/pkg/errors"
	"github.com/NVIDIA/hostmap/pkg/header"
	"github.com/NVIDIA/hostmap/pkg/hostmap"
	"github.com/NVIDIA/hostmap/pkg/store"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Config holds everything a Resolver needs. It is copied by New and never
// mutated afterwards.
type Config struct {
	// PrimaryCollector is queried for the list of live schedulers.
	PrimaryCollector string

	// Candidates are searched in order for each live scheduler.
	Candidates []string

	// Overrides are curated entries merged over the previous snapshot.
	Overrides hostmap.HostMap

	// Store loads the previous snapshot and saves the new one.
	Store store.Store

	// Factory creates a Directory per collector host.
	Factory condor.Factory

	// Parallelism bounds how many schedulers are searched at once.
	// Zero or one means sequential.
	Parallelism int

	// RediscoverOverrides makes override keys go through live discovery
	// like any other scheduler, replacing their curated value.
	RediscoverOverrides bool

	// QueryTimeout bounds each collector query. Defaults to
	// defaults.CollectorQueryTimeout.
	QueryTimeout time.Duration

	// Version is stamped on the persisted document.
	Version string
}

// Stats summarizes one run.
type Stats struct {
	RunID            string        `json:"runId" yaml:"runId"`
	Previous         int           `json:"previous" yaml:"previous"`
	Live             int           `json:"live" yaml:"live"`
	Discovered       int           `json:"discovered" yaml:"discovered"`
	Unresolved       int           `json:"unresolved" yaml:"unresolved"`
	SkippedOverrides int           `json:"skippedOverrides" yaml:"skippedOverrides"`
	QueryErrors      int           `json:"queryErrors" yaml:"queryErrors"`
	Entries          int           `json:"entries" yaml:"entries"`
	Duration         time.Duration `json:"duration" yaml:"duration"`
}

// Resolver produces the scheduler to collector host map.
type Resolver struct {
	cfg Config
}

// New validates cfg and returns a Resolver.
func New(cfg Config) (*Resolver, error) {
	if cfg.PrimaryCollector == "" {
		return nil, cerrors.New(cerrors.ErrCodeInvalidRequest, "primary collector is required")
	}
	if cfg.Store == nil {
		return nil, cerrors.New(cerrors.ErrCodeInvalidRequest, "snapshot store is required")
	}
	if cfg.Factory == nil {
		return nil, cerrors.New(cerrors.ErrCodeInvalidRequest, "directory factory is required")
	}
	if cfg.Parallelism < 1 {
		cfg.Parallelism = 1
	}
	if cfg.QueryTimeout <= 0 {
		cfg.QueryTimeout = defaults.CollectorQueryTimeout
	}
	cfg.Candidates = append([]string(nil), cfg.Candidates...)
	cfg.Overrides = cfg.Overrides.Clone()
	return &Resolver{cfg: cfg}, nil
}

// Resolve runs one discovery cycle and persists the result. See ResolveWithStats.
func (r *Resolver) Resolve(ctx context.Context) (hostmap.HostMap, error) {
	hm, _, err := r.ResolveWithStats(ctx)
	return hm, err
}

// ResolveWithStats runs one discovery cycle, overwrites the stored snapshot
// and returns the map together with run statistics. The map is returned even
// when saving fails; the error then carries code PERSIST_FAILED.
func (r *Resolver) ResolveWithStats(ctx context.Context) (hostmap.HostMap, *Stats, error) {
	start := time.Now()
	defer func() {
		resolveDuration.Observe(time.Since(start).Seconds())
	}()

	ru := r.newRun()
	ru.log.Info("starting host map resolution",
		"primary", r.cfg.PrimaryCollector,
		"candidates", r.cfg.Candidates,
		"store", r.cfg.Store.Location(),
		"parallelism", r.cfg.Parallelism)

	ru.loadPrevious(ctx)
	ru.hosts.Merge(r.cfg.Overrides)

	live := ru.liveSchedulers(ctx)
	ru.stats.Live = len(live)
	liveSchedulers.Set(float64(len(live)))

	g := new(errgroup.Group)
	g.SetLimit(r.cfg.Parallelism)
	for _, schedd := range live {
		if _, ok := r.cfg.Overrides[schedd]; ok && !r.cfg.RediscoverOverrides {
			ru.mu.Lock()
			ru.stats.SkippedOverrides++
			ru.mu.Unlock()
			schedulerOutcomeTotal.WithLabelValues(outcomeOverride).Inc()
			ru.log.Debug("keeping override entry", "schedd", schedd)
			continue
		}
		g.Go(func() error {
			ru.resolveScheduler(ctx, schedd)
			return nil
		})
	}
	// Workers never return errors.
	_ = g.Wait()

	hm := ru.hosts
	ru.stats.Entries = len(hm)
	ru.stats.Duration = time.Since(start)

	doc := hostmap.NewDocument(hm,
		header.WithRunID(ru.stats.RunID),
		header.WithVersion(r.cfg.Version))
	// The run deadline or a signal must not cost the discovered map. Stores
	// bound their own writes.
	if err := r.cfg.Store.Save(context.WithoutCancel(ctx), doc); err != nil {
		resolveTotal.WithLabelValues("error").Inc()
		ru.log.Error("failed to persist host map", "error", err, "store", r.cfg.Store.Location())
		return hm, ru.stats, cerrors.WrapWithContext(cerrors.ErrCodePersistFailed,
			"failed to persist host map", err,
			map[string]any{"store": r.cfg.Store.Location(), "run_id": ru.stats.RunID})
	}

	resolveTotal.WithLabelValues("success").Inc()
	hostMapEntries.Set(float64(len(hm)))

	ru.log.Info("host map resolved",
		"entries", ru.stats.Entries,
		"previous", ru.stats.Previous,
		"live", ru.stats.Live,
		"discovered", ru.stats.Discovered,
		"unresolved", ru.stats.Unresolved,
		"skipped_overrides", ru.stats.SkippedOverrides,
		"query_errors", ru.stats.QueryErrors,
		"duration", ru.stats.Duration.String())

	return hm, ru.stats, nil
}

// run holds the mutable state of one ResolveWithStats call.
type run struct {
	*Resolver
	log   *slog.Logger
	dirs  map[string]condor.Directory
	mu    sync.Mutex
	hosts hostmap.HostMap
	stats *Stats
}

func (r *Resolver) newRun() *run {
	id := uuid.NewString()
	dirs := make(map[string]condor.Directory, len(r.cfg.Candidates)+1)
	for _, host := range append([]string{r.cfg.PrimaryCollector}, r.cfg.Candidates...) {
		if _, ok := dirs[host]; !ok {
			dirs[host] = r.cfg.Factory.NewDirectory(host)
		}
	}
	return &run{
		Resolver: r,
		log:      slog.Default().With("run_id", id),
		dirs:     dirs,
		hosts:    hostmap.HostMap{},
		stats:    &Stats{RunID: id},
	}
}

func (ru *run) loadPrevious(ctx context.Context) {
	doc, err := ru.cfg.Store.Load(ctx)
	switch {
	case errors.Is(err, store.ErrSnapshotNotFound):
		ru.log.Info("no previous snapshot, starting empty", "store", ru.cfg.Store.Location())
		return
	case err != nil:
		ru.log.Warn("failed to load previous snapshot, starting empty",
			"error", err, "store", ru.cfg.Store.Location())
		return
	}
	ru.hosts = doc.Hosts.Clone()
	ru.stats.Previous = len(ru.hosts)
	ru.log.Debug("loaded previous snapshot", "entries", len(ru.hosts))
}

// liveSchedulers returns the sorted, de-duplicated Machine names of every
// schedd located through the primary collector.
func (ru *run) liveSchedulers(ctx context.Context) []string {
	primary := ru.dirs[ru.cfg.PrimaryCollector]

	qctx, cancel := context.WithTimeout(ctx, ru.cfg.QueryTimeout)
	defer cancel()

	ads, err := primary.LocateAll(qctx, condor.AdTypeSchedd)
	if err != nil {
		ru.stats.QueryErrors++
		ru.log.Error("failed to locate schedulers on primary collector",
			"collector", primary.Host(), "error", err)
		return nil
	}

	seen := make(map[string]struct{}, len(ads))
	for _, ad := range ads {
		machine, ok := ad.String(condor.AttrMachine)
		if !ok || machine == "" {
			ru.log.Debug("skipping schedd ad without Machine", "ad", ad)
			continue
		}
		seen[machine] = struct{}{}
	}

	live := make([]string, 0, len(seen))
	for m := range seen {
		live = append(live, m)
	}
	sort.Strings(live)
	ru.log.Debug("located live schedulers", "count", len(live), "collector", primary.Host())
	return live
}

func (ru *run) resolveScheduler(ctx context.Context, schedd string) {
	ru.mu.Lock()
	ru.hosts[schedd] = hostmap.NewCollectorSet()
	ru.mu.Unlock()

	set, found := ru.findCollectors(ctx, schedd)

	ru.mu.Lock()
	defer ru.mu.Unlock()
	if !found {
		ru.stats.Unresolved++
		schedulerOutcomeTotal.WithLabelValues(outcomeUnresolved).Inc()
		ru.log.Info("scheduler not found in any collector", "schedd", schedd)
		return
	}
	ru.hosts[schedd] = set
	ru.stats.Discovered++
	schedulerOutcomeTotal.WithLabelValues(outcomeDiscovered).Inc()
}

// findCollectors searches the candidates in order and returns the collector
// set of the first one whose schedd ad for schedd has a non-empty
// CollectorHost. Results from different candidates are never merged.
func (ru *run) findCollectors(ctx context.Context, schedd string) (hostmap.CollectorSet, bool) {
	machine := hostmap.MachineName(schedd)
	constraint := condor.EqualsConstraint(condor.AttrMachine, machine)
	projection := []string{condor.AttrMachine, condor.AttrCollectorHost}

	for _, host := range ru.cfg.Candidates {
		ads, err := ru.query(ctx, host, constraint, projection)
		if err != nil {
			collectorQueryTotal.WithLabelValues(host, queryStatusError).Inc()
			ru.mu.Lock()
			ru.stats.QueryErrors++
			ru.mu.Unlock()
			ru.log.Warn("collector query failed",
				"collector", host, "schedd", schedd, "code", cerrors.CodeOf(err), "error", err)
			continue
		}

		if len(ads) == 0 {
			collectorQueryTotal.WithLabelValues(host, queryStatusEmpty).Inc()
			continue
		}
		if len(ads) > 1 {
			ru.log.Warn("multiple schedd ads matched, using the first",
				"collector", host, "schedd", schedd, "count", len(ads))
		}

		raw, ok := ads[0].String(condor.AttrCollectorHost)
		if !ok {
			collectorQueryTotal.WithLabelValues(host, queryStatusMissing).Inc()
			continue
		}
		set := hostmap.NormalizeCollectors(raw)
		if set.Len() == 0 {
			collectorQueryTotal.WithLabelValues(host, queryStatusMissing).Inc()
			continue
		}

		collectorQueryTotal.WithLabelValues(host, queryStatusMatch).Inc()
		ru.log.Debug("found collectors", "schedd", schedd, "collector", host, "collectors", set.Sorted())
		return set, true
	}
	return hostmap.NewCollectorSet(), false
}

func (ru *run) query(ctx context.Context, host, constraint string, projection []string) ([]condor.Ad, error) {
	dir, ok := ru.dirs[host]
	if !ok {
		return nil, fmt.Errorf("no directory for collector %s", host)
	}
	qctx, cancel := context.WithTimeout(ctx, ru.cfg.QueryTimeout)
	defer cancel()
	return dir.Query(qctx, condor.AdTypeSchedd, constraint, projection)
}
