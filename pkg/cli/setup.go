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

package cli

import (
	"fmt"
	"io"
	"log/slog"
	"math"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/hostmap/pkg/condor"
	"github.com/NVIDIA/hostmap/pkg/config"
	"github.com/NVIDIA/hostmap/pkg/store"
)

// loadConfig reads --config (or the defaults) and applies every global flag
// the user set explicitly.
func loadConfig(cmd *cli.Command) (*config.Config, error) {
	cfg := config.Default()
	if path := cmd.String(flagConfig); path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			return nil, err
		}
	}

	if cmd.IsSet(flagSnapshot) {
		cfg.Snapshot = cmd.String(flagSnapshot)
	}
	if cmd.IsSet(flagBackend) {
		cfg.Backend = config.Backend(cmd.String(flagBackend))
	}
	if cmd.IsSet(flagCondorStatus) {
		cfg.CondorStatus = cmd.String(flagCondorStatus)
	}
	if cmd.IsSet(flagRESTEndpoint) {
		cfg.RESTEndpoint = cmd.String(flagRESTEndpoint)
	}
	if cmd.IsSet(flagParallelism) {
		cfg.Parallelism = cmd.Int(flagParallelism)
	}
	if cmd.IsSet(flagQueryRate) {
		cfg.QueryRate = cmd.Float(flagQueryRate)
	}
	if cmd.IsSet(flagRediscoverOverrides) {
		cfg.RediscoverOverrides = cmd.Bool(flagRediscoverOverrides)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newFactory builds the collector query backend selected by cfg.
func newFactory(cfg *config.Config) (condor.Factory, error) {
	var (
		f   condor.Factory
		err error
	)
	switch cfg.Backend {
	case config.BackendREST:
		f, err = condor.NewRESTFactory(cfg.RESTEndpoint)
	case config.BackendCondorStatus:
		f, err = condor.NewStatusFactory(cfg.CondorStatus)
	default:
		return nil, fmt.Errorf("unsupported backend: %q", cfg.Backend)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to initialize %s backend: %w", cfg.Backend, err)
	}

	if cfg.QueryRate > 0 {
		burst := int(math.Ceil(cfg.QueryRate))
		slog.Debug("throttling collector queries", "qps", cfg.QueryRate, "burst", burst)
		f = condor.NewRateLimitedFactory(f, cfg.QueryRate, burst)
	}
	return f, nil
}

func newStore(cfg *config.Config, cmd *cli.Command) (store.Store, error) {
	s, err := store.NewStore(cfg.Snapshot, store.WithKubeconfig(cmd.String(flagKubeconfig)))
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot %q: %w", cfg.Snapshot, err)
	}
	return s, nil
}

func closeStore(s store.Store) {
	if c, ok := s.(io.Closer); ok {
		if err := c.Close(); err != nil {
			slog.Warn("failed to close snapshot store", "error", err)
		}
	}
}
