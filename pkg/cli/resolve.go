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
	"context"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/hostmap/pkg/defaults"
	"github.com/NVIDIA/hostmap/pkg/header"
	"github.com/NVIDIA/hostmap/pkg/hostmap"
	"github.com/NVIDIA/hostmap/pkg/resolver"
	"github.com/NVIDIA/hostmap/pkg/serializer"
)

func resolveFlags() []cli.Flag {
	return []cli.Flag{
		outputFlag(),
		formatFlag(),
	}
}

func resolveCmd() *cli.Command {
	return &cli.Command{
		Name:  "resolve",
		Usage: "Discover scheduler collectors and persist the host map (default)",
		Description: `Runs one discovery cycle:
  1. load the previous snapshot
  2. merge the curated override table
  3. list live schedulers on the primary collector
  4. look each one up on the candidate collectors, first match wins
  5. overwrite the snapshot with the result

Only a failure to write the snapshot makes the command fail.

# Examples

  hostmap resolve --snapshot cm://ospool/host-map
  hostmap resolve --backend rest --rest-endpoint https://restd.example.org --output - --format table`,
		Flags:  resolveFlags(),
		Action: resolveAction,
	}
}

// resolveAction is shared by the root command and resolve. --output and
// --format belong to resolve and read as unset on the root.
func resolveAction(ctx context.Context, cmd *cli.Command) error {
	hm, _, err := runResolve(ctx, cmd)
	writeMetrics(cmd)
	if err != nil {
		return err
	}

	if !cmd.IsSet(flagOutput) && !cmd.IsSet(flagFormat) {
		return nil
	}
	outFormat, err := parseOutputFormat(cmd)
	if err != nil {
		return err
	}
	return writeDocument(ctx, cmd, outFormat, hostmap.NewDocument(hm, header.WithVersion(version)))
}

func runResolve(ctx context.Context, cmd *cli.Command) (hostmap.HostMap, *resolver.Stats, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}

	factory, err := newFactory(cfg)
	if err != nil {
		return nil, nil, err
	}

	st, err := newStore(cfg, cmd)
	if err != nil {
		return nil, nil, err
	}
	defer closeStore(st)

	r, err := resolver.New(resolver.Config{
		PrimaryCollector:    cfg.PrimaryCollector,
		Candidates:          cfg.CandidateCollectors,
		Overrides:           cfg.OverrideMap(),
		Store:               st,
		Factory:             factory,
		Parallelism:         cfg.Parallelism,
		RediscoverOverrides: cfg.RediscoverOverrides,
		Version:             version,
	})
	if err != nil {
		return nil, nil, err
	}

	runCtx, cancel := context.WithTimeout(ctx, defaults.CLIResolveTimeout)
	defer cancel()

	hm, stats, err := r.ResolveWithStats(runCtx)
	if err != nil {
		return hm, stats, fmt.Errorf("host map resolution failed: %w", err)
	}
	return hm, stats, nil
}

// writeMetrics dumps the default registry for the node-exporter textfile
// collector when --metrics-file is set. Failures only warn.
func writeMetrics(cmd *cli.Command) {
	path := cmd.String(flagMetricsFile)
	if path == "" {
		return
	}
	if err := prometheus.WriteToTextfile(path, prometheus.DefaultGatherer); err != nil {
		slog.Warn("failed to write metrics file", "path", path, "error", err)
	}
}

func writeDocument(ctx context.Context, cmd *cli.Command, format serializer.Format, doc any) error {
	var ser serializer.Serializer = serializer.NewFileWriterOrStdout(format, cmd.String(flagOutput))
	defer func() {
		if closer, ok := ser.(serializer.Closer); ok {
			if err := closer.Close(); err != nil {
				slog.Warn("failed to close output", "error", err)
			}
		}
	}()
	if err := ser.Serialize(ctx, doc); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
