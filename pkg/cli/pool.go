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
	"time"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/hostmap/pkg/artifact"
	"github.com/NVIDIA/hostmap/pkg/header"
	"github.com/NVIDIA/hostmap/pkg/hostmap"
	"github.com/NVIDIA/hostmap/pkg/pool"
)

const (
	flagFromSnapshot = "from-snapshot"
	flagOutputDir    = "output-dir"
	flagPath         = "path"
	flagForce        = "force"
)

// defaultArtifactPath names the daily membership file for day t.
func defaultArtifactPath(t time.Time) string {
	return fmt.Sprintf("ospool-aps-%s.json", t.UTC().Format(time.DateOnly))
}

func poolCmd() *cli.Command {
	return &cli.Command{
		Name:  "pool",
		Usage: "Write the day's OSPool access point list",
		Description: `Computes which schedulers report to an OSPool collector and writes the list
as a daily artifact. Notebook schedulers (jupyter-notebook-*, jupyterlab-*) are
excluded. An existing artifact is left untouched unless --force is given.

# Examples

  hostmap pool --output-dir /srv/reports
  hostmap --snapshot cm://ospool/host-map pool --from-snapshot --path aps.yaml --force`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  flagFromSnapshot,
				Usage: "Use the persisted snapshot instead of running discovery",
			},
			&cli.StringFlag{
				Name:    flagOutputDir,
				Usage:   "Directory the artifact is written under",
				Value:   ".",
				Sources: cli.EnvVars("HOSTMAP_OUTPUT_DIR"),
			},
			&cli.StringFlag{
				Name:  flagPath,
				Usage: "Artifact path relative to --output-dir (default: ospool-aps-<date>.json)",
			},
			&cli.BoolFlag{
				Name:  flagForce,
				Usage: "Overwrite an existing artifact",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			var hm hostmap.HostMap
			if cmd.Bool(flagFromSnapshot) {
				st, err := newStore(cfg, cmd)
				if err != nil {
					return err
				}
				defer closeStore(st)

				doc, err := st.Load(ctx)
				if err != nil {
					return fmt.Errorf("failed to load snapshot from %s: %w", st.Location(), err)
				}
				hm = doc.Hosts
			} else {
				hm, _, err = runResolve(ctx, cmd)
				writeMetrics(cmd)
				if err != nil {
					return err
				}
			}

			members := pool.NewFilter(cfg.PoolCollectors, cfg.NotebookPrefixes).Members(hm)
			doc := pool.NewDocument(members, cfg.PoolCollectors, header.WithVersion(version))

			path := cmd.String(flagPath)
			if path == "" {
				path = defaultArtifactPath(time.Now())
			}

			written, err := artifact.Write(ctx, doc, cmd.String(flagOutputDir), path, cmd.Bool(flagForce))
			if err != nil {
				return fmt.Errorf("failed to write pool artifact: %w", err)
			}
			slog.Info("pool membership computed",
				"members", len(members),
				"schedulers", len(hm),
				"path", path,
				"written", written)
			return nil
		},
	}
}
