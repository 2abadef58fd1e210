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
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/hostmap/pkg/config"
	"github.com/NVIDIA/hostmap/pkg/serializer"
)

const (
	flagConfig              = "config"
	flagLogLevel            = "log-level"
	flagSnapshot            = "snapshot"
	flagBackend             = "backend"
	flagCondorStatus        = "condor-status"
	flagRESTEndpoint        = "rest-endpoint"
	flagParallelism         = "parallelism"
	flagQueryRate           = "query-rate"
	flagRediscoverOverrides = "rediscover-overrides"
	flagKubeconfig          = "kubeconfig"
	flagMetricsFile         = "metrics-file"
	flagOutput              = "output"
	flagFormat              = "format"
)

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    flagConfig,
			Aliases: []string{"c"},
			Usage:   "Path to a hostmap YAML configuration file",
			Sources: cli.EnvVars("HOSTMAP_CONFIG"),
		},
		&cli.StringFlag{
			Name:    flagLogLevel,
			Usage:   "Log level (debug, info, warn, error)",
			Value:   "info",
			Sources: cli.EnvVars("LOG_LEVEL"),
		},
		&cli.StringFlag{
			Name:    flagSnapshot,
			Aliases: []string{"s"},
			Usage: `Snapshot location. Supports file paths (.yaml or .json),
	ConfigMap URIs (cm://namespace/name), and Redis URLs (redis://host:6379/0?key=name).`,
			Sources: cli.EnvVars("HOSTMAP_SNAPSHOT"),
		},
		&cli.StringFlag{
			Name:    flagBackend,
			Usage:   fmt.Sprintf("Collector query backend (supported values: %s, %s)", config.BackendCondorStatus, config.BackendREST),
			Sources: cli.EnvVars("HOSTMAP_BACKEND"),
		},
		&cli.StringFlag{
			Name:    flagCondorStatus,
			Usage:   "Path to the condor_status binary",
			Sources: cli.EnvVars("HOSTMAP_CONDOR_STATUS"),
		},
		&cli.StringFlag{
			Name:    flagRESTEndpoint,
			Usage:   "htcondor-restd base URL for the rest backend",
			Sources: cli.EnvVars("HOSTMAP_REST_ENDPOINT"),
		},
		&cli.IntFlag{
			Name:    flagParallelism,
			Usage:   "Number of schedulers searched concurrently",
			Sources: cli.EnvVars("HOSTMAP_PARALLELISM"),
		},
		&cli.FloatFlag{
			Name:    flagQueryRate,
			Usage:   "Maximum collector queries per second (0 disables throttling)",
			Sources: cli.EnvVars("HOSTMAP_QUERY_RATE"),
		},
		&cli.BoolFlag{
			Name:    flagRediscoverOverrides,
			Usage:   "Run live discovery for schedulers listed in the override table",
			Sources: cli.EnvVars("HOSTMAP_REDISCOVER_OVERRIDES"),
		},
		&cli.StringFlag{
			Name:    flagKubeconfig,
			Usage:   "Path to kubeconfig for cm:// snapshots (default: $KUBECONFIG, ~/.kube/config, in-cluster)",
			Sources: cli.EnvVars("KUBECONFIG"),
		},
		&cli.StringFlag{
			Name:    flagMetricsFile,
			Usage:   "Write Prometheus metrics in textfile-collector format to this path after a discovery run",
			Sources: cli.EnvVars("HOSTMAP_METRICS_FILE"),
		},
	}
}

func outputFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    flagOutput,
		Aliases: []string{"o"},
		Usage:   "Output file path (default: stdout)",
	}
}

func formatFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    flagFormat,
		Aliases: []string{"t"},
		Usage:   fmt.Sprintf("Output format (supported values: %s)", strings.Join(serializer.SupportedFormats(), ", ")),
		Value:   string(serializer.FormatYAML),
	}
}

func parseOutputFormat(cmd *cli.Command) (serializer.Format, error) {
	return serializer.ParseFormat(cmd.String(flagFormat))
}
