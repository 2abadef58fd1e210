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

// Package cli implements the hostmap command line.
//
// # Commands
//
// resolve (default) - discover and persist the host map:
//
//	hostmap [resolve] [--output FILE] [--format yaml|json|table]
//
// Without a command only the discovery runs; --output and --format are
// accepted by resolve.
//
// pool - write the daily OSPool access point artifact:
//
//	hostmap pool [--from-snapshot] [--output-dir DIR] [--path FILE] [--force]
//
// show - print the persisted snapshot:
//
//	hostmap show [--output FILE] [--format yaml|json|table]
//
// # Global Flags
//
//	--config, -c            YAML configuration file
//	--snapshot, -s          snapshot file, cm://namespace/name, or redis:// URL
//	--backend               condor_status or rest
//	--condor-status         path to the condor_status binary
//	--rest-endpoint         htcondor-restd base URL
//	--parallelism           schedulers searched at once
//	--query-rate            collector queries per second
//	--rediscover-overrides  re-discover schedulers listed in the override table
//	--kubeconfig            kubeconfig for cm:// snapshots
//	--metrics-file          Prometheus textfile written after discovery
//	--log-level             debug, info, warn, error
//
// Global flags can also be set through HOSTMAP_* environment variables,
// except --log-level (LOG_LEVEL) and --kubeconfig (KUBECONFIG).
//
// # Exit Codes
//
//	0  Success
//	1  Invalid configuration, or the snapshot could not be written
//
// Version information is embedded at build time using ldflags:
//
//	go build -ldflags="-X 'github.com/NVIDIA/hostmap/pkg/cli.version=1.0.0'"
package cli
