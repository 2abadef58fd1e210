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

// Package defaults provides centralized configuration constants for hostmap.
//
// This package defines timeout values and retry parameters used across the
// codebase. Centralizing these values keeps the collector backends, the snapshot
// stores and the CLI consistent.
//
// # Timeout Categories
//
//   - Collector timeouts: condor_status invocations and their retry budget
//   - HTTP client timeouts: htcondor-restd requests
//   - Store timeouts: ConfigMap and Redis snapshot reads and writes
//   - CLI timeouts: the deadline of a whole discovery run
//
// # Usage
//
//	ctx, cancel := context.WithTimeout(ctx, defaults.CollectorQueryTimeout)
//	defer cancel()
package defaults
