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

// Package condor queries HTCondor collectors for daemon ads.
//
// # Overview
//
// A Directory talks to one collector and supports the two query shapes the
// resolver needs:
//
//	type Directory interface {
//	    Host() string
//	    LocateAll(ctx context.Context, t AdType) ([]Ad, error)
//	    Query(ctx context.Context, t AdType, constraint string, projection []string) ([]Ad, error)
//	}
//
// Ads are attribute bags (Ad) with case-insensitive lookups, matching ClassAd
// semantics.
//
// # Backends
//
// StatusFactory shells out to condor_status:
//
//	condor_status -pool cm-1.ospool.osg-htc.org -schedd -json \
//	    -constraint 'Machine == "ap40.uw.osg-htc.org"' -attributes Machine,CollectorHost
//
// Failed invocations are retried with exponential backoff
// (github.com/cenkalti/backoff) within defaults.CollectorQueryTimeout.
//
// RESTFactory talks to an htcondor-restd deployment:
//
//	GET {endpoint}/v1/status?pool=<collector>&query=schedds&constraint=...&projection=...
//
// using a retrying HTTP client (github.com/sethgrid/pester).
//
// NewRateLimitedFactory wraps either backend so every directory shares one
// token bucket (golang.org/x/time/rate).
//
// # Errors
//
// Query failures are returned as *errors.StructuredError with code
// QUERY_FAILED, TIMEOUT, UNAVAILABLE or INVALID_REQUEST. Callers in the
// resolver log them and treat the collector as having no matching ads.
package condor
