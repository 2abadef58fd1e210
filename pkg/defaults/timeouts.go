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

package defaults

import "time"

// Collector query timeouts.
const (
	// CollectorQueryTimeout bounds a single query against one collector,
	// including retries. Queries respect parent context deadlines when shorter.
	CollectorQueryTimeout = 60 * time.Second

	// CollectorAttemptTimeout bounds one condor_status invocation.
	CollectorAttemptTimeout = 20 * time.Second

	// CollectorRetryInitialInterval is the first backoff delay between attempts.
	CollectorRetryInitialInterval = 500 * time.Millisecond

	// CollectorRetryMaxInterval caps the backoff delay between attempts.
	CollectorRetryMaxInterval = 10 * time.Second

	// CollectorMaxRetries is the number of retries after the first failed attempt.
	CollectorMaxRetries = 3
)

// HTTP client timeouts for the htcondor-restd backend.
const (
	// HTTPClientTimeout is the default total timeout for one HTTP attempt.
	HTTPClientTimeout = 30 * time.Second

	// HTTPConnectTimeout is the timeout for establishing connections.
	HTTPConnectTimeout = 5 * time.Second

	// HTTPTLSHandshakeTimeout is the timeout for TLS handshake.
	HTTPTLSHandshakeTimeout = 5 * time.Second

	// HTTPResponseHeaderTimeout is the timeout for reading response headers.
	HTTPResponseHeaderTimeout = 10 * time.Second

	// HTTPIdleConnTimeout is the timeout for idle connections in the pool.
	HTTPIdleConnTimeout = 90 * time.Second

	// HTTPKeepAlive is the keep-alive duration for connections.
	HTTPKeepAlive = 30 * time.Second

	// HTTPMaxRetries is the total number of attempts made by the retrying client.
	HTTPMaxRetries = 4
)

// Snapshot store timeouts.
const (
	// ConfigMapReadTimeout is the timeout for reading the snapshot ConfigMap.
	ConfigMapReadTimeout = 30 * time.Second

	// ConfigMapWriteTimeout is the timeout for writing the snapshot ConfigMap.
	ConfigMapWriteTimeout = 30 * time.Second

	// RedisDialTimeout is the timeout for the initial Redis ping.
	RedisDialTimeout = 2 * time.Second

	// RedisOpTimeout bounds a single snapshot GET or SET.
	RedisOpTimeout = 10 * time.Second
)

// CLI timeouts for command-line operations.
const (
	// CLIResolveTimeout is the default deadline for a whole discovery run.
	CLIResolveTimeout = 30 * time.Minute
)
