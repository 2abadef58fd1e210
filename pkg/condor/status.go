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

package condor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"github.com/cenkalti/backoff"

	"github.com/NVIDIA/hostmap/pkg/defaults"
	cerrors "github.com/NVIDIA/hostmap/pkg/errors"
)

// ErrStatusNotFound is returned when the condor_status binary cannot be located.
var ErrStatusNotFound = errors.New("condor_status not found")

// Runner executes a command and returns its standard output.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

// Run executes name with args. On failure the error includes stderr.
func (ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return nil, fmt.Errorf("%w: %s", err, msg)
		}
		return nil, err
	}
	return stdout.Bytes(), nil
}

// StatusOption configures a StatusFactory.
type StatusOption func(*StatusFactory)

// WithRunner replaces the command runner, mainly for tests.
func WithRunner(r Runner) StatusOption {
	return func(f *StatusFactory) {
		f.runner = r
	}
}

// WithMaxRetries sets how many times a failed invocation is retried.
func WithMaxRetries(n uint64) StatusOption {
	return func(f *StatusFactory) {
		f.maxRetries = n
	}
}

// WithRetryInterval sets the initial and maximum backoff between attempts.
func WithRetryInterval(initial, max time.Duration) StatusOption {
	return func(f *StatusFactory) {
		f.initialInterval = initial
		f.maxInterval = max
	}
}

// WithAttemptTimeout bounds a single condor_status invocation.
func WithAttemptTimeout(d time.Duration) StatusOption {
	return func(f *StatusFactory) {
		f.attemptTimeout = d
	}
}

// StatusFactory creates directories backed by the condor_status command line tool.
type StatusFactory struct {
	bin             string
	runner          Runner
	maxRetries      uint64
	initialInterval time.Duration
	maxInterval     time.Duration
	attemptTimeout  time.Duration
}

// NewStatusFactory locates condor_status. An empty bin searches PATH.
func NewStatusFactory(bin string, opts ...StatusOption) (*StatusFactory, error) {
	f := &StatusFactory{
		runner:          ExecRunner{},
		maxRetries:      defaults.CollectorMaxRetries,
		initialInterval: defaults.CollectorRetryInitialInterval,
		maxInterval:     defaults.CollectorRetryMaxInterval,
		attemptTimeout:  defaults.CollectorAttemptTimeout,
	}
	for _, opt := range opts {
		opt(f)
	}

	if bin == "" {
		bin = "condor_status"
	}
	// Injected runners do not need a real binary.
	if _, ok := f.runner.(ExecRunner); ok {
		path, err := exec.LookPath(bin)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrStatusNotFound, err)
		}
		bin = path
	}
	f.bin = bin
	return f, nil
}

// NewDirectory returns a directory querying host.
func (f *StatusFactory) NewDirectory(host string) Directory {
	return &StatusDirectory{host: host, factory: f}
}

// StatusDirectory queries a collector with `condor_status -pool <host> -json`.
type StatusDirectory struct {
	host    string
	factory *StatusFactory
}

// Host returns the collector host name.
func (d *StatusDirectory) Host() string {
	return d.host
}

// LocateAll lists the location attributes of all daemons of type t.
func (d *StatusDirectory) LocateAll(ctx context.Context, t AdType) ([]Ad, error) {
	return d.Query(ctx, t, "", locateProjection)
}

// Query runs condor_status with the given constraint and projection, retrying
// failed invocations with exponential backoff.
func (d *StatusDirectory) Query(ctx context.Context, t AdType, constraint string, projection []string) ([]Ad, error) {
	if !t.IsValid() {
		return nil, cerrors.New(cerrors.ErrCodeInvalidRequest, fmt.Sprintf("unsupported ad type %q", t))
	}
	args := statusArgs(d.host, t, constraint, projection)

	var out []byte
	attempt := 0
	op := func() error {
		attempt++
		attemptCtx, cancel := context.WithTimeout(ctx, d.factory.attemptTimeout)
		defer cancel()
		var err error
		out, err = d.factory.runner.Run(attemptCtx, d.factory.bin, args...)
		return err
	}
	notify := func(err error, next time.Duration) {
		slog.Debug("condor_status attempt failed, retrying",
			"collector", d.host,
			"attempt", attempt,
			"next", next,
			"error", err)
	}

	if err := backoff.RetryNotify(op, d.backOff(ctx), notify); err != nil {
		code := cerrors.ErrCodeQueryFailed
		if ctx.Err() != nil || errors.Is(err, context.DeadlineExceeded) {
			code = cerrors.ErrCodeTimeout
		}
		return nil, cerrors.WrapWithContext(code, "condor_status query failed", err, map[string]any{
			"collector":  d.host,
			"type":       string(t),
			"constraint": constraint,
			"attempts":   attempt,
		})
	}

	ads, err := parseStatusJSON(out)
	if err != nil {
		return nil, cerrors.WrapWithContext(cerrors.ErrCodeQueryFailed, "failed to parse condor_status output", err,
			map[string]any{"collector": d.host})
	}
	return ads, nil
}

func (d *StatusDirectory) backOff(ctx context.Context) backoff.BackOff {
	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = d.factory.initialInterval
	eb.MaxInterval = d.factory.maxInterval
	eb.MaxElapsedTime = defaults.CollectorQueryTimeout
	return backoff.WithContext(backoff.WithMaxRetries(eb, d.factory.maxRetries), ctx)
}

// statusArgs builds the condor_status argument list.
func statusArgs(host string, t AdType, constraint string, projection []string) []string {
	args := []string{"-pool", host, "-" + string(t), "-json"}
	if constraint != "" {
		args = append(args, "-constraint", constraint)
	}
	if len(projection) > 0 {
		args = append(args, "-attributes", strings.Join(projection, ","))
	}
	return args
}

// parseStatusJSON decodes the JSON array printed by condor_status -json.
// condor_status prints nothing when no ad matches.
func parseStatusJSON(out []byte) ([]Ad, error) {
	trimmed := bytes.TrimSpace(out)
	if len(trimmed) == 0 {
		return []Ad{}, nil
	}
	var ads []Ad
	if err := json.Unmarshal(trimmed, &ads); err != nil {
		return nil, err
	}
	if ads == nil {
		ads = []Ad{}
	}
	return ads, nil
}
