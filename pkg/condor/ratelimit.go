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
	"context"

	"golang.org/x/time/rate"

	cerrors "github.com/NVIDIA/hostmap/pkg/errors"
)

// RateLimitedFactory wraps every directory created by Factory so that all of
// them share one token bucket.
type RateLimitedFactory struct {
	Factory Factory
	Limiter *rate.Limiter
}

// NewRateLimitedFactory throttles f to qps queries per second with the given
// burst. A non-positive qps returns f unchanged.
func NewRateLimitedFactory(f Factory, qps float64, burst int) Factory {
	if qps <= 0 {
		return f
	}
	if burst < 1 {
		burst = 1
	}
	return &RateLimitedFactory{
		Factory: f,
		Limiter: rate.NewLimiter(rate.Limit(qps), burst),
	}
}

// NewDirectory returns a rate limited directory for host.
func (f *RateLimitedFactory) NewDirectory(host string) Directory {
	return &rateLimitedDirectory{next: f.Factory.NewDirectory(host), limiter: f.Limiter}
}

type rateLimitedDirectory struct {
	next    Directory
	limiter *rate.Limiter
}

func (d *rateLimitedDirectory) Host() string {
	return d.next.Host()
}

func (d *rateLimitedDirectory) LocateAll(ctx context.Context, t AdType) ([]Ad, error) {
	if err := d.wait(ctx); err != nil {
		return nil, err
	}
	return d.next.LocateAll(ctx, t)
}

func (d *rateLimitedDirectory) Query(ctx context.Context, t AdType, constraint string, projection []string) ([]Ad, error) {
	if err := d.wait(ctx); err != nil {
		return nil, err
	}
	return d.next.Query(ctx, t, constraint, projection)
}

func (d *rateLimitedDirectory) wait(ctx context.Context) error {
	if err := d.limiter.Wait(ctx); err != nil {
		return cerrors.WrapWithContext(cerrors.ErrCodeTimeout, "rate limiter wait aborted", err,
			map[string]any{"collector": d.next.Host()})
	}
	return nil
}
