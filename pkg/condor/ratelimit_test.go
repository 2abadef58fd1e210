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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cerrors "github.com/NVIDIA/hostmap/pkg/errors"
)

type countingDirectory struct {
	host  string
	calls int
}

func (d *countingDirectory) Host() string { return d.host }

func (d *countingDirectory) LocateAll(ctx context.Context, t AdType) ([]Ad, error) {
	d.calls++
	return []Ad{{AttrMachine: "ap1"}}, nil
}

func (d *countingDirectory) Query(ctx context.Context, t AdType, constraint string, projection []string) ([]Ad, error) {
	d.calls++
	return nil, nil
}

func TestNewRateLimitedFactoryDisabled(t *testing.T) {
	base := FactoryFunc(func(host string) Directory { return &countingDirectory{host: host} })
	f := NewRateLimitedFactory(base, 0, 0)
	_, wrapped := f.(*RateLimitedFactory)
	assert.False(t, wrapped)
}

func TestRateLimitedDirectoryDelegates(t *testing.T) {
	inner := &countingDirectory{host: "cm-1"}
	f := NewRateLimitedFactory(FactoryFunc(func(string) Directory { return inner }), 1000, 10)

	d := f.NewDirectory("cm-1")
	assert.Equal(t, "cm-1", d.Host())

	ads, err := d.LocateAll(context.Background(), AdTypeSchedd)
	require.NoError(t, err)
	assert.Len(t, ads, 1)

	_, err = d.Query(context.Background(), AdTypeSchedd, "", nil)
	require.NoError(t, err)
	assert.Equal(t, 2, inner.calls)
}

func TestRateLimitedDirectoryHonorsContext(t *testing.T) {
	inner := &countingDirectory{host: "cm-1"}
	// One token per hour: the second call cannot be served before the deadline.
	f := NewRateLimitedFactory(FactoryFunc(func(string) Directory { return inner }), 1.0/3600, 1)
	d := f.NewDirectory("cm-1")

	_, err := d.Query(context.Background(), AdTypeSchedd, "", nil)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err = d.Query(ctx, AdTypeSchedd, "", nil)
	require.Error(t, err)
	assert.Equal(t, cerrors.ErrCodeTimeout, cerrors.CodeOf(err))
	assert.Equal(t, 1, inner.calls)
}
