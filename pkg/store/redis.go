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

package store

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/NVIDIA/hostmap/pkg/defaults"
	"github.com/NVIDIA/hostmap/pkg/hostmap"
	"github.com/NVIDIA/hostmap/pkg/serializer"
	"github.com/redis/go-redis/v9"
)

// DefaultRedisKey is used when the redis:// URI carries no key parameter.
const DefaultRedisKey = "hostmap:snapshot"

// RedisStore keeps the snapshot as a single string value.
type RedisStore struct {
	client redis.UniversalClient
	key    string
	format serializer.Format
}

// NewRedisStore wraps an existing client.
func NewRedisStore(c redis.UniversalClient, key string, format serializer.Format) *RedisStore {
	if key == "" {
		key = DefaultRedisKey
	}
	if format != serializer.FormatJSON {
		format = serializer.FormatYAML
	}
	return &RedisStore{client: c, key: key, format: format}
}

// NewRedisStoreFromURL connects to the server named by a redis:// or
// rediss:// URL. The optional "key" query parameter names the snapshot key.
func NewRedisStoreFromURL(rawURL string, format serializer.Format) (*RedisStore, error) {
	addr, key, err := splitRedisURL(rawURL)
	if err != nil {
		return nil, err
	}

	opts, err := redis.ParseURL(addr)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	c := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), defaults.RedisDialTimeout)
	defer cancel()
	if err := c.Ping(ctx).Err(); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	return NewRedisStore(c, key, format), nil
}

// splitRedisURL removes the key parameter, which go-redis does not accept.
func splitRedisURL(rawURL string) (addr, key string, err error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", "", fmt.Errorf("invalid redis URI: %w", err)
	}
	q := u.Query()
	key = q.Get("key")
	q.Del("key")
	u.RawQuery = q.Encode()
	return u.String(), key, nil
}

// Location returns the snapshot key.
func (s *RedisStore) Location() string {
	return "redis key " + s.key
}

// Load reads the snapshot key.
func (s *RedisStore) Load(ctx context.Context) (*hostmap.Document, error) {
	opCtx, cancel := context.WithTimeout(ctx, defaults.RedisOpTimeout)
	defer cancel()

	data, err := s.client.Get(opCtx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%s: %w", s.Location(), ErrSnapshotNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get %s: %w", s.Location(), err)
	}

	doc, err := decode(s.format, data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode snapshot in %s: %w", s.Location(), err)
	}
	return doc, nil
}

// Save overwrites the snapshot key without expiry.
func (s *RedisStore) Save(ctx context.Context, doc *hostmap.Document) error {
	data, err := encode(s.format, doc)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	opCtx, cancel := context.WithTimeout(ctx, defaults.RedisOpTimeout)
	defer cancel()

	if err := s.client.Set(opCtx, s.key, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to set %s: %w", s.Location(), err)
	}
	return nil
}

// Close releases the Redis connection pool.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
