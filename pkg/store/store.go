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
	"strings"

	"github.com/NVIDIA/hostmap/pkg/hostmap"
	"github.com/NVIDIA/hostmap/pkg/k8s/client"
	"github.com/NVIDIA/hostmap/pkg/serializer"
)

const (
	// ConfigMapURIScheme is the URI prefix selecting the ConfigMap backend.
	ConfigMapURIScheme = "cm://"
	// RedisURIScheme is the URI prefix selecting the Redis backend.
	RedisURIScheme = "redis://"
	// RedissURIScheme selects the Redis backend over TLS.
	RedissURIScheme = "rediss://"
)

// ErrSnapshotNotFound is returned by Load when no snapshot has been saved yet.
var ErrSnapshotNotFound = errors.New("snapshot not found")

// Store loads and saves host map documents.
type Store interface {
	// Load returns the last saved document, or ErrSnapshotNotFound.
	Load(ctx context.Context) (*hostmap.Document, error)
	// Save replaces the stored document.
	Save(ctx context.Context, doc *hostmap.Document) error
	// Location describes where the snapshot lives, for logging.
	Location() string
}

// Option configures NewStore.
type Option func(*options)

type options struct {
	kubeClient client.Interface
	kubeconfig string
	format     serializer.Format
}

// WithKubeClient sets the client used by the ConfigMap backend.
func WithKubeClient(c client.Interface) Option {
	return func(o *options) {
		o.kubeClient = c
	}
}

// WithKubeconfig sets the kubeconfig used when no client is given.
func WithKubeconfig(path string) Option {
	return func(o *options) {
		o.kubeconfig = path
	}
}

// WithFormat sets the encoding used by the ConfigMap and Redis backends.
// File stores always follow the file extension.
func WithFormat(f serializer.Format) Option {
	return func(o *options) {
		o.format = f
	}
}

// NewStore returns the backend matching uri.
func NewStore(uri string, opts ...Option) (Store, error) {
	o := &options{format: serializer.FormatYAML}
	for _, opt := range opts {
		opt(o)
	}

	uri = strings.TrimSpace(uri)
	switch {
	case uri == "":
		return nil, fmt.Errorf("snapshot location is empty")
	case strings.HasPrefix(uri, ConfigMapURIScheme):
		namespace, name, err := ParseConfigMapURI(uri)
		if err != nil {
			return nil, err
		}
		c := o.kubeClient
		if c == nil {
			c, _, err = client.GetKubeClientWithConfig(o.kubeconfig)
			if err != nil {
				return nil, fmt.Errorf("failed to get kubernetes client: %w", err)
			}
		}
		return NewConfigMapStore(c, namespace, name, o.format), nil
	case strings.HasPrefix(uri, RedisURIScheme), strings.HasPrefix(uri, RedissURIScheme):
		return NewRedisStoreFromURL(uri, o.format)
	case strings.Contains(uri, "://"):
		return nil, fmt.Errorf("unsupported snapshot URI scheme: %s", uri)
	default:
		return NewFileStore(uri), nil
	}
}

func encode(format serializer.Format, doc *hostmap.Document) ([]byte, error) {
	if doc == nil {
		return nil, fmt.Errorf("document is nil")
	}
	if format == serializer.FormatTable || format.IsUnknown() {
		format = serializer.FormatYAML
	}
	return serializer.Marshal(format, doc)
}

func decode(format serializer.Format, data []byte) (*hostmap.Document, error) {
	if format == serializer.FormatTable || format.IsUnknown() {
		format = serializer.FormatYAML
	}
	doc, err := serializer.Unmarshal[hostmap.Document](format, data)
	if err != nil {
		return nil, err
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return doc, nil
}
