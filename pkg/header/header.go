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

package header

import (
	"time"
)

// Kind represents the type of a hostmap document.
type Kind string

const (
	// KindHostMap marks a persisted scheduler-to-collector snapshot.
	KindHostMap Kind = "HostMap"
	// KindPoolMembers marks a daily pool membership artifact.
	KindPoolMembers Kind = "PoolMembers"
)

const (
	// MetadataTimestamp is the RFC 3339 creation time key.
	MetadataTimestamp = "timestamp"
	// MetadataVersion is the tool version key.
	MetadataVersion = "version"
	// MetadataRunID is the key of the discovery run that produced the document.
	MetadataRunID = "run-id"
)

// String returns the string representation of the Kind.
func (k Kind) String() string {
	return string(k)
}

// IsValid checks if the Kind is one of the recognized kinds.
func (k Kind) IsValid() bool {
	switch k {
	case KindHostMap, KindPoolMembers:
		return true
	default:
		return false
	}
}

// Option is a functional option for configuring Header instances.
type Option func(*Header)

// WithMetadata returns an Option that adds a metadata key-value pair to the Header.
// Empty values are ignored.
func WithMetadata(key, value string) Option {
	return func(h *Header) {
		if value == "" {
			return
		}
		if h.Metadata == nil {
			h.Metadata = make(map[string]string)
		}
		h.Metadata[key] = value
	}
}

// WithRunID records the discovery run id in the metadata.
func WithRunID(id string) Option {
	return WithMetadata(MetadataRunID, id)
}

// WithVersion records the tool version in the metadata.
func WithVersion(version string) Option {
	return WithMetadata(MetadataVersion, version)
}

// GetKind returns the Kind field of the Header.
func (h *Header) GetKind() Kind {
	return h.Kind
}

// GetMetadata returns the Metadata map of the Header.
func (h *Header) GetMetadata() map[string]string {
	return h.Metadata
}

// New creates a Header of the given kind and API version, stamped with the
// current UTC time, and applies opts.
func New(kind Kind, apiVersion string, opts ...Option) Header {
	h := Header{
		Kind:       kind,
		APIVersion: apiVersion,
		Metadata: map[string]string{
			MetadataTimestamp: time.Now().UTC().Format(time.RFC3339),
		},
	}
	for _, opt := range opts {
		opt(&h)
	}
	return h
}

// Header carries Kubernetes-style Kind, APIVersion and free-form metadata.
type Header struct {
	Kind Kind `json:"kind,omitempty" yaml:"kind,omitempty"`

	APIVersion string `json:"apiVersion,omitempty" yaml:"apiVersion,omitempty"`

	Metadata map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}
