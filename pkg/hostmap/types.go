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

package hostmap

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/NVIDIA/hostmap/pkg/header"
)

// APIVersion is the schema version of persisted host map documents.
const APIVersion = "hostmap.osg-htc.org/v1"

// CollectorSet is an unordered set of collector host names.
// It serializes as a sorted list so persisted documents are stable.
type CollectorSet map[string]struct{}

// NewCollectorSet returns a set holding hosts. Empty strings are dropped.
func NewCollectorSet(hosts ...string) CollectorSet {
	s := make(CollectorSet, len(hosts))
	for _, h := range hosts {
		s.Add(h)
	}
	return s
}

// Add inserts host into the set. Empty strings are ignored.
func (s CollectorSet) Add(host string) {
	if host == "" {
		return
	}
	s[host] = struct{}{}
}

// Has reports whether host is in the set.
func (s CollectorSet) Has(host string) bool {
	_, ok := s[host]
	return ok
}

// Len returns the number of hosts in the set.
func (s CollectorSet) Len() int {
	return len(s)
}

// Sorted returns the hosts in lexical order. The result is never nil.
func (s CollectorSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for h := range s {
		out = append(out, h)
	}
	sort.Strings(out)
	return out
}

// Intersects reports whether s and other share at least one host.
func (s CollectorSet) Intersects(other CollectorSet) bool {
	small, large := s, other
	if len(large) < len(small) {
		small, large = large, small
	}
	for h := range small {
		if large.Has(h) {
			return true
		}
	}
	return false
}

// Equal reports whether both sets hold the same hosts. Nil and empty sets are equal.
func (s CollectorSet) Equal(other CollectorSet) bool {
	if len(s) != len(other) {
		return false
	}
	for h := range s {
		if !other.Has(h) {
			return false
		}
	}
	return true
}

// Clone returns an independent copy of the set.
func (s CollectorSet) Clone() CollectorSet {
	out := make(CollectorSet, len(s))
	for h := range s {
		out[h] = struct{}{}
	}
	return out
}

// String implements fmt.Stringer.
func (s CollectorSet) String() string {
	return "{" + strings.Join(s.Sorted(), ", ") + "}"
}

// MarshalJSON encodes the set as a sorted JSON array.
func (s CollectorSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Sorted())
}

// UnmarshalJSON decodes a JSON array of host names. null decodes to an empty set.
func (s *CollectorSet) UnmarshalJSON(data []byte) error {
	var hosts []string
	if err := json.Unmarshal(data, &hosts); err != nil {
		return fmt.Errorf("collector set must be a list of host names: %w", err)
	}
	*s = NewCollectorSet(hosts...)
	return nil
}

// MarshalYAML encodes the set as a sorted YAML sequence.
func (s CollectorSet) MarshalYAML() (any, error) {
	return s.Sorted(), nil
}

// UnmarshalYAML decodes a YAML sequence of host names. null decodes to an empty set.
func (s *CollectorSet) UnmarshalYAML(value *yaml.Node) error {
	var hosts []string
	if err := value.Decode(&hosts); err != nil {
		return fmt.Errorf("collector set must be a list of host names: %w", err)
	}
	*s = NewCollectorSet(hosts...)
	return nil
}

// HostMap maps a scheduler identity to the collectors it reports to.
// A present key with an empty set means the scheduler is known but undiscovered.
type HostMap map[string]CollectorSet

// Clone returns a deep copy of the map.
func (m HostMap) Clone() HostMap {
	out := make(HostMap, len(m))
	for k, v := range m {
		out[k] = v.Clone()
	}
	return out
}

// Keys returns the scheduler identities in lexical order.
func (m HostMap) Keys() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Merge copies every entry of other into m, overwriting existing keys.
func (m HostMap) Merge(other HostMap) {
	for k, v := range other {
		m[k] = v.Clone()
	}
}

// Equal reports whether both maps have the same keys and collector sets.
func (m HostMap) Equal(other HostMap) bool {
	if len(m) != len(other) {
		return false
	}
	for k, v := range m {
		ov, ok := other[k]
		if !ok || !v.Equal(ov) {
			return false
		}
	}
	return true
}

// Document is the persisted form of a HostMap.
type Document struct {
	header.Header `json:",inline" yaml:",inline"`

	// Hosts holds the scheduler to collector mapping.
	Hosts HostMap `json:"hosts" yaml:"hosts"`
}

// NewDocument wraps hm in a HostMap document stamped with the current time.
func NewDocument(hm HostMap, opts ...header.Option) *Document {
	if hm == nil {
		hm = HostMap{}
	}
	return &Document{
		Header: header.New(header.KindHostMap, APIVersion, opts...),
		Hosts:  hm,
	}
}

// Validate checks that a decoded document is a host map.
func (d *Document) Validate() error {
	if d == nil {
		return fmt.Errorf("document is nil")
	}
	if d.Kind != "" && d.Kind != header.KindHostMap {
		return fmt.Errorf("unexpected document kind %q, want %q", d.Kind, header.KindHostMap)
	}
	if d.Hosts == nil {
		d.Hosts = HostMap{}
	}
	for k, v := range d.Hosts {
		if v == nil {
			d.Hosts[k] = CollectorSet{}
		}
	}
	return nil
}
