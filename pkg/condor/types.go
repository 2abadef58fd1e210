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
	"fmt"
	"strings"
)

// AdType selects which daemon ads a query returns.
type AdType string

const (
	// AdTypeSchedd selects schedd (access point) ads.
	AdTypeSchedd AdType = "schedd"
	// AdTypeCollector selects collector ads.
	AdTypeCollector AdType = "collector"
)

// IsValid reports whether t is a supported ad type.
func (t AdType) IsValid() bool {
	switch t {
	case AdTypeSchedd, AdTypeCollector:
		return true
	default:
		return false
	}
}

// Attribute names used by the resolver.
const (
	AttrName          = "Name"
	AttrMachine       = "Machine"
	AttrMyAddress     = "MyAddress"
	AttrCollectorHost = "CollectorHost"
)

// locateProjection is the attribute list returned by LocateAll.
var locateProjection = []string{AttrName, AttrMachine, AttrMyAddress}

// Ad is a single ClassAd as an attribute bag.
type Ad map[string]any

// Get returns the value of attr. ClassAd attribute names are case-insensitive,
// so an exact match is tried first and then a case-folded one.
func (a Ad) Get(attr string) (any, bool) {
	if v, ok := a[attr]; ok {
		return v, true
	}
	for k, v := range a {
		if strings.EqualFold(k, attr) {
			return v, true
		}
	}
	return nil, false
}

// String returns attr as a string. Missing or null attributes report false.
func (a Ad) String(attr string) (string, bool) {
	v, ok := a.Get(attr)
	if !ok || v == nil {
		return "", false
	}
	if s, ok := v.(string); ok {
		return s, true
	}
	return fmt.Sprint(v), true
}

// Directory queries one collector.
type Directory interface {
	// Host returns the collector this directory talks to.
	Host() string

	// LocateAll returns the location ads of every daemon of type t.
	LocateAll(ctx context.Context, t AdType) ([]Ad, error)

	// Query returns ads of type t matching constraint, projected to the given
	// attributes. An empty constraint matches every ad; an empty projection
	// returns all attributes.
	Query(ctx context.Context, t AdType, constraint string, projection []string) ([]Ad, error)
}

// Factory creates a Directory per collector host.
// This interface enables dependency injection for testing.
type Factory interface {
	NewDirectory(host string) Directory
}

// FactoryFunc adapts a function to the Factory interface.
type FactoryFunc func(host string) Directory

// NewDirectory calls f(host).
func (f FactoryFunc) NewDirectory(host string) Directory {
	return f(host)
}

// EqualsConstraint builds the ClassAd expression `attr == "value"` with value
// escaped as a ClassAd string literal.
func EqualsConstraint(attr, value string) string {
	return fmt.Sprintf(`%s == "%s"`, attr, escapeClassAdString(value))
}

func escapeClassAdString(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`)
	return r.Replace(s)
}
