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

// Package pool decides which schedulers belong to the OSPool.
package pool

import (
	"sort"
	"strings"

	"github.com/NVIDIA/hostmap/pkg/header"
	"github.com/NVIDIA/hostmap/pkg/hostmap"
)

// Collectors returns the collectors whose schedulers make up the OSPool.
func Collectors() []string {
	return []string{
		"cm-1.ospool.osg-htc.org",
		"cm-2.ospool.osg-htc.org",
		"flock.opensciencegrid.org",
	}
}

// NotebookPrefixes returns the name prefixes of per-user notebook schedulers,
// which are never counted as pool members.
func NotebookPrefixes() []string {
	return []string{"jupyter-notebook-", "jupyterlab-"}
}

// NonFairshareResources lists OSPool resources that do not take part in
// fair-share accounting.
var NonFairshareResources = []string{
	"SURFsara",
	"NIKHEF-ELPROD",
	"INFN-T1",
	"IN2P3-CC",
	"UIUC-ICC-SPT",
	"TACC-Frontera-CE2",
}

// IsFairshareResource reports whether name takes part in fair-share accounting.
func IsFairshareResource(name string) bool {
	for _, r := range NonFairshareResources {
		if r == name {
			return false
		}
	}
	return true
}

// Filter selects pool members from a host map.
type Filter struct {
	collectors hostmap.CollectorSet
	prefixes   []string
}

// NewFilter returns a Filter for the given pool collectors. Nil prefixes
// mean NotebookPrefixes.
func NewFilter(collectors []string, notebookPrefixes []string) *Filter {
	if notebookPrefixes == nil {
		notebookPrefixes = NotebookPrefixes()
	}
	return &Filter{
		collectors: hostmap.NewCollectorSet(collectors...),
		prefixes:   append([]string(nil), notebookPrefixes...),
	}
}

// IsNotebook reports whether schedd is a notebook scheduler.
func (f *Filter) IsNotebook(schedd string) bool {
	for _, p := range f.prefixes {
		if p != "" && strings.HasPrefix(schedd, p) {
			return true
		}
	}
	return false
}

// IsMember reports whether schedd with the given collector set is in the pool.
func (f *Filter) IsMember(schedd string, collectors hostmap.CollectorSet) bool {
	return !f.IsNotebook(schedd) && collectors.Intersects(f.collectors)
}

// Members returns the sorted pool members of hm.
func (f *Filter) Members(hm hostmap.HostMap) []string {
	out := make([]string, 0, len(hm))
	for schedd, set := range hm {
		if f.IsMember(schedd, set) {
			out = append(out, schedd)
		}
	}
	sort.Strings(out)
	return out
}

// MembersOf returns the sorted schedulers of hm reporting to any of
// poolCollectors, notebook schedulers excluded.
func MembersOf(hm hostmap.HostMap, poolCollectors []string) []string {
	return NewFilter(poolCollectors, nil).Members(hm)
}

// Document is the daily pool membership artifact.
type Document struct {
	header.Header `json:",inline" yaml:",inline"`

	// Collectors are the pool collectors membership was computed against.
	Collectors []string `json:"collectors" yaml:"collectors"`

	// Members are the sorted member schedulers.
	Members []string `json:"members" yaml:"members"`

	// NonFairshareResources are the pool resources excluded from fair-share
	// accounting.
	NonFairshareResources []string `json:"nonFairshareResources" yaml:"nonFairshareResources"`
}

// NewDocument builds a PoolMembers document.
func NewDocument(members, collectors []string, opts ...header.Option) *Document {
	if members == nil {
		members = []string{}
	}
	return &Document{
		Header:                header.New(header.KindPoolMembers, hostmap.APIVersion, opts...),
		Collectors:            append([]string(nil), collectors...),
		Members:               members,
		NonFairshareResources: append([]string(nil), NonFairshareResources...),
	}
}
