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

package pool

import (
	"testing"

	"github.com/NVIDIA/hostmap/pkg/header"
	"github.com/NVIDIA/hostmap/pkg/hostmap"
	"github.com/stretchr/testify/assert"
)

func TestMembersOf(t *testing.T) {
	hm := hostmap.HostMap{
		"jupyterlab-x":      hostmap.NewCollectorSet("cm-1.ospool.osg-htc.org"),
		"ap1.example.org":   hostmap.NewCollectorSet("cm-1.ospool.osg-htc.org"),
		"other.example.org": hostmap.NewCollectorSet("some-other-collector"),
	}

	assert.Equal(t, []string{"ap1.example.org"}, MembersOf(hm, Collectors()))
}

func TestFilter_Members(t *testing.T) {
	hm := hostmap.HostMap{
		"ap40.uw.osg-htc.org":                hostmap.NewCollectorSet("cm-1.ospool.osg-htc.org", "cm-2.ospool.osg-htc.org"),
		"osg-login2.pace.gatech.edu":         hostmap.NewCollectorSet("cm-2.ospool.osg-htc.org", "osg-login2.pace.gatech.edu"),
		"flock.example.edu":                  hostmap.NewCollectorSet("flock.opensciencegrid.org"),
		"jupyter-notebook-alice.example.org": hostmap.NewCollectorSet("cm-1.ospool.osg-htc.org"),
		"unresolved.example.org":             hostmap.NewCollectorSet(),
		"campus.example.edu":                 hostmap.NewCollectorSet("cm.campus.example.edu"),
	}

	got := NewFilter(Collectors(), nil).Members(hm)
	assert.Equal(t, []string{"ap40.uw.osg-htc.org", "flock.example.edu", "osg-login2.pace.gatech.edu"}, got)

	t.Run("custom prefixes", func(t *testing.T) {
		f := NewFilter(Collectors(), []string{"ap40."})
		got := f.Members(hm)
		assert.NotContains(t, got, "ap40.uw.osg-htc.org")
		assert.Contains(t, got, "jupyter-notebook-alice.example.org")
	})

	t.Run("empty pool", func(t *testing.T) {
		assert.Empty(t, NewFilter(nil, nil).Members(hm))
	})
}

func TestFilter_IsNotebook(t *testing.T) {
	f := NewFilter(Collectors(), nil)
	assert.True(t, f.IsNotebook("jupyterlab-bob"))
	assert.True(t, f.IsNotebook("jupyter-notebook-bob"))
	assert.False(t, f.IsNotebook("ap1.jupyterlab-like.org"))
}

func TestIsFairshareResource(t *testing.T) {
	assert.False(t, IsFairshareResource("SURFsara"))
	assert.False(t, IsFairshareResource("TACC-Frontera-CE2"))
	assert.True(t, IsFairshareResource("UW-Madison-CHTC"))
	assert.True(t, IsFairshareResource(""))
}

func TestNewDocument(t *testing.T) {
	doc := NewDocument(nil, Collectors(), header.WithRunID("r1"))
	assert.Equal(t, header.KindPoolMembers, doc.Kind)
	assert.Equal(t, hostmap.APIVersion, doc.APIVersion)
	assert.NotNil(t, doc.Members)
	assert.Len(t, doc.Collectors, 3)
	assert.Equal(t, "r1", doc.Metadata[header.MetadataRunID])
	assert.Equal(t, NonFairshareResources, doc.NonFairshareResources)

	doc.NonFairshareResources[0] = "changed"
	assert.Equal(t, "SURFsara", NonFairshareResources[0])
}
