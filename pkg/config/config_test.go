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

package config

import (
	"os"
	"path/filepath"
	"testing"

	cerrors "github.com/NVIDIA/hostmap/pkg/errors"
	"github.com/NVIDIA/hostmap/pkg/hostmap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "cm-1.ospool.osg-htc.org", cfg.PrimaryCollector)
	assert.Equal(t, []string{"cm-1.ospool.osg-htc.org", "cm-2.ospool.osg-htc.org"}, cfg.CandidateCollectors)
	assert.Len(t, cfg.PoolCollectors, 3)
	assert.Len(t, cfg.Overrides, 10)
	assert.Equal(t, DefaultSnapshot, cfg.Snapshot)
	assert.Equal(t, BackendCondorStatus, cfg.Backend)
	assert.Equal(t, 1, cfg.Parallelism)
	assert.False(t, cfg.RediscoverOverrides)
}

func TestDefault_Independent(t *testing.T) {
	a := Default()
	a.Overrides["new.example.org"] = []string{"cm"}
	a.CandidateCollectors[0] = "changed"

	b := Default()
	assert.Len(t, b.Overrides, 10)
	assert.Equal(t, "cm-1.ospool.osg-htc.org", b.CandidateCollectors[0])
}

func TestOverrideMap(t *testing.T) {
	hm := Default().OverrideMap()
	assert.Equal(t,
		hostmap.NewCollectorSet("scicollector.jlab.org", "osg-jlab-1.t2.ucsd.edu"),
		hm["osgsub01.sdcc.bnl.gov"])
	assert.Equal(t, hostmap.NewCollectorSet("htcondor-cm-path.osg.chtc.io"), hm["submit6.chtc.wisc.edu"])
}

func TestParse_Overlay(t *testing.T) {
	cfg, err := Parse([]byte(`
snapshot: cm://ospool/host-map
backend: rest
restEndpoint: https://restd.example.org
parallelism: 4
queryRate: 2.5
rediscoverOverrides: true
`))
	require.NoError(t, err)

	assert.Equal(t, "cm://ospool/host-map", cfg.Snapshot)
	assert.Equal(t, BackendREST, cfg.Backend)
	assert.Equal(t, "https://restd.example.org", cfg.RESTEndpoint)
	assert.Equal(t, 4, cfg.Parallelism)
	assert.InDelta(t, 2.5, cfg.QueryRate, 0.0001)
	assert.True(t, cfg.RediscoverOverrides)

	// untouched keys keep defaults
	assert.Equal(t, DefaultPrimaryCollector, cfg.PrimaryCollector)
	assert.Len(t, cfg.Overrides, 10)
}

func TestParse_OverridesReplaceDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
overrides:
  ap1.example.org: [cm.example.org]
`))
	require.NoError(t, err)
	assert.Equal(t, map[string][]string{"ap1.example.org": {"cm.example.org"}}, cfg.Overrides)

	cfg, err = Parse([]byte("overrides: {}\n"))
	require.NoError(t, err)
	assert.Empty(t, cfg.Overrides)
	assert.NotNil(t, cfg.Overrides)
}

func TestParse_Empty(t *testing.T) {
	cfg, err := Parse([]byte("  \n"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{name: "unknown key", yaml: "collector: cm.example.org\n"},
		{name: "bad backend", yaml: "backend: grpc\n"},
		{name: "parallelism zero", yaml: "parallelism: 0\n"},
		{name: "parallelism string", yaml: "parallelism: many\n"},
		{name: "negative rate", yaml: "queryRate: -1\n"},
		{name: "empty candidates", yaml: "candidateCollectors: []\n"},
		{name: "override not a list", yaml: "overrides:\n  ap1: cm\n"},
		{name: "rest without endpoint", yaml: "backend: rest\n"},
		{name: "bad endpoint scheme", yaml: "restEndpoint: ftp://x\n"},
		{name: "not a mapping", yaml: "- a\n- b\n"},
		{name: "broken yaml", yaml: "snapshot: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
			assert.True(t, cerrors.IsCode(err, cerrors.ErrCodeInvalidRequest), "got %v", err)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hostmap.yaml")
	require.NoError(t, os.WriteFile(path, []byte("snapshot: /var/lib/hostmap/map.json\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/hostmap/map.json", cfg.Snapshot)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
