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

package cli

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/hostmap/pkg/condor"
	"github.com/NVIDIA/hostmap/pkg/config"
	"github.com/NVIDIA/hostmap/pkg/hostmap"
	"github.com/NVIDIA/hostmap/pkg/pool"
	"github.com/NVIDIA/hostmap/pkg/serializer"
	"github.com/NVIDIA/hostmap/pkg/store"
)

func readDocument[T any](t *testing.T, path string) (*T, error) {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return serializer.Unmarshal[T](serializer.FormatFromPath(path), data)
}

func TestParseOutputFormat(t *testing.T) {
	tests := []struct {
		format  string
		want    serializer.Format
		wantErr bool
	}{
		{format: "yaml", want: serializer.FormatYAML},
		{format: "json", want: serializer.FormatJSON},
		{format: "table", want: serializer.FormatTable},
		{format: "xml", wantErr: true},
		{format: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			cmd := &cli.Command{
				Flags: []cli.Flag{&cli.StringFlag{Name: flagFormat, Value: tt.format}},
				Action: func(_ context.Context, c *cli.Command) error {
					got, err := parseOutputFormat(c)
					if tt.wantErr {
						assert.Error(t, err)
						return nil
					}
					assert.NoError(t, err)
					assert.Equal(t, tt.want, got)
					return nil
				},
			}
			require.NoError(t, cmd.Run(context.Background(), []string{"test"}))
		})
	}
}

func TestDefaultArtifactPath(t *testing.T) {
	day := time.Date(2026, 10, 19, 23, 30, 0, 0, time.UTC)
	assert.Equal(t, "ospool-aps-2026-10-19.json", defaultArtifactPath(day))
}

func runWithGlobals(t *testing.T, args []string, check func(*cli.Command)) {
	t.Helper()
	cmd := &cli.Command{
		Name:  "test",
		Flags: globalFlags(),
		Action: func(_ context.Context, c *cli.Command) error {
			check(c)
			return nil
		},
	}
	require.NoError(t, cmd.Run(context.Background(), append([]string{"test"}, args...)))
}

func TestLoadConfig_Flags(t *testing.T) {
	runWithGlobals(t, []string{
		"--snapshot", "cm://ospool/host-map",
		"--backend", "rest",
		"--rest-endpoint", "https://restd.example.org",
		"--parallelism", "6",
		"--query-rate", "3.5",
		"--rediscover-overrides",
	}, func(c *cli.Command) {
		cfg, err := loadConfig(c)
		require.NoError(t, err)
		assert.Equal(t, "cm://ospool/host-map", cfg.Snapshot)
		assert.Equal(t, config.BackendREST, cfg.Backend)
		assert.Equal(t, "https://restd.example.org", cfg.RESTEndpoint)
		assert.Equal(t, 6, cfg.Parallelism)
		assert.InDelta(t, 3.5, cfg.QueryRate, 0.001)
		assert.True(t, cfg.RediscoverOverrides)
	})
}

func TestLoadConfig_FileThenFlags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hostmap.yaml")
	require.NoError(t, os.WriteFile(path, []byte("snapshot: from-file.yaml\nparallelism: 2\n"), 0o644))

	runWithGlobals(t, []string{"--config", path, "--parallelism", "5"}, func(c *cli.Command) {
		cfg, err := loadConfig(c)
		require.NoError(t, err)
		assert.Equal(t, "from-file.yaml", cfg.Snapshot)
		assert.Equal(t, 5, cfg.Parallelism)
	})
}

func TestLoadConfig_Env(t *testing.T) {
	t.Setenv("HOSTMAP_SNAPSHOT", "env.json")
	runWithGlobals(t, nil, func(c *cli.Command) {
		cfg, err := loadConfig(c)
		require.NoError(t, err)
		assert.Equal(t, "env.json", cfg.Snapshot)
	})
}

func TestLoadConfig_Invalid(t *testing.T) {
	runWithGlobals(t, []string{"--backend", "rest"}, func(c *cli.Command) {
		_, err := loadConfig(c)
		assert.ErrorContains(t, err, "restEndpoint")
	})
}

func TestNewFactory(t *testing.T) {
	cfg := config.Default()
	cfg.Backend = config.BackendREST
	cfg.RESTEndpoint = "https://restd.example.org"

	f, err := newFactory(cfg)
	require.NoError(t, err)
	assert.IsType(t, &condor.RESTFactory{}, f)

	cfg.QueryRate = 2
	f, err = newFactory(cfg)
	require.NoError(t, err)
	assert.IsType(t, &condor.RateLimitedFactory{}, f)

	cfg.Backend = config.BackendCondorStatus
	cfg.CondorStatus = filepath.Join(t.TempDir(), "no-such-condor_status")
	_, err = newFactory(cfg)
	assert.ErrorIs(t, err, condor.ErrStatusNotFound)
}

func saveSnapshot(t *testing.T, path string, hm hostmap.HostMap) {
	t.Helper()
	require.NoError(t, store.NewFileStore(path).Save(context.Background(), hostmap.NewDocument(hm)))
}

func TestShowCmd(t *testing.T) {
	dir := t.TempDir()
	snap := filepath.Join(dir, "map.yaml")
	out := filepath.Join(dir, "out.json")
	saveSnapshot(t, snap, hostmap.HostMap{"ap1.example.org": hostmap.NewCollectorSet("cm-1.ospool.osg-htc.org")})

	err := newRootCmd().Run(context.Background(), []string{
		"hostmap", "--snapshot", snap, "show", "--format", "json", "--output", out,
	})
	require.NoError(t, err)

	got, err := readDocument[hostmap.Document](t, out)
	require.NoError(t, err)
	assert.Equal(t, hostmap.NewCollectorSet("cm-1.ospool.osg-htc.org"), got.Hosts["ap1.example.org"])
}

func TestShowCmd_MissingSnapshot(t *testing.T) {
	err := newRootCmd().Run(context.Background(), []string{
		"hostmap", "--snapshot", filepath.Join(t.TempDir(), "none.yaml"), "show",
	})
	assert.ErrorIs(t, err, store.ErrSnapshotNotFound)
}

func TestPoolCmd_FromSnapshot(t *testing.T) {
	dir := t.TempDir()
	snap := filepath.Join(dir, "map.yaml")
	saveSnapshot(t, snap, hostmap.HostMap{
		"jupyterlab-x":      hostmap.NewCollectorSet("cm-1.ospool.osg-htc.org"),
		"ap1.example.org":   hostmap.NewCollectorSet("cm-1.ospool.osg-htc.org"),
		"other.example.org": hostmap.NewCollectorSet("some-other-collector"),
	})

	run := func(extra ...string) {
		args := append([]string{"hostmap", "--snapshot", snap, "pool",
			"--from-snapshot", "--output-dir", dir, "--path", "aps/today.json"}, extra...)
		require.NoError(t, newRootCmd().Run(context.Background(), args))
	}

	run()
	artifactPath := filepath.Join(dir, "aps", "today.json")
	got, err := readDocument[pool.Document](t, artifactPath)
	require.NoError(t, err)
	assert.Equal(t, []string{"ap1.example.org"}, got.Members)
	assert.Contains(t, got.NonFairshareResources, "SURFsara")

	// A second run leaves the artifact alone.
	saveSnapshot(t, snap, hostmap.HostMap{"ap2.example.org": hostmap.NewCollectorSet("cm-2.ospool.osg-htc.org")})
	run()
	got, err = readDocument[pool.Document](t, artifactPath)
	require.NoError(t, err)
	assert.Equal(t, []string{"ap1.example.org"}, got.Members)

	run("--force")
	got, err = readDocument[pool.Document](t, artifactPath)
	require.NoError(t, err)
	assert.Equal(t, []string{"ap2.example.org"}, got.Members)
}

// restd serves a single live scheduler known only to cm-2.
func restd(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		type item struct {
			Name    string         `json:"name"`
			Type    string         `json:"type"`
			ClassAd map[string]any `json:"classad"`
		}
		items := []item{}
		switch {
		case q.Get("constraint") == "" && q.Get("pool") == config.DefaultPrimaryCollector:
			items = append(items, item{Name: "ap1.example.org", Type: "Scheduler",
				ClassAd: map[string]any{"Name": "ap1.example.org", "Machine": "ap1.example.org"}})
		case q.Get("pool") == "cm-2.ospool.osg-htc.org" && strings.Contains(q.Get("constraint"), "ap1.example.org"):
			items = append(items, item{Name: "ap1.example.org", Type: "Scheduler",
				ClassAd: map[string]any{"Machine": "ap1.example.org", "CollectorHost": "cm-2.ospool.osg-htc.org:9618"}})
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(items)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestResolveCmd_REST(t *testing.T) {
	srv := restd(t)
	dir := t.TempDir()
	snap := filepath.Join(dir, "ospool-host-map.json")
	out := filepath.Join(dir, "out.yaml")
	metrics := filepath.Join(dir, "hostmap.prom")

	err := newRootCmd().Run(context.Background(), []string{
		"hostmap",
		"--snapshot", snap,
		"--backend", "rest",
		"--rest-endpoint", srv.URL,
		"resolve",
		"--output", out,
		"--metrics-file", metrics,
	})
	require.NoError(t, err)

	doc, err := store.NewFileStore(snap).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, hostmap.NewCollectorSet("cm-2.ospool.osg-htc.org"), doc.Hosts["ap1.example.org"])
	assert.Contains(t, doc.Hosts, "submit6.chtc.wisc.edu", "default overrides are merged")

	printed, err := readDocument[hostmap.Document](t, out)
	require.NoError(t, err)
	assert.True(t, doc.Hosts.Equal(printed.Hosts))

	prom, err := os.ReadFile(metrics)
	require.NoError(t, err)
	assert.Contains(t, string(prom), "hostmap_resolve_total")
}

func TestRootCmd_DefaultsToResolve(t *testing.T) {
	srv := restd(t)
	dir := t.TempDir()
	snap := filepath.Join(dir, "map.yaml")
	metrics := filepath.Join(dir, "hostmap.prom")

	err := newRootCmd().Run(context.Background(), []string{
		"hostmap", "--snapshot", snap, "--backend", "rest", "--rest-endpoint", srv.URL,
		"--metrics-file", metrics,
	})
	require.NoError(t, err)

	doc, err := store.NewFileStore(snap).Load(context.Background())
	require.NoError(t, err)
	assert.Contains(t, doc.Hosts, "ap1.example.org")

	prom, err := os.ReadFile(metrics)
	require.NoError(t, err)
	assert.Contains(t, string(prom), "hostmap_scheduler_outcomes_total")
}

func TestResolveCmd_PersistFailure(t *testing.T) {
	srv := restd(t)
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))

	err := newRootCmd().Run(context.Background(), []string{
		"hostmap", "--snapshot", filepath.Join(blocker, "map.yaml"),
		"--backend", "rest", "--rest-endpoint", srv.URL,
	})
	assert.ErrorContains(t, err, "PERSIST_FAILED")
}
