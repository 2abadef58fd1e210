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
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	cerrors "github.com/NVIDIA/hostmap/pkg/errors"
	"github.com/NVIDIA/hostmap/pkg/hostmap"
	"github.com/NVIDIA/hostmap/pkg/pool"
	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

//go:embed schema.json
var schemaJSON []byte

const schemaID = "inmemory://hostmap/config.schema.json"

// Backend selects how collectors are queried.
type Backend string

const (
	// BackendCondorStatus runs the condor_status command line tool.
	BackendCondorStatus Backend = "condor_status"
	// BackendREST queries an htcondor-restd endpoint.
	BackendREST Backend = "rest"
)

// IsValid reports whether b is a known backend.
func (b Backend) IsValid() bool {
	return b == BackendCondorStatus || b == BackendREST
}

const (
	// DefaultPrimaryCollector lists the live schedulers.
	DefaultPrimaryCollector = "cm-1.ospool.osg-htc.org"
	// DefaultSnapshot is the snapshot file used when none is configured.
	DefaultSnapshot = "ospool-host-map.yaml"
	// DefaultCondorStatus is the condor_status binary looked up on PATH.
	DefaultCondorStatus = "condor_status"
)

// Config is the hostmap configuration file.
type Config struct {
	PrimaryCollector    string              `json:"primaryCollector" yaml:"primaryCollector"`
	CandidateCollectors []string            `json:"candidateCollectors" yaml:"candidateCollectors"`
	PoolCollectors      []string            `json:"poolCollectors" yaml:"poolCollectors"`
	NotebookPrefixes    []string            `json:"notebookPrefixes" yaml:"notebookPrefixes"`
	Overrides           map[string][]string `json:"overrides" yaml:"overrides"`
	Snapshot            string              `json:"snapshot" yaml:"snapshot"`
	Backend             Backend             `json:"backend" yaml:"backend"`
	CondorStatus        string              `json:"condorStatus" yaml:"condorStatus"`
	RESTEndpoint        string              `json:"restEndpoint,omitempty" yaml:"restEndpoint,omitempty"`
	Parallelism         int                 `json:"parallelism" yaml:"parallelism"`
	QueryRate           float64             `json:"queryRate" yaml:"queryRate"`
	RediscoverOverrides bool                `json:"rediscoverOverrides" yaml:"rediscoverOverrides"`
}

// Default returns the OSPool configuration.
func Default() *Config {
	return &Config{
		PrimaryCollector: DefaultPrimaryCollector,
		CandidateCollectors: []string{
			"cm-1.ospool.osg-htc.org",
			"cm-2.ospool.osg-htc.org",
		},
		PoolCollectors:   pool.Collectors(),
		NotebookPrefixes: pool.NotebookPrefixes(),
		Overrides:        DefaultOverrides(),
		Snapshot:         DefaultSnapshot,
		Backend:          BackendCondorStatus,
		CondorStatus:     DefaultCondorStatus,
		Parallelism:      1,
	}
}

// DefaultOverrides returns the curated schedulers whose collectors cannot be
// discovered from the OSPool collectors.
func DefaultOverrides() map[string][]string {
	ospool := []string{"cm-1.ospool.osg-htc.org", "cm-2.ospool.osg-htc.org"}
	jlab := []string{"osg-jlab-1.t2.ucsd.edu", "scicollector.jlab.org"}
	return map[string][]string{
		"osg-login2.pace.gatech.edu":     {"osg-login2.pace.gatech.edu"},
		"ce1.opensciencegrid.org":        ospool,
		"login-test.osgconnect.net":      ospool,
		"scosg16.jlab.org":               jlab,
		"scosgdev16.jlab.org":            jlab,
		"submit6.chtc.wisc.edu":          {"htcondor-cm-path.osg.chtc.io"},
		"login-el7.xenon.ci-connect.net": ospool,
		"login.collab.ci-connect.net":    ospool,
		"uclhc-2.ps.uci.edu":             {"uclhc-2.ps.uci.edu"},
		"osgsub01.sdcc.bnl.gov":          jlab,
	}
}

// OverrideMap converts the override table into a HostMap.
func (c *Config) OverrideMap() hostmap.HostMap {
	hm := make(hostmap.HostMap, len(c.Overrides))
	for schedd, collectors := range c.Overrides {
		hm[schedd] = hostmap.NewCollectorSet(collectors...)
	}
	return hm
}

// Validate checks cross-field constraints the schema cannot express.
func (c *Config) Validate() error {
	var problems []string
	if strings.TrimSpace(c.PrimaryCollector) == "" {
		problems = append(problems, "primaryCollector is required")
	}
	if len(c.CandidateCollectors) == 0 {
		problems = append(problems, "at least one candidate collector is required")
	}
	if strings.TrimSpace(c.Snapshot) == "" {
		problems = append(problems, "snapshot is required")
	}
	if !c.Backend.IsValid() {
		problems = append(problems, fmt.Sprintf("unknown backend %q", c.Backend))
	}
	if c.Backend == BackendREST && c.RESTEndpoint == "" {
		problems = append(problems, "restEndpoint is required for the rest backend")
	}
	if c.Parallelism < 1 {
		problems = append(problems, "parallelism must be at least 1")
	}
	if c.QueryRate < 0 {
		problems = append(problems, "queryRate must not be negative")
	}
	if len(problems) > 0 {
		return cerrors.NewWithContext(cerrors.ErrCodeInvalidRequest,
			"invalid configuration: "+strings.Join(problems, "; "),
			map[string]any{"problems": problems})
	}
	return nil
}

// Load reads the YAML file at path, validates it against the embedded schema
// and overlays the keys it sets on Default(). Keys absent from the file keep
// their default value; a present overrides table replaces the default one.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse is Load for in-memory YAML.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if len(bytes.TrimSpace(data)) == 0 {
		return cfg, nil
	}

	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, cerrors.Wrap(cerrors.ErrCodeInvalidRequest, "failed to parse YAML", err)
	}
	doc, err := toJSONValue(raw)
	if err != nil {
		return nil, cerrors.Wrap(cerrors.ErrCodeInvalidRequest, "failed to normalize config", err)
	}
	if err := validateSchema(doc); err != nil {
		return nil, cerrors.Wrap(cerrors.ErrCodeInvalidRequest, "schema validation failed", err)
	}

	var file Config
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, cerrors.Wrap(cerrors.ErrCodeInvalidRequest, "failed to decode config", err)
	}

	present, _ := doc.(map[string]any)
	overlay(cfg, &file, present)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func overlay(dst, src *Config, present map[string]any) {
	has := func(key string) bool {
		_, ok := present[key]
		return ok
	}
	if has("primaryCollector") {
		dst.PrimaryCollector = src.PrimaryCollector
	}
	if has("candidateCollectors") {
		dst.CandidateCollectors = src.CandidateCollectors
	}
	if has("poolCollectors") {
		dst.PoolCollectors = src.PoolCollectors
	}
	if has("notebookPrefixes") {
		dst.NotebookPrefixes = src.NotebookPrefixes
	}
	if has("overrides") {
		dst.Overrides = src.Overrides
		if dst.Overrides == nil {
			dst.Overrides = map[string][]string{}
		}
	}
	if has("snapshot") {
		dst.Snapshot = src.Snapshot
	}
	if has("backend") {
		dst.Backend = src.Backend
	}
	if has("condorStatus") {
		dst.CondorStatus = src.CondorStatus
	}
	if has("restEndpoint") {
		dst.RESTEndpoint = src.RESTEndpoint
	}
	if has("parallelism") {
		dst.Parallelism = src.Parallelism
	}
	if has("queryRate") {
		dst.QueryRate = src.QueryRate
	}
	if has("rediscoverOverrides") {
		dst.RediscoverOverrides = src.RediscoverOverrides
	}
}

// toJSONValue round-trips a YAML value through encoding/json so the schema
// validator sees JSON types.
func toJSONValue(v any) (any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var out any
	if err := dec.Decode(&out); err != nil {
		return nil, err
	}
	return out, nil
}

func validateSchema(doc any) error {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(schemaID, bytes.NewReader(schemaJSON)); err != nil {
		return fmt.Errorf("add schema resource: %w", err)
	}
	schema, err := compiler.Compile(schemaID)
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	return schema.Validate(doc)
}
