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

package serializer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path     string
		expected Format
	}{
		{"config.json", FormatJSON},
		{"CONFIG.JSON", FormatJSON},
		{"config.yaml", FormatYAML},
		{"config.yml", FormatYAML},
		{"report.txt", FormatTable},
		{"report.table", FormatTable},
		{"noext", FormatJSON},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatFromPath(tt.path))
		})
	}
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat(" YAML ")
	require.NoError(t, err)
	assert.Equal(t, FormatYAML, f)

	_, err = ParseFormat("xml")
	assert.ErrorContains(t, err, "supported values: json, yaml, table")

	_, err = ParseFormat("")
	assert.Error(t, err)
}

func TestNewReader(t *testing.T) {
	_, err := NewReader(FormatTable, strings.NewReader(""))
	assert.Error(t, err)

	_, err = NewReader(Format("xml"), strings.NewReader(""))
	assert.Error(t, err)

	r, err := NewReader(FormatJSON, strings.NewReader(`{"name":"a","value":3}`))
	require.NoError(t, err)
	var got testConfig
	require.NoError(t, r.Deserialize(&got))
	assert.Equal(t, testConfig{Name: "a", Value: 3}, got)
	assert.NoError(t, r.Close())
}

func TestReader_DeserializeInvalid(t *testing.T) {
	r, err := NewReader(FormatYAML, strings.NewReader("name: [unterminated"))
	require.NoError(t, err)
	var got testConfig
	assert.Error(t, r.Deserialize(&got))

	var nilReader *Reader
	assert.Error(t, nilReader.Deserialize(&got))
	assert.NoError(t, nilReader.Close())
}

func TestUnmarshal(t *testing.T) {
	got, err := Unmarshal[testConfig](FormatYAML, []byte("name: b\nvalue: 7\n"))
	require.NoError(t, err)
	assert.Equal(t, &testConfig{Name: "b", Value: 7}, got)
}

func TestNewFileReader(t *testing.T) {
	dir := t.TempDir()

	yamlPath := filepath.Join(dir, "c.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte("name: y\nvalue: 1\n"), 0o644))
	r, err := NewFileReader(FormatYAML, yamlPath)
	require.NoError(t, err)
	var got testConfig
	require.NoError(t, r.Deserialize(&got))
	assert.Equal(t, testConfig{Name: "y", Value: 1}, got)
	assert.NoError(t, r.Close())
	assert.NoError(t, r.Close(), "second close is a no-op")

	_, err = NewFileReader(FormatJSON, filepath.Join(dir, "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = NewFileReader(FormatTable, yamlPath)
	assert.Error(t, err)
}
