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
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
)

// Format names an encoding for host map and pool documents.
type Format string

const (
	// FormatJSON is indented JSON. Artifacts default to it.
	FormatJSON Format = "json"
	// FormatYAML is the snapshot default.
	FormatYAML Format = "yaml"
	// FormatTable is a write-only two column listing for terminals.
	FormatTable Format = "table"
)

// SupportedFormats lists the accepted --format values.
func SupportedFormats() []string {
	return []string{
		string(FormatJSON),
		string(FormatYAML),
		string(FormatTable),
	}
}

// ParseFormat accepts a case-insensitive format name.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	if f.IsUnknown() {
		return "", fmt.Errorf("unknown format %q, supported values: %s", s, strings.Join(SupportedFormats(), ", "))
	}
	return f, nil
}

// IsUnknown reports whether f is not one of the supported formats.
func (f Format) IsUnknown() bool {
	switch f {
	case FormatJSON, FormatYAML, FormatTable:
		return false
	default:
		return true
	}
}

// Extension returns the file extension used for f, without the dot.
func (f Format) Extension() string {
	switch f {
	case FormatYAML:
		return "yaml"
	case FormatTable:
		return "txt"
	default:
		return "json"
	}
}

// FormatFromPath picks the format for a file name: .yaml and .yml are YAML,
// .txt and .table are table output, everything else is JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".txt", ".table":
		return FormatTable
	case ".json":
		return FormatJSON
	default:
		slog.Debug("unknown file extension, defaulting to JSON", "path", path)
		return FormatJSON
	}
}

// Serializer writes a document somewhere. Writers backed by files also
// implement Closer.
type Serializer interface {
	Serialize(ctx context.Context, doc any) error
}

// Closer releases the destination of a Serializer.
type Closer interface {
	Close() error
}
