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

package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/NVIDIA/hostmap/pkg/hostmap"
	"github.com/NVIDIA/hostmap/pkg/serializer"
)

// FileStore keeps the snapshot in a local file. The encoding follows the
// extension: .json is JSON, anything else is YAML.
type FileStore struct {
	path string
}

// NewFileStore returns a FileStore for path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) format() serializer.Format {
	if strings.EqualFold(filepath.Ext(s.path), ".json") {
		return serializer.FormatJSON
	}
	return serializer.FormatYAML
}

// Location returns the file path.
func (s *FileStore) Location() string {
	return s.path
}

// Load reads and decodes the snapshot file.
func (s *FileStore) Load(ctx context.Context) (*hostmap.Document, error) {
	reader, err := serializer.NewFileReader(s.format(), s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", s.path, ErrSnapshotNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot %s: %w", s.path, err)
	}
	defer func() {
		if closeErr := reader.Close(); closeErr != nil {
			slog.Warn("failed to close snapshot", "path", s.path, "error", closeErr)
		}
	}()

	var doc hostmap.Document
	if err := reader.Deserialize(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot %s: %w", s.path, err)
	}
	if err := doc.Validate(); err != nil {
		return nil, fmt.Errorf("invalid snapshot %s: %w", s.path, err)
	}
	return &doc, nil
}

// Save atomically replaces the snapshot file.
func (s *FileStore) Save(ctx context.Context, doc *hostmap.Document) error {
	data, err := encode(s.format(), doc)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create snapshot directory %s: %w", dir, err)
		}
	}

	if err := serializer.WriteFileAtomic(s.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write snapshot %s: %w", s.path, err)
	}
	return nil
}
