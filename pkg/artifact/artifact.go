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

// Package artifact writes daily output documents without clobbering them.
//
// Write is idempotent per file: a second call for the same path is a no-op
// unless overwrite is set.
//
//	written, err := artifact.Write(ctx, doc, "/srv/reports", "ospool-aps-2026-10-19.json", false)
package artifact

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	cerrors "github.com/NVIDIA/hostmap/pkg/errors"
	"github.com/NVIDIA/hostmap/pkg/serializer"
)

// Write serializes doc to directory/relativePath and reports whether the
// file was written. An existing file is left alone unless overwrite is true.
// The format follows the extension (YAML for .yaml and .yml, table for .txt,
// JSON otherwise). Missing parent directories are created.
func Write(ctx context.Context, doc any, directory, relativePath string, overwrite bool) (bool, error) {
	path, err := resolvePath(directory, relativePath)
	if err != nil {
		return false, err
	}

	if !overwrite {
		_, err := os.Stat(path)
		if err == nil {
			slog.Debug("artifact exists, skipping write", "path", path)
			return false, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return false, fmt.Errorf("failed to stat %s: %w", path, err)
		}
	}

	if err := ctx.Err(); err != nil {
		return false, err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, fmt.Errorf("failed to create directory for %s: %w", path, err)
	}

	data, err := serializer.Marshal(serializer.FormatFromPath(path), doc)
	if err != nil {
		return false, fmt.Errorf("failed to serialize %s: %w", path, err)
	}

	if err := serializer.WriteFileAtomic(path, data, 0o644); err != nil {
		return false, err
	}

	slog.Info("artifact written", "path", path, "bytes", len(data))
	return true, nil
}

// resolvePath joins directory and relativePath, refusing paths that leave
// directory.
func resolvePath(directory, relativePath string) (string, error) {
	if strings.TrimSpace(relativePath) == "" {
		return "", cerrors.New(cerrors.ErrCodeInvalidRequest, "artifact path is empty")
	}
	if filepath.IsAbs(relativePath) {
		return "", cerrors.NewWithContext(cerrors.ErrCodeInvalidRequest,
			"artifact path must be relative", map[string]any{"path": relativePath})
	}
	clean := filepath.Clean(relativePath)
	if clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", cerrors.NewWithContext(cerrors.ErrCodeInvalidRequest,
			"artifact path escapes the output directory", map[string]any{"path": relativePath})
	}
	if directory == "" {
		directory = "."
	}
	return filepath.Join(directory, clean), nil
}
