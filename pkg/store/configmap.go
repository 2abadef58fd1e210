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
	"fmt"
	"log/slog"
	"strings"

	"github.com/NVIDIA/hostmap/pkg/defaults"
	"github.com/NVIDIA/hostmap/pkg/header"
	"github.com/NVIDIA/hostmap/pkg/hostmap"
	"github.com/NVIDIA/hostmap/pkg/k8s/client"
	"github.com/NVIDIA/hostmap/pkg/serializer"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	accorev1 "k8s.io/client-go/applyconfigurations/core/v1"
)

const (
	configMapFieldManager = "hostmap"
	configMapFormatKey    = "format"
	configMapTimestampKey = "timestamp"
	configMapDataPrefix   = "hostmap."
)

// ConfigMapStore keeps the snapshot in a Kubernetes ConfigMap under
// data["hostmap.yaml"] (or hostmap.json), next to "format" and "timestamp".
type ConfigMapStore struct {
	client    client.Interface
	namespace string
	name      string
	format    serializer.Format
}

// NewConfigMapStore returns a store writing to namespace/name.
func NewConfigMapStore(c client.Interface, namespace, name string, format serializer.Format) *ConfigMapStore {
	if format != serializer.FormatJSON {
		format = serializer.FormatYAML
	}
	return &ConfigMapStore{
		client:    c,
		namespace: namespace,
		name:      name,
		format:    format,
	}
}

// Location returns the cm:// URI of the store.
func (s *ConfigMapStore) Location() string {
	return ConfigMapURIScheme + s.namespace + "/" + s.name
}

// Load reads the snapshot from the ConfigMap.
func (s *ConfigMapStore) Load(ctx context.Context) (*hostmap.Document, error) {
	readCtx, cancel := context.WithTimeout(ctx, defaults.ConfigMapReadTimeout)
	defer cancel()

	cm, err := s.client.CoreV1().ConfigMaps(s.namespace).Get(readCtx, s.name, metav1.GetOptions{})
	if apierrors.IsNotFound(err) {
		return nil, fmt.Errorf("%s: %w", s.Location(), ErrSnapshotNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get ConfigMap %s/%s: %w", s.namespace, s.name, err)
	}

	format := serializer.FormatYAML
	if f, ok := cm.Data[configMapFormatKey]; ok && !serializer.Format(f).IsUnknown() {
		format = serializer.Format(f)
	}

	content, ok := cm.Data[configMapDataPrefix+format.Extension()]
	if !ok {
		return nil, fmt.Errorf("%s has no %s%s key: %w",
			s.Location(), configMapDataPrefix, format.Extension(), ErrSnapshotNotFound)
	}

	doc, err := decode(format, []byte(content))
	if err != nil {
		return nil, fmt.Errorf("failed to decode snapshot in %s: %w", s.Location(), err)
	}
	return doc, nil
}

// Save applies the snapshot with Server-Side Apply, creating the ConfigMap
// if needed and taking ownership of the data fields.
func (s *ConfigMapStore) Save(ctx context.Context, doc *hostmap.Document) error {
	writeCtx, cancel := context.WithTimeout(ctx, defaults.ConfigMapWriteTimeout)
	defer cancel()

	content, err := encode(s.format, doc)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	metadata := doc.GetMetadata()
	version := metadata[header.MetadataVersion]
	if version == "" {
		version = "unknown"
	}

	data := map[string]string{
		configMapDataPrefix + s.format.Extension(): string(content),
		configMapFormatKey:                         string(s.format),
		configMapTimestampKey:                      metadata[header.MetadataTimestamp],
	}

	cm := accorev1.ConfigMap(s.name, s.namespace).
		WithLabels(map[string]string{
			"app.kubernetes.io/name":      "hostmap",
			"app.kubernetes.io/component": strings.ToLower(doc.GetKind().String()),
			"app.kubernetes.io/version":   sanitizeLabel(version),
		}).
		WithData(data)

	slog.Debug("applying ConfigMap",
		"namespace", s.namespace,
		"name", s.name,
		"format", s.format,
		"hosts", len(doc.Hosts))

	_, err = s.client.CoreV1().ConfigMaps(s.namespace).Apply(writeCtx, cm, metav1.ApplyOptions{
		FieldManager: configMapFieldManager,
		Force:        true,
	})
	if err != nil {
		return fmt.Errorf("failed to apply ConfigMap %s/%s: %w", s.namespace, s.name, err)
	}
	return nil
}

// sanitizeLabel maps a version string onto the label value charset.
func sanitizeLabel(v string) string {
	b := []byte(v)
	for i, c := range b {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '-', c == '_', c == '.':
		default:
			b[i] = '_'
		}
	}
	out := strings.Trim(string(b), "-_.")
	if len(out) > 63 {
		out = strings.TrimRight(out[:63], "-_.")
	}
	return out
}

// ParseConfigMapURI splits cm://namespace/name into its parts.
func ParseConfigMapURI(uri string) (namespace, name string, err error) {
	if !strings.HasPrefix(uri, ConfigMapURIScheme) {
		return "", "", fmt.Errorf("invalid ConfigMap URI: must start with %s", ConfigMapURIScheme)
	}

	parts := strings.SplitN(strings.TrimPrefix(uri, ConfigMapURIScheme), "/", 2)
	if len(parts) != 2 {
		return "", "", fmt.Errorf("invalid ConfigMap URI format: expected %snamespace/name, got %s", ConfigMapURIScheme, uri)
	}

	namespace = strings.TrimSpace(parts[0])
	name = strings.TrimSpace(parts[1])
	if namespace == "" {
		return "", "", fmt.Errorf("invalid ConfigMap URI: namespace cannot be empty")
	}
	if name == "" {
		return "", "", fmt.Errorf("invalid ConfigMap URI: name cannot be empty")
	}
	return namespace, name, nil
}
