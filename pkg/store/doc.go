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

// Package store persists host map snapshots between discovery runs.
//
// A snapshot location is a URI:
//
//	ospool-host-map.yaml                     local file (YAML or JSON by extension)
//	cm://namespace/name                      Kubernetes ConfigMap
//	redis://host:6379/0?key=hostmap:snapshot Redis string key
//
// NewStore picks the backend:
//
//	s, err := store.NewStore("cm://ospool/host-map")
//	doc, err := s.Load(ctx)
//	if errors.Is(err, store.ErrSnapshotNotFound) {
//	    // first run
//	}
//
// Every backend fully replaces the previous snapshot on Save.
package store
