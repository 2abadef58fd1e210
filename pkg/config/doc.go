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

// Package config loads the hostmap configuration.
//
// A configuration file is YAML. Every key is optional; unset keys keep the
// OSPool defaults from Default:
//
//	primaryCollector: cm-1.ospool.osg-htc.org
//	candidateCollectors:
//	  - cm-1.ospool.osg-htc.org
//	  - cm-2.ospool.osg-htc.org
//	snapshot: cm://ospool/host-map
//	backend: rest
//	restEndpoint: https://htcondor-restd.example.org
//	parallelism: 4
//	queryRate: 10
//	overrides:
//	  submit6.chtc.wisc.edu: [htcondor-cm-path.osg.chtc.io]
//
// Files are checked against an embedded JSON schema before decoding, so
// unknown keys and mistyped values are rejected with INVALID_REQUEST.
package config
