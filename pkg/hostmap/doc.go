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

// Package hostmap defines the scheduler-to-collector data model.
//
// A HostMap maps an HTCondor schedd identity (for example
// "ap40.uw.osg-htc.org" or "jupyter-notebook-x@ap.example.org") to the set of
// collector host names it reports to. A key with an empty CollectorSet is a
// schedd that was seen but whose collectors could not be discovered; such keys
// are kept so the set of known schedds only grows across runs.
//
// CollectorHost attribute values are normalized with NormalizeCollectors:
//
//	hostmap.NormalizeCollectors("cm-1.ospool.osg-htc.org:9618, cm-2.ospool.osg-htc.org:9618 ,")
//	// {cm-1.ospool.osg-htc.org, cm-2.ospool.osg-htc.org}
//
// Document wraps a HostMap with a header for persistence. Collector sets are
// written as sorted lists so successive snapshots diff cleanly.
package hostmap
