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

package hostmap

import "strings"

// NormalizeCollectors parses a CollectorHost attribute value such as
// "cm-1.ospool.osg-htc.org:9618, cm-2.ospool.osg-htc.org:9618 ," into a set
// of bare host names. Ports and surrounding whitespace are dropped, empty
// tokens are discarded.
func NormalizeCollectors(raw string) CollectorSet {
	s := CollectorSet{}
	for _, token := range strings.Split(raw, ",") {
		host, _, _ := strings.Cut(strings.TrimSpace(token), ":")
		s.Add(strings.TrimSpace(host))
	}
	return s
}

// MachineName returns the host part of a schedd identity, i.e. everything after
// the last '@'. Identities without '@' are returned unchanged.
func MachineName(schedd string) string {
	if i := strings.LastIndex(schedd, "@"); i >= 0 {
		return schedd[i+1:]
	}
	return schedd
}
