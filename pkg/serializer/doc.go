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

// Package serializer encodes hostmap documents as JSON, YAML or a table and
// decodes them back.
//
// Writing a document to a file, or to stdout when the path is "" or "-":
//
//	ser := serializer.NewFileWriterOrStdout(serializer.FormatYAML, path)
//	defer ser.Close()
//	if err := ser.Serialize(ctx, doc); err != nil {
//		return err
//	}
//
// Snapshot stores and artifacts work on bytes instead:
//
//	data, err := serializer.Marshal(serializer.FormatJSON, doc)
//	err = serializer.WriteFileAtomic(path, data, 0o644)
//	doc, err := serializer.Unmarshal[hostmap.Document](serializer.FormatJSON, data)
//
// Table output flattens nested values into dotted keys and is never read
// back. WriteFileAtomic replaces a file through a temporary sibling so
// readers see either the old or the new content.
package serializer
