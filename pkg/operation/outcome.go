// Copyright 2025 walteh LLC
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

package operation

// 🎯 Outcome records the result of one copy attempt. Err is nil on success;
// a non-nil Err carries the failure reason and leaves Target/Bytes at
// whatever point the attempt reached.
type Outcome struct {
	Source string // source file path
	Target string // resolved destination path, empty if resolution failed
	Key    string // extension key the file classified to
	Bytes  int64  // bytes written to the target
	Err    error  // failure reason, nil on success
}

// ✅ Succeeded reports whether the copy completed.
func (o Outcome) Succeeded() bool {
	return o.Err == nil
}
