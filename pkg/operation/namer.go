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

import (
	"fmt"
	"path/filepath"
	"strings"
)

// 📛 ResolveTarget picks a destination path in dir for name that does not
// collide with an existing file, per the supplied existence predicate.
// Collisions rewrite the candidate to {stem}_{n}{ext} for n = 1, 2, 3, …
// until a free name is found; each increment changes the candidate, so the
// loop always terminates.
func ResolveTarget(dir, name string, exists func(string) bool) string {
	for n := 0; ; n++ {
		candidate := nthCandidate(dir, name, n)
		if !exists(candidate) {
			return candidate
		}
	}
}

// nthCandidate returns the n-th disambiguation of name in dir: n == 0 is the
// name itself, n >= 1 inserts _n before the extension.
func nthCandidate(dir, name string, n int) string {
	if n == 0 {
		return filepath.Join(dir, name)
	}
	stem, ext := splitName(name)
	return filepath.Join(dir, fmt.Sprintf("%s_%d%s", stem, n, ext))
}

// splitName splits name into stem and extension using the same dotfile rule
// as the classifier: a leading dot belongs to the stem, so ".bashrc"
// disambiguates to ".bashrc_1" rather than "_1.bashrc".
func splitName(name string) (string, string) {
	trimmed := strings.TrimPrefix(name, ".")
	idx := strings.LastIndex(trimmed, ".")
	if idx < 0 {
		return name, ""
	}
	cut := len(name) - len(trimmed) + idx
	return name[:cut], name[cut:]
}
