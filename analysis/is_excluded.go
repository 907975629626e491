// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package analysis

import (
	"path/filepath"
	"strings"

	"golang.org/x/tools/go/ssa"
)

// MakeAbsolute resolves the relative paths of exclude from dir. A relative dir is resolved from the working directory.
func MakeAbsolute(dir string, exclude []string) []string {
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}
	result := make([]string, 0, len(exclude))
	for _, s := range exclude {
		if filepath.IsAbs(s) {
			result = append(result, s)
		} else {
			result = append(result, filepath.Join(dir, s)+suffixOf(s))
		}
	}
	return result
}

// filepath.Join drops the trailing separator that marks a directory prefix
func suffixOf(s string) string {
	if strings.HasSuffix(s, "/") {
		return "/"
	}
	return ""
}

func isExcludedOne(filename string, exclude string) bool {
	switch {
	case strings.HasSuffix(exclude, ".go"):
		return filename == exclude
	case strings.HasSuffix(exclude, "/"):
		return strings.HasPrefix(filename, exclude)
	default:
		return strings.HasPrefix(filename, exclude+"/")
	}
}

// IsExcluded returns true when the file declaring f is excluded. An exclusion ending in .go names a file, an
// exclusion ending with a / is a prefix, and any other exclusion is a directory.
func IsExcluded(program *ssa.Program, f *ssa.Function, exclude []string) bool {
	if len(exclude) == 0 || !f.Pos().IsValid() {
		return false
	}
	filename := program.Fset.Position(f.Pos()).Filename
	for _, e := range exclude {
		if isExcludedOne(filename, e) {
			return true
		}
	}
	return false
}
