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
	"golang.org/x/tools/go/ssa"
)

// PackageNameFromFunction returns the path of the package of f. Wrappers and instantiations have no package and are
// attributed to the package of their object. It returns "" for synthetic functions without an object.
func PackageNameFromFunction(f *ssa.Function) string {
	if pkg := f.Package(); pkg != nil {
		return pkg.Pkg.Path()
	}
	if origin := f.Origin(); origin != nil && origin.Package() != nil {
		return origin.Package().Pkg.Path()
	}
	if obj := f.Object(); obj != nil && obj.Pkg() != nil {
		return obj.Pkg().Path()
	}
	return ""
}
