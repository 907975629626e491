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

// Package analysis loads the programs whose expressions are canonicalized, and selects the call graphs and functions
// the analyses run on.
package analysis

import (
	"fmt"
	"go/token"
	"os"
	"sort"
	"strings"

	"golang.org/x/tools/go/packages"
	"golang.org/x/tools/go/ssa"
	"golang.org/x/tools/go/ssa/ssautil"
)

// PkgLoadMode is the default loading mode: the canonicalization needs the syntax and the type information of every
// package.
const PkgLoadMode = packages.NeedName |
	packages.NeedFiles |
	packages.NeedCompiledGoFiles |
	packages.NeedImports |
	packages.NeedDeps |
	packages.NeedExportFile |
	packages.NeedTypes |
	packages.NeedSyntax |
	packages.NeedTypesInfo |
	packages.NeedTypesSizes |
	packages.NeedModule

// maxReportedErrors bounds the package errors listed in the error of LoadProgram
const maxReportedErrors = 10

// LoadedProgram represents a loaded program.
type LoadedProgram struct {
	// Program is the SSA version of the program, built with debug information.
	Program *ssa.Program
	// Packages is the list of the packages matched by the patterns, with their syntax and type information.
	Packages []*packages.Package
}

// LoadProgram loads the packages matching args on platform (the host platform when empty), and builds the SSA of the
// whole program in buildmode. To understand how to specify the args, look at the documentation of packages.Load.
//
// The SSA is always built with ssa.GlobalDebug: the canonicalization of SSA values needs the debug references to
// recover the source variables of registers.
func LoadProgram(config *packages.Config,
	platform string,
	buildmode ssa.BuilderMode,
	args []string) (LoadedProgram, error) {

	if config == nil {
		config = &packages.Config{Mode: PkgLoadMode}
	}
	if config.Fset == nil {
		config.Fset = token.NewFileSet()
	}
	if platform != "" {
		config.Env = append(os.Environ(), "GOOS="+platform)
	}

	initial, err := packages.Load(config, args...)
	if err != nil {
		return LoadedProgram{}, fmt.Errorf("failed to load packages: %w", err)
	}
	if len(initial) == 0 {
		return LoadedProgram{}, fmt.Errorf("no packages match %s", strings.Join(args, " "))
	}
	if err := packageErrors(initial); err != nil {
		return LoadedProgram{}, err
	}

	program, ssaPackages := ssautil.AllPackages(initial, buildmode|ssa.GlobalDebug)
	for i, p := range ssaPackages {
		if p == nil {
			return LoadedProgram{}, fmt.Errorf("cannot build SSA for package %s", initial[i])
		}
	}
	program.Build()

	return LoadedProgram{Program: program, Packages: initial}, nil
}

// packageErrors returns an error listing the errors of pkgs and their dependencies, or nil if there are none.
func packageErrors(pkgs []*packages.Package) error {
	var msgs []string
	count := 0
	packages.Visit(pkgs, nil, func(p *packages.Package) {
		for _, e := range p.Errors {
			count++
			if len(msgs) < maxReportedErrors {
				msgs = append(msgs, e.Error())
			}
		}
	})
	if count == 0 {
		return nil
	}
	if count > len(msgs) {
		msgs = append(msgs, fmt.Sprintf("and %d more", count-len(msgs)))
	}
	return fmt.Errorf("%d errors in packages:\n\t%s", count, strings.Join(msgs, "\n\t"))
}

// AllPackages returns the packages of the functions in funcs, sorted by path.
func AllPackages(funcs map[*ssa.Function]bool) []*ssa.Package {
	set := map[*ssa.Package]bool{}
	var res []*ssa.Package
	for f := range funcs {
		if p := f.Package(); p != nil && !set[p] {
			set[p] = true
			res = append(res, p)
		}
	}
	sort.Slice(res, func(i, j int) bool { return res[i].Pkg.Path() < res[j].Pkg.Path() })
	return res
}
