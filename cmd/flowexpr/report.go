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

package main

import (
	"fmt"
	"go/types"
	"io"
	"sort"
	"strings"

	"github.com/awslabs/argot-flowexpr/analysis"
	"github.com/awslabs/argot-flowexpr/analysis/astfuncs"
	"github.com/awslabs/argot-flowexpr/analysis/config"
	"github.com/awslabs/argot-flowexpr/analysis/flowexpr"
	"github.com/awslabs/argot-flowexpr/analysis/receiver"
	"github.com/awslabs/argot-flowexpr/internal/formatutil"
	"golang.org/x/tools/go/ssa"
	"golang.org/x/tools/go/ssa/ssautil"
)

// selectFunctions returns the source functions of the packages matched by the command line that pass the package
// filter of cfg, sorted by name. Closures are reported with their enclosing function.
func selectFunctions(cfg *config.Config, program analysis.LoadedProgram) []*ssa.Function {
	initial := map[*types.Package]bool{}
	for _, p := range program.Packages {
		initial[p.Types] = true
	}
	exclude := analysis.MakeAbsolute(cfg.RelPath(""), cfg.Exclude)
	var fns []*ssa.Function
	for fn := range ssautil.AllFunctions(program.Program) {
		if fn.Pkg == nil || !initial[fn.Pkg.Pkg] || fn.Synthetic != "" || fn.Parent() != nil {
			continue
		}
		if analysis.IsExcluded(program.Program, fn, exclude) {
			continue
		}
		if cfg.MatchPkgFilter(fn.Pkg.Pkg.Path()) {
			fns = append(fns, fn)
		}
	}
	sort.Slice(fns, func(i, j int) bool { return fns[i].String() < fns[j].String() })
	return fns
}

type reportPrinter struct {
	engine      *flowexpr.Engine
	out         io.Writer
	showUnknown bool
	goSyntax    bool
}

func (p reportPrinter) print(fns []*ssa.Function, results map[*ssa.Function][]flowexpr.Result) error {
	for _, fn := range fns {
		var lines []string
		for _, r := range results[fn] {
			if receiver.ContainsUnknown(r.Receiver) && !p.showUnknown {
				continue
			}
			lines = append(lines, p.resultLine(fn, r))
		}
		posts, err := p.postconditions(fn)
		if err != nil {
			return err
		}
		lines = append(lines, posts...)
		if len(lines) == 0 {
			continue
		}
		fmt.Fprintf(p.out, "%s\n", formatutil.Bold(fn.String()))
		for _, l := range lines {
			fmt.Fprintf(p.out, "  %s\n", l)
		}
	}
	return nil
}

func (p reportPrinter) resultLine(fn *ssa.Function, r flowexpr.Result) string {
	return fmt.Sprintf("%s %s -> %s", r.Position, formatutil.Sanitize(r.Expr), p.receiver(fn, r.Receiver))
}

func (p reportPrinter) postconditions(fn *ssa.Function) ([]string, error) {
	obj, ok := fn.Object().(*types.Func)
	if !ok {
		return nil, nil
	}
	posts, err := p.engine.Ensures(obj)
	if err != nil {
		return nil, err
	}
	var lines []string
	for _, post := range posts {
		lines = append(lines, fmt.Sprintf("%s %s -> %s", formatutil.Cyan("ensures"), formatutil.Sanitize(post.Expr),
			p.receiver(fn, post.Receiver)))
	}
	return lines, nil
}

// receiver formats r with its kind and predicates.
func (p reportPrinter) receiver(fn *ssa.Function, r receiver.Receiver) string {
	if receiver.ContainsUnknown(r) {
		return formatutil.Faint("?")
	}
	text := r.String()
	if p.goSyntax {
		s, err := printerOf(fn).Format(r)
		if err != nil {
			text = formatutil.Yellow(err.Error())
		} else {
			text = s
		}
	}
	var flags []string
	if r.IsUnmodifiableByOtherCode() {
		flags = append(flags, "unmodifiable")
	} else if r.IsUnassignableByOtherCode() {
		flags = append(flags, "unassignable")
	}
	res := fmt.Sprintf("%s %s", formatutil.Green(text), formatutil.Faint("[", r.Kind(), "]"))
	if len(flags) > 0 {
		res += " " + formatutil.Faint(strings.Join(flags, ","))
	}
	return res
}

// printerOf returns the printer of the expressions of fn: its method receiver is named as in the declaration, and
// members of its package are not qualified.
func printerOf(fn *ssa.Function) astfuncs.Printer {
	pr := astfuncs.Printer{}
	if recv := fn.Signature.Recv(); recv != nil && recv.Name() != "" && recv.Name() != "_" {
		pr.This = recv.Name()
	}
	if fn.Pkg != nil {
		own := fn.Pkg.Pkg
		pr.Qualifier = func(p *types.Package) string {
			if p == own {
				return ""
			}
			return p.Name()
		}
	}
	return pr
}
