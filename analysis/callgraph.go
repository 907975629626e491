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
	"fmt"
	"strings"

	"github.com/BarrensZeppelin/pointer"
	"golang.org/x/tools/go/callgraph"
	"golang.org/x/tools/go/callgraph/cha"
	"golang.org/x/tools/go/callgraph/rta"
	"golang.org/x/tools/go/callgraph/static"
	"golang.org/x/tools/go/callgraph/vta"
	"golang.org/x/tools/go/ssa"
	"golang.org/x/tools/go/ssa/ssautil"
)

// CallgraphAnalysisMode selects the algorithm computing the call graph used by the purity inference.
type CallgraphAnalysisMode uint64

const (
	ClassHierarchyAnalysis CallgraphAnalysisMode = iota // ClassHierarchyAnalysis is a coarse over-approximation (fast)
	StaticAnalysis                                      // StaticAnalysis is under-approximating (fast)
	RapidTypeAnalysis                                   // RapidTypeAnalysis only keeps the functions reachable from main
	VariableTypeAnalysis                                // VariableTypeAnalysis refines the class hierarchy analysis
	PointerAnalysis                                     // PointerAnalysis is over-approximating (slow)
)

var callgraphModeNames = map[string]CallgraphAnalysisMode{
	"":        ClassHierarchyAnalysis,
	"cha":     ClassHierarchyAnalysis,
	"static":  StaticAnalysis,
	"rta":     RapidTypeAnalysis,
	"vta":     VariableTypeAnalysis,
	"pointer": PointerAnalysis,
}

// ParseCallgraphMode returns the mode named s. The empty string is the class hierarchy analysis.
func ParseCallgraphMode(s string) (CallgraphAnalysisMode, error) {
	mode, ok := callgraphModeNames[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return 0, fmt.Errorf("unsupported call graph analysis %q (expected cha, static, rta, vta or pointer)", s)
	}
	return mode, nil
}

func (mode CallgraphAnalysisMode) String() string {
	switch mode {
	case ClassHierarchyAnalysis:
		return "cha"
	case StaticAnalysis:
		return "static"
	case RapidTypeAnalysis:
		return "rta"
	case VariableTypeAnalysis:
		return "vta"
	case PointerAnalysis:
		return "pointer"
	default:
		return fmt.Sprintf("CallgraphAnalysisMode(%d)", uint64(mode))
	}
}

// ComputeCallgraph computes the call graph of prog using the provided mode.
// The rapid type analysis and the pointer analysis start from the main packages of prog.
func (mode CallgraphAnalysisMode) ComputeCallgraph(prog *ssa.Program) (*callgraph.Graph, error) {
	switch mode {
	case ClassHierarchyAnalysis:
		// "Optimization of Object-Oriented Programs Using Static Class Hierarchy Analysis",
		// J. Dean, D. Grove, and C. Chambers, ECOOP'95.
		return cha.CallGraph(prog), nil
	case StaticAnalysis:
		return static.CallGraph(prog), nil
	case VariableTypeAnalysis:
		return vta.CallGraph(ssautil.AllFunctions(prog), cha.CallGraph(prog)), nil
	case RapidTypeAnalysis:
		// "Fast Analysis of C++ Virtual Function Calls", D.Bacon & P. Sweeney, OOPSLA'96
		var roots []*ssa.Function
		for _, m := range ssautil.MainPackages(prog.AllPackages()) {
			for _, name := range []string{"init", "main"} {
				if f := m.Func(name); f != nil {
					roots = append(roots, f)
				}
			}
		}
		if len(roots) == 0 {
			return nil, fmt.Errorf("rapid type analysis needs a main package")
		}
		return rta.Analyze(roots, true).CallGraph, nil
	case PointerAnalysis:
		if len(ssautil.MainPackages(prog.AllPackages())) == 0 {
			return nil, fmt.Errorf("pointer analysis needs a main package")
		}
		res := pointer.Analyze(pointer.AnalysisConfig{Program: prog})
		return res.CallGraph, nil
	default:
		return nil, fmt.Errorf("unsupported call graph analysis mode %d", uint64(mode))
	}
}
