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

package purity

import (
	"fmt"
	"go/token"
	"go/types"

	"github.com/awslabs/argot-flowexpr/analysis/config"
	"github.com/awslabs/argot-flowexpr/internal/graphutil"
	"golang.org/x/tools/go/callgraph"
	"golang.org/x/tools/go/callgraph/cha"
	"golang.org/x/tools/go/ssa"
)

// Inferred is a classifier computed from the bodies of the functions of a program.
type Inferred struct {
	base  Classifier
	funcs map[types.Object]bool
}

// IsDeterministic implements Classifier. Functions without a body in the program are classified by the base
// classifier.
func (r *Inferred) IsDeterministic(fn types.Object) bool {
	if fn == nil {
		return false
	}
	return r.funcs[origin(fn)] || r.base.IsDeterministic(fn)
}

// Count returns the number of functions of the program inferred to be deterministic.
func (r *Inferred) Count() int { return len(r.funcs) }

// Infer classifies the functions of prog. A function is deterministic when it
//   - only writes memory it allocated itself,
//   - does not return memory it allocated,
//   - does not communicate on channels or start goroutines, and
//   - only calls deterministic functions, according to base or to this inference.
//
// Recursive functions are deterministic unless some function of their cycle is not.
func Infer(logger *config.LogGroup, prog *ssa.Program, base Classifier) (*Inferred, error) {
	return InferFromCallGraph(logger, cha.CallGraph(prog), base)
}

// InferFromCallGraph is Infer over the call graph cg, whose synthetic nodes are removed. Calls without an edge in cg
// are non-deterministic.
func InferFromCallGraph(logger *config.LogGroup, cg *callgraph.Graph, base Classifier) (*Inferred, error) {
	if base == nil {
		base = None()
	}
	cg.DeleteSyntheticNodes()
	g := graphutil.NewCGraph(cg)
	comps, err := graphutil.BottomUpComponents(g)
	if err != nil {
		return nil, fmt.Errorf("could not order the call graph: %w", err)
	}

	res := &Inferred{base: base, funcs: map[types.Object]bool{}}
	decided := map[*ssa.Function]bool{}
	for _, comp := range comps {
		var nodes []*callgraph.Node
		for _, id := range comp {
			if n := g.IDMap[id].Node; n.Func != nil {
				nodes = append(nodes, n)
			}
		}
		// greatest fixpoint over the component: start optimistic, and remove functions until stable
		current := map[*ssa.Function]bool{}
		for _, n := range nodes {
			current[n.Func] = true
		}
		isDet := func(f *ssa.Function) bool {
			if d, ok := current[f]; ok {
				return d
			}
			if d, ok := decided[f]; ok {
				return d
			}
			return f.Object() != nil && res.IsDeterministic(f.Object())
		}
		for changed := true; changed; {
			changed = false
			for _, n := range nodes {
				if current[n.Func] && !bodyDeterministic(n, base, isDet) {
					current[n.Func] = false
					changed = true
				}
			}
		}
		for f, d := range current {
			decided[f] = d
			if d && f.Object() != nil && f.Blocks != nil {
				res.funcs[origin(f.Object())] = true
				logger.Tracef("%s inferred deterministic", f)
			}
		}
	}
	logger.Debugf("purity inference: %d deterministic functions out of %d", len(res.funcs), len(decided))
	return res, nil
}

func bodyDeterministic(n *callgraph.Node, base Classifier, isDet func(*ssa.Function) bool) bool {
	fn := n.Func
	if fn.Blocks == nil {
		return fn.Object() != nil && base.IsDeterministic(fn.Object())
	}
	callees := map[ssa.CallInstruction][]*ssa.Function{}
	for _, e := range n.Out {
		callees[e.Site] = append(callees[e.Site], e.Callee.Func)
	}

	for _, b := range fn.Blocks {
		for _, instr := range b.Instrs {
			switch x := instr.(type) {
			case *ssa.Store:
				if !allocatedIn(fn, x.Addr) {
					return false
				}
			case *ssa.MapUpdate:
				if !allocatedIn(fn, x.Map) {
					return false
				}
			case *ssa.Go, *ssa.Defer, *ssa.Send, *ssa.Select:
				return false
			case *ssa.UnOp:
				if x.Op == token.ARROW {
					return false
				}
			case *ssa.Return:
				for _, r := range x.Results {
					if isAllocation(r) {
						return false
					}
				}
			case *ssa.Call:
				if !callDeterministic(x, callees[x], base, isDet) {
					return false
				}
			}
		}
	}
	return true
}

func callDeterministic(call *ssa.Call, callees []*ssa.Function, base Classifier, isDet func(*ssa.Function) bool) bool {
	common := call.Common()
	if b, ok := common.Value.(*ssa.Builtin); ok {
		obj := types.Universe.Lookup(b.Name())
		return obj != nil && base.IsDeterministic(obj)
	}
	if common.IsInvoke() && base.IsDeterministic(common.Method) {
		return true
	}
	if len(callees) == 0 {
		return false
	}
	for _, f := range callees {
		if !isDet(f) {
			return false
		}
	}
	return true
}

// allocatedIn returns true when the address v points into memory allocated by fn.
func allocatedIn(fn *ssa.Function, v ssa.Value) bool {
	for {
		switch x := v.(type) {
		case *ssa.FieldAddr:
			v = x.X
		case *ssa.IndexAddr:
			v = x.X
		case *ssa.Slice:
			v = x.X
		case *ssa.Alloc:
			return x.Parent() == fn
		case *ssa.MakeMap, *ssa.MakeSlice:
			return x.Parent() == fn
		default:
			return false
		}
	}
}

func isAllocation(v ssa.Value) bool {
	switch x := v.(type) {
	case *ssa.Alloc, *ssa.MakeSlice, *ssa.MakeMap, *ssa.MakeChan, *ssa.MakeClosure:
		return true
	case *ssa.Slice:
		return isAllocation(x.X)
	case *ssa.MakeInterface:
		return isAllocation(x.X)
	case *ssa.ChangeType:
		return isAllocation(x.X)
	default:
		return false
	}
}
