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

package store

import (
	"go/types"
	"sync"

	"github.com/BarrensZeppelin/pointer"
	"github.com/awslabs/argot-flowexpr/analysis/receiver"
	"golang.org/x/tools/go/ssa"
)

// TypeAliasOracle answers alias queries with the types of the receivers only: two receivers may alias when they have
// the same type, or when both are references and one is assignable to the other.
type TypeAliasOracle struct{}

// CanAlias implements receiver.AliasStore.
func (TypeAliasOracle) CanAlias(a, b receiver.Receiver) bool {
	ta, tb := a.Type(), b.Type()
	if isScope(ta) || isScope(tb) {
		return false
	}
	if isInvalid(ta) || isInvalid(tb) {
		return true
	}
	if types.Identical(ta, tb) {
		return true
	}
	return pointer.PointerLike(ta) && pointer.PointerLike(tb) &&
		(types.AssignableTo(ta, tb) || types.AssignableTo(tb, ta))
}

func isScope(t types.Type) bool {
	_, ok := t.(*receiver.PackageType)
	return ok
}

func isInvalid(t types.Type) bool {
	b, ok := t.(*types.Basic)
	return ok && b.Kind() == types.Invalid
}

// PointsToAliasOracle answers alias queries with the result of a points-to analysis of the program. Receivers must be
// registered with the SSA values they were computed from; queries on receivers without registered values, or whose
// values have no points-to information, fall back on the types.
type PointsToAliasOracle struct {
	result pointer.Result
	types  TypeAliasOracle

	mu     sync.RWMutex
	values map[string][]ssa.Value
}

// NewPointsToAliasOracle analyzes prog. The roots of the analysis are the main packages and all the methods of the
// runtime types of prog.
func NewPointsToAliasOracle(prog *ssa.Program) *PointsToAliasOracle {
	return &PointsToAliasOracle{
		result: pointer.Analyze(pointer.AnalysisConfig{Program: prog, TreatMethodsAsRoots: true}),
		values: map[string][]ssa.Value{},
	}
}

// Register records that the value v is denoted by r.
func (o *PointsToAliasOracle) Register(r receiver.Receiver, v ssa.Value) {
	if r == nil || v == nil || !pointer.PointerLike(v.Type()) {
		return
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	o.values[r.Key()] = append(o.values[r.Key()], v)
}

// CanAlias implements receiver.AliasStore.
func (o *PointsToAliasOracle) CanAlias(a, b receiver.Receiver) bool {
	if !o.types.CanAlias(a, b) {
		return false
	}
	o.mu.RLock()
	va, vb := o.values[a.Key()], o.values[b.Key()]
	o.mu.RUnlock()
	if len(va) == 0 || len(vb) == 0 {
		return true
	}
	for _, x := range va {
		px := o.result.Pointer(x)
		if len(px.PointsTo()) == 0 {
			return true
		}
		for _, y := range vb {
			py := o.result.Pointer(y)
			if len(py.PointsTo()) == 0 || px.MayAlias(py) {
				return true
			}
		}
	}
	return false
}
