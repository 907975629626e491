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

// Package purity classifies functions as deterministic: a call to a deterministic function returns equal results
// when called with equal arguments, and has no effect visible to its caller. Only calls to deterministic functions
// can be represented by receivers.
package purity

import (
	"go/types"

	"github.com/awslabs/argot-flowexpr/analysis/config"
)

// A Classifier decides whether a function is deterministic. Implementations must be safe for concurrent use.
type Classifier interface {
	IsDeterministic(fn types.Object) bool
}

// Func adapts a function to the Classifier interface.
type Func func(types.Object) bool

// IsDeterministic implements Classifier.
func (f Func) IsDeterministic(fn types.Object) bool { return f(fn) }

// None classifies every function as non-deterministic.
func None() Classifier { return Func(func(types.Object) bool { return false }) }

// All classifies every function as deterministic.
func All() Classifier { return Func(func(types.Object) bool { return true }) }

// Union returns a classifier that accepts the functions accepted by any of cs. Nil classifiers are skipped.
func Union(cs ...Classifier) Classifier {
	return Func(func(fn types.Object) bool {
		for _, c := range cs {
			if c != nil && c.IsDeterministic(fn) {
				return true
			}
		}
		return false
	})
}

// FromConfig returns the classifier of the deterministic-functions entries of cfg.
func FromConfig(cfg *config.Config) Classifier {
	return Func(func(fn types.Object) bool {
		pkg, recv, name := Identify(fn)
		return cfg.IsDeterministicFunction(pkg, recv, name)
	})
}

// Identify returns the package path, the receiver type name (empty for functions) and the name of fn. Builtins have
// an empty package path.
func Identify(fn types.Object) (pkg string, recv string, name string) {
	if fn == nil {
		return "", "", ""
	}
	if fn.Pkg() != nil {
		pkg = fn.Pkg().Path()
	}
	if f, ok := fn.(*types.Func); ok {
		if sig, ok := f.Type().(*types.Signature); ok && sig.Recv() != nil {
			recv = recvTypeName(sig.Recv().Type())
		}
	}
	return pkg, recv, fn.Name()
}

func recvTypeName(t types.Type) string {
	if p, ok := t.(*types.Pointer); ok {
		t = p.Elem()
	}
	if n, ok := t.(*types.Named); ok {
		return n.Obj().Name()
	}
	return ""
}

func origin(fn types.Object) types.Object {
	if f, ok := fn.(*types.Func); ok {
		return f.Origin()
	}
	return fn
}
