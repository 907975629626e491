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

package canon

import (
	"go/types"
	"sync"

	"github.com/awslabs/argot-flowexpr/analysis/config"
	"github.com/awslabs/argot-flowexpr/analysis/receiver"
)

// An Oracle answers questions about declarations. Its answers must not change during an analysis.
type Oracle interface {
	// IsStatic is true for members that are accessed without an instance: package-level variables, constants and
	// functions, and builtins.
	IsStatic(obj types.Object) bool

	// IsFinal is true for fields and variables that cannot be assigned after their initialization.
	IsFinal(obj types.Object) bool

	// EnclosingType returns the type declaring obj: the named type for fields and methods, the package for
	// package-level members. It returns nil when there is none.
	EnclosingType(obj types.Object) types.Type
}

// TypesOracle is the Oracle of programs type-checked by go/types.
//
// Constants, functions and builtins are final. Variables are final when the configuration lists them in final-fields,
// or when the isFinal function provided at construction returns true.
type TypesOracle struct {
	cfg     *config.Config
	isFinal func(types.Object) bool

	// owners maps struct fields (*types.Var) to the named type declaring them
	owners sync.Map
	// scanned maps packages to the *sync.Once indexing their named types in owners
	scanned sync.Map
}

// NewTypesOracle returns an oracle using the final fields of cfg. isFinal may be nil.
func NewTypesOracle(cfg *config.Config, isFinal func(types.Object) bool) *TypesOracle {
	if cfg == nil {
		cfg = config.NewDefault()
	}
	return &TypesOracle{cfg: cfg, isFinal: isFinal}
}

// IsStatic implements Oracle.
func (o *TypesOracle) IsStatic(obj types.Object) bool {
	switch x := obj.(type) {
	case *types.Var:
		return !x.IsField() && isPackageLevel(x)
	case *types.Const:
		return isPackageLevel(x)
	case *types.Func:
		sig, ok := x.Type().(*types.Signature)
		return ok && sig.Recv() == nil
	case *types.Builtin, *types.TypeName:
		return true
	default:
		return false
	}
}

func isPackageLevel(obj types.Object) bool {
	return obj.Pkg() != nil && obj.Parent() == obj.Pkg().Scope()
}

// IsFinal implements Oracle.
func (o *TypesOracle) IsFinal(obj types.Object) bool {
	switch x := obj.(type) {
	case *types.Const, *types.Func, *types.Builtin, *types.TypeName:
		return true
	case *types.Var:
		if o.isFinal != nil && o.isFinal(x) {
			return true
		}
		pkg := ""
		if x.Pkg() != nil {
			pkg = x.Pkg().Path()
		}
		typeName := ""
		if x.IsField() {
			if named, ok := o.EnclosingType(x).(*types.Named); ok {
				typeName = named.Obj().Name()
			}
		}
		return o.cfg.IsFinalField(pkg, typeName, x.Name())
	default:
		return false
	}
}

// EnclosingType implements Oracle.
func (o *TypesOracle) EnclosingType(obj types.Object) types.Type {
	switch x := obj.(type) {
	case *types.Builtin:
		return receiver.NewPackageType(nil)
	case *types.Func:
		if sig, ok := x.Type().(*types.Signature); ok && sig.Recv() != nil {
			return sig.Recv().Type()
		}
		return packageType(x)
	case *types.Var:
		if x.IsField() {
			return o.fieldOwner(x)
		}
		if isPackageLevel(x) {
			return packageType(x)
		}
		return nil
	case *types.Const, *types.TypeName:
		if isPackageLevel(x) {
			return packageType(x)
		}
		return nil
	default:
		return nil
	}
}

func packageType(obj types.Object) types.Type {
	if obj.Pkg() == nil {
		return nil
	}
	return receiver.NewPackageType(obj.Pkg())
}

// fieldOwner returns the named type that declares f. Fields of anonymous structs have no owner.
func (o *TypesOracle) fieldOwner(f *types.Var) types.Type {
	f = f.Origin()
	if t, ok := o.owners.Load(f); ok {
		return t.(types.Type)
	}
	if f.Pkg() == nil {
		return nil
	}
	once, _ := o.scanned.LoadOrStore(f.Pkg(), new(sync.Once))
	once.(*sync.Once).Do(func() { o.indexFields(f.Pkg()) })
	if t, ok := o.owners.Load(f); ok {
		return t.(types.Type)
	}
	return nil
}

func (o *TypesOracle) indexFields(pkg *types.Package) {
	scope := pkg.Scope()
	for _, name := range scope.Names() {
		tn, ok := scope.Lookup(name).(*types.TypeName)
		if !ok {
			continue
		}
		if st, ok := tn.Type().Underlying().(*types.Struct); ok {
			for i := 0; i < st.NumFields(); i++ {
				o.owners.LoadOrStore(st.Field(i), tn.Type())
			}
		}
	}
}
