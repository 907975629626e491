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

package receiver

import (
	"fmt"
	"go/types"
)

// PackageType is the type of a package used as a static scope: package-level variables are the static fields of
// their package, and package-level functions are its static methods. A nil package stands for the universe scope of
// the builtins.
type PackageType struct {
	pkg *types.Package
}

// NewPackageType returns the scope type of pkg.
func NewPackageType(pkg *types.Package) *PackageType {
	return &PackageType{pkg: pkg}
}

// Package returns the package, or nil for the universe scope.
func (p *PackageType) Package() *types.Package { return p.pkg }

// Underlying implements types.Type.
func (p *PackageType) Underlying() types.Type { return p }

// String implements types.Type. It returns the package path.
func (p *PackageType) String() string {
	if p.pkg == nil {
		return "builtin"
	}
	return p.pkg.Path()
}

// Name is the name the package is referred to by in source.
func (p *PackageType) Name() string {
	if p.pkg == nil {
		return "builtin"
	}
	return p.pkg.Name()
}

// invalidType replaces absent types.
var invalidType = types.Typ[types.Invalid]

func orInvalid(t types.Type) types.Type {
	if t == nil {
		return invalidType
	}
	return t
}

// IsImmutableType returns true when values of type t contain no reference to mutable storage. Copies of such values
// cannot be changed by other code.
//
// Basic types are immutable, except unsafe.Pointer. Arrays and structs are immutable when all their components are.
// Pointers, slices, maps, channels, functions, interfaces and type parameters are not.
func IsImmutableType(t types.Type) bool {
	if t == nil {
		return false
	}
	switch u := t.Underlying().(type) {
	case *types.Basic:
		switch u.Kind() {
		case types.Invalid, types.UnsafePointer, types.UntypedNil:
			return false
		default:
			return true
		}
	case *types.Array:
		return IsImmutableType(u.Elem())
	case *types.Struct:
		for i := 0; i < u.NumFields(); i++ {
			if !IsImmutableType(u.Field(i).Type()) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// typeKey is a fully qualified representation of t.
func typeKey(t types.Type) string {
	return types.TypeString(t, nil)
}

// typeName is the representation of t printed in receivers: packages are qualified by their name.
func typeName(t types.Type) string {
	if pt, ok := t.(*PackageType); ok {
		return pt.Name()
	}
	return types.TypeString(t, func(p *types.Package) string { return p.Name() })
}

// origin returns the generic declaration of instantiated functions and fields.
func origin(obj types.Object) types.Object {
	switch o := obj.(type) {
	case *types.Func:
		return o.Origin()
	case *types.Var:
		return o.Origin()
	}
	return obj
}

// objectKey identifies a declared object by package, name and declaration position.
func objectKey(obj types.Object) string {
	if obj == nil {
		return "<nil>"
	}
	obj = origin(obj)
	pkg := ""
	if obj.Pkg() != nil {
		pkg = obj.Pkg().Path()
	}
	return fmt.Sprintf("%s.%s@%d", pkg, obj.Name(), obj.Pos())
}

// SameObject returns true if a and b refer to the same declaration. Instances of generic functions are the same
// object as their generic declaration.
func SameObject(a, b types.Object) bool {
	if a == nil || b == nil {
		return a == b
	}
	return origin(a) == origin(b) || objectKey(a) == objectKey(b)
}
