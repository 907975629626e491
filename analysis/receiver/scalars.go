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
	"go/constant"
	"go/types"
)

// ThisReference is the receiver of the enclosing method. All ThisReference values are equal.
type ThisReference struct {
	typ types.Type
}

// NewThisReference returns the receiver of a method whose receiver has type typ.
func NewThisReference(typ types.Type) *ThisReference {
	return &ThisReference{typ: orInvalid(typ)}
}

func (t *ThisReference) Type() types.Type { return t.typ }

func (t *ThisReference) Kind() Kind { return KindThisReference }

func (t *ThisReference) Equal(other Receiver) bool {
	_, ok := other.(*ThisReference)
	return ok
}

func (t *ThisReference) Key() string { return "this" }

func (t *ThisReference) ContainsOfKind(k Kind) bool { return k == KindThisReference }

func (t *ThisReference) IsUnassignableByOtherCode() bool { return true }

func (t *ThisReference) IsUnmodifiableByOtherCode() bool { return IsImmutableType(t.typ) }

func (t *ThisReference) SyntacticEquals(other Receiver) bool { return t.Equal(other) }

func (t *ThisReference) ContainsSyntacticEqualReceiver(other Receiver) bool {
	return t.SyntacticEquals(other)
}

func (t *ThisReference) ContainsModifiableAliasOf(AliasStore, Receiver) bool { return false }

func (t *ThisReference) String() string { return "this" }

func (t *ThisReference) sealed() {}

// ClassName is a type used as a static scope. The type is a *PackageType for package-level members.
type ClassName struct {
	typ types.Type
}

// NewClassName returns the static scope of typ.
func NewClassName(typ types.Type) *ClassName {
	return &ClassName{typ: orInvalid(typ)}
}

// NewPackageScope returns the static scope of the package-level members of pkg.
func NewPackageScope(pkg *types.Package) *ClassName {
	return &ClassName{typ: NewPackageType(pkg)}
}

func (c *ClassName) Type() types.Type { return c.typ }

func (c *ClassName) Kind() Kind { return KindClassName }

func (c *ClassName) Equal(other Receiver) bool {
	o, ok := other.(*ClassName)
	return ok && typeKey(c.typ) == typeKey(o.typ)
}

func (c *ClassName) Key() string { return "C(" + typeKey(c.typ) + ")" }

func (c *ClassName) ContainsOfKind(k Kind) bool { return k == KindClassName }

func (c *ClassName) IsUnassignableByOtherCode() bool { return true }

func (c *ClassName) IsUnmodifiableByOtherCode() bool { return true }

func (c *ClassName) SyntacticEquals(other Receiver) bool { return c.Equal(other) }

func (c *ClassName) ContainsSyntacticEqualReceiver(other Receiver) bool { return c.SyntacticEquals(other) }

func (c *ClassName) ContainsModifiableAliasOf(AliasStore, Receiver) bool { return false }

func (c *ClassName) String() string { return typeName(c.typ) }

func (c *ClassName) sealed() {}

// ValueLiteral is a compile-time constant. A nil value is the nil literal.
type ValueLiteral struct {
	typ   types.Type
	value constant.Value
}

// NewValueLiteral returns the literal value of type typ. value is nil for the nil literal.
func NewValueLiteral(typ types.Type, value constant.Value) *ValueLiteral {
	return &ValueLiteral{typ: orInvalid(typ), value: value}
}

// Value returns the constant, or nil for the nil literal.
func (v *ValueLiteral) Value() constant.Value { return v.value }

// IsNil is true for the nil literal.
func (v *ValueLiteral) IsNil() bool { return v.value == nil }

func (v *ValueLiteral) Type() types.Type { return v.typ }

func (v *ValueLiteral) Kind() Kind { return KindValueLiteral }

func (v *ValueLiteral) valueKey() string {
	if v.value == nil {
		return "nil"
	}
	return v.value.Kind().String() + ":" + v.value.ExactString()
}

func (v *ValueLiteral) Equal(other Receiver) bool {
	o, ok := other.(*ValueLiteral)
	return ok && typeKey(v.typ) == typeKey(o.typ) && v.valueKey() == o.valueKey()
}

func (v *ValueLiteral) Key() string { return "V(" + typeKey(v.typ) + "," + v.valueKey() + ")" }

func (v *ValueLiteral) ContainsOfKind(k Kind) bool { return k == KindValueLiteral }

func (v *ValueLiteral) IsUnassignableByOtherCode() bool { return true }

func (v *ValueLiteral) IsUnmodifiableByOtherCode() bool { return true }

func (v *ValueLiteral) SyntacticEquals(other Receiver) bool { return v.Equal(other) }

func (v *ValueLiteral) ContainsSyntacticEqualReceiver(other Receiver) bool { return v.SyntacticEquals(other) }

func (v *ValueLiteral) ContainsModifiableAliasOf(AliasStore, Receiver) bool { return false }

func (v *ValueLiteral) String() string {
	if v.value == nil {
		return "nil"
	}
	return v.value.ExactString()
}

func (v *ValueLiteral) sealed() {}
