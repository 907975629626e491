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
	"go/types"
)

// FieldAccess is scope.field. Package-level variables are fields of the ClassName of their package.
type FieldAccess struct {
	typ   types.Type
	scope Receiver
	field types.Object
	final bool
}

// NewFieldAccess returns the receiver for scope.field with type typ. final records whether the field can be assigned
// after initialization.
func NewFieldAccess(typ types.Type, scope Receiver, field types.Object, final bool) *FieldAccess {
	return &FieldAccess{typ: orInvalid(typ), scope: scope, field: field, final: final}
}

// Scope returns the receiver the field is accessed on.
func (f *FieldAccess) Scope() Receiver { return f.scope }

// Field returns the field (a *types.Var or *types.Const).
func (f *FieldAccess) Field() types.Object { return f.field }

// IsFinal is true for fields that cannot be assigned.
func (f *FieldAccess) IsFinal() bool { return f.final }

// IsStatic is true when the scope is a ClassName.
func (f *FieldAccess) IsStatic() bool {
	return f.scope.Kind() == KindClassName
}

func (f *FieldAccess) Type() types.Type { return f.typ }

func (f *FieldAccess) Kind() Kind { return KindFieldAccess }

func (f *FieldAccess) Equal(other Receiver) bool {
	o, ok := other.(*FieldAccess)
	return ok && SameObject(f.field, o.field) && f.scope.Equal(o.scope)
}

func (f *FieldAccess) Key() string {
	return "F(" + f.scope.Key() + "," + objectKey(f.field) + ")"
}

func (f *FieldAccess) ContainsOfKind(k Kind) bool {
	return k == KindFieldAccess || f.scope.ContainsOfKind(k)
}

func (f *FieldAccess) IsUnassignableByOtherCode() bool {
	return f.final && f.scope.IsUnassignableByOtherCode()
}

func (f *FieldAccess) IsUnmodifiableByOtherCode() bool {
	return f.IsUnassignableByOtherCode() && IsImmutableType(f.typ)
}

func (f *FieldAccess) SyntacticEquals(other Receiver) bool {
	o, ok := other.(*FieldAccess)
	return ok && SameObject(f.field, o.field) && f.scope.SyntacticEquals(o.scope)
}

func (f *FieldAccess) ContainsSyntacticEqualReceiver(other Receiver) bool {
	return f.SyntacticEquals(other) || f.scope.ContainsSyntacticEqualReceiver(other)
}

func (f *FieldAccess) ContainsModifiableAliasOf(store AliasStore, other Receiver) bool {
	return f.Equal(other) || canAlias(store, f, other) || f.scope.ContainsModifiableAliasOf(store, other)
}

func (f *FieldAccess) String() string {
	return f.scope.String() + "." + f.field.Name()
}

func (f *FieldAccess) sealed() {}
