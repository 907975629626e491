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
	"strconv"
	"sync/atomic"
)

// LocalVariable is a local variable or a parameter. It is identified by its binding, not by its name.
type LocalVariable struct {
	typ     types.Type
	binding Binding
}

// NewLocalVariable returns the receiver for the variable bound at b.
func NewLocalVariable(typ types.Type, b Binding) *LocalVariable {
	return &LocalVariable{typ: orInvalid(typ), binding: b}
}

// NewLocalVariableOf returns the receiver of a source variable.
func NewLocalVariableOf(v *types.Var) *LocalVariable {
	return NewLocalVariable(v.Type(), BindingOf(v))
}

// Binding returns the declaration identity of the variable.
func (l *LocalVariable) Binding() Binding { return l.binding }

// Name returns the variable name.
func (l *LocalVariable) Name() string { return l.binding.Name }

func (l *LocalVariable) Type() types.Type { return l.typ }

func (l *LocalVariable) Kind() Kind { return KindLocalVariable }

func (l *LocalVariable) Equal(other Receiver) bool {
	o, ok := other.(*LocalVariable)
	return ok && l.binding == o.binding
}

func (l *LocalVariable) Key() string { return "L(" + l.binding.key() + ")" }

func (l *LocalVariable) ContainsOfKind(k Kind) bool { return k == KindLocalVariable }

func (l *LocalVariable) IsUnassignableByOtherCode() bool { return true }

func (l *LocalVariable) IsUnmodifiableByOtherCode() bool { return IsImmutableType(l.typ) }

func (l *LocalVariable) SyntacticEquals(other Receiver) bool { return l.Equal(other) }

func (l *LocalVariable) ContainsSyntacticEqualReceiver(other Receiver) bool {
	return l.SyntacticEquals(other)
}

func (l *LocalVariable) ContainsModifiableAliasOf(store AliasStore, other Receiver) bool {
	return l.Equal(other) || canAlias(store, l, other)
}

func (l *LocalVariable) String() string { return l.binding.Name }

func (l *LocalVariable) sealed() {}

var unknownCounter atomic.Uint64

// Unknown is an expression that could not be classified. It is only equal to itself.
type Unknown struct {
	typ types.Type
	id  uint64
}

// NewUnknown returns a fresh unknown receiver of type typ.
func NewUnknown(typ types.Type) *Unknown {
	return &Unknown{typ: orInvalid(typ), id: unknownCounter.Add(1)}
}

func (u *Unknown) Type() types.Type { return u.typ }

func (u *Unknown) Kind() Kind { return KindUnknown }

func (u *Unknown) Equal(other Receiver) bool {
	o, ok := other.(*Unknown)
	return ok && o == u
}

func (u *Unknown) Key() string { return "?" + strconv.FormatUint(u.id, 10) }

func (u *Unknown) ContainsOfKind(k Kind) bool { return k == KindUnknown }

func (u *Unknown) IsUnassignableByOtherCode() bool { return false }

func (u *Unknown) IsUnmodifiableByOtherCode() bool { return false }

func (u *Unknown) SyntacticEquals(other Receiver) bool { return u.Equal(other) }

func (u *Unknown) ContainsSyntacticEqualReceiver(other Receiver) bool { return u.SyntacticEquals(other) }

func (u *Unknown) ContainsModifiableAliasOf(AliasStore, Receiver) bool { return true }

func (u *Unknown) String() string { return "?" }

func (u *Unknown) sealed() {}
