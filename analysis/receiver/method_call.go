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
	"strings"
)

// MethodCall is a call scope.method(args...) to a deterministic function. Calls to package-level functions and
// builtins have a ClassName scope.
type MethodCall struct {
	typ    types.Type
	scope  Receiver
	method types.Object
	args   []Receiver
}

// NewMethodCall returns the receiver for a call. method is a *types.Func or a *types.Builtin. The args slice is copied.
func NewMethodCall(typ types.Type, scope Receiver, method types.Object, args []Receiver) *MethodCall {
	return &MethodCall{
		typ:    orInvalid(typ),
		scope:  scope,
		method: method,
		args:   append([]Receiver(nil), args...),
	}
}

// Scope returns the receiver the method is called on.
func (m *MethodCall) Scope() Receiver { return m.scope }

// Method returns the called function or builtin.
func (m *MethodCall) Method() types.Object { return m.method }

// Args returns a copy of the arguments, in order.
func (m *MethodCall) Args() []Receiver { return append([]Receiver(nil), m.args...) }

// ContainsSyntacticEqualArgument returns true if one of the arguments contains a receiver syntactically equal to
// the local variable v.
func (m *MethodCall) ContainsSyntacticEqualArgument(v *LocalVariable) bool {
	return exists(m.args, func(a Receiver) bool { return a.ContainsSyntacticEqualReceiver(v) })
}

func (m *MethodCall) Type() types.Type { return m.typ }

func (m *MethodCall) Kind() Kind { return KindMethodCall }

func (m *MethodCall) Equal(other Receiver) bool {
	o, ok := other.(*MethodCall)
	return ok &&
		SameObject(m.method, o.method) &&
		m.scope.Equal(o.scope) &&
		pairwise(m.args, o.args, func(x, y Receiver) bool { return x.Equal(y) })
}

func (m *MethodCall) Key() string {
	var b strings.Builder
	b.WriteString("M(")
	b.WriteString(m.scope.Key())
	b.WriteString(",")
	b.WriteString(objectKey(m.method))
	for _, a := range m.args {
		b.WriteString(",")
		b.WriteString(a.Key())
	}
	b.WriteString(")")
	return b.String()
}

func (m *MethodCall) ContainsOfKind(k Kind) bool {
	return k == KindMethodCall ||
		m.scope.ContainsOfKind(k) ||
		exists(m.args, func(a Receiver) bool { return a.ContainsOfKind(k) })
}

// IsUnassignableByOtherCode is true when the scope and all arguments are unmodifiable: a deterministic call on
// values that do not change returns the same value.
func (m *MethodCall) IsUnassignableByOtherCode() bool {
	return m.scope.IsUnmodifiableByOtherCode() &&
		all(m.args, func(a Receiver) bool { return a.IsUnmodifiableByOtherCode() })
}

func (m *MethodCall) IsUnmodifiableByOtherCode() bool {
	return m.IsUnassignableByOtherCode()
}

func (m *MethodCall) SyntacticEquals(other Receiver) bool {
	o, ok := other.(*MethodCall)
	return ok &&
		SameObject(m.method, o.method) &&
		m.scope.SyntacticEquals(o.scope) &&
		pairwise(m.args, o.args, func(x, y Receiver) bool { return x.SyntacticEquals(y) })
}

func (m *MethodCall) ContainsSyntacticEqualReceiver(other Receiver) bool {
	return m.SyntacticEquals(other) ||
		m.scope.ContainsSyntacticEqualReceiver(other) ||
		exists(m.args, func(a Receiver) bool { return a.ContainsSyntacticEqualReceiver(other) })
}

func (m *MethodCall) ContainsModifiableAliasOf(store AliasStore, other Receiver) bool {
	return m.scope.ContainsModifiableAliasOf(store, other) ||
		exists(m.args, func(a Receiver) bool { return a.ContainsModifiableAliasOf(store, other) })
}

func (m *MethodCall) String() string {
	var b strings.Builder
	if cn, ok := m.scope.(*ClassName); !ok || !isUniverse(cn) {
		b.WriteString(m.scope.String())
		b.WriteString(".")
	}
	b.WriteString(m.method.Name())
	b.WriteString("(")
	for i, a := range m.args {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(a.String())
	}
	b.WriteString(")")
	return b.String()
}

func (m *MethodCall) sealed() {}

func isUniverse(c *ClassName) bool {
	pt, ok := c.typ.(*PackageType)
	return ok && pt.pkg == nil
}
