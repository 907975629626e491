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

// Package receiver defines the canonical expression shapes ("receivers") that a flow analysis uses as keys for the
// facts it tracks.
//
// A Receiver is an immutable value. The set of variants is closed: FieldAccess, ThisReference, ClassName,
// LocalVariable, ValueLiteral, MethodCall, ArrayAccess, ArrayCreation and Unknown. Receivers compare structurally with
// Equal, except Unknown which only equals itself. Key returns a string that can be used as a map key with the same
// semantics as Equal.
//
// Predicates that need alias information take an AliasStore argument; receivers never hold a reference to a store.
package receiver

import (
	"fmt"
	"go/types"
)

// Kind identifies the variant of a Receiver.
type Kind int

const (
	KindFieldAccess Kind = iota
	KindThisReference
	KindClassName
	KindLocalVariable
	KindValueLiteral
	KindMethodCall
	KindArrayAccess
	KindArrayCreation
	KindUnknown
)

func (k Kind) String() string {
	switch k {
	case KindFieldAccess:
		return "FieldAccess"
	case KindThisReference:
		return "ThisReference"
	case KindClassName:
		return "ClassName"
	case KindLocalVariable:
		return "LocalVariable"
	case KindValueLiteral:
		return "ValueLiteral"
	case KindMethodCall:
		return "MethodCall"
	case KindArrayAccess:
		return "ArrayAccess"
	case KindArrayCreation:
		return "ArrayCreation"
	case KindUnknown:
		return "Unknown"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// AliasStore answers whether two receivers may denote overlapping storage. It is implemented by the flow-fact store
// and passed explicitly to ContainsModifiableAliasOf.
type AliasStore interface {
	CanAlias(a, b Receiver) bool
}

// A Receiver is a canonical, immutable representation of a program expression.
type Receiver interface {
	// Type returns the static type of the expression. It is never nil.
	Type() types.Type

	// Kind returns the variant of the receiver.
	Kind() Kind

	// Equal is structural equality. Unknown receivers are only equal to themselves.
	Equal(other Receiver) bool

	// Key returns a string such that r.Key() == s.Key() iff r.Equal(s).
	Key() string

	// ContainsOfKind returns true if the receiver or any of its sub-receivers is of kind k.
	ContainsOfKind(k Kind) bool

	// IsUnassignableByOtherCode returns true if no other code can make the receiver denote a different value.
	IsUnassignableByOtherCode() bool

	// IsUnmodifiableByOtherCode returns true if the receiver is unassignable and the value it denotes cannot be
	// mutated by other code.
	IsUnmodifiableByOtherCode() bool

	// SyntacticEquals is structural equality without any alias reasoning.
	SyntacticEquals(other Receiver) bool

	// ContainsSyntacticEqualReceiver returns true if other is syntactically equal to the receiver or to any of its
	// sub-receivers.
	ContainsSyntacticEqualReceiver(other Receiver) bool

	// ContainsModifiableAliasOf returns true if other might be reached through a modifiable path from the receiver.
	ContainsModifiableAliasOf(store AliasStore, other Receiver) bool

	String() string

	sealed()
}

// canAlias asks the store, a nil store never reports aliasing.
func canAlias(store AliasStore, a, b Receiver) bool {
	return store != nil && store.CanAlias(a, b)
}

// ContainsUnknown is true if r contains an Unknown receiver. Such receivers cannot be used as keys of persistent facts.
func ContainsUnknown(r Receiver) bool {
	return r.ContainsOfKind(KindUnknown)
}

// all returns true iff f is true on every receiver in rs.
func all(rs []Receiver, f func(Receiver) bool) bool {
	for _, r := range rs {
		if !f(r) {
			return false
		}
	}
	return true
}

func exists(rs []Receiver, f func(Receiver) bool) bool {
	for _, r := range rs {
		if r != nil && f(r) {
			return true
		}
	}
	return false
}

// pairwise returns true if a and b have the same length and eq holds on every pair. Nil elements only match nil
// elements.
func pairwise(a, b []Receiver, eq func(x, y Receiver) bool) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] == nil || b[i] == nil {
			if a[i] != b[i] {
				return false
			}
			continue
		}
		if !eq(a[i], b[i]) {
			return false
		}
	}
	return true
}
