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

// ArrayAccess is array[index], for arrays, slices, strings and maps.
// Array slots can always be reassigned, and an array access may alias anything.
type ArrayAccess struct {
	typ   types.Type
	array Receiver
	index Receiver
}

// NewArrayAccess returns the receiver of array[index].
func NewArrayAccess(typ types.Type, array, index Receiver) *ArrayAccess {
	return &ArrayAccess{typ: orInvalid(typ), array: array, index: index}
}

func (a *ArrayAccess) Array() Receiver { return a.array }

func (a *ArrayAccess) Index() Receiver { return a.index }

func (a *ArrayAccess) Type() types.Type { return a.typ }

func (a *ArrayAccess) Kind() Kind { return KindArrayAccess }

func (a *ArrayAccess) Equal(other Receiver) bool {
	o, ok := other.(*ArrayAccess)
	return ok && a.array.Equal(o.array) && a.index.Equal(o.index)
}

func (a *ArrayAccess) Key() string {
	return "A(" + a.array.Key() + "," + a.index.Key() + ")"
}

func (a *ArrayAccess) ContainsOfKind(k Kind) bool {
	return k == KindArrayAccess || a.array.ContainsOfKind(k) || a.index.ContainsOfKind(k)
}

func (a *ArrayAccess) IsUnassignableByOtherCode() bool { return false }

func (a *ArrayAccess) IsUnmodifiableByOtherCode() bool { return false }

func (a *ArrayAccess) SyntacticEquals(other Receiver) bool {
	o, ok := other.(*ArrayAccess)
	return ok && a.array.SyntacticEquals(o.array) && a.index.SyntacticEquals(o.index)
}

func (a *ArrayAccess) ContainsSyntacticEqualReceiver(other Receiver) bool {
	return a.SyntacticEquals(other) ||
		a.array.ContainsSyntacticEqualReceiver(other) ||
		a.index.ContainsSyntacticEqualReceiver(other)
}

func (a *ArrayAccess) ContainsModifiableAliasOf(AliasStore, Receiver) bool { return true }

func (a *ArrayAccess) String() string {
	return a.array.String() + "[" + a.index.String() + "]"
}

func (a *ArrayAccess) sealed() {}

// ArrayCreation is the creation of a new array or slice. A nil dimension is a dimension that is not given explicitly
// (a composite literal).
type ArrayCreation struct {
	typ   types.Type
	dims  []Receiver
	inits []Receiver
}

// NewArrayCreation returns the receiver for the creation of an array of type typ. The slices are copied.
func NewArrayCreation(typ types.Type, dims, inits []Receiver) *ArrayCreation {
	return &ArrayCreation{
		typ:   orInvalid(typ),
		dims:  append([]Receiver(nil), dims...),
		inits: append([]Receiver(nil), inits...),
	}
}

// Dimensions returns a copy of the dimensions. Elements may be nil.
func (a *ArrayCreation) Dimensions() []Receiver { return append([]Receiver(nil), a.dims...) }

// Initializers returns a copy of the initial elements.
func (a *ArrayCreation) Initializers() []Receiver { return append([]Receiver(nil), a.inits...) }

func (a *ArrayCreation) Type() types.Type { return a.typ }

func (a *ArrayCreation) Kind() Kind { return KindArrayCreation }

func (a *ArrayCreation) Equal(other Receiver) bool {
	o, ok := other.(*ArrayCreation)
	eq := func(x, y Receiver) bool { return x.Equal(y) }
	return ok && typeKey(a.typ) == typeKey(o.typ) && pairwise(a.dims, o.dims, eq) && pairwise(a.inits, o.inits, eq)
}

func (a *ArrayCreation) Key() string {
	var b strings.Builder
	b.WriteString("N(")
	b.WriteString(typeKey(a.typ))
	b.WriteString(";")
	for _, d := range a.dims {
		if d == nil {
			b.WriteString("_")
		} else {
			b.WriteString(d.Key())
		}
		b.WriteString(",")
	}
	b.WriteString(";")
	for _, x := range a.inits {
		b.WriteString(x.Key())
		b.WriteString(",")
	}
	b.WriteString(")")
	return b.String()
}

func (a *ArrayCreation) ContainsOfKind(k Kind) bool {
	f := func(r Receiver) bool { return r.ContainsOfKind(k) }
	return k == KindArrayCreation || exists(a.dims, f) || exists(a.inits, f)
}

func (a *ArrayCreation) IsUnassignableByOtherCode() bool { return false }

func (a *ArrayCreation) IsUnmodifiableByOtherCode() bool { return false }

func (a *ArrayCreation) SyntacticEquals(other Receiver) bool {
	o, ok := other.(*ArrayCreation)
	eq := func(x, y Receiver) bool { return x.SyntacticEquals(y) }
	return ok && typeKey(a.typ) == typeKey(o.typ) && pairwise(a.dims, o.dims, eq) && pairwise(a.inits, o.inits, eq)
}

func (a *ArrayCreation) ContainsSyntacticEqualReceiver(other Receiver) bool {
	f := func(r Receiver) bool { return r.ContainsSyntacticEqualReceiver(other) }
	return a.SyntacticEquals(other) || exists(a.dims, f) || exists(a.inits, f)
}

func (a *ArrayCreation) ContainsModifiableAliasOf(AliasStore, Receiver) bool { return true }

func (a *ArrayCreation) String() string {
	var b strings.Builder
	if len(a.inits) == 0 && len(a.dims) > 0 && a.dims[0] != nil {
		b.WriteString("make(")
		b.WriteString(typeName(a.typ))
		for _, d := range a.dims {
			if d != nil {
				b.WriteString(", ")
				b.WriteString(d.String())
			}
		}
		b.WriteString(")")
		return b.String()
	}
	b.WriteString(typeName(a.typ))
	b.WriteString("{")
	for i, x := range a.inits {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(x.String())
	}
	b.WriteString("}")
	return b.String()
}

func (a *ArrayCreation) sealed() {}
