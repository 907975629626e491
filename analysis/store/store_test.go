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

package store_test

import (
	"go/token"
	"go/types"
	"testing"

	"github.com/awslabs/argot-flowexpr/analysis/receiver"
	"github.com/awslabs/argot-flowexpr/analysis/store"
	"github.com/awslabs/argot-flowexpr/internal/analysistest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	pkg      = types.NewPackage("example.com/geom", "geom")
	intType  = types.Typ[types.Int]
	strType  = types.Typ[types.String]
	xField   = types.NewField(1, pkg, "X", intType, false)
	nameFld  = types.NewField(2, pkg, "Name", strType, false)
	pointObj = types.NewTypeName(3, pkg, "Point", nil)
	point    = types.NewNamed(pointObj, types.NewStruct([]*types.Var{xField, nameFld}, nil), nil)
	pointPtr = types.NewPointer(point)
	anyType  = types.NewInterfaceType(nil, nil)
)

func local(name string, pos token.Pos, t types.Type) *receiver.LocalVariable {
	return receiver.NewLocalVariableOf(types.NewVar(pos, pkg, name, t))
}

func fieldOf(scope receiver.Receiver, f *types.Var, final bool) *receiver.FieldAccess {
	return receiver.NewFieldAccess(f.Type(), scope, f, final)
}

func TestInsertGetRemove(t *testing.T) {
	s := store.New[int](nil)
	x := local("x", 10, intType)
	assert.True(t, s.Insert(x, 1))
	// an equal receiver shares the entry
	v, ok := s.Get(receiver.NewLocalVariable(intType, x.Binding()))
	assert.True(t, ok)
	assert.Equal(t, 1, v)

	assert.False(t, s.Insert(receiver.NewUnknown(intType), 2))
	p := local("p", 11, pointPtr)
	assert.False(t, s.Insert(receiver.NewArrayAccess(intType, p, receiver.NewUnknown(intType)), 3))
	assert.Equal(t, 1, s.Len())

	s.Remove(x)
	_, ok = s.Get(x)
	assert.False(t, ok)
	assert.Equal(t, 0, s.Len())
}

func TestAssignmentToVariable(t *testing.T) {
	s := store.New[string](store.TypeAliasOracle{})
	x := local("x", 10, intType)
	y := local("y", 11, intType)
	arr := local("s", 12, types.NewSlice(intType))
	s.Insert(x, "x")
	s.Insert(y, "y")
	s.Insert(receiver.NewArrayAccess(intType, arr, x), "s[x]")
	s.UpdateForAssignment(x)
	assert.Equal(t, []receiver.Receiver{y}, s.Receivers())
}

func TestAssignmentToField(t *testing.T) {
	p := local("p", 10, pointPtr)
	q := local("q", 11, pointPtr)
	x := local("x", 12, intType)
	px := fieldOf(p, xField, false)
	pname := fieldOf(p, nameFld, false)
	qx := fieldOf(q, xField, false)

	t.Run("types", func(t *testing.T) {
		s := store.New[int](store.TypeAliasOracle{})
		s.Insert(px, 1)
		s.Insert(pname, 2)
		s.Insert(x, 3)
		s.UpdateForAssignment(qx)
		_, ok := s.Get(px)
		assert.False(t, ok, "p.X may be q.X")
		_, ok = s.Get(pname)
		assert.True(t, ok)
		_, ok = s.Get(x)
		assert.True(t, ok)
	})

	t.Run("no aliasing", func(t *testing.T) {
		s := store.New[int](nil)
		s.Insert(px, 1)
		s.Insert(qx, 2)
		s.UpdateForAssignment(qx)
		_, ok := s.Get(px)
		assert.True(t, ok)
		_, ok = s.Get(qx)
		assert.False(t, ok)
	})
}

func TestUpdateForCall(t *testing.T) {
	x := local("x", 10, intType)
	p := local("p", 11, pointPtr)
	px := fieldOf(p, xField, false)
	originVar := types.NewVar(4, pkg, "Origin", point)
	origin := receiver.NewFieldAccess(point, receiver.NewClassName(receiver.NewPackageType(pkg)), originVar, true)

	s := store.New[int](store.TypeAliasOracle{})
	s.Insert(x, 1)
	s.Insert(px, 2)
	s.Insert(origin, 3)

	s.UpdateForCall(true)
	assert.Equal(t, 3, s.Len())

	s.UpdateForCall(false)
	assert.Equal(t, 2, s.Len())
	_, ok := s.Get(px)
	assert.False(t, ok)
	_, ok = s.Get(origin)
	assert.True(t, ok)
}

func TestCopyAndJoin(t *testing.T) {
	x := local("x", 10, intType)
	y := local("y", 11, intType)
	z := local("z", 12, intType)

	a := store.New[int](nil)
	a.Insert(x, 1)
	a.Insert(y, 2)
	b := a.Copy()
	b.Remove(y)
	b.Insert(x, 5)
	b.Insert(z, 3)
	assert.Equal(t, 2, a.Len())
	v, _ := a.Get(x)
	assert.Equal(t, 1, v)

	max := func(u, v int) (int, bool) {
		if u > v {
			return u, true
		}
		return v, true
	}
	j := a.Join(b, max)
	assert.Equal(t, []receiver.Receiver{x}, j.Receivers())
	v, _ = j.Get(x)
	assert.Equal(t, 5, v)

	drop := func(int, int) (int, bool) { return 0, false }
	assert.Equal(t, 0, a.Join(b, drop).Len())
}

func TestTypeAliasOracle(t *testing.T) {
	o := store.TypeAliasOracle{}
	assert.True(t, o.CanAlias(local("a", 1, intType), local("b", 2, intType)))
	assert.False(t, o.CanAlias(local("a", 1, intType), local("b", 2, strType)))
	assert.True(t, o.CanAlias(local("a", 1, pointPtr), local("b", 2, anyType)))
	assert.False(t, o.CanAlias(local("a", 1, intType), local("b", 2, anyType)))
	assert.True(t, o.CanAlias(receiver.NewUnknown(types.Typ[types.Invalid]), local("b", 2, strType)))
	assert.False(t, o.CanAlias(receiver.NewPackageScope(pkg), local("b", 2, anyType)))
}

const aliasSrc = `package main

type T struct{ f int }

func main() {
	a := &T{}
	b := &T{f: 1}
	c := a
	use(a, b, c)
}

func use(a, b, c *T) { a.f = b.f + c.f }
`

func TestPointsToAliasOracle(t *testing.T) {
	p := analysistest.BuildFromSource(t, "example.com/alias", aliasSrc)
	o := store.NewPointsToAliasOracle(p.Prog)
	ref := p.DebugRefFor(t, "main", "a")
	require.NotNil(t, ref)

	tT := ref.X.Type()
	a := local("a", 1, tT)
	c := local("c", 2, tT)
	n := local("n", 3, intType)
	o.Register(a, ref.X)
	o.Register(c, ref.X)
	o.Register(n, ref.X)

	assert.True(t, o.CanAlias(a, c))
	assert.False(t, o.CanAlias(a, n))
	// receivers without values fall back on their types
	assert.True(t, o.CanAlias(a, local("d", 4, tT)))
}
