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
	"go/token"
	"go/types"
	"testing"

	"github.com/stretchr/testify/assert"
)

var (
	testPkg  = types.NewPackage("example.com/geom", "geom")
	intType  = types.Typ[types.Int]
	ptrType  = types.NewPointer(intType)
	sliceInt = types.NewSlice(intType)
)

type aliasFunc func(a, b Receiver) bool

func (f aliasFunc) CanAlias(a, b Receiver) bool { return f(a, b) }

var neverAlias = aliasFunc(func(Receiver, Receiver) bool { return false })

func local(name string, pos token.Pos, t types.Type) *LocalVariable {
	return NewLocalVariableOf(types.NewVar(pos, testPkg, name, t))
}

func field(name string, pos token.Pos, t types.Type) *types.Var {
	return types.NewField(pos, testPkg, name, t, false)
}

func fn(name string, pos token.Pos) *types.Func {
	sig := types.NewSignatureType(nil, nil, nil, nil, types.NewTuple(types.NewVar(0, nil, "", intType)), false)
	return types.NewFunc(pos, testPkg, name, sig)
}

func allReceivers() []Receiver {
	x := local("x", 10, intType)
	p := local("p", 11, ptrType)
	this := NewThisReference(types.NewPointer(intType))
	pkg := NewPackageScope(testPkg)
	f := NewFieldAccess(intType, this, field("f", 20, intType), false)
	lit := NewValueLiteral(intType, constant.MakeInt64(1))
	return []Receiver{
		x, p, this, pkg, f, lit,
		NewValueLiteral(ptrType, nil),
		NewMethodCall(intType, pkg, fn("Norm", 30), []Receiver{x, lit}),
		NewArrayAccess(intType, local("a", 12, sliceInt), x),
		NewArrayCreation(sliceInt, []Receiver{x}, nil),
		NewArrayCreation(sliceInt, []Receiver{nil}, []Receiver{lit, x}),
		NewUnknown(intType),
	}
}

func TestSyntacticEqualsReflexive(t *testing.T) {
	for _, r := range allReceivers() {
		assert.Truef(t, r.SyntacticEquals(r), "%s should be syntactically equal to itself", r)
		assert.Truef(t, r.Equal(r), "%s should be equal to itself", r)
		assert.Truef(t, r.ContainsSyntacticEqualReceiver(r), "%s should contain itself", r)
		assert.NotNil(t, r.Type())
	}
}

func TestKeyAgreesWithEqual(t *testing.T) {
	rs := allReceivers()
	for i, a := range rs {
		for j, b := range rs {
			assert.Equalf(t, a.Equal(b), a.Key() == b.Key(), "receivers %d (%s) and %d (%s)", i, a, j, b)
		}
	}
}

func TestLocalVariableIdentityIsBinding(t *testing.T) {
	a := local("x", 10, intType)
	b := local("x", 42, intType)
	c := local("x", 10, intType)
	assert.False(t, a.Equal(b))
	assert.False(t, a.SyntacticEquals(b))
	assert.True(t, a.Equal(c))
	assert.Equal(t, a.Key(), c.Key())
	assert.True(t, a.IsUnassignableByOtherCode())
	assert.True(t, a.IsUnmodifiableByOtherCode())
	assert.False(t, local("p", 11, ptrType).IsUnmodifiableByOtherCode())
}

func TestFieldAccessAssignability(t *testing.T) {
	this := NewThisReference(types.NewPointer(intType))
	final := NewFieldAccess(intType, this, field("f", 20, intType), true)
	nonFinal := NewFieldAccess(intType, this, field("g", 21, intType), false)
	assert.True(t, final.IsUnassignableByOtherCode())
	assert.True(t, final.IsUnmodifiableByOtherCode())
	assert.False(t, nonFinal.IsUnassignableByOtherCode())
	assert.False(t, nonFinal.IsUnmodifiableByOtherCode())

	// a final field of an assignable scope can be changed by reassigning the scope
	arr := NewArrayAccess(ptrType, local("a", 12, types.NewSlice(ptrType)), local("i", 13, intType))
	onArray := NewFieldAccess(intType, arr, field("f", 20, intType), true)
	assert.False(t, onArray.IsUnassignableByOtherCode())

	// a final field with a pointer type can be mutated through the pointer
	finalPtr := NewFieldAccess(ptrType, this, field("p", 22, ptrType), true)
	assert.True(t, finalPtr.IsUnassignableByOtherCode())
	assert.False(t, finalPtr.IsUnmodifiableByOtherCode())
}

func TestStaticField(t *testing.T) {
	v := types.NewVar(50, testPkg, "Max", intType)
	fa := NewFieldAccess(intType, NewPackageScope(testPkg), v, true)
	assert.True(t, fa.IsStatic())
	assert.True(t, fa.IsUnmodifiableByOtherCode())
	assert.Equal(t, "geom.Max", fa.String())
	assert.True(t, fa.ContainsOfKind(KindClassName))
	assert.False(t, fa.ContainsOfKind(KindThisReference))
}

func TestMethodCallModifiability(t *testing.T) {
	x := local("x", 10, intType)
	lit := NewValueLiteral(intType, constant.MakeInt64(2))
	norm := fn("Norm", 30)
	scope := NewPackageScope(testPkg)
	m := NewMethodCall(intType, scope, norm, []Receiver{x, lit})
	assert.True(t, m.IsUnassignableByOtherCode())
	assert.True(t, m.IsUnmodifiableByOtherCode())

	for i := range m.args {
		args := m.Args()
		args[i] = local("p", 11, ptrType)
		changed := NewMethodCall(intType, scope, norm, args)
		assert.Falsef(t, changed.IsUnmodifiableByOtherCode(), "argument %d is modifiable", i)
	}

	onPtr := NewMethodCall(intType, local("p", 11, ptrType), norm, []Receiver{x})
	assert.False(t, onPtr.IsUnmodifiableByOtherCode())
}

func TestMethodCallArgumentOrder(t *testing.T) {
	x := local("x", 10, intType)
	y := local("y", 14, intType)
	scope := NewPackageScope(testPkg)
	norm := fn("Norm", 30)
	xy := NewMethodCall(intType, scope, norm, []Receiver{x, y})
	yx := NewMethodCall(intType, scope, norm, []Receiver{y, x})
	assert.False(t, xy.SyntacticEquals(yx))
	assert.False(t, xy.Equal(yx))
	assert.True(t, xy.ContainsSyntacticEqualReceiver(y))
	assert.True(t, xy.ContainsSyntacticEqualArgument(x))
	assert.False(t, xy.ContainsSyntacticEqualArgument(local("z", 15, intType)))
	other := NewMethodCall(intType, scope, fn("Dist", 31), []Receiver{x, y})
	assert.False(t, xy.SyntacticEquals(other))
	assert.Equal(t, "geom.Norm(x, y)", xy.String())
}

func TestUnknownIdentity(t *testing.T) {
	u := NewUnknown(intType)
	v := NewUnknown(intType)
	assert.False(t, u.Equal(v))
	assert.False(t, u.SyntacticEquals(v))
	assert.NotEqual(t, u.Key(), v.Key())
	for _, r := range allReceivers() {
		assert.True(t, u.ContainsModifiableAliasOf(neverAlias, r))
		assert.True(t, u.ContainsModifiableAliasOf(nil, r))
	}
	assert.False(t, u.IsUnassignableByOtherCode())
	assert.True(t, ContainsUnknown(NewArrayAccess(intType, local("a", 12, sliceInt), u)))
}

func TestArrayAccess(t *testing.T) {
	a := local("a", 12, sliceInt)
	i := local("i", 13, intType)
	x := NewArrayAccess(intType, a, i)
	y := NewArrayAccess(intType, local("a", 12, sliceInt), local("i", 13, intType))
	assert.True(t, x.SyntacticEquals(y))
	assert.True(t, x.Equal(y))
	assert.False(t, x.IsUnassignableByOtherCode())
	assert.True(t, x.ContainsSyntacticEqualReceiver(i))
	assert.True(t, x.ContainsModifiableAliasOf(neverAlias, local("z", 15, intType)))
	assert.Equal(t, "a[i]", x.String())
}

func TestArrayCreation(t *testing.T) {
	n := local("n", 16, intType)
	mk := NewArrayCreation(sliceInt, []Receiver{n}, nil)
	lit := NewArrayCreation(sliceInt, []Receiver{nil}, []Receiver{n})
	assert.False(t, mk.Equal(lit))
	assert.True(t, lit.ContainsSyntacticEqualReceiver(n))
	assert.True(t, mk.ContainsOfKind(KindLocalVariable))
	assert.True(t, mk.ContainsModifiableAliasOf(neverAlias, n))
	assert.False(t, mk.IsUnassignableByOtherCode())
	assert.Equal(t, "make([]int, n)", mk.String())
	assert.Equal(t, "[]int{n}", lit.String())
}

func TestAliasContainment(t *testing.T) {
	this := NewThisReference(types.NewPointer(intType))
	p := local("p", 11, ptrType)
	q := local("q", 17, ptrType)
	f := NewFieldAccess(intType, p, field("f", 20, intType), false)

	assert.False(t, this.ContainsModifiableAliasOf(nil, p))
	assert.False(t, NewPackageScope(testPkg).ContainsModifiableAliasOf(nil, p))
	assert.False(t, NewValueLiteral(intType, constant.MakeInt64(1)).ContainsModifiableAliasOf(nil, p))

	assert.True(t, f.ContainsModifiableAliasOf(neverAlias, p))
	assert.False(t, f.ContainsModifiableAliasOf(neverAlias, q))

	pq := aliasFunc(func(a, b Receiver) bool {
		return (a.Equal(p) && b.Equal(q)) || (a.Equal(q) && b.Equal(p))
	})
	assert.True(t, f.ContainsModifiableAliasOf(pq, q))
	assert.True(t, p.ContainsModifiableAliasOf(pq, q))

	call := NewMethodCall(intType, NewPackageScope(testPkg), fn("Norm", 30), []Receiver{f})
	assert.True(t, call.ContainsModifiableAliasOf(neverAlias, p))
	assert.False(t, call.ContainsModifiableAliasOf(neverAlias, q))
}

func TestImmutableTypes(t *testing.T) {
	point := types.NewStruct([]*types.Var{field("X", 1, intType), field("Y", 2, intType)}, nil)
	node := types.NewStruct([]*types.Var{field("next", 3, ptrType)}, nil)
	assert.True(t, IsImmutableType(types.Typ[types.String]))
	assert.True(t, IsImmutableType(point))
	assert.True(t, IsImmutableType(types.NewArray(point, 3)))
	assert.False(t, IsImmutableType(node))
	assert.False(t, IsImmutableType(sliceInt))
	assert.False(t, IsImmutableType(types.Typ[types.UnsafePointer]))
	assert.False(t, IsImmutableType(NewPackageType(testPkg)))
}

func TestVisitCoversAllKinds(t *testing.T) {
	for _, r := range allReceivers() {
		assert.Equal(t, r.Kind(), Visit[Kind](kindVisitor{}, r))
	}
}

type kindVisitor struct{}

func (kindVisitor) VisitFieldAccess(*FieldAccess) Kind     { return KindFieldAccess }
func (kindVisitor) VisitThisReference(*ThisReference) Kind { return KindThisReference }
func (kindVisitor) VisitClassName(*ClassName) Kind         { return KindClassName }
func (kindVisitor) VisitLocalVariable(*LocalVariable) Kind { return KindLocalVariable }
func (kindVisitor) VisitValueLiteral(*ValueLiteral) Kind   { return KindValueLiteral }
func (kindVisitor) VisitMethodCall(*MethodCall) Kind       { return KindMethodCall }
func (kindVisitor) VisitArrayAccess(*ArrayAccess) Kind     { return KindArrayAccess }
func (kindVisitor) VisitArrayCreation(*ArrayCreation) Kind { return KindArrayCreation }
func (kindVisitor) VisitUnknown(*Unknown) Kind             { return KindUnknown }
