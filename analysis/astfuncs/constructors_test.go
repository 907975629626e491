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

package astfuncs_test

import (
	"go/constant"
	"go/token"
	"go/types"
	"testing"

	"github.com/awslabs/argot-flowexpr/analysis/astfuncs"
	"github.com/awslabs/argot-flowexpr/analysis/receiver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	pkg      = types.NewPackage("example.com/geom", "geom")
	intType  = types.Typ[types.Int]
	strType  = types.Typ[types.String]
	xField   = types.NewField(1, pkg, "X", intType, false)
	pointObj = types.NewTypeName(2, pkg, "Point", nil)
	point    = types.NewNamed(pointObj, types.NewStruct([]*types.Var{xField}, nil), nil)
	pointPtr = types.NewPointer(point)
	origin   = types.NewVar(3, pkg, "Origin", point)
	normFunc = types.NewFunc(4, pkg, "Norm", types.NewSignatureType(types.NewVar(4, pkg, "p", pointPtr), nil, nil,
		nil, types.NewTuple(types.NewVar(0, nil, "", intType)), false))
	lenFunc = types.Universe.Lookup("len")
)

func local(name string, pos token.Pos, t types.Type) *receiver.LocalVariable {
	return receiver.NewLocalVariableOf(types.NewVar(pos, pkg, name, t))
}

func format(t *testing.T, p astfuncs.Printer, r receiver.Receiver) string {
	t.Helper()
	s, err := p.Format(r)
	require.NoError(t, err)
	return s
}

func TestFormatReceivers(t *testing.T) {
	p := local("p", 10, pointPtr)
	i := local("i", 11, intType)
	s := local("s", 12, types.NewSlice(intType))
	pkgScope := receiver.NewPackageScope(pkg)
	universe := receiver.NewClassName(receiver.NewPackageType(nil))
	this := receiver.NewThisReference(pointPtr)

	for _, c := range []struct {
		r    receiver.Receiver
		want string
	}{
		{receiver.NewFieldAccess(intType, p, xField, false), "p.X"},
		{receiver.NewFieldAccess(intType, this, xField, false), "this.X"},
		{receiver.NewFieldAccess(intType, receiver.NewFieldAccess(point, pkgScope, origin, true), xField, false),
			"geom.Origin.X"},
		{receiver.NewMethodCall(intType, p, normFunc, nil), "p.Norm()"},
		{receiver.NewMethodCall(intType, universe, lenFunc, []receiver.Receiver{s}), "len(s)"},
		{receiver.NewArrayAccess(intType, s, i), "s[i]"},
		{receiver.NewArrayCreation(types.NewSlice(intType), []receiver.Receiver{i}, nil), "make([]int, i)"},
		{receiver.NewArrayCreation(types.NewSlice(intType), []receiver.Receiver{nil},
			[]receiver.Receiver{i, receiver.NewValueLiteral(intType, constant.MakeInt64(1))}), "[]int{i, 1}"},
		{receiver.NewValueLiteral(strType, constant.MakeString("a\"b")), `"a\"b"`},
		{receiver.NewValueLiteral(types.Typ[types.Bool], constant.MakeBool(true)), "true"},
		{receiver.NewValueLiteral(types.Typ[types.Float64], constant.MakeFloat64(1.5)), "1.5"},
		{receiver.NewValueLiteral(pointPtr, nil), "nil"},
		{receiver.NewClassName(pointPtr), "*geom.Point"},
		{pkgScope, "geom"},
	} {
		assert.Equal(t, c.want, format(t, astfuncs.Printer{}, c.r))
	}
}

func TestPrinterOptions(t *testing.T) {
	relative := func(p *types.Package) string {
		if p == pkg {
			return ""
		}
		return p.Name()
	}
	this := receiver.NewThisReference(pointPtr)
	pkgScope := receiver.NewPackageScope(pkg)
	printer := astfuncs.Printer{This: "q", Qualifier: relative}

	assert.Equal(t, "q.X", format(t, printer, receiver.NewFieldAccess(intType, this, xField, false)))
	assert.Equal(t, "Origin", format(t, printer, receiver.NewFieldAccess(point, pkgScope, origin, true)))
	assert.Equal(t, "[]Point{}", format(t, printer, receiver.NewArrayCreation(types.NewSlice(point),
		[]receiver.Receiver{nil}, nil)))
}

func TestFormatErrors(t *testing.T) {
	p := local("p", 10, pointPtr)
	_, err := astfuncs.Printer{}.Format(receiver.NewUnknown(intType))
	assert.ErrorIs(t, err, astfuncs.ErrUnknown)

	_, err = astfuncs.Printer{}.Format(receiver.NewMethodCall(intType, p, normFunc,
		[]receiver.Receiver{receiver.NewUnknown(intType)}))
	assert.ErrorIs(t, err, astfuncs.ErrUnknown)

	_, err = astfuncs.Printer{}.Format(receiver.NewValueLiteral(point, nil))
	assert.Error(t, err)

	_, err = astfuncs.Printer{}.Format(nil)
	assert.Error(t, err)
}

func TestNewTypeExpr(t *testing.T) {
	for _, c := range []struct {
		t    types.Type
		want string
	}{
		{types.NewMap(strType, types.NewSlice(pointPtr)), "map[string][]*geom.Point"},
		{types.NewArray(intType, 4), "[4]int"},
		{types.NewChan(types.RecvOnly, intType), "<-chan int"},
		{types.NewInterfaceType(nil, nil), "any"},
	} {
		e, err := astfuncs.NewTypeExpr(c.t, nil)
		require.NoError(t, err)
		s, err := astfuncs.FormatExpr(e)
		require.NoError(t, err)
		assert.Equal(t, c.want, s)
	}
	_, err := astfuncs.NewTypeExpr(types.Typ[types.Invalid], nil)
	assert.Error(t, err)
}

func TestIsNillableType(t *testing.T) {
	assert.True(t, astfuncs.IsNillableType(pointPtr))
	assert.True(t, astfuncs.IsNillableType(types.NewSlice(intType)))
	assert.True(t, astfuncs.IsNillableType(types.Typ[types.UntypedNil]))
	assert.False(t, astfuncs.IsNillableType(point))
	assert.False(t, astfuncs.IsNillableType(types.NewArray(intType, 2)))
}
