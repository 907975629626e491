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

package ssaexpr_test

import (
	"go/constant"
	"go/types"
	"testing"

	"github.com/awslabs/argot-flowexpr/analysis/canon"
	"github.com/awslabs/argot-flowexpr/analysis/config"
	"github.com/awslabs/argot-flowexpr/analysis/purity"
	"github.com/awslabs/argot-flowexpr/analysis/receiver"
	"github.com/awslabs/argot-flowexpr/analysis/ssaexpr"
	"github.com/awslabs/argot-flowexpr/internal/analysistest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/tools/go/ssa"
)

const geomSrc = `package geom

type Point struct {
	X, Y int
	Next *Point
	Tags []string
}

var Origin Point

func (p *Point) Norm() int { return p.X*p.X + p.Y*p.Y }

func (p *Point) Rand() int { return p.X }

func NextX(p *Point) int { return p.Next.X }

func OriginX() int { return Origin.X }

func Tag(p *Point, i int) string { return p.Tags[i] }

func Norm(p *Point) int { return p.Norm() }

func Rand(p *Point) int { return p.Rand() }

func Make(n int) []int { return make([]int, n) }

func Widen(x int32) int64 { return int64(x) }

func Shadow(x int) int {
	y := x
	{
		x := 2 * y
		return x + y
	}
}

func (p *Point) Closure() func() int {
	return func() int { return p.X }
}

func Length(s []int) int { return len(s) }

func Sum(a, b int) int {
	c := a + b
	return c
}

func Pair(i, x int) []int {
	s := []int{i, x}
	return s
}
`

const geomConfig = `
deterministic-functions:
  - package: "example.com/geom"
    receiver: "Point"
    method: "Norm"
`

type fixture struct {
	prog  *analysistest.TestProgram
	canon *canon.Canonicalizer
}

func newFixture(t *testing.T) fixture {
	cfg, err := config.LoadFromBytes("config.yaml", []byte(geomConfig))
	require.NoError(t, err)
	p := analysistest.BuildFromSource(t, "example.com/geom", geomSrc)
	c := canon.New(config.NewLogGroup(cfg), canon.NewTypesOracle(cfg, nil),
		purity.Union(purity.FromConfig(cfg), purity.Standard()))
	return fixture{prog: p, canon: c}
}

func (f fixture) ref(t *testing.T, fn string, expr string, opts ...canon.Option) receiver.Receiver {
	t.Helper()
	r, err := f.canon.Canonicalize(ssaexpr.OfDebugRef(f.prog.DebugRefFor(t, fn, expr)), opts...)
	require.NoError(t, err)
	require.NotNil(t, r)
	return r
}

func TestFieldAccessChain(t *testing.T) {
	f := newFixture(t)
	r := f.ref(t, "NextX", "p.Next.X")
	require.IsType(t, &receiver.FieldAccess{}, r)
	assert.Equal(t, "p.Next.X", r.String())
	inner := r.(*receiver.FieldAccess).Scope()
	require.IsType(t, &receiver.FieldAccess{}, inner)
	assert.IsType(t, &receiver.LocalVariable{}, inner.(*receiver.FieldAccess).Scope())
	assert.False(t, r.IsUnassignableByOtherCode())
}

func TestStaticFieldAccess(t *testing.T) {
	f := newFixture(t)
	r := f.ref(t, "OriginX", "Origin.X")
	assert.Equal(t, "geom.Origin.X", r.String())
	origin := r.(*receiver.FieldAccess).Scope()
	require.IsType(t, &receiver.FieldAccess{}, origin)
	assert.True(t, origin.(*receiver.FieldAccess).IsStatic())
	assert.IsType(t, &receiver.ClassName{}, origin.(*receiver.FieldAccess).Scope())
}

func TestSliceIndex(t *testing.T) {
	f := newFixture(t)
	r := f.ref(t, "Tag", "p.Tags[i]")
	require.IsType(t, &receiver.ArrayAccess{}, r)
	assert.Equal(t, "p.Tags[i]", r.String())
	assert.IsType(t, &receiver.LocalVariable{}, r.(*receiver.ArrayAccess).Index())
}

func TestDeterministicCall(t *testing.T) {
	f := newFixture(t)
	r := f.ref(t, "Norm", "p.Norm()")
	require.IsType(t, &receiver.MethodCall{}, r)
	assert.Equal(t, "p.Norm()", r.String())
	assert.Equal(t, "Norm", r.(*receiver.MethodCall).Method().Name())
}

func TestNonDeterministicCall(t *testing.T) {
	f := newFixture(t)
	assert.IsType(t, &receiver.Unknown{}, f.ref(t, "Rand", "p.Rand()"))

	r := f.ref(t, "Rand", "p.Rand()", canon.AllowNonDeterministic(true))
	require.IsType(t, &receiver.MethodCall{}, r)
	assert.Equal(t, "p.Rand()", r.String())
}

func TestBuiltinCall(t *testing.T) {
	f := newFixture(t)
	r := f.ref(t, "Length", "len(s)")
	require.IsType(t, &receiver.MethodCall{}, r)
	assert.Equal(t, "len(s)", r.String())
}

func TestMakeSlice(t *testing.T) {
	f := newFixture(t)
	r := f.ref(t, "Make", "make([]int, n)")
	require.IsType(t, &receiver.ArrayCreation{}, r)
	assert.Equal(t, "make([]int, n)", r.String())
}

func TestSliceLiteral(t *testing.T) {
	f := newFixture(t)
	r := f.ref(t, "Pair", "[]int{…}")
	require.IsType(t, &receiver.ArrayCreation{}, r)
	assert.Equal(t, "[]int{i, x}", r.String())
	assert.False(t, r.Equal(f.ref(t, "Pair", "s")))
}

func TestExpressionNotReplacedByVariable(t *testing.T) {
	f := newFixture(t)
	assert.IsType(t, &receiver.Unknown{}, f.ref(t, "Sum", "a + b"))
	assert.IsType(t, &receiver.LocalVariable{}, f.ref(t, "Sum", "c"))
}

func TestConversionIsTransparent(t *testing.T) {
	f := newFixture(t)
	r := f.ref(t, "Widen", "int64(x)")
	require.IsType(t, &receiver.LocalVariable{}, r)
	assert.Equal(t, "x", r.String())
	assert.True(t, r.Equal(f.ref(t, "Widen", "x")))
}

func TestShadowedVariables(t *testing.T) {
	f := newFixture(t)
	refs := f.prog.DebugRefsFor(t, "Shadow", "x")
	require.Len(t, refs, 3)
	var rs []receiver.Receiver
	for _, ref := range refs {
		r, err := f.canon.Canonicalize(ssaexpr.OfDebugRef(ref))
		require.NoError(t, err)
		require.IsType(t, &receiver.LocalVariable{}, r)
		rs = append(rs, r)
	}
	assert.False(t, rs[0].Equal(rs[2]), "the outer x is not the inner x")
	assert.True(t, rs[1].Equal(rs[2]))
	assert.Equal(t, rs[0].String(), rs[2].String())
}

func TestReceiverInClosure(t *testing.T) {
	f := newFixture(t)
	inClosure := f.ref(t, "Point.Closure", "p.X")
	inMethod := f.ref(t, "Point.Norm", "p.X")
	assert.Equal(t, "this.X", inClosure.String())
	assert.True(t, inClosure.Equal(inMethod))
	assert.IsType(t, &receiver.ThisReference{}, inClosure.(*receiver.FieldAccess).Scope())
}

func TestParameters(t *testing.T) {
	f := newFixture(t)
	norm := f.prog.Func(t, "Point.Norm")
	r, err := f.canon.Canonicalize(ssaexpr.Of(norm.Params[0]))
	require.NoError(t, err)
	assert.IsType(t, &receiver.ThisReference{}, r)

	tag := f.prog.Func(t, "Tag")
	r, err = f.canon.Canonicalize(ssaexpr.Of(tag.Params[1]))
	require.NoError(t, err)
	require.IsType(t, &receiver.LocalVariable{}, r)
	assert.Equal(t, "i", r.String())
}

func TestConstants(t *testing.T) {
	f := newFixture(t)
	r, err := f.canon.Canonicalize(ssaexpr.Of(ssa.NewConst(constant.MakeInt64(42), types.Typ[types.Int])))
	require.NoError(t, err)
	assert.Equal(t, "42", r.String())

	r, err = f.canon.Canonicalize(ssaexpr.Of(ssa.NewConst(nil, types.NewPointer(types.Typ[types.Int]))))
	require.NoError(t, err)
	require.IsType(t, &receiver.ValueLiteral{}, r)
	assert.True(t, r.(*receiver.ValueLiteral).IsNil())

	st := types.NewStruct(nil, nil)
	r, err = f.canon.Canonicalize(ssaexpr.Of(ssa.NewConst(nil, st)))
	require.NoError(t, err)
	assert.IsType(t, &receiver.Unknown{}, r)
}

func TestOfNil(t *testing.T) {
	assert.Nil(t, ssaexpr.Of(nil))
}
