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

package purity_test

import (
	"go/types"
	"strings"
	"testing"

	"github.com/awslabs/argot-flowexpr/analysis/config"
	"github.com/awslabs/argot-flowexpr/analysis/purity"
	"github.com/awslabs/argot-flowexpr/internal/analysistest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const geomSrc = `package geom

type Point struct{ X, Y int }

var counter int

func (p Point) Sum() int { return p.X + p.Y }

func (p *Point) Move(dx int) { p.X += dx }

func Next() int {
	counter++
	return counter
}

func Fresh() *Point { return &Point{} }

func Twice(p Point) int { return p.Sum() * 2 }

func UsesNext() int { return Next() + 1 }

func Even(n int) bool {
	if n == 0 {
		return true
	}
	return Odd(n - 1)
}

func Odd(n int) bool {
	if n == 0 {
		return false
	}
	return Even(n - 1)
}

func Local() int {
	s := make([]int, 3)
	s[0] = 1
	return s[0]
}

func LocalLiteral() int {
	s := []int{1, 2}
	s[1] = 3
	return s[0] + s[1]
}

func FreshSlice() []int { return []int{1} }

func Send(c chan int) int {
	c <- 1
	return 0
}
`

// lookup returns the function name of pkg. Methods are named "T.m".
func lookup(t *testing.T, pkg *types.Package, name string) types.Object {
	t.Helper()
	typeName, method, isMethod := strings.Cut(name, ".")
	if !isMethod {
		obj := pkg.Scope().Lookup(name)
		require.NotNil(t, obj, name)
		return obj
	}
	tn := pkg.Scope().Lookup(typeName)
	require.NotNil(t, tn, typeName)
	obj, _, _ := types.LookupFieldOrMethod(types.NewPointer(tn.Type()), false, pkg, method)
	require.NotNil(t, obj, name)
	return obj
}

func TestStandard(t *testing.T) {
	std := purity.Standard()
	assert.True(t, std.IsDeterministic(types.Universe.Lookup("len")))
	assert.False(t, std.IsDeterministic(types.Universe.Lookup("append")))
	assert.False(t, std.IsDeterministic(types.Universe.Lookup("println")))

	strs := types.NewPackage("strings", "strings")
	sig := types.NewSignatureType(nil, nil, nil, nil, nil, false)
	assert.True(t, std.IsDeterministic(types.NewFunc(0, strs, "HasPrefix", sig)))
	assert.False(t, std.IsDeterministic(types.NewFunc(0, strs, "NewReader", sig)))
}

func TestUnion(t *testing.T) {
	obj := types.Universe.Lookup("len")
	assert.False(t, purity.Union().IsDeterministic(obj))
	assert.False(t, purity.Union(purity.None(), nil).IsDeterministic(obj))
	assert.True(t, purity.Union(purity.None(), purity.All()).IsDeterministic(obj))
}

func TestFromConfig(t *testing.T) {
	cfg, err := config.LoadFromBytes("config.yaml", []byte(`
deterministic-functions:
  - package: "example.com/geom"
    receiver: "Point"
    method: "Sum"
  - package: "example.com/geom"
    method: "Even|Odd"
`))
	require.NoError(t, err)
	p := analysistest.BuildFromSource(t, "example.com/geom", geomSrc)
	c := purity.FromConfig(cfg)

	assert.True(t, c.IsDeterministic(lookup(t, p.Pkg, "Point.Sum")))
	assert.True(t, c.IsDeterministic(lookup(t, p.Pkg, "Even")))
	assert.True(t, c.IsDeterministic(lookup(t, p.Pkg, "Odd")))
	assert.False(t, c.IsDeterministic(lookup(t, p.Pkg, "Point.Move")))
	assert.False(t, c.IsDeterministic(lookup(t, p.Pkg, "Next")))
}

func TestIdentify(t *testing.T) {
	p := analysistest.BuildFromSource(t, "example.com/geom", geomSrc)
	pkg, recv, name := purity.Identify(lookup(t, p.Pkg, "Point.Move"))
	assert.Equal(t, "example.com/geom", pkg)
	assert.Equal(t, "Point", recv)
	assert.Equal(t, "Move", name)

	pkg, recv, name = purity.Identify(types.Universe.Lookup("cap"))
	assert.Equal(t, "", pkg)
	assert.Equal(t, "", recv)
	assert.Equal(t, "cap", name)
}

func TestInfer(t *testing.T) {
	p := analysistest.BuildFromSource(t, "example.com/geom", geomSrc)
	logger := config.NewLogGroup(config.NewDefault())
	res, err := purity.Infer(logger, p.Prog, purity.Standard())
	require.NoError(t, err)

	for name, expected := range map[string]bool{
		"Point.Sum":    true,
		"Twice":        true,
		"Even":         true,
		"Odd":          true,
		"Local":        true,
		"LocalLiteral": true,
		"Point.Move":   false,
		"Next":         false,
		"UsesNext":     false,
		"Fresh":        false,
		"FreshSlice":   false,
		"Send":         false,
	} {
		assert.Equal(t, expected, res.IsDeterministic(lookup(t, p.Pkg, name)), name)
	}
	assert.True(t, res.IsDeterministic(types.Universe.Lookup("len")), "base classifier is consulted")
	assert.GreaterOrEqual(t, res.Count(), 5)
}
