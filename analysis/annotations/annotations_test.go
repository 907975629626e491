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

package annotations_test

import (
	"bytes"
	"go/types"
	"testing"

	"github.com/awslabs/argot-flowexpr/analysis/annotations"
	"github.com/awslabs/argot-flowexpr/analysis/config"
	"github.com/awslabs/argot-flowexpr/internal/analysistest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const annotatedSrc = `package shapes

//argot:config SetOptions(allow-non-deterministic=true, log-level=3)

type Box struct {
	//argot:field Final
	ID    int
	Width int //argot:field Final()
	Name  string
}

// Unit is the unit box.
//
//argot:field Final
var Unit = Box{ID: 1, Width: 1}

var (
	//argot:field Final
	Max  = 10
	Zero = 0
)

// Area is the area of b.
//
//argot:function Deterministic
func (b *Box) Area() int { return b.Width * b.Width }

//argot:function Ensures(b.Width, scale(b.Width, 2)) Deterministic()
func Grow(b *Box) *Box { b.Width = scale(b.Width, 2); return b }

func scale(x, k int) int { return x * k }

// argot: this is a mistake
func Mistake() int {
	return Max //argot:ignore
}
`

func load(t *testing.T) (*analysistest.TestProgram, annotations.ProgramAnnotations, *bytes.Buffer) {
	p := analysistest.BuildFromSource(t, "example.com/shapes", annotatedSrc)
	logger := config.NewLogGroup(config.NewDefault())
	buf := &bytes.Buffer{}
	logger.SetAllOutput(buf)
	pa := annotations.NewProgramAnnotations()
	require.NoError(t, pa.Add(logger, p.Fset, p.Files, p.Info))
	return p, pa, buf
}

func lookup(p *analysistest.TestProgram, name string) types.Object {
	return p.Pkg.Scope().Lookup(name)
}

func field(p *analysistest.TestProgram, name string) types.Object {
	st := lookup(p, "Box").Type().Underlying().(*types.Struct)
	for i := 0; i < st.NumFields(); i++ {
		if st.Field(i).Name() == name {
			return st.Field(i)
		}
	}
	return nil
}

func method(p *analysistest.TestProgram, name string) types.Object {
	obj, _, _ := types.LookupFieldOrMethod(types.NewPointer(lookup(p, "Box").Type()), true, p.Pkg, name)
	return obj
}

func TestFunctionAnnotations(t *testing.T) {
	p, pa, _ := load(t)
	assert.True(t, pa.IsDeterministic(method(p, "Area")))
	assert.True(t, pa.IsDeterministic(lookup(p, "Grow")))
	assert.False(t, pa.IsDeterministic(lookup(p, "scale")))
	assert.False(t, pa.IsDeterministic(lookup(p, "Max")))
	assert.Equal(t, []string{"b.Width", "scale(b.Width, 2)"}, pa.Ensures(lookup(p, "Grow").(*types.Func)))
	assert.Empty(t, pa.Ensures(lookup(p, "scale").(*types.Func)))
}

func TestFinalAnnotations(t *testing.T) {
	p, pa, _ := load(t)
	assert.True(t, pa.IsFinal(field(p, "ID")))
	assert.True(t, pa.IsFinal(field(p, "Width")))
	assert.False(t, pa.IsFinal(field(p, "Name")))
	assert.True(t, pa.IsFinal(lookup(p, "Unit")))
	assert.True(t, pa.IsFinal(lookup(p, "Max")))
	assert.False(t, pa.IsFinal(lookup(p, "Zero")))
	assert.False(t, pa.IsFinal(lookup(p, "Grow")))
}

func TestFileAnnotations(t *testing.T) {
	p, pa, buf := load(t)
	assert.Equal(t, map[string]string{"allow-non-deterministic": "true", "log-level": "3"}, pa.Configs)

	ret := p.FindExpr(t, "Mistake", "Max")
	assert.True(t, pa.IsIgnoredPos(p.Fset.Position(ret.Pos())))
	assert.False(t, pa.IsIgnoredPos(p.Fset.Position(lookup(p, "scale").Pos())))

	assert.Contains(t, buf.String(), "possible annotation mistake")
	// 2 function annotations on Grow, 1 on Area, 4 final, 1 ignore
	assert.Equal(t, 8, pa.Count())
}

func TestInvalidFunctionAnnotation(t *testing.T) {
	p := analysistest.BuildFromSource(t, "example.com/bad", `package bad

//argot:function Pure
func F() int { return 0 }
`)
	pa := annotations.NewProgramAnnotations()
	err := pa.Add(config.NewLogGroup(config.NewDefault()), p.Fset, p.Files, p.Info)
	assert.ErrorContains(t, err, "unrecognized function annotation")
}
