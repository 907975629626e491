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

package graphutil_test

import (
	"sort"
	"testing"

	"github.com/awslabs/argot-flowexpr/internal/analysistest"
	"github.com/awslabs/argot-flowexpr/internal/graphutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/tools/go/callgraph/cha"
	"gonum.org/v1/gonum/graph/topo"
)

const callsSrc = `package calls

func a() { b(); c() }

func b() { c() }

func c() { d() }

func d() { c() }

func e() { e() }
`

func buildCalls(t *testing.T) (graphutil.CGraph, map[string]int64) {
	p := analysistest.BuildFromSource(t, "example.com/calls", callsSrc)
	cg := cha.CallGraph(p.Prog)
	ids := map[string]int64{}
	for fn, node := range cg.Nodes {
		if fn != nil && fn.Pkg == p.SSAPkg {
			ids[fn.Name()] = int64(node.ID)
		}
	}
	return graphutil.NewCGraph(cg), ids
}

func TestBottomUpComponents(t *testing.T) {
	g, ids := buildCalls(t)
	comps, err := graphutil.BottomUpComponents(g)
	require.NoError(t, err)

	index := map[int64]int{}
	for i, comp := range comps {
		assert.True(t, sort.SliceIsSorted(comp, func(i, j int) bool { return comp[i] < comp[j] }))
		for _, id := range comp {
			_, dup := index[id]
			assert.False(t, dup, "node %d in two components", id)
			index[id] = i
		}
	}
	assert.Len(t, index, len(g.Keys))

	assert.Equal(t, index[ids["c"]], index[ids["d"]])
	assert.NotEqual(t, index[ids["a"]], index[ids["b"]])
	assert.Less(t, index[ids["c"]], index[ids["b"]])
	assert.Less(t, index[ids["b"]], index[ids["a"]])
	assert.Len(t, comps[index[ids["e"]]], 1)
}

func TestComponentsAgreeWithTarjan(t *testing.T) {
	g, _ := buildCalls(t)
	comps, err := graphutil.BottomUpComponents(g)
	require.NoError(t, err)

	var want [][]int64
	for _, comp := range topo.TarjanSCC(g) {
		var c []int64
		for _, n := range comp {
			c = append(c, n.ID())
		}
		sort.Slice(c, func(i, j int) bool { return c[i] < c[j] })
		want = append(want, c)
	}
	assert.ElementsMatch(t, want, comps)
}

func TestGraphInterfaces(t *testing.T) {
	g, ids := buildCalls(t)
	a, b, c := ids["a"], ids["b"], ids["c"]

	assert.True(t, g.HasEdgeFromTo(a, b))
	assert.False(t, g.HasEdgeFromTo(b, a))
	assert.True(t, g.HasEdgeBetween(b, a))
	assert.Nil(t, g.Edge(b, a))
	e := g.Edge(a, c)
	require.NotNil(t, e)
	assert.Equal(t, a, e.From().ID())
	assert.Equal(t, c, e.To().ID())
	assert.Nil(t, g.Node(int64(g.Order())+1))

	from := g.From(a)
	assert.Equal(t, 2, from.Len())
	var succs []int64
	for from.Next() {
		succs = append(succs, from.Node().ID())
	}
	assert.ElementsMatch(t, []int64{b, c}, succs)
	assert.Equal(t, 0, from.Len())
	from.Reset()
	assert.Equal(t, 2, from.Len())

	to := g.To(c)
	var preds []int64
	for to.Next() {
		preds = append(preds, to.Node().ID())
	}
	assert.ElementsMatch(t, []int64{a, b, ids["d"]}, preds)

	var visited []int
	g.Visit(int(a), func(w int, _ int64) bool {
		visited = append(visited, w)
		return false
	})
	assert.ElementsMatch(t, []int{int(b), int(c)}, visited)
}
