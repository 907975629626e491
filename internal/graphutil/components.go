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

package graphutil

import (
	"fmt"
	"sort"

	yb "github.com/yourbasic/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// BottomUpComponents returns the strongly connected components of the call graph, ordered such that the components
// containing the callees of a function come before the component of that function. Node ids in each component are
// sorted.
func BottomUpComponents(c CGraph) ([][]int64, error) {
	var comps [][]int64
	compOf := map[int64]int64{}
	for _, comp := range yb.StrongComponents(c) {
		var ids []int64
		for _, v := range comp {
			if _, ok := c.IDMap[int64(v)]; ok {
				ids = append(ids, int64(v))
			}
		}
		if len(ids) == 0 {
			continue
		}
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
		for _, id := range ids {
			compOf[id] = int64(len(comps))
		}
		comps = append(comps, ids)
	}

	dag := simple.NewDirectedGraph()
	for i := range comps {
		dag.AddNode(simple.Node(i))
	}
	for _, from := range c.Keys {
		for _, to := range c.Successors(from) {
			cf, ct := compOf[from], compOf[to]
			if cf != ct {
				dag.SetEdge(dag.NewEdge(simple.Node(cf), simple.Node(ct)))
			}
		}
	}

	sorted, err := topo.SortStabilized(dag, nil)
	if err != nil {
		return nil, fmt.Errorf("condensed call graph is not acyclic: %w", err)
	}

	res := make([][]int64, 0, len(sorted))
	for i := len(sorted) - 1; i >= 0; i-- {
		res = append(res, comps[sorted[i].ID()])
	}
	return res, nil
}
