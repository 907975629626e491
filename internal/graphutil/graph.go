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

// Package graphutil adapts call graphs to the graph libraries used by the analyses.
package graphutil

import (
	"sort"

	"github.com/awslabs/argot-flowexpr/internal/funcutil"
	"golang.org/x/tools/go/callgraph"
	"gonum.org/v1/gonum/graph"
)

// CGraph is a read-only view of a call graph. Node ids are the callgraph.Node ids. It implements yourbasic's
// graph.Iterator and Gonum's graph.Directed; adjacency lists are sorted so that iterations are deterministic.
type CGraph struct {
	order int

	// Graph is the call graph the CGraph was built from
	Graph *callgraph.Graph

	// IDMap maps node ids to nodes
	IDMap map[int64]CNode

	// Keys are all the node ids, sorted
	Keys []int64

	succ map[int64][]int64
	pred map[int64][]int64
}

// NewCGraph returns the view of cg. Parallel call edges between two functions are merged.
func NewCGraph(cg *callgraph.Graph) CGraph {
	g := CGraph{
		Graph: cg,
		IDMap: make(map[int64]CNode, len(cg.Nodes)),
		succ:  make(map[int64][]int64, len(cg.Nodes)),
		pred:  make(map[int64][]int64, len(cg.Nodes)),
	}
	preds := map[int64]map[int64]bool{}
	for _, node := range cg.Nodes {
		id := int64(node.ID)
		g.IDMap[id] = CNode{node}
		callees := map[int64]bool{}
		for _, e := range node.Out {
			if e.Callee == nil {
				continue
			}
			callee := int64(e.Callee.ID)
			callees[callee] = true
			if preds[callee] == nil {
				preds[callee] = map[int64]bool{}
			}
			preds[callee][id] = true
		}
		g.succ[id] = funcutil.SortedKeys(callees)
	}
	for id, p := range preds {
		g.pred[id] = funcutil.SortedKeys(p)
	}
	g.Keys = funcutil.SortedKeys(g.IDMap)
	if len(g.Keys) > 0 {
		g.order = int(g.Keys[len(g.Keys)-1]) + 1
	}
	return g
}

// Successors returns the sorted ids of the callees of id.
func (c CGraph) Successors(id int64) []int64 { return c.succ[id] }

// Order implements graph.Iterator. Ids are not contiguous: some ids below the order may not be nodes.
func (c CGraph) Order() int {
	return c.order
}

// Visit implements graph.Iterator.
func (c CGraph) Visit(v int, do func(w int, c int64) (skip bool)) (aborted bool) {
	for _, w := range c.succ[int64(v)] {
		if do(int(w), 1) {
			return true
		}
	}
	return false
}

// Node implements graph.Graph.
func (c CGraph) Node(id int64) graph.Node {
	n, ok := c.IDMap[id]
	if !ok {
		return nil
	}
	return n
}

// Nodes implements graph.Graph.
func (c CGraph) Nodes() graph.Nodes { return c.nodes(c.Keys) }

// From implements graph.Graph: the callees of id.
func (c CGraph) From(id int64) graph.Nodes { return c.nodes(c.succ[id]) }

// To implements graph.Directed: the callers of id.
func (c CGraph) To(id int64) graph.Nodes { return c.nodes(c.pred[id]) }

func (c CGraph) nodes(ids []int64) *NodeSet {
	return &NodeSet{nodes: c.IDMap, ids: ids, cur: -1}
}

// HasEdgeBetween implements graph.Graph.
func (c CGraph) HasEdgeBetween(xid, yid int64) bool {
	return c.HasEdgeFromTo(xid, yid) || c.HasEdgeFromTo(yid, xid)
}

// HasEdgeFromTo implements graph.Directed.
func (c CGraph) HasEdgeFromTo(uid, vid int64) bool {
	s := c.succ[uid]
	i := sort.Search(len(s), func(i int) bool { return s[i] >= vid })
	return i < len(s) && s[i] == vid
}

// Edge implements graph.Graph. It returns nil when there is no edge.
func (c CGraph) Edge(uid, vid int64) graph.Edge {
	if !c.HasEdgeFromTo(uid, vid) {
		return nil
	}
	return CEdge{from: c.IDMap[uid], to: c.IDMap[vid]}
}

// CNode is a call graph node implementing graph.Node.
type CNode struct {
	Node *callgraph.Node
}

// ID implements graph.Node.
func (n CNode) ID() int64 {
	return int64(n.Node.ID)
}

func (n CNode) String() string {
	if n.Node == nil {
		return ""
	}
	return n.Node.String()
}

// NodeSet is an iterator over nodes implementing graph.Nodes.
type NodeSet struct {
	nodes map[int64]CNode
	ids   []int64
	// -1 before the first call to Next
	cur int
}

// Next implements graph.Nodes.
func (ns *NodeSet) Next() bool {
	if ns.cur+1 >= len(ns.ids) {
		return false
	}
	ns.cur++
	return true
}

// Len returns the number of nodes remaining in the iterator
func (ns *NodeSet) Len() int {
	return len(ns.ids) - ns.cur - 1
}

// Reset implements graph.Nodes.
func (ns *NodeSet) Reset() {
	ns.cur = -1
}

// Node returns the current node, or nil before the first call to Next.
func (ns *NodeSet) Node() graph.Node {
	if ns.cur < 0 || ns.cur >= len(ns.ids) {
		return nil
	}
	return ns.nodes[ns.ids[ns.cur]]
}

// CEdge is a call edge implementing graph.Edge. Call sites are not represented.
type CEdge struct {
	from CNode
	to   CNode
}

// From implements graph.Edge.
func (e CEdge) From() graph.Node {
	return e.from
}

// To implements graph.Edge.
func (e CEdge) To() graph.Node {
	return e.to
}

// ReversedEdge implements graph.Edge.
func (e CEdge) ReversedEdge() graph.Edge {
	return CEdge{from: e.to, to: e.from}
}
