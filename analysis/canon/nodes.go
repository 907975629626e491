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

package canon

import (
	"go/constant"
	"go/token"
	"go/types"

	"github.com/awslabs/argot-flowexpr/analysis/receiver"
)

// The constructors below build expressions for front ends that have no node type of their own to adapt.
type node struct {
	kind ExprKind
	typ  types.Type
	pos  token.Pos
}

func (n *node) Kind() ExprKind   { return n.kind }
func (n *node) Type() types.Type { return n.typ }
func (n *node) Pos() token.Pos   { return n.pos }

// NewLeafExpr returns an expression with no sub-expression: This, TypeName or Unclassified.
func NewLeafExpr(kind ExprKind, typ types.Type, pos token.Pos) Expr {
	return &node{kind: kind, typ: typ, pos: pos}
}

type unaryNode struct {
	node
	operand Expr
}

func (u *unaryNode) Operand() Expr { return u.operand }

// NewUnaryExpr returns a Conversion, OuterThis or ClassLiteral expression.
func NewUnaryExpr(kind ExprKind, typ types.Type, pos token.Pos, operand Expr) Expr {
	return &unaryNode{node: node{kind, typ, pos}, operand: operand}
}

type fieldNode struct {
	node
	scope Expr
	field types.Object
}

func (f *fieldNode) Scope() Expr         { return f.scope }
func (f *fieldNode) Field() types.Object { return f.field }

// NewFieldExpr returns a FieldAccess expression. scope is nil for implicit and static accesses.
func NewFieldExpr(typ types.Type, pos token.Pos, scope Expr, field types.Object) Expr {
	return &fieldNode{node: node{FieldAccess, typ, pos}, scope: scope, field: field}
}

type localNode struct {
	node
	binding receiver.Binding
}

func (l *localNode) Binding() receiver.Binding { return l.binding }

// NewLocalExpr returns a LocalVariable expression.
func NewLocalExpr(typ types.Type, pos token.Pos, b receiver.Binding) Expr {
	return &localNode{node: node{LocalVariable, typ, pos}, binding: b}
}

type indexNode struct {
	node
	array, index Expr
}

func (i *indexNode) Array() Expr { return i.array }
func (i *indexNode) Index() Expr { return i.index }

// NewIndexExpr returns an ArrayAccess expression.
func NewIndexExpr(typ types.Type, pos token.Pos, array, index Expr) Expr {
	return &indexNode{node: node{ArrayAccess, typ, pos}, array: array, index: index}
}

type creationNode struct {
	node
	dims, elems []Expr
}

func (c *creationNode) Dims() []Expr  { return c.dims }
func (c *creationNode) Elems() []Expr { return c.elems }

// NewArrayCreationExpr returns an ArrayCreation expression.
func NewArrayCreationExpr(typ types.Type, pos token.Pos, dims, elems []Expr) Expr {
	return &creationNode{node: node{ArrayCreation, typ, pos}, dims: dims, elems: elems}
}

type literalNode struct {
	node
	value constant.Value
}

func (l *literalNode) Value() constant.Value { return l.value }

// NewLiteralExpr returns a Literal expression. A nil value is the nil literal.
func NewLiteralExpr(typ types.Type, pos token.Pos, value constant.Value) Expr {
	return &literalNode{node: node{Literal, typ, pos}, value: value}
}

type callNode struct {
	node
	callee types.Object
	recv   Expr
	args   []Expr
}

func (c *callNode) Callee() types.Object { return c.callee }
func (c *callNode) Recv() Expr           { return c.recv }
func (c *callNode) Args() []Expr         { return c.args }

// NewCallExpr returns a Call expression. recv is nil for calls without an explicit receiver.
func NewCallExpr(typ types.Type, pos token.Pos, callee types.Object, recv Expr, args []Expr) Expr {
	return &callNode{node: node{Call, typ, pos}, callee: callee, recv: recv, args: args}
}
