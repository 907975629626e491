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

package astexpr

import (
	"go/ast"
	"go/token"
	"go/types"

	"github.com/awslabs/argot-flowexpr/analysis/canon"
	"github.com/awslabs/argot-flowexpr/analysis/receiver"
)

// Of returns the expression of e. It returns an *canon.InternalError when an identifier of e is not resolved in the
// type information of the resolver.
func (r *Resolver) Of(e ast.Expr) (ce canon.Expr, err error) {
	if e == nil {
		return nil, nil
	}
	defer canon.Recover(&err)
	return r.expr(e), nil
}

// Canonicalize returns the receiver of e.
func (r *Resolver) Canonicalize(c *canon.Canonicalizer, e ast.Expr, opts ...canon.Option) (receiver.Receiver, error) {
	ce, err := r.Of(e)
	if err != nil {
		return nil, err
	}
	return c.Canonicalize(ce, opts...)
}

func (r *Resolver) expr(e ast.Expr) canon.Expr {
	tv, _ := r.typeAndValue(e)
	typ := tv.Type
	if p, ok := e.(*ast.ParenExpr); ok {
		return canon.NewUnaryExpr(canon.Conversion, typ, p.Pos(), r.expr(p.X))
	}
	switch {
	case tv.Value != nil:
		return canon.NewLiteralExpr(typ, e.Pos(), tv.Value)
	case tv.IsNil():
		return canon.NewLiteralExpr(typ, e.Pos(), nil)
	case tv.IsType():
		return canon.NewLeafExpr(canon.TypeName, typ, e.Pos())
	}

	switch x := e.(type) {
	case *ast.Ident:
		return r.ident(x, typ)
	case *ast.SelectorExpr:
		return r.selector(x, typ)
	case *ast.IndexExpr:
		if isFunc(r, x.X) {
			// instantiation of a generic function used as a value
			break
		}
		return canon.NewIndexExpr(typ, x.Pos(), r.expr(x.X), r.expr(x.Index))
	case *ast.UnaryExpr:
		// &x denotes the location x
		if x.Op == token.ADD || x.Op == token.AND {
			return canon.NewUnaryExpr(canon.Conversion, typ, x.Pos(), r.expr(x.X))
		}
	case *ast.CallExpr:
		return r.call(x, typ)
	case *ast.CompositeLit:
		return r.compositeLit(x, typ)
	}
	return canon.NewLeafExpr(canon.Unclassified, typ, e.Pos())
}

func (r *Resolver) ident(id *ast.Ident, typ types.Type) canon.Expr {
	if id.Name == "_" {
		return canon.NewLeafExpr(canon.Unclassified, typ, id.Pos())
	}
	obj := r.object(id)
	switch o := obj.(type) {
	case nil:
		canon.Fatalf(id.Pos(), "identifier %s is not resolved", id.Name)
	case *types.PkgName:
		return canon.NewLeafExpr(canon.TypeName, receiver.NewPackageType(o.Imported()), id.Pos())
	case *types.TypeName:
		return canon.NewLeafExpr(canon.TypeName, o.Type(), id.Pos())
	case *types.Var:
		return r.variable(id, o)
	case *types.Const:
		return canon.NewLiteralExpr(o.Type(), id.Pos(), o.Val())
	case *types.Nil:
		return canon.NewLiteralExpr(typ, id.Pos(), nil)
	}
	return canon.NewLeafExpr(canon.Unclassified, typ, id.Pos())
}

func (r *Resolver) variable(id *ast.Ident, v *types.Var) canon.Expr {
	if v.Pkg() != nil && v.Parent() == v.Pkg().Scope() {
		return canon.NewFieldExpr(v.Type(), id.Pos(), nil, v)
	}
	pos := r.contextPos(id.Pos())
	if decl := r.enclosingDecl(pos); decl != nil {
		if recv := r.recvVar(decl); recv != nil && receiver.SameObject(recv, v) {
			if r.inClosure(pos) {
				return canon.NewUnaryExpr(canon.OuterThis, v.Type(), id.Pos(),
					canon.NewLeafExpr(canon.TypeName, v.Type(), id.Pos()))
			}
			return canon.NewLeafExpr(canon.This, v.Type(), id.Pos())
		}
	}
	return canon.NewLocalExpr(v.Type(), id.Pos(), receiver.BindingOf(v))
}

func (r *Resolver) selector(x *ast.SelectorExpr, typ types.Type) canon.Expr {
	sel := r.selection(x)
	if sel == nil {
		// qualified identifier
		switch o := r.object(x.Sel).(type) {
		case nil:
			canon.Fatalf(x.Sel.Pos(), "identifier %s is not resolved", x.Sel.Name)
		case *types.TypeName:
			return canon.NewLeafExpr(canon.TypeName, o.Type(), x.Pos())
		case *types.Var:
			return canon.NewFieldExpr(o.Type(), x.Pos(), r.expr(x.X), o)
		case *types.Const:
			return canon.NewLiteralExpr(o.Type(), x.Pos(), o.Val())
		}
		return canon.NewLeafExpr(canon.Unclassified, typ, x.Pos())
	}
	if sel.Kind() != types.FieldVal {
		// method values
		return canon.NewLeafExpr(canon.Unclassified, typ, x.Pos())
	}
	scope := r.embedded(r.expr(x.X), sel, x.Pos())
	return canon.NewFieldExpr(typ, x.Pos(), scope, sel.Obj())
}

// embedded returns the expression of the fields implicitly selected by sel on scope.
func (r *Resolver) embedded(scope canon.Expr, sel *types.Selection, pos token.Pos) canon.Expr {
	idx := sel.Index()
	t := sel.Recv()
	for _, i := range idx[:len(idx)-1] {
		f := structField(t, i)
		if f == nil {
			return canon.NewLeafExpr(canon.Unclassified, t, pos)
		}
		scope = canon.NewFieldExpr(f.Type(), pos, scope, f)
		t = f.Type()
	}
	return scope
}

func (r *Resolver) call(x *ast.CallExpr, typ types.Type) canon.Expr {
	if tv, _ := r.typeAndValue(x.Fun); tv.IsType() && len(x.Args) == 1 {
		return canon.NewUnaryExpr(canon.Conversion, typ, x.Pos(), r.expr(x.Args[0]))
	}
	fun := unparen(x.Fun)
	switch f := fun.(type) {
	case *ast.IndexExpr:
		fun = unparen(f.X)
	case *ast.IndexListExpr:
		fun = unparen(f.X)
	}

	var callee types.Object
	var recv canon.Expr
	args := x.Args

	switch f := fun.(type) {
	case *ast.Ident:
		switch o := r.object(f).(type) {
		case nil:
			// the call cannot be linked to its declaration
		case *types.Builtin:
			if o.Name() == "make" {
				return r.makeExpr(x, typ)
			}
			callee = o
		case *types.Func:
			callee = o
		default:
			return canon.NewLeafExpr(canon.Unclassified, typ, x.Pos())
		}
	case *ast.SelectorExpr:
		sel := r.selection(f)
		switch {
		case sel == nil:
			o, isFunc := r.object(f.Sel).(*types.Func)
			if r.object(f.Sel) != nil && !isFunc {
				return canon.NewLeafExpr(canon.Unclassified, typ, x.Pos())
			}
			if isFunc {
				callee = o
			}
		case sel.Kind() == types.MethodVal:
			callee = sel.Obj()
			recv = r.embedded(r.expr(f.X), sel, f.Pos())
		case sel.Kind() == types.MethodExpr && len(args) > 0:
			callee = sel.Obj()
			recv = r.expr(args[0])
			args = args[1:]
		default:
			return canon.NewLeafExpr(canon.Unclassified, typ, x.Pos())
		}
	default:
		return canon.NewLeafExpr(canon.Unclassified, typ, x.Pos())
	}

	exprs := make([]canon.Expr, 0, len(args))
	for _, a := range args {
		exprs = append(exprs, r.expr(a))
	}
	return canon.NewCallExpr(typ, x.Lparen, callee, recv, exprs)
}

func (r *Resolver) makeExpr(x *ast.CallExpr, typ types.Type) canon.Expr {
	if _, ok := coreType(typ).(*types.Slice); !ok {
		return canon.NewLeafExpr(canon.Unclassified, typ, x.Pos())
	}
	var dim canon.Expr
	if len(x.Args) > 1 {
		dim = r.expr(x.Args[1])
	}
	return canon.NewArrayCreationExpr(typ, x.Pos(), []canon.Expr{dim}, nil)
}

func (r *Resolver) compositeLit(x *ast.CompositeLit, typ types.Type) canon.Expr {
	switch coreType(typ).(type) {
	case *types.Slice, *types.Array:
	default:
		return canon.NewLeafExpr(canon.Unclassified, typ, x.Pos())
	}
	elems := make([]canon.Expr, 0, len(x.Elts))
	for _, e := range x.Elts {
		if _, ok := e.(*ast.KeyValueExpr); ok {
			return canon.NewLeafExpr(canon.Unclassified, typ, x.Pos())
		}
		elems = append(elems, r.expr(e))
	}
	return canon.NewArrayCreationExpr(typ, x.Pos(), []canon.Expr{nil}, elems)
}

// isFunc is true when e denotes a function.
func isFunc(r *Resolver, e ast.Expr) bool {
	switch x := unparen(e).(type) {
	case *ast.Ident:
		_, ok := r.object(x).(*types.Func)
		return ok
	case *ast.SelectorExpr:
		_, ok := r.object(x.Sel).(*types.Func)
		return ok
	}
	return false
}

func unparen(e ast.Expr) ast.Expr {
	for {
		p, ok := e.(*ast.ParenExpr)
		if !ok {
			return e
		}
		e = p.X
	}
}

func coreType(t types.Type) types.Type {
	if t == nil {
		return nil
	}
	return t.Underlying()
}

func structField(t types.Type, i int) *types.Var {
	if p, ok := t.Underlying().(*types.Pointer); ok {
		t = p.Elem()
	}
	st, ok := t.Underlying().(*types.Struct)
	if !ok || i < 0 || i >= st.NumFields() {
		return nil
	}
	return st.Field(i)
}
