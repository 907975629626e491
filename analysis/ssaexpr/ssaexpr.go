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

// Package ssaexpr adapts SSA values to the expressions of the canonicalizer.
//
// The SSA form must be built with debug information (ssa.GlobalDebug) for local variables held in registers to be
// recognized: the only link between a register and the variable it holds is a DebugRef instruction.
package ssaexpr

import (
	"go/ast"
	"go/constant"
	"go/token"
	"go/types"

	"github.com/awslabs/argot-flowexpr/analysis/astfuncs"
	"github.com/awslabs/argot-flowexpr/analysis/canon"
	"github.com/awslabs/argot-flowexpr/analysis/receiver"
	"golang.org/x/tools/go/ssa"
)

// Of returns the expression computed by v. It returns nil when v is nil.
func Of(v ssa.Value) canon.Expr {
	if v == nil {
		return nil
	}
	return value(v)
}

// OfDebugRef returns the expression of the source expression of ref. Identifiers of local variables are mapped to the
// variable itself instead of the value it holds.
func OfDebugRef(ref *ssa.DebugRef) canon.Expr {
	if v, ok := ref.Object().(*types.Var); ok && isLocal(v) {
		return variableOf(ref.Parent(), v, ref.Expr.Pos())
	}
	if ref.IsAddr {
		return load(ref.X, ref.Expr.Pos())
	}
	// the shape of the source expression is kept: only operands are mapped to the variables holding them
	if e := shape(ref.X); e != nil {
		return e
	}
	return canon.NewLeafExpr(canon.Unclassified, ref.X.Type(), ref.Expr.Pos())
}

func value(v ssa.Value) canon.Expr {
	if e := shape(v); e != nil {
		return e
	}
	if e := register(v); e != nil {
		return e
	}
	return canon.NewLeafExpr(canon.Unclassified, v.Type(), v.Pos())
}

// shape returns the expression of the instruction computing v, or nil when v is not computed by an instruction with a
// receiver shape.
func shape(v ssa.Value) canon.Expr {
	switch x := v.(type) {
	case *ssa.Convert:
		return canon.NewUnaryExpr(canon.Conversion, x.Type(), x.Pos(), value(x.X))
	case *ssa.ChangeType:
		return canon.NewUnaryExpr(canon.Conversion, x.Type(), x.Pos(), value(x.X))
	case *ssa.MakeInterface:
		return canon.NewUnaryExpr(canon.Conversion, x.Type(), x.Pos(), value(x.X))
	case *ssa.Const:
		return constExpr(x)
	case *ssa.Parameter:
		return parameter(x)
	case *ssa.FreeVar, *ssa.Alloc, *ssa.Global:
		if e := variable(v); e != nil {
			return e
		}
	case *ssa.UnOp:
		if x.Op == token.MUL {
			return load(x.X, x.Pos())
		}
	case *ssa.FieldAddr, *ssa.IndexAddr:
		// the address of a location stands for the location, as in implicit field selections
		return load(v, v.Pos())
	case *ssa.Field:
		if f := structField(x.X.Type(), x.Field); f != nil {
			return canon.NewFieldExpr(x.Type(), x.Pos(), value(x.X), f)
		}
	case *ssa.Index:
		return canon.NewIndexExpr(x.Type(), x.Pos(), value(x.X), value(x.Index))
	case *ssa.Lookup:
		if !x.CommaOk {
			return canon.NewIndexExpr(x.Type(), x.Pos(), value(x.X), value(x.Index))
		}
	case *ssa.MakeSlice:
		return canon.NewArrayCreationExpr(x.Type(), x.Pos(), []canon.Expr{value(x.Len)}, nil)
	case *ssa.Slice:
		if a, ok := x.X.(*ssa.Alloc); ok && a.Comment == "slicelit" && x.Low == nil && x.High == nil && x.Max == nil {
			return sliceLiteral(x, a)
		}
	case *ssa.Call:
		return call(x)
	}
	return nil
}

// sliceLiteral returns the expression of a slice composite literal, built as a slice of an array whose elements are
// stored one by one.
func sliceLiteral(s *ssa.Slice, array *ssa.Alloc) canon.Expr {
	at, ok := deref(array.Type()).Underlying().(*types.Array)
	if !ok {
		return nil
	}
	elems := make([]canon.Expr, at.Len())
	for _, instr := range *array.Referrers() {
		ia, ok := instr.(*ssa.IndexAddr)
		if !ok {
			continue
		}
		idx, ok := ia.Index.(*ssa.Const)
		if !ok || idx.Value == nil {
			return nil
		}
		i := idx.Int64()
		if i < 0 || i >= at.Len() {
			return nil
		}
		if st := storeTo(ia); st != nil {
			elems[i] = value(st.Val)
		}
	}
	for i, e := range elems {
		if e == nil {
			elems[i] = zeroExpr(at.Elem(), s.Pos())
		}
	}
	return canon.NewArrayCreationExpr(s.Type(), s.Pos(), []canon.Expr{nil}, elems)
}

func storeTo(addr ssa.Value) *ssa.Store {
	if addr.Referrers() == nil {
		return nil
	}
	for _, instr := range *addr.Referrers() {
		if st, ok := instr.(*ssa.Store); ok && st.Addr == addr {
			return st
		}
	}
	return nil
}

// zeroExpr returns the expression of the zero value of t.
func zeroExpr(t types.Type, pos token.Pos) canon.Expr {
	if astfuncs.IsNillableType(t) {
		return canon.NewLiteralExpr(t, pos, nil)
	}
	b, ok := t.Underlying().(*types.Basic)
	if !ok {
		return canon.NewLeafExpr(canon.Unclassified, t, pos)
	}
	switch {
	case b.Info()&types.IsBoolean != 0:
		return canon.NewLiteralExpr(t, pos, constant.MakeBool(false))
	case b.Info()&types.IsString != 0:
		return canon.NewLiteralExpr(t, pos, constant.MakeString(""))
	case b.Info()&types.IsFloat != 0:
		return canon.NewLiteralExpr(t, pos, constant.MakeFloat64(0))
	case b.Info()&types.IsComplex != 0:
		return canon.NewLiteralExpr(t, pos, constant.ToComplex(constant.MakeInt64(0)))
	case b.Info()&types.IsNumeric != 0:
		return canon.NewLiteralExpr(t, pos, constant.MakeInt64(0))
	}
	return canon.NewLeafExpr(canon.Unclassified, t, pos)
}

// load returns the expression of the value stored at addr.
func load(addr ssa.Value, pos token.Pos) canon.Expr {
	switch x := addr.(type) {
	case *ssa.FieldAddr:
		if f := structField(x.X.Type(), x.Field); f != nil {
			return canon.NewFieldExpr(f.Type(), pos, value(x.X), f)
		}
	case *ssa.IndexAddr:
		return canon.NewIndexExpr(deref(x.Type()), pos, value(x.X), value(x.Index))
	case *ssa.FreeVar, *ssa.Alloc, *ssa.Global:
		if e := variable(addr); e != nil {
			return e
		}
		if a, ok := addr.(*ssa.Alloc); ok && a.Comment == "complit" {
			// composite literal kept in memory
			if st := storeTo(a); st != nil {
				return value(st.Val)
			}
		}
	}
	return canon.NewLeafExpr(canon.Unclassified, deref(addr.Type()), pos)
}

func constExpr(c *ssa.Const) canon.Expr {
	if c.Value == nil && !astfuncs.IsNillableType(c.Type()) {
		// zero value of a struct or array type
		return canon.NewLeafExpr(canon.Unclassified, c.Type(), c.Pos())
	}
	var val constant.Value
	if c.Value != nil {
		val = c.Value
	}
	return canon.NewLiteralExpr(c.Type(), c.Pos(), val)
}

func parameter(p *ssa.Parameter) canon.Expr {
	fn := p.Parent()
	if fn.Signature.Recv() != nil && len(fn.Params) > 0 && fn.Params[0] == p {
		return canon.NewLeafExpr(canon.This, p.Type(), p.Pos())
	}
	if v, ok := p.Object().(*types.Var); ok && v != nil {
		return canon.NewLocalExpr(p.Type(), p.Pos(), receiver.BindingOf(v))
	}
	return canon.NewLocalExpr(p.Type(), p.Pos(), registerBinding(p))
}

// variable returns the expression of the variable whose address is v, or nil if v is not the address of a variable.
func variable(v ssa.Value) canon.Expr {
	switch x := v.(type) {
	case *ssa.Global:
		if obj, ok := x.Object().(*types.Var); ok {
			return canon.NewFieldExpr(obj.Type(), x.Pos(), nil, obj)
		}
	case *ssa.Alloc:
		if !isNamedLocal(x) {
			return nil
		}
		return declared(x.Parent(), x.Comment, x.Pos(), deref(x.Type()))
	case *ssa.FreeVar:
		t := x.Type()
		if isBoxed(x) {
			t = deref(t)
		}
		return declared(x.Parent(), x.Name(), x.Pos(), t)
	}
	return nil
}

// declared returns the expression of the variable name declared at pos, referenced from fn.
func declared(fn *ssa.Function, name string, pos token.Pos, t types.Type) canon.Expr {
	if outer := outermost(fn); isReceiverPos(outer, pos) {
		if outer != fn {
			return canon.NewUnaryExpr(canon.OuterThis, t, pos, canon.NewLeafExpr(canon.TypeName, t, pos))
		}
		return canon.NewLeafExpr(canon.This, t, pos)
	}
	b := receiver.Binding{Name: name, Pos: pos}
	if fn.Pkg != nil {
		b.Owner = fn.Pkg.Pkg.Path()
	}
	return canon.NewLocalExpr(t, pos, b)
}

func variableOf(fn *ssa.Function, v *types.Var, pos token.Pos) canon.Expr {
	if outer := outermost(fn); isReceiverPos(outer, v.Pos()) {
		if outer != fn {
			return canon.NewUnaryExpr(canon.OuterThis, v.Type(), pos, canon.NewLeafExpr(canon.TypeName, v.Type(), pos))
		}
		return canon.NewLeafExpr(canon.This, v.Type(), pos)
	}
	return canon.NewLocalExpr(v.Type(), pos, receiver.BindingOf(v))
}

// register maps values held by a local variable to that variable. Among the variables holding the value, the one
// declared first wins.
func register(v ssa.Value) canon.Expr {
	fn := v.Parent()
	if fn == nil || v.Referrers() == nil {
		return nil
	}
	var best *types.Var
	for _, instr := range *v.Referrers() {
		ref, ok := instr.(*ssa.DebugRef)
		if !ok || ref.IsAddr {
			continue
		}
		obj, ok := ref.Object().(*types.Var)
		if !ok || !isLocal(obj) {
			continue
		}
		if best == nil || obj.Pos() < best.Pos() {
			best = obj
		}
	}
	if best != nil {
		return variableOf(fn, best, v.Pos())
	}
	if phi, ok := v.(*ssa.Phi); ok && phi.Comment != "" {
		return canon.NewLocalExpr(phi.Type(), phi.Pos(), registerBinding(phi))
	}
	return nil
}

func registerBinding(v ssa.Value) receiver.Binding {
	name := v.Name()
	if phi, ok := v.(*ssa.Phi); ok && phi.Comment != "" {
		name = phi.Comment
	}
	owner := ""
	if v.Parent() != nil {
		owner = v.Parent().String() + ":" + v.Name()
	}
	return receiver.Binding{Name: name, Pos: v.Pos(), Owner: owner}
}

func call(c *ssa.Call) canon.Expr {
	common := c.Common()
	args := common.Args
	var callee types.Object
	var recv ssa.Value

	switch f := common.Value.(type) {
	case *ssa.Builtin:
		callee = types.Universe.Lookup(f.Name())
		if callee == nil {
			return canon.NewLeafExpr(canon.Unclassified, c.Type(), c.Pos())
		}
	case *ssa.Function:
		if common.IsInvoke() {
			break
		}
		obj := f.Object()
		if obj == nil && f.Origin() != nil {
			obj = f.Origin().Object()
		}
		if obj == nil {
			if f.Parent() == nil && f.Synthetic == "" {
				// a declared function always has an object
				return canon.NewCallExpr(c.Type(), c.Pos(), nil, nil, nil)
			}
			return canon.NewLeafExpr(canon.Unclassified, c.Type(), c.Pos())
		}
		callee = obj
		if sig, ok := obj.Type().(*types.Signature); ok && sig.Recv() != nil && len(args) > 0 {
			recv, args = args[0], args[1:]
		}
	default:
		if !common.IsInvoke() {
			return canon.NewLeafExpr(canon.Unclassified, c.Type(), c.Pos())
		}
	}
	if common.IsInvoke() {
		callee = common.Method
		recv = common.Value
	}

	exprs := make([]canon.Expr, 0, len(args))
	for _, a := range args {
		exprs = append(exprs, value(a))
	}
	var recvExpr canon.Expr
	if recv != nil {
		recvExpr = value(recv)
	}
	return canon.NewCallExpr(c.Type(), c.Pos(), callee, recvExpr, exprs)
}

func isLocal(v *types.Var) bool {
	return !v.IsField() && (v.Pkg() == nil || v.Parent() != v.Pkg().Scope())
}

// isNamedLocal is true for allocations of source variables: their comment is the name of the variable and their
// position is the position of the variable's identifier.
func isNamedLocal(a *ssa.Alloc) bool {
	if a.Comment == "" || !a.Pos().IsValid() {
		return false
	}
	fn := outermost(a.Parent())
	if sig := fn.Signature; sig.Recv() != nil && sig.Recv().Pos() == a.Pos() {
		return true
	}
	found := false
	if syntax := a.Parent().Syntax(); syntax != nil {
		ast.Inspect(syntax, func(n ast.Node) bool {
			if found {
				return false
			}
			if id, ok := n.(*ast.Ident); ok && id.Pos() == a.Pos() && id.Name == a.Comment {
				found = true
			}
			return true
		})
	}
	return found
}

// isBoxed is true when the free variable is the address of a captured variable.
func isBoxed(fv *ssa.FreeVar) bool {
	fn := fv.Parent()
	parent := fn.Parent()
	if parent == nil {
		return false
	}
	idx := -1
	for i, x := range fn.FreeVars {
		if x == fv {
			idx = i
		}
	}
	for _, b := range parent.Blocks {
		for _, instr := range b.Instrs {
			mc, ok := instr.(*ssa.MakeClosure)
			if !ok || mc.Fn != fn || idx >= len(mc.Bindings) || idx < 0 {
				continue
			}
			switch mc.Bindings[idx].(type) {
			case *ssa.Alloc:
				return true
			case *ssa.FreeVar:
				return isBoxed(mc.Bindings[idx].(*ssa.FreeVar))
			default:
				return false
			}
		}
	}
	// no MakeClosure creates fn: fall back on the type of the free variable
	_, isPtr := fv.Type().Underlying().(*types.Pointer)
	return isPtr
}

func outermost(fn *ssa.Function) *ssa.Function {
	for fn.Parent() != nil {
		fn = fn.Parent()
	}
	return fn
}

func isReceiverPos(fn *ssa.Function, pos token.Pos) bool {
	recv := fn.Signature.Recv()
	return recv != nil && pos.IsValid() && recv.Pos() == pos && recv.Name() != "" && recv.Name() != "_"
}

func structField(t types.Type, i int) *types.Var {
	st, ok := deref(t).Underlying().(*types.Struct)
	if !ok || i < 0 || i >= st.NumFields() {
		return nil
	}
	return st.Field(i)
}

func deref(t types.Type) types.Type {
	if p, ok := t.Underlying().(*types.Pointer); ok {
		return p.Elem()
	}
	return t
}
