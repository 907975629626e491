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

// Package astexpr adapts syntax trees to the expressions of the canonicalizer.
//
// The syntax must be type-checked: identifiers are resolved with the types.Info of their package. Expressions that
// are not part of the package syntax, such as the expressions written in annotations, are parsed and type-checked in
// the scope of a position of the package with ParseExpr.
package astexpr

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"go/types"

	"github.com/awslabs/argot-flowexpr/analysis/receiver"
	"golang.org/x/tools/go/ast/astutil"
)

// A Resolver maps the syntax of a type-checked package to expressions. A Resolver is not modified after creation and
// is safe for concurrent use.
type Resolver struct {
	fset  *token.FileSet
	pkg   *types.Package
	infos []*types.Info
	files []*ast.File

	// ctx replaces the position of the expressions for scope queries. It is set for parsed expressions.
	ctx token.Pos
}

// NewResolver returns a resolver for the package pkg with type information info and syntax files.
func NewResolver(fset *token.FileSet, pkg *types.Package, info *types.Info, files []*ast.File) *Resolver {
	return &Resolver{fset: fset, pkg: pkg, infos: []*types.Info{info}, files: files}
}

// Package returns the package of the resolver.
func (r *Resolver) Package() *types.Package { return r.pkg }

// ParseExpr parses src and type-checks it in the innermost scope containing pos. The expression returned can only
// be canonicalized with the returned resolver.
func (r *Resolver) ParseExpr(src string, pos token.Pos) (ast.Expr, *Resolver, error) {
	e, err := parser.ParseExprFrom(r.fset, "", src, 0)
	if err != nil {
		return nil, nil, fmt.Errorf("could not parse %q: %w", src, err)
	}
	info := &types.Info{
		Types:      map[ast.Expr]types.TypeAndValue{},
		Defs:       map[*ast.Ident]types.Object{},
		Uses:       map[*ast.Ident]types.Object{},
		Selections: map[*ast.SelectorExpr]*types.Selection{},
		Instances:  map[*ast.Ident]types.Instance{},
	}
	if err := types.CheckExpr(r.fset, r.pkg, pos, e, info); err != nil {
		return nil, nil, fmt.Errorf("could not type-check %q: %w", src, err)
	}
	child := &Resolver{
		fset:  r.fset,
		pkg:   r.pkg,
		infos: append([]*types.Info{info}, r.infos...),
		files: r.files,
		ctx:   pos,
	}
	return e, child, nil
}

// PseudoReceiver returns the receiver standing for the enclosing declaration at pos: the receiver of the enclosing
// method, or the package for functions and package-level declarations.
func (r *Resolver) PseudoReceiver(pos token.Pos) receiver.Receiver {
	if decl := r.enclosingDecl(pos); decl != nil && decl.Recv != nil {
		if v := r.recvVar(decl); v != nil {
			return receiver.NewThisReference(v.Type())
		}
		// unnamed or blank receiver
		if fn, ok := r.object(decl.Name).(*types.Func); ok {
			if recv := fn.Type().(*types.Signature).Recv(); recv != nil {
				return receiver.NewThisReference(recv.Type())
			}
		}
	}
	return receiver.NewPackageScope(r.pkg)
}

// EnclosingMethodParams returns the parameters of the function declaration enclosing pos, in order. The receiver of
// a method is not a parameter. It returns nil when pos is not in a function declaration.
func (r *Resolver) EnclosingMethodParams(pos token.Pos) []receiver.Receiver {
	decl := r.enclosingDecl(pos)
	if decl == nil {
		return nil
	}
	fn, ok := r.object(decl.Name).(*types.Func)
	if !ok {
		return nil
	}
	params := fn.Type().(*types.Signature).Params()
	res := make([]receiver.Receiver, 0, params.Len())
	for i := 0; i < params.Len(); i++ {
		res = append(res, receiver.NewLocalVariableOf(params.At(i)))
	}
	return res
}

func (r *Resolver) fileOf(pos token.Pos) *ast.File {
	for _, f := range r.files {
		if f.Pos() <= pos && pos <= f.End() {
			return f
		}
	}
	return nil
}

// path returns the path from the node at pos to the root of its file.
func (r *Resolver) path(pos token.Pos) []ast.Node {
	f := r.fileOf(pos)
	if f == nil {
		return nil
	}
	path, _ := astutil.PathEnclosingInterval(f, pos, pos)
	return path
}

func (r *Resolver) enclosingDecl(pos token.Pos) *ast.FuncDecl {
	for _, n := range r.path(pos) {
		if decl, ok := n.(*ast.FuncDecl); ok {
			return decl
		}
	}
	return nil
}

// inClosure is true when a function literal encloses pos.
func (r *Resolver) inClosure(pos token.Pos) bool {
	for _, n := range r.path(pos) {
		switch n.(type) {
		case *ast.FuncLit:
			return true
		case *ast.FuncDecl:
			return false
		}
	}
	return false
}

// recvVar returns the named receiver of a method declaration.
func (r *Resolver) recvVar(decl *ast.FuncDecl) *types.Var {
	if decl.Recv == nil || len(decl.Recv.List) == 0 || len(decl.Recv.List[0].Names) == 0 {
		return nil
	}
	name := decl.Recv.List[0].Names[0]
	if name.Name == "_" {
		return nil
	}
	v, _ := r.object(name).(*types.Var)
	return v
}

func (r *Resolver) contextPos(pos token.Pos) token.Pos {
	if r.ctx.IsValid() {
		return r.ctx
	}
	return pos
}

func (r *Resolver) object(id *ast.Ident) types.Object {
	for _, info := range r.infos {
		if obj, ok := info.Uses[id]; ok {
			return obj
		}
		if obj, ok := info.Defs[id]; ok && obj != nil {
			return obj
		}
	}
	return nil
}

func (r *Resolver) typeAndValue(e ast.Expr) (types.TypeAndValue, bool) {
	for _, info := range r.infos {
		if tv, ok := info.Types[e]; ok {
			return tv, true
		}
	}
	return types.TypeAndValue{}, false
}

func (r *Resolver) selection(e *ast.SelectorExpr) *types.Selection {
	for _, info := range r.infos {
		if sel, ok := info.Selections[e]; ok {
			return sel
		}
	}
	return nil
}
