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

// Package analysistest builds small in-memory programs for the tests of the analyses.
package analysistest

import (
	"fmt"
	"go/ast"
	"go/importer"
	"go/parser"
	"go/token"
	"go/types"
	"sort"
	"testing"

	"golang.org/x/tools/go/ast/astutil"
	"golang.org/x/tools/go/ssa"
	"golang.org/x/tools/go/ssa/ssautil"
)

// TestProgram is a single type-checked package with its SSA form. The SSA is built with debug information, so
// expressions of the syntax can be mapped to SSA values.
type TestProgram struct {
	Fset   *token.FileSet
	Pkg    *types.Package
	Info   *types.Info
	Files  []*ast.File
	Prog   *ssa.Program
	SSAPkg *ssa.Package
}

// BuildFromSource parses, type-checks and builds the package at path made of the source files. Sources may only
// import standard library packages. Each source is named file<i>.go.
func BuildFromSource(t *testing.T, path string, sources ...string) *TestProgram {
	t.Helper()
	p, err := Build(path, sources...)
	if err != nil {
		t.Fatalf("failed to build test program: %v", err)
	}
	return p
}

// Build is BuildFromSource outside of tests.
func Build(path string, sources ...string) (*TestProgram, error) {
	fset := token.NewFileSet()
	var files []*ast.File
	for i, src := range sources {
		f, err := parser.ParseFile(fset, fmt.Sprintf("file%d.go", i), src, parser.ParseComments)
		if err != nil {
			return nil, fmt.Errorf("could not parse source %d: %w", i, err)
		}
		files = append(files, f)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no sources")
	}
	pkg := types.NewPackage(path, files[0].Name.Name)
	tc := &types.Config{Importer: importer.Default()}
	ssaPkg, info, err := ssautil.BuildPackage(tc, fset, pkg, files, ssa.SanityCheckFunctions|ssa.GlobalDebug)
	if err != nil {
		return nil, fmt.Errorf("could not build package: %w", err)
	}
	return &TestProgram{
		Fset:   fset,
		Pkg:    pkg,
		Info:   info,
		Files:  files,
		Prog:   ssaPkg.Prog,
		SSAPkg: ssaPkg,
	}, nil
}

// FuncDecl returns the declaration of the function name. Methods are named "T.m".
func (p *TestProgram) FuncDecl(t *testing.T, name string) *ast.FuncDecl {
	t.Helper()
	for _, f := range p.Files {
		for _, d := range f.Decls {
			fd, ok := d.(*ast.FuncDecl)
			if ok && declName(fd) == name {
				return fd
			}
		}
	}
	t.Fatalf("no function %s in test program", name)
	return nil
}

func declName(fd *ast.FuncDecl) string {
	if fd.Recv == nil || len(fd.Recv.List) == 0 {
		return fd.Name.Name
	}
	typ := fd.Recv.List[0].Type
	if star, ok := typ.(*ast.StarExpr); ok {
		typ = star.X
	}
	if id, ok := typ.(*ast.Ident); ok {
		return id.Name + "." + fd.Name.Name
	}
	return fd.Name.Name
}

// Func returns the SSA function of the declaration name. Methods are named "T.m".
func (p *TestProgram) Func(t *testing.T, name string) *ssa.Function {
	t.Helper()
	fd := p.FuncDecl(t, name)
	obj, ok := p.Info.Defs[fd.Name].(*types.Func)
	if !ok {
		t.Fatalf("%s is not a function", name)
	}
	fn := p.Prog.FuncValue(obj)
	if fn == nil {
		t.Fatalf("no SSA function for %s", name)
	}
	return fn
}

// FindExpr returns the first expression in the declaration of funcName (closures included) that prints as
// exprText.
func (p *TestProgram) FindExpr(t *testing.T, funcName string, exprText string) ast.Expr {
	t.Helper()
	var found ast.Expr
	ast.Inspect(p.FuncDecl(t, funcName), func(n ast.Node) bool {
		if found != nil {
			return false
		}
		if e, ok := n.(ast.Expr); ok && types.ExprString(e) == exprText {
			found = e
			return false
		}
		return true
	})
	if found == nil {
		t.Fatalf("no expression %q in %s", exprText, funcName)
	}
	return found
}

// FileOf returns the file containing pos.
func (p *TestProgram) FileOf(pos token.Pos) *ast.File {
	for _, f := range p.Files {
		if f.Pos() <= pos && pos <= f.End() {
			return f
		}
	}
	return nil
}

// ValueFor returns the SSA value of the expression exprText in funcName, and whether it is the address of the
// expression.
func (p *TestProgram) ValueFor(t *testing.T, funcName string, exprText string) (ssa.Value, bool) {
	t.Helper()
	e := p.FindExpr(t, funcName, exprText)
	path, _ := astutil.PathEnclosingInterval(p.FileOf(e.Pos()), e.Pos(), e.End())
	fn := ssa.EnclosingFunction(p.SSAPkg, path)
	if fn == nil {
		t.Fatalf("no function encloses %q", exprText)
	}
	v, isAddr := fn.ValueForExpr(e)
	if v == nil {
		t.Fatalf("no value for %q in %s", exprText, fn)
	}
	return v, isAddr
}

// DebugRefFor returns the first debug reference of the expression exprText in funcName.
func (p *TestProgram) DebugRefFor(t *testing.T, funcName string, exprText string) *ssa.DebugRef {
	t.Helper()
	refs := p.DebugRefsFor(t, funcName, exprText)
	if len(refs) == 0 {
		t.Fatalf("no debug reference for %q in %s", exprText, funcName)
	}
	return refs[0]
}

// DebugRefsFor returns the debug references of all the occurrences of exprText in funcName and its closures, in
// source order.
func (p *TestProgram) DebugRefsFor(t *testing.T, funcName string, exprText string) []*ssa.DebugRef {
	t.Helper()
	var refs []*ssa.DebugRef
	fns := []*ssa.Function{p.Func(t, funcName)}
	for len(fns) > 0 {
		fn := fns[0]
		fns = append(fns[1:], fn.AnonFuncs...)
		for _, b := range fn.Blocks {
			for _, instr := range b.Instrs {
				if ref, ok := instr.(*ssa.DebugRef); ok && types.ExprString(ref.Expr) == exprText {
					refs = append(refs, ref)
				}
			}
		}
	}
	sort.SliceStable(refs, func(i, j int) bool { return refs[i].Expr.Pos() < refs[j].Expr.Pos() })
	return refs
}
