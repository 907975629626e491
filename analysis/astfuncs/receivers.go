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

package astfuncs

import (
	"bytes"
	"errors"
	"fmt"
	"go/token"
	"go/types"
	"strings"

	"github.com/awslabs/argot-flowexpr/analysis/receiver"
	"github.com/dave/dst"
	"github.com/dave/dst/decorator"
)

// ErrUnknown is returned for receivers that contain an Unknown: they denote no Go expression.
var ErrUnknown = errors.New("unknown receivers have no expression")

// A Printer maps receivers back to Go expressions.
type Printer struct {
	// This is the name of the method receiver in the expressions. Defaults to "this".
	This string
	// Qualifier names the packages of package-level members and named types. A nil qualifier uses the package
	// names. Members of packages the qualifier maps to "" are not qualified.
	Qualifier types.Qualifier
}

// Expr returns the syntax of r.
func (p Printer) Expr(r receiver.Receiver) (dst.Expr, error) {
	if r == nil {
		return nil, fmt.Errorf("nil receiver")
	}
	b := &builder{Printer: p}
	if b.This == "" {
		b.This = "this"
	}
	if b.Qualifier == nil {
		b.Qualifier = func(pkg *types.Package) string { return pkg.Name() }
	}
	e := receiver.Visit[dst.Expr](b, r)
	if b.err != nil {
		return nil, b.err
	}
	return e, nil
}

// Format returns the Go source of r, formatted by gofmt.
func (p Printer) Format(r receiver.Receiver) (string, error) {
	e, err := p.Expr(r)
	if err != nil {
		return "", err
	}
	return FormatExpr(e)
}

// FormatExpr returns the Go source of the expression e.
func FormatExpr(e dst.Expr) (string, error) {
	const prefix = "var _ = "
	f := &dst.File{
		Name: dst.NewIdent("p"),
		Decls: []dst.Decl{&dst.GenDecl{
			Tok: token.VAR,
			Specs: []dst.Spec{&dst.ValueSpec{
				Names:  []*dst.Ident{dst.NewIdent("_")},
				Values: []dst.Expr{e},
			}},
		}},
	}
	var buf bytes.Buffer
	if err := decorator.Fprint(&buf, f); err != nil {
		return "", fmt.Errorf("could not print expression: %w", err)
	}
	_, src, found := strings.Cut(buf.String(), prefix)
	if !found {
		return "", fmt.Errorf("unexpected printer output %q", buf.String())
	}
	return strings.TrimSpace(src), nil
}

// builder implements receiver.Visitor. The first error aborts the construction.
type builder struct {
	Printer
	err error
}

func (b *builder) fail(err error) dst.Expr {
	if b.err == nil {
		b.err = err
	}
	return dst.NewIdent("_")
}

func (b *builder) expr(r receiver.Receiver) dst.Expr {
	return receiver.Visit[dst.Expr](b, r)
}

// scope returns the expression qualifying members of r, or nil when members of r are not qualified.
func (b *builder) scope(r receiver.Receiver) dst.Expr {
	if c, ok := r.(*receiver.ClassName); ok {
		if pt, ok := c.Type().(*receiver.PackageType); ok {
			if pt.Package() == nil {
				return nil
			}
			if q := b.Qualifier(pt.Package()); q != "" {
				return dst.NewIdent(q)
			}
			return nil
		}
	}
	return b.expr(r)
}

func (b *builder) member(scope receiver.Receiver, name string) dst.Expr {
	if x := b.scope(scope); x != nil {
		return NewSelector(x, name)
	}
	return dst.NewIdent(name)
}

func (b *builder) VisitFieldAccess(f *receiver.FieldAccess) dst.Expr {
	return b.member(f.Scope(), f.Field().Name())
}

func (b *builder) VisitThisReference(*receiver.ThisReference) dst.Expr {
	return dst.NewIdent(b.This)
}

func (b *builder) VisitClassName(c *receiver.ClassName) dst.Expr {
	if pt, ok := c.Type().(*receiver.PackageType); ok {
		if pt.Package() == nil {
			return b.fail(fmt.Errorf("the universe scope has no expression"))
		}
		return dst.NewIdent(b.Qualifier(pt.Package()))
	}
	t, err := NewTypeExpr(c.Type(), b.Qualifier)
	if err != nil {
		return b.fail(err)
	}
	return t
}

func (b *builder) VisitLocalVariable(l *receiver.LocalVariable) dst.Expr {
	return dst.NewIdent(l.Binding().Name)
}

func (b *builder) VisitValueLiteral(v *receiver.ValueLiteral) dst.Expr {
	if v.IsNil() {
		if !IsNillableType(v.Type()) {
			return b.fail(fmt.Errorf("nil literal of non-nillable type %s", v.Type()))
		}
		return NewNil()
	}
	e, err := NewConstant(v.Value())
	if err != nil {
		return b.fail(err)
	}
	return e
}

func (b *builder) VisitMethodCall(m *receiver.MethodCall) dst.Expr {
	args := make([]dst.Expr, 0, len(m.Args()))
	for _, a := range m.Args() {
		args = append(args, b.expr(a))
	}
	return NewCall(b.member(m.Scope(), m.Method().Name()), args...)
}

func (b *builder) VisitArrayAccess(a *receiver.ArrayAccess) dst.Expr {
	return &dst.IndexExpr{X: b.expr(a.Array()), Index: b.expr(a.Index())}
}

func (b *builder) VisitArrayCreation(a *receiver.ArrayCreation) dst.Expr {
	t, err := NewTypeExpr(a.Type(), b.Qualifier)
	if err != nil {
		return b.fail(err)
	}
	inits := a.Initializers()
	dims := a.Dimensions()
	if len(inits) == 0 && len(dims) > 0 && dims[0] != nil {
		if _, ok := a.Type().Underlying().(*types.Slice); ok {
			return NewCall(dst.NewIdent("make"), t, b.expr(dims[0]))
		}
	}
	elts := make([]dst.Expr, 0, len(inits))
	for _, x := range inits {
		elts = append(elts, b.expr(x))
	}
	return &dst.CompositeLit{Type: t, Elts: elts}
}

func (b *builder) VisitUnknown(*receiver.Unknown) dst.Expr {
	return b.fail(ErrUnknown)
}
