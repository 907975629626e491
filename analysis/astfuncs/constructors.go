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

// Package astfuncs builds Go syntax trees for receivers and types.
package astfuncs

import (
	"fmt"
	"go/constant"
	"go/token"
	"go/types"
	"strconv"

	"github.com/dave/dst"
)

// NewTrue returns a new AST structure that represents the boolean true
func NewTrue() *dst.Ident {
	return dst.NewIdent("true")
}

// NewFalse returns a new AST structure that represents the boolean false
func NewFalse() *dst.Ident {
	return dst.NewIdent("false")
}

// NewInt returns a new AST structure that represents the integer value
func NewInt(value int) *dst.BasicLit {
	return &dst.BasicLit{Value: strconv.Itoa(value), Kind: token.INT}
}

// NewString returns a new AST structure that represents the string value
func NewString(value string) *dst.BasicLit {
	return &dst.BasicLit{Value: strconv.Quote(value), Kind: token.STRING}
}

// NewNil returns a dst expression that represents nil
func NewNil() dst.Expr {
	return dst.NewIdent("nil")
}

// NewConstant returns the literal of the constant value v.
func NewConstant(v constant.Value) (dst.Expr, error) {
	switch v.Kind() {
	case constant.Bool:
		if constant.BoolVal(v) {
			return NewTrue(), nil
		}
		return NewFalse(), nil
	case constant.String:
		return NewString(constant.StringVal(v)), nil
	case constant.Int:
		return &dst.BasicLit{Value: v.ExactString(), Kind: token.INT}, nil
	case constant.Float:
		f, _ := constant.Float64Val(v)
		return &dst.BasicLit{Value: strconv.FormatFloat(f, 'g', -1, 64), Kind: token.FLOAT}, nil
	case constant.Complex:
		re, _ := constant.Float64Val(constant.Real(v))
		im, _ := constant.Float64Val(constant.Imag(v))
		return NewCall(dst.NewIdent("complex"),
			&dst.BasicLit{Value: strconv.FormatFloat(re, 'g', -1, 64), Kind: token.FLOAT},
			&dst.BasicLit{Value: strconv.FormatFloat(im, 'g', -1, 64), Kind: token.FLOAT}), nil
	default:
		return nil, fmt.Errorf("no literal for constant %s", v)
	}
}

// NewSelector returns the expression x.name
func NewSelector(x dst.Expr, name string) *dst.SelectorExpr {
	return &dst.SelectorExpr{X: x, Sel: dst.NewIdent(name)}
}

// NewCall returns a new call expression that calls fun over the arguments args ...
func NewCall(fun dst.Expr, args ...dst.Expr) *dst.CallExpr {
	return &dst.CallExpr{
		Fun:      fun,
		Args:     args,
		Ellipsis: false,
	}
}

// NewTypeExpr returns an AST expression that represents the type t. Named types are qualified with the name that
// qualifier returns for their package, and unqualified when it returns "". A nil qualifier uses the package names.
//
// For example, the expression that represents a types.Struct will be of the form
// struct{...}.
//
// For an integer, the expression is an identifier 'int'
func NewTypeExpr(t types.Type, qualifier types.Qualifier) (dst.Expr, error) {
	if qualifier == nil {
		qualifier = func(p *types.Package) string { return p.Name() }
	}
	switch t0 := t.(type) {
	case *types.Basic:
		if t0.Kind() == types.Invalid {
			return nil, fmt.Errorf("invalid type")
		}
		return dst.NewIdent(t0.Name()), nil
	case *types.Named:
		return namedTypeExpr(t0.Obj(), qualifier), nil
	case *types.TypeParam:
		return dst.NewIdent(t0.Obj().Name()), nil
	case *types.Pointer:
		elem, err := NewTypeExpr(t0.Elem(), qualifier)
		if err != nil {
			return nil, err
		}
		return &dst.StarExpr{X: elem}, nil
	case *types.Slice:
		elem, err := NewTypeExpr(t0.Elem(), qualifier)
		if err != nil {
			return nil, err
		}
		return &dst.ArrayType{Elt: elem}, nil
	case *types.Array:
		elem, err := NewTypeExpr(t0.Elem(), qualifier)
		if err != nil {
			return nil, err
		}
		return &dst.ArrayType{Len: NewInt(int(t0.Len())), Elt: elem}, nil
	case *types.Map:
		key, err := NewTypeExpr(t0.Key(), qualifier)
		if err != nil {
			return nil, err
		}
		elem, err := NewTypeExpr(t0.Elem(), qualifier)
		if err != nil {
			return nil, err
		}
		return &dst.MapType{Key: key, Value: elem}, nil
	case *types.Chan:
		elem, err := NewTypeExpr(t0.Elem(), qualifier)
		if err != nil {
			return nil, err
		}
		dir := dst.SEND | dst.RECV
		switch t0.Dir() {
		case types.SendOnly:
			dir = dst.SEND
		case types.RecvOnly:
			dir = dst.RECV
		}
		return &dst.ChanType{Dir: dir, Value: elem}, nil
	case *types.Interface:
		if t0.Empty() {
			return dst.NewIdent("any"), nil
		}
		return nil, fmt.Errorf("no expression for non-empty interface literal %s", t)
	case *types.Struct:
		return newStructTypeExpr(t0, qualifier)
	default:
		return nil, fmt.Errorf("no expression for type %s", t)
	}
}

func namedTypeExpr(obj *types.TypeName, qualifier types.Qualifier) dst.Expr {
	if obj.Pkg() == nil {
		return dst.NewIdent(obj.Name())
	}
	if q := qualifier(obj.Pkg()); q != "" {
		return NewSelector(dst.NewIdent(q), obj.Name())
	}
	return dst.NewIdent(obj.Name())
}

// newStructTypeExpr returns the expression representing a struct type, or an error if it could not create that
// expression.
func newStructTypeExpr(t *types.Struct, qualifier types.Qualifier) (dst.Expr, error) {
	n := t.NumFields()
	var fields []*dst.Field
	for i := 0; i < n; i++ {
		f := t.Field(i)
		te, err := NewTypeExpr(f.Type(), qualifier)
		if err != nil {
			return nil, err
		}
		newField := &dst.Field{Type: te}
		if !f.Embedded() {
			newField.Names = []*dst.Ident{dst.NewIdent(f.Name())}
		}
		fields = append(fields, newField)
	}
	res := &dst.StructType{
		Fields: &dst.FieldList{
			Opening: true,
			List:    fields,
			Closing: true,
			Decs:    dst.FieldListDecorations{},
		},
		Incomplete: false,
		Decs:       dst.StructTypeDecorations{},
	}
	return res, nil
}
