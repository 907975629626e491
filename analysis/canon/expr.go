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
	"fmt"
	"go/constant"
	"go/token"
	"go/types"

	"github.com/awslabs/argot-flowexpr/analysis/receiver"
)

// ExprKind classifies an input expression. Front ends map their nodes to one of these kinds, and the canonicalizer
// dispatches on it.
type ExprKind int

const (
	// Unclassified expressions canonicalize to Unknown
	Unclassified ExprKind = iota
	// Conversion is a value-preserving conversion wrapper (UnaryExpr)
	Conversion
	// OuterThis is the receiver of an enclosing method seen from a nested function (UnaryExpr, operand is the scope)
	OuterThis
	// ClassLiteral is a type denoted through a selection on its scope (UnaryExpr, operand is the scope)
	ClassLiteral
	// FieldAccess is a field selection or a package-level variable (FieldExpr)
	FieldAccess
	// This is the receiver of the enclosing method
	This
	// LocalVariable is a reference to a local variable or parameter (LocalExpr)
	LocalVariable
	// ArrayAccess is an index expression (IndexExpr)
	ArrayAccess
	// ArrayCreation is the creation of a new array or slice (ArrayCreationExpr)
	ArrayCreation
	// Literal is a constant or nil (LiteralExpr)
	Literal
	// Call is a call to a function, a method or a builtin (CallExpr)
	Call
	// TypeName is a type or a package used as a scope
	TypeName
)

var exprKindNames = [...]string{
	Unclassified:  "Unclassified",
	Conversion:    "Conversion",
	OuterThis:     "OuterThis",
	ClassLiteral:  "ClassLiteral",
	FieldAccess:   "FieldAccess",
	This:          "This",
	LocalVariable: "LocalVariable",
	ArrayAccess:   "ArrayAccess",
	ArrayCreation: "ArrayCreation",
	Literal:       "Literal",
	Call:          "Call",
	TypeName:      "TypeName",
}

func (k ExprKind) String() string {
	if k >= 0 && int(k) < len(exprKindNames) {
		return exprKindNames[k]
	}
	return fmt.Sprintf("ExprKind(%d)", int(k))
}

// Expr is the input of the canonicalizer. Depending on its kind, an Expr must also implement one of the views below.
type Expr interface {
	Kind() ExprKind
	// Type is the static type of the expression. A nil type is replaced by the invalid type.
	Type() types.Type
	// Pos is used for diagnostics.
	Pos() token.Pos
}

// UnaryExpr is the view of Conversion, OuterThis and ClassLiteral expressions.
type UnaryExpr interface {
	Expr
	Operand() Expr
}

// FieldExpr is the view of FieldAccess expressions.
type FieldExpr interface {
	Expr
	// Scope is nil when the field is accessed without an explicit scope.
	Scope() Expr
	Field() types.Object
}

// LocalExpr is the view of LocalVariable expressions.
type LocalExpr interface {
	Expr
	Binding() receiver.Binding
}

// IndexExpr is the view of ArrayAccess expressions.
type IndexExpr interface {
	Expr
	Array() Expr
	Index() Expr
}

// ArrayCreationExpr is the view of ArrayCreation expressions. Dimensions may contain nil elements.
type ArrayCreationExpr interface {
	Expr
	Dims() []Expr
	Elems() []Expr
}

// LiteralExpr is the view of Literal expressions. A nil value is the nil literal.
type LiteralExpr interface {
	Expr
	Value() constant.Value
}

// CallExpr is the view of Call expressions.
type CallExpr interface {
	Expr
	// Callee is the called function or builtin. It is nil when the front end lost the link to the declaration.
	Callee() types.Object
	// Recv is the explicit receiver of a method call, nil for static calls.
	Recv() Expr
	Args() []Expr
}
