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

// Package canon maps expressions to receivers.
//
// The front ends (SSA values in package ssaexpr, syntax trees in package astexpr) adapt their nodes to the Expr
// interface, and a single Canonicalizer applies the normalization rules to both. The rules are tried in order:
//
//  1. conversions are unwrapped
//  2. a reference to the receiver of an enclosing method is a ThisReference over the scope's type
//  3. a type selected on its scope is a ClassName over the scope's type
//  4. field accesses are FieldAccess, with a ClassName scope for static fields and an implicit scope for fields
//     without an explicit one
//  5. the receiver of the enclosing method is a ThisReference
//  6. local variables are LocalVariable
//  7. index expressions are ArrayAccess
//  8. array creations are ArrayCreation
//  9. literals are ValueLiteral
//  10. calls to deterministic functions are MethodCall
//  11. everything else is Unknown
//
// Canonicalization never fails on expressions it does not understand: they become Unknown. It fails with an
// *InternalError when the input is inconsistent.
package canon

import (
	"go/token"
	"go/types"

	"github.com/awslabs/argot-flowexpr/analysis/config"
	"github.com/awslabs/argot-flowexpr/analysis/purity"
	"github.com/awslabs/argot-flowexpr/analysis/receiver"
)

// Canonicalizer maps expressions to receivers. It holds no mutable state: it is safe for concurrent use when its
// Oracle and purity classifier are.
type Canonicalizer struct {
	logger *config.LogGroup
	oracle Oracle
	purity purity.Classifier
}

// New returns a canonicalizer that resolves declarations with oracle and decides which calls can be represented with
// p. A nil classifier treats every call as non-deterministic.
func New(logger *config.LogGroup, oracle Oracle, p purity.Classifier) *Canonicalizer {
	if logger == nil {
		logger = config.NewLogGroup(config.NewDefault())
	}
	if p == nil {
		p = purity.None()
	}
	return &Canonicalizer{logger: logger, oracle: oracle, purity: p}
}

// Oracle returns the oracle of the canonicalizer.
func (c *Canonicalizer) Oracle() Oracle { return c.oracle }

// Option is an option of Canonicalize.
type Option func(*options)

type options struct {
	allowNonDeterministic bool
}

// AllowNonDeterministic makes calls to non-deterministic functions canonicalize to MethodCall. This is used when
// the receiver is only printed.
func AllowNonDeterministic(allow bool) Option {
	return func(o *options) { o.allowNonDeterministic = allow }
}

// Canonicalize returns the receiver of e. The receiver is never nil when the error is nil. The only error returned is
// an *InternalError.
func (c *Canonicalizer) Canonicalize(e Expr, opts ...Option) (r receiver.Receiver, err error) {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	defer func() {
		if err != nil {
			c.logger.Errorf("canonicalization failed: %v", err)
			r = nil
		}
	}()
	defer Recover(&err)
	return c.canonicalize(e, o), nil
}

// ImplicitReceiver returns the scope of a member accessed without an explicit scope: the ClassName of its enclosing
// type if the member is static, a ThisReference otherwise.
func (c *Canonicalizer) ImplicitReceiver(obj types.Object) (r receiver.Receiver, err error) {
	defer Recover(&err)
	return implicitReceiver(c.oracle, obj), nil
}

func implicitReceiver(oracle Oracle, obj types.Object) receiver.Receiver {
	t := oracle.EnclosingType(obj)
	if t == nil {
		Fatalf(obj.Pos(), "%s has no enclosing type", obj.Name())
	}
	if oracle.IsStatic(obj) {
		return receiver.NewClassName(t)
	}
	return receiver.NewThisReference(t)
}

// view returns e as a T, or aborts when the front end returned an expression that does not implement the view of its
// kind.
func view[T Expr](e Expr) T {
	v, ok := e.(T)
	if !ok {
		Fatalf(e.Pos(), "%T of kind %s does not implement the view of its kind", e, e.Kind())
	}
	return v
}

func exprType(e Expr) types.Type {
	if t := e.Type(); t != nil {
		return t
	}
	return types.Typ[types.Invalid]
}

func (c *Canonicalizer) canonicalize(e Expr, o options) receiver.Receiver {
	if e == nil {
		Fatalf(token.NoPos, "nil expression")
	}
	switch e.Kind() {
	case Conversion:
		return c.canonicalize(c.operand(e), o)
	case OuterThis:
		return receiver.NewThisReference(exprType(c.operand(e)))
	case ClassLiteral:
		return receiver.NewClassName(exprType(c.operand(e)))
	case FieldAccess:
		return c.fieldAccess(view[FieldExpr](e), o)
	case This:
		return receiver.NewThisReference(exprType(e))
	case LocalVariable:
		return receiver.NewLocalVariable(exprType(e), view[LocalExpr](e).Binding())
	case ArrayAccess:
		ie := view[IndexExpr](e)
		array := c.canonicalize(ie.Array(), o)
		index := c.canonicalize(ie.Index(), o)
		return receiver.NewArrayAccess(exprType(e), array, index)
	case ArrayCreation:
		return c.arrayCreation(view[ArrayCreationExpr](e), o)
	case Literal:
		return receiver.NewValueLiteral(exprType(e), view[LiteralExpr](e).Value())
	case Call:
		return c.call(view[CallExpr](e), o)
	case TypeName:
		return receiver.NewClassName(exprType(e))
	default:
		c.logger.Tracef("unclassified expression %T of type %v", e, e.Type())
		return receiver.NewUnknown(exprType(e))
	}
}

func (c *Canonicalizer) operand(e Expr) Expr {
	op := view[UnaryExpr](e).Operand()
	if op == nil {
		Fatalf(e.Pos(), "%s expression without operand", e.Kind())
	}
	return op
}

func (c *Canonicalizer) fieldAccess(fe FieldExpr, o options) receiver.Receiver {
	field := fe.Field()
	if field == nil {
		Fatalf(fe.Pos(), "field access without field")
	}
	var scope receiver.Receiver
	switch {
	case c.oracle.IsStatic(field):
		t := c.oracle.EnclosingType(field)
		if t == nil {
			Fatalf(fe.Pos(), "static field %s has no enclosing type", field.Name())
		}
		scope = receiver.NewClassName(t)
	case fe.Scope() == nil:
		scope = implicitReceiver(c.oracle, field)
	default:
		scope = c.canonicalize(fe.Scope(), o)
	}
	return receiver.NewFieldAccess(exprType(fe), scope, field, c.oracle.IsFinal(field))
}

func (c *Canonicalizer) arrayCreation(ae ArrayCreationExpr, o options) receiver.Receiver {
	var dims, inits []receiver.Receiver
	for _, d := range ae.Dims() {
		if d == nil {
			dims = append(dims, nil)
		} else {
			dims = append(dims, c.canonicalize(d, o))
		}
	}
	for _, x := range ae.Elems() {
		inits = append(inits, c.canonicalize(x, o))
	}
	return receiver.NewArrayCreation(exprType(ae), dims, inits)
}

func (c *Canonicalizer) call(ce CallExpr, o options) receiver.Receiver {
	callee := ce.Callee()
	if callee == nil {
		Fatalf(ce.Pos(), "call without a resolved callee")
	}
	if !o.allowNonDeterministic && !c.purity.IsDeterministic(callee) {
		c.logger.Tracef("call to non-deterministic %s has no canonical form", callee.Name())
		return receiver.NewUnknown(exprType(ce))
	}

	var scope receiver.Receiver
	switch {
	case ce.Recv() != nil:
		scope = c.canonicalize(ce.Recv(), o)
	case c.oracle.IsStatic(callee):
		t := c.oracle.EnclosingType(callee)
		if t == nil {
			Fatalf(ce.Pos(), "static function %s has no enclosing scope", callee.Name())
		}
		scope = receiver.NewClassName(t)
	default:
		scope = implicitReceiver(c.oracle, callee)
	}

	args := make([]receiver.Receiver, 0, len(ce.Args()))
	for _, a := range ce.Args() {
		args = append(args, c.canonicalize(a, o))
	}

	// the value of a call is only stable if its inputs are
	if receiver.ContainsUnknown(scope) {
		return receiver.NewUnknown(exprType(ce))
	}
	for _, a := range args {
		if receiver.ContainsUnknown(a) {
			return receiver.NewUnknown(exprType(ce))
		}
	}
	return receiver.NewMethodCall(exprType(ce), scope, callee, args)
}
