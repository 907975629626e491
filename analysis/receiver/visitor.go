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

package receiver

import "fmt"

// A Visitor contains the methods necessary to implement an exhaustive switch on Receiver
type Visitor[T any] interface {
	VisitFieldAccess(*FieldAccess) T
	VisitThisReference(*ThisReference) T
	VisitClassName(*ClassName) T
	VisitLocalVariable(*LocalVariable) T
	VisitValueLiteral(*ValueLiteral) T
	VisitMethodCall(*MethodCall) T
	VisitArrayAccess(*ArrayAccess) T
	VisitArrayCreation(*ArrayCreation) T
	VisitUnknown(*Unknown) T
}

// Visit applies the method of v corresponding to the variant of r.
func Visit[T any](v Visitor[T], r Receiver) T {
	switch x := r.(type) {
	case *FieldAccess:
		return v.VisitFieldAccess(x)
	case *ThisReference:
		return v.VisitThisReference(x)
	case *ClassName:
		return v.VisitClassName(x)
	case *LocalVariable:
		return v.VisitLocalVariable(x)
	case *ValueLiteral:
		return v.VisitValueLiteral(x)
	case *MethodCall:
		return v.VisitMethodCall(x)
	case *ArrayAccess:
		return v.VisitArrayAccess(x)
	case *ArrayCreation:
		return v.VisitArrayCreation(x)
	case *Unknown:
		return v.VisitUnknown(x)
	default:
		// the interface is sealed, this is unreachable for non-nil receivers
		panic(fmt.Sprintf("unexpected receiver %T", r))
	}
}

// Children returns the direct sub-receivers of r, in evaluation order. Absent array dimensions are skipped.
func Children(r Receiver) []Receiver {
	switch x := r.(type) {
	case *FieldAccess:
		return []Receiver{x.scope}
	case *MethodCall:
		return append([]Receiver{x.scope}, x.args...)
	case *ArrayAccess:
		return []Receiver{x.array, x.index}
	case *ArrayCreation:
		var res []Receiver
		for _, d := range x.dims {
			if d != nil {
				res = append(res, d)
			}
		}
		return append(res, x.inits...)
	default:
		return nil
	}
}
