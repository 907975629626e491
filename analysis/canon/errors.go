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
	"go/token"
)

// An InternalError reports an inconsistency in the input of the canonicalizer, for example a call whose callee
// cannot be resolved. It indicates a bug in the code that built the input, and must not be treated as an
// unclassifiable expression.
type InternalError struct {
	// Pos is the position of the expression that triggered the error
	Pos token.Pos
	Msg string
}

func (e *InternalError) Error() string {
	return fmt.Sprintf("internal error at %d: %s", e.Pos, e.Msg)
}

// Position returns the error position in fset.
func (e *InternalError) Position(fset *token.FileSet) token.Position {
	if fset == nil {
		return token.Position{}
	}
	return fset.Position(e.Pos)
}

// Fatalf aborts the current canonicalization with an InternalError. It must only be called below an entry point that
// recovers with Recover.
func Fatalf(pos token.Pos, format string, args ...any) {
	panic(&InternalError{Pos: pos, Msg: fmt.Sprintf(format, args...)})
}

// Recover converts a panic raised by Fatalf into an error stored in *err. Other panics are propagated.
// It must be deferred directly:
//
//	defer canon.Recover(&err)
func Recover(err *error) {
	x := recover()
	if x == nil {
		return
	}
	if ie, ok := x.(*InternalError); ok {
		*err = ie
		return
	}
	panic(x)
}
