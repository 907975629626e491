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

import (
	"fmt"
	"go/token"
	"go/types"
)

// A Binding identifies the declaration site of a local variable.
// Two bindings with the same name but different declaration positions are different variables.
type Binding struct {
	// Name is the name of the variable in source, or the register name for values that have no source variable
	Name string
	// Pos is the position of the declaration
	Pos token.Pos
	// Owner is the package path for source variables, or the function for registers
	Owner string
}

// BindingOf returns the binding of a source variable.
func BindingOf(v *types.Var) Binding {
	b := Binding{Name: v.Name(), Pos: v.Pos()}
	if v.Pkg() != nil {
		b.Owner = v.Pkg().Path()
	}
	return b
}

func (b Binding) key() string {
	return fmt.Sprintf("%s@%d:%s", b.Name, b.Pos, b.Owner)
}
