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

package purity

import "go/types"

var deterministicBuiltins = map[string]bool{
	"len":     true,
	"cap":     true,
	"real":    true,
	"imag":    true,
	"complex": true,
	"min":     true,
	"max":     true,
}

// deterministicStdlib lists functions of the standard library without side effects. Methods are written
// Type.Method.
var deterministicStdlib = map[string][]string{
	"strings": {
		"Compare", "Contains", "ContainsAny", "ContainsRune", "Count", "EqualFold", "HasPrefix", "HasSuffix",
		"Index", "IndexAny", "IndexByte", "IndexRune", "LastIndex", "LastIndexAny", "LastIndexByte", "ToLower",
		"ToUpper", "ToTitle", "TrimSpace", "Trim", "TrimLeft", "TrimRight", "TrimPrefix", "TrimSuffix", "Repeat",
		"Replace", "ReplaceAll", "Title",
	},
	"strconv": {"Itoa", "Quote", "QuoteRune", "FormatInt", "FormatUint", "FormatBool", "FormatFloat"},
	"math": {
		"Abs", "Ceil", "Floor", "Trunc", "Round", "Max", "Min", "Mod", "Sqrt", "Pow", "Exp", "Log", "Log2",
		"Log10", "Sin", "Cos", "Tan", "IsNaN", "IsInf", "Inf", "NaN", "Signbit", "Float64bits", "Float64frombits",
	},
	"unicode":       {"IsDigit", "IsLetter", "IsLower", "IsUpper", "IsSpace", "IsPunct", "ToLower", "ToUpper"},
	"unicode/utf8":  {"RuneCountInString", "RuneLen", "ValidString", "ValidRune", "RuneCount", "Valid"},
	"bytes":         {"Compare", "Contains", "Equal", "HasPrefix", "HasSuffix", "Index", "IndexByte"},
	"path":          {"Base", "Clean", "Dir", "Ext", "IsAbs", "Join"},
	"path/filepath": {"Base", "Clean", "Dir", "Ext", "IsAbs", "Join", "ToSlash", "FromSlash"},
	"time": {
		"Duration.Hours", "Duration.Minutes", "Duration.Seconds", "Duration.Milliseconds",
		"Duration.Microseconds", "Duration.Nanoseconds", "Duration.String",
	},
}

var stdlibIndex = func() map[string]map[string]bool {
	m := make(map[string]map[string]bool, len(deterministicStdlib))
	for pkg, names := range deterministicStdlib {
		m[pkg] = make(map[string]bool, len(names))
		for _, n := range names {
			m[pkg][n] = true
		}
	}
	return m
}()

// Standard classifies the builtins and the standard library functions that are known to be deterministic.
func Standard() Classifier {
	return Func(isStandardDeterministic)
}

func isStandardDeterministic(fn types.Object) bool {
	if b, ok := fn.(*types.Builtin); ok {
		return deterministicBuiltins[b.Name()]
	}
	pkg, recv, name := Identify(fn)
	if recv != "" {
		name = recv + "." + name
	}
	return stdlibIndex[pkg][name]
}
