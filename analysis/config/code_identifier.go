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

package config

import (
	"fmt"
	"regexp"
)

// A CodeIdentifier identifies a code element: a function, a method or a field.
// In the configuration file, each string is a regex if it compiles as one, and a plain string otherwise.
// Empty strings match anything.
type CodeIdentifier struct {
	Package  string `yaml:"package"`
	Method   string `yaml:"method"`
	Receiver string `yaml:"receiver"`
	Field    string `yaml:"field"`
	Type     string `yaml:"type"`
	// This will not be part of the yaml config
	computedRegexs *codeIdentifierRegex
}

type codeIdentifierRegex struct {
	packageRegex  *regexp.Regexp
	typeRegex     *regexp.Regexp
	methodRegex   *regexp.Regexp
	fieldRegex    *regexp.Regexp
	receiverRegex *regexp.Regexp
}

func (cid CodeIdentifier) String() string {
	return fmt.Sprintf("{package:%q receiver:%q method:%q type:%q field:%q}",
		cid.Package, cid.Receiver, cid.Method, cid.Type, cid.Field)
}

// compileRegexes compiles the strings in the code identifier into regexes matching whole names. It compiles all
// identifiers into regexes or none.
func compileRegexes(cid *CodeIdentifier) {
	compile := func(p string) *regexp.Regexp {
		r, err := regexp.Compile("^(?:" + p + ")$")
		if err != nil {
			return nil
		}
		return r
	}
	r := &codeIdentifierRegex{
		packageRegex:  compile(cid.Package),
		typeRegex:     compile(cid.Type),
		methodRegex:   compile(cid.Method),
		fieldRegex:    compile(cid.Field),
		receiverRegex: compile(cid.Receiver),
	}
	if r.packageRegex == nil || r.typeRegex == nil || r.methodRegex == nil || r.fieldRegex == nil ||
		r.receiverRegex == nil {
		return
	}
	cid.computedRegexs = r
}

// matchOne matches s against the pattern p (compiled as re when possible). Empty patterns match anything.
func matchOne(re *regexp.Regexp, p string, s string) bool {
	if p == "" {
		return true
	}
	if re != nil {
		return re.MatchString(s)
	}
	return p == s
}

// equalOnNonEmptyFields returns true if each of the receiver's fields are either equal to the corresponding
// argument's field, or the argument's field is empty
func (cid CodeIdentifier) equalOnNonEmptyFields(cidRef CodeIdentifier) bool {
	r := cidRef.computedRegexs
	if r == nil {
		r = &codeIdentifierRegex{}
	}
	return matchOne(r.packageRegex, cidRef.Package, cid.Package) &&
		matchOne(r.methodRegex, cidRef.Method, cid.Method) &&
		matchOne(r.receiverRegex, cidRef.Receiver, cid.Receiver) &&
		matchOne(r.fieldRegex, cidRef.Field, cid.Field) &&
		matchOne(r.typeRegex, cidRef.Type, cid.Type)
}

// ExistsCid is true if there is some x in a such that f(x) is true.
func ExistsCid(a []CodeIdentifier, f func(identifier CodeIdentifier) bool) bool {
	for _, x := range a {
		if f(x) {
			return true
		}
	}
	return false
}
