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

// Package annotations reads the //argot: comments that declare facts about the analyzed program: deterministic
// functions, their postconditions, final fields and ignored lines.
package annotations

import (
	"fmt"
	"go/ast"
	"go/token"
	"go/types"
	"regexp"
	"strconv"
	"strings"

	"github.com/awslabs/argot-flowexpr/analysis/config"
	"github.com/awslabs/argot-flowexpr/internal/funcutil"
	"golang.org/x/exp/slices"
)

const annotationPrefix = config.AnnotationPrefix

// AnnotationKind characterizes the kind of annotations that can be used in the program.
type AnnotationKind = int

const (
	// Deterministic is the kind of Deterministic annotations: the function can be called in receivers
	Deterministic AnnotationKind = iota
	// Ensures is the kind of Ensures(...) annotations: the arguments are expressions the function guarantees
	Ensures
	// Final is the kind of Final annotations on fields and package-level variables
	Final
	// SetOptions is the kind of SetOptions(...) annotations
	SetOptions
	// Ignore is an empty annotation for a line
	Ignore
)

// TargetSpecifier is the type of target specifiers in the annotations: an annotation is of the shape
// "//argot:<target specifier> <annotations>"
type TargetSpecifier = string

const (
	// FunctionTarget is the specifier for function targets
	FunctionTarget TargetSpecifier = "function"
	// FieldTarget is the specifier for struct fields and package-level variables
	FieldTarget TargetSpecifier = "field"
	// IgnoreTarget is the specifier for ignore targets
	IgnoreTarget TargetSpecifier = "ignore"
	// ConfigTarget is the specifier for config targets
	ConfigTarget TargetSpecifier = "config"
)

var deterministicRegex = regexp.MustCompile(`\bDeterministic\b(?:\(\s*\))?`)

// ensuresRegex matches the start of an annotation of the form Ensures(expr1, expr2, ...)
var ensuresRegex = regexp.MustCompile(`\bEnsures\(`)

var finalRegex = regexp.MustCompile(`\bFinal\b(?:\(\s*\))?`)

// setOptionsRegex matches annotations of the form SetOptions(name1=value1, name2=value2)
var setOptionsRegex = regexp.MustCompile(`SetOptions\(((?:\s*[\w\-]+=[\w\-]+\s*,?)+)\)`)

// Annotation contains the parsed content from an annotation component: the kind of the annotation and its arguments.
type Annotation struct {
	// Kind of the annotation
	Kind AnnotationKind
	// Args of the annotation, parsed from a comma-separated list
	Args []string
}

// LinePos is a simple line-file position indicator.
type LinePos struct {
	Line int
	File string
}

// NewLinePos returns a LinePos from a token position. The column and offset are abstracted away.
func NewLinePos(pos token.Position) LinePos {
	return LinePos{
		Line: pos.Line,
		File: pos.Filename,
	}
}

func (l LinePos) String() string {
	return l.File + ":" + strconv.Itoa(l.Line)
}

// ProgramAnnotations groups all the program annotations together.
type ProgramAnnotations struct {
	// Configs maps option names to the values set by config annotations
	Configs map[string]string
	// Funcs maps functions and methods to their annotations
	Funcs map[*types.Func][]Annotation
	// Vars maps struct fields and package-level variables to their annotations
	Vars map[*types.Var][]Annotation
	// Positional is the map of line-file location to annotations that are not attached to a specific construct.
	// There can be only one annotation per line.
	Positional map[LinePos]Annotation
}

// NewProgramAnnotations returns an empty set of annotations.
func NewProgramAnnotations() ProgramAnnotations {
	return ProgramAnnotations{
		Configs:    map[string]string{},
		Funcs:      map[*types.Func][]Annotation{},
		Vars:       map[*types.Var][]Annotation{},
		Positional: map[LinePos]Annotation{},
	}
}

func hasKind(annots []Annotation, kind AnnotationKind) bool {
	return slices.IndexFunc(annots, func(a Annotation) bool { return a.Kind == kind }) >= 0
}

// IsDeterministic returns true when the function obj is annotated Deterministic.
func (pa ProgramAnnotations) IsDeterministic(obj types.Object) bool {
	f, ok := obj.(*types.Func)
	return ok && hasKind(pa.Funcs[f.Origin()], Deterministic)
}

// IsFinal returns true when the field or package-level variable obj is annotated Final.
func (pa ProgramAnnotations) IsFinal(obj types.Object) bool {
	v, ok := obj.(*types.Var)
	return ok && hasKind(pa.Vars[v.Origin()], Final)
}

// Ensures returns the expressions of the Ensures annotations of f, in declaration order.
func (pa ProgramAnnotations) Ensures(f *types.Func) []string {
	var res []string
	for _, a := range pa.Funcs[f.Origin()] {
		if a.Kind == Ensures {
			res = append(res, a.Args...)
		}
	}
	return res
}

// IsIgnoredPos returns true when the given position is on the same line as an //argot:ignore annotation.
func (pa ProgramAnnotations) IsIgnoredPos(pos token.Position) bool {
	posAnnot, ok := pa.Positional[NewLinePos(pos)]
	return ok && posAnnot.Kind == Ignore
}

// Count returns the total number of annotations in the program
func (pa ProgramAnnotations) Count() int {
	c := 0
	pa.Iter(func(_ Annotation) { c += 1 })
	return c
}

// Iter iterates over all annotations in the program.
func (pa ProgramAnnotations) Iter(fx func(a Annotation)) {
	for _, f := range pa.Funcs {
		funcutil.Iter(f, func(a *Annotation) { fx(*a) })
	}
	for _, v := range pa.Vars {
		funcutil.Iter(v, func(a *Annotation) { fx(*a) })
	}
	for _, a := range pa.Positional {
		fx(a)
	}
}

// Add loads the annotations of the files of one package. The objects are resolved with info.
// Returns an error when some annotation could not be loaded (instead of silently skipping). Those errors should
// be surfaced to the user, since it is the only way they can correct their annotations. The loading function
// will also print warnings when some syntactic components of the comments look like they should be an annotation.
func (pa ProgramAnnotations) Add(logger *config.LogGroup, fset *token.FileSet, files []*ast.File,
	info *types.Info) error {
	for _, file := range files {
		for _, decl := range file.Decls {
			switch d := decl.(type) {
			case *ast.FuncDecl:
				if err := pa.loadFuncAnnotations(logger, fset, d, info); err != nil {
					return err
				}
			case *ast.GenDecl:
				pa.loadGenDeclAnnotations(logger, fset, d, info)
			}
		}
		for _, comments := range file.Comments {
			for _, comment := range comments.List {
				if contents := extractAnnotation(comment); contents != nil {
					pa.loadFileAnnotations(logger, contents, fset.Position(comment.Pos()))
				}
			}
		}
	}
	return nil
}

func extractAnnotation(comment *ast.Comment) []string {
	if strings.HasPrefix(comment.Text, annotationPrefix) {
		return strings.Fields(strings.TrimPrefix(comment.Text, annotationPrefix))
	}
	return nil
}

// annotationComments returns the annotations of the comment groups with the given target.
func annotationComments(logger *config.LogGroup, fset *token.FileSet, target TargetSpecifier,
	groups ...*ast.CommentGroup) [][]string {
	var res [][]string
	for _, g := range groups {
		if g == nil {
			continue
		}
		for _, comment := range g.List {
			contents := extractAnnotation(comment)
			switch {
			case contents == nil:
				if strings.Contains(comment.Text, "argot") {
					logger.Warnf("possible annotation mistake at %s: %s has \"argot\" but doesn't start with %s",
						fset.Position(comment.Pos()), comment.Text, annotationPrefix)
				}
			case len(contents) > 1 && contents[0] == target:
				res = append(res, contents[1:])
			}
		}
	}
	return res
}

func (pa ProgramAnnotations) loadFuncAnnotations(logger *config.LogGroup, fset *token.FileSet, decl *ast.FuncDecl,
	info *types.Info) error {
	if decl.Doc == nil {
		return nil
	}
	fn, ok := info.Defs[decl.Name].(*types.Func)
	if !ok {
		return nil
	}
	for _, contents := range annotationComments(logger, fset, FunctionTarget, decl.Doc) {
		annots, err := parseFunctionAnnotation(contents)
		if err != nil {
			return fmt.Errorf("annotation of %s at %s: %w", fn.FullName(), fset.Position(decl.Pos()), err)
		}
		pa.Funcs[fn] = append(pa.Funcs[fn], annots...)
	}
	for _, contents := range annotationComments(logger, fset, FieldTarget, decl.Doc) {
		logger.Warnf("argot:field has no effect on function %s (%s)", fn.Name(), strings.Join(contents, " "))
	}
	return nil
}

func (pa ProgramAnnotations) loadGenDeclAnnotations(logger *config.LogGroup, fset *token.FileSet, decl *ast.GenDecl,
	info *types.Info) {
	for _, spec := range decl.Specs {
		switch s := spec.(type) {
		case *ast.ValueSpec:
			if decl.Tok != token.VAR {
				continue
			}
			groups := []*ast.CommentGroup{s.Doc, s.Comment}
			if decl.Lparen == token.NoPos {
				groups = append(groups, decl.Doc)
			}
			if !hasFinal(annotationComments(logger, fset, FieldTarget, groups...)) {
				continue
			}
			for _, name := range s.Names {
				if v, ok := info.Defs[name].(*types.Var); ok {
					pa.Vars[v] = append(pa.Vars[v], Annotation{Kind: Final})
				}
			}
		case *ast.TypeSpec:
			st, ok := s.Type.(*ast.StructType)
			if !ok {
				continue
			}
			for _, field := range st.Fields.List {
				if !hasFinal(annotationComments(logger, fset, FieldTarget, field.Doc, field.Comment)) {
					continue
				}
				for _, name := range field.Names {
					if v, ok := info.Defs[name].(*types.Var); ok {
						pa.Vars[v] = append(pa.Vars[v], Annotation{Kind: Final})
					}
				}
			}
		}
	}
}

func hasFinal(contents [][]string) bool {
	return funcutil.Exists(contents, func(c []string) bool { return finalRegex.MatchString(strings.Join(c, " ")) })
}

// loadFileAnnotations loads the annotation that are not tied to a specific declaration. This includes:
// - config annotations
// - positional annotations
func (pa ProgramAnnotations) loadFileAnnotations(logger *config.LogGroup, annotationContents []string,
	position token.Position) {
	if len(annotationContents) == 0 {
		logger.Warnf("ignoring empty argot annotation at %s", position)
		return
	}
	switch annotationContents[0] {
	case ConfigTarget:
		pa.loadConfigTargetAnnotation(logger, annotationContents, position)
	case IgnoreTarget:
		pa.Positional[NewLinePos(position)] = Annotation{Kind: Ignore, Args: annotationContents[1:]}
	}
}

// loadConfigTargetAnnotation loads a config annotation. Config annotations look like
// "//argot:config SetOptions(option-name-1=value1,option-name-2=value2)".
func (pa ProgramAnnotations) loadConfigTargetAnnotation(logger *config.LogGroup, annotationContents []string,
	position token.Position) {
	if len(annotationContents) < 2 {
		logger.Warnf("argot:config expects one or more SetOptions at %s", position)
		return
	}
	idents := setOptionsRegex.FindStringSubmatch(strings.Join(annotationContents[1:], " "))
	if len(idents) <= 1 {
		logger.Warnf("argot:config annotation encountered without matching SetOptions at %s", position)
		return
	}
	for _, arg := range splitArgs(idents[1]) {
		name, value, ok := strings.Cut(arg, "=")
		if !ok {
			logger.Warnf("argot:config comment ignored because SetOptions argument is not option-name=value at %s",
				position)
			return
		}
		if prevValue, isSet := pa.Configs[name]; isSet {
			logger.Warnf("argot:config option for %q already set to %q, ignoring annotation at %s",
				name, prevValue, position)
		} else {
			pa.Configs[name] = value
			logger.Debugf("set option %q to %q (annotation at %s)", name, value, position)
		}
	}
}

func parseFunctionAnnotation(contents []string) ([]Annotation, error) {
	var parsed []Annotation
	text := strings.Join(contents, " ")
	if loc := ensuresRegex.FindStringIndex(text); loc != nil {
		end := closingParen(text, loc[1])
		if end < 0 {
			return nil, fmt.Errorf("unbalanced parentheses in %q", text)
		}
		args := splitArgs(text[loc[1]:end])
		if len(args) == 0 {
			return nil, fmt.Errorf("Ensures without expressions in %q", text)
		}
		parsed = append(parsed, Annotation{Kind: Ensures, Args: args})
		text = text[:loc[0]] + text[end+1:]
	}
	if deterministicRegex.MatchString(text) {
		parsed = append(parsed, Annotation{Kind: Deterministic})
	}
	if len(parsed) == 0 {
		return nil, fmt.Errorf("unrecognized function annotation %q", text)
	}
	return parsed, nil
}

// closingParen returns the index of the parenthesis closing the one opened before start, or -1.
func closingParen(s string, start int) int {
	depth := 1
	for i := start; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// splitArgs splits s on the commas that are not nested in parentheses, brackets or braces, and trims the results.
func splitArgs(s string) []string {
	var res []string
	depth, start := 0, 0
	flush := func(end int) {
		if arg := strings.TrimSpace(s[start:end]); arg != "" {
			res = append(res, arg)
		}
	}
	for i, c := range s {
		switch c {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		case ',':
			if depth == 0 {
				flush(i)
				start = i + 1
			}
		}
	}
	flush(len(s))
	return res
}
