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

// Package flowexpr assembles the canonicalization of the expressions of a loaded program: the declaration oracle,
// the purity classifier, the alias oracle and both front ends.
package flowexpr

import (
	"context"
	"fmt"
	"go/ast"
	"go/token"
	"go/types"
	"sort"
	"strconv"
	"sync"

	"github.com/awslabs/argot-flowexpr/analysis"
	"github.com/awslabs/argot-flowexpr/analysis/annotations"
	"github.com/awslabs/argot-flowexpr/analysis/astexpr"
	"github.com/awslabs/argot-flowexpr/analysis/canon"
	"github.com/awslabs/argot-flowexpr/analysis/config"
	"github.com/awslabs/argot-flowexpr/analysis/purity"
	"github.com/awslabs/argot-flowexpr/analysis/receiver"
	"github.com/awslabs/argot-flowexpr/analysis/ssaexpr"
	"github.com/awslabs/argot-flowexpr/analysis/store"
	"golang.org/x/sync/errgroup"
	"golang.org/x/tools/go/packages"
	"golang.org/x/tools/go/ssa"
)

// An Engine canonicalizes the expressions of one program. It is safe for concurrent use, except Ensures, which
// type-checks the annotation expressions.
type Engine struct {
	Config *config.Config
	Logger *config.LogGroup

	program     *ssa.Program
	packages    map[*types.Package]*packages.Package
	resolvers   map[*types.Package]*astexpr.Resolver
	annotations annotations.ProgramAnnotations
	canon       *canon.Canonicalizer
	aliases     receiver.AliasStore
	pointsTo    *store.PointsToAliasOracle

	allowNonDeterministic bool

	// ensuresMu serializes the type-checking of annotation expressions
	ensuresMu sync.Mutex
}

// New builds the engine of the loaded program. The program must have been built with ssa.GlobalDebug, and the
// packages must carry their syntax and type information.
func New(logger *config.LogGroup, cfg *config.Config, lp analysis.LoadedProgram) (*Engine, error) {
	if cfg == nil {
		cfg = config.NewDefault()
	}
	if logger == nil {
		logger = config.NewLogGroup(cfg)
	}
	e := &Engine{
		Config:                cfg,
		Logger:                logger,
		program:               lp.Program,
		packages:              map[*types.Package]*packages.Package{},
		resolvers:             map[*types.Package]*astexpr.Resolver{},
		annotations:           annotations.NewProgramAnnotations(),
		allowNonDeterministic: cfg.AllowNonDeterministic,
	}

	packages.Visit(lp.Packages, nil, func(p *packages.Package) {
		if p.Types == nil || p.TypesInfo == nil {
			return
		}
		e.packages[p.Types] = p
		e.resolvers[p.Types] = astexpr.NewResolver(p.Fset, p.Types, p.TypesInfo, p.Syntax)
	})
	for _, p := range e.sortedPackages() {
		if err := e.annotations.Add(logger, p.Fset, p.Syntax, p.TypesInfo); err != nil {
			return nil, fmt.Errorf("failed to load annotations of %s: %w", p.PkgPath, err)
		}
	}
	if v, ok := e.annotations.Configs["allow-non-deterministic"]; ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			logger.Warnf("ignoring allow-non-deterministic=%q set by annotation: %v", v, err)
		} else {
			e.allowNonDeterministic = b
		}
	}
	logger.Debugf("loaded %d annotations", e.annotations.Count())

	var classifier purity.Classifier = purity.Union(
		purity.Standard(),
		purity.FromConfig(cfg),
		purity.Func(e.annotations.IsDeterministic))
	if cfg.InferPurity {
		if lp.Program == nil {
			return nil, fmt.Errorf("purity inference needs the SSA program")
		}
		mode, err := analysis.ParseCallgraphMode(cfg.PurityCallgraph)
		if err != nil {
			return nil, err
		}
		cg, err := mode.ComputeCallgraph(lp.Program)
		if err != nil {
			return nil, fmt.Errorf("could not compute the %s call graph: %w", mode, err)
		}
		inferred, err := purity.InferFromCallGraph(logger, cg, classifier)
		if err != nil {
			return nil, fmt.Errorf("purity inference failed: %w", err)
		}
		logger.Infof("inferred %d deterministic functions", inferred.Count())
		classifier = inferred
	}

	e.canon = canon.New(logger, canon.NewTypesOracle(cfg, e.annotations.IsFinal), classifier)

	if cfg.UsePointerAnalysis && lp.Program != nil {
		e.pointsTo = store.NewPointsToAliasOracle(lp.Program)
		e.aliases = e.pointsTo
	} else {
		e.aliases = store.TypeAliasOracle{}
	}
	return e, nil
}

func (e *Engine) sortedPackages() []*packages.Package {
	res := make([]*packages.Package, 0, len(e.packages))
	for _, p := range e.packages {
		res = append(res, p)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].PkgPath < res[j].PkgPath })
	return res
}

// Canonicalizer returns the canonicalizer of the engine.
func (e *Engine) Canonicalizer() *canon.Canonicalizer { return e.canon }

// Annotations returns the annotations of the program.
func (e *Engine) Annotations() annotations.ProgramAnnotations { return e.annotations }

// CanAlias implements receiver.AliasStore with the alias oracle of the engine.
func (e *Engine) CanAlias(a, b receiver.Receiver) bool { return e.aliases.CanAlias(a, b) }

// NewStore returns an empty store consulting the alias oracle of e.
func NewStore[V any](e *Engine) *store.Store[V] {
	return store.New[V](e.aliases)
}

func (e *Engine) options() []canon.Option {
	return []canon.Option{canon.AllowNonDeterministic(e.allowNonDeterministic)}
}

// Value returns the receiver of the SSA value v.
func (e *Engine) Value(v ssa.Value) (receiver.Receiver, error) {
	r, err := e.canon.Canonicalize(ssaexpr.Of(v), e.options()...)
	if err != nil {
		return nil, err
	}
	if e.pointsTo != nil {
		e.pointsTo.Register(r, v)
	}
	return r, nil
}

// DebugRef returns the receiver of the source expression of ref.
func (e *Engine) DebugRef(ref *ssa.DebugRef) (receiver.Receiver, error) {
	r, err := e.canon.Canonicalize(ssaexpr.OfDebugRef(ref), e.options()...)
	if err != nil {
		return nil, err
	}
	if e.pointsTo != nil && !ref.IsAddr {
		e.pointsTo.Register(r, ref.X)
	}
	return r, nil
}

// Expr returns the receiver of the expression x of the package pkg.
func (e *Engine) Expr(pkg *types.Package, x ast.Expr) (receiver.Receiver, error) {
	res, ok := e.resolvers[pkg]
	if !ok {
		return nil, fmt.Errorf("no syntax for package %s", pkg.Path())
	}
	return res.Canonicalize(e.canon, x, e.options()...)
}

// A Result is the receiver of one source expression.
type Result struct {
	Position token.Position
	// Expr is the source text of the expression
	Expr     string
	Receiver receiver.Receiver
}

// Function returns the receivers of the source expressions of fn and its closures, in source order. Expressions on
// lines marked with an ignore annotation are skipped.
func (e *Engine) Function(fn *ssa.Function) ([]Result, error) {
	var res []Result
	type exprAt struct {
		pos  token.Pos
		text string
	}
	seen := map[exprAt]bool{}
	fns := []*ssa.Function{fn}
	for len(fns) > 0 {
		f := fns[0]
		fns = append(fns[1:], f.AnonFuncs...)
		for _, b := range f.Blocks {
			for _, instr := range b.Instrs {
				ref, ok := instr.(*ssa.DebugRef)
				if !ok {
					continue
				}
				key := exprAt{ref.Expr.Pos(), types.ExprString(ref.Expr)}
				if seen[key] {
					continue
				}
				seen[key] = true
				pos := e.program.Fset.Position(ref.Expr.Pos())
				if e.annotations.IsIgnoredPos(pos) {
					continue
				}
				r, err := e.DebugRef(ref)
				if err != nil {
					return nil, fmt.Errorf("at %s: %w", pos, err)
				}
				res = append(res, Result{Position: pos, Expr: key.text, Receiver: r})
			}
		}
	}
	sort.SliceStable(res, func(i, j int) bool {
		if res[i].Position.Line != res[j].Position.Line {
			return res[i].Position.Line < res[j].Position.Line
		}
		return res[i].Position.Column < res[j].Position.Column
	})
	return res, nil
}

// Functions canonicalizes the functions fns in parallel, with at most Config.NumWorkers functions at a time. The
// first error cancels the remaining work.
func (e *Engine) Functions(ctx context.Context, fns []*ssa.Function) (map[*ssa.Function][]Result, error) {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.numWorkers())
	var mu sync.Mutex
	res := make(map[*ssa.Function][]Result, len(fns))
	for _, fn := range fns {
		fn := fn
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			e.Logger.Tracef("canonicalizing %s in %s", fn.Name(), analysis.PackageNameFromFunction(fn))
			rs, err := e.Function(fn)
			if err != nil {
				return fmt.Errorf("in %s: %w", fn, err)
			}
			mu.Lock()
			defer mu.Unlock()
			res[fn] = rs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return res, nil
}

func (e *Engine) numWorkers() int {
	if e.Config.NumWorkers > 0 {
		return e.Config.NumWorkers
	}
	return config.DefaultNumWorkers
}

// A Context is what the expressions written on a function declaration may refer to.
type Context struct {
	// Pseudo is the receiver of the method, or the package of a function
	Pseudo receiver.Receiver
	// Params are the parameters of the function
	Params []receiver.Receiver
}

// DeclarationContext returns the context of the declaration of fn.
func (e *Engine) DeclarationContext(fn *types.Func) (Context, error) {
	decl, res, err := e.funcDecl(fn)
	if err != nil {
		return Context{}, err
	}
	pos := decl.Name.Pos()
	return Context{Pseudo: res.PseudoReceiver(pos), Params: res.EnclosingMethodParams(pos)}, nil
}

// A Postcondition is an expression a function guarantees, declared by an Ensures annotation.
type Postcondition struct {
	Expr     string
	Receiver receiver.Receiver
}

// Ensures returns the receivers of the Ensures annotations of fn. The expressions are resolved in the scope of the
// body of fn, where its receiver and parameters are visible.
func (e *Engine) Ensures(fn *types.Func) ([]Postcondition, error) {
	srcs := e.annotations.Ensures(fn)
	if len(srcs) == 0 {
		return nil, nil
	}
	decl, res, err := e.funcDecl(fn)
	if err != nil {
		return nil, err
	}
	if decl.Body == nil {
		return nil, fmt.Errorf("%s has an Ensures annotation but no body", fn.FullName())
	}

	e.ensuresMu.Lock()
	defer e.ensuresMu.Unlock()
	var posts []Postcondition
	for _, src := range srcs {
		x, child, err := res.ParseExpr(src, decl.Body.Rbrace)
		if err != nil {
			return nil, fmt.Errorf("in Ensures of %s: %w", fn.FullName(), err)
		}
		r, err := child.Canonicalize(e.canon, x, e.options()...)
		if err != nil {
			return nil, fmt.Errorf("in Ensures of %s: %w", fn.FullName(), err)
		}
		posts = append(posts, Postcondition{Expr: src, Receiver: r})
	}
	return posts, nil
}

func (e *Engine) funcDecl(fn *types.Func) (*ast.FuncDecl, *astexpr.Resolver, error) {
	fn = fn.Origin()
	p, ok := e.packages[fn.Pkg()]
	if !ok {
		return nil, nil, fmt.Errorf("no syntax for package of %s", fn.FullName())
	}
	for _, f := range p.Syntax {
		for _, d := range f.Decls {
			if fd, ok := d.(*ast.FuncDecl); ok && p.TypesInfo.Defs[fd.Name] == fn {
				return fd, e.resolvers[fn.Pkg()], nil
			}
		}
	}
	return nil, nil, fmt.Errorf("no declaration of %s", fn.FullName())
}
