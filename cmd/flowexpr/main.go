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

// flowexpr prints the canonical receivers of the expressions of Go packages.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/awslabs/argot-flowexpr/analysis"
	"github.com/awslabs/argot-flowexpr/analysis/config"
	"github.com/awslabs/argot-flowexpr/analysis/flowexpr"
	"github.com/awslabs/argot-flowexpr/internal/formatutil"
	"golang.org/x/tools/go/ssa"
)

var (
	configPath  = flag.String("config", "", "Config file path")
	showUnknown = flag.Bool("unknown", false, "Print the expressions without canonical form")
	goSyntax    = flag.Bool("go", false, "Print receivers as Go expressions")
	noColor     = flag.Bool("no-color", false, "Disable colors")
	buildmode   = ssa.BuilderMode(0)
)

func init() {
	flag.Var(&buildmode, "build", ssa.BuilderModeDoc)
}

const usage = ` Print the canonical receivers of the expressions of your packages.
Usage:
    flowexpr [options] <package path(s)>
Examples:
% flowexpr -config config.yaml package...
`

func main() {
	flag.Parse()

	if flag.NArg() == 0 {
		_, _ = fmt.Fprint(os.Stderr, usage)
		flag.PrintDefaults()
		os.Exit(2)
	}
	formatutil.DisableColors(*noColor)
	if err := run(flag.Args()); err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", formatutil.Red("error:"), err)
		os.Exit(1)
	}
}

func run(args []string) error {
	cfg := config.NewDefault()
	if *configPath != "" {
		config.SetGlobalConfig(*configPath)
		loaded, err := config.LoadGlobal()
		if err != nil {
			return fmt.Errorf("could not load config %s: %w", *configPath, err)
		}
		cfg = loaded
	}
	logger := config.NewLogGroup(cfg)

	logger.Infof("%s", formatutil.Faint("Reading sources"))
	start := time.Now()
	program, err := analysis.LoadProgram(nil, "", buildmode, args)
	if err != nil {
		return fmt.Errorf("could not load program: %w", err)
	}
	logger.Infof("Loaded %d packages in %3.4f s", len(program.Packages), time.Since(start).Seconds())

	start = time.Now()
	engine, err := flowexpr.New(logger, cfg, program)
	if err != nil {
		return err
	}
	fns := selectFunctions(cfg, program)
	logger.Infof("Canonicalizing %d functions in %d packages", len(fns), len(analysis.AllPackages(toSet(fns))))
	results, err := engine.Functions(context.Background(), fns)
	if err != nil {
		return err
	}
	logger.Infof("Canonicalization took %3.4f s", time.Since(start).Seconds())

	p := reportPrinter{
		engine:      engine,
		out:         os.Stdout,
		showUnknown: *showUnknown,
		goSyntax:    *goSyntax,
	}
	return p.print(fns, results)
}

func toSet(fns []*ssa.Function) map[*ssa.Function]bool {
	m := make(map[*ssa.Function]bool, len(fns))
	for _, fn := range fns {
		m[fn] = true
	}
	return m
}
