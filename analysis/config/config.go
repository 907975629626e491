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
	"os"
	"path"
	"regexp"
	"strings"

	"github.com/awslabs/argot-flowexpr/internal/funcutil"
	"gopkg.in/yaml.v3"
)

var (
	// The global config file
	configFile string
)

// SetGlobalConfig sets the global config filename
func SetGlobalConfig(filename string) {
	configFile = filename
}

// LoadGlobal loads the config file that has been set by SetGlobalConfig
func LoadGlobal() (*Config, error) {
	return Load(configFile)
}

// Config contains the options of the analysis and the code identifiers used to classify functions and fields.
// If some field is not defined in the config file, it will be empty/zero in the struct.
// private fields are not populated from a yaml file, but computed after initialization
type Config struct {
	Options `yaml:"options"`

	sourceFile string

	// if the PkgFilter is specified
	pkgFilterRegex *regexp.Regexp

	// DeterministicFunctions lists functions whose calls can be used in receivers: they have no side effects and
	// return the same value for the same arguments
	DeterministicFunctions []CodeIdentifier `yaml:"deterministic-functions"`

	// FinalFields lists struct fields and package-level variables that are never assigned after initialization
	FinalFields []CodeIdentifier `yaml:"final-fields"`
}

// Options holds the global options of the analysis.
type Options struct {
	// PkgFilter restricts the functions whose expressions are reported to the packages matching the prefix or regex
	PkgFilter string `yaml:"pkg-filter"`

	// AllowNonDeterministic admits calls to functions that are not known to be deterministic in receivers. The
	// receivers obtained this way are only suitable for printing.
	AllowNonDeterministic bool `yaml:"allow-non-deterministic"`

	// InferPurity runs the purity inference on the program to find more deterministic functions
	InferPurity bool `yaml:"infer-purity"`

	// PurityCallgraph is the call graph analysis used by the purity inference: cha (default), static, rta, vta or
	// pointer
	PurityCallgraph string `yaml:"purity-callgraph"`

	// Exclude lists files and directories whose functions are not reported. Relative paths are resolved from the
	// directory of the config file.
	Exclude []string `yaml:"exclude"`

	// UsePointerAnalysis answers alias queries with a points-to analysis instead of types only
	UsePointerAnalysis bool `yaml:"use-pointer-analysis"`

	// NumWorkers is the number of functions canonicalized in parallel. Defaults to DefaultNumWorkers.
	NumWorkers int `yaml:"num-workers"`

	// Loglevel controls the verbosity of the tool
	LogLevel int `yaml:"log-level"`

	// Suppress warnings
	SilenceWarn bool `yaml:"silence-warn"`
}

// NewDefault returns an empty default config.
func NewDefault() *Config {
	return &Config{
		sourceFile:             "",
		DeterministicFunctions: nil,
		FinalFields:            nil,
		Options: Options{
			PkgFilter:             "",
			AllowNonDeterministic: false,
			InferPurity:           false,
			PurityCallgraph:       "",
			Exclude:               nil,
			UsePointerAnalysis:    false,
			NumWorkers:            DefaultNumWorkers,
			LogLevel:              int(InfoLevel),
			SilenceWarn:           false,
		},
	}
}

// Load reads a configuration from a file
func Load(filename string) (*Config, error) {
	b, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("could not read config file: %w", err)
	}
	return LoadFromBytes(filename, b)
}

// LoadFromBytes parses the configuration in b. filename is the name of the file the configuration has been read
// from; relative paths are resolved from it.
func LoadFromBytes(filename string, b []byte) (*Config, error) {
	cfg := NewDefault()
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("could not unmarshal config file: %w", err)
	}

	cfg.sourceFile = filename

	// If logLevel has not been specified (i.e. it is 0) set the default to Info
	if cfg.LogLevel == 0 {
		cfg.LogLevel = int(InfoLevel)
	}
	if cfg.LogLevel < int(ErrLevel) || cfg.LogLevel > int(TraceLevel) {
		return nil, fmt.Errorf("log-level %d out of range [%d,%d]", cfg.LogLevel, ErrLevel, TraceLevel)
	}

	if cfg.NumWorkers <= 0 {
		cfg.NumWorkers = DefaultNumWorkers
	}

	if cfg.PkgFilter != "" {
		r, err := regexp.Compile(cfg.PkgFilter)
		if err == nil {
			cfg.pkgFilterRegex = r
		}
	}

	funcutil.Iter(cfg.DeterministicFunctions, compileRegexes)
	funcutil.Iter(cfg.FinalFields, compileRegexes)

	return cfg, nil
}

// RelPath returns filename path relative to the config source file
func (c Config) RelPath(filename string) string {
	return path.Join(path.Dir(c.sourceFile), filename)
}

// MatchPkgFilter returns true if the package name pkgname matches the package filter set in the config file. If no
// package filter has been set in the config file, the regex will match anything and return true. This function safely
// considers the case where a filter has been specified by the user, but it could not be compiled to a regex. The safe
// case is to check whether the package filter string is a prefix of the pkgname
func (c Config) MatchPkgFilter(pkgname string) bool {
	if c.pkgFilterRegex != nil {
		return c.pkgFilterRegex.MatchString(pkgname)
	} else if c.PkgFilter != "" {
		return strings.HasPrefix(pkgname, c.PkgFilter)
	} else {
		return true
	}
}

// IsDeterministicFunction returns true if the function identified by the package path, the receiver type name (empty
// for functions) and the function name matches one of the deterministic functions of the config.
func (c Config) IsDeterministicFunction(pkg, recv, name string) bool {
	cid := CodeIdentifier{Package: pkg, Receiver: recv, Method: name}
	return ExistsCid(c.DeterministicFunctions, cid.equalOnNonEmptyFields)
}

// IsFinalField returns true if the field identified by the package path, the declaring type name (empty for
// package-level variables) and the field name matches one of the final fields of the config.
func (c Config) IsFinalField(pkg, typ, name string) bool {
	cid := CodeIdentifier{Package: pkg, Type: typ, Field: name}
	return ExistsCid(c.FinalFields, cid.equalOnNonEmptyFields)
}

// Verbose returns true is the configuration verbosity setting is larger than Info (i.e. Debug or Trace)
func (c Config) Verbose() bool {
	return c.LogLevel >= int(DebugLevel)
}
