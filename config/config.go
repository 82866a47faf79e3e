//  Copyright (c) 2025 Uber Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config implements the configurations for the analyzer: the command line flags exposed
// by the config analyzer, optionally defaulted from a YAML file, and the resulting Config shared
// with the other analyzers.
package config

import (
	"errors"
	"flag"
	"fmt"
	"go/ast"
	"go/token"
	"go/types"
	"os"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"go.uber.org/opdispatch/dispatch"
	"go.uber.org/opdispatch/util/asthelper"
	"go.uber.org/opdispatch/util/tokenhelper"
	"golang.org/x/tools/go/analysis"
	"gopkg.in/yaml.v3"
)

// Config is the struct that stores the user-configurable options.
type Config struct {
	// PrettyPrint indicates whether the diagnostics should be pretty printed.
	PrettyPrint bool
	// Strategy selects how operations are collected.
	Strategy dispatch.Strategy
	// Timeout bounds the processing of one package.
	Timeout time.Duration
	// ReactivateConsumers re-polls consumers that declared no interest in an earlier package.
	ReactivateConsumers bool
	// BatchSize caps the number of operations handed to a rule in one call, 0 means no cap.
	BatchSize int
	// Workers caps the number of nodes resolved concurrently per file, 0 means GOMAXPROCS.
	Workers int

	includePkgs           []string
	excludePkgs           []string
	excludeFiles          []string
	excludeFileDocStrings []string
	disabledRules         map[string]bool
}

// Options returns the dispatch options described by the config.
func (c *Config) Options() dispatch.Options {
	return dispatch.Options{
		Strategy:   c.Strategy,
		Reactivate: c.ReactivateConsumers,
		BatchSize:  c.BatchSize,
		Workers:    c.Workers,
	}
}

// IsPkgInScope returns true iff the package is included and not excluded by the package prefixes.
func (c *Config) IsPkgInScope(pkg *types.Package) bool {
	if pkg == nil {
		return false
	}
	path := pkg.Path()
	for _, exclude := range c.excludePkgs {
		if strings.HasPrefix(path, exclude) {
			return false
		}
	}
	if len(c.includePkgs) == 0 {
		return true
	}
	for _, include := range c.includePkgs {
		if strings.HasPrefix(path, include) {
			return true
		}
	}
	return false
}

// IsFileInScope returns true iff the file matches none of the excluded globs and its comments
// contain none of the excluded doc strings.
func (c *Config) IsFileInScope(fset *token.FileSet, file *ast.File) bool {
	if tf := fset.File(file.Pos()); tf != nil {
		name := tf.Name()
		for _, pattern := range c.excludeFiles {
			if match(pattern, name) || match(pattern, tokenhelper.RelToCwd(name)) {
				return false
			}
		}
	}
	for _, group := range file.Comments {
		for _, docString := range c.excludeFileDocStrings {
			if asthelper.DocContains(group, docString) {
				return false
			}
		}
	}
	return true
}

// IsRuleEnabled returns false iff the rule was disabled.
func (c *Config) IsRuleEnabled(name string) bool {
	return !c.disabledRules[name]
}

func match(pattern, name string) bool {
	ok, err := doublestar.PathMatch(pattern, name)
	return err == nil && ok
}

const _doc = "_opdispatch_config is a config analyzer that stores the configurations. Users can " +
	"set the flags of this analyzer, or point -" + ConfigFileFlag + " at a YAML file with the same " +
	"keys, and the main analyzer will read the configurations from it."

// Analyzer is the config analyzer that stores the user-configurable options.
var Analyzer = &analysis.Analyzer{
	Name:       "opdispatch_config",
	Doc:        _doc,
	Run:        run,
	Flags:      newFlagSet(),
	ResultType: reflect.TypeOf((*Config)(nil)),
}

const (
	// PrettyPrintFlag is the flag for pretty printing the diagnostics.
	PrettyPrintFlag = "pretty-print"
	// IncludePkgsFlag is the flag name for the comma-separated list of package prefixes to analyze.
	IncludePkgsFlag = "include-pkgs"
	// ExcludePkgsFlag is the flag name for the comma-separated list of package prefixes to skip.
	ExcludePkgsFlag = "exclude-pkgs"
	// ExcludeFilesFlag is the flag name for the comma-separated list of file globs to skip.
	ExcludeFilesFlag = "exclude-files"
	// ExcludeFileDocStringsFlag is the flag name for the comma-separated list of strings that
	// exclude a file from analysis when found in any of its comments.
	ExcludeFileDocStringsFlag = "exclude-file-docstrings"
	// StrategyFlag is the flag name for the operation collection strategy (walk or stream).
	StrategyFlag = "strategy"
	// TimeoutFlag is the flag name for the bound on the processing of one package.
	TimeoutFlag = "timeout"
	// ReactivateConsumersFlag is the flag name for re-polling rules deactivated earlier.
	ReactivateConsumersFlag = "reactivate-consumers"
	// BatchSizeFlag is the flag name for the cap on operations handed to a rule in one call.
	BatchSizeFlag = "batch-size"
	// WorkersFlag is the flag name for the cap on concurrent node resolutions per file.
	WorkersFlag = "workers"
	// DisableRulesFlag is the flag name for the comma-separated list of rules to disable.
	DisableRulesFlag = "disable-rules"
	// ConfigFileFlag is the flag name for the YAML file supplying defaults for unset flags.
	ConfigFileFlag = "config-file"
)

// newFlagSet returns a flag set to be used in the config analyzer.
func newFlagSet() flag.FlagSet {
	fs := flag.NewFlagSet("opdispatch_config", flag.ExitOnError)

	// We do not keep the returned pointer to the flags because we will not use them directly here.
	// Instead, we will use the flags through the analyzer's Flags field later.
	_ = fs.Bool(PrettyPrintFlag, true, "Pretty print the diagnostics.")
	_ = fs.String(IncludePkgsFlag, "", "Comma-separated list of package prefixes to analyze, empty means all packages.")
	_ = fs.String(ExcludePkgsFlag, "", "Comma-separated list of package prefixes to exclude, takes precedence over "+IncludePkgsFlag+".")
	_ = fs.String(ExcludeFilesFlag, "", "Comma-separated list of file globs (doublestar syntax) to exclude.")
	_ = fs.String(ExcludeFileDocStringsFlag, SkipPackageDocString, "Comma-separated list of strings that exclude a file when found in its comments.")
	_ = fs.String(StrategyFlag, dispatch.Walk.String(), "Operation collection strategy, one of walk or stream.")
	_ = fs.Duration(TimeoutFlag, DefaultTimeout, "Bound on the processing of one package.")
	_ = fs.Bool(ReactivateConsumersFlag, true, "Re-poll rules that declared no interest in an earlier package.")
	_ = fs.Int(BatchSizeFlag, 0, "Cap on the operations handed to a rule in one call, 0 means one call per file.")
	_ = fs.Int(WorkersFlag, 0, "Cap on the nodes resolved concurrently per file, 0 means GOMAXPROCS.")
	_ = fs.String(DisableRulesFlag, "", "Comma-separated list of rules to disable.")
	_ = fs.String(ConfigFileFlag, "", "YAML file supplying defaults for the flags that are not set.")

	return *fs
}

func run(pass *analysis.Pass) (any, error) {
	values, err := resolveValues(&pass.Analyzer.Flags)
	if err != nil {
		return nil, err
	}
	return parse(values)
}

// values maps flag names to their effective string values.
type values map[string]string

// resolveValues reads the current flag values and, for the flags that were not set explicitly,
// overlays the values from the config file if there is one. The flag set itself is never
// mutated since packages are analyzed concurrently.
func resolveValues(fs *flag.FlagSet) (values, error) {
	vals := make(values)
	fs.VisitAll(func(f *flag.Flag) { vals[f.Name] = f.Value.String() })

	path := vals[ConfigFileFlag]
	if path == "" {
		return vals, nil
	}
	fileVals, err := loadFile(path)
	if err != nil {
		return nil, err
	}
	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	for name, v := range fileVals {
		if fs.Lookup(name) == nil {
			return nil, fmt.Errorf("config file %q: unknown key %q", path, name)
		}
		if !set[name] {
			vals[name] = v
		}
	}
	return vals, nil
}

var _fileCache sync.Map

type cachedFile struct {
	once sync.Once
	vals values
	err  error
}

// loadFile reads the YAML config file at path once per process.
func loadFile(path string) (values, error) {
	entry, _ := _fileCache.LoadOrStore(path, &cachedFile{})
	cached := entry.(*cachedFile)
	cached.once.Do(func() {
		cached.vals, cached.err = readFile(path)
	})
	return cached.vals, cached.err
}

func readFile(path string) (values, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse config file %q: %w", path, err)
	}

	vals := make(values, len(raw))
	for k, v := range raw {
		switch v := v.(type) {
		case nil:
			vals[k] = ""
		case []any:
			items := make([]string, len(v))
			for i, item := range v {
				items[i] = fmt.Sprint(item)
			}
			vals[k] = strings.Join(items, ",")
		case map[string]any:
			return nil, fmt.Errorf("config file %q: key %q must be a scalar or a list", path, k)
		default:
			vals[k] = fmt.Sprint(v)
		}
	}
	return vals, nil
}

// parse builds the config from the effective flag values.
func parse(vals values) (*Config, error) {
	var errs []error
	parseBool := func(name string) bool {
		b, err := strconv.ParseBool(vals[name])
		if err != nil {
			errs = append(errs, fmt.Errorf("flag %s: %w", name, err))
		}
		return b
	}
	parseInt := func(name string) int {
		i, err := strconv.Atoi(vals[name])
		if err != nil {
			errs = append(errs, fmt.Errorf("flag %s: %w", name, err))
		}
		return i
	}

	conf := &Config{
		PrettyPrint:           parseBool(PrettyPrintFlag),
		ReactivateConsumers:   parseBool(ReactivateConsumersFlag),
		BatchSize:             parseInt(BatchSizeFlag),
		Workers:               parseInt(WorkersFlag),
		includePkgs:           splitList(vals[IncludePkgsFlag]),
		excludePkgs:           splitList(vals[ExcludePkgsFlag]),
		excludeFiles:          splitList(vals[ExcludeFilesFlag]),
		excludeFileDocStrings: splitList(vals[ExcludeFileDocStringsFlag]),
		disabledRules:         make(map[string]bool),
	}

	strategy, err := dispatch.ParseStrategy(vals[StrategyFlag])
	if err != nil {
		errs = append(errs, fmt.Errorf("flag %s: %w", StrategyFlag, err))
	}
	conf.Strategy = strategy

	timeout, err := time.ParseDuration(vals[TimeoutFlag])
	if err != nil {
		errs = append(errs, fmt.Errorf("flag %s: %w", TimeoutFlag, err))
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	conf.Timeout = timeout

	for _, pattern := range conf.excludeFiles {
		if !doublestar.ValidatePathPattern(pattern) {
			errs = append(errs, fmt.Errorf("flag %s: invalid glob %q", ExcludeFilesFlag, pattern))
		}
	}
	for _, name := range splitList(vals[DisableRulesFlag]) {
		conf.disabledRules[name] = true
	}

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return conf, nil
}

// splitList splits a comma-separated list, dropping empty and surrounding blank items.
func splitList(s string) []string {
	var list []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			list = append(list, item)
		}
	}
	return list
}
