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

// Command opdispatch runs the rules as a standalone checker. Besides the config flags, which are
// lifted to the top level, it accepts file prefixes that restrict where diagnostics are reported,
// since singlechecker has no suppression of its own.
package main

import (
	"flag"
	"fmt"
	"go/token"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/golang/glog"
	"go.uber.org/opdispatch"
	"go.uber.org/opdispatch/config"
	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/singlechecker"
)

// Analyzer wraps opdispatch.Analyzer with diagnostic filtering. The analyzer exports facts, so
// the driver also runs it on dependencies, whose diagnostics are usually unwanted.
var Analyzer = &analysis.Analyzer{
	Name:       opdispatch.Analyzer.Name,
	Doc:        opdispatch.Analyzer.Doc,
	Run:        run,
	FactTypes:  opdispatch.Analyzer.FactTypes,
	ResultType: opdispatch.Analyzer.ResultType,
	Requires:   opdispatch.Analyzer.Requires,
}

var (
	_includeErrorsInFiles string
	_excludeErrorsInFiles string

	// _filter is built once the flags have been parsed by the driver.
	_filter = sync.OnceValues(func() (*reportFilter, error) {
		return newReportFilter(_includeErrorsInFiles, _excludeErrorsInFiles)
	})
)

func run(pass *analysis.Pass) (interface{}, error) {
	filter, err := _filter()
	if err != nil {
		return nil, err
	}
	pass.Report = filter.wrap(pass.Fset, pass.Report)
	return opdispatch.Analyzer.Run(pass)
}

// reportFilter decides which diagnostics reach the driver based on the file they are in.
type reportFilter struct {
	includes []string
	excludes []string
}

// newReportFilter parses the comma-separated include and exclude file prefixes.
func newReportFilter(includes, excludes string) (*reportFilter, error) {
	inc, err := parseFilePrefixes(includes)
	if err != nil {
		return nil, fmt.Errorf("parse file prefixes for error inclusion: %w", err)
	}
	exc, err := parseFilePrefixes(excludes)
	if err != nil {
		return nil, fmt.Errorf("parse file prefixes for error exclusion: %w", err)
	}
	return &reportFilter{includes: inc, excludes: exc}, nil
}

// keeps returns true iff a diagnostic in the named file should be reported. Excludes take
// precedence over includes.
func (f *reportFilter) keeps(name string) bool {
	hasPrefix := func(prefix string) bool { return strings.HasPrefix(name, prefix) }
	return !slices.ContainsFunc(f.excludes, hasPrefix) && slices.ContainsFunc(f.includes, hasPrefix)
}

// wrap returns a report function that forwards the kept diagnostics to report. Diagnostics
// without a file are always forwarded.
func (f *reportFilter) wrap(fset *token.FileSet, report func(analysis.Diagnostic)) func(analysis.Diagnostic) {
	return func(d analysis.Diagnostic) {
		if tf := fset.File(d.Pos); tf == nil || f.keeps(tf.Name()) {
			report(d)
		}
	}
}

// parseFilePrefixes splits the comma-separated list of file prefixes and makes them absolute.
func parseFilePrefixes(s string) ([]string, error) {
	if s == "" {
		return nil, nil
	}
	list := strings.Split(s, ",")
	for i := range list {
		p, err := filepath.Abs(list[i])
		if err != nil {
			return nil, fmt.Errorf("convert %q to absolute path: %w", list[i], err)
		}
		list[i] = p
	}
	return list, nil
}

// liftFlags registers every flag of from on to under the same name, so that
// `opdispatch -strategy stream ./...` works instead of `-opdispatch_config.strategy`.
func liftFlags(from, to *flag.FlagSet) {
	from.VisitAll(func(f *flag.Flag) { to.Var(f.Value, f.Name, f.Usage) })
}

func main() {
	liftFlags(&config.Analyzer.Flags, flag.CommandLine)

	wd, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to get working directory: %v\n", err)
		os.Exit(1)
	}
	flag.StringVar(&_includeErrorsInFiles, "include-errors-in-files", wd, "Comma-separated list of file prefixes to report errors in, default is the current working directory.")
	flag.StringVar(&_excludeErrorsInFiles, "exclude-errors-in-files", "", "Comma-separated list of file prefixes to never report errors in. Takes precedence over include-errors-in-files.")

	// glog logs to temp files by default, which nobody looks at for a linter.
	if err := flag.Set("logtostderr", "true"); err != nil {
		glog.Warningf("failed to default -logtostderr: %v", err)
	}

	singlechecker.Main(Analyzer)
}
