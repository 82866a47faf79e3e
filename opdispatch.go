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

// Package opdispatch implements the top-level analyzer that runs every enabled rule through the
// shared operation dispatch pipeline and reports the violations they find.
package opdispatch

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/golang/glog"
	"go.uber.org/opdispatch/config"
	"go.uber.org/opdispatch/dispatch"
	"go.uber.org/opdispatch/rules"
	"go.uber.org/opdispatch/util/analysishelper"
	"go.uber.org/opdispatch/util/tokenhelper"
	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/passes/ctrlflow"
	"golang.org/x/tools/go/analysis/passes/inspect"
)

const _doc = "Run the operation dispatch rules on this package: the syntax the rules are interested" +
	" in is resolved to semantic operations once and handed to every rule, grouped by kind"

// Analyzer is the top-level instance of Analyzer - it runs the rules on the package and reports
// their violations. It is needed here for nogo to recognize the package.
var Analyzer = &analysis.Analyzer{
	Name:      "opdispatch",
	Doc:       _doc,
	Run:       run,
	FactTypes: []analysis.Fact{new(Summary)},
	Requires:  []*analysis.Analyzer{config.Analyzer, inspect.Analyzer, ctrlflow.Analyzer},
}

// outcome is what the rules produced for one package.
type outcome struct {
	diagnostics []analysis.Diagnostic
	stats       dispatch.Stats
}

func run(p *analysis.Pass) (interface{}, error) {
	pass := analysishelper.NewEnhancedPass(p)
	conf := pass.ResultOf[config.Analyzer].(*config.Config)

	// Rules must never bring the driver down, so failures (panics included) are reported as a
	// diagnostic instead.
	res, _ := analysishelper.WrapRun(func(*analysis.Pass) (*outcome, error) {
		return analyze(pass, conf)
	})(p)
	result := res.(*analysishelper.Result[*outcome])
	if result.Err != nil {
		glog.Warningf("%s: %v", pass.Pkg.Path(), result.Err)
		if len(pass.Files) > 0 {
			pass.Reportf(pass.Files[0].Package, "INTERNAL ERROR(s):\n%v", result.Err)
		}
		return nil, nil
	}

	for _, d := range result.Res.diagnostics {
		if conf.PrettyPrint {
			d.Message = prettyPrintErrorMessage(d.Category, d.Message)
		}
		pass.Report(d)
	}
	if summary := newSummary(result.Res.stats); summary.Len() > 0 {
		pass.ExportPackageFact(summary)
	}
	return nil, nil
}

// analyze runs the rules on the files of the package that are in scope.
func analyze(pass *analysishelper.EnhancedPass, conf *config.Config) (*outcome, error) {
	if !conf.IsPkgInScope(pass.Pkg) {
		return &outcome{}, nil
	}
	files := pass.FilesInScope(conf.IsFileInScope)
	if len(files) == 0 {
		return &outcome{}, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), conf.Timeout)
	defer cancel()
	out := runRules(ctx, coordinator(conf), dispatch.NewUnitFromPass(pass.Pass, files))
	if out.stats.FailedFiles > 0 {
		glog.Warningf("%s: %d of %d files could not be processed",
			tokenhelper.PosString(pass.Fset.Position(files[0].Package), config.DirLevelsToPrint), out.stats.FailedFiles, out.stats.Files)
	}
	return out, nil
}

// runRules runs the unit through the coordinator. A unit that does not finish before ctx is done
// is abandoned: the diagnostics of the files dispatched so far are kept and the rest is only
// logged.
func runRules(ctx context.Context, c *dispatch.Coordinator, unit *dispatch.Unit) *outcome {
	diagnostics, stats, err := c.Run(ctx, unit)
	if err != nil {
		glog.Warningf("%s: abandoned after %d of %d files: %v", unit.ID, stats.DispatchedFiles, len(unit.Files), err)
	}
	return &outcome{diagnostics: diagnostics, stats: stats}
}

var (
	_coordinatorsMu sync.Mutex
	// _coordinators holds one coordinator per distinct configuration, so that every package
	// analyzed with the same flags shares its registry and active flags.
	_coordinators = make(map[string]*dispatch.Coordinator)
)

// coordinator returns the coordinator for the configuration, creating it and registering the
// enabled rules on first use.
func coordinator(conf *config.Config) *dispatch.Coordinator {
	var enabled []dispatch.Consumer
	var names []string
	for _, r := range rules.All() {
		if conf.IsRuleEnabled(r.Name()) {
			enabled = append(enabled, r)
			names = append(names, r.Name())
		}
	}
	key := fmt.Sprintf("%+v %s", conf.Options(), strings.Join(names, ","))

	_coordinatorsMu.Lock()
	defer _coordinatorsMu.Unlock()
	c, ok := _coordinators[key]
	if !ok {
		c = dispatch.New(conf.Options())
		c.Register(enabled...)
		_coordinators[key] = c
		glog.V(1).Infof("created coordinator for %s", key)
	}
	return c
}

var (
	quotedPattern   = regexp.MustCompile(`"(.*?)"`)
	codeRefPattern  = regexp.MustCompile("\\`(.*?)\\`")
	exprCallPattern = regexp.MustCompile(`([\w.]+\(\.\.\.\))`)
)

// prettyPrintErrorMessage is used in error reporting to post process and pretty print the output with colors
func prettyPrintErrorMessage(category, msg string) string {
	errorStr := fmt.Sprintf("\x1b[%dm%s\x1b[0m", 31, "error: ")           // red
	ruleStr := fmt.Sprintf("\u001B[%dm%s\u001B[0m", 1, "["+category+"] ") // bold
	quotedStr := fmt.Sprintf("\u001B[%dm%s\u001B[0m", 36, `"${1}"`)       // cyan
	codeStr := fmt.Sprintf("\u001B[%dm%s\u001B[0m", 95, "`${1}`")         // magenta
	callStr := fmt.Sprintf("\u001B[%dm%s\u001B[0m", 95, "${1}")           // magenta

	msg = quotedPattern.ReplaceAllString(msg, quotedStr)
	msg = codeRefPattern.ReplaceAllString(msg, codeStr)
	msg = exprCallPattern.ReplaceAllString(msg, callStr)
	if category != "" {
		msg = ruleStr + msg
	}
	return errorStr + msg
}
