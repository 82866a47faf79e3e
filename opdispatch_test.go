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

package opdispatch

import (
	"bytes"
	"context"
	"encoding/gob"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"go/types"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/opdispatch/config"
	"go.uber.org/opdispatch/dispatch"
	"go.uber.org/opdispatch/operation"
	"go.uber.org/opdispatch/syntax"
	"golang.org/x/tools/go/analysis/analysistest"
)

// For descriptions of the purpose of each of the following tests, consult their source files
// located in testdata/src/<testname>/<testname>.go

func TestRules(t *testing.T) {
	t.Parallel()

	testdata := analysistest.TestData()
	analysistest.Run(t, testdata, Analyzer, "rules")
}

func TestIgnoredPackages(t *testing.T) {
	t.Parallel()

	testdata := analysistest.TestData()
	analysistest.Run(t, testdata, Analyzer, "ignoredpkg1", "ignoredpkg2")
}

func TestGeneratedFiles(t *testing.T) {
	t.Parallel()

	testdata := analysistest.TestData()
	analysistest.Run(t, testdata, Analyzer, "generated")
}

func TestPrettyPrint(t *testing.T) { //nolint:paralleltest
	// We specifically do not set this test to be parallel such that this test is run separately
	// from the parallel tests. This makes it possible to set the pretty-print flag to true for
	// testing and false for the other tests.
	err := config.Analyzer.Flags.Set(config.PrettyPrintFlag, "true")
	require.NoError(t, err)
	defer func() {
		err := config.Analyzer.Flags.Set(config.PrettyPrintFlag, "false")
		require.NoError(t, err)
	}()

	testdata := analysistest.TestData()
	analysistest.Run(t, testdata, Analyzer, "prettyprint")
}

func TestPrettyPrintErrorMessage(t *testing.T) {
	t.Parallel()

	msg := prettyPrintErrorMessage("passwordstring", `variable "pwd" looks like it stores a password in a string`)
	require.Contains(t, msg, "\x1b[31merror: \x1b[0m")
	require.Contains(t, msg, "[passwordstring]")
	require.Contains(t, msg, "\u001B[36m\"pwd\"\u001B[0m")

	msg = prettyPrintErrorMessage("", "error created by fmt.Errorf(...) is discarded")
	require.Contains(t, msg, "\u001B[95mfmt.Errorf(...)\u001B[0m")
	require.NotContains(t, msg, "[]")
}

func TestSummary(t *testing.T) {
	t.Parallel()

	summary := newSummary(dispatch.Stats{Operations: map[operation.Kind]int{
		operation.Return:      2,
		operation.Conditional: 5,
		operation.Loop:        0,
	}})
	require.Equal(t, 2, summary.Len())
	require.Equal(t, "operations(Return=2, Conditional=5)", summary.String())

	var buf bytes.Buffer
	require.NoError(t, gob.NewEncoder(&buf).Encode(summary))
	var decoded Summary
	require.NoError(t, gob.NewDecoder(&buf).Decode(&decoded))
	require.Equal(t, summary.String(), decoded.String())
	require.Equal(t, 5, decoded.Count(operation.Conditional))
	require.Zero(t, decoded.Count(operation.Loop))
}

func TestCoordinatorPerConfiguration(t *testing.T) {
	t.Parallel()

	walk := &config.Config{Timeout: time.Minute}
	stream := &config.Config{Strategy: dispatch.Stream, Timeout: time.Minute}

	c := coordinator(walk)
	require.Same(t, c, coordinator(&config.Config{Timeout: time.Minute}))
	require.NotSame(t, c, coordinator(stream))
	require.Equal(t, 3, c.Registry().Len())
}

// stuckOnFile reports the first if statement of every file, except that it blocks on one file
// until released.
type stuckOnFile struct {
	path     string
	started  chan struct{}
	release  chan struct{}
	reported sync.WaitGroup
}

func (*stuckOnFile) Name() string { return "stuck" }

func (*stuckOnFile) SyntaxKinds(*dispatch.Unit) syntax.Set { return syntax.NewSet(syntax.IfStmt) }

func (s *stuckOnFile) Handle(f *dispatch.File, ops operation.Map, _ bool) error {
	if f.Path == s.path {
		close(s.started)
		<-s.release
		return nil
	}
	defer s.reported.Done()
	f.Reportf(ops.Get(operation.Conditional)[0].Node.Pos(), "stuck", "if statement in %s", f.Path)
	return nil
}

func TestAbandonedUnitKeepsFinishedFiles(t *testing.T) {
	t.Parallel()

	fset := token.NewFileSet()
	var files []*ast.File
	for i := 0; i < 3; i++ {
		src := fmt.Sprintf("package p\n\nfunc f%d(x int) {\n\tif x > 0 {\n\t}\n}\n", i)
		f, err := parser.ParseFile(fset, fmt.Sprintf("file%d.go", i), src, 0)
		require.NoError(t, err)
		files = append(files, f)
	}
	info := &types.Info{
		Types: make(map[ast.Expr]types.TypeAndValue),
		Defs:  make(map[*ast.Ident]types.Object),
		Uses:  make(map[*ast.Ident]types.Object),
	}
	pkg, err := new(types.Config).Check("p", fset, files, info)
	require.NoError(t, err)
	unit := &dispatch.Unit{ID: "p", Fset: fset, Files: files, Pkg: pkg, Info: info}

	consumer := &stuckOnFile{path: "file1.go", started: make(chan struct{}), release: make(chan struct{})}
	consumer.reported.Add(2)
	c := dispatch.New(dispatch.Options{})
	c.Register(consumer)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		<-consumer.started
		consumer.reported.Wait()
		cancel()
	}()

	out := runRules(ctx, c, unit)
	require.Len(t, out.diagnostics, 2)
	for _, d := range out.diagnostics {
		require.Equal(t, "stuck", d.Category)
		require.NotContains(t, d.Message, "file1.go")
	}

	close(consumer.release)
	require.NoError(t, c.Shutdown(context.Background()))
}

func TestMain(m *testing.M) {
	flags := map[string]string{
		// Pretty print should be turned off for easier error message matching in test files.
		config.PrettyPrintFlag:           "false",
		config.ExcludeFileDocStringsFlag: "Code generated by",
		config.ExcludePkgsFlag:           "ignoredpkg1,ignoredpkg2",
	}
	for f, v := range flags {
		if err := config.Analyzer.Flags.Set(f, v); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to set config flag %s with %s: %s", f, v, err)
			os.Exit(1)
		}
	}
	// glog starts its flush daemon in init.
	goleak.VerifyTestMain(m, goleak.IgnoreTopFunction("github.com/golang/glog.(*fileSink).flushDaemon"))
}
