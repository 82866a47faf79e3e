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

package main

import (
	"flag"
	"go/token"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/tools/go/analysis"
)

func TestParseFilePrefixes(t *testing.T) {
	t.Parallel()

	cwd, err := os.Getwd()
	require.NoError(t, err)

	list, err := parseFilePrefixes("")
	require.NoError(t, err)
	require.Empty(t, list)

	list, err = parseFilePrefixes("a,/abs/b")
	require.NoError(t, err)
	require.Equal(t, []string{filepath.Join(cwd, "a"), "/abs/b"}, list)
}

func TestReportFilter(t *testing.T) {
	t.Parallel()

	filter, err := newReportFilter("/src/app", "/src/app/vendor")
	require.NoError(t, err)

	fset := token.NewFileSet()
	kept := fset.AddFile("/src/app/main.go", -1, 100)
	excluded := fset.AddFile("/src/app/vendor/dep.go", -1, 100)
	outside := fset.AddFile("/other/lib.go", -1, 100)

	var reported []string
	report := filter.wrap(fset, func(d analysis.Diagnostic) { reported = append(reported, d.Message) })

	report(analysis.Diagnostic{Pos: kept.Pos(1), Message: "kept"})
	report(analysis.Diagnostic{Pos: excluded.Pos(1), Message: "excluded"})
	report(analysis.Diagnostic{Pos: outside.Pos(1), Message: "outside"})
	report(analysis.Diagnostic{Pos: token.NoPos, Message: "no file"})

	require.Equal(t, []string{"kept", "no file"}, reported)
}

func TestReportFilterWithoutIncludes(t *testing.T) {
	t.Parallel()

	filter, err := newReportFilter("", "")
	require.NoError(t, err)
	require.False(t, filter.keeps("/src/app/main.go"))
}

func TestLiftFlags(t *testing.T) {
	t.Parallel()

	var from, to flag.FlagSet
	value := from.String("strategy", "walk", "usage")
	liftFlags(&from, &to)

	require.NoError(t, to.Parse([]string{"-strategy", "stream"}))
	require.Equal(t, "stream", *value)
	require.Equal(t, "usage", to.Lookup("strategy").Usage)
}
