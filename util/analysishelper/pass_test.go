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

package analysishelper

import (
	"go/ast"
	"go/parser"
	"go/token"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/tools/go/analysis"
)

func TestEnhancedPass_FilesInScope(t *testing.T) {
	t.Parallel()

	pass := newTestEnhancedPass(t, map[string]string{
		"a.go":     "package p\n",
		"a_gen.go": "// Code generated by hand.\n\npackage p\n",
		"b.go":     "package p\n",
	})

	skipGenerated := func(fset *token.FileSet, file *ast.File) bool {
		return !strings.HasSuffix(fset.Position(file.Pos()).Filename, "_gen.go")
	}
	var names []string
	for _, f := range pass.FilesInScope(skipGenerated) {
		names = append(names, pass.Position(f).Filename)
	}
	require.Equal(t, []string{"a.go", "b.go"}, names)

	require.Empty(t, pass.FilesInScope(func(*token.FileSet, *ast.File) bool { return false }))
}

// newTestEnhancedPass creates an *analysishelper.EnhancedPass holding the given files, parsed in
// the order of their names.
func newTestEnhancedPass(t *testing.T, srcs map[string]string) *EnhancedPass {
	t.Helper()

	fset := token.NewFileSet()
	pass := &analysis.Pass{Fset: fset}
	for _, name := range []string{"a.go", "a_gen.go", "b.go"} {
		src, ok := srcs[name]
		if !ok {
			continue
		}
		file, err := parser.ParseFile(fset, name, src, parser.ParseComments)
		require.NoError(t, err)
		pass.Files = append(pass.Files, file)
	}
	return NewEnhancedPass(pass)
}
