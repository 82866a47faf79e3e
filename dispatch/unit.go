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

// Package dispatch implements the shared operation retrieval pipeline for rule checkers: it
// collects the syntax kinds every registered consumer is interested in when a compilation unit
// starts, walks each file once, resolves the matching nodes to their operations concurrently,
// groups them by operation kind and fans the grouped operations out to every active consumer.
package dispatch

import (
	"fmt"
	"go/ast"
	"go/token"
	"go/types"
	"sync"

	"go.uber.org/opdispatch/operation"
	"go.uber.org/opdispatch/syntax"
	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/passes/ctrlflow"
	"golang.org/x/tools/go/analysis/passes/inspect"
	"golang.org/x/tools/go/ast/inspector"
	"golang.org/x/tools/go/cfg"
)

// Consumer is a rule checker plugged into the pipeline. Implementations must be comparable
// (typically pointers), since the same consumer is never registered twice. Handle may be called
// concurrently for different files and concurrently with other consumers.
type Consumer interface {
	// Name identifies the consumer in logs and diagnostics.
	Name() string
	// SyntaxKinds returns the syntax kinds the consumer wants for the given unit. It is called
	// once per compilation unit; an empty set deactivates the consumer.
	SyntaxKinds(unit *Unit) syntax.Set
	// Handle receives the grouped operations of one file. The map has an entry for every
	// required operation kind. lastBatch is false when more batches for the same file follow.
	Handle(file *File, ops operation.Map, lastBatch bool) error
}

// CFGProvider gives access to the control flow graphs of function bodies.
// *ctrlflow.CFGs implements it.
type CFGProvider interface {
	FuncDecl(decl *ast.FuncDecl) *cfg.CFG
	FuncLit(lit *ast.FuncLit) *cfg.CFG
}

// Unit is one compilation unit (a type-checked package) handed to the Coordinator.
type Unit struct {
	// ID identifies the unit. A unit whose ID equals the currently tracked one is ignored.
	ID string
	// Fset is the file set the files were parsed with.
	Fset *token.FileSet
	// Files are the files to analyze.
	Files []*ast.File
	// Pkg is the type-checked package, possibly nil in tests.
	Pkg *types.Package
	// Info is the type information of the files.
	Info *types.Info
	// Resolver resolves nodes to operations. If nil, an operation.TypesResolver over Info is used.
	Resolver operation.Resolver
	// CFGs optionally provides control flow graphs for MethodBody and AnonymousFunction operations.
	CFGs CFGProvider
	// Inspector optionally drives the traversal for the Stream strategy. If nil, one is built
	// from Files.
	Inspector *inspector.Inspector
}

// NewUnitFromPass builds a unit from an analysis pass, restricted to the given files. It picks
// up the results of the inspect and ctrlflow analyzers if the pass depends on them. The unit ID
// identifies the type-checked package rather than its path, since a package and its test variant
// share the path.
func NewUnitFromPass(pass *analysis.Pass, files []*ast.File) *Unit {
	u := &Unit{
		ID:    fmt.Sprintf("%s@%p", pass.Pkg.Path(), pass.Pkg),
		Fset:  pass.Fset,
		Files: files,
		Pkg:   pass.Pkg,
		Info:  pass.TypesInfo,
	}
	if in, ok := pass.ResultOf[inspect.Analyzer].(*inspector.Inspector); ok {
		u.Inspector = in
	}
	if cfgs, ok := pass.ResultOf[ctrlflow.Analyzer].(*ctrlflow.CFGs); ok {
		u.CFGs = cfgs
	}
	return u
}

// Imports reports whether the unit's package directly imports the package with the given path.
func (u *Unit) Imports(path string) bool {
	if u.Pkg == nil {
		return false
	}
	for _, imp := range u.Pkg.Imports() {
		if imp.Path() == path {
			return true
		}
	}
	return false
}

// filePath returns the name the file was parsed with, which keys all per-file state.
func (u *Unit) filePath(file *ast.File) string {
	if tf := u.Fset.File(file.Pos()); tf != nil {
		return tf.Name()
	}
	return ""
}

// File is the context handed to consumers along with the operations of one file.
type File struct {
	// Path is the name the file was parsed with.
	Path string
	// AST is the syntax tree of the file.
	AST *ast.File
	// Unit is the compilation unit the file belongs to.
	Unit *Unit

	sink *sink
}

// Report records a violation found in the file. It is safe for concurrent use.
func (f *File) Report(d analysis.Diagnostic) {
	f.sink.add(d)
}

// Reportf records a violation at pos with a formatted message, attributed to the consumer
// named category.
func (f *File) Reportf(pos token.Pos, category, format string, args ...any) {
	f.sink.add(analysis.Diagnostic{Pos: pos, Category: category, Message: fmt.Sprintf(format, args...)})
}

// sink collects the diagnostics reported by consumers of one session.
type sink struct {
	mu          sync.Mutex
	diagnostics []analysis.Diagnostic
}

func (s *sink) add(d analysis.Diagnostic) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.diagnostics = append(s.diagnostics, d)
}
