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

// Package errnotreturned reports error values that are created and immediately discarded, e.g.,
// a bare `fmt.Errorf(...)` statement where `return fmt.Errorf(...)` was meant.
package errnotreturned

import (
	"go/ast"
	"slices"

	"go.uber.org/opdispatch/dispatch"
	"go.uber.org/opdispatch/operation"
	"go.uber.org/opdispatch/syntax"
	"go.uber.org/opdispatch/util/asthelper"
	"go.uber.org/opdispatch/util/typeshelper"
	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/types/typeutil"
)

// Name is the name of the rule.
const Name = "errnotreturned"

// Rule is the consumer implementing the check.
type Rule struct {
	// constructors maps package paths to the names of their functions creating error values.
	constructors map[string][]string
}

// New returns the rule.
func New() *Rule {
	return &Rule{constructors: map[string][]string{
		"errors": {"New", "Join"},
		"fmt":    {"Errorf"},
	}}
}

// Name implements dispatch.Consumer.
func (r *Rule) Name() string { return Name }

// SyntaxKinds implements dispatch.Consumer. Packages that import none of the error constructors
// cannot violate the rule.
func (r *Rule) SyntaxKinds(unit *dispatch.Unit) syntax.Set {
	for path := range r.constructors {
		if unit.Imports(path) {
			return syntax.NewSet(syntax.ExprStmt)
		}
	}
	return 0
}

// Handle implements dispatch.Consumer.
func (r *Rule) Handle(file *dispatch.File, ops operation.Map, _ bool) error {
	info := file.Unit.Info
	if info == nil {
		return nil
	}
	for _, op := range ops[operation.ExpressionStatement] {
		stmt, ok := op.Node.(*ast.ExprStmt)
		if !ok {
			continue
		}
		call, ok := ast.Unparen(stmt.X).(*ast.CallExpr)
		if !ok {
			continue
		}
		fn := typeutil.StaticCallee(info, call)
		if fn == nil || fn.Pkg() == nil || !typeshelper.FuncIsErrReturning(fn) {
			continue
		}
		if !slices.Contains(r.constructors[fn.Pkg().Path()], fn.Name()) {
			continue
		}
		file.Report(analysis.Diagnostic{
			Pos:      call.Pos(),
			End:      call.End(),
			Category: Name,
			Message:  "error created by " + asthelper.PrintExpr(file.Unit.Fset, call, true) + " is discarded, return or handle it",
		})
	}
	return nil
}
