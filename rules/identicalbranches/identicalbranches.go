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

// Package identicalbranches reports conditional structures whose branches all do the same thing:
// an if/else-if chain ending in an else where every branch is identical, or a switch with a
// default clause whose clauses are all identical.
package identicalbranches

import (
	"fmt"
	"go/ast"
	"go/token"
	"sync"

	"go.uber.org/opdispatch/dispatch"
	"go.uber.org/opdispatch/operation"
	"go.uber.org/opdispatch/syntax"
	"go.uber.org/opdispatch/util/asthelper"
	"golang.org/x/tools/go/analysis"
)

// Name is the name of the rule.
const Name = "identicalbranches"

// Rule is the consumer implementing the check. An if chain may be split across batches, so the
// operations of a file are buffered until its last batch.
type Rule struct {
	mu      sync.Mutex
	pending map[*ast.File][]*operation.Operation
}

// New returns the rule.
func New() *Rule {
	return &Rule{pending: make(map[*ast.File][]*operation.Operation)}
}

// Name implements dispatch.Consumer.
func (r *Rule) Name() string { return Name }

// SyntaxKinds implements dispatch.Consumer.
func (r *Rule) SyntaxKinds(*dispatch.Unit) syntax.Set {
	return syntax.NewSet(syntax.IfStmt, syntax.SwitchStmt, syntax.TypeSwitchStmt)
}

// Handle implements dispatch.Consumer.
func (r *Rule) Handle(file *dispatch.File, ops operation.Map, lastBatch bool) error {
	r.mu.Lock()
	buffered := append(r.pending[file.AST], ops[operation.Conditional]...)
	buffered = append(buffered, ops[operation.Switch]...)
	if !lastBatch {
		r.pending[file.AST] = buffered
		r.mu.Unlock()
		return nil
	}
	delete(r.pending, file.AST)
	r.mu.Unlock()

	// Only the head of an if chain is checked, the else-ifs are part of its branches.
	elseIfs := make(map[*ast.IfStmt]bool)
	for _, op := range buffered {
		if stmt, ok := op.Node.(*ast.IfStmt); ok {
			if elseIf, ok := stmt.Else.(*ast.IfStmt); ok {
				elseIfs[elseIf] = true
			}
		}
	}

	fset := file.Unit.Fset
	for _, op := range buffered {
		switch n := op.Node.(type) {
		case *ast.IfStmt:
			if elseIfs[n] {
				continue
			}
			if branches := ifBranches(n); allIdentical(fset, branches) {
				report(file, n, fmt.Sprintf("all %d branches of this if chain are identical", len(branches)))
			}
		case *ast.SwitchStmt:
			if clauses := switchClauses(n.Body); allIdentical(fset, clauses) {
				report(file, n, fmt.Sprintf("all %d clauses of this switch are identical", len(clauses)))
			}
		case *ast.TypeSwitchStmt:
			if clauses := switchClauses(n.Body); allIdentical(fset, clauses) {
				report(file, n, fmt.Sprintf("all %d clauses of this type switch are identical", len(clauses)))
			}
		}
	}
	return nil
}

// ifBranches returns the bodies of every branch of the chain headed by stmt, or nil if the chain
// does not end with an else.
func ifBranches(stmt *ast.IfStmt) [][]ast.Stmt {
	branches := [][]ast.Stmt{stmt.Body.List}
	for cur := stmt; ; {
		switch e := cur.Else.(type) {
		case *ast.IfStmt:
			branches = append(branches, e.Body.List)
			cur = e
		case *ast.BlockStmt:
			return append(branches, e.List)
		default:
			return nil
		}
	}
}

// switchClauses returns the bodies of every clause of the switch, or nil if the switch has no
// default clause or fewer than two clauses.
func switchClauses(body *ast.BlockStmt) [][]ast.Stmt {
	if body == nil || len(body.List) < 2 {
		return nil
	}
	var clauses [][]ast.Stmt
	hasDefault := false
	for _, stmt := range body.List {
		clause, ok := stmt.(*ast.CaseClause)
		if !ok {
			return nil
		}
		if clause.List == nil {
			hasDefault = true
		}
		clauses = append(clauses, clause.Body)
	}
	if !hasDefault {
		return nil
	}
	return clauses
}

func allIdentical(fset *token.FileSet, bodies [][]ast.Stmt) bool {
	if len(bodies) < 2 {
		return false
	}
	for _, body := range bodies[1:] {
		if !asthelper.EqualStmts(fset, bodies[0], body) {
			return false
		}
	}
	return true
}

func report(file *dispatch.File, node ast.Node, msg string) {
	file.Report(analysis.Diagnostic{Pos: node.Pos(), End: node.End(), Category: Name, Message: msg})
}
