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

// Package passwordstring reports string variables and parameters whose names suggest they hold
// a password or another credential.
package passwordstring

import (
	"fmt"
	"go/ast"
	"go/types"
	"strings"

	"go.uber.org/opdispatch/dispatch"
	"go.uber.org/opdispatch/operation"
	"go.uber.org/opdispatch/syntax"
	"go.uber.org/opdispatch/util/typeshelper"
	"golang.org/x/tools/go/analysis"
)

// Name is the name of the rule.
const Name = "passwordstring"

// Rule is the consumer implementing the check.
type Rule struct {
	// exact holds the names that only match as a whole, partial the ones matching anywhere in a
	// name. Both are lower case.
	exact   map[string]bool
	partial []string
}

// New returns the rule.
func New() *Rule {
	return &Rule{
		exact: map[string]bool{"pswd": true, "auth": true, "mima": true, "mdp": true},
		partial: []string{
			"password", "passwd", "passwrd", "psswrd", "watchword", "passphrase", "credentials",
			"passstring", "loginpass", "passkey", "secretkey", "contrasena", "motdepasse", "mot_de_passe",
		},
	}
}

// Name implements dispatch.Consumer.
func (r *Rule) Name() string { return Name }

// SyntaxKinds implements dispatch.Consumer.
func (r *Rule) SyntaxKinds(*dispatch.Unit) syntax.Set {
	return syntax.NewSet(syntax.ValueSpec, syntax.AssignStmt, syntax.FuncDecl, syntax.FuncLit)
}

// Handle implements dispatch.Consumer.
func (r *Rule) Handle(file *dispatch.File, ops operation.Map, _ bool) error {
	info := file.Unit.Info
	if info == nil {
		return nil
	}

	for _, op := range ops[operation.VariableDeclaration] {
		var names []*ast.Ident
		switch n := op.Node.(type) {
		case *ast.ValueSpec:
			names = n.Names
		case *ast.AssignStmt:
			for _, lhs := range n.Lhs {
				if id, ok := lhs.(*ast.Ident); ok {
					names = append(names, id)
				}
			}
		}
		r.check(file, info, names, "variable")
	}

	var params []*ast.Field
	for _, op := range ops[operation.MethodBody] {
		if decl, ok := op.Node.(*ast.FuncDecl); ok && decl.Type.Params != nil {
			params = append(params, decl.Type.Params.List...)
		}
	}
	for _, op := range ops[operation.AnonymousFunction] {
		if lit, ok := op.Node.(*ast.FuncLit); ok && lit.Type.Params != nil {
			params = append(params, lit.Type.Params.List...)
		}
	}
	for _, field := range params {
		r.check(file, info, field.Names, "parameter")
	}
	return nil
}

// check reports the identifiers defining string variables with password-like names.
func (r *Rule) check(file *dispatch.File, info *types.Info, names []*ast.Ident, what string) {
	for _, name := range names {
		v, ok := info.Defs[name].(*types.Var)
		if !ok || !typeshelper.IsStringType(v.Type()) || !r.matches(name.Name) {
			continue
		}
		file.Report(analysis.Diagnostic{
			Pos:      name.Pos(),
			End:      name.End(),
			Category: Name,
			Message:  fmt.Sprintf("%s %q looks like it stores a password in a string", what, name.Name),
		})
	}
}

func (r *Rule) matches(name string) bool {
	name = strings.ToLower(name)
	if r.exact[name] {
		return true
	}
	for _, p := range r.partial {
		if strings.Contains(name, p) {
			return true
		}
	}
	return false
}
