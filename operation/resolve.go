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

package operation

import (
	"go/ast"
	"go/token"
	"go/types"
	"sync"

	"go.uber.org/opdispatch/syntax"
	"golang.org/x/tools/go/types/typeutil"
)

// Resolver resolves syntax nodes to their semantic operation kinds and symbols. Implementations
// must be safe for concurrent use, since nodes of a file are resolved concurrently.
type Resolver interface {
	// Resolve returns the operation kind of the node, or false if the node has no semantic
	// meaning on its own (e.g., the name in a declaration or a type switch guard).
	Resolve(node ast.Node) (Kind, bool)
	// Symbol returns the object declared or referenced by the node, or nil if there is none.
	Symbol(node ast.Node) types.Object
}

// TypesResolver is the Resolver backed by the type information of a type-checked package.
// It only reads from the types.Info, which must not be mutated while the resolver is in use.
type TypesResolver struct {
	info *types.Info

	paramsOnce sync.Once
	params     map[*types.Var]bool
}

// NewTypesResolver returns a resolver over the given type information. A nil info is treated as
// an empty one, in which case every typed expression resolves to Invalid.
func NewTypesResolver(info *types.Info) *TypesResolver {
	if info == nil {
		info = &types.Info{}
	}
	return &TypesResolver{info: info}
}

// Resolve implements Resolver.
func (r *TypesResolver) Resolve(node ast.Node) (Kind, bool) {
	switch n := node.(type) {
	case *ast.FuncDecl:
		if n.Body == nil {
			return None, false
		}
		return MethodBody, true
	case *ast.FuncLit:
		return AnonymousFunction, true
	case *ast.BlockStmt:
		return Block, true
	case *ast.ExprStmt:
		return ExpressionStatement, true
	case *ast.ReturnStmt:
		return Return, true
	case *ast.BranchStmt:
		return Branch, true
	case *ast.IfStmt:
		return Conditional, true
	case *ast.SwitchStmt, *ast.TypeSwitchStmt:
		return Switch, true
	case *ast.SelectStmt:
		return Select, true
	case *ast.CaseClause, *ast.CommClause:
		return CaseClause, true
	case *ast.ForStmt, *ast.RangeStmt:
		return Loop, true
	case *ast.GoStmt:
		return Spawn, true
	case *ast.DeferStmt:
		return Defer, true
	case *ast.LabeledStmt:
		return Labeled, true
	case *ast.EmptyStmt:
		return Empty, true
	case *ast.SendStmt:
		return Send, true
	case *ast.IncDecStmt:
		if n.Tok == token.INC {
			return Increment, true
		}
		return Decrement, true
	case *ast.AssignStmt:
		return r.resolveAssign(n)
	case *ast.DeclStmt:
		if gen, ok := n.Decl.(*ast.GenDecl); ok && gen.Tok == token.VAR {
			return VariableDeclaration, true
		}
		return None, false
	case *ast.ValueSpec:
		for _, name := range n.Names {
			if _, ok := r.info.Defs[name].(*types.Var); ok {
				return VariableDeclaration, true
			}
		}
		return None, false
	case *ast.KeyValueExpr:
		return FieldInitializer, true
	case *ast.BasicLit:
		return Literal, true
	case *ast.ParenExpr:
		return Parenthesized, true
	case *ast.Ident:
		obj := r.info.Uses[n]
		if obj == nil {
			return None, false
		}
		return r.classifyObject(obj)
	case *ast.ArrayType, *ast.StructType, *ast.FuncType, *ast.InterfaceType, *ast.MapType, *ast.ChanType:
		return TypeReference, true
	case ast.Expr:
		return r.resolveExpr(n)
	}
	return None, false
}

func (r *TypesResolver) resolveAssign(n *ast.AssignStmt) (Kind, bool) {
	switch n.Tok {
	case token.DEFINE:
		// The guard of a type switch (`switch v := x.(type)`) declares nothing by itself.
		if len(n.Rhs) == 1 {
			if ta, ok := n.Rhs[0].(*ast.TypeAssertExpr); ok && ta.Type == nil {
				return None, false
			}
		}
		return VariableDeclaration, true
	case token.ASSIGN:
		return Assignment, true
	default:
		return CompoundAssignment, true
	}
}

func (r *TypesResolver) resolveExpr(expr ast.Expr) (Kind, bool) {
	if ta, ok := expr.(*ast.TypeAssertExpr); ok && ta.Type == nil {
		return None, false
	}
	tv, ok := r.info.Types[expr]
	if !ok {
		if _expressionsWithTypes.Has(syntax.Of(expr)) {
			return Invalid, true
		}
		return None, false
	}

	switch e := expr.(type) {
	case *ast.CallExpr:
		return r.resolveCall(e), true
	case *ast.CompositeLit:
		return ObjectCreation, true
	case *ast.SelectorExpr:
		if sel, ok := r.info.Selections[e]; ok {
			if sel.Kind() == types.FieldVal {
				return FieldReference, true
			}
			return MethodReference, true
		}
		if tv.IsType() {
			return TypeReference, true
		}
		// A qualified identifier, e.g., `pkg.Name`.
		if obj := r.info.Uses[e.Sel]; obj != nil {
			return r.classifyObject(obj)
		}
		return Invalid, true
	case *ast.IndexExpr:
		if tv.IsType() {
			return TypeReference, true
		}
		xtv, ok := r.info.Types[e.X]
		if !ok || xtv.Type == nil {
			return Invalid, true
		}
		if _, ok := xtv.Type.(*types.Signature); ok {
			return Instantiation, true
		}
		if _, ok := xtv.Type.Underlying().(*types.Map); ok {
			return MapElementReference, true
		}
		return ArrayElementReference, true
	case *ast.IndexListExpr:
		if tv.IsType() {
			return TypeReference, true
		}
		return Instantiation, true
	case *ast.SliceExpr:
		return Slice, true
	case *ast.StarExpr:
		if tv.IsType() {
			return TypeReference, true
		}
		return Dereference, true
	case *ast.UnaryExpr:
		switch e.Op {
		case token.AND:
			return AddressOf, true
		case token.ARROW:
			return Receive, true
		}
		return Unary, true
	case *ast.BinaryExpr:
		return Binary, true
	case *ast.TypeAssertExpr:
		return TypeAssertion, true
	}
	return None, false
}

func (r *TypesResolver) resolveCall(call *ast.CallExpr) Kind {
	if tv, ok := r.info.Types[ast.Unparen(call.Fun)]; ok && tv.IsType() {
		return Conversion
	}
	switch callee := typeutil.Callee(r.info, call).(type) {
	case *types.Builtin:
		switch callee.Name() {
		case "panic":
			return Throw
		case "new", "make":
			return ObjectCreation
		}
		return BuiltinInvocation
	case *types.Func:
		if sig, ok := callee.Type().(*types.Signature); ok && sig.Recv() != nil && types.IsInterface(sig.Recv().Type()) {
			return DynamicInvocation
		}
		return Invocation
	}
	// Function values: variables, fields, results of other calls and immediately invoked literals.
	return DynamicInvocation
}

// classifyObject maps a referenced object to the reference kind it denotes.
func (r *TypesResolver) classifyObject(obj types.Object) (Kind, bool) {
	switch o := obj.(type) {
	case *types.Var:
		if o.IsField() {
			return FieldReference, true
		}
		if o.Pkg() != nil && o.Parent() == o.Pkg().Scope() {
			return GlobalReference, true
		}
		if r.isParam(o) {
			return ParameterReference, true
		}
		return LocalReference, true
	case *types.Const:
		return ConstantReference, true
	case *types.TypeName:
		return TypeReference, true
	case *types.Func:
		return MethodReference, true
	case *types.PkgName:
		return PackageReference, true
	case *types.Nil:
		return Literal, true
	}
	// Builtins are resolved at their call sites, and labels carry no value.
	return None, false
}

// isParam reports whether v is a receiver, parameter or named result of a function declared or
// written as a literal in the package. The set is computed once, on first use.
func (r *TypesResolver) isParam(v *types.Var) bool {
	r.paramsOnce.Do(func() {
		r.params = make(map[*types.Var]bool)
		add := func(sig *types.Signature) {
			if recv := sig.Recv(); recv != nil {
				r.params[recv] = true
			}
			for _, tuple := range [...]*types.Tuple{sig.Params(), sig.Results()} {
				for i := 0; i < tuple.Len(); i++ {
					r.params[tuple.At(i)] = true
				}
			}
		}
		for _, obj := range r.info.Defs {
			if fn, ok := obj.(*types.Func); ok {
				if sig, ok := fn.Type().(*types.Signature); ok {
					add(sig)
				}
			}
		}
		for expr, tv := range r.info.Types {
			if _, ok := expr.(*ast.FuncLit); !ok {
				continue
			}
			if sig, ok := tv.Type.(*types.Signature); ok {
				add(sig)
			}
		}
	})
	return r.params[v]
}

// Symbol implements Resolver.
func (r *TypesResolver) Symbol(node ast.Node) types.Object {
	switch n := node.(type) {
	case *ast.FuncDecl:
		return r.info.Defs[n.Name]
	case *ast.TypeSpec:
		return r.info.Defs[n.Name]
	case *ast.ValueSpec:
		if len(n.Names) > 0 {
			return r.info.Defs[n.Names[0]]
		}
	case *ast.Ident:
		return r.info.ObjectOf(n)
	case *ast.SelectorExpr:
		return r.info.ObjectOf(n.Sel)
	case *ast.CallExpr:
		return typeutil.Callee(r.info, n)
	}
	return nil
}
