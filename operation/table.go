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

import "go.uber.org/opdispatch/syntax"

// _expressionsWithTypes lists the syntax kinds of expressions that resolve to Invalid when the
// type checker recorded nothing for them.
var _expressionsWithTypes = syntax.NewSet(
	syntax.CallExpr,
	syntax.CompositeLit,
	syntax.SelectorExpr,
	syntax.IndexExpr,
	syntax.IndexListExpr,
	syntax.SliceExpr,
	syntax.StarExpr,
	syntax.UnaryExpr,
	syntax.BinaryExpr,
	syntax.TypeAssertExpr,
)

// _table maps each operation kind to the syntax kinds that can resolve to it. It must have an
// entry for every Kind, even when no syntax kind can produce it directly, so that the grouped
// operation maps built from it are complete.
var _table = map[Kind]syntax.Set{
	None:               0,
	Invalid:            _expressionsWithTypes,
	Invocation:         syntax.NewSet(syntax.CallExpr),
	DynamicInvocation:  syntax.NewSet(syntax.CallExpr),
	BuiltinInvocation:  syntax.NewSet(syntax.CallExpr),
	Conversion:         syntax.NewSet(syntax.CallExpr),
	ObjectCreation:     syntax.NewSet(syntax.CompositeLit, syntax.CallExpr),
	AnonymousFunction:  syntax.NewSet(syntax.FuncLit),
	Literal:            syntax.NewSet(syntax.BasicLit, syntax.Ident),
	Throw:              syntax.NewSet(syntax.CallExpr),
	Return:             syntax.NewSet(syntax.ReturnStmt),
	Branch:             syntax.NewSet(syntax.BranchStmt),
	Conditional:        syntax.NewSet(syntax.IfStmt),
	Switch:             syntax.NewSet(syntax.SwitchStmt, syntax.TypeSwitchStmt),
	Select:             syntax.NewSet(syntax.SelectStmt),
	CaseClause:         syntax.NewSet(syntax.CaseClause, syntax.CommClause),
	Loop:               syntax.NewSet(syntax.ForStmt, syntax.RangeStmt),
	Assignment:         syntax.NewSet(syntax.AssignStmt),
	CompoundAssignment: syntax.NewSet(syntax.AssignStmt),
	VariableDeclaration: syntax.NewSet(
		syntax.AssignStmt,
		syntax.DeclStmt,
		syntax.ValueSpec,
	),
	Increment:          syntax.NewSet(syntax.IncDecStmt),
	Decrement:          syntax.NewSet(syntax.IncDecStmt),
	Binary:             syntax.NewSet(syntax.BinaryExpr),
	Unary:              syntax.NewSet(syntax.UnaryExpr),
	AddressOf:          syntax.NewSet(syntax.UnaryExpr),
	Receive:            syntax.NewSet(syntax.UnaryExpr),
	Dereference:        syntax.NewSet(syntax.StarExpr),
	Send:               syntax.NewSet(syntax.SendStmt),
	TypeAssertion:      syntax.NewSet(syntax.TypeAssertExpr),
	FieldReference:     syntax.NewSet(syntax.SelectorExpr, syntax.Ident),
	MethodReference:    syntax.NewSet(syntax.SelectorExpr, syntax.Ident),
	LocalReference:     syntax.NewSet(syntax.Ident),
	ParameterReference: syntax.NewSet(syntax.Ident),
	GlobalReference:    syntax.NewSet(syntax.SelectorExpr, syntax.Ident),
	ConstantReference:  syntax.NewSet(syntax.SelectorExpr, syntax.Ident),
	TypeReference: syntax.NewSet(
		syntax.Ident,
		syntax.SelectorExpr,
		syntax.StarExpr,
		syntax.IndexExpr,
		syntax.IndexListExpr,
		syntax.ArrayType,
		syntax.StructType,
		syntax.FuncType,
		syntax.InterfaceType,
		syntax.MapType,
		syntax.ChanType,
	),
	PackageReference:      syntax.NewSet(syntax.Ident),
	ArrayElementReference: syntax.NewSet(syntax.IndexExpr),
	MapElementReference:   syntax.NewSet(syntax.IndexExpr),
	Instantiation:         syntax.NewSet(syntax.IndexExpr, syntax.IndexListExpr),
	Slice:                 syntax.NewSet(syntax.SliceExpr),
	Parenthesized:         syntax.NewSet(syntax.ParenExpr),
	Spawn:                 syntax.NewSet(syntax.GoStmt),
	Defer:                 syntax.NewSet(syntax.DeferStmt),
	Block:                 syntax.NewSet(syntax.BlockStmt),
	Labeled:               syntax.NewSet(syntax.LabeledStmt),
	Empty:                 syntax.NewSet(syntax.EmptyStmt),
	ExpressionStatement:   syntax.NewSet(syntax.ExprStmt),
	MethodBody:            syntax.NewSet(syntax.FuncDecl),
	FieldInitializer:      syntax.NewSet(syntax.KeyValueExpr),
	FlowCapture:           0,
	End:                   0,
}

// _inverse is the logical inverse of _table, computed once at initialization.
var _inverse = func() map[syntax.Kind]Set {
	inverse := make(map[syntax.Kind]Set)
	for opKind, syntaxKinds := range _table {
		for _, k := range syntaxKinds.Kinds() {
			inverse[k] = inverse[k].Add(opKind)
		}
	}
	return inverse
}()

// SyntaxFor returns the syntax kinds known to resolve to the given operation kind. The boolean
// is false only for kinds outside the defined range.
func SyntaxFor(k Kind) (syntax.Set, bool) {
	s, ok := _table[k]
	return s, ok
}

// KindsFor returns the operation kinds the given syntax kind can resolve to.
func KindsFor(k syntax.Kind) Set {
	return _inverse[k]
}

// Required returns the operation kinds that must be watched for in order to serve consumers
// interested in the given syntax kinds. The End sentinel is always included.
func Required(kinds syntax.Set) Set {
	var required Set
	for _, k := range kinds.Kinds() {
		required = required.Union(KindsFor(k))
	}
	return required.Add(End)
}
