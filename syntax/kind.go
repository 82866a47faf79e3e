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

// Package syntax defines the syntax kinds that consumers use to declare which grammatical shapes
// of the source they are interested in. A syntax kind is simply the concrete `go/ast` node type.
package syntax

import (
	"fmt"
	"go/ast"
)

// Kind identifies the grammatical shape of a syntax node.
type Kind uint8

// The values below must stay below 64 since Set is a 64-bit mask.
const (
	// None is the kind of nil or unrecognized nodes.
	None Kind = iota
	// Bad covers *ast.BadExpr, *ast.BadStmt and *ast.BadDecl.
	Bad

	File
	Comment
	CommentGroup
	Field
	FieldList
	ImportSpec
	ValueSpec
	TypeSpec
	GenDecl
	FuncDecl

	DeclStmt
	EmptyStmt
	LabeledStmt
	ExprStmt
	SendStmt
	IncDecStmt
	AssignStmt
	GoStmt
	DeferStmt
	ReturnStmt
	BranchStmt
	BlockStmt
	IfStmt
	CaseClause
	SwitchStmt
	TypeSwitchStmt
	CommClause
	SelectStmt
	ForStmt
	RangeStmt

	Ident
	Ellipsis
	BasicLit
	FuncLit
	CompositeLit
	ParenExpr
	SelectorExpr
	IndexExpr
	IndexListExpr
	SliceExpr
	TypeAssertExpr
	CallExpr
	StarExpr
	UnaryExpr
	BinaryExpr
	KeyValueExpr

	ArrayType
	StructType
	FuncType
	InterfaceType
	MapType
	ChanType

	numKinds
)

var _kindNames = [...]string{
	None:           "None",
	Bad:            "Bad",
	File:           "File",
	Comment:        "Comment",
	CommentGroup:   "CommentGroup",
	Field:          "Field",
	FieldList:      "FieldList",
	ImportSpec:     "ImportSpec",
	ValueSpec:      "ValueSpec",
	TypeSpec:       "TypeSpec",
	GenDecl:        "GenDecl",
	FuncDecl:       "FuncDecl",
	DeclStmt:       "DeclStmt",
	EmptyStmt:      "EmptyStmt",
	LabeledStmt:    "LabeledStmt",
	ExprStmt:       "ExprStmt",
	SendStmt:       "SendStmt",
	IncDecStmt:     "IncDecStmt",
	AssignStmt:     "AssignStmt",
	GoStmt:         "GoStmt",
	DeferStmt:      "DeferStmt",
	ReturnStmt:     "ReturnStmt",
	BranchStmt:     "BranchStmt",
	BlockStmt:      "BlockStmt",
	IfStmt:         "IfStmt",
	CaseClause:     "CaseClause",
	SwitchStmt:     "SwitchStmt",
	TypeSwitchStmt: "TypeSwitchStmt",
	CommClause:     "CommClause",
	SelectStmt:     "SelectStmt",
	ForStmt:        "ForStmt",
	RangeStmt:      "RangeStmt",
	Ident:          "Ident",
	Ellipsis:       "Ellipsis",
	BasicLit:       "BasicLit",
	FuncLit:        "FuncLit",
	CompositeLit:   "CompositeLit",
	ParenExpr:      "ParenExpr",
	SelectorExpr:   "SelectorExpr",
	IndexExpr:      "IndexExpr",
	IndexListExpr:  "IndexListExpr",
	SliceExpr:      "SliceExpr",
	TypeAssertExpr: "TypeAssertExpr",
	CallExpr:       "CallExpr",
	StarExpr:       "StarExpr",
	UnaryExpr:      "UnaryExpr",
	BinaryExpr:     "BinaryExpr",
	KeyValueExpr:   "KeyValueExpr",
	ArrayType:      "ArrayType",
	StructType:     "StructType",
	FuncType:       "FuncType",
	InterfaceType:  "InterfaceType",
	MapType:        "MapType",
	ChanType:       "ChanType",
}

// All returns every defined kind except None, in ascending order.
func All() []Kind {
	kinds := make([]Kind, 0, numKinds-1)
	for k := None + 1; k < numKinds; k++ {
		kinds = append(kinds, k)
	}
	return kinds
}

func (k Kind) String() string {
	if k < numKinds {
		return _kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Of returns the kind of the given node, or None if the node is nil or of a type that is not
// tracked (e.g., the deprecated *ast.Package).
func Of(node ast.Node) Kind {
	switch node.(type) {
	case *ast.BadExpr, *ast.BadStmt, *ast.BadDecl:
		return Bad
	case *ast.File:
		return File
	case *ast.Comment:
		return Comment
	case *ast.CommentGroup:
		return CommentGroup
	case *ast.Field:
		return Field
	case *ast.FieldList:
		return FieldList
	case *ast.ImportSpec:
		return ImportSpec
	case *ast.ValueSpec:
		return ValueSpec
	case *ast.TypeSpec:
		return TypeSpec
	case *ast.GenDecl:
		return GenDecl
	case *ast.FuncDecl:
		return FuncDecl
	case *ast.DeclStmt:
		return DeclStmt
	case *ast.EmptyStmt:
		return EmptyStmt
	case *ast.LabeledStmt:
		return LabeledStmt
	case *ast.ExprStmt:
		return ExprStmt
	case *ast.SendStmt:
		return SendStmt
	case *ast.IncDecStmt:
		return IncDecStmt
	case *ast.AssignStmt:
		return AssignStmt
	case *ast.GoStmt:
		return GoStmt
	case *ast.DeferStmt:
		return DeferStmt
	case *ast.ReturnStmt:
		return ReturnStmt
	case *ast.BranchStmt:
		return BranchStmt
	case *ast.BlockStmt:
		return BlockStmt
	case *ast.IfStmt:
		return IfStmt
	case *ast.CaseClause:
		return CaseClause
	case *ast.SwitchStmt:
		return SwitchStmt
	case *ast.TypeSwitchStmt:
		return TypeSwitchStmt
	case *ast.CommClause:
		return CommClause
	case *ast.SelectStmt:
		return SelectStmt
	case *ast.ForStmt:
		return ForStmt
	case *ast.RangeStmt:
		return RangeStmt
	case *ast.Ident:
		return Ident
	case *ast.Ellipsis:
		return Ellipsis
	case *ast.BasicLit:
		return BasicLit
	case *ast.FuncLit:
		return FuncLit
	case *ast.CompositeLit:
		return CompositeLit
	case *ast.ParenExpr:
		return ParenExpr
	case *ast.SelectorExpr:
		return SelectorExpr
	case *ast.IndexExpr:
		return IndexExpr
	case *ast.IndexListExpr:
		return IndexListExpr
	case *ast.SliceExpr:
		return SliceExpr
	case *ast.TypeAssertExpr:
		return TypeAssertExpr
	case *ast.CallExpr:
		return CallExpr
	case *ast.StarExpr:
		return StarExpr
	case *ast.UnaryExpr:
		return UnaryExpr
	case *ast.BinaryExpr:
		return BinaryExpr
	case *ast.KeyValueExpr:
		return KeyValueExpr
	case *ast.ArrayType:
		return ArrayType
	case *ast.StructType:
		return StructType
	case *ast.FuncType:
		return FuncType
	case *ast.InterfaceType:
		return InterfaceType
	case *ast.MapType:
		return MapType
	case *ast.ChanType:
		return ChanType
	}
	return None
}

// Prototypes returns the typed nil nodes for the kinds in the set, suitable as the type filter
// of an `inspector.Inspector` traversal. Bad expands to its three node types.
func Prototypes(s Set) []ast.Node {
	var nodes []ast.Node
	for _, k := range s.Kinds() {
		switch k {
		case Bad:
			nodes = append(nodes, (*ast.BadExpr)(nil), (*ast.BadStmt)(nil), (*ast.BadDecl)(nil))
		default:
			if p := prototype(k); p != nil {
				nodes = append(nodes, p)
			}
		}
	}
	return nodes
}

func prototype(k Kind) ast.Node {
	switch k {
	case File:
		return (*ast.File)(nil)
	case Comment:
		return (*ast.Comment)(nil)
	case CommentGroup:
		return (*ast.CommentGroup)(nil)
	case Field:
		return (*ast.Field)(nil)
	case FieldList:
		return (*ast.FieldList)(nil)
	case ImportSpec:
		return (*ast.ImportSpec)(nil)
	case ValueSpec:
		return (*ast.ValueSpec)(nil)
	case TypeSpec:
		return (*ast.TypeSpec)(nil)
	case GenDecl:
		return (*ast.GenDecl)(nil)
	case FuncDecl:
		return (*ast.FuncDecl)(nil)
	case DeclStmt:
		return (*ast.DeclStmt)(nil)
	case EmptyStmt:
		return (*ast.EmptyStmt)(nil)
	case LabeledStmt:
		return (*ast.LabeledStmt)(nil)
	case ExprStmt:
		return (*ast.ExprStmt)(nil)
	case SendStmt:
		return (*ast.SendStmt)(nil)
	case IncDecStmt:
		return (*ast.IncDecStmt)(nil)
	case AssignStmt:
		return (*ast.AssignStmt)(nil)
	case GoStmt:
		return (*ast.GoStmt)(nil)
	case DeferStmt:
		return (*ast.DeferStmt)(nil)
	case ReturnStmt:
		return (*ast.ReturnStmt)(nil)
	case BranchStmt:
		return (*ast.BranchStmt)(nil)
	case BlockStmt:
		return (*ast.BlockStmt)(nil)
	case IfStmt:
		return (*ast.IfStmt)(nil)
	case CaseClause:
		return (*ast.CaseClause)(nil)
	case SwitchStmt:
		return (*ast.SwitchStmt)(nil)
	case TypeSwitchStmt:
		return (*ast.TypeSwitchStmt)(nil)
	case CommClause:
		return (*ast.CommClause)(nil)
	case SelectStmt:
		return (*ast.SelectStmt)(nil)
	case ForStmt:
		return (*ast.ForStmt)(nil)
	case RangeStmt:
		return (*ast.RangeStmt)(nil)
	case Ident:
		return (*ast.Ident)(nil)
	case Ellipsis:
		return (*ast.Ellipsis)(nil)
	case BasicLit:
		return (*ast.BasicLit)(nil)
	case FuncLit:
		return (*ast.FuncLit)(nil)
	case CompositeLit:
		return (*ast.CompositeLit)(nil)
	case ParenExpr:
		return (*ast.ParenExpr)(nil)
	case SelectorExpr:
		return (*ast.SelectorExpr)(nil)
	case IndexExpr:
		return (*ast.IndexExpr)(nil)
	case IndexListExpr:
		return (*ast.IndexListExpr)(nil)
	case SliceExpr:
		return (*ast.SliceExpr)(nil)
	case TypeAssertExpr:
		return (*ast.TypeAssertExpr)(nil)
	case CallExpr:
		return (*ast.CallExpr)(nil)
	case StarExpr:
		return (*ast.StarExpr)(nil)
	case UnaryExpr:
		return (*ast.UnaryExpr)(nil)
	case BinaryExpr:
		return (*ast.BinaryExpr)(nil)
	case KeyValueExpr:
		return (*ast.KeyValueExpr)(nil)
	case ArrayType:
		return (*ast.ArrayType)(nil)
	case StructType:
		return (*ast.StructType)(nil)
	case FuncType:
		return (*ast.FuncType)(nil)
	case InterfaceType:
		return (*ast.InterfaceType)(nil)
	case MapType:
		return (*ast.MapType)(nil)
	case ChanType:
		return (*ast.ChanType)(nil)
	}
	return nil
}
