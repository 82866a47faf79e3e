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

// Package operation defines the semantic operations that syntax nodes resolve to, the static
// classification table that links them to syntax kinds, and the resolver that stamps each
// syntax node with its operation kind using the type information of the package.
package operation

import (
	"fmt"
	"math/bits"
	"strings"
)

// Kind identifies the semantic shape of a resolved syntax node.
type Kind uint8

// The values below must stay below 64 since Set is a 64-bit mask.
const (
	None Kind = iota
	// Invalid is produced for expressions the type checker could not make sense of.
	Invalid
	// Invocation is a call to a statically known function or concrete method.
	Invocation
	// DynamicInvocation is a call through an interface method or a function value.
	DynamicInvocation
	// BuiltinInvocation is a call to a builtin other than panic, new and make.
	BuiltinInvocation
	Conversion
	// ObjectCreation is a composite literal or a call to new or make.
	ObjectCreation
	AnonymousFunction
	Literal
	// Throw is a call to the panic builtin.
	Throw
	Return
	Branch
	Conditional
	Switch
	Select
	CaseClause
	Loop
	Assignment
	CompoundAssignment
	VariableDeclaration
	Increment
	Decrement
	Binary
	Unary
	AddressOf
	Receive
	Dereference
	Send
	TypeAssertion
	FieldReference
	MethodReference
	LocalReference
	ParameterReference
	GlobalReference
	ConstantReference
	TypeReference
	PackageReference
	ArrayElementReference
	MapElementReference
	Instantiation
	Slice
	Parenthesized
	Spawn
	Defer
	Block
	Labeled
	Empty
	ExpressionStatement
	MethodBody
	FieldInitializer
	// FlowCapture only appears in lowered control flow graphs and is never produced by a node.
	FlowCapture
	// End is the sentinel that is always required; consumers may use it to flush batched state.
	End

	numKinds
)

var _kindNames = [...]string{
	None:                  "None",
	Invalid:               "Invalid",
	Invocation:            "Invocation",
	DynamicInvocation:     "DynamicInvocation",
	BuiltinInvocation:     "BuiltinInvocation",
	Conversion:            "Conversion",
	ObjectCreation:        "ObjectCreation",
	AnonymousFunction:     "AnonymousFunction",
	Literal:               "Literal",
	Throw:                 "Throw",
	Return:                "Return",
	Branch:                "Branch",
	Conditional:           "Conditional",
	Switch:                "Switch",
	Select:                "Select",
	CaseClause:            "CaseClause",
	Loop:                  "Loop",
	Assignment:            "Assignment",
	CompoundAssignment:    "CompoundAssignment",
	VariableDeclaration:   "VariableDeclaration",
	Increment:             "Increment",
	Decrement:             "Decrement",
	Binary:                "Binary",
	Unary:                 "Unary",
	AddressOf:             "AddressOf",
	Receive:               "Receive",
	Dereference:           "Dereference",
	Send:                  "Send",
	TypeAssertion:         "TypeAssertion",
	FieldReference:        "FieldReference",
	MethodReference:       "MethodReference",
	LocalReference:        "LocalReference",
	ParameterReference:    "ParameterReference",
	GlobalReference:       "GlobalReference",
	ConstantReference:     "ConstantReference",
	TypeReference:         "TypeReference",
	PackageReference:      "PackageReference",
	ArrayElementReference: "ArrayElementReference",
	MapElementReference:   "MapElementReference",
	Instantiation:         "Instantiation",
	Slice:                 "Slice",
	Parenthesized:         "Parenthesized",
	Spawn:                 "Spawn",
	Defer:                 "Defer",
	Block:                 "Block",
	Labeled:               "Labeled",
	Empty:                 "Empty",
	ExpressionStatement:   "ExpressionStatement",
	MethodBody:            "MethodBody",
	FieldInitializer:      "FieldInitializer",
	FlowCapture:           "FlowCapture",
	End:                   "End",
}

// All returns every defined kind, None included, in ascending order.
func All() []Kind {
	kinds := make([]Kind, 0, numKinds)
	for k := None; k < numKinds; k++ {
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

// Set is an immutable set of operation kinds. The zero value is the empty set.
type Set uint64

// NewSet returns the set containing the given kinds.
func NewSet(kinds ...Kind) Set {
	var s Set
	for _, k := range kinds {
		s = s.Add(k)
	}
	return s
}

// Add returns a copy of the set with k added. Kinds out of range are ignored.
func (s Set) Add(k Kind) Set {
	if k >= numKinds {
		return s
	}
	return s | 1<<k
}

// Has reports whether k is in the set.
func (s Set) Has(k Kind) bool { return k < numKinds && s&(1<<k) != 0 }

// Union returns the union of the two sets.
func (s Set) Union(o Set) Set { return s | o }

// Len returns the number of kinds in the set.
func (s Set) Len() int { return bits.OnesCount64(uint64(s)) }

// Empty reports whether the set has no kinds.
func (s Set) Empty() bool { return s == 0 }

// Kinds returns the kinds in the set in ascending order.
func (s Set) Kinds() []Kind {
	kinds := make([]Kind, 0, s.Len())
	for rest := uint64(s); rest != 0; rest &= rest - 1 {
		kinds = append(kinds, Kind(bits.TrailingZeros64(rest)))
	}
	return kinds
}

func (s Set) String() string {
	names := make([]string, 0, s.Len())
	for _, k := range s.Kinds() {
		names = append(names, k.String())
	}
	return "{" + strings.Join(names, ", ") + "}"
}
