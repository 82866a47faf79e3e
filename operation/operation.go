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
	"fmt"
	"go/ast"
	"go/types"

	"go.uber.org/opdispatch/syntax"
	"golang.org/x/tools/go/cfg"
)

// Operation is a syntax node resolved to its semantic operation. It is immutable once produced.
type Operation struct {
	// Kind is the semantic operation kind of the node.
	Kind Kind
	// Node is the syntax node the operation was resolved from.
	Node ast.Node
	// Syntax is the syntax kind of Node.
	Syntax syntax.Kind
	// Symbol is the object of the nearest enclosing function declaration, or nil for nodes at
	// package level.
	Symbol types.Object
	// CFG is the control flow graph of the function body, only set for MethodBody and
	// AnonymousFunction operations when the host provides graphs.
	CFG *cfg.CFG
}

func (o *Operation) String() string {
	name := "<package>"
	if o.Symbol != nil {
		name = o.Symbol.Name()
	}
	return fmt.Sprintf("Operation Kind: %s Syntax Kind: %s Containing Symbol: %s", o.Kind, o.Syntax, name)
}

// Map groups the operations found in one file by their kind. A Map built with NewMap has an
// entry for every required kind, possibly empty, so consumers can index it without checking for
// presence. Consumers must treat a Map handed to them as read-only.
type Map map[Kind][]*Operation

// NewMap returns a map with an empty entry for every kind in required.
func NewMap(required Set) Map {
	m := make(Map, required.Len())
	for _, k := range required.Kinds() {
		m[k] = []*Operation{}
	}
	return m
}

// Add appends the operation under its kind.
func (m Map) Add(op *Operation) {
	m[op.Kind] = append(m[op.Kind], op)
}

// Get returns the operations of the given kind.
func (m Map) Get(k Kind) []*Operation {
	return m[k]
}

// Count returns the total number of operations in the map.
func (m Map) Count() int {
	n := 0
	for _, ops := range m {
		n += len(ops)
	}
	return n
}

// Kinds returns the kinds that have an entry in the map (empty or not), in ascending order.
func (m Map) Kinds() []Kind {
	var s Set
	for k := range m {
		s = s.Add(k)
	}
	return s.Kinds()
}
