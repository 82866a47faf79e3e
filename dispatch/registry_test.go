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

package dispatch

import (
	"go/ast"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/opdispatch/operation"
	"go.uber.org/opdispatch/syntax"
)

// sliceConsumer has a dynamic type that cannot be used as a map key.
type sliceConsumer []int

func (sliceConsumer) Name() string                            { return "slice" }
func (sliceConsumer) SyntaxKinds(*Unit) syntax.Set            { return syntax.NewSet(syntax.IfStmt) }
func (sliceConsumer) Handle(*File, operation.Map, bool) error { return nil }

func TestRegistry(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	a := &recorder{name: "a", kinds: constKinds(syntax.IfStmt)}
	b := &recorder{name: "b", kinds: constKinds(syntax.IfStmt)}

	require.True(t, r.Register(a))
	require.True(t, r.Register(b))
	require.False(t, r.Register(a))
	require.False(t, r.Register(nil))
	require.False(t, r.Register(sliceConsumer{1}))
	require.Equal(t, 2, r.Len())
	require.True(t, r.IsActive(a))
	require.False(t, r.IsActive(&recorder{name: "unregistered"}))

	var names []string
	r.ForEachActive(func(c Consumer) { names = append(names, c.Name()) })
	require.Equal(t, []string{"a", "b"}, names)

	r.snapshot()[0].active.Store(false)
	names = nil
	r.ForEachActive(func(c Consumer) { names = append(names, c.Name()) })
	require.Equal(t, []string{"b"}, names)
	require.False(t, r.IsActive(a))
}

func TestAggregate(t *testing.T) {
	t.Parallel()

	required := operation.NewSet(operation.Conditional, operation.Return, operation.End)
	op := func(k operation.Kind) *operation.Operation {
		return &operation.Operation{Kind: k, Node: &ast.Ident{Name: k.String()}}
	}

	require.Nil(t, aggregate(required, nil, 0))
	require.Nil(t, aggregate(required, []*operation.Operation{op(operation.Loop)}, 0))

	ops := []*operation.Operation{
		op(operation.Conditional), op(operation.Loop), op(operation.Return), nil, op(operation.Conditional),
	}
	batches := aggregate(required, ops, 0)
	require.Len(t, batches, 1)
	require.Equal(t, required.Kinds(), batches[0].Kinds())
	require.Len(t, batches[0][operation.Conditional], 2)
	require.Len(t, batches[0][operation.Return], 1)
	require.Empty(t, batches[0][operation.End])
	require.NotContains(t, batches[0], operation.Loop)

	batches = aggregate(required, ops, 2)
	require.Len(t, batches, 2)
	for _, b := range batches {
		require.Equal(t, required.Kinds(), b.Kinds())
	}
	require.Equal(t, 2, batches[0].Count())
	require.Equal(t, 1, batches[1].Count())
}
