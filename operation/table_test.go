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
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/opdispatch/syntax"
)

func TestTableIsExhaustive(t *testing.T) {
	t.Parallel()

	require.LessOrEqual(t, int(numKinds), 64)
	for _, k := range All() {
		_, ok := SyntaxFor(k)
		require.True(t, ok, "operation kind %s has no entry in the classification table", k)
		require.NotContains(t, k.String(), "Kind(", "operation kind %d has no name", k)
	}
	require.Len(t, _table, len(All()))

	_, ok := SyntaxFor(numKinds)
	require.False(t, ok)
}

func TestTableSyntaxUnreachableKinds(t *testing.T) {
	t.Parallel()

	for _, k := range []Kind{None, FlowCapture, End} {
		s, ok := SyntaxFor(k)
		require.True(t, ok)
		require.True(t, s.Empty(), "%s should not be reachable through syntax", k)
	}
}

func TestInverse(t *testing.T) {
	t.Parallel()

	for _, opKind := range All() {
		s, _ := SyntaxFor(opKind)
		for _, k := range s.Kinds() {
			require.True(t, KindsFor(k).Has(opKind), "inverse of %s misses %s", k, opKind)
		}
	}
	for _, k := range syntax.All() {
		for _, opKind := range KindsFor(k).Kinds() {
			s, _ := SyntaxFor(opKind)
			require.True(t, s.Has(k))
		}
	}

	require.Equal(t,
		NewSet(Invocation, DynamicInvocation, BuiltinInvocation, Conversion, ObjectCreation, Throw, Invalid),
		KindsFor(syntax.CallExpr),
	)
	require.True(t, KindsFor(syntax.Comment).Empty())
}

func TestRequired(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		kinds    syntax.Set
		expected Set
	}{
		{
			name:     "nothing requested still watches for the end sentinel",
			kinds:    syntax.NewSet(),
			expected: NewSet(End),
		},
		{
			name:     "syntax that produces no operation",
			kinds:    syntax.NewSet(syntax.Comment, syntax.ImportSpec),
			expected: NewSet(End),
		},
		{
			name:     "throw-like syntax",
			kinds:    syntax.NewSet(syntax.ExprStmt),
			expected: NewSet(ExpressionStatement, End),
		},
		{
			name:  "object creation and invocation",
			kinds: syntax.NewSet(syntax.CompositeLit, syntax.CallExpr),
			expected: NewSet(
				Invocation, DynamicInvocation, BuiltinInvocation, Conversion, ObjectCreation,
				Throw, Invalid, End,
			),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			require.Equal(t, tt.expected, Required(tt.kinds))
		})
	}
}

func TestRequiredIsUnionOfImages(t *testing.T) {
	t.Parallel()

	s1 := syntax.NewSet(syntax.IfStmt, syntax.SwitchStmt)
	s2 := syntax.NewSet(syntax.ValueSpec, syntax.AssignStmt)
	s3 := syntax.NewSet(syntax.ExprStmt)

	union := Required(s1).Union(Required(s2)).Union(Required(s3))
	require.Equal(t, union, Required(s1.Union(s2).Union(s3)))
	require.True(t, union.Has(End))
}

func TestSet(t *testing.T) {
	t.Parallel()

	s := NewSet(End, Invocation, End)
	require.Equal(t, 2, s.Len())
	require.Equal(t, []Kind{Invocation, End}, s.Kinds())
	require.Equal(t, "{Invocation, End}", s.String())
	require.False(t, s.Has(Throw))
	require.Equal(t, s, s.Add(numKinds))
	require.True(t, Set(0).Empty())
}
