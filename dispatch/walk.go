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
	"context"
	"go/ast"

	"go.uber.org/opdispatch/operation"
	"go.uber.org/opdispatch/syntax"
	"go.uber.org/opdispatch/util/analysishelper"
	"golang.org/x/sync/errgroup"
)

// match is a node of a requested syntax kind found by the walk.
type match struct {
	node      ast.Node
	enclosing *ast.FuncDecl
}

// runWalk processes every file of the unit in its own task.
func (s *Session) runWalk(ctx context.Context) {
	var g errgroup.Group
	for _, file := range s.unit.Files {
		path := s.unit.filePath(file)
		g.Go(func() error {
			s.processFile(ctx, path, file, func(ctx context.Context) ([]*operation.Operation, error) {
				return s.walkFile(ctx, file)
			})
			return nil
		})
	}
	_ = g.Wait()
}

// walkFile walks the file once, collecting every node of a required syntax kind, then resolves
// the collected nodes concurrently. The returned operations follow source order.
func (s *Session) walkFile(ctx context.Context, file *ast.File) ([]*operation.Operation, error) {
	var (
		matches []match
		stack   []ast.Node
	)
	ast.Inspect(file, func(n ast.Node) bool {
		if n == nil {
			stack = stack[:len(stack)-1]
			return true
		}
		stack = append(stack, n)
		if s.plan.syntax.Has(syntax.Of(n)) {
			matches = append(matches, match{node: n, enclosing: enclosingFunc(stack)})
		}
		return true
	})
	if len(matches) == 0 {
		return nil, nil
	}

	resolved := make([]*operation.Operation, len(matches))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.coord.opts.workers())
	for i, m := range matches {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			return analysishelper.Recover(func() {
				resolved[i] = s.resolve(m.node, m.enclosing)
			})
		})
	}
	if err := s.coord.join(ctx, g.Wait); err != nil {
		return nil, err
	}

	ops := resolved[:0]
	for _, op := range resolved {
		if op != nil {
			ops = append(ops, op)
		}
	}
	return ops, nil
}
