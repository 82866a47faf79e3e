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
	"runtime/debug"
	"sort"
	"sync"

	"github.com/golang/glog"
	"go.uber.org/opdispatch/operation"
	"go.uber.org/opdispatch/syntax"
	"golang.org/x/sync/errgroup"
	"golang.org/x/tools/go/analysis"
)

// Stats summarizes the work done by a session.
type Stats struct {
	// Files is the number of files processed.
	Files int
	// DispatchedFiles is the number of files whose operations were handed to consumers.
	DispatchedFiles int
	// FailedFiles is the number of files abandoned because of a failure or timeout.
	FailedFiles int
	// ConsumerFailures is the number of consumer calls that panicked or returned an error.
	ConsumerFailures int
	// Operations counts the dispatched operations per kind.
	Operations map[operation.Kind]int
}

// Session is the background processing of one compilation unit.
type Session struct {
	// RunID identifies the session in logs.
	RunID string

	coord *Coordinator
	unit  *Unit
	plan  plan
	sink  sink
	done  chan struct{}

	mu    sync.Mutex
	stats Stats
}

func newSession(c *Coordinator, unit *Unit, p plan) *Session {
	return &Session{
		RunID: p.runID,
		coord: c,
		unit:  unit,
		plan:  p,
		done:  make(chan struct{}),
		stats: Stats{Operations: make(map[operation.Kind]int)},
	}
}

// Wait waits for the session to finish or for ctx to be done and returns the stats gathered so
// far.
func (s *Session) Wait(ctx context.Context) (Stats, error) {
	select {
	case <-s.done:
		return s.Stats(), nil
	case <-ctx.Done():
		return s.Stats(), ctx.Err()
	}
}

// Stats returns a copy of the current stats.
func (s *Session) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	stats := s.stats
	stats.Operations = make(map[operation.Kind]int, len(s.stats.Operations))
	for k, n := range s.stats.Operations {
		stats.Operations[k] = n
	}
	return stats
}

// Diagnostics returns the diagnostics reported by consumers so far, sorted by position.
func (s *Session) Diagnostics() []analysis.Diagnostic {
	s.sink.mu.Lock()
	diagnostics := append([]analysis.Diagnostic(nil), s.sink.diagnostics...)
	s.sink.mu.Unlock()
	sort.SliceStable(diagnostics, func(i, j int) bool {
		if diagnostics[i].Pos != diagnostics[j].Pos {
			return diagnostics[i].Pos < diagnostics[j].Pos
		}
		return diagnostics[i].Category < diagnostics[j].Category
	})
	return diagnostics
}

// Consumers returns the consumers the session dispatches to.
func (s *Session) Consumers() []Consumer {
	return append([]Consumer(nil), s.plan.consumers...)
}

func (s *Session) run(ctx context.Context) {
	defer close(s.done)
	switch s.coord.opts.Strategy {
	case Stream:
		s.runStream(ctx)
	default:
		s.runWalk(ctx)
	}
	stats := s.Stats()
	glog.V(1).Infof("[%s] finished %q: %d/%d files dispatched, %d failed, %d consumer failures",
		s.RunID, s.unit.ID, stats.DispatchedFiles, stats.Files, stats.FailedFiles, stats.ConsumerFailures)
}

// collectFunc collects the operations of one file.
type collectFunc func(ctx context.Context) ([]*operation.Operation, error)

// processFile collects the operations of one file, groups them and dispatches them. Failures are
// confined to the file.
func (s *Session) processFile(ctx context.Context, path string, file *ast.File, collect collectFunc) {
	defer func() {
		if r := recover(); r != nil {
			glog.Warningf("[%s] exception while processing operations for %s: %v\n%s", s.RunID, path, r, debug.Stack())
			s.update(func(stats *Stats) { stats.FailedFiles++ })
		}
	}()
	s.update(func(stats *Stats) { stats.Files++ })

	ops, err := collect(ctx)
	if err != nil {
		glog.Warningf("[%s] failed to collect operations for %s: %v", s.RunID, path, err)
		s.update(func(stats *Stats) { stats.FailedFiles++ })
		return
	}

	batches := aggregate(s.plan.operations, ops, s.coord.opts.BatchSize)
	if len(batches) == 0 {
		return
	}

	f := &File{Path: path, AST: file, Unit: s.unit, sink: &s.sink}
	for i, batch := range batches {
		if err := s.fanOut(ctx, f, batch, i == len(batches)-1); err != nil {
			glog.Warningf("[%s] dispatch of %s abandoned: %v", s.RunID, path, err)
			s.update(func(stats *Stats) { stats.FailedFiles++ })
			return
		}
		s.update(func(stats *Stats) {
			for k, ops := range batch {
				stats.Operations[k] += len(ops)
			}
		})
	}
	s.update(func(stats *Stats) { stats.DispatchedFiles++ })
}

// fanOut hands the batch to every consumer of the session concurrently and joins them. A
// consumer that panics or fails does not affect the others.
func (s *Session) fanOut(ctx context.Context, f *File, batch operation.Map, lastBatch bool) error {
	var g errgroup.Group
	for _, consumer := range s.plan.consumers {
		g.Go(func() error {
			s.handle(consumer, f, batch, lastBatch)
			return nil
		})
	}
	return s.coord.join(ctx, g.Wait)
}

func (s *Session) handle(consumer Consumer, f *File, batch operation.Map, lastBatch bool) {
	defer func() {
		if r := recover(); r != nil {
			glog.Warningf("[%s] consumer %q panicked on %s: %v\n%s", s.RunID, consumer.Name(), f.Path, r, debug.Stack())
			s.update(func(stats *Stats) { stats.ConsumerFailures++ })
		}
	}()
	if err := consumer.Handle(f, batch, lastBatch); err != nil {
		glog.Warningf("[%s] consumer %q failed on %s: %v", s.RunID, consumer.Name(), f.Path, err)
		s.update(func(stats *Stats) { stats.ConsumerFailures++ })
	}
}

// resolve resolves a matching node to its operation, or returns nil if the node has none.
// enclosing is the nearest function declaration containing the node, possibly the node itself.
func (s *Session) resolve(node ast.Node, enclosing *ast.FuncDecl) *operation.Operation {
	kind, ok := s.unit.Resolver.Resolve(node)
	if !ok {
		return nil
	}
	op := &operation.Operation{Kind: kind, Node: node, Syntax: syntax.Of(node)}
	if enclosing != nil {
		op.Symbol = s.unit.Resolver.Symbol(enclosing)
	}
	if s.unit.CFGs != nil {
		switch n := node.(type) {
		case *ast.FuncDecl:
			if kind == operation.MethodBody {
				op.CFG = s.unit.CFGs.FuncDecl(n)
			}
		case *ast.FuncLit:
			op.CFG = s.unit.CFGs.FuncLit(n)
		}
	}
	return op
}

func (s *Session) update(fn func(stats *Stats)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.stats)
}

// enclosingFunc returns the innermost function declaration of the stack, whose last element is
// the node being visited.
func enclosingFunc(stack []ast.Node) *ast.FuncDecl {
	for i := len(stack) - 1; i >= 0; i-- {
		if decl, ok := stack[i].(*ast.FuncDecl); ok {
			return decl
		}
	}
	return nil
}
