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
	"sort"
	"sync"

	"go.uber.org/opdispatch/operation"
	"go.uber.org/opdispatch/syntax"
	"go.uber.org/opdispatch/util/analysishelper"
	"golang.org/x/sync/errgroup"
	"golang.org/x/tools/go/ast/inspector"
)

// fileQueue stages the operations resolved for one file until all of its callbacks are done.
type fileQueue struct {
	pending sync.WaitGroup

	mu     sync.Mutex
	staged []staged
	err    error
}

// staged is a resolved operation along with the traversal order of its node.
type staged struct {
	order int
	op    *operation.Operation
}

func (q *fileQueue) push(order int, op *operation.Operation) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.staged = append(q.staged, staged{order: order, op: op})
}

func (q *fileQueue) fail(err error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.err == nil {
		q.err = err
	}
}

func (q *fileQueue) wait() error {
	q.pending.Wait()
	return nil
}

// drain empties the queue and returns the staged operations in traversal order. It must only be
// called once wait has returned.
func (q *fileQueue) drain() ([]*operation.Operation, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.err != nil {
		err := q.err
		q.staged, q.err = nil, nil
		return nil, err
	}
	sort.Slice(q.staged, func(i, j int) bool { return q.staged[i].order < q.staged[j].order })
	ops := make([]*operation.Operation, len(q.staged))
	for i, st := range q.staged {
		ops[i] = st.op
	}
	q.staged = nil
	return ops, nil
}

// fileQueues holds one queue per file. Queues are keyed by the file itself since distinct files
// of a unit may share a name.
type fileQueues struct {
	queues sync.Map
}

func (qs *fileQueues) get(file *ast.File) *fileQueue {
	q, _ := qs.queues.LoadOrStore(file, &fileQueue{})
	return q.(*fileQueue)
}

func (qs *fileQueues) lookup(file *ast.File) (*fileQueue, bool) {
	q, ok := qs.queues.Load(file)
	if !ok {
		return nil, false
	}
	return q.(*fileQueue), true
}

// runStream traverses the unit with an inspector, resolving each matching node in its own
// goroutine as the traversal reaches it. Once a file's callbacks are all done, its staged
// operations are processed like those of a walked file.
func (s *Session) runStream(ctx context.Context) {
	in := s.unit.Inspector
	if in == nil {
		in = inspector.New(s.unit.Files)
	}

	var queues fileQueues
	for _, file := range s.unit.Files {
		queues.get(file)
	}

	sem := make(chan struct{}, s.coord.opts.workers())
	seq := 0
	in.WithStack(syntax.Prototypes(s.plan.syntax), func(n ast.Node, push bool, stack []ast.Node) bool {
		if !push {
			return true
		}
		if ctx.Err() != nil {
			// The files are abandoned anyway.
			return false
		}
		file, _ := stack[0].(*ast.File)
		q, ok := queues.lookup(file)
		if !ok {
			// The file is not part of the unit.
			return true
		}

		enclosing := enclosingFunc(stack)
		order := seq
		seq++
		q.pending.Add(1)
		sem <- struct{}{}
		go func() {
			defer func() {
				<-sem
				q.pending.Done()
			}()
			if err := analysishelper.Recover(func() {
				if op := s.resolve(n, enclosing); op != nil {
					q.push(order, op)
				}
			}); err != nil {
				q.fail(err)
			}
		}()
		return true
	})

	var g errgroup.Group
	for _, file := range s.unit.Files {
		path := s.unit.filePath(file)
		queue := queues.get(file)
		g.Go(func() error {
			s.processFile(ctx, path, file, func(ctx context.Context) ([]*operation.Operation, error) {
				if err := s.coord.join(ctx, queue.wait); err != nil {
					return nil, err
				}
				return queue.drain()
			})
			return nil
		})
	}
	_ = g.Wait()
}
