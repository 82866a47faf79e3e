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
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"go/types"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/opdispatch/operation"
	"go.uber.org/opdispatch/syntax"
	"golang.org/x/tools/go/cfg"
)

// recorder is a consumer that records every batch it receives.
type recorder struct {
	name   string
	kinds  func(unit *Unit) syntax.Set
	handle func(file *File, ops operation.Map, lastBatch bool) error

	mu    sync.Mutex
	calls []call
}

type call struct {
	path      string
	ops       operation.Map
	lastBatch bool
}

func (r *recorder) Name() string { return r.name }

func (r *recorder) SyntaxKinds(unit *Unit) syntax.Set { return r.kinds(unit) }

func (r *recorder) Handle(file *File, ops operation.Map, lastBatch bool) error {
	r.mu.Lock()
	r.calls = append(r.calls, call{path: file.Path, ops: ops, lastBatch: lastBatch})
	r.mu.Unlock()
	if r.handle != nil {
		return r.handle(file, ops, lastBatch)
	}
	return nil
}

func (r *recorder) Calls() []call {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]call(nil), r.calls...)
}

// countByPath sums the operations of the given kind received per file.
func (r *recorder) countByPath(kind operation.Kind) map[string]int {
	counts := make(map[string]int)
	for _, c := range r.Calls() {
		counts[c.path] += len(c.ops[kind])
	}
	return counts
}

func constKinds(kinds ...syntax.Kind) func(*Unit) syntax.Set {
	return func(*Unit) syntax.Set { return syntax.NewSet(kinds...) }
}

// newUnit type-checks the sources as one package. The files are named file0.go, file1.go, ...
func newUnit(t *testing.T, id string, srcs ...string) *Unit {
	t.Helper()

	names := make([]string, len(srcs))
	for i := range srcs {
		names[i] = fmt.Sprintf("file%d.go", i)
	}
	return newNamedUnit(t, id, names, srcs)
}

// newNamedUnit is like newUnit but names the files explicitly.
func newNamedUnit(t *testing.T, id string, names, srcs []string) *Unit {
	t.Helper()

	fset := token.NewFileSet()
	files := make([]*ast.File, len(srcs))
	for i, src := range srcs {
		f, err := parser.ParseFile(fset, names[i], src, parser.ParseComments)
		require.NoError(t, err)
		files[i] = f
	}
	info := &types.Info{
		Types:      make(map[ast.Expr]types.TypeAndValue),
		Defs:       make(map[*ast.Ident]types.Object),
		Uses:       make(map[*ast.Ident]types.Object),
		Selections: make(map[*ast.SelectorExpr]*types.Selection),
		Instances:  make(map[*ast.Ident]types.Instance),
	}
	conf := types.Config{}
	pkg, err := conf.Check("p", fset, files, info)
	require.NoError(t, err)
	return &Unit{ID: id, Fset: fset, Files: files, Pkg: pkg, Info: info}
}

// manyIfs returns a file with a function holding n if statements.
func manyIfs(name string, n int) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "package p\n\nfunc %s(x int) {\n", name)
	for i := 0; i < n; i++ {
		fmt.Fprintf(&sb, "\tif x == %d {\n\t}\n", i)
	}
	sb.WriteString("}\n")
	return sb.String()
}

const _mixedSrc = `package p

type T struct{ f int }

func (t *T) Get() int { return t.f }

var global = T{f: 1}

func work(n int, ch chan int) (total int) {
	for i := 0; i < n; i++ {
		if i%2 == 0 {
			total += i
			continue
		}
		switch {
		case i > 10:
			return
		default:
			total--
		}
	}
	fn := func() int { return global.Get() }
	go func() { ch <- fn() }()
	defer close(ch)
	v := <-ch
	_ = &v
	return total + len([]int{v})
}
`

// countingResolver counts the nodes it is asked to resolve.
type countingResolver struct {
	operation.Resolver
	resolved atomic.Int64
}

func (r *countingResolver) Resolve(node ast.Node) (operation.Kind, bool) {
	r.resolved.Add(1)
	return r.Resolver.Resolve(node)
}

// bodyCFGs builds control flow graphs on demand.
type bodyCFGs struct{}

func (bodyCFGs) FuncDecl(decl *ast.FuncDecl) *cfg.CFG {
	return cfg.New(decl.Body, func(*ast.CallExpr) bool { return true })
}

func (bodyCFGs) FuncLit(lit *ast.FuncLit) *cfg.CFG {
	return cfg.New(lit.Body, func(*ast.CallExpr) bool { return true })
}

// runUnit starts the unit and waits for its session to finish.
func runUnit(t *testing.T, c *Coordinator, unit *Unit) (*Session, Stats) {
	t.Helper()

	s := c.Start(context.Background(), unit)
	require.NotNil(t, s)
	stats, err := s.Wait(context.Background())
	require.NoError(t, err)
	return s, stats
}

func shutdown(t *testing.T, c *Coordinator) {
	t.Helper()
	require.NoError(t, c.Shutdown(context.Background()))
}
