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
	"runtime"
	"runtime/debug"
	"strings"
	"sync"

	"github.com/golang/glog"
	"github.com/google/uuid"
	"go.uber.org/opdispatch/operation"
	"go.uber.org/opdispatch/syntax"
	"golang.org/x/tools/go/analysis"
)

// Strategy selects how the operations of a file are collected.
type Strategy int

const (
	// Walk walks every file once and resolves each matching node in its own task.
	Walk Strategy = iota
	// Stream lets an inspector traversal of the whole unit drive one callback per matching node,
	// staging the resolved operations in a queue per file until the file is complete.
	Stream
)

func (s Strategy) String() string {
	switch s {
	case Walk:
		return "walk"
	case Stream:
		return "stream"
	}
	return fmt.Sprintf("Strategy(%d)", int(s))
}

// ParseStrategy parses the name of a strategy as printed by Strategy.String.
func ParseStrategy(name string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "walk", "":
		return Walk, nil
	case "stream":
		return Stream, nil
	}
	return Walk, fmt.Errorf("unknown strategy %q, want %q or %q", name, Walk, Stream)
}

// Options configures a Coordinator.
type Options struct {
	// Strategy selects how operations are collected.
	Strategy Strategy
	// Reactivate re-polls consumers deactivated in a previous compilation unit. By default a
	// consumer that once reported no interest stays inactive for the lifetime of the Coordinator.
	Reactivate bool
	// BatchSize caps the number of operations handed to a consumer in one call. Zero or negative
	// means the whole file is delivered in a single batch.
	BatchSize int
	// Workers caps the number of nodes resolved concurrently per file. Zero or negative means
	// runtime.GOMAXPROCS(0).
	Workers int
}

func (o Options) workers() int {
	if o.Workers > 0 {
		return o.Workers
	}
	return runtime.GOMAXPROCS(0)
}

// plan is the immutable snapshot computed when a compilation unit starts.
type plan struct {
	runID      string
	syntax     syntax.Set
	operations operation.Set
	consumers  []Consumer
}

// Coordinator tracks the current compilation unit, computes the syntax and operation kinds
// required by the registered consumers and schedules the per-file pipeline. It is safe for
// concurrent use.
type Coordinator struct {
	opts     Options
	registry *Registry

	// mu guards the fields below and is held for the whole compilation start transition.
	mu         sync.Mutex
	tracking   bool
	tracked    string
	runID      string
	syntax     syntax.Set
	operations operation.Set
	closed     bool

	// sessions counts running sessions, inflight counts joins abandoned after a timeout.
	sessions sync.WaitGroup
	inflight sync.WaitGroup
}

// New returns a coordinator with an empty registry.
func New(opts Options) *Coordinator {
	return &Coordinator{opts: opts, registry: NewRegistry()}
}

// Register registers the consumers. Registering an already registered consumer is a no-op.
func (c *Coordinator) Register(consumers ...Consumer) {
	for _, consumer := range consumers {
		if c.registry.Register(consumer) {
			glog.V(1).Infof("registered consumer %q", consumer.Name())
		}
	}
}

// Registry returns the registry of the coordinator.
func (c *Coordinator) Registry() *Registry { return c.registry }

// IsActive reports whether the consumer is registered and active.
func (c *Coordinator) IsActive(consumer Consumer) bool { return c.registry.IsActive(consumer) }

// Tracked returns the ID of the compilation unit currently tracked and whether there is one.
func (c *Coordinator) Tracked() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tracked, c.tracking
}

// RequiredSyntax returns the syntax kinds required by the current compilation unit.
func (c *Coordinator) RequiredSyntax() syntax.Set {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.syntax
}

// RequiredOperations returns the operation kinds required by the current compilation unit.
func (c *Coordinator) RequiredOperations() operation.Set {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.operations
}

// Start handles the start of a compilation unit. Under the coordinator lock it resets the
// required kinds, polls every registered consumer for its syntax kinds (deactivating those that
// report none), derives the required operation kinds and, if any operation is required,
// schedules the per-file pipeline in the background and returns its session.
//
// Start returns nil when nothing is scheduled: the unit is nil, it is the unit already tracked,
// the coordinator is shut down, no operation or consumer is required, or the transition failed.
// A failed transition is logged and disables the unit; it is not retried.
func (c *Coordinator) Start(ctx context.Context, unit *Unit) (session *Session) {
	if unit == nil {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		glog.Warningf("ignoring compilation unit %q: coordinator is shut down", unit.ID)
		return nil
	}
	if c.tracking && c.tracked == unit.ID {
		glog.V(1).Infof("compilation unit %q is already tracked", unit.ID)
		return nil
	}

	defer func() {
		if r := recover(); r != nil {
			glog.Warningf("exception while initializing operation retrieval for %q: %v\n%s", unit.ID, r, debug.Stack())
			session = nil
		}
	}()

	c.tracking, c.tracked = true, unit.ID
	c.runID = uuid.NewString()
	c.syntax, c.operations = 0, 0

	for _, reg := range c.registry.snapshot() {
		if c.opts.Reactivate {
			reg.active.Store(true)
		}
		kinds := reg.consumer.SyntaxKinds(unit)
		if kinds.Empty() {
			if reg.active.Swap(false) {
				glog.V(1).Infof("[%s] consumer %q has no interest in %q, deactivating", c.runID, reg.consumer.Name(), unit.ID)
			}
			continue
		}
		c.syntax = c.syntax.Union(kinds)
	}
	c.operations = operation.Required(c.syntax)

	// End is always part of the required operations, so it alone means nothing is required.
	if c.operations.Empty() || c.operations == operation.NewSet(operation.End) {
		glog.V(1).Infof("[%s] no operations required for %q", c.runID, unit.ID)
		return nil
	}

	p := plan{runID: c.runID, syntax: c.syntax, operations: c.operations}
	c.registry.ForEachActive(func(consumer Consumer) {
		p.consumers = append(p.consumers, consumer)
	})
	if len(p.consumers) == 0 {
		glog.V(1).Infof("[%s] no active consumers for %q", c.runID, unit.ID)
		return nil
	}

	u := *unit
	if u.Resolver == nil {
		u.Resolver = operation.NewTypesResolver(u.Info)
	}
	glog.V(1).Infof("[%s] starting %s retrieval for %q: %d files, syntax %s, operations %s",
		p.runID, c.opts.Strategy, u.ID, len(u.Files), p.syntax, p.operations)

	session = newSession(c, &u, p)
	c.sessions.Add(1)
	go func() {
		defer c.sessions.Done()
		session.run(ctx)
	}()
	return session
}

// Run starts the unit and waits for its session, returning the diagnostics reported by the
// consumers. It returns nothing when Start scheduled nothing.
func (c *Coordinator) Run(ctx context.Context, unit *Unit) ([]analysis.Diagnostic, Stats, error) {
	s := c.Start(ctx, unit)
	if s == nil {
		return nil, Stats{}, nil
	}
	stats, err := s.Wait(ctx)
	return s.Diagnostics(), stats, err
}

// Shutdown makes later calls to Start no-ops and waits for all outstanding work to finish or
// for ctx to be done, whichever happens first.
func (c *Coordinator) Shutdown(ctx context.Context) error {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()

	done := make(chan struct{})
	go func() {
		c.sessions.Wait()
		c.inflight.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		glog.Warningf("shutdown gave up waiting for outstanding operation retrieval: %v", ctx.Err())
		return ctx.Err()
	}
}

// join waits for wait to return or for ctx to be done. In the latter case wait keeps running in
// the background and is accounted for by Shutdown.
func (c *Coordinator) join(ctx context.Context, wait func() error) error {
	done := make(chan error, 1)
	c.inflight.Add(1)
	go func() {
		defer c.inflight.Done()
		done <- wait()
	}()
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
