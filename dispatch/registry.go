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
	"reflect"
	"sync"
	"sync/atomic"

	"github.com/golang/glog"
	"go.uber.org/opdispatch/util/orderedmap"
)

// registration is the registry entry of one consumer.
type registration struct {
	consumer Consumer
	active   atomic.Bool
}

// Registry holds the registered consumers in registration order along with their active flags.
// A consumer is registered at most once; registering it again has no effect.
type Registry struct {
	mu      sync.RWMutex
	entries *orderedmap.OrderedMap[Consumer, *registration]
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: orderedmap.New[Consumer, *registration]()}
}

// Register adds the consumer as active and reports whether it was newly added. Nil consumers
// and consumers whose dynamic type is not comparable are rejected.
func (r *Registry) Register(c Consumer) bool {
	if c == nil {
		return false
	}
	if !reflect.TypeOf(c).Comparable() {
		glog.Warningf("rejecting consumer %q: %T is not comparable", c.Name(), c)
		return false
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	_, loaded := r.entries.LoadOrStore(c, func() *registration {
		reg := &registration{consumer: c}
		reg.active.Store(true)
		return reg
	})
	return !loaded
}

// Len returns the number of registered consumers.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.entries.Len()
}

// IsActive reports whether the consumer is registered and currently active.
func (r *Registry) IsActive(c Consumer) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	reg, ok := r.entries.Load(c)
	return ok && reg.active.Load()
}

// ForEachActive calls fn for every active consumer in registration order.
func (r *Registry) ForEachActive(fn func(Consumer)) {
	for _, reg := range r.snapshot() {
		if reg.active.Load() {
			fn(reg.consumer)
		}
	}
}

// snapshot returns the current entries so that callbacks run without holding the lock.
func (r *Registry) snapshot() []*registration {
	r.mu.RLock()
	defer r.mu.RUnlock()
	regs := make([]*registration, 0, r.entries.Len())
	r.entries.OrderedRange(func(_ Consumer, reg *registration) bool {
		regs = append(regs, reg)
		return true
	})
	return regs
}
