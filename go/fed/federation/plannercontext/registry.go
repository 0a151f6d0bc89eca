/*
Copyright 2026 The Fedgate Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package plannercontext

import (
	"context"
	"maps"
	"slices"
	"sync"
	"sync/atomic"

	"fedgate.io/fedgate/go/fed/federation/metadata"
	"fedgate.io/fedgate/go/fed/log"
	"fedgate.io/fedgate/go/stats"
)

var (
	registryGeneration  = stats.NewGauge("FederationRegistryGeneration", "Generation of the published planner contexts")
	publishedSubSchemas = stats.NewGaugesWithSingleLabel("FederationPublishedSubSchemas", "Sub-schemas of the published planner contexts", "Database")
)

// Registry publishes the planner context of every logical database.
// Readers never lock: every change publishes a new immutable snapshot.
type Registry struct {
	builder *Builder

	// refreshMu is held across a whole Refresh so that snapshots are
	// published in the order their refreshes started.
	refreshMu sync.Mutex
	// mu serializes writers.
	mu      sync.Mutex
	current atomic.Pointer[registrySnapshot]
}

type registrySnapshot struct {
	generation int64
	contexts   map[string]*OptimizerPlannerContext
}

// NewRegistry returns an empty registry that rebuilds with builder.
func NewRegistry(builder *Builder) *Registry {
	r := &Registry{builder: builder}
	r.current.Store(&registrySnapshot{contexts: map[string]*OptimizerPlannerContext{}})
	return r
}

// Get returns the context of database.
func (r *Registry) Get(database string) (*OptimizerPlannerContext, bool) {
	pc, ok := r.current.Load().contexts[database]
	return pc, ok
}

// Databases returns the names of the published databases in sorted
// order.
func (r *Registry) Databases() []string {
	return slices.Sorted(maps.Keys(r.current.Load().contexts))
}

// Generation increases every time the published contexts change.
func (r *Registry) Generation() int64 {
	return r.current.Load().generation
}

// Refresh rebuilds every database of md. Databases that build are
// replaced; databases that fail keep their previous context and are
// reported in the returned error. Databases missing from md are dropped.
// Concurrent refreshes run one after the other.
func (r *Registry) Refresh(ctx context.Context, md *metadata.FederationMetaData) error {
	r.refreshMu.Lock()
	defer r.refreshMu.Unlock()
	built, err := r.builder.BuildAll(ctx, md)

	r.mu.Lock()
	defer r.mu.Unlock()
	old := r.current.Load().contexts
	next := make(map[string]*OptimizerPlannerContext, len(md.Databases))
	for name := range md.Databases {
		if pc, ok := built[name]; ok {
			next[name] = pc
		} else if pc, ok := old[name]; ok {
			log.WarnS("keeping previous planner context", "database", name)
			next[name] = pc
		}
	}
	r.publish(next)
	return err
}

// Put publishes pc as the context of database.
func (r *Registry) Put(database string, pc *OptimizerPlannerContext) {
	r.update(func(contexts map[string]*OptimizerPlannerContext) {
		contexts[database] = pc
	})
}

// Remove drops the context of database.
func (r *Registry) Remove(database string) {
	r.update(func(contexts map[string]*OptimizerPlannerContext) {
		delete(contexts, database)
	})
}

// Clear drops every context.
func (r *Registry) Clear() {
	r.update(func(contexts map[string]*OptimizerPlannerContext) {
		clear(contexts)
	})
}

func (r *Registry) update(fn func(map[string]*OptimizerPlannerContext)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	next := maps.Clone(r.current.Load().contexts)
	fn(next)
	r.publish(next)
}

// publish must be called with mu held.
func (r *Registry) publish(contexts map[string]*OptimizerPlannerContext) {
	gen := r.current.Load().generation + 1
	r.current.Store(&registrySnapshot{generation: gen, contexts: contexts})
	registryGeneration.Set(gen)
	publishedSubSchemas.ResetAll()
	for name, pc := range contexts {
		publishedSubSchemas.Set(name, int64(len(pc.schemas)))
	}
	log.InfoS("planner contexts published", "generation", gen, "databases", len(contexts))
}
