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

// Package rule holds the database rule configurations carried by the
// metadata snapshot and the builders turning them into rules.
//
// Builders are looked up through a BuilderRegistry: an immutable table from
// configuration kind to builder, declared once at process start and passed
// to whoever needs it.
package rule

import (
	"errors"
	"fmt"
	"sort"
)

// ErrBuilderNotRegistered is returned when a configuration has no builder
// in the registry.
var ErrBuilderNotRegistered = errors.New("no rule builder registered for kind")

// Kind names a family of rule configurations.
type Kind string

// Rule kinds.
const (
	KindSharding    Kind = "sharding"
	KindEncrypt     Kind = "encrypt"
	KindDBDiscovery Kind = "db_discovery"
)

// Configuration is a rule configuration of one kind.
type Configuration interface {
	Kind() Kind
}

// DatabaseRule is a rule built for one logical database.
type DatabaseRule interface {
	Kind() Kind
	// Configuration returns the configuration the rule was built from.
	Configuration() Configuration
	// Tables returns the logical tables the rule applies to.
	Tables() []string
}

// Builder builds the rule of one kind. Rules are built in ascending Order;
// built holds the rules already built for the same database.
type Builder interface {
	Kind() Kind
	Order() int
	Build(database string, config Configuration, built []DatabaseRule) (DatabaseRule, error)
}

// BuilderRegistry maps configuration kinds to builders. It is immutable
// once created and safe for concurrent use.
type BuilderRegistry struct {
	builders map[Kind]Builder
}

// NewBuilderRegistry returns a registry of the given builders. Registering
// two builders for the same kind is an error.
func NewBuilderRegistry(builders ...Builder) (*BuilderRegistry, error) {
	r := &BuilderRegistry{builders: make(map[Kind]Builder, len(builders))}
	for _, b := range builders {
		if _, ok := r.builders[b.Kind()]; ok {
			return nil, fmt.Errorf("rule builder already registered for %s", b.Kind())
		}
		r.builders[b.Kind()] = b
	}
	return r, nil
}

// StandardBuilders returns the registry of the builders shipped with
// fedgate.
func StandardBuilders() *BuilderRegistry {
	r, err := NewBuilderRegistry(shardingBuilder{}, encryptBuilder{}, discoveryBuilder{})
	if err != nil {
		panic(err)
	}
	return r
}

// Lookup returns the builder for kind.
func (r *BuilderRegistry) Lookup(kind Kind) (Builder, bool) {
	b, ok := r.builders[kind]
	return b, ok
}

// Kinds returns the registered kinds in builder order.
func (r *BuilderRegistry) Kinds() []Kind {
	kinds := make([]Kind, 0, len(r.builders))
	for k := range r.builders {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool {
		return r.builders[kinds[i]].Order() < r.builders[kinds[j]].Order()
	})
	return kinds
}

// Build builds the rules of database from configs, in builder order.
func (r *BuilderRegistry) Build(database string, configs []Configuration) ([]DatabaseRule, error) {
	type pending struct {
		builder Builder
		config  Configuration
	}
	work := make([]pending, 0, len(configs))
	for _, cfg := range configs {
		b, ok := r.builders[cfg.Kind()]
		if !ok {
			return nil, fmt.Errorf("%w %s", ErrBuilderNotRegistered, cfg.Kind())
		}
		work = append(work, pending{builder: b, config: cfg})
	}
	sort.SliceStable(work, func(i, j int) bool {
		return work[i].builder.Order() < work[j].builder.Order()
	})

	rules := make([]DatabaseRule, 0, len(work))
	for _, w := range work {
		rule, err := w.builder.Build(database, w.config, rules)
		if err != nil {
			return nil, fmt.Errorf("building %s rule of database %s: %w", w.config.Kind(), database, err)
		}
		rules = append(rules, rule)
	}
	return rules, nil
}

// AlgorithmConfiguration names an algorithm implementation and its
// properties.
type AlgorithmConfiguration struct {
	Type  string            `json:"type"`
	Props map[string]string `json:"props,omitempty"`
}
