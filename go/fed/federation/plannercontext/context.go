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

// Package plannercontext builds and publishes the per database planner
// contexts: one validator, converter and heuristic planner per physical
// sub-schema.
package plannercontext

import (
	"sort"

	"fedgate.io/fedgate/go/fed/federation/planner/hep"
	"fedgate.io/fedgate/go/fed/federation/schema"
	"fedgate.io/fedgate/go/fed/federation/sql2rel"
	"fedgate.io/fedgate/go/fed/federation/validator"
)

// OptimizerPlannerContext holds the planners of one logical database,
// keyed by sub-schema name. The key sets of all maps are the sub-schemas
// of the database at build time. It is immutable once built.
type OptimizerPlannerContext struct {
	id         string
	database   string
	config     ConnectionConfig
	schemas    map[string]*schema.Schema
	validators map[string]*validator.Validator
	converters map[string]*sql2rel.Converter
	planners   map[string]*hep.Planner
}

// ID identifies this build of the context.
func (c *OptimizerPlannerContext) ID() string { return c.id }

// Database returns the logical database name.
func (c *OptimizerPlannerContext) Database() string { return c.database }

// Config returns the connection configuration the context was built
// with.
func (c *OptimizerPlannerContext) Config() ConnectionConfig { return c.config }

// SubSchemas returns the sub-schema names in sorted order.
func (c *OptimizerPlannerContext) SubSchemas() []string {
	names := make([]string, 0, len(c.schemas))
	for name := range c.schemas {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Schema returns the sub-schema called name.
func (c *OptimizerPlannerContext) Schema(name string) (*schema.Schema, bool) {
	s, ok := c.schemas[name]
	return s, ok
}

// SchemaOf returns the first sub-schema, in sorted order, that has a
// table called table.
func (c *OptimizerPlannerContext) SchemaOf(table string) (string, bool) {
	for _, name := range c.SubSchemas() {
		if _, ok := c.schemas[name].Table(table); ok {
			return name, true
		}
	}
	return "", false
}

// Validator returns the validator of a sub-schema. It resolves tables of
// that sub-schema only.
func (c *OptimizerPlannerContext) Validator(schema string) (*validator.Validator, bool) {
	v, ok := c.validators[schema]
	return v, ok
}

// Converter returns the converter of a sub-schema, bound to the
// sub-schema's validator.
func (c *OptimizerPlannerContext) Converter(schema string) (*sql2rel.Converter, bool) {
	v, ok := c.converters[schema]
	return v, ok
}

// Planner returns the heuristic planner of a sub-schema.
func (c *OptimizerPlannerContext) Planner(schema string) (*hep.Planner, bool) {
	v, ok := c.planners[schema]
	return v, ok
}
