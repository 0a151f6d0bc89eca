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

// Package federation plans queries against the logical databases of a
// planner context registry. A query goes through validation, conversion to
// a logical plan, heuristic rewriting and cost-based implementation, and
// the resulting physical plans are cached.
package federation

import (
	"context"
	"errors"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/cespare/xxhash/v2"

	"fedgate.io/fedgate/go/cache"
	"fedgate.io/fedgate/go/fed/federation/converter"
	"fedgate.io/fedgate/go/fed/federation/planner/volcano"
	"fedgate.io/fedgate/go/fed/federation/plannercontext"
	"fedgate.io/fedgate/go/fed/federrors"
	"fedgate.io/fedgate/go/fed/log"
	"fedgate.io/fedgate/go/fed/sqlparser"
	"fedgate.io/fedgate/go/stats"
)

var (
	plans           = stats.NewCountersWithSingleLabel("FederationPlans", "Queries planned", "Database")
	planErrors      = stats.NewCountersWithSingleLabel("FederationPlanErrors", "Queries that failed to plan", "Kind")
	planCacheHits   = stats.NewCounter("FederationPlanCacheHits", "Plans served from the plan cache")
	planCacheMisses = stats.NewCounter("FederationPlanCacheMisses", "Plans not found in the plan cache")
	planTimings     = stats.NewTimings("FederationPlanTimings", "Time spent planning queries", "Database")
)

// Options tunes an Optimizer.
type Options struct {
	// CostModel weighs physical operators. The zero value selects
	// volcano.DefaultCostModel.
	CostModel volcano.CostModel
	// PlanCacheTTL is how long plans are cached. Zero disables caching.
	PlanCacheTTL time.Duration
}

// Optimizer plans queries against the contexts of a registry. It is safe
// for concurrent use.
type Optimizer struct {
	registry  *plannercontext.Registry
	converter *converter.SelectConverter
	cost      volcano.CostModel
	plans     cache.Cache[*Plan]

	// generation is the registry generation the cached plans belong to.
	generation atomic.Int64
}

// NewOptimizer returns an optimizer planning against registry.
func NewOptimizer(registry *plannercontext.Registry, opts Options) *Optimizer {
	if opts.CostModel == (volcano.CostModel{}) {
		opts.CostModel = volcano.DefaultCostModel
	}
	o := &Optimizer{
		registry:  registry,
		converter: converter.NewExpressionConverter().Select(),
		cost:      opts.CostModel,
		plans:     cache.NewDefaultCacheImpl[*Plan](opts.PlanCacheTTL, 2*opts.PlanCacheTTL),
	}
	o.generation.Store(registry.Generation())
	return o
}

// Plan returns the physical plan of stmt against the sub-schema schema of
// the logical database database.
func (o *Optimizer) Plan(ctx context.Context, database, schema string, stmt *sqlparser.Select) (*Plan, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()
	p, err := o.plan(database, schema, stmt)
	if err != nil {
		planErrors.Add(errorKind(err), 1)
		log.DebugS("planning failed", "database", database, "schema", schema, "error", err)
		return nil, err
	}
	plans.Add(database, 1)
	planTimings.Record(database, start)
	return p, nil
}

func (o *Optimizer) plan(database, schema string, stmt *sqlparser.Select) (*Plan, error) {
	generation := o.invalidate()
	pc, ok := o.registry.Get(database)
	if !ok {
		return nil, federrors.FED05002(database)
	}
	v, ok := pc.Validator(schema)
	if !ok {
		return nil, federrors.FED05003(schema, database)
	}
	conv, _ := pc.Converter(schema)
	heuristic, _ := pc.Planner(schema)

	text := sqlparser.String(stmt)
	key := planKey(generation, database, schema, text)
	if cached, ok := o.plans.Get(key); ok {
		planCacheHits.Add(1)
		return cached, nil
	}
	planCacheMisses.Add(1)

	relational, err := o.converter.ToRelational(stmt)
	if err != nil {
		return nil, err
	}
	validated, err := v.Validate(relational)
	if err != nil {
		return nil, err
	}
	logical, err := conv.Convert(validated)
	if err != nil {
		return nil, err
	}
	rewritten, err := heuristic.FindBestExp(logical)
	if err != nil {
		return nil, err
	}
	physical := volcano.New(o.cost)
	if err := physical.SetRoot(rewritten); err != nil {
		return nil, err
	}
	best, err := physical.FindBestExp()
	if err != nil {
		return nil, err
	}

	p := &Plan{
		Database:  database,
		Schema:    schema,
		SQL:       text,
		ContextID: pc.ID(),
		Logical:   rewritten,
		Physical:  best,
		Cost:      physical.Cost(),
	}
	o.plans.Set(key, p)
	return p, nil
}

// invalidate drops the cached plans once the registry has published a new
// generation, and returns the current generation.
func (o *Optimizer) invalidate() int64 {
	generation := o.registry.Generation()
	if previous := o.generation.Swap(generation); previous != generation {
		dropped := o.plans.Len()
		o.plans.Clear()
		log.DebugS("plan cache invalidated", "generation", generation, "dropped", dropped)
	}
	return generation
}

func planKey(generation int64, database, schema, sql string) string {
	d := xxhash.New()
	_, _ = d.WriteString(strconv.FormatInt(generation, 10))
	for _, part := range []string{database, schema, sql} {
		_, _ = d.WriteString("\x00")
		_, _ = d.WriteString(part)
	}
	return strconv.FormatUint(d.Sum64(), 16)
}

func errorKind(err error) string {
	var (
		validation *federrors.ValidationError
		illegal    *federrors.IllegalPlanStateError
		execution  *federrors.ExecutionError
		mapping    *federrors.TypeMappingError
	)
	switch {
	case errors.As(err, &validation):
		return "Validation"
	case errors.As(err, &illegal):
		return "IllegalPlanState"
	case errors.As(err, &execution):
		return "Execution"
	case errors.As(err, &mapping):
		return "TypeMapping"
	}
	return federrors.Code(err).String()
}
