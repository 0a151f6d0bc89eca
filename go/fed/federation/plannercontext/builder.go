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
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"fedgate.io/fedgate/go/fed/federation/metadata"
	"fedgate.io/fedgate/go/fed/federation/planner/hep"
	"fedgate.io/fedgate/go/fed/federation/schema"
	"fedgate.io/fedgate/go/fed/federation/sql2rel"
	"fedgate.io/fedgate/go/fed/federation/validator"
	"fedgate.io/fedgate/go/fed/federrors"
	"fedgate.io/fedgate/go/fed/log"
	"fedgate.io/fedgate/go/stats"
)

var (
	contextBuilds      = stats.NewCountersWithSingleLabel("FederationContextBuilds", "Planner contexts built", "Database")
	contextBuildErrors = stats.NewCountersWithSingleLabel("FederationContextBuildErrors", "Planner context builds that failed", "Database")
	contextBuildTimes  = stats.NewTimings("FederationContextBuildTimings", "Time spent building planner contexts", "Database")
)

// Builder builds planner contexts. It is safe for concurrent use.
type Builder struct {
	config      ConnectionConfig
	adapter     *schema.Adapter
	rules       hep.RuleSet
	matchLimit  int
	parallelism int
}

// BuilderOptions tunes a Builder. Zero values select the defaults.
type BuilderOptions struct {
	Rules       hep.RuleSet
	MatchLimit  int
	Parallelism int
}

// NewBuilder returns a builder binding tables through adapter.
func NewBuilder(config ConnectionConfig, adapter *schema.Adapter, opts BuilderOptions) *Builder {
	if len(opts.Rules.Rules()) == 0 {
		opts.Rules = hep.DefaultRuleSet
	}
	if opts.Parallelism <= 0 {
		opts.Parallelism = 1
	}
	return &Builder{
		config:      config,
		adapter:     adapter,
		rules:       opts.Rules,
		matchLimit:  opts.MatchLimit,
		parallelism: opts.Parallelism,
	}
}

// Config returns the connection configuration of the built contexts.
func (b *Builder) Config() ConnectionConfig { return b.config }

// Build builds the context of one database. Any sub-schema failure fails
// the whole database.
func (b *Builder) Build(ctx context.Context, db *metadata.LogicalDatabase) (*OptimizerPlannerContext, error) {
	start := time.Now()
	defer contextBuildTimes.Record(db.Name, start)
	contextBuilds.Add(db.Name, 1)

	pc, err := b.build(ctx, db)
	if err != nil {
		contextBuildErrors.Add(db.Name, 1)
		log.ErrorS("building planner context failed", "database", db.Name, "error", err)
		return nil, err
	}
	log.InfoS("planner context built", "database", db.Name, "schemas", len(pc.schemas), "duration", time.Since(start))
	return pc, nil
}

func (b *Builder) build(ctx context.Context, db *metadata.LogicalDatabase) (*OptimizerPlannerContext, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	fdb, err := b.adapter.BuildDatabase(db)
	if err != nil {
		return nil, federrors.Wrapf(err, "database %s", db.Name)
	}
	pc := &OptimizerPlannerContext{
		id:         uuid.NewString(),
		database:   db.Name,
		config:     b.config,
		schemas:    make(map[string]*schema.Schema),
		validators: make(map[string]*validator.Validator),
		converters: make(map[string]*sql2rel.Converter),
		planners:   make(map[string]*hep.Planner),
	}
	for _, s := range fdb.SubSchemas() {
		// Each validator sees exactly one sub-schema.
		pc.schemas[s.Name()] = s
		v := validator.New(s, b.config.validatorConfig())
		pc.validators[s.Name()] = v
		pc.converters[s.Name()] = sql2rel.New(v, sql2rel.Config{TrimUnusedFields: true})
		pc.planners[s.Name()] = hep.New(b.rules, b.matchLimit)
	}
	return pc, nil
}

// BuildAll builds every database of md concurrently. It returns the
// contexts that were built and an aggregate of the failures; one
// database failing does not affect the others.
func (b *Builder) BuildAll(ctx context.Context, md *metadata.FederationMetaData) (map[string]*OptimizerPlannerContext, error) {
	var (
		mu     sync.Mutex
		built  = make(map[string]*OptimizerPlannerContext, len(md.Databases))
		failed []error
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.parallelism)
	for _, name := range md.DatabaseNames() {
		db := md.Databases[name]
		g.Go(func() error {
			pc, err := b.Build(gctx, db)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failed = append(failed, err)
				return nil
			}
			built[name] = pc
			return nil
		})
	}
	_ = g.Wait()
	return built, federrors.Aggregate(failed)
}
