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

// Package command holds the cobra commands of the fedgate binary.
package command

import (
	"context"

	"github.com/spf13/cobra"

	"fedgate.io/fedgate/go/fed/federation/metadata"
	"fedgate.io/fedgate/go/fed/federation/plannercontext"
	"fedgate.io/fedgate/go/fed/federation/reltype"
	"fedgate.io/fedgate/go/fed/federation/schema"
	"fedgate.io/fedgate/go/fed/federation/sqlexec"
	"fedgate.io/fedgate/go/fed/federation/table"
	"fedgate.io/fedgate/go/fed/federrors"
	"fedgate.io/fedgate/go/fed/fedrpc"
	"fedgate.io/fedgate/go/fed/log"
	"fedgate.io/fedgate/go/fed/rule"
	"fedgate.io/fedgate/go/viperutil"
)

// rootOptions are the persistent flags shared by every subcommand.
type rootOptions struct {
	metadataPath string
	configPath   string

	builders *rule.BuilderRegistry
}

// Main returns the root command of fedgate.
func Main() *cobra.Command {
	opts := &rootOptions{builders: rule.StandardBuilders()}
	root := &cobra.Command{
		Use:   "fedgate",
		Short: "fedgate plans federated queries over logical databases.",
		Long: "`fedgate` loads a metadata snapshot describing logical databases, their physical sub-schemas and tables,\n" +
			"and builds one planner context per logical database.\n" +
			"Queries are validated, converted to relational plans and optimized with filters and projections pushed to the data sources.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := log.Init(cmd.Flags()); err != nil {
				return err
			}
			return viperutil.LoadConfig(opts.configPath)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			log.Flush()
		},
		RunE: func(cmd *cobra.Command, _ []string) error { return cmd.Help() },
	}

	fs := root.PersistentFlags()
	fs.StringVar(&opts.metadataPath, "metadata", "metadata.yaml", "Path to the metadata snapshot.")
	fs.StringVar(&opts.configPath, "config", "", "Optional configuration file (yaml, json or toml) overriding flag defaults.")
	root.MarkPersistentFlagFilename("metadata", "yaml", "yml")
	log.RegisterFlags(fs)
	plannercontext.RegisterFlags(fs)

	root.AddCommand(Describe(opts))
	root.AddCommand(Explain(opts))
	root.AddCommand(Serve(opts))
	return root
}

// load reads the snapshot and builds a registry over it. Databases that
// fail to build are reported in the returned error while the others are
// registered, so err may be set alongside a usable registry.
func (opts *rootOptions) load(ctx context.Context, provider schema.ExecutorProvider) (*metadata.FederationMetaData, *plannercontext.Registry, error) {
	md, err := metadata.Load(opts.metadataPath, opts.builders)
	if err != nil {
		return nil, nil, err
	}
	registry, err := newRegistry(provider)
	if err != nil {
		return nil, nil, err
	}
	return md, registry, registry.Refresh(ctx, md)
}

func newRegistry(provider schema.ExecutorProvider) (*plannercontext.Registry, error) {
	config, err := plannercontext.ConnectionConfigFromFlags()
	if err != nil {
		return nil, err
	}
	policy, err := plannercontext.NullabilityPolicy()
	if err != nil {
		return nil, err
	}
	adapter := schema.NewAdapter(reltype.NewResolver(policy), provider)
	builder := plannercontext.NewBuilder(config, adapter, plannercontext.BuilderOptions{
		MatchLimit:  plannercontext.HepMatchLimit(),
		Parallelism: plannercontext.BuildParallelism(),
	})
	return plannercontext.NewRegistry(builder), nil
}

// executors opens data sources through database/sql. Sub-schemas without
// a data source can be planned against but not scanned.
type executors struct {
	sql *sqlexec.Provider
}

func newExecutors() *executors {
	return &executors{sql: sqlexec.NewProvider()}
}

func (e *executors) Executor(database string, s *metadata.LogicalSchema) (table.ScanExecutor, error) {
	if s.DataSource == nil {
		return detached{database: database, schema: s.Name}, nil
	}
	return e.sql.Executor(database, s)
}

func (e *executors) Close() error {
	return e.sql.Close()
}

type detached struct {
	database, schema string
}

func (d detached) Execute(_ context.Context, t *metadata.LogicalTable, _ table.ScanRequest) (table.RowSequence, error) {
	return nil, &federrors.ExecutionError{
		Schema: d.schema,
		Table:  t.Name,
		Err:    federrors.Errorf(fedrpc.Code_FAILED_PRECONDITION, "sub-schema %s of database %s has no data source", d.schema, d.database),
	}
}
