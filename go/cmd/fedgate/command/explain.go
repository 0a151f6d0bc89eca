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

package command

import (
	"context"
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"fedgate.io/fedgate/go/fed/federation"
	"fedgate.io/fedgate/go/fed/federation/plannercontext"
	"fedgate.io/fedgate/go/fed/federation/table"
	"fedgate.io/fedgate/go/fed/federrors"
	"fedgate.io/fedgate/go/fed/fedrpc"
	"fedgate.io/fedgate/go/fed/log"
)

type explainOptions struct {
	database string
	schema   string
	table    string
	column   string
	values   []string
	not      bool
	execute  bool
}

// Explain returns the explain command.
func Explain(opts *rootOptions) *cobra.Command {
	eopts := &explainOptions{}
	cmd := &cobra.Command{
		Use:   "explain",
		Short: "Plans a scan of one table, optionally filtered by an IN list, and prints the physical plan.",
		Example: "fedgate explain --database sharding_db --table t_order\n" +
			"fedgate explain --database sharding_db --table t_order --column user_id --values 1,2 --execute",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runExplain(cmd, opts, eopts)
		},
	}
	cmd.Flags().StringVar(&eopts.database, "database", "", "Logical database to plan against. May be omitted when the snapshot has a single database.")
	cmd.Flags().StringVar(&eopts.schema, "schema", "", "Sub-schema to plan against. Defaults to the first sub-schema holding the table.")
	cmd.Flags().StringVar(&eopts.table, "table", "", "Table to select from (required).")
	cmd.Flags().StringVar(&eopts.column, "column", "", "Column filtered by the IN list.")
	cmd.Flags().StringSliceVar(&eopts.values, "values", nil, "Values of the IN list. Integers are planned as numbers, anything else as strings.")
	cmd.Flags().BoolVar(&eopts.not, "not", false, "Plan NOT IN instead of IN.")
	cmd.Flags().BoolVar(&eopts.execute, "execute", false, "Open the pushdown scans of the plan and print the rows they return.")
	cmd.MarkFlagRequired("table")
	cmd.MarkFlagsRequiredTogether("column", "values")
	return cmd
}

func runExplain(cmd *cobra.Command, opts *rootOptions, eopts *explainOptions) error {
	ctx := cmd.Context()
	exec := newExecutors()
	defer exec.Close()

	_, registry, buildErr := opts.load(ctx, exec)
	if registry == nil {
		return buildErr
	}
	if buildErr != nil {
		log.Warningf("planning with the databases that built: %v", buildErr)
	}
	database, err := eopts.resolveDatabase(registry)
	if err != nil {
		return err
	}
	pc, _ := registry.Get(database)
	schema, err := eopts.resolveSchema(pc)
	if err != nil {
		return err
	}

	optimizer := federation.NewOptimizer(registry, federation.Options{})
	plan, err := optimizer.Plan(ctx, database, schema, federation.ScanStatement(eopts.table, eopts.column, eopts.values, eopts.not))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s.%s: %s\n", plan.Database, plan.Schema, plan.SQL)
	fmt.Fprint(out, plan.Explain())
	fmt.Fprintf(out, "cost: %.2f\n", plan.Cost)
	if !eopts.execute {
		return nil
	}
	for _, scan := range plan.Scans() {
		if err := printScan(ctx, out, scan); err != nil {
			return err
		}
	}
	return nil
}

func (eopts *explainOptions) resolveDatabase(registry *plannercontext.Registry) (string, error) {
	if eopts.database != "" {
		if _, ok := registry.Get(eopts.database); !ok {
			return "", federrors.FED05002(eopts.database)
		}
		return eopts.database, nil
	}
	databases := registry.Databases()
	if len(databases) != 1 {
		return "", federrors.Errorf(fedrpc.Code_INVALID_ARGUMENT, "--database is required when the snapshot has %d planned databases", len(databases))
	}
	return databases[0], nil
}

func (eopts *explainOptions) resolveSchema(pc *plannercontext.OptimizerPlannerContext) (string, error) {
	if eopts.schema != "" {
		return eopts.schema, nil
	}
	if name, ok := pc.SchemaOf(eopts.table); ok {
		return name, nil
	}
	return "", federrors.Errorf(fedrpc.Code_NOT_FOUND, "no sub-schema of database %s has table %s", pc.Database(), eopts.table)
}

func printScan(ctx context.Context, out io.Writer, scan *federation.ScanNode) error {
	seq, err := scan.Open(ctx)
	if err != nil {
		return err
	}
	rows, err := table.Drain(seq)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "\n%s.%s: %s\n", scan.Table().Schema(), scan.Table().Name(), plural(len(rows), "row"))

	tw := tablewriter.NewWriter(out)
	header := make([]any, 0, scan.RowType().FieldCount())
	for _, name := range scan.RowType().FieldNames() {
		header = append(header, name)
	}
	tw.Header(header...)
	for _, row := range rows {
		cells := make([]string, len(row))
		for i, v := range row {
			if v.IsNull() {
				cells[i] = "NULL"
			} else {
				cells[i] = v.ToString()
			}
		}
		if err := tw.Append(cells); err != nil {
			return err
		}
	}
	return tw.Render()
}
