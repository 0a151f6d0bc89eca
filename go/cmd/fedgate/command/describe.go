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
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"fedgate.io/fedgate/go/fed/federation/metadata"
	"fedgate.io/fedgate/go/fed/federation/plannercontext"
	"fedgate.io/fedgate/go/fed/federation/table"
)

// Describe returns the describe command.
func Describe(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "describe [database ...]",
		Short: "Prints the sub-schemas, tables, row types and statistics of the logical databases.",
		Example: "fedgate describe --metadata metadata.yaml\n" +
			"fedgate describe sharding_db",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDescribe(cmd, opts, args)
		},
	}
}

func runDescribe(cmd *cobra.Command, opts *rootOptions, databases []string) error {
	exec := newExecutors()
	defer exec.Close()

	md, registry, buildErr := opts.load(cmd.Context(), exec)
	if registry == nil {
		return buildErr
	}
	out := cmd.OutOrStdout()

	if fi, err := os.Stat(opts.metadataPath); err == nil {
		fmt.Fprintf(out, "snapshot %s: %s, %s\n", opts.metadataPath, humanize.Bytes(uint64(fi.Size())), plural(len(md.Databases), "database"))
	}
	for _, name := range registry.Databases() {
		if len(databases) > 0 && !slices.Contains(databases, name) {
			continue
		}
		pc, _ := registry.Get(name)
		db, _ := md.Database(name)
		if err := describeDatabase(out, pc, db); err != nil {
			return err
		}
	}
	return buildErr
}

func describeDatabase(out io.Writer, pc *plannercontext.OptimizerPlannerContext, db *metadata.LogicalDatabase) error {
	var kinds []string
	for _, r := range db.Rules {
		kinds = append(kinds, string(r.Kind()))
	}
	rules := "none"
	if len(kinds) > 0 {
		rules = strings.Join(kinds, ", ")
	}
	fmt.Fprintf(out, "\ndatabase %s (%s, rules: %s, %s)\n", pc.Database(), plural(len(pc.SubSchemas()), "sub-schema"), rules, pc.Config())

	tw := tablewriter.NewWriter(out)
	tw.Header("Schema", "Table", "Row Type", "Rows", "Unique Keys")
	for _, name := range pc.SubSchemas() {
		s, _ := pc.Schema(name)
		for _, tableName := range s.TableNames() {
			t, _ := s.Table(tableName)
			if err := tw.Append([]string{name, tableName, t.RowType().String(), rowCount(t.Statistics()), uniqueKeys(t)}); err != nil {
				return err
			}
		}
	}
	return tw.Render()
}

func rowCount(stats table.Statistics) string {
	if !stats.Known {
		return "unknown"
	}
	return humanize.Comma(int64(stats.RowCount))
}

func uniqueKeys(t *table.ScannableTable) string {
	names := t.RowType().FieldNames()
	var keys []string
	for _, key := range t.Statistics().UniqueKeys {
		cols := make([]string, len(key))
		for i, c := range key {
			cols[i] = names[c]
		}
		keys = append(keys, "("+strings.Join(cols, ", ")+")")
	}
	return strings.Join(keys, " ")
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return humanize.Comma(int64(n)) + " " + noun + "s"
}
