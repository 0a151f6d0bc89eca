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

// Package table exposes logical tables to the planner as scannable tables
// whose scans are carried out by an external ScanExecutor.
package table

//go:generate mockgen -destination tabletest/mock_table.go -package tabletest fedgate.io/fedgate/go/fed/federation/table ScanExecutor

import (
	"context"

	"fedgate.io/fedgate/go/fed/federation/metadata"
	"fedgate.io/fedgate/go/fed/federation/reltype"
	"fedgate.io/fedgate/go/fed/federation/rex"
	"fedgate.io/fedgate/go/fed/federrors"
	"fedgate.io/fedgate/go/sqltypes"
	"fedgate.io/fedgate/go/stats"
)

var tableScans = stats.NewCountersWithSingleLabel("FederationTableScans", "Scans started on federated tables", "Table")

// ScanRequest describes one scan. Filters are conjunctive predicates over
// the table's row type that the executor may push down; Projects lists
// the column indexes to return, nil meaning every column in table order.
type ScanRequest struct {
	Schema   string
	Filters  []rex.Node
	Projects []int
}

// Width returns the number of values of every row returned for the
// request on a table of the given column count.
func (r ScanRequest) Width(columns int) int {
	if r.Projects == nil {
		return columns
	}
	return len(r.Projects)
}

// RowSequence is a finite, lazily produced stream of rows. It is not
// restartable.
type RowSequence interface {
	// Next advances to the next row, returning false at the end or on
	// error.
	Next() bool
	// Row returns the current row.
	Row() sqltypes.Row
	// Err returns the error that stopped the sequence, if any.
	Err() error
	// Close releases the resources held by the sequence.
	Close() error
}

// ScanExecutor runs scans against the physical data source. It honors ctx
// for cancellation and performs no retries.
type ScanExecutor interface {
	Execute(ctx context.Context, table *metadata.LogicalTable, req ScanRequest) (RowSequence, error)
}

// Statistics are the planner's view of a table's size. RowCount is only
// meaningful when Known is set.
type Statistics struct {
	RowCount   float64
	Known      bool
	UniqueKeys [][]int
}

// StatisticsOf derives the statistics of a logical table from its
// metadata.
func StatisticsOf(t *metadata.LogicalTable) Statistics {
	var s Statistics
	if rc := t.Statistics.RowCount; rc != nil {
		s.RowCount, s.Known = *rc, true
	}
	if pk := t.PrimaryKey(); len(pk) > 0 {
		s.UniqueKeys = [][]int{pk}
	}
	return s
}

// IsUnique reports whether the columns contain a unique key.
func (s Statistics) IsUnique(columns []int) bool {
	set := make(map[int]bool, len(columns))
	for _, c := range columns {
		set[c] = true
	}
outer:
	for _, key := range s.UniqueKeys {
		for _, k := range key {
			if !set[k] {
				continue outer
			}
		}
		return true
	}
	return false
}

// ScannableTable is a logical table bound to the executor that scans it.
// It is immutable and safe for concurrent scans.
type ScannableTable struct {
	schema   string
	table    *metadata.LogicalTable
	rowType  *reltype.RowType
	executor ScanExecutor
	stats    Statistics
}

// NewScannableTable binds table to executor. The executor is required.
func NewScannableTable(schema string, table *metadata.LogicalTable, rowType *reltype.RowType, executor ScanExecutor, stats Statistics) (*ScannableTable, error) {
	if executor == nil {
		return nil, federrors.FED13001("table " + table.Name + " has no scan executor")
	}
	if rowType.FieldCount() != len(table.Columns) {
		return nil, federrors.FED13001("row type of table " + table.Name + " does not match its columns")
	}
	return &ScannableTable{
		schema:   schema,
		table:    table,
		rowType:  rowType,
		executor: executor,
		stats:    stats,
	}, nil
}

// Name returns the table name.
func (t *ScannableTable) Name() string { return t.table.Name }

// Schema returns the sub-schema the table belongs to.
func (t *ScannableTable) Schema() string { return t.schema }

// Table returns the logical table.
func (t *ScannableTable) Table() *metadata.LogicalTable { return t.table }

// RowType returns one field per column, in declared order.
func (t *ScannableTable) RowType() *reltype.RowType { return t.rowType }

// Statistics returns the statistics the table was built with.
func (t *ScannableTable) Statistics() Statistics { return t.stats }

// Scan delegates to the executor. Errors of the executor are returned
// unmodified. The returned sequence fails with an ExecutionError if the
// executor produces rows of the wrong width.
func (t *ScannableTable) Scan(ctx context.Context, req ScanRequest) (RowSequence, error) {
	for _, p := range req.Projects {
		if p < 0 || p >= len(t.table.Columns) {
			return nil, federrors.NewIllegalPlanState("projection of column %d on table %s with %d columns", p, t.table.Name, len(t.table.Columns))
		}
	}
	if req.Schema == "" {
		req.Schema = t.schema
	}
	tableScans.Add(t.schema+"."+t.table.Name, 1)
	seq, err := t.executor.Execute(ctx, t.table, req)
	if err != nil {
		return nil, err
	}
	return &checkedSequence{
		RowSequence: seq,
		width:       req.Width(len(t.table.Columns)),
		schema:      t.schema,
		table:       t.table.Name,
	}, nil
}

type checkedSequence struct {
	RowSequence
	width  int
	schema string
	table  string
	err    error
}

func (s *checkedSequence) Next() bool {
	if s.err != nil || !s.RowSequence.Next() {
		return false
	}
	if got := len(s.RowSequence.Row()); got != s.width {
		s.err = &federrors.ExecutionError{
			Schema: s.schema,
			Table:  s.table,
			Err:    federrors.NewIllegalPlanState("executor returned a row of %d values, expected %d", got, s.width),
		}
		return false
	}
	return true
}

func (s *checkedSequence) Err() error {
	if s.err != nil {
		return s.err
	}
	return s.RowSequence.Err()
}
