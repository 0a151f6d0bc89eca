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

package federation

import (
	"context"

	"fedgate.io/fedgate/go/fed/federation/rel"
	"fedgate.io/fedgate/go/fed/federation/reltype"
	"fedgate.io/fedgate/go/fed/federation/table"
)

// Plan is the result of planning one query. Plans are immutable and may be
// shared between callers.
type Plan struct {
	Database string
	Schema   string
	// SQL is the canonical text of the planned statement.
	SQL string
	// ContextID identifies the planner context the plan was built with.
	ContextID string
	// Logical is the logical plan after heuristic rewriting.
	Logical rel.Node
	// Physical is the cheapest physical implementation of Logical.
	Physical rel.Node
	Cost     float64
}

// RowType returns the row type the plan produces.
func (p *Plan) RowType() *reltype.RowType {
	return p.Physical.RowType()
}

// Explain renders the physical plan as a tree.
func (p *Plan) Explain() string {
	return rel.ToTree(p.Physical)
}

// Scans returns the table scans of the plan, in breadth first order.
func (p *Plan) Scans() []*ScanNode {
	var scans []*ScanNode
	for _, exec := range rel.Collect[*rel.TableScanExec](p.Physical) {
		scans = append(scans, &ScanNode{exec: exec})
	}
	return scans
}

// ScanNode is a table scan with the filters and projection pushed down to
// the data source. The execution engine opens it and drives the rest of
// the plan over its rows.
type ScanNode struct {
	exec *rel.TableScanExec
}

// Table returns the scanned table.
func (s *ScanNode) Table() *table.ScannableTable { return s.exec.Table }

// Request returns the request the scan sends to the table's executor.
func (s *ScanNode) Request() table.ScanRequest { return s.exec.Request() }

// RowType returns the row type of the rows the scan produces.
func (s *ScanNode) RowType() *reltype.RowType { return s.exec.RowType() }

// Open starts the scan.
func (s *ScanNode) Open(ctx context.Context) (table.RowSequence, error) {
	return s.exec.Table.Scan(ctx, s.exec.Request())
}
