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

package rel

import (
	"fmt"

	"fedgate.io/fedgate/go/fed/federation/reltype"
	"fedgate.io/fedgate/go/fed/federation/rex"
	"fedgate.io/fedgate/go/fed/federation/table"
)

// Physical is implemented by the nodes the execution engine runs.
type Physical interface {
	Node
	physical()
}

type (
	// TableScanExec scans a table, pushing Filters and Projects down to the
	// table's executor. The output row type is the projected row type.
	TableScanExec struct {
		Table    *table.ScannableTable
		Filters  []rex.Node
		Projects []int
	}

	// FilterExec evaluates Condition on every input row.
	FilterExec struct {
		Input     Node
		Condition rex.Node
	}

	// ProjectExec evaluates one expression per output field.
	ProjectExec struct {
		Input Node
		Exprs []rex.Node
		Names []string
	}

	// HashJoinExec joins on equality of LeftKeys and RightKeys, building a
	// hash table over the build side. Remaining holds the non equi part of
	// the condition.
	HashJoinExec struct {
		Left, Right Node
		Type        JoinType
		LeftKeys    []int
		RightKeys   []int
		Remaining   rex.Node
		BuildLeft   bool
	}

	// NestedLoopJoinExec evaluates Condition for every pair of rows.
	NestedLoopJoinExec struct {
		Left, Right Node
		Type        JoinType
		Condition   rex.Node
	}

	// HashAggregateExec groups rows in a hash table.
	HashAggregateExec struct {
		Input    Node
		GroupSet []int
		Calls    []AggregateCall
	}

	// SortExec orders its input.
	SortExec struct {
		Input     Node
		Collation []FieldCollation
	}

	// LimitExec skips Offset rows and returns at most Fetch rows.
	LimitExec struct {
		Input  Node
		Offset int64
		Fetch  int64
	}
)

func (*TableScanExec) physical()      {}
func (*FilterExec) physical()         {}
func (*ProjectExec) physical()        {}
func (*HashJoinExec) physical()       {}
func (*NestedLoopJoinExec) physical() {}
func (*HashAggregateExec) physical()  {}
func (*SortExec) physical()           {}
func (*LimitExec) physical()          {}

// IsPhysical reports whether every node of the tree is physical.
func IsPhysical(root Node) bool {
	physical := true
	Walk(root, func(n Node) bool {
		if _, ok := n.(Physical); !ok {
			physical = false
		}
		return physical
	})
	return physical
}

// Request returns the scan request carrying the pushed down filters and
// projection.
func (n *TableScanExec) Request() table.ScanRequest {
	return table.ScanRequest{Schema: n.Table.Schema(), Filters: n.Filters, Projects: n.Projects}
}

func (n *TableScanExec) RowType() *reltype.RowType {
	if n.Projects == nil {
		return n.Table.RowType()
	}
	return n.Table.RowType().Project(n.Projects)
}

func (n *FilterExec) RowType() *reltype.RowType { return n.Input.RowType() }
func (n *SortExec) RowType() *reltype.RowType   { return n.Input.RowType() }
func (n *LimitExec) RowType() *reltype.RowType  { return n.Input.RowType() }

func (n *ProjectExec) RowType() *reltype.RowType {
	return projectRowType(n.Exprs, n.Names)
}

func (n *HashJoinExec) RowType() *reltype.RowType {
	return joinRowType(n.Left.RowType(), n.Right.RowType(), n.Type)
}

func (n *NestedLoopJoinExec) RowType() *reltype.RowType {
	return joinRowType(n.Left.RowType(), n.Right.RowType(), n.Type)
}

func (n *HashAggregateExec) RowType() *reltype.RowType {
	return aggregateRowType(n.Input.RowType(), n.GroupSet, n.Calls)
}

func (n *TableScanExec) Inputs() []Node      { return nil }
func (n *FilterExec) Inputs() []Node         { return []Node{n.Input} }
func (n *ProjectExec) Inputs() []Node        { return []Node{n.Input} }
func (n *HashJoinExec) Inputs() []Node       { return []Node{n.Left, n.Right} }
func (n *NestedLoopJoinExec) Inputs() []Node { return []Node{n.Left, n.Right} }
func (n *HashAggregateExec) Inputs() []Node  { return []Node{n.Input} }
func (n *SortExec) Inputs() []Node           { return []Node{n.Input} }
func (n *LimitExec) Inputs() []Node          { return []Node{n.Input} }

func (n *TableScanExec) WithInputs(...Node) Node { return n }

func (n *FilterExec) WithInputs(inputs ...Node) Node {
	c := *n
	c.Input = inputs[0]
	return &c
}

func (n *ProjectExec) WithInputs(inputs ...Node) Node {
	c := *n
	c.Input = inputs[0]
	return &c
}

func (n *HashJoinExec) WithInputs(inputs ...Node) Node {
	c := *n
	c.Left, c.Right = inputs[0], inputs[1]
	return &c
}

func (n *NestedLoopJoinExec) WithInputs(inputs ...Node) Node {
	c := *n
	c.Left, c.Right = inputs[0], inputs[1]
	return &c
}

func (n *HashAggregateExec) WithInputs(inputs ...Node) Node {
	c := *n
	c.Input = inputs[0]
	return &c
}

func (n *SortExec) WithInputs(inputs ...Node) Node {
	c := *n
	c.Input = inputs[0]
	return &c
}

func (n *LimitExec) WithInputs(inputs ...Node) Node {
	c := *n
	c.Input = inputs[0]
	return &c
}

func (n *TableScanExec) ShortDescription() string {
	s := n.Table.Schema() + "." + n.Table.Name()
	if len(n.Filters) > 0 {
		s += fmt.Sprintf(" filters=%v", n.Filters)
	}
	if n.Projects != nil {
		s += fmt.Sprintf(" projects=%v", n.Projects)
	}
	return s
}

func (n *FilterExec) ShortDescription() string { return n.Condition.String() }

func (n *ProjectExec) ShortDescription() string { return describeExprs(n.Exprs, n.Names) }

func (n *HashJoinExec) ShortDescription() string {
	s := fmt.Sprintf("%s left=%v right=%v", n.Type, n.LeftKeys, n.RightKeys)
	if n.Remaining != nil {
		s += " remaining=" + n.Remaining.String()
	}
	if n.BuildLeft {
		return s + " build=left"
	}
	return s + " build=right"
}

func (n *NestedLoopJoinExec) ShortDescription() string { return describeJoin(n.Type, n.Condition) }

func (n *HashAggregateExec) ShortDescription() string {
	return describeAggregate(n.GroupSet, n.Calls)
}

func (n *SortExec) ShortDescription() string {
	return describeSort(n.Collation, NoLimit, NoLimit)
}

func (n *LimitExec) ShortDescription() string {
	return describeSort(nil, n.Offset, n.Fetch)
}
