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

// Package rel defines relational plan nodes. Logical nodes are produced by
// the SQL-to-relational converter and rewritten by the heuristic planner;
// physical nodes are chosen by the cost-based planner and handed to the
// execution engine.
package rel

import (
	"fmt"
	"strings"

	"fedgate.io/fedgate/go/fed/federation/reltype"
	"fedgate.io/fedgate/go/fed/federation/rex"
	"fedgate.io/fedgate/go/fed/federation/sqlnode"
	"fedgate.io/fedgate/go/fed/federation/table"
)

// Node is a relational operator. Nodes are immutable; rewrites build new
// nodes with WithInputs.
type Node interface {
	RowType() *reltype.RowType
	Inputs() []Node
	// WithInputs returns a copy of the node reading from the given inputs.
	WithInputs(inputs ...Node) Node
	// ShortDescription describes the node without its inputs.
	ShortDescription() string
}

// NoLimit is the value of Sort.Offset and Sort.Fetch when the clause is
// absent.
const NoLimit int64 = -1

type (
	// TableScan reads every row of a table.
	TableScan struct {
		Table *table.ScannableTable
	}

	// Project computes one expression per output field.
	Project struct {
		Input Node
		Exprs []rex.Node
		Names []string
	}

	// Filter keeps the rows for which Condition is true.
	Filter struct {
		Input     Node
		Condition rex.Node
	}

	// Join combines the rows of two inputs. The condition refers to the
	// concatenation of both row types.
	Join struct {
		Left, Right Node
		Type        JoinType
		Condition   rex.Node
	}

	// Aggregate groups its input on GroupSet and computes Calls per group.
	Aggregate struct {
		Input    Node
		GroupSet []int
		Calls    []AggregateCall
	}

	// Sort orders its input and optionally skips and limits rows.
	Sort struct {
		Input     Node
		Collation []FieldCollation
		Offset    int64
		Fetch     int64
	}

	// AggregateCall is one aggregate function over input fields.
	AggregateCall struct {
		Op       *sqlnode.Operator
		Args     []int
		Distinct bool
		Type     reltype.RelType
		Name     string
	}

	// FieldCollation orders on one field.
	FieldCollation struct {
		Index      int
		Descending bool
		NullsFirst bool
	}

	// JoinType is the kind of a Join.
	JoinType int8
)

// Join types. Semi and anti joins return the left row type only.
const (
	InnerJoin JoinType = iota
	LeftJoin
	RightJoin
	FullJoin
	SemiJoin
	AntiJoin
)

func (t JoinType) String() string {
	switch t {
	case InnerJoin:
		return "inner"
	case LeftJoin:
		return "left"
	case RightJoin:
		return "right"
	case FullJoin:
		return "full"
	case SemiJoin:
		return "semi"
	case AntiJoin:
		return "anti"
	}
	return fmt.Sprintf("JoinType(%d)", t)
}

// ProjectsRight reports whether the fields of the right input are part of
// the join output.
func (t JoinType) ProjectsRight() bool {
	return t != SemiJoin && t != AntiJoin
}

// NewProject returns a projection of exprs. Missing names are generated
// from the expression position.
func NewProject(input Node, exprs []rex.Node, names []string) *Project {
	out := make([]string, len(exprs))
	for i := range exprs {
		if i < len(names) && names[i] != "" {
			out[i] = names[i]
			continue
		}
		if ref, ok := exprs[i].(*rex.InputRef); ok {
			out[i] = input.RowType().Fields[ref.Index].Name
			continue
		}
		out[i] = fmt.Sprintf("EXPR$%d", i)
	}
	return &Project{Input: input, Exprs: exprs, Names: out}
}

// NewIdentityProject projects the given fields of input unchanged.
func NewIdentityProject(input Node, fields []int) *Project {
	exprs := make([]rex.Node, len(fields))
	for i, f := range fields {
		exprs[i] = rex.NewInputRef(input.RowType(), f)
	}
	return NewProject(input, exprs, nil)
}

func (n *TableScan) RowType() *reltype.RowType { return n.Table.RowType() }
func (n *Filter) RowType() *reltype.RowType    { return n.Input.RowType() }
func (n *Sort) RowType() *reltype.RowType      { return n.Input.RowType() }

func (n *Project) RowType() *reltype.RowType {
	return projectRowType(n.Exprs, n.Names)
}

func (n *Join) RowType() *reltype.RowType {
	return joinRowType(n.Left.RowType(), n.Right.RowType(), n.Type)
}

func (n *Aggregate) RowType() *reltype.RowType {
	return aggregateRowType(n.Input.RowType(), n.GroupSet, n.Calls)
}

func projectRowType(exprs []rex.Node, names []string) *reltype.RowType {
	fields := make([]reltype.Field, len(exprs))
	for i, e := range exprs {
		fields[i] = reltype.Field{Name: names[i], Type: e.Type()}
	}
	return reltype.NewRowType(fields...)
}

func joinRowType(left, right *reltype.RowType, typ JoinType) *reltype.RowType {
	switch typ {
	case SemiJoin, AntiJoin:
		return left
	case LeftJoin:
		right = right.Nullable()
	case RightJoin:
		left = left.Nullable()
	case FullJoin:
		left, right = left.Nullable(), right.Nullable()
	}
	return left.Join(right)
}

func aggregateRowType(input *reltype.RowType, groupSet []int, calls []AggregateCall) *reltype.RowType {
	fields := make([]reltype.Field, 0, len(groupSet)+len(calls))
	for _, g := range groupSet {
		fields = append(fields, input.Fields[g])
	}
	for _, c := range calls {
		fields = append(fields, reltype.Field{Name: c.Name, Type: c.Type})
	}
	return reltype.NewRowType(fields...)
}

func (n *TableScan) Inputs() []Node { return nil }
func (n *Project) Inputs() []Node   { return []Node{n.Input} }
func (n *Filter) Inputs() []Node    { return []Node{n.Input} }
func (n *Join) Inputs() []Node      { return []Node{n.Left, n.Right} }
func (n *Aggregate) Inputs() []Node { return []Node{n.Input} }
func (n *Sort) Inputs() []Node      { return []Node{n.Input} }

func (n *TableScan) WithInputs(...Node) Node { return n }

func (n *Project) WithInputs(inputs ...Node) Node {
	c := *n
	c.Input = inputs[0]
	return &c
}

func (n *Filter) WithInputs(inputs ...Node) Node {
	c := *n
	c.Input = inputs[0]
	return &c
}

func (n *Join) WithInputs(inputs ...Node) Node {
	c := *n
	c.Left, c.Right = inputs[0], inputs[1]
	return &c
}

func (n *Aggregate) WithInputs(inputs ...Node) Node {
	c := *n
	c.Input = inputs[0]
	return &c
}

func (n *Sort) WithInputs(inputs ...Node) Node {
	c := *n
	c.Input = inputs[0]
	return &c
}

func (n *TableScan) ShortDescription() string {
	return n.Table.Schema() + "." + n.Table.Name()
}

func (n *Project) ShortDescription() string {
	return describeExprs(n.Exprs, n.Names)
}

func (n *Filter) ShortDescription() string {
	return n.Condition.String()
}

func (n *Join) ShortDescription() string {
	return describeJoin(n.Type, n.Condition)
}

func (n *Aggregate) ShortDescription() string {
	return describeAggregate(n.GroupSet, n.Calls)
}

func (n *Sort) ShortDescription() string {
	return describeSort(n.Collation, n.Offset, n.Fetch)
}

func describeExprs(exprs []rex.Node, names []string) string {
	parts := make([]string, len(exprs))
	for i, e := range exprs {
		parts[i] = names[i] + "=" + e.String()
	}
	return strings.Join(parts, ", ")
}

func describeJoin(typ JoinType, cond rex.Node) string {
	if cond == nil {
		return typ.String()
	}
	return typ.String() + " " + cond.String()
}

func describeAggregate(groupSet []int, calls []AggregateCall) string {
	var b strings.Builder
	fmt.Fprintf(&b, "group=%v", groupSet)
	for _, c := range calls {
		b.WriteString(", ")
		b.WriteString(c.Name)
		b.WriteByte('=')
		b.WriteString(c.String())
	}
	return b.String()
}

func describeSort(collation []FieldCollation, offset, fetch int64) string {
	parts := make([]string, 0, len(collation)+2)
	for _, fc := range collation {
		parts = append(parts, fc.String())
	}
	if offset != NoLimit {
		parts = append(parts, fmt.Sprintf("offset=%d", offset))
	}
	if fetch != NoLimit {
		parts = append(parts, fmt.Sprintf("fetch=%d", fetch))
	}
	return strings.Join(parts, ", ")
}

func (c AggregateCall) String() string {
	var b strings.Builder
	b.WriteString(c.Op.Name)
	b.WriteByte('(')
	if c.Distinct {
		b.WriteString("DISTINCT ")
	}
	for i, a := range c.Args {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "$%d", a)
	}
	b.WriteByte(')')
	return b.String()
}

func (fc FieldCollation) String() string {
	dir := "ASC"
	if fc.Descending {
		dir = "DESC"
	}
	nulls := "LAST"
	if fc.NullsFirst {
		nulls = "FIRST"
	}
	return fmt.Sprintf("$%d %s NULLS %s", fc.Index, dir, nulls)
}
