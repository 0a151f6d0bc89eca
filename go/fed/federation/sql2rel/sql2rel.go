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

// Package sql2rel converts validated query blocks into logical plans.
package sql2rel

import (
	"strconv"
	"strings"

	"fedgate.io/fedgate/go/fed/federation/rel"
	"fedgate.io/fedgate/go/fed/federation/reltype"
	"fedgate.io/fedgate/go/fed/federation/rex"
	"fedgate.io/fedgate/go/fed/federation/sqlnode"
	"fedgate.io/fedgate/go/fed/federation/validator"
	"fedgate.io/fedgate/go/fed/federrors"
	"fedgate.io/fedgate/go/sqltypes"
)

// Config configures a Converter.
type Config struct {
	// TrimUnusedFields wraps every table scan in a projection of the
	// columns the query references.
	TrimUnusedFields bool
}

// Converter builds logical plans of the statements validated by one
// validator, and so over that validator's catalog only. It keeps no state
// between calls.
type Converter struct {
	validator *validator.Validator
	config    Config
}

// New returns a converter bound to v.
func New(v *validator.Validator, config Config) *Converter {
	return &Converter{validator: v, config: config}
}

// Config returns the configuration of the converter.
func (c *Converter) Config() Config { return c.config }

// Validator returns the validator the converter is bound to.
func (c *Converter) Validator() *validator.Validator { return c.validator }

// Catalog returns the catalog the converter plans against.
func (c *Converter) Catalog() validator.Catalog {
	if c.validator == nil {
		return nil
	}
	return c.validator.Catalog()
}

// Convert returns the logical plan of a validated query block. The row
// type of the plan has one field per select item, named after it. A
// block validated by another validator than the converter's is rejected.
func (c *Converter) Convert(v *validator.Validated) (rel.Node, error) {
	if v == nil {
		return nil, federrors.NewIllegalPlanState("no validated statement to convert")
	}
	if v.Validator() != c.validator {
		return nil, federrors.NewIllegalPlanState("statement was validated against %s, not %s", catalogName(v.Validator()), catalogName(c.validator))
	}
	b := &blackboard{c: c, v: v}
	return b.convert()
}

func catalogName(v *validator.Validator) string {
	if v == nil || v.Catalog() == nil {
		return "no catalog"
	}
	return v.Catalog().Name()
}

// blackboard holds the state of converting one query block.
type blackboard struct {
	c    *Converter
	v    *validator.Validated
	root rel.Node
	// fields maps FROM row fields to fields of the converted FROM row.
	fields map[int]int
	// base is the position of root's first field in the converted FROM
	// row while a join condition is converted.
	base int
}

func (b *blackboard) convert() (rel.Node, error) {
	v := b.v
	used := b.usedFields()
	root, err := b.from(v.From, used)
	if err != nil {
		return nil, err
	}
	b.root = root

	if err := b.where(); err != nil {
		return nil, err
	}

	items := make([]rex.Node, len(v.Items))
	names := make([]string, len(v.Items))
	var hidden []rex.Node
	var hiddenNames []string
	collation := make([]rel.FieldCollation, len(v.OrderBy))

	convert := b.rex
	if v.Aggregate {
		agg, err := b.aggregate()
		if err != nil {
			return nil, err
		}
		convert = agg.rex
		if v.Having != nil {
			cond, err := agg.rex(v.Having)
			if err != nil {
				return nil, err
			}
			b.root = &rel.Filter{Input: b.root, Condition: cond}
		}
	}
	for i, item := range v.Items {
		if items[i], err = convert(item.Expr); err != nil {
			return nil, err
		}
		names[i] = item.Name
	}
	for i, oi := range v.OrderBy {
		index := oi.Ordinal
		if index < 0 {
			e, err := convert(oi.Expr)
			if err != nil {
				return nil, err
			}
			index = len(items) + len(hidden)
			hidden = append(hidden, e)
			hiddenNames = append(hiddenNames, "EXPR$"+strconv.Itoa(index))
		}
		collation[i] = rel.FieldCollation{Index: index, Descending: oi.Descending, NullsFirst: oi.NullsFirst}
	}

	exprs := append(items, hidden...)
	allNames := append(append([]string(nil), names...), hiddenNames...)
	out := b.root
	if len(hidden) > 0 || !rex.IsIdentity(exprs, out.RowType().FieldCount()) || !sameNames(out.RowType(), names) {
		out = rel.NewProject(b.root, exprs, allNames)
	}
	if v.Distinct {
		out = &rel.Aggregate{Input: out, GroupSet: identity(len(exprs))}
	}
	if len(collation) > 0 || v.Offset >= 0 || v.Fetch >= 0 {
		out = &rel.Sort{Input: out, Collation: collation, Offset: limit(v.Offset), Fetch: limit(v.Fetch)}
	}
	if len(hidden) > 0 {
		out = rel.NewProject(out, refs(out.RowType(), len(items)), names)
	}
	return out, nil
}

func limit(n int64) int64 {
	if n < 0 {
		return rel.NoLimit
	}
	return n
}

func identity(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

func refs(rt *reltype.RowType, n int) []rex.Node {
	out := make([]rex.Node, n)
	for i := range out {
		out[i] = rex.NewInputRef(rt, i)
	}
	return out
}

func sameNames(rt *reltype.RowType, names []string) bool {
	for i, f := range rt.Fields {
		if f.Name != names[i] {
			return false
		}
	}
	return true
}

// usedFields returns the FROM row fields the block references, or nil
// when scans are not trimmed.
func (b *blackboard) usedFields() map[int]bool {
	if !b.c.config.TrimUnusedFields {
		return nil
	}
	used := map[int]bool{}
	var visit func(n sqlnode.Node)
	visit = func(n sqlnode.Node) {
		switch n := n.(type) {
		case *sqlnode.Identifier:
			if i, ok := b.v.FieldOf(n); ok {
				used[i] = true
			}
		case *sqlnode.BasicCall:
			for _, op := range n.Operands {
				visit(op)
			}
		case *sqlnode.NodeList:
			for _, e := range n.Nodes {
				visit(e)
			}
		}
	}
	var joins func(item validator.FromItem)
	joins = func(item validator.FromItem) {
		if j, ok := item.(*validator.JoinItem); ok {
			visit(j.Condition)
			joins(j.Left)
			joins(j.Right)
		}
	}
	joins(b.v.From)
	visit(b.v.Where)
	visit(b.v.Having)
	for _, item := range b.v.Items {
		visit(item.Expr)
	}
	for _, e := range b.v.GroupBy {
		visit(e)
	}
	for _, oi := range b.v.OrderBy {
		visit(oi.Expr)
	}
	return used
}

func (b *blackboard) from(item validator.FromItem, used map[int]bool) (rel.Node, error) {
	b.fields = map[int]int{}
	node, _, err := b.fromItem(item, used, 0)
	return node, err
}

// fromItem converts item, whose first field lands at start of the
// converted FROM row, and returns the node and its width.
func (b *blackboard) fromItem(item validator.FromItem, used map[int]bool, start int) (rel.Node, int, error) {
	switch item := item.(type) {
	case *validator.Namespace:
		return b.scan(item, used, start)
	case *validator.JoinItem:
		left, lw, err := b.fromItem(item.Left, used, start)
		if err != nil {
			return nil, 0, err
		}
		right, rw, err := b.fromItem(item.Right, used, start+lw)
		if err != nil {
			return nil, 0, err
		}
		join := &rel.Join{Left: left, Right: right, Type: joinType(item.Type)}
		if item.Condition != nil {
			b.root, b.base = join, start
			cond, err := b.rex(item.Condition)
			b.base = 0
			if err != nil {
				return nil, 0, err
			}
			join.Condition = cond
		}
		return join, lw + rw, nil
	}
	return nil, 0, federrors.NewIllegalPlanState("unexpected FROM item %T", item)
}

func (b *blackboard) scan(ns *validator.Namespace, used map[int]bool, start int) (rel.Node, int, error) {
	scan := &rel.TableScan{Table: ns.Table}
	width := ns.Width()
	if used == nil {
		for i := 0; i < width; i++ {
			b.fields[ns.Offset+i] = start + i
		}
		return scan, width, nil
	}
	var keep []int
	for i := 0; i < width; i++ {
		if used[ns.Offset+i] {
			keep = append(keep, i)
		}
	}
	if len(keep) == 0 {
		keep = []int{0}
	}
	for i, col := range keep {
		b.fields[ns.Offset+col] = start + i
	}
	if len(keep) == width {
		return scan, width, nil
	}
	return rel.NewIdentityProject(scan, keep), len(keep), nil
}

func joinType(t sqlnode.JoinType) rel.JoinType {
	switch t {
	case sqlnode.LeftJoin:
		return rel.LeftJoin
	case sqlnode.RightJoin:
		return rel.RightJoin
	case sqlnode.FullJoin:
		return rel.FullJoin
	}
	return rel.InnerJoin
}

// where filters root on the WHERE clause. IN subqueries among its
// conjuncts become semi joins, NOT IN subqueries anti joins.
func (b *blackboard) where() error {
	var filters []rex.Node
	for _, term := range conjunctions(b.v.Where) {
		negated, in, sub := subqueryTerm(term)
		if sub == nil {
			cond, err := b.rex(term)
			if err != nil {
				return err
			}
			filters = append(filters, cond)
			continue
		}
		if err := b.semiJoin(in, sub, negated); err != nil {
			return err
		}
	}
	if cond := rex.And(filters...); cond != nil {
		b.root = &rel.Filter{Input: b.root, Condition: cond}
	}
	return nil
}

func conjunctions(n sqlnode.Node) []sqlnode.Node {
	if n == nil {
		return nil
	}
	if c, ok := n.(*sqlnode.BasicCall); ok && c.Kind() == sqlnode.KindAnd {
		var out []sqlnode.Node
		for _, op := range c.Operands {
			out = append(out, conjunctions(op)...)
		}
		return out
	}
	return []sqlnode.Node{n}
}

func subqueryTerm(n sqlnode.Node) (negated bool, in *sqlnode.BasicCall, sub *sqlnode.Select) {
	c, ok := n.(*sqlnode.BasicCall)
	if !ok {
		return false, nil, nil
	}
	if c.Kind() == sqlnode.KindNot {
		if inner, ok := c.Operands[0].(*sqlnode.BasicCall); ok {
			c, negated = inner, true
		}
	}
	if c.Kind() != sqlnode.KindIn {
		return false, nil, nil
	}
	sel, ok := c.Operands[1].(*sqlnode.Select)
	if !ok {
		return false, nil, nil
	}
	return negated, c, sel
}

func (b *blackboard) semiJoin(in *sqlnode.BasicCall, sel *sqlnode.Select, negated bool) error {
	sub, ok := b.v.Subquery(sel)
	if !ok {
		return federrors.NewIllegalPlanState("subquery %s was not validated", sel.String())
	}
	right, err := (&blackboard{c: b.c, v: sub}).convert()
	if err != nil {
		return err
	}
	left, err := b.rex(in.Operands[0])
	if err != nil {
		return err
	}
	width := b.root.RowType().FieldCount()
	key := &rex.InputRef{Index: width, T: right.RowType().Fields[0].Type}
	cond := rex.NewCall(sqlnode.Equals, reltype.RelType{Type: sqltypes.Boolean, Nullable: left.Type().Nullable || key.T.Nullable}, left, key)
	typ := rel.SemiJoin
	if negated {
		typ = rel.AntiJoin
	}
	b.root = &rel.Join{Left: b.root, Right: right, Type: typ, Condition: cond}
	return nil
}

// rex converts an expression over the FROM row into one over root.
func (b *blackboard) rex(n sqlnode.Node) (rex.Node, error) {
	switch n := n.(type) {
	case *sqlnode.Identifier:
		i, ok := b.v.FieldOf(n)
		if !ok {
			return nil, federrors.NewIllegalPlanState("identifier %s was not resolved", n.String())
		}
		field, ok := b.fields[i]
		if !ok {
			return nil, federrors.NewIllegalPlanState("field %d of identifier %s is not in the input", i, n.String())
		}
		return rex.NewInputRef(b.root.RowType(), field-b.base), nil
	case *sqlnode.BasicCall:
		return b.call(n, b.rex)
	}
	return b.leaf(n)
}

// leaf converts literals and parameters.
func (b *blackboard) leaf(n sqlnode.Node) (rex.Node, error) {
	t, ok := b.v.TypeOf(n)
	if !ok {
		return nil, federrors.NewIllegalPlanState("expression %s has no type", n.String())
	}
	switch n := n.(type) {
	case *sqlnode.Literal:
		value, err := literalValue(n)
		if err != nil {
			return nil, err
		}
		return &rex.Literal{Value: value, T: t}, nil
	case *sqlnode.DynamicParam:
		return &rex.DynamicParam{Index: n.Index, T: t}, nil
	case *sqlnode.Select:
		return nil, federrors.FED12001("subquery in expression " + n.String())
	}
	return nil, federrors.NewIllegalPlanState("unexpected %s node in expression", n.Kind())
}

func literalValue(lit *sqlnode.Literal) (sqltypes.Value, error) {
	switch lit.Type {
	case sqlnode.NullLiteral:
		return sqltypes.NULL, nil
	case sqlnode.BooleanLiteral:
		return sqltypes.NewBoolean(strings.EqualFold(lit.Value, "true")), nil
	case sqlnode.ExactLiteral:
		if i, err := strconv.ParseInt(lit.Value, 10, 64); err == nil {
			return sqltypes.NewInt64(i), nil
		}
		return sqltypes.NewDecimal(lit.Value), nil
	case sqlnode.ApproxLiteral:
		f, err := strconv.ParseFloat(lit.Value, 64)
		if err != nil {
			return sqltypes.NULL, federrors.Wrapf(err, "invalid literal %s", lit.Value)
		}
		return sqltypes.NewFloat64(f), nil
	case sqlnode.DecimalLiteral:
		return sqltypes.NewDecimal(lit.Value), nil
	}
	return sqltypes.NewVarChar(lit.Value), nil
}

var booleanType = reltype.RelType{Type: sqltypes.Boolean, Nullable: true}

// call converts a call, converting its operands with convert.
func (b *blackboard) call(c *sqlnode.BasicCall, convert func(sqlnode.Node) (rex.Node, error)) (rex.Node, error) {
	t, ok := b.v.TypeOf(c)
	if !ok {
		return nil, federrors.NewIllegalPlanState("expression %s has no type", c.String())
	}
	var operands []sqlnode.Node
	switch c.Kind() {
	case sqlnode.KindIn:
		list, ok := c.Operands[1].(*sqlnode.NodeList)
		if !ok {
			return nil, federrors.FED12001("IN subquery outside of a WHERE conjunction")
		}
		operands = append([]sqlnode.Node{c.Operands[0]}, list.Nodes...)
	default:
		operands = c.Operands
	}
	ops := make([]rex.Node, len(operands))
	for i, op := range operands {
		r, err := convert(op)
		if err != nil {
			return nil, err
		}
		ops[i] = r
	}

	switch c.Kind() {
	case sqlnode.KindAnd:
		return rex.And(ops...), nil
	case sqlnode.KindOr:
		return rex.Or(ops...), nil
	case sqlnode.KindBetween:
		return rex.And(
			rex.NewCall(sqlnode.GreaterThanOrEqual, booleanType, ops[0], ops[1]),
			rex.NewCall(sqlnode.LessThanOrEqual, booleanType, ops[0], ops[2]),
		), nil
	case sqlnode.KindNotBetween:
		return rex.Or(
			rex.NewCall(sqlnode.LessThan, booleanType, ops[0], ops[1]),
			rex.NewCall(sqlnode.GreaterThan, booleanType, ops[0], ops[2]),
		), nil
	}
	return &rex.Call{Op: c.Op, Operands: ops, Distinct: c.Distinct, T: t}, nil
}
