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

package converter

import (
	"fedgate.io/fedgate/go/fed/federation/sqlnode"
	"fedgate.io/fedgate/go/fed/federrors"
	"fedgate.io/fedgate/go/fed/sqlparser"
)

// SelectConverter converts query blocks.
type SelectConverter struct {
	exprs *ExpressionConverter
}

var joinTypes = map[sqlparser.JoinType]sqlnode.JoinType{
	sqlparser.NormalJoinType: sqlnode.InnerJoin,
	sqlparser.LeftJoinType:   sqlnode.LeftJoin,
	sqlparser.RightJoinType:  sqlnode.RightJoin,
	sqlparser.FullJoinType:   sqlnode.FullJoin,
}

// ToRelational converts sel into a relational query block. Several FROM
// items become a left deep chain of comma joins; LIMIT becomes OFFSET and
// FETCH.
func (c *SelectConverter) ToRelational(sel *sqlparser.Select) (*sqlnode.Select, error) {
	if sel == nil {
		return nil, nil
	}
	out := &sqlnode.Select{Distinct: sel.Distinct}

	var items []sqlnode.Node
	for _, se := range sel.SelectExprs {
		item, err := c.selectItem(se)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	out.SelectList = sqlnode.NewNodeList(sqlnode.ZeroPos, items...)

	for _, te := range sel.From {
		item, err := c.fromItem(te)
		if err != nil {
			return nil, err
		}
		if out.From == nil {
			out.From = item
			continue
		}
		out.From = &sqlnode.Join{Left: out.From, Type: sqlnode.CommaJoin, Right: item}
	}

	var err error
	if out.Where, err = c.exprs.ToRelational(sel.Where); err != nil {
		return nil, err
	}
	if out.Having, err = c.exprs.ToRelational(sel.Having); err != nil {
		return nil, err
	}
	if len(sel.GroupBy) > 0 {
		keys, err := c.exprs.toRelationalAll(sel.GroupBy)
		if err != nil {
			return nil, err
		}
		out.GroupBy = sqlnode.NewNodeList(sqlnode.ZeroPos, keys...)
	}
	if len(sel.OrderBy) > 0 {
		var orders []sqlnode.Node
		for _, order := range sel.OrderBy {
			key, err := c.exprs.ToRelational(order.Expr)
			if err != nil {
				return nil, err
			}
			if order.Direction == sqlparser.DescOrder {
				key = sqlnode.NewCall(sqlnode.Desc, sqlnode.ZeroPos, key)
			}
			orders = append(orders, key)
		}
		out.OrderBy = sqlnode.NewNodeList(sqlnode.ZeroPos, orders...)
	}
	if sel.Limit != nil {
		if out.Offset, err = c.exprs.ToRelational(sel.Limit.Offset); err != nil {
			return nil, err
		}
		if out.Fetch, err = c.exprs.ToRelational(sel.Limit.Rowcount); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (c *SelectConverter) selectItem(se sqlparser.SelectExpr) (sqlnode.Node, error) {
	switch se := se.(type) {
	case *sqlparser.StarExpr:
		if se.TableName == "" {
			return sqlnode.NewIdentifier(sqlnode.ZeroPos, ""), nil
		}
		return sqlnode.NewIdentifier(sqlnode.ZeroPos, se.TableName, ""), nil
	case *sqlparser.AliasedExpr:
		expr, err := c.exprs.ToRelational(se.Expr)
		if err != nil {
			return nil, err
		}
		if se.As == "" {
			return expr, nil
		}
		return sqlnode.NewCall(sqlnode.As, sqlnode.ZeroPos, expr, sqlnode.NewIdentifier(sqlnode.ZeroPos, se.As)), nil
	}
	return nil, federrors.FED12001("select expression " + sqlparser.String(se))
}

func (c *SelectConverter) fromItem(te sqlparser.TableExpr) (sqlnode.Node, error) {
	switch te := te.(type) {
	case *sqlparser.AliasedTableExpr:
		name := sqlnode.NewIdentifier(sqlnode.ZeroPos, te.Name)
		if te.As == "" {
			return name, nil
		}
		return sqlnode.NewCall(sqlnode.As, sqlnode.ZeroPos, name, sqlnode.NewIdentifier(sqlnode.ZeroPos, te.As)), nil
	case *sqlparser.JoinTableExpr:
		left, err := c.fromItem(te.LeftExpr)
		if err != nil {
			return nil, err
		}
		right, err := c.fromItem(te.RightExpr)
		if err != nil {
			return nil, err
		}
		typ, ok := joinTypes[te.Join]
		if !ok {
			return nil, federrors.FED12001("join type " + te.Join.ToString())
		}
		cond, err := c.exprs.ToRelational(te.On)
		if err != nil {
			return nil, err
		}
		return &sqlnode.Join{Left: left, Type: typ, Right: right, Condition: cond}, nil
	}
	return nil, federrors.FED12001("table expression " + sqlparser.String(te))
}

// ToDomain converts a relational query block back into a Select.
func (c *SelectConverter) ToDomain(sel *sqlnode.Select) (*sqlparser.Select, error) {
	if sel == nil {
		return nil, nil
	}
	out := &sqlparser.Select{Distinct: sel.Distinct}
	if sel.SelectList != nil {
		for _, item := range sel.SelectList.Nodes {
			se, err := c.untranslateSelectItem(item)
			if err != nil {
				return nil, err
			}
			out.SelectExprs = append(out.SelectExprs, se)
		}
	}
	if sel.From != nil {
		from, err := c.untranslateFrom(sel.From)
		if err != nil {
			return nil, err
		}
		out.From = from
	}

	var err error
	if out.Where, err = c.exprs.ToDomain(sel.Where); err != nil {
		return nil, err
	}
	if out.Having, err = c.exprs.ToDomain(sel.Having); err != nil {
		return nil, err
	}
	if sel.GroupBy.Len() > 0 {
		keys, err := c.exprs.toDomainTuple(sel.GroupBy.Nodes)
		if err != nil {
			return nil, err
		}
		out.GroupBy = keys
	}
	if sel.OrderBy.Len() > 0 {
		for _, item := range sel.OrderBy.Nodes {
			order := &sqlparser.Order{Direction: sqlparser.AscOrder}
			if item.Kind() == sqlnode.KindDesc {
				order.Direction = sqlparser.DescOrder
				item = item.(*sqlnode.BasicCall).Operand(0)
			}
			if order.Expr, err = c.exprs.ToDomain(item); err != nil {
				return nil, err
			}
			out.OrderBy = append(out.OrderBy, order)
		}
	}
	if sel.Offset != nil || sel.Fetch != nil {
		limit := &sqlparser.Limit{}
		if limit.Offset, err = c.exprs.ToDomain(sel.Offset); err != nil {
			return nil, err
		}
		if limit.Rowcount, err = c.exprs.ToDomain(sel.Fetch); err != nil {
			return nil, err
		}
		out.Limit = limit
	}
	return out, nil
}

func (c *SelectConverter) untranslateSelectItem(item sqlnode.Node) (sqlparser.SelectExpr, error) {
	if id, ok := item.(*sqlnode.Identifier); ok && id.IsStar() {
		if len(id.Names) == 1 {
			return &sqlparser.StarExpr{}, nil
		}
		return &sqlparser.StarExpr{TableName: id.Names[len(id.Names)-2]}, nil
	}
	if item.Kind() == sqlnode.KindAs {
		call := item.(*sqlnode.BasicCall)
		if len(call.Operands) != 2 {
			return nil, federrors.NewIllegalPlanState("AS call expects 2 operands, got %d", len(call.Operands))
		}
		expr, err := c.exprs.ToDomain(call.Operands[0])
		if err != nil {
			return nil, err
		}
		alias, ok := call.Operands[1].(*sqlnode.Identifier)
		if !ok {
			return nil, federrors.NewIllegalPlanState("alias must be an identifier")
		}
		return &sqlparser.AliasedExpr{Expr: expr, As: alias.Simple()}, nil
	}
	expr, err := c.exprs.ToDomain(item)
	if err != nil {
		return nil, err
	}
	return &sqlparser.AliasedExpr{Expr: expr}, nil
}

// untranslateFrom flattens top level comma joins back into FROM items.
func (c *SelectConverter) untranslateFrom(node sqlnode.Node) ([]sqlparser.TableExpr, error) {
	if join, ok := node.(*sqlnode.Join); ok && join.Type == sqlnode.CommaJoin {
		left, err := c.untranslateFrom(join.Left)
		if err != nil {
			return nil, err
		}
		right, err := c.untranslateTable(join.Right)
		if err != nil {
			return nil, err
		}
		return append(left, right), nil
	}
	te, err := c.untranslateTable(node)
	if err != nil {
		return nil, err
	}
	return []sqlparser.TableExpr{te}, nil
}

func (c *SelectConverter) untranslateTable(node sqlnode.Node) (sqlparser.TableExpr, error) {
	switch node := node.(type) {
	case *sqlnode.Identifier:
		return &sqlparser.AliasedTableExpr{Name: node.Simple()}, nil
	case *sqlnode.BasicCall:
		if node.Kind() != sqlnode.KindAs || len(node.Operands) != 2 {
			break
		}
		name, ok1 := node.Operands[0].(*sqlnode.Identifier)
		alias, ok2 := node.Operands[1].(*sqlnode.Identifier)
		if !ok1 || !ok2 {
			return nil, federrors.FED12001("derived table " + node.String())
		}
		return &sqlparser.AliasedTableExpr{Name: name.Simple(), As: alias.Simple()}, nil
	case *sqlnode.Join:
		if node.Type == sqlnode.CommaJoin {
			return nil, federrors.FED12001("nested comma join " + node.String())
		}
		left, err := c.untranslateTable(node.Left)
		if err != nil {
			return nil, err
		}
		right, err := c.untranslateTable(node.Right)
		if err != nil {
			return nil, err
		}
		on, err := c.exprs.ToDomain(node.Condition)
		if err != nil {
			return nil, err
		}
		for dt, rt := range joinTypes {
			if rt == node.Type {
				return &sqlparser.JoinTableExpr{LeftExpr: left, Join: dt, RightExpr: right, On: on}, nil
			}
		}
	}
	return nil, federrors.NewIllegalPlanState("%s node is not a table reference", node.Kind())
}
