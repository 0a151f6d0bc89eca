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

package validator

import (
	"errors"
	"strings"

	"fedgate.io/fedgate/go/fed/federation/reltype"
	"fedgate.io/fedgate/go/fed/federation/sqlnode"
	"fedgate.io/fedgate/go/fed/federrors"
	"fedgate.io/fedgate/go/sqltypes"
)

type exprCtx struct {
	scope  *scope
	clause clause
	// aliases maps lower cased select list names to items. Identifiers
	// that do not resolve to a column are looked up here when set.
	aliases     map[string]int
	items       []SelectItem
	inAggregate bool
}

func (ctx *exprCtx) alias(id *sqlnode.Identifier) (SelectItem, bool) {
	if ctx.aliases == nil || !id.IsSimple() {
		return SelectItem{}, false
	}
	i, ok := ctx.aliases[strings.ToLower(id.Simple())]
	if !ok {
		return SelectItem{}, false
	}
	return ctx.items[i], true
}

var (
	booleanType        = reltype.RelType{Type: sqltypes.Boolean, Nullable: true}
	booleanNotNullType = reltype.RelType{Type: sqltypes.Boolean}
)

// expr validates n and returns its expanded form and type.
func (s *validation) expr(n sqlnode.Node, ctx *exprCtx) (sqlnode.Node, reltype.RelType, error) {
	out, t, err := s.derive(n, ctx)
	if err != nil {
		return nil, reltype.RelType{}, s.fail(n, err)
	}
	s.ann.types[out] = t
	return out, t, nil
}

func (s *validation) derive(n sqlnode.Node, ctx *exprCtx) (sqlnode.Node, reltype.RelType, error) {
	switch n := n.(type) {
	case *sqlnode.Identifier:
		return s.identifier(n, ctx)
	case *sqlnode.Literal:
		return n, literalType(n), nil
	case *sqlnode.DynamicParam:
		return n, reltype.RelType{Type: sqltypes.Unknown, Nullable: true}, nil
	case *sqlnode.Select:
		return nil, reltype.RelType{}, federrors.FED12001("scalar subquery")
	case *sqlnode.BasicCall:
		return s.call(n, ctx)
	}
	return nil, reltype.RelType{}, federrors.NewIllegalPlanState("%s node is not an expression", n.Kind())
}

func (s *validation) identifier(id *sqlnode.Identifier, ctx *exprCtx) (sqlnode.Node, reltype.RelType, error) {
	if id.IsStar() {
		return nil, reltype.RelType{}, federrors.FED12001("'*' in expression")
	}
	ns, field, err := ctx.scope.resolve(id, ctx.clause)
	if err != nil {
		var fe *federrors.FedError
		if errors.As(err, &fe) && fe.ID == "FED03001" {
			if item, ok := ctx.alias(id); ok {
				return item.Expr, item.Type, nil
			}
		}
		return nil, reltype.RelType{}, err
	}
	out := id
	if s.v.config.IdentifierExpansion {
		out = &sqlnode.Identifier{Names: []string{ns.Alias, field.Name}, P: id.P}
	}
	s.ann.refs[out] = ns.Offset + field.Index
	return out, field.Type, nil
}

func literalType(lit *sqlnode.Literal) reltype.RelType {
	switch lit.Type {
	case sqlnode.NullLiteral:
		return reltype.RelType{Type: sqltypes.Null, Nullable: true}
	case sqlnode.BooleanLiteral:
		return booleanNotNullType
	case sqlnode.ExactLiteral:
		return reltype.RelType{Type: sqltypes.Int64}
	case sqlnode.ApproxLiteral:
		return reltype.RelType{Type: sqltypes.Float64}
	case sqlnode.DecimalLiteral:
		return reltype.RelType{Type: sqltypes.Decimal}
	}
	return reltype.RelType{Type: sqltypes.VarChar}
}

func (s *validation) call(c *sqlnode.BasicCall, ctx *exprCtx) (sqlnode.Node, reltype.RelType, error) {
	kind := c.Kind()
	switch {
	case kind == sqlnode.KindIn:
		return s.in(c, ctx)
	case kind == sqlnode.KindRow:
		return nil, reltype.RelType{}, federrors.FED12001("row value expression")
	case kind == sqlnode.KindAs || kind == sqlnode.KindDesc || kind == sqlnode.KindNullsFirst || kind == sqlnode.KindNullsLast:
		return nil, reltype.RelType{}, federrors.NewIllegalPlanState("%s call in expression", c.Op.Name)
	}

	op := c.Op
	if op.Unresolved && !s.v.config.LenientOperatorLookup {
		return nil, reltype.RelType{}, federrors.FED03005(op.Signature(nil))
	}
	opCtx := ctx
	if kind.IsAggregate() {
		if !ctx.clause.allowsAggregates() {
			return nil, reltype.RelType{}, federrors.FED03010(op.Name, ctx.clause.keyword())
		}
		if ctx.inAggregate {
			return nil, reltype.RelType{}, federrors.FED12001("nested aggregate function " + op.Name)
		}
		inner := *ctx
		inner.inAggregate = true
		opCtx = &inner
	}

	operands := make([]sqlnode.Node, len(c.Operands))
	types := make([]reltype.RelType, len(c.Operands))
	for i, operand := range c.Operands {
		out, t, err := s.expr(operand, opCtx)
		if err != nil {
			return nil, reltype.RelType{}, err
		}
		operands[i], types[i] = out, t
	}
	if !op.CheckArgCount(len(operands)) || (kind == sqlnode.KindCount && c.Distinct && len(operands) == 0) {
		return nil, reltype.RelType{}, federrors.FED03005(op.Signature(typeNames(types)))
	}
	t, err := s.v.returnType(op, types)
	if err != nil {
		return nil, reltype.RelType{}, err
	}
	return &sqlnode.BasicCall{Op: op, Operands: operands, Distinct: c.Distinct, P: c.P}, t, nil
}

func (s *validation) in(c *sqlnode.BasicCall, ctx *exprCtx) (sqlnode.Node, reltype.RelType, error) {
	if len(c.Operands) != 2 {
		return nil, reltype.RelType{}, federrors.NewIllegalPlanState("IN call expects 2 operands, got %d", len(c.Operands))
	}
	left, lt, err := s.expr(c.Operands[0], ctx)
	if err != nil {
		return nil, reltype.RelType{}, err
	}
	nullable := lt.Nullable

	var right sqlnode.Node
	switch r := c.Operands[1].(type) {
	case *sqlnode.NodeList:
		if r.Len() == 0 {
			return nil, reltype.RelType{}, federrors.NewIllegalPlanState("empty IN list")
		}
		values := make([]sqlnode.Node, len(r.Nodes))
		for i, n := range r.Nodes {
			out, t, err := s.expr(n, ctx)
			if err != nil {
				return nil, reltype.RelType{}, err
			}
			if !reltype.Comparable(lt, t) {
				return nil, reltype.RelType{}, federrors.FED03003(c.Op.Name, typeList(lt, t))
			}
			nullable = nullable || t.Nullable
			values[i] = out
		}
		right = sqlnode.NewNodeList(r.P, values...)
	case *sqlnode.Select:
		sub, err := s.validateSelect(r)
		if err != nil {
			return nil, reltype.RelType{}, err
		}
		if len(sub.Items) != 1 {
			return nil, reltype.RelType{}, federrors.FED03006(len(sub.Items))
		}
		if t := sub.Items[0].Type; !reltype.Comparable(lt, t) {
			return nil, reltype.RelType{}, federrors.FED03003(c.Op.Name, typeList(lt, t))
		}
		nullable = true
		s.ann.subqueries[sub.Select] = sub
		right = sub.Select
	default:
		return nil, reltype.RelType{}, federrors.NewIllegalPlanState("IN right operand is a %s node", r.Kind())
	}
	out := &sqlnode.BasicCall{Op: c.Op, Operands: []sqlnode.Node{left, right}, P: c.P}
	return out, reltype.RelType{Type: sqltypes.Boolean, Nullable: nullable}, nil
}

// returnType checks the operand types of op and derives its result type.
func (v *Validator) returnType(op *sqlnode.Operator, types []reltype.RelType) (reltype.RelType, error) {
	mismatch := func() (reltype.RelType, error) {
		return reltype.RelType{}, federrors.FED03003(op.Name, typeList(types...))
	}
	nullable := anyNullable(types)
	kind := op.Kind
	switch {
	case kind == sqlnode.KindAnd || kind == sqlnode.KindOr || kind == sqlnode.KindNot:
		for _, t := range types {
			if !reltype.IsBoolean(t) {
				return mismatch()
			}
		}
		return reltype.RelType{Type: sqltypes.Boolean, Nullable: nullable}, nil
	case kind.IsComparison() || kind == sqlnode.KindBetween || kind == sqlnode.KindNotBetween:
		for _, t := range types[1:] {
			if !reltype.Comparable(types[0], t) {
				return mismatch()
			}
		}
		return reltype.RelType{Type: sqltypes.Boolean, Nullable: nullable}, nil
	case kind == sqlnode.KindLike || kind == sqlnode.KindNotLike:
		if !reltype.IsCharacter(types[0]) || !reltype.IsCharacter(types[1]) {
			return mismatch()
		}
		return reltype.RelType{Type: sqltypes.Boolean, Nullable: nullable}, nil
	case kind == sqlnode.KindIsNull || kind == sqlnode.KindIsNotNull:
		return booleanNotNullType, nil
	case kind.IsPostfixIs():
		if !reltype.IsBoolean(types[0]) {
			return mismatch()
		}
		return booleanNotNullType, nil
	case kind.IsArithmetic():
		t, ok := reltype.ArithmeticResult(types[0], types[1])
		if !ok {
			return mismatch()
		}
		return t, nil
	case kind == sqlnode.KindMinusPrefix || kind == sqlnode.KindPlusPrefix:
		if !reltype.IsNumeric(types[0]) {
			return mismatch()
		}
		return types[0], nil
	case kind == sqlnode.KindCount:
		return reltype.RelType{Type: sqltypes.Int64}, nil
	case kind == sqlnode.KindSum:
		if !reltype.IsNumeric(types[0]) {
			return mismatch()
		}
		t := reltype.RelType{Type: types[0].Type, Nullable: true}
		if sqltypes.IsIntegral(t.Type) {
			t.Type = sqltypes.Int64
		}
		return t, nil
	case kind == sqlnode.KindAvg:
		if !reltype.IsNumeric(types[0]) {
			return mismatch()
		}
		return reltype.RelType{Type: types[0].Type, Nullable: true}, nil
	case kind == sqlnode.KindMin || kind == sqlnode.KindMax:
		return reltype.RelType{Type: types[0].Type, Nullable: true}, nil
	case op.Unresolved:
		return reltype.RelType{Type: sqltypes.Unknown, Nullable: true}, nil
	}
	return functionType(op, types, nullable, mismatch)
}

func functionType(op *sqlnode.Operator, types []reltype.RelType, nullable bool, mismatch func() (reltype.RelType, error)) (reltype.RelType, error) {
	switch op {
	case sqlnode.Abs:
		if !reltype.IsNumeric(types[0]) {
			return mismatch()
		}
		return types[0], nil
	case sqlnode.Upper, sqlnode.Lower:
		if !reltype.IsCharacter(types[0]) {
			return mismatch()
		}
		return types[0], nil
	case sqlnode.CharLength:
		if !reltype.IsCharacter(types[0]) {
			return mismatch()
		}
		return reltype.RelType{Type: sqltypes.Int32, Nullable: nullable}, nil
	case sqlnode.Coalesce:
		t, ok := reltype.LeastRestrictive(types...)
		if !ok {
			return mismatch()
		}
		t.Nullable = true
		for _, operand := range types {
			if !operand.Nullable && operand.Type != sqltypes.Null {
				t.Nullable = false
			}
		}
		return t, nil
	case sqlnode.Concat:
		return reltype.RelType{Type: sqltypes.VarChar, Nullable: nullable}, nil
	case sqlnode.CurrentDate:
		return reltype.RelType{Type: sqltypes.Date}, nil
	}
	return reltype.RelType{}, federrors.FED12001("operator " + op.Name)
}

func anyNullable(types []reltype.RelType) bool {
	for _, t := range types {
		if t.Nullable {
			return true
		}
	}
	return false
}

func typeNames(types []reltype.RelType) []string {
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = t.Type.String()
	}
	return names
}

func typeList(types ...reltype.RelType) string {
	names := typeNames(types)
	for i, n := range names {
		names[i] = "<" + n + ">"
	}
	return strings.Join(names, ", ")
}

// containsAggregate reports whether an aggregate call occurs in nodes
// outside of IN subqueries.
func containsAggregate(nodes ...sqlnode.Node) bool {
	for _, n := range nodes {
		switch n := n.(type) {
		case *sqlnode.BasicCall:
			if n.Kind().IsAggregate() || containsAggregate(n.Operands...) {
				return true
			}
		case *sqlnode.NodeList:
			if containsAggregate(n.Nodes...) {
				return true
			}
		}
	}
	return false
}

// checkGrouped verifies that every column referenced by the select list,
// HAVING and ORDER BY of an aggregate query is a group key or appears
// under an aggregate.
func (out *Validated) checkGrouped(s *validation) error {
	keys := make(map[string]bool, len(out.GroupBy))
	for _, k := range out.GroupBy {
		keys[k.String()] = true
	}
	var check func(n sqlnode.Node) error
	check = func(n sqlnode.Node) error {
		if n == nil || keys[n.String()] {
			return nil
		}
		switch n := n.(type) {
		case *sqlnode.Identifier:
			return s.fail(n, federrors.FED03008(n.String()))
		case *sqlnode.BasicCall:
			if n.Kind().IsAggregate() {
				return nil
			}
			for _, op := range n.Operands {
				if err := check(op); err != nil {
					return err
				}
			}
		case *sqlnode.NodeList:
			for _, e := range n.Nodes {
				if err := check(e); err != nil {
					return err
				}
			}
		}
		return nil
	}
	exprs := append(out.selectExprs(), out.orderExprs()...)
	exprs = append(exprs, out.Having)
	for _, e := range exprs {
		if err := check(e); err != nil {
			return err
		}
	}
	return nil
}
