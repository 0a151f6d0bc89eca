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

// Package converter translates expressions and query blocks between the
// domain AST of package sqlparser and the relational node tree of package
// sqlnode. Every converter is stateless and safe for concurrent use.
package converter

import (
	"strings"

	"fedgate.io/fedgate/go/fed/federation/sqlnode"
	"fedgate.io/fedgate/go/fed/federrors"
	"fedgate.io/fedgate/go/fed/sqlparser"
)

// Converter is the capability pair every converter implements. A nil input
// converts to a nil output and a nil error.
type Converter[D, R any] interface {
	ToRelational(D) (R, error)
	ToDomain(R) (D, error)
}

var (
	_ Converter[sqlparser.Expr, sqlnode.Node]       = (*ExpressionConverter)(nil)
	_ Converter[*sqlparser.InExpr, sqlnode.Node]    = (*InExprConverter)(nil)
	_ Converter[*sqlparser.Select, *sqlnode.Select] = (*SelectConverter)(nil)
)

// ExpressionConverter dispatches on the kind of expression to the converter
// responsible for it.
type ExpressionConverter struct{}

// NewExpressionConverter returns the generic expression converter.
func NewExpressionConverter() *ExpressionConverter {
	return &ExpressionConverter{}
}

// In returns the IN converter with the given negation.
func (c *ExpressionConverter) In(not bool) *InExprConverter {
	return &InExprConverter{Not: not, exprs: c}
}

// Select returns the query block converter.
func (c *ExpressionConverter) Select() *SelectConverter {
	return &SelectConverter{exprs: c}
}

// ToRelational converts a domain expression into a relational node.
func (c *ExpressionConverter) ToRelational(expr sqlparser.Expr) (sqlnode.Node, error) {
	switch expr := expr.(type) {
	case nil:
		return nil, nil
	case *sqlparser.ColName:
		if expr.Qualifier == "" {
			return sqlnode.NewIdentifier(sqlnode.ZeroPos, expr.Name), nil
		}
		return sqlnode.NewIdentifier(sqlnode.ZeroPos, expr.Qualifier, expr.Name), nil
	case *sqlparser.Literal:
		return translateLiteral(expr)
	case *sqlparser.NullVal:
		return &sqlnode.Literal{Type: sqlnode.NullLiteral}, nil
	case sqlparser.BoolVal:
		if expr {
			return &sqlnode.Literal{Type: sqlnode.BooleanLiteral, Value: "TRUE"}, nil
		}
		return &sqlnode.Literal{Type: sqlnode.BooleanLiteral, Value: "FALSE"}, nil
	case *sqlparser.Argument:
		return &sqlnode.DynamicParam{Index: expr.Index}, nil
	case sqlparser.ValTuple:
		operands, err := c.toRelationalAll(expr)
		if err != nil {
			return nil, err
		}
		return sqlnode.NewCall(sqlnode.Row, sqlnode.ZeroPos, operands...), nil
	case *sqlparser.Subquery:
		sel, err := c.Select().ToRelational(expr.Select)
		if err != nil {
			return nil, err
		}
		return sel, nil
	case *sqlparser.AndExpr:
		return c.call(sqlnode.And, expr.Left, expr.Right)
	case *sqlparser.OrExpr:
		return c.call(sqlnode.Or, expr.Left, expr.Right)
	case *sqlparser.NotExpr:
		return c.call(sqlnode.Not, expr.Expr)
	case *sqlparser.ComparisonExpr:
		op, ok := comparisonOperators[expr.Operator]
		if !ok {
			return nil, federrors.FED12001("comparison operator " + expr.Operator.ToString())
		}
		return c.call(op, expr.Left, expr.Right)
	case *sqlparser.InExpr:
		return c.In(expr.Not).ToRelational(expr)
	case *sqlparser.BetweenExpr:
		op := sqlnode.Between
		if expr.Not {
			op = sqlnode.NotBetween
		}
		return c.call(op, expr.Left, expr.From, expr.To)
	case *sqlparser.BinaryExpr:
		op, ok := binaryOperators[expr.Operator]
		if !ok {
			return nil, federrors.FED12001("binary operator " + expr.Operator.ToString())
		}
		return c.call(op, expr.Left, expr.Right)
	case *sqlparser.UnaryExpr:
		op, ok := unaryOperators[expr.Operator]
		if !ok {
			return nil, federrors.FED12001("unary operator " + expr.Operator.ToString())
		}
		return c.call(op, expr.Expr)
	case *sqlparser.IsExpr:
		op, ok := isOperators[expr.Right]
		if !ok {
			return nil, federrors.FED12001("predicate " + expr.Right.ToString())
		}
		return c.call(op, expr.Left)
	case *sqlparser.FuncExpr:
		return c.translateFuncExpr(expr)
	}
	return nil, federrors.FED12001(sqlparser.String(expr))
}

func (c *ExpressionConverter) call(op *sqlnode.Operator, exprs ...sqlparser.Expr) (sqlnode.Node, error) {
	operands, err := c.toRelationalAll(exprs)
	if err != nil {
		return nil, err
	}
	return sqlnode.NewCall(op, sqlnode.ZeroPos, operands...), nil
}

func (c *ExpressionConverter) toRelationalAll(exprs []sqlparser.Expr) ([]sqlnode.Node, error) {
	operands := make([]sqlnode.Node, 0, len(exprs))
	for _, e := range exprs {
		n, err := c.ToRelational(e)
		if err != nil {
			return nil, err
		}
		if n == nil {
			return nil, federrors.NewIllegalPlanState("empty operand in expression")
		}
		operands = append(operands, n)
	}
	return operands, nil
}

func translateLiteral(lit *sqlparser.Literal) (sqlnode.Node, error) {
	var typ sqlnode.LiteralType
	switch lit.Type {
	case sqlparser.StrVal:
		typ = sqlnode.CharLiteral
	case sqlparser.IntVal:
		typ = sqlnode.ExactLiteral
	case sqlparser.FloatVal:
		typ = sqlnode.ApproxLiteral
	case sqlparser.DecimalVal:
		typ = sqlnode.DecimalLiteral
	default:
		return nil, federrors.FED12001("literal " + sqlparser.String(lit))
	}
	return &sqlnode.Literal{Type: typ, Value: lit.Val}, nil
}

func (c *ExpressionConverter) translateFuncExpr(fn *sqlparser.FuncExpr) (sqlnode.Node, error) {
	op, ok := sqlnode.StdOperatorTable.LookupFunction(fn.Name)
	if !ok {
		op = sqlnode.NewUnresolvedFunction(fn.Name)
	}
	if fn.Star && op.Kind != sqlnode.KindCount {
		return nil, federrors.FED12001("'*' argument to " + fn.Name)
	}
	operands, err := c.toRelationalAll(fn.Exprs)
	if err != nil {
		return nil, err
	}
	call := sqlnode.NewCall(op, sqlnode.ZeroPos, operands...)
	call.Distinct = fn.Distinct
	return call, nil
}

// ToDomain converts a relational node back into a domain expression.
func (c *ExpressionConverter) ToDomain(node sqlnode.Node) (sqlparser.Expr, error) {
	switch node := node.(type) {
	case nil:
		return nil, nil
	case *sqlnode.Identifier:
		if node.IsStar() || len(node.Names) == 0 {
			return nil, federrors.NewIllegalPlanState("identifier '%s' is not an expression", node.String())
		}
		if node.IsSimple() {
			return sqlparser.NewColName(node.Simple()), nil
		}
		return sqlparser.NewColNameWithQualifier(node.Simple(), node.Names[len(node.Names)-2]), nil
	case *sqlnode.Literal:
		return untranslateLiteral(node)
	case *sqlnode.DynamicParam:
		return sqlparser.NewArgument(node.Index), nil
	case *sqlnode.NodeList:
		return c.toDomainTuple(node.Nodes)
	case *sqlnode.Select:
		sel, err := c.Select().ToDomain(node)
		if err != nil {
			return nil, err
		}
		return &sqlparser.Subquery{Select: sel}, nil
	case *sqlnode.BasicCall:
		return c.untranslateCall(node)
	}
	return nil, federrors.NewIllegalPlanState("%s node is not an expression", node.Kind())
}

func untranslateLiteral(lit *sqlnode.Literal) (sqlparser.Expr, error) {
	switch lit.Type {
	case sqlnode.NullLiteral:
		return &sqlparser.NullVal{}, nil
	case sqlnode.BooleanLiteral:
		return sqlparser.BoolVal(strings.EqualFold(lit.Value, "true")), nil
	case sqlnode.ExactLiteral:
		return sqlparser.NewIntLiteral(lit.Value), nil
	case sqlnode.ApproxLiteral:
		return sqlparser.NewFloatLiteral(lit.Value), nil
	case sqlnode.DecimalLiteral:
		return sqlparser.NewDecimalLiteral(lit.Value), nil
	case sqlnode.CharLiteral:
		return sqlparser.NewStrLiteral(lit.Value), nil
	}
	return nil, federrors.NewIllegalPlanState("unknown literal type %d", lit.Type)
}

func (c *ExpressionConverter) toDomainTuple(nodes []sqlnode.Node) (sqlparser.ValTuple, error) {
	tuple := make(sqlparser.ValTuple, 0, len(nodes))
	for _, n := range nodes {
		e, err := c.ToDomain(n)
		if err != nil {
			return nil, err
		}
		if e == nil {
			return nil, federrors.NewIllegalPlanState("empty element in list")
		}
		tuple = append(tuple, e)
	}
	return tuple, nil
}

// operands converts every operand of call, requiring exactly n of them.
func (c *ExpressionConverter) operands(call *sqlnode.BasicCall, n int) ([]sqlparser.Expr, error) {
	if len(call.Operands) != n {
		return nil, federrors.NewIllegalPlanState("%s call expects %d operands, got %d", call.Op.Name, n, len(call.Operands))
	}
	return c.toDomainTuple(call.Operands)
}

func (c *ExpressionConverter) untranslateCall(call *sqlnode.BasicCall) (sqlparser.Expr, error) {
	kind := call.Kind()
	switch {
	case kind == sqlnode.KindIn:
		return c.In(false).ToDomain(call)
	case kind == sqlnode.KindNot:
		if len(call.Operands) == 1 && call.Operands[0].Kind() == sqlnode.KindIn {
			return c.In(true).ToDomain(call.Operands[0])
		}
		ops, err := c.operands(call, 1)
		if err != nil {
			return nil, err
		}
		return &sqlparser.NotExpr{Expr: ops[0]}, nil
	case kind == sqlnode.KindAnd || kind == sqlnode.KindOr:
		if len(call.Operands) < 2 {
			return nil, federrors.NewIllegalPlanState("%s call expects at least 2 operands, got %d", call.Op.Name, len(call.Operands))
		}
		ops, err := c.toDomainTuple(call.Operands)
		if err != nil {
			return nil, err
		}
		result := ops[0]
		for _, e := range ops[1:] {
			if kind == sqlnode.KindAnd {
				result = &sqlparser.AndExpr{Left: result, Right: e}
			} else {
				result = &sqlparser.OrExpr{Left: result, Right: e}
			}
		}
		return result, nil
	case kind == sqlnode.KindBetween || kind == sqlnode.KindNotBetween:
		ops, err := c.operands(call, 3)
		if err != nil {
			return nil, err
		}
		return &sqlparser.BetweenExpr{Left: ops[0], Not: kind == sqlnode.KindNotBetween, From: ops[1], To: ops[2]}, nil
	case kind == sqlnode.KindRow:
		return c.toDomainTuple(call.Operands)
	case kind.IsAggregate() || kind == sqlnode.KindOtherFunction:
		return c.untranslateFunction(call)
	}
	if op, ok := comparisonKinds[kind]; ok {
		ops, err := c.operands(call, 2)
		if err != nil {
			return nil, err
		}
		return &sqlparser.ComparisonExpr{Operator: op, Left: ops[0], Right: ops[1]}, nil
	}
	if op, ok := binaryKinds[kind]; ok {
		ops, err := c.operands(call, 2)
		if err != nil {
			return nil, err
		}
		return &sqlparser.BinaryExpr{Operator: op, Left: ops[0], Right: ops[1]}, nil
	}
	if op, ok := unaryKinds[kind]; ok {
		ops, err := c.operands(call, 1)
		if err != nil {
			return nil, err
		}
		return &sqlparser.UnaryExpr{Operator: op, Expr: ops[0]}, nil
	}
	if op, ok := isKinds[kind]; ok {
		ops, err := c.operands(call, 1)
		if err != nil {
			return nil, err
		}
		return &sqlparser.IsExpr{Left: ops[0], Right: op}, nil
	}
	return nil, federrors.NewIllegalPlanState("%s call is not an expression", call.Op.Name)
}

func (c *ExpressionConverter) untranslateFunction(call *sqlnode.BasicCall) (sqlparser.Expr, error) {
	args, err := c.toDomainTuple(call.Operands)
	if err != nil {
		return nil, err
	}
	fn := &sqlparser.FuncExpr{
		Name:     strings.ToLower(call.Op.Name),
		Distinct: call.Distinct,
	}
	switch {
	case len(args) > 0:
		fn.Exprs = args
	case call.Kind() == sqlnode.KindCount:
		fn.Star = true
	}
	return fn, nil
}
