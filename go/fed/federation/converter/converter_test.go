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
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fedgate.io/fedgate/go/fed/federation/sqlnode"
	"fedgate.io/fedgate/go/fed/federrors"
	"fedgate.io/fedgate/go/fed/fedrpc"
	"fedgate.io/fedgate/go/fed/sqlparser"
	"fedgate.io/fedgate/go/test/utils"
)

// Positions are recomputed on the way back and never compared.
var mustMatchIgnoringPositions = utils.MustMatchFn("StartIndex", "StopIndex")

func col(name string) *sqlparser.ColName {
	return sqlparser.NewColName(name)
}

func TestExpressionRoundTrip(t *testing.T) {
	sub := &sqlparser.Subquery{Select: &sqlparser.Select{
		SelectExprs: []sqlparser.SelectExpr{&sqlparser.AliasedExpr{Expr: col("user_id")}},
		From:        []sqlparser.TableExpr{&sqlparser.AliasedTableExpr{Name: "t_user", As: "u"}},
		Where:       &sqlparser.ComparisonExpr{Operator: sqlparser.GreaterThanOp, Left: col("age"), Right: sqlparser.NewIntLiteral("18")},
	}}
	testcases := []struct {
		name string
		expr sqlparser.Expr
		want string
	}{{
		name: "column",
		expr: col("status"),
		want: "status",
	}, {
		name: "qualified column",
		expr: sqlparser.NewColNameWithQualifier("status", "o"),
		want: "o.status",
	}, {
		name: "string literal",
		expr: sqlparser.NewStrLiteral("it's"),
		want: "'it''s'",
	}, {
		name: "decimal and float",
		expr: &sqlparser.BinaryExpr{Operator: sqlparser.PlusOp, Left: sqlparser.NewDecimalLiteral("1.5"), Right: sqlparser.NewFloatLiteral("2e3")},
		want: "1.5 + 2e3",
	}, {
		name: "null",
		expr: &sqlparser.IsExpr{Left: &sqlparser.NullVal{}, Right: sqlparser.IsNullOp},
		want: "NULL IS NULL",
	}, {
		name: "boolean",
		expr: &sqlparser.ComparisonExpr{Operator: sqlparser.NotEqualOp, Left: col("flag"), Right: sqlparser.BoolVal(false)},
		want: "flag <> FALSE",
	}, {
		name: "parameter",
		expr: &sqlparser.ComparisonExpr{Operator: sqlparser.EqualOp, Left: col("id"), Right: sqlparser.NewArgument(2)},
		want: "id = ?",
	}, {
		name: "in list",
		expr: &sqlparser.InExpr{Left: col("user_id"), Right: intTuple("1", "2", "3")},
		want: "user_id IN (1, 2, 3)",
	}, {
		name: "not in list",
		expr: &sqlparser.InExpr{Left: col("user_id"), Right: intTuple("7"), Not: true},
		want: "NOT user_id IN (7)",
	}, {
		name: "in subquery",
		expr: &sqlparser.InExpr{Left: col("user_id"), Right: sub},
		want: "user_id IN (SELECT user_id FROM t_user AS u WHERE age > 18)",
	}, {
		name: "not in subquery",
		expr: &sqlparser.InExpr{Left: col("user_id"), Right: sub, Not: true},
		want: "NOT user_id IN (SELECT user_id FROM t_user AS u WHERE age > 18)",
	}, {
		name: "in inside and",
		expr: &sqlparser.AndExpr{
			Left:  &sqlparser.InExpr{Left: col("a"), Right: intTuple("1")},
			Right: &sqlparser.OrExpr{Left: col("b"), Right: &sqlparser.NotExpr{Expr: col("c")}},
		},
		want: "a IN (1) AND (b OR NOT c)",
	}, {
		name: "between",
		expr: &sqlparser.BetweenExpr{Left: col("x"), Not: true, From: sqlparser.NewIntLiteral("1"), To: sqlparser.NewIntLiteral("9")},
		want: "x NOT BETWEEN 1 AND 9",
	}, {
		name: "like",
		expr: &sqlparser.ComparisonExpr{Operator: sqlparser.NotLikeOp, Left: col("name"), Right: sqlparser.NewStrLiteral("a%")},
		want: "name NOT LIKE 'a%'",
	}, {
		name: "arithmetic",
		expr: &sqlparser.BinaryExpr{
			Operator: sqlparser.MultOp,
			Left:     &sqlparser.BinaryExpr{Operator: sqlparser.MinusOp, Left: col("a"), Right: col("b")},
			Right:    &sqlparser.UnaryExpr{Operator: sqlparser.UMinusOp, Expr: col("c")},
		},
		want: "(a - b) * -c",
	}, {
		name: "modulo",
		expr: &sqlparser.BinaryExpr{Operator: sqlparser.ModOp, Left: col("a"), Right: sqlparser.NewIntLiteral("2")},
		want: "MOD(a, 2)",
	}, {
		name: "is predicates",
		expr: &sqlparser.IsExpr{Left: col("done"), Right: sqlparser.IsNotFalseOp},
		want: "done IS NOT FALSE",
	}, {
		name: "count star",
		expr: &sqlparser.FuncExpr{Name: "count", Star: true},
		want: "COUNT(*)",
	}, {
		name: "distinct aggregate",
		expr: &sqlparser.FuncExpr{Name: "sum", Distinct: true, Exprs: []sqlparser.Expr{col("amount")}},
		want: "SUM(DISTINCT amount)",
	}, {
		name: "scalar function",
		expr: &sqlparser.FuncExpr{Name: "coalesce", Exprs: []sqlparser.Expr{col("a"), sqlparser.NewIntLiteral("0")}},
		want: "COALESCE(a, 0)",
	}, {
		name: "unknown function",
		expr: &sqlparser.FuncExpr{Name: "my_udf", Exprs: []sqlparser.Expr{col("a")}},
		want: "MY_UDF(a)",
	}, {
		name: "row",
		expr: sqlparser.ValTuple{col("a"), col("b")},
		want: "ROW(a, b)",
	}}
	c := NewExpressionConverter()
	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			rel, err := c.ToRelational(tc.expr)
			require.NoError(t, err)
			assert.Equal(t, tc.want, rel.String())

			back, err := c.ToDomain(rel)
			require.NoError(t, err)
			mustMatchIgnoringPositions(t, tc.expr, back)
		})
	}
}

func TestExpressionNil(t *testing.T) {
	c := NewExpressionConverter()
	rel, err := c.ToRelational(nil)
	require.NoError(t, err)
	assert.Nil(t, rel)

	dom, err := c.ToDomain(nil)
	require.NoError(t, err)
	assert.Nil(t, dom)
}

func TestUnknownFunctionIsUnresolved(t *testing.T) {
	rel, err := NewExpressionConverter().ToRelational(&sqlparser.FuncExpr{Name: "my_udf"})
	require.NoError(t, err)
	call := rel.(*sqlnode.BasicCall)
	assert.True(t, call.Op.Unresolved)
	assert.Equal(t, sqlnode.KindOtherFunction, call.Kind())
}

func TestToRelationalUnsupported(t *testing.T) {
	testcases := []struct {
		name string
		expr sqlparser.Expr
	}{{
		name: "unary operator",
		expr: &sqlparser.UnaryExpr{Operator: 42, Expr: col("a")},
	}, {
		name: "comparison operator",
		expr: &sqlparser.ComparisonExpr{Operator: 42, Left: col("a"), Right: col("b")},
	}, {
		name: "star argument",
		expr: &sqlparser.FuncExpr{Name: "sum", Star: true},
	}, {
		name: "literal type",
		expr: &sqlparser.Literal{Type: 42, Val: "x"},
	}}
	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewExpressionConverter().ToRelational(tc.expr)
			require.Error(t, err)
			assert.Equal(t, fedrpc.Code_UNIMPLEMENTED, federrors.Code(err))
		})
	}
}

func TestToDomainIllegalPlanState(t *testing.T) {
	testcases := []struct {
		name string
		node sqlnode.Node
	}{{
		name: "alias is not an expression",
		node: sqlnode.NewCall(sqlnode.As, sqlnode.ZeroPos, ident("a"), ident("b")),
	}, {
		name: "join is not an expression",
		node: &sqlnode.Join{Left: ident("t1"), Right: ident("t2")},
	}, {
		name: "between with two operands",
		node: sqlnode.NewCall(sqlnode.Between, sqlnode.ZeroPos, ident("a"), exact("1")),
	}, {
		name: "comparison with one operand",
		node: sqlnode.NewCall(sqlnode.Equals, sqlnode.ZeroPos, ident("a")),
	}, {
		name: "and with one operand",
		node: sqlnode.NewCall(sqlnode.And, sqlnode.ZeroPos, ident("a")),
	}}
	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewExpressionConverter().ToDomain(tc.node)
			var illegal *federrors.IllegalPlanStateError
			require.True(t, errors.As(err, &illegal), "got %v", err)
			assert.Equal(t, fedrpc.Code_INTERNAL, federrors.Code(err))
		})
	}
}

func TestNaryAndFoldsLeft(t *testing.T) {
	call := sqlnode.NewCall(sqlnode.And, sqlnode.ZeroPos, ident("a"), ident("b"), ident("c"))
	got, err := NewExpressionConverter().ToDomain(call)
	require.NoError(t, err)
	assert.Equal(t, "a and b and c", sqlparser.String(got))
}
