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

package sqlparser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestString(t *testing.T) {
	testcases := []struct {
		in   SQLNode
		want string
	}{{
		in:   &InExpr{Left: NewColName("status"), Right: ValTuple{NewStrLiteral("paid"), NewStrLiteral("it's")}},
		want: "status in ('paid', 'it''s')",
	}, {
		in:   &InExpr{Left: NewColName("user_id"), Not: true, Right: &Subquery{Select: &Select{SelectExprs: []SelectExpr{&AliasedExpr{Expr: NewColName("id")}}, From: []TableExpr{&AliasedTableExpr{Name: "t_user"}}}}},
		want: "user_id not in (select id from t_user)",
	}, {
		in:   &BinaryExpr{Operator: MinusOp, Left: NewColName("a"), Right: &BinaryExpr{Operator: MinusOp, Left: NewColName("b"), Right: NewColName("c")}},
		want: "a - (b - c)",
	}, {
		in:   &BinaryExpr{Operator: MultOp, Left: &BinaryExpr{Operator: PlusOp, Left: NewColName("a"), Right: NewIntLiteral("1")}, Right: NewColName("b")},
		want: "(a + 1) * b",
	}, {
		in:   &AndExpr{Left: &OrExpr{Left: NewColName("a"), Right: NewColName("b")}, Right: &NotExpr{Expr: &IsExpr{Left: NewColName("c"), Right: IsNullOp}}},
		want: "(a or b) and not c is null",
	}, {
		in:   &FuncExpr{Name: "count", Star: true},
		want: "count(*)",
	}, {
		in:   &BetweenExpr{Left: NewColName("amount"), From: NewIntLiteral("1"), To: NewArgument(0)},
		want: "amount between 1 and ?",
	}, {
		in: &Select{
			Distinct:    true,
			SelectExprs: []SelectExpr{&StarExpr{TableName: "o"}},
			From: []TableExpr{&JoinTableExpr{
				LeftExpr:  &AliasedTableExpr{Name: "t_order", As: "o"},
				Join:      LeftJoinType,
				RightExpr: &AliasedTableExpr{Name: "t_user", As: "u"},
				On:        &ComparisonExpr{Operator: EqualOp, Left: NewColNameWithQualifier("user_id", "o"), Right: NewColNameWithQualifier("id", "u")},
			}},
			Where:   &ComparisonExpr{Operator: GreaterThanOp, Left: NewColName("amount"), Right: NewDecimalLiteral("10.5")},
			OrderBy: []*Order{{Expr: NewColName("amount"), Direction: DescOrder}},
			Limit:   &Limit{Offset: NewIntLiteral("5"), Rowcount: NewIntLiteral("10")},
		},
		want: "select distinct o.* from t_order as o left join t_user as u on o.user_id = u.id where amount > 10.5 order by amount desc limit 5, 10",
	}}
	for _, tc := range testcases {
		assert.Equal(t, tc.want, String(tc.in))
	}
}

func TestWalk(t *testing.T) {
	sel := &Select{
		SelectExprs: []SelectExpr{&AliasedExpr{Expr: &FuncExpr{Name: "SUM", Exprs: []Expr{NewColName("amount")}}}},
		From:        []TableExpr{&AliasedTableExpr{Name: "t_order"}},
		Where:       &InExpr{Left: NewColName("status"), Right: ValTuple{NewStrLiteral("a"), NewStrLiteral("b")}},
	}

	var cols []string
	err := Walk(func(node SQLNode) (bool, error) {
		if col, ok := node.(*ColName); ok {
			cols = append(cols, col.Name)
		}
		return true, nil
	}, sel)
	require.NoError(t, err)
	assert.Equal(t, []string{"amount", "status"}, cols)

	assert.True(t, ContainsAggregation(sel.SelectExprs[0]))
	assert.False(t, ContainsAggregation(sel.Where))
	assert.Nil(t, AndExpressions())
	assert.Equal(t, "a and b and c", String(AndExpressions(NewColName("a"), NewColName("b"), NewColName("c"))))
}
