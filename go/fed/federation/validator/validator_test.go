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

package validator_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fedgate.io/fedgate/go/fed/federation/metadata"
	"fedgate.io/fedgate/go/fed/federation/reltype"
	"fedgate.io/fedgate/go/fed/federation/schema"
	"fedgate.io/fedgate/go/fed/federation/sqlnode"
	"fedgate.io/fedgate/go/fed/federation/table/tabletest"
	"fedgate.io/fedgate/go/fed/federation/validator"
	"fedgate.io/fedgate/go/fed/federrors"
	"fedgate.io/fedgate/go/sqltypes"
)

var zero = sqlnode.ZeroPos

func catalog(t *testing.T) *schema.Schema {
	t.Helper()
	logical := &metadata.LogicalSchema{Name: "ds_0", Tables: map[string]*metadata.LogicalTable{
		"t_order": tabletest.OrderTable(1000),
		"t_user":  tabletest.UserTable(100),
	}}
	adapter := schema.NewAdapter(reltype.NewResolver(reltype.ForceNullable), schema.StaticProvider(tabletest.NewStaticExecutor()))
	s, err := adapter.BuildSchema("sharding_db", logical)
	require.NoError(t, err)
	return s
}

func newValidator(t *testing.T, conformance string) *validator.Validator {
	t.Helper()
	conf, err := validator.ParseConformance(conformance)
	require.NoError(t, err)
	return validator.New(catalog(t), validator.Config{Conformance: conf, IdentifierExpansion: true})
}

func id(names ...string) *sqlnode.Identifier { return sqlnode.NewIdentifier(zero, names...) }

func num(v string) *sqlnode.Literal { return &sqlnode.Literal{Type: sqlnode.ExactLiteral, Value: v} }

func str(v string) *sqlnode.Literal { return &sqlnode.Literal{Type: sqlnode.CharLiteral, Value: v} }

func call(op *sqlnode.Operator, operands ...sqlnode.Node) *sqlnode.BasicCall {
	return sqlnode.NewCall(op, zero, operands...)
}

func list(nodes ...sqlnode.Node) *sqlnode.NodeList { return sqlnode.NewNodeList(zero, nodes...) }

func as(n sqlnode.Node, alias string) *sqlnode.BasicCall { return call(sqlnode.As, n, id(alias)) }

func star() *sqlnode.Identifier { return id("") }

func orders() *sqlnode.Identifier { return id("t_order") }

func ordersJoinUsers(joinType sqlnode.JoinType) *sqlnode.Join {
	return &sqlnode.Join{
		Left:      as(id("t_order"), "o"),
		Type:      joinType,
		Right:     as(id("t_user"), "u"),
		Condition: call(sqlnode.Equals, id("o", "user_id"), id("u", "user_id")),
	}
}

func TestValidateExpandsIdentifiers(t *testing.T) {
	v := newValidator(t, "")
	out, err := v.Validate(&sqlnode.Select{
		SelectList: list(star()),
		From:       orders(),
		Where:      call(sqlnode.In, id("user_id"), list(num("1"), num("2"))),
	})
	require.NoError(t, err)

	assert.Equal(t, "SELECT t_order.order_id, t_order.user_id, t_order.status FROM t_order WHERE t_order.user_id IN (1, 2)", out.Select.String())
	assert.Equal(t, []string{"order_id", "user_id", "status"}, out.RowType.FieldNames())
	assert.False(t, out.Aggregate)
	assert.EqualValues(t, -1, out.Offset)
	assert.EqualValues(t, -1, out.Fetch)

	where, ok := out.TypeOf(out.Where)
	require.True(t, ok)
	assert.Equal(t, sqltypes.Boolean, where.Type)
	assert.True(t, where.Nullable)

	ref := out.Where.(*sqlnode.BasicCall).Operands[0].(*sqlnode.Identifier)
	field, ok := out.FieldOf(ref)
	require.True(t, ok)
	assert.Equal(t, 1, field)
}

func TestValidateJoin(t *testing.T) {
	v := newValidator(t, "")
	out, err := v.Validate(&sqlnode.Select{
		SelectList: list(id("o", "order_id"), as(id("name"), "user_name")),
		From:       ordersJoinUsers(sqlnode.LeftJoin),
	})
	require.NoError(t, err)

	assert.Equal(t, "SELECT o.order_id, u.name AS user_name FROM t_order AS o LEFT JOIN t_user AS u ON o.user_id = u.user_id", out.Select.String())
	require.Len(t, out.Namespaces, 2)
	assert.Equal(t, 3, out.Namespaces[1].Offset)
	assert.Equal(t, 6, out.FromRowType.FieldCount())

	field, ok := out.FieldOf(out.Items[1].Expr.(*sqlnode.Identifier))
	require.True(t, ok)
	assert.Equal(t, 4, field)
	assert.Equal(t, "user_name", out.Items[1].Name)
	assert.Equal(t, sqltypes.VarChar, out.Items[1].Type.Type)

	join, ok := out.From.(*validator.JoinItem)
	require.True(t, ok)
	start, width := join.Span()
	assert.Equal(t, 0, start)
	assert.Equal(t, 6, width)
}

func TestValidateErrors(t *testing.T) {
	testcases := []struct {
		name        string
		conformance string
		stmt        *sqlnode.Select
		id          string
		msg         string
	}{{
		name: "unknown column",
		stmt: &sqlnode.Select{SelectList: list(id("amount")), From: orders()},
		id:   "FED03001",
		msg:  "unknown column 'amount' in 'field list'",
	}, {
		name: "unknown table",
		stmt: &sqlnode.Select{SelectList: list(star()), From: id("t_item")},
		id:   "FED03002",
		msg:  "table 't_item' not found in schema 'ds_0'",
	}, {
		name: "table of another schema",
		stmt: &sqlnode.Select{SelectList: list(star()), From: id("ds_1", "t_order")},
		id:   "FED03002",
	}, {
		name: "ambiguous column",
		stmt: &sqlnode.Select{SelectList: list(id("user_id")), From: ordersJoinUsers(sqlnode.InnerJoin)},
		id:   "FED03004",
	}, {
		name: "duplicate alias",
		stmt: &sqlnode.Select{SelectList: list(star()), From: &sqlnode.Join{Left: orders(), Type: sqlnode.CommaJoin, Right: as(id("t_user"), "t_order")}},
		id:   "FED03009",
	}, {
		name: "arithmetic on characters",
		stmt: &sqlnode.Select{SelectList: list(call(sqlnode.Plus, id("status"), num("1"))), From: orders()},
		id:   "FED03003",
		msg:  "cannot apply '+' to arguments of type <VARCHAR>, <BIGINT>",
	}, {
		name: "like on numbers",
		stmt: &sqlnode.Select{SelectList: list(star()), From: orders(), Where: call(sqlnode.Like, id("order_id"), str("1%"))},
		id:   "FED03003",
	}, {
		name: "in list of another family",
		stmt: &sqlnode.Select{SelectList: list(star()), From: orders(), Where: call(sqlnode.In, id("order_id"), list(num("1"), &sqlnode.Literal{Type: sqlnode.BooleanLiteral, Value: "true"}, str("x")))},
		id:   "FED03003",
	}, {
		name: "unknown function",
		stmt: &sqlnode.Select{SelectList: list(call(sqlnode.NewUnresolvedFunction("md5"), id("status"))), From: orders()},
		id:   "FED03005",
		msg:  "no match found for function signature MD5()",
	}, {
		name: "wrong argument count",
		stmt: &sqlnode.Select{SelectList: list(call(sqlnode.Upper)), From: orders()},
		id:   "FED03005",
	}, {
		name: "subquery with two columns",
		stmt: &sqlnode.Select{
			SelectList: list(star()),
			From:       orders(),
			Where:      call(sqlnode.In, id("user_id"), &sqlnode.Select{SelectList: list(id("user_id"), id("age")), From: id("t_user")}),
		},
		id:  "FED03006",
		msg: "subquery returns 2 columns, expected 1",
	}, {
		name: "order by ordinal out of range",
		stmt: &sqlnode.Select{SelectList: list(id("status")), From: orders(), OrderBy: list(num("2"))},
		id:   "FED03007",
		msg:  "invalid reference '2' in ORDER BY clause",
	}, {
		name: "distinct sorted by a column it drops",
		stmt: &sqlnode.Select{Distinct: true, SelectList: list(id("status")), From: orders(), OrderBy: list(id("order_id"))},
		id:   "FED03007",
	}, {
		name: "column not grouped",
		stmt: &sqlnode.Select{
			SelectList: list(id("status"), call(sqlnode.Count)),
			From:       orders(),
			GroupBy:    list(id("user_id")),
		},
		id:  "FED03008",
		msg: "expression 't_order.status' is not being grouped",
	}, {
		name: "aggregate in where",
		stmt: &sqlnode.Select{
			SelectList: list(star()),
			From:       orders(),
			Where:      call(sqlnode.GreaterThan, call(sqlnode.Count), num("1")),
		},
		id:  "FED03010",
		msg: "aggregate function COUNT not allowed in WHERE clause",
	}, {
		name: "group by alias needs lenient conformance",
		stmt: &sqlnode.Select{SelectList: list(as(id("user_id"), "uid")), From: orders(), GroupBy: list(id("uid"))},
		id:   "FED03001",
		msg:  "unknown column 'uid' in 'group statement'",
	}, {
		name:        "group by aggregate ordinal",
		conformance: "mysql",
		stmt:        &sqlnode.Select{SelectList: list(call(sqlnode.Count)), From: orders(), GroupBy: list(num("1"))},
		id:          "FED03010",
	}, {
		name: "nested aggregate",
		stmt: &sqlnode.Select{SelectList: list(call(sqlnode.Max, call(sqlnode.Count))), From: orders()},
		id:   "FED12001",
	}, {
		name: "derived table",
		stmt: &sqlnode.Select{SelectList: list(star()), From: as(&sqlnode.Select{SelectList: list(star()), From: orders()}, "d")},
		id:   "FED12001",
	}, {
		name: "non literal fetch",
		stmt: &sqlnode.Select{SelectList: list(star()), From: orders(), Fetch: &sqlnode.DynamicParam{}},
		id:   "FED12001",
	}}
	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := newValidator(t, tc.conformance).Validate(tc.stmt)
			require.Error(t, err)

			var ve *federrors.ValidationError
			require.True(t, errors.As(err, &ve), "%v is not a validation error", err)
			var fe *federrors.FedError
			require.True(t, errors.As(err, &fe))
			assert.Equal(t, tc.id, fe.ID)
			if tc.msg != "" {
				assert.Contains(t, err.Error(), tc.msg)
			}
		})
	}
}

func TestValidateErrorPosition(t *testing.T) {
	col := sqlnode.NewIdentifier(sqlnode.NewPos(1, 8, 13), "amount")
	_, err := newValidator(t, "").Validate(&sqlnode.Select{SelectList: list(col), From: orders()})

	var ve *federrors.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, 1, ve.Line)
	assert.Equal(t, 8, ve.Column)
	assert.Equal(t, 13, ve.EndColumn)
}

func TestValidateLenientOperatorLookup(t *testing.T) {
	v := validator.New(catalog(t), validator.Config{LenientOperatorLookup: true, Conformance: validator.DefaultConformance, IdentifierExpansion: true})
	out, err := v.Validate(&sqlnode.Select{
		SelectList: list(call(sqlnode.NewUnresolvedFunction("md5"), id("status"))),
		From:       orders(),
	})
	require.NoError(t, err)
	assert.Equal(t, sqltypes.Unknown, out.Items[0].Type.Type)
	assert.True(t, out.Items[0].Type.Nullable)
}

func TestValidateAggregate(t *testing.T) {
	v := newValidator(t, "mysql")
	out, err := v.Validate(&sqlnode.Select{
		SelectList: list(as(id("user_id"), "uid"), as(call(sqlnode.Count), "cnt"), as(call(sqlnode.Sum, id("order_id")), "total")),
		From:       orders(),
		GroupBy:    list(id("uid")),
		Having:     call(sqlnode.GreaterThan, id("cnt"), num("1")),
		OrderBy:    list(call(sqlnode.Desc, id("cnt"))),
	})
	require.NoError(t, err)

	assert.True(t, out.Aggregate)
	assert.Equal(t, "SELECT t_order.user_id AS uid, COUNT(*) AS cnt, SUM(t_order.order_id) AS total FROM t_order"+
		" GROUP BY t_order.user_id HAVING COUNT(*) > 1 ORDER BY COUNT(*) DESC", out.Select.String())

	assert.Equal(t, reltype.RelType{Type: sqltypes.Int64}, out.Items[1].Type)
	assert.Equal(t, reltype.RelType{Type: sqltypes.Int64, Nullable: true}, out.Items[2].Type)

	require.Len(t, out.OrderBy, 1)
	assert.Equal(t, 1, out.OrderBy[0].Ordinal)
	assert.True(t, out.OrderBy[0].Descending)
	assert.True(t, out.OrderBy[0].NullsFirst)
}

func TestValidateOrderBy(t *testing.T) {
	testcases := []struct {
		name       string
		collation  validator.NullCollation
		key        sqlnode.Node
		ordinal    int
		descending bool
		nullsFirst bool
	}{{
		name:    "ordinal",
		key:     num("2"),
		ordinal: 1,
	}, {
		name:    "alias",
		key:     id("s"),
		ordinal: 1,
	}, {
		name:       "expression outside the select list",
		key:        call(sqlnode.Desc, id("user_id")),
		ordinal:    -1,
		descending: true,
		nullsFirst: true,
	}, {
		name:       "nulls low",
		collation:  validator.NullsLow,
		key:        id("order_id"),
		nullsFirst: true,
	}, {
		name:       "explicit nulls last",
		collation:  validator.NullsFirst,
		key:        call(sqlnode.NullsLast, call(sqlnode.Desc, id("order_id"))),
		descending: true,
	}}
	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			v := validator.New(catalog(t), validator.Config{Conformance: validator.DefaultConformance, NullCollation: tc.collation, IdentifierExpansion: true})
			out, err := v.Validate(&sqlnode.Select{
				SelectList: list(id("order_id"), as(id("status"), "s")),
				From:       orders(),
				OrderBy:    list(tc.key),
			})
			require.NoError(t, err)
			require.Len(t, out.OrderBy, 1)
			oi := out.OrderBy[0]
			assert.Equal(t, tc.ordinal, oi.Ordinal)
			assert.Equal(t, tc.descending, oi.Descending)
			assert.Equal(t, tc.nullsFirst, oi.NullsFirst)
		})
	}
}

func TestValidateInSubquery(t *testing.T) {
	v := newValidator(t, "")
	sub := &sqlnode.Select{SelectList: list(id("user_id")), From: id("t_user"), Where: call(sqlnode.GreaterThan, id("age"), num("18"))}
	out, err := v.Validate(&sqlnode.Select{
		SelectList: list(id("order_id")),
		From:       orders(),
		Where:      call(sqlnode.Not, call(sqlnode.In, id("user_id"), sub)),
	})
	require.NoError(t, err)

	in := out.Where.(*sqlnode.BasicCall).Operands[0].(*sqlnode.BasicCall)
	sel, ok := in.Operands[1].(*sqlnode.Select)
	require.True(t, ok)
	validated, ok := out.Subquery(sel)
	require.True(t, ok)
	assert.Equal(t, []string{"user_id"}, validated.RowType.FieldNames())
	assert.Equal(t, "SELECT t_user.user_id FROM t_user WHERE t_user.age > 18", sel.String())
}

func TestValidateLimit(t *testing.T) {
	out, err := newValidator(t, "").Validate(&sqlnode.Select{
		SelectList: list(star()),
		From:       orders(),
		Offset:     num("5"),
		Fetch:      num("10"),
	})
	require.NoError(t, err)
	assert.EqualValues(t, 5, out.Offset)
	assert.EqualValues(t, 10, out.Fetch)
}

func TestParseConformance(t *testing.T) {
	c, err := validator.ParseConformance("MySQL")
	require.NoError(t, err)
	assert.True(t, c.GroupByAlias)
	assert.True(t, c.HavingAlias)

	c, err = validator.ParseConformance("strict")
	require.NoError(t, err)
	assert.False(t, c.SortByAlias)
	assert.True(t, c.SortByOrdinal)

	_, err = validator.ParseConformance("oracle")
	assert.Error(t, err)

	nc, err := validator.ParseNullCollation("LAST")
	require.NoError(t, err)
	assert.Equal(t, validator.NullsLast, nc)
	assert.True(t, nc.Last(true))
	assert.False(t, validator.NullsHigh.Last(true))
}
