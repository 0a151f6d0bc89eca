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

package volcano

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fedgate.io/fedgate/go/fed/federation/rel"
	"fedgate.io/fedgate/go/fed/federation/reltype"
	"fedgate.io/fedgate/go/fed/federation/rex"
	"fedgate.io/fedgate/go/fed/federation/sqlnode"
	"fedgate.io/fedgate/go/fed/federation/table/tabletest"
	"fedgate.io/fedgate/go/fed/federrors"
	"fedgate.io/fedgate/go/sqltypes"
)

var boolType = reltype.RelType{Type: sqltypes.Boolean, Nullable: true}

func scans(t *testing.T) (*rel.TableScan, *rel.TableScan) {
	exec := tabletest.NewStaticExecutor()
	orders := &rel.TableScan{Table: tabletest.NewTable(t, "ds_0", tabletest.OrderTable(1000), exec)}
	users := &rel.TableScan{Table: tabletest.NewTable(t, "ds_0", tabletest.UserTable(100), exec)}
	return orders, users
}

func intLiteral(v int64) *rex.Literal {
	return &rex.Literal{Value: sqltypes.NewInt64(v), T: reltype.RelType{Type: sqltypes.Int64}}
}

func strLiteral(v string) *rex.Literal {
	return &rex.Literal{Value: sqltypes.NewVarChar(v), T: reltype.RelType{Type: sqltypes.VarChar}}
}

func call(op *sqlnode.Operator, operands ...rex.Node) rex.Node {
	return rex.NewCall(op, boolType, operands...)
}

func ref(n rel.Node, i int) *rex.InputRef {
	return rex.NewInputRef(n.RowType(), i)
}

func upper(n rex.Node) rex.Node {
	return rex.NewCall(sqlnode.Upper, reltype.RelType{Type: sqltypes.VarChar, Nullable: true}, n)
}

func TestFindBestExp(t *testing.T) {
	orders, users := scans(t)
	joined := &rel.Join{Left: orders, Right: users, Type: rel.InnerJoin}
	count := rel.AggregateCall{Op: sqlnode.Count, Type: reltype.RelType{Type: sqltypes.Int64}, Name: "cnt"}

	testcases := []struct {
		name string
		plan rel.Node
		want string
	}{{
		name: "plain scan",
		plan: orders,
		want: "TableScanExec (ds_0.t_order)\n",
	}, {
		name: "filter and projection pushed into the scan",
		plan: rel.NewIdentityProject(&rel.Filter{
			Input:     orders,
			Condition: rex.And(call(sqlnode.Equals, ref(orders, 1), intLiteral(10)), call(sqlnode.GreaterThan, ref(orders, 0), intLiteral(5))),
		}, []int{2}),
		want: "TableScanExec (ds_0.t_order filters=[=($1, 10) >($0, 5)] projects=[2])\n",
	}, {
		name: "filter that cannot be pushed",
		plan: &rel.Filter{Input: orders, Condition: call(sqlnode.Equals, upper(ref(orders, 2)), strLiteral("PAID"))},
		want: "FilterExec (=(UPPER($2), 'PAID'))\n" +
			"└── TableScanExec (ds_0.t_order)\n",
	}, {
		name: "partially pushed filter",
		plan: rel.NewIdentityProject(&rel.Filter{
			Input:     orders,
			Condition: rex.And(call(sqlnode.Equals, upper(ref(orders, 2)), strLiteral("PAID")), call(sqlnode.GreaterThan, ref(orders, 1), intLiteral(3))),
		}, []int{0}),
		want: "ProjectExec (order_id=$0)\n" +
			"└── FilterExec (=(UPPER($1), 'PAID'))\n" +
			"    └── TableScanExec (ds_0.t_order filters=[>($1, 3)] projects=[0 2])\n",
	}, {
		name: "hash join builds the smaller side",
		plan: &rel.Join{Left: orders, Right: users, Type: rel.InnerJoin, Condition: call(sqlnode.Equals, ref(joined, 1), ref(joined, 3))},
		want: "HashJoinExec (inner left=[1] right=[0] build=right)\n" +
			"├── TableScanExec (ds_0.t_order)\n" +
			"└── TableScanExec (ds_0.t_user)\n",
	}, {
		name: "hash join builds the left side",
		plan: &rel.Join{Left: users, Right: orders, Type: rel.LeftJoin, Condition: call(sqlnode.Equals, ref(joined, 4), ref(joined, 0))},
		want: "HashJoinExec (left left=[0] right=[1] build=left)\n" +
			"├── TableScanExec (ds_0.t_user)\n" +
			"└── TableScanExec (ds_0.t_order)\n",
	}, {
		name: "hash join with remaining condition",
		plan: &rel.Join{
			Left:      orders,
			Right:     users,
			Type:      rel.InnerJoin,
			Condition: rex.And(call(sqlnode.Equals, ref(joined, 1), ref(joined, 3)), call(sqlnode.GreaterThan, ref(joined, 0), ref(joined, 5))),
		},
		want: "HashJoinExec (inner left=[1] right=[0] remaining=>($0, $5) build=right)\n" +
			"├── TableScanExec (ds_0.t_order)\n" +
			"└── TableScanExec (ds_0.t_user)\n",
	}, {
		name: "non equi join",
		plan: &rel.Join{Left: orders, Right: users, Type: rel.InnerJoin, Condition: call(sqlnode.GreaterThan, ref(joined, 0), ref(joined, 3))},
		want: "NestedLoopJoinExec (inner >($0, $3))\n" +
			"├── TableScanExec (ds_0.t_order)\n" +
			"└── TableScanExec (ds_0.t_user)\n",
	}, {
		name: "aggregate sort and limit",
		plan: &rel.Sort{
			Input:     &rel.Aggregate{Input: orders, GroupSet: []int{1}, Calls: []rel.AggregateCall{count}},
			Collation: []rel.FieldCollation{{Index: 1, Descending: true}},
			Offset:    rel.NoLimit,
			Fetch:     10,
		},
		want: "LimitExec (fetch=10)\n" +
			"└── SortExec ($1 DESC NULLS LAST)\n" +
			"    └── HashAggregateExec (group=[1], cnt=COUNT())\n" +
			"        └── TableScanExec (ds_0.t_order)\n",
	}, {
		name: "limit without collation",
		plan: &rel.Sort{Input: orders, Offset: 5, Fetch: 10},
		want: "LimitExec (offset=5, fetch=10)\n" +
			"└── TableScanExec (ds_0.t_order)\n",
	}, {
		name: "filter above a join",
		plan: &rel.Filter{
			Input:     &rel.Join{Left: orders, Right: users, Type: rel.InnerJoin, Condition: call(sqlnode.GreaterThan, ref(joined, 0), ref(joined, 3))},
			Condition: call(sqlnode.IsNull, ref(joined, 4)),
		},
		want: "FilterExec (IS NULL($4))\n" +
			"└── NestedLoopJoinExec (inner >($0, $3))\n" +
			"    ├── TableScanExec (ds_0.t_order)\n" +
			"    └── TableScanExec (ds_0.t_user)\n",
	}}
	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			p := New(DefaultCostModel)
			require.NoError(t, p.SetRoot(tc.plan))
			got, err := p.FindBestExp()
			require.NoError(t, err)
			assert.Equal(t, tc.want, rel.ToTree(got))
			assert.True(t, rel.IsPhysical(got))
		})
	}
}

func TestCost(t *testing.T) {
	orders, _ := scans(t)
	p := New(DefaultCostModel)
	require.NoError(t, p.SetRoot(orders))
	assert.True(t, math.IsInf(p.Cost(), 1))

	_, err := p.FindBestExp()
	require.NoError(t, err)
	// 1000 rows of 3 values.
	assert.Equal(t, 12000.0, p.Cost())
}

func TestPushdownIsCheaper(t *testing.T) {
	orders, _ := scans(t)
	plan := &rel.Filter{Input: orders, Condition: call(sqlnode.Equals, ref(orders, 1), intLiteral(10))}

	p := New(DefaultCostModel)
	require.NoError(t, p.SetRoot(plan))
	got, err := p.FindBestExp()
	require.NoError(t, err)

	scan, ok := got.(*rel.TableScanExec)
	require.True(t, ok, rel.ToTree(got))
	assert.Len(t, scan.Request().Filters, 1)
	assert.Less(t, p.Cost(), 12000.0)
}

func TestFindBestExpErrors(t *testing.T) {
	orders, _ := scans(t)
	var ips *federrors.IllegalPlanStateError

	p := New(DefaultCostModel)
	assert.True(t, errors.As(p.SetRoot(nil), &ips))
	_, err := p.FindBestExp()
	assert.True(t, errors.As(err, &ips))

	require.NoError(t, p.SetRoot(&rel.TableScanExec{Table: orders.Table}))
	_, err = p.FindBestExp()
	assert.True(t, errors.As(err, &ips))
}

func TestPushable(t *testing.T) {
	orders, _ := scans(t)
	col := ref(orders, 1)
	testcases := []struct {
		name string
		expr rex.Node
		want bool
	}{
		{"comparison", call(sqlnode.LessThan, col, intLiteral(1)), true},
		{"constant on the left", call(sqlnode.LessThan, intLiteral(1), col), true},
		{"parameter", call(sqlnode.Equals, col, &rex.DynamicParam{Index: 0, T: col.T}), true},
		{"in list", call(sqlnode.In, col, intLiteral(1), intLiteral(2)), true},
		{"like", call(sqlnode.Like, ref(orders, 2), strLiteral("p%")), true},
		{"is null", call(sqlnode.IsNull, col), true},
		{"conjunction", rex.And(call(sqlnode.IsNull, col), call(sqlnode.Equals, col, intLiteral(2))), true},
		{"negation", rex.Not(call(sqlnode.Equals, col, intLiteral(2))), true},
		{"two columns", call(sqlnode.Equals, col, ref(orders, 0)), false},
		{"function", call(sqlnode.Equals, upper(ref(orders, 2)), strLiteral("A")), false},
		{"disjunction with a function", rex.Or(call(sqlnode.IsNull, col), call(sqlnode.Equals, upper(ref(orders, 2)), strLiteral("A"))), false},
		{"bare column", col, false},
	}
	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Pushable(tc.expr))
		})
	}
}
