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
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fedgate.io/fedgate/go/fed/federation/reltype"
	"fedgate.io/fedgate/go/fed/federation/rex"
	"fedgate.io/fedgate/go/fed/federation/sqlnode"
	"fedgate.io/fedgate/go/fed/federation/table/tabletest"
	"fedgate.io/fedgate/go/sqltypes"
)

var boolType = reltype.RelType{Type: sqltypes.Boolean, Nullable: true}

func scans(t *testing.T) (*TableScan, *TableScan) {
	exec := tabletest.NewStaticExecutor()
	orders := &TableScan{Table: tabletest.NewTable(t, "ds_0", tabletest.OrderTable(1000), exec)}
	users := &TableScan{Table: tabletest.NewTable(t, "ds_0", tabletest.UserTable(-1), exec)}
	return orders, users
}

func intLiteral(v int64) *rex.Literal {
	return &rex.Literal{Value: sqltypes.NewInt64(v), T: reltype.RelType{Type: sqltypes.Int64}}
}

func TestJoinRowType(t *testing.T) {
	orders, users := scans(t)

	join := &Join{Left: orders, Right: users, Type: InnerJoin}
	assert.Equal(t, []string{"order_id", "user_id", "status", "user_id", "name", "age"}, join.RowType().FieldNames())

	semi := &Join{Left: orders, Right: users, Type: SemiJoin}
	assert.Equal(t, orders.RowType(), semi.RowType())
	assert.False(t, SemiJoin.ProjectsRight())
	assert.True(t, LeftJoin.ProjectsRight())
}

func TestNewProjectNames(t *testing.T) {
	orders, _ := scans(t)
	rt := orders.RowType()
	plus := rex.NewCall(sqlnode.Plus, rt.Fields[1].Type, rex.NewInputRef(rt, 1), intLiteral(1))

	p := NewProject(orders, []rex.Node{rex.NewInputRef(rt, 2), plus, rex.NewInputRef(rt, 0)}, []string{"", "", "id"})
	assert.Equal(t, []string{"status", "EXPR$1", "id"}, p.RowType().FieldNames())

	id := NewIdentityProject(orders, []int{2, 0})
	assert.Equal(t, []string{"status", "order_id"}, id.RowType().FieldNames())
}

func TestAggregateRowType(t *testing.T) {
	orders, _ := scans(t)
	agg := &Aggregate{
		Input:    orders,
		GroupSet: []int{1},
		Calls: []AggregateCall{
			{Op: sqlnode.Count, Type: reltype.RelType{Type: sqltypes.Int64}, Name: "cnt"},
			{Op: sqlnode.Max, Args: []int{0}, Distinct: true, Type: orders.RowType().Fields[0].Type, Name: "EXPR$2"},
		},
	}
	assert.Equal(t, []string{"user_id", "cnt", "EXPR$2"}, agg.RowType().FieldNames())
	assert.Equal(t, "group=[1], cnt=COUNT(), EXPR$2=MAX(DISTINCT $0)", agg.ShortDescription())
}

func TestToTree(t *testing.T) {
	orders, users := scans(t)
	cond := rex.NewCall(sqlnode.Equals, boolType, rex.NewInputRef(orders.RowType(), 1), intLiteral(10))
	plan := &Sort{
		Input:     &Join{Left: &Filter{Input: orders, Condition: cond}, Right: users, Type: LeftJoin},
		Collation: []FieldCollation{{Index: 0, Descending: true, NullsFirst: true}},
		Offset:    NoLimit,
		Fetch:     5,
	}

	want := "Sort ($0 DESC NULLS FIRST, fetch=5)\n" +
		"└── Join (left)\n" +
		"    ├── Filter (=($1, 10))\n" +
		"    │   └── TableScan (ds_0.t_order)\n" +
		"    └── TableScan (ds_0.t_user)\n"
	assert.Equal(t, want, ToTree(plan))
}

func TestTableScanExec(t *testing.T) {
	orders, _ := scans(t)
	cond := rex.NewCall(sqlnode.Equals, boolType, rex.NewInputRef(orders.RowType(), 1), intLiteral(10))
	scan := &TableScanExec{Table: orders.Table, Filters: []rex.Node{cond}, Projects: []int{2, 0}}

	assert.Equal(t, []string{"status", "order_id"}, scan.RowType().FieldNames())
	assert.Equal(t, "ds_0.t_order filters=[=($1, 10)] projects=[2 0]", scan.ShortDescription())
	req := scan.Request()
	assert.Equal(t, "ds_0", req.Schema)
	assert.Equal(t, []int{2, 0}, req.Projects)
	assert.InDelta(t, 150.0, RowCount(scan), 1e-9)
	assert.True(t, IsPhysical(&LimitExec{Input: scan, Offset: NoLimit, Fetch: 1}))
	assert.False(t, IsPhysical(&LimitExec{Input: orders, Offset: NoLimit, Fetch: 1}))
}

func TestRowCount(t *testing.T) {
	orders, users := scans(t)
	rt := orders.RowType()
	eq := rex.NewCall(sqlnode.Equals, boolType, rex.NewInputRef(rt, 1), intLiteral(10))
	gt := rex.NewCall(sqlnode.GreaterThan, boolType, rex.NewInputRef(rt, 0), intLiteral(10))
	in := rex.NewCall(sqlnode.In, boolType, rex.NewInputRef(rt, 0), intLiteral(1), intLiteral(2))

	testcases := []struct {
		name string
		node Node
		want float64
	}{
		{"known statistics", orders, 1000},
		{"unknown statistics", users, DefaultRowCount},
		{"equality", &Filter{Input: orders, Condition: eq}, 150},
		{"conjunction", &Filter{Input: orders, Condition: rex.And(eq, gt)}, 75},
		{"in list", &Filter{Input: orders, Condition: in}, 300},
		{"negation", &Filter{Input: orders, Condition: rex.Not(eq)}, 850},
		{"cross join", &Join{Left: orders, Right: users, Type: InnerJoin}, 100000},
		{"left join keeps left rows", &Join{Left: orders, Right: users, Type: LeftJoin, Condition: rex.False}, 1000},
		{"global aggregate", &Aggregate{Input: orders}, 1},
		{"grouped aggregate", &Aggregate{Input: orders, GroupSet: []int{1}}, 100},
		{"offset and fetch", &Sort{Input: orders, Offset: 995, Fetch: 10}, 5},
		{"project", NewIdentityProject(orders, []int{0}), 1000},
	}
	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.want, RowCount(tc.node), 1e-9)
		})
	}
}

func TestCollectAndWalk(t *testing.T) {
	orders, users := scans(t)
	plan := &Join{Left: &Filter{Input: orders, Condition: rex.True}, Right: users, Type: InnerJoin}

	got := Collect[*TableScan](plan)
	require.Len(t, got, 2)
	assert.Same(t, users, got[0])
	assert.Same(t, orders, got[1])

	var visited int
	Walk(plan, func(n Node) bool {
		visited++
		_, isFilter := n.(*Filter)
		return !isFilter
	})
	assert.Equal(t, 3, visited)
}

func TestBottomUp(t *testing.T) {
	orders, users := scans(t)
	filter := &Filter{Input: orders, Condition: rex.True}
	plan := &Join{Left: filter, Right: users, Type: InnerJoin}

	out, err := BottomUp(plan, func(n Node) (Node, error) { return n, nil })
	require.NoError(t, err)
	assert.Same(t, plan, out)

	out, err = BottomUp(plan, func(n Node) (Node, error) {
		if f, ok := n.(*Filter); ok && rex.IsAlwaysTrue(f.Condition) {
			return f.Input, nil
		}
		return n, nil
	})
	require.NoError(t, err)
	join := out.(*Join)
	assert.Same(t, orders, join.Left)
	assert.Same(t, users, join.Right)
	assert.Same(t, filter, plan.Left)

	boom := errors.New("boom")
	_, err = BottomUp(plan, func(Node) (Node, error) { return nil, boom })
	assert.Same(t, boom, err)
}
