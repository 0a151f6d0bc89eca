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

package table_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"fedgate.io/fedgate/go/fed/federation/metadata"
	"fedgate.io/fedgate/go/fed/federation/reltype"
	"fedgate.io/fedgate/go/fed/federation/rex"
	"fedgate.io/fedgate/go/fed/federation/sqlnode"
	"fedgate.io/fedgate/go/fed/federation/table"
	"fedgate.io/fedgate/go/fed/federation/table/tabletest"
	"fedgate.io/fedgate/go/fed/federrors"
	"fedgate.io/fedgate/go/fed/fedrpc"
	"fedgate.io/fedgate/go/sqltypes"
)

func orderTable() *metadata.LogicalTable {
	rows := 1500.0
	return &metadata.LogicalTable{
		Name: "t_order",
		Columns: []*metadata.ColumnDef{
			{Name: "order_id", DataType: "BIGINT", PrimaryKey: true},
			{Name: "user_id", DataType: "INT"},
			{Name: "status", DataType: "VARCHAR(32)"},
		},
		Statistics: metadata.TableStatistics{RowCount: &rows},
	}
}

func newTable(t *testing.T, executor table.ScanExecutor) *table.ScannableTable {
	t.Helper()
	lt := orderTable()
	rt, err := reltype.NewResolver(reltype.ForceNullable).BuildRowType(lt)
	require.NoError(t, err)
	st, err := table.NewScannableTable("ds_0", lt, rt, executor, table.StatisticsOf(lt))
	require.NoError(t, err)
	return st
}

func TestNewScannableTableRequiresExecutor(t *testing.T) {
	lt := orderTable()
	rt, err := reltype.NewResolver(reltype.ForceNullable).BuildRowType(lt)
	require.NoError(t, err)

	st, err := table.NewScannableTable("ds_0", lt, rt, nil, table.Statistics{})
	require.Error(t, err)
	assert.Nil(t, st)
	assert.Equal(t, fedrpc.Code_INTERNAL, federrors.Code(err))
}

func TestNewScannableTableRowTypeMismatch(t *testing.T) {
	lt := orderTable()
	rt := reltype.NewRowType(reltype.Field{Name: "order_id", Type: reltype.RelType{Type: sqltypes.Int64, Nullable: true}})

	_, err := table.NewScannableTable("ds_0", lt, rt, tabletest.NewStaticExecutor(), table.Statistics{})
	require.ErrorContains(t, err, "does not match its columns")
}

func TestScanPushesRequestToExecutor(t *testing.T) {
	ctrl := gomock.NewController(t)
	executor := tabletest.NewMockScanExecutor(ctrl)
	st := newTable(t, executor)

	filter := rex.NewCall(sqlnode.Equals, reltype.RelType{Type: sqltypes.Boolean, Nullable: true},
		rex.NewInputRef(st.RowType(), 1),
		&rex.Literal{Value: sqltypes.NewInt64(10), T: reltype.RelType{Type: sqltypes.Int64}})
	req := table.ScanRequest{Filters: []rex.Node{filter}, Projects: []int{0, 2}}

	executor.EXPECT().
		Execute(gomock.Any(), st.Table(), table.ScanRequest{Schema: "ds_0", Filters: req.Filters, Projects: req.Projects}).
		Return(table.NewSliceSequence([]sqltypes.Row{
			{sqltypes.NewInt64(1), sqltypes.NewVarChar("PAID")},
			{sqltypes.NewInt64(2), sqltypes.NewVarChar("INIT")},
		}), nil)

	seq, err := st.Scan(context.Background(), req)
	require.NoError(t, err)
	rows, err := table.Drain(seq)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "PAID", rows[0][1].ToString())
}

func TestScanAllColumns(t *testing.T) {
	executor := tabletest.NewStaticExecutor()
	executor.Rows["t_order"] = []sqltypes.Row{
		{sqltypes.NewInt64(1), sqltypes.NewInt64(10), sqltypes.NewVarChar("PAID")},
	}
	st := newTable(t, executor)

	seq, err := st.Scan(context.Background(), table.ScanRequest{})
	require.NoError(t, err)
	rows, err := table.Drain(seq)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Len(t, rows[0], 3)

	reqs := executor.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "ds_0", reqs[0].Schema)
	assert.Nil(t, reqs[0].Projects)
}

func TestScanRejectsOutOfRangeProjection(t *testing.T) {
	ctrl := gomock.NewController(t)
	executor := tabletest.NewMockScanExecutor(ctrl)
	st := newTable(t, executor)

	_, err := st.Scan(context.Background(), table.ScanRequest{Projects: []int{0, 3}})
	var illegal *federrors.IllegalPlanStateError
	require.ErrorAs(t, err, &illegal)
}

func TestScanExecutorErrorPassesThrough(t *testing.T) {
	ctrl := gomock.NewController(t)
	executor := tabletest.NewMockScanExecutor(ctrl)
	st := newTable(t, executor)

	boom := errors.New("connection refused")
	executor.EXPECT().Execute(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, boom)

	seq, err := st.Scan(context.Background(), table.ScanRequest{})
	assert.Nil(t, seq)
	assert.Same(t, boom, err)
}

func TestScanChecksRowWidth(t *testing.T) {
	executor := tabletest.NewStaticExecutor()
	executor.Rows["t_order"] = []sqltypes.Row{
		{sqltypes.NewInt64(1), sqltypes.NewInt64(10), sqltypes.NewVarChar("PAID")},
		{sqltypes.NewInt64(2), sqltypes.NewInt64(11)},
	}
	st := newTable(t, executor)

	seq, err := st.Scan(context.Background(), table.ScanRequest{})
	require.NoError(t, err)
	rows, err := table.Drain(seq)
	assert.Len(t, rows, 1)

	var execErr *federrors.ExecutionError
	require.ErrorAs(t, err, &execErr)
	assert.Equal(t, "t_order", execErr.Table)
	var illegal *federrors.IllegalPlanStateError
	assert.ErrorAs(t, err, &illegal)
}

func TestScanHonorsCancellation(t *testing.T) {
	st := newTable(t, tabletest.NewStaticExecutor())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := st.Scan(ctx, table.ScanRequest{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStatistics(t *testing.T) {
	st := newTable(t, tabletest.NewStaticExecutor())
	stats := st.Statistics()
	assert.True(t, stats.Known)
	assert.Equal(t, 1500.0, stats.RowCount)
	assert.True(t, stats.IsUnique([]int{0}))
	assert.True(t, stats.IsUnique([]int{2, 0}))
	assert.False(t, stats.IsUnique([]int{1}))

	unknown := table.StatisticsOf(&metadata.LogicalTable{Name: "t"})
	assert.False(t, unknown.Known)
	assert.False(t, unknown.IsUnique([]int{0}))
}

func TestScanRequestWidth(t *testing.T) {
	assert.Equal(t, 3, table.ScanRequest{}.Width(3))
	assert.Equal(t, 1, table.ScanRequest{Projects: []int{2}}.Width(3))
	assert.Equal(t, 0, table.ScanRequest{Projects: []int{}}.Width(3))
}
