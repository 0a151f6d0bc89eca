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

package reltype

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fedgate.io/fedgate/go/fed/federation/metadata"
	"fedgate.io/fedgate/go/fed/federrors"
	"fedgate.io/fedgate/go/fed/fedrpc"
	"fedgate.io/fedgate/go/sqltypes"
)

func orderTable() *metadata.LogicalTable {
	return &metadata.LogicalTable{
		Name: "t_order",
		Columns: []*metadata.ColumnDef{
			{Name: "id", DataType: "int", Nullable: false, PrimaryKey: true},
			{Name: "user_id", DataType: "INT", Nullable: false},
		},
	}
}

func TestBuildRowTypeForcesNullable(t *testing.T) {
	rt, err := NewResolver(ForceNullable).BuildRowType(orderTable())
	require.NoError(t, err)

	require.Equal(t, 2, rt.FieldCount())
	assert.Equal(t, []string{"id", "user_id"}, rt.FieldNames())
	for i, f := range rt.Fields {
		assert.Equal(t, i, f.Index)
		assert.Equal(t, RelType{Type: sqltypes.Int32, Nullable: true}, f.Type)
	}
	assert.Equal(t, "RecordType(INTEGER id, INTEGER user_id)", rt.String())
}

func TestBuildRowTypeDeclaredNullability(t *testing.T) {
	table := orderTable()
	table.Columns = append(table.Columns, &metadata.ColumnDef{Name: "status", DataType: "varchar(50)", Nullable: true})

	rt, err := NewResolver(DeclaredNullability).BuildRowType(table)
	require.NoError(t, err)
	assert.Equal(t, "RecordType(INTEGER NOT NULL id, INTEGER NOT NULL user_id, VARCHAR status)", rt.String())
}

func TestResolve(t *testing.T) {
	r := NewResolver(ForceNullable)
	testcases := []struct {
		in   string
		want sqltypes.Type
	}{
		{"bigint", sqltypes.Int64},
		{"Decimal(10, 2)", sqltypes.Decimal},
		{" VARCHAR(32) ", sqltypes.VarChar},
		{"longvarchar", sqltypes.Text},
		{"TIMESTAMP", sqltypes.Timestamp},
		{"json", sqltypes.TypeJSON},
		{"bool", sqltypes.Boolean},
	}
	for _, tc := range testcases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := r.Resolve(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got.Type)
			assert.True(t, got.Nullable)
		})
	}

	_, err := r.Resolve("GEOMETRY")
	assert.Equal(t, fedrpc.Code_FAILED_PRECONDITION, federrors.Code(err))
}

func TestResolveColumnError(t *testing.T) {
	table := orderTable()
	table.Columns = append(table.Columns, &metadata.ColumnDef{Name: "c2", DataType: "GEOMETRY"})

	_, err := NewResolver(ForceNullable).BuildRowType(table)
	var tme *federrors.TypeMappingError
	require.True(t, errors.As(err, &tme))
	assert.Equal(t, "t_order", tme.Table)
	assert.Equal(t, "c2", tme.Column)
	assert.Equal(t, "GEOMETRY", tme.DataType)
	assert.Contains(t, err.Error(), "t_order.c2")
}

func TestRowTypeOperations(t *testing.T) {
	left := NewRowType(
		Field{Name: "a", Type: RelType{Type: sqltypes.Int64}},
		Field{Name: "b", Type: RelType{Type: sqltypes.VarChar}},
	)
	right := NewRowType(Field{Name: "c", Type: RelType{Type: sqltypes.Date}})

	joined := left.Join(right)
	assert.Equal(t, []string{"a", "b", "c"}, joined.FieldNames())
	f, ok := joined.Field("C")
	require.True(t, ok)
	assert.Equal(t, 2, f.Index)
	_, ok = joined.Field("d")
	assert.False(t, ok)

	proj := joined.Project([]int{2, 0})
	assert.Equal(t, []string{"c", "a"}, proj.FieldNames())
	assert.Equal(t, 1, proj.Fields[1].Index)

	nullable := left.Nullable()
	assert.True(t, nullable.Fields[0].Type.Nullable)
	assert.False(t, left.Fields[0].Type.Nullable)
}

func TestTypeRules(t *testing.T) {
	i32 := RelType{Type: sqltypes.Int32}
	i64 := RelType{Type: sqltypes.Int64, Nullable: true}
	dbl := RelType{Type: sqltypes.Float64}
	str := RelType{Type: sqltypes.VarChar}
	date := RelType{Type: sqltypes.Date}
	null := RelType{Type: sqltypes.Null, Nullable: true}

	got, ok := LeastRestrictive(i32, i64)
	require.True(t, ok)
	assert.Equal(t, i64, got)

	got, ok = LeastRestrictive(null, dbl)
	require.True(t, ok)
	assert.Equal(t, RelType{Type: sqltypes.Float64, Nullable: true}, got)

	_, ok = LeastRestrictive(i32, str)
	assert.False(t, ok)
	_, ok = LeastRestrictive()
	assert.False(t, ok)

	assert.True(t, Comparable(str, date))
	assert.False(t, Comparable(date, dbl))

	sum, ok := ArithmeticResult(RelType{Type: sqltypes.Int8}, RelType{Type: sqltypes.Int16})
	require.True(t, ok)
	assert.Equal(t, sqltypes.Int32, sum.Type)
	_, ok = ArithmeticResult(i32, str)
	assert.False(t, ok)

	p, ok := ParseNullabilityPolicy("declared")
	require.True(t, ok)
	assert.Equal(t, DeclaredNullability, p)
	assert.Equal(t, "force-nullable", ForceNullable.String())
	_, ok = ParseNullabilityPolicy("sometimes")
	assert.False(t, ok)
}
