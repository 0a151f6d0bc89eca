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

package tabletest

import (
	"testing"

	"fedgate.io/fedgate/go/fed/federation/metadata"
	"fedgate.io/fedgate/go/fed/federation/reltype"
	"fedgate.io/fedgate/go/fed/federation/table"
)

// OrderTable returns t_order(order_id BIGINT PRIMARY KEY, user_id INT,
// status VARCHAR(32)). A negative row count leaves the statistics unknown.
func OrderTable(rowCount float64) *metadata.LogicalTable {
	return &metadata.LogicalTable{
		Name: "t_order",
		Columns: []*metadata.ColumnDef{
			{Name: "order_id", DataType: "BIGINT", PrimaryKey: true},
			{Name: "user_id", DataType: "INT"},
			{Name: "status", DataType: "VARCHAR(32)"},
		},
		Statistics: rowCountStatistics(rowCount),
	}
}

// UserTable returns t_user(user_id INT PRIMARY KEY, name VARCHAR(64),
// age INT).
func UserTable(rowCount float64) *metadata.LogicalTable {
	return &metadata.LogicalTable{
		Name: "t_user",
		Columns: []*metadata.ColumnDef{
			{Name: "user_id", DataType: "INT", PrimaryKey: true},
			{Name: "name", DataType: "VARCHAR(64)"},
			{Name: "age", DataType: "INT"},
		},
		Statistics: rowCountStatistics(rowCount),
	}
}

func rowCountStatistics(rowCount float64) metadata.TableStatistics {
	if rowCount < 0 {
		return metadata.TableStatistics{}
	}
	return metadata.TableStatistics{RowCount: &rowCount}
}

// NewTable binds lt to executor in the given sub-schema, failing the test
// on error.
func NewTable(t testing.TB, schema string, lt *metadata.LogicalTable, executor table.ScanExecutor) *table.ScannableTable {
	t.Helper()
	rt, err := reltype.NewResolver(reltype.ForceNullable).BuildRowType(lt)
	if err != nil {
		t.Fatal(err)
	}
	st, err := table.NewScannableTable(schema, lt, rt, executor, table.StatisticsOf(lt))
	if err != nil {
		t.Fatal(err)
	}
	return st
}
