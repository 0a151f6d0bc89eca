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

package sqlexec

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fedgate.io/fedgate/go/fed/federation/metadata"
	"fedgate.io/fedgate/go/fed/federation/reltype"
	"fedgate.io/fedgate/go/fed/federation/rex"
	"fedgate.io/fedgate/go/fed/federation/sqlnode"
	"fedgate.io/fedgate/go/fed/federation/table"
	"fedgate.io/fedgate/go/fed/federation/table/tabletest"
	"fedgate.io/fedgate/go/fed/federrors"
	"fedgate.io/fedgate/go/sqltypes"
	"fedgate.io/fedgate/go/test/utils"
)

var boolType = reltype.RelType{Type: sqltypes.Boolean, Nullable: true}

func col(i int, typ sqltypes.Type) *rex.InputRef {
	return &rex.InputRef{Index: i, T: reltype.RelType{Type: typ, Nullable: true}}
}

func lit(v sqltypes.Value) *rex.Literal {
	return &rex.Literal{Value: v, T: reltype.RelType{Type: v.Type()}}
}

func call(op *sqlnode.Operator, operands ...rex.Node) rex.Node {
	return rex.NewCall(op, boolType, operands...)
}

func TestRender(t *testing.T) {
	orders := tabletest.OrderTable(-1)
	userID, orderID, status := col(1, sqltypes.Int32), col(0, sqltypes.Int64), col(2, sqltypes.VarChar)

	testcases := []struct {
		name    string
		dialect Dialect
		req     table.ScanRequest
		sql     string
		args    []any
	}{{
		name:    "mysql projection and filter",
		dialect: MySQL,
		req: table.ScanRequest{
			Filters:  []rex.Node{call(sqlnode.Equals, userID, lit(sqltypes.NewInt64(10)))},
			Projects: []int{2, 0},
		},
		sql:  "SELECT `status`, `order_id` FROM `t_order` WHERE (`user_id` = ?)",
		args: []any{int64(10)},
	}, {
		name:    "postgres in list and is not null",
		dialect: PostgreSQL,
		req: table.ScanRequest{
			Filters: []rex.Node{
				call(sqlnode.In, userID, lit(sqltypes.NewInt64(1)), lit(sqltypes.NewInt64(2))),
				call(sqlnode.IsNotNull, status),
			},
		},
		sql:  `SELECT "order_id", "user_id", "status" FROM "t_order" WHERE ("user_id" IN ($1, $2)) AND ("status" IS NOT NULL)`,
		args: []any{int64(1), int64(2)},
	}, {
		name:    "sqlite disjunction and negation",
		dialect: SQLite,
		req: table.ScanRequest{
			Filters: []rex.Node{
				rex.Or(call(sqlnode.LessThan, orderID, lit(sqltypes.NewInt64(5))), call(sqlnode.GreaterThan, orderID, lit(sqltypes.NewInt64(100)))),
				rex.Not(call(sqlnode.Like, status, lit(sqltypes.NewVarChar("p%")))),
			},
			Projects: []int{0},
		},
		sql:  `SELECT "order_id" FROM "t_order" WHERE (("order_id" < ?) OR ("order_id" > ?)) AND (NOT ("status" LIKE ?))`,
		args: []any{int64(5), int64(100), "p%"},
	}, {
		name:    "null literal is not bound",
		dialect: SQLite,
		req: table.ScanRequest{
			Filters:  []rex.Node{call(sqlnode.NotEquals, status, rex.NewNullLiteral(sqltypes.VarChar))},
			Projects: []int{0},
		},
		sql: `SELECT "order_id" FROM "t_order" WHERE ("status" <> NULL)`,
	}}
	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			q, err := Render(tc.dialect, orders, tc.req)
			require.NoError(t, err)
			assert.Equal(t, tc.sql, q.SQL)
			assert.Equal(t, tc.args, q.Args)
		})
	}
}

func TestRenderErrors(t *testing.T) {
	orders := tabletest.OrderTable(-1)
	upper := rex.NewCall(sqlnode.Upper, reltype.RelType{Type: sqltypes.VarChar}, col(2, sqltypes.VarChar))

	_, err := Render(MySQL, orders, table.ScanRequest{Filters: []rex.Node{call(sqlnode.Equals, upper, lit(sqltypes.NewVarChar("A")))}})
	var fe *federrors.FedError
	require.True(t, errors.As(err, &fe), err)
	assert.Equal(t, "FED12001", fe.ID)

	param := &rex.DynamicParam{Index: 0, T: reltype.RelType{Type: sqltypes.Int64}}
	_, err = Render(MySQL, orders, table.ScanRequest{Filters: []rex.Node{call(sqlnode.Equals, col(0, sqltypes.Int64), param)}})
	require.True(t, errors.As(err, &fe), err)
	assert.Equal(t, "FED12001", fe.ID)

	_, err = Render(MySQL, orders, table.ScanRequest{Projects: []int{7}})
	var ips *federrors.IllegalPlanStateError
	assert.True(t, errors.As(err, &ips), err)
}

func TestDialectFor(t *testing.T) {
	for driver, want := range map[string]string{"mysql": "mysql", "postgresql": "postgres", "pq": "postgres", "sqlite3": "sqlite", "SQLite": "sqlite"} {
		d, err := DialectFor(driver)
		require.NoError(t, err, driver)
		assert.Equal(t, want, d.Name)
	}
	_, err := DialectFor("oracle")
	assert.Error(t, err)
}

func TestNormalizeDSN(t *testing.T) {
	dsn, err := MySQL.NormalizeDSN("root@tcp(127.0.0.1:3306)/ds_0?loc=Local")
	require.NoError(t, err)
	assert.Equal(t, "root@tcp(127.0.0.1:3306)/ds_0?parseTime=true", dsn)

	_, err = MySQL.NormalizeDSN("root@tcp(127.0.0.1:3306")
	assert.Error(t, err)

	dsn, err = PostgreSQL.NormalizeDSN("postgres://bob:secret@db:5432/ds_1?sslmode=disable")
	require.NoError(t, err)
	assert.Equal(t, "dbname='ds_1' host='db' password='secret' port='5432' sslmode='disable' user='bob'", dsn)

	dsn, err = PostgreSQL.NormalizeDSN("host=db dbname=ds_1")
	require.NoError(t, err)
	assert.Equal(t, "host=db dbname=ds_1", dsn)

	dsn, err = SQLite.NormalizeDSN("file:ds_0.db")
	require.NoError(t, err)
	assert.Equal(t, "file:ds_0.db", dsn)
}

func newOrdersDB(t *testing.T) (string, *sql.DB) {
	path := filepath.Join(t.TempDir(), "ds_0.db")
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	for _, stmt := range []string{
		`CREATE TABLE t_order (order_id BIGINT PRIMARY KEY, user_id INT, status VARCHAR(32))`,
		`INSERT INTO t_order VALUES (1, 10, 'paid'), (2, 10, NULL), (3, 11, 'new')`,
	} {
		_, err := db.Exec(stmt)
		require.NoError(t, err)
	}
	return path, db
}

func collect(t *testing.T, seq table.RowSequence) []sqltypes.Row {
	t.Helper()
	defer seq.Close()
	var rows []sqltypes.Row
	for seq.Next() {
		rows = append(rows, seq.Row())
	}
	require.NoError(t, seq.Err())
	return rows
}

func TestExecute(t *testing.T) {
	ctx := utils.LeakCheckContext(t)
	_, db := newOrdersDB(t)
	st := tabletest.NewTable(t, "ds_0", tabletest.OrderTable(3), New("ds_0", db, SQLite))

	seq, err := st.Scan(ctx, table.ScanRequest{
		Filters:  []rex.Node{call(sqlnode.Equals, col(1, sqltypes.Int32), lit(sqltypes.NewInt64(10)))},
		Projects: []int{2, 0},
	})
	require.NoError(t, err)
	assert.Equal(t, []sqltypes.Row{
		{sqltypes.NewVarChar("paid"), sqltypes.NewInt64(1)},
		{sqltypes.NULL, sqltypes.NewInt64(2)},
	}, collect(t, seq))

	seq, err = st.Scan(ctx, table.ScanRequest{Filters: []rex.Node{call(sqlnode.IsNull, col(2, sqltypes.VarChar))}})
	require.NoError(t, err)
	rows := collect(t, seq)
	require.Len(t, rows, 1)
	assert.Equal(t, sqltypes.Row{sqltypes.NewInt64(2), sqltypes.MakeTrusted(sqltypes.Int32, []byte("10")), sqltypes.NULL}, rows[0])
}

func TestExecuteErrors(t *testing.T) {
	_, db := newOrdersDB(t)
	exec := New("ds_0", db, SQLite)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := exec.Execute(ctx, tabletest.OrderTable(3), table.ScanRequest{})
	var ee *federrors.ExecutionError
	require.True(t, errors.As(err, &ee), err)
	assert.Equal(t, "t_order", ee.Table)
	assert.ErrorIs(t, err, context.Canceled)

	_, err = exec.Execute(context.Background(), tabletest.UserTable(3), table.ScanRequest{})
	require.True(t, errors.As(err, &ee), err)
	assert.Equal(t, "ds_0", ee.Schema)
	assert.Equal(t, "t_user", ee.Table)
}

func TestProvider(t *testing.T) {
	path, _ := newOrdersDB(t)
	p := NewProvider()
	defer p.Close()

	ds := &metadata.DataSource{Driver: "sqlite", DSN: path}
	for _, name := range []string{"ds_0", "ds_0_copy"} {
		exec, err := p.Executor("sharding_db", &metadata.LogicalSchema{Name: name, DataSource: ds})
		require.NoError(t, err)
		seq, err := exec.Execute(context.Background(), tabletest.OrderTable(3), table.ScanRequest{Projects: []int{0}})
		require.NoError(t, err)
		assert.Len(t, collect(t, seq), 3)
	}
	assert.Len(t, p.dbs, 1)

	_, err := p.Executor("sharding_db", &metadata.LogicalSchema{Name: "ds_1"})
	assert.Equal(t, "FAILED_PRECONDITION", federrors.Code(err).String())

	_, err = p.Executor("sharding_db", &metadata.LogicalSchema{Name: "ds_2", DataSource: &metadata.DataSource{Driver: "oracle"}})
	assert.Error(t, err)

	require.NoError(t, p.Close())
	assert.Empty(t, p.dbs)
}
