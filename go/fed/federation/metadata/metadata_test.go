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

package metadata

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fedgate.io/fedgate/go/fed/rule"
	"fedgate.io/fedgate/go/test/utils"
)

const snapshotYAML = `
databases:
  sharding_db:
    schemas:
      ds_0:
        dataSource:
          driver: sqlite
          dsn: "file:ds_0?mode=memory"
        tables:
          t_order:
            columns:
            - name: order_id
              type: BIGINT
              primaryKey: true
            - name: user_id
              type: INT
              nullable: false
            - name: status
              type: VARCHAR
              nullable: true
            statistics:
              rowCount: 1200
      ds_1:
        tables:
          t_user:
            columns:
            - name: user_id
              type: INT
    rules:
    - sharding:
        tables:
        - logicTable: t_order
          databaseStrategy:
            shardingColumn: user_id
            shardingAlgorithmName: db_mod
        shardingAlgorithms:
          db_mod:
            type: MOD
  empty_db: {}
`

func TestParse(t *testing.T) {
	md, err := Parse([]byte(snapshotYAML), rule.StandardBuilders())
	require.NoError(t, err)

	assert.Equal(t, []string{"empty_db", "sharding_db"}, md.DatabaseNames())
	db, ok := md.Database("sharding_db")
	require.True(t, ok)
	assert.Equal(t, "sharding_db", db.Name)
	assert.Equal(t, []string{"ds_0", "ds_1"}, db.SchemaNames())
	require.Len(t, db.Rules, 1)
	assert.Equal(t, rule.KindSharding, db.Rules[0].Kind())

	ds0, ok := db.Schema("ds_0")
	require.True(t, ok)
	assert.Equal(t, "ds_0", ds0.Name)
	assert.Equal(t, "sqlite", ds0.DataSource.Driver)

	tbl, ok := ds0.Table("T_ORDER")
	require.True(t, ok)
	assert.Equal(t, "t_order", tbl.Name)
	assert.Equal(t, []string{"order_id", "user_id", "status"}, tbl.ColumnNames())
	assert.Equal(t, []int{0}, tbl.PrimaryKey())
	require.NotNil(t, tbl.Statistics.RowCount)
	assert.Equal(t, 1200.0, *tbl.Statistics.RowCount)

	col, idx, ok := tbl.Column("STATUS")
	require.True(t, ok)
	assert.Equal(t, 2, idx)
	assert.Equal(t, "VARCHAR", col.DataType)
	assert.True(t, col.Nullable)

	empty, ok := md.Database("empty_db")
	require.True(t, ok)
	assert.Empty(t, empty.Schemas)
}

func TestParseErrors(t *testing.T) {
	testcases := []struct {
		name    string
		yaml    string
		wantErr string
	}{{
		name:    "unknown field",
		yaml:    "databases:\n  db:\n    schemaz: {}\n",
		wantErr: "decoding metadata",
	}, {
		name:    "table without columns",
		yaml:    "databases:\n  db:\n    schemas:\n      s:\n        tables:\n          t: {}\n",
		wantErr: "table db.s.t has no columns",
	}, {
		name:    "duplicate column",
		yaml:    "databases:\n  db:\n    schemas:\n      s:\n        tables:\n          t:\n            columns:\n            - {name: a, type: INT}\n            - {name: A, type: INT}\n",
		wantErr: "duplicate column A in table db.s.t",
	}, {
		name:    "negative row count",
		yaml:    "databases:\n  db:\n    schemas:\n      s:\n        tables:\n          t:\n            columns:\n            - {name: a, type: INT}\n            statistics: {rowCount: -1}\n",
		wantErr: "negative row count",
	}, {
		name:    "broken rule",
		yaml:    "databases:\n  db:\n    rules:\n    - sharding:\n        tables:\n        - logicTable: t\n          tableStrategy: {shardingColumn: a, shardingAlgorithmName: nope}\n",
		wantErr: `sharding algorithm "nope"`,
	}}
	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.yaml), rule.StandardBuilders())
			require.ErrorContains(t, err, tc.wantErr)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "metadata.yaml")
	require.NoError(t, os.WriteFile(path, []byte(snapshotYAML), 0o600))

	md, err := Load(path, rule.StandardBuilders())
	require.NoError(t, err)
	assert.Len(t, md.Databases, 2)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"), rule.StandardBuilders())
	require.Error(t, err)
}

func TestLoadFS(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/etc/fedgate/metadata.yaml", []byte(snapshotYAML), 0o600))
	require.NoError(t, afero.WriteFile(fs, "/etc/fedgate/broken.yaml", []byte("databases: [\n"), 0o600))

	md, err := LoadFS(fs, "/etc/fedgate/metadata.yaml", rule.StandardBuilders())
	require.NoError(t, err)
	assert.Len(t, md.Databases, 2)

	_, err = LoadFS(fs, "/etc/fedgate/broken.yaml", rule.StandardBuilders())
	require.ErrorContains(t, err, "/etc/fedgate/broken.yaml: decoding metadata")

	_, err = LoadFS(fs, "/etc/fedgate/missing.yaml", rule.StandardBuilders())
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestWatcherReloads(t *testing.T) {
	ctx := utils.LeakCheckContext(t)
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	path := filepath.Join(t.TempDir(), "metadata.yaml")
	require.NoError(t, os.WriteFile(path, []byte("databases: {}\n"), 0o600))

	got := make(chan *FederationMetaData, 16)
	w := NewWatcher(path, rule.StandardBuilders(), func(_ context.Context, md *FederationMetaData) {
		got <- md
	})
	w.Settle = 10 * time.Millisecond

	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	deadline := time.After(10 * time.Second)
	tick := time.NewTicker(100 * time.Millisecond)
	defer tick.Stop()
	for {
		var md *FederationMetaData
		select {
		case md = <-got:
		case <-tick.C:
			// The watch may not be registered yet; keep rewriting.
			require.NoError(t, os.WriteFile(path, []byte(snapshotYAML), 0o600))
			continue
		case <-deadline:
			t.Fatal("snapshot was not reloaded")
		}
		if len(md.Databases) == 2 {
			break
		}
	}

	cancel()
	require.NoError(t, <-done)
}

func TestWatcherMinInterval(t *testing.T) {
	ctx := utils.LeakCheckContext(t)
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	path := filepath.Join(t.TempDir(), "metadata.yaml")
	require.NoError(t, os.WriteFile(path, []byte(snapshotYAML), 0o600))

	reloads := make(chan time.Time, 16)
	w := NewWatcher(path, rule.StandardBuilders(), func(context.Context, *FederationMetaData) {
		reloads <- time.Now()
	})
	w.Settle = time.Millisecond
	w.MinInterval = 300 * time.Millisecond

	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	var seen []time.Time
	deadline := time.After(10 * time.Second)
	tick := time.NewTicker(20 * time.Millisecond)
	defer tick.Stop()
	for len(seen) < 2 {
		select {
		case at := <-reloads:
			seen = append(seen, at)
		case <-tick.C:
			require.NoError(t, os.WriteFile(path, []byte(snapshotYAML), 0o600))
		case <-deadline:
			t.Fatal("snapshot was not reloaded twice")
		}
	}
	assert.GreaterOrEqual(t, seen[1].Sub(seen[0]), 250*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
}
