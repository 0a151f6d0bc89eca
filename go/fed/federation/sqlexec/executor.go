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

// Package sqlexec scans federated tables through database/sql, pushing
// filters and projections into the generated query.
package sqlexec

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"time"

	"fedgate.io/fedgate/go/fed/federation/metadata"
	"fedgate.io/fedgate/go/fed/federation/reltype"
	"fedgate.io/fedgate/go/fed/federation/table"
	"fedgate.io/fedgate/go/fed/federrors"
	"fedgate.io/fedgate/go/fed/fedrpc"
	"fedgate.io/fedgate/go/fed/log"
	"fedgate.io/fedgate/go/sqltypes"
	"fedgate.io/fedgate/go/stats"
)

var queryTimings = stats.NewTimings("FederationScanQueryTimings", "Time spent issuing scan queries", "Driver")

var _ table.ScanExecutor = (*Executor)(nil)

// Executor runs the scans of one sub-schema against a database. It does
// not retry.
type Executor struct {
	schema   string
	db       *sql.DB
	dialect  Dialect
	resolver *reltype.Resolver
}

// New returns an executor over db.
func New(schema string, db *sql.DB, dialect Dialect) *Executor {
	return &Executor{
		schema:   schema,
		db:       db,
		dialect:  dialect,
		resolver: reltype.NewResolver(reltype.ForceNullable),
	}
}

// Execute implements table.ScanExecutor. Errors are ExecutionErrors.
func (e *Executor) Execute(ctx context.Context, t *metadata.LogicalTable, req table.ScanRequest) (table.RowSequence, error) {
	rowType, err := e.resolver.BuildRowType(t)
	if err != nil {
		return nil, e.fail(t, err)
	}
	if req.Projects != nil {
		rowType = rowType.Project(req.Projects)
	}
	q, err := Render(e.dialect, t, req)
	if err != nil {
		return nil, e.fail(t, err)
	}
	log.DebugS("scanning", "schema", e.schema, "table", t.Name, "query", q.SQL)

	start := time.Now()
	rows, err := e.db.QueryContext(ctx, q.SQL, q.Args...)
	queryTimings.Record(e.dialect.Name, start)
	if err != nil {
		return nil, e.fail(t, err)
	}
	types := make([]sqltypes.Type, rowType.FieldCount())
	for i, f := range rowType.Fields {
		types[i] = f.Type.Type
	}
	return &rowSequence{
		rows:   rows,
		types:  types,
		values: make([]any, len(types)),
		fail:   func(err error) error { return e.fail(t, err) },
	}, nil
}

func (e *Executor) fail(t *metadata.LogicalTable, err error) error {
	return &federrors.ExecutionError{Schema: e.schema, Table: t.Name, Err: err}
}

// rowSequence converts the rows of a query to values of the scanned
// columns' types as they are read.
type rowSequence struct {
	rows   *sql.Rows
	types  []sqltypes.Type
	values []any
	row    sqltypes.Row
	err    error
	fail   func(error) error
}

func (s *rowSequence) Next() bool {
	if s.err != nil {
		return false
	}
	if !s.rows.Next() {
		if err := s.rows.Err(); err != nil {
			s.err = s.fail(err)
		}
		return false
	}
	dest := make([]any, len(s.values))
	for i := range s.values {
		dest[i] = &s.values[i]
	}
	if err := s.rows.Scan(dest...); err != nil {
		s.err = s.fail(err)
		return false
	}
	row := make(sqltypes.Row, len(s.values))
	for i, v := range s.values {
		val, err := sqltypes.FromDriverValue(s.types[i], v)
		if err != nil {
			s.err = s.fail(err)
			return false
		}
		row[i] = val
	}
	s.row = row
	return true
}

func (s *rowSequence) Row() sqltypes.Row { return s.row }

func (s *rowSequence) Err() error { return s.err }

func (s *rowSequence) Close() error { return s.rows.Close() }

// Provider opens one database per distinct data source and implements
// schema.ExecutorProvider. Schemas sharing a data source share its
// connection pool.
type Provider struct {
	mu  sync.Mutex
	dbs map[metadata.DataSource]*openDB
}

type openDB struct {
	db      *sql.DB
	dialect Dialect
}

// NewProvider returns a provider with no open databases.
func NewProvider() *Provider {
	return &Provider{dbs: make(map[metadata.DataSource]*openDB)}
}

// Executor returns the executor of the data source of s, opening the
// database on first use.
func (p *Provider) Executor(database string, s *metadata.LogicalSchema) (table.ScanExecutor, error) {
	if s.DataSource == nil {
		return nil, federrors.Errorf(fedrpc.Code_FAILED_PRECONDITION, "schema %s of database %s has no data source", s.Name, database)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	o, ok := p.dbs[*s.DataSource]
	if !ok {
		db, dialect, err := Open(s.DataSource)
		if err != nil {
			return nil, err
		}
		o = &openDB{db: db, dialect: dialect}
		p.dbs[*s.DataSource] = o
	}
	return New(s.Name, o.db, o.dialect), nil
}

// Close closes every database the provider opened.
func (p *Provider) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	var errs []error
	for ds, o := range p.dbs {
		errs = append(errs, o.db.Close())
		delete(p.dbs, ds)
	}
	return errors.Join(errs...)
}
