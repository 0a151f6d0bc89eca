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

// Package schema adapts the logical databases of the metadata snapshot to
// the planner: every sub-schema becomes a Schema of scannable tables.
package schema

import (
	"errors"
	"sort"
	"strings"

	"fedgate.io/fedgate/go/fed/federation/metadata"
	"fedgate.io/fedgate/go/fed/federation/reltype"
	"fedgate.io/fedgate/go/fed/federation/table"
	"fedgate.io/fedgate/go/fed/federrors"
)

// ExecutorProvider hands out the executor that scans the tables of one
// sub-schema of a database.
type ExecutorProvider interface {
	Executor(database string, schema *metadata.LogicalSchema) (table.ScanExecutor, error)
}

// ExecutorProviderFunc adapts a function to ExecutorProvider.
type ExecutorProviderFunc func(database string, schema *metadata.LogicalSchema) (table.ScanExecutor, error)

// Executor calls f.
func (f ExecutorProviderFunc) Executor(database string, schema *metadata.LogicalSchema) (table.ScanExecutor, error) {
	return f(database, schema)
}

// StaticProvider returns the same executor for every sub-schema.
func StaticProvider(executor table.ScanExecutor) ExecutorProvider {
	return ExecutorProviderFunc(func(string, *metadata.LogicalSchema) (table.ScanExecutor, error) {
		return executor, nil
	})
}

// Schema is the planner's view of one sub-schema. It is immutable.
type Schema struct {
	database string
	name     string
	tables   map[string]*table.ScannableTable
}

// Name returns the sub-schema name.
func (s *Schema) Name() string { return s.name }

// Database returns the name of the logical database the schema belongs to.
func (s *Schema) Database() string { return s.database }

// Table returns the table called name. Exact matches win over matches
// ignoring case.
func (s *Schema) Table(name string) (*table.ScannableTable, bool) {
	if t, ok := s.tables[name]; ok {
		return t, true
	}
	for n, t := range s.tables {
		if strings.EqualFold(n, name) {
			return t, true
		}
	}
	return nil, false
}

// TableNames returns the table names in sorted order.
func (s *Schema) TableNames() []string {
	names := make([]string, 0, len(s.tables))
	for n := range s.tables {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// FederationDatabase groups the schemas of one logical database.
type FederationDatabase struct {
	name    string
	schemas map[string]*Schema
}

// Name returns the logical database name.
func (db *FederationDatabase) Name() string { return db.name }

// Schema returns the sub-schema called name.
func (db *FederationDatabase) Schema(name string) (*Schema, bool) {
	s, ok := db.schemas[name]
	return s, ok
}

// SubSchemas returns the schemas ordered by name.
func (db *FederationDatabase) SubSchemas() []*Schema {
	out := make([]*Schema, 0, len(db.schemas))
	for _, s := range db.schemas {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out
}

// Adapter builds schemas from logical metadata.
type Adapter struct {
	resolver  *reltype.Resolver
	executors ExecutorProvider
}

// NewAdapter returns an adapter resolving column types with resolver and
// binding tables to the executors of provider.
func NewAdapter(resolver *reltype.Resolver, provider ExecutorProvider) *Adapter {
	return &Adapter{resolver: resolver, executors: provider}
}

// BuildSchema builds the schema of one sub-schema of database. Either
// every table is built or an error is returned; a column whose type cannot
// be mapped fails with a TypeMappingError.
func (a *Adapter) BuildSchema(database string, logical *metadata.LogicalSchema) (*Schema, error) {
	executor, err := a.executors.Executor(database, logical)
	if err != nil {
		return nil, federrors.Wrapf(err, "no scan executor for schema %s of database %s", logical.Name, database)
	}
	tables := make(map[string]*table.ScannableTable, len(logical.Tables))
	for _, name := range logical.TableNames() {
		lt := logical.Tables[name]
		rowType, err := a.resolver.BuildRowType(lt)
		if err != nil {
			var tme *federrors.TypeMappingError
			if errors.As(err, &tme) {
				tme.Database = database
				tme.Schema = logical.Name
			}
			return nil, err
		}
		st, err := table.NewScannableTable(logical.Name, lt, rowType, executor, table.StatisticsOf(lt))
		if err != nil {
			return nil, err
		}
		tables[name] = st
	}
	return &Schema{database: database, name: logical.Name, tables: tables}, nil
}

// BuildDatabase builds every sub-schema of db. It fails as a whole when
// any schema fails.
func (a *Adapter) BuildDatabase(db *metadata.LogicalDatabase) (*FederationDatabase, error) {
	schemas := make(map[string]*Schema, len(db.Schemas))
	for _, name := range db.SchemaNames() {
		s, err := a.BuildSchema(db.Name, db.Schemas[name])
		if err != nil {
			return nil, err
		}
		schemas[name] = s
	}
	return &FederationDatabase{name: db.Name, schemas: schemas}, nil
}
