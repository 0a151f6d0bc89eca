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

// Package metadata holds the logical database snapshot the federation
// planner is built from, and loads it from YAML.
package metadata

import (
	"sort"
	"strings"

	"fedgate.io/fedgate/go/fed/rule"
)

// ColumnDef is a column of a logical table.
type ColumnDef struct {
	Name       string `json:"name"`
	DataType   string `json:"type"`
	Nullable   bool   `json:"nullable,omitempty"`
	PrimaryKey bool   `json:"primaryKey,omitempty"`
}

// TableStatistics are the statistics reported for a table. A nil RowCount
// means the row count is unknown.
type TableStatistics struct {
	RowCount *float64 `json:"rowCount,omitempty"`
}

// LogicalTable is a table of a physical sub-schema. Column order is
// significant.
type LogicalTable struct {
	Name       string          `json:"-"`
	Columns    []*ColumnDef    `json:"columns"`
	Statistics TableStatistics `json:"statistics,omitempty"`
}

// DataSource locates the physical database behind a sub-schema.
type DataSource struct {
	Driver string `json:"driver"`
	DSN    string `json:"dsn"`
}

// LogicalSchema is a physical sub-schema of a logical database.
type LogicalSchema struct {
	Name       string                   `json:"-"`
	DataSource *DataSource              `json:"dataSource,omitempty"`
	Tables     map[string]*LogicalTable `json:"tables"`
}

// LogicalDatabase is a named collection of sub-schemas.
type LogicalDatabase struct {
	Name        string                    `json:"-"`
	Schemas     map[string]*LogicalSchema `json:"schemas"`
	RuleConfigs []rule.YAMLConfiguration  `json:"rules,omitempty"`

	// Rules are built from RuleConfigs when the snapshot is loaded.
	Rules []rule.DatabaseRule `json:"-"`
}

// FederationMetaData is a full snapshot of the logical databases.
type FederationMetaData struct {
	Databases map[string]*LogicalDatabase `json:"databases"`
}

// Column returns the column called name, ignoring case, and its index.
func (t *LogicalTable) Column(name string) (*ColumnDef, int, bool) {
	for i, c := range t.Columns {
		if strings.EqualFold(c.Name, name) {
			return c, i, true
		}
	}
	return nil, -1, false
}

// ColumnNames returns the column names in declared order.
func (t *LogicalTable) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// PrimaryKey returns the indexes of the primary key columns.
func (t *LogicalTable) PrimaryKey() []int {
	var key []int
	for i, c := range t.Columns {
		if c.PrimaryKey {
			key = append(key, i)
		}
	}
	return key
}

// TableNames returns the table names in sorted order.
func (s *LogicalSchema) TableNames() []string {
	return sortedKeys(s.Tables)
}

// Table returns the table called name. Exact matches win over matches
// ignoring case.
func (s *LogicalSchema) Table(name string) (*LogicalTable, bool) {
	if t, ok := s.Tables[name]; ok {
		return t, true
	}
	for n, t := range s.Tables {
		if strings.EqualFold(n, name) {
			return t, true
		}
	}
	return nil, false
}

// SchemaNames returns the sub-schema names in sorted order.
func (db *LogicalDatabase) SchemaNames() []string {
	return sortedKeys(db.Schemas)
}

// Schema returns the sub-schema called name.
func (db *LogicalDatabase) Schema(name string) (*LogicalSchema, bool) {
	s, ok := db.Schemas[name]
	return s, ok
}

// DatabaseNames returns the database names in sorted order.
func (md *FederationMetaData) DatabaseNames() []string {
	return sortedKeys(md.Databases)
}

// Database returns the database called name.
func (md *FederationMetaData) Database(name string) (*LogicalDatabase, bool) {
	db, ok := md.Databases[name]
	return db, ok
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
