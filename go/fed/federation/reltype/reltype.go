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

// Package reltype maps the column types declared in the metadata onto the
// relational types the planner works with.
package reltype

import (
	"strings"

	"fedgate.io/fedgate/go/fed/federation/metadata"
	"fedgate.io/fedgate/go/fed/federrors"
	"fedgate.io/fedgate/go/sqltypes"
)

// RelType is the relational type of a field or expression.
type RelType struct {
	Type     sqltypes.Type
	Nullable bool
}

func (t RelType) String() string {
	if t.Nullable {
		return t.Type.String()
	}
	return t.Type.String() + " NOT NULL"
}

// NullabilityPolicy decides the nullability of mapped columns.
type NullabilityPolicy int8

const (
	// ForceNullable marks every column nullable, whatever it declares.
	ForceNullable NullabilityPolicy = iota
	// DeclaredNullability keeps the declared nullability of the column.
	DeclaredNullability
)

// ParseNullabilityPolicy parses the configuration name of a policy.
func ParseNullabilityPolicy(name string) (NullabilityPolicy, bool) {
	switch strings.ToLower(name) {
	case "force-nullable", "":
		return ForceNullable, true
	case "declared":
		return DeclaredNullability, true
	}
	return ForceNullable, false
}

func (p NullabilityPolicy) String() string {
	if p == DeclaredNullability {
		return "declared"
	}
	return "force-nullable"
}

// domainTypes is the registration table of domain type identifiers.
var domainTypes = map[string]sqltypes.Type{
	"TINYINT":     sqltypes.Int8,
	"SMALLINT":    sqltypes.Int16,
	"MEDIUMINT":   sqltypes.Int32,
	"INT":         sqltypes.Int32,
	"INTEGER":     sqltypes.Int32,
	"BIGINT":      sqltypes.Int64,
	"FLOAT":       sqltypes.Float64,
	"REAL":        sqltypes.Float32,
	"DOUBLE":      sqltypes.Float64,
	"DECIMAL":     sqltypes.Decimal,
	"NUMERIC":     sqltypes.Decimal,
	"BIT":         sqltypes.Bit,
	"BOOLEAN":     sqltypes.Boolean,
	"BOOL":        sqltypes.Boolean,
	"DATE":        sqltypes.Date,
	"TIME":        sqltypes.Time,
	"DATETIME":    sqltypes.Datetime,
	"TIMESTAMP":   sqltypes.Timestamp,
	"YEAR":        sqltypes.Year,
	"CHAR":        sqltypes.Char,
	"NCHAR":       sqltypes.Char,
	"VARCHAR":     sqltypes.VarChar,
	"NVARCHAR":    sqltypes.VarChar,
	"LONGVARCHAR": sqltypes.Text,
	"TEXT":        sqltypes.Text,
	"CLOB":        sqltypes.Text,
	"BINARY":      sqltypes.Binary,
	"VARBINARY":   sqltypes.VarBinary,
	"BLOB":        sqltypes.Blob,
	"JSON":        sqltypes.TypeJSON,
}

// Resolver maps domain type identifiers to relational types. It is
// immutable and safe for concurrent use.
type Resolver struct {
	policy NullabilityPolicy
}

// NewResolver returns a resolver applying policy.
func NewResolver(policy NullabilityPolicy) *Resolver {
	return &Resolver{policy: policy}
}

// Policy returns the nullability policy of the resolver.
func (r *Resolver) Policy() NullabilityPolicy {
	return r.policy
}

// Resolve maps a domain type identifier. Identifiers are matched ignoring
// case, and a length or precision suffix such as VARCHAR(32) is ignored.
// The result is nullable.
func (r *Resolver) Resolve(domainType string) (RelType, error) {
	name := strings.ToUpper(strings.TrimSpace(domainType))
	if i := strings.IndexByte(name, '('); i >= 0 {
		name = strings.TrimSpace(name[:i])
	}
	typ, ok := domainTypes[name]
	if !ok {
		return RelType{}, federrors.FED05001(domainType)
	}
	return RelType{Type: typ, Nullable: true}, nil
}

// ResolveColumn maps a column of table according to the policy.
func (r *Resolver) ResolveColumn(table *metadata.LogicalTable, column *metadata.ColumnDef) (RelType, error) {
	t, err := r.Resolve(column.DataType)
	if err != nil {
		return RelType{}, &federrors.TypeMappingError{
			Table:    table.Name,
			Column:   column.Name,
			DataType: column.DataType,
			Err:      err,
		}
	}
	if r.policy == DeclaredNullability {
		t.Nullable = column.Nullable
	}
	return t, nil
}

// BuildRowType derives the row type of table: one field per column, in
// declared order.
func (r *Resolver) BuildRowType(table *metadata.LogicalTable) (*RowType, error) {
	fields := make([]Field, 0, len(table.Columns))
	for i, c := range table.Columns {
		t, err := r.ResolveColumn(table, c)
		if err != nil {
			return nil, err
		}
		fields = append(fields, Field{Name: c.Name, Index: i, Type: t})
	}
	return &RowType{Fields: fields}, nil
}
