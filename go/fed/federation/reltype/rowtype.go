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
	"strings"

	"fedgate.io/fedgate/go/sqltypes"
)

// Field is a named, typed position of a row.
type Field struct {
	Name  string
	Index int
	Type  RelType
}

// RowType is the ordered list of fields of a relation.
type RowType struct {
	Fields []Field
}

// NewRowType returns a row type of the given fields, renumbered in order.
func NewRowType(fields ...Field) *RowType {
	out := make([]Field, len(fields))
	for i, f := range fields {
		f.Index = i
		out[i] = f
	}
	return &RowType{Fields: out}
}

// FieldCount returns the number of fields.
func (rt *RowType) FieldCount() int {
	return len(rt.Fields)
}

// Field returns the field called name, ignoring case.
func (rt *RowType) Field(name string) (Field, bool) {
	for _, f := range rt.Fields {
		if strings.EqualFold(f.Name, name) {
			return f, true
		}
	}
	return Field{}, false
}

// FieldNames returns the names of the fields in order.
func (rt *RowType) FieldNames() []string {
	names := make([]string, len(rt.Fields))
	for i, f := range rt.Fields {
		names[i] = f.Name
	}
	return names
}

// Project returns the row type made of the fields at indexes.
func (rt *RowType) Project(indexes []int) *RowType {
	fields := make([]Field, len(indexes))
	for i, idx := range indexes {
		fields[i] = rt.Fields[idx]
	}
	return NewRowType(fields...)
}

// Join returns the concatenation of rt and other.
func (rt *RowType) Join(other *RowType) *RowType {
	fields := make([]Field, 0, len(rt.Fields)+len(other.Fields))
	fields = append(fields, rt.Fields...)
	fields = append(fields, other.Fields...)
	return NewRowType(fields...)
}

// Nullable returns a copy of rt with every field nullable, as seen from
// the outer side of an outer join.
func (rt *RowType) Nullable() *RowType {
	fields := make([]Field, len(rt.Fields))
	for i, f := range rt.Fields {
		f.Type.Nullable = true
		fields[i] = f
	}
	return &RowType{Fields: fields}
}

func (rt *RowType) String() string {
	var b strings.Builder
	b.WriteString("RecordType(")
	for i, f := range rt.Fields {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(f.Type.String())
		b.WriteByte(' ')
		b.WriteString(f.Name)
	}
	b.WriteByte(')')
	return b.String()
}

// family groups types that compare and combine with each other.
type family int8

const (
	familyNull family = iota
	familyNumeric
	familyBoolean
	familyCharacter
	familyBinary
	familyTemporal
	familyJSON
	familyAny
)

func familyOf(t sqltypes.Type) family {
	switch {
	case t == sqltypes.Null:
		return familyNull
	case t == sqltypes.Unknown:
		return familyAny
	case t == sqltypes.Boolean:
		return familyBoolean
	case sqltypes.IsNumber(t):
		return familyNumeric
	case sqltypes.IsText(t):
		return familyCharacter
	case sqltypes.IsBinary(t):
		return familyBinary
	case sqltypes.IsTemporal(t):
		return familyTemporal
	case t == sqltypes.TypeJSON:
		return familyJSON
	}
	return familyAny
}

// IsNumeric reports whether t is a number.
func IsNumeric(t RelType) bool {
	f := familyOf(t.Type)
	return f == familyNumeric || f == familyNull || f == familyAny
}

// IsCharacter reports whether t is a character string.
func IsCharacter(t RelType) bool {
	f := familyOf(t.Type)
	return f == familyCharacter || f == familyNull || f == familyAny
}

// IsBoolean reports whether t is usable as a condition.
func IsBoolean(t RelType) bool {
	f := familyOf(t.Type)
	return f == familyBoolean || f == familyNull || f == familyAny || f == familyNumeric
}

// Comparable reports whether values of a and b can be compared. Character
// strings compare with temporal values, as literals of those types are
// written as strings.
func Comparable(a, b RelType) bool {
	fa, fb := familyOf(a.Type), familyOf(b.Type)
	switch {
	case fa == fb:
		return true
	case fa == familyNull || fb == familyNull || fa == familyAny || fb == familyAny:
		return true
	case fa == familyCharacter && fb == familyTemporal, fa == familyTemporal && fb == familyCharacter:
		return true
	case fa == familyBoolean && fb == familyNumeric, fa == familyNumeric && fb == familyBoolean:
		return true
	}
	return false
}

var numericRank = map[sqltypes.Type]int{
	sqltypes.Bit:     0,
	sqltypes.Int8:    1,
	sqltypes.Int16:   2,
	sqltypes.Year:    2,
	sqltypes.Int32:   3,
	sqltypes.Int64:   4,
	sqltypes.Decimal: 5,
	sqltypes.Float32: 6,
	sqltypes.Float64: 7,
}

var characterRank = map[sqltypes.Type]int{
	sqltypes.Char:    0,
	sqltypes.VarChar: 1,
	sqltypes.Text:    2,
}

// LeastRestrictive returns the type every one of types converts to, and
// false if they do not share a family. The result is nullable if any
// input is.
func LeastRestrictive(types ...RelType) (RelType, bool) {
	if len(types) == 0 {
		return RelType{}, false
	}
	result := RelType{Type: sqltypes.Null}
	for _, t := range types {
		result.Nullable = result.Nullable || t.Nullable || t.Type == sqltypes.Null
		if t.Type == sqltypes.Null {
			continue
		}
		if result.Type == sqltypes.Null {
			result.Type = t.Type
			continue
		}
		if !Comparable(result, t) {
			return RelType{}, false
		}
		result.Type = wider(result.Type, t.Type)
	}
	return result, true
}

func wider(a, b sqltypes.Type) sqltypes.Type {
	if ra, ok := numericRank[a]; ok {
		if rb, ok := numericRank[b]; ok {
			if rb > ra {
				return b
			}
			return a
		}
	}
	if ra, ok := characterRank[a]; ok {
		if rb, ok := characterRank[b]; ok {
			if rb > ra {
				return b
			}
			return a
		}
	}
	if familyOf(a) == familyCharacter && familyOf(b) == familyTemporal {
		return b
	}
	return a
}

// ArithmeticResult returns the type of a binary arithmetic expression over
// a and b, or false if either is not numeric.
func ArithmeticResult(a, b RelType) (RelType, bool) {
	if !IsNumeric(a) || !IsNumeric(b) {
		return RelType{}, false
	}
	t, ok := LeastRestrictive(a, b)
	if !ok {
		return RelType{}, false
	}
	if t.Type == sqltypes.Null {
		t.Type = sqltypes.Int64
	}
	switch t.Type {
	case sqltypes.Bit, sqltypes.Int8, sqltypes.Int16, sqltypes.Year:
		t.Type = sqltypes.Int32
	}
	return t, true
}
