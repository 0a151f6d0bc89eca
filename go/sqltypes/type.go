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

// Package sqltypes defines the SQL value types flowing through the
// federation planner and the scan executors.
package sqltypes

import "strconv"

// Type is a SQL column type. The low bits number the type, the high bits
// carry the flags queried by IsIntegral, IsFloat and friends.
type Type int32

// These bit flags can be used to query on the
// common properties of types.
const (
	flagIsIntegral = 256
	flagIsFloat    = 512
	flagIsQuoted   = 1024
	flagIsText     = 2048
	flagIsBinary   = 4096
	flagIsTemporal = 8192
)

// Type values.
const (
	Unknown   Type = -1
	Null      Type = 0
	Int8      Type = 1 | flagIsIntegral
	Int16     Type = 2 | flagIsIntegral
	Int32     Type = 3 | flagIsIntegral
	Int64     Type = 4 | flagIsIntegral
	Float32   Type = 5 | flagIsFloat
	Float64   Type = 6 | flagIsFloat
	Decimal   Type = 7
	Bit       Type = 8
	Boolean   Type = 9
	Date      Type = 10 | flagIsQuoted | flagIsTemporal
	Time      Type = 11 | flagIsQuoted | flagIsTemporal
	Datetime  Type = 12 | flagIsQuoted | flagIsTemporal
	Timestamp Type = 13 | flagIsQuoted | flagIsTemporal
	Year      Type = 14 | flagIsIntegral
	Char      Type = 15 | flagIsQuoted | flagIsText
	VarChar   Type = 16 | flagIsQuoted | flagIsText
	Text      Type = 17 | flagIsQuoted | flagIsText
	Binary    Type = 18 | flagIsQuoted | flagIsBinary
	VarBinary Type = 19 | flagIsQuoted | flagIsBinary
	Blob      Type = 20 | flagIsQuoted | flagIsBinary
	TypeJSON  Type = 21 | flagIsQuoted
)

var typeNames = map[Type]string{
	Unknown:   "UNKNOWN",
	Null:      "NULL",
	Int8:      "TINYINT",
	Int16:     "SMALLINT",
	Int32:     "INTEGER",
	Int64:     "BIGINT",
	Float32:   "REAL",
	Float64:   "DOUBLE",
	Decimal:   "DECIMAL",
	Bit:       "BIT",
	Boolean:   "BOOLEAN",
	Date:      "DATE",
	Time:      "TIME",
	Datetime:  "DATETIME",
	Timestamp: "TIMESTAMP",
	Year:      "YEAR",
	Char:      "CHAR",
	VarChar:   "VARCHAR",
	Text:      "TEXT",
	Binary:    "BINARY",
	VarBinary: "VARBINARY",
	Blob:      "BLOB",
	TypeJSON:  "JSON",
}

func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return "Type(" + strconv.Itoa(int(t)) + ")"
}

// IsIntegral returns true if Type is an integral type.
func IsIntegral(t Type) bool {
	return t != Unknown && int(t)&flagIsIntegral == flagIsIntegral
}

// IsFloat returns true is Type is a floating point.
func IsFloat(t Type) bool {
	return t != Unknown && int(t)&flagIsFloat == flagIsFloat
}

// IsNumber returns true if the type is any type of number.
func IsNumber(t Type) bool {
	return IsIntegral(t) || IsFloat(t) || t == Decimal || t == Bit
}

// IsQuoted returns true if Type is a quoted text or binary.
func IsQuoted(t Type) bool {
	return t != Unknown && int(t)&flagIsQuoted == flagIsQuoted
}

// IsText returns true if Type is a text.
func IsText(t Type) bool {
	return t != Unknown && int(t)&flagIsText == flagIsText
}

// IsBinary returns true if Type is a binary.
func IsBinary(t Type) bool {
	return t != Unknown && int(t)&flagIsBinary == flagIsBinary
}

// IsTemporal returns true if Type is a date or time type.
func IsTemporal(t Type) bool {
	return t != Unknown && int(t)&flagIsTemporal == flagIsTemporal
}
