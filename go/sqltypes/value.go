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

package sqltypes

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"

	"fedgate.io/fedgate/go/fed/federrors"
	"fedgate.io/fedgate/go/fed/fedrpc"
)

// NULL represents the NULL value.
var NULL = Value{}

// TimestampFormat is the layout used to render temporal driver values.
const TimestampFormat = "2006-01-02 15:04:05.999999"

// Value can store any SQL value. If the value represents
// an integral type, the bytes are always stored as a canonical
// representation that matches how MySQL returns such values.
type Value struct {
	typ Type
	val []byte
}

// Row is a single row of values, positionally matching a row type.
type Row []Value

// MakeTrusted makes a new Value based on the type.
// This function should only be used if you know the value
// and type conform to the rules. Every place this function is
// called, a comment is needed that explains why it's justified.
// Exceptions: The current package and mysql package do not need
// comments.
func MakeTrusted(typ Type, val []byte) Value {
	if typ == Null {
		return NULL
	}
	return Value{typ: typ, val: val}
}

// NewInt64 builds an Int64 Value.
func NewInt64(v int64) Value {
	return MakeTrusted(Int64, strconv.AppendInt(nil, v, 10))
}

// NewInt32 builds an Int32 Value.
func NewInt32(v int32) Value {
	return MakeTrusted(Int32, strconv.AppendInt(nil, int64(v), 10))
}

// NewFloat64 builds a Float64 Value.
func NewFloat64(v float64) Value {
	return MakeTrusted(Float64, strconv.AppendFloat(nil, v, 'g', -1, 64))
}

// NewDecimal builds a Decimal Value from its textual representation.
func NewDecimal(v string) Value {
	return MakeTrusted(Decimal, []byte(v))
}

// NewVarChar builds a VarChar Value.
func NewVarChar(v string) Value {
	return MakeTrusted(VarChar, []byte(v))
}

// NewVarBinary builds a VarBinary Value.
func NewVarBinary(v string) Value {
	return MakeTrusted(VarBinary, []byte(v))
}

// NewBoolean builds a Boolean Value.
func NewBoolean(v bool) Value {
	if v {
		return MakeTrusted(Boolean, []byte("1"))
	}
	return MakeTrusted(Boolean, []byte("0"))
}

// NewDate builds a Date Value.
func NewDate(v string) Value {
	return MakeTrusted(Date, []byte(v))
}

// NewTimestamp builds a Timestamp Value from a time, normalised to UTC.
func NewTimestamp(v time.Time) Value {
	return MakeTrusted(Timestamp, []byte(v.UTC().Format(TimestampFormat)))
}

// Type returns the type of Value.
func (v Value) Type() Type {
	return v.typ
}

// Raw returns the internal representation of the value. For newer types,
// this may not match MySQL's representation.
func (v Value) Raw() []byte {
	return v.val
}

// IsNull returns true if Value is null.
func (v Value) IsNull() bool {
	return v.typ == Null
}

// IsIntegral returns true if Value is an integral.
func (v Value) IsIntegral() bool {
	return IsIntegral(v.typ)
}

// IsFloat returns true if Value is a float.
func (v Value) IsFloat() bool {
	return IsFloat(v.typ)
}

// IsQuoted returns true if Value must be SQL-quoted.
func (v Value) IsQuoted() bool {
	return IsQuoted(v.typ)
}

// IsText returns true if Value is a collatable text.
func (v Value) IsText() bool {
	return IsText(v.typ)
}

// ToString returns the value as a string. NULL is the empty string.
func (v Value) ToString() string {
	return string(v.val)
}

// ToInt64 returns the value as an int64.
func (v Value) ToInt64() (int64, error) {
	if !v.IsIntegral() && v.typ != Boolean && v.typ != Bit {
		return 0, federrors.Errorf(fedrpc.Code_INVALID_ARGUMENT, "cannot convert %s value to int64", v.typ)
	}
	return strconv.ParseInt(string(v.val), 10, 64)
}

// ToFloat64 returns the value as a float64.
func (v Value) ToFloat64() (float64, error) {
	if !IsNumber(v.typ) {
		return 0, federrors.Errorf(fedrpc.Code_INVALID_ARGUMENT, "cannot convert %s value to float64", v.typ)
	}
	return strconv.ParseFloat(string(v.val), 64)
}

// ToBool returns the value as a bool. Integral values are true when non-zero.
func (v Value) ToBool() (bool, error) {
	i, err := v.ToInt64()
	if err != nil {
		return false, err
	}
	return i != 0, nil
}

// Equal compares two values for type and content equality.
func (v Value) Equal(other Value) bool {
	return v.typ == other.typ && bytes.Equal(v.val, other.val)
}

// ToDriverValue converts the value into something database/sql can bind as
// a query argument.
func (v Value) ToDriverValue() any {
	switch {
	case v.IsNull():
		return nil
	case v.typ == Boolean:
		b, _ := v.ToBool()
		return b
	case v.IsIntegral():
		i, _ := v.ToInt64()
		return i
	case v.IsFloat():
		f, _ := v.ToFloat64()
		return f
	case IsBinary(v.typ):
		return v.val
	default:
		return string(v.val)
	}
}

// String returns a printable version of the value.
func (v Value) String() string {
	if v.typ == Null {
		return "NULL"
	}
	if v.IsQuoted() || v.typ == Bit {
		return fmt.Sprintf("%v(%q)", v.typ, v.val)
	}
	return fmt.Sprintf("%v(%s)", v.typ, v.val)
}

// EncodeSQL encodes the value into an SQL statement.
func (v Value) EncodeSQL(b *strings.Builder) {
	switch {
	case v.typ == Null:
		b.WriteString("null")
	case v.typ == Boolean:
		if string(v.val) == "0" {
			b.WriteString("false")
		} else {
			b.WriteString("true")
		}
	case v.IsQuoted():
		encodeBytesSQL(v.val, b)
	default:
		b.Write(v.val)
	}
}

// EncodeSQLString returns the value encoded as an SQL literal.
func (v Value) EncodeSQLString() string {
	var b strings.Builder
	v.EncodeSQL(&b)
	return b.String()
}

func encodeBytesSQL(val []byte, b *strings.Builder) {
	b.WriteByte('\'')
	for _, ch := range val {
		switch ch {
		case '\'':
			b.WriteString("''")
		case '\\':
			b.WriteString("\\\\")
		case 0:
			b.WriteString("\\0")
		default:
			b.WriteByte(ch)
		}
	}
	b.WriteByte('\'')
}

// FromDriverValue converts a value scanned by database/sql into a Value of
// the given column type. Drivers report integers, floats, strings, byte
// slices, booleans and times; anything else is rejected.
func FromDriverValue(typ Type, src any) (Value, error) {
	if src == nil {
		return NULL, nil
	}
	switch s := src.(type) {
	case int64:
		return fromInt64(typ, s), nil
	case int32:
		return fromInt64(typ, int64(s)), nil
	case int:
		return fromInt64(typ, int64(s)), nil
	case float64:
		if IsIntegral(typ) && s == float64(int64(s)) {
			return fromInt64(typ, int64(s)), nil
		}
		if typ == Decimal {
			return NewDecimal(strconv.FormatFloat(s, 'f', -1, 64)), nil
		}
		return NewFloat64(s), nil
	case bool:
		return NewBoolean(s), nil
	case []byte:
		return fromBytes(typ, bytes.Clone(s)), nil
	case string:
		return fromBytes(typ, []byte(s)), nil
	case time.Time:
		switch typ {
		case Date:
			return NewDate(s.UTC().Format(time.DateOnly)), nil
		case Time:
			return MakeTrusted(Time, []byte(s.UTC().Format(time.TimeOnly))), nil
		case Datetime:
			return MakeTrusted(Datetime, []byte(s.UTC().Format(TimestampFormat))), nil
		default:
			return NewTimestamp(s), nil
		}
	default:
		return NULL, federrors.Errorf(fedrpc.Code_INVALID_ARGUMENT, "unexpected driver value %T for column type %s", src, typ)
	}
}

func fromInt64(typ Type, v int64) Value {
	switch {
	case typ == Boolean:
		return NewBoolean(v != 0)
	case IsIntegral(typ):
		return MakeTrusted(typ, strconv.AppendInt(nil, v, 10))
	case IsFloat(typ):
		return MakeTrusted(typ, strconv.AppendInt(nil, v, 10))
	case typ == Decimal:
		return NewDecimal(strconv.FormatInt(v, 10))
	default:
		return NewInt64(v)
	}
}

func fromBytes(typ Type, v []byte) Value {
	switch {
	case typ == Boolean:
		s := strings.ToLower(string(v))
		return NewBoolean(s == "1" || s == "t" || s == "true")
	case typ == Unknown || typ == Null:
		return MakeTrusted(VarBinary, v)
	default:
		return MakeTrusted(typ, v)
	}
}
