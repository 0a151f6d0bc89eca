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
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTypeFlags(t *testing.T) {
	testcases := []struct {
		typ                                  Type
		integral, float, quoted, text, tempo bool
	}{
		{typ: Null},
		{typ: Int8, integral: true},
		{typ: Int64, integral: true},
		{typ: Year, integral: true},
		{typ: Float64, float: true},
		{typ: Decimal},
		{typ: Boolean},
		{typ: Date, quoted: true, tempo: true},
		{typ: Timestamp, quoted: true, tempo: true},
		{typ: VarChar, quoted: true, text: true},
		{typ: Text, quoted: true, text: true},
		{typ: VarBinary, quoted: true},
		{typ: Unknown},
	}
	for _, tc := range testcases {
		t.Run(tc.typ.String(), func(t *testing.T) {
			assert.Equal(t, tc.integral, IsIntegral(tc.typ))
			assert.Equal(t, tc.float, IsFloat(tc.typ))
			assert.Equal(t, tc.quoted, IsQuoted(tc.typ))
			assert.Equal(t, tc.text, IsText(tc.typ))
			assert.Equal(t, tc.tempo, IsTemporal(tc.typ))
		})
	}
	assert.True(t, IsNumber(Decimal))
	assert.True(t, IsBinary(Blob))
	assert.Equal(t, "Type(3)", Type(3).String())
}

func TestEncodeSQL(t *testing.T) {
	testcases := []struct {
		in   Value
		want string
	}{
		{in: NULL, want: "null"},
		{in: NewInt64(-7), want: "-7"},
		{in: NewFloat64(1.5), want: "1.5"},
		{in: NewDecimal("10.25"), want: "10.25"},
		{in: NewBoolean(true), want: "true"},
		{in: NewBoolean(false), want: "false"},
		{in: NewVarChar("it's"), want: "'it''s'"},
		{in: NewVarChar(`a\b`), want: `'a\\b'`},
		{in: NewDate("2026-01-31"), want: "'2026-01-31'"},
	}
	for _, tc := range testcases {
		var b strings.Builder
		tc.in.EncodeSQL(&b)
		assert.Equal(t, tc.want, b.String(), "EncodeSQL(%v)", tc.in)
	}
}

func TestConversions(t *testing.T) {
	i, err := NewInt64(42).ToInt64()
	require.NoError(t, err)
	assert.EqualValues(t, 42, i)

	f, err := NewInt32(3).ToFloat64()
	require.NoError(t, err)
	assert.EqualValues(t, 3, f)

	_, err = NewVarChar("x").ToInt64()
	assert.ErrorContains(t, err, "cannot convert VARCHAR value to int64")

	b, err := NewBoolean(true).ToBool()
	require.NoError(t, err)
	assert.True(t, b)

	assert.Nil(t, NULL.ToDriverValue())
	assert.Equal(t, int64(42), NewInt64(42).ToDriverValue())
	assert.Equal(t, true, NewBoolean(true).ToDriverValue())
	assert.Equal(t, "10.25", NewDecimal("10.25").ToDriverValue())
	assert.Equal(t, "VARCHAR(\"abc\")", NewVarChar("abc").String())
	assert.Equal(t, "BIGINT(1)", NewInt64(1).String())
}

func TestFromDriverValue(t *testing.T) {
	ts := time.Date(2026, 3, 4, 5, 6, 7, 0, time.FixedZone("x", 3600))
	testcases := []struct {
		typ  Type
		src  any
		want Value
	}{
		{typ: Int64, src: nil, want: NULL},
		{typ: Int64, src: int64(7), want: NewInt64(7)},
		{typ: Int32, src: int64(7), want: NewInt32(7)},
		{typ: Boolean, src: int64(1), want: NewBoolean(true)},
		{typ: Boolean, src: []byte("false"), want: NewBoolean(false)},
		{typ: Float64, src: 2.5, want: NewFloat64(2.5)},
		{typ: Int64, src: float64(3), want: NewInt64(3)},
		{typ: Decimal, src: "1.10", want: NewDecimal("1.10")},
		{typ: VarChar, src: []byte("abc"), want: NewVarChar("abc")},
		{typ: Unknown, src: "raw", want: NewVarBinary("raw")},
		{typ: Timestamp, src: ts, want: NewTimestamp(ts)},
		{typ: Date, src: ts, want: NewDate("2026-03-04")},
	}
	for _, tc := range testcases {
		got, err := FromDriverValue(tc.typ, tc.src)
		require.NoError(t, err)
		assert.True(t, tc.want.Equal(got), "FromDriverValue(%v, %v) = %v, want %v", tc.typ, tc.src, got, tc.want)
	}

	assert.Equal(t, "2026-03-04 04:06:07", NewTimestamp(ts).ToString())

	_, err := FromDriverValue(VarChar, struct{}{})
	assert.ErrorContains(t, err, "unexpected driver value")
}
