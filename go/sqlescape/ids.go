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

// Package sqlescape quotes SQL identifiers.
package sqlescape

import (
	"strings"
)

// Style is a way of quoting identifiers.
type Style byte

const (
	// Backtick quotes identifiers the MySQL way: `name`.
	Backtick Style = '`'
	// DoubleQuote quotes identifiers the ANSI way: "name".
	DoubleQuote Style = '"'
)

// EscapeID returns in quoted in style s.
func (s Style) EscapeID(in string) string {
	var buf strings.Builder
	s.WriteEscapeID(&buf, in)
	return buf.String()
}

// WriteEscapeID writes in quoted in style s into buf. Quote characters
// inside in are doubled.
func (s Style) WriteEscapeID(buf *strings.Builder, in string) {
	q := byte(s)
	buf.Grow(4 + len(in))
	buf.WriteByte(q)
	for i := 0; i < len(in); i++ {
		buf.WriteByte(in[i])
		if in[i] == q {
			buf.WriteByte(q)
		}
	}
	buf.WriteByte(q)
}

// UnescapeID reverses EscapeID.
func (s Style) UnescapeID(in string) string {
	q := string(s)
	l := len(in)
	if l >= 2 && in[:1] == q && in[l-1:] == q {
		return strings.ReplaceAll(in[1:l-1], q+q, q)
	}
	return in
}

// EscapeID returns a backticked identifier.
func EscapeID(in string) string {
	return Backtick.EscapeID(in)
}
