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

package table

import "fedgate.io/fedgate/go/sqltypes"

// NewSliceSequence returns a sequence over rows held in memory.
func NewSliceSequence(rows []sqltypes.Row) RowSequence {
	return &sliceSequence{rows: rows, pos: -1}
}

type sliceSequence struct {
	rows   []sqltypes.Row
	pos    int
	closed bool
}

func (s *sliceSequence) Next() bool {
	if s.closed || s.pos+1 >= len(s.rows) {
		return false
	}
	s.pos++
	return true
}

func (s *sliceSequence) Row() sqltypes.Row {
	if s.pos < 0 || s.pos >= len(s.rows) {
		return nil
	}
	return s.rows[s.pos]
}

func (s *sliceSequence) Err() error { return nil }

func (s *sliceSequence) Close() error {
	s.closed = true
	return nil
}

// Drain reads the remaining rows of seq and closes it.
func Drain(seq RowSequence) ([]sqltypes.Row, error) {
	defer seq.Close()
	var rows []sqltypes.Row
	for seq.Next() {
		rows = append(rows, seq.Row())
	}
	return rows, seq.Err()
}
