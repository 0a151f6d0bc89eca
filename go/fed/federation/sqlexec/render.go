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

package sqlexec

import (
	"strings"

	"fedgate.io/fedgate/go/fed/federation/metadata"
	"fedgate.io/fedgate/go/fed/federation/rex"
	"fedgate.io/fedgate/go/fed/federation/sqlnode"
	"fedgate.io/fedgate/go/fed/federation/table"
	"fedgate.io/fedgate/go/fed/federrors"
)

// Query is a rendered scan with its bound arguments.
type Query struct {
	SQL  string
	Args []any
}

// Render renders the scan of t described by req. Filters are rendered as
// a conjunction; constants are bound as arguments.
func Render(d Dialect, t *metadata.LogicalTable, req table.ScanRequest) (Query, error) {
	r := &renderer{dialect: d, table: t}
	r.buf.WriteString("SELECT ")
	columns := req.Projects
	if columns == nil {
		columns = make([]int, len(t.Columns))
		for i := range columns {
			columns[i] = i
		}
	}
	for i, c := range columns {
		if i > 0 {
			r.buf.WriteString(", ")
		}
		if err := r.column(c); err != nil {
			return Query{}, err
		}
	}
	r.buf.WriteString(" FROM ")
	r.buf.WriteString(d.QuoteIdentifier(t.Name))
	for i, f := range req.Filters {
		if i == 0 {
			r.buf.WriteString(" WHERE ")
		} else {
			r.buf.WriteString(" AND ")
		}
		if err := r.expr(f); err != nil {
			return Query{}, err
		}
	}
	return Query{SQL: r.buf.String(), Args: r.args}, nil
}

type renderer struct {
	dialect Dialect
	table   *metadata.LogicalTable
	buf     strings.Builder
	args    []any
}

func (r *renderer) column(i int) error {
	if i < 0 || i >= len(r.table.Columns) {
		return federrors.NewIllegalPlanState("column %d out of range for table %s", i, r.table.Name)
	}
	r.buf.WriteString(r.dialect.QuoteIdentifier(r.table.Columns[i].Name))
	return nil
}

func (r *renderer) expr(e rex.Node) error {
	switch e := e.(type) {
	case *rex.InputRef:
		return r.column(e.Index)
	case *rex.Literal:
		if e.Value.IsNull() {
			r.buf.WriteString("NULL")
			return nil
		}
		r.args = append(r.args, e.Value.ToDriverValue())
		r.buf.WriteString(r.dialect.Placeholder(len(r.args)))
		return nil
	case *rex.Call:
		return r.call(e)
	}
	return federrors.FED12001("pushed filter " + e.String())
}

func (r *renderer) call(c *rex.Call) error {
	switch kind := c.Kind(); {
	case kind == sqlnode.KindAnd || kind == sqlnode.KindOr:
		return r.list(c.Operands, " "+c.Op.Name+" ")
	case kind == sqlnode.KindNot:
		r.buf.WriteString("(NOT ")
		if err := r.expr(c.Operands[0]); err != nil {
			return err
		}
		r.buf.WriteByte(')')
		return nil
	case kind.IsComparison() || kind == sqlnode.KindLike || kind == sqlnode.KindNotLike:
		if len(c.Operands) != 2 {
			break
		}
		return r.list(c.Operands, " "+c.Op.Name+" ")
	case kind == sqlnode.KindIn:
		r.buf.WriteByte('(')
		if err := r.expr(c.Operands[0]); err != nil {
			return err
		}
		r.buf.WriteString(" IN ")
		if err := r.list(c.Operands[1:], ", "); err != nil {
			return err
		}
		r.buf.WriteByte(')')
		return nil
	case kind == sqlnode.KindIsNull || kind == sqlnode.KindIsNotNull:
		r.buf.WriteByte('(')
		if err := r.expr(c.Operands[0]); err != nil {
			return err
		}
		r.buf.WriteString(" " + c.Op.Name + ")")
		return nil
	}
	return federrors.FED12001("pushed filter " + c.String())
}

func (r *renderer) list(operands []rex.Node, sep string) error {
	r.buf.WriteByte('(')
	for i, op := range operands {
		if i > 0 {
			r.buf.WriteString(sep)
		}
		if err := r.expr(op); err != nil {
			return err
		}
	}
	r.buf.WriteByte(')')
	return nil
}
