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

package federation

import (
	"strconv"

	"fedgate.io/fedgate/go/fed/sqlparser"
)

// ScanStatement builds SELECT * FROM table, filtered by
// column [NOT] IN (values) when column is set. Values that parse as
// integers become numeric literals, anything else string literals.
func ScanStatement(table, column string, values []string, not bool) *sqlparser.Select {
	sel := &sqlparser.Select{
		SelectExprs: []sqlparser.SelectExpr{&sqlparser.StarExpr{}},
		From:        []sqlparser.TableExpr{&sqlparser.AliasedTableExpr{Name: table}},
	}
	if column == "" {
		return sel
	}
	tuple := make(sqlparser.ValTuple, len(values))
	for i, v := range values {
		if _, err := strconv.ParseInt(v, 10, 64); err == nil {
			tuple[i] = sqlparser.NewIntLiteral(v)
		} else {
			tuple[i] = sqlparser.NewStrLiteral(v)
		}
	}
	sel.Where = &sqlparser.InExpr{Left: sqlparser.NewColName(column), Right: tuple, Not: not}
	return sel
}
