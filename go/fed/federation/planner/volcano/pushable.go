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

package volcano

import (
	"fedgate.io/fedgate/go/fed/federation/rex"
	"fedgate.io/fedgate/go/fed/federation/sqlnode"
)

// Pushable reports whether a table's executor can evaluate the predicate
// at the data source: comparisons, IN lists, LIKE and IS [NOT] NULL of a
// column against constants, combined with AND, OR and NOT.
func Pushable(e rex.Node) bool {
	c, ok := e.(*rex.Call)
	if !ok {
		return false
	}
	switch kind := c.Kind(); {
	case kind == sqlnode.KindAnd || kind == sqlnode.KindOr:
		for _, op := range c.Operands {
			if !Pushable(op) {
				return false
			}
		}
		return true
	case kind == sqlnode.KindNot:
		return Pushable(c.Operands[0])
	case kind.IsComparison():
		return isColumn(c.Operands[0]) && isConstant(c.Operands[1]) ||
			isConstant(c.Operands[0]) && isColumn(c.Operands[1])
	case kind == sqlnode.KindLike || kind == sqlnode.KindNotLike:
		return len(c.Operands) == 2 && isColumn(c.Operands[0]) && isConstant(c.Operands[1])
	case kind == sqlnode.KindIn:
		if !isColumn(c.Operands[0]) {
			return false
		}
		for _, op := range c.Operands[1:] {
			if !isConstant(op) {
				return false
			}
		}
		return true
	case kind == sqlnode.KindIsNull || kind == sqlnode.KindIsNotNull:
		return isColumn(c.Operands[0])
	}
	return false
}

func isColumn(e rex.Node) bool {
	_, ok := e.(*rex.InputRef)
	return ok
}

func isConstant(e rex.Node) bool {
	switch e.(type) {
	case *rex.Literal, *rex.DynamicParam:
		return true
	}
	return false
}
