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

package rex

import (
	"strings"

	"fedgate.io/fedgate/go/fed/federation/sqlnode"
	"fedgate.io/fedgate/go/sqltypes"
)

// Simplify folds the constant parts of a boolean expression: literal
// comparisons, NOT over literals, and TRUE/FALSE terms of AND and OR.
func Simplify(n Node) Node {
	if n == nil {
		return nil
	}
	return Rewrite(n, simplifyNode)
}

// IsAlwaysTrue reports whether n simplifies to TRUE.
func IsAlwaysTrue(n Node) bool {
	return Equal(Simplify(n), True)
}

// IsAlwaysFalse reports whether n simplifies to FALSE or to a NULL, which
// a filter treats as FALSE.
func IsAlwaysFalse(n Node) bool {
	s := Simplify(n)
	if lit, ok := s.(*Literal); ok {
		return lit.Value.IsNull() || Equal(lit, False)
	}
	return false
}

func simplifyNode(n Node) Node {
	c, ok := n.(*Call)
	if !ok {
		return n
	}
	kind := c.Op.Kind
	switch {
	case kind == sqlnode.KindAnd:
		return simplifyJunction(c, True, False)
	case kind == sqlnode.KindOr:
		return simplifyJunction(c, False, True)
	case kind == sqlnode.KindNot:
		switch op := c.Operands[0].(type) {
		case *Literal:
			if Equal(op, True) {
				return False
			}
			if Equal(op, False) {
				return True
			}
		case *Call:
			if op.Op.Kind == sqlnode.KindNot {
				return op.Operands[0]
			}
		}
	case kind == sqlnode.KindIsNull || kind == sqlnode.KindIsNotNull:
		null := kind == sqlnode.KindIsNull
		switch op := c.Operands[0].(type) {
		case *Literal:
			return boolLiteral(op.Value.IsNull() == null)
		case *InputRef:
			if !op.T.Nullable {
				return boolLiteral(!null)
			}
		}
	case kind.IsComparison():
		l, lok := c.Operands[0].(*Literal)
		r, rok := c.Operands[1].(*Literal)
		if !lok || !rok {
			return n
		}
		if l.Value.IsNull() || r.Value.IsNull() {
			return NewNullLiteral(sqltypes.Boolean)
		}
		cmp, ok := compareLiterals(l, r)
		if !ok {
			return n
		}
		return boolLiteral(comparisonHolds(kind, cmp))
	}
	return n
}

// simplifyJunction simplifies AND (identity TRUE, absorbing FALSE) and OR
// (identity FALSE, absorbing TRUE).
func simplifyJunction(c *Call, identity, absorbing *Literal) Node {
	var terms []Node
	seen := map[string]bool{}
	for _, t := range c.Operands {
		if Equal(t, absorbing) {
			return absorbing
		}
		if Equal(t, identity) {
			continue
		}
		d := t.String()
		if seen[d] {
			continue
		}
		seen[d] = true
		terms = append(terms, t)
	}
	switch len(terms) {
	case 0:
		return identity
	case 1:
		return terms[0]
	}
	if len(terms) == len(c.Operands) {
		return c
	}
	return &Call{Op: c.Op, Operands: terms, T: c.T}
}

func boolLiteral(b bool) *Literal {
	if b {
		return True
	}
	return False
}

func compareLiterals(l, r *Literal) (int, bool) {
	lv, rv := l.Value, r.Value
	if sqltypes.IsNumber(lv.Type()) && sqltypes.IsNumber(rv.Type()) {
		lf, err1 := lv.ToFloat64()
		rf, err2 := rv.ToFloat64()
		if err1 != nil || err2 != nil {
			return 0, false
		}
		switch {
		case lf < rf:
			return -1, true
		case lf > rf:
			return 1, true
		}
		return 0, true
	}
	if lv.IsQuoted() && rv.IsQuoted() {
		return strings.Compare(lv.ToString(), rv.ToString()), true
	}
	if lv.Type() == sqltypes.Boolean && rv.Type() == sqltypes.Boolean {
		return strings.Compare(lv.ToString(), rv.ToString()), true
	}
	return 0, false
}

func comparisonHolds(kind sqlnode.Kind, cmp int) bool {
	switch kind {
	case sqlnode.KindEquals:
		return cmp == 0
	case sqlnode.KindNotEquals:
		return cmp != 0
	case sqlnode.KindLessThan:
		return cmp < 0
	case sqlnode.KindLessThanOrEqual:
		return cmp <= 0
	case sqlnode.KindGreaterThan:
		return cmp > 0
	case sqlnode.KindGreaterThanOrEqual:
		return cmp >= 0
	}
	return false
}
