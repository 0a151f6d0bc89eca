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

package sqlnode

import (
	"strings"
)

// atomic is the precedence of nodes that never need parentheses.
const atomic = 100

func (n *Identifier) String() string {
	parts := make([]string, len(n.Names))
	for i, name := range n.Names {
		if name == "" {
			parts[i] = "*"
			continue
		}
		parts[i] = name
	}
	return strings.Join(parts, ".")
}

func (n *Literal) String() string {
	switch n.Type {
	case NullLiteral:
		return "NULL"
	case BooleanLiteral:
		return strings.ToUpper(n.Value)
	case CharLiteral:
		return "'" + strings.ReplaceAll(n.Value, "'", "''") + "'"
	}
	return n.Value
}

func (n *DynamicParam) String() string {
	return "?"
}

func (n *NodeList) String() string {
	var b strings.Builder
	b.WriteByte('(')
	writeList(&b, n.Nodes)
	b.WriteByte(')')
	return b.String()
}

func (n *Join) String() string {
	var b strings.Builder
	writeFrom(&b, n)
	return b.String()
}

func (n *Select) String() string {
	var b strings.Builder
	b.WriteString("SELECT ")
	if n.Distinct {
		b.WriteString("DISTINCT ")
	}
	if n.SelectList != nil {
		writeList(&b, n.SelectList.Nodes)
	}
	if n.From != nil {
		b.WriteString(" FROM ")
		writeFrom(&b, n.From)
	}
	if n.Where != nil {
		b.WriteString(" WHERE ")
		writeOperand(&b, n.Where, 0)
	}
	if n.GroupBy.Len() > 0 {
		b.WriteString(" GROUP BY ")
		writeList(&b, n.GroupBy.Nodes)
	}
	if n.Having != nil {
		b.WriteString(" HAVING ")
		writeOperand(&b, n.Having, 0)
	}
	if n.OrderBy.Len() > 0 {
		b.WriteString(" ORDER BY ")
		writeList(&b, n.OrderBy.Nodes)
	}
	if n.Offset != nil {
		b.WriteString(" OFFSET ")
		b.WriteString(n.Offset.String())
		b.WriteString(" ROWS")
	}
	if n.Fetch != nil {
		b.WriteString(" FETCH NEXT ")
		b.WriteString(n.Fetch.String())
		b.WriteString(" ROWS ONLY")
	}
	return b.String()
}

func (c *BasicCall) String() string {
	var b strings.Builder
	writeCall(&b, c)
	return b.String()
}

func writeList(b *strings.Builder, nodes []Node) {
	for i, node := range nodes {
		if i > 0 {
			b.WriteString(", ")
		}
		writeOperand(b, node, 0)
	}
}

func writeFrom(b *strings.Builder, node Node) {
	join, ok := node.(*Join)
	if !ok {
		writeOperand(b, node, 0)
		return
	}
	writeFrom(b, join.Left)
	switch join.Type {
	case CommaJoin:
		b.WriteString(", ")
	case LeftJoin:
		b.WriteString(" LEFT JOIN ")
	case RightJoin:
		b.WriteString(" RIGHT JOIN ")
	case FullJoin:
		b.WriteString(" FULL JOIN ")
	default:
		b.WriteString(" INNER JOIN ")
	}
	if _, nested := join.Right.(*Join); nested {
		b.WriteByte('(')
		writeFrom(b, join.Right)
		b.WriteByte(')')
	} else {
		writeOperand(b, join.Right, 0)
	}
	if join.Condition != nil {
		b.WriteString(" ON ")
		writeOperand(b, join.Condition, 0)
	}
}

func precedence(node Node) int {
	call, ok := node.(*BasicCall)
	if !ok || call.Op.Syntax == SyntaxFunction || call.Op.Kind == KindAs {
		return atomic
	}
	return call.Op.Precedence
}

// writeOperand writes node, parenthesized when it binds looser than min.
func writeOperand(b *strings.Builder, node Node, min int) {
	switch node := node.(type) {
	case *Select:
		b.WriteByte('(')
		b.WriteString(node.String())
		b.WriteByte(')')
		return
	case *BasicCall:
		if precedence(node) < min {
			b.WriteByte('(')
			writeCall(b, node)
			b.WriteByte(')')
			return
		}
		writeCall(b, node)
		return
	}
	b.WriteString(node.String())
}

func writeCall(b *strings.Builder, c *BasicCall) {
	op := c.Op
	switch op.Syntax {
	case SyntaxBinary:
		writeOperand(b, c.Operands[0], op.Precedence)
		b.WriteByte(' ')
		b.WriteString(op.Name)
		b.WriteByte(' ')
		writeOperand(b, c.Operands[1], op.Precedence+1)
	case SyntaxPrefix:
		b.WriteString(op.Name)
		if op.Kind == KindNot {
			b.WriteByte(' ')
		}
		writeOperand(b, c.Operands[0], op.Precedence)
	case SyntaxPostfix:
		writeOperand(b, c.Operands[0], op.Precedence+1)
		b.WriteByte(' ')
		b.WriteString(op.Name)
	case SyntaxSpecial:
		writeSpecial(b, c)
	default:
		b.WriteString(op.Name)
		b.WriteByte('(')
		if c.Distinct {
			b.WriteString("DISTINCT ")
		}
		if len(c.Operands) == 0 && op.Kind == KindCount {
			b.WriteByte('*')
		}
		writeList(b, c.Operands)
		b.WriteByte(')')
	}
}

func writeSpecial(b *strings.Builder, c *BasicCall) {
	op := c.Op
	switch op.Kind {
	case KindAs:
		if sel, ok := c.Operands[0].(*Select); ok {
			b.WriteByte('(')
			b.WriteString(sel.String())
			b.WriteByte(')')
		} else {
			writeOperand(b, c.Operands[0], 0)
		}
		b.WriteString(" AS ")
		b.WriteString(c.Operands[1].String())
	case KindIn:
		writeOperand(b, c.Operands[0], op.Precedence+1)
		b.WriteString(" IN ")
		switch right := c.Operands[1].(type) {
		case *NodeList:
			b.WriteString(right.String())
		case *Select:
			b.WriteByte('(')
			b.WriteString(right.String())
			b.WriteByte(')')
		default:
			b.WriteByte('(')
			writeOperand(b, right, 0)
			b.WriteByte(')')
		}
	case KindBetween, KindNotBetween:
		writeOperand(b, c.Operands[0], op.Precedence+1)
		b.WriteByte(' ')
		b.WriteString(op.Name)
		b.WriteByte(' ')
		writeOperand(b, c.Operands[1], op.Precedence+1)
		b.WriteString(" AND ")
		writeOperand(b, c.Operands[2], op.Precedence+1)
	default:
		b.WriteString(op.Name)
		b.WriteByte('(')
		writeList(b, c.Operands)
		b.WriteByte(')')
	}
}
