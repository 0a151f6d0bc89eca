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

package sqlparser

import (
	"strconv"
	"strings"
)

// TrackedBuffer is used to rebuild a query from the ast.
type TrackedBuffer struct {
	strings.Builder
}

// NewTrackedBuffer creates a new TrackedBuffer.
func NewTrackedBuffer() *TrackedBuffer {
	return &TrackedBuffer{}
}

// printExpr wraps sub-expressions that bind looser than their parent in
// parentheses.
func (buf *TrackedBuffer) printExpr(parent, expr Expr) {
	if needParens(parent, expr) {
		buf.WriteByte('(')
		expr.Format(buf)
		buf.WriteByte(')')
		return
	}
	expr.Format(buf)
}

// String returns a string representation of an SQLNode.
func String(node SQLNode) string {
	if node == nil {
		return "<nil>"
	}
	buf := NewTrackedBuffer()
	node.Format(buf)
	return buf.String()
}

// Format formats the node.
func (node *Select) Format(buf *TrackedBuffer) {
	buf.WriteString("select ")
	if node.Distinct {
		buf.WriteString("distinct ")
	}
	for i, expr := range node.SelectExprs {
		if i > 0 {
			buf.WriteString(", ")
		}
		expr.Format(buf)
	}
	if len(node.From) > 0 {
		buf.WriteString(" from ")
		for i, expr := range node.From {
			if i > 0 {
				buf.WriteString(", ")
			}
			expr.Format(buf)
		}
	}
	if node.Where != nil {
		buf.WriteString(" where ")
		node.Where.Format(buf)
	}
	if len(node.GroupBy) > 0 {
		buf.WriteString(" group by ")
		for i, expr := range node.GroupBy {
			if i > 0 {
				buf.WriteString(", ")
			}
			expr.Format(buf)
		}
	}
	if node.Having != nil {
		buf.WriteString(" having ")
		node.Having.Format(buf)
	}
	if len(node.OrderBy) > 0 {
		buf.WriteString(" order by ")
		for i, order := range node.OrderBy {
			if i > 0 {
				buf.WriteString(", ")
			}
			order.Format(buf)
		}
	}
	if node.Limit != nil {
		node.Limit.Format(buf)
	}
}

// Format formats the node.
func (node *StarExpr) Format(buf *TrackedBuffer) {
	if node.TableName != "" {
		buf.WriteString(node.TableName)
		buf.WriteByte('.')
	}
	buf.WriteByte('*')
}

// Format formats the node.
func (node *AliasedExpr) Format(buf *TrackedBuffer) {
	node.Expr.Format(buf)
	if node.As != "" {
		buf.WriteString(" as ")
		buf.WriteString(node.As)
	}
}

// Format formats the node.
func (node *AliasedTableExpr) Format(buf *TrackedBuffer) {
	buf.WriteString(node.Name)
	if node.As != "" {
		buf.WriteString(" as ")
		buf.WriteString(node.As)
	}
}

// Format formats the node.
func (node *JoinTableExpr) Format(buf *TrackedBuffer) {
	node.LeftExpr.Format(buf)
	buf.WriteByte(' ')
	buf.WriteString(node.Join.ToString())
	buf.WriteByte(' ')
	node.RightExpr.Format(buf)
	if node.On != nil {
		buf.WriteString(" on ")
		node.On.Format(buf)
	}
}

// Format formats the node.
func (node *Order) Format(buf *TrackedBuffer) {
	node.Expr.Format(buf)
	if node.Direction == DescOrder {
		buf.WriteString(" desc")
	} else {
		buf.WriteString(" asc")
	}
}

// Format formats the node.
func (node *Limit) Format(buf *TrackedBuffer) {
	buf.WriteString(" limit ")
	if node.Offset != nil {
		node.Offset.Format(buf)
		buf.WriteString(", ")
	}
	node.Rowcount.Format(buf)
}

// Format formats the node.
func (node *ColName) Format(buf *TrackedBuffer) {
	if node.Qualifier != "" {
		buf.WriteString(node.Qualifier)
		buf.WriteByte('.')
	}
	buf.WriteString(node.Name)
}

// Format formats the node.
func (node *Literal) Format(buf *TrackedBuffer) {
	switch node.Type {
	case StrVal:
		buf.WriteByte('\'')
		buf.WriteString(strings.ReplaceAll(node.Val, "'", "''"))
		buf.WriteByte('\'')
	default:
		buf.WriteString(node.Val)
	}
}

// Format formats the node.
func (node *NullVal) Format(buf *TrackedBuffer) {
	buf.WriteString("null")
}

// Format formats the node.
func (node BoolVal) Format(buf *TrackedBuffer) {
	if node {
		buf.WriteString("true")
	} else {
		buf.WriteString("false")
	}
}

// Format formats the node.
func (node *Argument) Format(buf *TrackedBuffer) {
	buf.WriteByte('?')
}

// Format formats the node.
func (node ValTuple) Format(buf *TrackedBuffer) {
	buf.WriteByte('(')
	for i, expr := range node {
		if i > 0 {
			buf.WriteString(", ")
		}
		expr.Format(buf)
	}
	buf.WriteByte(')')
}

// Format formats the node.
func (node *Subquery) Format(buf *TrackedBuffer) {
	buf.WriteByte('(')
	node.Select.Format(buf)
	buf.WriteByte(')')
}

// Format formats the node.
func (node *AndExpr) Format(buf *TrackedBuffer) {
	buf.printExpr(node, node.Left)
	buf.WriteString(" and ")
	buf.printExpr(node, node.Right)
}

// Format formats the node.
func (node *OrExpr) Format(buf *TrackedBuffer) {
	buf.printExpr(node, node.Left)
	buf.WriteString(" or ")
	buf.printExpr(node, node.Right)
}

// Format formats the node.
func (node *NotExpr) Format(buf *TrackedBuffer) {
	buf.WriteString("not ")
	buf.printExpr(node, node.Expr)
}

// Format formats the node.
func (node *ComparisonExpr) Format(buf *TrackedBuffer) {
	buf.printExpr(node, node.Left)
	buf.WriteByte(' ')
	buf.WriteString(node.Operator.ToString())
	buf.WriteByte(' ')
	buf.printExpr(node, node.Right)
}

// Format formats the node.
func (node *InExpr) Format(buf *TrackedBuffer) {
	buf.printExpr(node, node.Left)
	if node.Not {
		buf.WriteString(" not in ")
	} else {
		buf.WriteString(" in ")
	}
	node.Right.Format(buf)
}

// Format formats the node.
func (node *BetweenExpr) Format(buf *TrackedBuffer) {
	buf.printExpr(node, node.Left)
	if node.Not {
		buf.WriteString(" not between ")
	} else {
		buf.WriteString(" between ")
	}
	buf.printExpr(node, node.From)
	buf.WriteString(" and ")
	buf.printExpr(node, node.To)
}

// Format formats the node.
func (node *BinaryExpr) Format(buf *TrackedBuffer) {
	buf.printExpr(node, node.Left)
	buf.WriteByte(' ')
	buf.WriteString(node.Operator.ToString())
	buf.WriteByte(' ')
	buf.printExpr(node, node.Right)
}

// Format formats the node.
func (node *UnaryExpr) Format(buf *TrackedBuffer) {
	buf.WriteString(node.Operator.ToString())
	buf.printExpr(node, node.Expr)
}

// Format formats the node.
func (node *IsExpr) Format(buf *TrackedBuffer) {
	buf.printExpr(node, node.Left)
	buf.WriteByte(' ')
	buf.WriteString(node.Right.ToString())
}

// Format formats the node.
func (node *FuncExpr) Format(buf *TrackedBuffer) {
	buf.WriteString(node.Name)
	buf.WriteByte('(')
	if node.Distinct {
		buf.WriteString("distinct ")
	}
	if node.Star {
		buf.WriteByte('*')
	}
	for i, expr := range node.Exprs {
		if i > 0 {
			buf.WriteString(", ")
		}
		expr.Format(buf)
	}
	buf.WriteByte(')')
}

// ToString returns the string associated with JoinType
func (joinType JoinType) ToString() string {
	switch joinType {
	case LeftJoinType:
		return "left join"
	case RightJoinType:
		return "right join"
	case FullJoinType:
		return "full join"
	default:
		return "join"
	}
}

// ToString returns the operator as a string
func (op ComparisonExprOperator) ToString() string {
	switch op {
	case EqualOp:
		return "="
	case LessThanOp:
		return "<"
	case GreaterThanOp:
		return ">"
	case LessEqualOp:
		return "<="
	case GreaterEqualOp:
		return ">="
	case NotEqualOp:
		return "!="
	case LikeOp:
		return "like"
	case NotLikeOp:
		return "not like"
	default:
		return "Unknown ComparisonExpOperator(" + strconv.Itoa(int(op)) + ")"
	}
}

// ToString returns the operator as a string
func (op BinaryExprOperator) ToString() string {
	switch op {
	case PlusOp:
		return "+"
	case MinusOp:
		return "-"
	case MultOp:
		return "*"
	case DivOp:
		return "/"
	case ModOp:
		return "%"
	default:
		return "Unknown BinaryExprOperator(" + strconv.Itoa(int(op)) + ")"
	}
}

// ToString returns the operator as a string
func (op UnaryExprOperator) ToString() string {
	switch op {
	case UMinusOp:
		return "-"
	case UPlusOp:
		return "+"
	default:
		return "Unknown UnaryExprOperator(" + strconv.Itoa(int(op)) + ")"
	}
}

// ToString returns the operator as a string
func (op IsExprOperator) ToString() string {
	switch op {
	case IsNullOp:
		return "is null"
	case IsNotNullOp:
		return "is not null"
	case IsTrueOp:
		return "is true"
	case IsNotTrueOp:
		return "is not true"
	case IsFalseOp:
		return "is false"
	case IsNotFalseOp:
		return "is not false"
	default:
		return "Unknown IsExprOperator(" + strconv.Itoa(int(op)) + ")"
	}
}
