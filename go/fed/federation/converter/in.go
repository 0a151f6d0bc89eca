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

package converter

import (
	"fedgate.io/fedgate/go/fed/federation/sqlnode"
	"fedgate.io/fedgate/go/fed/federrors"
	"fedgate.io/fedgate/go/fed/sqlparser"
)

// InExprConverter converts `left [NOT] IN right` expressions. Not is fixed
// at construction: the converter for the negated form produces a NOT call
// on the way in and negated expressions on the way out.
type InExprConverter struct {
	Not   bool
	exprs *ExpressionConverter
}

// ToRelational converts in into IN(left, right), wrapped in NOT when the
// converter is negated. A right hand side that converts to a call, such as
// a literal tuple, is flattened into a node list; anything else, such as a
// subquery, is used as is. The output carries no position.
func (c *InExprConverter) ToRelational(in *sqlparser.InExpr) (sqlnode.Node, error) {
	if in == nil {
		return nil, nil
	}
	left, err := c.exprs.ToRelational(in.Left)
	if err != nil {
		return nil, err
	}
	if left == nil {
		return nil, federrors.NewIllegalPlanState("IN without left operand")
	}
	right, err := c.exprs.ToRelational(in.Right)
	if err != nil {
		return nil, err
	}
	if right == nil {
		return nil, federrors.NewIllegalPlanState("IN without right operand")
	}
	if call, ok := right.(*sqlnode.BasicCall); ok {
		right = sqlnode.NewNodeList(sqlnode.ZeroPos, call.Operands...)
	}
	var result sqlnode.Node = sqlnode.NewCall(sqlnode.In, sqlnode.ZeroPos, left, right)
	if c.Not {
		result = sqlnode.NewCall(sqlnode.Not, sqlnode.ZeroPos, result)
	}
	return result, nil
}

// ToDomain converts an IN call back into an InExpr. The call must have
// exactly two operands. When the right operand is a subquery the stop
// index is one past the end of the call, covering the closing parenthesis.
func (c *InExprConverter) ToDomain(node sqlnode.Node) (*sqlparser.InExpr, error) {
	if node == nil {
		return nil, nil
	}
	call, ok := node.(*sqlnode.BasicCall)
	if !ok || call.Kind() != sqlnode.KindIn {
		return nil, federrors.NewIllegalPlanState("expected IN call, got %s", node.Kind())
	}
	if len(call.Operands) != 2 {
		return nil, federrors.NewIllegalPlanState("IN call expects 2 operands, got %d", len(call.Operands))
	}
	left, err := c.exprs.ToDomain(call.Operands[0])
	if err != nil {
		return nil, err
	}
	if left == nil {
		return nil, federrors.NewIllegalPlanState("left operand of IN converted to nothing")
	}
	right, err := c.exprs.ToDomain(call.Operands[1])
	if err != nil {
		return nil, err
	}
	if right == nil {
		return nil, federrors.NewIllegalPlanState("right operand of IN converted to nothing")
	}
	stop := call.Pos().StopIndex()
	if call.Operands[1].Kind() == sqlnode.KindSelect {
		stop++
	}
	return &sqlparser.InExpr{
		Left:       left,
		Right:      right,
		Not:        c.Not,
		StartIndex: call.Pos().StartIndex(),
		StopIndex:  stop,
	}, nil
}
