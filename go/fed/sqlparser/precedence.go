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

// precedence levels, higher binds tighter.
const (
	syntheticPrecedence = iota
	P1
	P2
	P3
	P4
	P5
	P6
	P7
)

// precedenceFor returns the precedence of an expression.
//
// * NOTE: If no precedence is returned (i.e. 0), then the expression binds
// tighter than anything else and needs no parentheses.
func precedenceFor(in Expr) int {
	switch node := in.(type) {
	case *OrExpr:
		return P1
	case *AndExpr:
		return P2
	case *NotExpr:
		return P3
	case *ComparisonExpr, *InExpr, *BetweenExpr, *IsExpr:
		return P4
	case *BinaryExpr:
		switch node.Operator {
		case PlusOp, MinusOp:
			return P5
		default:
			return P6
		}
	case *UnaryExpr:
		return P7
	}
	return syntheticPrecedence
}

func needParens(op, val Expr) bool {
	valPrec := precedenceFor(val)
	if valPrec == syntheticPrecedence {
		return false
	}
	opPrec := precedenceFor(op)
	if valPrec < opPrec {
		return true
	}
	// left associative operators of the same level still need parentheses
	// on a right hand side of the same level, e.g. a - (b - c).
	if valPrec == opPrec {
		if bin, ok := op.(*BinaryExpr); ok {
			return bin.Right == val
		}
		return valPrec == P4
	}
	return false
}
