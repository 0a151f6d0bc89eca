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
	"fedgate.io/fedgate/go/fed/sqlparser"
)

var comparisonOperators = map[sqlparser.ComparisonExprOperator]*sqlnode.Operator{
	sqlparser.EqualOp:        sqlnode.Equals,
	sqlparser.NotEqualOp:     sqlnode.NotEquals,
	sqlparser.LessThanOp:     sqlnode.LessThan,
	sqlparser.LessEqualOp:    sqlnode.LessThanOrEqual,
	sqlparser.GreaterThanOp:  sqlnode.GreaterThan,
	sqlparser.GreaterEqualOp: sqlnode.GreaterThanOrEqual,
	sqlparser.LikeOp:         sqlnode.Like,
	sqlparser.NotLikeOp:      sqlnode.NotLike,
}

var binaryOperators = map[sqlparser.BinaryExprOperator]*sqlnode.Operator{
	sqlparser.PlusOp:  sqlnode.Plus,
	sqlparser.MinusOp: sqlnode.Minus,
	sqlparser.MultOp:  sqlnode.Multiply,
	sqlparser.DivOp:   sqlnode.Divide,
	sqlparser.ModOp:   sqlnode.Mod,
}

var unaryOperators = map[sqlparser.UnaryExprOperator]*sqlnode.Operator{
	sqlparser.UMinusOp: sqlnode.UnaryMinus,
	sqlparser.UPlusOp:  sqlnode.UnaryPlus,
}

var isOperators = map[sqlparser.IsExprOperator]*sqlnode.Operator{
	sqlparser.IsNullOp:     sqlnode.IsNull,
	sqlparser.IsNotNullOp:  sqlnode.IsNotNull,
	sqlparser.IsTrueOp:     sqlnode.IsTrue,
	sqlparser.IsNotTrueOp:  sqlnode.IsNotTrue,
	sqlparser.IsFalseOp:    sqlnode.IsFalse,
	sqlparser.IsNotFalseOp: sqlnode.IsNotFalse,
}

var (
	comparisonKinds = invert(comparisonOperators)
	binaryKinds     = invert(binaryOperators)
	unaryKinds      = invert(unaryOperators)
	isKinds         = invert(isOperators)
)

func invert[K comparable](m map[K]*sqlnode.Operator) map[sqlnode.Kind]K {
	out := make(map[sqlnode.Kind]K, len(m))
	for k, op := range m {
		out[op.Kind] = k
	}
	return out
}
