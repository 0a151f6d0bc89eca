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
	"strconv"
	"strings"
)

// Kind classifies nodes and operators.
type Kind int

const (
	KindOther Kind = iota
	KindIdentifier
	KindLiteral
	KindDynamicParam
	KindList
	KindSelect
	KindJoin

	KindAs
	KindDesc
	KindNullsFirst
	KindNullsLast

	KindIn
	KindNot
	KindAnd
	KindOr
	KindEquals
	KindNotEquals
	KindLessThan
	KindLessThanOrEqual
	KindGreaterThan
	KindGreaterThanOrEqual
	KindLike
	KindNotLike
	KindBetween
	KindNotBetween
	KindIsNull
	KindIsNotNull
	KindIsTrue
	KindIsNotTrue
	KindIsFalse
	KindIsNotFalse

	KindPlus
	KindMinus
	KindTimes
	KindDivide
	KindMod
	KindMinusPrefix
	KindPlusPrefix

	KindRow
	KindCount
	KindSum
	KindMin
	KindMax
	KindAvg
	KindOtherFunction
)

// IsComparison reports whether the kind is a binary comparison.
func (k Kind) IsComparison() bool {
	switch k {
	case KindEquals, KindNotEquals, KindLessThan, KindLessThanOrEqual, KindGreaterThan, KindGreaterThanOrEqual:
		return true
	}
	return false
}

// IsArithmetic reports whether the kind is a binary arithmetic operator.
func (k Kind) IsArithmetic() bool {
	switch k {
	case KindPlus, KindMinus, KindTimes, KindDivide, KindMod:
		return true
	}
	return false
}

// IsAggregate reports whether the kind is an aggregate function.
func (k Kind) IsAggregate() bool {
	switch k {
	case KindCount, KindSum, KindMin, KindMax, KindAvg:
		return true
	}
	return false
}

// IsPostfixIs reports whether the kind is one of the IS [NOT] predicates.
func (k Kind) IsPostfixIs() bool {
	switch k {
	case KindIsNull, KindIsNotNull, KindIsTrue, KindIsNotTrue, KindIsFalse, KindIsNotFalse:
		return true
	}
	return false
}

// Syntax describes how an operator is written.
type Syntax int8

const (
	SyntaxFunction Syntax = iota
	SyntaxBinary
	SyntaxPrefix
	SyntaxPostfix
	SyntaxSpecial
)

// Operator is an entry of the operator table.
type Operator struct {
	Name       string
	Kind       Kind
	Syntax     Syntax
	Precedence int
	MinArgs    int
	// MaxArgs is -1 for variadic operators.
	MaxArgs int
	// Unresolved marks functions accepted by lenient lookup without a
	// known signature.
	Unresolved bool
}

func (op *Operator) String() string {
	return op.Name
}

// Standard operators.
var (
	As         = &Operator{Name: "AS", Kind: KindAs, Syntax: SyntaxSpecial, MinArgs: 2, MaxArgs: 2}
	Desc       = &Operator{Name: "DESC", Kind: KindDesc, Syntax: SyntaxPostfix, MinArgs: 1, MaxArgs: 1}
	NullsFirst = &Operator{Name: "NULLS FIRST", Kind: KindNullsFirst, Syntax: SyntaxPostfix, MinArgs: 1, MaxArgs: 1}
	NullsLast  = &Operator{Name: "NULLS LAST", Kind: KindNullsLast, Syntax: SyntaxPostfix, MinArgs: 1, MaxArgs: 1}

	Or                 = &Operator{Name: "OR", Kind: KindOr, Syntax: SyntaxBinary, Precedence: 1, MinArgs: 2, MaxArgs: 2}
	And                = &Operator{Name: "AND", Kind: KindAnd, Syntax: SyntaxBinary, Precedence: 2, MinArgs: 2, MaxArgs: 2}
	Not                = &Operator{Name: "NOT", Kind: KindNot, Syntax: SyntaxPrefix, Precedence: 3, MinArgs: 1, MaxArgs: 1}
	In                 = &Operator{Name: "IN", Kind: KindIn, Syntax: SyntaxSpecial, Precedence: 4, MinArgs: 2, MaxArgs: 2}
	Equals             = &Operator{Name: "=", Kind: KindEquals, Syntax: SyntaxBinary, Precedence: 4, MinArgs: 2, MaxArgs: 2}
	NotEquals          = &Operator{Name: "<>", Kind: KindNotEquals, Syntax: SyntaxBinary, Precedence: 4, MinArgs: 2, MaxArgs: 2}
	LessThan           = &Operator{Name: "<", Kind: KindLessThan, Syntax: SyntaxBinary, Precedence: 4, MinArgs: 2, MaxArgs: 2}
	LessThanOrEqual    = &Operator{Name: "<=", Kind: KindLessThanOrEqual, Syntax: SyntaxBinary, Precedence: 4, MinArgs: 2, MaxArgs: 2}
	GreaterThan        = &Operator{Name: ">", Kind: KindGreaterThan, Syntax: SyntaxBinary, Precedence: 4, MinArgs: 2, MaxArgs: 2}
	GreaterThanOrEqual = &Operator{Name: ">=", Kind: KindGreaterThanOrEqual, Syntax: SyntaxBinary, Precedence: 4, MinArgs: 2, MaxArgs: 2}
	Like               = &Operator{Name: "LIKE", Kind: KindLike, Syntax: SyntaxBinary, Precedence: 4, MinArgs: 2, MaxArgs: 2}
	NotLike            = &Operator{Name: "NOT LIKE", Kind: KindNotLike, Syntax: SyntaxBinary, Precedence: 4, MinArgs: 2, MaxArgs: 2}
	Between            = &Operator{Name: "BETWEEN", Kind: KindBetween, Syntax: SyntaxSpecial, Precedence: 4, MinArgs: 3, MaxArgs: 3}
	NotBetween         = &Operator{Name: "NOT BETWEEN", Kind: KindNotBetween, Syntax: SyntaxSpecial, Precedence: 4, MinArgs: 3, MaxArgs: 3}
	IsNull             = &Operator{Name: "IS NULL", Kind: KindIsNull, Syntax: SyntaxPostfix, Precedence: 4, MinArgs: 1, MaxArgs: 1}
	IsNotNull          = &Operator{Name: "IS NOT NULL", Kind: KindIsNotNull, Syntax: SyntaxPostfix, Precedence: 4, MinArgs: 1, MaxArgs: 1}
	IsTrue             = &Operator{Name: "IS TRUE", Kind: KindIsTrue, Syntax: SyntaxPostfix, Precedence: 4, MinArgs: 1, MaxArgs: 1}
	IsNotTrue          = &Operator{Name: "IS NOT TRUE", Kind: KindIsNotTrue, Syntax: SyntaxPostfix, Precedence: 4, MinArgs: 1, MaxArgs: 1}
	IsFalse            = &Operator{Name: "IS FALSE", Kind: KindIsFalse, Syntax: SyntaxPostfix, Precedence: 4, MinArgs: 1, MaxArgs: 1}
	IsNotFalse         = &Operator{Name: "IS NOT FALSE", Kind: KindIsNotFalse, Syntax: SyntaxPostfix, Precedence: 4, MinArgs: 1, MaxArgs: 1}

	Plus        = &Operator{Name: "+", Kind: KindPlus, Syntax: SyntaxBinary, Precedence: 5, MinArgs: 2, MaxArgs: 2}
	Minus       = &Operator{Name: "-", Kind: KindMinus, Syntax: SyntaxBinary, Precedence: 5, MinArgs: 2, MaxArgs: 2}
	Multiply    = &Operator{Name: "*", Kind: KindTimes, Syntax: SyntaxBinary, Precedence: 6, MinArgs: 2, MaxArgs: 2}
	Divide      = &Operator{Name: "/", Kind: KindDivide, Syntax: SyntaxBinary, Precedence: 6, MinArgs: 2, MaxArgs: 2}
	Mod         = &Operator{Name: "MOD", Kind: KindMod, Syntax: SyntaxFunction, MinArgs: 2, MaxArgs: 2}
	UnaryMinus  = &Operator{Name: "-", Kind: KindMinusPrefix, Syntax: SyntaxPrefix, Precedence: 7, MinArgs: 1, MaxArgs: 1}
	UnaryPlus   = &Operator{Name: "+", Kind: KindPlusPrefix, Syntax: SyntaxPrefix, Precedence: 7, MinArgs: 1, MaxArgs: 1}
	Row         = &Operator{Name: "ROW", Kind: KindRow, Syntax: SyntaxFunction, MinArgs: 0, MaxArgs: -1}
	Count       = &Operator{Name: "COUNT", Kind: KindCount, Syntax: SyntaxFunction, MinArgs: 0, MaxArgs: -1}
	Sum         = &Operator{Name: "SUM", Kind: KindSum, Syntax: SyntaxFunction, MinArgs: 1, MaxArgs: 1}
	Min         = &Operator{Name: "MIN", Kind: KindMin, Syntax: SyntaxFunction, MinArgs: 1, MaxArgs: 1}
	Max         = &Operator{Name: "MAX", Kind: KindMax, Syntax: SyntaxFunction, MinArgs: 1, MaxArgs: 1}
	Avg         = &Operator{Name: "AVG", Kind: KindAvg, Syntax: SyntaxFunction, MinArgs: 1, MaxArgs: 1}
	Abs         = &Operator{Name: "ABS", Kind: KindOtherFunction, Syntax: SyntaxFunction, MinArgs: 1, MaxArgs: 1}
	Upper       = &Operator{Name: "UPPER", Kind: KindOtherFunction, Syntax: SyntaxFunction, MinArgs: 1, MaxArgs: 1}
	Lower       = &Operator{Name: "LOWER", Kind: KindOtherFunction, Syntax: SyntaxFunction, MinArgs: 1, MaxArgs: 1}
	CharLength  = &Operator{Name: "CHAR_LENGTH", Kind: KindOtherFunction, Syntax: SyntaxFunction, MinArgs: 1, MaxArgs: 1}
	Coalesce    = &Operator{Name: "COALESCE", Kind: KindOtherFunction, Syntax: SyntaxFunction, MinArgs: 1, MaxArgs: -1}
	Concat      = &Operator{Name: "CONCAT", Kind: KindOtherFunction, Syntax: SyntaxFunction, MinArgs: 1, MaxArgs: -1}
	CurrentDate = &Operator{Name: "CURRENT_DATE", Kind: KindOtherFunction, Syntax: SyntaxFunction, MinArgs: 0, MaxArgs: 0}
)

// OperatorTable resolves function names to operators.
type OperatorTable struct {
	functions map[string]*Operator
}

// StdOperatorTable is the immutable table of standard functions.
var StdOperatorTable = newOperatorTable(Mod, Count, Sum, Min, Max, Avg, Abs, Upper, Lower, CharLength, Coalesce, Concat, CurrentDate)

func newOperatorTable(ops ...*Operator) *OperatorTable {
	t := &OperatorTable{functions: make(map[string]*Operator, len(ops))}
	for _, op := range ops {
		t.functions[op.Name] = op
	}
	t.functions["CHARACTER_LENGTH"] = CharLength
	t.functions["LENGTH"] = CharLength
	return t
}

// LookupFunction returns the function registered under name, ignoring case.
func (t *OperatorTable) LookupFunction(name string) (*Operator, bool) {
	op, ok := t.functions[strings.ToUpper(name)]
	return op, ok
}

// NewUnresolvedFunction returns an operator for a function that is not in
// any table. The validator accepts it only under lenient operator lookup.
func NewUnresolvedFunction(name string) *Operator {
	return &Operator{Name: strings.ToUpper(name), Kind: KindOtherFunction, Syntax: SyntaxFunction, MaxArgs: -1, Unresolved: true}
}

// CheckArgCount returns true if n operands are acceptable for op.
func (op *Operator) CheckArgCount(n int) bool {
	if n < op.MinArgs {
		return false
	}
	return op.MaxArgs < 0 || n <= op.MaxArgs
}

// Signature renders the operator applied to the given type names.
func (op *Operator) Signature(types []string) string {
	var b strings.Builder
	b.WriteString(op.Name)
	b.WriteByte('(')
	for i, t := range types {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteByte('<')
		b.WriteString(t)
		b.WriteByte('>')
	}
	b.WriteByte(')')
	return b.String()
}

var kindNames = map[Kind]string{
	KindOther:              "OTHER",
	KindIdentifier:         "IDENTIFIER",
	KindLiteral:            "LITERAL",
	KindDynamicParam:       "DYNAMIC_PARAM",
	KindList:               "LIST",
	KindSelect:             "SELECT",
	KindJoin:               "JOIN",
	KindAs:                 "AS",
	KindDesc:               "DESCENDING",
	KindNullsFirst:         "NULLS_FIRST",
	KindNullsLast:          "NULLS_LAST",
	KindIn:                 "IN",
	KindNot:                "NOT",
	KindAnd:                "AND",
	KindOr:                 "OR",
	KindEquals:             "EQUALS",
	KindNotEquals:          "NOT_EQUALS",
	KindLessThan:           "LESS_THAN",
	KindLessThanOrEqual:    "LESS_THAN_OR_EQUAL",
	KindGreaterThan:        "GREATER_THAN",
	KindGreaterThanOrEqual: "GREATER_THAN_OR_EQUAL",
	KindLike:               "LIKE",
	KindNotLike:            "NOT_LIKE",
	KindBetween:            "BETWEEN",
	KindNotBetween:         "NOT_BETWEEN",
	KindIsNull:             "IS_NULL",
	KindIsNotNull:          "IS_NOT_NULL",
	KindIsTrue:             "IS_TRUE",
	KindIsNotTrue:          "IS_NOT_TRUE",
	KindIsFalse:            "IS_FALSE",
	KindIsNotFalse:         "IS_NOT_FALSE",
	KindPlus:               "PLUS",
	KindMinus:              "MINUS",
	KindTimes:              "TIMES",
	KindDivide:             "DIVIDE",
	KindMod:                "MOD",
	KindMinusPrefix:        "MINUS_PREFIX",
	KindPlusPrefix:         "PLUS_PREFIX",
	KindRow:                "ROW",
	KindCount:              "COUNT",
	KindSum:                "SUM",
	KindMin:                "MIN",
	KindMax:                "MAX",
	KindAvg:                "AVG",
	KindOtherFunction:      "OTHER_FUNCTION",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}
