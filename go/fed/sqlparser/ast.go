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

// Package sqlparser holds the domain AST handed to the federation planner
// by the SQL front end. Parsing SQL text is the front end's job; this
// package only defines the nodes, prints them back as SQL and walks them.
package sqlparser

type (
	// SQLNode defines the interface for all nodes of the AST.
	SQLNode interface {
		Format(buf *TrackedBuffer)
	}

	// Expr represents an expression.
	Expr interface {
		SQLNode
		iExpr()
	}

	// SelectExpr represents a SELECT expression.
	SelectExpr interface {
		SQLNode
		iSelectExpr()
	}

	// TableExpr represents a table expression.
	TableExpr interface {
		SQLNode
		iTableExpr()
	}
)

type (
	// Select represents a SELECT statement.
	Select struct {
		Distinct    bool
		SelectExprs []SelectExpr
		From        []TableExpr
		Where       Expr
		GroupBy     []Expr
		Having      Expr
		OrderBy     []*Order
		Limit       *Limit
	}

	// StarExpr defines a '*' or 'table.*' expression.
	StarExpr struct {
		TableName string
	}

	// AliasedExpr defines an aliased SELECT expression.
	AliasedExpr struct {
		Expr Expr
		As   string
	}

	// AliasedTableExpr represents a table expression
	// coupled with an optional alias.
	AliasedTableExpr struct {
		Name string
		As   string
	}

	// JoinTableExpr represents a TableExpr that's a JOIN operation.
	JoinTableExpr struct {
		LeftExpr  TableExpr
		Join      JoinType
		RightExpr TableExpr
		On        Expr
	}

	// Order represents an ordering expression.
	Order struct {
		Expr      Expr
		Direction OrderDirection
	}

	// Limit represents a LIMIT clause.
	Limit struct {
		Offset, Rowcount Expr
	}

	// JoinType represents the type of Join for JoinTableExpr
	JoinType int8

	// OrderDirection is an enum for the direction in which to order - asc or desc.
	OrderDirection int8
)

// Constants for Enum Type - JoinType
const (
	NormalJoinType JoinType = iota
	LeftJoinType
	RightJoinType
	FullJoinType
)

// Constants for Enum Type - OrderDirection
const (
	AscOrder OrderDirection = iota
	DescOrder
)

func (*StarExpr) iSelectExpr()    {}
func (*AliasedExpr) iSelectExpr() {}

func (*AliasedTableExpr) iTableExpr() {}
func (*JoinTableExpr) iTableExpr()    {}

type (
	// ColName represents a column name.
	ColName struct {
		Name      string
		Qualifier string
	}

	// Literal represents a fixed value.
	Literal struct {
		Type ValType
		Val  string
	}

	// NullVal represents a NULL value.
	NullVal struct{}

	// BoolVal is true or false.
	BoolVal bool

	// Argument is a '?' parameter marker. Index is its zero based position
	// among the markers of the statement.
	Argument struct {
		Index int
	}

	// ValTuple represents a parenthesized list of expressions, as found on
	// the right hand side of IN.
	ValTuple []Expr

	// Subquery represents a subquery used as an expression.
	Subquery struct {
		Select *Select
	}

	// AndExpr represents an AND expression.
	AndExpr struct {
		Left, Right Expr
	}

	// OrExpr represents an OR expression.
	OrExpr struct {
		Left, Right Expr
	}

	// NotExpr represents a NOT expression.
	NotExpr struct {
		Expr Expr
	}

	// ComparisonExpr represents a two-value comparison expression.
	ComparisonExpr struct {
		Operator    ComparisonExprOperator
		Left, Right Expr
	}

	// InExpr represents `left [NOT] IN right`, where right is a ValTuple
	// or a Subquery. StartIndex and StopIndex locate the expression in the
	// statement text.
	InExpr struct {
		Left       Expr
		Right      Expr
		Not        bool
		StartIndex int
		StopIndex  int
	}

	// BetweenExpr represents a BETWEEN or a NOT BETWEEN expression.
	BetweenExpr struct {
		Left Expr
		Not  bool
		From Expr
		To   Expr
	}

	// BinaryExpr represents a binary value expression.
	BinaryExpr struct {
		Operator    BinaryExprOperator
		Left, Right Expr
	}

	// UnaryExpr represents a unary value expression.
	UnaryExpr struct {
		Operator UnaryExprOperator
		Expr     Expr
	}

	// IsExpr represents an IS ... or an IS NOT ... expression.
	IsExpr struct {
		Left  Expr
		Right IsExprOperator
	}

	// FuncExpr represents a function call. Star is set for COUNT(*).
	FuncExpr struct {
		Name     string
		Distinct bool
		Star     bool
		Exprs    []Expr
	}

	// ValType specifies the type for Literal.
	ValType int8

	// ComparisonExprOperator is an enum for ComparisonExpr.Operator
	ComparisonExprOperator int8

	// BinaryExprOperator is an enum for BinaryExpr.Operator
	BinaryExprOperator int8

	// UnaryExprOperator is an enum for UnaryExpr.Operator
	UnaryExprOperator int8

	// IsExprOperator is an enum for IsExpr.Operator
	IsExprOperator int8
)

// These are the possible Valtype values.
const (
	StrVal ValType = iota
	IntVal
	FloatVal
	DecimalVal
)

// Constants for Enum Type - ComparisonExprOperator
const (
	EqualOp ComparisonExprOperator = iota
	LessThanOp
	GreaterThanOp
	LessEqualOp
	GreaterEqualOp
	NotEqualOp
	LikeOp
	NotLikeOp
)

// Constants for Enum Type - BinaryExprOperator
const (
	PlusOp BinaryExprOperator = iota
	MinusOp
	MultOp
	DivOp
	ModOp
)

// Constants for Enum Type - UnaryExprOperator
const (
	UMinusOp UnaryExprOperator = iota
	UPlusOp
)

// Constants for Enum Type - IsExprOperator
const (
	IsNullOp IsExprOperator = iota
	IsNotNullOp
	IsTrueOp
	IsNotTrueOp
	IsFalseOp
	IsNotFalseOp
)

func (*ColName) iExpr()        {}
func (*Literal) iExpr()        {}
func (*NullVal) iExpr()        {}
func (BoolVal) iExpr()         {}
func (*Argument) iExpr()       {}
func (ValTuple) iExpr()        {}
func (*Subquery) iExpr()       {}
func (*AndExpr) iExpr()        {}
func (*OrExpr) iExpr()         {}
func (*NotExpr) iExpr()        {}
func (*ComparisonExpr) iExpr() {}
func (*InExpr) iExpr()         {}
func (*BetweenExpr) iExpr()    {}
func (*BinaryExpr) iExpr()     {}
func (*UnaryExpr) iExpr()      {}
func (*IsExpr) iExpr()         {}
func (*FuncExpr) iExpr()       {}

// NewColName makes a new ColName.
func NewColName(str string) *ColName {
	return &ColName{Name: str}
}

// NewColNameWithQualifier makes a new ColName qualified with the given table name.
func NewColNameWithQualifier(identifier string, table string) *ColName {
	return &ColName{Name: identifier, Qualifier: table}
}

// NewIntLiteral builds a new IntVal.
func NewIntLiteral(in string) *Literal {
	return &Literal{Type: IntVal, Val: in}
}

// NewDecimalLiteral builds a new DecimalVal.
func NewDecimalLiteral(in string) *Literal {
	return &Literal{Type: DecimalVal, Val: in}
}

// NewFloatLiteral builds a new FloatVal.
func NewFloatLiteral(in string) *Literal {
	return &Literal{Type: FloatVal, Val: in}
}

// NewStrLiteral builds a new StrVal.
func NewStrLiteral(in string) *Literal {
	return &Literal{Type: StrVal, Val: in}
}

// NewArgument builds a new parameter marker.
func NewArgument(index int) *Argument {
	return &Argument{Index: index}
}

// AndExpressions ands together two or more expressions, minimising the expr when possible
func AndExpressions(exprs ...Expr) Expr {
	switch len(exprs) {
	case 0:
		return nil
	case 1:
		return exprs[0]
	default:
		result := exprs[0]
		for _, e := range exprs[1:] {
			result = &AndExpr{Left: result, Right: e}
		}
		return result
	}
}
