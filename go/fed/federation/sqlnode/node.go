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

// Package sqlnode defines the relational SQL node tree consumed by the
// validator and the SQL-to-relational converter. Expressions are encoded
// uniformly as operator calls over operand lists.
package sqlnode

import "fmt"

// ParserPos locates a node in the statement text. Line and column numbers
// are one based; the zero value means the position is unknown.
type ParserPos struct {
	LineNum      int
	ColumnNum    int
	EndLineNum   int
	EndColumnNum int
}

// ZeroPos is the unknown position carried by synthesized nodes.
var ZeroPos = ParserPos{}

// NewPos returns the position spanning the given columns of one line.
func NewPos(line, column, endColumn int) ParserPos {
	return ParserPos{LineNum: line, ColumnNum: column, EndLineNum: line, EndColumnNum: endColumn}
}

// StartIndex returns the zero based offset of the first character.
func (p ParserPos) StartIndex() int {
	return p.ColumnNum - 1
}

// StopIndex returns the zero based offset of the last character.
func (p ParserPos) StopIndex() int {
	return p.EndColumnNum - 1
}

// IsZero reports whether the position is unknown.
func (p ParserPos) IsZero() bool {
	return p == ZeroPos
}

func (p ParserPos) String() string {
	return fmt.Sprintf("line %d, column %d", p.LineNum, p.ColumnNum)
}

// Node is a node of the relational SQL tree.
type Node interface {
	Kind() Kind
	Pos() ParserPos
	String() string
}

type (
	// Identifier is a possibly compound name. A trailing empty name
	// stands for '*'.
	Identifier struct {
		Names []string
		P     ParserPos
	}

	// Literal is a constant. Value holds the canonical textual form.
	Literal struct {
		Type  LiteralType
		Value string
		P     ParserPos
	}

	// DynamicParam is a '?' parameter marker.
	DynamicParam struct {
		Index int
		P     ParserPos
	}

	// NodeList is an ordered list of nodes.
	NodeList struct {
		Nodes []Node
		P     ParserPos
	}

	// BasicCall applies an operator to its operands.
	BasicCall struct {
		Op       *Operator
		Operands []Node
		Distinct bool
		P        ParserPos
	}

	// Select is a query block.
	Select struct {
		Distinct   bool
		SelectList *NodeList
		From       Node
		Where      Node
		GroupBy    *NodeList
		Having     Node
		OrderBy    *NodeList
		Offset     Node
		Fetch      Node
		P          ParserPos
	}

	// Join combines two FROM items.
	Join struct {
		Left      Node
		Type      JoinType
		Right     Node
		Condition Node
		P         ParserPos
	}

	// LiteralType classifies Literal values.
	LiteralType int8

	// JoinType is the kind of a Join.
	JoinType int8
)

// Literal types.
const (
	NullLiteral LiteralType = iota
	BooleanLiteral
	ExactLiteral
	ApproxLiteral
	DecimalLiteral
	CharLiteral
)

// Join types.
const (
	InnerJoin JoinType = iota
	LeftJoin
	RightJoin
	FullJoin
	CommaJoin
)

// NewIdentifier returns an identifier made of the given names.
func NewIdentifier(pos ParserPos, names ...string) *Identifier {
	return &Identifier{Names: names, P: pos}
}

// NewCall returns a call of op over operands.
func NewCall(op *Operator, pos ParserPos, operands ...Node) *BasicCall {
	return &BasicCall{Op: op, Operands: operands, P: pos}
}

// NewNodeList returns a list of nodes.
func NewNodeList(pos ParserPos, nodes ...Node) *NodeList {
	return &NodeList{Nodes: nodes, P: pos}
}

func (*Identifier) Kind() Kind   { return KindIdentifier }
func (*Literal) Kind() Kind      { return KindLiteral }
func (*DynamicParam) Kind() Kind { return KindDynamicParam }
func (*NodeList) Kind() Kind     { return KindList }
func (*Select) Kind() Kind       { return KindSelect }
func (*Join) Kind() Kind         { return KindJoin }

// Kind returns the kind of the operator.
func (c *BasicCall) Kind() Kind { return c.Op.Kind }

func (n *Identifier) Pos() ParserPos   { return n.P }
func (n *Literal) Pos() ParserPos      { return n.P }
func (n *DynamicParam) Pos() ParserPos { return n.P }
func (n *NodeList) Pos() ParserPos     { return n.P }
func (n *BasicCall) Pos() ParserPos    { return n.P }
func (n *Select) Pos() ParserPos       { return n.P }
func (n *Join) Pos() ParserPos         { return n.P }

// IsStar reports whether the identifier is '*' or 't.*'.
func (n *Identifier) IsStar() bool {
	return len(n.Names) > 0 && n.Names[len(n.Names)-1] == ""
}

// IsSimple reports whether the identifier has a single name.
func (n *Identifier) IsSimple() bool {
	return len(n.Names) == 1
}

// Simple returns the last name of the identifier.
func (n *Identifier) Simple() string {
	return n.Names[len(n.Names)-1]
}

// Operand returns the i-th operand of the call.
func (c *BasicCall) Operand(i int) Node {
	return c.Operands[i]
}

// Len returns the number of nodes in the list; a nil list is empty.
func (l *NodeList) Len() int {
	if l == nil {
		return 0
	}
	return len(l.Nodes)
}
