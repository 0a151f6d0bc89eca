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

// Package rex defines the row expressions of relational plans: typed
// expressions over the fields of an input row.
package rex

import (
	"strconv"
	"strings"

	"fedgate.io/fedgate/go/fed/federation/reltype"
	"fedgate.io/fedgate/go/fed/federation/sqlnode"
	"fedgate.io/fedgate/go/sqltypes"
)

// Node is a row expression. Nodes are immutable.
type Node interface {
	Type() reltype.RelType
	// String returns the digest of the expression. Two expressions with
	// the same digest are equivalent.
	String() string
}

type (
	// InputRef refers to the field at Index of the input row.
	InputRef struct {
		Index int
		T     reltype.RelType
	}

	// Literal is a constant.
	Literal struct {
		Value sqltypes.Value
		T     reltype.RelType
	}

	// DynamicParam is a parameter bound at execution time.
	DynamicParam struct {
		Index int
		T     reltype.RelType
	}

	// Call applies an operator to operands.
	Call struct {
		Op       *sqlnode.Operator
		Operands []Node
		Distinct bool
		T        reltype.RelType
	}
)

// NewInputRef returns a reference to field i of rowType.
func NewInputRef(rowType *reltype.RowType, i int) *InputRef {
	return &InputRef{Index: i, T: rowType.Fields[i].Type}
}

// NewCall returns a call of op.
func NewCall(op *sqlnode.Operator, t reltype.RelType, operands ...Node) *Call {
	return &Call{Op: op, Operands: operands, T: t}
}

// Boolean literals.
var (
	True  = &Literal{Value: sqltypes.NewBoolean(true), T: reltype.RelType{Type: sqltypes.Boolean}}
	False = &Literal{Value: sqltypes.NewBoolean(false), T: reltype.RelType{Type: sqltypes.Boolean}}
)

// NewNullLiteral returns a NULL of type t.
func NewNullLiteral(t sqltypes.Type) *Literal {
	return &Literal{Value: sqltypes.NULL, T: reltype.RelType{Type: t, Nullable: true}}
}

func (n *InputRef) Type() reltype.RelType     { return n.T }
func (n *Literal) Type() reltype.RelType      { return n.T }
func (n *DynamicParam) Type() reltype.RelType { return n.T }
func (n *Call) Type() reltype.RelType         { return n.T }

func (n *InputRef) String() string {
	return "$" + strconv.Itoa(n.Index)
}

func (n *Literal) String() string {
	return n.Value.EncodeSQLString()
}

func (n *DynamicParam) String() string {
	return "?" + strconv.Itoa(n.Index)
}

func (n *Call) String() string {
	var b strings.Builder
	b.WriteString(n.Op.Name)
	b.WriteByte('(')
	if n.Distinct {
		b.WriteString("DISTINCT ")
	}
	for i, op := range n.Operands {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(op.String())
	}
	b.WriteByte(')')
	return b.String()
}

// Kind returns the operator kind of the call.
func (n *Call) Kind() sqlnode.Kind {
	return n.Op.Kind
}

// IsCall reports whether n is a call of the given kind.
func IsCall(n Node, kind sqlnode.Kind) bool {
	c, ok := n.(*Call)
	return ok && c.Op.Kind == kind
}

// IsLiteral reports whether n is a literal.
func IsLiteral(n Node) bool {
	_, ok := n.(*Literal)
	return ok
}
