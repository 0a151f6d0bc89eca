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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fedgate.io/fedgate/go/fed/federation/reltype"
	"fedgate.io/fedgate/go/fed/federation/sqlnode"
	"fedgate.io/fedgate/go/sqltypes"
)

var (
	intType  = reltype.RelType{Type: sqltypes.Int64, Nullable: true}
	boolType = reltype.RelType{Type: sqltypes.Boolean, Nullable: true}
)

func ref(i int) *InputRef {
	return &InputRef{Index: i, T: intType}
}

func lit(v int64) *Literal {
	return &Literal{Value: sqltypes.NewInt64(v), T: intType}
}

func eq(a, b Node) Node {
	return NewCall(sqlnode.Equals, boolType, a, b)
}

func TestDigest(t *testing.T) {
	n := And(eq(ref(0), lit(1)), NewCall(sqlnode.In, boolType, ref(2), lit(3), lit(4)))
	assert.Equal(t, "AND(=($0, 1), IN($2, 3, 4))", n.String())

	str := &Literal{Value: sqltypes.NewVarChar("it's"), T: reltype.RelType{Type: sqltypes.VarChar}}
	assert.Equal(t, "'it''s'", str.String())
	assert.Equal(t, "?1", (&DynamicParam{Index: 1}).String())
	assert.Equal(t, "COUNT(DISTINCT $0)", (&Call{Op: sqlnode.Count, Operands: []Node{ref(0)}, Distinct: true}).String())
}

func TestConjunctions(t *testing.T) {
	a, b, c := eq(ref(0), lit(1)), eq(ref(1), lit(2)), eq(ref(2), lit(3))
	n := And(a, And(b, c))
	call, ok := n.(*Call)
	require.True(t, ok)
	assert.Len(t, call.Operands, 3, "And flattens nested conjunctions")
	assert.Equal(t, []Node{a, b, c}, Conjunctions(n))
	assert.Nil(t, Conjunctions(nil))
	assert.Nil(t, And())
	assert.Same(t, a, And(nil, a))

	o := Or(a, Or(b, c))
	assert.Len(t, Disjunctions(o), 3)
}

func TestShiftAndRemap(t *testing.T) {
	n := eq(ref(0), ref(3))
	shifted := Shift(n, 2)
	assert.Equal(t, "=($2, $5)", shifted.String())
	assert.Equal(t, "=($0, $3)", n.String(), "input is not modified")
	assert.Same(t, n, Shift(n, 0))

	remapped := Remap(n, func(i int) int { return map[int]int{0: 1, 3: 0}[i] })
	assert.Equal(t, "=($1, $0)", remapped.String())

	substituted := Substitute(n, []Node{lit(7), nil, nil, NewCall(sqlnode.Plus, intType, ref(0), lit(1))})
	assert.Equal(t, "=(7, +($0, 1))", substituted.String())

	assert.Equal(t, []int{0, 3}, InputRefs(n))
	assert.Equal(t, []int{0, 1, 3}, InputRefs(n, ref(1)))
}

func TestRewriteSharesUntouchedNodes(t *testing.T) {
	left := eq(ref(0), lit(1))
	n := And(left, eq(ref(1), lit(2)))
	out := Rewrite(n, func(n Node) Node {
		if l, ok := n.(*Literal); ok && Equal(l, lit(2)) {
			return lit(3)
		}
		return n
	})
	assert.Equal(t, "AND(=($0, 1), =($1, 3))", out.String())
	assert.Same(t, left, out.(*Call).Operands[0])
}

func TestSimplify(t *testing.T) {
	notNull := &InputRef{Index: 0, T: reltype.RelType{Type: sqltypes.Int64}}
	testcases := []struct {
		name string
		in   Node
		want string
	}{{
		name: "literal comparison",
		in:   eq(lit(1), lit(1)),
		want: "true",
	}, {
		name: "and with false",
		in:   And(eq(ref(0), lit(1)), NewCall(sqlnode.LessThan, boolType, lit(5), lit(2))),
		want: "false",
	}, {
		name: "and drops true terms",
		in:   And(eq(ref(0), lit(1)), True, eq(ref(0), lit(1))),
		want: "=($0, 1)",
	}, {
		name: "or with true",
		in:   Or(eq(ref(0), lit(1)), NewCall(sqlnode.GreaterThanOrEqual, boolType, lit(5), lit(2))),
		want: "true",
	}, {
		name: "double negation",
		in:   Not(Not(eq(ref(0), lit(1)))),
		want: "=($0, 1)",
	}, {
		name: "not false",
		in:   Not(False),
		want: "true",
	}, {
		name: "null comparison",
		in:   eq(ref(0), NewNullLiteral(sqltypes.Int64)),
		want: "=($0, null)",
	}, {
		name: "null literal comparison",
		in:   eq(lit(1), NewNullLiteral(sqltypes.Int64)),
		want: "null",
	}, {
		name: "is not null on a non nullable field",
		in:   NewCall(sqlnode.IsNotNull, boolType, notNull),
		want: "true",
	}, {
		name: "string comparison",
		in: NewCall(sqlnode.LessThan, boolType,
			&Literal{Value: sqltypes.NewVarChar("a"), T: reltype.RelType{Type: sqltypes.VarChar}},
			&Literal{Value: sqltypes.NewVarChar("b"), T: reltype.RelType{Type: sqltypes.VarChar}}),
		want: "true",
	}}
	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Simplify(tc.in).String())
		})
	}

	assert.True(t, IsAlwaysTrue(eq(lit(2), lit(2))))
	assert.True(t, IsAlwaysFalse(eq(lit(2), lit(3))))
	assert.True(t, IsAlwaysFalse(eq(lit(2), NewNullLiteral(sqltypes.Int64))))
	assert.False(t, IsAlwaysFalse(eq(ref(0), lit(3))))
	assert.Nil(t, Simplify(nil))
}

func TestIsIdentity(t *testing.T) {
	assert.True(t, IsIdentity([]Node{ref(0), ref(1)}, 2))
	assert.False(t, IsIdentity([]Node{ref(1), ref(0)}, 2))
	assert.False(t, IsIdentity([]Node{ref(0)}, 2))
	assert.False(t, IsIdentity([]Node{lit(0)}, 1))
}
