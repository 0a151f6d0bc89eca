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
	"sort"

	"fedgate.io/fedgate/go/fed/federation/reltype"
	"fedgate.io/fedgate/go/fed/federation/sqlnode"
	"fedgate.io/fedgate/go/sqltypes"
)

var booleanType = reltype.RelType{Type: sqltypes.Boolean, Nullable: true}

// Conjunctions splits n into its AND-ed terms. A nil node has none.
func Conjunctions(n Node) []Node {
	if n == nil {
		return nil
	}
	if c, ok := n.(*Call); ok && c.Op.Kind == sqlnode.KindAnd {
		var out []Node
		for _, op := range c.Operands {
			out = append(out, Conjunctions(op)...)
		}
		return out
	}
	return []Node{n}
}

// Disjunctions splits n into its OR-ed terms.
func Disjunctions(n Node) []Node {
	if c, ok := n.(*Call); ok && c.Op.Kind == sqlnode.KindOr {
		var out []Node
		for _, op := range c.Operands {
			out = append(out, Disjunctions(op)...)
		}
		return out
	}
	return []Node{n}
}

// And returns the conjunction of terms, flattened. It is nil for no terms
// and the term itself for one.
func And(terms ...Node) Node {
	return compose(sqlnode.And, terms)
}

// Or returns the disjunction of terms, flattened.
func Or(terms ...Node) Node {
	return compose(sqlnode.Or, terms)
}

func compose(op *sqlnode.Operator, terms []Node) Node {
	var flat []Node
	for _, t := range terms {
		if t == nil {
			continue
		}
		if IsCall(t, op.Kind) {
			flat = append(flat, t.(*Call).Operands...)
			continue
		}
		flat = append(flat, t)
	}
	switch len(flat) {
	case 0:
		return nil
	case 1:
		return flat[0]
	}
	return NewCall(op, booleanType, flat...)
}

// Not negates n.
func Not(n Node) Node {
	return NewCall(sqlnode.Not, booleanType, n)
}

// Walk calls visit on n and, while visit returns true, on its operands.
func Walk(n Node, visit func(Node) bool) {
	if n == nil || !visit(n) {
		return
	}
	if c, ok := n.(*Call); ok {
		for _, op := range c.Operands {
			Walk(op, visit)
		}
	}
}

// Rewrite returns n with every node replaced by fn, bottom up. Nodes that
// fn leaves alone are shared with the input.
func Rewrite(n Node, fn func(Node) Node) Node {
	if c, ok := n.(*Call); ok {
		var operands []Node
		for i, op := range c.Operands {
			r := Rewrite(op, fn)
			if r != op && operands == nil {
				operands = make([]Node, len(c.Operands))
				copy(operands, c.Operands[:i])
			}
			if operands != nil {
				operands[i] = r
			}
		}
		if operands != nil {
			n = &Call{Op: c.Op, Operands: operands, Distinct: c.Distinct, T: c.T}
		}
	}
	return fn(n)
}

// Shift adds offset to every input reference of n.
func Shift(n Node, offset int) Node {
	if offset == 0 {
		return n
	}
	return Remap(n, func(i int) int { return i + offset })
}

// Remap replaces every input reference i of n by mapping(i).
func Remap(n Node, mapping func(int) int) Node {
	return Rewrite(n, func(n Node) Node {
		if ref, ok := n.(*InputRef); ok {
			return &InputRef{Index: mapping(ref.Index), T: ref.T}
		}
		return n
	})
}

// Substitute replaces every input reference i of n by exprs[i].
func Substitute(n Node, exprs []Node) Node {
	return Rewrite(n, func(n Node) Node {
		if ref, ok := n.(*InputRef); ok {
			return exprs[ref.Index]
		}
		return n
	})
}

// InputRefs returns the sorted, distinct input indexes n refers to.
func InputRefs(nodes ...Node) []int {
	seen := map[int]bool{}
	for _, n := range nodes {
		Walk(n, func(n Node) bool {
			if ref, ok := n.(*InputRef); ok {
				seen[ref.Index] = true
			}
			return true
		})
	}
	refs := make([]int, 0, len(seen))
	for i := range seen {
		refs = append(refs, i)
	}
	sort.Ints(refs)
	return refs
}

// Equal reports whether a and b are the same expression.
func Equal(a, b Node) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.String() == b.String()
}

// IsIdentity reports whether exprs are the input references 0..n-1 of an
// input of n fields.
func IsIdentity(exprs []Node, n int) bool {
	if len(exprs) != n {
		return false
	}
	for i, e := range exprs {
		ref, ok := e.(*InputRef)
		if !ok || ref.Index != i {
			return false
		}
	}
	return true
}
