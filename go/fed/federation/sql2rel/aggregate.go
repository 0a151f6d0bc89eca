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

package sql2rel

import (
	"strconv"

	"fedgate.io/fedgate/go/fed/federation/rel"
	"fedgate.io/fedgate/go/fed/federation/reltype"
	"fedgate.io/fedgate/go/fed/federation/rex"
	"fedgate.io/fedgate/go/fed/federation/sqlnode"
	"fedgate.io/fedgate/go/fed/federrors"
)

// aggregator converts expressions over the output of an Aggregate: group
// keys and aggregate calls become references to its fields.
type aggregator struct {
	b     *blackboard
	keys  map[string]int
	calls map[string]int
	rt    *reltype.RowType
}

// aggregate replaces root with a projection of the group keys and
// aggregate arguments followed by an Aggregate over it.
func (b *blackboard) aggregate() (*aggregator, error) {
	v := b.v
	var pre []rex.Node
	preIndex := map[string]int{}
	add := func(e rex.Node) int {
		d := e.String()
		if i, ok := preIndex[d]; ok {
			return i
		}
		preIndex[d] = len(pre)
		pre = append(pre, e)
		return len(pre) - 1
	}

	agg := &aggregator{b: b, keys: map[string]int{}, calls: map[string]int{}}
	var groupSet []int
	grouped := map[int]int{}
	for _, k := range v.GroupBy {
		e, err := b.rex(k)
		if err != nil {
			return nil, err
		}
		i := add(e)
		pos, ok := grouped[i]
		if !ok {
			pos = len(groupSet)
			grouped[i] = pos
			groupSet = append(groupSet, i)
		}
		agg.keys[k.String()] = pos
	}

	itemNames := map[string]string{}
	for _, item := range v.Items {
		if _, ok := itemNames[item.Expr.String()]; !ok {
			itemNames[item.Expr.String()] = item.Name
		}
	}
	var calls []rel.AggregateCall
	var collect func(n sqlnode.Node) error
	collect = func(n sqlnode.Node) error {
		c, ok := n.(*sqlnode.BasicCall)
		if !ok {
			return nil
		}
		if !c.Kind().IsAggregate() {
			for _, op := range c.Operands {
				if err := collect(op); err != nil {
					return err
				}
			}
			return nil
		}
		d := c.String()
		if _, ok := agg.calls[d]; ok {
			return nil
		}
		t, ok := v.TypeOf(c)
		if !ok {
			return federrors.NewIllegalPlanState("aggregate %s has no type", d)
		}
		args := make([]int, len(c.Operands))
		for i, op := range c.Operands {
			e, err := b.rex(op)
			if err != nil {
				return err
			}
			args[i] = add(e)
		}
		pos := len(groupSet) + len(calls)
		name, ok := itemNames[d]
		if !ok {
			name = "$f" + strconv.Itoa(pos)
		}
		agg.calls[d] = pos
		calls = append(calls, rel.AggregateCall{Op: c.Op, Args: args, Distinct: c.Distinct, Type: t, Name: name})
		return nil
	}
	exprs := append([]sqlnode.Node{}, v.Having)
	for _, item := range v.Items {
		exprs = append(exprs, item.Expr)
	}
	for _, oi := range v.OrderBy {
		exprs = append(exprs, oi.Expr)
	}
	for _, e := range exprs {
		if err := collect(e); err != nil {
			return nil, err
		}
	}

	input := b.root
	if len(pre) > 0 && !rex.IsIdentity(pre, input.RowType().FieldCount()) {
		input = rel.NewProject(input, pre, nil)
	}
	node := &rel.Aggregate{Input: input, GroupSet: groupSet, Calls: calls}
	b.root = node
	agg.rt = node.RowType()
	return agg, nil
}

func (a *aggregator) rex(n sqlnode.Node) (rex.Node, error) {
	if i, ok := a.keys[n.String()]; ok {
		return rex.NewInputRef(a.rt, i), nil
	}
	switch n := n.(type) {
	case *sqlnode.BasicCall:
		if !n.Kind().IsAggregate() {
			return a.b.call(n, a.rex)
		}
		i, ok := a.calls[n.String()]
		if !ok {
			return nil, federrors.NewIllegalPlanState("aggregate %s was not collected", n.String())
		}
		return rex.NewInputRef(a.rt, i), nil
	case *sqlnode.Identifier:
		return nil, federrors.FED03008(n.String())
	}
	return a.b.leaf(n)
}
