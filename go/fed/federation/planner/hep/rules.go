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

package hep

import (
	"fedgate.io/fedgate/go/fed/federation/rel"
	"fedgate.io/fedgate/go/fed/federation/rex"
)

type ruleFunc struct {
	name  string
	apply func(rel.Node) (rel.Node, ApplyResult, error)
}

func (r *ruleFunc) Name() string { return r.name }

func (r *ruleFunc) Apply(n rel.Node) (rel.Node, ApplyResult, error) { return r.apply(n) }

// NewRule returns a rule named name applying fn.
func NewRule(name string, fn func(rel.Node) (rel.Node, ApplyResult, error)) Rule {
	return &ruleFunc{name: name, apply: fn}
}

// The standard rules.
var (
	// ReduceExpressions folds constant conditions. A filter that is
	// always true is removed.
	ReduceExpressions = NewRule("ReduceExpressions", reduceExpressions)
	// FilterMerge combines two adjacent filters.
	FilterMerge = NewRule("FilterMerge", filterMerge)
	// FilterProjectTranspose moves a filter below a projection.
	FilterProjectTranspose = NewRule("FilterProjectTranspose", filterProjectTranspose)
	// FilterIntoJoin pushes the conjuncts of a filter above a join into
	// the join condition or its inputs.
	FilterIntoJoin = NewRule("FilterIntoJoin", filterIntoJoin)
	// JoinConditionPush pushes single sided conjuncts of a join condition
	// into its inputs.
	JoinConditionPush = NewRule("JoinConditionPush", joinConditionPush)
	// ProjectMerge combines two adjacent projections.
	ProjectMerge = NewRule("ProjectMerge", projectMerge)
	// ProjectRemove removes projections that return their input as is.
	ProjectRemove = NewRule("ProjectRemove", projectRemove)
	// AggregateProjectMerge reads the fields of a projection of plain
	// field references directly from its input.
	AggregateProjectMerge = NewRule("AggregateProjectMerge", aggregateProjectMerge)
)

func reduceExpressions(n rel.Node) (rel.Node, ApplyResult, error) {
	switch n := n.(type) {
	case *rel.Filter:
		if rex.IsAlwaysTrue(n.Condition) {
			return n.Input, NewTree, nil
		}
		if s := rex.Simplify(n.Condition); !rex.Equal(s, n.Condition) {
			return &rel.Filter{Input: n.Input, Condition: s}, NewTree, nil
		}
	case *rel.Join:
		if n.Condition == nil {
			return n, SameTree, nil
		}
		if rex.IsAlwaysTrue(n.Condition) {
			return &rel.Join{Left: n.Left, Right: n.Right, Type: n.Type}, NewTree, nil
		}
		if s := rex.Simplify(n.Condition); !rex.Equal(s, n.Condition) {
			return &rel.Join{Left: n.Left, Right: n.Right, Type: n.Type, Condition: s}, NewTree, nil
		}
	}
	return n, SameTree, nil
}

func filterMerge(n rel.Node) (rel.Node, ApplyResult, error) {
	top, ok := n.(*rel.Filter)
	if !ok {
		return n, SameTree, nil
	}
	bottom, ok := top.Input.(*rel.Filter)
	if !ok {
		return n, SameTree, nil
	}
	return &rel.Filter{Input: bottom.Input, Condition: rex.And(bottom.Condition, top.Condition)}, NewTree, nil
}

func filterProjectTranspose(n rel.Node) (rel.Node, ApplyResult, error) {
	filter, ok := n.(*rel.Filter)
	if !ok {
		return n, SameTree, nil
	}
	project, ok := filter.Input.(*rel.Project)
	if !ok {
		return n, SameTree, nil
	}
	cond := rex.Substitute(filter.Condition, project.Exprs)
	return &rel.Project{
		Input: &rel.Filter{Input: project.Input, Condition: cond},
		Exprs: project.Exprs,
		Names: project.Names,
	}, NewTree, nil
}

// side classifies an expression by the join inputs it refers to.
type side int8

const (
	sideNone side = iota
	sideLeft
	sideRight
	sideBoth
)

func sideOf(e rex.Node, leftWidth int) side {
	s := sideNone
	for _, i := range rex.InputRefs(e) {
		cur := sideLeft
		if i >= leftWidth {
			cur = sideRight
		}
		if s != sideNone && s != cur {
			return sideBoth
		}
		s = cur
	}
	return s
}

// pushed collects the conjuncts moved into either input of a join.
type pushed struct {
	left, right []rex.Node
	leftWidth   int
}

func (p *pushed) push(s side, term rex.Node) {
	if s == sideLeft {
		p.left = append(p.left, term)
		return
	}
	p.right = append(p.right, rex.Shift(term, -p.leftWidth))
}

func (p *pushed) any() bool { return len(p.left)+len(p.right) > 0 }

// inputs returns the join inputs with the pushed conjuncts applied.
func (p *pushed) inputs(j *rel.Join) (rel.Node, rel.Node) {
	left, right := j.Left, j.Right
	if cond := rex.And(p.left...); cond != nil {
		left = &rel.Filter{Input: left, Condition: cond}
	}
	if cond := rex.And(p.right...); cond != nil {
		right = &rel.Filter{Input: right, Condition: cond}
	}
	return left, right
}

func filterIntoJoin(n rel.Node) (rel.Node, ApplyResult, error) {
	filter, ok := n.(*rel.Filter)
	if !ok {
		return n, SameTree, nil
	}
	join, ok := filter.Input.(*rel.Join)
	if !ok {
		return n, SameTree, nil
	}
	p := &pushed{leftWidth: join.Left.RowType().FieldCount()}
	var above, into []rex.Node
	for _, term := range rex.Conjunctions(filter.Condition) {
		s := sideOf(term, p.leftWidth)
		switch {
		case s == sideLeft && join.Type != rel.RightJoin && join.Type != rel.FullJoin:
			p.push(s, term)
		case s == sideRight && (join.Type == rel.InnerJoin || join.Type == rel.RightJoin):
			p.push(s, term)
		case s == sideBoth && join.Type == rel.InnerJoin:
			into = append(into, term)
		default:
			above = append(above, term)
		}
	}
	if !p.any() && len(into) == 0 {
		return n, SameTree, nil
	}
	left, right := p.inputs(join)
	var out rel.Node = &rel.Join{Left: left, Right: right, Type: join.Type, Condition: rex.And(join.Condition, rex.And(into...))}
	if cond := rex.And(above...); cond != nil {
		out = &rel.Filter{Input: out, Condition: cond}
	}
	return out, NewTree, nil
}

func joinConditionPush(n rel.Node) (rel.Node, ApplyResult, error) {
	join, ok := n.(*rel.Join)
	if !ok || join.Condition == nil {
		return n, SameTree, nil
	}
	p := &pushed{leftWidth: join.Left.RowType().FieldCount()}
	var kept []rex.Node
	for _, term := range rex.Conjunctions(join.Condition) {
		s := sideOf(term, p.leftWidth)
		switch {
		case s == sideLeft && (join.Type == rel.InnerJoin || join.Type == rel.RightJoin || join.Type == rel.SemiJoin):
			p.push(s, term)
		case s == sideRight && join.Type != rel.RightJoin && join.Type != rel.FullJoin:
			p.push(s, term)
		default:
			kept = append(kept, term)
		}
	}
	if !p.any() {
		return n, SameTree, nil
	}
	left, right := p.inputs(join)
	return &rel.Join{Left: left, Right: right, Type: join.Type, Condition: rex.And(kept...)}, NewTree, nil
}

func projectMerge(n rel.Node) (rel.Node, ApplyResult, error) {
	top, ok := n.(*rel.Project)
	if !ok {
		return n, SameTree, nil
	}
	bottom, ok := top.Input.(*rel.Project)
	if !ok {
		return n, SameTree, nil
	}
	exprs := make([]rex.Node, len(top.Exprs))
	for i, e := range top.Exprs {
		exprs[i] = rex.Substitute(e, bottom.Exprs)
	}
	return &rel.Project{Input: bottom.Input, Exprs: exprs, Names: top.Names}, NewTree, nil
}

func projectRemove(n rel.Node) (rel.Node, ApplyResult, error) {
	project, ok := n.(*rel.Project)
	if !ok {
		return n, SameTree, nil
	}
	input := project.Input.RowType()
	if !rex.IsIdentity(project.Exprs, input.FieldCount()) {
		return n, SameTree, nil
	}
	for i, f := range input.Fields {
		if f.Name != project.Names[i] {
			return n, SameTree, nil
		}
	}
	return project.Input, NewTree, nil
}

func aggregateProjectMerge(n rel.Node) (rel.Node, ApplyResult, error) {
	agg, ok := n.(*rel.Aggregate)
	if !ok {
		return n, SameTree, nil
	}
	project, ok := agg.Input.(*rel.Project)
	if !ok {
		return n, SameTree, nil
	}
	input := project.Input.RowType()
	source := func(i int) (int, bool) {
		ref, ok := project.Exprs[i].(*rex.InputRef)
		if !ok {
			return 0, false
		}
		return ref.Index, true
	}
	groupSet := make([]int, len(agg.GroupSet))
	for i, g := range agg.GroupSet {
		s, ok := source(g)
		if !ok || input.Fields[s].Name != project.Names[g] {
			return n, SameTree, nil
		}
		groupSet[i] = s
	}
	calls := make([]rel.AggregateCall, len(agg.Calls))
	for i, c := range agg.Calls {
		args := make([]int, len(c.Args))
		for j, a := range c.Args {
			s, ok := source(a)
			if !ok {
				return n, SameTree, nil
			}
			args[j] = s
		}
		c.Args = args
		calls[i] = c
	}
	return &rel.Aggregate{Input: project.Input, GroupSet: groupSet, Calls: calls}, NewTree, nil
}
