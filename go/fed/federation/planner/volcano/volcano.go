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

// Package volcano implements logical plans as physical ones, choosing
// between alternative implementations by estimated cost.
package volcano

import (
	"math"
	"slices"

	"fedgate.io/fedgate/go/fed/federation/rel"
	"fedgate.io/fedgate/go/fed/federation/rex"
	"fedgate.io/fedgate/go/fed/federation/sqlnode"
	"fedgate.io/fedgate/go/fed/federrors"
	"fedgate.io/fedgate/go/fed/log"
	"fedgate.io/fedgate/go/stats"
)

var (
	alternatives = stats.NewCountersWithSingleLabel("FederationVolcanoAlternatives", "Physical alternatives costed by the cost-based planner", "Kind")
	chosen       = stats.NewCountersWithSingleLabel("FederationVolcanoChosen", "Physical alternatives chosen by the cost-based planner", "Kind")
)

// CostModel weighs the work of physical operators. CPU is charged per row
// processed, IO per value transferred from a data source and HashBuild per
// row inserted into a hash table.
type CostModel struct {
	CPU       float64
	IO        float64
	HashBuild float64
}

// DefaultCostModel is the cost model federation contexts are built with.
var DefaultCostModel = CostModel{CPU: 1, IO: 4, HashBuild: 2}

// Planner finds the cheapest physical implementation of one logical plan.
// It holds per query state and must not be shared between queries.
type Planner struct {
	cost CostModel
	root rel.Node
	memo map[rel.Node]*candidate
}

type candidate struct {
	node rel.Node
	cost float64
}

// New returns a planner for one query.
func New(cost CostModel) *Planner {
	return &Planner{cost: cost, memo: make(map[rel.Node]*candidate)}
}

// SetRoot sets the logical plan to implement.
func (p *Planner) SetRoot(root rel.Node) error {
	if root == nil {
		return federrors.NewIllegalPlanState("cost-based planner requires a root plan")
	}
	p.root = root
	return nil
}

// FindBestExp returns the cheapest physical plan of the root.
func (p *Planner) FindBestExp() (rel.Node, error) {
	if p.root == nil {
		return nil, federrors.NewIllegalPlanState("cost-based planner has no root plan")
	}
	best, err := p.implement(p.root)
	if err != nil {
		return nil, err
	}
	log.DebugS("physical plan chosen", "cost", best.cost, "nodes", len(p.memo))
	return best.node, nil
}

// Cost returns the estimated cost of the plan FindBestExp chose, or +Inf
// before a plan was found.
func (p *Planner) Cost() float64 {
	if best, ok := p.memo[p.root]; ok {
		return best.cost
	}
	return math.Inf(1)
}

func (p *Planner) implement(n rel.Node) (*candidate, error) {
	if best, ok := p.memo[n]; ok {
		return best, nil
	}
	var (
		best *candidate
		err  error
	)
	switch n := n.(type) {
	case *rel.TableScan:
		best = p.cheapest("scan", p.scanAlternatives(nil, nil, n)...)
	case *rel.Filter:
		if scan, ok := n.Input.(*rel.TableScan); ok {
			best = p.cheapest("scan", p.scanAlternatives(nil, n, scan)...)
			break
		}
		best, err = p.single(n, func(in rel.Node) rel.Node {
			return &rel.FilterExec{Input: in, Condition: n.Condition}
		})
	case *rel.Project:
		if filter, scan, ok := scanBelow(n.Input); ok {
			best = p.cheapest("scan", p.scanAlternatives(n, filter, scan)...)
			break
		}
		best, err = p.single(n, func(in rel.Node) rel.Node {
			return &rel.ProjectExec{Input: in, Exprs: n.Exprs, Names: n.Names}
		})
	case *rel.Join:
		best, err = p.join(n)
	case *rel.Aggregate:
		best, err = p.single(n, func(in rel.Node) rel.Node {
			return &rel.HashAggregateExec{Input: in, GroupSet: n.GroupSet, Calls: n.Calls}
		})
	case *rel.Sort:
		best, err = p.sort(n)
	default:
		if rel.IsPhysical(n) {
			return nil, federrors.NewIllegalPlanState("node %T is already physical", n)
		}
		return nil, federrors.NewIllegalPlanState("no implementation for node %T", n)
	}
	if err != nil {
		return nil, err
	}
	p.memo[n] = best
	return best, nil
}

// single implements a node with one input by wrapping the best plan of
// the input.
func (p *Planner) single(n rel.Node, wrap func(rel.Node) rel.Node) (*candidate, error) {
	in, err := p.implement(n.Inputs()[0])
	if err != nil {
		return nil, err
	}
	node := wrap(in.node)
	return &candidate{node: node, cost: in.cost + p.selfCost(node, in.node)}, nil
}

func (p *Planner) sort(n *rel.Sort) (*candidate, error) {
	in, err := p.implement(n.Input)
	if err != nil {
		return nil, err
	}
	node, cost := in.node, in.cost
	if len(n.Collation) > 0 {
		node, cost = p.wrap(&rel.SortExec{Input: node, Collation: n.Collation}, node, cost)
	}
	if n.Offset != rel.NoLimit || n.Fetch != rel.NoLimit {
		node, cost = p.wrap(&rel.LimitExec{Input: node, Offset: n.Offset, Fetch: n.Fetch}, node, cost)
	}
	return &candidate{node: node, cost: cost}, nil
}

// scanBelow matches an optional filter directly over a table scan.
func scanBelow(n rel.Node) (*rel.Filter, *rel.TableScan, bool) {
	switch n := n.(type) {
	case *rel.TableScan:
		return nil, n, true
	case *rel.Filter:
		if scan, ok := n.Input.(*rel.TableScan); ok {
			return n, scan, true
		}
	}
	return nil, nil, false
}

// scanAlternatives returns the plain scan with the filter and projection
// evaluated above it, and, when anything can be pushed, the scan carrying
// the pushable conjuncts and the columns in use.
func (p *Planner) scanAlternatives(project *rel.Project, filter *rel.Filter, scan *rel.TableScan) []*candidate {
	var node rel.Node = &rel.TableScanExec{Table: scan.Table}
	cost := p.scanCost(node.(*rel.TableScanExec))
	if filter != nil {
		node, cost = p.wrap(&rel.FilterExec{Input: node, Condition: filter.Condition}, node, cost)
	}
	if project != nil {
		node, cost = p.wrap(&rel.ProjectExec{Input: node, Exprs: project.Exprs, Names: project.Names}, node, cost)
	}
	plain := &candidate{node: node, cost: cost}

	var pushed, remaining []rex.Node
	if filter != nil {
		for _, term := range rex.Conjunctions(filter.Condition) {
			if Pushable(term) {
				pushed = append(pushed, term)
			} else {
				remaining = append(remaining, term)
			}
		}
	}
	width := scan.RowType().FieldCount()
	var projects []int
	if project != nil {
		projects = rex.InputRefs(append(append([]rex.Node(nil), project.Exprs...), remaining...)...)
		if len(projects) == 0 {
			projects = []int{0}
		}
		if len(projects) == width {
			projects = nil
		}
	}
	if len(pushed) == 0 && projects == nil {
		return []*candidate{plain}
	}

	exec := &rel.TableScanExec{Table: scan.Table, Filters: pushed, Projects: projects}
	mapping := func(i int) int { return i }
	if projects != nil {
		positions := make(map[int]int, len(projects))
		for pos, col := range projects {
			positions[col] = pos
		}
		mapping = func(i int) int { return positions[i] }
	}
	node, cost = exec, p.scanCost(exec)
	if cond := rex.And(remaining...); cond != nil {
		node, cost = p.wrap(&rel.FilterExec{Input: node, Condition: rex.Remap(cond, mapping)}, node, cost)
	}
	if project != nil {
		exprs := make([]rex.Node, len(project.Exprs))
		for i, e := range project.Exprs {
			exprs[i] = rex.Remap(e, mapping)
		}
		if !rex.IsIdentity(exprs, node.RowType().FieldCount()) || !slices.Equal(project.Names, node.RowType().FieldNames()) {
			node, cost = p.wrap(&rel.ProjectExec{Input: node, Exprs: exprs, Names: project.Names}, node, cost)
		}
	}
	return []*candidate{plain, {node: node, cost: cost}}
}

func (p *Planner) wrap(node, input rel.Node, inputCost float64) (rel.Node, float64) {
	return node, inputCost + p.selfCost(node, input)
}

func (p *Planner) join(n *rel.Join) (*candidate, error) {
	left, err := p.implement(n.Left)
	if err != nil {
		return nil, err
	}
	right, err := p.implement(n.Right)
	if err != nil {
		return nil, err
	}
	inputCost := left.cost + right.cost
	loop := &rel.NestedLoopJoinExec{Left: left.node, Right: right.node, Type: n.Type, Condition: n.Condition}
	options := []*candidate{{node: loop, cost: inputCost + p.selfCost(loop, nil)}}

	leftWidth := n.Left.RowType().FieldCount()
	leftKeys, rightKeys, remaining := equiKeys(n.Condition, leftWidth)
	if len(leftKeys) > 0 {
		hash := &rel.HashJoinExec{
			Left:      left.node,
			Right:     right.node,
			Type:      n.Type,
			LeftKeys:  leftKeys,
			RightKeys: rightKeys,
			Remaining: remaining,
			BuildLeft: rel.RowCount(left.node) < rel.RowCount(right.node),
		}
		options = append(options, &candidate{node: hash, cost: inputCost + p.selfCost(hash, nil)})
	}
	return p.cheapest("join", options...), nil
}

// equiKeys splits cond into the field pairs of its equality conjuncts
// between both sides and the remaining conjuncts.
func equiKeys(cond rex.Node, leftWidth int) (leftKeys, rightKeys []int, remaining rex.Node) {
	var rest []rex.Node
	for _, term := range rex.Conjunctions(cond) {
		l, r, ok := equiPair(term, leftWidth)
		if !ok {
			rest = append(rest, term)
			continue
		}
		leftKeys = append(leftKeys, l)
		rightKeys = append(rightKeys, r)
	}
	return leftKeys, rightKeys, rex.And(rest...)
}

func equiPair(term rex.Node, leftWidth int) (int, int, bool) {
	c, ok := term.(*rex.Call)
	if !ok || c.Kind() != sqlnode.KindEquals {
		return 0, 0, false
	}
	a, aok := c.Operands[0].(*rex.InputRef)
	b, bok := c.Operands[1].(*rex.InputRef)
	if !aok || !bok {
		return 0, 0, false
	}
	switch {
	case a.Index < leftWidth && b.Index >= leftWidth:
		return a.Index, b.Index - leftWidth, true
	case b.Index < leftWidth && a.Index >= leftWidth:
		return b.Index, a.Index - leftWidth, true
	}
	return 0, 0, false
}

func (p *Planner) cheapest(kind string, options ...*candidate) *candidate {
	best := options[0]
	for _, c := range options[1:] {
		if c.cost < best.cost {
			best = c
		}
	}
	alternatives.Add(kind, int64(len(options)))
	chosen.Add(kindOf(best.node), 1)
	return best
}

func kindOf(n rel.Node) string {
	switch n := n.(type) {
	case *rel.FilterExec:
		return kindOf(n.Input)
	case *rel.ProjectExec:
		return kindOf(n.Input)
	case *rel.TableScanExec:
		if len(n.Filters) > 0 || n.Projects != nil {
			return "PushdownScan"
		}
		return "PlainScan"
	case *rel.HashJoinExec:
		return "HashJoin"
	case *rel.NestedLoopJoinExec:
		return "NestedLoopJoin"
	}
	return "Other"
}

// scanCost charges the values transferred from the data source.
func (p *Planner) scanCost(n *rel.TableScanExec) float64 {
	width := n.Request().Width(n.Table.RowType().FieldCount())
	return rel.RowCount(n) * float64(width) * p.cost.IO
}

// selfCost is the cost of n without the cost of its inputs.
func (p *Planner) selfCost(n rel.Node, input rel.Node) float64 {
	switch n := n.(type) {
	case *rel.FilterExec, *rel.ProjectExec:
		return rel.RowCount(input) * p.cost.CPU
	case *rel.HashAggregateExec:
		return rel.RowCount(n.Input) * p.cost.HashBuild
	case *rel.SortExec:
		rows := rel.RowCount(n.Input)
		return rows * math.Log2(rows+1) * p.cost.CPU
	case *rel.LimitExec:
		return rel.RowCount(n) * p.cost.CPU
	case *rel.HashJoinExec:
		build, probe := rel.RowCount(n.Right), rel.RowCount(n.Left)
		if n.BuildLeft {
			build, probe = probe, build
		}
		return build*p.cost.HashBuild + (probe+rel.RowCount(n))*p.cost.CPU
	case *rel.NestedLoopJoinExec:
		return (rel.RowCount(n.Left)*rel.RowCount(n.Right) + rel.RowCount(n)) * p.cost.CPU
	}
	return 0
}
