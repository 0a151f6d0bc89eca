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

package sqlparser

// Visit defines the signature of a function that
// can be used to visit all nodes of a parse tree.
// returning false on kontinue means that children will not be visited
// returning an error will abort the visitation and return the error
type Visit func(node SQLNode) (kontinue bool, err error)

// Walk calls visit on every node.
// If visit returns true, the underlying nodes
// are also visited. If it returns an error, walking
// is interrupted, and the error is returned.
func Walk(visit Visit, nodes ...SQLNode) error {
	for _, node := range nodes {
		if node == nil {
			continue
		}
		kontinue, err := visit(node)
		if err != nil {
			return err
		}
		if !kontinue {
			continue
		}
		if err := Walk(visit, children(node)...); err != nil {
			return err
		}
	}
	return nil
}

func children(node SQLNode) []SQLNode {
	var out []SQLNode
	addExpr := func(e Expr) {
		if e != nil {
			out = append(out, e)
		}
	}
	switch node := node.(type) {
	case *Select:
		for _, e := range node.SelectExprs {
			out = append(out, e)
		}
		for _, t := range node.From {
			out = append(out, t)
		}
		addExpr(node.Where)
		for _, e := range node.GroupBy {
			addExpr(e)
		}
		addExpr(node.Having)
		for _, o := range node.OrderBy {
			addExpr(o.Expr)
		}
		if node.Limit != nil {
			addExpr(node.Limit.Offset)
			addExpr(node.Limit.Rowcount)
		}
	case *AliasedExpr:
		addExpr(node.Expr)
	case *JoinTableExpr:
		out = append(out, node.LeftExpr, node.RightExpr)
		addExpr(node.On)
	case ValTuple:
		for _, e := range node {
			addExpr(e)
		}
	case *Subquery:
		if node.Select != nil {
			out = append(out, node.Select)
		}
	case *AndExpr:
		addExpr(node.Left)
		addExpr(node.Right)
	case *OrExpr:
		addExpr(node.Left)
		addExpr(node.Right)
	case *NotExpr:
		addExpr(node.Expr)
	case *ComparisonExpr:
		addExpr(node.Left)
		addExpr(node.Right)
	case *InExpr:
		addExpr(node.Left)
		addExpr(node.Right)
	case *BetweenExpr:
		addExpr(node.Left)
		addExpr(node.From)
		addExpr(node.To)
	case *BinaryExpr:
		addExpr(node.Left)
		addExpr(node.Right)
	case *UnaryExpr:
		addExpr(node.Expr)
	case *IsExpr:
		addExpr(node.Left)
	case *FuncExpr:
		for _, e := range node.Exprs {
			addExpr(e)
		}
	}
	return out
}

// ContainsAggregation returns true if the expression contains an aggregate function.
func ContainsAggregation(e SQLNode) bool {
	hasAggregates := false
	_ = Walk(func(node SQLNode) (kontinue bool, err error) {
		switch node := node.(type) {
		case *Subquery:
			return false, nil
		case *FuncExpr:
			if IsAggregate(node.Name) {
				hasAggregates = true
				return false, nil
			}
		}
		return true, nil
	}, e)
	return hasAggregates
}

// IsAggregate reports whether the function name denotes an aggregate.
func IsAggregate(name string) bool {
	switch lower(name) {
	case "count", "sum", "min", "max", "avg":
		return true
	}
	return false
}

func lower(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}
