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

package rel

import (
	"math"

	"fedgate.io/fedgate/go/fed/federation/rex"
	"fedgate.io/fedgate/go/fed/federation/sqlnode"
	"fedgate.io/fedgate/go/fed/federation/table"
)

// DefaultRowCount is assumed for tables without statistics.
const DefaultRowCount = 100.0

// Selectivity guesses per predicate kind.
const (
	equalsSelectivity     = 0.15
	comparisonSelectivity = 0.5
	isNotNullSelectivity  = 0.9
	isNullSelectivity     = 0.1
	defaultSelectivity    = 0.25
	aggregateReduction    = 0.1
)

// TableRowCount returns the estimated number of rows of a table.
func TableRowCount(t *table.ScannableTable) float64 {
	if stats := t.Statistics(); stats.Known {
		return stats.RowCount
	}
	return DefaultRowCount
}

// RowCount estimates the number of rows produced by n.
func RowCount(n Node) float64 {
	switch n := n.(type) {
	case *TableScan:
		return TableRowCount(n.Table)
	case *TableScanExec:
		return atLeastOne(TableRowCount(n.Table) * Selectivity(rex.And(n.Filters...)))
	case *Filter:
		return atLeastOne(RowCount(n.Input) * Selectivity(n.Condition))
	case *FilterExec:
		return atLeastOne(RowCount(n.Input) * Selectivity(n.Condition))
	case *Join:
		return joinRowCount(n.Type, RowCount(n.Left), RowCount(n.Right), n.Condition)
	case *HashJoinExec:
		return joinRowCount(n.Type, RowCount(n.Left), RowCount(n.Right), nil) * math.Pow(equalsSelectivity, float64(len(n.LeftKeys))) * Selectivity(n.Remaining)
	case *NestedLoopJoinExec:
		return joinRowCount(n.Type, RowCount(n.Left), RowCount(n.Right), n.Condition)
	case *Aggregate:
		return aggregateRowCount(RowCount(n.Input), n.GroupSet)
	case *HashAggregateExec:
		return aggregateRowCount(RowCount(n.Input), n.GroupSet)
	case *Sort:
		return limitRowCount(RowCount(n.Input), n.Offset, n.Fetch)
	case *LimitExec:
		return limitRowCount(RowCount(n.Input), n.Offset, n.Fetch)
	}
	inputs := n.Inputs()
	if len(inputs) == 1 {
		return RowCount(inputs[0])
	}
	return DefaultRowCount
}

// Selectivity estimates the fraction of rows for which cond holds. A nil
// condition selects every row.
func Selectivity(cond rex.Node) float64 {
	if cond == nil {
		return 1
	}
	if rex.IsAlwaysTrue(cond) {
		return 1
	}
	if rex.IsAlwaysFalse(cond) {
		return 0
	}
	call, ok := cond.(*rex.Call)
	if !ok {
		return defaultSelectivity
	}
	switch kind := call.Kind(); {
	case kind == sqlnode.KindAnd:
		s := 1.0
		for _, op := range call.Operands {
			s *= Selectivity(op)
		}
		return s
	case kind == sqlnode.KindOr:
		s := 0.0
		for _, op := range call.Operands {
			s += Selectivity(op)
		}
		return math.Min(s, 1)
	case kind == sqlnode.KindNot:
		return 1 - Selectivity(call.Operands[0])
	case kind == sqlnode.KindEquals:
		return equalsSelectivity
	case kind == sqlnode.KindIn:
		return math.Min(equalsSelectivity*float64(len(call.Operands)-1), 1)
	case kind == sqlnode.KindIsNotNull:
		return isNotNullSelectivity
	case kind == sqlnode.KindIsNull:
		return isNullSelectivity
	case kind.IsComparison():
		return comparisonSelectivity
	}
	return defaultSelectivity
}

func joinRowCount(typ JoinType, left, right float64, cond rex.Node) float64 {
	inner := left * right * Selectivity(cond)
	switch typ {
	case LeftJoin:
		inner = math.Max(inner, left)
	case RightJoin:
		inner = math.Max(inner, right)
	case FullJoin:
		inner = math.Max(inner, left+right)
	case SemiJoin:
		inner = left * Selectivity(cond)
	case AntiJoin:
		inner = left * (1 - Selectivity(cond))
	}
	return atLeastOne(inner)
}

func aggregateRowCount(input float64, groupSet []int) float64 {
	if len(groupSet) == 0 {
		return 1
	}
	return atLeastOne(input * aggregateReduction)
}

func limitRowCount(input float64, offset, fetch int64) float64 {
	if offset != NoLimit {
		input = math.Max(input-float64(offset), 0)
	}
	if fetch != NoLimit {
		input = math.Min(input, float64(fetch))
	}
	return input
}

func atLeastOne(rows float64) float64 {
	return math.Max(rows, 1)
}
