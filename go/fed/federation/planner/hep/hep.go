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

// Package hep rewrites logical plans with a fixed set of heuristic rules
// until none of them applies.
package hep

import (
	"fedgate.io/fedgate/go/fed/federation/rel"
	"fedgate.io/fedgate/go/fed/log"
	"fedgate.io/fedgate/go/stats"
)

var ruleApplications = stats.NewCountersWithSingleLabel("FederationHepRuleApplications", "Heuristic rule applications", "Rule")

// ApplyResult tells whether a rule changed the node it was applied to.
type ApplyResult bool

const (
	SameTree ApplyResult = false
	NewTree  ApplyResult = true
)

// Rule rewrites a node into an equivalent one. Rules must not keep state
// between calls.
type Rule interface {
	Name() string
	Apply(n rel.Node) (rel.Node, ApplyResult, error)
}

// RuleSet is an immutable, ordered list of rules.
type RuleSet struct {
	rules []Rule
}

// NewRuleSet returns a rule set applying rules in the given order.
func NewRuleSet(rules ...Rule) RuleSet {
	return RuleSet{rules: append([]Rule(nil), rules...)}
}

// Rules returns a copy of the rules of the set.
func (rs RuleSet) Rules() []Rule {
	return append([]Rule(nil), rs.rules...)
}

// DefaultRuleSet is the rule set federation contexts are built with.
var DefaultRuleSet = NewRuleSet(
	ReduceExpressions,
	FilterMerge,
	FilterProjectTranspose,
	FilterIntoJoin,
	JoinConditionPush,
	ProjectMerge,
	ProjectRemove,
	AggregateProjectMerge,
)

// DefaultMatchLimit bounds the rule applications of one FindBestExp call.
const DefaultMatchLimit = 1000

// Planner applies a rule set bottom up to a fixed point. Traversal state
// is local to FindBestExp, so one planner serves concurrent queries.
type Planner struct {
	rules      RuleSet
	matchLimit int
}

// New returns a planner. A non positive matchLimit means DefaultMatchLimit.
func New(rules RuleSet, matchLimit int) *Planner {
	if matchLimit <= 0 {
		matchLimit = DefaultMatchLimit
	}
	return &Planner{rules: rules, matchLimit: matchLimit}
}

// MatchLimit returns the maximum number of rule applications per call.
func (p *Planner) MatchLimit() int { return p.matchLimit }

// FindBestExp rewrites root until no rule applies or the match limit is
// reached. The input plan is not modified.
func (p *Planner) FindBestExp(root rel.Node) (rel.Node, error) {
	matches := 0
	for {
		changed := false
		next, err := rel.BottomUp(root, func(n rel.Node) (rel.Node, error) {
			for _, rule := range p.rules.rules {
				if matches >= p.matchLimit {
					return n, nil
				}
				out, result, err := rule.Apply(n)
				if err != nil {
					return nil, err
				}
				if result == NewTree {
					matches++
					changed = true
					ruleApplications.Add(rule.Name(), 1)
					n = out
				}
			}
			return n, nil
		})
		if err != nil {
			return nil, err
		}
		root = next
		if !changed {
			return root, nil
		}
		if matches >= p.matchLimit {
			log.Warningf("heuristic planning stopped after %d rule applications", matches)
			return root, nil
		}
	}
}
