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

package validator

import (
	"strings"
	"time"

	"fedgate.io/fedgate/go/fed/federrors"
	"fedgate.io/fedgate/go/fed/fedrpc"
)

// Conformance selects which non standard references a query may use.
type Conformance struct {
	Name string
	// GroupByAlias allows GROUP BY to name a select list alias.
	GroupByAlias bool
	// GroupByOrdinal makes an integer literal in GROUP BY refer to a
	// select list item.
	GroupByOrdinal bool
	// SortByAlias allows ORDER BY to name a select list alias.
	SortByAlias bool
	// SortByOrdinal makes an integer literal in ORDER BY refer to a select
	// list item.
	SortByOrdinal bool
	// HavingAlias allows HAVING to name a select list alias.
	HavingAlias bool
}

var conformances = map[string]Conformance{
	"default":   {Name: "default", SortByAlias: true, SortByOrdinal: true},
	"strict":    {Name: "strict", SortByOrdinal: true},
	"pragmatic": {Name: "pragmatic", SortByAlias: true, SortByOrdinal: true},
	"lenient":   {Name: "lenient", GroupByAlias: true, GroupByOrdinal: true, SortByAlias: true, SortByOrdinal: true, HavingAlias: true},
	"mysql":     {Name: "mysql", GroupByAlias: true, GroupByOrdinal: true, SortByAlias: true, SortByOrdinal: true, HavingAlias: true},
}

// DefaultConformance is used when none is configured.
var DefaultConformance = conformances["default"]

// ParseConformance returns the conformance called name, ignoring case.
func ParseConformance(name string) (Conformance, error) {
	if name == "" {
		return DefaultConformance, nil
	}
	c, ok := conformances[strings.ToLower(name)]
	if !ok {
		return Conformance{}, federrors.Errorf(fedrpc.Code_INVALID_ARGUMENT, "unknown conformance '%s'", name)
	}
	return c, nil
}

// NullCollation decides where NULLs sort when a query does not say.
type NullCollation int8

const (
	// NullsHigh sorts NULL as the highest value: last ascending, first
	// descending.
	NullsHigh NullCollation = iota
	// NullsLow sorts NULL as the lowest value.
	NullsLow
	// NullsFirst always sorts NULL first.
	NullsFirst
	// NullsLast always sorts NULL last.
	NullsLast
)

// ParseNullCollation returns the collation called name: high, low, first
// or last.
func ParseNullCollation(name string) (NullCollation, error) {
	switch strings.ToLower(name) {
	case "", "high":
		return NullsHigh, nil
	case "low":
		return NullsLow, nil
	case "first":
		return NullsFirst, nil
	case "last":
		return NullsLast, nil
	}
	return 0, federrors.Errorf(fedrpc.Code_INVALID_ARGUMENT, "unknown null collation '%s'", name)
}

// Last reports whether NULLs sort after other values in the given
// direction.
func (c NullCollation) Last(descending bool) bool {
	switch c {
	case NullsFirst:
		return false
	case NullsLast:
		return true
	case NullsLow:
		return descending
	}
	return !descending
}

func (c NullCollation) String() string {
	switch c {
	case NullsLow:
		return "low"
	case NullsFirst:
		return "first"
	case NullsLast:
		return "last"
	}
	return "high"
}

// Config configures a Validator.
type Config struct {
	LenientOperatorLookup bool
	Conformance           Conformance
	NullCollation         NullCollation
	// IdentifierExpansion rewrites identifiers to their qualified form and
	// '*' to the explicit column list.
	IdentifierExpansion bool
	TimeZone            *time.Location
}
