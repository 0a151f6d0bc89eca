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

package plannercontext

import (
	"time"

	"github.com/spf13/pflag"

	"fedgate.io/fedgate/go/fed/federation/reltype"
	"fedgate.io/fedgate/go/fed/federation/validator"
	"fedgate.io/fedgate/go/fed/federrors"
	"fedgate.io/fedgate/go/fed/fedrpc"
	"fedgate.io/fedgate/go/viperutil"
)

var (
	lenientOperatorLookup = viperutil.Configure(
		"federation.lenient-operator-lookup",
		viperutil.Options[bool]{
			FlagName: "federation-lenient-operator-lookup",
			Default:  false,
		},
	)
	conformance = viperutil.Configure(
		"federation.conformance",
		viperutil.Options[string]{
			FlagName: "federation-conformance",
			Default:  "default",
		},
	)
	nullCollation = viperutil.Configure(
		"federation.null-collation",
		viperutil.Options[string]{
			FlagName: "federation-null-collation",
			Default:  "high",
		},
	)
	nullabilityPolicy = viperutil.Configure(
		"federation.nullability-policy",
		viperutil.Options[string]{
			FlagName: "federation-nullability-policy",
			Default:  reltype.ForceNullable.String(),
		},
	)
	buildParallelism = viperutil.Configure(
		"federation.build-parallelism",
		viperutil.Options[int]{
			FlagName: "federation-build-parallelism",
			Default:  4,
		},
	)
	planCacheTTL = viperutil.Configure(
		"federation.plan-cache-ttl",
		viperutil.Options[time.Duration]{
			FlagName: "federation-plan-cache-ttl",
			Default:  10 * time.Minute,
		},
	)
	hepMatchLimit = viperutil.Configure(
		"federation.hep-match-limit",
		viperutil.Options[int]{
			FlagName: "federation-hep-match-limit",
			Default:  1000,
		},
	)
)

// RegisterFlags installs the federation planner flags on fs.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.Bool("federation-lenient-operator-lookup", lenientOperatorLookup.Default(), "Type unknown functions as untyped calls instead of rejecting them.")
	fs.String("federation-conformance", conformance.Default(), "SQL conformance: default, strict, lenient, mysql or pragmatic.")
	fs.String("federation-null-collation", nullCollation.Default(), "Where NULLs sort: high, low, first or last.")
	fs.String("federation-nullability-policy", nullabilityPolicy.Default(), "Column nullability: force-nullable or declared.")
	fs.Int("federation-build-parallelism", buildParallelism.Default(), "Number of databases whose planner contexts are built concurrently.")
	fs.Duration("federation-plan-cache-ttl", planCacheTTL.Default(), "How long a plan stays cached. Zero disables the plan cache.")
	fs.Int("federation-hep-match-limit", hepMatchLimit.Default(), "Maximum heuristic rule applications per query.")

	viperutil.BindFlags(fs,
		lenientOperatorLookup,
		conformance,
		nullCollation,
		nullabilityPolicy,
		buildParallelism,
		planCacheTTL,
		hepMatchLimit,
	)
}

// BuildParallelism returns the configured number of concurrent database
// builds.
func BuildParallelism() int { return buildParallelism.Get() }

// PlanCacheTTL returns how long plans are cached.
func PlanCacheTTL() time.Duration { return planCacheTTL.Get() }

// HepMatchLimit returns the configured heuristic match limit.
func HepMatchLimit() int { return hepMatchLimit.Get() }

// NullabilityPolicy returns the configured nullability policy.
func NullabilityPolicy() (reltype.NullabilityPolicy, error) {
	name := nullabilityPolicy.Get()
	policy, ok := reltype.ParseNullabilityPolicy(name)
	if !ok {
		return policy, federrors.Errorf(fedrpc.Code_INVALID_ARGUMENT, "unknown nullability policy %q", name)
	}
	return policy, nil
}

// ConnectionConfig holds the per connection options of the planners. It
// is an immutable value.
type ConnectionConfig struct {
	lenientOperatorLookup bool
	conformance           validator.Conformance
	conformanceName       string
	nullCollation         validator.NullCollation
}

// NewConnectionConfig parses a connection configuration.
func NewConnectionConfig(lenientOperatorLookup bool, conformanceName, nullCollationName string) (ConnectionConfig, error) {
	c, err := validator.ParseConformance(conformanceName)
	if err != nil {
		return ConnectionConfig{}, err
	}
	nc, err := validator.ParseNullCollation(nullCollationName)
	if err != nil {
		return ConnectionConfig{}, err
	}
	return ConnectionConfig{
		lenientOperatorLookup: lenientOperatorLookup,
		conformance:           c,
		conformanceName:       conformanceName,
		nullCollation:         nc,
	}, nil
}

// DefaultConnectionConfig is the configuration used when none is given.
var DefaultConnectionConfig = ConnectionConfig{
	conformance:     validator.DefaultConformance,
	conformanceName: "default",
	nullCollation:   validator.NullsHigh,
}

// ConnectionConfigFromFlags returns the connection configuration of the
// process, read from flags, environment and config file.
func ConnectionConfigFromFlags() (ConnectionConfig, error) {
	return NewConnectionConfig(lenientOperatorLookup.Get(), conformance.Get(), nullCollation.Get())
}

// LenientOperatorLookup reports whether unknown functions resolve to an
// untyped call instead of failing validation.
func (c ConnectionConfig) LenientOperatorLookup() bool { return c.lenientOperatorLookup }

// Conformance is the SQL dialect the validator accepts.
func (c ConnectionConfig) Conformance() validator.Conformance { return c.conformance }

// NullCollation is where NULLs sort when a query does not say.
func (c ConnectionConfig) NullCollation() validator.NullCollation { return c.nullCollation }

// IdentifierExpansion is always on.
func (c ConnectionConfig) IdentifierExpansion() bool { return true }

// TimeZone is always UTC.
func (c ConnectionConfig) TimeZone() *time.Location { return time.UTC }

func (c ConnectionConfig) String() string {
	return "conformance=" + c.conformanceName + " nullCollation=" + c.nullCollation.String()
}

func (c ConnectionConfig) validatorConfig() validator.Config {
	return validator.Config{
		LenientOperatorLookup: c.lenientOperatorLookup,
		Conformance:           c.conformance,
		NullCollation:         c.nullCollation,
		IdentifierExpansion:   c.IdentifierExpansion(),
		TimeZone:              c.TimeZone(),
	}
}
