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

package federrors

import (
	"sort"
	"strings"

	"fedgate.io/fedgate/go/fed/fedrpc"
)

// A list of all the error codes, ordered by their precedence when
// several errors are aggregated. Higher is more important.
var errorPriorities = map[fedrpc.Code]int{
	fedrpc.Code_OK:                  0,
	fedrpc.Code_CANCELED:            1,
	fedrpc.Code_UNKNOWN:             2,
	fedrpc.Code_NOT_FOUND:           3,
	fedrpc.Code_ALREADY_EXISTS:      4,
	fedrpc.Code_UNAVAILABLE:         5,
	fedrpc.Code_DEADLINE_EXCEEDED:   6,
	fedrpc.Code_UNIMPLEMENTED:       7,
	fedrpc.Code_FAILED_PRECONDITION: 8,
	fedrpc.Code_INTERNAL:            9,
	fedrpc.Code_INVALID_ARGUMENT:    10,
}

// Aggregate aggregates several errors into a single one.
// The resulting error code will be the one with the highest
// priority as defined by the priority constants in this package.
func Aggregate(errors []error) error {
	if len(errors) == 0 {
		return nil
	}
	return New(aggregateCodes(errors), aggregateErrors(errors))
}

func aggregateCodes(errors []error) fedrpc.Code {
	highCode := fedrpc.Code_OK
	for _, e := range errors {
		code := Code(e)
		if errorPriorities[code] > errorPriorities[highCode] {
			highCode = code
		}
	}
	return highCode
}

// aggregateErrors joins the messages of all errors into a single string.
func aggregateErrors(errs []error) string {
	errStrs := make([]string, 0, len(errs))
	for _, e := range errs {
		errStrs = append(errStrs, e.Error())
	}
	// sort the error strings so we always have deterministic ordering
	sort.Strings(errStrs)
	return strings.Join(errStrs, "\n")
}
