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
	"fmt"

	"fedgate.io/fedgate/go/fed/fedrpc"
)

// TypeMappingError is returned while building a schema when a column's
// declared type has no relational counterpart. It fails the whole database
// build.
type TypeMappingError struct {
	Database string
	Schema   string
	Table    string
	Column   string
	DataType string
	Err      error
}

func (e *TypeMappingError) Error() string {
	return fmt.Sprintf("cannot map column %s.%s of type '%s': %v", e.Table, e.Column, e.DataType, e.Err)
}

func (e *TypeMappingError) Unwrap() error { return e.Err }

func (e *TypeMappingError) ErrorCode() fedrpc.Code { return fedrpc.Code_FAILED_PRECONDITION }

// ValidationError reports a query that does not validate against the
// catalog of the sub-schema it was planned for. The position points at the
// offending node when it is known.
type ValidationError struct {
	Line, Column       int
	EndLine, EndColumn int
	Err                error
}

func (e *ValidationError) Error() string {
	if e.Line <= 0 {
		return e.Err.Error()
	}
	return fmt.Sprintf("from line %d, column %d to line %d, column %d: %v", e.Line, e.Column, e.EndLine, e.EndColumn, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

func (e *ValidationError) ErrorCode() fedrpc.Code {
	if code := Code(e.Err); code != fedrpc.Code_UNKNOWN {
		return code
	}
	return fedrpc.Code_INVALID_ARGUMENT
}

// IllegalPlanStateError signals a relational tree that the converters or
// planners cannot make sense of. It always indicates a bug upstream.
type IllegalPlanStateError struct {
	Err error
}

// NewIllegalPlanState returns an IllegalPlanStateError carrying a FED13001 error.
func NewIllegalPlanState(format string, args ...any) *IllegalPlanStateError {
	return &IllegalPlanStateError{Err: FED13001(fmt.Sprintf(format, args...))}
}

func (e *IllegalPlanStateError) Error() string {
	return "illegal plan state: " + e.Err.Error()
}

func (e *IllegalPlanStateError) Unwrap() error { return e.Err }

func (e *IllegalPlanStateError) ErrorCode() fedrpc.Code { return fedrpc.Code_INTERNAL }

// ExecutionError wraps a failure of a table scan executor.
type ExecutionError struct {
	Schema string
	Table  string
	Err    error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("scan of %s.%s failed: %v", e.Schema, e.Table, e.Err)
}

func (e *ExecutionError) Unwrap() error { return e.Err }

func (e *ExecutionError) ErrorCode() fedrpc.Code {
	if code := Code(e.Err); code != fedrpc.Code_UNKNOWN {
		return code
	}
	return fedrpc.Code_UNAVAILABLE
}
