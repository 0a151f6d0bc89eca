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

var (
	FED03001 = errorWithState("FED03001", fedrpc.Code_INVALID_ARGUMENT, BadFieldError, "unknown column '%s' in '%s'", "The given column cannot be resolved against any table in the FROM clause.")
	FED03002 = errorWithState("FED03002", fedrpc.Code_NOT_FOUND, NoSuchTable, "table '%s' not found in schema '%s'", "The given table does not exist in the sub-schema the query is planned against.")
	FED03003 = errorWithState("FED03003", fedrpc.Code_INVALID_ARGUMENT, WrongArguments, "cannot apply '%s' to arguments of type %s", "The operand types of the operator are not compatible with each other or with the operator.")
	FED03004 = errorWithState("FED03004", fedrpc.Code_INVALID_ARGUMENT, NonUniqError, "column '%s' is ambiguous", "The column name is present in more than one table of the FROM clause. Qualify it with the table name or alias.")
	FED03005 = errorWithState("FED03005", fedrpc.Code_INVALID_ARGUMENT, UnknownFunction, "no match found for function signature %s", "The function is not known to the operator table. Enable lenient operator lookup to plan it as an opaque function.")
	FED03006 = errorWithState("FED03006", fedrpc.Code_INVALID_ARGUMENT, OperandColumns, "subquery returns %d columns, expected 1", "A subquery used as the right hand side of IN must return exactly one column.")
	FED03007 = errorWithState("FED03007", fedrpc.Code_INVALID_ARGUMENT, BadFieldError, "invalid reference '%s' in %s clause", "The ORDER BY or GROUP BY item refers to an ordinal out of range, or to an alias the configured conformance does not allow.")
	FED03008 = errorWithState("FED03008", fedrpc.Code_INVALID_ARGUMENT, WrongFieldWithGroup, "expression '%s' is not being grouped", "In an aggregate query every selected expression must either appear in GROUP BY or be an aggregate.")
	FED03009 = errorWithState("FED03009", fedrpc.Code_INVALID_ARGUMENT, BadTableError, "duplicate table alias '%s'", "Every table in the FROM clause must have a unique name or alias.")
	FED03010 = errorWithState("FED03010", fedrpc.Code_INVALID_ARGUMENT, WrongGroupField, "aggregate function %s not allowed in %s clause", "Aggregate functions may only appear in the select list, HAVING and ORDER BY.")
	FED05001 = errorWithState("FED05001", fedrpc.Code_FAILED_PRECONDITION, UnknownDataType, "unknown column type '%s'", "The metadata declares a column type that has no relational mapping.")
	FED05002 = errorWithState("FED05002", fedrpc.Code_NOT_FOUND, BadDb, "unknown database '%s'", "No optimizer context has been built for the given logical database.")
	FED05003 = errorWithState("FED05003", fedrpc.Code_NOT_FOUND, BadDb, "unknown schema '%s' in database '%s'", "The logical database has no physical sub-schema with the given name.")
	FED12001 = errorWithState("FED12001", fedrpc.Code_UNIMPLEMENTED, NotSupportedYet, "unsupported: %s", "This statement or expression is not supported by the federation planner.")
	FED13001 = errorWithoutState("FED13001", fedrpc.Code_INTERNAL, "[BUG] %s", "This error should not happen and is a bug. Please file an issue.")

	Errors = []func(args ...any) *FedError{
		FED03001,
		FED03002,
		FED03003,
		FED03004,
		FED03005,
		FED03006,
		FED03007,
		FED03008,
		FED03009,
		FED03010,
		FED05001,
		FED05002,
		FED05003,
		FED12001,
		FED13001,
	}
)

type FedError struct {
	Err         error
	Description string
	ID          string
	State       State
}

func (o *FedError) Error() string {
	return o.Err.Error()
}

func (o *FedError) Cause() error {
	return o.Err
}

func (o *FedError) Unwrap() error {
	return o.Err
}

func (o *FedError) ErrorCode() fedrpc.Code {
	return Code(o.Err)
}

func (o *FedError) ErrorState() State {
	return o.State
}

var _ error = (*FedError)(nil)

func errorWithoutState(id string, code fedrpc.Code, short, long string) func(args ...any) *FedError {
	return func(args ...any) *FedError {
		s := short
		if len(args) != 0 {
			s = fmt.Sprintf(s, args...)
		}

		return &FedError{
			Err:         New(code, id+": "+s),
			Description: long,
			ID:          id,
		}
	}
}

func errorWithState(id string, code fedrpc.Code, state State, short, long string) func(args ...any) *FedError {
	return func(args ...any) *FedError {
		return &FedError{
			Err:         NewErrorf(code, state, id+": "+short, args...),
			Description: long,
			ID:          id,
			State:       state,
		}
	}
}
