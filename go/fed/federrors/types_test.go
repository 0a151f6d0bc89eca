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
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fedgate.io/fedgate/go/fed/fedrpc"
)

func TestTypeMappingError(t *testing.T) {
	var err error = &TypeMappingError{
		Database: "sharding_db",
		Schema:   "ds_0",
		Table:    "t_order",
		Column:   "payload",
		DataType: "GEOMETRY",
		Err:      FED05001("GEOMETRY"),
	}
	err = Wrapf(err, "building database %s", "sharding_db")

	var tme *TypeMappingError
	require.True(t, errors.As(err, &tme))
	assert.Equal(t, "t_order", tme.Table)
	assert.Equal(t, "payload", tme.Column)
	assert.Contains(t, err.Error(), "t_order.payload")
	assert.Equal(t, fedrpc.Code_FAILED_PRECONDITION, Code(err))
}

func TestValidationErrorPosition(t *testing.T) {
	err := &ValidationError{Line: 1, Column: 8, EndLine: 1, EndColumn: 10, Err: FED03001("uid", "field list")}
	assert.Equal(t, "from line 1, column 8 to line 1, column 10: FED03001: unknown column 'uid' in 'field list'", err.Error())
	assert.Equal(t, fedrpc.Code_INVALID_ARGUMENT, Code(err))

	unpositioned := &ValidationError{Err: FED03002("t", "ds_0")}
	assert.Equal(t, "FED03002: table 't' not found in schema 'ds_0'", unpositioned.Error())
	assert.Equal(t, fedrpc.Code_NOT_FOUND, Code(unpositioned))
}

func TestIllegalPlanState(t *testing.T) {
	err := error(NewIllegalPlanState("IN call expects 2 operands, got %d", 3))
	assert.Equal(t, "illegal plan state: FED13001: [BUG] IN call expects 2 operands, got 3", err.Error())
	assert.Equal(t, fedrpc.Code_INTERNAL, Code(err))

	var ipe *IllegalPlanStateError
	assert.True(t, errors.As(Wrap(err, "converting"), &ipe))
}

func TestExecutionErrorPassesCodeThrough(t *testing.T) {
	err := &ExecutionError{Schema: "ds_0", Table: "t_order", Err: io.ErrUnexpectedEOF}
	assert.Equal(t, fedrpc.Code_UNAVAILABLE, Code(err))
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)

	err = &ExecutionError{Schema: "ds_0", Table: "t_order", Err: New(fedrpc.Code_DEADLINE_EXCEEDED, "slow")}
	assert.Equal(t, fedrpc.Code_DEADLINE_EXCEEDED, Code(err))
}
