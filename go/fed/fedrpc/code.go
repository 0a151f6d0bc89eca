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

// Package fedrpc holds the error code space shared by every fedgate
// component. The values line up with the canonical gRPC codes so that a
// transport layer can map them one to one.
package fedrpc

import "strconv"

// Code represents canonical error codes.
type Code int32

const (
	// Code_OK is returned on success.
	Code_OK Code = 0
	// Code_CANCELED indicates the operation was cancelled, typically by the caller.
	Code_CANCELED Code = 1
	// Code_UNKNOWN includes errors from other address spaces and errors
	// that carry no code of their own.
	Code_UNKNOWN Code = 2
	// Code_INVALID_ARGUMENT indicates the caller specified an invalid
	// argument, for example a query that does not validate.
	Code_INVALID_ARGUMENT Code = 3
	// Code_DEADLINE_EXCEEDED means the operation expired before completion.
	Code_DEADLINE_EXCEEDED Code = 4
	// Code_NOT_FOUND means a requested entity (database, schema, table) was not found.
	Code_NOT_FOUND Code = 5
	// Code_ALREADY_EXISTS means an attempt to create an entity failed because one already exists.
	Code_ALREADY_EXISTS Code = 6
	// Code_FAILED_PRECONDITION indicates the system is not in a state required
	// for the operation, for example metadata with an unmappable column type.
	Code_FAILED_PRECONDITION Code = 9
	// Code_UNIMPLEMENTED indicates the operation is not supported.
	Code_UNIMPLEMENTED Code = 12
	// Code_INTERNAL means an invariant expected by the system has been broken.
	Code_INTERNAL Code = 13
	// Code_UNAVAILABLE indicates a backend data source is unavailable.
	Code_UNAVAILABLE Code = 14
)

var codeNames = map[Code]string{
	Code_OK:                  "OK",
	Code_CANCELED:            "CANCELED",
	Code_UNKNOWN:             "UNKNOWN",
	Code_INVALID_ARGUMENT:    "INVALID_ARGUMENT",
	Code_DEADLINE_EXCEEDED:   "DEADLINE_EXCEEDED",
	Code_NOT_FOUND:           "NOT_FOUND",
	Code_ALREADY_EXISTS:      "ALREADY_EXISTS",
	Code_FAILED_PRECONDITION: "FAILED_PRECONDITION",
	Code_UNIMPLEMENTED:       "UNIMPLEMENTED",
	Code_INTERNAL:            "INTERNAL",
	Code_UNAVAILABLE:         "UNAVAILABLE",
}

func (c Code) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return "Code(" + strconv.Itoa(int(c)) + ")"
}
