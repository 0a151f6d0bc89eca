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

package fedhttp

import (
	"encoding/json"
	"net/http"

	"fedgate.io/fedgate/go/fed/federrors"
	"fedgate.io/fedgate/go/fed/fedrpc"
	"fedgate.io/fedgate/go/fed/log"
)

// JSONResponse is the envelope of every API response.
type JSONResponse struct {
	Result any        `json:"result"`
	Error  *errorBody `json:"error,omitempty"`
	Ok     bool       `json:"ok"`
	code   int
}

type errorBody struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}

// NewJSONResponse returns a response carrying value, or err when it is
// set. The HTTP status follows the code of err.
func NewJSONResponse(value any, err error) *JSONResponse {
	if err != nil {
		code := federrors.Code(err)
		return &JSONResponse{
			Error: &errorBody{Message: err.Error(), Code: code.String()},
			code:  httpStatus(code),
		}
	}
	return &JSONResponse{Result: value, Ok: true, code: http.StatusOK}
}

func httpStatus(code fedrpc.Code) int {
	switch code {
	case fedrpc.Code_OK:
		return http.StatusOK
	case fedrpc.Code_INVALID_ARGUMENT:
		return http.StatusBadRequest
	case fedrpc.Code_NOT_FOUND:
		return http.StatusNotFound
	case fedrpc.Code_FAILED_PRECONDITION:
		return http.StatusPreconditionFailed
	case fedrpc.Code_UNIMPLEMENTED:
		return http.StatusNotImplemented
	case fedrpc.Code_UNAVAILABLE:
		return http.StatusServiceUnavailable
	case fedrpc.Code_DEADLINE_EXCEEDED:
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}

// Write marshals the response to w.
func (r *JSONResponse) Write(w http.ResponseWriter) {
	data, err := json.Marshal(r)
	if err != nil {
		log.Errorf("cannot marshal API response: %v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(r.code)
	w.Write(data)
}
