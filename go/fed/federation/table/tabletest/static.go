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

package tabletest

import (
	"context"
	"sync"

	"fedgate.io/fedgate/go/fed/federation/metadata"
	"fedgate.io/fedgate/go/fed/federation/table"
	"fedgate.io/fedgate/go/sqltypes"
)

// StaticExecutor serves scans from rows held in memory, keyed by table
// name. It applies the projection of the request but ignores its filters,
// and records every request it receives.
type StaticExecutor struct {
	Rows map[string][]sqltypes.Row

	mu       sync.Mutex
	requests []table.ScanRequest
}

// NewStaticExecutor returns an executor with no rows.
func NewStaticExecutor() *StaticExecutor {
	return &StaticExecutor{Rows: map[string][]sqltypes.Row{}}
}

// Execute implements table.ScanExecutor.
func (e *StaticExecutor) Execute(ctx context.Context, t *metadata.LogicalTable, req table.ScanRequest) (table.RowSequence, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	e.mu.Lock()
	e.requests = append(e.requests, req)
	e.mu.Unlock()

	rows := e.Rows[t.Name]
	if req.Projects == nil {
		return table.NewSliceSequence(rows), nil
	}
	projected := make([]sqltypes.Row, len(rows))
	for i, row := range rows {
		out := make(sqltypes.Row, len(req.Projects))
		for j, p := range req.Projects {
			out[j] = row[p]
		}
		projected[i] = out
	}
	return table.NewSliceSequence(projected), nil
}

// Requests returns the requests received so far.
func (e *StaticExecutor) Requests() []table.ScanRequest {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]table.ScanRequest(nil), e.requests...)
}
