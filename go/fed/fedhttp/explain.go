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
	"context"
	"strconv"

	"github.com/gorilla/mux"

	"fedgate.io/fedgate/go/fed/federation"
	"fedgate.io/fedgate/go/fed/federrors"
	"fedgate.io/fedgate/go/fed/fedrpc"
)

// ExplainResult is the plan of a scan statement.
type ExplainResult struct {
	Database  string   `json:"database"`
	Schema    string   `json:"schema"`
	SQL       string   `json:"sql"`
	ContextID string   `json:"context_id"`
	Columns   []string `json:"columns"`
	Plan      string   `json:"plan"`
	Cost      float64  `json:"cost"`
	Scans     []*Scan  `json:"scans"`
}

// Scan is one pushdown scan of a plan.
type Scan struct {
	Schema   string   `json:"schema"`
	Table    string   `json:"table"`
	Projects []int    `json:"projects,omitempty"`
	Filters  []string `json:"filters,omitempty"`
}

// Explain implements the http wrapper for
// /api/explain/{database}?schema=&table=&column=&values=&not=
func Explain(ctx context.Context, r Request, api *API) *JSONResponse {
	query := r.URL.Query()
	database := mux.Vars(r.Request)["database"]
	tableName := query.Get("table")
	if tableName == "" {
		return NewJSONResponse(nil, federrors.Errorf(fedrpc.Code_INVALID_ARGUMENT, "table is required"))
	}
	column, values := query.Get("column"), query["values"]
	if (column == "") != (len(values) == 0) {
		return NewJSONResponse(nil, federrors.Errorf(fedrpc.Code_INVALID_ARGUMENT, "column and values must be set together"))
	}
	not := false
	if s := query.Get("not"); s != "" {
		var err error
		if not, err = strconv.ParseBool(s); err != nil {
			return NewJSONResponse(nil, federrors.Errorf(fedrpc.Code_INVALID_ARGUMENT, "invalid not=%q: %v", s, err))
		}
	}

	schema := query.Get("schema")
	if schema == "" {
		pc, ok := api.registry.Get(database)
		if !ok {
			return NewJSONResponse(nil, federrors.FED05002(database))
		}
		if schema, ok = pc.SchemaOf(tableName); !ok {
			return NewJSONResponse(nil, federrors.Errorf(fedrpc.Code_NOT_FOUND, "no sub-schema of database %s has table %s", database, tableName))
		}
	}

	plan, err := api.optimizer.Plan(ctx, database, schema, federation.ScanStatement(tableName, column, values, not))
	if err != nil {
		return NewJSONResponse(nil, err)
	}
	res := &ExplainResult{
		Database:  plan.Database,
		Schema:    plan.Schema,
		SQL:       plan.SQL,
		ContextID: plan.ContextID,
		Columns:   plan.RowType().FieldNames(),
		Plan:      plan.Explain(),
		Cost:      plan.Cost,
	}
	for _, scan := range plan.Scans() {
		req := scan.Request()
		s := &Scan{Schema: scan.Table().Schema(), Table: scan.Table().Name(), Projects: req.Projects}
		for _, f := range req.Filters {
			s.Filters = append(s.Filters, f.String())
		}
		res.Scans = append(res.Scans, s)
	}
	return NewJSONResponse(res, nil)
}
