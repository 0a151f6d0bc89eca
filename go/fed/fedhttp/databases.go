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

	"github.com/gorilla/mux"

	"fedgate.io/fedgate/go/fed/federation/plannercontext"
	"fedgate.io/fedgate/go/fed/federation/table"
	"fedgate.io/fedgate/go/fed/federrors"
)

// Databases lists the planned databases of one registry generation.
type Databases struct {
	Generation int64       `json:"generation"`
	Databases  []*Database `json:"databases"`
}

// Database describes the planner context of a logical database.
type Database struct {
	Name       string       `json:"name"`
	ContextID  string       `json:"context_id"`
	Config     string       `json:"config"`
	SubSchemas []*SubSchema `json:"sub_schemas,omitempty"`
}

// SubSchema lists the tables of one physical sub-schema.
type SubSchema struct {
	Name   string   `json:"name"`
	Tables []*Table `json:"tables"`
}

// Table is the planner's view of a table.
type Table struct {
	Name    string `json:"name"`
	RowType string `json:"row_type"`
	// RowCount is absent when the table has no statistics.
	RowCount   *float64   `json:"row_count,omitempty"`
	UniqueKeys [][]string `json:"unique_keys,omitempty"`
}

// GetDatabases implements the http wrapper for the /api/databases route.
func GetDatabases(ctx context.Context, r Request, api *API) *JSONResponse {
	out := &Databases{Generation: api.registry.Generation(), Databases: []*Database{}}
	for _, name := range api.registry.Databases() {
		pc, ok := api.registry.Get(name)
		if !ok {
			continue
		}
		out.Databases = append(out.Databases, &Database{Name: name, ContextID: pc.ID(), Config: pc.Config().String()})
	}
	return NewJSONResponse(out, nil)
}

// GetDatabase implements the http wrapper for the /api/databases/{database}
// route.
func GetDatabase(ctx context.Context, r Request, api *API) *JSONResponse {
	name := mux.Vars(r.Request)["database"]
	pc, ok := api.registry.Get(name)
	if !ok {
		return NewJSONResponse(nil, federrors.FED05002(name))
	}
	return NewJSONResponse(describe(pc), nil)
}

func describe(pc *plannercontext.OptimizerPlannerContext) *Database {
	db := &Database{Name: pc.Database(), ContextID: pc.ID(), Config: pc.Config().String()}
	for _, name := range pc.SubSchemas() {
		s, _ := pc.Schema(name)
		sub := &SubSchema{Name: name, Tables: []*Table{}}
		for _, tableName := range s.TableNames() {
			t, _ := s.Table(tableName)
			sub.Tables = append(sub.Tables, describeTable(t))
		}
		db.SubSchemas = append(db.SubSchemas, sub)
	}
	return db
}

func describeTable(t *table.ScannableTable) *Table {
	stats := t.Statistics()
	out := &Table{Name: t.Name(), RowType: t.RowType().String()}
	if stats.Known {
		rc := stats.RowCount
		out.RowCount = &rc
	}
	names := t.RowType().FieldNames()
	for _, key := range stats.UniqueKeys {
		cols := make([]string, len(key))
		for i, c := range key {
			cols[i] = names[c]
		}
		out.UniqueKeys = append(out.UniqueKeys, cols)
	}
	return out
}
