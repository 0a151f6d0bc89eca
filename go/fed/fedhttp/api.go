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

// Package fedhttp serves the planner contexts and the federation optimizer
// over HTTP as JSON.
package fedhttp

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"fedgate.io/fedgate/go/fed/federation"
	"fedgate.io/fedgate/go/fed/federation/plannercontext"
	"fedgate.io/fedgate/go/fed/log"
)

// Options configures the HTTP router.
type Options struct {
	// CORSOrigins are the origins allowed to call the API. CORS is
	// disabled when empty.
	CORSOrigins []string
	// DisableCompression turns off gzip compression of API responses.
	DisableCompression bool
}

// API wraps the planner context registry and the optimizer for the HTTP
// handlers.
type API struct {
	registry  *plannercontext.Registry
	optimizer *federation.Optimizer
}

// NewAPI returns an API planning against registry with optimizer.
func NewAPI(registry *plannercontext.Registry, optimizer *federation.Optimizer) *API {
	return &API{registry: registry, optimizer: optimizer}
}

// Request wraps an *http.Request for the handlers.
type Request struct{ *http.Request }

// Handler is a JSON endpoint of the API.
type Handler func(ctx context.Context, r Request, api *API) *JSONResponse

// Adapt converts a Handler into an http.HandlerFunc.
func (api *API) Adapt(handler Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		handler(r.Context(), Request{r}, api).Write(w)
	}
}

// NewRouter returns the router serving /health, /metrics and the JSON API
// under /api.
func NewRouter(api *API, opts Options) *mux.Router {
	root := mux.NewRouter()
	root.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok\n"))
	}).Name("Health")
	root.Handle("/metrics", promhttp.Handler()).Name("Metrics")

	router := root.PathPrefix("/api").Subrouter()
	router.HandleFunc("/databases", api.Adapt(GetDatabases)).Name("API.GetDatabases")
	router.HandleFunc("/databases/{database}", api.Adapt(GetDatabase)).Name("API.GetDatabase")
	router.HandleFunc("/explain/{database}", api.Adapt(Explain)).Name("API.Explain")

	// Middlewares run in order of addition. CORS applies to every route,
	// the rest only to the API.
	if len(opts.CORSOrigins) > 0 {
		root.Use(handlers.CORS(handlers.AllowedOrigins(opts.CORSOrigins)))
	}
	middlewares := []mux.MiddlewareFunc{handlers.RecoveryHandler(handlers.RecoveryLogger(recoveryLogger{}))}
	if !opts.DisableCompression {
		middlewares = append(middlewares, handlers.CompressHandler)
	}
	router.Use(middlewares...)
	return root
}

type recoveryLogger struct{}

func (recoveryLogger) Println(v ...any) {
	log.Error(fmt.Sprint(v...))
}
