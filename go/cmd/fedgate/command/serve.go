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

package command

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"fedgate.io/fedgate/go/fed/federation"
	"fedgate.io/fedgate/go/fed/federation/metadata"
	"fedgate.io/fedgate/go/fed/federation/plannercontext"
	"fedgate.io/fedgate/go/fed/fedhttp"
	"fedgate.io/fedgate/go/fed/log"
	"fedgate.io/fedgate/go/stats/prometheusbackend"
)

var initMetrics = sync.OnceFunc(func() { prometheusbackend.Init("fedgate") })

type serveOptions struct {
	port               int
	shutdownTimeout    time.Duration
	reloadInterval     time.Duration
	corsOrigins        []string
	disableCompression bool
}

// Serve returns the serve command.
func Serve(opts *rootOptions) *cobra.Command {
	sopts := &serveOptions{}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Builds the planner contexts, rebuilds them when the snapshot changes and serves the planning API.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, opts, sopts)
		},
	}
	cmd.Flags().IntVar(&sopts.port, "port", 15000, "Port serving /health, /metrics and /api. Zero picks a free port.")
	cmd.Flags().DurationVar(&sopts.shutdownTimeout, "shutdown-timeout", 5*time.Second, "How long to wait for in-flight requests on shutdown.")
	cmd.Flags().DurationVar(&sopts.reloadInterval, "reload-interval", time.Second, "Least time between two rebuilds triggered by snapshot changes.")
	cmd.Flags().StringSliceVar(&sopts.corsOrigins, "cors-origins", nil, "Origins allowed to call the API. CORS is disabled when empty.")
	cmd.Flags().BoolVar(&sopts.disableCompression, "disable-compression", false, "Do not gzip API responses.")
	return cmd
}

func runServe(cmd *cobra.Command, opts *rootOptions, sopts *serveOptions) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	exec := newExecutors()
	defer exec.Close()

	_, registry, err := opts.load(ctx, exec)
	if registry == nil {
		return err
	}
	if err != nil {
		log.Warningf("serving with the databases that built: %v", err)
	}
	log.Infof("planner contexts built for %v (generation %d)", registry.Databases(), registry.Generation())

	watcher := metadata.NewWatcher(opts.metadataPath, opts.builders, func(ctx context.Context, md *metadata.FederationMetaData) {
		refresh(ctx, registry, md)
	})
	watcher.MinInterval = sopts.reloadInterval

	optimizer := federation.NewOptimizer(registry, federation.Options{PlanCacheTTL: plannercontext.PlanCacheTTL()})
	router := fedhttp.NewRouter(fedhttp.NewAPI(registry, optimizer), fedhttp.Options{
		CORSOrigins:        sopts.corsOrigins,
		DisableCompression: sopts.disableCompression,
	})

	initMetrics()
	lis, err := net.Listen("tcp", net.JoinHostPort("", strconv.Itoa(sopts.port)))
	if err != nil {
		return err
	}
	server := &http.Server{Handler: router, ReadHeaderTimeout: 10 * time.Second}
	log.Infof("serving on %s", lis.Addr())

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return watcher.Run(ctx)
	})
	g.Go(func() error {
		if err := server.Serve(lis); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), sopts.shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	err = g.Wait()
	registry.Clear()
	return err
}

func refresh(ctx context.Context, registry *plannercontext.Registry, md *metadata.FederationMetaData) {
	if err := registry.Refresh(ctx, md); err != nil {
		log.Warningf("metadata reloaded with build failures: %v", err)
		return
	}
	log.Infof("planner contexts rebuilt for %v (generation %d)", registry.Databases(), registry.Generation())
}
