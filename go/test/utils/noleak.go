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

package utils

import (
	"context"
	"testing"

	"go.uber.org/goleak"
)

// Goroutines that outlive any single test by design.
var leakIgnores = []goleak.Option{
	goleak.IgnoreTopFunction("github.com/golang/glog.(*fileSink).flushDaemon"),
	goleak.IgnoreTopFunction("github.com/golang/glog.(*loggingT).flushDaemon"),
	goleak.IgnoreTopFunction("github.com/patrickmn/go-cache.(*janitor).Run"),
	goleak.IgnoreTopFunction("database/sql.(*DB).connectionOpener"),
}

// LeakCheckContext returns a context that is canceled when the test ends.
// If the test passed, it then fails the test on goroutines started after
// the call that are still running. extra adds to the ignored goroutines.
func LeakCheckContext(t testing.TB, extra ...goleak.Option) context.Context {
	opts := append([]goleak.Option{goleak.IgnoreCurrent()}, leakIgnores...)
	opts = append(opts, extra...)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(func() {
		cancel()
		if t.Failed() {
			return
		}
		if err := goleak.Find(opts...); err != nil {
			t.Fatal(err)
		}
	})
	return ctx
}
