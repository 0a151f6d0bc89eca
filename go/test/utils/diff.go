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

// Package utils holds test helpers shared by the fedgate packages.
package utils

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// MustMatch fails the test when want and got differ, printing a diff.
// Unexported fields are compared.
var MustMatch = MustMatchFn()

// MustMatchFn returns a MustMatch that skips struct fields with the given
// names wherever they occur, e.g. MustMatchFn("StartIndex", "StopIndex")
// compares syntax trees without their source positions.
func MustMatchFn(ignoredFields ...string) func(t testing.TB, want, got any, msg ...any) {
	ignored := make(map[string]bool, len(ignoredFields))
	for _, name := range ignoredFields {
		ignored[name] = true
	}
	opts := []cmp.Option{
		cmp.Exporter(func(reflect.Type) bool { return true }),
		cmp.FilterPath(func(path cmp.Path) bool {
			sf, ok := path.Last().(cmp.StructField)
			return ok && ignored[sf.Name()]
		}, cmp.Ignore()),
	}
	return func(t testing.TB, want, got any, msg ...any) {
		t.Helper()
		if diff := cmp.Diff(want, got, opts...); diff != "" {
			t.Fatalf("%s (-want +got):\n%s", fmtMsg(msg), diff)
		}
	}
}

func fmtMsg(msg []any) string {
	if len(msg) == 0 {
		return "mismatch"
	}
	if format, ok := msg[0].(string); ok && len(msg) > 1 {
		return fmt.Sprintf(format, msg[1:]...)
	}
	return fmt.Sprint(msg...)
}
