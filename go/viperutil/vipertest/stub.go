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

// Package vipertest stubs configuration values in tests.
package vipertest

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"

	"fedgate.io/fedgate/go/viperutil"
)

// Stub makes val read from v until the returned function is called. v
// must hold a setting for the value's key.
func Stub[T any](t testing.TB, v *viper.Viper, val *viperutil.Value[T]) func() {
	t.Helper()
	require.True(t, v.IsSet(val.Key()), "stub viper has no setting for %s", val.Key())
	return val.Rebind(v)
}
