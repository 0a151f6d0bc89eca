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
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetFlagVars(t *testing.T) {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.SetNormalizeFunc(NormalizeUnderscoresToDashes)

	var (
		parallelism int
		lenient     bool
		conformance string
		ttl         time.Duration
		schemas     []string
	)
	SetFlagIntVar(fs, &parallelism, "build-parallelism", 4, "")
	SetFlagBoolVar(fs, &lenient, "lenient-operator-lookup", false, "")
	SetFlagStringVar(fs, &conformance, "conformance", "default", "")
	SetFlagDurationVar(fs, &ttl, "plan-cache-ttl", time.Minute, "")
	SetFlagStringSliceVar(fs, &schemas, "schemas", nil, "")

	err := fs.Parse([]string{"--build_parallelism=8", "--lenient-operator-lookup", "--conformance=mysql", "--plan-cache-ttl=5s", "--schemas=ds_0,ds_1"})
	require.NoError(t, err)

	assert.Equal(t, 8, parallelism)
	assert.True(t, lenient)
	assert.Equal(t, "mysql", conformance)
	assert.Equal(t, 5*time.Second, ttl)
	assert.Equal(t, []string{"ds_0", "ds_1"}, schemas)
}

func TestNormalizeUnderscoresToDashes(t *testing.T) {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	assert.Equal(t, pflag.NormalizedName("log_dir"), NormalizeUnderscoresToDashes(fs, "log_dir"))
	assert.Equal(t, pflag.NormalizedName("plan-cache-ttl"), NormalizeUnderscoresToDashes(fs, "plan_cache_ttl"))
	assert.Equal(t, pflag.NormalizedName("mixed-name_x"), NormalizeUnderscoresToDashes(fs, "mixed-name_x"))
}
