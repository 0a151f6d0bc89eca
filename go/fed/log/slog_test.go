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

package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetLoggerCapturesStructuredRecords(t *testing.T) {
	var buf bytes.Buffer
	restore := SetLogger(slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	defer restore()

	InfoS("context built", "database", "sharding_db", "schemas", 2)

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "context built", record["msg"])
	assert.Equal(t, "INFO", record["level"])
	assert.Equal(t, "sharding_db", record["database"])
	assert.EqualValues(t, 2, record["schemas"])
}

func TestSetLoggerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	restore := SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn})))
	defer restore()

	DebugS("skipped")
	InfoS("skipped")
	WarnS("kept", "database", "db")
	ErrorS("kept too")

	out := buf.String()
	assert.NotContains(t, out, "skipped")
	assert.Contains(t, out, "msg=kept")
	assert.Contains(t, out, "msg=\"kept too\"")
}

func TestInitWithoutExplicitFormat(t *testing.T) {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(fs)
	require.NoError(t, fs.Parse(nil))
	require.NoError(t, Init(fs))
	assert.False(t, structuredLoggingEnabled.Load())
}

func TestInitRejectsBadLevel(t *testing.T) {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(fs)
	require.NoError(t, fs.Parse([]string{"--log-fmt=logfmt", "--log-level=loud"}))
	assert.ErrorContains(t, Init(fs), "invalid log-level")
}

func TestSlogHandler(t *testing.T) {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}

	var buf bytes.Buffer
	h, err := slogHandler(&buf, "text", opts)
	require.NoError(t, err)
	slog.New(h).Info("plan cache invalidated", "generation", 3)
	out := buf.String()
	assert.Contains(t, out, "INF plan cache invalidated")
	assert.Contains(t, out, "generation=3")
	assert.NotContains(t, out, "\x1b[", "buffers are not terminals")

	buf.Reset()
	h, err = slogHandler(&buf, " JSON ", opts)
	require.NoError(t, err)
	slog.New(h).Warn("reload failed")
	assert.Contains(t, buf.String(), `"level":"WARN"`)

	_, err = slogHandler(&buf, "xml", opts)
	assert.ErrorContains(t, err, "expected json, logfmt, or text")
}

func TestIsTerminal(t *testing.T) {
	assert.False(t, isTerminal(&bytes.Buffer{}))
	f, err := os.CreateTemp(t.TempDir(), "log")
	require.NoError(t, err)
	defer f.Close()
	assert.False(t, isTerminal(f))
}
