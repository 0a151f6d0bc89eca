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

	"github.com/stretchr/testify/assert"
)

type span struct {
	Start, Stop int
	text        string
}

func TestMustMatchFn(t *testing.T) {
	ignoringStop := MustMatchFn("Stop")
	ignoringStop(t, span{Start: 1, Stop: 2, text: "a"}, span{Start: 1, Stop: 9, text: "a"})
	MustMatch(t, []*span{{text: "b"}}, []*span{{text: "b"}})
}

func TestFmtMsg(t *testing.T) {
	assert.Equal(t, "mismatch", fmtMsg(nil))
	assert.Equal(t, "plan of t_order", fmtMsg([]any{"plan of %s", "t_order"}))
	assert.Equal(t, "rows", fmtMsg([]any{"rows"}))
}
