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

package stats

import (
	"slices"
	"strconv"
	"strings"
	"sync/atomic"
)

// Histogram counts values into buckets: bucket i holds the values v with
// cutoffs[i-1] < v <= cutoffs[i], and a last "inf" bucket holds the values
// above every cutoff. It also keeps the sum of all values.
type Histogram struct {
	cutoffs []int64
	buckets []atomic.Int64
	total   atomic.Int64
}

// NewHistogram returns a Histogram over sorted cutoffs.
func NewHistogram(cutoffs []int64) *Histogram {
	return &Histogram{cutoffs: cutoffs, buckets: make([]atomic.Int64, len(cutoffs)+1)}
}

// Add records value.
func (h *Histogram) Add(value int64) {
	i, _ := slices.BinarySearch(h.cutoffs, value)
	h.buckets[i].Add(1)
	h.total.Add(value)
}

// Count returns the number of recorded values.
func (h *Histogram) Count() int64 {
	var count int64
	for i := range h.buckets {
		count += h.buckets[i].Load()
	}
	return count
}

// Total returns the sum of the recorded values.
func (h *Histogram) Total() int64 { return h.total.Load() }

func (h *Histogram) Cutoffs() []int64 { return h.cutoffs }

// Buckets returns the current bucket counts, the "inf" bucket last.
func (h *Histogram) Buckets() []int64 {
	out := make([]int64, len(h.buckets))
	for i := range h.buckets {
		out[i] = h.buckets[i].Load()
	}
	return out
}

// String renders the buckets keyed by cutoff, followed by Count and Total,
// as a JSON object.
func (h *Histogram) String() string {
	buckets := h.Buckets()
	var b strings.Builder
	b.WriteByte('{')
	var count int64
	for i, n := range buckets {
		label := "inf"
		if i < len(h.cutoffs) {
			label = strconv.FormatInt(h.cutoffs[i], 10)
		}
		b.WriteString(strconv.Quote(label))
		b.WriteString(": ")
		b.WriteString(strconv.FormatInt(n, 10))
		b.WriteString(", ")
		count += n
	}
	b.WriteString(`"Count": ` + strconv.FormatInt(count, 10))
	b.WriteString(`, "Total": ` + strconv.FormatInt(h.Total(), 10))
	b.WriteByte('}')
	return b.String()
}

// MarshalJSON implements json.Marshaler.
func (h *Histogram) MarshalJSON() ([]byte, error) {
	return []byte(h.String()), nil
}
