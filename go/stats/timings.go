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
	"encoding/json"
	"strconv"
	"sync"
	"time"
)

// Nanosecond cutoffs of every Timings histogram, from 0.5ms to 10s.
var bucketCutoffs = []int64{5e5, 1e6, 5e6, 1e7, 5e7, 1e8, 5e8, 1e9, 5e9, 1e10}

// Timings keeps a duration histogram per value of one label.
type Timings struct {
	histograms sync.Map // string -> *Histogram
	help       string
	label      string
}

// NewTimings returns a Timings, published as name unless name is empty.
// categories are created empty.
func NewTimings(name, help, label string, categories ...string) *Timings {
	t := &Timings{help: help, label: label}
	for _, cat := range categories {
		t.histograms.Store(cat, NewHistogram(bucketCutoffs))
	}
	if name != "" {
		publish(name, t)
	}
	return t
}

// Add records elapsed under name.
func (t *Timings) Add(name string, elapsed time.Duration) {
	h, ok := t.histograms.Load(name)
	if !ok {
		h, _ = t.histograms.LoadOrStore(name, NewHistogram(bucketCutoffs))
	}
	h.(*Histogram).Add(elapsed.Nanoseconds())
}

// Record adds the time elapsed since start.
func (t *Timings) Record(name string, start time.Time) {
	t.Add(name, time.Since(start))
}

// Histograms returns the histogram of every category.
func (t *Timings) Histograms() map[string]*Histogram {
	out := map[string]*Histogram{}
	t.histograms.Range(func(k, v any) bool {
		out[k.(string)] = v.(*Histogram)
		return true
	})
	return out
}

// Count returns the number of durations recorded in all categories.
func (t *Timings) Count() int64 {
	var count int64
	for _, h := range t.Histograms() {
		count += h.Count()
	}
	return count
}

// Counts returns the number of durations recorded per category.
func (t *Timings) Counts() map[string]int64 {
	counts := map[string]int64{}
	for k, h := range t.Histograms() {
		counts[k] = h.Count()
	}
	return counts
}

func (t *Timings) Help() string  { return t.help }
func (t *Timings) Label() string { return t.label }

// String implements expvar.Var.
func (t *Timings) String() string {
	out := struct {
		TotalCount int64
		TotalTime  int64
		Histograms map[string]*Histogram
	}{Histograms: t.Histograms()}
	for _, h := range out.Histograms {
		out.TotalCount += h.Count()
		out.TotalTime += h.Total()
	}
	data, err := json.Marshal(out)
	if err != nil {
		return strconv.Quote(err.Error())
	}
	return string(data)
}
