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
	"sync"
	"sync/atomic"
)

// Counter is a cumulative int64 published through expvar.
type Counter struct {
	i    atomic.Int64
	help string
}

// NewCounter returns a Counter, published as name unless name is empty.
func NewCounter(name, help string) *Counter {
	v := &Counter{help: help}
	if name != "" {
		publish(name, v)
	}
	return v
}

func (v *Counter) Add(delta int64) { v.i.Add(delta) }
func (v *Counter) Reset()          { v.i.Store(0) }
func (v *Counter) Get() int64      { return v.i.Load() }
func (v *Counter) Help() string    { return v.help }

// String implements expvar.Var.
func (v *Counter) String() string {
	return strconv.FormatInt(v.i.Load(), 10)
}

// Gauge is a Counter that may also be set.
type Gauge struct {
	Counter
}

// NewGauge returns a Gauge, published as name unless name is empty.
func NewGauge(name, help string) *Gauge {
	v := &Gauge{Counter: Counter{help: help}}
	if name != "" {
		publish(name, v)
	}
	return v
}

func (v *Gauge) Set(value int64) { v.i.Store(value) }

// labeled holds one int64 per value of a label. Values are created on
// first use and never removed except by ResetAll.
type labeled struct {
	values sync.Map // string -> *atomic.Int64
	help   string
	label  string
}

func (l *labeled) init(help, label string, tags []string) {
	l.help, l.label = help, label
	for _, tag := range tags {
		l.values.Store(tag, new(atomic.Int64))
	}
}

func (l *labeled) value(name string) *atomic.Int64 {
	if v, ok := l.values.Load(name); ok {
		return v.(*atomic.Int64)
	}
	v, _ := l.values.LoadOrStore(name, new(atomic.Int64))
	return v.(*atomic.Int64)
}

// Add adds value to the count of name.
func (l *labeled) Add(name string, value int64) { l.value(name).Add(value) }

// Reset sets the count of name to zero.
func (l *labeled) Reset(name string) { l.value(name).Store(0) }

// ResetAll forgets every label value.
func (l *labeled) ResetAll() { l.values.Clear() }

// Counts returns a copy of the counts.
func (l *labeled) Counts() map[string]int64 {
	counts := map[string]int64{}
	l.values.Range(func(k, v any) bool {
		counts[k.(string)] = v.(*atomic.Int64).Load()
		return true
	})
	return counts
}

func (l *labeled) Help() string  { return l.help }
func (l *labeled) Label() string { return l.label }

// String implements expvar.Var as a JSON object sorted by key.
func (l *labeled) String() string {
	counts := l.Counts()
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	var b strings.Builder
	b.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(strconv.Quote(k))
		b.WriteString(": ")
		b.WriteString(strconv.FormatInt(counts[k], 10))
	}
	b.WriteByte('}')
	return b.String()
}

// CountersWithSingleLabel counts per value of one label, e.g. plans per
// database. tags are created at zero.
type CountersWithSingleLabel struct {
	labeled
}

// NewCountersWithSingleLabel returns a CountersWithSingleLabel, published
// as name unless name is empty.
func NewCountersWithSingleLabel(name, help, label string, tags ...string) *CountersWithSingleLabel {
	c := &CountersWithSingleLabel{}
	c.init(help, label, tags)
	if name != "" {
		publish(name, c)
	}
	return c
}

// GaugesWithSingleLabel tracks a current value per value of one label.
type GaugesWithSingleLabel struct {
	CountersWithSingleLabel
}

// NewGaugesWithSingleLabel returns a GaugesWithSingleLabel, published as
// name unless name is empty.
func NewGaugesWithSingleLabel(name, help, label string, tags ...string) *GaugesWithSingleLabel {
	g := &GaugesWithSingleLabel{}
	g.init(help, label, tags)
	if name != "" {
		publish(name, g)
	}
	return g
}

// Set sets the value of name.
func (g *GaugesWithSingleLabel) Set(name string, value int64) { g.value(name).Store(value) }
