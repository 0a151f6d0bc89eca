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

package cache

import (
	"sync/atomic"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// TTLCache is a Cache backed by go-cache. Entries expire ttl after they
// were last set and are reclaimed by a background janitor every
// cleanupInterval; a zero interval leaves expired entries in place until
// they are read.
type TTLCache[V any] struct {
	store     *gocache.Cache
	evictions atomic.Int64
}

// NewTTLCache creates a TTLCache.
func NewTTLCache[V any](ttl, cleanupInterval time.Duration) *TTLCache[V] {
	c := &TTLCache[V]{store: gocache.New(ttl, cleanupInterval)}
	c.store.OnEvicted(func(string, any) {
		c.evictions.Add(1)
	})
	return c
}

func (c *TTLCache[V]) Get(key string) (V, bool) {
	v, ok := c.store.Get(key)
	if !ok {
		var zero V
		return zero, false
	}
	return v.(V), true
}

func (c *TTLCache[V]) Set(key string, val V) {
	c.store.SetDefault(key, val)
}

func (c *TTLCache[V]) Delete(key string) {
	c.store.Delete(key)
}

func (c *TTLCache[V]) Clear() {
	c.store.Flush()
}

// Len includes expired entries the janitor has not reclaimed yet.
func (c *TTLCache[V]) Len() int {
	return c.store.ItemCount()
}

func (c *TTLCache[V]) Evictions() int64 {
	return c.evictions.Load()
}
