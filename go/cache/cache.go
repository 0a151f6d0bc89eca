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

// Package cache provides in-memory caches whose entries expire after a
// time-to-live.
package cache

import "time"

// Cache maps string keys to values of type V. Implementations are safe for
// concurrent use.
type Cache[V any] interface {
	Get(key string) (V, bool)
	Set(key string, val V)
	Delete(key string)
	// Clear drops every entry without counting evictions.
	Clear()
	Len() int
	// Evictions counts entries that expired or were deleted.
	Evictions() int64
}

// NewDefaultCacheImpl returns a TTLCache, or a cache that stores nothing
// when ttl is not positive.
func NewDefaultCacheImpl[V any](ttl, cleanupInterval time.Duration) Cache[V] {
	if ttl <= 0 {
		return nullCache[V]{}
	}
	return NewTTLCache[V](ttl, cleanupInterval)
}
