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

type nullCache[V any] struct{}

func (nullCache[V]) Get(string) (V, bool) {
	var zero V
	return zero, false
}

func (nullCache[V]) Set(string, V)    {}
func (nullCache[V]) Delete(string)    {}
func (nullCache[V]) Clear()           {}
func (nullCache[V]) Len() int         { return 0 }
func (nullCache[V]) Evictions() int64 { return 0 }
