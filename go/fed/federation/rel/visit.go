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

package rel

import (
	"github.com/gammazero/deque"
)

// Walk visits the tree in pre-order. Returning false from visit skips the
// inputs of the node.
func Walk(root Node, visit func(Node) bool) {
	if root == nil || !visit(root) {
		return
	}
	for _, in := range root.Inputs() {
		Walk(in, visit)
	}
}

// BreadthFirst visits the tree level by level, left to right.
func BreadthFirst(root Node, visit func(Node)) {
	if root == nil {
		return
	}
	var queue deque.Deque[Node]
	queue.PushBack(root)
	for queue.Len() > 0 {
		n := queue.PopFront()
		visit(n)
		for _, in := range n.Inputs() {
			queue.PushBack(in)
		}
	}
}

// Collect returns the nodes of type T in breadth first order.
func Collect[T Node](root Node) []T {
	var out []T
	BreadthFirst(root, func(n Node) {
		if t, ok := n.(T); ok {
			out = append(out, t)
		}
	})
	return out
}

// BottomUp rebuilds the tree, applying fn to every node after its inputs
// have been rewritten. Untouched subtrees are shared with the input tree.
func BottomUp(root Node, fn func(Node) (Node, error)) (Node, error) {
	inputs := root.Inputs()
	if len(inputs) > 0 {
		changed := false
		rewritten := make([]Node, len(inputs))
		for i, in := range inputs {
			out, err := BottomUp(in, fn)
			if err != nil {
				return nil, err
			}
			rewritten[i] = out
			changed = changed || out != in
		}
		if changed {
			root = root.WithInputs(rewritten...)
		}
	}
	return fn(root)
}
