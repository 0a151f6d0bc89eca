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
	"fmt"
	"reflect"

	"github.com/xlab/treeprint"
)

// ToTree renders the plan as an indented tree, one node per line.
func ToTree(root Node) string {
	return asTree(root, nil).String()
}

func describe(n Node) string {
	typ := reflect.TypeOf(n).Elem().Name()
	if short := n.ShortDescription(); short != "" {
		return fmt.Sprintf("%s (%s)", typ, short)
	}
	return typ
}

func asTree(n Node, root treeprint.Tree) treeprint.Tree {
	txt := describe(n)
	var branch treeprint.Tree
	if root == nil {
		branch = treeprint.NewWithRoot(txt)
	} else {
		branch = root.AddBranch(txt)
	}
	for _, child := range n.Inputs() {
		asTree(child, branch)
	}
	return branch
}
