// Copyright (c) 2018, Eugene Ponizovsky, <ponizovsky@gmail.com>. All rights
// reserved. Use of this source code is governed by a MIT License that can
// be found in the LICENSE file.

// Package merger recursively merges configuration trees into new one. Only
// nested trees (map[string]any) are merged key by key. Values of other kinds
// (scalars, slices) are replaced as a whole. Value from the right side has
// precedence, even if it is a zero value.
package merger

import "github.com/knadh/koanf/maps"

// Merge method performs recursive merge of configuration trees into new one.
// Trees are merged from left to right, so the rightmost tree has the highest
// priority. Nil trees are skipped. Arguments are never modified and the result
// shares no nested trees or slices with them. The result is never nil.
func Merge(trees ...map[string]any) map[string]any {
	result := make(map[string]any)

	for _, tree := range trees {
		if tree == nil {
			continue
		}

		maps.Merge(maps.Copy(tree), result)
	}

	return result
}

// Clone method makes a deep copy of the configuration tree. Clone of a nil
// tree is an empty tree.
func Clone(tree map[string]any) map[string]any {
	if tree == nil {
		return make(map[string]any)
	}

	return maps.Copy(tree)
}

// Tree method returns the value as a configuration tree, if it is a tree.
// Otherwise nil is returned.
func Tree(value any) map[string]any {
	if tree, ok := value.(map[string]any); ok {
		return tree
	}

	return nil
}
