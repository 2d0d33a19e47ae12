// Copyright (c) 2024, Eugene Ponizovsky, <ponizovsky@gmail.com>. All rights
// reserved. Use of this source code is governed by a MIT License that can
// be found in the LICENSE file.

/*
Package maploader is a configuration plugin for the modconf package. It
contributes configuration layers from a map. Layers are selected by "layers"
option of the plugin entry and merged in the given order:

	plugins:
	  - [ map, { layers: [ defaults, overrides ] } ]

Each layer may contain "config" and "common" keys.
*/
package maploader

import (
	"context"
	"fmt"

	"github.com/iph0/modconf"
	"github.com/iph0/modconf/merger"
)

const (
	errPref   = "maploader"
	layersOpt = "layers"
)

// Loader loads configuration layers from a map.
type Loader struct {
	m modconf.M
}

// NewLoader method creates new loader instance.
func NewLoader(m modconf.M) modconf.Plugin {
	return &Loader{
		m: m,
	}
}

// Run method returns merged configuration layers listed in options.
func (l *Loader) Run(_ context.Context, opts modconf.M,
	_ *modconf.Resolved) (modconf.M, error) {

	var names []any

	switch value := opts[layersOpt].(type) {
	case string:
		names = []any{value}
	case []any:
		names = value
	case nil:
	default:
		return nil, fmt.Errorf("%s: %s must be a string or a list, but got: %T",
			errPref, layersOpt, value)
	}

	layers := make([]map[string]any, 0, len(names))

	for _, name := range names {
		key, ok := name.(string)

		if !ok {
			return nil, fmt.Errorf("%s: layer name must be a string, but got: %T",
				errPref, name)
		}

		layer, ok := l.m[key]

		if !ok {
			return nil, fmt.Errorf("%s: configuration layer not found: %s",
				errPref, key)
		}

		tree := merger.Tree(layer)

		if tree == nil {
			return nil, fmt.Errorf("%s: configuration layer %s must be a map, but got: %T",
				errPref, key, layer)
		}

		layers = append(layers, tree)
	}

	return merger.Merge(layers...), nil
}
