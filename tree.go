package modconf

import (
	"strconv"
	"strings"

	mapstruct "github.com/mitchellh/mapstructure"
)

const (
	decoderTagName = "conf"
	pathSep        = "."

	configKey  = "config"
	commonKey  = "common"
	pluginsKey = "plugins"
)

// M type is a convenient alias for a map[string]any map.
type M = map[string]any

// A type is a convenient alias for a []any slice.
type A = []any

// Tree is a configuration tree with path accessors.
type Tree map[string]any

// Resolved is the configuration resolved for a module directory. Every call
// returns new Resolved value, so it can be modified freely.
type Resolved struct {
	Config Tree `json:"config" yaml:"config"`
	Common Tree `json:"common" yaml:"common"`
}

// Get method returns value by dot separated path. Empty path segments and
// spaces around dots are ignored. If path is empty, the tree itself is
// returned. If any level is missing or is not traversable, nil is returned.
// Array elements are addressed by index:
//
//	tree.Get("db.replicas.0.host")
func (t Tree) Get(path string) any {
	return t.GetPath(splitPath(path)...)
}

// GetPath method returns value by keys. If no keys given, the tree itself is
// returned.
func (t Tree) GetPath(keys ...string) any {
	var node any = map[string]any(t)

	for _, key := range keys {
		switch n := node.(type) {
		case map[string]any:
			child, ok := n[key]

			if !ok {
				return nil
			}

			node = child
		case Tree:
			child, ok := n[key]

			if !ok {
				return nil
			}

			node = child
		case []any:
			i, err := strconv.Atoi(key)

			if err != nil || i < 0 || i >= len(n) {
				return nil
			}

			node = n[i]
		default:
			return nil
		}
	}

	return node
}

// Decode method decodes the tree into structure. Note that the conf tags
// defined in the struct type can indicate which fields the values are mapped
// to. The decoder will make the following conversions:
//   - bools to string (true = "1", false = "0")
//   - numbers to string (base 10)
//   - bools to int/uint (true = 1, false = 0)
//   - strings to int/uint (base implied by prefix)
//   - int to bool (true if value != 0)
//   - string to bool (accepts: 1, t, T, TRUE, true, True, 0, f, F, FALSE, false,
//     False. Anything else is an error)
//   - empty array = empty map and vice versa
//   - single values are converted to slices if required
func (t Tree) Decode(out any) error {
	return decode(map[string]any(t), out)
}

// Get method returns value by dot separated path. Paths starting with "config"
// or "common" are looked up in the corresponding tree. Other paths are looked
// up in Config first and then in Common. If path is empty, the whole
// {config, common} tree is returned.
func (r *Resolved) Get(path string) any {
	keys := splitPath(path)

	if len(keys) == 0 {
		return r.Tree()
	}

	switch keys[0] {
	case configKey:
		return r.Config.GetPath(keys[1:]...)
	case commonKey:
		return r.Common.GetPath(keys[1:]...)
	}

	if value := r.Config.GetPath(keys...); value != nil {
		return value
	}

	return r.Common.GetPath(keys...)
}

// Tree method returns resolved configuration as {config, common} tree.
func (r *Resolved) Tree() Tree {
	return Tree{
		configKey: map[string]any(r.Config),
		commonKey: map[string]any(r.Common),
	}
}

// Decode method decodes the {config, common} tree into structure.
func (r *Resolved) Decode(out any) error {
	return r.Tree().Decode(out)
}

func decode(in, out any) error {
	decoder, err := mapstruct.NewDecoder(
		&mapstruct.DecoderConfig{
			WeaklyTypedInput: true,
			Result:           out,
			TagName:          decoderTagName,
		},
	)

	if err != nil {
		return err
	}

	return decoder.Decode(in)
}

func splitPath(path string) []string {
	var keys []string

	for _, key := range strings.Split(path, pathSep) {
		key = strings.TrimSpace(key)

		if key != "" {
			keys = append(keys, key)
		}
	}

	return keys
}
