package modconf

import (
	"context"
	"fmt"

	"github.com/iph0/modconf/merger"
	"golang.org/x/sync/errgroup"
)

const dirnameOpt = "dirname"

// Plugin contributes additional data to resolved configuration. Returned tree
// may contain "config" and "common" keys, that are merged into resolved
// configuration. Plugins run concurrently and get their own copy of resolved
// configuration.
//
// Plugins are listed under "plugins" key of configuration files either by
// name or as a pair of name and options:
//
//	plugins:
//	  - secrets
//	  - [ remote, { url: "https://conf.example.com" } ]
type Plugin interface {
	Run(ctx context.Context, opts M, rc *Resolved) (M, error)
}

// PluginFunc is an adapter to use ordinary functions as plugins.
type PluginFunc func(ctx context.Context, opts M, rc *Resolved) (M, error)

// Run method calls f(ctx, opts, rc).
func (f PluginFunc) Run(ctx context.Context, opts M, rc *Resolved) (M, error) {
	return f(ctx, opts, rc)
}

type pluginCall struct {
	name   string
	plugin Plugin
	opts   M
}

func (r *Registry) pluginCalls(value any, dirname string) ([]pluginCall, error) {
	if value == nil {
		return nil, nil
	}

	list, ok := value.([]any)

	if !ok {
		return nil, fmt.Errorf("%w: %s must be a list, but got: %T", ErrPlugin,
			pluginsKey, value)
	}

	calls := make([]pluginCall, 0, len(list))

	for i, item := range list {
		var (
			name string
			opts M
		)

		switch item := item.(type) {
		case string:
			name = item
		case []any:
			if len(item) > 0 {
				name, _ = item[0].(string)
			}

			if len(item) > 1 {
				opts, ok = item[1].(map[string]any)

				if !ok {
					return nil, fmt.Errorf("%w: options of plugin %d must be a map, but got: %T",
						ErrPlugin, i, item[1])
				}
			}
		}

		if name == "" {
			return nil, fmt.Errorf("%w: malformed plugin entry %d: %v", ErrPlugin, i, item)
		}

		plugin, ok := r.plugins[name]

		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownPlugin, name)
		}

		calls = append(calls,
			pluginCall{
				name:   name,
				plugin: plugin,
				opts:   merger.Merge(M{dirnameOpt: dirname}, opts),
			},
		)
	}

	return calls, nil
}

// runPlugins runs plugins concurrently and merges their results into resolved
// configuration in declaration order. If any plugin fails, the error is
// returned and rc is left untouched.
func runPlugins(ctx context.Context, calls []pluginCall, rc *Resolved) error {
	if len(calls) == 0 {
		return nil
	}

	results := make([]M, len(calls))
	g, ctx := errgroup.WithContext(ctx)

	for i, call := range calls {
		view := &Resolved{
			Config: merger.Clone(rc.Config),
			Common: merger.Clone(rc.Common),
		}

		g.Go(func() error {
			result, err := call.plugin.Run(ctx, call.opts, view)

			if err != nil {
				return fmt.Errorf("%w: %s: %w", ErrPlugin, call.name, err)
			}

			results[i] = result

			return nil
		})
	}

	err := g.Wait()

	if err != nil {
		return err
	}

	for i, result := range results {
		err := checkResult(result)

		if err != nil {
			return fmt.Errorf("%w: %s: %w", ErrPlugin, calls[i].name, err)
		}
	}

	merged := merger.Merge(append([]M{rc.Tree()}, results...)...)
	rc.Config = merger.Tree(merged[configKey])
	rc.Common = merger.Tree(merged[commonKey])

	return nil
}

// checkResult requires "config" and "common" keys of plugin result to hold
// trees.
func checkResult(result M) error {
	for _, key := range []string{configKey, commonKey} {
		value, ok := result[key]

		if !ok {
			continue
		}

		switch v := value.(type) {
		case map[string]any:
		case Tree:
			result[key] = map[string]any(v)
		default:
			return fmt.Errorf("%s must be a map, but got: %T", key, value)
		}
	}

	return nil
}
