package modconf

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/iph0/modconf/envconf"
	"github.com/iph0/modconf/fileconf"
	"github.com/iph0/modconf/merger"
	"github.com/iph0/modconf/vaultconf"
	"github.com/rs/zerolog"
)

// Registry loads and caches configuration of module directories. Application
// level overrides from APP_CONFIG_DIR and APP_CONFIG are loaded once, when
// registry is created, and applied to every module. Registry is not safe for
// concurrent use.
type Registry struct {
	env     *envconf.Environment
	envOpts []envconf.Option
	loader  *fileconf.Loader
	logger  zerolog.Logger
	plugins map[string]Plugin

	app       appChain
	appConfig map[string]any

	entries    []*entry
	entriesRef map[string]*entry
}

// New method creates new registry. The environment is resolved and
// application level overrides are loaded.
func New(opts ...Option) (*Registry, error) {
	o, err := newOptions(opts)

	if err != nil {
		return nil, err
	}

	env, err := envconf.Resolve(o.EnvOpts...)

	if err != nil {
		return nil, err
	}

	r := &Registry{
		env:        env,
		envOpts:    o.EnvOpts,
		logger:     *o.Logger,
		plugins:    o.Plugins,
		entriesRef: make(map[string]*entry),
	}

	r.loader = fileconf.NewLoader(env,
		fileconf.WithFormats(o.Formats),
		fileconf.WithLogger(r.logger),
	)

	if env.ConfigDir != "" {
		err := r.addAppDir(env.ConfigDir)

		if err != nil {
			return nil, err
		}
	}

	if env.Config != "" {
		err := r.addAppInline(env.Config)

		if err != nil {
			return nil, err
		}
	}

	r.appConfig = r.app.merged()

	return r, nil
}

func (r *Registry) addAppDir(dirname string) error {
	tree, err := r.loader.LoadDir(filepath.Clean(dirname), "", r.env.StrictMode.Enabled())

	if err != nil {
		return err
	}

	return r.app.add(appDir, tree)
}

func (r *Registry) addAppInline(data string) error {
	tree, err := fileconf.Decode(fileconf.HJSON, []byte(data))

	if err != nil {
		return fmt.Errorf("%w: APP_CONFIG: %w", fileconf.ErrParse, err)
	}

	return r.app.add(appInline, tree)
}

// Environment method returns resolved environment.
func (r *Registry) Environment() envconf.Environment {
	return *r.env
}

// BaseNames method returns base names of configuration files in priority order.
func (r *Registry) BaseNames() []string {
	return r.loader.BaseNames()
}

// Modules method returns registered module directories in order of
// registration.
func (r *Registry) Modules() []ModuleInfo {
	infos := make([]ModuleInfo, len(r.entries))

	for i, e := range r.entries {
		infos[i] = e.info()
	}

	return infos
}

// Register method loads configuration files of the module directory. If the
// directory was already registered, nothing is done. The directory is
// normalized to end with "config".
func (r *Registry) Register(dirname string) error {
	_, err := r.register(dirname)
	return err
}

func (r *Registry) register(dirname string) (*entry, error) {
	dirname, err := normConfigDir(dirname)

	if err != nil {
		return nil, err
	}

	if e, ok := r.entriesRef[dirname]; ok {
		return e, nil
	}

	manifest, err := readManifest(dirname)

	if err != nil {
		return nil, err
	}

	e := &entry{
		name:    manifest.Name,
		version: manifest.Version,
		dirname: dirname,
	}

	raw, err := r.loader.LoadDir(dirname, manifest.Name, false)

	if err != nil {
		return nil, err
	}

	e.load(raw)

	r.entries = append(r.entries, e)
	r.entriesRef[dirname] = e

	r.logger.Debug().Str("dir", dirname).Str("module", e.name).
		Str("version", e.version).Msg("module registered")

	return e, nil
}

// Resolve method returns configuration of the module directory. The module is
// registered on first call. Config part is merged once and cached, common part
// always gets current ENV, HOSTNAME and APP_INSTANCE values. Every call
// returns new copy of configuration.
func (r *Registry) Resolve(ctx context.Context, dirname string) (*Resolved, error) {
	e, err := r.register(dirname)

	if err != nil {
		return nil, err
	}

	if e.state != Merged {
		vault, err := vaultconf.FromEnvironment(r.env.VaultNacl, r.env.VaultNaclFile,
			e.dirname)

		if err != nil {
			return nil, err
		}

		err = e.merge(r.appConfig, vault)

		if err != nil {
			return nil, fmt.Errorf("%s: %s: %w", errPref, e.dirname, err)
		}
	}

	env, err := envconf.Resolve(r.envOpts...)

	if err != nil {
		return nil, err
	}

	rc := &Resolved{
		Config: merger.Clone(e.config),
		Common: merger.Merge(merger.Clone(e.common), env.Fields()),
	}

	calls, err := r.pluginCalls(e.plugins, e.dirname)

	if err != nil {
		return nil, err
	}

	err = runPlugins(ctx, calls, rc)

	if err != nil {
		return nil, err
	}

	if ev := r.logger.Debug(); ev.Enabled() {
		ev.Str("dir", e.dirname).Interface("config", rc).Msg("configuration resolved")
	}

	return rc, nil
}
