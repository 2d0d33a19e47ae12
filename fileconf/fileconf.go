// Copyright (c) 2018, Eugene Ponizovsky, <ponizovsky@gmail.com>. All rights
// reserved. Use of this source code is governed by a MIT License that can
// be found in the LICENSE file.

/*
Package fileconf loads configuration files from a configuration directory.
Files are named <base name><extension>. Base names are computed from the
environment in a fixed order (see BaseNames) and define file precedence:

	default, default-{INSTANCE}, {ENV}, {ENV}-{INSTANCE}, {HOSTNAME},
	{HOSTNAME}-{INSTANCE}, {HOSTNAME}-{ENV}, {HOSTNAME}-{ENV}-{INSTANCE}, local,
	local-{INSTANCE}, local-{ENV}, local-{ENV}-{INSTANCE}

For each base name only one file is loaded. If files with the same base name
exist in several formats, the first extension in order of the Formats set wins:

	.json, .json5, .hjson, .toml, .yaml, .yml, .properties
*/
package fileconf

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/iph0/modconf/envconf"
	"github.com/iph0/modconf/merger"
	"github.com/rs/zerolog"
)

const (
	errPref = "fileconf"

	// ConfigKey is the key of generic module configuration in module files.
	ConfigKey = "config"
)

// Loader loads and merges configuration files from directories.
type Loader struct {
	env       *envconf.Environment
	formats   *Formats
	baseNames []string
	logger    zerolog.Logger
}

// Option configures the loader.
type Option func(*Loader)

// WithFormats sets supported file formats.
func WithFormats(formats *Formats) Option {
	return func(l *Loader) {
		l.formats = formats
	}
}

// WithLogger sets the logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(l *Loader) {
		l.logger = logger
	}
}

// NewLoader method creates new loader for the environment.
func NewLoader(env *envconf.Environment, opts ...Option) *Loader {
	l := &Loader{
		env:    env,
		logger: zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(l)
	}

	if l.formats == nil {
		l.formats = DefaultFormats()
	}

	l.baseNames = BaseNames(env)

	return l
}

// BaseNames method returns base names of configuration files in priority order.
func (l *Loader) BaseNames() []string {
	return append([]string(nil), l.baseNames...)
}

// Formats method returns supported file formats.
func (l *Loader) Formats() *Formats {
	return l.formats
}

// LoadDir method loads configuration files from the directory and merges them
// into one configuration tree. If no files found, nil is returned. If module
// name is specified, generic module configuration under "config" key is merged
// under the module name key, module specific values have precedence.
//
// If the directory can't be read, in strict mode the error is returned,
// otherwise the warning is logged and nil is returned. In strict mode files
// for active environment, instance and (if requested) host name must exist.
func (l *Loader) LoadDir(dirname, moduleName string, strict bool) (map[string]any, error) {
	entries, err := os.ReadDir(dirname)

	if err != nil {
		if strict {
			return nil, fmt.Errorf("%w %s: %w", ErrDirectoryRead, dirname, err)
		}

		l.logger.Warn().Str("dir", dirname).Err(err).Msg("can't read config from dir")

		return nil, nil
	}

	files := make(map[string]struct{}, len(entries))

	for _, entry := range entries {
		if !entry.IsDir() {
			files[entry.Name()] = struct{}{}
		}
	}

	var (
		config map[string]any
		found  []string
	)

	for _, baseName := range l.baseNames {
		for _, ext := range l.formats.exts {
			filename := baseName + ext

			if _, ok := files[filename]; !ok {
				continue
			}

			found = append(found, filename)
			path := filepath.Join(dirname, filename)
			data, err := l.formats.DecodeFile(path)

			if err != nil {
				return nil, err
			}

			l.logger.Debug().Str("file", path).Msg("config file loaded")
			config = merger.Merge(config, data)

			break
		}
	}

	if moduleName != "" && config != nil {
		if generic := merger.Tree(config[ConfigKey]); generic != nil {
			config[moduleName] = merger.Merge(generic, merger.Tree(config[moduleName]))
		}
	}

	if strict {
		err := l.checkStrict(dirname, found)

		if err != nil {
			return nil, err
		}
	}

	return config, nil
}
