package modconf

import (
	"fmt"

	"dario.cat/mergo"
	"github.com/iph0/modconf/envconf"
	"github.com/iph0/modconf/fileconf"
	"github.com/iph0/modconf/internal/logger"
	"github.com/rs/zerolog"
)

// Option configures the registry.
type Option func(*options)

type options struct {
	EnvOpts []envconf.Option
	Logger  *zerolog.Logger
	Formats *fileconf.Formats
	Plugins map[string]Plugin
}

// WithArgs sets command-line arguments, that override environment variables.
// By default os.Args[1:] are used.
func WithArgs(args []string) Option {
	return func(o *options) {
		o.EnvOpts = append(o.EnvOpts, envconf.WithArgs(args))
	}
}

// WithEnviron sets environment variables used instead of the process
// environment.
func WithEnviron(environ map[string]string) Option {
	return func(o *options) {
		o.EnvOpts = append(o.EnvOpts, envconf.WithEnviron(environ))
	}
}

// WithHostnameFunc sets function, that returns host name, if neither HOST nor
// HOSTNAME are set.
func WithHostnameFunc(f func() (string, error)) Option {
	return func(o *options) {
		o.EnvOpts = append(o.EnvOpts, envconf.WithHostnameFunc(f))
	}
}

// WithLogger sets the logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) {
		o.Logger = &logger
	}
}

// WithFormats restricts and reorders supported file formats.
func WithFormats(formats *fileconf.Formats) Option {
	return func(o *options) {
		o.Formats = formats
	}
}

// WithPlugin registers plugin, that can be referred by name in "plugins" list
// of configuration files.
func WithPlugin(name string, plugin Plugin) Option {
	return func(o *options) {
		if o.Plugins == nil {
			o.Plugins = make(map[string]Plugin)
		}

		o.Plugins[name] = plugin
	}
}

func defaultOptions() options {
	return options{
		Logger:  &logger.New().Logger,
		Formats: fileconf.DefaultFormats(),
		Plugins: make(map[string]Plugin),
	}
}

func newOptions(opts []Option) (options, error) {
	var o options

	for _, opt := range opts {
		opt(&o)
	}

	err := mergo.Merge(&o, defaultOptions())

	if err != nil {
		return options{}, fmt.Errorf("%s: %w", errPref, err)
	}

	return o, nil
}
