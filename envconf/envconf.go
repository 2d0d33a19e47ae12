// Copyright (c) 2018, Eugene Ponizovsky, <ponizovsky@gmail.com>. All rights
// reserved. Use of this source code is governed by a MIT License that can
// be found in the LICENSE file.

/*
Package envconf resolves the effective environment of the configuration loader.
Variables are taken from the process environment and can be overridden by
command-line tokens of the form --NAME=value:

	APP_ENV                 environment name, "development" by default
	APP_INSTANCE            application instance identifier
	HOST, HOSTNAME          host name, OS host name is used if both are unset
	APP_CONFIG_DIR          application-level override directory
	APP_CONFIG              inline application-level override in HJSON or JSON
	APP_CONFIG_STRICT_MODE  strict mode flag
	VAULT_NACL              password for encrypted values
	VAULT_NACL_FILE         file with password for encrypted values
*/
package envconf

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/iph0/merger"
	"github.com/spf13/pflag"
)

const (
	errPref = "envconf"

	// DefaultEnv is the environment name used if APP_ENV is not set.
	DefaultEnv = "development"

	// Keys of environment tags added to common configuration.
	EnvKey      = "ENV"
	InstanceKey = "APP_INSTANCE"
	HostnameKey = "HOSTNAME"
)

var (
	falseRe    = regexp.MustCompile(`(?i)^(0|false|no|off)$`)
	hostnameRe = regexp.MustCompile(`(?i)\bhostname\b`)
)

// Environment holds the resolved environment variables.
type Environment struct {
	Env           string     `env:"APP_ENV" envDefault:"development"`
	Instance      string     `env:"APP_INSTANCE"`
	Host          string     `env:"HOST"`
	Hostname      string     `env:"HOSTNAME"`
	ConfigDir     string     `env:"APP_CONFIG_DIR"`
	Config        string     `env:"APP_CONFIG"`
	StrictMode    StrictMode `env:"APP_CONFIG_STRICT_MODE"`
	VaultNacl     string     `env:"VAULT_NACL"`
	VaultNaclFile string     `env:"VAULT_NACL_FILE"`
}

// StrictMode is the value of the strict mode flag.
type StrictMode string

// Enabled method reports whether strict mode is on.
func (m StrictMode) Enabled() bool {
	s := strings.TrimSpace(string(m))
	return s != "" && !falseRe.MatchString(s)
}

// Hostname method reports whether strict mode also requires host specific
// configuration files.
func (m StrictMode) Hostname() bool {
	return m.Enabled() && hostnameRe.MatchString(string(m))
}

// Option configures the resolver.
type Option func(*resolver)

type resolver struct {
	args     []string
	argsSet  bool
	environ  map[string]string
	hostname func() (string, error)
}

// WithArgs sets command-line arguments to look for --NAME=value tokens.
// os.Args[1:] is used by default.
func WithArgs(args []string) Option {
	return func(r *resolver) {
		r.args = args
		r.argsSet = true
	}
}

// WithEnviron replaces the process environment with the given map.
func WithEnviron(environ map[string]string) Option {
	return func(r *resolver) {
		r.environ = environ
	}
}

// WithHostnameFunc sets the function used to get the OS host name.
func WithHostnameFunc(f func() (string, error)) Option {
	return func(r *resolver) {
		r.hostname = f
	}
}

// Resolve method resolves the effective environment. Command-line tokens take
// precedence over process environment, which takes precedence over defaults.
func Resolve(opts ...Option) (*Environment, error) {
	r := &resolver{
		hostname: os.Hostname,
	}

	for _, opt := range opts {
		opt(r)
	}

	if !r.argsSet && len(os.Args) > 1 {
		r.args = os.Args[1:]
	}

	var fromEnv Environment
	err := env.ParseWithOptions(&fromEnv, env.Options{Environment: r.environ})

	if err != nil {
		return nil, fmt.Errorf("%s: %w", errPref, err)
	}

	fromArgs, err := parseArgs(r.args)

	if err != nil {
		return nil, err
	}

	e := merger.Merge(fromEnv, fromArgs).(Environment)

	e.Hostname, err = r.resolveHostname(e)

	if err != nil {
		return nil, err
	}

	if e.ConfigDir != "" && !filepath.IsAbs(e.ConfigDir) {
		dir, err := filepath.Abs(e.ConfigDir)

		if err != nil {
			return nil, fmt.Errorf("%s: %w", errPref, err)
		}

		e.ConfigDir = dir
	}

	return &e, nil
}

// Fields method returns environment tags, that are added to common
// configuration. APP_INSTANCE is omitted if not set.
func (e *Environment) Fields() map[string]any {
	fields := map[string]any{
		EnvKey:      e.Env,
		HostnameKey: e.Hostname,
	}

	if e.Instance != "" {
		fields[InstanceKey] = e.Instance
	}

	return fields
}

func (r *resolver) resolveHostname(e Environment) (string, error) {
	if e.Host != "" {
		return e.Host, nil
	}

	if e.Hostname != "" {
		return e.Hostname, nil
	}

	hostname, err := r.hostname()

	if err != nil {
		return "", fmt.Errorf("%s: can't resolve host name: %w", errPref, err)
	}

	return hostname, nil
}

var argNames = []string{
	"APP_ENV",
	"APP_INSTANCE",
	"HOST",
	"HOSTNAME",
	"APP_CONFIG_DIR",
	"APP_CONFIG",
	"APP_CONFIG_STRICT_MODE",
	"VAULT_NACL",
	"VAULT_NACL_FILE",
}

// pickArgs returns --NAME=value tokens for known variables. Bare flags, the
// "--NAME value" form and the "--" terminator are skipped.
func pickArgs(args []string) []string {
	var picked []string

	for _, arg := range args {
		for _, name := range argNames {
			if strings.HasPrefix(arg, "--"+name+"=") {
				picked = append(picked, arg)
				break
			}
		}
	}

	return picked
}

// parseArgs parses --NAME=value tokens for known variables. Other arguments
// are ignored.
func parseArgs(args []string) (Environment, error) {
	var e Environment

	args = pickArgs(args)

	if len(args) == 0 {
		return e, nil
	}

	var strictMode string

	flags := pflag.NewFlagSet(errPref, pflag.ContinueOnError)
	flags.SetOutput(io.Discard)
	flags.Usage = func() {}

	flags.StringVar(&e.Env, "APP_ENV", "", "")
	flags.StringVar(&e.Instance, "APP_INSTANCE", "", "")
	flags.StringVar(&e.Host, "HOST", "", "")
	flags.StringVar(&e.Hostname, "HOSTNAME", "", "")
	flags.StringVar(&e.ConfigDir, "APP_CONFIG_DIR", "", "")
	flags.StringVar(&e.Config, "APP_CONFIG", "", "")
	flags.StringVar(&strictMode, "APP_CONFIG_STRICT_MODE", "", "")
	flags.StringVar(&e.VaultNacl, "VAULT_NACL", "", "")
	flags.StringVar(&e.VaultNaclFile, "VAULT_NACL_FILE", "", "")

	err := flags.Parse(args)

	if err != nil && !errors.Is(err, pflag.ErrHelp) {
		return e, fmt.Errorf("%s: %w", errPref, err)
	}

	e.StrictMode = StrictMode(strictMode)

	return e, nil
}
