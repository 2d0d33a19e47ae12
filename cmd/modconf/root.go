package main

import (
	"github.com/iph0/modconf"
	"github.com/iph0/modconf/envconf"
	"github.com/iph0/modconf/internal/logger"
	"github.com/spf13/cobra"
)

// app carries settings shared by subcommands. Nil environ means the process
// environment.
type app struct {
	args     []string
	environ  map[string]string
	logLevel string
}

func newRootCommand(args []string, environ map[string]string) *cobra.Command {
	a := &app{
		args:    args,
		environ: environ,
	}

	rootCmd := &cobra.Command{
		Use:   "modconf",
		Short: "Inspect hierarchical module configuration",
		Long: `modconf loads configuration of an application module the same way the
application does and prints the result.

Environment variables can be passed as flags:
  modconf resolve ./node_modules/mymodule --APP_ENV=production --APP_INSTANCE=1`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "",
		"log level (debug, info, warn, error)")

	rootCmd.AddCommand(
		newResolveCommand(a),
		newBaseNamesCommand(a),
		newEncryptCommand(a),
		newDecryptCommand(a),
	)

	for _, cmd := range rootCmd.Commands() {
		cmd.FParseErrWhitelist.UnknownFlags = true
	}

	rootCmd.SetArgs(args)

	return rootCmd
}

func (a *app) envOptions() []envconf.Option {
	opts := []envconf.Option{envconf.WithArgs(a.args)}

	if a.environ != nil {
		opts = append(opts, envconf.WithEnviron(a.environ))
	}

	return opts
}

func (a *app) registry(cmd *cobra.Command) (*modconf.Registry, error) {
	level, err := logger.ParseLevel(a.logLevel)

	if err != nil {
		return nil, err
	}

	opts := []modconf.Option{
		modconf.WithArgs(a.args),
		modconf.WithLogger(logger.NewConsole(cmd.ErrOrStderr(), level).Logger),
	}

	if a.environ != nil {
		opts = append(opts, modconf.WithEnviron(a.environ))
	}

	return modconf.New(opts...)
}
