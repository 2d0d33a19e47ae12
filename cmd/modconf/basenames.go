package main

import (
	"fmt"

	"github.com/iph0/modconf/envconf"
	"github.com/iph0/modconf/fileconf"
	"github.com/spf13/cobra"
)

func newBaseNamesCommand(a *app) *cobra.Command {
	var withExts bool

	cmd := &cobra.Command{
		Use:   "basenames",
		Short: "Print configuration file names in order of precedence",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := envconf.Resolve(a.envOptions()...)

			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			exts := fileconf.DefaultFormats().Exts()

			for _, baseName := range fileconf.BaseNames(env) {
				if !withExts {
					fmt.Fprintln(out, baseName)
					continue
				}

				for _, ext := range exts {
					fmt.Fprintln(out, baseName+ext)
				}
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&withExts, "exts", false, "print file names with extensions")

	return cmd
}
