package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

const (
	outputJSON = "json"
	outputYAML = "yaml"
)

func newResolveCommand(a *app) *cobra.Command {
	var (
		path   string
		output string
	)

	cmd := &cobra.Command{
		Use:   "resolve [dir]",
		Short: "Print resolved configuration of a module directory",
		Long: `Resolve loads configuration of the module directory (working directory by
default) with application overrides from APP_CONFIG_DIR and APP_CONFIG.

Example:
  modconf resolve ./modules/db --get config.host
  modconf resolve --output yaml --APP_ENV=production`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var dirname string

			if len(args) > 0 {
				dirname = args[0]
			}

			r, err := a.registry(cmd)

			if err != nil {
				return err
			}

			rc, err := r.Resolve(cmd.Context(), dirname)

			if err != nil {
				return err
			}

			var value any = rc.Tree()

			if path != "" {
				value = rc.Get(path)
			}

			return printValue(cmd.OutOrStdout(), value, output)
		},
	}

	cmd.Flags().StringVar(&path, "get", "", "print value by dot separated path")
	cmd.Flags().StringVarP(&output, "output", "o", outputJSON, "output format (json, yaml)")

	return cmd
}

func printValue(w io.Writer, value any, output string) error {
	switch output {
	case outputJSON:
		data, err := json.MarshalIndent(value, "", "  ")

		if err != nil {
			return err
		}

		_, err = fmt.Fprintln(w, string(data))

		return err
	case outputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)

		if err := enc.Encode(value); err != nil {
			return err
		}

		return enc.Close()
	}

	return fmt.Errorf("unknown output format: %s", output)
}
