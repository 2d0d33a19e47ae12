package main

import (
	"errors"
	"fmt"

	"github.com/iph0/modconf/envconf"
	"github.com/iph0/modconf/vaultconf"
	"github.com/spf13/cobra"
)

var errNoPassword = errors.New("no password: set VAULT_NACL or VAULT_NACL_FILE")

func newEncryptCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "encrypt <value>",
		Short: "Encrypt value for configuration files",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			vault, err := a.vault()

			if err != nil {
				return err
			}

			encrypted, err := vault.EncryptString(args[0])

			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), encrypted)

			return nil
		},
	}
}

func newDecryptCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "decrypt <value>",
		Short: "Decrypt value from configuration files",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			vault, err := a.vault()

			if err != nil {
				return err
			}

			decrypted, err := vault.DecryptString(args[0])

			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), decrypted)

			return nil
		},
	}
}

func (a *app) vault() (*vaultconf.Vault, error) {
	env, err := envconf.Resolve(a.envOptions()...)

	if err != nil {
		return nil, err
	}

	vault, err := vaultconf.FromEnvironment(env.VaultNacl, env.VaultNaclFile, "")

	if err != nil {
		return nil, err
	}

	if vault == nil {
		return nil, errNoPassword
	}

	return vault, nil
}
