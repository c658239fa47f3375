package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"go-progression/config"
)

func newConfigCmd() *cobra.Command {
	var path string
	c := &cobra.Command{
		Use:   "config",
		Short: "create or inspect the config file",
	}
	c.PersistentFlags().StringVarP(&path, "config", "c", "", "config file (default ~/.config/go-progression/config.json)")

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "write the default config",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			target := path
			if target == "" {
				p, err := config.ConfigPath()
				if err != nil {
					return err
				}
				target = p
			}
			if _, err := os.Stat(target); err == nil && !force {
				return fmt.Errorf("%s already exists, use --force to overwrite", target)
			} else if err != nil && !errors.Is(err, os.ErrNotExist) {
				return err
			}
			if err := config.DefaultConfig().Save(target); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", target)
			return nil
		},
	}
	initCmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing file")

	var asYAML bool
	showCmd := &cobra.Command{
		Use:   "show",
		Short: "print the effective config",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(path)
			if err != nil {
				return err
			}
			data, err := cfg.Marshal(asYAML)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			if err != nil {
				return err
			}
			if verr := cfg.Validate(); verr != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", verr)
			}
			return nil
		},
	}
	showCmd.Flags().BoolVar(&asYAML, "yaml", false, "print as YAML")

	c.AddCommand(initCmd, showCmd)
	return c
}
