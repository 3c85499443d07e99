package cli

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/composer-link/composer-link/internal/branding"
	"github.com/composer-link/composer-link/internal/config"
)

func (c *CLI) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage user settings",
		Long: `Read and write settings stored at ` + config.FilePath() + `.

Keys: ` + strings.Join(config.Keys, ", ") + `

Each key can also be set through the environment, for example
` + branding.EnvVar("composer_bin") + `.`,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, value := args[0], args[1]
			if err := c.Config.Set(key, value); err != nil {
				return fmt.Errorf("setting config key %q: %w", key, err)
			}
			printSuccess(cmd.OutOrStdout(), "Set %s = %s", key, value)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "get <key>",
		Short: "Get a configuration value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(config.Keys, args[0]) {
				return fmt.Errorf("unknown config key %q (valid keys: %s)", args[0], strings.Join(config.Keys, ", "))
			}
			fmt.Fprintln(cmd.OutOrStdout(), c.Config.Get(args[0]))
			return nil
		},
	})

	return cmd
}
