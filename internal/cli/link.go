package cli

import (
	"github.com/spf13/cobra"
)

func (c *CLI) linkCommand() *cobra.Command {
	var onlyInstalled bool

	cmd := &cobra.Command{
		Use:   "link <path>",
		Short: "Link a local package into this project",
		Long: `Point this project's dependency on a package at a local working copy.

The path must contain a composer.json with a name. A trailing "/*" links
every package directory directly below the given directory.

Example:
  composer-link link ../my-package
  composer-link link ../packages/* --only-installed`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := c.openProject(cmd)
			if err != nil {
				return err
			}
			outcomes, err := p.engine.LinkArgument(args[0], onlyInstalled)
			return c.finish(cmd, p, outcomes, err)
		},
	}

	cmd.Flags().BoolVar(&onlyInstalled, "only-installed", false, "only link packages already present in composer.lock")
	return cmd
}

func (c *CLI) unlinkCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "unlink <path>",
		Short: "Unlink a local package and restore its original constraint",
		Long: `Remove the link created from a local path and restore composer.json to
the declaration it had before linking. A trailing "/*" unlinks every package
directory directly below the given directory.

Example:
  composer-link unlink ../my-package`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := c.openProject(cmd)
			if err != nil {
				return err
			}
			outcomes, err := p.engine.UnlinkArgument(args[0])
			return c.finish(cmd, p, outcomes, err)
		},
	}
}

func (c *CLI) unlinkAllCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "unlink-all",
		Short: "Unlink every linked package",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := c.openProject(cmd)
			if err != nil {
				return err
			}
			outcomes, err := p.engine.UnlinkAll()
			return c.finish(cmd, p, outcomes, err)
		},
	}
}
