package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/composer-link/composer-link/internal/branding"
	"github.com/composer-link/composer-link/internal/config"
	"github.com/composer-link/composer-link/internal/errors"
	"github.com/composer-link/composer-link/internal/installer"
	"github.com/composer-link/composer-link/internal/linker"
	"github.com/composer-link/composer-link/internal/manifest"
	"github.com/composer-link/composer-link/internal/registry"
)

// ResolverFactory builds the resolver run after a successful change.
type ResolverFactory func(s *config.Settings, out, errOut io.Writer, logger *log.Logger) installer.Resolver

// CLI holds shared state for all commands.
type CLI struct {
	Config      *config.Config
	NewResolver ResolverFactory

	version    string
	workingDir string
	noUpdate   bool
	verbose    bool
}

// New returns a CLI that reads user settings from cfg and runs Composer.
func New(cfg *config.Config, version string) *CLI {
	return &CLI{
		Config:      cfg,
		NewResolver: composerResolver,
		version:     version,
	}
}

func composerResolver(s *config.Settings, out, errOut io.Writer, logger *log.Logger) installer.Resolver {
	return &installer.Composer{
		Bin:      s.ComposerBin,
		Dir:      s.ProjectDir,
		Manifest: filepath.Base(s.ManifestPath),
		Stdout:   out,
		Stderr:   errOut,
		Logger:   logger,
	}
}

// Execute runs the CLI with build info injected via ldflags. A resolver that
// exits non-zero is returned as *errors.ExitError.
func Execute(version, commit, date string) error {
	c := New(config.New(config.FilePath()), version)
	root := c.RootCommand()
	root.SetVersionTemplate(fmt.Sprintf("%s %s\ncommit: %s\nbuilt: %s\n", branding.CLIName(), version, commit, date))

	err := root.ExecuteContext(context.Background())
	if err != nil {
		if _, ok := err.(*errors.ExitError); !ok {
			printError(root.ErrOrStderr(), "%s", errors.UserMessage(err))
		}
	}
	return err
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   branding.CLIName(),
		Short: branding.Description(),
		Long: branding.DisplayName() + ` replaces Composer dependencies with local working copies
through symlinked path repositories, and restores composer.json when they
are unlinked.`,
		Version:       c.version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := log.InfoLevel
			if c.verbose {
				level = log.DebugLevel
			}
			cmd.SetContext(withLogger(cmd.Context(), newLogger(cmd.ErrOrStderr(), level)))

			if err := c.Config.BindFlag(config.KeyNoUpdate, cmd.Root().PersistentFlags().Lookup(config.KeyNoUpdate)); err != nil {
				return err
			}
			return c.Config.Load()
		},
	}

	root.PersistentFlags().StringVarP(&c.workingDir, "working-dir", "d", "", "use the given directory as the project directory")
	root.PersistentFlags().BoolVar(&c.noUpdate, config.KeyNoUpdate, false, "change composer.json without running composer update")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(c.linkCommand())
	root.AddCommand(c.unlinkCommand())
	root.AddCommand(c.unlinkAllCommand())
	root.AddCommand(c.linkedCommand())
	root.AddCommand(c.configCommand())

	return root
}

// project is the per-invocation view of the Composer project.
type project struct {
	settings *config.Settings
	engine   *linker.Engine
	logger   *log.Logger
}

func (c *CLI) openProject(cmd *cobra.Command) (*project, error) {
	dir := c.workingDir
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting current directory: %w", err)
		}
		dir = cwd
	}
	dir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving working directory: %w", err)
	}

	settings, err := c.Config.Resolve(dir)
	if err != nil {
		return nil, err
	}

	logger := loggerFromContext(cmd.Context())
	logger.Debug("project", "manifest", settings.ManifestPath, "vendor", settings.VendorDir)

	engine := linker.New(
		manifest.NewEditor(settings.ManifestPath),
		registry.NewStore(settings.VendorDir, logger),
		linker.Config{
			WorkingDir: dir,
			LockPath:   settings.LockPath,
			Logger:     logger,
		},
	)
	return &project{settings: settings, engine: engine, logger: logger}, nil
}

// finish reports outcomes and runs the resolver for the packages that
// changed. Outcomes reported before a failure are still printed.
func (c *CLI) finish(cmd *cobra.Command, p *project, outcomes []linker.Outcome, opErr error) error {
	out := cmd.OutOrStdout()
	for _, o := range outcomes {
		reportOutcome(out, o)
	}
	if opErr != nil {
		return opErr
	}

	affected := linker.Affected(outcomes)
	if len(affected) == 0 {
		printInfo(out, "Nothing done")
		return nil
	}
	if p.settings.NoUpdate {
		printInfo(out, "Skipping composer update for %d package(s)", len(affected))
		return nil
	}

	resolver := c.NewResolver(p.settings, out, cmd.ErrOrStderr(), p.logger)
	code, err := resolver.Update(cmd.Context(), affected)
	if err != nil {
		return err
	}
	if code != 0 {
		return &errors.ExitError{Code: code}
	}
	return nil
}

func reportOutcome(w io.Writer, o linker.Outcome) {
	switch o.Kind {
	case linker.KindLinked:
		printSuccess(w, "Linked %s %s", StyleHighlight.Render(o.Name), StyleDim.Render(o.Path))
	case linker.KindUnlinked:
		printSuccess(w, "Unlinked %s %s", StyleHighlight.Render(o.Name), StyleDim.Render(o.Path))
	case linker.KindSkipped:
		switch o.Reason {
		case linker.ReasonAlreadyLinked:
			printWarning(w, "Package %s is already linked from %s", o.Name, o.LinkedFrom)
		case linker.ReasonNotInstalled:
			printWarning(w, "Package %s is not installed, skipping", o.Name)
		}
	case linker.KindNotFound:
		printWarning(w, "No linked package found at %s", o.Path)
	}
}
