package installer

import (
	"context"
	"io"
	"os"
	"os/exec"

	"github.com/charmbracelet/log"

	"github.com/composer-link/composer-link/internal/errors"
	"github.com/composer-link/composer-link/internal/manifest"
)

// Resolver re-resolves a set of packages after the manifest changed. The
// returned code is the resolver's exit status, 0 on success.
type Resolver interface {
	Update(ctx context.Context, names []string) (int, error)
}

// Composer runs `composer update --with-all-dependencies <names...>`.
type Composer struct {
	Bin      string // executable name or path; defaults to "composer"
	Dir      string // project directory
	Manifest string // manifest file name, exported as COMPOSER when not composer.json

	// Stdout and Stderr default to os.Stdout/os.Stderr.
	Stdout io.Writer
	Stderr io.Writer

	Logger *log.Logger
}

// Update runs Composer for names. An empty list runs nothing.
func (c *Composer) Update(ctx context.Context, names []string) (int, error) {
	if len(names) == 0 {
		return 0, nil
	}

	name := c.Bin
	if name == "" {
		name = "composer"
	}
	bin, err := exec.LookPath(name)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeInstallFailed, err, "cannot find %s", name)
	}

	args := append([]string{"update", "--with-all-dependencies"}, names...)
	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Dir = c.Dir
	cmd.Env = os.Environ()
	if c.Manifest != "" && c.Manifest != manifest.FileName {
		cmd.Env = append(cmd.Env, "COMPOSER="+c.Manifest)
	}

	cmd.Stdout = c.Stdout
	if cmd.Stdout == nil {
		cmd.Stdout = os.Stdout
	}
	cmd.Stderr = c.Stderr
	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}

	if c.Logger != nil {
		c.Logger.Debug("running resolver", "bin", bin, "args", args, "dir", c.Dir)
	}

	if err := cmd.Run(); err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return exitErr.ExitCode(), nil
		}
		return 0, errors.Wrap(errors.ErrCodeInstallFailed, err, "running %s", bin)
	}
	return 0, nil
}
