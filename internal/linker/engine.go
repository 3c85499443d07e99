package linker

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/composer-link/composer-link/internal/manifest"
	"github.com/composer-link/composer-link/internal/platform"
	"github.com/composer-link/composer-link/internal/registry"
)

// Manifest is the set of composer.json edits the engine performs. Each call
// is expected to persist on its own.
type Manifest interface {
	AddPathSource(path string) error
	RemovePathSource(path string) error
	AddDeclaration(section manifest.Section, name, constraint string) error
	RemoveDeclaration(section manifest.Section, name string) error
	Constraint(name string) (string, bool, error)
	SectionOf(name string) (manifest.Section, error)
}

// Registry stores one record per linked package.
type Registry interface {
	Add(r registry.Record) error
	Remove(name string) error
	FindByName(name string) (registry.Record, bool)
	FindByPath(path string) (registry.Record, bool)
	All() []registry.Record
}

// Config holds the project context an Engine works in.
type Config struct {
	WorkingDir string      // base for relative path arguments
	LockPath   string      // composer.lock consulted by the only-installed filter
	Logger     *log.Logger // optional
}

// Engine coordinates the manifest and the registry. It holds no state of its
// own between calls.
type Engine struct {
	manifest Manifest
	registry Registry
	cfg      Config
	logger   *log.Logger
}

// New returns an Engine.
func New(m Manifest, r Registry, cfg Config) *Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Engine{manifest: m, registry: r, cfg: cfg, logger: logger}
}

// PackageName returns the name declared by the composer.json in path.
func (e *Engine) PackageName(path string) (string, error) {
	pkg, err := manifest.ReadPackage(path)
	if err != nil {
		return "", err
	}
	return pkg.Name, nil
}

// IsPackageInstalled reports whether lockPath lists name as installed.
func (e *Engine) IsPackageInstalled(name, lockPath string) (bool, error) {
	return manifest.IsInstalled(name, lockPath)
}

// Link links the package in path, which must be an absolute directory.
func (e *Engine) Link(path string) (Outcome, error) {
	pkg, err := manifest.ReadPackage(path)
	if err != nil {
		return Outcome{}, err
	}
	return e.link(pkg)
}

func (e *Engine) link(pkg *manifest.Package) (Outcome, error) {
	path := pkg.Dir

	if existing, ok := e.registry.FindByName(pkg.Name); ok {
		e.logger.Debug("already linked", "package", pkg.Name, "from", existing.Path)
		return Outcome{
			Kind:       KindSkipped,
			Name:       pkg.Name,
			Path:       path,
			Reason:     ReasonAlreadyLinked,
			LinkedFrom: existing.Path,
		}, nil
	}

	constraint, declared, err := e.manifest.Constraint(pkg.Name)
	if err != nil {
		return Outcome{}, err
	}

	record := registry.NewRecord(pkg.Name, path)
	if declared {
		section, err := e.manifest.SectionOf(pkg.Name)
		if err != nil {
			return Outcome{}, err
		}
		record = registry.ExistingRecord(pkg.Name, path, section, constraint)
		e.warnIfUnsatisfied(pkg, constraint)
	}

	// The record goes first so an interrupted link can still be undone.
	if err := e.registry.Add(record); err != nil {
		return Outcome{}, err
	}
	if err := e.manifest.AddPathSource(path); err != nil {
		return Outcome{}, fmt.Errorf("linking %s: %w", pkg.Name, err)
	}
	if err := e.manifest.AddDeclaration(record.RequireSection, pkg.Name, manifest.LinkConstraint); err != nil {
		return Outcome{}, fmt.Errorf("linking %s: %w", pkg.Name, err)
	}

	e.logger.Debug("linked", "package", pkg.Name, "path", path,
		"section", record.RequireSection, "new", record.WasNewRequirement)
	return Outcome{Kind: KindLinked, Name: pkg.Name, Path: path}, nil
}

func (e *Engine) warnIfUnsatisfied(pkg *manifest.Package, constraint string) {
	ok, checked := manifest.Satisfies(constraint, pkg.Version)
	if checked && !ok {
		e.logger.Warn("local version does not satisfy the declared constraint",
			"package", pkg.Name, "version", pkg.Version, "constraint", constraint)
	}
}

// Unlink restores the package linked from path, which must be absolute.
func (e *Engine) Unlink(path string) (Outcome, error) {
	record, ok := e.registry.FindByPath(path)
	if !ok {
		return Outcome{Kind: KindNotFound, Path: path}, nil
	}
	if err := e.restore(record); err != nil {
		return Outcome{}, err
	}
	return Outcome{Kind: KindUnlinked, Name: record.Name, Path: record.Path}, nil
}

// UnlinkAll restores every tracked package in stored order.
func (e *Engine) UnlinkAll() ([]Outcome, error) {
	records := e.registry.All()

	outcomes := make([]Outcome, 0, len(records))
	for _, record := range records {
		if err := e.restore(record); err != nil {
			return outcomes, err
		}
		outcomes = append(outcomes, Outcome{Kind: KindUnlinked, Name: record.Name, Path: record.Path})
	}
	return outcomes, nil
}

// restore puts back the declaration described by record and forgets it.
// Every step tolerates having already been applied.
func (e *Engine) restore(record registry.Record) error {
	if err := e.manifest.RemovePathSource(record.Path); err != nil {
		return fmt.Errorf("unlinking %s: %w", record.Name, err)
	}

	if record.WasNewRequirement {
		if err := e.manifest.RemoveDeclaration(record.RequireSection, record.Name); err != nil {
			return fmt.Errorf("unlinking %s: %w", record.Name, err)
		}
	} else {
		if err := e.manifest.AddDeclaration(record.RequireSection, record.Name, record.Constraint()); err != nil {
			return fmt.Errorf("unlinking %s: %w", record.Name, err)
		}
	}

	if err := e.registry.Remove(record.Name); err != nil {
		return err
	}
	e.logger.Debug("unlinked", "package", record.Name, "path", record.Path)
	return nil
}

// Linked returns the current link records in stored order.
func (e *Engine) Linked() []registry.Record {
	return e.registry.All()
}

// LinkArgument links every package named by a path argument, which may be
// relative to the working directory and may end in a wildcard. All package
// identities are read before anything is changed, so an unreadable manifest
// aborts the batch without side effects. With onlyInstalled, packages absent
// from composer.lock are skipped.
func (e *Engine) LinkArgument(raw string, onlyInstalled bool) ([]Outcome, error) {
	paths, err := e.resolve(raw)
	if err != nil {
		return nil, err
	}

	pkgs := make([]*manifest.Package, 0, len(paths))
	for _, path := range paths {
		pkg, err := manifest.ReadPackage(path)
		if err != nil {
			return nil, err
		}
		pkgs = append(pkgs, pkg)
	}

	outcomes := make([]Outcome, 0, len(pkgs))
	for _, pkg := range pkgs {
		if onlyInstalled {
			installed, err := e.IsPackageInstalled(pkg.Name, e.cfg.LockPath)
			if err != nil {
				return outcomes, err
			}
			if !installed {
				e.logger.Debug("not installed", "package", pkg.Name, "lock", e.cfg.LockPath)
				outcomes = append(outcomes, Outcome{
					Kind:   KindSkipped,
					Name:   pkg.Name,
					Path:   pkg.Dir,
					Reason: ReasonNotInstalled,
				})
				continue
			}
		}

		o, err := e.link(pkg)
		if err != nil {
			return outcomes, err
		}
		outcomes = append(outcomes, o)
	}
	return outcomes, nil
}

// UnlinkArgument unlinks every package linked from the paths a path argument
// names.
func (e *Engine) UnlinkArgument(raw string) ([]Outcome, error) {
	paths, err := e.resolve(raw)
	if err != nil {
		return nil, err
	}

	outcomes := make([]Outcome, 0, len(paths))
	for _, path := range paths {
		o, err := e.Unlink(path)
		if err != nil {
			return outcomes, err
		}
		outcomes = append(outcomes, o)
	}
	return outcomes, nil
}

func (e *Engine) resolve(raw string) ([]string, error) {
	abs, err := platform.ToAbsolute(platform.Normalize(raw), e.cfg.WorkingDir)
	if err != nil {
		return nil, err
	}
	return platform.Resolve(abs, manifest.FileName)
}
