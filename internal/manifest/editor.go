package manifest

import (
	"bytes"
	"crypto/md5"
	"encoding/hex"
	"fmt"

	"github.com/composer-link/composer-link/internal/branding"
	"github.com/composer-link/composer-link/internal/platform"
)

// Editor performs targeted edits of a project's composer.json. Every method
// is a self-contained read-modify-write of the file; nothing is cached between
// calls, so each edit sees the result of the previous one and of any edit
// made outside this process.
type Editor struct {
	path string
}

// NewEditor returns an Editor for the composer.json at path.
func NewEditor(path string) *Editor {
	return &Editor{path: path}
}

// Path returns the manifest file the editor works on.
func (e *Editor) Path() string {
	return e.path
}

// RepositoryKey returns the deterministic repositories key for a linked path.
func RepositoryKey(path string) string {
	sum := md5.Sum([]byte(path))
	return branding.RepositoryPrefix() + hex.EncodeToString(sum[:])
}

// AddPathSource registers path as a symlinked, non-canonical path repository.
// Adding the same path twice overwrites the first entry.
func (e *Editor) AddPathSource(path string) error {
	return e.update(func(d *Document) error {
		return d.SetRepository(RepositoryKey(path), pathRepository{
			Type:      "path",
			URL:       path,
			Canonical: false,
			Options:   repositoryOptions{Symlink: true},
		})
	})
}

// RemovePathSource removes the repository registered for path, if any.
func (e *Editor) RemovePathSource(path string) error {
	return e.update(func(d *Document) error {
		return d.DeleteRepository(RepositoryKey(path))
	})
}

// HasPathSource reports whether a repository is registered for path.
func (e *Editor) HasPathSource(path string) (bool, error) {
	d, err := e.read()
	if err != nil {
		return false, err
	}
	_, ok := d.Repository(RepositoryKey(path))
	return ok, nil
}

// AddDeclaration sets section[name] = constraint.
func (e *Editor) AddDeclaration(section Section, name, constraint string) error {
	if !section.Valid() {
		return fmt.Errorf("unknown require section %q", section)
	}
	return e.update(func(d *Document) error {
		return d.Set(section, name, constraint)
	})
}

// RemoveDeclaration deletes name from section if present.
func (e *Editor) RemoveDeclaration(section Section, name string) error {
	if !section.Valid() {
		return fmt.Errorf("unknown require section %q", section)
	}
	return e.update(func(d *Document) error {
		return d.Delete(section, name)
	})
}

// Constraint returns the constraint declared for name, looking in require
// first and then require-dev.
func (e *Editor) Constraint(name string) (string, bool, error) {
	d, err := e.read()
	if err != nil {
		return "", false, err
	}
	if c, ok := d.Get(SectionRequire, name); ok {
		return c, true, nil
	}
	if c, ok := d.Get(SectionRequireDev, name); ok {
		return c, true, nil
	}
	return "", false, nil
}

// IsDevDeclaration reports whether name is declared in require-dev.
func (e *Editor) IsDevDeclaration(name string) (bool, error) {
	d, err := e.read()
	if err != nil {
		return false, err
	}
	_, ok := d.Get(SectionRequireDev, name)
	return ok, nil
}

// SectionOf returns require-dev when name is declared there and require
// otherwise, whether or not name is declared at all.
func (e *Editor) SectionOf(name string) (Section, error) {
	dev, err := e.IsDevDeclaration(name)
	if err != nil {
		return "", err
	}
	if dev {
		return SectionRequireDev, nil
	}
	return SectionRequire, nil
}

func (e *Editor) read() (*Document, error) {
	data, err := readFile(e.path)
	if err != nil {
		return nil, err
	}
	d, err := ParseDocument(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", e.path, err)
	}
	return d, nil
}

// update applies fn to a fresh read of the manifest and writes the result.
// The file is left untouched when fn changes nothing.
func (e *Editor) update(fn func(*Document) error) error {
	d, err := e.read()
	if err != nil {
		return err
	}

	before := make([]byte, len(d.raw))
	copy(before, d.raw)

	if err := fn(d); err != nil {
		return err
	}
	if bytes.Equal(before, d.raw) {
		return nil
	}

	if err := platform.WriteFileAtomic(e.path, d.Bytes(), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", e.path, err)
	}
	return nil
}
