package manifest

// File names Composer uses inside a project or package directory.
const (
	FileName     = "composer.json"
	LockFileName = "composer.lock"
)

// LinkConstraint is the constraint written for a linked package. It accepts
// whatever version the local path repository provides.
const LinkConstraint = "*"

// Section names a dependency section of composer.json.
type Section string

const (
	SectionRequire    Section = "require"
	SectionRequireDev Section = "require-dev"
)

// Valid reports whether s is one of the two dependency sections.
func (s Section) Valid() bool {
	return s == SectionRequire || s == SectionRequireDev
}

func (s Section) String() string { return string(s) }

// Package is the identity read from a package directory's composer.json.
type Package struct {
	Name    string
	Version string // optional; empty when the manifest declares none
	Type    string
	Dir     string
}

// pathRepository is the descriptor stored under "repositories" for a link.
// Name is only set when repositories is in list form.
type pathRepository struct {
	Name      string            `json:"name,omitempty"`
	Type      string            `json:"type"`
	URL       string            `json:"url"`
	Canonical bool              `json:"canonical"`
	Options   repositoryOptions `json:"options"`
}

type repositoryOptions struct {
	Symlink bool `json:"symlink"`
}
