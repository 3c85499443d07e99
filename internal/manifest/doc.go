// Package manifest reads and edits Composer manifests. It extracts the
// identity of a package directory from its composer.json, performs targeted
// edits of a project's composer.json (path repositories and require /
// require-dev declarations) without disturbing unrelated content, checks
// composer.lock for installed packages, and validates documents against the
// JSON schemas embedded in the schema/ directory.
package manifest
