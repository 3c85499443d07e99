package platform

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/composer-link/composer-link/internal/errors"
)

// wildcardSuffix is the trailing pattern that expands to every package
// directory directly below a parent directory.
var wildcardSuffix = string(filepath.Separator) + "*"

// IsWildcard reports whether path ends in a separator followed by "*".
func IsWildcard(path string) bool {
	return strings.HasSuffix(path, wildcardSuffix) || strings.HasSuffix(path, "/*")
}

// IsAbsPath checks if a path is absolute on any platform. A leading slash,
// a drive letter prefix (C:), or a UNC prefix (\\server) each qualify on
// their own, regardless of the OS the binary runs on.
func IsAbsPath(path string) bool {
	if strings.HasPrefix(path, "/") {
		return true
	}
	if len(path) > 1 && path[1] == ':' {
		return true
	}
	return strings.HasPrefix(path, `\\`)
}

// Normalize strips a single trailing separator. It does not clean "." or ".."
// segments and never reduces a bare root to the empty string.
func Normalize(path string) string {
	if len(path) > 1 && (strings.HasSuffix(path, "/") || strings.HasSuffix(path, string(filepath.Separator))) {
		return path[:len(path)-1]
	}
	return path
}

// ToAbsolute resolves path against workingDir. Absolute paths are returned
// unchanged. Relative paths are joined with workingDir and canonicalized,
// following symlinks; a wildcard suffix is set aside while resolving and
// appended again afterwards. A path that does not exist yields an
// ErrCodePathResolution error.
func ToAbsolute(path, workingDir string) (string, error) {
	if IsAbsPath(path) {
		return path, nil
	}

	wildcard := IsWildcard(path)
	base := path
	if wildcard {
		base = path[:len(path)-2]
	}

	joined := filepath.Join(workingDir, base)
	real, err := filepath.EvalSymlinks(joined)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodePathResolution, err,
			"cannot resolve absolute path to %s from %s", base, workingDir)
	}
	real, err = filepath.Abs(real)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodePathResolution, err,
			"cannot resolve absolute path to %s from %s", base, workingDir)
	}

	if wildcard {
		real += wildcardSuffix
	}
	return real, nil
}

// Resolve expands a path argument into the directories it names. A wildcard
// path expands to the immediate subdirectories matching the pattern that
// contain manifestName at their root, in directory-listing order. Any other
// path is returned as a single-element list.
func Resolve(path, manifestName string) ([]string, error) {
	if !IsWildcard(path) {
		return []string{path}, nil
	}

	entries, err := filepath.Glob(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodePathResolution, err, "expanding %s", path)
	}

	var dirs []string
	for _, entry := range entries {
		info, err := os.Stat(entry)
		if err != nil || !info.IsDir() {
			continue
		}
		if _, err := os.Stat(filepath.Join(entry, manifestName)); err != nil {
			continue
		}
		dirs = append(dirs, entry)
	}
	return dirs, nil
}
