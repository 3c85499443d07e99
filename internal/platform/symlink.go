package platform

import (
	"os"
	"path/filepath"
)

// ReadSymlinkTarget returns the target of a symlink, resolved against the
// directory containing the link when the stored target is relative.
// Composer's path repositories create relative links such as
// vendor/acme/pkg -> ../../../packages/pkg.
func ReadSymlinkTarget(path string) (string, error) {
	target, err := os.Readlink(path)
	if err != nil {
		return "", err
	}
	if !filepath.IsAbs(target) {
		target = filepath.Join(filepath.Dir(path), target)
	}
	return filepath.Clean(target), nil
}

// PointsTo reports whether link is a symlink whose target is dir. Both sides
// are compared after symlink evaluation so /tmp vs /private/tmp style aliases
// still match.
func PointsTo(link, dir string) bool {
	target, err := ReadSymlinkTarget(link)
	if err != nil {
		return false
	}
	return samePath(target, dir)
}

func samePath(a, b string) bool {
	if filepath.Clean(a) == filepath.Clean(b) {
		return true
	}
	ra, errA := filepath.EvalSymlinks(a)
	rb, errB := filepath.EvalSymlinks(b)
	if errA != nil || errB != nil {
		return false
	}
	return ra == rb
}
