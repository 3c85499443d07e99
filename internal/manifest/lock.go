package manifest

import (
	"os"

	"github.com/tidwall/gjson"

	"github.com/composer-link/composer-link/internal/errors"
)

// lockSections are the composer.lock lists that hold installed packages.
var lockSections = []string{"packages", "packages-dev"}

// IsInstalled reports whether name appears in the packages or packages-dev
// list of the composer.lock at lockPath. A missing lock file means nothing is
// installed and is not an error.
func IsInstalled(name, lockPath string) (bool, error) {
	data, err := os.ReadFile(lockPath)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, errors.Wrap(errors.ErrCodeInvalidManifest, err, "reading %s", lockPath)
	}

	if !gjson.ValidBytes(data) {
		return false, errors.New(errors.ErrCodeInvalidManifest, "%s is not valid JSON", lockPath)
	}

	for _, section := range lockSections {
		for _, pkg := range gjson.GetBytes(data, section+".#.name").Array() {
			if pkg.String() == name {
				return true, nil
			}
		}
	}
	return false, nil
}
