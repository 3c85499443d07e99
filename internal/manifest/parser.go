package manifest

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/tidwall/gjson"

	"github.com/composer-link/composer-link/internal/errors"
)

// ReadPackage reads the composer.json in dir and returns the package identity.
// It fails with ErrCodeMissingManifest when dir has no composer.json and with
// ErrCodeInvalidManifest when the file is not JSON or has no usable name.
func ReadPackage(dir string) (*Package, error) {
	path := filepath.Join(dir, FileName)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New(errors.ErrCodeMissingManifest, "no composer.json found at %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "reading %s", path)
	}

	result, err := ValidatePackage(data)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "parsing %s", path)
	}
	if !result.Valid {
		return nil, errors.New(errors.ErrCodeInvalidManifest, "no valid \"name\" field found in %s", path)
	}

	pkg := &Package{
		Name: gjson.GetBytes(data, "name").String(),
		Dir:  dir,
	}
	if v := gjson.GetBytes(data, "version"); v.Type == gjson.String {
		pkg.Version = v.String()
	}
	if v := gjson.GetBytes(data, "type"); v.Type == gjson.String {
		pkg.Type = v.String()
	}
	return pkg, nil
}

// readFile reads the contents of a file at the given path.
func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file %s: %w", path, err)
	}
	return data, nil
}
