// Package filex holds filesystem helpers for attachment staging.
package filex

import (
	"fmt"
	"os"
	"path/filepath"
)

// EnsureSubDir creates name under the current working directory if it does
// not exist yet and returns its absolute path. An existing regular file at
// that path is an error.
func EnsureSubDir(name string) (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getwd: %w", err)
	}

	dir := filepath.Join(cwd, name)

	if fi, err := os.Stat(dir); err == nil && !fi.IsDir() {
		return "", fmt.Errorf("%s exists and is not a directory", dir)
	}

	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", dir, err)
	}

	return dir, nil
}
