package proxygen

import (
	"fmt"
	"os"
	"path/filepath"
)

// File permission constants.
const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// OutputPath resolves output against the package directory: a bare file name
// is placed next to the package sources.
func OutputPath(pkg *Package, output string) string {
	if filepath.IsAbs(output) || filepath.Dir(output) != "." || pkg.Dir == "" {
		return output
	}
	return filepath.Join(pkg.Dir, output)
}

// WriteFile writes generated content to path, creating the directory if needed.
func WriteFile(path string, content []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), dirPerm); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	if err := os.WriteFile(path, content, filePerm); err != nil {
		return fmt.Errorf("writing file %s: %w", path, err)
	}
	return nil
}
