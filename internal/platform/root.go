package platform

import (
	"fmt"
	"os"
	"path/filepath"
)

// rootMarkers identify a data directory.
var rootMarkers = []string{".quicknotes", "quicknotes.db", "quicknotes.yaml"}

// FindRoot looks upwards from startDir for a directory holding one of the
// root markers and returns its absolute path.
func FindRoot(startDir string) (string, error) {
	abs, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	dir := abs
	for {
		for _, marker := range rootMarkers {
			if hasFile(dir, marker) {
				return dir, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", fmt.Errorf("root not found")
}

func hasFile(dir, name string) bool {
	_, err := os.Stat(filepath.Join(dir, name))
	return err == nil
}
