package platform

import (
	"os"
	"path/filepath"
	"strings"
)

// IsDevRun reports whether the binary looks like a `go run` or `go test` build.
func IsDevRun() bool {
	exe, err := os.Executable()
	if err != nil {
		return false
	}

	// go run builds into the temp dir.
	if strings.HasPrefix(strings.ToLower(exe), strings.ToLower(os.TempDir())) {
		return true
	}

	return strings.HasSuffix(exe, ".test") || strings.HasSuffix(exe, ".test.exe")
}

// ResolveDataPath returns the directory to use for userPath.
// With forceTemp, paths outside the system temp dir are re-rooted under
// <tmp>/quicknotes-dev so dev runs never touch real notes.
func ResolveDataPath(userPath string, forceTemp bool) string {
	if !forceTemp {
		if userPath == "" {
			return "."
		}
		return userPath
	}

	clean := filepath.Clean(userPath)
	tempRoot := os.TempDir()
	if rel, err := filepath.Rel(tempRoot, clean); err == nil && filepath.IsAbs(clean) && !strings.HasPrefix(rel, "..") {
		return clean
	}

	name := filepath.Base(userPath)
	if userPath == "" || name == "." || name == string(os.PathSeparator) {
		name = "default"
	}
	return filepath.Join(tempRoot, "quicknotes-dev", name)
}
