package errors

import (
	"os"
	"path/filepath"
	"strings"
	"unicode"
)

// ValidateOutputDir checks that dir is safe to wipe before a build.
//
// The output folder is deleted and recreated on every run, so paths that
// would take unrelated files with it are refused:
//   - empty paths and paths containing control characters
//   - the filesystem root
//   - the working directory, the home directory, or any folder above them
//   - a folder containing one of keep (the input table, the assets folder)
func ValidateOutputDir(dir string, keep ...string) error {
	if strings.TrimSpace(dir) == "" {
		return New(ErrCodeInvalidPath, "output directory cannot be empty")
	}

	for _, r := range dir {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "output directory contains invalid characters")
		}
	}

	abs, err := filepath.Abs(filepath.Clean(dir))
	if err != nil {
		return Wrap(ErrCodeInvalidPath, err, "resolve %q", dir)
	}
	if abs == filepath.VolumeName(abs)+string(filepath.Separator) {
		return New(ErrCodeInvalidPath, "refusing to clear %q", dir)
	}

	if wd, err := os.Getwd(); err == nil && contains(abs, wd) {
		return New(ErrCodeInvalidPath, "refusing to clear %q: it contains the working directory", dir)
	}
	if home, err := os.UserHomeDir(); err == nil && contains(abs, home) {
		return New(ErrCodeInvalidPath, "refusing to clear %q: it contains the home directory", dir)
	}

	for _, p := range keep {
		if p == "" {
			continue
		}
		kp, err := filepath.Abs(p)
		if err != nil {
			continue
		}
		if contains(abs, kp) {
			return New(ErrCodeInvalidPath, "refusing to clear %q: it contains %s", dir, p)
		}
	}

	return nil
}

// contains reports whether path is dir itself or lies below it.
// Both must be absolute.
func contains(dir, path string) bool {
	rel, err := filepath.Rel(dir, filepath.Clean(path))
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
