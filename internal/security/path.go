// Package security validates file paths before any document is opened.
// It rejects traversal sequences, access to a fixed set of system
// locations, and symlinks that resolve into those locations.
package security

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// restrictedPrefixes are system directories that must never be read or
// written, regardless of how the path was spelled.
var restrictedPrefixes = []string{
	"/etc",
	"/sys",
	"/proc",
	"/root",
	"/dev",
	"/private/etc",
}

// restrictedFiles are individual system files denied explicitly.
var restrictedFiles = []string{
	"/etc/passwd",
	"/etc/shadow",
	"/etc/hosts",
	"/private/etc/passwd",
	"/private/etc/shadow",
	"/private/etc/hosts",
}

// PathError reports a path that failed validation.
type PathError struct {
	Path   string
	Reason string
}

func (e *PathError) Error() string {
	return fmt.Sprintf("invalid path %q: %s", e.Path, e.Reason)
}

// ValidatePath checks a path for traversal attempts and restricted
// locations, returning the cleaned absolute path on success. When
// mustExist is true the path must also exist on disk.
func ValidatePath(path string, mustExist bool) (string, error) {
	if path == "" {
		return "", &PathError{Path: path, Reason: "path cannot be empty"}
	}

	// Reject traversal sequences before any resolution so that
	// "a/../../etc" is caught even when the final path would be clean.
	if strings.Contains(path, "..") {
		return "", &PathError{Path: path, Reason: "path traversal detected"}
	}

	if err := checkRestricted(filepath.Clean(path)); err != nil {
		return "", err
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", &PathError{Path: path, Reason: err.Error()}
	}
	absPath = filepath.Clean(absPath)

	// Check again after resolution in case the relative form hid a
	// restricted target.
	if err := checkRestricted(absPath); err != nil {
		return "", err
	}

	// Symlinks are followed to their real target, which must also pass.
	if info, lerr := os.Lstat(absPath); lerr == nil && info.Mode()&os.ModeSymlink != 0 {
		real, rerr := filepath.EvalSymlinks(absPath)
		if rerr != nil {
			return "", &PathError{Path: path, Reason: fmt.Sprintf("cannot resolve symlink: %v", rerr)}
		}
		if err := checkRestricted(real); err != nil {
			return "", &PathError{Path: path, Reason: "symlink resolves to restricted location"}
		}
	}

	if mustExist {
		if _, serr := os.Stat(absPath); serr != nil {
			if os.IsNotExist(serr) {
				return "", &PathError{Path: path, Reason: "path does not exist"}
			}
			return "", &PathError{Path: path, Reason: serr.Error()}
		}
	}

	return absPath, nil
}

// ValidateDir validates a path and additionally requires it to be an
// existing directory.
func ValidateDir(path string) (string, error) {
	absPath, err := ValidatePath(path, true)
	if err != nil {
		return "", err
	}

	info, err := os.Stat(absPath)
	if err != nil {
		return "", &PathError{Path: path, Reason: err.Error()}
	}
	if !info.IsDir() {
		return "", &PathError{Path: path, Reason: "not a directory"}
	}

	return absPath, nil
}

func checkRestricted(path string) error {
	for _, f := range restrictedFiles {
		if path == f {
			return &PathError{Path: path, Reason: "access to system file denied"}
		}
	}
	for _, prefix := range restrictedPrefixes {
		if path == prefix || strings.HasPrefix(path, prefix+string(filepath.Separator)) {
			return &PathError{Path: path, Reason: "access to system path denied"}
		}
	}
	return nil
}
