package tool

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// maxDecodePasses bounds the repeated percent-decode loop; a legitimate
// filename is never encoded more than a couple of times.
const maxDecodePasses = 8

// DecodeRepeated percent-decodes s until a fixed point is reached, so that
// double-encoded traversal sequences (%252e%252e) cannot slip past the
// lexical normalization below. On a decode error the last successful
// decode is returned.
func DecodeRepeated(s string) string {
	for i := 0; i < maxDecodePasses; i++ {
		decoded, err := url.PathUnescape(s)
		if err != nil || decoded == s {
			return s
		}
		s = decoded
	}
	return s
}

// ValidatePath canonicalizes requestedName against baseDir and returns the
// absolute path when it stays inside baseDir. Decoding happens before the
// lexical cleanup, symlinks are resolved on both sides before the
// containment check. Any filesystem error rejects the path.
func ValidatePath(requestedName, baseDir string) (string, error) {
	decoded := DecodeRepeated(requestedName)

	// Force the cleanup to treat the name as rooted so ".." segments
	// cannot climb above the join point.
	cleaned := filepath.Clean(string(filepath.Separator) + filepath.FromSlash(decoded))
	candidate := filepath.Join(baseDir, cleaned)

	canonicalBase, err := filepath.EvalSymlinks(baseDir)
	if err != nil {
		return "", fmt.Errorf("resolve base dir: %w", err)
	}
	canonical, err := filepath.EvalSymlinks(candidate)
	if err != nil {
		return "", fmt.Errorf("resolve path: %w", err)
	}

	if canonical != canonicalBase && !strings.HasPrefix(canonical, canonicalBase+string(filepath.Separator)) {
		return "", fmt.Errorf("path %q escapes base directory", requestedName)
	}
	return canonical, nil
}

// WithinRoot lexically joins name under rootAbs and rejects escapes. Unlike
// ValidatePath it does not require the target to exist, which makes it
// usable for upload destinations.
func WithinRoot(rootAbs, name string) (string, error) {
	if strings.ContainsRune(name, 0) {
		return "", fmt.Errorf("invalid path")
	}
	abs := filepath.Clean(filepath.Join(rootAbs, name))
	root := filepath.Clean(rootAbs)
	if abs != root && !strings.HasPrefix(abs, root+string(filepath.Separator)) {
		return "", fmt.Errorf("path %q escapes output directory", name)
	}
	return abs, nil
}

// IsSymlink reports whether path itself is a symbolic link. Used as a
// second line of defense for catalog entries that may have been replaced
// after the catalog was built.
func IsSymlink(path string) bool {
	info, err := os.Lstat(path)
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeSymlink != 0
}
