package tool

import (
	"mime"
	"path/filepath"
	"strconv"
	"strings"
)

// SanitizeFilename reduces a client-supplied filename to a safe base name:
// path separators and control characters are stripped, and an empty result
// falls back to "file".
func SanitizeFilename(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = filepath.Base(filepath.FromSlash(name))
	name = strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, name)
	name = strings.TrimSpace(name)
	if name == "" || name == "." || name == ".." {
		return "file"
	}
	return name
}

// SplitNameExt splits name into stem and extension. A leading dot counts
// as part of the stem so dotfiles like ".bashrc" keep their name intact.
func SplitNameExt(name string) (stem, ext string) {
	idx := strings.LastIndex(name, ".")
	if idx <= 0 {
		return name, ""
	}
	return name[:idx], name[idx:]
}

// NumberedName returns name with a numeric suffix before the extension,
// e.g. NumberedName("a.txt", 2) == "a_2.txt". Both the catalog first-wins
// policy and the upload collision loop derive candidate names from it.
func NumberedName(name string, n int) string {
	if n <= 0 {
		return name
	}
	stem, ext := SplitNameExt(name)
	return stem + "_" + strconv.Itoa(n) + ext
}

// DetectMimeType resolves a MIME type from the file extension,
// defaulting to application/octet-stream for unknown extensions.
func DetectMimeType(name string) string {
	mimeType := mime.TypeByExtension(filepath.Ext(name))
	if mimeType == "" {
		return "application/octet-stream"
	}
	return mimeType
}

// ExtensionAllowed checks name's extension against an allow-list of
// extensions (with or without the leading dot, case-insensitive). An empty
// list allows everything.
func ExtensionAllowed(name string, allowed []string) bool {
	if len(allowed) == 0 {
		return true
	}
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	for _, a := range allowed {
		if strings.ToLower(strings.TrimPrefix(a, ".")) == ext {
			return true
		}
	}
	return false
}
