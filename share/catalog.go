package share

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/moyoez/qrshare-go/tool"
	"github.com/moyoez/qrshare-go/types"
)

// maxCatalogSuffix bounds the numeric-suffix probing for colliding names
// across share roots, same bound the upload handler uses on disk.
const maxCatalogSuffix = 100

// Catalog is the immutable name→path index built once at startup from the
// configured share roots. No mutation happens after Build returns, so
// concurrent readers need no locking.
type Catalog struct {
	entries map[string]string // name → absolute path
	order   []string          // insertion order for stable listings
	roots   []string          // configured share roots (absolute)
}

// Build expands the configured share paths into a catalog. Directories
// contribute their direct children (no recursion), symlinked entries are
// excluded. The first entry keeps the plain name, later collisions get a
// numeric suffix from the shared helper.
func Build(sharePaths []string) (*Catalog, error) {
	if len(sharePaths) == 0 {
		return nil, fmt.Errorf("no share paths configured")
	}

	c := &Catalog{entries: make(map[string]string)}
	for _, p := range sharePaths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, fmt.Errorf("resolve share path %q: %v", p, err)
		}
		info, err := os.Lstat(abs)
		if err != nil {
			return nil, fmt.Errorf("share path %q: %v", p, err)
		}
		if info.Mode()&os.ModeSymlink != 0 {
			tool.DefaultLogger.Warnf("Ignoring symlinked share path %s", abs)
			continue
		}
		c.roots = append(c.roots, abs)

		if !info.IsDir() {
			c.add(filepath.Base(abs), abs)
			continue
		}
		dirEntries, err := os.ReadDir(abs)
		if err != nil {
			return nil, fmt.Errorf("read share directory %q: %v", p, err)
		}
		for _, de := range dirEntries {
			if de.IsDir() || de.Type()&os.ModeSymlink != 0 {
				continue
			}
			c.add(de.Name(), filepath.Join(abs, de.Name()))
		}
	}

	if len(c.entries) == 0 {
		return nil, fmt.Errorf("share paths contain no files")
	}
	return c, nil
}

func (c *Catalog) add(name, absPath string) {
	if _, exists := c.entries[name]; !exists {
		c.entries[name] = absPath
		c.order = append(c.order, name)
		return
	}
	// First entry wins the plain name; find a free suffixed name for the
	// newcomer so it stays reachable.
	for n := 1; n <= maxCatalogSuffix; n++ {
		candidate := tool.NumberedName(name, n)
		if _, exists := c.entries[candidate]; !exists {
			tool.DefaultLogger.Debugf("Catalog name collision: %s listed as %s", name, candidate)
			c.entries[candidate] = absPath
			c.order = append(c.order, candidate)
			return
		}
	}
	tool.DefaultLogger.Warnf("Dropping %s: no free catalog name after %d attempts", absPath, maxCatalogSuffix)
}

// Lookup resolves a requested name to an absolute path. Exact match first,
// then a case-insensitive pass, then a filesystem probe of the share
// roots for files created after the catalog was built. The probe
// canonicalizes each candidate against its root (decode, lexical clean,
// symlink resolution) before serving it.
func (c *Catalog) Lookup(name string) (string, bool) {
	if p, ok := c.entries[name]; ok {
		return p, true
	}
	for n, p := range c.entries {
		if strings.EqualFold(n, name) {
			return p, true
		}
	}
	base := filepath.Base(name)
	for _, root := range c.roots {
		info, err := os.Stat(root)
		if err != nil {
			continue
		}
		if info.IsDir() {
			resolved, err := tool.ValidatePath(base, root)
			if err != nil {
				continue
			}
			if fi, err := os.Stat(resolved); err == nil && !fi.IsDir() {
				return resolved, true
			}
		} else if filepath.Base(root) == base {
			return root, true
		}
	}
	return "", false
}

// Entries returns the catalog rows in insertion order.
func (c *Catalog) Entries() []types.ShareEntry {
	out := make([]types.ShareEntry, 0, len(c.order))
	for _, name := range c.order {
		out = append(out, types.ShareEntry{Name: name, AbsolutePath: c.entries[name]})
	}
	return out
}

// Metadata stats a catalog entry live so size and mtime reflect current
// disk state rather than a snapshot from catalog build time.
func (c *Catalog) Metadata(entry types.ShareEntry) (types.FileMetadata, error) {
	info, err := os.Stat(entry.AbsolutePath)
	if err != nil {
		return types.FileMetadata{}, err
	}
	return types.FileMetadata{
		Name:       entry.Name,
		Size:       info.Size(),
		MimeType:   tool.DetectMimeType(entry.Name),
		ModifiedAt: info.ModTime(),
	}, nil
}

func (c *Catalog) Len() int {
	return len(c.entries)
}
