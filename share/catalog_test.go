package share

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestBuildFromDirAndFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.txt"), "aaa")
	writeFile(t, filepath.Join(dir, "b.txt"), "bbb")
	if err := os.Mkdir(filepath.Join(dir, "sub"), 0o755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, filepath.Join(dir, "sub", "nested.txt"), "nested")

	single := filepath.Join(t.TempDir(), "single.txt")
	writeFile(t, single, "s")

	c, err := Build([]string{dir, single})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if c.Len() != 3 {
		t.Errorf("Len = %d, want 3 (directory scan must not recurse)", c.Len())
	}
	if _, ok := c.Lookup("nested.txt"); ok {
		t.Error("nested file listed, directory scan recursed")
	}
	if _, ok := c.Lookup("single.txt"); !ok {
		t.Error("file share path not listed")
	}
}

func TestBuildCollisionSuffix(t *testing.T) {
	dir1 := t.TempDir()
	dir2 := t.TempDir()
	writeFile(t, filepath.Join(dir1, "report.pdf"), "first")
	writeFile(t, filepath.Join(dir2, "report.pdf"), "second")

	c, err := Build([]string{dir1, dir2})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	p, ok := c.Lookup("report.pdf")
	if !ok || p != filepath.Join(dir1, "report.pdf") {
		t.Errorf("plain name resolved to %q, want the first root's file", p)
	}
	p, ok = c.Lookup("report_1.pdf")
	if !ok || p != filepath.Join(dir2, "report.pdf") {
		t.Errorf("suffixed name resolved to %q, want the second root's file", p)
	}
}

func TestBuildSkipsSymlinks(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "real.txt"), "x")
	if err := os.Symlink(filepath.Join(dir, "real.txt"), filepath.Join(dir, "link.txt")); err != nil {
		t.Skipf("cannot create symlink: %v", err)
	}

	c, err := Build([]string{dir})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if _, ok := c.Lookup("link.txt"); ok {
		t.Error("symlinked entry listed")
	}
	if c.Len() != 1 {
		t.Errorf("Len = %d, want 1", c.Len())
	}
}

func TestBuildErrors(t *testing.T) {
	if _, err := Build(nil); err == nil {
		t.Error("empty share paths accepted")
	}
	if _, err := Build([]string{"/does/not/exist"}); err == nil {
		t.Error("missing share path accepted")
	}
	if _, err := Build([]string{t.TempDir()}); err == nil {
		t.Error("share paths with no files accepted")
	}
}

func TestLookupFallbacks(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "Photo.JPG"), "img")

	c, err := Build([]string{dir})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	// case-insensitive fallback
	if _, ok := c.Lookup("photo.jpg"); !ok {
		t.Error("case-insensitive lookup failed")
	}

	// filesystem probe finds files created after the catalog was built
	writeFile(t, filepath.Join(dir, "late.zip"), "zip")
	want, err := filepath.EvalSymlinks(filepath.Join(dir, "late.zip"))
	if err != nil {
		t.Fatal(err)
	}
	p, ok := c.Lookup("late.zip")
	if !ok || p != want {
		t.Errorf("post-build file lookup = (%q, %v), want %q", p, ok, want)
	}

	if _, ok := c.Lookup("nope.txt"); ok {
		t.Error("unknown name resolved")
	}
}

func TestLookupFallbackRejectsPlantedSymlink(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "real.txt"), "x")

	c, err := Build([]string{dir})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	// a symlink appearing in the root after the catalog was built must
	// not be reachable through the filesystem probe
	outside := filepath.Join(t.TempDir(), "secret.txt")
	writeFile(t, outside, "secret")
	if err := os.Symlink(outside, filepath.Join(dir, "planted.txt")); err != nil {
		t.Skipf("cannot create symlink: %v", err)
	}

	if p, ok := c.Lookup("planted.txt"); ok {
		t.Errorf("planted symlink resolved to %q", p)
	}
}

func TestEntriesOrderAndMetadata(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.txt"), "12345")

	c, err := Build([]string{dir})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	entries := c.Entries()
	if len(entries) != 1 || entries[0].Name != "a.txt" {
		t.Fatalf("Entries = %v", entries)
	}
	md, err := c.Metadata(entries[0])
	if err != nil {
		t.Fatalf("Metadata: %v", err)
	}
	if md.Size != 5 {
		t.Errorf("Size = %d, want 5", md.Size)
	}
	if md.MimeType == "" {
		t.Error("empty mime type")
	}
}
