package tool

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDecodeRepeated(t *testing.T) {
	cases := map[string]string{
		"plain.txt":        "plain.txt",
		"%2e%2e%2fetc":     "../etc",
		"%252e%252e%252f":  "../", // double-encoded
		"hello%20world":    "hello world",
		"bad%zzescape":     "bad%zzescape", // decode error keeps last good value
		"%25252e":          ".",            // triple-encoded dot
		"a%2Fb":            "a/b",
	}
	for in, want := range cases {
		if got := DecodeRepeated(in); got != want {
			t.Errorf("DecodeRepeated(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestValidatePathRejectsTraversal(t *testing.T) {
	base := t.TempDir()
	if err := os.WriteFile(filepath.Join(base, "ok.txt"), []byte("data"), 0o644); err != nil {
		t.Fatal(err)
	}
	// a real file outside the base that traversal would reach
	outside := filepath.Join(filepath.Dir(base), "secret.txt")
	if err := os.WriteFile(outside, []byte("secret"), 0o644); err != nil {
		t.Fatal(err)
	}
	defer os.Remove(outside)

	attacks := []string{
		"../secret.txt",
		"..%2fsecret.txt",
		"%2e%2e%2fsecret.txt",
		"%252e%252e%252fsecret.txt",
		"foo/../../secret.txt",
	}
	for _, name := range attacks {
		if got, err := ValidatePath(name, base); err == nil {
			t.Errorf("ValidatePath(%q) accepted traversal, resolved to %q", name, got)
		}
	}

	got, err := ValidatePath("ok.txt", base)
	if err != nil {
		t.Fatalf("ValidatePath(ok.txt) rejected: %v", err)
	}
	want, _ := filepath.EvalSymlinks(filepath.Join(base, "ok.txt"))
	if got != want {
		t.Errorf("ValidatePath(ok.txt) = %q, want %q", got, want)
	}
}

func TestValidatePathRejectsSymlinkEscape(t *testing.T) {
	base := t.TempDir()
	outside := t.TempDir()
	target := filepath.Join(outside, "target.txt")
	if err := os.WriteFile(target, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	link := filepath.Join(base, "link.txt")
	if err := os.Symlink(target, link); err != nil {
		t.Skipf("cannot create symlink: %v", err)
	}

	if got, err := ValidatePath("link.txt", base); err == nil {
		t.Errorf("symlink pointing outside base accepted: %q", got)
	}
	if !IsSymlink(link) {
		t.Error("IsSymlink(link) = false, want true")
	}
	if IsSymlink(target) {
		t.Error("IsSymlink(regular file) = true, want false")
	}
}

func TestValidatePathMissingFile(t *testing.T) {
	base := t.TempDir()
	if _, err := ValidatePath("missing.txt", base); err == nil {
		t.Error("missing file accepted, want rejection")
	}
}

func TestWithinRoot(t *testing.T) {
	root := "/srv/out"
	if _, err := WithinRoot(root, "a.txt"); err != nil {
		t.Errorf("plain name rejected: %v", err)
	}
	if _, err := WithinRoot(root, "../evil.txt"); err == nil {
		t.Error("escape accepted")
	}
	if _, err := WithinRoot(root, "a\x00b"); err == nil {
		t.Error("NUL byte accepted")
	}
}
