package tool

import "testing"

func TestSanitizeFilename(t *testing.T) {
	cases := map[string]string{
		"report.pdf":           "report.pdf",
		"../../etc/passwd":     "passwd",
		`C:\Users\x\notes.txt`: "notes.txt",
		"a\x00b\x1f.txt":       "ab.txt",
		"  spaced.txt  ":       "spaced.txt",
		"":                     "file",
		"..":                   "file",
		".bashrc":              ".bashrc",
	}
	for in, want := range cases {
		if got := SanitizeFilename(in); got != want {
			t.Errorf("SanitizeFilename(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSplitNameExt(t *testing.T) {
	cases := []struct {
		in, stem, ext string
	}{
		{"a.txt", "a", ".txt"},
		{"archive.tar.gz", "archive.tar", ".gz"},
		{"noext", "noext", ""},
		{".bashrc", ".bashrc", ""}, // leading dot is not an extension
		{".config.yaml", ".config", ".yaml"},
	}
	for _, c := range cases {
		stem, ext := SplitNameExt(c.in)
		if stem != c.stem || ext != c.ext {
			t.Errorf("SplitNameExt(%q) = (%q, %q), want (%q, %q)", c.in, stem, ext, c.stem, c.ext)
		}
	}
}

func TestNumberedName(t *testing.T) {
	cases := []struct {
		name string
		n    int
		want string
	}{
		{"a.txt", 0, "a.txt"},
		{"a.txt", 1, "a_1.txt"},
		{"a.txt", 12, "a_12.txt"},
		{"noext", 2, "noext_2"},
		{".bashrc", 1, ".bashrc_1"},
	}
	for _, c := range cases {
		if got := NumberedName(c.name, c.n); got != c.want {
			t.Errorf("NumberedName(%q, %d) = %q, want %q", c.name, c.n, got, c.want)
		}
	}
}

func TestExtensionAllowed(t *testing.T) {
	allowed := []string{"jpg", ".PNG", "txt"}
	if !ExtensionAllowed("photo.JPG", allowed) {
		t.Error("photo.JPG should be allowed")
	}
	if !ExtensionAllowed("pic.png", allowed) {
		t.Error("pic.png should be allowed")
	}
	if ExtensionAllowed("run.exe", allowed) {
		t.Error("run.exe should be denied")
	}
	if !ExtensionAllowed("anything.bin", nil) {
		t.Error("empty allow-list should allow everything")
	}
}

func TestDetectMimeType(t *testing.T) {
	if got := DetectMimeType("x.unknownext"); got != "application/octet-stream" {
		t.Errorf("unknown ext = %q, want octet-stream", got)
	}
	if got := DetectMimeType("x.json"); got == "application/octet-stream" {
		t.Errorf("json resolved to octet-stream")
	}
}
