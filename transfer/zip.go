package transfer

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/moyoez/qrshare-go/tool"
	"github.com/moyoez/qrshare-go/types"
)

// CreateArchive packs all catalog entries into a zip file under dir (the
// OS temp dir when empty) and returns the artifact path. Symlinked entries
// are skipped the same way the serving path refuses them. The caller owns
// the artifact and its cleanup.
func CreateArchive(entries []types.ShareEntry, dir string) (string, error) {
	if len(entries) == 0 {
		return "", fmt.Errorf("nothing to archive")
	}
	if dir == "" {
		dir = os.TempDir()
	}

	artifact := filepath.Join(dir, "share_"+tool.GenerateShortID()+".zip")
	out, err := os.OpenFile(artifact, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return "", fmt.Errorf("create archive: %w", err)
	}

	zw := zip.NewWriter(out)
	for _, entry := range entries {
		if err := addEntry(zw, entry); err != nil {
			zw.Close()
			out.Close()
			os.Remove(artifact)
			return "", fmt.Errorf("archive %s: %w", entry.Name, err)
		}
	}
	if err := zw.Close(); err != nil {
		out.Close()
		os.Remove(artifact)
		return "", err
	}
	if err := out.Close(); err != nil {
		os.Remove(artifact)
		return "", err
	}
	return artifact, nil
}

func addEntry(zw *zip.Writer, entry types.ShareEntry) error {
	if tool.IsSymlink(entry.AbsolutePath) {
		tool.DefaultLogger.Warnf("Skipping symlinked entry %s", entry.Name)
		return nil
	}
	info, err := os.Stat(entry.AbsolutePath)
	if err != nil {
		return err
	}
	header, err := zip.FileInfoHeader(info)
	if err != nil {
		return err
	}
	header.Name = entry.Name
	header.Method = zip.Deflate

	w, err := zw.CreateHeader(header)
	if err != nil {
		return err
	}
	f, err := os.Open(entry.AbsolutePath)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = io.Copy(w, f)
	return err
}
