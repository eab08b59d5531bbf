package controllers

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"

	"github.com/moyoez/qrshare-go/api/eventhub"
	"github.com/moyoez/qrshare-go/share"
	"github.com/moyoez/qrshare-go/tool"
	"github.com/moyoez/qrshare-go/transfer"
	"github.com/moyoez/qrshare-go/types"
)

type FilesController struct {
	catalog *share.Catalog
	monitor *transfer.Monitor
	hub     *eventhub.Hub
	cfg     *types.AppConfig
}

func NewFilesController(catalog *share.Catalog, monitor *transfer.Monitor, hub *eventhub.Hub, cfg *types.AppConfig) *FilesController {
	return &FilesController{
		catalog: catalog,
		monitor: monitor,
		hub:     hub,
		cfg:     cfg,
	}
}

// HandleList returns the catalog as a JSON array of live file metadata,
// filtered by the allowed-type list when one is configured.
// GET /files
func (ctrl *FilesController) HandleList(c *gin.Context) {
	list := make([]types.FileMetadata, 0, ctrl.catalog.Len())
	for _, entry := range ctrl.catalog.Entries() {
		if !tool.ExtensionAllowed(entry.Name, ctrl.cfg.AllowedTypes) {
			continue
		}
		meta, err := ctrl.catalog.Metadata(entry)
		if err != nil {
			tool.DefaultLogger.Warnf("[Files] Failed to stat %s: %v", entry.AbsolutePath, err)
			continue
		}
		list = append(list, meta)
	}

	payload, err := sonic.Marshal(list)
	if err != nil {
		c.JSON(http.StatusInternalServerError, tool.FastReturnError("Failed to encode file list"))
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", payload)
}

// HandleDownload streams one catalog entry, honoring the first accepted
// byte range. File routes answer with plain text on error.
// GET /files/:filename
func (ctrl *FilesController) HandleDownload(c *gin.Context) {
	requested := tool.DecodeRepeated(c.Param("filename"))
	if strings.ContainsAny(requested, "/\\") || requested == ".." {
		c.String(http.StatusForbidden, "invalid filename")
		return
	}

	path, ok := ctrl.catalog.Lookup(requested)
	if !ok {
		c.String(http.StatusNotFound, "file not found")
		return
	}
	if tool.IsSymlink(path) {
		tool.DefaultLogger.Warnf("[Download] Refusing symlink %s requested as %q", path, requested)
		c.String(http.StatusForbidden, "forbidden")
		return
	}
	if !tool.ExtensionAllowed(requested, ctrl.cfg.AllowedTypes) {
		c.String(http.StatusForbidden, "file type not allowed")
		return
	}

	info, err := os.Stat(path)
	if err != nil {
		c.String(http.StatusNotFound, "file not found")
		return
	}
	if info.IsDir() {
		c.String(http.StatusForbidden, "forbidden")
		return
	}
	size := info.Size()
	if ctrl.cfg.MaxFileSizeBytes > 0 && size > ctrl.cfg.MaxFileSizeBytes {
		c.String(http.StatusForbidden, "file exceeds configured maximum size")
		return
	}

	done := ctrl.monitor.DownloadStarted()
	completed := false
	defer func() { done(completed) }()

	f, err := os.Open(path)
	if err != nil {
		tool.DefaultLogger.Errorf("[Download] Failed to open %s: %v", path, err)
		c.String(http.StatusInternalServerError, "failed to read file")
		return
	}
	defer f.Close()

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", requested))
	c.Header("Content-Type", tool.DetectMimeType(requested))
	c.Header("Accept-Ranges", "bytes")
	c.Header("Last-Modified", info.ModTime().UTC().Format(http.TimeFormat))

	ctrl.hub.Broadcast(&types.Event{
		Type:    types.EventDownloadStarted,
		Message: requested,
		Data:    map[string]any{"name": requested, "size": size},
	})

	out := &transfer.CountingWriter{W: c.Writer, M: ctrl.monitor}

	// Only the first accepted range is honored; multipart/byteranges
	// responses are out of scope.
	ranges := transfer.ParseRange(c.GetHeader("Range"), size, ctrl.cfg.MaxRangeSpecs)
	if len(ranges) > 0 {
		r := ranges[0]
		if _, err := f.Seek(r.Start, io.SeekStart); err != nil {
			c.String(http.StatusInternalServerError, "failed to read file")
			return
		}
		c.Header("Content-Range", fmt.Sprintf("bytes %d-%d/%d", r.Start, r.End, size))
		c.Header("Content-Length", fmt.Sprintf("%d", r.Length()))
		c.Status(http.StatusPartialContent)
		if _, err := io.CopyN(out, f, r.Length()); err != nil {
			tool.DefaultLogger.Debugf("[Download] Range transfer of %s aborted: %v", requested, err)
			return
		}
	} else {
		c.Header("Content-Length", fmt.Sprintf("%d", size))
		c.Status(http.StatusOK)
		if _, err := io.Copy(out, f); err != nil {
			tool.DefaultLogger.Debugf("[Download] Transfer of %s aborted: %v", requested, err)
			return
		}
	}

	completed = true
	ctrl.hub.Broadcast(&types.Event{
		Type:    types.EventDownloadCompleted,
		Message: requested,
		Data:    map[string]any{"name": requested, "at": time.Now().Unix()},
	})
}
