package controllers

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/moyoez/qrshare-go/api/eventhub"
	"github.com/moyoez/qrshare-go/share"
	"github.com/moyoez/qrshare-go/tool"
	"github.com/moyoez/qrshare-go/transfer"
	"github.com/moyoez/qrshare-go/types"
)

type ArchiveController struct {
	catalog *share.Catalog
	pending *share.PendingArtifacts
	monitor *transfer.Monitor
	hub     *eventhub.Hub
}

func NewArchiveController(catalog *share.Catalog, pending *share.PendingArtifacts, monitor *transfer.Monitor, hub *eventhub.Hub) *ArchiveController {
	return &ArchiveController{
		catalog: catalog,
		pending: pending,
		monitor: monitor,
		hub:     hub,
	}
}

// HandleDownloadAll zips the whole catalog on demand, streams the
// artifact, and schedules its removal once the response has drained.
// GET /download-all
func (ctrl *ArchiveController) HandleDownloadAll(c *gin.Context) {
	artifact, err := transfer.CreateArchive(ctrl.catalog.Entries(), "")
	if err != nil {
		tool.DefaultLogger.Errorf("[Archive] Failed to create archive: %v", err)
		c.String(http.StatusInternalServerError, "failed to create archive")
		return
	}
	ctrl.pending.Register(artifact)
	defer ctrl.pending.ScheduleRemoval(artifact, share.DefaultRemovalDelay)

	ctrl.hub.Broadcast(&types.Event{
		Type:    types.EventArchiveCreated,
		Message: filepath.Base(artifact),
		Data:    map[string]any{"name": filepath.Base(artifact)},
	})

	done := ctrl.monitor.DownloadStarted()
	completed := false
	defer func() { done(completed) }()

	f, err := os.Open(artifact)
	if err != nil {
		c.String(http.StatusInternalServerError, "failed to read archive")
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		c.String(http.StatusInternalServerError, "failed to read archive")
		return
	}

	c.Header("Content-Type", "application/zip")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filepath.Base(artifact)))
	c.Header("Content-Length", fmt.Sprintf("%d", info.Size()))
	c.Status(http.StatusOK)

	out := &transfer.CountingWriter{W: c.Writer, M: ctrl.monitor}
	if _, err := io.Copy(out, f); err != nil {
		tool.DefaultLogger.Debugf("[Archive] Transfer aborted: %v", err)
		return
	}
	completed = true
}
