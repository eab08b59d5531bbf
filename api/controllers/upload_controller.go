package controllers

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/moyoez/qrshare-go/api/eventhub"
	"github.com/moyoez/qrshare-go/tool"
	"github.com/moyoez/qrshare-go/transfer"
	"github.com/moyoez/qrshare-go/types"
)

// maxNameAttempts bounds the exclusive-create retry loop when probing for
// a free numbered filename.
const maxNameAttempts = 100

type UploadController struct {
	outputDir string
	monitor   *transfer.Monitor
	hub       *eventhub.Hub
	cfg       *types.AppConfig
}

func NewUploadController(outputDir string, monitor *transfer.Monitor, hub *eventhub.Hub, cfg *types.AppConfig) *UploadController {
	return &UploadController{
		outputDir: outputDir,
		monitor:   monitor,
		hub:       hub,
		cfg:       cfg,
	}
}

// HandleUpload accepts multipart file parts under the repeatable "file"
// field. Parts are processed independently; the batch succeeds when at
// least one file lands on disk.
// POST /upload
func (ctrl *UploadController) HandleUpload(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, tool.FastReturnError("Invalid multipart request: "+err.Error()))
		return
	}
	parts := form.File["file"]
	if len(parts) == 0 {
		c.JSON(http.StatusBadRequest, tool.FastReturnError("No file provided"))
		return
	}

	if err := os.MkdirAll(ctrl.outputDir, 0o755); err != nil {
		tool.DefaultLogger.Errorf("[Upload] Cannot create output directory %s: %v", ctrl.outputDir, err)
		c.JSON(http.StatusInternalServerError, tool.FastReturnError("Cannot create output directory"))
		return
	}

	batch := types.UploadBatchResult{
		Filenames: make([]string, 0, len(parts)),
		Errors:    make(map[string]string),
	}
	typeViolation := false

	for _, part := range parts {
		result := ctrl.saveOne(part)
		if !result.Success {
			batch.Errors[part.Filename] = result.Error
			if result.Error == errTypeNotAllowed {
				typeViolation = true
			}
			continue
		}
		batch.Filenames = append(batch.Filenames, result.FinalName)
		batch.TotalSize += result.SizeBytes
		batch.FileCount++

		ctrl.hub.Broadcast(&types.Event{
			Type:    types.EventUploadReceived,
			Message: result.FinalName,
			Data:    map[string]any{"name": result.FinalName, "size": result.SizeBytes},
		})
	}
	batch.Success = batch.FileCount > 0

	switch {
	case batch.Success && len(parts) == 1:
		c.JSON(http.StatusOK, types.UploadResult{
			Success:   true,
			FinalName: batch.Filenames[0],
			SizeBytes: batch.TotalSize,
		})
	case batch.Success:
		c.JSON(http.StatusOK, batch)
	case typeViolation:
		c.JSON(http.StatusForbidden, batch)
	default:
		c.JSON(http.StatusInternalServerError, batch)
	}
}

const errTypeNotAllowed = "file type not allowed"

// saveOne stores a single part with collision-safe naming. The existence
// probe plus exclusive create tolerates concurrent uploads racing for the
// same name: a loser of the O_EXCL race just moves to the next suffix.
func (ctrl *UploadController) saveOne(part *multipart.FileHeader) types.UploadResult {
	done := ctrl.monitor.UploadStarted()
	completed := false
	defer func() { done(completed) }()

	name := tool.SanitizeFilename(part.Filename)
	if !tool.ExtensionAllowed(name, ctrl.cfg.AllowedTypes) {
		return types.UploadResult{Error: errTypeNotAllowed}
	}
	if ctrl.cfg.MaxFileSizeBytes > 0 && part.Size > ctrl.cfg.MaxFileSizeBytes {
		return types.UploadResult{Error: fmt.Sprintf("file exceeds maximum size of %d bytes", ctrl.cfg.MaxFileSizeBytes)}
	}
	if _, err := tool.WithinRoot(ctrl.outputDir, name); err != nil {
		return types.UploadResult{Error: "invalid filename"}
	}

	src, err := part.Open()
	if err != nil {
		return types.UploadResult{Error: "failed to read upload: " + err.Error()}
	}
	defer src.Close()

	out, finalName, err := ctrl.createUnique(name)
	if err != nil {
		return types.UploadResult{Error: err.Error()}
	}
	targetPath := filepath.Join(ctrl.outputDir, finalName)

	// The size cap applies per part, not to the whole request body:
	// other parts of the same batch must not fail because this one is
	// oversized. One byte of headroom detects the overflow.
	var reader io.Reader = src
	if ctrl.cfg.MaxFileSizeBytes > 0 {
		reader = io.LimitReader(src, ctrl.cfg.MaxFileSizeBytes+1)
	}

	written, err := io.Copy(out, reader)
	ctrl.monitor.AddReceivedBytes(written)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err == nil && ctrl.cfg.MaxFileSizeBytes > 0 && written > ctrl.cfg.MaxFileSizeBytes {
		err = fmt.Errorf("file exceeds maximum size of %d bytes", ctrl.cfg.MaxFileSizeBytes)
	}
	if err != nil {
		// No partial artifact left behind.
		if rmErr := os.Remove(targetPath); rmErr != nil {
			tool.DefaultLogger.Errorf("[Upload] Failed to remove partial file %s: %v", targetPath, rmErr)
		}
		return types.UploadResult{Error: "write failed: " + err.Error()}
	}

	completed = true
	tool.DefaultLogger.Infof("[Upload] Saved %s (%d bytes)", finalName, written)
	return types.UploadResult{Success: true, FinalName: finalName, SizeBytes: written}
}

// createUnique probes for a free name and opens it with O_EXCL so a
// concurrent writer targeting the same final name cannot silently
// overwrite. An "already exists" failure is the probe losing a race;
// retry with the next suffix, bounded by maxNameAttempts.
func (ctrl *UploadController) createUnique(name string) (*os.File, string, error) {
	n := 0
	for attempts := 0; attempts < maxNameAttempts; attempts++ {
		candidate := tool.NumberedName(name, n)
		path := filepath.Join(ctrl.outputDir, candidate)
		if _, err := os.Lstat(path); err == nil {
			n++
			continue
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
		if err == nil {
			return f, candidate, nil
		}
		if errors.Is(err, fs.ErrExist) {
			n++
			continue
		}
		return nil, "", fmt.Errorf("create file failed: %w", err)
	}
	return nil, "", errors.New("could not allocate a unique name for " + name)
}
