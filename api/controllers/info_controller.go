package controllers

import (
	"net/http"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"

	"github.com/moyoez/qrshare-go/share"
	"github.com/moyoez/qrshare-go/tool"
	"github.com/moyoez/qrshare-go/transfer"
	"github.com/moyoez/qrshare-go/types"
)

type serverInfo struct {
	Alias     string                   `json:"alias"`
	Version   string                   `json:"version"`
	Protocol  string                   `json:"protocol"`
	FileCount int                      `json:"fileCount"`
	Transfers transfer.MonitorSnapshot `json:"transfers"`
}

// HandleInfo reports server identity and live transfer counters.
// GET /info
func HandleInfo(cfg *types.AppConfig, catalog *share.Catalog, monitor *transfer.Monitor) gin.HandlerFunc {
	return func(c *gin.Context) {
		payload, err := sonic.Marshal(serverInfo{
			Alias:     cfg.Alias,
			Version:   cfg.Version,
			Protocol:  cfg.Protocol,
			FileCount: catalog.Len(),
			Transfers: monitor.Snapshot(),
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, tool.FastReturnError("Failed to encode server info"))
			return
		}
		c.Data(http.StatusOK, "application/json; charset=utf-8", payload)
	}
}
