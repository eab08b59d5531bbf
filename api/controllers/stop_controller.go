package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/moyoez/qrshare-go/api/eventhub"
	"github.com/moyoez/qrshare-go/tool"
	"github.com/moyoez/qrshare-go/types"
)

// HandleStop acknowledges the request, flushes the response and then
// triggers graceful shutdown via the provided callback.
// POST /stop
func HandleStop(hub *eventhub.Hub, stop func()) gin.HandlerFunc {
	return func(c *gin.Context) {
		tool.DefaultLogger.Infof("[Stop] Shutdown requested by %s", c.ClientIP())
		hub.Broadcast(&types.Event{Type: types.EventServerStopping})

		c.JSON(http.StatusOK, tool.FastReturnSuccess())
		c.Writer.Flush()

		go stop()
	}
}
