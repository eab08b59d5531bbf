package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/moyoez/qrshare-go/web"
)

// HandleIndex serves the embedded single-page UI.
// GET /
func HandleIndex(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", web.IndexHTML)
}
