package middlewares

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// AllowAllCORS attaches permissive CORS headers to every response and
// short-circuits OPTIONS preflights with 204. Preflights are answered
// before the access guard runs: browsers send them unauthenticated, so
// they must not be rate-limited or IP-filtered.
func AllowAllCORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Range, Authorization")
		c.Header("Access-Control-Expose-Headers", "Content-Range, Content-Disposition, Accept-Ranges")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
