package middlewares

import (
	"net"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/moyoez/qrshare-go/guard"
	"github.com/moyoez/qrshare-go/tool"
)

// AccessGuard runs the composed allow-list / rate-limit check on every
// request and logs it regardless of outcome.
func AccessGuard(g *guard.Guard) gin.HandlerFunc {
	return func(c *gin.Context) {
		clientIP := ResolveClientIP(c)

		decision := g.Check(clientIP)
		for k, v := range decision.Headers {
			c.Header(k, v)
		}

		if !decision.Allowed {
			tool.DefaultLogger.Warnf("[Access] Denied %s %s from %s (%d): %s",
				c.Request.Method, c.Request.URL.Path, clientIP, decision.Status, decision.Message)
			c.AbortWithStatusJSON(decision.Status, tool.FastReturnError(decision.Message))
			return
		}

		tool.DefaultLogger.Debugf("[Access] %s %s from %s ua=%q",
			c.Request.Method, c.Request.URL.Path, clientIP, c.Request.UserAgent())
		c.Next()
	}
}

// ResolveClientIP prefers the connection-level remote address, then the
// first X-Forwarded-For entry, then X-Real-IP, then "unknown".
func ResolveClientIP(c *gin.Context) string {
	if host, _, err := net.SplitHostPort(c.Request.RemoteAddr); err == nil && host != "" {
		return host
	}
	if xff := c.GetHeader("X-Forwarded-For"); xff != "" {
		if first := strings.TrimSpace(strings.Split(xff, ",")[0]); first != "" {
			return first
		}
	}
	if realIP := strings.TrimSpace(c.GetHeader("X-Real-IP")); realIP != "" {
		return realIP
	}
	return "unknown"
}
