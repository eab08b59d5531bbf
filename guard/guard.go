package guard

import (
	"net/http"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/moyoez/qrshare-go/types"
)

// Decision is the result of an access check. When Allowed is false, Status
// and Message describe the denial response and Headers carries the
// rate-limit headers to attach.
type Decision struct {
	Allowed bool
	Status  int
	Message string
	Headers map[string]string
}

// Guard composes the IP allow-list, the per-client fixed-window rate
// limiter and an optional global request pacer into one admit/deny check.
type Guard struct {
	allowIps []string
	limiter  *RateLimiter
	max      int
	global   *rate.Limiter
}

// New builds a Guard from the loaded config. A zero RateLimit disables the
// per-client limiter, a zero GlobalRPS disables the global pacer.
func New(cfg *types.AppConfig) *Guard {
	g := &Guard{allowIps: cfg.AllowIps}
	if cfg.RateLimit > 0 {
		window := time.Duration(cfg.RateLimitWindowSec) * time.Second
		g.limiter = NewRateLimiter(cfg.RateLimit, window)
		g.max = cfg.RateLimit
	}
	if cfg.GlobalRPS > 0 {
		burst := int(cfg.GlobalRPS)
		if burst < 1 {
			burst = 1
		}
		g.global = rate.NewLimiter(rate.Limit(cfg.GlobalRPS), burst)
	}
	return g
}

// Limiter exposes the per-client limiter for the cleanup sweeper;
// nil when rate limiting is disabled.
func (g *Guard) Limiter() *RateLimiter {
	return g.limiter
}

// Check runs the allow-list first, then rate limiting, mirroring the order
// a denied client should observe (403 before 429).
func (g *Guard) Check(clientIP string) Decision {
	if !IsAllowed(clientIP, g.allowIps) {
		return Decision{
			Allowed: false,
			Status:  http.StatusForbidden,
			Message: "Access denied: IP not in allow list",
		}
	}

	if g.global != nil && !g.global.Allow() {
		return Decision{
			Allowed: false,
			Status:  http.StatusTooManyRequests,
			Message: "Server is busy, retry shortly",
			Headers: map[string]string{"Retry-After": "1"},
		}
	}

	if g.limiter != nil {
		if !g.limiter.Check(clientIP) {
			resetIn := g.limiter.ResetIn(clientIP)
			return Decision{
				Allowed: false,
				Status:  http.StatusTooManyRequests,
				Message: "Rate limit exceeded",
				Headers: map[string]string{
					"X-RateLimit-Limit":     strconv.Itoa(g.max),
					"X-RateLimit-Remaining": "0",
					"X-RateLimit-Reset":     strconv.Itoa(int(resetIn.Seconds()) + 1),
					"Retry-After":           strconv.Itoa(int(resetIn.Seconds()) + 1),
				},
			}
		}
		return Decision{
			Allowed: true,
			Headers: map[string]string{
				"X-RateLimit-Limit":     strconv.Itoa(g.max),
				"X-RateLimit-Remaining": strconv.Itoa(g.limiter.Remaining(clientIP)),
			},
		}
	}

	return Decision{Allowed: true}
}
