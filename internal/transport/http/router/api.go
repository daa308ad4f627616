package router

import (
	"context"
	"net/http"

	"bookit/internal/core/config"
	"bookit/internal/core/server"
	mdw "bookit/internal/transport/http/middleware"
	resp "bookit/internal/transport/http/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

type Deps struct {
	Log     *zap.Logger
	Auth    mdw.Authenticator
	Limits  config.Limits
	Modules *Registry
	// Ready backs /health; nil means always ready.
	Ready func(ctx context.Context) error
}

func (d Deps) base() *gin.Engine {
	r := server.NewRouter(d.Log, mdw.PanicResponder)
	r.Use(mdw.RequestID())
	if d.Limits.GlobalRPS > 0 {
		burst := d.Limits.GlobalBurst
		if burst <= 0 {
			burst = int(d.Limits.GlobalRPS) + 1
		}
		r.Use(mdw.RateLimit(rate.Limit(d.Limits.GlobalRPS), burst))
	}
	r.Use(
		mdw.RateLimitPerIP(rate.Limit(d.Limits.RPS), d.Limits.Burst, idleLimiterTTL),
		mdw.ConcurrencyLimit(d.Limits.Concurrency),
		mdw.MaxBodyBytes(d.Limits.MaxBodyBytes),
		mdw.Timeout(d.Limits.RequestTimeout()),
		mdw.Metrics(),
		mdw.AccessLog(d.Log),
	)
	r.GET("/health", d.health)
	return r
}

func (d Deps) health(c *gin.Context) {
	if d.Ready != nil {
		if err := d.Ready(c.Request.Context()); err != nil {
			d.Log.Warn("health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, resp.Error(resp.CodeUnavailable, "not ready"))
			return
		}
	}
	c.JSON(http.StatusOK, resp.OK(gin.H{"ok": 1}))
}

// NewAPIEngine serves /api/v1 plus /health and /metrics.
func NewAPIEngine(d Deps) *gin.Engine {
	r := d.base()
	r.GET("/metrics", mdw.MetricsHandler())

	public := r.Group("/api/v1")
	authed := r.Group("/api/v1", mdw.AuthJWT(d.Auth))
	d.Modules.MountAllAPI(public, authed)
	return r
}
