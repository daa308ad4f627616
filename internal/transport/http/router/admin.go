package router

import (
	"time"

	mdw "bookit/internal/transport/http/middleware"

	"github.com/gin-gonic/gin"
)

const idleLimiterTTL = 10 * time.Minute

// NewAdminEngine serves /admin/v1; every route there requires the admin role.
func NewAdminEngine(d Deps) *gin.Engine {
	r := d.base()
	admin := r.Group("/admin/v1", mdw.AuthJWT(d.Auth), mdw.RequireAdmin())
	d.Modules.MountAllAdmin(admin)
	return r
}
