package router

import (
	"sort"

	"github.com/gin-gonic/gin"
)

// APIModule mounts public routes and routes behind AuthJWT.
type APIModule interface {
	MountAPI(public, authed *gin.RouterGroup)
}

// AdminModule mounts routes on the admin-only group.
type AdminModule interface{ MountAdmin(admin *gin.RouterGroup) }

// Modules without Priority mount at 100; lower mounts first.
type prioritizer interface{ Priority() int }

// Registry collects modules; a module may implement either interface or both.
type Registry struct {
	api   []APIModule
	admin []AdminModule
}

func NewRegistry(mods ...any) *Registry {
	r := &Registry{}
	for _, m := range mods {
		r.Register(m)
	}
	return r
}

func (r *Registry) Register(mod any) {
	if m, ok := mod.(APIModule); ok {
		r.api = append(r.api, m)
	}
	if m, ok := mod.(AdminModule); ok {
		r.admin = append(r.admin, m)
	}
}

func (r *Registry) MountAllAPI(public, authed *gin.RouterGroup) {
	for _, m := range sorted(r.api) {
		m.MountAPI(public, authed)
	}
}

func (r *Registry) MountAllAdmin(admin *gin.RouterGroup) {
	for _, m := range sorted(r.admin) {
		m.MountAdmin(admin)
	}
}

func sorted[T any](mods []T) []T {
	out := append([]T(nil), mods...)
	sort.SliceStable(out, func(i, j int) bool {
		return priorityOf(out[i]) < priorityOf(out[j])
	})
	return out
}

func priorityOf(v any) int {
	if p, ok := v.(prioritizer); ok {
		return p.Priority()
	}
	return 100
}
