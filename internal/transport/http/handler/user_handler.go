package handler

import (
	"net/http"

	"bookit/internal/domain"
	"bookit/internal/service"
	"bookit/internal/transport/http/ez"

	"github.com/gin-gonic/gin"
)

type UserHandler struct{ svc UserService }

func NewUserHandler(svc UserService) *UserHandler { return &UserHandler{svc: svc} }

func (h *UserHandler) MountAPI(_, authed *gin.RouterGroup) {
	ez.Register(authed, ez.Action[struct{}, *domain.User]{
		Method: http.MethodGet, Path: "/users/me", Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (*domain.User, error) {
			caller, err := ez.Caller(c)
			if err != nil {
				return nil, err
			}
			return h.svc.Me(c.Request.Context(), caller)
		},
	})
	ez.Register(authed, ez.Action[service.UpdateProfileInput, *domain.User]{
		Method: http.MethodPatch, Path: "/users/me", Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *service.UpdateProfileInput) (*domain.User, error) {
			caller, err := ez.Caller(c)
			if err != nil {
				return nil, err
			}
			return h.svc.UpdateMe(c.Request.Context(), caller, *in)
		},
	})
}

type userQuery struct {
	Q      string `form:"q"`
	Offset int    `form:"offset"`
	Limit  int    `form:"limit"`
}

type roleReq struct {
	Role string `json:"role" binding:"required"`
}

func (h *UserHandler) MountAdmin(admin *gin.RouterGroup) {
	ez.Register(admin, ez.Action[userQuery, *service.List[domain.User]]{
		Method: http.MethodGet, Path: "/users", Binder: ez.BindQuery,
		Handler: func(c *gin.Context, q *userQuery) (*service.List[domain.User], error) {
			caller, err := ez.Caller(c)
			if err != nil {
				return nil, err
			}
			return h.svc.List(c.Request.Context(), caller, q.Q, service.Page{Offset: q.Offset, Limit: q.Limit})
		},
	})
	ez.Register(admin, ez.Action[roleReq, *domain.User]{
		Method: http.MethodPatch, Path: "/users/:id/role", Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *roleReq) (*domain.User, error) {
			caller, err := ez.Caller(c)
			if err != nil {
				return nil, err
			}
			id, err := ez.PathID(c, "id")
			if err != nil {
				return nil, err
			}
			return h.svc.SetRole(c.Request.Context(), caller, id, domain.Role(in.Role))
		},
	})
}
