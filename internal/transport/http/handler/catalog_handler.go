package handler

import (
	"net/http"

	"bookit/internal/domain"
	"bookit/internal/service"
	"bookit/internal/transport/http/ez"
	mdw "bookit/internal/transport/http/middleware"

	"github.com/gin-gonic/gin"
)

type CatalogHandler struct{ svc CatalogService }

func NewCatalogHandler(svc CatalogService) *CatalogHandler { return &CatalogHandler{svc: svc} }

func (h *CatalogHandler) Priority() int { return 20 }

type serviceQuery struct {
	Q        string   `form:"q"`
	MinPrice *float64 `form:"minPrice"`
	MaxPrice *float64 `form:"maxPrice"`
	Active   *bool    `form:"active"`
	Offset   int      `form:"offset"`
	Limit    int      `form:"limit"`
}

func (q serviceQuery) query() domain.ServiceQuery {
	return domain.ServiceQuery{Text: q.Q, MinPrice: q.MinPrice, MaxPrice: q.MaxPrice, Active: q.Active}
}

func (q serviceQuery) page() service.Page { return service.Page{Offset: q.Offset, Limit: q.Limit} }

func (h *CatalogHandler) MountAPI(public, authed *gin.RouterGroup) {
	// the public catalog only lists bookable services
	ez.Register(public, ez.Action[serviceQuery, *service.List[domain.Service]]{
		Method: http.MethodGet, Path: "/services", Binder: ez.BindQuery,
		Handler: func(c *gin.Context, q *serviceQuery) (*service.List[domain.Service], error) {
			dq := q.query()
			active := true
			dq.Active = &active
			return h.svc.Search(c.Request.Context(), dq, q.page())
		},
	})
	ez.Register(public, ez.Action[struct{}, *domain.Service]{
		Method: http.MethodGet, Path: "/services/:id", Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (*domain.Service, error) {
			id, err := ez.PathID(c, "id")
			if err != nil {
				return nil, err
			}
			return h.svc.Get(c.Request.Context(), id)
		},
	})
	h.mountWrites(authed.Group("", mdw.RequireAdmin()))
}

func (h *CatalogHandler) MountAdmin(admin *gin.RouterGroup) {
	ez.Register(admin, ez.Action[serviceQuery, *service.List[domain.Service]]{
		Method: http.MethodGet, Path: "/services", Binder: ez.BindQuery,
		Handler: func(c *gin.Context, q *serviceQuery) (*service.List[domain.Service], error) {
			return h.svc.Search(c.Request.Context(), q.query(), q.page())
		},
	})
	h.mountWrites(admin)
}

func (h *CatalogHandler) mountWrites(g *gin.RouterGroup) {
	ez.Register(g, ez.Action[service.ServiceInput, *domain.Service]{
		Method: http.MethodPost, Path: "/services", Binder: ez.BindJSON, Status: http.StatusCreated,
		Handler: func(c *gin.Context, in *service.ServiceInput) (*domain.Service, error) {
			caller, err := ez.Caller(c)
			if err != nil {
				return nil, err
			}
			return h.svc.Create(c.Request.Context(), caller, *in)
		},
	})
	ez.Register(g, ez.Action[domain.ServicePatch, *domain.Service]{
		Method: http.MethodPatch, Path: "/services/:id", Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *domain.ServicePatch) (*domain.Service, error) {
			caller, err := ez.Caller(c)
			if err != nil {
				return nil, err
			}
			id, err := ez.PathID(c, "id")
			if err != nil {
				return nil, err
			}
			return h.svc.Update(c.Request.Context(), caller, id, *in)
		},
	})
	ez.Register(g, ez.Action[struct{}, ez.Message]{
		Method: http.MethodDelete, Path: "/services/:id", Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (ez.Message, error) {
			caller, err := ez.Caller(c)
			if err != nil {
				return ez.Message{}, err
			}
			id, err := ez.PathID(c, "id")
			if err != nil {
				return ez.Message{}, err
			}
			if err := h.svc.Delete(c.Request.Context(), caller, id); err != nil {
				return ez.Message{}, err
			}
			return ez.Message{Message: "service deleted"}, nil
		},
	})
}
