package handler

import (
	"net/http"

	"bookit/internal/domain"
	"bookit/internal/service"
	"bookit/internal/transport/http/ez"

	"github.com/gin-gonic/gin"
)

type ReviewHandler struct{ svc ReviewService }

func NewReviewHandler(svc ReviewService) *ReviewHandler { return &ReviewHandler{svc: svc} }

func (h *ReviewHandler) Priority() int { return 40 }

type createReviewReq struct {
	BookingID int64   `json:"bookingId" binding:"required,gt=0"`
	Rating    int     `json:"rating" binding:"required"`
	Comment   *string `json:"comment"`
}

func (h *ReviewHandler) MountAPI(public, authed *gin.RouterGroup) {
	ez.Register(public, ez.Action[service.Page, *service.List[domain.Review]]{
		Method: http.MethodGet, Path: "/services/:id/reviews", Binder: ez.BindQuery,
		Handler: func(c *gin.Context, p *service.Page) (*service.List[domain.Review], error) {
			id, err := ez.PathID(c, "id")
			if err != nil {
				return nil, err
			}
			return h.svc.ListForService(c.Request.Context(), id, *p)
		},
	})

	g := authed.Group("/reviews")
	ez.Register(g, ez.Action[createReviewReq, *domain.Review]{
		Method: http.MethodPost, Path: "", Binder: ez.BindJSON, Status: http.StatusCreated,
		Handler: func(c *gin.Context, in *createReviewReq) (*domain.Review, error) {
			caller, err := ez.Caller(c)
			if err != nil {
				return nil, err
			}
			return h.svc.Create(c.Request.Context(), caller, service.CreateReviewInput{
				BookingID: in.BookingID, Rating: in.Rating, Comment: in.Comment,
			})
		},
	})
	ez.Register(g, ez.Action[domain.ReviewPatch, *domain.Review]{
		Method: http.MethodPatch, Path: "/:id", Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *domain.ReviewPatch) (*domain.Review, error) {
			caller, id, err := callerAndID(c)
			if err != nil {
				return nil, err
			}
			return h.svc.Update(c.Request.Context(), caller, id, *in)
		},
	})
	ez.Register(g, ez.Action[struct{}, ez.Message]{
		Method: http.MethodDelete, Path: "/:id", Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (ez.Message, error) {
			caller, id, err := callerAndID(c)
			if err != nil {
				return ez.Message{}, err
			}
			if err := h.svc.Delete(c.Request.Context(), caller, id); err != nil {
				return ez.Message{}, err
			}
			return ez.Message{Message: "review deleted"}, nil
		},
	})
}
