package handler

import (
	"net/http"
	"time"

	"bookit/internal/core/auth"
	"bookit/internal/domain"
	"bookit/internal/service"
	"bookit/internal/transport/http/ez"
	"bookit/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

type BookingHandler struct{ svc BookingService }

func NewBookingHandler(svc BookingService) *BookingHandler { return &BookingHandler{svc: svc} }

func (h *BookingHandler) Priority() int { return 30 }

type createBookingReq struct {
	ServiceID int64     `json:"serviceId" binding:"required,gt=0"`
	StartTime time.Time `json:"startTime" binding:"required"`
}

type updateBookingReq struct {
	StartTime *time.Time `json:"startTime"`
	Status    *string    `json:"status"`
}

func (r updateBookingReq) patch() domain.BookingPatch {
	p := domain.BookingPatch{StartTime: r.StartTime}
	if r.Status != nil {
		st := domain.BookingStatus(*r.Status)
		p.Status = &st
	}
	return p
}

type bookingQuery struct {
	Status    string `form:"status"`
	ServiceID int64  `form:"serviceId"`
	UserID    int64  `form:"userId"`
	From      string `form:"from"`
	To        string `form:"to"`
	Offset    int    `form:"offset"`
	Limit     int    `form:"limit"`
}

func (q bookingQuery) filter() (domain.BookingFilter, error) {
	f := domain.BookingFilter{UserID: q.UserID, ServiceID: q.ServiceID, Status: domain.BookingStatus(q.Status)}
	var err error
	if f.From, err = parseTime("from", q.From); err != nil {
		return f, err
	}
	if f.To, err = parseTime("to", q.To); err != nil {
		return f, err
	}
	return f, nil
}

func parseTime(name, v string) (*time.Time, error) {
	if v == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return nil, apperrors.NewValidation(name + " must be an RFC 3339 timestamp")
	}
	return &t, nil
}

func (h *BookingHandler) MountAPI(_, authed *gin.RouterGroup) {
	g := authed.Group("/bookings")

	ez.Register(g, ez.Action[createBookingReq, *domain.Booking]{
		Method: http.MethodPost, Path: "", Binder: ez.BindJSON, Status: http.StatusCreated,
		Handler: func(c *gin.Context, in *createBookingReq) (*domain.Booking, error) {
			caller, err := ez.Caller(c)
			if err != nil {
				return nil, err
			}
			return h.svc.Create(c.Request.Context(), caller, service.CreateBookingInput{ServiceID: in.ServiceID, StartTime: in.StartTime})
		},
	})
	ez.Register(g, ez.Action[bookingQuery, *service.List[domain.Booking]]{
		Method: http.MethodGet, Path: "", Binder: ez.BindQuery,
		Handler: func(c *gin.Context, q *bookingQuery) (*service.List[domain.Booking], error) {
			caller, err := ez.Caller(c)
			if err != nil {
				return nil, err
			}
			f, err := q.filter()
			if err != nil {
				return nil, err
			}
			return h.svc.List(c.Request.Context(), caller, f, service.Page{Offset: q.Offset, Limit: q.Limit})
		},
	})
	ez.Register(g, ez.Action[struct{}, *domain.Booking]{
		Method: http.MethodGet, Path: "/:id", Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (*domain.Booking, error) {
			caller, id, err := callerAndID(c)
			if err != nil {
				return nil, err
			}
			return h.svc.Get(c.Request.Context(), caller, id)
		},
	})
	ez.Register(g, ez.Action[updateBookingReq, *domain.Booking]{
		Method: http.MethodPatch, Path: "/:id", Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *updateBookingReq) (*domain.Booking, error) {
			caller, id, err := callerAndID(c)
			if err != nil {
				return nil, err
			}
			return h.svc.Update(c.Request.Context(), caller, id, in.patch())
		},
	})
	ez.Register(g, ez.Action[struct{}, *domain.Booking]{
		Method: http.MethodDelete, Path: "/:id", Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (*domain.Booking, error) {
			caller, id, err := callerAndID(c)
			if err != nil {
				return nil, err
			}
			return h.svc.Cancel(c.Request.Context(), caller, id)
		},
	})
}

func callerAndID(c *gin.Context) (caller auth.Identity, id int64, err error) {
	if caller, err = ez.Caller(c); err != nil {
		return
	}
	id, err = ez.PathID(c, "id")
	return
}

// MountAdmin exposes the back-office view: every booking, filterable, with
// lifecycle updates.
func (h *BookingHandler) MountAdmin(admin *gin.RouterGroup) {
	h.MountAPI(nil, admin)
}
