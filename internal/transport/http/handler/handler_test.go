package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"bookit/internal/core/auth"
	"bookit/internal/domain"
	"bookit/internal/service"
	"bookit/internal/transport/http/handler"
	mdw "bookit/internal/transport/http/middleware"
	"bookit/pkg/apperrors"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func init() { gin.SetMode(gin.TestMode) }

type MockBookingService struct{ mock.Mock }

func (m *MockBookingService) Create(ctx context.Context, caller auth.Identity, in service.CreateBookingInput) (*domain.Booking, error) {
	args := m.Called(ctx, caller, in)
	b, _ := args.Get(0).(*domain.Booking)
	return b, args.Error(1)
}

func (m *MockBookingService) Get(ctx context.Context, caller auth.Identity, id int64) (*domain.Booking, error) {
	args := m.Called(ctx, caller, id)
	b, _ := args.Get(0).(*domain.Booking)
	return b, args.Error(1)
}

func (m *MockBookingService) List(ctx context.Context, caller auth.Identity, f domain.BookingFilter, p service.Page) (*service.List[domain.Booking], error) {
	args := m.Called(ctx, caller, f, p)
	l, _ := args.Get(0).(*service.List[domain.Booking])
	return l, args.Error(1)
}

func (m *MockBookingService) Update(ctx context.Context, caller auth.Identity, id int64, patch domain.BookingPatch) (*domain.Booking, error) {
	args := m.Called(ctx, caller, id, patch)
	b, _ := args.Get(0).(*domain.Booking)
	return b, args.Error(1)
}

func (m *MockBookingService) Cancel(ctx context.Context, caller auth.Identity, id int64) (*domain.Booking, error) {
	args := m.Called(ctx, caller, id)
	b, _ := args.Get(0).(*domain.Booking)
	return b, args.Error(1)
}

type MockCatalogService struct{ mock.Mock }

func (m *MockCatalogService) Get(ctx context.Context, id int64) (*domain.Service, error) {
	args := m.Called(ctx, id)
	s, _ := args.Get(0).(*domain.Service)
	return s, args.Error(1)
}

func (m *MockCatalogService) Search(ctx context.Context, q domain.ServiceQuery, p service.Page) (*service.List[domain.Service], error) {
	args := m.Called(ctx, q, p)
	l, _ := args.Get(0).(*service.List[domain.Service])
	return l, args.Error(1)
}

func (m *MockCatalogService) Create(ctx context.Context, caller auth.Identity, in service.ServiceInput) (*domain.Service, error) {
	args := m.Called(ctx, caller, in)
	s, _ := args.Get(0).(*domain.Service)
	return s, args.Error(1)
}

func (m *MockCatalogService) Update(ctx context.Context, caller auth.Identity, id int64, patch domain.ServicePatch) (*domain.Service, error) {
	args := m.Called(ctx, caller, id, patch)
	s, _ := args.Get(0).(*domain.Service)
	return s, args.Error(1)
}

func (m *MockCatalogService) Delete(ctx context.Context, caller auth.Identity, id int64) error {
	return m.Called(ctx, caller, id).Error(0)
}

var (
	alice = auth.Identity{UserID: 1, Email: "alice@example.com", Role: domain.RoleUser}
	root  = auth.Identity{UserID: 9, Email: "root@example.com", Role: domain.RoleAdmin}
)

type apiModule interface {
	MountAPI(public, authed *gin.RouterGroup)
}

// engine mounts m with a fixed caller standing in for AuthJWT; a zero
// identity leaves the request anonymous.
func engine(m apiModule, caller auth.Identity) *gin.Engine {
	r := gin.New()
	public := r.Group("/api/v1")
	authed := r.Group("/api/v1", func(c *gin.Context) {
		if caller.UserID != 0 {
			mdw.SetIdentity(c, caller)
		}
		c.Next()
	})
	m.MountAPI(public, authed)
	return r
}

func do(r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

type envelope struct {
	Code int             `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var e envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &e))
	return e
}

func TestBookingHandler_Create(t *testing.T) {
	start := time.Date(2030, 1, 1, 10, 0, 0, 0, time.UTC)

	t.Run("created", func(t *testing.T) {
		svc := new(MockBookingService)
		r := engine(handler.NewBookingHandler(svc), alice)
		svc.On("Create", mock.Anything, alice, service.CreateBookingInput{ServiceID: 3, StartTime: start}).
			Return(&domain.Booking{ID: 11, UserID: 1, ServiceID: 3, StartTime: start, EndTime: start.Add(time.Hour), Status: domain.StatusPending}, nil)

		w := do(r, http.MethodPost, "/api/v1/bookings", gin.H{"serviceId": 3, "startTime": start.Format(time.RFC3339)})

		assert.Equal(t, http.StatusCreated, w.Code)
		e := decode(t, w)
		assert.Equal(t, 0, e.Code)
		var b domain.Booking
		require.NoError(t, json.Unmarshal(e.Data, &b))
		assert.Equal(t, int64(11), b.ID)
		assert.Equal(t, domain.StatusPending, b.Status)
		svc.AssertExpectations(t)
	})

	t.Run("conflict", func(t *testing.T) {
		svc := new(MockBookingService)
		r := engine(handler.NewBookingHandler(svc), alice)
		svc.On("Create", mock.Anything, alice, mock.Anything).Return(nil, apperrors.NewConflict("time slot already booked"))

		w := do(r, http.MethodPost, "/api/v1/bookings", gin.H{"serviceId": 3, "startTime": start.Format(time.RFC3339)})

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, "time slot already booked", decode(t, w).Msg)
	})

	t.Run("missing service id", func(t *testing.T) {
		svc := new(MockBookingService)
		r := engine(handler.NewBookingHandler(svc), alice)

		w := do(r, http.MethodPost, "/api/v1/bookings", gin.H{"startTime": start.Format(time.RFC3339)})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		svc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("anonymous", func(t *testing.T) {
		svc := new(MockBookingService)
		r := engine(handler.NewBookingHandler(svc), auth.Identity{})

		w := do(r, http.MethodPost, "/api/v1/bookings", gin.H{"serviceId": 3, "startTime": start.Format(time.RFC3339)})

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestBookingHandler_Update(t *testing.T) {
	svc := new(MockBookingService)
	r := engine(handler.NewBookingHandler(svc), alice)
	cancelled := domain.StatusCancelled
	svc.On("Update", mock.Anything, alice, int64(5), domain.BookingPatch{Status: &cancelled}).
		Return(&domain.Booking{ID: 5, Status: domain.StatusCancelled}, nil)
	completed := domain.StatusCompleted
	svc.On("Update", mock.Anything, alice, int64(6), domain.BookingPatch{Status: &completed}).
		Return(nil, apperrors.NewForbidden("only administrators can change booking status"))

	w := do(r, http.MethodPatch, "/api/v1/bookings/5", gin.H{"status": "cancelled"})
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(r, http.MethodPatch, "/api/v1/bookings/6", gin.H{"status": "completed"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = do(r, http.MethodPatch, "/api/v1/bookings/abc", gin.H{"status": "cancelled"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	svc.AssertExpectations(t)
}

func TestBookingHandler_ListAndCancel(t *testing.T) {
	svc := new(MockBookingService)
	r := engine(handler.NewBookingHandler(svc), root)
	from := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	svc.On("List", mock.Anything, root, domain.BookingFilter{Status: domain.StatusPending, From: &from}, service.Page{Offset: 0, Limit: 5}).
		Return(&service.List[domain.Booking]{Items: []domain.Booking{{ID: 1}}, Total: 1, Limit: 5}, nil)
	svc.On("Cancel", mock.Anything, root, int64(1)).
		Return(nil, apperrors.NewInvalidState("booking cannot be cancelled"))

	w := do(r, http.MethodGet, "/api/v1/bookings?status=pending&from=2030-01-01T00:00:00Z&limit=5", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var l service.List[domain.Booking]
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &l))
	assert.Equal(t, int64(1), l.Total)

	w = do(r, http.MethodGet, "/api/v1/bookings?from=yesterday", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodDelete, "/api/v1/bookings/1", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	svc.AssertExpectations(t)
}

func TestCatalogHandler_PublicSearchOnlyActive(t *testing.T) {
	svc := new(MockCatalogService)
	r := engine(handler.NewCatalogHandler(svc), auth.Identity{})
	svc.On("Search", mock.Anything, mock.MatchedBy(func(q domain.ServiceQuery) bool {
		return q.Text == "cut" && q.Active != nil && *q.Active && q.MinPrice != nil && *q.MinPrice == 10
	}), service.Page{}).Return(&service.List[domain.Service]{Items: []domain.Service{}}, nil)

	w := do(r, http.MethodGet, "/api/v1/services?q=cut&minPrice=10&active=false", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestCatalogHandler_GetNotFound(t *testing.T) {
	svc := new(MockCatalogService)
	r := engine(handler.NewCatalogHandler(svc), auth.Identity{})
	svc.On("Get", mock.Anything, int64(42)).Return(nil, apperrors.NewNotFound("service not found"))

	w := do(r, http.MethodGet, "/api/v1/services/42", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "service not found", decode(t, w).Msg)
}

func TestCatalogHandler_WritesNeedAdmin(t *testing.T) {
	body := gin.H{"title": "Haircut", "price": 25, "durationMinutes": 60}

	svc := new(MockCatalogService)
	w := do(engine(handler.NewCatalogHandler(svc), alice), http.MethodPost, "/api/v1/services", body)
	assert.Equal(t, http.StatusForbidden, w.Code)
	svc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)

	svc.On("Create", mock.Anything, root, service.ServiceInput{Title: "Haircut", Price: 25, DurationMinutes: 60}).
		Return(&domain.Service{ID: 1, Title: "Haircut", Price: 25, DurationMinutes: 60, IsActive: true}, nil)
	w = do(engine(handler.NewCatalogHandler(svc), root), http.MethodPost, "/api/v1/services", body)
	assert.Equal(t, http.StatusCreated, w.Code)
	svc.AssertExpectations(t)
}
