package service

import (
	"context"
	"strconv"
	"time"

	"bookit/internal/core/auth"
	"bookit/internal/core/cache"
	"bookit/internal/domain"
	"bookit/pkg/apperrors"

	"go.uber.org/zap"
)

type ServiceInput struct {
	Title           string  `json:"title"`
	Description     string  `json:"description"`
	Price           float64 `json:"price"`
	DurationMinutes int     `json:"durationMinutes"`
	IsActive        *bool   `json:"isActive"`
}

// CatalogService manages bookable services. Single-item reads go through
// Redis when a cache is configured.
type CatalogService struct {
	services domain.ServiceRepository
	cache    *cache.Cache
	ttl      time.Duration
	log      *zap.Logger
}

func NewCatalogService(services domain.ServiceRepository, c *cache.Cache, ttl time.Duration, l *zap.Logger) *CatalogService {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &CatalogService{services: services, cache: c, ttl: ttl, log: l.Named("catalog")}
}

func (s *CatalogService) key(id int64) string {
	return s.cache.Key("service", strconv.FormatInt(id, 10))
}

func (s *CatalogService) load(ctx context.Context, id int64) (*domain.Service, error) {
	svc, err := s.services.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if svc == nil {
		return nil, apperrors.NewNotFound("service not found")
	}
	return svc, nil
}

func (s *CatalogService) Get(ctx context.Context, id int64) (*domain.Service, error) {
	if s.cache == nil {
		return s.load(ctx, id)
	}
	return cache.GetOrLoadJSON(s.cache, ctx, s.key(id), s.ttl, func(ctx context.Context) (*domain.Service, error) {
		return s.load(ctx, id)
	})
}

func (s *CatalogService) Search(ctx context.Context, q domain.ServiceQuery, p Page) (*List[domain.Service], error) {
	if q.MinPrice != nil && q.MaxPrice != nil && *q.MinPrice > *q.MaxPrice {
		return nil, apperrors.NewValidation("min price exceeds max price")
	}
	p = p.Normalize()
	items, total, err := s.services.Search(ctx, q, p.Offset, p.Limit)
	if err != nil {
		return nil, err
	}
	return newList(items, total, p), nil
}

func (s *CatalogService) Create(ctx context.Context, caller auth.Identity, in ServiceInput) (*domain.Service, error) {
	if _, err := auth.RequireAdmin(caller); err != nil {
		return nil, err
	}
	svc := &domain.Service{
		Title:           in.Title,
		Description:     in.Description,
		Price:           in.Price,
		DurationMinutes: in.DurationMinutes,
		IsActive:        in.IsActive == nil || *in.IsActive,
	}
	if err := svc.Validate(); err != nil {
		return nil, err
	}
	if err := s.services.Create(ctx, svc); err != nil {
		return nil, err
	}
	s.log.Info("service created", zap.Int64("service_id", svc.ID))
	return svc, nil
}

func (s *CatalogService) Update(ctx context.Context, caller auth.Identity, id int64, patch domain.ServicePatch) (*domain.Service, error) {
	if _, err := auth.RequireAdmin(caller); err != nil {
		return nil, err
	}
	svc, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	patch.Apply(svc)
	if err := svc.Validate(); err != nil {
		return nil, err
	}
	if err := s.services.Update(ctx, svc); err != nil {
		return nil, err
	}
	s.invalidate(ctx, id)
	return svc, nil
}

// Delete removes a service. Services with booking history cannot be
// deleted; deactivate them instead.
func (s *CatalogService) Delete(ctx context.Context, caller auth.Identity, id int64) error {
	if _, err := auth.RequireAdmin(caller); err != nil {
		return err
	}
	ok, err := s.services.Delete(ctx, id)
	if err != nil {
		if apperrors.Is(err, apperrors.KindConflict) {
			return apperrors.NewConflict("service has bookings; deactivate it instead")
		}
		return err
	}
	if !ok {
		return apperrors.NewNotFound("service not found")
	}
	s.invalidate(ctx, id)
	s.log.Info("service deleted", zap.Int64("service_id", id))
	return nil
}

func (s *CatalogService) invalidate(ctx context.Context, id int64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, s.key(id)); err != nil {
		s.log.Warn("cache invalidation failed", zap.Int64("service_id", id), zap.Error(err))
	}
}
