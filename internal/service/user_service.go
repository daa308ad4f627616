package service

import (
	"context"
	"strings"

	"bookit/internal/core/auth"
	"bookit/internal/domain"
	"bookit/pkg/apperrors"
	"bookit/pkg/utils"

	"go.uber.org/zap"
)

type UpdateProfileInput struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
}

type UserService struct {
	users domain.UserRepository
	log   *zap.Logger
}

func NewUserService(users domain.UserRepository, l *zap.Logger) *UserService {
	return &UserService{users: users, log: l.Named("users")}
}

func (s *UserService) Me(ctx context.Context, caller auth.Identity) (*domain.User, error) {
	return s.load(ctx, caller.UserID)
}

func (s *UserService) load(ctx context.Context, id int64) (*domain.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, apperrors.NewNotFound("user not found")
	}
	return u, nil
}

// UpdateMe applies a partial profile change to the caller's own account.
func (s *UserService) UpdateMe(ctx context.Context, caller auth.Identity, in UpdateProfileInput) (*domain.User, error) {
	u, err := s.load(ctx, caller.UserID)
	if err != nil {
		return nil, err
	}

	var patch domain.UserPatch
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if err := validateName(name); err != nil {
			return nil, err
		}
		patch.Name = &name
	}
	if in.Email != nil {
		email := domain.NormalizeEmail(*in.Email)
		if err := validateEmail(email); err != nil {
			return nil, err
		}
		if email != u.Email {
			other, err := s.users.GetByEmail(ctx, email)
			if err != nil {
				return nil, err
			}
			if other != nil {
				return nil, apperrors.NewConflict("email already registered")
			}
		}
		patch.Email = &email
	}
	if in.Password != nil {
		hash, err := utils.HashPassword(*in.Password)
		if err != nil {
			return nil, err
		}
		patch.PasswordHash = &hash
	}
	if patch.Empty() {
		return u, nil
	}

	patch.Apply(u)
	if err := s.users.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *UserService) List(ctx context.Context, caller auth.Identity, q string, p Page) (*List[domain.User], error) {
	if _, err := auth.RequireAdmin(caller); err != nil {
		return nil, err
	}
	p = p.Normalize()
	items, total, err := s.users.Search(ctx, q, p.Offset, p.Limit)
	if err != nil {
		return nil, err
	}
	return newList(items, total, p), nil
}

// SetRole promotes or demotes a user. Admins cannot change their own role.
func (s *UserService) SetRole(ctx context.Context, caller auth.Identity, userID int64, role domain.Role) (*domain.User, error) {
	if _, err := auth.RequireAdmin(caller); err != nil {
		return nil, err
	}
	if !role.Valid() {
		return nil, apperrors.NewValidation("role must be user or admin")
	}
	if userID == caller.UserID {
		return nil, apperrors.NewValidation("admins cannot change their own role")
	}
	u, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u.Role == role {
		return u, nil
	}
	u.Role = role
	if err := s.users.Update(ctx, u); err != nil {
		return nil, err
	}
	s.log.Info("role changed", zap.Int64("user_id", u.ID), zap.String("role", string(role)), zap.Int64("by", caller.UserID))
	return u, nil
}
