package service

import (
	"context"
	"strings"
	"sync"

	"bookit/internal/core/auth"
	"bookit/internal/domain"
	"bookit/pkg/apperrors"
	"bookit/pkg/utils"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

var validate = validator.New()

func validateEmail(email string) error {
	if err := validate.Var(email, "required,email,max=191"); err != nil {
		return apperrors.NewValidation("a valid email address is required")
	}
	return nil
}

func validateName(name string) error {
	if name == "" || len(name) > 64 {
		return apperrors.NewValidation("name must be 1 to 64 characters")
	}
	return nil
}

type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	TokenType    string `json:"tokenType"`
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

type AuthService struct {
	users  domain.UserRepository
	tokens *auth.Issuer
	log    *zap.Logger

	dummyOnce sync.Once
	dummyHash string
}

func NewAuthService(users domain.UserRepository, tokens *auth.Issuer, l *zap.Logger) *AuthService {
	return &AuthService{users: users, tokens: tokens, log: l.Named("auth")}
}

// Register creates a regular user and logs them in. Admin rights are never
// granted here.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*domain.User, *TokenPair, error) {
	email := domain.NormalizeEmail(in.Email)
	name := strings.TrimSpace(in.Name)
	if err := validateEmail(email); err != nil {
		return nil, nil, err
	}
	if err := validateName(name); err != nil {
		return nil, nil, err
	}
	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, nil, err
	}

	existing, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, nil, err
	}
	if existing != nil {
		return nil, nil, apperrors.NewConflict("email already registered")
	}
	u := &domain.User{Email: email, Name: name, PasswordHash: hash, Role: domain.RoleUser}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, nil, err
	}
	s.log.Info("user registered", zap.Int64("user_id", u.ID))

	pair, err := s.issuePair(u)
	if err != nil {
		return nil, nil, err
	}
	return u, pair, nil
}

const errBadCredentials = "incorrect email or password"

func (s *AuthService) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	u, err := s.users.GetByEmail(ctx, domain.NormalizeEmail(email))
	if err != nil {
		return nil, err
	}
	if u == nil {
		// burn the same bcrypt time as a real check
		utils.CheckPassword(password, s.dummy())
		return nil, apperrors.NewUnauthenticated(errBadCredentials)
	}
	if !utils.CheckPassword(password, u.PasswordHash) {
		return nil, apperrors.NewUnauthenticated(errBadCredentials)
	}
	return s.issuePair(u)
}

func (s *AuthService) dummy() string {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = utils.HashPassword("bookit-login-guard")
	})
	return s.dummyHash
}

// Refresh trades a valid refresh token for a new access token. The user is
// reloaded so role changes apply immediately.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	c, ok := s.tokens.Validate(strings.TrimSpace(refreshToken))
	if !ok || c.Type != auth.KindRefresh {
		return nil, apperrors.NewUnauthenticated("invalid refresh token")
	}
	u, err := s.users.GetByID(ctx, c.UserID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, apperrors.NewUnauthenticated("invalid refresh token")
	}
	access, err := s.tokens.IssueAccess(auth.IdentityOf(u))
	if err != nil {
		return nil, apperrors.NewInternal("issue access token", err)
	}
	return &TokenPair{AccessToken: access, RefreshToken: refreshToken, TokenType: "bearer"}, nil
}

// EnsureAdmin creates the bootstrap admin or promotes an existing account.
func (s *AuthService) EnsureAdmin(ctx context.Context, email, password, name string) (*domain.User, error) {
	email = domain.NormalizeEmail(email)
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if u != nil {
		if u.Role != domain.RoleAdmin {
			u.Role = domain.RoleAdmin
			if err := s.users.Update(ctx, u); err != nil {
				return nil, err
			}
			s.log.Info("promoted bootstrap admin", zap.Int64("user_id", u.ID))
		}
		return u, nil
	}
	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}
	if name = strings.TrimSpace(name); name == "" {
		name = "Administrator"
	}
	u = &domain.User{Email: email, Name: name, PasswordHash: hash, Role: domain.RoleAdmin}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	s.log.Info("created bootstrap admin", zap.Int64("user_id", u.ID))
	return u, nil
}

func (s *AuthService) issuePair(u *domain.User) (*TokenPair, error) {
	id := auth.IdentityOf(u)
	access, err := s.tokens.IssueAccess(id)
	if err != nil {
		return nil, apperrors.NewInternal("issue access token", err)
	}
	refresh, err := s.tokens.IssueRefresh(id)
	if err != nil {
		return nil, apperrors.NewInternal("issue refresh token", err)
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh, TokenType: "bearer"}, nil
}
