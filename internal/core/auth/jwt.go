package auth

import (
	"errors"
	"time"

	"bookit/internal/core/config"
	"bookit/internal/domain"

	"github.com/golang-jwt/jwt/v5"
)

type TokenKind string

const (
	KindAccess  TokenKind = "access"
	KindRefresh TokenKind = "refresh"
)

// Claims is the token payload. user_id, email and type are mandatory.
type Claims struct {
	UserID int64     `json:"user_id"`
	Email  string    `json:"email"`
	Role   string    `json:"role"`
	Type   TokenKind `json:"type"`
	jwt.RegisteredClaims
}

// Issuer signs and validates HS256 tokens with a single shared secret.
type Issuer struct {
	Secret     []byte
	Issuer     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	Leeway     time.Duration
	Now        func() time.Time
}

func NewIssuer(c config.JWT) *Issuer {
	return &Issuer{
		Secret:     []byte(c.Secret),
		Issuer:     c.Issuer,
		AccessTTL:  c.AccessTTL(),
		RefreshTTL: c.RefreshTTL(),
		Leeway:     c.Leeway(),
	}
}

func (j *Issuer) now() time.Time {
	if j.Now != nil {
		return j.Now()
	}
	return time.Now()
}

func (j *Issuer) IssueAccess(id Identity) (string, error) {
	return j.issue(id, KindAccess, j.AccessTTL)
}

func (j *Issuer) IssueRefresh(id Identity) (string, error) {
	return j.issue(id, KindRefresh, j.RefreshTTL)
}

func (j *Issuer) issue(id Identity, kind TokenKind, ttl time.Duration) (string, error) {
	now := j.now()
	claims := Claims{
		UserID: id.UserID,
		Email:  id.Email,
		Role:   string(id.Role),
		Type:   kind,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    j.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(j.Secret)
}

var (
	errMissingClaims = errors.New("token is missing required claims")
	errWrongIssuer   = errors.New("token issuer mismatch")
)

// Parse verifies signature, expiry, the mandatory claims and, when set, the issuer.
func (j *Issuer) Parse(tokenStr string) (*Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(j.Leeway),
		jwt.WithTimeFunc(j.now),
	}
	t, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(*jwt.Token) (interface{}, error) {
		return j.Secret, nil
	}, opts...)
	if err != nil {
		return nil, err
	}
	c, ok := t.Claims.(*Claims)
	if !ok || !t.Valid {
		return nil, errors.New("invalid token")
	}
	if c.UserID == 0 || c.Email == "" || c.Type == "" {
		return nil, errMissingClaims
	}
	// iss is optional; when present it must be ours
	if c.Issuer != "" && j.Issuer != "" && c.Issuer != j.Issuer {
		return nil, errWrongIssuer
	}
	return c, nil
}

// Validate never fails loudly: any defect yields (nil, false).
func (j *Issuer) Validate(tokenStr string) (*Claims, bool) {
	c, err := j.Parse(tokenStr)
	if err != nil {
		return nil, false
	}
	return c, true
}

func (c *Claims) Identity() Identity {
	role := domain.Role(c.Role)
	if !role.Valid() {
		role = domain.RoleUser
	}
	return Identity{UserID: c.UserID, Email: c.Email, Role: role}
}
