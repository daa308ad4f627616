package auth

import (
	"strings"

	"bookit/internal/domain"
	"bookit/pkg/apperrors"
)

// Identity is the caller established from a valid access token.
type Identity struct {
	UserID int64
	Email  string
	Role   domain.Role
}

func IdentityOf(u *domain.User) Identity {
	return Identity{UserID: u.ID, Email: u.Email, Role: u.Role}
}

func (id Identity) IsAdmin() bool { return id.Role == domain.RoleAdmin }

// Authenticate accepts a bearer credential ("Bearer <jwt>" or the bare
// token) and requires an unexpired access token.
func (j *Issuer) Authenticate(credential string) (Identity, error) {
	tok := strings.TrimSpace(credential)
	if len(tok) > 7 && strings.EqualFold(tok[:7], "bearer ") {
		tok = strings.TrimSpace(tok[7:])
	}
	if tok == "" {
		return Identity{}, apperrors.NewUnauthenticated("missing bearer token")
	}
	c, ok := j.Validate(tok)
	if !ok || c.Type != KindAccess {
		return Identity{}, apperrors.NewUnauthenticated("could not validate credentials")
	}
	return c.Identity(), nil
}

func AuthorizeOwnerOrAdmin(id Identity, ownerID int64) bool {
	return id.IsAdmin() || id.UserID == ownerID
}

func RequireOwnerOrAdmin(id Identity, ownerID int64) error {
	if !AuthorizeOwnerOrAdmin(id, ownerID) {
		return apperrors.NewForbidden("not enough permissions")
	}
	return nil
}

func RequireAdmin(id Identity) (Identity, error) {
	if !id.IsAdmin() {
		return Identity{}, apperrors.NewForbidden("admin privileges required")
	}
	return id, nil
}
