package middleware

import (
	"bookit/internal/core/auth"
	resp "bookit/internal/transport/http/response"
	"bookit/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

const keyIdentity = "identity"

type Authenticator interface {
	Authenticate(credential string) (auth.Identity, error)
}

// AuthJWT requires a valid access token and stores the caller's identity.
func AuthJWT(a Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := a.Authenticate(c.GetHeader("Authorization"))
		if err != nil {
			resp.Fail(c, err)
			return
		}
		c.Set(keyIdentity, id)
		c.Next()
	}
}

// RequireAdmin must run after AuthJWT.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := IdentityFrom(c)
		if !ok {
			resp.Fail(c, apperrors.NewUnauthenticated("not authenticated"))
			return
		}
		if _, err := auth.RequireAdmin(id); err != nil {
			resp.Fail(c, err)
			return
		}
		c.Next()
	}
}

func IdentityFrom(c *gin.Context) (auth.Identity, bool) {
	v, ok := c.Get(keyIdentity)
	if !ok {
		return auth.Identity{}, false
	}
	id, ok := v.(auth.Identity)
	return id, ok
}

// SetIdentity is used by tests and internal callers that authenticate by other means.
func SetIdentity(c *gin.Context, id auth.Identity) { c.Set(keyIdentity, id) }
