// Package ez registers typed gin handlers: bind the input, call the
// handler, write the envelope.
package ez

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"bookit/internal/core/auth"
	mdw "bookit/internal/transport/http/middleware"
	resp "bookit/internal/transport/http/response"
	"bookit/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

type Binder string

const (
	BindJSON  Binder = "json"  // request body
	BindQuery Binder = "query" // ?a=b
	BindNone  Binder = "none"  // handler reads c.Param itself
)

// Action is one endpoint: I is bound from the request, O is the envelope data.
type Action[I any, O any] struct {
	Method  string
	Path    string
	Binder  Binder
	Status  int // success status, 200 when zero
	Handler func(c *gin.Context, in *I) (O, error)
}

func Register[I any, O any](g *gin.RouterGroup, a Action[I, O]) {
	status := a.Status
	if status == 0 {
		status = http.StatusOK
	}
	h := func(c *gin.Context) {
		var in I
		var bindErr error
		switch a.Binder {
		case BindJSON:
			bindErr = c.ShouldBindJSON(&in)
		case BindQuery:
			bindErr = c.ShouldBindQuery(&in)
		}
		if bindErr != nil {
			failBind(c, bindErr)
			return
		}

		out, err := a.Handler(c, &in)
		if err != nil {
			resp.Fail(c, err)
			return
		}
		c.JSON(status, resp.OK(out))
	}
	g.Handle(strings.ToUpper(a.Method), a.Path, h)
}

func failBind(c *gin.Context, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		_ = c.Error(err)
		c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, resp.Error(resp.CodeTooLarge, "request body too large"))
		return
	}
	resp.Fail(c, apperrors.NewValidation("invalid request: "+err.Error()))
}

// Caller returns the authenticated identity or Unauthenticated.
func Caller(c *gin.Context) (auth.Identity, error) {
	id, ok := mdw.IdentityFrom(c)
	if !ok {
		return auth.Identity{}, apperrors.NewUnauthenticated("not authenticated")
	}
	return id, nil
}

// PathID parses a positive integer path parameter.
func PathID(c *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewValidation(name + " must be a positive integer")
	}
	return id, nil
}

// Message is the body of endpoints that only acknowledge.
type Message struct {
	Message string `json:"message"`
}
