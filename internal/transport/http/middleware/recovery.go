package middleware

import (
	"net/http"

	resp "bookit/internal/transport/http/response"

	"github.com/gin-gonic/gin"
)

// PanicResponder answers a recovered panic with the standard 500 envelope.
// It plugs into ginzap.CustomRecoveryWithZap, which logs the stack.
func PanicResponder(c *gin.Context, _ any) {
	c.AbortWithStatusJSON(http.StatusInternalServerError, resp.Error(resp.CodeServerError, ""))
}
