package response

import (
	"bookit/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

type Resp struct {
	Code int         `json:"code"`
	Msg  string      `json:"msg"`
	Data interface{} `json:"data"`
}

// New never leaves data null.
func New(code int, msg string, data interface{}) Resp {
	if data == nil {
		data = struct{}{}
	}
	return Resp{Code: code, Msg: msg, Data: data}
}

func OK(data interface{}) Resp {
	return New(CodeOK, CodeMsgMap[CodeOK], data)
}

// Error builds a failure envelope; an empty msg falls back to the code's text.
func Error(code int, customMsg string) Resp {
	msg := CodeMsgMap[code]
	if customMsg != "" {
		msg = customMsg
	}
	return New(code, msg, struct{}{})
}

// StatusOf maps an error kind onto its HTTP status.
func StatusOf(k apperrors.Kind) int {
	switch k {
	case apperrors.KindUnauthenticated:
		return CodeUnauthorized
	case apperrors.KindForbidden:
		return CodeForbidden
	case apperrors.KindNotFound:
		return CodeNotFound
	case apperrors.KindConflict:
		return CodeConflict
	case apperrors.KindInvalidState, apperrors.KindValidation:
		return CodeBadRequest
	}
	return CodeServerError
}

// FromError converts err into a status and envelope. Internal causes are
// never echoed to the client.
func FromError(err error) (int, Resp) {
	ae, ok := apperrors.As(err)
	if !ok || ae.Kind == apperrors.KindInternal {
		return CodeServerError, Error(CodeServerError, "")
	}
	status := StatusOf(ae.Kind)
	return status, Error(status, ae.Message)
}

// Fail records err on the context for the access log and aborts with its envelope.
func Fail(c *gin.Context, err error) {
	_ = c.Error(err)
	status, body := FromError(err)
	if status == CodeUnauthorized {
		c.Header("WWW-Authenticate", "Bearer")
	}
	c.AbortWithStatusJSON(status, body)
}
