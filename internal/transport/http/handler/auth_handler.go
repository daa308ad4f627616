package handler

import (
	"net/http"

	"bookit/internal/domain"
	"bookit/internal/service"
	"bookit/internal/transport/http/ez"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct{ svc AuthService }

func NewAuthHandler(svc AuthService) *AuthHandler { return &AuthHandler{svc: svc} }

func (h *AuthHandler) Priority() int { return 10 }

type registerReq struct {
	Name     string `json:"name" binding:"required,max=64"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type registerOut struct {
	User *domain.User `json:"user"`
	service.TokenPair
}

type loginReq struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type refreshReq struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

func (h *AuthHandler) MountAPI(public, _ *gin.RouterGroup) {
	g := public.Group("/auth")

	ez.Register(g, ez.Action[registerReq, registerOut]{
		Method: http.MethodPost, Path: "/register", Binder: ez.BindJSON, Status: http.StatusCreated,
		Handler: func(c *gin.Context, in *registerReq) (registerOut, error) {
			u, pair, err := h.svc.Register(c.Request.Context(), service.RegisterInput{Name: in.Name, Email: in.Email, Password: in.Password})
			if err != nil {
				return registerOut{}, err
			}
			return registerOut{User: u, TokenPair: *pair}, nil
		},
	})

	ez.Register(g, ez.Action[loginReq, *service.TokenPair]{
		Method: http.MethodPost, Path: "/login", Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *loginReq) (*service.TokenPair, error) {
			return h.svc.Login(c.Request.Context(), in.Email, in.Password)
		},
	})

	ez.Register(g, ez.Action[refreshReq, *service.TokenPair]{
		Method: http.MethodPost, Path: "/refresh", Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *refreshReq) (*service.TokenPair, error) {
			return h.svc.Refresh(c.Request.Context(), in.RefreshToken)
		},
	})

	// tokens are stateless; the client discards them
	ez.Register(g, ez.Action[struct{}, ez.Message]{
		Method: http.MethodPost, Path: "/logout", Binder: ez.BindNone,
		Handler: func(*gin.Context, *struct{}) (ez.Message, error) {
			return ez.Message{Message: "logged out"}, nil
		},
	})
}
