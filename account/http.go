package account

import (
	"github.com/gin-gonic/gin"

	"github.com/kbukum/trustauth/auth/authctx"
	"github.com/kbukum/trustauth/auth/filter"
	"github.com/kbukum/trustauth/errors"
	"github.com/kbukum/trustauth/server"
)

// Handler exposes the Service over HTTP. It expects the authentication
// filter to run in front of it.
type Handler struct {
	svc *Service
}

// NewHandler returns the HTTP binding of svc.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// Register mounts the routes under /rest.
func (h *Handler) Register(r gin.IRouter) {
	rest := r.Group("/rest")
	rest.POST("/user/register", h.register)
	rest.POST("/token/new", h.login)
	rest.POST("/social/login", h.socialLogin)

	authed := rest.Group("", filter.RequireAuthenticated())
	authed.GET("/token/refresh", h.refresh)
	authed.POST("/user/password", h.changePassword)
	authed.GET("/user/me", h.me)
}

func (h *Handler) register(c *gin.Context) {
	var req RegisterRequest
	if !server.BindJSON(c, &req) {
		return
	}
	p, err := h.svc.Register(c.Request.Context(), req)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondCreated(c, p)
}

func (h *Handler) login(c *gin.Context) {
	var req LoginRequest
	if !server.BindJSON(c, &req) {
		return
	}
	tok, err := h.svc.Login(c.Request.Context(), req)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondOK(c, tok)
}

func (h *Handler) socialLogin(c *gin.Context) {
	var req SocialLoginRequest
	if !server.BindJSON(c, &req) {
		return
	}
	tok, err := h.svc.SocialLogin(c.Request.Context(), req)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondOK(c, tok)
}

func (h *Handler) refresh(c *gin.Context) {
	ctx := c.Request.Context()
	raw, ok := authctx.Token(ctx)
	if !ok {
		server.RespondWithError(c, errors.Unauthorized(""))
		return
	}
	tok, err := h.svc.Refresh(ctx, raw, authctx.MustPrincipal(ctx))
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondOK(c, tok)
}

func (h *Handler) changePassword(c *gin.Context) {
	var req ChangePasswordRequest
	if !server.BindJSON(c, &req) {
		return
	}
	ctx := c.Request.Context()
	tok, err := h.svc.ChangePassword(ctx, authctx.MustPrincipal(ctx), req)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondOK(c, tok)
}

func (h *Handler) me(c *gin.Context) {
	server.RespondOK(c, authctx.MustPrincipal(c.Request.Context()))
}
