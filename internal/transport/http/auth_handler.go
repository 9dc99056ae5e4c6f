package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/waste3d/coursehub/internal/application/usecase"
	"github.com/waste3d/coursehub/internal/infrastructure/security"
)

const refreshCookie = "refresh_token"

type AuthHandler struct {
	responder
	auth         *usecase.AuthUseCase
	cookieDomain string
	secure       bool
}

func NewAuthHandler(auth *usecase.AuthUseCase, cookieDomain string, secure bool, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{responder: responder{logger: logger}, auth: auth, cookieDomain: cookieDomain, secure: secure}
}

// POST /api/v1/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req usecase.RegisterInput
	if err := bind(c, &req); err != nil {
		h.fail(c, "AUTH_REGISTER", err)
		return
	}

	id, err := h.auth.Register(c, req)
	if err != nil {
		h.fail(c, "AUTH_REGISTER", err)
		return
	}
	h.success(c, http.StatusCreated, "User created!", id)
}

// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req usecase.LoginInput
	if err := bind(c, &req); err != nil {
		h.fail(c, "AUTH_LOGIN", err)
		return
	}

	pair, err := h.auth.Login(c, req)
	if err != nil {
		h.fail(c, "AUTH_LOGIN", err)
		return
	}

	h.setRefresh(c, pair.RefreshToken, int(security.RefreshTTL.Seconds()))
	c.JSON(http.StatusOK, gin.H{"accessToken": pair.AccessToken})
}

// POST /api/v1/auth/refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
	refreshToken, err := c.Cookie(refreshCookie)
	if err != nil {
		c.JSON(http.StatusUnauthorized, Result{Error: msgUnauthorized})
		return
	}

	pair, err := h.auth.Refresh(c, refreshToken)
	if err != nil {
		h.fail(c, "AUTH_REFRESH", err)
		return
	}

	h.setRefresh(c, pair.RefreshToken, int(security.RefreshTTL.Seconds()))
	c.JSON(http.StatusOK, gin.H{"accessToken": pair.AccessToken})
}

// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	refreshToken, err := c.Cookie(refreshCookie)
	if err == nil {
		if err := h.auth.Logout(c, refreshToken); err != nil {
			h.fail(c, "AUTH_LOGOUT", err)
			return
		}
	}

	h.setRefresh(c, "", -1)
	h.success(c, http.StatusOK, "Logged out", "")
}

func (h *AuthHandler) setRefresh(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(refreshCookie, value, maxAge, "/", h.cookieDomain, h.secure, true)
}
