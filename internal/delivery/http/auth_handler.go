package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/prodlens/backend/internal/domain"
	"github.com/prodlens/backend/internal/usecase"
)

// AuthUsecase is the account behavior the auth handlers depend on
type AuthUsecase interface {
	Register(ctx context.Context, req domain.RegisterRequest) (*usecase.AuthResult, error)
	Login(ctx context.Context, req domain.LoginRequest) (*usecase.AuthResult, error)
	Me(ctx context.Context, userID string) (*domain.User, error)
}

// CookieConfig describes the session cookie set on register and login
type CookieConfig struct {
	Name   string
	TTL    time.Duration
	Secure bool
}

// AuthHandler serves /api/auth
type AuthHandler struct {
	auth   AuthUsecase
	cookie CookieConfig
}

// NewAuthHandler creates an auth handler
func NewAuthHandler(auth AuthUsecase, cookie CookieConfig) *AuthHandler {
	if cookie.Name == "" {
		cookie.Name = "jwt"
	}
	if cookie.TTL <= 0 {
		cookie.TTL = 7 * 24 * time.Hour
	}
	return &AuthHandler{auth: auth, cookie: cookie}
}

// Register handles POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req domain.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondMessage(c, http.StatusBadRequest, msgInvalidBody)
		return
	}

	result, err := h.auth.Register(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, msgInternal)
		return
	}

	h.setSessionCookie(c, result.Token, int(h.cookie.TTL.Seconds()))
	c.JSON(http.StatusCreated, result)
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req domain.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondMessage(c, http.StatusBadRequest, msgInvalidBody)
		return
	}

	result, err := h.auth.Login(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, msgInternal)
		return
	}

	h.setSessionCookie(c, result.Token, int(h.cookie.TTL.Seconds()))
	c.JSON(http.StatusOK, result)
}

// Me handles GET /api/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.auth.Me(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, err, msgInternal)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// Logout handles POST /api/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	h.setSessionCookie(c, "", -1)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// setSessionCookie writes the HttpOnly session cookie; maxAge < 0 clears it
func (h *AuthHandler) setSessionCookie(c *gin.Context, token string, maxAge int) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(h.cookie.Name, token, maxAge, "/", "", h.cookie.Secure, true)
}
