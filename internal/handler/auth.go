package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/propixxels/omys-sacred-journeys-sub000/internal/auth"
	"github.com/propixxels/omys-sacred-journeys-sub000/internal/middleware"
)

// AuthService is satisfied by *auth.Service.
type AuthService interface {
	Login(ctx context.Context, email, password string) (auth.Pair, error)
	Refresh(ctx context.Context, raw string) (auth.Pair, error)
	Logout(ctx context.Context, raw string) error
}

// AuthHandler serves the admin login endpoints.  The access token is
// returned in the body and also set as the HttpOnly session cookie used by
// the admin pages.
type AuthHandler struct {
	Auth         AuthService
	SecureCookie bool
}

func NewAuthHandler(a AuthService, secure bool) *AuthHandler {
	return &AuthHandler{Auth: a, SecureCookie: secure}
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshReq struct {
	RefreshToken string `json:"refresh_token"`
}

func (h *AuthHandler) setSession(c echo.Context, token string, exp time.Time) {
	ck := &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  exp,
		HttpOnly: true,
		Secure:   h.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	}
	if token == "" {
		ck.MaxAge = -1
	}
	c.SetCookie(ck)
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return invalidBody(c)
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/password required"})
	}
	ctx, cancel := withTimeout(c)
	defer cancel()

	pair, err := h.Auth.Login(ctx, req.Email, req.Password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}
	if err != nil {
		return serverError(c, "login failed", err)
	}
	h.setSession(c, pair.Access.Token, pair.Access.Exp)
	return c.JSON(http.StatusOK, pair)
}

// Refresh rotates the refresh token.
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.RefreshToken) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "refresh_token required"})
	}
	ctx, cancel := withTimeout(c)
	defer cancel()

	pair, err := h.Auth.Refresh(ctx, req.RefreshToken)
	if errors.Is(err, auth.ErrInvalidRefresh) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh"})
	}
	if err != nil {
		return serverError(c, "refresh failed", err)
	}
	h.setSession(c, pair.Access.Token, pair.Access.Exp)
	return c.JSON(http.StatusOK, pair)
}

// Logout revokes the given refresh token, if any, and clears the cookie.
func (h *AuthHandler) Logout(c echo.Context) error {
	var req refreshReq
	_ = c.Bind(&req)
	ctx, cancel := withTimeout(c)
	defer cancel()

	if err := h.Auth.Logout(ctx, req.RefreshToken); err != nil {
		return serverError(c, "logout failed", err)
	}
	h.setSession(c, "", time.Unix(0, 0))
	return c.NoContent(http.StatusNoContent)
}

// Session reports the resolved state of the caller.
func (h *AuthHandler) Session(c echo.Context) error {
	return c.JSON(http.StatusOK, middleware.SessionFrom(c))
}
