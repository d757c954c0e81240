package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"tourneyhub/internal/auth"
	apperrors "tourneyhub/internal/errors"
	"tourneyhub/internal/middleware"
	"tourneyhub/internal/service"
)

// CookieConfig controls how the session token is written to the client.
type CookieConfig struct {
	Name   string
	Secure bool
	TTL    time.Duration
}

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	authService service.AuthService
	cookie      CookieConfig
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService service.AuthService, cookie CookieConfig) *AuthHandler {
	return &AuthHandler{authService: authService, cookie: cookie}
}

// RegisterRequest represents a customer registration request.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// LoginRequest represents a login request.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Login godoc
// @Summary Log in
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login credentials"
// @Success 200 {object} auth.Session
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := decodeJSON(c, &req); err != nil {
		return err
	}

	token, session, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	h.setSessionCookie(c, token)
	return c.JSON(http.StatusOK, session)
}

// Register godoc
// @Summary Register a customer account
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Registration data"
// @Success 201 {object} auth.Session
// @Failure 400 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := decodeJSON(c, &req); err != nil {
		return err
	}

	token, session, err := h.authService.Register(c.Request().Context(), service.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return err
	}

	h.setSessionCookie(c, token)
	return c.JSON(http.StatusCreated, session)
}

// Logout godoc
// @Summary Log out
// @Description Clears the session cookie and revokes the session. Always succeeds.
// @Tags auth
// @Produce json
// @Success 200 {object} MessageResponse
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	if session := middleware.SessionFrom(c); session != nil {
		// Revocation is best effort; the cookie is cleared either way.
		_ = h.authService.Logout(c.Request().Context(), session)
	}

	h.clearSessionCookie(c)
	return c.JSON(http.StatusOK, MessageResponse{Message: "logged out successfully"})
}

// Session godoc
// @Summary Current session
// @Description Returns the session claim. A missing or stale cookie is cleared and answered with 401.
// @Tags auth
// @Produce json
// @Success 200 {object} auth.Session
// @Failure 401 {object} errors.ErrorResponse
// @Router /auth/session [get]
func (h *AuthHandler) Session(c echo.Context) error {
	session := middleware.SessionFrom(c)
	if session == nil {
		if _, err := c.Cookie(h.cookie.Name); err == nil {
			h.clearSessionCookie(c)
		}
		return apperrors.ErrNotAuthenticated
	}
	return c.JSON(http.StatusOK, session)
}

func (h *AuthHandler) setSessionCookie(c echo.Context, token string) {
	ttl := h.cookie.TTL
	if ttl <= 0 {
		ttl = auth.DefaultSessionTTL
	}
	c.SetCookie(&http.Cookie{
		Name:     h.cookie.Name,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		Expires:  time.Now().Add(ttl),
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *AuthHandler) clearSessionCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     h.cookie.Name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}
