package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Nisharg-K/Pickle-Broker-Sports-Ground-Booking-Platform/internal/service"
)

// AuthHandler bundles the account endpoints.
type AuthHandler struct {
	base
	Auth *service.AuthService
}

func NewAuthHandler(auth *service.AuthService, log *slog.Logger, timeout time.Duration) *AuthHandler {
	return &AuthHandler{base: base{Log: log, Timeout: timeout}, Auth: auth}
}

// ----- DTOs -----

type registerReq struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
}
type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
type refreshReq struct {
	RefreshToken string `json:"refreshToken"`
}

// Register: create the account and sign it in.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	ctx, cancel := h.ctx(c)
	defer cancel()

	s, err := h.Auth.Register(ctx, service.RegisterInput{
		Name: req.Name, Email: req.Email, Password: req.Password, Phone: req.Phone,
	})
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(http.StatusCreated, toSession(s))
}

// Login: verify credentials and return a new token pair.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	ctx, cancel := h.ctx(c)
	defer cancel()

	s, err := h.Auth.Login(ctx, req.Email, req.Password)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(http.StatusOK, toSession(s))
}

// Refresh: revoke the presented refresh token and issue a new pair.
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	ctx, cancel := h.ctx(c)
	defer cancel()

	s, err := h.Auth.Refresh(ctx, req.RefreshToken)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(http.StatusOK, toSession(s))
}

// Logout: revoke the given refresh token, or all of the caller's tokens when
// the body names none and a bearer token is present.
func (h *AuthHandler) Logout(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	ctx, cancel := h.ctx(c)
	defer cancel()

	if err := h.Auth.Logout(ctx, identity(c).UserID, req.RefreshToken); err != nil {
		return h.respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Me returns the authenticated user.
func (h *AuthHandler) Me(c echo.Context) error {
	ctx, cancel := h.ctx(c)
	defer cancel()

	u, err := h.Auth.Me(ctx, identity(c))
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(http.StatusOK, toUser(u))
}
