package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Nisharg-K/Pickle-Broker-Sports-Ground-Booking-Platform/internal/middleware"
	"github.com/Nisharg-K/Pickle-Broker-Sports-Ground-Booking-Platform/internal/service"
)

const defaultTimeout = 5 * time.Second

// base carries what every handler needs: a logger for unexpected failures
// and the deadline applied to store calls.
type base struct {
	Log     *slog.Logger
	Timeout time.Duration
}

func (b base) ctx(c echo.Context) (context.Context, context.CancelFunc) {
	t := b.Timeout
	if t <= 0 {
		t = defaultTimeout
	}
	return context.WithTimeout(c.Request().Context(), t)
}

// respondError writes the JSON error body for err.  Anything that is not a
// known service error is logged and reported as 500 without details.
func (b base) respondError(c echo.Context, err error) error {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log := b.Log
		if log == nil {
			log = slog.Default()
		}
		log.Error("request failed",
			"err", err,
			"method", c.Request().Method,
			"path", c.Path(),
			"request_id", c.Response().Header().Get(echo.HeaderXRequestID))
		return c.JSON(status, echo.Map{"error": "internal server error"})
	}
	return c.JSON(status, echo.Map{"error": err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrValidation),
		errors.Is(err, service.ErrSlotUnavailable),
		errors.Is(err, service.ErrEmailTaken),
		errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrGroundInactive),
		errors.Is(err, service.ErrBookingCancelled),
		errors.Is(err, service.ErrAlreadyVerified):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrInvalidRefresh):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, service.ErrGroundNotFound),
		errors.Is(err, service.ErrBookingNotFound),
		errors.Is(err, service.ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrConflict):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
}

// identity reads the caller set by the auth middlewares.
func identity(c echo.Context) service.Identity {
	return service.Identity{UserID: middleware.UserID(c), IsAdmin: middleware.IsAdmin(c)}
}

// pathID parses a positive numeric path parameter.
func pathID(c echo.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	return id, err == nil && id > 0
}
