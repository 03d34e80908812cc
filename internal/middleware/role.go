package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Nisharg-K/Pickle-Broker-Sports-Ground-Booking-Platform/internal/model"
	"github.com/Nisharg-K/Pickle-Broker-Sports-Ground-Booking-Platform/internal/repository"
)

// UserLookup is the slice of the user store RequireAdmin needs.
type UserLookup interface {
	GetByID(ctx context.Context, id uint64) (model.User, error)
}

// RequireAdmin lets the request through only when the authenticated user is
// currently an admin.  The flag is read from the store rather than the token
// so a demotion takes effect before the access token expires.  It must run
// after JWTAuth.
func RequireAdmin(users UserLookup) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := UserID(c)
			if id == 0 {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}
			u, err := users.GetByID(c.Request().Context(), id)
			switch {
			case errors.Is(err, repository.ErrNotFound):
				return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
			case err != nil:
				return err
			case !u.IsAdmin:
				c.Set(ctxIsAdmin, false)
				return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
			}
			c.Set(ctxIsAdmin, true)
			return next(c)
		}
	}
}
