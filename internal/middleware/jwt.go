package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Nisharg-K/Pickle-Broker-Sports-Ground-Booking-Platform/internal/utils"
)

// JWTAuth validates the Bearer access token and stores the caller's id and
// admin flag in the context, where UserID and IsAdmin read them.
func JWTAuth(secret string) echo.MiddlewareFunc {
	return bearerAuth(secret, true)
}

// OptionalJWT is JWTAuth for endpoints that also serve anonymous callers.
// A request without a bearer token passes through with no identity; a
// token that is present must still be valid.
func OptionalJWT(secret string) echo.MiddlewareFunc {
	return bearerAuth(secret, false)
}

func bearerAuth(secret string, required bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get(echo.HeaderAuthorization)
			if !strings.HasPrefix(auth, "Bearer ") {
				if !required && auth == "" {
					return next(c)
				}
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}
			raw := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))

			claims, err := utils.ParseAccessToken(secret, raw)
			if err != nil || claims.UserID == 0 {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}

			c.Set(ctxUserID, claims.UserID)
			c.Set(ctxIsAdmin, claims.IsAdmin)
			return next(c)
		}
	}
}
