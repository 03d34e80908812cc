package middleware

// identity.go holds the context keys JWTAuth fills in and the accessors
// handlers and the other middlewares read them through.

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

const (
	ctxUserID  = "user_id"
	ctxIsAdmin = "is_admin"
)

// UserID returns the authenticated user's id, or 0 for anonymous requests.
func UserID(c echo.Context) uint64 {
	id, _ := c.Get(ctxUserID).(uint64)
	return id
}

// IsAdmin reports whether the request carries an admin identity.
func IsAdmin(c echo.Context) bool {
	admin, _ := c.Get(ctxIsAdmin).(bool)
	return admin
}

// userKey is the rate limiter's view of the caller.
func userKey(c echo.Context) string {
	if id := UserID(c); id != 0 {
		return strconv.FormatUint(id, 10)
	}
	return "anon"
}
