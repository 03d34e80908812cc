package router

import (
	"os"

	"github.com/labstack/echo/v4"

	"github.com/Nisharg-K/Pickle-Broker-Sports-Ground-Booking-Platform/internal/handler"
	"github.com/Nisharg-K/Pickle-Broker-Sports-Ground-Booking-Platform/internal/middleware"
)

// RegisterRoutes registers the probes.
func RegisterRoutes(e *echo.Echo, ready *handler.Readiness) {
	e.GET("/healthz", handler.Health)
	if ready != nil {
		e.GET("/readyz", ready.Ready)
	}
}

// RegisterStatic serves uploaded files under /uploads and, when publicDir
// exists, the web client from /.
func RegisterStatic(e *echo.Echo, uploadDir, publicDir string) {
	e.Static("/uploads", uploadDir)
	if publicDir == "" {
		return
	}
	if fi, err := os.Stat(publicDir); err == nil && fi.IsDir() {
		e.Static("/", publicDir)
	}
}

// RegisterAuth registers the account endpoints.  Register, login and refresh
// need no session; logout reads one when present so an empty body signs the
// user out everywhere; /api/me requires one.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/api")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/logout", a.Logout, middleware.OptionalJWT(jwtSecret))

	g.GET("/me", a.Me, middleware.JWTAuth(jwtSecret))
}

// RegisterPublic registers the catalog browse endpoints.  List and detail go
// through the response cache; availability is always computed live.
func RegisterPublic(e *echo.Echo, h *handler.GroundHandler, cache echo.MiddlewareFunc) {
	g := e.Group("/api/grounds")
	if cache != nil {
		g.GET("", h.List, cache)
		g.GET("/:id", h.Get, cache)
	} else {
		g.GET("", h.List)
		g.GET("/:id", h.Get)
	}
	g.GET("/:id/availability/:date", h.Availability)
}
