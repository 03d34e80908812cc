package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

// Health is the liveness probe.
func Health(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Readiness reports whether the backing services answer.  MySQL is required;
// Redis is optional and reported as "disabled" when not configured.
type Readiness struct {
	DB    Pinger
	Redis *redis.Client
}

func (r *Readiness) Ready(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	checks := echo.Map{}
	status := http.StatusOK
	if r.DB == nil {
		checks["mysql"] = "missing"
		status = http.StatusServiceUnavailable
	} else if err := r.DB.PingContext(ctx); err != nil {
		checks["mysql"] = err.Error()
		status = http.StatusServiceUnavailable
	} else {
		checks["mysql"] = "ok"
	}

	switch {
	case r.Redis == nil:
		checks["redis"] = "disabled"
	case r.Redis.Ping(ctx).Err() != nil:
		checks["redis"] = "unreachable"
	default:
		checks["redis"] = "ok"
	}
	return c.JSON(status, echo.Map{"checks": checks})
}
