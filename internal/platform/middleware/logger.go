package middleware

import (
	"errors"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/frontdesk/frontdesk/internal/platform/apperr"
)

// Logger writes one structured line per request. Client errors are logged at
// warn level and server errors at error level, with the handler's error.
func Logger(logger zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			req := c.Request()

			err := next(c)

			rid, _ := c.Get("request_id").(string)
			username, _ := c.Get("username").(string)

			// The error handler has not run yet; report the status it will send.
			status := errorStatus(err, c.Response().Status)

			evt := logger.Info()
			switch {
			case status >= 500:
				evt = logger.Error().Err(err)
			case err != nil:
				evt = logger.Warn().Err(err)
			}

			evt.
				Str("request_id", rid).
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Int("status", status).
				Dur("latency", time.Since(start)).
				Str("remote_ip", c.RealIP()).
				Str("username", username).
				Msg("request")

			return err
		}
	}
}

// errorStatus returns the status the error handler will send for err, or
// fallback when err is nil.
func errorStatus(err error, fallback int) int {
	if err == nil {
		return fallback
	}
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code
	}
	return apperr.StatusOf(apperr.KindOf(err))
}
