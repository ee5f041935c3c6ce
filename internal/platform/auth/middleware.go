package auth

import (
	"context"

	"github.com/labstack/echo/v4"

	"github.com/frontdesk/frontdesk/internal/platform/apperr"
)

type contextKey string

const SessionKey contextKey = "session"

// ContextWithSession stores s in ctx.
func ContextWithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, SessionKey, s)
}

// SessionFromContext returns the session stored by Gate, or nil.
func SessionFromContext(ctx context.Context) *Session {
	s, _ := ctx.Value(SessionKey).(*Session)
	return s
}

// UsernameFromContext returns the acting username, or "" when anonymous.
func UsernameFromContext(ctx context.Context) string {
	if s := SessionFromContext(ctx); s != nil {
		return s.Username
	}
	return ""
}

// Gate resolves the session for every request outside the public allow-list.
// Requests without a valid session fail with Unauthorized; the error handler
// turns that into a redirect to the login page for browser navigations.
func Gate(m *Manager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			if IsPublicPath(req.URL.Path) {
				// Public pages still see the session when there is one.
				if s := m.Resolve(req); s != nil {
					setSession(c, s)
				}
				return next(c)
			}

			s, err := m.RequireAuthenticated(req)
			if err != nil {
				return err
			}
			setSession(c, s)
			return next(c)
		}
	}
}

func setSession(c echo.Context, s *Session) {
	c.SetRequest(c.Request().WithContext(ContextWithSession(c.Request().Context(), s)))
	c.Set("username", s.Username)
	c.Set("role", string(s.Role))
}

// CurrentSession returns the session for c or fails with Unauthorized.
func CurrentSession(c echo.Context) (*Session, error) {
	s := SessionFromContext(c.Request().Context())
	if s == nil {
		return nil, apperr.Unauthorized("authentication required")
	}
	return s, nil
}
