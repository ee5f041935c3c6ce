package auth

import (
	"fmt"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/frontdesk/frontdesk/internal/platform/apperr"
)

// RequireRole returns middleware that allows only sessions holding one of
// roles. It must run after Gate.
func RequireRole(roles ...Role) echo.MiddlewareFunc {
	names := make([]string, len(roles))
	for i, r := range roles {
		names[i] = string(r)
	}
	denied := fmt.Sprintf("required role: %s", strings.Join(names, " or "))

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			s, err := CurrentSession(c)
			if err != nil {
				return err
			}
			if HasRole(s, roles...) {
				return next(c)
			}
			return apperr.Forbidden(denied)
		}
	}
}

// HasRole reports whether s holds one of roles.
func HasRole(s *Session, roles ...Role) bool {
	if s == nil {
		return false
	}
	for _, r := range roles {
		if s.Role == r {
			return true
		}
	}
	return false
}
