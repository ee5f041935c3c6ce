package auth

import (
	"strings"

	"github.com/labstack/echo/v4"
)

// publicPaths lists URL paths reachable without a session: the login page,
// the authentication endpoints, static assets and health checks.
var publicPaths = map[string]bool{
	"/login":       true,
	"/auth/login":  true,
	"/auth/logout": true,
	"/favicon.ico": true,
	"/logo.jpg":    true,
	"/health":      true,
	"/health/db":   true,
}

// publicPrefixes lists path prefixes served without a session.
var publicPrefixes = []string{
	"/static/",
}

// IsPublicPath reports whether path bypasses the session gate.
func IsPublicPath(path string) bool {
	if publicPaths[path] {
		return true
	}
	for _, p := range publicPrefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

// AuthSkipper is an echo skipper for middleware that should not run on
// public paths.
func AuthSkipper(c echo.Context) bool {
	return IsPublicPath(c.Request().URL.Path)
}
