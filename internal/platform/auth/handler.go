package auth

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/frontdesk/frontdesk/internal/platform/apperr"
)

// Handler serves login, logout and the current-session endpoint.
type Handler struct {
	mgr    *Manager
	logger zerolog.Logger
}

func NewHandler(mgr *Manager, logger zerolog.Logger) *Handler {
	return &Handler{mgr: mgr, logger: logger}
}

// RegisterRoutes mounts the endpoints on g. loginMW wraps only the login
// route, typically with a rate limiter.
func (h *Handler) RegisterRoutes(g *echo.Group, loginMW ...echo.MiddlewareFunc) {
	g.POST("/login", h.Login, loginMW...)
	g.POST("/logout", h.Logout)
	g.GET("/me", h.Me)
}

type loginRequest struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

func (h *Handler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return apperr.Bind(err)
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		return apperr.Validation("username and password are required")
	}

	s, err := h.mgr.Authenticate(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		if apperr.Is(err, apperr.KindUnauthorized) {
			h.logger.Warn().Str("username", req.Username).Str("remote_ip", c.RealIP()).Msg("login failed")
		}
		return err
	}

	if _, err := h.mgr.Issue(c.Response(), s); err != nil {
		return err
	}
	h.logger.Info().Str("username", s.Username).Str("role", string(s.Role)).Msg("login")
	return c.JSON(http.StatusOK, s)
}

func (h *Handler) Logout(c echo.Context) error {
	if err := h.mgr.Destroy(c.Response(), c.Request()); err != nil {
		// The cookie is already cleared; a failed revocation is logged only.
		h.logger.Error().Err(err).Msg("logout revocation failed")
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "logged out"})
}

func (h *Handler) Me(c echo.Context) error {
	s, err := CurrentSession(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, s)
}
