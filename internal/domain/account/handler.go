package account

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/frontdesk/frontdesk/internal/platform/apperr"
	"github.com/frontdesk/frontdesk/internal/platform/auth"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts account administration. Every route is Admin only.
func (h *Handler) RegisterRoutes(g *echo.Group) {
	admin := g.Group("/users", auth.RequireRole(auth.RoleAdmin))
	admin.GET("", h.ListUsers)
	admin.POST("", h.CreateUser)
	admin.PUT("/:username/password", h.ChangePassword)
}

type createUserRequest struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
	Role     string `json:"role" form:"role"`
}

type changePasswordRequest struct {
	Password string `json:"password" form:"password"`
}

func (h *Handler) ListUsers(c echo.Context) error {
	users, err := h.svc.ListUsers(c.Request().Context())
	if err != nil {
		return err
	}
	if users == nil {
		users = []*User{}
	}
	return c.JSON(http.StatusOK, users)
}

func (h *Handler) CreateUser(c echo.Context) error {
	var req createUserRequest
	if err := c.Bind(&req); err != nil {
		return apperr.Bind(err)
	}
	role, err := auth.ParseRole(req.Role)
	if err != nil {
		return apperr.Validation("role must be one of Admin, User1, User2")
	}
	u, err := h.svc.CreateUser(c.Request().Context(), req.Username, req.Password, role)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, u)
}

func (h *Handler) ChangePassword(c echo.Context) error {
	var req changePasswordRequest
	if err := c.Bind(&req); err != nil {
		return apperr.Bind(err)
	}
	if err := h.svc.ChangePassword(c.Request().Context(), c.Param("username"), req.Password); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "password updated"})
}
