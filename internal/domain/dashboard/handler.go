package dashboard

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/frontdesk/frontdesk/internal/platform/apperr"
	"github.com/frontdesk/frontdesk/pkg/pktime"
)

// Handler provides HTTP handlers for the dashboard API.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.GET("/dashboard", h.Overview)
	g.GET("/dashboard/measures", h.ListMeasures)
	g.GET("/dashboard/measures/:id", h.EvaluateMeasure)
}

// Overview returns today's figures. ?date=yyyy-mm-dd selects another PKT day.
func (h *Handler) Overview(c echo.Context) error {
	day, err := dayFromQuery(c)
	if err != nil {
		return err
	}
	o, err := h.svc.Overview(c.Request().Context(), day)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, o)
}

func (h *Handler) ListMeasures(c echo.Context) error {
	return c.JSON(http.StatusOK, PredefinedMeasures)
}

func (h *Handler) EvaluateMeasure(c echo.Context) error {
	day, err := dayFromQuery(c)
	if err != nil {
		return err
	}
	r, err := h.svc.Evaluate(c.Request().Context(), c.Param("id"), day)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, r)
}

func dayFromQuery(c echo.Context) (time.Time, error) {
	v := c.QueryParam("date")
	if v == "" {
		return time.Time{}, nil
	}
	day, err := time.ParseInLocation("2006-01-02", v, pktime.Location)
	if err != nil {
		return time.Time{}, apperr.Validation("date must be yyyy-mm-dd")
	}
	return day, nil
}
