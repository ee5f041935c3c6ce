package payment

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/frontdesk/frontdesk/internal/platform/apperr"
	"github.com/frontdesk/frontdesk/internal/platform/auth"
	"github.com/frontdesk/frontdesk/internal/platform/export"
	"github.com/frontdesk/frontdesk/pkg/numeric"
	"github.com/frontdesk/frontdesk/pkg/pagination"
	"github.com/frontdesk/frontdesk/pkg/pktime"
)

type Handler struct {
	svc *Service
	now func() time.Time
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc, now: time.Now}
}

// RegisterRoutes mounts doctor payments. Every route is Admin only.
func (h *Handler) RegisterRoutes(g *echo.Group) {
	admin := g.Group("/doctor-payments", auth.RequireRole(auth.RoleAdmin))
	admin.GET("", h.ListPayments)
	admin.POST("", h.CreatePayment)
	admin.GET("/summary", h.Summary)
	admin.GET("/export", h.ExportPayments)
	admin.GET("/:id", h.GetPayment)
	admin.PUT("/:id", h.UpdatePayment)
	admin.DELETE("/:id", h.DeletePayment)
}

func (h *Handler) CreatePayment(c echo.Context) error {
	var in Input
	if err := c.Bind(&in); err != nil {
		return apperr.Bind(err)
	}
	p, err := h.svc.CreatePayment(c.Request().Context(), &in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, p)
}

func (h *Handler) GetPayment(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	p, err := h.svc.GetPayment(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) ListPayments(c echo.Context) error {
	f, err := filterFromQuery(c)
	if err != nil {
		return err
	}
	p := pagination.FromContext(c)
	payments, total, err := h.svc.ListPayments(c.Request().Context(), f, p)
	if err != nil {
		return err
	}
	if payments == nil {
		payments = []*DoctorPayment{}
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(payments, total, p.Limit, p.Offset))
}

func (h *Handler) UpdatePayment(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var in Input
	if err := c.Bind(&in); err != nil {
		return apperr.Bind(err)
	}
	p, err := h.svc.UpdatePayment(c.Request().Context(), id, &in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) DeletePayment(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := h.svc.DeletePayment(c.Request().Context(), id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "payment deleted"})
}

func (h *Handler) Summary(c echo.Context) error {
	f, err := filterFromQuery(c)
	if err != nil {
		return err
	}
	s, err := h.svc.Summary(c.Request().Context(), f)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, s)
}

func (h *Handler) ExportPayments(c echo.Context) error {
	f, err := filterFromQuery(c)
	if err != nil {
		return err
	}
	payments, err := h.svc.AllPayments(c.Request().Context(), f)
	if err != nil {
		return err
	}
	sheet := export.NewSheet("Doctor Payments",
		export.Column{Header: "Date", Width: 12},
		export.Column{Header: "Doctor", Width: 25},
		export.Column{Header: "Specialization", Width: 20},
		export.Column{Header: "Amount", Width: 12},
		export.Column{Header: "Notes", Width: 40},
	)
	var total float64
	for _, p := range payments {
		var name, spec string
		if p.Doctor != nil {
			name, spec = p.Doctor.Name, p.Doctor.Specialization
		}
		sheet.AddRow(pktime.FormatDate(p.Date), name, spec, p.Amount, p.Notes)
		total = numeric.Round2(total + p.Amount)
	}
	sheet.AddRow()
	sheet.AddRow(nil, nil, "Total", total)
	return export.Send(c, sheet, export.Filename("doctor-payments", h.now()))
}

func filterFromQuery(c echo.Context) (Filter, error) {
	var f Filter
	if v := c.QueryParam("doctorId"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return f, apperr.Validation("invalid doctorId")
		}
		f.DoctorID = id
	}
	return f, nil
}

func parseID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, apperr.Validation("invalid id")
	}
	return id, nil
}
