package patient

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/frontdesk/frontdesk/internal/platform/apperr"
	"github.com/frontdesk/frontdesk/internal/platform/export"
	"github.com/frontdesk/frontdesk/internal/platform/printout"
	"github.com/frontdesk/frontdesk/pkg/pagination"
	"github.com/frontdesk/frontdesk/pkg/pktime"
)

type Handler struct {
	svc     *Service
	printer *printout.Printer
	now     func() time.Time
}

func NewHandler(svc *Service, printer *printout.Printer) *Handler {
	return &Handler{svc: svc, printer: printer, now: time.Now}
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.GET("/patients", h.ListPatients)
	g.POST("/patients", h.CreatePatient)
	g.GET("/patients/export", h.ExportPatients)
	g.GET("/patients/:id", h.GetPatient)
	g.PUT("/patients/:id", h.UpdatePatient)
	g.DELETE("/patients/:id", h.DeletePatient)
	g.GET("/patients/:id/slip", h.PrintSlip)
}

func (h *Handler) CreatePatient(c echo.Context) error {
	var in Input
	if err := c.Bind(&in); err != nil {
		return apperr.Bind(err)
	}
	p, err := h.svc.CreatePatient(c.Request().Context(), &in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, p)
}

func (h *Handler) GetPatient(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	p, err := h.svc.GetPatient(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) ListPatients(c echo.Context) error {
	p := pagination.FromContext(c)
	patients, total, err := h.svc.ListPatients(c.Request().Context(), p)
	if err != nil {
		return err
	}
	if patients == nil {
		patients = []*Patient{}
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(patients, total, p.Limit, p.Offset))
}

func (h *Handler) UpdatePatient(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var in Input
	if err := c.Bind(&in); err != nil {
		return apperr.Bind(err)
	}
	p, err := h.svc.UpdatePatient(c.Request().Context(), id, &in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) DeletePatient(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := h.svc.DeletePatient(c.Request().Context(), id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "patient deleted"})
}

func (h *Handler) PrintSlip(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	p, err := h.svc.GetPatient(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.Blob(http.StatusOK, printout.ContentType, []byte(h.printer.Slip(printout.Slip{
		PatientID:    p.PatientID,
		MRID:         deref(p.MRID),
		Name:         p.Name,
		Age:          p.Age,
		Gender:       p.Gender,
		Contact:      p.Contact,
		Address:      p.Address,
		DoctorName:   deref(p.DoctorName),
		Department:   deref(p.Department),
		RegisteredAt: p.CreatedAt,
	})))
}

func (h *Handler) ExportPatients(c echo.Context) error {
	patients, err := h.svc.AllPatients(c.Request().Context())
	if err != nil {
		return err
	}
	sheet := export.NewSheet("Patients",
		export.Column{Header: "Patient ID", Width: 14},
		export.Column{Header: "MR ID", Width: 14},
		export.Column{Header: "Name", Width: 25},
		export.Column{Header: "Age", Width: 8},
		export.Column{Header: "Gender", Width: 10},
		export.Column{Header: "Contact", Width: 16},
		export.Column{Header: "Address", Width: 30},
		export.Column{Header: "Doctor", Width: 20},
		export.Column{Header: "Department", Width: 18},
		export.Column{Header: "Registered", Width: 20},
	)
	for _, p := range patients {
		sheet.AddRow(p.PatientID, deref(p.MRID), p.Name, p.Age, p.Gender, p.Contact, p.Address,
			deref(p.DoctorName), deref(p.Department), pktime.FormatDateTime(p.CreatedAt))
	}
	return export.Send(c, sheet, export.Filename("patients", h.now()))
}

func parseID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, apperr.Validation("invalid id")
	}
	return id, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
