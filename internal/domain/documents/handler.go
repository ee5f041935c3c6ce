package documents

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/frontdesk/frontdesk/internal/platform/apperr"
	"github.com/frontdesk/frontdesk/internal/platform/placeholder"
	"github.com/frontdesk/frontdesk/internal/platform/printout"
	"github.com/frontdesk/frontdesk/pkg/pagination"
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
	g.GET("/templates", h.ListTemplates)
	g.POST("/templates", h.CreateTemplate)
	g.GET("/templates/placeholders", h.ListPlaceholders)
	g.GET("/templates/:id", h.GetTemplate)
	g.PUT("/templates/:id", h.UpdateTemplate)
	g.DELETE("/templates/:id", h.DeleteTemplate)
	g.GET("/templates/:id/render", h.PreviewTemplate)

	g.GET("/reports", h.ListReports)
	g.POST("/reports", h.CreateReport)
	g.GET("/reports/:id", h.GetReport)
	g.PUT("/reports/:id", h.UpdateReport)
	g.DELETE("/reports/:id", h.DeleteReport)
	g.GET("/reports/:id/print", h.PrintReport)
	g.GET("/reports/:id/pdf", h.DownloadReport)
}

// -- Report Template Handlers --

func (h *Handler) CreateTemplate(c echo.Context) error {
	var in TemplateInput
	if err := c.Bind(&in); err != nil {
		return apperr.Bind(err)
	}
	t, err := h.svc.CreateTemplate(c.Request().Context(), &in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, t)
}

func (h *Handler) GetTemplate(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	t, err := h.svc.GetTemplate(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, t)
}

func (h *Handler) ListTemplates(c echo.Context) error {
	var f TemplateFilter
	if v := c.QueryParam("doctorId"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return apperr.Validation("invalid doctorId")
		}
		f.DoctorID = id
	}
	p := pagination.FromContext(c)
	templates, total, err := h.svc.ListTemplates(c.Request().Context(), f, p)
	if err != nil {
		return err
	}
	if templates == nil {
		templates = []*ReportTemplate{}
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(templates, total, p.Limit, p.Offset))
}

func (h *Handler) UpdateTemplate(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var in TemplateInput
	if err := c.Bind(&in); err != nil {
		return apperr.Bind(err)
	}
	t, err := h.svc.UpdateTemplate(c.Request().Context(), id, &in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, t)
}

func (h *Handler) DeleteTemplate(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := h.svc.DeleteTemplate(c.Request().Context(), id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "template deleted"})
}

func (h *Handler) PreviewTemplate(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	patientID, err := uuid.Parse(c.QueryParam("patientId"))
	if err != nil {
		return apperr.Validation("patientId is required")
	}
	p, err := h.svc.PreviewTemplate(c.Request().Context(), id, patientID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) ListPlaceholders(c echo.Context) error {
	return c.JSON(http.StatusOK, placeholder.Tokens())
}

// -- Report Handlers --

func (h *Handler) CreateReport(c echo.Context) error {
	var in ReportInput
	if err := c.Bind(&in); err != nil {
		return apperr.Bind(err)
	}
	r, err := h.svc.CreateReport(c.Request().Context(), &in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, r)
}

func (h *Handler) GetReport(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	r, err := h.svc.GetReport(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, r)
}

func (h *Handler) ListReports(c echo.Context) error {
	var f ReportFilter
	if v := c.QueryParam("patientId"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return apperr.Validation("invalid patientId")
		}
		f.PatientID = id
	}
	if v := c.QueryParam("templateId"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return apperr.Validation("invalid templateId")
		}
		f.TemplateID = id
	}
	p := pagination.FromContext(c)
	reports, total, err := h.svc.ListReports(c.Request().Context(), f, p)
	if err != nil {
		return err
	}
	if reports == nil {
		reports = []*Report{}
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(reports, total, p.Limit, p.Offset))
}

func (h *Handler) UpdateReport(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var in ContentInput
	if err := c.Bind(&in); err != nil {
		return apperr.Bind(err)
	}
	r, err := h.svc.UpdateReportContent(c.Request().Context(), id, &in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, r)
}

func (h *Handler) DeleteReport(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := h.svc.DeleteReport(c.Request().Context(), id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "report deleted"})
}

func (h *Handler) PrintReport(c echo.Context) error {
	doc, err := h.report(c)
	if err != nil {
		return err
	}
	return c.Blob(http.StatusOK, printout.ContentType, []byte(h.printer.Report(doc)))
}

// DownloadReport serves the report as Report_<patient name>_<date>.pdf.
func (h *Handler) DownloadReport(c echo.Context) error {
	doc, err := h.report(c)
	if err != nil {
		return err
	}
	pdf, err := h.printer.ReportPDF(doc)
	if err != nil {
		return apperr.Internal("render report", err)
	}
	return printout.SendPDF(c, printout.ReportFilename(doc.PatientName, h.now()), pdf)
}

func (h *Handler) report(c echo.Context) (printout.Report, error) {
	id, err := parseID(c)
	if err != nil {
		return printout.Report{}, err
	}
	r, err := h.svc.GetReport(c.Request().Context(), id)
	if err != nil {
		return printout.Report{}, err
	}
	doc := printout.Report{Content: r.Content, GeneratedAt: r.GeneratedAt}
	if r.Template != nil {
		doc.Title = r.Template.Name
		if d := r.Template.Doctor; d != nil {
			doc.DoctorName = d.Name
			doc.Specialization = d.Specialization
		}
	}
	if p := r.Patient; p != nil {
		doc.PatientID = p.PatientID
		doc.PatientName = p.Name
		doc.Age = p.Age
		doc.Gender = p.Gender
		doc.Contact = p.Contact
	}
	return doc, nil
}

func parseID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, apperr.Validation("invalid id")
	}
	return id, nil
}
