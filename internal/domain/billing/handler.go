package billing

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
	g.GET("/bills", h.ListBills)
	g.POST("/bills", h.CreateBill)
	g.GET("/bills/summary", h.Summary)
	g.GET("/bills/export", h.ExportBills)
	g.GET("/bills/:id", h.GetBill)
	g.PUT("/bills/:id", h.UpdateBill)
	g.DELETE("/bills/:id", h.DeleteBill)
	g.GET("/bills/:id/invoice", h.PrintInvoice)
	g.GET("/bills/:id/invoice.pdf", h.DownloadInvoice)
}

func (h *Handler) CreateBill(c echo.Context) error {
	var in Input
	if err := c.Bind(&in); err != nil {
		return apperr.Bind(err)
	}
	b, err := h.svc.CreateBill(c.Request().Context(), &in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, b)
}

func (h *Handler) GetBill(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	b, err := h.svc.GetBill(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, b)
}

func (h *Handler) ListBills(c echo.Context) error {
	f, err := filterFromQuery(c)
	if err != nil {
		return err
	}
	p := pagination.FromContext(c)
	bills, total, err := h.svc.ListBills(c.Request().Context(), f, p)
	if err != nil {
		return err
	}
	if bills == nil {
		bills = []*Bill{}
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(bills, total, p.Limit, p.Offset))
}

func (h *Handler) UpdateBill(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var in UpdateInput
	if err := c.Bind(&in); err != nil {
		return apperr.Bind(err)
	}
	b, err := h.svc.UpdateBill(c.Request().Context(), id, &in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, b)
}

func (h *Handler) DeleteBill(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := h.svc.DeleteBill(c.Request().Context(), id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "bill deleted"})
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

func (h *Handler) PrintInvoice(c echo.Context) error {
	inv, err := h.invoice(c)
	if err != nil {
		return err
	}
	return c.Blob(http.StatusOK, printout.ContentType, []byte(h.printer.Invoice(inv)))
}

// DownloadInvoice serves the invoice as Invoice_<patient id>_<date>.pdf.
func (h *Handler) DownloadInvoice(c echo.Context) error {
	inv, err := h.invoice(c)
	if err != nil {
		return err
	}
	pdf, err := h.printer.InvoicePDF(inv)
	if err != nil {
		return apperr.Internal("render invoice", err)
	}
	return printout.SendPDF(c, printout.InvoiceFilename(inv.PatientID, h.now()), pdf)
}

func (h *Handler) invoice(c echo.Context) (printout.Invoice, error) {
	id, err := parseID(c)
	if err != nil {
		return printout.Invoice{}, err
	}
	b, err := h.svc.GetBill(c.Request().Context(), id)
	if err != nil {
		return printout.Invoice{}, err
	}
	inv := printout.Invoice{
		Number:   b.InvoiceNumber(),
		Services: b.Services,
		Amount:   b.Amount,
		Status:   string(b.Status),
		Date:     b.Date,
	}
	if b.Patient != nil {
		inv.PatientID = b.Patient.PatientID
		inv.PatientName = b.Patient.Name
		inv.Contact = b.Patient.Contact
	}
	return inv, nil
}

func (h *Handler) ExportBills(c echo.Context) error {
	f, err := filterFromQuery(c)
	if err != nil {
		return err
	}
	bills, err := h.svc.AllBills(c.Request().Context(), f)
	if err != nil {
		return err
	}
	sheet := export.NewSheet("Bills",
		export.Column{Header: "Invoice", Width: 14},
		export.Column{Header: "Date", Width: 12},
		export.Column{Header: "Patient ID", Width: 14},
		export.Column{Header: "Patient", Width: 25},
		export.Column{Header: "Services", Width: 45},
		export.Column{Header: "Amount", Width: 12},
		export.Column{Header: "Status", Width: 10},
	)
	var sum Summary
	for _, b := range bills {
		var pid, name string
		if b.Patient != nil {
			pid, name = b.Patient.PatientID, b.Patient.Name
		}
		sheet.AddRow(b.InvoiceNumber(), pktime.FormatDate(b.Date), pid, name, b.Services, b.Amount, string(b.Status))
		sum.Add(b.Status, b.Amount)
	}
	sheet.AddRow()
	sheet.AddRow(nil, nil, nil, nil, "Total", sum.Total)
	sheet.AddRow(nil, nil, nil, nil, "Paid", sum.Paid)
	sheet.AddRow(nil, nil, nil, nil, "Unpaid", sum.Unpaid)
	sheet.AddRow(nil, nil, nil, nil, "Partial", sum.Partial)
	return export.Send(c, sheet, export.Filename("bills", h.now()))
}

func filterFromQuery(c echo.Context) (Filter, error) {
	var f Filter
	if v := c.QueryParam("patientId"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return f, apperr.Validation("invalid patientId")
		}
		f.PatientID = id
	}
	if v := c.QueryParam("status"); v != "" {
		f.Status = Status(v)
		if !f.Status.Valid() {
			return f, apperr.Validation("status must be one of %s, %s, %s", StatusUnpaid, StatusPaid, StatusPartial)
		}
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
