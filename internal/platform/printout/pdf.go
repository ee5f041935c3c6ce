package printout

import (
	"bytes"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/labstack/echo/v4"

	"github.com/frontdesk/frontdesk/pkg/pktime"
)

// PDFContentType is served with downloaded documents.
const PDFContentType = "application/pdf"

const pdfMargin = 20.0

var unsafeFilename = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// InvoiceFilename is Invoice_<patient id>_<ddMMyyyy>.pdf, dated in PKT.
func InvoiceFilename(patientID string, day time.Time) string {
	return fmt.Sprintf("Invoice_%s_%s.pdf", safeName(patientID), pktime.FormatFileDate(day))
}

// ReportFilename is Report_<patient name>_<ddMMyyyy>.pdf, dated in PKT.
func ReportFilename(patientName string, day time.Time) string {
	return fmt.Sprintf("Report_%s_%s.pdf", safeName(patientName), pktime.FormatFileDate(day))
}

// SendPDF serves a rendered document as a download.
func SendPDF(c echo.Context, filename string, pdf []byte) error {
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Blob(http.StatusOK, PDFContentType, pdf)
}

func safeName(s string) string {
	s = strings.Trim(unsafeFilename.ReplaceAllString(strings.TrimSpace(s), "_"), "_")
	if s == "" {
		return "unknown"
	}
	return s
}

type pdfDoc struct {
	*fpdf.Fpdf
	tr    func(string) string
	width float64
}

func newPDF(p *Printer) *pdfDoc {
	f := fpdf.New("P", "mm", "A4", "")
	f.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	f.SetAutoPageBreak(true, pdfMargin)
	f.SetCreationDate(p.now())
	f.SetTitle(p.Facility, true)
	f.AddPage()
	w, _ := f.GetPageSize()
	return &pdfDoc{Fpdf: f, tr: f.UnicodeTranslatorFromDescriptor(""), width: w}
}

// text writes one line across the content width at y.
func (d *pdfDoc) text(y float64, s, align string) {
	d.SetXY(pdfMargin, y)
	d.CellFormat(d.width-2*pdfMargin, 6, d.tr(s), "", 0, align, false, 0, "")
}

func (d *pdfDoc) rule(y float64) {
	d.SetDrawColor(0, 0, 0)
	d.SetLineWidth(0.5)
	d.Line(pdfMargin, y, d.width-pdfMargin, y)
}

func (d *pdfDoc) bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := d.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// InvoicePDF renders an A4 invoice.
func (p *Printer) InvoicePDF(inv Invoice) ([]byte, error) {
	d := newPDF(p)

	d.SetFont("Helvetica", "B", 20)
	d.text(15, strings.ToUpper(p.Facility), "C")
	d.SetFont("Helvetica", "", 12)
	d.text(23, "Pakistan", "C")
	d.SetFont("Helvetica", "B", 16)
	d.text(35, "INVOICE", "C")
	d.rule(45)

	d.SetFont("Helvetica", "", 10)
	d.text(50, "Invoice No: "+inv.Number, "L")
	d.text(50, "Patient ID: "+inv.PatientID, "R")
	d.text(56, "Invoice Date: "+pktime.FormatDate(inv.Date), "L")

	d.SetFont("Helvetica", "B", 12)
	d.text(66, "Patient Information:", "L")
	d.SetFont("Helvetica", "", 10)
	d.text(74, "Name: "+inv.PatientName, "L")
	d.text(81, "Contact: "+inv.Contact, "L")
	d.rule(92)

	d.SetFont("Helvetica", "B", 12)
	d.text(100, "Services & Charges:", "L")
	d.SetFont("Helvetica", "", 10)
	y := 110.0
	for _, line := range strings.Split(inv.Services, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		d.SetXY(pdfMargin+5, y)
		d.MultiCell(d.width-2*pdfMargin-5, 6, d.tr(strings.TrimRight(line, " \r")), "", "L", false)
		y = d.GetY() + 1
	}
	d.rule(y + 3)

	r, g, b := statusColor(inv.Status)
	d.SetFont("Helvetica", "B", 11)
	d.SetTextColor(r, g, b)
	d.text(y+9, "Status: "+strings.ToUpper(inv.Status), "L")
	d.SetTextColor(0, 0, 0)
	d.SetFont("Helvetica", "B", 14)
	d.text(y+9, "Total Amount: "+FormatAmount(inv.Amount), "R")

	d.SetFont("Helvetica", "I", 9)
	d.text(y+29, "Thank you for choosing "+p.Facility, "C")
	d.text(y+35, "For queries, please contact hospital reception", "C")
	d.text(y+41, "Printed "+pktime.FormatDateTime(p.now()), "C")
	return d.bytes()
}

// ReportPDF renders a medical report with the doctor's signature block when a
// doctor is set.
func (p *Printer) ReportPDF(r Report) ([]byte, error) {
	d := newPDF(p)

	d.SetFont("Helvetica", "B", 18)
	d.text(15, strings.ToUpper(p.Facility), "C")
	d.SetFont("Helvetica", "", 12)
	title := "Medical Report"
	if r.Title != "" {
		title += " - " + r.Title
	}
	d.text(25, title, "C")

	d.SetFont("Helvetica", "", 10)
	d.text(40, "Patient: "+r.PatientName, "L")
	d.text(40, "Patient ID: "+r.PatientID, "R")
	d.text(47, fmt.Sprintf("Age: %d  Gender: %s", r.Age, r.Gender), "L")
	d.text(54, "Contact: "+r.Contact, "L")
	d.text(61, "Date: "+pktime.FormatDate(r.GeneratedAt), "L")
	d.rule(70)

	d.SetFont("Helvetica", "", 11)
	d.SetXY(pdfMargin, 78)
	d.MultiCell(d.width-2*pdfMargin, 5, d.tr(strings.TrimRight(r.Content, "\n")), "", "L", false)

	if r.DoctorName != "" {
		y := d.GetY() + 20
		d.SetFont("Helvetica", "", 10)
		d.text(y, "Dr. "+strings.TrimPrefix(r.DoctorName, "Dr. "), "R")
		d.text(y+5, r.Specialization, "R")
	}
	return d.bytes()
}

func statusColor(status string) (int, int, int) {
	switch status {
	case "paid":
		return 34, 197, 94
	case "unpaid":
		return 239, 68, 68
	default:
		return 234, 179, 8
	}
}
