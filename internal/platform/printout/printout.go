// Package printout renders front-office documents: fixed-width plain text for
// the browser print dialog and A4 PDFs for download.
package printout

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/frontdesk/frontdesk/pkg/pktime"
)

// ContentType is served with every printout.
const ContentType = "text/plain; charset=utf-8"

// Width is the line width of every layout.
const Width = 64

// DefaultFacility heads printouts when no facility name is configured.
const DefaultFacility = "Ali Hospital"

// Printer renders documents under a facility heading.
type Printer struct {
	Facility string
	// Now stamps the "printed" footer; defaults to time.Now.
	Now func() time.Time
}

func New(facility string) *Printer {
	if strings.TrimSpace(facility) == "" {
		facility = DefaultFacility
	}
	return &Printer{Facility: facility, Now: time.Now}
}

// Slip is a patient registration slip.
type Slip struct {
	PatientID    string
	MRID         string
	Name         string
	Age          int
	Gender       string
	Contact      string
	Address      string
	DoctorName   string
	Department   string
	RegisteredAt time.Time
}

// Invoice is a single bill.
type Invoice struct {
	Number      string
	PatientID   string
	PatientName string
	Contact     string
	Services    string
	Amount      float64
	Status      string
	Date        time.Time
}

// Report is a generated medical report.
type Report struct {
	Title          string
	DoctorName     string
	Specialization string
	PatientID      string
	PatientName    string
	Age            int
	Gender         string
	Contact        string
	Content        string
	GeneratedAt    time.Time
}

func (p *Printer) Slip(s Slip) string {
	var b strings.Builder
	p.header(&b, "PATIENT DETAIL SLIP")
	field(&b, "Patient ID", s.PatientID)
	field(&b, "MR ID", s.MRID)
	field(&b, "Name", s.Name)
	field(&b, "Age", strconv.Itoa(s.Age)+" years")
	field(&b, "Gender", s.Gender)
	field(&b, "Contact", s.Contact)
	field(&b, "Address", s.Address)
	field(&b, "Doctor", s.DoctorName)
	field(&b, "Department", s.Department)
	field(&b, "Registered", pktime.FormatDateTime(s.RegisteredAt))
	p.footer(&b, p.Facility+" - Quality Healthcare for All")
	return b.String()
}

func (p *Printer) Invoice(inv Invoice) string {
	var b strings.Builder
	p.header(&b, "INVOICE")
	field(&b, "Invoice No", inv.Number)
	field(&b, "Date", pktime.FormatDate(inv.Date))
	field(&b, "Patient ID", inv.PatientID)
	field(&b, "Patient", inv.PatientName)
	field(&b, "Contact", inv.Contact)
	field(&b, "Status", strings.ToUpper(inv.Status))
	b.WriteString("\nServices\n")
	b.WriteString(rule('-'))
	for _, line := range strings.Split(strings.TrimSpace(inv.Services), "\n") {
		b.WriteString(strings.TrimRight(line, " \r"))
		b.WriteByte('\n')
	}
	b.WriteString(rule('-'))
	total := "Total Amount: " + FormatAmount(inv.Amount)
	b.WriteString(strings.Repeat(" ", max(0, Width-len(total))) + total + "\n")
	p.footer(&b, "Thank you for choosing "+p.Facility)
	return b.String()
}

func (p *Printer) Report(r Report) string {
	var b strings.Builder
	p.header(&b, "MEDICAL REPORT")
	field(&b, "Report", r.Title)
	field(&b, "Doctor", r.DoctorName)
	field(&b, "Specialization", r.Specialization)
	field(&b, "Patient ID", r.PatientID)
	field(&b, "Patient", r.PatientName)
	field(&b, "Age/Gender", fmt.Sprintf("%d / %s", r.Age, r.Gender))
	field(&b, "Generated", pktime.FormatDateTime(r.GeneratedAt))
	b.WriteByte('\n')
	b.WriteString(strings.TrimRight(r.Content, "\n"))
	b.WriteByte('\n')
	p.footer(&b, p.Facility)
	return b.String()
}

// FormatAmount renders a rupee amount with thousands separators:
// 12500 -> "Rs. 12,500", 99.5 -> "Rs. 99.50".
func FormatAmount(v float64) string {
	neg := v < 0
	if neg {
		v = -v
	}
	s := strconv.FormatFloat(v, 'f', 2, 64)
	whole, frac, _ := strings.Cut(s, ".")

	var grouped strings.Builder
	for i, d := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			grouped.WriteByte(',')
		}
		grouped.WriteRune(d)
	}
	out := grouped.String()
	if frac != "00" {
		out += "." + frac
	}
	if neg {
		out = "-" + out
	}
	return "Rs. " + out
}

func (p *Printer) header(b *strings.Builder, title string) {
	b.WriteString(rule('='))
	b.WriteString(center(strings.ToUpper(p.Facility)))
	b.WriteString(center(title))
	b.WriteString(rule('='))
}

func (p *Printer) footer(b *strings.Builder, line string) {
	b.WriteString(rule('='))
	b.WriteString(center(line))
	b.WriteString(center("Printed " + pktime.FormatDateTime(p.now())))
}

func (p *Printer) now() time.Time {
	if p.Now != nil {
		return p.Now()
	}
	return time.Now()
}

func field(b *strings.Builder, label, value string) {
	if strings.TrimSpace(value) == "" {
		value = "-"
	}
	fmt.Fprintf(b, "%-16s: %s\n", label, value)
}

func rule(ch byte) string {
	return strings.Repeat(string(ch), Width) + "\n"
}

func center(s string) string {
	pad := (Width - len(s)) / 2
	if pad < 0 {
		pad = 0
	}
	return strings.Repeat(" ", pad) + s + "\n"
}
