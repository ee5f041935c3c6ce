package billing

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/frontdesk/frontdesk/internal/platform/apperr"
	"github.com/frontdesk/frontdesk/pkg/numeric"
)

// Status is the payment state of a bill.
type Status string

const (
	StatusUnpaid  Status = "unpaid"
	StatusPaid    Status = "paid"
	StatusPartial Status = "partial"
)

func (s Status) Valid() bool {
	switch s {
	case StatusUnpaid, StatusPaid, StatusPartial:
		return true
	}
	return false
}

// Bill maps to the bill table.
type Bill struct {
	ID        uuid.UUID `db:"id" json:"id"`
	PatientID uuid.UUID `db:"patient_id" json:"patientId"`
	Services  string    `db:"services" json:"services"`
	Amount    float64   `db:"amount" json:"amount"`
	Status    Status    `db:"status" json:"status"`
	Date      time.Time `db:"date" json:"date"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`

	Patient *Patient `json:"patient"`
}

// InvoiceNumber is the short printed reference of the bill.
func (b *Bill) InvoiceNumber() string {
	return "INV-" + strings.ToUpper(strings.ReplaceAll(b.ID.String(), "-", "")[:8])
}

// Patient is the billed patient.
type Patient struct {
	ID        uuid.UUID `json:"id"`
	PatientID string    `json:"patientId"`
	MRID      *string   `json:"mrId"`
	Name      string    `json:"name"`
	Age       int       `json:"age"`
	Gender    string    `json:"gender"`
	Contact   string    `json:"contact"`
}

// MaxAmount is the largest amount the NUMERIC(12,2) columns hold.
const MaxAmount = 9999999999.99

// Input is the writable part of a bill. Status defaults to unpaid and Date
// to the creation instant.
type Input struct {
	PatientID uuid.UUID        `json:"patientId" form:"patientId"`
	Services  string           `json:"services" form:"services"`
	Amount    *numeric.Decimal `json:"amount" form:"amount"`
	Status    Status           `json:"status" form:"status"`
	Date      *time.Time       `json:"date" form:"date"`
}

func (in *Input) Validate() error {
	var missing []string
	if in.PatientID == uuid.Nil {
		missing = append(missing, "patientId")
	}
	return validateCharge(missing, in.Services, in.Amount, &in.Status)
}

// Apply copies a validated input onto b.
func (in *Input) Apply(b *Bill, now time.Time) {
	b.PatientID = in.PatientID
	applyCharge(b, in.Services, in.Amount, in.Status, in.Date, now)
}

// UpdateInput edits a bill in place. The billed patient never changes.
type UpdateInput struct {
	Services string           `json:"services" form:"services"`
	Amount   *numeric.Decimal `json:"amount" form:"amount"`
	Status   Status           `json:"status" form:"status"`
	Date     *time.Time       `json:"date" form:"date"`
}

func (in *UpdateInput) Validate() error {
	return validateCharge(nil, in.Services, in.Amount, &in.Status)
}

// Apply copies a validated input onto b, keeping b.PatientID.
func (in *UpdateInput) Apply(b *Bill, now time.Time) {
	applyCharge(b, in.Services, in.Amount, in.Status, in.Date, now)
}

func validateCharge(missing []string, services string, amount *numeric.Decimal, status *Status) error {
	if strings.TrimSpace(services) == "" {
		missing = append(missing, "services")
	}
	if amount == nil {
		missing = append(missing, "amount")
	}
	if len(missing) > 0 {
		return apperr.Validation("missing required fields: %s", strings.Join(missing, ", "))
	}
	if *amount < 0 {
		return apperr.Validation("amount must not be negative")
	}
	if *amount > MaxAmount {
		return apperr.Validation("amount must not exceed %.2f", MaxAmount)
	}
	if *status == "" {
		*status = StatusUnpaid
	}
	if !status.Valid() {
		return apperr.Validation("status must be one of %s, %s, %s", StatusUnpaid, StatusPaid, StatusPartial)
	}
	return nil
}

func applyCharge(b *Bill, services string, amount *numeric.Decimal, status Status, date *time.Time, now time.Time) {
	b.Services = strings.TrimSpace(services)
	b.Amount = numeric.Round2(amount.Float64())
	b.Status = status
	if date != nil {
		b.Date = *date
	} else if b.Date.IsZero() {
		b.Date = now
	}
}

// Summary totals bills by status.
type Summary struct {
	Count        int     `json:"count"`
	Total        float64 `json:"total"`
	Paid         float64 `json:"paid"`
	Unpaid       float64 `json:"unpaid"`
	Partial      float64 `json:"partial"`
	PaidCount    int     `json:"paidCount"`
	UnpaidCount  int     `json:"unpaidCount"`
	PartialCount int     `json:"partialCount"`
}

// Add folds one bill into the summary. Totals stay rounded to cents.
func (s *Summary) Add(status Status, amount float64) {
	s.Count++
	s.Total = numeric.Round2(s.Total + amount)
	switch status {
	case StatusPaid:
		s.Paid = numeric.Round2(s.Paid + amount)
		s.PaidCount++
	case StatusUnpaid:
		s.Unpaid = numeric.Round2(s.Unpaid + amount)
		s.UnpaidCount++
	case StatusPartial:
		s.Partial = numeric.Round2(s.Partial + amount)
		s.PartialCount++
	}
}
