package payment

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/frontdesk/frontdesk/internal/platform/apperr"
	"github.com/frontdesk/frontdesk/pkg/numeric"
)

// DoctorPayment records money paid out to a doctor.
type DoctorPayment struct {
	ID        uuid.UUID `json:"id"`
	DoctorID  uuid.UUID `json:"doctorId"`
	Amount    float64   `json:"amount"`
	Notes     string    `json:"notes"`
	Date      time.Time `json:"date"`
	CreatedAt time.Time `json:"createdAt"`

	Doctor *Doctor `json:"doctor"`
}

// Doctor is the payee attached to a payment.
type Doctor struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Specialization string    `json:"specialization"`
	Phone          string    `json:"phone"`
	Email          string    `json:"email"`
}

// MaxAmount is the largest amount doctor_payment.amount NUMERIC(12,2) holds.
const MaxAmount = 9999999999.99

// Input carries the writable fields of a payment. A nil Date defaults to the
// creation instant.
type Input struct {
	DoctorID uuid.UUID        `json:"doctorId" form:"doctorId"`
	Amount   *numeric.Decimal `json:"amount" form:"amount"`
	Notes    string           `json:"notes" form:"notes"`
	Date     *time.Time       `json:"date" form:"date"`
}

func (in *Input) Validate() error {
	var missing []string
	if in.DoctorID == uuid.Nil {
		missing = append(missing, "doctorId")
	}
	if in.Amount == nil {
		missing = append(missing, "amount")
	}
	if len(missing) > 0 {
		return apperr.Validation("missing required fields: %s", strings.Join(missing, ", "))
	}
	if *in.Amount < 0 {
		return apperr.Validation("amount must not be negative")
	}
	if *in.Amount > MaxAmount {
		return apperr.Validation("amount must not exceed %.2f", MaxAmount)
	}
	return nil
}

func (in *Input) Apply(p *DoctorPayment, now time.Time) {
	p.DoctorID = in.DoctorID
	p.Amount = numeric.Round2(in.Amount.Float64())
	p.Notes = strings.TrimSpace(in.Notes)
	if in.Date != nil {
		p.Date = *in.Date
	} else if p.Date.IsZero() {
		p.Date = now
	}
}

// DoctorTotal is the paid-out sum for one doctor.
type DoctorTotal struct {
	DoctorID       uuid.UUID `json:"doctorId"`
	DoctorName     string    `json:"doctorName"`
	Specialization string    `json:"specialization"`
	Count          int       `json:"count"`
	Total          float64   `json:"total"`
}

// Summary totals payments overall and per doctor, largest total first.
type Summary struct {
	Count   int            `json:"count"`
	Total   float64        `json:"total"`
	Doctors []*DoctorTotal `json:"doctors"`
}
