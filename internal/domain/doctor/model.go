package doctor

import (
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/frontdesk/frontdesk/internal/platform/apperr"
)

// Doctor maps to the doctor table.
type Doctor struct {
	ID             uuid.UUID `db:"id" json:"id"`
	Name           string    `db:"name" json:"name"`
	Specialization string    `db:"specialization" json:"specialization"`
	Phone          string    `db:"phone" json:"phone"`
	Email          string    `db:"email" json:"email"`
	Qualifications string    `db:"qualifications" json:"qualifications"`
	CreatedAt      time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt      time.Time `db:"updated_at" json:"updatedAt"`

	ReportTemplates []*ReportTemplate `json:"reportTemplates"`
}

// ReportTemplate is a template assigned to the doctor.
type ReportTemplate struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	ContentTemplate string    `json:"contentTemplate"`
	CreatedAt       time.Time `json:"createdAt"`
}

// Input is the writable part of a doctor. Every field is required.
type Input struct {
	Name           string `json:"name" form:"name"`
	Specialization string `json:"specialization" form:"specialization"`
	Phone          string `json:"phone" form:"phone"`
	Email          string `json:"email" form:"email"`
	Qualifications string `json:"qualifications" form:"qualifications"`
}

func (in *Input) Validate() error {
	fields := []struct{ name, value string }{
		{"name", in.Name},
		{"specialization", in.Specialization},
		{"phone", in.Phone},
		{"email", in.Email},
		{"qualifications", in.Qualifications},
	}
	var missing []string
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return apperr.Validation("missing required fields: %s", strings.Join(missing, ", "))
	}
	if _, err := mail.ParseAddress(strings.TrimSpace(in.Email)); err != nil {
		return apperr.Validation("invalid email address")
	}
	return nil
}

// Apply copies the input onto d. Emails are stored lower-case so uniqueness
// ignores case.
func (in *Input) Apply(d *Doctor) {
	d.Name = strings.TrimSpace(in.Name)
	d.Specialization = strings.TrimSpace(in.Specialization)
	d.Phone = strings.TrimSpace(in.Phone)
	d.Email = strings.ToLower(strings.TrimSpace(in.Email))
	d.Qualifications = strings.TrimSpace(in.Qualifications)
}
