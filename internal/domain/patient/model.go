package patient

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/frontdesk/frontdesk/internal/platform/apperr"
	"github.com/frontdesk/frontdesk/pkg/numeric"
)

const (
	MinAge = 0
	MaxAge = 150
)

// Patient maps to the patient table. PatientID is assigned once at creation
// and never changes.
type Patient struct {
	ID             uuid.UUID `db:"id" json:"id"`
	PatientID      string    `db:"patient_id" json:"patientId"`
	MRID           *string   `db:"mr_id" json:"mrId"`
	Name           string    `db:"name" json:"name"`
	Age            int       `db:"age" json:"age"`
	Gender         string    `db:"gender" json:"gender"`
	Contact        string    `db:"contact" json:"contact"`
	Address        string    `db:"address" json:"address"`
	MedicalHistory string    `db:"medical_history" json:"medicalHistory"`
	DoctorName     *string   `db:"doctor_name" json:"doctorName"`
	Department     *string   `db:"department" json:"department"`
	CreatedAt      time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt      time.Time `db:"updated_at" json:"updatedAt"`

	Reports []*Report `json:"reports"`
	Bills   []*Bill   `json:"bills"`
}

// Report is a generated report as listed under its patient.
type Report struct {
	ID          uuid.UUID `json:"id"`
	PatientID   uuid.UUID `json:"patientId"`
	TemplateID  uuid.UUID `json:"templateId"`
	Content     string    `json:"content"`
	GeneratedAt time.Time `json:"generatedAt"`
	Template    *Template `json:"template"`
}

// Template is the report template a listed report was generated from.
type Template struct {
	ID              uuid.UUID  `json:"id"`
	Name            string     `json:"name"`
	ContentTemplate string     `json:"contentTemplate"`
	DoctorID        *uuid.UUID `json:"doctorId"`
}

// Bill is a bill as listed under its patient.
type Bill struct {
	ID        uuid.UUID `json:"id"`
	PatientID uuid.UUID `json:"patientId"`
	Services  string    `json:"services"`
	Amount    float64   `json:"amount"`
	Status    string    `json:"status"`
	Date      time.Time `json:"date"`
}

// Input is the writable part of a patient. Age is a pointer so a missing age
// can be told apart from zero; it also accepts the string a form field sends.
type Input struct {
	MRID           *string      `json:"mrId" form:"mrId"`
	Name           string       `json:"name" form:"name"`
	Age            *numeric.Int `json:"age" form:"age"`
	Gender         string       `json:"gender" form:"gender"`
	Contact        string       `json:"contact" form:"contact"`
	Address        string       `json:"address" form:"address"`
	MedicalHistory string       `json:"medicalHistory" form:"medicalHistory"`
	DoctorName     *string      `json:"doctorName" form:"doctorName"`
	Department     *string      `json:"department" form:"department"`
}

// Validate checks required fields and the age range.
func (in *Input) Validate() error {
	var missing []string
	if strings.TrimSpace(in.Name) == "" {
		missing = append(missing, "name")
	}
	if in.Age == nil {
		missing = append(missing, "age")
	}
	if strings.TrimSpace(in.Gender) == "" {
		missing = append(missing, "gender")
	}
	if strings.TrimSpace(in.Contact) == "" {
		missing = append(missing, "contact")
	}
	if strings.TrimSpace(in.Address) == "" {
		missing = append(missing, "address")
	}
	if len(missing) > 0 {
		return apperr.Validation("missing required fields: %s", strings.Join(missing, ", "))
	}
	if *in.Age < MinAge || *in.Age > MaxAge {
		return apperr.Validation("age must be between %d and %d", MinAge, MaxAge)
	}
	return nil
}

// Apply copies the input onto p. Blank optional strings become NULL.
func (in *Input) Apply(p *Patient) {
	p.MRID = optional(in.MRID)
	p.Name = strings.TrimSpace(in.Name)
	if in.Age != nil {
		p.Age = in.Age.Int()
	}
	p.Gender = strings.TrimSpace(in.Gender)
	p.Contact = strings.TrimSpace(in.Contact)
	p.Address = strings.TrimSpace(in.Address)
	p.MedicalHistory = in.MedicalHistory
	p.DoctorName = optional(in.DoctorName)
	p.Department = optional(in.Department)
}

func optional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
