package documents

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/frontdesk/frontdesk/internal/platform/apperr"
	"github.com/frontdesk/frontdesk/internal/platform/placeholder"
)

// Doctor is the assigned doctor attached to a template.
type Doctor struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Specialization string    `json:"specialization"`
	Phone          string    `json:"phone"`
	Email          string    `json:"email"`
}

// Patient is the subject attached to a report.
type Patient struct {
	ID        uuid.UUID `json:"id"`
	PatientID string    `json:"patientId"`
	MRID      *string   `json:"mrId"`
	Name      string    `json:"name"`
	Age       int       `json:"age"`
	Gender    string    `json:"gender"`
	Contact   string    `json:"contact"`
}

func (p *Patient) subject() placeholder.Subject {
	return placeholder.Subject{Name: p.Name, Age: p.Age, Gender: p.Gender}
}

// ReportTemplate is reusable report text containing placeholder tokens.
type ReportTemplate struct {
	ID              uuid.UUID  `json:"id"`
	Name            string     `json:"name"`
	ContentTemplate string     `json:"contentTemplate"`
	DoctorID        *uuid.UUID `json:"doctorId"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`

	Doctor *Doctor `json:"doctor"`
}

// Report is a generated document. Content is a snapshot and does not follow
// later edits to the template.
type Report struct {
	ID          uuid.UUID `json:"id"`
	PatientID   uuid.UUID `json:"patientId"`
	TemplateID  uuid.UUID `json:"templateId"`
	Content     string    `json:"content"`
	GeneratedAt time.Time `json:"generatedAt"`

	Patient  *Patient        `json:"patient"`
	Template *ReportTemplate `json:"template"`
}

type TemplateInput struct {
	Name            string     `json:"name"`
	ContentTemplate string     `json:"contentTemplate"`
	DoctorID        *uuid.UUID `json:"doctorId"`
}

func (in *TemplateInput) Validate() error {
	var missing []string
	if strings.TrimSpace(in.Name) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(in.ContentTemplate) == "" {
		missing = append(missing, "contentTemplate")
	}
	if len(missing) > 0 {
		return apperr.Validation("missing required fields: %s", strings.Join(missing, ", "))
	}
	return nil
}

func (in *TemplateInput) Apply(t *ReportTemplate) {
	t.Name = strings.TrimSpace(in.Name)
	t.ContentTemplate = in.ContentTemplate
	t.DoctorID = nil
	if in.DoctorID != nil && *in.DoctorID != uuid.Nil {
		id := *in.DoctorID
		t.DoctorID = &id
	}
}

// ReportInput creates a report. An empty Content renders the template
// against the patient.
type ReportInput struct {
	PatientID  uuid.UUID `json:"patientId"`
	TemplateID uuid.UUID `json:"templateId"`
	Content    string    `json:"content"`
}

func (in *ReportInput) Validate() error {
	var missing []string
	if in.PatientID == uuid.Nil {
		missing = append(missing, "patientId")
	}
	if in.TemplateID == uuid.Nil {
		missing = append(missing, "templateId")
	}
	if len(missing) > 0 {
		return apperr.Validation("missing required fields: %s", strings.Join(missing, ", "))
	}
	return nil
}

// ContentInput replaces the stored content of a report.
type ContentInput struct {
	Content *string `json:"content"`
}

func (in *ContentInput) Validate() error {
	if in.Content == nil || strings.TrimSpace(*in.Content) == "" {
		return apperr.Validation("missing required fields: content")
	}
	return nil
}

// Preview is an unsaved rendering of a template.
type Preview struct {
	TemplateID uuid.UUID `json:"templateId"`
	PatientID  uuid.UUID `json:"patientId"`
	Content    string    `json:"content"`
	RenderedAt time.Time `json:"renderedAt"`
}
