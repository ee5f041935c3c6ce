package documents

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/frontdesk/frontdesk/internal/platform/apperr"
	"github.com/frontdesk/frontdesk/pkg/pagination"
)

// -- Mock Repositories --

type mockStore struct {
	templates map[uuid.UUID]*ReportTemplate
	reports   map[uuid.UUID]*Report
	patients  map[uuid.UUID]*Patient
	doctors   map[uuid.UUID]*Doctor
}

func newMockStore() *mockStore {
	return &mockStore{
		templates: make(map[uuid.UUID]*ReportTemplate),
		reports:   make(map[uuid.UUID]*Report),
		patients:  make(map[uuid.UUID]*Patient),
		doctors:   make(map[uuid.UUID]*Doctor),
	}
}

func (m *mockStore) addPatient(name string, age int, gender string) *Patient {
	p := &Patient{ID: uuid.New(), PatientID: "PAT-00001", Name: name, Age: age, Gender: gender}
	m.patients[p.ID] = p
	return p
}

func (m *mockStore) addDoctor(name string) *Doctor {
	d := &Doctor{ID: uuid.New(), Name: name, Specialization: "Radiology"}
	m.doctors[d.ID] = d
	return d
}

type mockTemplateRepo struct{ *mockStore }

func (m mockTemplateRepo) Create(_ context.Context, t *ReportTemplate) error {
	if t.DoctorID != nil && m.doctors[*t.DoctorID] == nil {
		return apperr.Validation("doctor does not exist")
	}
	t.ID = uuid.New()
	t.CreatedAt = time.Now()
	t.UpdatedAt = t.CreatedAt
	cp := *t
	m.templates[t.ID] = &cp
	return nil
}

func (m mockTemplateRepo) GetByID(_ context.Context, id uuid.UUID) (*ReportTemplate, error) {
	t, ok := m.templates[id]
	if !ok {
		return nil, apperr.NotFound("template")
	}
	return m.withDoctor(t), nil
}

func (m mockTemplateRepo) Update(_ context.Context, t *ReportTemplate) error {
	existing, ok := m.templates[t.ID]
	if !ok {
		return apperr.NotFound("template")
	}
	t.CreatedAt = existing.CreatedAt
	t.UpdatedAt = time.Now()
	cp := *t
	m.templates[t.ID] = &cp
	return nil
}

func (m mockTemplateRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.templates[id]; !ok {
		return apperr.NotFound("template")
	}
	for _, r := range m.reports {
		if r.TemplateID == id {
			return apperr.Validation("template does not exist or is still used by reports")
		}
	}
	delete(m.templates, id)
	return nil
}

func (m mockTemplateRepo) List(_ context.Context, f TemplateFilter, _ pagination.Params) ([]*ReportTemplate, int, error) {
	var out []*ReportTemplate
	for _, t := range m.templates {
		if f.DoctorID != uuid.Nil && (t.DoctorID == nil || *t.DoctorID != f.DoctorID) {
			continue
		}
		out = append(out, m.withDoctor(t))
	}
	return out, len(out), nil
}

func (m *mockStore) withDoctor(t *ReportTemplate) *ReportTemplate {
	cp := *t
	if t.DoctorID != nil {
		cp.Doctor = m.doctors[*t.DoctorID]
	}
	return &cp
}

type mockReportRepo struct{ *mockStore }

func (m mockReportRepo) Create(_ context.Context, r *Report) error {
	r.ID = uuid.New()
	cp := *r
	m.reports[r.ID] = &cp
	return nil
}

func (m mockReportRepo) GetByID(_ context.Context, id uuid.UUID) (*Report, error) {
	r, ok := m.reports[id]
	if !ok {
		return nil, apperr.NotFound("report")
	}
	cp := *r
	cp.Patient = m.patients[r.PatientID]
	cp.Template = m.withDoctor(m.templates[r.TemplateID])
	return &cp, nil
}

func (m mockReportRepo) UpdateContent(_ context.Context, id uuid.UUID, content string) error {
	r, ok := m.reports[id]
	if !ok {
		return apperr.NotFound("report")
	}
	r.Content = content
	return nil
}

func (m mockReportRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.reports[id]; !ok {
		return apperr.NotFound("report")
	}
	delete(m.reports, id)
	return nil
}

func (m mockReportRepo) List(ctx context.Context, f ReportFilter, _ pagination.Params) ([]*Report, int, error) {
	var out []*Report
	for id, r := range m.reports {
		if f.PatientID != uuid.Nil && r.PatientID != f.PatientID {
			continue
		}
		if f.TemplateID != uuid.Nil && r.TemplateID != f.TemplateID {
			continue
		}
		rep, _ := m.GetByID(ctx, id)
		out = append(out, rep)
	}
	return out, len(out), nil
}

type mockPatientReader struct{ *mockStore }

func (m mockPatientReader) GetPatient(_ context.Context, id uuid.UUID) (*Patient, error) {
	p, ok := m.patients[id]
	if !ok {
		return nil, apperr.NotFound("patient")
	}
	cp := *p
	return &cp, nil
}

// 2024-03-05 22:30 UTC is 06-03-2024 in PKT.
var fixedNow = time.Date(2024, 3, 5, 22, 30, 0, 0, time.UTC)

func newTestService() (*Service, *mockStore) {
	store := newMockStore()
	svc := NewService(mockTemplateRepo{store}, mockReportRepo{store}, mockPatientReader{store})
	svc.now = func() time.Time { return fixedNow }
	return svc, store
}

const xrayTemplate = "X-Ray report for [PATIENT_NAME] ([PATIENT_AGE]/[PATIENT_GENDER]) on [DATE]\n[ ] Normal"

// -- Template Tests --

func TestTemplateInput_Validate(t *testing.T) {
	tests := []struct {
		name    string
		in      TemplateInput
		wantErr bool
	}{
		{"valid", TemplateInput{Name: "X-Ray", ContentTemplate: "body"}, false},
		{"missing name", TemplateInput{ContentTemplate: "body"}, true},
		{"missing content", TemplateInput{Name: "X-Ray", ContentTemplate: "  "}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.in.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestService_CreateTemplate_AttachesDoctor(t *testing.T) {
	svc, store := newTestService()
	d := store.addDoctor("Dr. Khan")

	tmpl, err := svc.CreateTemplate(context.Background(), &TemplateInput{
		Name: "X-Ray", ContentTemplate: xrayTemplate, DoctorID: &d.ID,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tmpl.Doctor == nil || tmpl.Doctor.Name != "Dr. Khan" {
		t.Errorf("expected doctor to be attached, got %+v", tmpl.Doctor)
	}
}

func TestService_CreateTemplate_NilDoctorIDClearsAssignment(t *testing.T) {
	svc, _ := newTestService()
	nilID := uuid.Nil
	tmpl, err := svc.CreateTemplate(context.Background(), &TemplateInput{
		Name: "General", ContentTemplate: "body", DoctorID: &nilID,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tmpl.DoctorID != nil || tmpl.Doctor != nil {
		t.Error("expected template without doctor")
	}
}

func TestService_UpdateTemplate_NotFound(t *testing.T) {
	svc, _ := newTestService()
	_, err := svc.UpdateTemplate(context.Background(), uuid.New(), &TemplateInput{Name: "a", ContentTemplate: "b"})
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestService_DeleteTemplate_InUse(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()
	p := store.addPatient("Ali", 42, "Male")
	tmpl, _ := svc.CreateTemplate(ctx, &TemplateInput{Name: "X-Ray", ContentTemplate: xrayTemplate})
	if _, err := svc.CreateReport(ctx, &ReportInput{PatientID: p.ID, TemplateID: tmpl.ID}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := svc.DeleteTemplate(ctx, tmpl.ID); !apperr.Is(err, apperr.KindConflict) {
		t.Errorf("expected conflict, got %v", err)
	}
	if err := svc.DeleteTemplate(ctx, uuid.New()); !apperr.Is(err, apperr.KindNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestService_PreviewTemplate(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()
	p := store.addPatient("Ali", 42, "Male")
	tmpl, _ := svc.CreateTemplate(ctx, &TemplateInput{Name: "X-Ray", ContentTemplate: xrayTemplate})

	preview, err := svc.PreviewTemplate(ctx, tmpl.ID, p.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "X-Ray report for Ali (42/Male) on 06-03-2024\n[ ] Normal"
	if preview.Content != want {
		t.Errorf("Content = %q, want %q", preview.Content, want)
	}
	if len(store.reports) != 0 {
		t.Error("preview must not store a report")
	}

	if _, err := svc.PreviewTemplate(ctx, tmpl.ID, uuid.New()); !apperr.Is(err, apperr.KindValidation) {
		t.Errorf("expected validation error for unknown patient, got %v", err)
	}
}

// -- Report Tests --

func TestService_CreateReport_RendersTemplateWhenContentEmpty(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()
	p := store.addPatient("Sara", 29, "Female")
	tmpl, _ := svc.CreateTemplate(ctx, &TemplateInput{Name: "X-Ray", ContentTemplate: xrayTemplate})

	r, err := svc.CreateReport(ctx, &ReportInput{PatientID: p.ID, TemplateID: tmpl.ID})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "X-Ray report for Sara (29/Female) on 06-03-2024\n[ ] Normal"
	if r.Content != want {
		t.Errorf("Content = %q, want %q", r.Content, want)
	}
	if !r.GeneratedAt.Equal(fixedNow) {
		t.Errorf("GeneratedAt = %s, want %s", r.GeneratedAt, fixedNow)
	}
	if r.Patient == nil || r.Template == nil {
		t.Error("expected patient and template to be attached")
	}
}

func TestService_CreateReport_KeepsExplicitContent(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()
	p := store.addPatient("Sara", 29, "Female")
	tmpl, _ := svc.CreateTemplate(ctx, &TemplateInput{Name: "X-Ray", ContentTemplate: xrayTemplate})

	edited := "Edited by clinician for [PATIENT_NAME]"
	r, err := svc.CreateReport(ctx, &ReportInput{PatientID: p.ID, TemplateID: tmpl.ID, Content: edited})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Content != edited {
		t.Errorf("expected content stored verbatim, got %q", r.Content)
	}
}

func TestService_CreateReport_TemplateEditsDoNotChangeStoredReports(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()
	p := store.addPatient("Ali", 42, "Male")
	tmpl, _ := svc.CreateTemplate(ctx, &TemplateInput{Name: "X-Ray", ContentTemplate: xrayTemplate})
	r, _ := svc.CreateReport(ctx, &ReportInput{PatientID: p.ID, TemplateID: tmpl.ID})

	if _, err := svc.UpdateTemplate(ctx, tmpl.ID, &TemplateInput{Name: "X-Ray v2", ContentTemplate: "Completely new text"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := svc.GetReport(ctx, r.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Content != r.Content {
		t.Errorf("stored content changed: %q", got.Content)
	}
	if got.Template.Name != "X-Ray v2" {
		t.Errorf("expected attached template to be current, got %q", got.Template.Name)
	}
}

func TestService_CreateReport_UnknownReferences(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()
	p := store.addPatient("Ali", 42, "Male")
	tmpl, _ := svc.CreateTemplate(ctx, &TemplateInput{Name: "X-Ray", ContentTemplate: xrayTemplate})

	tests := []struct {
		name string
		in   ReportInput
	}{
		{"missing fields", ReportInput{}},
		{"unknown template", ReportInput{PatientID: p.ID, TemplateID: uuid.New()}},
		{"unknown patient", ReportInput{PatientID: uuid.New(), TemplateID: tmpl.ID}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateReport(ctx, &tt.in)
			if !apperr.Is(err, apperr.KindValidation) {
				t.Errorf("expected validation error, got %v", err)
			}
		})
	}
}

func TestService_UpdateReportContent(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()
	p := store.addPatient("Ali", 42, "Male")
	tmpl, _ := svc.CreateTemplate(ctx, &TemplateInput{Name: "X-Ray", ContentTemplate: xrayTemplate})
	r, _ := svc.CreateReport(ctx, &ReportInput{PatientID: p.ID, TemplateID: tmpl.ID})

	content := "Impression: no acute findings."
	updated, err := svc.UpdateReportContent(ctx, r.ID, &ContentInput{Content: &content})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Content != content {
		t.Errorf("Content = %q", updated.Content)
	}
	if updated.PatientID != r.PatientID || updated.TemplateID != r.TemplateID || !updated.GeneratedAt.Equal(r.GeneratedAt) {
		t.Error("only content may change")
	}

	blank := "   "
	if _, err := svc.UpdateReportContent(ctx, r.ID, &ContentInput{Content: &blank}); !apperr.Is(err, apperr.KindValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
	if _, err := svc.UpdateReportContent(ctx, uuid.New(), &ContentInput{Content: &content}); !apperr.Is(err, apperr.KindNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestService_ListReports_FilterByPatient(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()
	ali := store.addPatient("Ali", 42, "Male")
	sara := store.addPatient("Sara", 29, "Female")
	tmpl, _ := svc.CreateTemplate(ctx, &TemplateInput{Name: "X-Ray", ContentTemplate: xrayTemplate})
	svc.CreateReport(ctx, &ReportInput{PatientID: ali.ID, TemplateID: tmpl.ID})
	svc.CreateReport(ctx, &ReportInput{PatientID: sara.ID, TemplateID: tmpl.ID})

	reports, total, err := svc.ListReports(ctx, ReportFilter{PatientID: sara.ID}, pagination.Params{Limit: 20})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 1 || !strings.Contains(reports[0].Content, "Sara") {
		t.Errorf("unexpected reports %+v", reports)
	}
}

func TestService_DeleteReport_NotFound(t *testing.T) {
	svc, _ := newTestService()
	if err := svc.DeleteReport(context.Background(), uuid.New()); !apperr.Is(err, apperr.KindNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
}
