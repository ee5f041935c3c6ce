package billing

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/frontdesk/frontdesk/internal/platform/apperr"
	"github.com/frontdesk/frontdesk/internal/platform/export"
	"github.com/frontdesk/frontdesk/internal/platform/printout"
)

func newTestHandler() (*Handler, *mockRepo, *echo.Echo) {
	svc, repo := newTestService()
	h := NewHandler(svc, printout.New(""))
	h.now = svc.now
	return h, repo, echo.New()
}

func TestHandler_CreateBill(t *testing.T) {
	h, repo, e := newTestHandler()
	pid := repo.addPatient("Ali")

	body := `{"patientId":"` + pid.String() + `","services":"X-Ray","amount":1200}`
	req := httptest.NewRequest(http.MethodPost, "/bills", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	if err := h.CreateBill(e.NewContext(req, rec)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"status":"unpaid"`) {
		t.Errorf("expected unpaid default, got %s", rec.Body.String())
	}
}

func TestHandler_CreateBill_AmountAsString(t *testing.T) {
	h, repo, e := newTestHandler()
	pid := repo.addPatient("Ali")

	body := `{"patientId":"` + pid.String() + `","services":"X-Ray","amount":"1200.50"}`
	req := httptest.NewRequest(http.MethodPost, "/bills", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	if err := h.CreateBill(e.NewContext(req, rec)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(rec.Body.String(), `"amount":1200.5`) {
		t.Errorf("expected numeric amount, got %s", rec.Body.String())
	}
}

func TestHandler_CreateBill_AmountNotANumber(t *testing.T) {
	h, repo, e := newTestHandler()
	pid := repo.addPatient("Ali")

	body := `{"patientId":"` + pid.String() + `","services":"X-Ray","amount":"twelve"}`
	req := httptest.NewRequest(http.MethodPost, "/bills", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)

	err := h.CreateBill(e.NewContext(req, httptest.NewRecorder()))
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	var ae *apperr.Error
	if errors.As(err, &ae) && !strings.Contains(ae.Message, "twelve") {
		t.Errorf("expected the bad value in the message, got %q", ae.Message)
	}
}

func TestHandler_UpdateBill_MarkPaidWithoutPatient(t *testing.T) {
	h, repo, e := newTestHandler()
	pid := repo.addPatient("Ali")
	b, _ := h.svc.CreateBill(context.Background(), &Input{PatientID: pid, Services: "X-Ray", Amount: amount(1200)})

	body := `{"services":"X-Ray","amount":1200,"status":"paid"}`
	req := httptest.NewRequest(http.MethodPut, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(b.ID.String())

	if err := h.UpdateBill(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"status":"paid"`) || !strings.Contains(rec.Body.String(), pid.String()) {
		t.Errorf("expected paid bill for the same patient, got %s", rec.Body.String())
	}
}

func TestHandler_CreateBill_BadStatus(t *testing.T) {
	h, repo, e := newTestHandler()
	pid := repo.addPatient("Ali")

	body := `{"patientId":"` + pid.String() + `","services":"X-Ray","amount":1200,"status":"void"}`
	req := httptest.NewRequest(http.MethodPost, "/bills", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)

	if err := h.CreateBill(e.NewContext(req, httptest.NewRecorder())); !apperr.Is(err, apperr.KindValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestHandler_DeleteBill_NotFound(t *testing.T) {
	h, _, e := newTestHandler()
	c := e.NewContext(httptest.NewRequest(http.MethodDelete, "/", nil), httptest.NewRecorder())
	c.SetParamNames("id")
	c.SetParamValues(uuid.New().String())

	if err := h.DeleteBill(c); !apperr.Is(err, apperr.KindNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestHandler_ListBills_InvalidStatusFilter(t *testing.T) {
	h, _, e := newTestHandler()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/bills?status=void", nil), httptest.NewRecorder())

	if err := h.ListBills(c); !apperr.Is(err, apperr.KindValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestHandler_PrintInvoice(t *testing.T) {
	h, repo, e := newTestHandler()
	pid := repo.addPatient("Sara")
	b, _ := h.svc.CreateBill(context.Background(), &Input{PatientID: pid, Services: "CBC", Amount: amount(800)})

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	c.SetParamNames("id")
	c.SetParamValues(b.ID.String())

	if err := h.PrintInvoice(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := rec.Body.String()
	for _, want := range []string{b.InvoiceNumber(), "Sara", "CBC", "Rs. 800", "UNPAID"} {
		if !strings.Contains(out, want) {
			t.Errorf("invoice missing %q:\n%s", want, out)
		}
	}
}

func TestHandler_DownloadInvoice(t *testing.T) {
	h, repo, e := newTestHandler()
	pid := repo.addPatient("Sara")
	b, _ := h.svc.CreateBill(context.Background(), &Input{PatientID: pid, Services: "CBC", Amount: amount(800)})

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	c.SetParamNames("id")
	c.SetParamValues(b.ID.String())

	if err := h.DownloadInvoice(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := rec.Header().Get(echo.HeaderContentType); got != printout.PDFContentType {
		t.Errorf("unexpected content type %q", got)
	}
	want := `attachment; filename="Invoice_` + repo.patients[pid].PatientID + `_10052025.pdf"`
	if got := rec.Header().Get(echo.HeaderContentDisposition); got != want {
		t.Errorf("disposition = %q, want %q", got, want)
	}
	if !strings.HasPrefix(rec.Body.String(), "%PDF") {
		t.Error("expected a PDF body")
	}
}

func TestHandler_ExportBills(t *testing.T) {
	h, repo, e := newTestHandler()
	pid := repo.addPatient("Sara")
	h.svc.CreateBill(context.Background(), &Input{PatientID: pid, Services: "CBC", Amount: amount(800)})

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/bills/export", nil), rec)
	if err := h.ExportBills(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Header().Get(echo.HeaderContentType) != export.ContentType {
		t.Errorf("unexpected content type %q", rec.Header().Get(echo.HeaderContentType))
	}
	if !strings.Contains(rec.Header().Get(echo.HeaderContentDisposition), "bills-10052025.xlsx") {
		t.Errorf("unexpected disposition %q", rec.Header().Get(echo.HeaderContentDisposition))
	}
}
