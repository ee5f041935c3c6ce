package doctor

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/frontdesk/frontdesk/internal/platform/apperr"
)

func newTestHandler() (*Handler, *echo.Echo) {
	return NewHandler(newTestService()), echo.New()
}

const doctorBody = `{"name":"Dr. Sara","specialization":"Pathology","phone":"0311","email":"sara@example.com","qualifications":"MBBS"}`

func postDoctor(h *Handler, e *echo.Echo, body string) (*httptest.ResponseRecorder, error) {
	req := httptest.NewRequest(http.MethodPost, "/doctors", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return rec, h.CreateDoctor(e.NewContext(req, rec))
}

func TestHandler_CreateDoctor(t *testing.T) {
	h, e := newTestHandler()
	rec, err := postDoctor(h, e, doctorBody)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", rec.Code)
	}
	var d Doctor
	json.Unmarshal(rec.Body.Bytes(), &d)
	if d.Name != "Dr. Sara" {
		t.Errorf("expected Dr. Sara, got %s", d.Name)
	}
}

func TestHandler_CreateDoctor_DuplicateEmail(t *testing.T) {
	h, e := newTestHandler()
	postDoctor(h, e, doctorBody)

	_, err := postDoctor(h, e, doctorBody)
	if apperr.StatusOf(apperr.KindOf(err)) != http.StatusConflict {
		t.Errorf("expected 409, got %v", err)
	}
}

func TestHandler_CreateDoctor_MissingFields(t *testing.T) {
	h, e := newTestHandler()
	_, err := postDoctor(h, e, `{"name":"Dr. Sara"}`)
	if !apperr.Is(err, apperr.KindValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestHandler_GetDoctor_NotFound(t *testing.T) {
	h, e := newTestHandler()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	c.SetParamNames("id")
	c.SetParamValues(uuid.New().String())

	if err := h.GetDoctor(c); !apperr.Is(err, apperr.KindNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestHandler_ListDoctors_Empty(t *testing.T) {
	h, e := newTestHandler()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/doctors", nil), rec)

	if err := h.ListDoctors(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(rec.Body.String(), `"data":[]`) {
		t.Errorf("expected empty data array, got %s", rec.Body.String())
	}
}
