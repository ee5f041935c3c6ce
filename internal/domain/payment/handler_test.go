package payment

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/frontdesk/frontdesk/internal/platform/apperr"
	"github.com/frontdesk/frontdesk/internal/platform/auth"
	"github.com/frontdesk/frontdesk/internal/platform/export"
)

func newTestHandler() (*Handler, *mockRepo, *echo.Echo) {
	svc, repo := newTestService()
	h := NewHandler(svc)
	h.now = svc.now
	return h, repo, echo.New()
}

// routedServer mounts the payment routes behind a fixed session.
func routedServer(h *Handler, role auth.Role) *echo.Echo {
	e := echo.New()
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		c.JSON(apperr.StatusOf(apperr.KindOf(err)), map[string]string{"error": err.Error()})
	}
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			s := &auth.Session{UserID: "u1", Username: "someone", Role: role}
			c.SetRequest(c.Request().WithContext(auth.ContextWithSession(c.Request().Context(), s)))
			return next(c)
		}
	})
	h.RegisterRoutes(e.Group(""))
	return e
}

func TestHandler_AdminOnly(t *testing.T) {
	h, _, _ := newTestHandler()

	tests := []struct {
		role auth.Role
		want int
	}{
		{auth.RoleAdmin, http.StatusOK},
		{auth.RoleUser1, http.StatusForbidden},
		{auth.RoleUser2, http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			e := routedServer(h, tt.role)
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/doctor-payments", nil))
			if rec.Code != tt.want {
				t.Errorf("expected %d, got %d", tt.want, rec.Code)
			}
		})
	}
}

func TestHandler_CreatePayment(t *testing.T) {
	h, repo, e := newTestHandler()
	doc := repo.addDoctor("Dr. Ahmed")

	body := `{"doctorId":"` + doc.String() + `","amount":7500,"notes":"January"}`
	req := httptest.NewRequest(http.MethodPost, "/doctor-payments", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	if err := h.CreatePayment(e.NewContext(req, rec)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"name":"Dr. Ahmed"`) {
		t.Errorf("expected doctor in body, got %s", rec.Body.String())
	}
}

func TestHandler_Summary_InvalidDoctorID(t *testing.T) {
	h, _, e := newTestHandler()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/doctor-payments/summary?doctorId=abc", nil), httptest.NewRecorder())

	if err := h.Summary(c); !apperr.Is(err, apperr.KindValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestHandler_ExportPayments(t *testing.T) {
	h, repo, e := newTestHandler()
	doc := repo.addDoctor("Dr. Ahmed")
	h.svc.CreatePayment(context.Background(), &Input{DoctorID: doc, Amount: amount(900)})

	rec := httptest.NewRecorder()
	if err := h.ExportPayments(e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Header().Get(echo.HeaderContentType) != export.ContentType {
		t.Errorf("unexpected content type %q", rec.Header().Get(echo.HeaderContentType))
	}
	if !strings.Contains(rec.Header().Get(echo.HeaderContentDisposition), "doctor-payments-14022025.xlsx") {
		t.Errorf("unexpected disposition %q", rec.Header().Get(echo.HeaderContentDisposition))
	}
}
