package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/frontdesk/frontdesk/internal/platform/apperr"
)

func newAuthServer(t *testing.T, m *Manager) *echo.Echo {
	t.Helper()
	e := echo.New()
	e.HTTPErrorHandler = apperr.HTTPErrorHandler(zerolog.Nop())
	e.Use(Gate(m))
	NewHandler(m, zerolog.Nop()).RegisterRoutes(e.Group("/auth"))
	return e
}

func postJSON(e *echo.Echo, path, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestHandler_LoginSuccess(t *testing.T) {
	m := newTestManager(t)
	e := newAuthServer(t, m)

	rec := postJSON(e, "/auth/login", `{"username":"admin","password":"secret123"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var s Session
	if err := json.Unmarshal(rec.Body.Bytes(), &s); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if s.Username != "admin" || s.Role != RoleAdmin || s.UserID != "u-admin" {
		t.Errorf("unexpected session body %+v", s)
	}
	if !strings.Contains(rec.Header().Get(echo.HeaderSetCookie), "session=") {
		t.Error("expected session cookie")
	}
}

func TestHandler_LoginFailures(t *testing.T) {
	m := newTestManager(t)
	e := newAuthServer(t, m)

	tests := []struct {
		name string
		body string
		want int
	}{
		{"wrong password", `{"username":"admin","password":"nope"}`, http.StatusUnauthorized},
		{"unknown user", `{"username":"ghost","password":"secret123"}`, http.StatusUnauthorized},
		{"missing password", `{"username":"admin"}`, http.StatusBadRequest},
		{"missing username", `{"password":"secret123"}`, http.StatusBadRequest},
		{"malformed body", `{"username":`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postJSON(e, "/auth/login", tt.body)
			if rec.Code != tt.want {
				t.Errorf("expected %d, got %d: %s", tt.want, rec.Code, rec.Body.String())
			}
			var body map[string]string
			json.Unmarshal(rec.Body.Bytes(), &body)
			if body["error"] == "" {
				t.Error("expected error message in body")
			}
			if rec.Header().Get(echo.HeaderSetCookie) != "" {
				t.Error("did not expect a cookie on failure")
			}
		})
	}
}

func TestHandler_MeAndLogout(t *testing.T) {
	rev := NewMemoryRevoker(time.Hour)
	defer rev.Close()
	m := newTestManager(t, func(c *ManagerConfig) { c.Revoker = rev })
	e := newAuthServer(t, m)

	login := postJSON(e, "/auth/login", `{"username":"user1","password":"secret123"}`)
	cookies := login.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected session cookie, got %d cookies", len(cookies))
	}

	me := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	me.AddCookie(cookies[0])
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, me)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"username":"user1"`) {
		t.Fatalf("expected current session, got %d %s", rec.Code, rec.Body.String())
	}

	out := postJSON(e, "/auth/logout", "", cookies[0])
	if out.Code != http.StatusOK {
		t.Fatalf("expected 200 on logout, got %d", out.Code)
	}
	if !strings.Contains(out.Header().Get(echo.HeaderSetCookie), "Max-Age=0") {
		t.Errorf("expected cleared cookie, got %q", out.Header().Get(echo.HeaderSetCookie))
	}

	again := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	again.AddCookie(cookies[0])
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, again)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected revoked token to be rejected, got %d", rec.Code)
	}
}

func TestHandler_LogoutWithoutSession(t *testing.T) {
	e := newAuthServer(t, newTestManager(t))
	rec := postJSON(e, "/auth/logout", "")
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}
