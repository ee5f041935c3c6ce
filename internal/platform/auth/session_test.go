package auth

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/frontdesk/frontdesk/internal/platform/apperr"
)

var testKey = []byte("0123456789abcdef0123456789abcdef")

type memCredentials struct {
	mu    sync.Mutex
	users map[string]*Credential
	err   error
}

func (m *memCredentials) LookupCredential(_ context.Context, username string) (*Credential, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	c, ok := m.users[username]
	if !ok {
		return nil, ErrCredentialNotFound
	}
	return c, nil
}

var (
	hashOnce sync.Once
	pwHash   string
)

func testHash(t *testing.T) string {
	t.Helper()
	hashOnce.Do(func() {
		h, err := HashPassword("secret123")
		if err != nil {
			t.Fatalf("HashPassword: %v", err)
		}
		pwHash = h
	})
	return pwHash
}

func newStore(t *testing.T) *memCredentials {
	h := testHash(t)
	return &memCredentials{users: map[string]*Credential{
		"admin": {UserID: "u-admin", Username: "admin", PasswordHash: h, Role: RoleAdmin},
		"user1": {UserID: "u-1", Username: "user1", PasswordHash: h, Role: RoleUser1},
	}}
}

func newTestManager(t *testing.T, opts ...func(*ManagerConfig)) *Manager {
	t.Helper()
	cfg := ManagerConfig{Store: newStore(t), Key: testKey, Logger: zerolog.Nop()}
	for _, o := range opts {
		o(&cfg)
	}
	m, err := NewManager(cfg)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	return m
}

// requestWithCookies copies the cookies set on rec into a new request.
func requestWithCookies(rec *httptest.ResponseRecorder) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/patients", nil)
	for _, ck := range rec.Result().Cookies() {
		req.AddCookie(ck)
	}
	return req
}

func requestWithToken(token string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/patients", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: token})
	return req
}

func TestNewManager_Validation(t *testing.T) {
	if _, err := NewManager(ManagerConfig{Key: testKey}); err == nil {
		t.Error("expected error without a credential store")
	}
	if _, err := NewManager(ManagerConfig{Store: &memCredentials{}}); err == nil {
		t.Error("expected error without a signing key")
	}
}

func TestAuthenticateIssueResolve_RoundTrip(t *testing.T) {
	m := newTestManager(t)

	for _, username := range []string{"admin", "user1"} {
		t.Run(username, func(t *testing.T) {
			s, err := m.Authenticate(context.Background(), username, "secret123")
			if err != nil {
				t.Fatalf("Authenticate: %v", err)
			}

			rec := httptest.NewRecorder()
			if _, err := m.Issue(rec, s); err != nil {
				t.Fatalf("Issue: %v", err)
			}

			got := m.Resolve(requestWithCookies(rec))
			if got == nil {
				t.Fatal("expected session to resolve")
			}
			if *got != *s {
				t.Errorf("resolved %+v, want %+v", *got, *s)
			}
		})
	}
}

func TestAuthenticate_InvalidCredentials(t *testing.T) {
	m := newTestManager(t)

	tests := []struct {
		name     string
		username string
		password string
	}{
		{"unknown user", "ghost", "secret123"},
		{"wrong password", "admin", "wrong"},
		{"empty password", "admin", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := m.Authenticate(context.Background(), tt.username, tt.password)
			if s != nil {
				t.Error("expected no session")
			}
			if err != ErrInvalidCredentials {
				t.Errorf("expected ErrInvalidCredentials, got %v", err)
			}
			if !apperr.Is(err, apperr.KindUnauthorized) {
				t.Error("expected Unauthorized kind")
			}
		})
	}
}

func TestAuthenticate_StoreFailureIsNotInvalidCredentials(t *testing.T) {
	store := &memCredentials{err: context.DeadlineExceeded}
	m, _ := NewManager(ManagerConfig{Store: store, Key: testKey, Logger: zerolog.Nop()})

	_, err := m.Authenticate(context.Background(), "admin", "secret123")
	if err == nil || err == ErrInvalidCredentials {
		t.Fatalf("expected a store error, got %v", err)
	}
	if apperr.KindOf(err) != apperr.KindInternal {
		t.Errorf("expected internal kind, got %v", apperr.KindOf(err))
	}
}

func TestIssue_CookieAttributes(t *testing.T) {
	m := newTestManager(t)
	rec := httptest.NewRecorder()
	if _, err := m.Issue(rec, &Session{UserID: "u-1", Username: "user1", Role: RoleUser1}); err != nil {
		t.Fatalf("Issue: %v", err)
	}

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected 1 cookie, got %d", len(cookies))
	}
	ck := cookies[0]
	if ck.Name != "session" {
		t.Errorf("expected cookie name session, got %s", ck.Name)
	}
	if !ck.HttpOnly {
		t.Error("expected HttpOnly")
	}
	if ck.Secure {
		t.Error("expected Secure to be off outside production")
	}
	if ck.SameSite != http.SameSiteLaxMode {
		t.Errorf("expected SameSite=Lax, got %v", ck.SameSite)
	}
	if ck.MaxAge != 604800 {
		t.Errorf("expected Max-Age 604800, got %d", ck.MaxAge)
	}
	if ck.Path != "/" {
		t.Errorf("expected Path /, got %s", ck.Path)
	}
}

func TestIssue_SecureInProduction(t *testing.T) {
	m := newTestManager(t, func(c *ManagerConfig) { c.Secure = true })
	rec := httptest.NewRecorder()
	m.Issue(rec, &Session{UserID: "u-1", Username: "user1", Role: RoleUser1})
	if !rec.Result().Cookies()[0].Secure {
		t.Error("expected Secure cookie")
	}
}

func TestIssue_RejectsIncompleteSession(t *testing.T) {
	m := newTestManager(t)
	for _, s := range []*Session{nil, {Username: "x", Role: RoleAdmin}, {UserID: "u", Role: "Root"}} {
		if _, err := m.Issue(httptest.NewRecorder(), s); err == nil {
			t.Errorf("expected error issuing %+v", s)
		}
	}
}

func TestResolve_NoCookie(t *testing.T) {
	m := newTestManager(t)
	if s := m.Resolve(httptest.NewRequest(http.MethodGet, "/", nil)); s != nil {
		t.Error("expected nil session without cookie")
	}
}

func TestResolve_TamperedTokens(t *testing.T) {
	m := newTestManager(t)
	rec := httptest.NewRecorder()
	token, err := m.Issue(rec, &Session{UserID: "u-1", Username: "user1", Role: RoleUser1})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	parts := strings.Split(token, ".")

	// Payload rewritten to claim Admin, original signature kept.
	forged, _ := json.Marshal(map[string]any{
		"userId": "u-1", "username": "user1", "role": "Admin",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	escalated := parts[0] + "." + base64.RawURLEncoding.EncodeToString(forged) + "." + parts[2]

	// Legacy unsigned encoding: plain base64 JSON.
	legacy := base64.StdEncoding.EncodeToString([]byte(`{"userId":"u-1","username":"admin","role":"Admin"}`))

	// alg=none token.
	none, _ := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"userId": "u-1", "username": "admin", "role": "Admin",
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)

	cases := map[string]string{
		"garbage":          "not-a-token",
		"empty segments":   "..",
		"truncated":        token[:len(token)-5],
		"bad signature":    parts[0] + "." + parts[1] + ".AAAA",
		"escalated":        escalated,
		"legacy base64":    legacy,
		"alg none":         none,
		"binary junk":      "\x00\xff\xfe",
		"only header":      parts[0],
		"extra segment":    token + ".extra",
		"percent encoding": "%7B%22role%22%3A%22Admin%22%7D",
	}
	for name, tok := range cases {
		t.Run(name, func(t *testing.T) {
			defer func() {
				if r := recover(); r != nil {
					t.Fatalf("Resolve panicked: %v", r)
				}
			}()
			if s := m.Resolve(requestWithToken(tok)); s != nil {
				t.Errorf("expected nil session, got %+v", s)
			}
		})
	}
}

func TestResolve_WrongKey(t *testing.T) {
	issuer := newTestManager(t)
	rec := httptest.NewRecorder()
	issuer.Issue(rec, &Session{UserID: "u-1", Username: "user1", Role: RoleUser1})

	other := newTestManager(t, func(c *ManagerConfig) { c.Key = []byte("ffffffffffffffffffffffffffffffff") })
	if s := other.Resolve(requestWithCookies(rec)); s != nil {
		t.Error("expected token signed with another key to be rejected")
	}
}

func TestResolve_Expired(t *testing.T) {
	issued := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	clock := issued
	m := newTestManager(t, func(c *ManagerConfig) { c.Now = func() time.Time { return clock } })

	rec := httptest.NewRecorder()
	m.Issue(rec, &Session{UserID: "u-1", Username: "user1", Role: RoleUser1})

	clock = issued.Add(DefaultTTL - time.Minute)
	if m.Resolve(requestWithCookies(rec)) == nil {
		t.Fatal("expected session to be valid just before expiry")
	}

	clock = issued.Add(DefaultTTL + time.Minute)
	if m.Resolve(requestWithCookies(rec)) != nil {
		t.Error("expected session to be rejected after expiry")
	}
}

func TestResolve_UnknownRoleRejected(t *testing.T) {
	m := newTestManager(t)
	token, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
		UserID:           "u-9",
		Username:         "root",
		Role:             "Root",
	}).SignedString(testKey)

	if s := m.Resolve(requestWithToken(token)); s != nil {
		t.Errorf("expected unknown role to be rejected, got %+v", s)
	}
}

func TestResolve_MissingExpiryRejected(t *testing.T) {
	m := newTestManager(t)
	token, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, sessionClaims{
		UserID:   "u-1",
		Username: "user1",
		Role:     RoleUser1,
	}).SignedString(testKey)

	if s := m.Resolve(requestWithToken(token)); s != nil {
		t.Error("expected token without exp to be rejected")
	}
}

func TestRequireRole(t *testing.T) {
	m := newTestManager(t)

	issue := func(s *Session) *http.Request {
		rec := httptest.NewRecorder()
		m.Issue(rec, s)
		return requestWithCookies(rec)
	}

	userReq := issue(&Session{UserID: "u-1", Username: "user1", Role: RoleUser1})
	_, err := m.RequireRole(userReq, RoleAdmin)
	if !apperr.Is(err, apperr.KindForbidden) {
		t.Errorf("expected Forbidden for User1, got %v", err)
	}

	adminReq := issue(&Session{UserID: "u-admin", Username: "admin", Role: RoleAdmin})
	s, err := m.RequireRole(adminReq, RoleAdmin)
	if err != nil {
		t.Fatalf("expected Admin to pass, got %v", err)
	}
	if s.Username != "admin" {
		t.Errorf("unexpected session %+v", s)
	}

	_, err = m.RequireRole(httptest.NewRequest(http.MethodGet, "/", nil), RoleAdmin)
	if !apperr.Is(err, apperr.KindUnauthorized) {
		t.Errorf("expected Unauthorized without session, got %v", err)
	}
}

func TestDestroy_ClearsCookie(t *testing.T) {
	m := newTestManager(t)
	rec := httptest.NewRecorder()
	m.Issue(rec, &Session{UserID: "u-1", Username: "user1", Role: RoleUser1})

	out := httptest.NewRecorder()
	if err := m.Destroy(out, requestWithCookies(rec)); err != nil {
		t.Fatalf("Destroy: %v", err)
	}
	cookies := out.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != CookieName || cookies[0].MaxAge >= 0 || cookies[0].Value != "" {
		t.Errorf("expected an expiring empty session cookie, got %+v", cookies)
	}
}

func TestDestroy_RevokesToken(t *testing.T) {
	rev := NewMemoryRevoker(time.Hour)
	defer rev.Close()
	m := newTestManager(t, func(c *ManagerConfig) { c.Revoker = rev })

	rec := httptest.NewRecorder()
	m.Issue(rec, &Session{UserID: "u-1", Username: "user1", Role: RoleUser1})
	copied := requestWithCookies(rec)

	if m.Resolve(copied) == nil {
		t.Fatal("expected session before logout")
	}
	if err := m.Destroy(httptest.NewRecorder(), requestWithCookies(rec)); err != nil {
		t.Fatalf("Destroy: %v", err)
	}
	if m.Resolve(copied) != nil {
		t.Error("expected copied token to be rejected after logout")
	}
	if rev.Count() != 1 {
		t.Errorf("expected 1 revocation, got %d", rev.Count())
	}
}

func TestDestroy_WithoutSessionIsNoop(t *testing.T) {
	rev := NewMemoryRevoker(time.Hour)
	defer rev.Close()
	m := newTestManager(t, func(c *ManagerConfig) { c.Revoker = rev })

	if err := m.Destroy(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/auth/logout", nil)); err != nil {
		t.Fatalf("Destroy: %v", err)
	}
	if rev.Count() != 0 {
		t.Error("expected nothing revoked")
	}
}
