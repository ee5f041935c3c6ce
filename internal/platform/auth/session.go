package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/frontdesk/frontdesk/internal/platform/apperr"
)

const (
	// CookieName is the session cookie.
	CookieName = "session"
	// DefaultTTL is the lifetime of an issued session.
	DefaultTTL = 7 * 24 * time.Hour
)

// ErrInvalidCredentials is returned for an unknown username or a wrong
// password. The two cases are indistinguishable to the caller.
var ErrInvalidCredentials = apperr.Unauthorized("invalid username or password")

// ErrCredentialNotFound is returned by a CredentialStore for unknown users.
var ErrCredentialNotFound = errors.New("credential not found")

// Session is the authenticated principal carried by the session cookie.
type Session struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
}

// Credential is what the session manager needs to verify a login.
type Credential struct {
	UserID       string
	Username     string
	PasswordHash string
	Role         Role
}

// CredentialStore looks up login credentials by username. Implementations
// return ErrCredentialNotFound when the user does not exist.
type CredentialStore interface {
	LookupCredential(ctx context.Context, username string) (*Credential, error)
}

type sessionClaims struct {
	jwt.RegisteredClaims
	UserID   string `json:"userId"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
}

type ManagerConfig struct {
	Store  CredentialStore
	Key    []byte
	TTL    time.Duration
	Secure bool
	// Revoker is optional. Without it logout only clears the cookie.
	Revoker Revoker
	Logger  zerolog.Logger
	// Now is used for token timestamps; defaults to time.Now.
	Now func() time.Time
}

// Manager authenticates credentials and issues, resolves and destroys signed
// session tokens. The token is an HS256 JWT stored in the session cookie; no
// server-side session table exists.
type Manager struct {
	store   CredentialStore
	key     []byte
	ttl     time.Duration
	secure  bool
	revoker Revoker
	logger  zerolog.Logger
	now     func() time.Time
}

func NewManager(cfg ManagerConfig) (*Manager, error) {
	if cfg.Store == nil {
		return nil, errors.New("session manager requires a credential store")
	}
	if len(cfg.Key) == 0 {
		return nil, errors.New("session manager requires a signing key")
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Manager{
		store:   cfg.Store,
		key:     cfg.Key,
		ttl:     ttl,
		secure:  cfg.Secure,
		revoker: cfg.Revoker,
		logger:  cfg.Logger,
		now:     now,
	}, nil
}

// Authenticate verifies username and password against the credential store.
func (m *Manager) Authenticate(ctx context.Context, username, password string) (*Session, error) {
	cred, err := m.store.LookupCredential(ctx, username)
	if err != nil {
		if errors.Is(err, ErrCredentialNotFound) {
			burnCompare(password)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("lookup credential: %w", err)
	}
	if !CheckPassword(cred.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	if !cred.Role.Valid() {
		m.logger.Warn().Str("username", cred.Username).Str("role", string(cred.Role)).
			Msg("login rejected: account has unknown role")
		return nil, ErrInvalidCredentials
	}
	return &Session{UserID: cred.UserID, Username: cred.Username, Role: cred.Role}, nil
}

// Issue signs s into a token and sets it as the session cookie on w.
func (m *Manager) Issue(w http.ResponseWriter, s *Session) (string, error) {
	if s == nil || s.UserID == "" || !s.Role.Valid() {
		return "", errors.New("issue session: incomplete principal")
	}
	now := m.now()
	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   s.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
		UserID:   s.UserID,
		Username: s.Username,
		Role:     s.Role,
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.key)
	if err != nil {
		return "", fmt.Errorf("sign session: %w", err)
	}

	http.SetCookie(w, m.cookie(token, int(m.ttl/time.Second)))
	return token, nil
}

// Resolve returns the session carried by r, or nil when the cookie is absent,
// malformed, wrongly signed, expired, revoked or names an unknown role.
func (m *Manager) Resolve(r *http.Request) *Session {
	claims := m.parse(r)
	if claims == nil {
		return nil
	}
	return &Session{UserID: claims.UserID, Username: claims.Username, Role: claims.Role}
}

// RequireAuthenticated resolves the session or fails with Unauthorized.
func (m *Manager) RequireAuthenticated(r *http.Request) (*Session, error) {
	s := m.Resolve(r)
	if s == nil {
		return nil, apperr.Unauthorized("authentication required")
	}
	return s, nil
}

// RequireRole resolves the session and fails with Forbidden when its role is
// not role.
func (m *Manager) RequireRole(r *http.Request, role Role) (*Session, error) {
	s, err := m.RequireAuthenticated(r)
	if err != nil {
		return nil, err
	}
	if s.Role != role {
		return nil, apperr.Forbidden(fmt.Sprintf("required role: %s", role))
	}
	return s, nil
}

// Destroy expires the session cookie. With a Revoker configured the token is
// also revoked until its natural expiry so copies of it stop working.
func (m *Manager) Destroy(w http.ResponseWriter, r *http.Request) error {
	http.SetCookie(w, m.cookie("", -1))

	if m.revoker == nil {
		return nil
	}
	claims := m.parse(r)
	if claims == nil || claims.ID == "" || claims.ExpiresAt == nil {
		return nil
	}
	if err := m.revoker.Revoke(r.Context(), claims.ID, claims.ExpiresAt.Time); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	return nil
}

// parse validates the session cookie and returns its claims, or nil.
func (m *Manager) parse(r *http.Request) *sessionClaims {
	ck, err := r.Cookie(CookieName)
	if err != nil || ck.Value == "" {
		return nil
	}

	claims := &sessionClaims{}
	_, err = jwt.ParseWithClaims(ck.Value, claims,
		func(t *jwt.Token) (interface{}, error) { return m.key, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return nil
	}
	if claims.UserID == "" || !claims.Role.Valid() {
		return nil
	}

	if m.revoker != nil && claims.ID != "" {
		revoked, err := m.revoker.IsRevoked(r.Context(), claims.ID)
		if err != nil {
			m.logger.Error().Err(err).Msg("revocation lookup failed; treating session as absent")
			return nil
		}
		if revoked {
			return nil
		}
	}
	return claims
}

func (m *Manager) cookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	}
}
