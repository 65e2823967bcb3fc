// Package auth gates the admin surface behind a single shared secret and
// opaque bearer tokens. Tokens live for the process lifetime only: no expiry
// beyond explicit logout or restart. That is a deliberate tradeoff for a
// single-operator deployment, not an oversight.
package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"net/http"
	"strings"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"github.com/zbpk/Samfolio-Hub/internal/httpx"
	"github.com/zbpk/Samfolio-Hub/internal/services"
	"github.com/zbpk/Samfolio-Hub/internal/store"
)

// PasswordSettingKey is the settings-table override for the admin secret.
const PasswordSettingKey = "admin_password"

// TokenStore tracks valid admin tokens. Injected so the memory-backed default
// can be swapped for a cache or durable store without touching call sites.
type TokenStore interface {
	Issue() (string, error)
	Validate(token string) bool
	Revoke(token string)
}

// MemoryTokenStore is the default process-lifetime token set. Safe for
// concurrent use.
type MemoryTokenStore struct {
	mu     sync.RWMutex
	tokens map[string]struct{}
}

func NewMemoryTokenStore() *MemoryTokenStore {
	return &MemoryTokenStore{tokens: make(map[string]struct{})}
}

func (m *MemoryTokenStore) Issue() (string, error) {
	buf := make([]byte, 48)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	token := hex.EncodeToString(buf)
	m.mu.Lock()
	m.tokens[token] = struct{}{}
	m.mu.Unlock()
	return token, nil
}

func (m *MemoryTokenStore) Validate(token string) bool {
	m.mu.RLock()
	_, ok := m.tokens[token]
	m.mu.RUnlock()
	return ok
}

func (m *MemoryTokenStore) Revoke(token string) {
	m.mu.Lock()
	delete(m.tokens, token)
	m.mu.Unlock()
}

// Guard resolves the admin secret and issues/validates sessions.
type Guard struct {
	Store       *store.Store
	Tokens      TokenStore
	EnvPassword string
}

func NewGuard(s *store.Store, tokens TokenStore, envPassword string) *Guard {
	return &Guard{Store: s, Tokens: tokens, EnvPassword: envPassword}
}

// resolveSecret prefers the settings-table override, then the configured env
// value. With neither present the portal reports itself unavailable.
func (g *Guard) resolveSecret() (string, error) {
	if v, ok, err := g.Store.GetSetting(PasswordSettingKey); err != nil {
		return "", services.WrapError(services.KindInternal, "failed to read admin password setting", err)
	} else if ok && v != "" {
		return v, nil
	}
	if g.EnvPassword != "" {
		return g.EnvPassword, nil
	}
	return "", services.NewError(services.KindConfiguration,
		"Admin portal not configured. Please set ADMIN_PASSWORD environment variable.")
}

func secretMatches(secret, password string) bool {
	// Secrets stored as bcrypt hashes are compared as such; plain secrets
	// use a constant-time comparison.
	if strings.HasPrefix(secret, "$2a$") || strings.HasPrefix(secret, "$2b$") || strings.HasPrefix(secret, "$2y$") {
		return bcrypt.CompareHashAndPassword([]byte(secret), []byte(password)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(secret), []byte(password)) == 1
}

// Login returns a fresh bearer token when the password matches.
func (g *Guard) Login(password string) (string, error) {
	secret, err := g.resolveSecret()
	if err != nil {
		return "", err
	}
	if !secretMatches(secret, password) {
		return "", services.NewError(services.KindAuthentication, "Invalid password")
	}
	token, err := g.Tokens.Issue()
	if err != nil {
		return "", services.WrapError(services.KindInternal, "failed to issue token", err)
	}
	return token, nil
}

// Logout revokes a token unconditionally.
func (g *Guard) Logout(token string) {
	if token != "" {
		g.Tokens.Revoke(token)
	}
}

// Authorize accepts a bearer token. Absent, malformed, and unknown tokens
// are rejected identically so callers can't probe which case occurred.
func (g *Guard) Authorize(token string) error {
	if token == "" || !g.Tokens.Validate(token) {
		return services.NewError(services.KindAuthentication, "Unauthorized")
	}
	return nil
}

// BearerToken extracts the token from an Authorization header, or "".
func BearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if !strings.HasPrefix(h, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(h, "Bearer ")
}

// RequireAdmin rejects requests without a valid bearer token with a uniform
// 401 body.
func (g *Guard) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := g.Authorize(BearerToken(r)); err != nil {
			httpx.JSONError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		next.ServeHTTP(w, r)
	})
}
