package auth

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/zbpk/Samfolio-Hub/internal/models"
	"github.com/zbpk/Samfolio-Hub/internal/services"
	"github.com/zbpk/Samfolio-Hub/internal/store"
)

func setupGuard(t *testing.T, envPassword string) *Guard {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&models.AdminSetting{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return NewGuard(store.New(db), NewMemoryTokenStore(), envPassword)
}

func TestLoginIssuesToken(t *testing.T) {
	g := setupGuard(t, "hunter2")
	token, err := g.Login("hunter2")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if len(token) != 96 {
		t.Fatalf("token length = %d, want 96 hex chars", len(token))
	}
	if err := g.Authorize(token); err != nil {
		t.Fatalf("authorize issued token: %v", err)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	g := setupGuard(t, "hunter2")
	_, err := g.Login("letmein")
	if services.KindOf(err) != services.KindAuthentication {
		t.Fatalf("expected authentication error, got %v", err)
	}
}

func TestLoginNotConfigured(t *testing.T) {
	g := setupGuard(t, "")
	_, err := g.Login("anything")
	if services.KindOf(err) != services.KindConfiguration {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestSettingOverridesEnvPassword(t *testing.T) {
	g := setupGuard(t, "env-secret")
	if _, err := g.Store.SetSetting(PasswordSettingKey, "db-secret"); err != nil {
		t.Fatalf("set setting: %v", err)
	}
	if _, err := g.Login("env-secret"); err == nil {
		t.Fatal("env password should no longer match once overridden")
	}
	if _, err := g.Login("db-secret"); err != nil {
		t.Fatalf("override password rejected: %v", err)
	}
}

func TestBcryptStoredSecret(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	g := setupGuard(t, string(hash))
	if _, err := g.Login("s3cret"); err != nil {
		t.Fatalf("bcrypt secret rejected matching password: %v", err)
	}
	if _, err := g.Login("wrong"); err == nil {
		t.Fatal("bcrypt secret accepted wrong password")
	}
}

func TestAuthorizeRejectsUnknownAndRevoked(t *testing.T) {
	g := setupGuard(t, "hunter2")
	if err := g.Authorize("never-issued"); err == nil {
		t.Fatal("unknown token accepted")
	}
	token, err := g.Login("hunter2")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	g.Logout(token)
	if err := g.Authorize(token); err == nil {
		t.Fatal("revoked token accepted")
	}
}

func TestRequireAdminMiddleware(t *testing.T) {
	g := setupGuard(t, "hunter2")
	token, err := g.Login("hunter2")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	h := g.RequireAdmin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	cases := []struct {
		name   string
		header string
		want   int
	}{
		{"no header", "", http.StatusUnauthorized},
		{"malformed", "Token abc", http.StatusUnauthorized},
		{"unknown", "Bearer deadbeef", http.StatusUnauthorized},
		{"valid", "Bearer " + token, http.StatusNoContent},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/admin/orders", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			if rec.Code != tc.want {
				t.Fatalf("status = %d, want %d", rec.Code, tc.want)
			}
		})
	}
}
