package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/99minutos/accounts-service/internal/api/handler"
	"github.com/99minutos/accounts-service/internal/core/service"
	"github.com/99minutos/accounts-service/internal/infrastructure/db/sqlite"
	"github.com/99minutos/accounts-service/internal/infrastructure/token"
)

type testServer struct {
	t *testing.T
	e *echo.Echo
}

func (s *testServer) do(method, path, token, body string) (int, map[string]any) {
	s.t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)

	var out map[string]any
	if strings.HasPrefix(rec.Header().Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
			s.t.Fatalf("%s %s: invalid json %q: %v", method, path, rec.Body.String(), err)
		}
	}
	return rec.Code, out
}

// TestRouter_AccountLifecycle drives the full HTTP surface against a real
// SQLite store.
func TestRouter_AccountLifecycle(t *testing.T) {
	ctx := context.Background()
	store, err := sqlite.Open(ctx, filepath.Join(t.TempDir(), "accounts.db"), zerolog.Nop())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	hasher := service.NewBcryptHasher(bcrypt.MinCost)
	issuer := service.NewTokenIssuer(token.NewSigner("router-secret"), time.Hour, 2*time.Hour)
	credentials := service.NewCredentialService(store.Users, hasher, issuer, zerolog.Nop())

	if _, err := service.SeedAdmin(ctx, store.Users, hasher, service.AdminSeed{
		Name: "Admin", Email: "admin@example.com", Telephone: "123456789", Password: "adminpass",
	}, zerolog.Nop()); err != nil {
		t.Fatalf("seed admin: %v", err)
	}

	srv := &testServer{t: t, e: NewRouter(Dependencies{
		Credentials: credentials,
		Directory:   service.NewUserDirectory(store.Users),
		Tokens:      issuer,
		Checks:      map[string]handler.Checker{"sqlite": store},
		Log:         zerolog.Nop(),
	})}

	// Register A, then a duplicate email.
	code, body := srv.do(http.MethodPost, "/users/auth/register", "",
		`{"name":"Ana","surnames":"Ruiz","email":"a@x.com","telephone":"600000001","password":"rightpass"}`)
	if code != http.StatusCreated || body["token"] == "" {
		t.Fatalf("register: %d %v", code, body)
	}
	code, _ = srv.do(http.MethodPost, "/users/auth/register", "",
		`{"name":"Bea","email":"a@x.com","telephone":"600000002","password":"otherpass"}`)
	if code != http.StatusConflict {
		t.Fatalf("duplicate register: expected 409, got %d", code)
	}

	// Self-assigned ADMIN is refused by default.
	code, _ = srv.do(http.MethodPost, "/users/auth/register", "",
		`{"name":"Eve","email":"eve@x.com","telephone":"600000009","password":"evilpass1","role":"ADMIN"}`)
	if code != http.StatusForbidden {
		t.Fatalf("role escalation: expected 403, got %d", code)
	}

	// Login right and wrong.
	code, body = srv.do(http.MethodPost, "/users/auth/login", "", `{"email":"a@x.com","password":"rightpass"}`)
	if code != http.StatusOK {
		t.Fatalf("login: %d %v", code, body)
	}
	access, _ := body["token"].(string)
	refresh, _ := body["refreshToken"].(string)
	claims, err := issuer.ParseAccessToken(access)
	if err != nil || claims.Subject != "a@x.com" {
		t.Fatalf("access token subject: %v %v", claims, err)
	}
	code, _ = srv.do(http.MethodPost, "/users/auth/login", "", `{"email":"a@x.com","password":"wrongpass"}`)
	if code != http.StatusUnauthorized {
		t.Fatalf("wrong password: expected 401, got %d", code)
	}
	code, _ = srv.do(http.MethodPost, "/users/auth/login", "", `{"email":"ghost@x.com","password":"wrongpass"}`)
	if code != http.StatusUnauthorized {
		t.Fatalf("unknown email: expected 401, got %d", code)
	}

	// Profile requires a token.
	if code, _ = srv.do(http.MethodGet, "/users/profile", "", ""); code != http.StatusUnauthorized {
		t.Fatalf("anonymous profile: expected 401, got %d", code)
	}
	code, body = srv.do(http.MethodGet, "/users/profile", access, "")
	if code != http.StatusOK || body["email"] != "a@x.com" {
		t.Fatalf("profile: %d %v", code, body)
	}

	// Update gated on the current password, then applied.
	code, _ = srv.do(http.MethodPost, "/users/profile/update", access, `{"name":"Anita","currentPassword":"nope"}`)
	if code != http.StatusUnauthorized {
		t.Fatalf("update with wrong password: expected 401, got %d", code)
	}
	code, body = srv.do(http.MethodPost, "/users/profile/update", access,
		`{"name":"Anita","email":"anita@x.com","currentPassword":"rightpass"}`)
	if code != http.StatusOK {
		t.Fatalf("update: %d %v", code, body)
	}
	user, _ := body["user"].(map[string]any)
	if user["email"] != "anita@x.com" || user["lastModifiedDate"] == nil {
		t.Fatalf("unexpected updated view: %v", user)
	}
	if _, hasID := user["id"]; hasID {
		t.Fatalf("updated view must omit id")
	}

	// The old refresh token names an email that no longer exists.
	code, _ = srv.do(http.MethodPost, "/users/auth/refresh", "", `{"refreshToken":"`+refresh+`"}`)
	if code != http.StatusNotFound {
		t.Fatalf("stale refresh: expected 404, got %d", code)
	}
	newRefresh, _ := body["refreshToken"].(string)
	code, body = srv.do(http.MethodPost, "/users/auth/refresh", "", `{"refreshToken":"`+newRefresh+`"}`)
	if code != http.StatusOK || body["token"] == "" {
		t.Fatalf("refresh: %d %v", code, body)
	}
	code, _ = srv.do(http.MethodPost, "/users/auth/refresh", "", `{"refreshToken":"`+access+`"}`)
	if code != http.StatusUnauthorized {
		t.Fatalf("access token as refresh: expected 401, got %d", code)
	}

	// Admin directory is ADMIN only.
	if code, _ = srv.do(http.MethodGet, "/users/admin/users", access, ""); code != http.StatusForbidden {
		t.Fatalf("customer on admin route: expected 403, got %d", code)
	}
	_, body = srv.do(http.MethodPost, "/users/auth/login", "", `{"email":"admin@example.com","password":"adminpass"}`)
	adminToken, _ := body["token"].(string)

	code, body = srv.do(http.MethodGet, "/users/admin/users?role=CUSTOMER&size=5", adminToken, "")
	if code != http.StatusOK || body["totalElements"] != float64(1) {
		t.Fatalf("admin search: %d %v", code, body)
	}
	content, _ := body["content"].([]any)
	first, _ := content[0].(map[string]any)
	id, _ := first["id"].(string)

	code, body = srv.do(http.MethodGet, "/users/admin/"+id, adminToken, "")
	if code != http.StatusOK || body["email"] != "anita@x.com" {
		t.Fatalf("admin get: %d %v", code, body)
	}
	if code, _ = srv.do(http.MethodGet, "/users/admin/users?role=root", adminToken, ""); code != http.StatusBadRequest {
		t.Fatalf("invalid role filter: expected 400, got %d", code)
	}

	// Probes.
	if code, body = srv.do(http.MethodGet, "/health/ready", "", ""); code != http.StatusOK || body["status"] != "ok" {
		t.Fatalf("readiness: %d %v", code, body)
	}

}
