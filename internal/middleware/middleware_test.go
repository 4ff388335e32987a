package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/motoreast/rebate-portal/internal/auth"
	"github.com/motoreast/rebate-portal/internal/models"
)

func principalCapture(t *testing.T) (http.Handler, *auth.Principal, *bool) {
	t.Helper()
	captured := &auth.Principal{}
	seen := new(bool)
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if p, ok := auth.FromContext(r.Context()); ok {
			*captured = p
			*seen = true
		}
		w.WriteHeader(http.StatusOK)
	})
	return handler, captured, seen
}

func TestAuthenticateAttachesPrincipal(t *testing.T) {
	tokens := auth.NewTokenManager("secret", "rebate-portal-test", time.Hour)
	user := models.User{ID: uuid.New(), Email: "resident@example.com", Role: models.RoleResident}
	token, err := tokens.Generate(user)
	require.NoError(t, err)

	next, captured, seen := principalCapture(t)
	handler := Authenticate(tokens, auth.NewMemoryBlacklist(), zap.NewNop(), next)

	req := httptest.NewRequest(http.MethodGet, "/claims", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	require.True(t, *seen)
	assert.Equal(t, user.ID, captured.UserID)
	assert.Equal(t, user.Email, captured.Email)
}

func TestAuthenticatePassesThroughWithoutToken(t *testing.T) {
	tokens := auth.NewTokenManager("secret", "rebate-portal-test", time.Hour)
	next, _, seen := principalCapture(t)
	handler := Authenticate(tokens, auth.NewMemoryBlacklist(), zap.NewNop(), next)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/claims", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, *seen, "no principal should be attached without a token")
}

func TestAuthenticateIgnoresInvalidToken(t *testing.T) {
	tokens := auth.NewTokenManager("secret", "rebate-portal-test", time.Hour)
	next, _, seen := principalCapture(t)
	handler := Authenticate(tokens, auth.NewMemoryBlacklist(), zap.NewNop(), next)

	req := httptest.NewRequest(http.MethodGet, "/claims", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	assert.False(t, *seen)
}

func TestAuthenticateIgnoresRevokedToken(t *testing.T) {
	tokens := auth.NewTokenManager("secret", "rebate-portal-test", time.Hour)
	user := models.User{ID: uuid.New(), Email: "resident@example.com", Role: models.RoleResident}
	token, err := tokens.Generate(user)
	require.NoError(t, err)

	principal, err := tokens.Parse(token)
	require.NoError(t, err)

	revoked := auth.NewMemoryBlacklist()
	require.NoError(t, revoked.Add(context.Background(), principal.TokenID, time.Hour))

	next, _, seen := principalCapture(t)
	handler := Authenticate(tokens, revoked, zap.NewNop(), next)

	req := httptest.NewRequest(http.MethodGet, "/claims", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	assert.False(t, *seen, "a revoked token must not yield a principal")
}

func TestCORSShortCircuitsPreflight(t *testing.T) {
	handler := CORS([]string{"*"}, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("preflight should not reach the next handler")
	}))

	req := httptest.NewRequest(http.MethodOptions, "/claims", nil)
	req.Header.Set("Origin", "https://portal.example.com")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSAllowsListedOriginOnly(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	handler := CORS([]string{"https://portal.example.com"}, next)

	req := httptest.NewRequest(http.MethodGet, "/claims", nil)
	req.Header.Set("Origin", "https://portal.example.com")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, "https://portal.example.com", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/claims", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}
