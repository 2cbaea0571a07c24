package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/studiobook/studiobook-api/internal/pkg/jwt"
)

func authProbe(t *testing.T, tokens *jwt.Service, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	var role string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		role = GetRole(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	rec := httptest.NewRecorder()
	Auth(tokens)(next).ServeHTTP(rec, req)
	if rec.Code == http.StatusOK && role != "admin" {
		t.Fatalf("expected admin role in context, got %q", role)
	}
	return rec
}

func TestAuthAcceptsBearerToken(t *testing.T) {
	tokens := jwt.NewService("test-secret", time.Minute)
	token, err := tokens.GenerateToken()
	if err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodGet, "/admin/bookings", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	if rec := authProbe(t, tokens, req); rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthAcceptsQueryToken(t *testing.T) {
	tokens := jwt.NewService("test-secret", time.Minute)
	token, err := tokens.GenerateToken()
	if err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodGet, "/admin/events?token="+token, nil)
	if rec := authProbe(t, tokens, req); rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthRejectsBadTokens(t *testing.T) {
	tokens := jwt.NewService("test-secret", time.Minute)

	req := httptest.NewRequest(http.MethodGet, "/admin/bookings", nil)
	if rec := authProbe(t, tokens, req); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/admin/bookings", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	if rec := authProbe(t, tokens, req); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for garbage token, got %d", rec.Code)
	}

	other := jwt.NewService("other-secret", time.Minute)
	token, err := other.GenerateToken()
	if err != nil {
		t.Fatal(err)
	}
	req = httptest.NewRequest(http.MethodGet, "/admin/bookings", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	if rec := authProbe(t, tokens, req); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for wrong signer, got %d", rec.Code)
	}
}
