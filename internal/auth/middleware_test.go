package auth

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestStaticAPIKeyValidatorParsing(t *testing.T) {
	validator, err := NewStaticAPIKeyValidator("k1:asker|Reader, k2:exporter")
	if err != nil {
		t.Fatalf("NewStaticAPIKeyValidator() error = %v", err)
	}
	identity, ok := validator.Validate(context.Background(), "k1")
	if !ok {
		t.Fatal("expected key to be valid")
	}
	if !identity.HasRole(RoleReader) || !identity.HasRole(RoleAsker) {
		t.Fatalf("Roles = %v", identity.Roles)
	}
	if identity.HasRole(RoleExporter) {
		t.Fatal("k1 should not carry exporter")
	}
	if _, ok := validator.Validate(context.Background(), "k3"); ok {
		t.Fatal("unknown key should not validate")
	}
}

func TestStaticAPIKeyValidatorRejectsMalformedKeys(t *testing.T) {
	for _, keys := range []string{
		"invalid",
		":reader",
		"k1:",
		"k1:admin",
		"k1:reader,k1:asker",
	} {
		if _, err := NewStaticAPIKeyValidator(keys); err == nil {
			t.Fatalf("expected parse error for %q", keys)
		}
	}
}

func TestMiddlewareRequiresKey(t *testing.T) {
	validator, err := NewStaticAPIKeyValidator("k1:reader")
	if err != nil {
		t.Fatalf("validator setup: %v", err)
	}

	mw := Middleware(slog.New(slog.NewJSONHandler(io.Discard, nil)), validator)
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	for _, key := range []string{"", "wrong"} {
		req := httptest.NewRequest(http.MethodGet, "/v1/table", nil)
		if key != "" {
			req.Header.Set("X-API-Key", key)
		}
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		if rr.Code != http.StatusUnauthorized {
			t.Fatalf("key %q: status = %d, want %d", key, rr.Code, http.StatusUnauthorized)
		}
	}
}

func TestMiddlewareInjectsIdentityFromBearerToken(t *testing.T) {
	validator, err := NewStaticAPIKeyValidator("k1:asker")
	if err != nil {
		t.Fatalf("validator setup: %v", err)
	}

	handler := Middleware(nil, validator)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := IdentityFromContext(r.Context())
		if !ok {
			t.Fatal("expected identity in context")
		}
		if !identity.HasRole(RoleAsker) {
			t.Fatalf("Roles = %v", identity.Roles)
		}
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodPost, "/v1/ask", nil)
	req.Header.Set("Authorization", "Bearer k1")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Fatalf("status = %d", rr.Code)
	}
}

func TestRequireAnyRole(t *testing.T) {
	if err := RequireAnyRole(context.Background(), RoleExporter); err != nil {
		t.Fatalf("anonymous context should pass: %v", err)
	}
	ctx := WithIdentity(context.Background(), Identity{Roles: []string{RoleReader}})
	if err := RequireAnyRole(ctx, RoleReader, RoleAsker); err != nil {
		t.Fatalf("RequireAnyRole() error = %v", err)
	}
	if err := RequireAnyRole(ctx, RoleExporter); err == nil {
		t.Fatal("expected missing role error")
	}
}
