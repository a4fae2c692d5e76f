package httpserver

import (
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"testing"

	"opticshop/internal/domain"
	"opticshop/internal/service/auth"
)

func TestBuildRouter_MissingDependency(t *testing.T) {
	deps := testDeps()
	deps.Orders = nil
	if _, err := buildRouter(logDiscard(), deps); err == nil {
		t.Fatalf("expected error for missing order service")
	}
}

func TestHealthAndReady(t *testing.T) {
	router := newTestRouter(t, testDeps())

	if rec := do(router, http.MethodGet, "/healthz", ""); rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from healthz, got %d", rec.Code)
	}
	if rec := do(router, http.MethodGet, "/readyz", ""); rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from readyz, got %d", rec.Code)
	}

	deps := testDeps()
	deps.DB = stubPinger{err: errBoom}
	rec := do(newTestRouter(t, deps), http.MethodGet, "/readyz", "")
	if rec.Code != http.StatusServiceUnavailable || !strings.Contains(rec.Body.String(), "db not reachable") {
		t.Fatalf("expected 503 db not reachable, got %d %s", rec.Code, rec.Body.String())
	}

	deps.DB = nil
	rec = do(newTestRouter(t, deps), http.MethodGet, "/readyz", "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 without db, got %d", rec.Code)
	}
}

func TestRequestID(t *testing.T) {
	router := newTestRouter(t, testDeps())

	rec := do(router, http.MethodGet, "/healthz", "", requestIDHeader, "abc-123")
	if got := rec.Header().Get(requestIDHeader); got != "abc-123" {
		t.Fatalf("expected request id to be echoed, got %q", got)
	}

	rec = do(router, http.MethodGet, "/healthz", "")
	if got := rec.Header().Get(requestIDHeader); len(got) != 36 {
		t.Fatalf("expected generated uuid request id, got %q", got)
	}
}

func TestCORS_SingleOrigin(t *testing.T) {
	router := newTestRouter(t, testDeps())

	rec := do(router, http.MethodOptions, "/glasses", "",
		"Origin", "http://localhost:8080",
		"Access-Control-Request-Method", http.MethodGet)
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:8080" {
		t.Fatalf("expected allowed origin header, got %q (status %d)", got, rec.Code)
	}

	rec = do(router, http.MethodGet, "/glasses", "", "Origin", "http://evil.example")
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for foreign origin, got %d", rec.Code)
	}
}

func TestInvalidUUIDIsNotFound(t *testing.T) {
	router := newTestRouter(t, testDeps())

	for _, path := range []string{"/glasses/not-a-uuid", "/orders/42", "/orders/user/xyz", "/orders/" + testOrderID + "/items/nope"} {
		if rec := do(router, http.MethodGet, path, ""); rec.Code != http.StatusNotFound {
			t.Fatalf("%s: expected 404, got %d", path, rec.Code)
		}
	}
}

func TestSwaggerDocServed(t *testing.T) {
	router := newTestRouter(t, testDeps())

	rec := do(router, http.MethodGet, "/swagger/doc.json", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var doc struct {
		Paths map[string]map[string]json.RawMessage `json:"paths"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &doc); err != nil {
		t.Fatalf("decode swagger doc: %v", err)
	}

	param := regexp.MustCompile(`:(\w+)`)
	for _, route := range router.Routes() {
		switch {
		case route.Path == "/healthz", route.Path == "/readyz", route.Path == "/ws/orders",
			strings.HasPrefix(route.Path, "/swagger/"):
			continue
		}
		path := param.ReplaceAllString(route.Path, "{$1}")
		if _, ok := doc.Paths[path][strings.ToLower(route.Method)]; !ok {
			t.Errorf("swagger doc lacks %s %s", route.Method, path)
		}
	}
}

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{domain.Invalid("bad"), http.StatusBadRequest},
		{&domain.RegistrationError{Msg: "weak password"}, http.StatusBadRequest},
		{fmt.Errorf("load: %w", domain.ErrNotFound), http.StatusNotFound},
		{domain.ErrAlreadyExists, http.StatusConflict},
		{auth.ErrInvalidCredentials, http.StatusUnauthorized},
		{auth.ErrInvalidToken, http.StatusUnauthorized},
		{errBoom, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got := statusFor(tc.err); got != tc.want {
			t.Fatalf("statusFor(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}

func TestInternalErrorHidesDetails(t *testing.T) {
	deps := testDeps()
	deps.Catalog = &stubCatalogService{err: errBoom}
	router := newTestRouter(t, deps)

	rec := do(router, http.MethodGet, "/glasses", "")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "boom") || !strings.Contains(rec.Body.String(), "internal error") {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}
