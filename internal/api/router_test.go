// Cocktail Menu - Constraint-Based Recipe Selection for Tandoor
// Copyright 2026 smilerz
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/smilerz/cocktail-menu

package api

import (
	"bytes"
	"crypto/tls"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/smilerz/cocktail-menu/internal/logging"
	"github.com/smilerz/cocktail-menu/internal/models"
)

func get(h http.Handler, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) models.APIResponse {
	t.Helper()
	var resp models.APIResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return resp
}

func TestHealthLive(t *testing.T) {
	t.Parallel()

	// Liveness must not depend on the catalog.
	h := newTestServer(t, &stubPlanner{}, &fakeCatalog{pingErr: errCatalogDown}, testConfig())
	rec := get(h, "/api/v1/health/live")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if resp := decodeEnvelope(t, rec); resp.Status != "alive" {
		t.Errorf("status = %q, want alive", resp.Status)
	}
	if rec.Header().Get("X-Content-Type-Options") != "nosniff" || rec.Header().Get("X-Frame-Options") != "DENY" {
		t.Error("security headers missing on health route")
	}
}

func TestHealthReady(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		catalog    Pinger
		wantStatus int
		wantBody   string
	}{
		{"catalog reachable", &fakeCatalog{}, http.StatusOK, "ready"},
		{"catalog down", &fakeCatalog{pingErr: errCatalogDown}, http.StatusServiceUnavailable, "not_ready"},
		{"no catalog", nil, http.StatusServiceUnavailable, "not_ready"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			h := newTestServer(t, &stubPlanner{}, tt.catalog, testConfig())
			rec := get(h, "/api/v1/health/ready")

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			resp := decodeEnvelope(t, rec)
			if resp.Status != tt.wantBody {
				t.Errorf("status = %q, want %q", resp.Status, tt.wantBody)
			}
			data, _ := resp.Data.(map[string]interface{})
			if data["catalog_connected"] != (tt.wantStatus == http.StatusOK) {
				t.Errorf("catalog_connected = %v", data["catalog_connected"])
			}
		})
	}
}

func TestRouter_Metrics(t *testing.T) {
	t.Parallel()

	h := newTestServer(t, &stubPlanner{}, &fakeCatalog{}, testConfig())
	get(h, "/api/v1/health/live")

	rec := get(h, "/metrics")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "api_requests_total") {
		t.Error("/metrics should expose api_requests_total")
	}
}

func TestRouter_NotFoundAndMethod(t *testing.T) {
	t.Parallel()

	h := newTestServer(t, &stubPlanner{}, &fakeCatalog{}, testConfig())

	rec := get(h, "/api/v1/cocktails")
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
	if resp := decodeEnvelope(t, rec); resp.Error == nil || resp.Error.Code != "NOT_FOUND" {
		t.Errorf("unexpected 404 body %s", rec.Body.String())
	}

	rec = get(h, "/api/v1/menus")
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("GET /api/v1/menus status = %d, want 405", rec.Code)
	}
}

func TestRouter_RateLimit(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.Server.RateLimitRequests = 2
	cfg.Server.RateLimitWindow = time.Minute
	h := newTestServer(t, &stubPlanner{result: &models.MenuResult{}}, &fakeCatalog{}, cfg)

	for i := 0; i < 2; i++ {
		if rec := postMenu(t, h, "{}"); rec.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d", i+1, rec.Code)
		}
	}
	rec := postMenu(t, h, "{}")
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("third request status = %d, want 429", rec.Code)
	}
	if resp := decodeEnvelope(t, rec); resp.Error == nil || resp.Error.Code != ErrCodeRateLimitExceeded {
		t.Errorf("unexpected 429 body %s", rec.Body.String())
	}

	// Health checks have their own limiter.
	if rec := get(h, "/api/v1/health/live"); rec.Code != http.StatusOK {
		t.Errorf("health after menu limit: status = %d", rec.Code)
	}
}

func TestRouter_CORSPreflight(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.Server.CORSOrigins = []string{"https://bar.example.com"}
	h := newTestServer(t, &stubPlanner{}, &fakeCatalog{}, cfg)

	tests := []struct {
		origin string
		want   string
	}{
		{"https://bar.example.com", "https://bar.example.com"},
		{"https://evil.example.com", ""},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodOptions, "/api/v1/menus", nil)
		req.Header.Set("Origin", tt.origin)
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		if got := rec.Header().Get("Access-Control-Allow-Origin"); got != tt.want {
			t.Errorf("origin %s: Access-Control-Allow-Origin = %q, want %q", tt.origin, got, tt.want)
		}
	}
}

func TestRequestIDWithLogging(t *testing.T) {
	t.Parallel()

	h := newTestServer(t, &stubPlanner{result: &models.MenuResult{}}, &fakeCatalog{}, testConfig())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/menus", strings.NewReader("{}"))
	req.Header.Set("X-Request-ID", "req-from-proxy")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if got := rec.Header().Get("X-Request-ID"); got != "req-from-proxy" {
		t.Errorf("X-Request-ID = %q, want the inbound id echoed", got)
	}
}

func TestRequestIDWithLogging_StoresRequestLogger(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	handler := RequestIDWithLogging()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := logging.LoggerFromContext(r.Context()).Output(&buf)
		logger.Info().Msg("handled")
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/menus", nil)
	req.Header.Set("X-Request-ID", "req-from-proxy")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	out := buf.String()
	for _, want := range []string{`"method":"POST"`, `"path":"/api/v1/menus"`, `"request_id":"req-from-proxy"`, `"correlation_id":`} {
		if !strings.Contains(out, want) {
			t.Errorf("output %s missing %s", out, want)
		}
	}
}

func TestAPISecurityHeaders_HSTS(t *testing.T) {
	t.Parallel()

	handler := APISecurityHeaders()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	tests := []struct {
		name  string
		setup func(r *http.Request)
		want  bool
	}{
		{"plain http", func(r *http.Request) {}, false},
		{"tls", func(r *http.Request) { r.TLS = &tls.ConnectionState{} }, true},
		{"forwarded https", func(r *http.Request) { r.Header.Set("X-Forwarded-Proto", "https") }, true},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		tt.setup(req)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if got := rec.Header().Get("Strict-Transport-Security") != ""; got != tt.want {
			t.Errorf("%s: HSTS set = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestSanitizeLogValue(t *testing.T) {
	t.Parallel()

	tests := []struct{ in, want string }{
		{"plain", "plain"},
		{"line\nbreak", `line\x0abreak`},
		{"tab\there", `tab\x09here`},
		{"del\x7f", `del\x7f`},
	}
	for _, tt := range tests {
		if got := sanitizeLogValue(tt.in); got != tt.want {
			t.Errorf("sanitizeLogValue(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
