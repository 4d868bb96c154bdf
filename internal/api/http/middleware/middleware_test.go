package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRequestID_GeneratesWhenAbsent(t *testing.T) {
	var seen string
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFromContext(r.Context())
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/cats", nil))

	if seen == "" {
		t.Fatal("Expected request ID in context")
	}
	if got := rec.Header().Get("X-Request-Id"); got != seen {
		t.Errorf("Expected response header %q, got %q", seen, got)
	}
}

func TestRequestID_KeepsClientProvided(t *testing.T) {
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest(http.MethodGet, "/cats", nil)
	req.Header.Set("X-Request-Id", "client-id-123")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if got := rec.Header().Get("X-Request-Id"); got != "client-id-123" {
		t.Errorf("Expected client-provided ID to be kept, got %q", got)
	}
}

func TestRateLimit_RejectsAboveBurst(t *testing.T) {
	handler := RateLimit(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}), 1, 1)

	first := httptest.NewRecorder()
	handler.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/cats", nil))
	if first.Code != http.StatusOK {
		t.Fatalf("Expected first request to pass, got %d", first.Code)
	}

	// Второй запрос сразу за первым превышает burst
	second := httptest.NewRecorder()
	handler.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/cats", nil))
	if second.Code != http.StatusTooManyRequests {
		t.Errorf("Expected 429, got %d", second.Code)
	}
}

func TestMetrics_UsesRoutePatternLabel(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /cats/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := Metrics(mux)

	const pattern = "GET /cats/{id}"
	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues(http.MethodGet, pattern, "200"))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/cats/7", nil))

	after := testutil.ToFloat64(httpRequestsTotal.WithLabelValues(http.MethodGet, pattern, "200"))
	if after != before+1 {
		t.Errorf("Expected counter for pattern %q to grow by 1, got %v -> %v", pattern, before, after)
	}

	// По сырому пути с конкретным ID ряд появляться не должен
	raw := testutil.ToFloat64(httpRequestsTotal.WithLabelValues(http.MethodGet, "/cats/7", "200"))
	if raw != 0 {
		t.Errorf("Expected no series for raw path, got %v", raw)
	}
}

func TestLogging_PreservesStatusCode(t *testing.T) {
	handler := Logging(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/cats", nil))

	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("Expected status to pass through, got %d", rec.Code)
	}
}
