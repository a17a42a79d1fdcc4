package middleware

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/storefront/pkg/logger"
)

func captureLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func decodeLogLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry
}

func TestRequestLogging_GeneratesCorrelationID(t *testing.T) {
	var buf bytes.Buffer
	var seen string
	h := RequestLogging(captureLogger(&buf))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = logger.CorrelationIDFromContext(r.Context())
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/products", nil))

	require.NotEmpty(t, seen)
	assert.Equal(t, seen, rr.Header().Get(CorrelationHeader))
	entry := decodeLogLine(t, &buf)
	assert.Equal(t, "INFO", entry["level"])
	assert.Equal(t, seen, entry["correlation_id"])
}

func TestRequestLogging_EchoesIncomingCorrelationID(t *testing.T) {
	var buf bytes.Buffer
	h := RequestLogging(captureLogger(&buf))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(CorrelationHeader, "corr-7")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	assert.Equal(t, "corr-7", rr.Header().Get(CorrelationHeader))
}

func TestRequestLogging_RouteAndVisitor(t *testing.T) {
	var buf bytes.Buffer
	r := chi.NewRouter()
	r.Use(RequestLogging(captureLogger(&buf)))
	r.Get("/api/v1/sessions/{sessionID}/cart", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/sessions/abc/cart", nil)
	req.Header.Set(VisitorHeader, "visitor-1")
	r.ServeHTTP(httptest.NewRecorder(), req)

	entry := decodeLogLine(t, &buf)
	assert.Equal(t, "/api/v1/sessions/{sessionID}/cart", entry["route"])
	assert.Equal(t, "visitor-1", entry["visitor_id"])
	assert.Equal(t, float64(2), entry["bytes"])
}

func TestRequestLogging_Levels(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		status int
		level  string
	}{
		{name: "probe", path: "/health/live", status: http.StatusOK, level: "DEBUG"},
		{name: "scrape", path: "/metrics", status: http.StatusOK, level: "DEBUG"},
		{name: "client error", path: "/api/v1/products/x", status: http.StatusNotFound, level: "INFO"},
		{name: "server error", path: "/api/v1/products", status: http.StatusInternalServerError, level: "ERROR"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			h := RequestLogging(captureLogger(&buf))(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tc.status)
			}))
			h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, tc.path, nil))

			entry := decodeLogLine(t, &buf)
			assert.Equal(t, tc.level, entry["level"])
			assert.Equal(t, float64(tc.status), entry["status"])
		})
	}
}
