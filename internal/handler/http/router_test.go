package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/storefront/internal/catalog"
	"github.com/utafrali/storefront/internal/kvstore"
	"github.com/utafrali/storefront/internal/schedule"
	"github.com/utafrali/storefront/internal/session"
	"github.com/utafrali/storefront/pkg/health"
	"github.com/utafrali/storefront/pkg/middleware"
)

type response struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Fields  map[string]string `json:"fields"`
	} `json:"error"`
}

type testServer struct {
	t        *testing.T
	clock    *schedule.Fake
	sessions *session.Manager
	handler  http.Handler
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	cat, err := catalog.Default()
	require.NoError(t, err)

	clock := schedule.NewFake(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	sessions := session.NewManager(session.Config{MaxSessions: 5}, clock, cat, kvstore.NewMemory(), nil, logger)
	t.Cleanup(sessions.Shutdown)

	h := NewRouter(RouterConfig{AllowedOrigins: []string{"http://localhost:3000"}}, cat, sessions, health.NewHandler(time.Second), logger)
	return &testServer{t: t, clock: clock, sessions: sessions, handler: h}
}

func (s *testServer) do(method, path, body string) (*httptest.ResponseRecorder, response) {
	s.t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	s.handler.ServeHTTP(w, req)

	var resp response
	if w.Body.Len() > 0 && strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(s.t, json.NewDecoder(bytes.NewReader(w.Body.Bytes())).Decode(&resp))
	}
	return w, resp
}

func decodeData[T any](t *testing.T, resp response) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(resp.Data, &v))
	return v
}

func (s *testServer) createSession(body string) SessionResponse {
	s.t.Helper()
	w, resp := s.do(http.MethodPost, "/api/v1/sessions", body)
	require.Equal(s.t, http.StatusCreated, w.Code, w.Body.String())
	return decodeData[SessionResponse](s.t, resp)
}

func TestHealthAndMetrics(t *testing.T) {
	s := newTestServer(t)

	w, _ := s.do(http.MethodGet, "/health/live", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = s.do(http.MethodGet, "/health/ready", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = s.do(http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/products", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	w := httptest.NewRecorder()
	s.handler.ServeHTTP(w, req)

	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCorrelationIDEchoed(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products/nope", nil)
	req.Header.Set("X-Correlation-ID", "corr-42")
	w := httptest.NewRecorder()
	s.handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "corr-42", w.Header().Get("X-Correlation-ID"))
	assert.Contains(t, w.Body.String(), `"request_id":"corr-42"`)
}

func TestCreateSession_UsesVisitorHeader(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/sessions", nil)
	req.Header.Set(middleware.VisitorHeader, "visitor_9")
	w := httptest.NewRecorder()
	s.handler.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp response
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	sess := decodeData[SessionResponse](t, resp)
	assert.Equal(t, "visitor_9", sess.VisitorID)
	assert.Equal(t, 3, sess.Carousel.Count)
	assert.True(t, sess.Carousel.Autoplay)
}

func TestCreateSession_Validation(t *testing.T) {
	s := newTestServer(t)

	w, resp := s.do(http.MethodPost, "/api/v1/sessions", `{"visitor_id":"has spaces"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
	assert.Contains(t, resp.Error.Fields, "visitor_id")

	w, resp = s.do(http.MethodPost, "/api/v1/sessions", `{not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_INPUT", resp.Error.Code)
}

func TestCreateSession_RejectsNonJSON(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/sessions", strings.NewReader("x=1"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	s.handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnsupportedMediaType, w.Code)
}

func TestCreateSession_LimitReached(t *testing.T) {
	s := newTestServer(t)
	for i := 0; i < 5; i++ {
		s.createSession(`{}`)
	}

	w, resp := s.do(http.MethodPost, "/api/v1/sessions", `{}`)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "SERVICE_UNAVAILABLE", resp.Error.Code)
}

func TestSession_GetAndClose(t *testing.T) {
	s := newTestServer(t)
	sess := s.createSession(`{"reduced_motion":true}`)
	assert.False(t, sess.Carousel.Autoplay)

	w, _ := s.do(http.MethodGet, "/api/v1/sessions/"+sess.ID, "")
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = s.do(http.MethodDelete, "/api/v1/sessions/"+sess.ID, "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w, resp := s.do(http.MethodGet, "/api/v1/sessions/"+sess.ID+"/carousel", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NOT_FOUND", resp.Error.Code)

	w, resp = s.do(http.MethodGet, "/api/v1/sessions/not-a-uuid/carousel", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_PARAMETER", resp.Error.Code)
}

func TestShutdownRejectsSessionRequests(t *testing.T) {
	s := newTestServer(t)
	sess := s.createSession(`{}`)

	s.sessions.Shutdown()
	w, _ := s.do(http.MethodGet, "/api/v1/sessions/"+sess.ID, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	_, err := s.sessions.Create(context.Background(), session.Options{})
	assert.Error(t, err)
}
