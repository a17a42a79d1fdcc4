package middleware

import (
	"bufio"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// value reads the current value of a counter or gauge.
func value(t *testing.T, m prometheus.Metric) float64 {
	t.Helper()
	d := &dto.Metric{}
	require.NoError(t, m.Write(d))
	if d.Counter != nil {
		return d.GetCounter().GetValue()
	}
	return d.GetGauge().GetValue()
}

func metricsRouter(service string, status int) *chi.Mux {
	r := chi.NewRouter()
	r.Use(PrometheusMetrics(service))
	r.Get("/api/v1/products/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(status)
	})
	return r
}

func TestPrometheusMetrics_CountsByRouteTemplate(t *testing.T) {
	r := metricsRouter("count-svc", http.StatusOK)

	for _, id := range []string{"1", "2", "3"} {
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/products/"+id, nil))
		require.Equal(t, http.StatusOK, rr.Code)
	}

	c := httpRequestsTotal.WithLabelValues("count-svc", http.MethodGet, "/api/v1/products/{id}", "200")
	assert.Equal(t, float64(3), value(t, c))
}

func TestPrometheusMetrics_RecordsStatus(t *testing.T) {
	r := metricsRouter("status-svc", http.StatusNotFound)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/products/9", nil))

	c := httpRequestsTotal.WithLabelValues("status-svc", http.MethodGet, "/api/v1/products/{id}", "404")
	assert.Equal(t, float64(1), value(t, c))
	h := &dto.Metric{}
	obs := httpRequestDuration.WithLabelValues("status-svc", http.MethodGet, "/api/v1/products/{id}", "404")
	require.NoError(t, obs.(prometheus.Histogram).Write(h))
	assert.Equal(t, uint64(1), h.GetHistogram().GetSampleCount())
}

func TestPrometheusMetrics_UnmatchedRoute(t *testing.T) {
	r := metricsRouter("unmatched-svc", http.StatusOK)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/nowhere/123", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)

	c := httpRequestsTotal.WithLabelValues("unmatched-svc", http.MethodGet, unmatchedRoute, "404")
	assert.Equal(t, float64(1), value(t, c))
}

func TestPrometheusMetrics_OutsideChi(t *testing.T) {
	h := PrometheusMetrics("plain-svc")(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/x", nil))

	c := httpRequestsTotal.WithLabelValues("plain-svc", http.MethodPost, unmatchedRoute, "202")
	assert.Equal(t, float64(1), value(t, c))
}

func TestPrometheusMetrics_InFlightDuringRequest(t *testing.T) {
	var seen float64
	h := PrometheusMetrics("inflight-svc")(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		seen = value(t, httpRequestsInFlight.WithLabelValues("inflight-svc"))
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, float64(1), seen)
	assert.Equal(t, float64(0), value(t, httpRequestsInFlight.WithLabelValues("inflight-svc")))
}

type hijackableRecorder struct {
	*httptest.ResponseRecorder
	hijacked bool
}

func (h *hijackableRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h.hijacked = true
	return nil, nil, nil
}

func TestMetricsResponseWriter_ForwardsOptionalInterfaces(t *testing.T) {
	rec := httptest.NewRecorder()
	rw := &metricsResponseWriter{ResponseWriter: rec, statusCode: http.StatusOK}
	rw.Flush()
	assert.True(t, rec.Flushed)

	_, _, err := rw.Hijack()
	assert.ErrorIs(t, err, http.ErrNotSupported)

	hr := &hijackableRecorder{ResponseRecorder: httptest.NewRecorder()}
	rw = &metricsResponseWriter{ResponseWriter: hr, statusCode: http.StatusOK}
	_, _, err = rw.Hijack()
	require.NoError(t, err)
	assert.True(t, hr.hijacked)

	rw.WriteHeader(http.StatusTeapot)
	assert.Equal(t, http.StatusTeapot, rw.statusCode)
}
