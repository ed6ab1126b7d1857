package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestHandlerExposesCollectors(t *testing.T) {
	m := New()
	m.HTTPRequestsTotal.WithLabelValues("GET", "/comments/", "200").Inc()
	m.AuditFailuresTotal.WithLabelValues("queue_full").Add(2)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `http_requests_total{method="GET",route="/comments/",status="200"} 1`)
	assert.Contains(t, body, `audit_failures_total{reason="queue_full"} 2`)
}

func TestNewIsIndependent(t *testing.T) {
	a, b := New(), New()
	a.AuditFailuresTotal.WithLabelValues("store").Inc()

	assert.Equal(t, 1.0, testutil.ToFloat64(a.AuditFailuresTotal.WithLabelValues("store")))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.AuditFailuresTotal.WithLabelValues("store")))
}
