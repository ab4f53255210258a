package observability

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordAuthDecisionAndDelete(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	m.RecordAuthDecision(DecisionAllowed)
	m.RecordAuthDecision(DecisionAllowed)
	m.RecordAuthDecision(DecisionForbidden)
	m.RecordDelete("project", nil)
	m.RecordDelete("project", errors.New("linked"))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.AuthDecisionsTotal.WithLabelValues(DecisionAllowed)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.AuthDecisionsTotal.WithLabelValues(DecisionForbidden)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.EntityDeletesTotal.WithLabelValues("project", "deleted")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.EntityDeletesTotal.WithLabelValues("project", "rejected")))
}

func TestMiddlewareAndHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := NewMetrics(prometheus.NewRegistry())

	r := gin.New()
	r.Use(m.Middleware())
	r.GET("/api/v1/users/:id", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	r.GET("/metrics", m.Handler())

	for _, path := range []string{"/api/v1/users/1", "/api/v1/users/2", "/nowhere"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/api/v1/users/:id", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "unmatched", "404")))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "staffhub_http_requests_total")
}
