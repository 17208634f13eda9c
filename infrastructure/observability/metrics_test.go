package observability

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector_ObserveQuery(t *testing.T) {
	c := NewCollector("ifn")

	c.ObserveQuery("ListRecordsQuery", 2*time.Millisecond, nil)
	c.ObserveQuery("ListRecordsQuery", time.Millisecond, errors.New("boom"))

	assert.Equal(t, 1.0, testutil.ToFloat64(c.Queries.WithLabelValues("ListRecordsQuery", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.Queries.WithLabelValues("ListRecordsQuery", "error")))
}

func TestCollector_PipelineAndMalformed(t *testing.T) {
	c := NewCollector("ifn")

	c.PipelineRun("muestras", "text")
	c.PipelineRun("muestras", "text")
	c.MalformedRecords("muestras", 3)
	c.MalformedRecords("muestras", 1)
	c.SetListViews(4)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.PipelineRuns.WithLabelValues("muestras", "text")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.Malformed.WithLabelValues("muestras")))
	assert.Equal(t, 4.0, testutil.ToFloat64(c.ListViews))
}

func TestCollector_Handler(t *testing.T) {
	c := NewCollector("ifn")
	c.ObserveHTTP(http.MethodGet, "/api/v2/records/{collection}", http.StatusOK, 5*time.Millisecond)

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `ifn_http_requests_total{method="GET",route="/api/v2/records/{collection}",status="200"} 1`)
}
