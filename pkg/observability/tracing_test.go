package observability

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aws/aws-xray-sdk-go/xray"
	"github.com/stretchr/testify/assert"
)

func TestTracer_DisabledRunsFunction(t *testing.T) {
	tr := NewTracer("ifn", false)
	called := false

	err := tr.TraceFunction(context.Background(), "list", func(context.Context) error {
		called = true
		return errors.New("boom")
	})

	assert.True(t, called)
	assert.EqualError(t, err, "boom")
	assert.False(t, tr.Enabled())
}

func TestTracer_NoSegmentRunsUntraced(t *testing.T) {
	tr := NewTracer("ifn", true)

	err := tr.TraceFunction(context.Background(), "list", func(context.Context) error { return nil })

	assert.NoError(t, err)
	tr.AddAnnotation(context.Background(), "collection", "muestras")
	tr.RecordError(context.Background(), errors.New("ignored"))
}

func TestTracer_NilIsDisabled(t *testing.T) {
	var tr *Tracer
	assert.False(t, tr.Enabled())
	assert.NoError(t, tr.TraceFunction(context.Background(), "x", func(context.Context) error { return nil }))
}

func TestTracer_MiddlewareOpensSegment(t *testing.T) {
	var traced bool
	handler := NewTracer("ifn", true).Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traced = xray.GetSegment(r.Context()) != nil
		w.WriteHeader(http.StatusNoContent)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v2/collections", nil))

	assert.True(t, traced)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestTracer_DisabledMiddlewarePassesThrough(t *testing.T) {
	var traced bool
	handler := NewTracer("ifn", false).Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traced = xray.GetSegment(r.Context()) != nil
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.False(t, traced)
}
