package s3

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"testing"

	aws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ifn-backend/domain/inventory"
	"ifn-backend/domain/listing"
	"ifn-backend/infrastructure/persistence/fixtures"
	"ifn-backend/pkg/errors"
)

// fakeBucket answers the handful of S3 calls the source makes
type fakeBucket struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func (f *fakeBucket) RoundTrip(req *http.Request) (*http.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	parts := strings.SplitN(strings.TrimPrefix(req.URL.Path, "/"), "/", 2)
	key := ""
	if len(parts) == 2 {
		key = parts[1]
	}
	switch req.Method {
	case http.MethodHead:
		return respond(http.StatusOK, nil), nil
	case http.MethodPut:
		body, _ := io.ReadAll(req.Body)
		if dec, ok := decodeChunked(body); ok {
			body = dec
		}
		f.objects[key] = body
		r := respond(http.StatusOK, nil)
		r.Header.Set("ETag", `"etag"`)
		return r, nil
	case http.MethodGet:
		body, ok := f.objects[key]
		if !ok {
			r := respond(http.StatusNotFound, []byte(`<?xml version="1.0" encoding="UTF-8"?><Error><Code>NoSuchKey</Code><Message>missing</Message></Error>`))
			r.Header.Set("Content-Type", "application/xml")
			return r, nil
		}
		r := respond(http.StatusOK, body)
		r.Header.Set("Content-Type", "application/json")
		return r, nil
	}
	return respond(http.StatusNotImplemented, nil), nil
}

func respond(status int, body []byte) *http.Response {
	return &http.Response{
		StatusCode:    status,
		Body:          io.NopCloser(bytes.NewReader(body)),
		ContentLength: int64(len(body)),
		Header:        http.Header{"Content-Length": {strconv.Itoa(len(body))}},
	}
}

// decodeChunked unwraps a single-chunk aws-chunked payload
func decodeChunked(b []byte) ([]byte, bool) {
	parts := strings.Split(string(b), "\r\n")
	if len(parts) < 3 || parts[2] != "0" {
		return nil, false
	}
	size, err := strconv.ParseInt(parts[0], 16, 64)
	if err != nil || int64(len(parts[1])) != size {
		return nil, false
	}
	return []byte(parts[1]), true
}

func newTestSource(t *testing.T) (*Source, *fakeBucket) {
	t.Helper()
	bucket := &fakeBucket{objects: make(map[string][]byte)}
	cfg, err := config.LoadDefaultConfig(context.Background(),
		config.WithRegion("us-east-1"),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider("AKIA", "SECRET", "")),
	)
	require.NoError(t, err)
	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.HTTPClient = &http.Client{Transport: bucket}
		o.UsePathStyle = true
		o.BaseEndpoint = aws.String("https://mock.s3.local")
		o.RequestChecksumCalculation = aws.RequestChecksumCalculationWhenRequired
		o.ResponseChecksumValidation = aws.ResponseChecksumValidationWhenRequired
	})
	reg := inventory.NewRegistry(inventory.Definitions(listing.DefaultSentinels))
	return NewWithClient(client, "ifn-snapshots", "v1", reg, nil), bucket
}

func TestSource_SaveAndLoad(t *testing.T) {
	ctx := context.Background()
	src, bucket := newTestSource(t)
	reg := inventory.NewRegistry(inventory.Definitions(listing.DefaultSentinels))
	want, err := fixtures.NewSource(reg, nil).LoadRecords(ctx, inventory.Miembros)
	require.NoError(t, err)

	require.NoError(t, src.SaveRecords(ctx, inventory.Miembros, want))
	assert.Contains(t, bucket.objects, "v1/miembros.json")

	got, err := src.LoadRecords(ctx, inventory.Miembros)
	require.NoError(t, err)
	require.Len(t, got, 8)
	assert.Equal(t, "Sofia Castro", got[7].Text("nombre"))
}

func TestSource_MissingObjectIsEmpty(t *testing.T) {
	src, _ := newTestSource(t)

	got, err := src.LoadRecords(context.Background(), inventory.Especies)

	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSource_UnknownCollection(t *testing.T) {
	src, _ := newTestSource(t)

	_, err := src.LoadRecords(context.Background(), "usuarios")
	assert.True(t, errors.HasCode(err, errors.CodeUnknownCollection))
}

func TestSource_Ping(t *testing.T) {
	src, _ := newTestSource(t)
	assert.NoError(t, src.Ping(context.Background()))
}

func TestNew_RequiresBucket(t *testing.T) {
	_, err := New(context.Background(), Config{}, nil, nil)
	assert.True(t, errors.IsValidation(err))
}
