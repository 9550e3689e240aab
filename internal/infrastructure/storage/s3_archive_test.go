package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/siesson1991/adtracking-saas/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type recordedRequest struct {
	Method      string
	Path        string
	ContentType string
	Body        []byte
}

// fakeS3 answers path-style S3 calls and records them.
type fakeS3 struct {
	mu       sync.Mutex
	requests []recordedRequest
	buckets  map[string]bool
	failPut  bool
}

func (f *fakeS3) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, recordedRequest{
		Method:      r.Method,
		Path:        r.URL.Path,
		ContentType: r.Header.Get("Content-Type"),
		Body:        body,
	})

	switch {
	case r.Method == http.MethodHead:
		if f.buckets[strings.Trim(r.URL.Path, "/")] {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	case r.Method == http.MethodPut && f.failPut:
		w.WriteHeader(http.StatusInternalServerError)
	case r.Method == http.MethodPut:
		w.WriteHeader(http.StatusOK)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (f *fakeS3) last() recordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests[len(f.requests)-1]
}

func newTestArchive(t *testing.T, fake *fakeS3, prefix string) *S3PayloadArchive {
	t.Helper()
	t.Setenv("AWS_CONFIG_FILE", "/nonexistent")
	t.Setenv("AWS_SHARED_CREDENTIALS_FILE", "/nonexistent")
	t.Setenv("AWS_MAX_ATTEMPTS", "1")

	server := httptest.NewServer(fake)
	t.Cleanup(server.Close)

	archive, err := NewS3PayloadArchive(context.Background(), config.ArchiveConfig{
		Endpoint:     server.URL,
		Bucket:       "webhook-archive",
		AccessKey:    "test-key",
		SecretKey:    "test-secret",
		UsePathStyle: true,
		Prefix:       prefix,
	}, WithLogger(zaptest.NewLogger(t)))
	require.NoError(t, err)
	return archive
}

func TestNewS3PayloadArchive_Validation(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.ArchiveConfig
		want string
	}{
		{"missing bucket", config.ArchiveConfig{AccessKey: "k", SecretKey: "s"}, "bucket is required"},
		{"missing access key", config.ArchiveConfig{Bucket: "b", SecretKey: "s"}, "secret key are required"},
		{"missing secret key", config.ArchiveConfig{Bucket: "b", AccessKey: "k"}, "secret key are required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewS3PayloadArchive(context.Background(), tt.cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestEndpointURL(t *testing.T) {
	assert.Equal(t, "http://minio:9000", endpointURL("minio:9000", false))
	assert.Equal(t, "https://minio:9000", endpointURL("minio:9000", true))
	assert.Equal(t, "http://already:9000", endpointURL("http://already:9000", true))
}

func TestS3PayloadArchive_ObjectKey(t *testing.T) {
	a := &S3PayloadArchive{prefix: "webhooks"}
	assert.Equal(t, "webhooks/shopify/a/b.json", a.ObjectKey("shopify/a/b.json"))

	a.prefix = ""
	assert.Equal(t, "shopify/a/b.json", a.ObjectKey("shopify/a/b.json"))
}

func TestS3PayloadArchive_Archive(t *testing.T) {
	fake := &fakeS3{}
	archive := newTestArchive(t, fake, "/webhooks/")

	body := []byte(`{"id":1001,"financial_status":"paid","total_price":"10.00"}`)
	require.NoError(t, archive.Archive(context.Background(), "shopify/store/2026/10/16/event.json", body))

	req := fake.last()
	assert.Equal(t, http.MethodPut, req.Method)
	assert.Equal(t, "/webhook-archive/webhooks/shopify/store/2026/10/16/event.json", req.Path)
	assert.Equal(t, "application/json", req.ContentType)
	assert.Equal(t, body, req.Body)
}

func TestS3PayloadArchive_ArchiveErrors(t *testing.T) {
	fake := &fakeS3{failPut: true}
	archive := newTestArchive(t, fake, "")

	err := archive.Archive(context.Background(), "k.json", []byte(`{}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to archive payload k.json")

	err = archive.Archive(context.Background(), "", []byte(`{}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "key is required")
}

func TestS3PayloadArchive_EnsureBucket(t *testing.T) {
	t.Run("creates missing bucket", func(t *testing.T) {
		fake := &fakeS3{buckets: map[string]bool{}}
		archive := newTestArchive(t, fake, "")

		require.NoError(t, archive.EnsureBucket(context.Background()))
		req := fake.last()
		assert.Equal(t, http.MethodPut, req.Method)
		assert.Equal(t, "webhook-archive", strings.Trim(req.Path, "/"))
	})

	t.Run("existing bucket is left alone", func(t *testing.T) {
		fake := &fakeS3{buckets: map[string]bool{"webhook-archive": true}}
		archive := newTestArchive(t, fake, "")

		require.NoError(t, archive.EnsureBucket(context.Background()))
		assert.Len(t, fake.requests, 1)
		assert.Equal(t, http.MethodHead, fake.last().Method)
	})
}
