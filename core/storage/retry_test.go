package storage_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"blob-uploader/core/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingServer answers every request with status and counts the requests.
func countingServer(t *testing.T, status int, header http.Header) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		for k, v := range header {
			w.Header()[k] = v
		}
		w.WriteHeader(status)
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func clientFor(t *testing.T, provider, conn string) storage.Client {
	t.Helper()
	client, err := storage.NewClient(storage.Config{
		Provider:          provider,
		Connection:        "main",
		ConnectionStrings: map[string]string{"main": conn},
		MaxAttempts:       4,
		TimeoutSeconds:    5,
	})
	require.NoError(t, err)
	return client
}

func azureConnection(endpoint string) string {
	return "DefaultEndpointsProtocol=http;AccountName=devstoreaccount1;" +
		"AccountKey=Eby8vdM02xNOcqFlqUwJPLlmEtlCDXJ1OUzFT50uSRZ6IFsuFq2UVErCz4I6tq/K1SZFPTOtr/KBHBeksoGMGw==;" +
		"BlobEndpoint=" + endpoint + "/devstoreaccount1;"
}

func s3Connection(endpoint string) string {
	return "Endpoint=" + endpoint + ";AccessKey=testkey;SecretKey=testsecret;Region=us-east-1;ForcePathStyle=true"
}

func minioConnection(endpoint string) string {
	return "Endpoint=" + endpoint + ";AccessKey=testkey;SecretKey=testsecret;Region=us-east-1"
}

func TestRetry_ServerErrorUsesAllAttempts(t *testing.T) {
	tests := []struct {
		name     string
		provider string
		conn     func(string) string
		// maxElapsed bounds the whole call; zero skips the check.
		maxElapsed time.Duration
	}{
		{"Azure", storage.ProviderAzure, azureConnection, 2 * time.Second},
		{"S3", storage.ProviderS3, s3Connection, 2 * time.Second},
		// minio-go always sleeps its own backoff between attempts.
		{"Minio", storage.ProviderMinio, minioConnection, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, calls := countingServer(t, http.StatusInternalServerError, nil)
			client := clientFor(t, tt.provider, tt.conn(srv.URL))

			started := time.Now()
			ok, err := client.CreateContainer(context.Background(), "site")
			elapsed := time.Since(started)

			assert.False(t, ok)
			var se *storage.StorageError
			require.ErrorAs(t, err, &se)
			assert.Equal(t, http.StatusInternalServerError, se.StatusCode)
			assert.Equal(t, int32(4), calls.Load())
			if tt.maxElapsed > 0 {
				assert.Less(t, elapsed, tt.maxElapsed)
			}
		})
	}
}

func TestRetry_ConflictIsNotRetried(t *testing.T) {
	tests := []struct {
		name     string
		provider string
		conn     func(string) string
		header   http.Header
	}{
		{"Azure", storage.ProviderAzure, azureConnection, http.Header{"X-Ms-Error-Code": {"ContainerAlreadyExists"}}},
		{"S3", storage.ProviderS3, s3Connection, nil},
		{"Minio", storage.ProviderMinio, minioConnection, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, calls := countingServer(t, http.StatusConflict, tt.header)
			client := clientFor(t, tt.provider, tt.conn(srv.URL))

			ok, err := client.CreateContainer(context.Background(), "site")
			assert.NoError(t, err)
			assert.False(t, ok)
			assert.Equal(t, int32(1), calls.Load())
		})
	}
}

func TestRetry_AzureUploadBlob(t *testing.T) {
	srv, calls := countingServer(t, http.StatusServiceUnavailable, nil)
	client := clientFor(t, storage.ProviderAzure, azureConnection(srv.URL))

	started := time.Now()
	ok, err := client.UploadBlob(context.Background(), "site", "index.html", []byte("<html></html>"))

	assert.False(t, ok)
	assert.Error(t, err)
	assert.Equal(t, int32(4), calls.Load())
	assert.Less(t, time.Since(started), 2*time.Second)
}

func TestAzure_PlainHTTPEndpoints(t *testing.T) {
	srv, calls := countingServer(t, http.StatusCreated, nil)

	// Azurite-style endpoints are served over plain http.
	client := clientFor(t, storage.ProviderAzure, azureConnection(srv.URL))
	ok, err := client.CreateContainer(context.Background(), "site")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int32(1), calls.Load())

	t.Run("DefaultEndpointsProtocol", func(t *testing.T) {
		conn := strings.Replace(azureConnection(srv.URL), "BlobEndpoint="+srv.URL+"/devstoreaccount1;", "", 1)
		_, err := storage.NewClient(storage.Config{
			Provider:          storage.ProviderAzure,
			Connection:        "main",
			ConnectionStrings: map[string]string{"main": conn},
		})
		assert.NoError(t, err)
	})

	t.Run("UseDevelopmentStorage", func(t *testing.T) {
		client, err := storage.NewClient(storage.Config{
			Provider:          storage.ProviderAzure,
			Connection:        "main",
			ConnectionStrings: map[string]string{"main": "UseDevelopmentStorage=true"},
		})
		assert.NoError(t, err)
		assert.NotNil(t, client)
	})
}
