package cmd

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"blob-uploader/core/storage"
	"blob-uploader/feature/upload"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBucketServer answers S3 ListBuckets with a single "site" bucket and
// accepts every PUT, recording the object paths.
type fakeBucketServer struct {
	mu   sync.Mutex
	puts []string
}

func (f *fakeBucketServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		w.Header().Set("Content-Type", "application/xml")
		_, _ = w.Write([]byte(`<?xml version="1.0" encoding="UTF-8"?>` +
			`<ListAllMyBucketsResult><Buckets><Bucket><Name>site</Name></Bucket></Buckets></ListAllMyBucketsResult>`))
	case http.MethodPut:
		f.mu.Lock()
		f.puts = append(f.puts, r.URL.Path)
		f.mu.Unlock()
		w.Header().Set("ETag", `"etag"`)
		w.WriteHeader(http.StatusOK)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// writeEnv writes a .env file into a fresh config directory. Keys are
// registered with t.Setenv first so the values loaded from the file are
// restored after the test.
func writeEnv(t *testing.T, values map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	var sb strings.Builder
	for k, v := range values {
		t.Setenv(k, "")
		sb.WriteString(k + `="` + v + `"` + "\n")
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(sb.String()), 0o644))
	return dir
}

func runRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	RootCmd.SetOut(&out)
	RootCmd.SetArgs(args)
	t.Cleanup(func() {
		RootCmd.SetOut(nil)
		RootCmd.SetArgs(nil)
	})
	err := RootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func s3Env(endpoint string) map[string]string {
	return map[string]string{
		"STORAGE_PROVIDER":                "s3",
		"STORAGE_CONNECTION":              "main",
		"STORAGE_CONNECTION_STRINGS_MAIN": "Endpoint=" + endpoint + ";AccessKey=k;SecretKey=s;Region=us-east-1;ForcePathStyle=true",
		"DATABASE_DRIVER":                 "",
		"UPLOAD_SOURCE":                   "",
		"UPLOAD_PREFIX":                   "",
	}
}

func TestUploadCommand_PrintsTrue(t *testing.T) {
	fake := &fakeBucketServer{}
	srv := httptest.NewServer(fake)
	defer srv.Close()

	source := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(source, "css"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(source, "index.html"), []byte("<html/>"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(source, "css", "main.css"), []byte("body{}"), 0o644))

	cfgDir := writeEnv(t, s3Env(srv.URL))

	out, err := runRoot(t, "upload", "--config", cfgDir, "--source", source, "--container", "site")
	require.NoError(t, err)
	assert.Equal(t, "true\n", out)
	assert.ElementsMatch(t, []string{"/site/index.html", "/site/css/main.css"}, fake.puts)
}

func TestUploadCommand_UnsupportedProvider(t *testing.T) {
	env := s3Env("http://127.0.0.1:1")
	env["STORAGE_PROVIDER"] = "ftp"
	cfgDir := writeEnv(t, env)

	out, err := runRoot(t, "upload", "--config", cfgDir, "--source", t.TempDir(), "--container", "site")
	require.Error(t, err)
	assert.ErrorIs(t, err, storage.ErrConfiguration)
	assert.Empty(t, out)
}

func TestUploadCommand_MissingSource(t *testing.T) {
	srv := httptest.NewServer(&fakeBucketServer{})
	defer srv.Close()
	cfgDir := writeEnv(t, s3Env(srv.URL))

	out, err := runRoot(t, "upload", "--config", cfgDir, "--source", "", "--container", "site")
	require.Error(t, err)
	assert.ErrorIs(t, err, upload.ErrInvalidRequest)
	assert.Empty(t, out)
}
