package storage

import (
	"context"
	"mime"
	"net"
	"net/http"
	"path"
	"strings"
	"time"
)

// Client defines the interface for storage operations.
//
// Mutating calls report false instead of an error when the provider answers
// with a 409 conflict.
type Client interface {
	// ContainerExists checks if a container exists.
	ContainerExists(ctx context.Context, name string) (bool, error)
	// CreateContainer creates a new container.
	CreateContainer(ctx context.Context, name string) (bool, error)
	// UploadBlob writes content to a blob, replacing any existing content.
	UploadBlob(ctx context.Context, container, blobName string, content []byte) (bool, error)
}

// NewClient creates a storage client for the configured provider.
func NewClient(cfg Config) (Client, error) {
	conn, err := resolveConnectionString(cfg)
	if err != nil {
		return nil, err
	}

	switch strings.ToLower(cfg.Provider) {
	case ProviderAzure, "":
		return newAzureClient(conn, cfg)
	case ProviderMinio:
		return newMinioClient(conn, cfg)
	case ProviderS3:
		return newS3Client(conn, cfg)
	default:
		return nil, configError("unsupported provider %q", cfg.Provider)
	}
}

// newTransport creates an HTTP transport with strict timeouts.
func newTransport(cfg Config) *http.Transport {
	timeout := cfg.TimeoutSeconds
	if timeout <= 0 {
		timeout = 30
	}
	timeoutDuration := time.Duration(timeout) * time.Second

	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   timeoutDuration,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   timeoutDuration,
		ExpectContinueTimeout: 1 * time.Second,
		ResponseHeaderTimeout: timeoutDuration,
	}
}

// ContentType returns a MIME type based on the blob name extension.
func ContentType(blobName string) string {
	ext := path.Ext(blobName)
	if ext == "" {
		return "application/octet-stream"
	}

	ct := mime.TypeByExtension(ext)
	if ct == "" {
		return "application/octet-stream"
	}

	return ct
}
