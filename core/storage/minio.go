package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// minioAPI is the subset of *minio.Client used by the adapter.
type minioAPI interface {
	ListBuckets(ctx context.Context) ([]minio.BucketInfo, error)
	MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
}

type minioClient struct {
	api    minioAPI
	region string
}

// newMinioClient builds a MinIO client from an
// "Endpoint=...;AccessKey=...;SecretKey=...;Region=...;UseSSL=..." connection string.
func newMinioClient(conn string, cfg Config) (Client, error) {
	settings, err := parseConnectionString(conn)
	if err != nil {
		return nil, err
	}
	if err := settings.require("Endpoint", "AccessKey", "SecretKey"); err != nil {
		return nil, err
	}
	useSSL, err := settings.boolean("UseSSL")
	if err != nil {
		return nil, err
	}

	// Minio expects endpoint without scheme
	endpoint := settings.get("Endpoint")
	if strings.HasPrefix(endpoint, "https://") {
		useSSL = true
	}
	endpoint = strings.TrimPrefix(endpoint, "http://")
	endpoint = strings.TrimPrefix(endpoint, "https://")

	client, err := minio.New(endpoint, &minio.Options{
		Creds:      credentials.NewStaticV4(settings.get("AccessKey"), settings.get("SecretKey"), ""),
		Secure:     useSSL,
		Region:     settings.get("Region"),
		Transport:  newTransport(cfg),
		MaxRetries: cfg.attempts(),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: minio: %v", ErrConfiguration, err)
	}

	return &minioClient{api: client, region: settings.get("Region")}, nil
}

func (c *minioClient) ContainerExists(ctx context.Context, name string) (bool, error) {
	buckets, err := c.api.ListBuckets(ctx)
	if err != nil {
		return false, &StorageError{Op: "list containers", Container: name, StatusCode: minioStatus(err), Err: err}
	}
	for _, b := range buckets {
		if b.Name == name {
			return true, nil
		}
	}
	return false, nil
}

func (c *minioClient) CreateContainer(ctx context.Context, name string) (bool, error) {
	err := c.api.MakeBucket(ctx, name, minio.MakeBucketOptions{Region: c.region})
	return normalize("create container", name, "", err, minioStatus)
}

func (c *minioClient) UploadBlob(ctx context.Context, container, blobName string, content []byte) (bool, error) {
	_, err := c.api.PutObject(ctx, container, blobName, bytes.NewReader(content), int64(len(content)), minio.PutObjectOptions{
		ContentType: ContentType(blobName),
	})
	return normalize("upload blob", container, blobName, err, minioStatus)
}

func minioStatus(err error) int {
	var respErr minio.ErrorResponse
	if errors.As(err, &respErr) {
		return respErr.StatusCode
	}
	return 0
}
