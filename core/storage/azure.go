package storage

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/runtime"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"
)

// azureAPI is the subset of *azblob.Client used by the adapter.
type azureAPI interface {
	NewListContainersPager(o *azblob.ListContainersOptions) *runtime.Pager[azblob.ListContainersResponse]
	CreateContainer(ctx context.Context, containerName string, o *azblob.CreateContainerOptions) (azblob.CreateContainerResponse, error)
	UploadBuffer(ctx context.Context, containerName string, blobName string, buffer []byte, o *azblob.UploadBufferOptions) (azblob.UploadBufferResponse, error)
}

type azureClient struct {
	api azureAPI
}

// developmentStorageConnection is the well-known Azurite account that
// UseDevelopmentStorage=true stands for.
const developmentStorageConnection = "DefaultEndpointsProtocol=http;AccountName=devstoreaccount1;" +
	"AccountKey=Eby8vdM02xNOcqFlqUwJPLlmEtlCDXJ1OUzFT50uSRZ6IFsuFq2UVErCz4I6tq/K1SZFPTOtr/KBHBeksoGMGw==;" +
	"BlobEndpoint=http://127.0.0.1:10000/devstoreaccount1;"

func newAzureClient(conn string, cfg Config) (Client, error) {
	settings, err := parseConnectionString(conn)
	if err != nil {
		return nil, err
	}
	if dev, _ := settings.boolean("UseDevelopmentStorage"); dev {
		conn = developmentStorageConnection
		if settings, err = parseConnectionString(conn); err != nil {
			return nil, err
		}
	}

	opts := &azblob.ClientOptions{
		ClientOptions: azcore.ClientOptions{
			Retry:     azureRetryOptions(cfg.attempts()),
			Transport: &http.Client{Transport: newTransport(cfg)},
			// Azurite and other local emulators are served over plain HTTP.
			InsecureAllowCredentialWithHTTP: azureUsesHTTP(settings),
		},
	}

	client, err := azblob.NewClientFromConnectionString(conn, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: azure: %v", ErrConfiguration, err)
	}

	return &azureClient{api: client}, nil
}

func (c *azureClient) ContainerExists(ctx context.Context, name string) (bool, error) {
	pager := c.api.NewListContainersPager(&azblob.ListContainersOptions{
		Prefix: to.Ptr(name),
	})
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return false, &StorageError{Op: "list containers", Container: name, StatusCode: azureStatus(err), Err: err}
		}
		for _, item := range page.ContainerItems {
			if item != nil && item.Name != nil && *item.Name == name {
				return true, nil
			}
		}
	}
	return false, nil
}

func (c *azureClient) CreateContainer(ctx context.Context, name string) (bool, error) {
	_, err := c.api.CreateContainer(ctx, name, nil)
	return normalize("create container", name, "", err, azureStatus)
}

func (c *azureClient) UploadBlob(ctx context.Context, container, blobName string, content []byte) (bool, error) {
	_, err := c.api.UploadBuffer(ctx, container, blobName, content, &azblob.UploadBufferOptions{
		HTTPHeaders: &blob.HTTPHeaders{
			BlobContentType: to.Ptr(ContentType(blobName)),
		},
	})
	return normalize("upload blob", container, blobName, err, azureStatus)
}

// azureRetryOptions makes attempts back-to-back tries. azcore replaces a zero
// delay with an overflow value capped at MaxRetryDelay, so the cap must be tiny.
func azureRetryOptions(attempts int) policy.RetryOptions {
	return policy.RetryOptions{
		MaxRetries:    int32(attempts - 1),
		RetryDelay:    -1,
		MaxRetryDelay: time.Nanosecond,
	}
}

// azureUsesHTTP reports whether the blob endpoint the SDK derives from the
// connection string is plain HTTP.
func azureUsesHTTP(settings connectionSettings) bool {
	if endpoint := settings.get("BlobEndpoint"); endpoint != "" {
		return strings.HasPrefix(strings.ToLower(endpoint), "http://")
	}
	return strings.EqualFold(settings.get("DefaultEndpointsProtocol"), "http")
}

func azureStatus(err error) int {
	var respErr *azcore.ResponseError
	if errors.As(err, &respErr) {
		return respErr.StatusCode
	}
	return 0
}
