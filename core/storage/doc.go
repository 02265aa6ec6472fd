// Package storage provides the storage client adapter used by the uploader.
//
// It exposes a small capability interface over three object-store providers:
// Azure Blob Storage (azblob), MinIO (minio-go) and Amazon S3 (aws-sdk-go-v2).
// Each provider is built from a named connection string and configured with a
// bounded retry policy (MaxAttempts tries, no delay between tries on azure and s3).
//
// # Client Interface
//
// The Client interface abstracts the underlying provider, making it easier to
// mock storage interactions for unit testing (as seen in core/storage/mocks).
//
//   - ContainerExists: lists containers and reports an exact name match.
//   - CreateContainer: creates a container; false when it already exists.
//   - UploadBlob: writes a whole blob, overwriting any previous content.
//
// # Conflicts
//
// A 409 answer from any mutating call is reported as (false, nil). Every other
// failure is returned as a *StorageError once the provider's retries are spent.
//
// # Usage
//
//	client, err := storage.NewClient(cfg.Storage)
//	exists, err := client.ContainerExists(ctx, "$web")
package storage
