package storage_test

import (
	"errors"
	"testing"

	"blob-uploader/core/storage"

	"github.com/stretchr/testify/assert"
)

const azuriteConnection = "DefaultEndpointsProtocol=http;AccountName=devstoreaccount1;" +
	"AccountKey=Eby8vdM02xNOcqFlqUwJPLlmEtlCDXJ1OUzFT50uSRZ6IFsuFq2UVErCz4I6tq/K1SZFPTOtr/KBHBeksoGMGw==;" +
	"BlobEndpoint=http://127.0.0.1:10000/devstoreaccount1;"

func TestNewClient(t *testing.T) {
	t.Run("Azure", func(t *testing.T) {
		cfg := storage.Config{
			Provider:          storage.ProviderAzure,
			Connection:        "CloudStorageConnection",
			ConnectionStrings: map[string]string{"cloudstorageconnection": azuriteConnection},
		}

		client, err := storage.NewClient(cfg)
		assert.NoError(t, err)
		assert.NotNil(t, client)
	})

	t.Run("AzureMalformed", func(t *testing.T) {
		cfg := storage.Config{
			Provider:          storage.ProviderAzure,
			Connection:        "main",
			ConnectionStrings: map[string]string{"main": "not a connection string"},
		}

		client, err := storage.NewClient(cfg)
		assert.ErrorIs(t, err, storage.ErrConfiguration)
		assert.Nil(t, client)
	})

	t.Run("UnknownConnection", func(t *testing.T) {
		cfg := storage.Config{
			Connection:        "missing",
			ConnectionStrings: map[string]string{"main": azuriteConnection},
		}

		client, err := storage.NewClient(cfg)
		assert.ErrorIs(t, err, storage.ErrConfiguration)
		assert.Contains(t, err.Error(), "missing")
		assert.Nil(t, client)
	})

	t.Run("EmptyConnection", func(t *testing.T) {
		cfg := storage.Config{
			Connection:        "main",
			ConnectionStrings: map[string]string{"main": "  "},
		}

		_, err := storage.NewClient(cfg)
		assert.ErrorIs(t, err, storage.ErrConfiguration)
	})

	t.Run("UnsupportedProvider", func(t *testing.T) {
		cfg := storage.Config{
			Provider:          "ftp",
			Connection:        "main",
			ConnectionStrings: map[string]string{"main": azuriteConnection},
		}

		_, err := storage.NewClient(cfg)
		assert.ErrorIs(t, err, storage.ErrConfiguration)
	})

	t.Run("Minio", func(t *testing.T) {
		cfg := storage.Config{
			Provider:   storage.ProviderMinio,
			Connection: "minio",
			ConnectionStrings: map[string]string{
				"minio": "Endpoint=http://localhost:9000;AccessKey=testkey;SecretKey=testsecret;Region=us-east-1",
			},
		}

		client, err := storage.NewClient(cfg)
		assert.NoError(t, err)
		assert.NotNil(t, client)
	})

	t.Run("MinioMissingSecret", func(t *testing.T) {
		cfg := storage.Config{
			Provider:          storage.ProviderMinio,
			Connection:        "minio",
			ConnectionStrings: map[string]string{"minio": "Endpoint=localhost:9000;AccessKey=testkey"},
		}

		_, err := storage.NewClient(cfg)
		assert.ErrorIs(t, err, storage.ErrConfiguration)
		assert.Contains(t, err.Error(), "SecretKey")
	})

	t.Run("S3", func(t *testing.T) {
		cfg := storage.Config{
			Provider:   storage.ProviderS3,
			Connection: "aws",
			ConnectionStrings: map[string]string{
				"aws": "AccessKey=testkey;SecretKey=testsecret;Region=eu-west-1;ForcePathStyle=true",
			},
		}

		client, err := storage.NewClient(cfg)
		assert.NoError(t, err)
		assert.NotNil(t, client)
	})

	t.Run("S3InvalidBool", func(t *testing.T) {
		cfg := storage.Config{
			Provider:   storage.ProviderS3,
			Connection: "aws",
			ConnectionStrings: map[string]string{
				"aws": "AccessKey=testkey;SecretKey=testsecret;ForcePathStyle=maybe",
			},
		}

		_, err := storage.NewClient(cfg)
		assert.ErrorIs(t, err, storage.ErrConfiguration)
	})
}

func TestContentType(t *testing.T) {
	assert.Equal(t, "text/html; charset=utf-8", storage.ContentType("site/index.html"))
	assert.Equal(t, "image/png", storage.ContentType("img/logo.png"))
	assert.Equal(t, "application/octet-stream", storage.ContentType("LICENSE"))
	assert.Equal(t, "application/octet-stream", storage.ContentType("data.unknownext"))
}

func TestIsConflict(t *testing.T) {
	assert.True(t, storage.IsConflict(&storage.StorageError{StatusCode: 409, Err: errors.New("exists")}))
	assert.False(t, storage.IsConflict(&storage.StorageError{StatusCode: 500, Err: errors.New("boom")}))
	assert.False(t, storage.IsConflict(errors.New("plain")))
}
