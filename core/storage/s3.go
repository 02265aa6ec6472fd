package storage

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/aws/retry"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// s3API is the subset of *s3.Client used by the adapter.
type s3API interface {
	ListBuckets(ctx context.Context, params *s3.ListBucketsInput, optFns ...func(*s3.Options)) (*s3.ListBucketsOutput, error)
	CreateBucket(ctx context.Context, params *s3.CreateBucketInput, optFns ...func(*s3.Options)) (*s3.CreateBucketOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type s3Client struct {
	api    s3API
	region string
}

// newS3Client builds an S3 client from an
// "Endpoint=...;AccessKey=...;SecretKey=...;Region=...;ForcePathStyle=..." connection string.
// Endpoint is optional for AWS itself.
func newS3Client(conn string, cfg Config) (Client, error) {
	settings, err := parseConnectionString(conn)
	if err != nil {
		return nil, err
	}
	if err := settings.require("AccessKey", "SecretKey"); err != nil {
		return nil, err
	}
	pathStyle, err := settings.boolean("ForcePathStyle")
	if err != nil {
		return nil, err
	}

	region := settings.get("Region")
	if region == "" {
		region = "us-east-1"
	}

	attempts := cfg.attempts()
	client := s3.New(s3.Options{}, func(o *s3.Options) {
		o.Region = region
		if endpoint := settings.get("Endpoint"); endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
		o.UsePathStyle = pathStyle
		o.Credentials = credentials.NewStaticCredentialsProvider(
			settings.get("AccessKey"), settings.get("SecretKey"), "",
		)
		o.HTTPClient = &http.Client{Transport: newTransport(cfg)}
		o.Retryer = retry.NewStandard(func(so *retry.StandardOptions) {
			so.MaxAttempts = attempts
			so.Backoff = retry.BackoffDelayerFunc(func(int, error) (time.Duration, error) {
				return 0, nil
			})
		})
	})

	return &s3Client{api: client, region: region}, nil
}

func (c *s3Client) ContainerExists(ctx context.Context, name string) (bool, error) {
	input := &s3.ListBucketsInput{Prefix: aws.String(name)}
	for {
		out, err := c.api.ListBuckets(ctx, input)
		if err != nil {
			return false, &StorageError{Op: "list containers", Container: name, StatusCode: s3Status(err), Err: err}
		}
		for _, b := range out.Buckets {
			if aws.ToString(b.Name) == name {
				return true, nil
			}
		}
		if aws.ToString(out.ContinuationToken) == "" {
			return false, nil
		}
		input.ContinuationToken = out.ContinuationToken
	}
}

func (c *s3Client) CreateContainer(ctx context.Context, name string) (bool, error) {
	input := &s3.CreateBucketInput{Bucket: aws.String(name)}
	// us-east-1 rejects an explicit location constraint.
	if c.region != "us-east-1" {
		input.CreateBucketConfiguration = &s3types.CreateBucketConfiguration{
			LocationConstraint: s3types.BucketLocationConstraint(c.region),
		}
	}
	_, err := c.api.CreateBucket(ctx, input)
	return normalize("create container", name, "", err, s3Status)
}

func (c *s3Client) UploadBlob(ctx context.Context, container, blobName string, content []byte) (bool, error) {
	_, err := c.api.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(container),
		Key:           aws.String(blobName),
		Body:          bytes.NewReader(content),
		ContentLength: aws.Int64(int64(len(content))),
		ContentType:   aws.String(ContentType(blobName)),
	})
	return normalize("upload blob", container, blobName, err, s3Status)
}

func s3Status(err error) int {
	var respErr interface{ HTTPStatusCode() int }
	if errors.As(err, &respErr) {
		return respErr.HTTPStatusCode()
	}
	return 0
}
