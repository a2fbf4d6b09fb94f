package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3Operator wraps the bucket holding the photo blobs.
type S3Operator struct {
	// Client is the S3 client.
	Client *s3.Client
	// Bucket is the name of the bucket.
	Bucket string
	// PublicEndpoint is the public base URL of the bucket. Objects are
	// assumed to be publicly readable under it.
	PublicEndpoint *url.URL
}

func NewS3Operator(client *s3.Client, bucket, publicBaseURL string) (*S3Operator, error) {
	const op = "NewS3Operator"
	publicEndpoint, err := url.Parse(publicBaseURL)
	if err != nil {
		return nil, fmt.Errorf("[%s] Fail to parse public base URL, err=%w", op, err)
	}
	return &S3Operator{Client: client, Bucket: bucket, PublicEndpoint: publicEndpoint}, nil
}

// Upload stores content under key, overwriting any existing object. Keys are
// generated to be unique so an overwrite is never expected in practice.
func (s *S3Operator) Upload(ctx context.Context, key, contentType string, content []byte) error {
	const op = "S3Operator.Upload"
	_, err := s.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(content),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("[%s] Fail to upload object, err=%w", op, err)
	}
	return nil
}

// Exists reports whether an object is stored under key.
func (s *S3Operator) Exists(ctx context.Context, key string) (bool, error) {
	const op = "S3Operator.Exists"
	_, err := s.Client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.Bucket),
		Key:    aws.String(key),
	})
	var notFound *types.NotFound
	if errors.As(err, &notFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("[%s] Fail to head object, err=%w", op, err)
	}
	return true, nil
}

// Delete removes the object stored under key.
func (s *S3Operator) Delete(ctx context.Context, key string) error {
	const op = "S3Operator.Delete"
	_, err := s.Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("[%s] Fail to delete object, err=%w", op, err)
	}
	return nil
}

// PublicURL returns the publicly dereferenceable URL of the object stored
// under key. No authorization token is embedded.
func (s *S3Operator) PublicURL(key string) string {
	uri := *s.PublicEndpoint
	uri.Path = key
	return uri.String()
}
