package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"realty_gateway/pkg/config"
)

// S3Storage talks to the backend's S3-compatible storage endpoint.
type S3Storage struct {
	client    *s3.Client
	publicURL string
}

// NewS3Storage builds a path-style client with static credentials. optFns
// are applied after the defaults.
func NewS3Storage(ctx context.Context, cfg config.StorageConfig, optFns ...func(*s3.Options)) (*S3Storage, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, append([]func(*s3.Options){func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = true
	}}, optFns...)...)

	return &S3Storage{
		client:    client,
		publicURL: strings.TrimRight(cfg.PublicURL, "/"),
	}, nil
}

func (s *S3Storage) Upload(ctx context.Context, bucket, key string, body io.Reader, contentType string) error {
	// Signing needs a seekable body.
	data, err := io.ReadAll(body)
	if err != nil {
		return fmt.Errorf("could not read file: %w", err)
	}

	input := &s3.PutObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(data),
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	if _, err := s.client.PutObject(ctx, input); err != nil {
		return fmt.Errorf("could not upload %s/%s: %w", bucket, key, err)
	}
	return nil
}

// Remove deletes each key and reports every failure.
func (s *S3Storage) Remove(ctx context.Context, bucket string, keys ...string) error {
	var errs []error
	for _, key := range keys {
		_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
			Bucket: aws.String(bucket),
			Key:    aws.String(key),
		})
		if err != nil {
			errs = append(errs, fmt.Errorf("could not delete %s/%s: %w", bucket, key, err))
		}
	}
	return errors.Join(errs...)
}

func (s *S3Storage) PublicURL(bucket, key string) string {
	return s.publicURL + "/" + bucket + "/" + key
}
