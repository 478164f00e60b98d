// Package storage archives rendered documents to S3-compatible object storage.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/balagrajendran/purchase-management-sub000/internal/application/billing"
	"github.com/balagrajendran/purchase-management-sub000/pkg/config"
	"github.com/balagrajendran/purchase-management-sub000/pkg/logger"
)

var _ billing.Archiver = (*S3Archiver)(nil)

// putObjectAPI the subset of *s3.Client the archiver calls.
type putObjectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Archiver stores invoice PDFs in a bucket. Works with AWS S3, MinIO and other compatible stores.
type S3Archiver struct {
	client putObjectAPI
	bucket string
	log    *logger.Logger
}

// NewS3Archiver builds the client from configuration. Static keys are used when set,
// otherwise the default AWS credential chain.
func NewS3Archiver(ctx context.Context, cfg config.StorageConfig, log *logger.Logger) (*S3Archiver, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("storage bucket is required")
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(region)}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint != "" && !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		endpoint = "https://" + endpoint
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.UsePathStyle
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})
	return newS3Archiver(client, cfg.Bucket, log), nil
}

func newS3Archiver(client putObjectAPI, bucket string, log *logger.Logger) *S3Archiver {
	return &S3Archiver{client: client, bucket: bucket, log: log.Component("archive")}
}

// Put uploads body under key.
func (a *S3Archiver) Put(ctx context.Context, key string, body []byte, contentType string) error {
	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(a.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(body),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(body))),
	})
	if err != nil {
		return fmt.Errorf("put s3://%s/%s: %w", a.bucket, key, err)
	}
	a.log.Debug().Str("bucket", a.bucket).Str("key", key).Int("bytes", len(body)).Msg("document archived")
	return nil
}
