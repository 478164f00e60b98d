package storage

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/balagrajendran/purchase-management-sub000/pkg/config"
	"github.com/balagrajendran/purchase-management-sub000/pkg/logger"
)

type fakeS3 struct {
	in   *s3.PutObjectInput
	body []byte
	err  error
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.in = in
	f.body, _ = io.ReadAll(in.Body)
	return &s3.PutObjectOutput{}, f.err
}

func TestPut(t *testing.T) {
	fake := &fakeS3{}
	a := newS3Archiver(fake, "invoices-bucket", logger.Nop())

	require.NoError(t, a.Put(context.Background(), "invoices/2025/INV-2025-0001.pdf", []byte("%PDF-1.3"), "application/pdf"))
	assert.Equal(t, "invoices-bucket", aws.ToString(fake.in.Bucket))
	assert.Equal(t, "invoices/2025/INV-2025-0001.pdf", aws.ToString(fake.in.Key))
	assert.Equal(t, "application/pdf", aws.ToString(fake.in.ContentType))
	assert.Equal(t, []byte("%PDF-1.3"), fake.body)

	fake.err = errors.New("denied")
	err := a.Put(context.Background(), "k", nil, "application/pdf")
	assert.ErrorContains(t, err, "s3://invoices-bucket/k")
}

func TestNewS3Archiver_RequiresBucket(t *testing.T) {
	_, err := NewS3Archiver(context.Background(), config.StorageConfig{}, logger.Nop())
	assert.Error(t, err)
}
