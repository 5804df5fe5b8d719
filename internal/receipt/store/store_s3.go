package store

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"campreg/internal/platform/config"
	pkgerrors "campreg/pkg/errors"
)

// S3BlobStore keeps receipts as objects in an S3-compatible bucket,
// content type carried as object metadata.
type S3BlobStore struct {
	client *minio.Client
	bucket string
}

// NewS3BlobStore creates a MinIO-backed receipt store and makes sure
// the bucket exists.
func NewS3BlobStore(ctx context.Context, cfg config.S3) (*S3BlobStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("init minio: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket %s: %w", cfg.Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("make bucket %s: %w", cfg.Bucket, err)
		}
	}

	return &S3BlobStore{client: client, bucket: cfg.Bucket}, nil
}

func objectKey(id string) string {
	return "receipts/" + id
}

// Put uploads the blob, replacing any previous receipt for id.
func (s *S3BlobStore) Put(ctx context.Context, id string, data []byte, contentType string) error {
	opts := minio.PutObjectOptions{ContentType: contentType}
	_, err := s.client.PutObject(ctx, s.bucket, objectKey(id), bytes.NewReader(data), int64(len(data)), opts)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeUnavailable, "failed to save receipt", err)
	}
	return nil
}

// Get downloads the blob and its content type.
func (s *S3BlobStore) Get(ctx context.Context, id string) ([]byte, string, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, objectKey(id), minio.GetObjectOptions{})
	if err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeUnavailable, "failed to load receipt", err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		if isNoSuchKey(err) {
			return nil, "", ErrNotFound
		}
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeUnavailable, "failed to load receipt", err)
	}

	stat, err := obj.Stat()
	if err != nil {
		if isNoSuchKey(err) {
			return nil, "", ErrNotFound
		}
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeUnavailable, "failed to load receipt", err)
	}
	return data, stat.ContentType, nil
}

func isNoSuchKey(err error) bool {
	resp := minio.ToErrorResponse(err)
	return resp.Code == "NoSuchKey" || strings.Contains(err.Error(), "does not exist")
}
