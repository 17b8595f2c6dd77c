// Package storage provides access to the object store (MinIO) holding
// uploaded inbox documents.
package storage

import (
	"context"
	"io"
	"time"

	"assistant-go/internal/config"
	"assistant-go/pkg/log"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioClient is the global MinIO client instance.
var MinioClient *minio.Client

var bucketName string

// InitMinIO initialises the MinIO client and makes sure the configured
// bucket exists.
func InitMinIO(cfg config.MinIOConfig) {
	var err error

	MinioClient, err = minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		log.Fatal("failed to initialise MinIO client", err)
	}
	bucketName = cfg.BucketName

	ctx := context.Background()
	exists, err := MinioClient.BucketExists(ctx, bucketName)
	if err != nil {
		log.Fatal("failed to check MinIO bucket", err)
	}
	if !exists {
		if err := MinioClient.MakeBucket(ctx, bucketName, minio.MakeBucketOptions{}); err != nil {
			log.Fatal("failed to create MinIO bucket", err)
		}
		log.Infof("bucket '%s' created", bucketName)
	}
	log.Info("MinIO client initialised")
}

// PutObject uploads a document to the bucket under objectKey.
func PutObject(ctx context.Context, objectKey string, reader io.Reader, size int64, contentType string) error {
	_, err := MinioClient.PutObject(ctx, bucketName, objectKey, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	return err
}

// GetObject fetches a document from the bucket. The caller must close
// the returned reader.
func GetObject(ctx context.Context, objectKey string) (io.ReadCloser, error) {
	return MinioClient.GetObject(ctx, bucketName, objectKey, minio.GetObjectOptions{})
}

// GetPresignedURL generates a presigned download URL for an object.
func GetPresignedURL(objectKey string, expiry time.Duration) (string, error) {
	presignedURL, err := MinioClient.PresignedGetObject(context.Background(), bucketName, objectKey, expiry, nil)
	if err != nil {
		log.Errorf("error generating presigned URL: %s", err)
		return "", err
	}
	return presignedURL.String(), nil
}
