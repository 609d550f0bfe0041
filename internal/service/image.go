package service

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/pageza/nutriplan/backend/config"
)

const presignExpiry = time.Hour

// S3ImageStore keeps food images in the configured bucket.
type S3ImageStore struct {
	s3Config *config.S3Config
}

var _ ImageStore = (*S3ImageStore)(nil)

func NewS3ImageStore(s3Config *config.S3Config) *S3ImageStore {
	return &S3ImageStore{s3Config: s3Config}
}

func (s *S3ImageStore) Upload(ctx context.Context, key string, data []byte, contentType string) error {
	_, err := s.s3Config.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.s3Config.BucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("failed to upload image to S3: %w", err)
	}
	log.Printf("[ImageStore] Uploaded %s (%d bytes)", key, len(data))
	return nil
}

func (s *S3ImageStore) URL(ctx context.Context, key string) (string, error) {
	return s.s3Config.GeneratePresignedURL(ctx, key, presignExpiry)
}
