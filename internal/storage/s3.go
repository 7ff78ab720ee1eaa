package storage

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/evermoments/backend/internal/config"
)

// Presigned PUT authorizations stop being honored after this window.
const presignExpiry = time.Hour

// Objects are stored under this key prefix inside the bucket.
const s3KeyPrefix = "uploads/"

// s3Storage implements Storage and Presigner against an S3 bucket. Stored
// references are absolute public URLs.
type s3Storage struct {
	client  *s3.Client
	presign *s3.PresignClient
	bucket  string
	region  string
}

// NewS3Storage creates an s3Storage from static credentials.
func NewS3Storage(cfg config.S3Config) *s3Storage {
	client := s3.New(s3.Options{
		Region:      cfg.Region,
		Credentials: credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
	})

	return &s3Storage{
		client:  client,
		presign: s3.NewPresignClient(client),
		bucket:  cfg.Bucket,
		region:  cfg.Region,
	}
}

// Save uploads the object and returns its public URL.
func (s *s3Storage) Save(ctx context.Context, r io.Reader, filename, contentType string) (string, error) {
	key := s3KeyPrefix + filename

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        r,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to put object: %w", err)
	}

	return s.publicURL(key), nil
}

// Delete removes the object.
func (s *s3Storage) Delete(ctx context.Context, filename string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s3KeyPrefix + filename),
	})
	if err != nil {
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}

// PresignPut issues a time-limited direct-upload authorization for one
// object, plus the public URL the object will have once uploaded.
func (s *s3Storage) PresignPut(ctx context.Context, filename, contentType string) (*PresignedUpload, error) {
	key := s3KeyPrefix + filename

	req, err := s.presign.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(presignExpiry))
	if err != nil {
		return nil, fmt.Errorf("failed to presign put: %w", err)
	}

	return &PresignedUpload{
		UploadURL: req.URL,
		PublicURL: s.publicURL(key),
		ExpiresAt: time.Now().Add(presignExpiry),
	}, nil
}

func (s *s3Storage) publicURL(key string) string {
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key)
}
