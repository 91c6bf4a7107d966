package storage

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Service stores posters in Amazon S3 (or compatible APIs).
type S3Service struct {
	client    *s3.Client
	uploader  *manager.Uploader
	bucket    string
	keyPrefix string
}

func NewS3Service(client *s3.Client, bucket, keyPrefix string) *S3Service {
	return &S3Service{
		client:    client,
		uploader:  manager.NewUploader(client),
		bucket:    bucket,
		keyPrefix: strings.Trim(keyPrefix, "/"),
	}
}

func (s *S3Service) key(name string) string {
	if s.keyPrefix == "" {
		return name
	}
	return s.keyPrefix + "/" + name
}

func (s *S3Service) UploadPoster(ctx context.Context, key string, body io.Reader, contentType string) (string, error) {
	if s.bucket == "" {
		return "", fmt.Errorf("storage bucket is required")
	}

	fullKey := s.key(key)
	input := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(fullKey),
		Body:   body,
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	if _, err := s.uploader.Upload(ctx, input); err != nil {
		return "", fmt.Errorf("upload poster: %w", err)
	}

	return fmt.Sprintf("s3://%s/%s", s.bucket, fullKey), nil
}

func (s *S3Service) PosterURL(ctx context.Context, location string, expires time.Duration) (string, error) {
	bucket, key, err := parseLocation(location)
	if err != nil {
		return "", err
	}

	presigner := s3.NewPresignClient(s.client)
	out, err := presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(expires))
	if err != nil {
		return "", fmt.Errorf("presign poster url: %w", err)
	}
	return out.URL, nil
}

func (s *S3Service) DeletePoster(ctx context.Context, location string) error {
	bucket, key, err := parseLocation(location)
	if err != nil {
		return err
	}

	if _, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	}); err != nil {
		return fmt.Errorf("delete poster: %w", err)
	}
	return nil
}

// IsLocation reports whether a poster reference points into object
// storage rather than being a plain URL.
func IsLocation(ref string) bool {
	return strings.HasPrefix(ref, "s3://")
}

func parseLocation(location string) (bucket, key string, err error) {
	trimmed := strings.TrimPrefix(location, "s3://")
	parts := strings.SplitN(trimmed, "/", 2)
	if trimmed == location || len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid poster location %q", location)
	}
	return parts[0], parts[1], nil
}

var _ Service = (*S3Service)(nil)
