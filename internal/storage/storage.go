package storage

import (
	"context"
	"io"
	"time"
)

// Service stores poster images in remote object storage. Locations
// are opaque s3://bucket/key strings persisted on the movie record;
// callers resolve them to browser-usable URLs at render time.
type Service interface {
	UploadPoster(ctx context.Context, key string, body io.Reader, contentType string) (string, error)
	PosterURL(ctx context.Context, location string, expires time.Duration) (string, error)
	DeletePoster(ctx context.Context, location string) error
}
