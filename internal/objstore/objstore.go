// Package objstore provides read access to the bucket the pipeline ingests
// from. Two backends exist; both are selected by configuration at startup.
package objstore

import (
	"context"
	"fmt"
	"io"

	"github.com/zemichael-addweb/s3-files-content-parser/internal/config"
	"github.com/zemichael-addweb/s3-files-content-parser/internal/models"
)

// Store is the object-storage capability the pipeline depends on.
// List returns every object under the prefix with its attributes; Read
// returns a forward-only stream; Stat fetches attributes for one path.
type Store interface {
	List(ctx context.Context, prefix string) ([]models.SourceObject, error)
	Read(ctx context.Context, path string) (io.ReadCloser, error)
	Stat(ctx context.Context, path string) (models.SourceObject, error)
}

// New builds the configured backend.
func New(ctx context.Context, cfg *config.Config) (Store, error) {
	switch cfg.StorageBackend {
	case config.StorageGCS:
		return NewGCSStore(ctx, cfg.Bucket)
	case config.StorageS3:
		return NewS3Store(ctx, cfg.Bucket, cfg.S3Region, cfg.S3Endpoint)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}
