package objstore

import (
	"context"
	"fmt"
	"io"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"

	"github.com/zemichael-addweb/s3-files-content-parser/internal/models"
)

// GCSStore reads objects from a Google Cloud Storage bucket.
type GCSStore struct {
	client *storage.Client
	bucket string
}

func NewGCSStore(ctx context.Context, bucket string) (*GCSStore, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	return &GCSStore{client: client, bucket: bucket}, nil
}

func (s *GCSStore) List(ctx context.Context, prefix string) ([]models.SourceObject, error) {
	it := s.client.Bucket(s.bucket).Objects(ctx, &storage.Query{Prefix: prefix})

	var objects []models.SourceObject
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list objects in gs://%s/%s: %w", s.bucket, prefix, err)
		}
		objects = append(objects, models.SourceObject{
			Path:         attrs.Name,
			Size:         attrs.Size,
			LastModified: attrs.Updated,
		})
	}
	return objects, nil
}

func (s *GCSStore) Read(ctx context.Context, path string) (io.ReadCloser, error) {
	r, err := s.client.Bucket(s.bucket).Object(path).NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get object reader for gs://%s/%s: %w", s.bucket, path, err)
	}
	return r, nil
}

func (s *GCSStore) Stat(ctx context.Context, path string) (models.SourceObject, error) {
	attrs, err := s.client.Bucket(s.bucket).Object(path).Attrs(ctx)
	if err != nil {
		return models.SourceObject{}, fmt.Errorf("failed to stat gs://%s/%s: %w", s.bucket, path, err)
	}
	return models.SourceObject{
		Path:         attrs.Name,
		Size:         attrs.Size,
		LastModified: attrs.Updated,
	}, nil
}

func (s *GCSStore) Close() error {
	return s.client.Close()
}
