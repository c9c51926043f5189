// Package recordstore persists the terminal outcome of each extraction
// attempt. Records are created once per source path and never updated;
// DeleteByPath exists solely for the explicit retry-of-failed operation.
package recordstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/zemichael-addweb/s3-files-content-parser/internal/config"
	"github.com/zemichael-addweb/s3-files-content-parser/internal/models"
)

var (
	// ErrNotFound is returned by FindByPath when no record exists.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicate is returned by Insert when a record for the same source
	// path already exists. Under concurrent runs this is how a lost
	// check-then-act race surfaces; callers treat it as already processed.
	ErrDuplicate = errors.New("record already exists for source path")
)

// Store is the persistence capability the pipeline depends on.
type Store interface {
	FindByPath(ctx context.Context, sourcePath string) (*models.ContentRecord, error)
	Insert(ctx context.Context, rec *models.ContentRecord) error
	DeleteByPath(ctx context.Context, sourcePath string) error
}

// New builds the configured backend.
func New(ctx context.Context, cfg *config.Config) (Store, error) {
	switch cfg.RecordBackend {
	case config.RecordsPostgres:
		return NewPostgresStore(ctx, cfg.DatabaseURL, cfg.MigrationsDir)
	case config.RecordsFirestore:
		return NewFirestoreStore(ctx, cfg.FirestoreProjectID, cfg.FirestoreCollection)
	default:
		return nil, fmt.Errorf("unknown record backend %q", cfg.RecordBackend)
	}
}
