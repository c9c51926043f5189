package recordstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/zemichael-addweb/s3-files-content-parser/internal/models"
)

// PostgresStore keeps records in the file_contents table. The unique index
// on source_path makes Insert race-safe across concurrent batch runs.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, dbURL, migrationsDir string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	m, err := migrate.New("file://"+migrationsDir, dbURL)
	if err != nil {
		return nil, fmt.Errorf("unable to open migrations: %w", err)
	}
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return nil, fmt.Errorf("unable to run migrations: %w", err)
	}

	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) FindByPath(ctx context.Context, sourcePath string) (*models.ContentRecord, error) {
	query := `
		SELECT id, file_name, original_name, source_path, mime_type, file_size,
		       content, metadata, page_count, content_hash, status, processed_at
		FROM file_contents
		WHERE source_path = $1
	`

	var rec models.ContentRecord
	var metadata []byte
	err := s.pool.QueryRow(ctx, query, sourcePath).Scan(
		&rec.ID, &rec.FileName, &rec.OriginalName, &rec.SourcePath, &rec.MimeType,
		&rec.FileSize, &rec.Content, &metadata, &rec.PageCount, &rec.ContentHash,
		&rec.Status, &rec.ProcessedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("unable to query record for %s: %w", sourcePath, err)
	}
	if metadata != nil {
		if err := json.Unmarshal(metadata, &rec.Metadata); err != nil {
			return nil, fmt.Errorf("unable to decode metadata for %s: %w", sourcePath, err)
		}
	}
	return &rec, nil
}

func (s *PostgresStore) Insert(ctx context.Context, rec *models.ContentRecord) error {
	query := `
		INSERT INTO file_contents
			(file_name, original_name, source_path, mime_type, file_size,
			 content, metadata, page_count, content_hash, status, processed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (source_path) DO NOTHING
		RETURNING id
	`

	var metadata []byte
	if rec.Metadata != nil {
		var err error
		if metadata, err = json.Marshal(rec.Metadata); err != nil {
			return fmt.Errorf("unable to encode metadata for %s: %w", rec.SourcePath, err)
		}
	}

	err := s.pool.QueryRow(ctx, query,
		rec.FileName, rec.OriginalName, rec.SourcePath, rec.MimeType, rec.FileSize,
		rec.Content, metadata, rec.PageCount, rec.ContentHash, rec.Status, rec.ProcessedAt,
	).Scan(&rec.ID)
	if errors.Is(err, pgx.ErrNoRows) {
		// The conflict target swallowed the insert: someone else won the race.
		return ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("unable to insert record for %s: %w", rec.SourcePath, err)
	}
	return nil
}

func (s *PostgresStore) DeleteByPath(ctx context.Context, sourcePath string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM file_contents WHERE source_path = $1`, sourcePath)
	if err != nil {
		return fmt.Errorf("unable to delete record for %s: %w", sourcePath, err)
	}
	return nil
}

func (s *PostgresStore) Close() {
	s.pool.Close()
}
