package recordstore

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/zemichael-addweb/s3-files-content-parser/internal/models"
)

// FirestoreStore keeps records in a Firestore collection. Document IDs are
// derived from the source path so that Create detects concurrent duplicates
// the same way the relational unique index does.
type FirestoreStore struct {
	client     *firestore.Client
	collection string
}

func NewFirestoreStore(ctx context.Context, projectID, collection string) (*FirestoreStore, error) {
	if projectID == "" {
		return nil, fmt.Errorf("projectID must be provided to create a firestore client")
	}
	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to create Firestore client: %w", err)
	}
	return &FirestoreStore{client: client, collection: collection}, nil
}

// docID makes a path-derived, Firestore-safe document ID.
func docID(sourcePath string) string {
	sum := sha256.Sum256([]byte(sourcePath))
	return hex.EncodeToString(sum[:])
}

func (s *FirestoreStore) FindByPath(ctx context.Context, sourcePath string) (*models.ContentRecord, error) {
	snap, err := s.client.Collection(s.collection).Doc(docID(sourcePath)).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get record for %s: %w", sourcePath, err)
	}

	var rec models.ContentRecord
	if err := snap.DataTo(&rec); err != nil {
		return nil, fmt.Errorf("failed to decode record for %s: %w", sourcePath, err)
	}
	return &rec, nil
}

func (s *FirestoreStore) Insert(ctx context.Context, rec *models.ContentRecord) error {
	_, err := s.client.Collection(s.collection).Doc(docID(rec.SourcePath)).Create(ctx, rec)
	if status.Code(err) == codes.AlreadyExists {
		return ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("failed to create record for %s: %w", rec.SourcePath, err)
	}
	return nil
}

func (s *FirestoreStore) DeleteByPath(ctx context.Context, sourcePath string) error {
	if _, err := s.client.Collection(s.collection).Doc(docID(sourcePath)).Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete record for %s: %w", sourcePath, err)
	}
	return nil
}

func (s *FirestoreStore) Close() error {
	return s.client.Close()
}
