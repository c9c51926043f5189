package extract

import (
	"context"
	"fmt"
	"io"

	"github.com/zemichael-addweb/s3-files-content-parser/internal/models"
	"github.com/zemichael-addweb/s3-files-content-parser/internal/objstore"
)

const mimePlainText = "text/plain"

// TextExtractor reads the object straight from the remote store; plain text
// needs no staging and no random access.
type TextExtractor struct {
	store objstore.Store
}

func NewTextExtractor(store objstore.Store) *TextExtractor {
	return &TextExtractor{store: store}
}

func (e *TextExtractor) Extract(ctx context.Context, obj models.SourceObject) (*Result, error) {
	r, err := e.store.Read(ctx, obj.Path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", obj.Path, err)
	}

	content := string(raw)
	return &Result{
		MimeType:  mimePlainText,
		Content:   &content,
		SizeBytes: obj.Size,
		Metadata: map[string]any{
			"created_at": obj.LastModified,
		},
	}, nil
}
