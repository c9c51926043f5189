// Package extract implements the per-family extraction capabilities. Each
// extractor consumes one bucket object and produces a normalized Result;
// decoding failures come back as plain errors and are turned into failed
// records by the caller.
package extract

import (
	"context"

	"github.com/zemichael-addweb/s3-files-content-parser/internal/models"
)

// Result is the normalized output of any extractor. Content is set only for
// text-bearing families; media extraction fills Metadata alone. Metadata must
// stay JSON-serializable, it is persisted verbatim.
type Result struct {
	MimeType    string
	Content     *string
	PageCount   *int
	SizeBytes   int64
	ContentHash string
	Metadata    map[string]any
}

// Extractor is the capability contract for one file family.
type Extractor interface {
	Extract(ctx context.Context, obj models.SourceObject) (*Result, error)
}
