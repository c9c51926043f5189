package extract

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fumiama/go-docx"

	"github.com/zemichael-addweb/s3-files-content-parser/internal/models"
	"github.com/zemichael-addweb/s3-files-content-parser/internal/objstore"
)

const (
	mimeWordLegacy = "application/msword"
	mimeWordOOXML  = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// DocumentExtractor handles Word documents. The staged file's structural
// model is walked top-down: each paragraph's runs are concatenated with a
// single space after every text run, and each paragraph ends with a newline.
// Only OOXML (.docx) input is decodable; legacy binary .doc files fail to
// parse and terminate as failed records.
type DocumentExtractor struct {
	store  objstore.Store
	stager *Stager
}

func NewDocumentExtractor(store objstore.Store, stager *Stager) *DocumentExtractor {
	return &DocumentExtractor{store: store, stager: stager}
}

func (e *DocumentExtractor) Extract(ctx context.Context, obj models.SourceObject) (*Result, error) {
	staged, err := e.stager.Stage(ctx, e.store, obj.Path)
	if err != nil {
		return nil, err
	}
	defer staged.Release()

	f, err := os.Open(staged.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open staged document: %w", err)
	}
	defer f.Close()

	doc, err := docx.Parse(f, staged.Size)
	if err != nil {
		return nil, fmt.Errorf("failed to load document: %w", err)
	}

	content := documentText(doc)
	return &Result{
		MimeType:    WordMimeType(obj.Path),
		Content:     &content,
		SizeBytes:   obj.Size,
		ContentHash: staged.SHA256,
		Metadata: map[string]any{
			"created_at": obj.LastModified,
		},
	}, nil
}

func documentText(doc *docx.Docx) string {
	var text strings.Builder
	for _, item := range doc.Document.Body.Items {
		para, ok := item.(*docx.Paragraph)
		if !ok {
			// Tables and section properties carry no running text we persist.
			continue
		}
		for _, child := range para.Children {
			run, ok := child.(*docx.Run)
			if !ok {
				continue
			}
			for _, rc := range run.Children {
				if t, ok := rc.(*docx.Text); ok {
					text.WriteString(t.Text)
					text.WriteByte(' ')
				}
			}
		}
		text.WriteByte('\n')
	}
	return text.String()
}

// WordMimeType picks the mime type by extension: legacy .doc and OOXML .docx
// are stored under different types even though both route to this family.
func WordMimeType(path string) string {
	if strings.ToLower(filepath.Ext(path)) == ".doc" {
		return mimeWordLegacy
	}
	return mimeWordOOXML
}
