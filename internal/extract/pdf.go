package extract

import (
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/zemichael-addweb/s3-files-content-parser/internal/models"
	"github.com/zemichael-addweb/s3-files-content-parser/internal/objstore"
)

const mimePDF = "application/pdf"

// PDFExtractor stages the object and pulls per-page text plus the document
// information dictionary. PDF parsers need seekable input, so a forward-only
// remote stream is not enough.
type PDFExtractor struct {
	store  objstore.Store
	stager *Stager
}

func NewPDFExtractor(store objstore.Store, stager *Stager) *PDFExtractor {
	return &PDFExtractor{store: store, stager: stager}
}

func (e *PDFExtractor) Extract(ctx context.Context, obj models.SourceObject) (*Result, error) {
	staged, err := e.stager.Stage(ctx, e.store, obj.Path)
	if err != nil {
		return nil, err
	}
	defer staged.Release()

	// Relaxed validation, the same way corrupt uploads are tolerated during
	// splitting; structurally broken files still error out here and become
	// failed records upstream.
	cfg := model.NewDefaultConfiguration()
	cfg.ValidationMode = model.ValidationRelaxed
	if err := api.ValidateFile(staged.Path, cfg); err != nil {
		return nil, fmt.Errorf("invalid PDF: %w", err)
	}

	pageCount, err := api.PageCountFile(staged.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to get page count: %w", err)
	}

	f, r, err := pdf.Open(staged.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer f.Close()

	var text strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			text.WriteByte('\n')
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("failed to extract text from page %d: %w", i, err)
		}
		text.WriteString(pageText)
		text.WriteByte('\n')
	}

	content := text.String()
	return &Result{
		MimeType:    mimePDF,
		Content:     &content,
		PageCount:   &pageCount,
		SizeBytes:   obj.Size,
		ContentHash: staged.SHA256,
		Metadata:    pdfProperties(r),
	}, nil
}

// pdfProperties reads the document information dictionary. Every field is
// optional; absent entries are stored as nulls, the record shape does not
// change with them.
func pdfProperties(r *pdf.Reader) map[string]any {
	info := r.Trailer().Key("Info")
	return map[string]any{
		"author":      infoString(info, "Author"),
		"creator":     infoString(info, "Creator"),
		"created_at":  infoString(info, "CreationDate"),
		"modified_at": infoString(info, "ModDate"),
	}
}

func infoString(info pdf.Value, key string) any {
	v := info.Key(key)
	if v.Kind() != pdf.String {
		return nil
	}
	return v.RawString()
}
