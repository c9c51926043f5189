// Package pipeline ties discovery, routing, extraction and persistence
// together. Every extraction attempt terminates in exactly one persisted
// record per source path; failures are isolated per item.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"time"

	"github.com/zemichael-addweb/s3-files-content-parser/internal/config"
	"github.com/zemichael-addweb/s3-files-content-parser/internal/extract"
	"github.com/zemichael-addweb/s3-files-content-parser/internal/models"
	"github.com/zemichael-addweb/s3-files-content-parser/internal/objstore"
	"github.com/zemichael-addweb/s3-files-content-parser/internal/recordstore"
)

// Pipeline processes bucket objects into content records.
type Pipeline struct {
	objects     objstore.Store
	records     recordstore.Store
	extractors  map[models.Family]extract.Extractor
	prefix      string
	concurrency int
	now         func() time.Time
}

// New assembles a pipeline over the given collaborators.
func New(objects objstore.Store, records recordstore.Store, extractors map[models.Family]extract.Extractor, prefix string, concurrency int) *Pipeline {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Pipeline{
		objects:     objects,
		records:     records,
		extractors:  extractors,
		prefix:      prefix,
		concurrency: concurrency,
		now:         time.Now,
	}
}

// DefaultExtractors wires one extractor per family from configuration.
func DefaultExtractors(cfg *config.Config, store objstore.Store) map[models.Family]extract.Extractor {
	stager := extract.NewStager(cfg.ScratchDir)
	return map[models.Family]extract.Extractor{
		models.FamilyPDF:       extract.NewPDFExtractor(store, stager),
		models.FamilyPlainText: extract.NewTextExtractor(store),
		models.FamilyDocument:  extract.NewDocumentExtractor(store, stager),
		models.FamilyMedia:     extract.NewMediaExtractor(store, stager, cfg.FFprobePath, cfg.ProbeTimeout),
	}
}

// ProcessObject runs one object through the guard, router, extractor and
// record store. The returned error is non-nil only when the terminal record
// could not be read or written; extraction failures are converted into
// failed records and reported through the ItemResult.
func (p *Pipeline) ProcessObject(ctx context.Context, obj models.SourceObject) (models.ItemResult, error) {
	logCtx := slog.With("path", obj.Path)
	file := path.Base(obj.Path)

	// Idempotence guard: any existing record, completed or failed, means
	// this path has had its one extraction attempt.
	_, err := p.records.FindByPath(ctx, obj.Path)
	if err == nil {
		logCtx.Info("File already processed.")
		return models.ItemResult{File: file, Status: models.ItemAlreadyProcessed}, nil
	}
	if !errors.Is(err, recordstore.ErrNotFound) {
		return models.ItemResult{}, fmt.Errorf("idempotence check for %s: %w", obj.Path, err)
	}

	family, ok := Classify(obj.Path)
	if !ok {
		// Unreachable after batch filtering, but single-item callers can
		// hand us anything.
		logCtx.Warn("Unsupported file type, skipping.")
		return models.ItemResult{File: file, Status: models.ItemSkipped}, nil
	}
	extractor, ok := p.extractors[family]
	if !ok {
		logCtx.Warn("No extractor wired for family, skipping.", "family", family)
		return models.ItemResult{File: file, Status: models.ItemSkipped}, nil
	}

	logCtx.Info("Processing file.", "family", family)
	res, extractErr := extractor.Extract(ctx, obj)

	rec := &models.ContentRecord{
		FileName:     file,
		OriginalName: file,
		SourcePath:   obj.Path,
		FileSize:     obj.Size,
		ProcessedAt:  p.now(),
	}
	item := models.ItemResult{File: file}

	if extractErr != nil {
		rec.Status = models.StatusFailed
		rec.MimeType = familyMime(family, obj.Path)
		rec.Metadata = map[string]any{"error": extractErr.Error()}
		item.Status = models.ItemFailed
		item.Error = extractErr.Error()
		logCtx.Error("Extraction failed.", "family", family, "error", extractErr)
	} else {
		rec.Status = models.StatusCompleted
		rec.MimeType = res.MimeType
		rec.Content = res.Content
		rec.Metadata = res.Metadata
		rec.PageCount = res.PageCount
		rec.ContentHash = res.ContentHash
		if res.SizeBytes > 0 {
			rec.FileSize = res.SizeBytes
		}
		item.Status = models.ItemCompleted
	}

	if err := p.records.Insert(ctx, rec); err != nil {
		if errors.Is(err, recordstore.ErrDuplicate) {
			// A concurrent run got there first; same terminal state.
			logCtx.Info("File already processed by a concurrent run.")
			return models.ItemResult{File: file, Status: models.ItemAlreadyProcessed}, nil
		}
		// The outcome is unrecorded: the guard would treat this path as
		// unprocessed forever, so the operator has to hear about it.
		return models.ItemResult{}, fmt.Errorf("failed to persist record for %s: %w", obj.Path, err)
	}

	if item.Status == models.ItemCompleted {
		logCtx.Info("Successfully processed file.", "family", family)
	}
	return item, nil
}

// ProcessPath stats and processes a single object, the interactive
// counterpart of a batch item.
func (p *Pipeline) ProcessPath(ctx context.Context, sourcePath string) (models.ItemResult, error) {
	obj, err := p.objects.Stat(ctx, sourcePath)
	if err != nil {
		return models.ItemResult{}, err
	}
	return p.ProcessObject(ctx, obj)
}

// Retry re-runs a previously failed path. The failed record is removed first,
// then the path goes through the normal pipeline; completed records are left
// alone. This is the only way a record is ever deleted.
func (p *Pipeline) Retry(ctx context.Context, sourcePath string) (models.ItemResult, error) {
	rec, err := p.records.FindByPath(ctx, sourcePath)
	if errors.Is(err, recordstore.ErrNotFound) {
		return p.ProcessPath(ctx, sourcePath)
	}
	if err != nil {
		return models.ItemResult{}, fmt.Errorf("failed to look up record for %s: %w", sourcePath, err)
	}

	if rec.Status != models.StatusFailed {
		return models.ItemResult{File: path.Base(sourcePath), Status: models.ItemAlreadyProcessed}, nil
	}

	if err := p.records.DeleteByPath(ctx, sourcePath); err != nil {
		return models.ItemResult{}, err
	}
	slog.Info("Removed failed record for retry.", "path", sourcePath)
	return p.ProcessPath(ctx, sourcePath)
}

// ListSupported returns the supported objects currently under the prefix.
func (p *Pipeline) ListSupported(ctx context.Context) ([]string, error) {
	objects, err := p.objects.List(ctx, p.prefix)
	if err != nil {
		return nil, fmt.Errorf("failed to list objects: %w", err)
	}
	var paths []string
	for _, obj := range objects {
		if _, ok := Classify(obj.Path); ok {
			paths = append(paths, obj.Path)
		}
	}
	return paths, nil
}

// familyMime picks the record mime type for failed extractions, where no
// probed type exists.
func familyMime(family models.Family, sourcePath string) string {
	switch family {
	case models.FamilyPDF:
		return "application/pdf"
	case models.FamilyPlainText:
		return "text/plain"
	case models.FamilyDocument:
		return extract.WordMimeType(sourcePath)
	default:
		return "application/octet-stream"
	}
}
