package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/zemichael-addweb/s3-files-content-parser/internal/models"
)

// Run processes every unprocessed, supported object under the configured
// prefix. A listing failure aborts the whole run; everything after that is
// isolated per item. Items run through a worker pool bounded by the
// configured concurrency (1 keeps strict listing order). The returned error
// aggregates persistence failures only — those items have no record and will
// be attempted again by the next run.
func (p *Pipeline) Run(ctx context.Context) (models.BatchSummary, error) {
	slog.Info("Batch started, listing bucket objects.", "prefix", p.prefix)

	var summary models.BatchSummary

	objects, err := p.objects.List(ctx, p.prefix)
	if err != nil {
		return summary, fmt.Errorf("failed to list objects: %w", err)
	}

	supported := objects[:0]
	for _, obj := range objects {
		if _, ok := Classify(obj.Path); ok {
			supported = append(supported, obj)
		} else {
			slog.Warn("Unknown file type, dropped from batch.", "path", obj.Path)
		}
	}
	summary.Discovered = len(supported)
	slog.Info("Objects retrieved.", "total", len(objects), "supported", len(supported))

	var (
		mu       sync.Mutex
		itemErrs []error
	)
	g := new(errgroup.Group)
	g.SetLimit(p.concurrency)

	for _, obj := range supported {
		// Cooperative cancellation between items; in-flight items finish
		// and release their staging before the run returns.
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			res, err := p.ProcessObject(ctx, obj)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				itemErrs = append(itemErrs, err)
				return nil
			}
			switch res.Status {
			case models.ItemCompleted:
				summary.Processed++
			case models.ItemFailed:
				summary.Failed++
			default:
				summary.Skipped++
			}
			return nil
		})
	}
	_ = g.Wait()

	if ctx.Err() != nil {
		itemErrs = append(itemErrs, ctx.Err())
	}

	slog.Info("Batch finished.",
		"discovered", summary.Discovered,
		"processed", summary.Processed,
		"skipped", summary.Skipped,
		"failed", summary.Failed,
	)
	return summary, errors.Join(itemErrs...)
}
