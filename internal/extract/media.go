package extract

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"

	"github.com/zemichael-addweb/s3-files-content-parser/internal/models"
	"github.com/zemichael-addweb/s3-files-content-parser/internal/objstore"
)

// Prober runs ffprobe against a local file. The probe is an external process
// with a hard timeout so one corrupt or huge file cannot stall a whole batch.
type Prober struct {
	ffprobePath string
	timeout     time.Duration
}

func NewProber(ffprobePath string, timeout time.Duration) *Prober {
	return &Prober{ffprobePath: ffprobePath, timeout: timeout}
}

// probeData is the JSON shape ffprobe emits with -show_format -show_streams.
// Streams and format fields vary per container, so both stay loosely typed.
type probeData struct {
	Streams []map[string]any `json:"streams"`
	Format  map[string]any   `json:"format"`
}

func (p *Prober) probe(ctx context.Context, path string) (*probeData, error) {
	probeCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	cmd := exec.CommandContext(probeCtx, p.ffprobePath,
		"-v", "error",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		path,
	)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if errors.Is(probeCtx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("ffprobe timed out after %s", p.timeout)
		}
		return nil, fmt.Errorf("ffprobe failed: %s", strings.TrimSpace(stderr.String()))
	}

	var probe probeData
	if err := json.Unmarshal(stdout.Bytes(), &probe); err != nil {
		return nil, fmt.Errorf("failed to decode ffprobe output: %w", err)
	}
	return &probe, nil
}

// Analyze probes an already-local file and returns its normalized metadata.
// This is the path for one-off analysis of uploaded files; pipeline objects
// go through MediaExtractor instead.
func (p *Prober) Analyze(ctx context.Context, path string) (map[string]any, error) {
	probe, err := p.probe(ctx, path)
	if err != nil {
		return nil, err
	}
	return MediaMetadata(probe), nil
}

// MediaExtractor stages the object and probes it. Media results never carry
// text content; everything of value lands in metadata.
type MediaExtractor struct {
	store  objstore.Store
	stager *Stager
	prober *Prober
}

func NewMediaExtractor(store objstore.Store, stager *Stager, ffprobePath string, timeout time.Duration) *MediaExtractor {
	return &MediaExtractor{store: store, stager: stager, prober: NewProber(ffprobePath, timeout)}
}

func (e *MediaExtractor) Extract(ctx context.Context, obj models.SourceObject) (*Result, error) {
	staged, err := e.stager.Stage(ctx, e.store, obj.Path)
	if err != nil {
		return nil, err
	}
	defer staged.Release()

	probe, err := e.prober.probe(ctx, staged.Path)
	if err != nil {
		return nil, err
	}

	// Mime type comes from the staged bytes, not the extension: media
	// containers are routinely misnamed.
	mime, err := mimetype.DetectFile(staged.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to detect mime type: %w", err)
	}

	size := byteCount(probe.Format["size"])
	if size == 0 {
		size = obj.Size
	}

	return &Result{
		MimeType:    mime.String(),
		SizeBytes:   size,
		ContentHash: staged.SHA256,
		Metadata:    MediaMetadata(probe),
	}, nil
}
