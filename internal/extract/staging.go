package extract

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/zemichael-addweb/s3-files-content-parser/internal/objstore"
)

// Stager copies remote objects into a local scratch directory for extractors
// that need seekable input or a filesystem path to hand to a subprocess.
// Staged names are random, so concurrent workers never collide.
type Stager struct {
	root string
}

func NewStager(root string) *Stager {
	return &Stager{root: root}
}

// StagedFile is a staged local copy of a remote object. Callers must Release
// it on every exit path; Release is safe to defer immediately after Stage.
type StagedFile struct {
	Path   string
	Size   int64
	SHA256 string
}

// Stage downloads the object at path into the scratch directory, hashing the
// bytes as they are copied. The original extension is kept because external
// tools sniff it.
func (s *Stager) Stage(ctx context.Context, store objstore.Store, path string) (*StagedFile, error) {
	if err := os.MkdirAll(s.root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create scratch dir %s: %w", s.root, err)
	}

	remote, err := store.Read(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("failed to open remote object %s: %w", path, err)
	}
	defer remote.Close()

	localPath := filepath.Join(s.root, uuid.NewString()+filepath.Ext(path))
	local, err := os.Create(localPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file at %s: %w", localPath, err)
	}

	hash := sha256.New()
	size, err := io.Copy(io.MultiWriter(local, hash), remote)
	if cerr := local.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(localPath)
		return nil, fmt.Errorf("failed to copy remote object to local file: %w", err)
	}

	return &StagedFile{
		Path:   localPath,
		Size:   size,
		SHA256: hex.EncodeToString(hash.Sum(nil)),
	}, nil
}

// Release removes the staged copy. Failures are logged, not returned; a
// leftover temp file must never mask the extraction outcome.
func (f *StagedFile) Release() {
	if err := os.Remove(f.Path); err != nil && !os.IsNotExist(err) {
		slog.Warn("Failed to remove staged file.", "path", f.Path, "error", err)
	}
}
