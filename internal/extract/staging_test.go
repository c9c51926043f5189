package extract

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zemichael-addweb/s3-files-content-parser/internal/models"
)

// fakeStore serves objects out of a map, standing in for the bucket.
type fakeStore struct {
	objects map[string][]byte
	modTime time.Time
	readErr error
}

func (f *fakeStore) List(ctx context.Context, prefix string) ([]models.SourceObject, error) {
	var out []models.SourceObject
	for path, data := range f.objects {
		out = append(out, models.SourceObject{Path: path, Size: int64(len(data)), LastModified: f.modTime})
	}
	return out, nil
}

func (f *fakeStore) Read(ctx context.Context, path string) (io.ReadCloser, error) {
	if f.readErr != nil {
		return nil, f.readErr
	}
	data, ok := f.objects[path]
	if !ok {
		return nil, errors.New("object not found: " + path)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (f *fakeStore) Stat(ctx context.Context, path string) (models.SourceObject, error) {
	data, ok := f.objects[path]
	if !ok {
		return models.SourceObject{}, errors.New("object not found: " + path)
	}
	return models.SourceObject{Path: path, Size: int64(len(data)), LastModified: f.modTime}, nil
}

func TestStagerStage(t *testing.T) {
	payload := []byte("some pdf bytes")
	store := &fakeStore{objects: map[string][]byte{"Sections/a.pdf": payload}}
	stager := NewStager(t.TempDir())

	staged, err := stager.Stage(context.Background(), store, "Sections/a.pdf")
	require.NoError(t, err)
	defer staged.Release()

	got, err := os.ReadFile(staged.Path)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
	assert.Equal(t, int64(len(payload)), staged.Size)
	assert.Equal(t, ".pdf", filepath.Ext(staged.Path))

	sum := sha256.Sum256(payload)
	assert.Equal(t, hex.EncodeToString(sum[:]), staged.SHA256)
}

func TestStagerUniqueNames(t *testing.T) {
	store := &fakeStore{objects: map[string][]byte{"a.mp3": []byte("x")}}
	stager := NewStager(t.TempDir())

	first, err := stager.Stage(context.Background(), store, "a.mp3")
	require.NoError(t, err)
	defer first.Release()
	second, err := stager.Stage(context.Background(), store, "a.mp3")
	require.NoError(t, err)
	defer second.Release()

	assert.NotEqual(t, first.Path, second.Path)
}

func TestStagedFileRelease(t *testing.T) {
	store := &fakeStore{objects: map[string][]byte{"a.txt": []byte("x")}}
	stager := NewStager(t.TempDir())

	staged, err := stager.Stage(context.Background(), store, "a.txt")
	require.NoError(t, err)

	staged.Release()
	_, err = os.Stat(staged.Path)
	assert.True(t, os.IsNotExist(err))

	// Releasing twice must stay quiet.
	staged.Release()
}

func TestStagerRemoteError(t *testing.T) {
	store := &fakeStore{readErr: errors.New("connection reset")}
	root := t.TempDir()
	stager := NewStager(root)

	_, err := stager.Stage(context.Background(), store, "a.pdf")
	require.Error(t, err)

	// No staged file may survive a failed download.
	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
