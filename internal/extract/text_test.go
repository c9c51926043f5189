package extract

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zemichael-addweb/s3-files-content-parser/internal/models"
)

func TestTextExtractor(t *testing.T) {
	modTime := time.Date(2025, 1, 29, 8, 17, 0, 0, time.UTC)
	store := &fakeStore{
		objects: map[string][]byte{"Sections/notes.txt": []byte("hello\nworld\n")},
		modTime: modTime,
	}
	e := NewTextExtractor(store)

	obj, err := store.Stat(context.Background(), "Sections/notes.txt")
	require.NoError(t, err)
	res, err := e.Extract(context.Background(), obj)
	require.NoError(t, err)

	require.NotNil(t, res.Content)
	assert.Equal(t, "hello\nworld\n", *res.Content)
	assert.Equal(t, "text/plain", res.MimeType)
	assert.Nil(t, res.PageCount)
	assert.Equal(t, int64(12), res.SizeBytes)
	assert.Equal(t, modTime, res.Metadata["created_at"])
}

func TestTextExtractorReadError(t *testing.T) {
	store := &fakeStore{readErr: errors.New("access denied")}
	e := NewTextExtractor(store)

	_, err := e.Extract(context.Background(), models.SourceObject{Path: "a.txt"})
	assert.Error(t, err)
}
