package pipeline

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/zemichael-addweb/s3-files-content-parser/internal/models"
)

// extensionFamilies is the static routing table. New families are added here
// and wired with an extractor; nothing else grows.
var extensionFamilies = map[string]models.Family{
	"pdf":  models.FamilyPDF,
	"txt":  models.FamilyPlainText,
	"doc":  models.FamilyDocument,
	"docx": models.FamilyDocument,
	"mp3":  models.FamilyMedia,
	"mp4":  models.FamilyMedia,
	"wav":  models.FamilyMedia,
	"avi":  models.FamilyMedia,
	"mov":  models.FamilyMedia,
}

// Classify routes a path to its extraction family by lowercased extension.
// The second return is false for unsupported extensions; that is a per-item
// skip, never a batch failure.
func Classify(path string) (models.Family, bool) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	family, ok := extensionFamilies[ext]
	return family, ok
}

// SupportedExtensions lists every routable extension, sorted.
func SupportedExtensions() []string {
	exts := make([]string, 0, len(extensionFamilies))
	for ext := range extensionFamilies {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}
