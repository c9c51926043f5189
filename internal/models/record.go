package models

import "time"

// Record statuses. A record is written exactly once, at the moment an
// extraction attempt terminates, so no in-flight status ever appears.
const (
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// Family identifies the extraction routine a file is routed to.
type Family string

const (
	FamilyPDF       Family = "pdf"
	FamilyPlainText Family = "text"
	FamilyDocument  Family = "document"
	FamilyMedia     Family = "media"
)

// SourceObject identifies one object in the bucket. It is supplied by the
// storage backend and never mutated by the pipeline.
type SourceObject struct {
	Path         string
	Size         int64
	LastModified time.Time
}

// ContentRecord is the persisted outcome of one extraction attempt.
// SourcePath is the idempotence key: exactly one record exists per path.
type ContentRecord struct {
	ID           int64          `json:"id,omitempty" firestore:"-"`
	FileName     string         `json:"file_name" firestore:"fileName"`
	OriginalName string         `json:"original_name" firestore:"originalName"`
	SourcePath   string         `json:"source_path" firestore:"sourcePath"`
	MimeType     string         `json:"mime_type" firestore:"mimeType"`
	FileSize     int64          `json:"file_size" firestore:"fileSize"`
	Content      *string        `json:"content,omitempty" firestore:"content"`
	Metadata     map[string]any `json:"metadata,omitempty" firestore:"metadata"`
	PageCount    *int           `json:"page_count,omitempty" firestore:"pageCount"`
	ContentHash  string         `json:"content_hash,omitempty" firestore:"contentHash"`
	Status       string         `json:"status" firestore:"status"`
	ProcessedAt  time.Time      `json:"processed_at" firestore:"processedAt"`
}
