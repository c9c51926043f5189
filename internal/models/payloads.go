package models

// These structs define the JSON payloads for the interactive HTTP surface.
// The batch command reports the same summary on stdout.

// Item statuses reported by interactive operations. Completed and failed
// mirror the persisted record statuses; the other two never produce a record.
const (
	ItemCompleted        = "completed"
	ItemFailed           = "failed"
	ItemSkipped          = "skipped"
	ItemAlreadyProcessed = "already_processed"
)

// ItemResult is the outcome of processing a single object.
type ItemResult struct {
	File   string `json:"file"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// ProcessRequest asks for a single object to be processed by path.
type ProcessRequest struct {
	FilePath string `json:"file_path" binding:"required"`
}

// ProcessResponse is the envelope returned by the process and retry endpoints.
type ProcessResponse struct {
	Success bool         `json:"success"`
	Results []ItemResult `json:"results"`
}

// FilesResponse lists the discovered, supported objects under the prefix.
type FilesResponse struct {
	Success bool     `json:"success"`
	Files   []string `json:"files"`
}

// BatchSummary reports the counts of one batch run.
type BatchSummary struct {
	Discovered int `json:"discovered"`
	Processed  int `json:"processed"`
	Skipped    int `json:"skipped"`
	Failed     int `json:"failed"`
}
