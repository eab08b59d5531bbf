package types

// UploadResult describes the outcome of storing a single uploaded file part.
type UploadResult struct {
	Success   bool   `json:"success"`
	FinalName string `json:"finalName,omitempty"`
	SizeBytes int64  `json:"sizeBytes,omitempty"`
	Error     string `json:"error,omitempty"`
}

// UploadBatchResult aggregates the per-file outcomes of one multipart
// request. Success is true when at least one file was stored.
type UploadBatchResult struct {
	Success   bool              `json:"success"`
	Filenames []string          `json:"filenames"`
	TotalSize int64             `json:"totalSize"`
	FileCount int               `json:"fileCount"`
	Errors    map[string]string `json:"errors,omitempty"`
}
