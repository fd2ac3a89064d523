package summaries

// BatchFile is one uploaded file in a batch summarization request.
type BatchFile struct {
	FileName string
	MimeType string
	Data     []byte
}

// BatchItem is one successfully summarized file.
type BatchItem struct {
	DocumentID string `json:"documentId"`
	FileName   string `json:"fileName"`
	Summary    string `json:"summary"`
}

// BatchError records a file that was skipped, with the reason.
type BatchError struct {
	FileName string `json:"fileName"`
	Reason   string `json:"reason"`
}

// BatchResult aggregates per-file outcomes of a batch upload.
type BatchResult struct {
	Summaries []BatchItem  `json:"summaries"`
	Errors    []BatchError `json:"errors,omitempty"`
}

// Partial reports whether any file in the batch was skipped.
func (r BatchResult) Partial() bool {
	return len(r.Errors) > 0
}
