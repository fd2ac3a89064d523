package documents

import "time"

// Document represents an uploaded document owned by a user. Summary and
// SummaryEmbedding stay empty until summarization succeeds; SummaryHash is
// the digest of the summary text the embedding was computed from, so the two
// never silently diverge.
type Document struct {
	ID               string
	UserID           string
	FileName         string
	MimeType         string
	SizeBytes        int64
	StorageProvider  string
	StorageKey       string
	Summary          string
	SummaryEmbedding []float32
	SummaryHash      string
	CreatedAt        time.Time
}

// HasSummary reports whether summarization has completed for this document.
func (d Document) HasSummary() bool {
	return d.Summary != ""
}
