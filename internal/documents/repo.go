package documents

import "context"

// DocumentsRepo defines persistence operations for documents. Lookups are
// always scoped by the owning user.
type DocumentsRepo interface {
	Create(ctx context.Context, doc Document) error
	GetByID(ctx context.Context, userId, documentID string) (Document, error)
	ListByUser(ctx context.Context, userId string, limit, offset int) ([]Document, error)
	// UpdateSummary stores summary, embedding and summary hash together.
	UpdateSummary(ctx context.Context, userId, documentID, summary string, embedding []float32, summaryHash string) error
	// UpdateEmbedding refreshes only the cached embedding for an existing summary.
	UpdateEmbedding(ctx context.Context, userId, documentID string, embedding []float32, summaryHash string) error
}
