package documents

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo is an in-memory implementation of DocumentsRepo, used in dev
// mode and tests.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string][]Document // userId -> documents
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		data: make(map[string][]Document),
	}
}

// Create appends a document for its owner.
func (r *MemoryRepo) Create(ctx context.Context, doc Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[doc.UserID] = append(r.data[doc.UserID], doc)
	return nil
}

// GetByID returns a document by ID for a user.
func (r *MemoryRepo) GetByID(ctx context.Context, userId, documentID string) (Document, error) {
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	docs := r.data[userId]
	for i := range docs {
		if docs[i].ID == documentID {
			return cloneDoc(docs[i]), nil
		}
	}
	return Document{}, ErrNotFound
}

// ListByUser returns documents for a user, newest first, honoring limit/offset.
func (r *MemoryRepo) ListByUser(ctx context.Context, userId string, limit, offset int) ([]Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if offset < 0 {
		offset = 0
	}
	if limit < 0 {
		limit = 0
	}

	r.mu.RLock()
	userDocs := r.data[userId]
	r.mu.RUnlock()

	if len(userDocs) == 0 || offset >= len(userDocs) {
		return []Document{}, nil
	}

	docs := make([]Document, 0, len(userDocs))
	for _, d := range userDocs {
		docs = append(docs, cloneDoc(d))
	}
	sort.Slice(docs, func(i, j int) bool {
		return docs[i].CreatedAt.After(docs[j].CreatedAt)
	})

	end := len(docs)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}

	return docs[offset:end], nil
}

// UpdateSummary stores summary, embedding and hash together.
func (r *MemoryRepo) UpdateSummary(ctx context.Context, userId, documentID, summary string, embedding []float32, summaryHash string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	docs := r.data[userId]
	for i := range docs {
		if docs[i].ID == documentID {
			docs[i].Summary = summary
			docs[i].SummaryEmbedding = append([]float32(nil), embedding...)
			docs[i].SummaryHash = summaryHash
			r.data[userId] = docs
			return nil
		}
	}
	return ErrNotFound
}

// UpdateEmbedding refreshes the cached embedding only.
func (r *MemoryRepo) UpdateEmbedding(ctx context.Context, userId, documentID string, embedding []float32, summaryHash string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	docs := r.data[userId]
	for i := range docs {
		if docs[i].ID == documentID {
			docs[i].SummaryEmbedding = append([]float32(nil), embedding...)
			docs[i].SummaryHash = summaryHash
			r.data[userId] = docs
			return nil
		}
	}
	return ErrNotFound
}

func cloneDoc(d Document) Document {
	d.SummaryEmbedding = append([]float32(nil), d.SummaryEmbedding...)
	return d
}

var _ DocumentsRepo = (*MemoryRepo)(nil)
