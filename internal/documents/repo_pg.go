package documents

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// PGRepo implements DocumentsRepo using Postgres. Embeddings are stored as
// jsonb arrays.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a new document.
func (r *PGRepo) Create(ctx context.Context, doc Document) error {
	const query = `
INSERT INTO documents (
    id,
    user_id,
    file_name,
    mime_type,
    size_bytes,
    storage_provider,
    storage_key,
    summary,
    summary_embedding,
    summary_hash,
    created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, NULLIF($8, ''), $9, NULLIF($10, ''), $11)`

	storageProvider := doc.StorageProvider
	if storageProvider == "" {
		storageProvider = "local"
	}

	var storageKey sql.NullString
	if doc.StorageKey != "" {
		storageKey = sql.NullString{String: doc.StorageKey, Valid: true}
	}

	embedding, err := marshalEmbedding(doc.SummaryEmbedding)
	if err != nil {
		return err
	}

	_, err = r.DB.ExecContext(
		ctx,
		query,
		doc.ID,
		doc.UserID,
		doc.FileName,
		doc.MimeType,
		doc.SizeBytes,
		storageProvider,
		storageKey,
		doc.Summary,
		embedding,
		doc.SummaryHash,
		doc.CreatedAt,
	)
	return err
}

const selectColumns = `id, user_id, file_name, mime_type, size_bytes, storage_provider, storage_key, summary, summary_embedding, summary_hash, created_at`

// GetByID fetches a document by ID for a user.
func (r *PGRepo) GetByID(ctx context.Context, userId, documentID string) (Document, error) {
	const query = `
SELECT ` + selectColumns + `
FROM documents
WHERE user_id = $1 AND id = $2
LIMIT 1`
	row := r.DB.QueryRowContext(ctx, query, userId, documentID)
	doc, err := scanDocument(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Document{}, ErrNotFound
		}
		return Document{}, err
	}
	return doc, nil
}

// ListByUser lists documents ordered newest-first.
func (r *PGRepo) ListByUser(ctx context.Context, userId string, limit, offset int) ([]Document, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	const query = `
SELECT ` + selectColumns + `
FROM documents
WHERE user_id = $1
ORDER BY created_at DESC
LIMIT $2 OFFSET $3`

	rows, err := r.DB.QueryContext(ctx, query, userId, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, rows.Err()
}

// UpdateSummary stores summary, embedding and hash together.
func (r *PGRepo) UpdateSummary(ctx context.Context, userId, documentID, summary string, embedding []float32, summaryHash string) error {
	const query = `
UPDATE documents
SET summary = $1, summary_embedding = $2, summary_hash = NULLIF($3, '')
WHERE user_id = $4 AND id = $5`

	payload, err := marshalEmbedding(embedding)
	if err != nil {
		return err
	}
	res, err := r.DB.ExecContext(ctx, query, summary, payload, summaryHash, userId, documentID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// UpdateEmbedding refreshes the cached embedding only.
func (r *PGRepo) UpdateEmbedding(ctx context.Context, userId, documentID string, embedding []float32, summaryHash string) error {
	const query = `
UPDATE documents
SET summary_embedding = $1, summary_hash = NULLIF($2, '')
WHERE user_id = $3 AND id = $4`

	payload, err := marshalEmbedding(embedding)
	if err != nil {
		return err
	}
	res, err := r.DB.ExecContext(ctx, query, payload, summaryHash, userId, documentID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (Document, error) {
	var doc Document
	var storageProvider sql.NullString
	var storageKey sql.NullString
	var summary sql.NullString
	var embedding []byte
	var summaryHash sql.NullString

	err := row.Scan(
		&doc.ID,
		&doc.UserID,
		&doc.FileName,
		&doc.MimeType,
		&doc.SizeBytes,
		&storageProvider,
		&storageKey,
		&summary,
		&embedding,
		&summaryHash,
		&doc.CreatedAt,
	)
	if err != nil {
		return Document{}, err
	}
	if storageProvider.Valid {
		doc.StorageProvider = storageProvider.String
	}
	if storageKey.Valid {
		doc.StorageKey = storageKey.String
	}
	if summary.Valid {
		doc.Summary = summary.String
	}
	if summaryHash.Valid {
		doc.SummaryHash = summaryHash.String
	}
	if len(embedding) > 0 {
		if err := json.Unmarshal(embedding, &doc.SummaryEmbedding); err != nil {
			return Document{}, fmt.Errorf("decode summary embedding: %w", err)
		}
	}
	return doc, nil
}

func marshalEmbedding(vec []float32) (any, error) {
	if len(vec) == 0 {
		return nil, nil
	}
	payload, err := json.Marshal(vec)
	if err != nil {
		return nil, fmt.Errorf("encode summary embedding: %w", err)
	}
	return payload, nil
}

func requireRow(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return nil
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

var _ DocumentsRepo = (*PGRepo)(nil)
