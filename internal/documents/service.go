package documents

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"docbrief-backend/internal/extract"
	"docbrief-backend/internal/shared/metrics"
	"docbrief-backend/internal/shared/storage/object"
)

// Service contains business logic for documents.
type Service struct {
	Store           object.ObjectStore
	Repo            DocumentsRepo
	StorageProvider string
}

// Upload validates the declared media type, saves the file to object storage
// and records the document. Metadata only; summarization is a separate step.
// The type check runs before anything is persisted, so a record never exists
// for an unsupported file, and the record is created only after the bytes
// are durably stored.
func (s *Service) Upload(ctx context.Context, userId, fileName, mimeType string, r io.Reader) (Document, error) {
	if fileName == "" {
		return Document{}, ErrInvalidInput
	}
	if !extract.Supported(mimeType) {
		return Document{}, fmt.Errorf("%w: %s", ErrUnsupportedType, mimeType)
	}

	storageKey, size, _, err := s.Store.Save(ctx, userId, fileName, r)
	if err != nil {
		metrics.DocumentsUploadedTotal.WithLabelValues("error").Inc()
		return Document{}, fmt.Errorf("store file: %w", err)
	}

	doc := Document{
		ID:              uuid.NewString(),
		UserID:          userId,
		FileName:        fileName,
		MimeType:        mimeType,
		SizeBytes:       size,
		StorageProvider: s.StorageProvider,
		StorageKey:      storageKey,
		CreatedAt:       time.Now().UTC(),
	}

	if err := s.Repo.Create(ctx, doc); err != nil {
		metrics.DocumentsUploadedTotal.WithLabelValues("error").Inc()
		return Document{}, fmt.Errorf("create document record: %w", err)
	}

	metrics.DocumentsUploadedTotal.WithLabelValues("success").Inc()
	return doc, nil
}

// Get returns a document by ID for the requesting user.
func (s *Service) Get(ctx context.Context, userId, documentID string) (Document, error) {
	if userId == "" || documentID == "" {
		return Document{}, ErrInvalidInput
	}
	return s.Repo.GetByID(ctx, userId, documentID)
}

// List returns the user's documents, newest first.
func (s *Service) List(ctx context.Context, userId string, limit, offset int) ([]Document, error) {
	if userId == "" {
		return nil, errors.New("user id required")
	}
	return s.Repo.ListByUser(ctx, userId, limit, offset)
}

// OpenContent opens the stored bytes of a document for streaming back to the
// owner. Non-owned documents surface as ErrNotFound.
func (s *Service) OpenContent(ctx context.Context, userId, documentID string) (Document, io.ReadCloser, error) {
	doc, err := s.Get(ctx, userId, documentID)
	if err != nil {
		return Document{}, nil, err
	}
	rc, err := s.Store.Open(ctx, doc.StorageKey)
	if err != nil {
		return Document{}, nil, fmt.Errorf("open stored file: %w", err)
	}
	return doc, rc, nil
}
