package summaries

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"docbrief-backend/internal/documents"
	"docbrief-backend/internal/extract"
	"docbrief-backend/internal/llm"
	"docbrief-backend/internal/shared/metrics"
	"docbrief-backend/internal/shared/storage/object"
	"docbrief-backend/internal/shared/telemetry"
	"docbrief-backend/internal/shared/util"
)

// Service runs the document-to-summary-to-comparison pipeline: extraction,
// summarization, embedding, persistence of derived artifacts, and vector
// similarity across documents. All steps within one request run strictly
// sequentially; concurrent summarize calls for the same document race with
// last-write-wins on the stored summary and embedding.
type Service struct {
	Docs       *documents.Service
	Repo       documents.DocumentsRepo
	Store      object.ObjectStore
	Summarizer llm.Summarizer
	Embedder   llm.Embedder
}

// UploadAndSummarize processes each submitted file independently and in
// order. A file with an unsupported media type is recorded in the error list
// and never persisted; failures after the metadata record exists (extraction,
// summarization, embedding) are logged and swallowed so one bad file never
// aborts the rest of the batch, and uploaded-file records stay available even
// when summarization does not complete.
func (s *Service) UploadAndSummarize(ctx context.Context, userID string, files []BatchFile) (BatchResult, error) {
	if userID == "" {
		return BatchResult{}, errors.New("userID is required")
	}

	result := BatchResult{Summaries: []BatchItem{}}

	for _, file := range files {
		if !extract.Supported(file.MimeType) {
			result.Errors = append(result.Errors, BatchError{
				FileName: file.FileName,
				Reason:   "unsupported file type",
			})
			continue
		}

		doc, err := s.Docs.Upload(ctx, userID, file.FileName, file.MimeType, bytes.NewReader(file.Data))
		if err != nil {
			telemetry.Error("summaries.batch_upload_failed", map[string]any{
				"user_id":   userID,
				"file_name": file.FileName,
				"error":     err.Error(),
			})
			continue
		}

		text, err := extract.TextFromBytes(ctx, file.Data, file.MimeType)
		if err != nil {
			telemetry.Error("summaries.batch_extract_failed", map[string]any{
				"user_id":     userID,
				"document_id": doc.ID,
				"file_name":   file.FileName,
				"error":       err.Error(),
			})
			continue
		}

		summary, err := s.Summarizer.Summarize(ctx, text)
		if err != nil {
			// The metadata record is kept; summarization completeness is
			// traded for availability of uploaded-file records.
			telemetry.Error("summaries.batch_summarize_failed", map[string]any{
				"user_id":     userID,
				"document_id": doc.ID,
				"file_name":   file.FileName,
				"error":       err.Error(),
			})
			continue
		}

		embedding, err := s.Embedder.Embed(ctx, summary)
		if err != nil {
			telemetry.Error("summaries.batch_embed_failed", map[string]any{
				"user_id":     userID,
				"document_id": doc.ID,
				"file_name":   file.FileName,
				"error":       err.Error(),
			})
			embedding = nil
		}

		if err := s.Repo.UpdateSummary(ctx, userID, doc.ID, summary, embedding, summaryHashFor(summary, embedding)); err != nil {
			telemetry.Error("summaries.batch_persist_failed", map[string]any{
				"user_id":     userID,
				"document_id": doc.ID,
				"error":       err.Error(),
			})
			continue
		}

		result.Summaries = append(result.Summaries, BatchItem{
			DocumentID: doc.ID,
			FileName:   file.FileName,
			Summary:    summary,
		})
	}

	return result, nil
}

// Summarize returns the summary for a document, producing it on first call.
// A document summarized earlier keeps its summary text forever; only the
// embedding may be refreshed, and only when the stored hash no longer matches
// the summary. Failures here surface to the caller, unlike in the batch path.
func (s *Service) Summarize(ctx context.Context, userID, documentID string) (string, error) {
	if userID == "" || documentID == "" {
		return "", fmt.Errorf("%w: user and document ids are required", ErrInvalidRequest)
	}

	started := time.Now()
	summary, err := s.summarize(ctx, userID, documentID)
	metrics.SummarizeDurationSeconds.Observe(time.Since(started).Seconds())
	if err != nil {
		metrics.SummarizeTotal.WithLabelValues("error").Inc()
		return "", err
	}
	metrics.SummarizeTotal.WithLabelValues("success").Inc()
	return summary, nil
}

func (s *Service) summarize(ctx context.Context, userID, documentID string) (string, error) {
	doc, err := s.Repo.GetByID(ctx, userID, documentID)
	if err != nil {
		return "", err
	}

	if doc.HasSummary() {
		if embeddingCurrent(doc) {
			return doc.Summary, nil
		}
		embedding, err := s.Embedder.Embed(ctx, doc.Summary)
		if err != nil {
			return "", err
		}
		if err := s.Repo.UpdateEmbedding(ctx, userID, doc.ID, embedding, util.SHA256Hex(doc.Summary)); err != nil {
			return "", fmt.Errorf("persist embedding: %w", err)
		}
		return doc.Summary, nil
	}

	rc, err := s.Store.Open(ctx, doc.StorageKey)
	if err != nil {
		return "", fmt.Errorf("open stored file: %w", err)
	}
	data, err := io.ReadAll(rc)
	rc.Close()
	if err != nil {
		return "", fmt.Errorf("read stored file: %w", err)
	}

	// Upload-time validation makes an unsupported type here unreachable, but
	// the recorded mime type is still checked rather than trusted.
	text, err := extract.TextFromBytes(ctx, data, doc.MimeType)
	if err != nil {
		return "", err
	}

	summary, err := s.Summarizer.Summarize(ctx, text)
	if err != nil {
		return "", err
	}

	embedding, err := s.Embedder.Embed(ctx, summary)
	if err != nil {
		return "", err
	}

	if err := s.Repo.UpdateSummary(ctx, userID, doc.ID, summary, embedding, util.SHA256Hex(summary)); err != nil {
		return "", fmt.Errorf("persist summary: %w", err)
	}

	telemetry.Info("summaries.completed", map[string]any{
		"user_id":     userID,
		"document_id": doc.ID,
		"dimensions":  len(embedding),
	})
	return summary, nil
}

// Compare resolves every supplied document, ensures each has a current
// embedding (computing and persisting one when missing or stale), and returns
// the cosine similarity of the first two ids. Extra ids are resolved but do
// not contribute to the score.
func (s *Service) Compare(ctx context.Context, userID string, ids []string) (float64, error) {
	if len(ids) < 2 {
		return 0, fmt.Errorf("%w: provide at least two document ids to compare", ErrInvalidRequest)
	}

	embeddings := make([][]float32, 0, len(ids))
	for _, id := range ids {
		doc, err := s.Repo.GetByID(ctx, userID, id)
		if err != nil {
			metrics.CompareTotal.WithLabelValues("error").Inc()
			return 0, err
		}

		if !doc.HasSummary() {
			metrics.CompareTotal.WithLabelValues("error").Inc()
			return 0, fmt.Errorf("%w: document %s has no summary to compare", ErrInvalidRequest, doc.ID)
		}

		if embeddingCurrent(doc) {
			embeddings = append(embeddings, doc.SummaryEmbedding)
			continue
		}

		embedding, err := s.Embedder.Embed(ctx, doc.Summary)
		if err != nil {
			metrics.CompareTotal.WithLabelValues("error").Inc()
			return 0, err
		}
		if err := s.Repo.UpdateEmbedding(ctx, userID, doc.ID, embedding, util.SHA256Hex(doc.Summary)); err != nil {
			metrics.CompareTotal.WithLabelValues("error").Inc()
			return 0, fmt.Errorf("persist embedding: %w", err)
		}
		embeddings = append(embeddings, embedding)
	}

	similarity, err := CosineSimilarity(embeddings[0], embeddings[1])
	if err != nil {
		metrics.CompareTotal.WithLabelValues("error").Inc()
		return 0, err
	}
	metrics.CompareTotal.WithLabelValues("success").Inc()
	return similarity, nil
}

// embeddingCurrent reports whether the cached embedding still belongs to the
// stored summary text.
func embeddingCurrent(doc documents.Document) bool {
	return len(doc.SummaryEmbedding) > 0 && doc.SummaryHash == util.SHA256Hex(doc.Summary)
}

func summaryHashFor(summary string, embedding []float32) string {
	if len(embedding) == 0 {
		return ""
	}
	return util.SHA256Hex(summary)
}
