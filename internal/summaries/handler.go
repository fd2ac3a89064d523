package summaries

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"docbrief-backend/internal/documents"
	"docbrief-backend/internal/llm"
	"docbrief-backend/internal/shared/server/middleware"
	"docbrief-backend/internal/shared/server/respond"
)

const maxBatchUploadSize = 50 << 20 // 50MB across the whole batch

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches summary routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/documents/upload-and-summarize", h.uploadAndSummarize)
	rg.POST("/documents/:id/summarize", h.summarize)
	rg.POST("/summaries/compare", h.compare)
}

type batchResponse struct {
	Summaries []BatchItem  `json:"summaries"`
	Errors    []BatchError `json:"errors,omitempty"`
}

func (h *Handler) uploadAndSummarize(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBatchUploadSize)

	form, err := c.MultipartForm()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "multipart form is required", nil)
		return
	}

	fileHeaders := form.File["documents"]
	if len(fileHeaders) == 0 {
		respond.Error(c, http.StatusBadRequest, "validation_error", "at least one file is required in the documents field", nil)
		return
	}

	files := make([]BatchFile, 0, len(fileHeaders))
	for _, fh := range fileHeaders {
		f, err := fh.Open()
		if err != nil {
			respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file "+fh.Filename, nil)
			return
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file "+fh.Filename, nil)
			return
		}
		files = append(files, BatchFile{
			FileName: fh.Filename,
			MimeType: fh.Header.Get("Content-Type"),
			Data:     data,
		})
	}

	result, err := h.Svc.UploadAndSummarize(c.Request.Context(), userID, files)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to process documents", nil)
		return
	}

	status := http.StatusCreated
	if result.Partial() {
		status = http.StatusMultiStatus
	}
	respond.JSON(c, status, batchResponse{Summaries: result.Summaries, Errors: result.Errors})
}

func (h *Handler) summarize(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	documentID := c.Param("id")

	summary, err := h.Svc.Summarize(c.Request.Context(), userID, documentID)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.Set("documentId", documentID)
	respond.JSON(c, http.StatusOK, gin.H{"summary": summary})
}

type compareRequest struct {
	IDs []string `json:"ids"`
}

func (h *Handler) compare(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var req compareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "request body must be JSON with an ids array", nil)
		return
	}

	similarity, err := h.Svc.Compare(c.Request.Context(), userID, req.IDs)
	if err != nil {
		h.writeError(c, err)
		return
	}

	respond.JSON(c, http.StatusOK, gin.H{"similarity": similarity})
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, documents.ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "document not found", nil)
	case errors.Is(err, ErrInvalidRequest):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	case errors.Is(err, llm.ErrNotConfigured):
		respond.Error(c, http.StatusServiceUnavailable, "llm_unavailable", "summarization is not configured", nil)
	case errors.Is(err, llm.ErrSummarizationFailed):
		respond.Error(c, http.StatusBadGateway, "summarization_failed", "failed to summarize document", nil)
	case errors.Is(err, llm.ErrEmbeddingFailed):
		respond.Error(c, http.StatusBadGateway, "embedding_failed", "failed to embed summary", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to process request", nil)
	}
}
