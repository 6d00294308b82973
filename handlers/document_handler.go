package handlers

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"ruraldraft-backend/internal/logger"
	"ruraldraft-backend/models"
	"ruraldraft-backend/render"
	"ruraldraft-backend/service"
)

// DocumentService is the part of service.DocumentService the handler uses.
type DocumentService interface {
	Generate(ctx context.Context, req service.GenerateDocumentRequest) (*service.GenerateDocumentResult, error)
	Preview(ctx context.Context, req service.PreviewRequest) (*render.Document, error)
	GetDocument(ctx context.Context, id uuid.UUID) (*models.Document, error)
	ListDocuments(ctx context.Context, limit, offset int) ([]*models.Document, error)
	GetJobStatus(ctx context.Context, id uuid.UUID) (*models.GenerationJob, error)
	Export(ctx context.Context, documentID uuid.UUID) (*models.DocumentExport, error)
	ListExports(ctx context.Context, documentID uuid.UUID) ([]*models.DocumentExport, error)
	OpenExport(ctx context.Context, id uuid.UUID) (*models.DocumentExport, io.ReadCloser, error)
}

// DocumentHandler handles HTTP requests for petitions and their exports
type DocumentHandler struct {
	documents DocumentService
	logger    logger.Logger
}

// NewDocumentHandler creates a new document handler
func NewDocumentHandler(documents DocumentService, log logger.Logger) *DocumentHandler {
	return &DocumentHandler{
		documents: documents,
		logger:    logger.OrNop(log),
	}
}

// GenerateDocumentRequest represents the request body for generating a petition
type GenerateDocumentRequest struct {
	AgentType         string          `json:"agent_type" binding:"required"`
	Provider          string          `json:"provider"`
	DocType           string          `json:"doc_type"`
	CaseData          models.CaseData `json:"case_data"`
	Template          string          `json:"template"`
	SystemInstruction string          `json:"system_instruction"`
	Signers           []models.Signer `json:"signers"`
	Office            *models.Office  `json:"office"`
	GeneratedBy       string          `json:"generated_by"`
}

// Generate handles POST /api/documents/generate
func (h *DocumentHandler) Generate(c *gin.Context) {
	var req GenerateDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, CodeInvalidRequest, err.Error())
		return
	}

	result, err := h.documents.Generate(c.Request.Context(), service.GenerateDocumentRequest{
		AgentType:         req.AgentType,
		Provider:          req.Provider,
		DocType:           req.DocType,
		CaseData:          req.CaseData,
		Template:          req.Template,
		SystemInstruction: req.SystemInstruction,
		Signers:           req.Signers,
		Office:            req.Office,
		GeneratedBy:       req.GeneratedBy,
	})
	if err != nil {
		h.logger.Warn("document generation failed", map[string]interface{}{
			"agent_type": req.AgentType,
			"error":      err.Error(),
		})
		respondServiceError(c, err)
		return
	}

	data := gin.H{
		"id":             result.Document.ID,
		"code":           result.Document.Code,
		"status":         result.Document.Status,
		"result":         result.Document.Result,
		"html":           result.Document.HTML,
		"total":          result.Rendered.Total,
		"total_in_words": result.Rendered.TotalInWords,
	}
	if result.JobID != uuid.Nil {
		data["job_id"] = result.JobID
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    data,
	})
}

// PreviewRequest represents the request body for a preview
type PreviewRequest struct {
	AgentType   string                   `json:"agent_type" binding:"required"`
	CaseData    models.CaseData          `json:"case_data"`
	Result      *models.StructuredResult `json:"result"`
	Signers     []models.Signer          `json:"signers"`
	Office      *models.Office           `json:"office"`
	GeneratedBy string                   `json:"generated_by"`
}

// Preview handles POST /api/documents/preview
func (h *DocumentHandler) Preview(c *gin.Context) {
	var req PreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, CodeInvalidRequest, err.Error())
		return
	}

	doc, err := h.documents.Preview(c.Request.Context(), service.PreviewRequest{
		AgentType:   req.AgentType,
		CaseData:    req.CaseData,
		Result:      req.Result,
		Signers:     req.Signers,
		Office:      req.Office,
		GeneratedBy: req.GeneratedBy,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    doc,
	})
}

// GetDocument handles GET /api/documents/:id
func (h *DocumentHandler) GetDocument(c *gin.Context) {
	id, ok := parseID(c, "document")
	if !ok {
		return
	}

	doc, err := h.documents.GetDocument(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    doc,
	})
}

// ListDocuments handles GET /api/documents
func (h *DocumentHandler) ListDocuments(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil {
		respondError(c, http.StatusBadRequest, CodeInvalidRequest, "limit must be a number")
		return
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil {
		respondError(c, http.StatusBadRequest, CodeInvalidRequest, "offset must be a number")
		return
	}

	docs, err := h.documents.ListDocuments(c.Request.Context(), limit, offset)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    docs,
	})
}

// GetJobStatus handles GET /api/jobs/:id
func (h *DocumentHandler) GetJobStatus(c *gin.Context) {
	id, ok := parseID(c, "job")
	if !ok {
		return
	}

	job, err := h.documents.GetJobStatus(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    job,
	})
}

// ExportDocument handles POST /api/documents/:id/export
func (h *DocumentHandler) ExportDocument(c *gin.Context) {
	id, ok := parseID(c, "document")
	if !ok {
		return
	}

	export, err := h.documents.Export(c.Request.Context(), id)
	if err != nil {
		h.logger.Error("document export failed", map[string]interface{}{
			"document_id": id.String(),
			"error":       err.Error(),
		})
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    export,
	})
}

// ListExports handles GET /api/documents/:id/exports
func (h *DocumentHandler) ListExports(c *gin.Context) {
	id, ok := parseID(c, "document")
	if !ok {
		return
	}

	exports, err := h.documents.ListExports(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    exports,
	})
}

// GetExport handles GET /api/exports/:id
func (h *DocumentHandler) GetExport(c *gin.Context) {
	id, ok := parseID(c, "export")
	if !ok {
		return
	}

	export, reader, err := h.documents.OpenExport(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	defer reader.Close()

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", export.Filename))
	c.Header("X-Checksum-Blake2b", export.Checksum)
	c.DataFromReader(http.StatusOK, export.Size, export.MimeType, reader, nil)
}

func parseID(c *gin.Context, kind string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, CodeInvalidID, fmt.Sprintf("Invalid %s ID format", kind))
		return uuid.Nil, false
	}
	return id, true
}
