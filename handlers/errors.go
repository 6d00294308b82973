package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"ruraldraft-backend/llm"
	"ruraldraft-backend/service"
)

// Error codes returned in the error envelope.
const (
	CodeInvalidRequest   = "INVALID_REQUEST"
	CodeInvalidID        = "INVALID_ID"
	CodeNotFound         = "NOT_FOUND"
	CodeValidationFailed = "VALIDATION_FAILED"
	CodeAgentNotFound    = "AGENT_NOT_FOUND"
	CodeGenerationFailed = "GENERATION_FAILED"
	CodeInternal         = "INTERNAL_ERROR"
)

func respondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

// respondServiceError maps service errors onto the error envelope.
func respondServiceError(c *gin.Context, err error) {
	var verr *service.ValidationError
	var gerr *service.GenerationError

	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"success": false,
			"error": gin.H{
				"code":    CodeValidationFailed,
				"message": verr.Error(),
				"missing": verr.Missing,
			},
		})
	case errors.Is(err, service.ErrAgentNotFound):
		respondError(c, http.StatusNotFound, CodeAgentNotFound, err.Error())
	case errors.Is(err, llm.ErrUnknownProvider):
		respondError(c, http.StatusBadRequest, CodeInvalidRequest, err.Error())
	case errors.As(err, &gerr):
		respondError(c, http.StatusBadGateway, CodeGenerationFailed, gerr.Error())
	case errors.Is(err, service.ErrDocumentNotFound):
		respondError(c, http.StatusNotFound, CodeNotFound, "Document not found")
	case errors.Is(err, service.ErrExportNotFound):
		respondError(c, http.StatusNotFound, CodeNotFound, "Export not found")
	case errors.Is(err, service.ErrJobNotFound):
		respondError(c, http.StatusNotFound, CodeNotFound, "Job not found")
	default:
		respondError(c, http.StatusInternalServerError, CodeInternal, err.Error())
	}
}
