package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/safetrack-dev/safetrack/internal/apperrors"
)

// respondError maps the domain error taxonomy onto HTTP statuses. Anything
// outside the taxonomy is a storage or programming failure and stays opaque.
func respondError(ctx *gin.Context, err error) {
	switch {
	case apperrors.IsValidation(err):
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case apperrors.IsNotFound(err):
		ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case apperrors.IsDuplicateType(err):
		ctx.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		log.Printf("Unexpected error: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
