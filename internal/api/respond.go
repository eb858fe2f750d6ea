package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/abhishek991-rag/PFM-Backend/internal/models"
	"github.com/abhishek991-rag/PFM-Backend/internal/report"
)

const serverErrorMessage = "Server error"

// fail maps err to a status code. Unrecognized errors are logged and hidden
// behind a generic 500. noun names the resource in 404 messages.
func (h *Handler) fail(c *gin.Context, noun string, err error) {
	var (
		validationErr *models.ValidationError
		rangeErr      *models.DateRangeError
	)
	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{"message": validationErr.Message, "field": validationErr.Field})
	case errors.As(err, &rangeErr):
		c.JSON(http.StatusBadRequest, gin.H{"message": rangeErr.Reason})
	case errors.Is(err, models.ErrUnauthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"message": err.Error()})
	case errors.Is(err, models.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": noun + " not found"})
	case errors.Is(err, report.ErrNothingToChart):
		c.JSON(http.StatusNotFound, gin.H{"message": err.Error()})
	case errors.Is(err, models.ErrConflictingBudget):
		c.JSON(http.StatusConflict, gin.H{"message": err.Error()})
	default:
		h.log.Error().
			Err(err).
			Str("request_id", requestIDFrom(c)).
			Str("route", c.FullPath()).
			Msg("Request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": serverErrorMessage})
	}
}

// bind decodes the JSON body into dst. Malformed bodies are validation
// errors.
func bind(c *gin.Context, dst any) error {
	if err := c.ShouldBindJSON(dst); err != nil {
		var validationErr *models.ValidationError
		if errors.As(err, &validationErr) {
			return validationErr
		}
		return models.NewValidationError("body", "invalid request body")
	}
	return nil
}

// idParam parses the :id path segment.
func idParam(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, models.NewValidationError("id", "invalid id %q", c.Param("id"))
	}
	return id, nil
}
