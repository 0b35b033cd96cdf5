package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/Conceptual-Machines/music-track-generator/internal/logger"
	"github.com/Conceptual-Machines/music-track-generator/internal/models"
	"github.com/Conceptual-Machines/music-track-generator/internal/presets"
	"github.com/gin-gonic/gin"
)

const (
	detailValidation = "Validation error"
	detailInternal   = "Internal server error"
	bodyPrefix       = "body"
)

// ValidationErrorResponse is the 422 body for field-level failures
type ValidationErrorResponse struct {
	Detail string              `json:"detail"`
	Errors []models.FieldError `json:"errors"`
}

func respondValidation(c *gin.Context, vErr *models.ValidationError) {
	c.JSON(http.StatusUnprocessableEntity, ValidationErrorResponse{
		Detail: detailValidation,
		Errors: vErr.Errors,
	})
}

func respondDetail(c *gin.Context, status int, detail string) {
	c.JSON(status, gin.H{"detail": detail})
}

func presetNotFound(c *gin.Context, name string) {
	respondDetail(c, http.StatusNotFound, fmt.Sprintf("Preset '%s' not found", name))
}

// respondError maps domain errors onto status codes. Anything unrecognised is
// logged and reported as a generic 500.
func respondError(c *gin.Context, err error, name string, action string) {
	var vErr *models.ValidationError
	var loadErr *presets.LoadError

	switch {
	case errors.As(err, &vErr):
		respondValidation(c, vErr)
	case errors.Is(err, presets.ErrNotFound):
		presetNotFound(c, name)
	case errors.As(err, &loadErr):
		respondDetail(c, http.StatusUnprocessableEntity, loadErr.Error())
	default:
		fields := logger.WithContext(c)
		fields["action"] = action
		logger.Error("Request failed", err, fields)
		respondDetail(c, http.StatusInternalServerError, detailInternal)
	}
}

// bindJSON decodes the body, reporting decode failures as validation errors
func bindJSON(c *gin.Context, out any) bool {
	if err := c.ShouldBindJSON(out); err != nil {
		respondValidation(c, models.DecodeError(err, bodyPrefix))
		return false
	}
	return true
}
