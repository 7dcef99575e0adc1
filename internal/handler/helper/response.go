package helper

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/excellent-grade/gradetest-api/internal/pkg/errors"
)

// Data writes a successful response wrapped in the {"data": ...} envelope.
func Data(c *gin.Context, status int, payload interface{}) {
	c.JSON(status, gin.H{"data": payload})
}

// Message writes a plain {"message": ...} response.
func Message(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"message": message})
}

// Error maps a service error to an HTTP status and writes the
// {"message": ...} error body.
func Error(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		Message(c, http.StatusNotFound, err.Error())
	case errors.Is(err, apperrors.ErrValidation):
		Message(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, apperrors.ErrUnauthorized):
		Message(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, apperrors.ErrForbidden):
		Message(c, http.StatusForbidden, err.Error())
	case errors.Is(err, apperrors.ErrConflict):
		Message(c, http.StatusConflict, err.Error())
	default:
		log.Printf("[HTTP] internal error on %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		Message(c, http.StatusInternalServerError, "internal server error")
	}
}
