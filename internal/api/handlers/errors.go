package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"maritime-forecast/internal/api/models"
	"maritime-forecast/internal/model"
)

func abortWithError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, models.ErrorResponse{
		Error: models.ErrorDetail{Code: code, Message: message},
	})
}

// abortWithRunError maps data errors to 422 and everything else to 500.
func abortWithRunError(c *gin.Context, err error) {
	status, code := http.StatusInternalServerError, "INTERNAL_ERROR"
	var details map[string]any

	var dup *model.DuplicateKeyError
	switch {
	case errors.As(err, &dup):
		status, code = http.StatusUnprocessableEntity, "DUPLICATE_KEY"
		details = map[string]any{"table": dup.Table, "key": dup.Key}
	case errors.Is(err, model.ErrDivisionByZero):
		status, code = http.StatusUnprocessableEntity, "DIVISION_BY_ZERO"
	case errors.Is(err, model.ErrInsufficientHistory):
		status, code = http.StatusUnprocessableEntity, "INSUFFICIENT_HISTORY"
	case errors.Is(err, model.ErrInvalidRecord):
		status, code = http.StatusUnprocessableEntity, "INVALID_RECORD"
	}
	c.AbortWithStatusJSON(status, models.ErrorResponse{
		Error: models.ErrorDetail{Code: code, Message: err.Error(), Details: details},
	})
}
