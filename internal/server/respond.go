package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/scanworks/passport-scanner/internal/common"
)

// ErrorBody is the standardized error object.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps the error body.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

func respondError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, ErrorResponse{Error: ErrorBody{Code: code, Message: message}})
}

// respondAppError maps error categories onto HTTP statuses.
func respondAppError(c *gin.Context, err error) {
	var appErr *common.AppError
	msg := err.Error()
	if errors.As(err, &appErr) {
		msg = appErr.Message
	}
	switch {
	case errors.Is(err, common.ErrInvalidInput):
		respondError(c, http.StatusBadRequest, "invalid_input", msg)
	case errors.Is(err, common.ErrUnauthorized):
		respondError(c, http.StatusUnauthorized, "unauthorized", msg)
	case errors.Is(err, common.ErrNotFound):
		respondError(c, http.StatusNotFound, "not_found", msg)
	case errors.Is(err, common.ErrConflict):
		respondError(c, http.StatusConflict, "conflict", msg)
	default:
		respondError(c, http.StatusInternalServerError, "internal", "internal error")
	}
}
