package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/nhle/dailytasks/internal/errors"
)

// APIError is the standard error response format.
type APIError struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// HandleError inspects the error type and writes the matching response.
// Internal failures are logged with their cause; the client only sees the
// failed operation.
func HandleError(c *gin.Context, logger *slog.Logger, err error) {
	var appErr *apperrors.Error
	if errors.As(err, &appErr) {
		status := appErr.HTTPStatus()
		if status >= http.StatusInternalServerError {
			logger.Error("request failed",
				"request_id", c.GetString(requestIDKey),
				"code", appErr.Code,
				"error", err,
			)
		}
		c.AbortWithStatusJSON(status, APIError{
			Error: appErr.What,
			Code:  string(appErr.Code),
		})
		return
	}

	logger.Error("unhandled error", "request_id", c.GetString(requestIDKey), "error", err)
	c.AbortWithStatusJSON(http.StatusInternalServerError, APIError{
		Error: "internal error",
		Code:  string(apperrors.CodeStorage),
	})
}

// badRequest writes a validation error for malformed input.
func badRequest(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, APIError{
		Error: message,
		Code:  string(apperrors.CodeValidation),
	})
}
