package utils

import (
	"errors"
	"net/http"

	"bookfair/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorResponse defines the structure of error responses
type ErrorResponse struct {
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
	Code    string `json:"code,omitempty"`
}

// ErrorHandler is a middleware to catch panics and return structured errors
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				GetLogger().Error("Unhandled panic", zap.Any("error", err))

				c.JSON(http.StatusInternalServerError, ErrorResponse{
					Message: "Internal Server Error",
					Details: "An unexpected error occurred. Please try again later.",
				})
				c.Abort()
			}
		}()
		c.Next()
	}
}

// JSONError sends a standardized JSON error response
func JSONError(c *gin.Context, status int, message string, details string) {
	GetLogger().Warn(message, zap.String("details", details), zap.Int("status", status))
	c.JSON(status, ErrorResponse{Message: message, Details: details})
}

var statusByCode = map[string]int{
	models.CodeNotFound:          http.StatusNotFound,
	models.CodeStallUnavailable:  http.StatusConflict,
	models.CodeConflict:          http.StatusConflict,
	models.CodeCapacityExceeded:  http.StatusConflict,
	models.CodeInvalidTransition: http.StatusUnprocessableEntity,
	models.CodeInvalidCredential: http.StatusUnprocessableEntity,
	models.CodeValidation:        http.StatusBadRequest,
	models.CodeForbidden:         http.StatusForbidden,
	models.CodeUnauthorized:      http.StatusUnauthorized,
}

var messageByCode = map[string]string{
	models.CodeNotFound:          "Not found",
	models.CodeStallUnavailable:  "Stall is no longer available",
	models.CodeConflict:          "Reservation is no longer approvable",
	models.CodeCapacityExceeded:  "Vendor has reached the confirmed stall limit",
	models.CodeInvalidTransition: "Reservation cannot make this transition",
	models.CodeInvalidCredential: "Credential is not valid",
	models.CodeValidation:        "Invalid request",
	models.CodeForbidden:         "Forbidden",
	models.CodeUnauthorized:      "Unauthorized",
}

// HTTPStatus maps a domain error to its HTTP status.
func HTTPStatus(err error) int {
	if status, ok := statusByCode[models.ErrorCode(err)]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// RespondError writes err as a JSON error envelope with the mapped status.
// Errors without a domain code are logged and hidden behind a generic message.
func RespondError(c *gin.Context, err error) {
	code := models.ErrorCode(err)
	status := HTTPStatus(err)
	if status == http.StatusInternalServerError {
		GetLogger().Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(status, ErrorResponse{Message: "Internal Server Error"})
		return
	}

	var appErr *models.AppError
	details := err.Error()
	if errors.As(err, &appErr) && appErr.Message != "" {
		details = appErr.Message
	}
	GetLogger().Info("request rejected", zap.String("path", c.FullPath()), zap.String("code", code), zap.String("details", details))
	c.JSON(status, ErrorResponse{Message: messageByCode[code], Details: details, Code: code})
}
