package http

import (
	"errors"
	"net/http"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/prodlens/backend/internal/domain"
)

// Response messages shared by handlers and middleware
const (
	msgInvalidBody         = "Invalid request body"
	msgNoToken             = "No token provided"
	msgInvalidToken        = "Invalid or expired token"
	msgInvalidCredentials  = "Invalid credentials"
	msgEmailInUse          = "Email already in use"
	msgUserNotFound        = "User not found"
	msgTooManyRequests     = "Too many requests"
	msgInternal            = "Server error"
	msgNeedTwoProducts     = "Need at least two products"
	msgNeedOneProduct      = "Provide at least one product"
	msgCompareFailed       = "Failed to compare products"
	msgSuggestFailed       = "Failed to suggest product"
	msgSummarizeFailed     = "Failed to summarize product"
	msgLoadSummaries       = "Failed to load summaries"
	msgLoadComparisons     = "Failed to load comparisons"
	msgMockProductsMissing = "Failed to load mock products"
)

// respondMessage writes the {"message": ...} body used by every error response
func respondMessage(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"message": message})
}

// respondError maps a domain error to a status code. Server-side failures
// are logged and answered with fallback so internals never leak.
func respondError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		respondMessage(c, http.StatusBadRequest, validationMessage(err))
	case errors.Is(err, domain.ErrInvalidCredentials):
		respondMessage(c, http.StatusUnauthorized, msgInvalidCredentials)
	case errors.Is(err, domain.ErrUnauthorized):
		respondMessage(c, http.StatusUnauthorized, msgInvalidToken)
	case errors.Is(err, domain.ErrNotFound):
		respondMessage(c, http.StatusNotFound, msgUserNotFound)
	case errors.Is(err, domain.ErrConflict):
		respondMessage(c, http.StatusConflict, msgEmailInUse)
	case errors.Is(err, domain.ErrAuthNotConfigured):
		respondMessage(c, http.StatusInternalServerError, domain.ErrAuthNotConfigured.Error())
	default:
		requestLogger(c).Error("request failed", zap.Error(err))
		respondMessage(c, http.StatusInternalServerError, fallback)
	}
}

// validationMessage strips the sentinel prefix from a wrapped validation
// error: "invalid request parameters: name is required" -> "Name is required".
func validationMessage(err error) string {
	msg := strings.TrimPrefix(err.Error(), domain.ErrValidation.Error())
	msg = strings.TrimPrefix(msg, ": ")
	if msg == "" {
		return msgInvalidBody
	}
	r, size := utf8.DecodeRuneInString(msg)
	return string(unicode.ToUpper(r)) + msg[size:]
}
