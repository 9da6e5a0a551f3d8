package domain

import "errors"

var (
	// ErrValidation is returned when request parameters are invalid
	ErrValidation = errors.New("invalid request parameters")

	// ErrScrapeFailed is returned when a product page cannot be fetched or parsed
	ErrScrapeFailed = errors.New("product page scrape failed")

	// ErrGeneration is returned when the text generation capability fails
	ErrGeneration = errors.New("text generation failed")

	// ErrGenerationUnavailable is returned when no text generation capability is configured
	ErrGenerationUnavailable = errors.New("text generation not configured")

	// ErrNotFound is returned when a stored record does not exist
	ErrNotFound = errors.New("record not found")

	// ErrConflict is returned when a unique record already exists
	ErrConflict = errors.New("record already exists")

	// ErrUnauthorized is returned when a token is missing, invalid or expired
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInvalidCredentials is returned when login credentials do not match
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrAuthNotConfigured is returned when no token secret is configured
	ErrAuthNotConfigured = errors.New("JWT secret not configured")

	// ErrStore is returned when the document store fails
	ErrStore = errors.New("document store failure")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")
)

// GenerationError carries the cause of a failed text generation call.
type GenerationError struct {
	Provider string
	Err      error
}

func (e *GenerationError) Error() string {
	return e.Provider + ": " + e.Err.Error()
}

func (e *GenerationError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrGeneration) match any GenerationError.
func (e *GenerationError) Is(target error) bool { return target == ErrGeneration }
