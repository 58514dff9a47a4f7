package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/amhub/dataworld/internal/core/domain"
	"github.com/amhub/dataworld/internal/core/services"
)

// Common sentinel errors
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
)

// AppError represents an application-specific error with an HTTP status code.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new AppError.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// MapError maps domain and sentinel errors to an AppError with an appropriate HTTP status code.
func MapError(err error) *AppError {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	var transportErr *domain.TransportError
	switch {
	case errors.Is(err, domain.ErrCatalogNotLoaded):
		return NewAppError(http.StatusServiceUnavailable, "Catalog not loaded", err)
	case errors.Is(err, services.ErrUnknownProduct), errors.Is(err, ErrNotFound):
		return NewAppError(http.StatusNotFound, "Resource not found", err)
	case errors.Is(err, ErrInvalidInput):
		return NewAppError(http.StatusBadRequest, "Invalid request", err)
	case errors.As(err, &transportErr):
		return NewAppError(http.StatusBadGateway, "Submission could not be delivered", err)
	}

	return NewAppError(http.StatusInternalServerError, "Internal server error", err)
}

func handleError(c *gin.Context, err error) {
	appErr := MapError(err)
	body := gin.H{"error": appErr.Message}
	if appErr.Code < 500 && appErr.Err != nil {
		body["detail"] = appErr.Err.Error()
	}
	c.AbortWithStatusJSON(appErr.Code, body)
}
