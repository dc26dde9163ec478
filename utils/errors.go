// utils/errors.go
package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorKind classifies domain-rule violations so callers can branch on
// structure instead of matching message text.
type ErrorKind int

const (
	KindNotFound ErrorKind = iota + 1
	KindInvalidState
	KindUnauthorized
	KindConflict
)

type AppError struct {
	Kind    ErrorKind
	Message string
}

func (e *AppError) Error() string { return e.Message }

func NotFound(msg string) *AppError     { return &AppError{Kind: KindNotFound, Message: msg} }
func InvalidState(msg string) *AppError { return &AppError{Kind: KindInvalidState, Message: msg} }
func Unauthorized(msg string) *AppError { return &AppError{Kind: KindUnauthorized, Message: msg} }
func Conflict(msg string) *AppError     { return &AppError{Kind: KindConflict, Message: msg} }

// KindOf returns the error's kind, or 0 for non-domain errors.
func KindOf(err error) ErrorKind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return 0
}

func RespondWithError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

// RespondWithAppError maps domain error kinds to HTTP statuses; anything
// unclassified is a 500.
func RespondWithAppError(c *gin.Context, err error) {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		RespondWithError(c, http.StatusInternalServerError, "Internal error")
		return
	}
	status := http.StatusInternalServerError
	switch appErr.Kind {
	case KindNotFound:
		status = http.StatusNotFound
	case KindInvalidState:
		status = http.StatusUnprocessableEntity
	case KindUnauthorized:
		status = http.StatusUnauthorized
	case KindConflict:
		status = http.StatusConflict
	}
	RespondWithError(c, status, appErr.Message)
}
