package error

import (
	"errors"
	"net/http"

	"github.com/edaplatform/eda-api/application/serializer"
	"github.com/edaplatform/eda-api/domain"
)

type AppError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
	// Fields holds per-field messages of a rejected body
	Fields map[string][]string `json:"fields,omitempty"`
}

func (e *AppError) Error() string {
	return e.Message
}

func NewBadRequest(message string) *AppError {
	return &AppError{Code: "BAD_REQUEST", Message: message, Status: http.StatusBadRequest}
}

func NewValidation(fields map[string][]string) *AppError {
	return &AppError{Code: "VALIDATION_ERROR", Message: "Invalid input", Status: http.StatusBadRequest, Fields: fields}
}

func NewNotFound(message string) *AppError {
	return &AppError{Code: "NOT_FOUND", Message: message, Status: http.StatusNotFound}
}

func NewInternalServer(message string) *AppError {
	return &AppError{Code: "INTERNAL_ERROR", Message: message, Status: http.StatusInternalServerError}
}

func NewConflict(message string) *AppError {
	return &AppError{Code: "CONFLICT", Message: message, Status: http.StatusConflict}
}

var notFoundErrors = []error{
	domain.ErrRulebookNotFound,
	domain.ErrProjectNotFound,
	domain.ErrOrganizationNotFound,
	domain.ErrAuditRuleNotFound,
}

func MapError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	var verrs serializer.ValidationErrors
	if errors.As(err, &verrs) {
		return NewValidation(verrs)
	}

	for _, target := range notFoundErrors {
		if errors.Is(err, target) {
			return NewNotFound(target.Error())
		}
	}

	if errors.Is(err, domain.ErrAlreadyExists) {
		return NewConflict(domain.ErrAlreadyExists.Error())
	}

	return NewInternalServer("An unexpected error occurred")
}
