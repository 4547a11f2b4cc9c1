// Package errors defines the structured API error responses shared by all
// HTTP handlers. Core pipeline errors stay typed inside internal/portfolio;
// they are translated into these response values only at the transport layer.
package errors

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/render"
)

// APIError represents a structured API error response.
type APIError struct {
	StatusCode int         `json:"status_code"`
	ErrorCode  string      `json:"error_code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return e.Message
}

// Render implements the render.Renderer interface for chi/render.
func (e *APIError) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.StatusCode)
	return nil
}

// New creates a new APIError with the given parameters.
func New(statusCode int, errorCode, message string) *APIError {
	return &APIError{
		StatusCode: statusCode,
		ErrorCode:  errorCode,
		Message:    message,
	}
}

// NewWithDetails creates a new APIError with additional details.
func NewWithDetails(statusCode int, errorCode, message string, details interface{}) *APIError {
	return &APIError{
		StatusCode: statusCode,
		ErrorCode:  errorCode,
		Message:    message,
		Details:    details,
	}
}

// Predefined error values for common scenarios.
var (
	ErrInvalidRequest    = New(http.StatusBadRequest, "INVALID_REQUEST", "Invalid request format")
	ErrValidationFailed  = New(http.StatusBadRequest, "VALIDATION_FAILED", "Request validation failed")
	ErrNotFound          = New(http.StatusNotFound, "NOT_FOUND", "Resource not found")
	ErrPayloadTooLarge   = New(http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE", "Uploaded file exceeds the size limit")
	ErrRateLimited       = New(http.StatusTooManyRequests, "RATE_LIMIT_EXCEEDED", "Rate limit exceeded")
	ErrInternalServer    = New(http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "Internal server error")
	ErrAdviceUnavailable = New(http.StatusServiceUnavailable, "ADVICE_UNAVAILABLE", "Advice service temporarily unavailable")
)

// Upload / parse error constructors.

// ErrInvalidFileType reports an upload with an unsupported file extension.
func ErrInvalidFileType(filename string) *APIError {
	return NewWithDetails(http.StatusBadRequest, "INVALID_FILE_TYPE",
		"CSVファイル以外はアップロードできません。", filename)
}

// ErrFileTooLarge reports an upload beyond the configured size cap.
func ErrFileTooLarge(size, limit int64) *APIError {
	return NewWithDetails(http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE",
		"ファイルサイズは5MB以下にしてください。",
		fmt.Sprintf("got %d bytes, limit %d bytes", size, limit))
}

// ErrDecodeFailed reports input undecodable under every attempted encoding.
func ErrDecodeFailed(err error) *APIError {
	return NewWithDetails(http.StatusBadRequest, "DECODE_FAILED",
		"CSVファイルの文字コードを判別できませんでした。", err.Error())
}

// ErrMalformedTable reports structurally broken tabular input.
func ErrMalformedTable(err error) *APIError {
	return NewWithDetails(http.StatusBadRequest, "MALFORMED_TABLE",
		"CSVファイルの解析に失敗しました。ファイル形式を確認してください。", err.Error())
}

// ErrMissingFields reports required columns absent after mapping.
func ErrMissingFields(err error) *APIError {
	return NewWithDetails(http.StatusUnprocessableEntity, "MISSING_REQUIRED_FIELDS",
		err.Error(), nil)
}

// ErrAggregationFailed reports an unexpected summary computation failure.
func ErrAggregationFailed(err error) *APIError {
	return NewWithDetails(http.StatusInternalServerError, "AGGREGATION_FAILED",
		"ポートフォリオ集計に失敗しました。", err.Error())
}

// ErrValidation creates a validation error with field details.
func ErrValidation(field, message string) *APIError {
	return NewWithDetails(http.StatusBadRequest, "VALIDATION_FAILED", "Request validation failed", ValidationError{
		Field:   field,
		Message: message,
	})
}

// ValidationError represents one failed request field.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors represents multiple validation errors.
type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

// NewValidationErrors creates a validation error carrying every failed field.
func NewValidationErrors(errors []ValidationError) *APIError {
	return NewWithDetails(
		http.StatusBadRequest,
		"VALIDATION_FAILED",
		"Request validation failed",
		ValidationErrors{Errors: errors},
	)
}

// ErrorResponse is the standard error envelope.
type ErrorResponse struct {
	Success bool      `json:"success"`
	Error   *APIError `json:"error"`
}

// NewErrorResponse creates a new error response envelope.
func NewErrorResponse(err *APIError) *ErrorResponse {
	return &ErrorResponse{
		Success: false,
		Error:   err,
	}
}

// Render implements the render.Renderer interface.
func (e *ErrorResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return e.Error.Render(w, r)
}

// WriteError writes an error envelope directly, for use outside chi/render.
func WriteError(w http.ResponseWriter, err *APIError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(err.StatusCode)
	json.NewEncoder(w).Encode(NewErrorResponse(err))
}
