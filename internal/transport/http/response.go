// Package http contains the HTTP handlers for the API server.
package http

import (
	"errors"
	"net/http"

	"github.com/go-chi/render"

	apierrors "kabucli/internal/errors"
	"kabucli/internal/portfolio"
	"kabucli/internal/services"
)

// SuccessResponse is the standard success envelope.
type SuccessResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
}

func respondOK(w http.ResponseWriter, r *http.Request, data interface{}) {
	render.Status(r, http.StatusOK)
	render.JSON(w, r, SuccessResponse{Success: true, Data: data})
}

func respondError(w http.ResponseWriter, r *http.Request, apiErr *apierrors.APIError) {
	render.Status(r, apiErr.StatusCode)
	render.JSON(w, r, apierrors.NewErrorResponse(apiErr))
}

// mapUploadError translates service and pipeline errors into API errors.
func mapUploadError(err error, filename string, sizeLimit int64) *apierrors.APIError {
	var (
		decodeErr  *portfolio.DecodeError
		tableErr   *portfolio.MalformedTableError
		missingErr *portfolio.MissingRequiredFieldError
		aggErr     *portfolio.AggregationError
	)

	switch {
	case errors.Is(err, services.ErrInvalidFileType):
		return apierrors.ErrInvalidFileType(filename)
	case errors.Is(err, services.ErrFileTooLarge):
		return apierrors.ErrFileTooLarge(0, sizeLimit)
	case errors.Is(err, services.ErrEmptyFile),
		errors.Is(err, services.ErrWorkbookNoSheet):
		return apierrors.ErrMalformedTable(err)
	case errors.As(err, &decodeErr):
		return apierrors.ErrDecodeFailed(err)
	case errors.As(err, &tableErr):
		return apierrors.ErrMalformedTable(err)
	case errors.As(err, &missingErr):
		return apierrors.ErrMissingFields(err)
	case errors.As(err, &aggErr):
		return apierrors.ErrAggregationFailed(err)
	default:
		return apierrors.ErrInternalServer
	}
}
