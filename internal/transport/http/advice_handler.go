package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	apierrors "kabucli/internal/errors"
	"kabucli/internal/portfolio"
	"kabucli/internal/services"
)

// AdviceProvider is the service interface the advice handler depends on.
type AdviceProvider interface {
	Enabled() bool
	GetAdvice(ctx context.Context, result *portfolio.Result, customPrompt, modelOverride string) (*services.Advice, error)
}

// AdviceRequest is the POST /api/advice payload: a previously parsed
// portfolio plus optional prompt and model overrides.
type AdviceRequest struct {
	Portfolio *portfolio.Result `json:"portfolio" validate:"required"`
	Prompt    string            `json:"prompt" validate:"omitempty,max=2000"`
	Model     string            `json:"model" validate:"omitempty,max=100"`
}

// Bind implements render.Binder.
func (req *AdviceRequest) Bind(r *http.Request) error {
	if req.Portfolio == nil {
		return errors.New("portfolio is required")
	}
	return nil
}

// AdviceHandler serves the portfolio advice endpoint.
type AdviceHandler struct {
	service  AdviceProvider
	validate *validator.Validate
	logger   *slog.Logger
}

// NewAdviceHandler creates an advice handler.
func NewAdviceHandler(service AdviceProvider, logger *slog.Logger) *AdviceHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AdviceHandler{
		service:  service,
		validate: validator.New(),
		logger:   logger.With(slog.String("handler", "advice")),
	}
}

// Routes registers the advice routes on the given router.
func (h *AdviceHandler) Routes(r chi.Router) {
	r.Post("/advice", h.Advise)
}

// Advise handles POST /api/advice.
func (h *AdviceHandler) Advise(w http.ResponseWriter, r *http.Request) {
	var req AdviceRequest
	if err := render.Bind(r, &req); err != nil {
		respondError(w, r, apierrors.ErrInvalidRequest)
		return
	}

	if err := h.validate.Struct(&req); err != nil {
		respondError(w, r, validationErrors(err))
		return
	}

	advice, err := h.service.GetAdvice(r.Context(), req.Portfolio, req.Prompt, req.Model)
	if err != nil {
		if errors.Is(err, services.ErrAdviceDisabled) {
			respondError(w, r, apierrors.ErrAdviceUnavailable)
			return
		}
		h.logger.ErrorContext(r.Context(), "advice request failed",
			slog.String("error", err.Error()))
		respondError(w, r, apierrors.ErrAdviceUnavailable)
		return
	}

	respondOK(w, r, advice)
}

// validationErrors converts validator errors into the API error envelope.
func validationErrors(err error) *apierrors.APIError {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apierrors.ErrValidationFailed
	}

	fields := make([]apierrors.ValidationError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, apierrors.ValidationError{
			Field:   fe.Field(),
			Message: fe.Tag(),
		})
	}
	return apierrors.NewValidationErrors(fields)
}
