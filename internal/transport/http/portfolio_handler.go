package http

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"kabucli/internal/config"
	apierrors "kabucli/internal/errors"
	"kabucli/internal/portfolio"
)

// PortfolioService is the service interface the handler depends on.
type PortfolioService interface {
	ProcessUpload(ctx context.Context, filename string, data []byte, encodingHint string) (*portfolio.Result, error)
	SampleCSV() []byte
}

// PortfolioHandler serves portfolio upload and sample endpoints.
type PortfolioHandler struct {
	service PortfolioService
	cfg     config.UploadConfig
	logger  *slog.Logger
}

// NewPortfolioHandler creates a portfolio handler.
func NewPortfolioHandler(service PortfolioService, cfg config.UploadConfig, logger *slog.Logger) *PortfolioHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &PortfolioHandler{
		service: service,
		cfg:     cfg,
		logger:  logger.With(slog.String("handler", "portfolio")),
	}
}

// Routes registers the portfolio routes on the given router.
func (h *PortfolioHandler) Routes(r chi.Router) {
	r.Post("/portfolio/upload", h.Upload)
	r.Get("/portfolio/sample", h.Sample)
}

// Upload handles POST /api/portfolio/upload. The file arrives as multipart
// form field "file"; an optional "encoding" field hints the character
// encoding of the CSV.
func (h *PortfolioHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.cfg.MaxSize+1024)

	if err := r.ParseMultipartForm(h.cfg.MaxSize); err != nil {
		respondError(w, r, apierrors.ErrFileTooLarge(r.ContentLength, h.cfg.MaxSize))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, r, apierrors.New(http.StatusBadRequest, "MISSING_FILE", "multipart field \"file\" is required"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to read upload",
			slog.String("error", err.Error()))
		respondError(w, r, apierrors.ErrInternalServer)
		return
	}

	encodingHint := r.FormValue("encoding")

	result, err := h.service.ProcessUpload(r.Context(), header.Filename, data, encodingHint)
	if err != nil {
		respondError(w, r, mapUploadError(err, header.Filename, h.cfg.MaxSize))
		return
	}

	respondOK(w, r, result)
}

// Sample handles GET /api/portfolio/sample, serving the bundled sample CSV
// as a download.
func (h *PortfolioHandler) Sample(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="sample_portfolio.csv"`)
	w.WriteHeader(http.StatusOK)
	w.Write(h.service.SampleCSV())
}
