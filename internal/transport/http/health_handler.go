package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"kabucli/internal/services"
)

// HealthHandler serves health and version endpoints.
type HealthHandler struct {
	service *services.HealthService
}

// NewHealthHandler creates a health handler.
func NewHealthHandler(service *services.HealthService) *HealthHandler {
	return &HealthHandler{service: service}
}

// Routes registers the health routes on the given router.
func (h *HealthHandler) Routes(r chi.Router) {
	r.Get("/health", h.Health)
	r.Get("/version", h.Version)
}

// Health handles GET /api/health.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	respondOK(w, r, h.service.Health())
}

// Version handles GET /api/version.
func (h *HealthHandler) Version(w http.ResponseWriter, r *http.Request) {
	respondOK(w, r, h.service.Version())
}
