package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	contentapp "github.com/caribbeanrecipe/assistant/internal/application/content"
	"github.com/caribbeanrecipe/assistant/internal/domain/content"
	"github.com/caribbeanrecipe/assistant/internal/ports/outbound"
	apperrors "github.com/caribbeanrecipe/assistant/pkg/errors"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const defaultListLimit = 20

// ContentHandlers handles editorial content requests
type ContentHandlers struct {
	service *contentapp.Service
	repo    outbound.ContentRepository
	logger  *zap.Logger
}

// NewContentHandlers creates a new content handlers instance
func NewContentHandlers(service *contentapp.Service, repo outbound.ContentRepository, logger *zap.Logger) *ContentHandlers {
	return &ContentHandlers{
		service: service,
		repo:    repo,
		logger:  logger,
	}
}

// GetFeatured handles GET /api/v1/content/featured
func (h *ContentHandlers) GetFeatured(w http.ResponseWriter, r *http.Request) {
	set, err := h.service.Featured(r.Context())
	if err != nil {
		h.writeAppError(w, err, "failed to load featured content")
		return
	}
	writeJSON(w, h.logger, http.StatusOK, APIResponse{Success: true, Data: set})
}

// ListTips handles GET /api/v1/content/tips
func (h *ContentHandlers) ListTips(w http.ResponseWriter, r *http.Request) {
	tips, err := h.repo.ListTips(r.Context(), defaultListLimit)
	if err != nil {
		h.writeAppError(w, err, "failed to list tips")
		return
	}
	writeJSON(w, h.logger, http.StatusOK, APIResponse{Success: true, Data: tips})
}

// ListHacks handles GET /api/v1/content/hacks
func (h *ContentHandlers) ListHacks(w http.ResponseWriter, r *http.Request) {
	hacks, err := h.repo.ListHacks(r.Context(), defaultListLimit)
	if err != nil {
		h.writeAppError(w, err, "failed to list hacks")
		return
	}
	writeJSON(w, h.logger, http.StatusOK, APIResponse{Success: true, Data: hacks})
}

// ListTrends handles GET /api/v1/content/trends
func (h *ContentHandlers) ListTrends(w http.ResponseWriter, r *http.Request) {
	trends, err := h.repo.ListTrends(r.Context(), defaultListLimit)
	if err != nil {
		h.writeAppError(w, err, "failed to list trends")
		return
	}
	writeJSON(w, h.logger, http.StatusOK, APIResponse{Success: true, Data: trends})
}

// GetBySlug handles GET /api/v1/content/{kind}/{slug}
func (h *ContentHandlers) GetBySlug(w http.ResponseWriter, r *http.Request) {
	kind := content.Kind(chi.URLParam(r, "kind"))
	slug := chi.URLParam(r, "slug")

	var (
		data interface{}
		err  error
	)
	switch kind {
	case content.KindTip:
		data, err = h.repo.TipBySlug(r.Context(), slug)
	case content.KindHack:
		data, err = h.repo.HackBySlug(r.Context(), slug)
	case content.KindTrend:
		data, err = h.repo.TrendBySlug(r.Context(), slug)
	default:
		writeError(w, h.logger, http.StatusBadRequest, "unknown content kind")
		return
	}
	if err != nil {
		h.writeAppError(w, err, "failed to load content")
		return
	}
	writeJSON(w, h.logger, http.StatusOK, APIResponse{Success: true, Data: data})
}

type generateRequest struct {
	Kind       string `json:"kind"`
	Category   string `json:"category,omitempty"`
	Difficulty string `json:"difficulty,omitempty"`
}

// Generate handles POST /api/v1/content/generate
func (h *ContentHandlers) Generate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.logger, http.StatusBadRequest, "invalid request body")
		return
	}

	kind := content.Kind(req.Kind)
	if req.Kind == "" {
		kind = content.KindTip
	}

	var (
		data interface{}
		err  error
	)
	switch kind {
	case content.KindTip:
		data, err = h.service.GenerateTip(r.Context(), req.Category)
	case content.KindHack:
		data, err = h.service.GenerateHack(r.Context(), req.Difficulty)
	case content.KindTrend:
		data, err = h.service.GenerateTrend(r.Context())
	default:
		writeError(w, h.logger, http.StatusBadRequest, "unknown content kind")
		return
	}
	if err != nil {
		h.writeAppError(w, err, unavailableMessage)
		return
	}
	writeJSON(w, h.logger, http.StatusCreated, APIResponse{Success: true, Data: data})
}

type batchRequest struct {
	Kind  string `json:"kind"`
	Count int    `json:"count"`
}

// GenerateBatch handles POST /api/v1/content/batch
func (h *ContentHandlers) GenerateBatch(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.logger, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Count <= 0 || req.Count > 25 {
		writeError(w, h.logger, http.StatusBadRequest, "count must be between 1 and 25")
		return
	}

	var (
		data interface{}
		err  error
	)
	switch content.Kind(req.Kind) {
	case content.KindTip:
		data, err = h.service.BatchGenerateTips(r.Context(), req.Count)
	case content.KindHack:
		data, err = h.service.BatchGenerateHacks(r.Context(), req.Count)
	default:
		writeError(w, h.logger, http.StatusBadRequest, "batch generation supports tips and hacks")
		return
	}
	if err != nil {
		h.writeAppError(w, err, unavailableMessage)
		return
	}
	writeJSON(w, h.logger, http.StatusCreated, APIResponse{Success: true, Data: data})
}

// GenerateDaily handles POST /api/v1/content/daily
func (h *ContentHandlers) GenerateDaily(w http.ResponseWriter, r *http.Request) {
	daily, err := h.service.GenerateDaily(r.Context())
	if err != nil {
		h.writeAppError(w, err, unavailableMessage)
		return
	}
	writeJSON(w, h.logger, http.StatusCreated, APIResponse{Success: true, Data: daily})
}

// RotateFeatured handles POST /api/v1/content/rotate
func (h *ContentHandlers) RotateFeatured(w http.ResponseWriter, r *http.Request) {
	if err := h.service.RotateFeatured(r.Context()); err != nil {
		h.writeAppError(w, err, "failed to rotate featured content")
		return
	}
	writeJSON(w, h.logger, http.StatusOK, APIResponse{Success: true})
}

type setFeaturedRequest struct {
	Featured bool `json:"featured"`
}

// SetFeatured handles PUT /api/v1/content/{kind}/{id}/featured
func (h *ContentHandlers) SetFeatured(w http.ResponseWriter, r *http.Request) {
	kind := content.Kind(chi.URLParam(r, "kind"))
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.logger, http.StatusBadRequest, "invalid content id")
		return
	}

	var req setFeaturedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.logger, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.service.SetFeatured(r.Context(), kind, id, req.Featured); err != nil {
		h.writeAppError(w, err, "failed to update featured flag")
		return
	}
	writeJSON(w, h.logger, http.StatusOK, APIResponse{Success: true})
}

// writeAppError maps an application error to its HTTP status, hiding internal
// detail behind the fallback message.
func (h *ContentHandlers) writeAppError(w http.ResponseWriter, err error, fallback string) {
	h.logger.Error("content request failed", zap.Error(err))

	status := http.StatusInternalServerError
	message := fallback
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		status = appErr.StatusCode()
		if status < http.StatusInternalServerError {
			message = appErr.Message
		}
	}
	writeError(w, h.logger, status, message)
}
