// Package handlers provides HTTP handlers for the REST API
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	assistantapp "github.com/caribbeanrecipe/assistant/internal/application/assistant"
	apperrors "github.com/caribbeanrecipe/assistant/pkg/errors"
	"go.uber.org/zap"
)

// unavailableMessage is the generic text returned when an upstream model or
// service failure propagates out of the orchestrator. Raw upstream errors
// never reach clients.
const unavailableMessage = "The assistant is temporarily unavailable. Please try again in a moment."

// AssistantHandlers handles assistant message requests
type AssistantHandlers struct {
	orchestrator *assistantapp.Orchestrator
	logger       *zap.Logger
}

// NewAssistantHandlers creates a new assistant handlers instance
func NewAssistantHandlers(orchestrator *assistantapp.Orchestrator, logger *zap.Logger) *AssistantHandlers {
	return &AssistantHandlers{
		orchestrator: orchestrator,
		logger:       logger,
	}
}

// APIResponse represents a standard API response
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// HandleMessage handles POST /api/v1/assistant/message
func (h *AssistantHandlers) HandleMessage(w http.ResponseWriter, r *http.Request) {
	var req assistantapp.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.logger, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeError(w, h.logger, http.StatusBadRequest, "message is required")
		return
	}

	resp, err := h.orchestrator.HandleMessage(r.Context(), req)
	if err != nil {
		h.logger.Error("assistant request failed", zap.Error(err))
		status := http.StatusBadGateway
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			status = appErr.StatusCode()
		}
		writeError(w, h.logger, status, unavailableMessage)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, APIResponse{Success: true, Data: resp})
}

// writeJSON writes a JSON response
func writeJSON(w http.ResponseWriter, logger *zap.Logger, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("Failed to encode JSON response", zap.Error(err))
	}
}

// writeError writes a JSON error response
func writeError(w http.ResponseWriter, logger *zap.Logger, status int, message string) {
	writeJSON(w, logger, status, APIResponse{Success: false, Error: message})
}
