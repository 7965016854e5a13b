package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/hooch88/justicar/internal/engine"
	"github.com/hooch88/justicar/internal/gmerrors"
)

type TurnHandler struct {
	orchestrator *engine.Orchestrator
	logger       *slog.Logger
}

func NewTurnHandler(orchestrator *engine.Orchestrator, logger *slog.Logger) *TurnHandler {
	return &TurnHandler{
		orchestrator: orchestrator,
		logger:       logger,
	}
}

type TurnRequestBody struct {
	CharacterName string `json:"character_name"`
	ActionText    string `json:"action_text"`
}

// ServeHTTP handles turn submission.
// Routes:
// POST /v1/campaigns/{id}/turns - Process one player action
func (h *TurnHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodPost {
		writeJSON(w, h.logger, http.StatusMethodNotAllowed,
			ErrorResponse{Error: "Method not allowed. Supported methods: POST"})
		return
	}

	path := strings.Trim(strings.TrimPrefix(r.URL.Path, "/v1/campaigns"), "/")
	parts := strings.SplitN(path, "/", 2)
	if len(parts) != 2 || parts[1] != "turns" {
		writeJSON(w, h.logger, http.StatusNotFound, ErrorResponse{Error: "Not found"})
		return
	}

	campaignID, err := uuid.Parse(parts[0])
	if err != nil {
		h.logger.Warn("Invalid campaign ID", "id", parts[0], "error", err)
		writeJSON(w, h.logger, http.StatusBadRequest,
			ErrorResponse{Error: "Invalid campaign ID format"})
		return
	}

	var body TurnRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, h.logger, gmerrors.InvalidArgument("invalid request body"))
		return
	}

	result, err := h.orchestrator.ProcessTurn(r.Context(), engine.TurnRequest{
		CampaignID:    campaignID,
		CharacterName: body.CharacterName,
		ActionText:    body.ActionText,
	})
	if err != nil {
		// The result still carries the structured error payload.
		writeJSON(w, h.logger, statusFor(err), result)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, result)
}
