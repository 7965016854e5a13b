package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/hooch88/justicar/internal/engine"
	"github.com/hooch88/justicar/internal/gmerrors"
	"github.com/hooch88/justicar/pkg/campaign"
	"github.com/hooch88/justicar/pkg/character"
)

type CampaignHandler struct {
	lifecycle *engine.Lifecycle
	logger    *slog.Logger
}

func NewCampaignHandler(lifecycle *engine.Lifecycle, logger *slog.Logger) *CampaignHandler {
	return &CampaignHandler{
		lifecycle: lifecycle,
		logger:    logger,
	}
}

type CreateCampaignRequest struct {
	Name                string            `json:"name"`
	Duration            campaign.Duration `json:"duration"`
	Settings            campaign.Settings `json:"settings"`
	OpeningLocation     string            `json:"opening_location,omitempty"`
	OpeningLocationDesc string            `json:"opening_location_desc,omitempty"`
	QuestTitle          string            `json:"quest_title,omitempty"`
	QuestGoal           string            `json:"quest_goal,omitempty"`
}

type SituationRequest struct {
	CharacterName string `json:"character_name"`
}

type SituationResponse struct {
	Situation string `json:"situation"`
}

// ServeHTTP handles campaign lifecycle requests.
// Routes:
// POST /v1/campaigns                  - Start a new campaign
// GET /v1/campaigns/{id}              - Campaign status
// POST /v1/campaigns/{id}/characters  - Add a character
// POST /v1/campaigns/{id}/situation   - Generate a fresh situation
func (h *CampaignHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	path := strings.Trim(strings.TrimPrefix(r.URL.Path, "/v1/campaigns"), "/")

	if path == "" {
		if r.Method != http.MethodPost {
			writeJSON(w, h.logger, http.StatusMethodNotAllowed,
				ErrorResponse{Error: "Method not allowed. Supported methods: POST"})
			return
		}
		h.handleCreate(w, r)
		return
	}

	parts := strings.SplitN(path, "/", 2)
	campaignID, err := uuid.Parse(parts[0])
	if err != nil {
		h.logger.Warn("Invalid campaign ID", "id", parts[0], "error", err)
		writeJSON(w, h.logger, http.StatusBadRequest,
			ErrorResponse{Error: "Invalid campaign ID format"})
		return
	}

	switch {
	case len(parts) == 1 && r.Method == http.MethodGet:
		h.handleStatus(w, r, campaignID)
	case len(parts) == 2 && parts[1] == "characters" && r.Method == http.MethodPost:
		h.handleAddCharacter(w, r, campaignID)
	case len(parts) == 2 && parts[1] == "situation" && r.Method == http.MethodPost:
		h.handleSituation(w, r, campaignID)
	default:
		writeJSON(w, h.logger, http.StatusNotFound,
			ErrorResponse{Error: "Not found"})
	}
}

func (h *CampaignHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateCampaignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.logger, gmerrors.InvalidArgument("invalid request body"))
		return
	}

	out, err := h.lifecycle.StartCampaign(r.Context(), engine.StartInput{
		Name:                req.Name,
		Duration:            req.Duration,
		Settings:            req.Settings,
		OpeningLocation:     req.OpeningLocation,
		OpeningLocationDesc: req.OpeningLocationDesc,
		QuestTitle:          req.QuestTitle,
		QuestGoal:           req.QuestGoal,
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusCreated, out)
}

func (h *CampaignHandler) handleStatus(w http.ResponseWriter, r *http.Request, campaignID uuid.UUID) {
	status, err := h.lifecycle.Status(r.Context(), campaignID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, status)
}

func (h *CampaignHandler) handleAddCharacter(w http.ResponseWriter, r *http.Request, campaignID uuid.UUID) {
	var ch character.Character
	if err := json.NewDecoder(r.Body).Decode(&ch); err != nil {
		writeError(w, h.logger, gmerrors.InvalidArgument("invalid request body"))
		return
	}

	if err := h.lifecycle.AddCharacter(r.Context(), campaignID, &ch); err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusCreated, ch)
}

func (h *CampaignHandler) handleSituation(w http.ResponseWriter, r *http.Request, campaignID uuid.UUID) {
	var req SituationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.logger, gmerrors.InvalidArgument("invalid request body"))
		return
	}

	text, err := h.lifecycle.GenerateSituation(r.Context(), campaignID, req.CharacterName)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, SituationResponse{Situation: text})
}
