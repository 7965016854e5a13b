package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/hooch88/justicar/internal/engine"
	"github.com/hooch88/justicar/internal/narrative"
	"github.com/hooch88/justicar/internal/storage"
	"github.com/hooch88/justicar/pkg/campaign"
	"github.com/hooch88/justicar/pkg/character"
	"github.com/hooch88/justicar/pkg/check"
	"github.com/hooch88/justicar/pkg/intent"
	"github.com/hooch88/justicar/pkg/world"
)

func newTurnHandler(t *testing.T) (*TurnHandler, uuid.UUID) {
	t.Helper()
	logger := testLogger()
	store := storage.NewMemory()
	ctx := context.Background()

	c := campaign.New("Test Campaign", campaign.DurationShort, campaign.Settings{})
	c.CurrentLocation = "Village Square"
	if err := store.SaveLocation(ctx, &world.Location{
		CampaignID: c.ID, Name: "Village Square",
	}); err != nil {
		t.Fatalf("Failed to save location: %v", err)
	}
	if err := store.SaveCampaign(ctx, c); err != nil {
		t.Fatalf("Failed to save campaign: %v", err)
	}
	ch := &character.Character{
		ID: uuid.New(), CampaignID: c.ID, Name: "Aragorn", Level: 1,
	}
	if err := store.SaveCharacter(ctx, ch); err != nil {
		t.Fatalf("Failed to save character: %v", err)
	}

	tracker := engine.NewTracker(store, logger)
	orchestrator := engine.NewOrchestrator(store, tracker, intent.NewKeywordInterpreter(),
		check.NewResolver(nil), narrative.NewMock(), 0, logger)
	return NewTurnHandler(orchestrator, logger), c.ID
}

func TestTurnHandler_ProcessTurn(t *testing.T) {
	handler, campaignID := newTurnHandler(t)

	reqBody := `{"character_name":"Aragorn","action_text":"I look around the square"}`
	req := httptest.NewRequest(http.MethodPost,
		"/v1/campaigns/"+campaignID.String()+"/turns", strings.NewReader(reqBody))
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d. Response body: %s", rr.Code, rr.Body.String())
	}

	var result engine.TurnResult
	if err := json.NewDecoder(rr.Body).Decode(&result); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if result.DMResponse == "" {
		t.Error("Expected narration in response")
	}
	if result.Err != "" {
		t.Errorf("Unexpected error payload: %s", result.Err)
	}
}

func TestTurnHandler_EmptyAction(t *testing.T) {
	handler, campaignID := newTurnHandler(t)

	reqBody := `{"character_name":"Aragorn","action_text":"   "}`
	req := httptest.NewRequest(http.MethodPost,
		"/v1/campaigns/"+campaignID.String()+"/turns", strings.NewReader(reqBody))
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("Expected status 400, got %d", rr.Code)
	}

	var result engine.TurnResult
	if err := json.NewDecoder(rr.Body).Decode(&result); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if result.Err == "" {
		t.Error("Expected error payload")
	}
	if !result.RequiresNewAction {
		t.Error("Expected requires_new_action to be set")
	}
}

func TestTurnHandler_UnknownCampaign(t *testing.T) {
	handler, _ := newTurnHandler(t)

	reqBody := `{"character_name":"Aragorn","action_text":"I wait"}`
	req := httptest.NewRequest(http.MethodPost,
		"/v1/campaigns/"+uuid.NewString()+"/turns", strings.NewReader(reqBody))
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d. Response body: %s", rr.Code, rr.Body.String())
	}
}

func TestTurnHandler_MethodNotAllowed(t *testing.T) {
	handler, campaignID := newTurnHandler(t)

	req := httptest.NewRequest(http.MethodGet,
		"/v1/campaigns/"+campaignID.String()+"/turns", nil)
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusMethodNotAllowed {
		t.Errorf("Expected status 405, got %d", rr.Code)
	}
}
