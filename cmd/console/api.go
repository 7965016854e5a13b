package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"

	"github.com/hooch88/justicar/internal/engine"
	"github.com/hooch88/justicar/pkg/campaign"
	"github.com/hooch88/justicar/pkg/character"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

type createCampaignRequest struct {
	Name       string            `json:"name"`
	Duration   campaign.Duration `json:"duration"`
	Settings   campaign.Settings `json:"settings"`
	QuestTitle string            `json:"quest_title,omitempty"`
	QuestGoal  string            `json:"quest_goal,omitempty"`
}

type turnRequest struct {
	CharacterName string `json:"character_name"`
	ActionText    string `json:"action_text"`
}

type situationRequest struct {
	CharacterName string `json:"character_name"`
}

type situationResponse struct {
	Situation string `json:"situation"`
}

func testConnection(client *http.Client, baseURL string) bool {
	resp, err := client.Get(baseURL + "/health")
	if err != nil {
		return false
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	return resp.StatusCode == http.StatusOK
}

func createCampaign(client *http.Client, baseURL string, req createCampaignRequest) (*engine.StartOutput, error) {
	body, err := postJSON(client, baseURL+"/v1/campaigns", req, http.StatusCreated)
	if err != nil {
		return nil, fmt.Errorf("failed to create campaign: %w", err)
	}

	var out engine.StartOutput
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("failed to parse campaign response: %w", err)
	}
	return &out, nil
}

func addCharacter(client *http.Client, baseURL string, campaignID uuid.UUID, ch *character.Character) (*character.Character, error) {
	url := fmt.Sprintf("%s/v1/campaigns/%s/characters", baseURL, campaignID)
	body, err := postJSON(client, url, ch, http.StatusCreated)
	if err != nil {
		return nil, fmt.Errorf("failed to add character: %w", err)
	}

	var created character.Character
	if err := json.Unmarshal(body, &created); err != nil {
		return nil, fmt.Errorf("failed to parse character response: %w", err)
	}
	return &created, nil
}

func submitTurn(client *http.Client, baseURL string, campaignID uuid.UUID, characterName, actionText string) (*engine.TurnResult, error) {
	url := fmt.Sprintf("%s/v1/campaigns/%s/turns", baseURL, campaignID)
	body, err := postJSON(client, url, turnRequest{
		CharacterName: characterName,
		ActionText:    actionText,
	}, http.StatusOK)
	if err != nil {
		return nil, err
	}

	var result engine.TurnResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to parse turn response: %w", err)
	}
	return &result, nil
}

func requestSituation(client *http.Client, baseURL string, campaignID uuid.UUID, characterName string) (string, error) {
	url := fmt.Sprintf("%s/v1/campaigns/%s/situation", baseURL, campaignID)
	body, err := postJSON(client, url, situationRequest{CharacterName: characterName}, http.StatusOK)
	if err != nil {
		return "", err
	}

	var resp situationResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("failed to parse situation response: %w", err)
	}
	return resp.Situation, nil
}

func getStatus(client *http.Client, baseURL string, campaignID uuid.UUID) (*engine.CampaignStatus, error) {
	resp, err := client.Get(fmt.Sprintf("%s/v1/campaigns/%s", baseURL, campaignID))
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, apiError(resp.StatusCode, body)
	}

	var status engine.CampaignStatus
	if err := json.Unmarshal(body, &status); err != nil {
		return nil, fmt.Errorf("failed to parse status response: %w", err)
	}
	return &status, nil
}

func postJSON(client *http.Client, url string, payload any, wantStatus int) ([]byte, error) {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	resp, err := client.Post(url, "application/json", bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != wantStatus {
		return nil, apiError(resp.StatusCode, body)
	}
	return body, nil
}

func apiError(status int, body []byte) error {
	var errResp ErrorResponse
	if err := json.Unmarshal(body, &errResp); err != nil || errResp.Error == "" {
		return fmt.Errorf("API returned status %d: %s", status, string(body))
	}
	return fmt.Errorf("%s", errResp.Error)
}
