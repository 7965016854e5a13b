// Package event holds the append-only turn record log.
package event

import (
	"time"

	"github.com/google/uuid"

	"github.com/hooch88/justicar/pkg/check"
	"github.com/hooch88/justicar/pkg/intent"
)

// Type classifies a turn record.
type Type string

const (
	// TypeAction is a normal player-initiated turn.
	TypeAction Type = "action"
	// TypeSituation is a generated situation prompt with no state mutation.
	TypeSituation Type = "situation"
	// TypeOpening is the campaign's opening scene.
	TypeOpening Type = "opening"
)

// TurnRecord is one entry in a campaign's event log. Records are append-only
// and never mutated after creation; every record references an existing
// campaign and character.
type TurnRecord struct {
	ID            uuid.UUID      `json:"id"`
	CampaignID    uuid.UUID      `json:"campaign_id"`
	CharacterName string         `json:"character_name"`
	Type          Type           `json:"type"`
	Timestamp     time.Time      `json:"timestamp"`
	ActionText    string         `json:"action_text,omitempty"`
	Intent        *intent.Intent `json:"intent,omitempty"`
	Check         *check.Result  `json:"check,omitempty"`
	Narrative     string         `json:"narrative"`
	FlagsChanged  []string       `json:"flags_changed,omitempty"`
}

// New creates a turn record stamped with the current time.
func New(campaignID uuid.UUID, characterName string, typ Type) *TurnRecord {
	return &TurnRecord{
		ID:            uuid.New(),
		CampaignID:    campaignID,
		CharacterName: characterName,
		Type:          typ,
		Timestamp:     time.Now().UTC(),
	}
}
